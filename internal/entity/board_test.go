package entity

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rocketscienceinc/tictactoe-sessions/internal/apperror"
)

func boardOf(rows ...string) Board {
	var board Board
	for i, row := range rows {
		for j, ch := range row {
			switch ch {
			case 'X':
				board[i][j] = MarkX
			case 'O':
				board[i][j] = MarkO
			}
		}
	}

	return board
}

func TestBoard_ApplyMove(t *testing.T) {
	t.Run("Places mark on empty cell", func(t *testing.T) {
		// Given: an empty board
		var board Board

		// When: X plays the center
		err := board.ApplyMove(1, 1, MarkX)

		// Then: the mark is placed
		require.NoError(t, err)
		assert.Equal(t, MarkX, board[1][1])
	})

	t.Run("Rejects occupied cell", func(t *testing.T) {
		// Given: a board with X in the corner
		board := boardOf("X..", "...", "...")

		// When: O plays the same corner
		err := board.ApplyMove(0, 0, MarkO)

		// Then: ErrCellOccupied is returned and the board is unchanged
		require.ErrorIs(t, err, apperror.ErrCellOccupied)
		assert.ErrorIs(t, err, apperror.ErrInvalidMove)
		assert.Equal(t, boardOf("X..", "...", "..."), board)
	})

	for _, pos := range [][2]int{{-1, 0}, {0, -1}, {3, 0}, {0, 3}, {5, 5}} {
		t.Run("Rejects out of bounds", func(t *testing.T) {
			var board Board

			err := board.ApplyMove(pos[0], pos[1], MarkX)

			require.ErrorIs(t, err, apperror.ErrOutOfBounds)
			assert.Equal(t, Board{}, board)
		})
	}
}

func TestBoard_EvaluateOutcome(t *testing.T) {
	t.Run("Detects every line", func(t *testing.T) {
		for _, line := range WinLines {
			// Given: a board with only this line filled by O
			var board Board
			for _, cell := range line {
				board[cell[0]][cell[1]] = MarkO
			}

			// When: evaluating the board
			outcome := board.EvaluateOutcome()

			// Then: O wins
			assert.Equal(t, Outcome{Kind: OutcomeWin, Mark: MarkO}, outcome, "line %v", line)
		}
	})

	t.Run("Reports draw on full board without line", func(t *testing.T) {
		board := boardOf("XOX", "XOO", "OXX")

		assert.Equal(t, Outcome{Kind: OutcomeDraw}, board.EvaluateOutcome())
	})

	t.Run("Reports win when the last move fills the board and a line", func(t *testing.T) {
		// Given: a full board where X holds the main diagonal
		board := boardOf("XOX", "OXO", "OXX")

		// Then: the win is reported, not a draw
		assert.True(t, board.IsFull())
		assert.Equal(t, Outcome{Kind: OutcomeWin, Mark: MarkX}, board.EvaluateOutcome())
	})

	t.Run("Reports ongoing game", func(t *testing.T) {
		board := boardOf("XO.", ".X.", "..O")

		assert.Equal(t, Outcome{Kind: OutcomeOngoing}, board.EvaluateOutcome())
	})
}

func TestBoard_Snapshot(t *testing.T) {
	// Given: a board with a few marks
	board := boardOf("XXX", "OO.", "...")

	// When: taking a snapshot
	rows := board.Snapshot()

	// Then: the rows serialize as strings and do not alias the board
	assert.Equal(t, [][]string{{"X", "X", "X"}, {"O", "O", ""}, {"", "", ""}}, rows)

	rows[2][2] = "O"
	assert.Equal(t, MarkEmpty, board[2][2])
}

func TestBoard_Counts(t *testing.T) {
	board := boardOf("XOX", "O..", "X..")

	x, o := board.Counts()

	assert.Equal(t, 3, x)
	assert.Equal(t, 2, o)
}
