package entity

import (
	"fmt"

	"github.com/rocketscienceinc/tictactoe-sessions/internal/apperror"
)

const BoardSize = 3

type Mark string

const (
	MarkEmpty Mark = ""
	MarkX     Mark = "X"
	MarkO     Mark = "O"
)

func (that Mark) Opponent() Mark {
	switch that {
	case MarkX:
		return MarkO
	case MarkO:
		return MarkX
	default:
		return MarkEmpty
	}
}

type OutcomeKind string

const (
	OutcomeOngoing OutcomeKind = "ongoing"
	OutcomeWin     OutcomeKind = "win"
	OutcomeDraw    OutcomeKind = "draw"
)

// Outcome - result of evaluating a board. Mark is set only for a win.
type Outcome struct {
	Kind OutcomeKind
	Mark Mark
}

// WinLines - every row, column and diagonal as [row, col] triples.
var WinLines = [8][3][2]int{
	{{0, 0}, {0, 1}, {0, 2}},
	{{1, 0}, {1, 1}, {1, 2}},
	{{2, 0}, {2, 1}, {2, 2}},
	{{0, 0}, {1, 0}, {2, 0}},
	{{0, 1}, {1, 1}, {2, 1}},
	{{0, 2}, {1, 2}, {2, 2}},
	{{0, 0}, {1, 1}, {2, 2}},
	{{0, 2}, {1, 1}, {2, 0}},
}

type Board [BoardSize][BoardSize]Mark

func InBounds(row, col int) bool {
	return row >= 0 && row < BoardSize && col >= 0 && col < BoardSize
}

// ApplyMove - places mark at (row, col) or reports why it cannot.
func (that *Board) ApplyMove(row, col int, mark Mark) error {
	if !InBounds(row, col) {
		return fmt.Errorf("%w: row %d, col %d", apperror.ErrOutOfBounds, row, col)
	}

	if that[row][col] != MarkEmpty {
		return fmt.Errorf("%w: row %d, col %d", apperror.ErrCellOccupied, row, col)
	}

	that[row][col] = mark

	return nil
}

// EvaluateOutcome - a completed line wins even when the same move fills the board.
func (that *Board) EvaluateOutcome() Outcome {
	for _, line := range WinLines {
		a := that[line[0][0]][line[0][1]]
		b := that[line[1][0]][line[1][1]]
		c := that[line[2][0]][line[2][1]]
		if a != MarkEmpty && a == b && b == c {
			return Outcome{Kind: OutcomeWin, Mark: a}
		}
	}

	if that.IsFull() {
		return Outcome{Kind: OutcomeDraw}
	}

	return Outcome{Kind: OutcomeOngoing}
}

func (that *Board) IsFull() bool {
	for _, row := range that {
		for _, cell := range row {
			if cell == MarkEmpty {
				return false
			}
		}
	}

	return true
}

func (that *Board) Counts() (int, int) {
	var x, o int
	for _, row := range that {
		for _, cell := range row {
			switch cell {
			case MarkX:
				x++
			case MarkO:
				o++
			}
		}
	}

	return x, o
}

// Snapshot - serializable copy: rows of "", "X" or "O".
func (that *Board) Snapshot() [][]string {
	rows := make([][]string, BoardSize)
	for i, row := range that {
		rows[i] = make([]string, BoardSize)
		for j, cell := range row {
			rows[i][j] = string(cell)
		}
	}

	return rows
}
