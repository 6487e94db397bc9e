package entity

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rocketscienceinc/tictactoe-sessions/internal/apperror"
)

var fixedNow = time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)

func newTestGame(t *testing.T) *Game {
	t.Helper()

	return newGame(1, "G", func() time.Time { return fixedNow })
}

func startedGame(t *testing.T) *Game {
	t.Helper()

	game := newTestGame(t)
	_, err := game.Join("alice", "Alice", "alice@example.com")
	require.NoError(t, err)
	_, err = game.Join("bob", "Bob", "bob@example.com")
	require.NoError(t, err)

	return game
}

func play(t *testing.T, game *Game, moves ...[3]any) {
	t.Helper()

	for _, m := range moves {
		_, _, err := game.MakeMove(m[0].(string), m[1].(int), m[2].(int))
		require.NoError(t, err)
	}
}

func TestNewGame(t *testing.T) {
	// Given: a new game
	game := newTestGame(t)

	// Then: it is pending, empty and without a turn holder
	assert.Equal(t, StatusPending, game.Status)
	assert.Equal(t, Board{}, game.Board)
	assert.Empty(t, game.Players)
	assert.Empty(t, game.CurrentPlayerID())
	assert.Equal(t, fixedNow, game.CreatedAt)
}

func TestGame_Join(t *testing.T) {
	t.Run("First joiner is X and game stays pending", func(t *testing.T) {
		game := newTestGame(t)

		player, err := game.Join("alice", "Alice", "alice@example.com")

		require.NoError(t, err)
		assert.Equal(t, MarkX, player.Mark)
		assert.Equal(t, StatusPending, game.Status)
		assert.Empty(t, game.CurrentPlayerID())
	})

	t.Run("Second joiner is O and game starts with X to move", func(t *testing.T) {
		game := startedGame(t)

		assert.Equal(t, StatusInProgress, game.Status)
		assert.Equal(t, MarkO, game.Players[1].Mark)
		assert.Equal(t, "alice", game.CurrentPlayerID())
	})

	t.Run("Third player is rejected without mutation", func(t *testing.T) {
		game := startedGame(t)
		before := game.Snapshot()

		_, err := game.Join("carol", "Carol", "carol@example.com")

		require.ErrorIs(t, err, apperror.ErrGameFull)
		assert.Equal(t, before, game.Snapshot())
	})

	t.Run("Same player cannot join twice", func(t *testing.T) {
		game := newTestGame(t)
		_, err := game.Join("alice", "Alice", "alice@example.com")
		require.NoError(t, err)

		_, err = game.Join("alice", "Alice", "alice@example.com")

		require.ErrorIs(t, err, apperror.ErrDuplicatePlayer)
		assert.Len(t, game.Players, 1)
	})

	t.Run("Invalid player data", func(t *testing.T) {
		cases := []struct {
			name, playerID, email, field string
		}{
			{"empty id", "", "a@example.com", "playerId"},
			{"blank id", "   ", "a@example.com", "playerId"},
			{"empty email", "alice", "", "email"},
			{"malformed email", "alice", "not-an-email", "email"},
			{"display name form", "alice", "Alice <a@example.com>", "email"},
			{"dotless domain", "alice", "a@b", "email"},
			{"localhost domain", "alice", "alice@localhost", "email"},
			{"ip literal domain", "alice", "a@[1.2.3.4]", "email"},
		}

		for _, tc := range cases {
			t.Run(tc.name, func(t *testing.T) {
				game := newTestGame(t)

				_, err := game.Join(tc.playerID, "Alice", tc.email)

				require.ErrorIs(t, err, apperror.ErrInvalidPlayerData)
				assert.Equal(t, tc.field, apperror.FieldOf(err))
				assert.Empty(t, game.Players)
			})
		}
	})
}

func TestGame_MakeMove(t *testing.T) {
	t.Run("Rejects move before start", func(t *testing.T) {
		game := newTestGame(t)
		_, err := game.Join("alice", "Alice", "alice@example.com")
		require.NoError(t, err)

		_, _, err = game.MakeMove("alice", 0, 0)

		require.ErrorIs(t, err, apperror.ErrGameIsNotStarted)
		assert.Equal(t, Board{}, game.Board)
	})

	t.Run("Accepts move from turn holder and flips turn", func(t *testing.T) {
		game := startedGame(t)

		move, outcome, err := game.MakeMove("alice", 1, 1)

		require.NoError(t, err)
		assert.Equal(t, Move{ID: "m-1", GameID: 1, PlayerID: "alice", Row: 1, Col: 1, Mark: MarkX, Timestamp: fixedNow}, move)
		assert.Equal(t, OutcomeOngoing, outcome.Kind)
		assert.Equal(t, "bob", game.CurrentPlayerID())
	})

	t.Run("Rejects move out of turn", func(t *testing.T) {
		game := startedGame(t)

		_, _, err := game.MakeMove("bob", 0, 0)

		require.ErrorIs(t, err, apperror.ErrNotYourTurn)
		assert.Equal(t, Board{}, game.Board)
		assert.Empty(t, game.Moves)
	})

	t.Run("Rejects move from outsider", func(t *testing.T) {
		game := startedGame(t)

		_, _, err := game.MakeMove("mallory", 0, 0)

		require.ErrorIs(t, err, apperror.ErrNotYourTurn)
	})

	t.Run("Rejects occupied cell and keeps turn", func(t *testing.T) {
		game := startedGame(t)
		play(t, game, [3]any{"alice", 0, 0})

		_, _, err := game.MakeMove("bob", 0, 0)

		require.ErrorIs(t, err, apperror.ErrCellOccupied)
		assert.Equal(t, "bob", game.CurrentPlayerID())
		assert.Len(t, game.Moves, 1)
	})

	t.Run("Rejects out of bounds", func(t *testing.T) {
		game := startedGame(t)

		_, _, err := game.MakeMove("alice", 3, 0)

		require.ErrorIs(t, err, apperror.ErrOutOfBounds)
		assert.Equal(t, "alice", game.CurrentPlayerID())
	})

	t.Run("Winning move completes the game", func(t *testing.T) {
		game := startedGame(t)
		play(t, game,
			[3]any{"alice", 0, 0}, [3]any{"bob", 1, 0},
			[3]any{"alice", 0, 1}, [3]any{"bob", 1, 1},
		)

		_, outcome, err := game.MakeMove("alice", 0, 2)

		require.NoError(t, err)
		assert.Equal(t, Outcome{Kind: OutcomeWin, Mark: MarkX}, outcome)
		assert.Equal(t, StatusComplete, game.Status)
		assert.Equal(t, "alice", game.WinnerID)
		assert.Empty(t, game.CurrentPlayerID())
		assert.Equal(t, []string{"X", "X", "X"}, game.Board.Snapshot()[0])

		_, _, err = game.MakeMove("bob", 2, 2)
		require.ErrorIs(t, err, apperror.ErrGameFinished)
	})

	t.Run("Board filling move without line is a draw", func(t *testing.T) {
		// Given: moves that end in X O X / X O O / O X X
		game := startedGame(t)
		play(t, game,
			[3]any{"alice", 0, 0}, [3]any{"bob", 0, 1},
			[3]any{"alice", 0, 2}, [3]any{"bob", 1, 1},
			[3]any{"alice", 1, 0}, [3]any{"bob", 1, 2},
			[3]any{"alice", 2, 1}, [3]any{"bob", 2, 0},
		)

		// When: alice fills the last cell
		_, outcome, err := game.MakeMove("alice", 2, 2)

		// Then: the game completes without a winner
		require.NoError(t, err)
		assert.Equal(t, OutcomeDraw, outcome.Kind)
		assert.Equal(t, StatusComplete, game.Status)
		assert.Empty(t, game.WinnerID)
	})
}

func TestGame_MarkBalance(t *testing.T) {
	// Given: a full sequence of valid moves
	game := startedGame(t)
	sequence := [][2]int{{0, 0}, {0, 1}, {0, 2}, {1, 1}, {1, 0}, {1, 2}, {2, 1}, {2, 0}, {2, 2}}

	for i, pos := range sequence {
		player := "alice"
		if i%2 == 1 {
			player = "bob"
		}

		_, _, err := game.MakeMove(player, pos[0], pos[1])
		require.NoError(t, err)

		// Then: X leads O by at most one after every move
		x, o := game.Board.Counts()
		assert.Contains(t, []int{0, 1}, x-o)
	}
}

func TestGame_Results(t *testing.T) {
	t.Run("Win and loss", func(t *testing.T) {
		game := startedGame(t)
		play(t, game,
			[3]any{"alice", 0, 0}, [3]any{"bob", 1, 0},
			[3]any{"alice", 0, 1}, [3]any{"bob", 1, 1},
			[3]any{"alice", 0, 2},
		)

		results, err := game.Results()

		require.NoError(t, err)
		assert.Equal(t, []PlayerResult{
			{PlayerID: "alice", Result: ResultWin, Moves: 3},
			{PlayerID: "bob", Result: ResultLoss, Moves: 2},
		}, results)
	})

	t.Run("Unfinished game is an internal error", func(t *testing.T) {
		game := startedGame(t)

		_, err := game.Results()

		require.ErrorIs(t, err, apperror.ErrInternal)
	})
}

func TestGame_Snapshot(t *testing.T) {
	// Given: a started game with a move
	game := startedGame(t)
	play(t, game, [3]any{"alice", 2, 2})

	// When: taking a snapshot and mutating it
	snapshot := game.Snapshot()
	snapshot.Players[0].Name = "changed"
	snapshot.Moves[0].Row = 0

	// Then: the game is not affected
	assert.Equal(t, "Alice", game.Players[0].Name)
	assert.Equal(t, 2, game.Moves[0].Row)
	assert.Equal(t, "bob", snapshot.CurrentPlayer())
	assert.Equal(t, StatusInProgress, snapshot.Status)
}

func TestGameSnapshot_AbsentIDsAreNull(t *testing.T) {
	t.Run("Pending game has neither turn holder nor winner", func(t *testing.T) {
		// Given: a game nobody joined
		snapshot := newTestGame(t).Snapshot()

		// When: serializing its snapshot
		data, err := json.Marshal(snapshot)
		require.NoError(t, err)

		// Then: both ids are null
		assert.Contains(t, string(data), `"currentPlayerId":null`)
		assert.Contains(t, string(data), `"winnerId":null`)
		assert.Empty(t, snapshot.CurrentPlayer())
		assert.Empty(t, snapshot.Winner())
	})

	t.Run("Won game keeps the winner and drops the turn holder", func(t *testing.T) {
		game := startedGame(t)
		play(t, game,
			[3]any{"alice", 0, 0}, [3]any{"bob", 1, 0},
			[3]any{"alice", 0, 1}, [3]any{"bob", 1, 1},
			[3]any{"alice", 0, 2},
		)

		data, err := json.Marshal(game.Snapshot())
		require.NoError(t, err)

		assert.Contains(t, string(data), `"currentPlayerId":null`)
		assert.Contains(t, string(data), `"winnerId":"alice"`)
	})
}

func TestParseStatus(t *testing.T) {
	status, err := ParseStatus("in_progress")
	require.NoError(t, err)
	assert.Equal(t, StatusInProgress, status)

	_, err = ParseStatus("finished")
	require.ErrorIs(t, err, apperror.ErrInvalidStatusFilter)
}

func TestValidatePlayer(t *testing.T) {
	t.Run("Accepts regular addresses", func(t *testing.T) {
		for _, email := range []string{"alice@example.com", "a.b+tag@mail.example.org", "bob@sub.domain.io"} {
			assert.NoError(t, ValidatePlayer("alice", email), email)
		}
	})

	t.Run("Rejects addresses without a dotted domain", func(t *testing.T) {
		for _, email := range []string{"a@b", "alice@localhost", "a@[1.2.3.4]", "a@1.2.3.4"} {
			err := ValidatePlayer("alice", email)

			require.ErrorIs(t, err, apperror.ErrInvalidPlayerData, email)
			assert.Equal(t, "email", apperror.FieldOf(err))
		}
	})
}
