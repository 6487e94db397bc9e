package service

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rocketscienceinc/tictactoe-sessions/internal/apperror"
	"github.com/rocketscienceinc/tictactoe-sessions/internal/entity"
)

type stubPlayers []entity.Player

func (that stubPlayers) List() []entity.Player {
	return that
}

type result struct {
	outcome entity.GameResult
	moves   int
}

func playerWith(id string, results ...result) entity.Player {
	player := entity.Player{ID: id, Name: id, Email: id + "@example.com"}
	for _, res := range results {
		player.Stats.Apply(res.outcome, res.moves)
	}

	return player
}

func ids(board entity.Leaderboard) []string {
	out := make([]string, 0, len(board.Entries))
	for _, entry := range board.Entries {
		out = append(out, entry.PlayerID)
	}

	return out
}

func TestLeaderboardService_Ranked_Validation(t *testing.T) {
	svc := NewLeaderboardService(stubPlayers{}, MaxPageLimit)

	tests := []struct {
		name   string
		metric string
		page   int
		limit  int
		err    error
		field  string
	}{
		{name: "UnknownMetric", metric: "speed", page: 1, limit: 10, err: apperror.ErrInvalidMetric, field: "metric"},
		{name: "ZeroPage", metric: "wins", page: 0, limit: 10, err: apperror.ErrInvalidPagination, field: "page"},
		{name: "NegativeLimit", metric: "wins", page: 1, limit: -1, err: apperror.ErrInvalidPagination, field: "limit"},
		{name: "ZeroLimit", metric: "efficiency", page: 1, limit: 0, err: apperror.ErrInvalidPagination, field: "limit"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			// When: Ranked is called with invalid arguments
			_, err := svc.Ranked(tt.metric, tt.page, tt.limit)

			// Then: the matching error and field are reported
			require.ErrorIs(t, err, tt.err)
			assert.Equal(t, apperror.KindInvalidInput, apperror.KindOf(err))
			assert.Equal(t, tt.field, apperror.FieldOf(err))
		})
	}
}

func TestLeaderboardService_Ranked_Wins(t *testing.T) {
	t.Run("SkipsPlayersWithoutGames", func(t *testing.T) {
		// Given: one player who never finished a game
		svc := NewLeaderboardService(stubPlayers{
			playerWith("idle"),
			playerWith("alice", result{entity.ResultWin, 3}),
		}, MaxPageLimit)

		// When: the wins ranking is read
		board, err := svc.Ranked("wins", 1, 10)

		// Then: only players with games are ranked
		require.NoError(t, err)
		assert.Equal(t, 1, board.Total)
		assert.Equal(t, []string{"alice"}, ids(board))
		assert.Equal(t, 1, board.Entries[0].Rank)
		assert.InDelta(t, 1.0, board.Entries[0].WinRate, 1e-9)
	})

	t.Run("TieBreaks", func(t *testing.T) {
		// Given: players tied on wins
		svc := NewLeaderboardService(stubPlayers{
			// 1 win out of 2 games
			playerWith("dave", result{entity.ResultWin, 3}, result{entity.ResultLoss, 2}),
			// 1 win out of 1, five moves
			playerWith("carol", result{entity.ResultWin, 5}),
			// 1 win out of 1, three moves
			playerWith("bob", result{entity.ResultWin, 3}),
			// same as bob, id decides
			playerWith("abe", result{entity.ResultWin, 3}),
			playerWith("eve", result{entity.ResultWin, 3}, result{entity.ResultWin, 4}),
		}, MaxPageLimit)

		// When: the wins ranking is read
		board, err := svc.Ranked("wins", 1, 10)

		// Then: wins, then win rate, then fewer moves, then id
		require.NoError(t, err)
		assert.Equal(t, []string{"eve", "abe", "bob", "carol", "dave"}, ids(board))
	})
}

func TestLeaderboardService_Ranked_Efficiency(t *testing.T) {
	// Given: a fast winner, a slow winner and a player with no wins
	svc := NewLeaderboardService(stubPlayers{
		playerWith("slow", result{entity.ResultWin, 5}),
		playerWith("fast", result{entity.ResultWin, 3}),
		playerWith("loser", result{entity.ResultLoss, 4}),
		playerWith("drawer", result{entity.ResultDraw, 4}),
	}, MaxPageLimit)

	// When: the efficiency ranking is read
	board, err := svc.Ranked("efficiency", 1, 10)

	// Then: fewer moves per win ranks higher and winless players score zero
	require.NoError(t, err)
	assert.Equal(t, entity.MetricEfficiency, board.Metric)
	assert.Equal(t, []string{"fast", "slow", "drawer", "loser"}, ids(board))
	assert.InDelta(t, 1.0, board.Entries[0].Efficiency, 1e-9)
	assert.InDelta(t, 0.6, board.Entries[1].Efficiency, 1e-9)
	assert.Zero(t, board.Entries[2].Efficiency)
}

func TestLeaderboardService_Ranked_Pagination(t *testing.T) {
	players := make(stubPlayers, 0, 25)
	for i := range 25 {
		// player p00 has the most wins
		wins := make([]result, 0, 25-i)
		for range 25 - i {
			wins = append(wins, result{entity.ResultWin, 3})
		}
		players = append(players, playerWith(fmt.Sprintf("p%02d", i), wins...))
	}

	svc := NewLeaderboardService(players, 20)

	t.Run("MiddlePage", func(t *testing.T) {
		// When: page 2 of size 10 is read
		board, err := svc.Ranked("wins", 2, 10)

		// Then: entries 10..19 of the full ranking are returned
		require.NoError(t, err)
		require.Len(t, board.Entries, 10)
		assert.Equal(t, "p10", board.Entries[0].PlayerID)
		assert.Equal(t, 11, board.Entries[0].Rank)
		assert.Equal(t, 25, board.Total)
	})

	t.Run("LastPageIsClipped", func(t *testing.T) {
		board, err := svc.Ranked("wins", 3, 10)

		require.NoError(t, err)
		assert.Len(t, board.Entries, 5)
	})

	t.Run("PastTheEnd", func(t *testing.T) {
		board, err := svc.Ranked("wins", 99, 10)

		require.NoError(t, err)
		assert.Empty(t, board.Entries)
	})

	t.Run("LimitIsClamped", func(t *testing.T) {
		// When: more than the cap is requested
		board, err := svc.Ranked("wins", 1, 1000)

		// Then: the page is cut to the cap
		require.NoError(t, err)
		assert.Equal(t, 20, board.Limit)
		assert.Len(t, board.Entries, 20)
	})
}
