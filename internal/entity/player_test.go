package entity

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPlayerStats_Apply(t *testing.T) {
	// Given: a fresh player
	var stats PlayerStats

	// When: the player wins in 3 moves, loses with 4 moves and draws with 4 moves
	stats.Apply(ResultWin, 3)
	stats.Apply(ResultLoss, 4)
	stats.Apply(ResultDraw, 4)

	// Then: every counter moves by exactly one game
	assert.Equal(t, PlayerStats{
		GamesPlayed: 3,
		GamesWon:    1,
		GamesLost:   1,
		GamesDrawn:  1,
		TotalMoves:  11,
		MovesInWins: 3,
	}, stats)
}

func TestPlayerStats_DerivedMetrics(t *testing.T) {
	t.Run("No games played", func(t *testing.T) {
		var stats PlayerStats

		assert.Zero(t, stats.WinRate())
		assert.Zero(t, stats.AverageMovesPerWin())
		assert.Zero(t, stats.Efficiency())
	})

	t.Run("Perfect player", func(t *testing.T) {
		stats := PlayerStats{GamesPlayed: 2, GamesWon: 2, TotalMoves: 6, MovesInWins: 6}

		assert.InDelta(t, 1.0, stats.WinRate(), 1e-9)
		assert.InDelta(t, 3.0, stats.AverageMovesPerWin(), 1e-9)
		assert.InDelta(t, 1.0, stats.Efficiency(), 1e-9)
	})

	t.Run("Slow winner scores lower", func(t *testing.T) {
		fast := PlayerStats{GamesPlayed: 2, GamesWon: 1, GamesLost: 1, TotalMoves: 6, MovesInWins: 3}
		slow := PlayerStats{GamesPlayed: 2, GamesWon: 1, GamesLost: 1, TotalMoves: 8, MovesInWins: 5}

		assert.InDelta(t, 0.5, fast.Efficiency(), 1e-9)
		assert.InDelta(t, 0.3, slow.Efficiency(), 1e-9)
	})
}
