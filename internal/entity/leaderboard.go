package entity

import (
	"fmt"

	"github.com/rocketscienceinc/tictactoe-sessions/internal/apperror"
)

type Metric string

const (
	MetricWins       Metric = "wins"
	MetricEfficiency Metric = "efficiency"
)

func ParseMetric(value string) (Metric, error) {
	switch metric := Metric(value); metric {
	case MetricWins, MetricEfficiency:
		return metric, nil
	default:
		return "", apperror.WithField("metric", fmt.Errorf("%w: %q", apperror.ErrInvalidMetric, value))
	}
}

type LeaderboardEntry struct {
	Rank               int     `json:"rank"`
	PlayerID           string  `json:"playerId"`
	Name               string  `json:"name"`
	GamesPlayed        int     `json:"gamesPlayed"`
	GamesWon           int     `json:"gamesWon"`
	GamesLost          int     `json:"gamesLost"`
	GamesDrawn         int     `json:"gamesDrawn"`
	TotalMoves         int     `json:"totalMoves"`
	WinRate            float64 `json:"winRate"`
	AverageMovesPerWin float64 `json:"averageMovesPerWin"`
	Efficiency         float64 `json:"efficiency"`
}

func NewLeaderboardEntry(rank int, player Player) LeaderboardEntry {
	return LeaderboardEntry{
		Rank:               rank,
		PlayerID:           player.ID,
		Name:               player.Name,
		GamesPlayed:        player.Stats.GamesPlayed,
		GamesWon:           player.Stats.GamesWon,
		GamesLost:          player.Stats.GamesLost,
		GamesDrawn:         player.Stats.GamesDrawn,
		TotalMoves:         player.Stats.TotalMoves,
		WinRate:            player.Stats.WinRate(),
		AverageMovesPerWin: player.Stats.AverageMovesPerWin(),
		Efficiency:         player.Stats.Efficiency(),
	}
}

// Leaderboard - one page of a ranking. Total counts every ranked player, not just this page.
type Leaderboard struct {
	Metric  Metric             `json:"type"`
	Page    int                `json:"page"`
	Limit   int                `json:"limit"`
	Total   int                `json:"total"`
	Entries []LeaderboardEntry `json:"leaderboard"`
}
