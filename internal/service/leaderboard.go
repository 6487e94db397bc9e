package service

import (
	"fmt"
	"sort"

	"github.com/rocketscienceinc/tictactoe-sessions/internal/apperror"
	"github.com/rocketscienceinc/tictactoe-sessions/internal/entity"
)

const (
	DefaultPageLimit = 10
	MaxPageLimit     = 100
)

type playerLister interface {
	List() []entity.Player
}

// LeaderboardService - rankings computed from a fresh read of every player on each call.
type LeaderboardService struct {
	players  playerLister
	maxLimit int
}

func NewLeaderboardService(players playerLister, maxLimit int) *LeaderboardService {
	if maxLimit < 1 {
		maxLimit = MaxPageLimit
	}

	return &LeaderboardService{
		players:  players,
		maxLimit: maxLimit,
	}
}

// Ranked - page of the ranking by metric. Limits above the cap are clamped.
func (that *LeaderboardService) Ranked(metric string, page, limit int) (entity.Leaderboard, error) {
	parsed, err := entity.ParseMetric(metric)
	if err != nil {
		return entity.Leaderboard{}, err
	}

	if page < 1 {
		return entity.Leaderboard{}, apperror.WithField("page",
			fmt.Errorf("%w: page must be at least 1, got %d", apperror.ErrInvalidPagination, page))
	}

	if limit < 1 {
		return entity.Leaderboard{}, apperror.WithField("limit",
			fmt.Errorf("%w: limit must be at least 1, got %d", apperror.ErrInvalidPagination, limit))
	}

	limit = min(limit, that.maxLimit)

	ranked := make([]entity.Player, 0)
	for _, player := range that.players.List() {
		if player.Stats.GamesPlayed > 0 {
			ranked = append(ranked, player)
		}
	}

	sort.SliceStable(ranked, less(parsed, ranked))

	board := entity.Leaderboard{
		Metric:  parsed,
		Page:    page,
		Limit:   limit,
		Total:   len(ranked),
		Entries: make([]entity.LeaderboardEntry, 0, limit),
	}

	if page-1 > len(ranked)/limit {
		return board, nil
	}

	start := (page - 1) * limit
	if start >= len(ranked) {
		return board, nil
	}

	end := min(start+limit, len(ranked))
	for i := start; i < end; i++ {
		board.Entries = append(board.Entries, entity.NewLeaderboardEntry(i+1, ranked[i]))
	}

	return board, nil
}

func less(metric entity.Metric, players []entity.Player) func(i, j int) bool {
	return func(i, j int) bool {
		a, b := players[i].Stats, players[j].Stats

		switch metric {
		case entity.MetricWins:
			if a.GamesWon != b.GamesWon {
				return a.GamesWon > b.GamesWon
			}

			if a.WinRate() != b.WinRate() {
				return a.WinRate() > b.WinRate()
			}

			if a.TotalMoves != b.TotalMoves {
				return a.TotalMoves < b.TotalMoves
			}
		case entity.MetricEfficiency:
			if a.Efficiency() != b.Efficiency() {
				return a.Efficiency() > b.Efficiency()
			}

			if a.WinRate() != b.WinRate() {
				return a.WinRate() > b.WinRate()
			}
		}

		return players[i].ID < players[j].ID
	}
}
