package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/redis/go-redis/v9"

	"github.com/rocketscienceinc/tictactoe-sessions/internal/apperror"
	"github.com/rocketscienceinc/tictactoe-sessions/internal/entity"
)

const (
	winsLeaderboardKey       = "leaderboard:wins"
	efficiencyLeaderboardKey = "leaderboard:efficiency"
)

// PlayerRepository - mirror of player statistics plus sorted sets per leaderboard metric.
type PlayerRepository interface {
	CreateOrUpdate(ctx context.Context, player entity.Player) error
	GetByID(ctx context.Context, id string) (*entity.Player, error)
	TopIDs(ctx context.Context, metric entity.Metric, limit int64) ([]string, error)
}

type dbPlayer struct {
	client *redis.Client
}

func NewPlayerRepository(client *redis.Client) PlayerRepository {
	return &dbPlayer{
		client: client,
	}
}

func playerKey(id string) string {
	return "player:" + id
}

func (that *dbPlayer) CreateOrUpdate(ctx context.Context, player entity.Player) error {
	playerJSON, err := json.Marshal(player)
	if err != nil {
		return fmt.Errorf("failed to marshal player: %w", err)
	}

	pipe := that.client.TxPipeline()
	pipe.Set(ctx, playerKey(player.ID), playerJSON, 0)
	pipe.ZAdd(ctx, winsLeaderboardKey, redis.Z{Score: float64(player.Stats.GamesWon), Member: player.ID})
	pipe.ZAdd(ctx, efficiencyLeaderboardKey, redis.Z{Score: player.Stats.Efficiency(), Member: player.ID})

	if _, err = pipe.Exec(ctx); err != nil {
		return fmt.Errorf("failed to set player: %w", err)
	}

	return nil
}

func (that *dbPlayer) GetByID(ctx context.Context, id string) (*entity.Player, error) {
	response, err := that.client.Get(ctx, playerKey(id)).Result()
	if errors.Is(err, redis.Nil) {
		return nil, fmt.Errorf("%w: %s", apperror.ErrPlayerNotFound, id)
	}

	if err != nil {
		return nil, fmt.Errorf("failed to get player by ID: %w", err)
	}

	var existingPlayer entity.Player
	if err = json.Unmarshal([]byte(response), &existingPlayer); err != nil {
		return nil, fmt.Errorf("failed to unmarshal player: %w", err)
	}

	return &existingPlayer, nil
}

// TopIDs - player ids with the highest score for metric, best first.
func (that *dbPlayer) TopIDs(ctx context.Context, metric entity.Metric, limit int64) ([]string, error) {
	var key string
	switch metric {
	case entity.MetricWins:
		key = winsLeaderboardKey
	case entity.MetricEfficiency:
		key = efficiencyLeaderboardKey
	default:
		return nil, fmt.Errorf("%w: %q", apperror.ErrInvalidMetric, metric)
	}

	ids, err := that.client.ZRevRange(ctx, key, 0, limit-1).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to read leaderboard %s: %w", metric, err)
	}

	return ids, nil
}
