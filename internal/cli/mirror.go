package cli

import (
	"context"
	"fmt"
	"os"
	"strconv"

	"github.com/redis/go-redis/v9"
	"github.com/spf13/cobra"

	"github.com/rocketscienceinc/tictactoe-sessions/internal/entity"
	"github.com/rocketscienceinc/tictactoe-sessions/internal/repository"
	"github.com/rocketscienceinc/tictactoe-sessions/internal/repository/storage"
)

const redisAddrEnv = "TTTCTL_REDIS_ADDR"

const defaultMirrorLimit = 10

type mirrorOptions struct {
	addr     string
	password string
	db       int
}

// connect - opens a client to the mirror; the caller closes it.
func (that *mirrorOptions) connect(ctx context.Context) (*redis.Client, error) {
	client, err := storage.New(ctx, storage.RedisOptions{
		Addr:     that.addr,
		Password: that.password,
		DB:       that.db,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to open mirror: %w", err)
	}

	return client, nil
}

// newMirrorCmd - reads the redis snapshot mirror directly, bypassing the server.
func (that *app) newMirrorCmd() *cobra.Command {
	opts := &mirrorOptions{addr: "localhost:6379"}
	if addr := os.Getenv(redisAddrEnv); addr != "" {
		opts.addr = addr
	}

	cmd := &cobra.Command{
		Use:   "mirror",
		Short: "Inspect the redis snapshot mirror",
	}

	cmd.PersistentFlags().StringVar(&opts.addr, "redis-addr", opts.addr, "Redis address (env: "+redisAddrEnv+")")
	cmd.PersistentFlags().StringVar(&opts.password, "redis-password", "", "Redis password")
	cmd.PersistentFlags().IntVar(&opts.db, "redis-db", 0, "Redis database")

	cmd.AddCommand(that.newMirrorGameCmd(opts))
	cmd.AddCommand(that.newMirrorTopCmd(opts))

	return cmd
}

func (that *app) newMirrorGameCmd(opts *mirrorOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "game <game-id>",
		Short: "Show the last mirrored snapshot of a game",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := strconv.ParseInt(args[0], 10, 64)
			if err != nil {
				return fmt.Errorf("invalid game id %q", args[0])
			}

			client, err := opts.connect(cmd.Context())
			if err != nil {
				return err
			}
			defer client.Close()

			game, err := repository.NewGameRepository(client, 0).GetByID(cmd.Context(), id)
			if err != nil {
				return err
			}

			return that.out.print(statusResult{Status: *game})
		},
	}
}

func (that *app) newMirrorTopCmd(opts *mirrorOptions) *cobra.Command {
	var limit int

	cmd := &cobra.Command{
		Use:       "top <wins|efficiency>",
		Short:     "Rank mirrored players by a leaderboard metric",
		Args:      cobra.ExactArgs(1),
		ValidArgs: []string{string(entity.MetricWins), string(entity.MetricEfficiency)},
		RunE: func(cmd *cobra.Command, args []string) error {
			metric, err := entity.ParseMetric(args[0])
			if err != nil {
				return err
			}

			if limit < 1 {
				return fmt.Errorf("limit must be positive, got %d", limit)
			}

			client, err := opts.connect(cmd.Context())
			if err != nil {
				return err
			}
			defer client.Close()

			players := repository.NewPlayerRepository(client)

			ids, err := players.TopIDs(cmd.Context(), metric, int64(limit))
			if err != nil {
				return err
			}

			board := leaderboardResult{Metric: metric, Page: 1, Limit: limit, Total: len(ids)}
			for i, id := range ids {
				player, err := players.GetByID(cmd.Context(), id)
				if err != nil {
					return err
				}

				board.Entries = append(board.Entries, entity.NewLeaderboardEntry(i+1, *player))
			}

			return that.out.print(board)
		},
	}

	cmd.Flags().IntVar(&limit, "limit", defaultMirrorLimit, "Number of players to show")

	return cmd
}
