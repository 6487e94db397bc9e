package application

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/rocketscienceinc/tictactoe-sessions/internal/config"
	"github.com/rocketscienceinc/tictactoe-sessions/internal/metrics"
	"github.com/rocketscienceinc/tictactoe-sessions/internal/repository"
	"github.com/rocketscienceinc/tictactoe-sessions/internal/repository/storage"
	"github.com/rocketscienceinc/tictactoe-sessions/internal/service"
	"github.com/rocketscienceinc/tictactoe-sessions/internal/usecase"
	"github.com/rocketscienceinc/tictactoe-sessions/transport/rest"
	"github.com/rocketscienceinc/tictactoe-sessions/transport/websocket"
)

// RunApp - runs the application.
func RunApp(logger *slog.Logger, conf *config.Config) error {
	log := logger.With("component", "app")

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	players := repository.NewPlayerStore()
	games := repository.NewGameRegistry(players)
	leaderboard := service.NewLeaderboardService(players, conf.Leaderboard.MaxLimit)

	appMetrics := metrics.New()
	hub := websocket.NewHub(logger)

	opts := []usecase.Option{
		usecase.WithNotifier(hub),
		usecase.WithMetrics(appMetrics),
	}

	if conf.Redis.Enabled {
		redisStorage, err := storage.New(ctx, storage.RedisOptions{
			Addr:     conf.Redis.GetRedisAddr(),
			Password: conf.Redis.Password,
			DB:       conf.Redis.DB,
		})
		if err != nil {
			return fmt.Errorf("could not connect to redis storage: %w", err)
		}

		defer func() {
			if err = redisStorage.Close(); err != nil {
				log.Error("could not close redis storage", "error", err)
			}
		}()

		opts = append(opts, usecase.WithMirror(
			repository.NewGameRepository(redisStorage, conf.Redis.TTL),
			repository.NewPlayerRepository(redisStorage),
		))

		log.Info("mirroring games to redis", "addr", conf.Redis.GetRedisAddr())
	}

	gameManager := usecase.NewGameManager(logger, games, players, leaderboard, opts...)

	go hub.Run(ctx)

	router := rest.NewRouter(rest.RouterConfig{
		Logger:       logger,
		Games:        gameManager,
		Sockets:      websocket.New(logger, hub, gameManager),
		Metrics:      appMetrics,
		DefaultLimit: conf.Leaderboard.DefaultLimit,
	})
	server := rest.NewServer(logger, conf.HTTPPort, router)

	httpErrCh := make(chan error, 1)
	go func() {
		httpErrCh <- server.Start()
	}()

	select {
	case err := <-httpErrCh:
		if err != nil {
			return fmt.Errorf("HTTP server error: %w", err)
		}

		return nil
	case <-ctx.Done():
		log.Info("received shutdown signal, shutting down")
	}

	if err := server.Shutdown(context.Background()); err != nil {
		return fmt.Errorf("HTTP server shutdown: %w", err)
	}

	return nil
}
