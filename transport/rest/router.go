package rest

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/rocketscienceinc/tictactoe-sessions/internal/entity"
	"github.com/rocketscienceinc/tictactoe-sessions/internal/usecase"
	"github.com/rocketscienceinc/tictactoe-sessions/transport/websocket"
)

type gameUseCase interface {
	CreateGame(ctx context.Context, name string) (entity.GameSummary, error)
	GetStatus(ctx context.Context, id int64) (entity.GameSnapshot, error)
	ListGames(ctx context.Context, filter string) ([]entity.GameSummary, error)
	CountGames() int
	DeleteGame(ctx context.Context, id int64) error
	JoinGame(ctx context.Context, id int64, playerID, name, email string) (usecase.JoinResult, error)
	MakeMove(ctx context.Context, id int64, playerID string, row, col int) (usecase.MoveResult, error)
	Leaderboard(ctx context.Context, metric string, page, limit int) (entity.Leaderboard, error)
	GetPlayer(ctx context.Context, playerID string) (entity.Player, error)
}

type socketServer interface {
	ServeWS(w http.ResponseWriter, r *http.Request, gameID int64)
}

type metricsHandler interface {
	requestObserver
	Handler() http.Handler
}

type RouterConfig struct {
	Logger       *slog.Logger
	Games        gameUseCase
	Sockets      socketServer
	Metrics      metricsHandler
	DefaultLimit int
}

func NewRouter(cfg RouterConfig) http.Handler {
	logger := cfg.Logger.With("component", "rest")

	h := &handlers{
		logger:       logger,
		games:        cfg.Games,
		defaultLimit: cfg.DefaultLimit,
	}

	var observer requestObserver
	if cfg.Metrics != nil {
		observer = cfg.Metrics
	}

	r := mux.NewRouter()
	r.Use(requestID)
	r.Use(recovery(logger))
	r.Use(accessLog(logger, observer))

	r.HandleFunc("/ping", pingHandler).Methods(http.MethodGet)

	games := r.PathPrefix("/games").Subrouter()
	games.HandleFunc("", h.createGame).Methods(http.MethodPost)
	games.HandleFunc("", h.listGames).Methods(http.MethodGet)
	games.HandleFunc("/{id:[0-9]+}", h.getGame).Methods(http.MethodGet)
	games.HandleFunc("/{id:[0-9]+}", h.deleteGame).Methods(http.MethodDelete)
	games.HandleFunc("/{id:[0-9]+}/status", h.getStatus).Methods(http.MethodGet)
	games.HandleFunc("/{id:[0-9]+}/join", h.joinGame).Methods(http.MethodPost)
	games.HandleFunc("/{id:[0-9]+}/moves", h.makeMove).Methods(http.MethodPost)

	r.HandleFunc("/leaderboard/{metric}", h.leaderboard).Methods(http.MethodGet)
	r.HandleFunc("/players/{id}", h.getPlayer).Methods(http.MethodGet)

	if cfg.Sockets != nil {
		r.HandleFunc("/ws/games", func(w http.ResponseWriter, r *http.Request) {
			cfg.Sockets.ServeWS(w, r, websocket.AllGames)
		}).Methods(http.MethodGet)
		r.HandleFunc("/ws/games/{id:[0-9]+}", func(w http.ResponseWriter, r *http.Request) {
			id, err := gameID(r)
			if err != nil {
				writeError(w, r, logger, err)
				return
			}

			cfg.Sockets.ServeWS(w, r, id)
		}).Methods(http.MethodGet)
	}

	if cfg.Metrics != nil {
		r.Handle("/metrics", cfg.Metrics.Handler()).Methods(http.MethodGet)
	}

	return r
}
