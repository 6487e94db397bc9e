package usecase

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/rocketscienceinc/tictactoe-sessions/internal/entity"
	"github.com/rocketscienceinc/tictactoe-sessions/internal/tictactoe"
)

type gameRegistry interface {
	Create(name string) (entity.GameSummary, error)
	Get(id int64) (*tictactoe.Session, error)
	List(filter *entity.Status) []entity.GameSummary
	Delete(id int64) error
	Count() int
}

type playerStore interface {
	Get(playerID string) (entity.Player, error)
}

type leaderboard interface {
	Ranked(metric string, page, limit int) (entity.Leaderboard, error)
}

type notifier interface {
	Publish(event entity.GameEvent)
}

type gameMirror interface {
	CreateOrUpdate(ctx context.Context, game entity.GameSnapshot) error
	DeleteByID(ctx context.Context, id int64) error
}

type playerMirror interface {
	CreateOrUpdate(ctx context.Context, player entity.Player) error
}

type recorder interface {
	GameCreated()
	GameDeleted()
	MoveAccepted(outcome entity.Outcome)
	Rejected(operation string, err error)
}

// JoinResult - response to a successful join.
type JoinResult struct {
	Message string
	Game    entity.GameSnapshot
}

// MoveResult - response to an accepted move. WinnerID is empty unless the move won the game.
type MoveResult struct {
	Board    [][]string
	Move     entity.Move
	Status   entity.Status
	WinnerID string
}

// GameManager - entry point for every game operation. Side effects such as notifications,
// redis mirroring and metrics run after the game lock has been released.
type GameManager struct {
	logger *slog.Logger

	games       gameRegistry
	players     playerStore
	leaderboard leaderboard

	notifier     notifier
	gameMirror   gameMirror
	playerMirror playerMirror
	metrics      recorder
}

type Option func(*GameManager)

func WithNotifier(n notifier) Option {
	return func(that *GameManager) {
		that.notifier = n
	}
}

// WithMirror - mirror snapshots to an external store. Mirror failures are logged only.
func WithMirror(games gameMirror, players playerMirror) Option {
	return func(that *GameManager) {
		that.gameMirror = games
		that.playerMirror = players
	}
}

func WithMetrics(m recorder) Option {
	return func(that *GameManager) {
		that.metrics = m
	}
}

func NewGameManager(
	logger *slog.Logger,
	games gameRegistry,
	players playerStore,
	leaderboard leaderboard,
	opts ...Option,
) *GameManager {
	that := &GameManager{
		logger: logger.With("component", "game_manager"),

		games:       games,
		players:     players,
		leaderboard: leaderboard,

		notifier: noopNotifier{},
		metrics:  noopRecorder{},
	}

	for _, opt := range opts {
		opt(that)
	}

	return that
}

func (that *GameManager) CreateGame(ctx context.Context, name string) (entity.GameSummary, error) {
	log := that.logger.With("method", "CreateGame")

	summary, err := that.games.Create(name)
	if err != nil {
		that.metrics.Rejected("create", err)

		return entity.GameSummary{}, fmt.Errorf("failed to create game: %w", err)
	}

	log.Info("game created", "game_id", summary.ID, "name", summary.Name)
	that.metrics.GameCreated()

	snapshot, err := that.GetStatus(ctx, summary.ID)
	if err == nil {
		that.publish(ctx, entity.GameEvent{Type: entity.EventGameCreated, GameID: summary.ID, Game: snapshot})
		that.mirrorGame(ctx, snapshot)
	}

	return summary, nil
}

func (that *GameManager) GetStatus(_ context.Context, id int64) (entity.GameSnapshot, error) {
	session, err := that.games.Get(id)
	if err != nil {
		return entity.GameSnapshot{}, err
	}

	return session.Status(), nil
}

// ListGames - filter is a status name; empty lists every game.
func (that *GameManager) ListGames(_ context.Context, filter string) ([]entity.GameSummary, error) {
	if filter == "" {
		return that.games.List(nil), nil
	}

	status, err := entity.ParseStatus(filter)
	if err != nil {
		that.metrics.Rejected("list", err)

		return nil, err
	}

	return that.games.List(&status), nil
}

func (that *GameManager) CountGames() int {
	return that.games.Count()
}

func (that *GameManager) DeleteGame(ctx context.Context, id int64) error {
	log := that.logger.With("method", "DeleteGame")

	session, err := that.games.Get(id)
	if err != nil {
		that.metrics.Rejected("delete", err)

		return err
	}

	if err = that.games.Delete(id); err != nil {
		that.metrics.Rejected("delete", err)

		return err
	}

	log.Info("game deleted", "game_id", id)
	that.metrics.GameDeleted()

	that.publish(ctx, entity.GameEvent{Type: entity.EventGameDeleted, GameID: id, Game: session.Status()})

	if that.gameMirror != nil {
		if err = that.gameMirror.DeleteByID(ctx, id); err != nil {
			log.Warn("failed to remove mirrored game", "game_id", id, "error", err)
		}
	}

	return nil
}

func (that *GameManager) JoinGame(ctx context.Context, id int64, playerID, name, email string) (JoinResult, error) {
	log := that.logger.With("method", "JoinGame")

	session, err := that.games.Get(id)
	if err != nil {
		that.metrics.Rejected("join", err)

		return JoinResult{}, err
	}

	snapshot, err := session.Join(playerID, name, email)
	if err != nil {
		that.metrics.Rejected("join", err)
		log.Debug("join rejected", "game_id", id, "player_id", playerID, "error", err)

		return JoinResult{}, err
	}

	log.Info("player joined", "game_id", id, "player_id", playerID, "status", snapshot.Status)

	that.publish(ctx, entity.GameEvent{Type: entity.EventGameJoined, GameID: id, Game: snapshot})
	that.mirrorGame(ctx, snapshot)

	if player, err := that.players.Get(playerID); err == nil {
		that.mirrorPlayer(ctx, player)
	}

	return JoinResult{
		Message: fmt.Sprintf("%s Successfully joined game %d", playerID, id),
		Game:    snapshot,
	}, nil
}

func (that *GameManager) MakeMove(ctx context.Context, id int64, playerID string, row, col int) (MoveResult, error) {
	log := that.logger.With("method", "MakeMove")

	session, err := that.games.Get(id)
	if err != nil {
		that.metrics.Rejected("move", err)

		return MoveResult{}, err
	}

	result, err := session.Move(playerID, row, col)
	if err != nil {
		that.metrics.Rejected("move", err)
		log.Debug("move rejected", "game_id", id, "player_id", playerID, "row", row, "col", col, "error", err)

		return MoveResult{}, err
	}

	that.metrics.MoveAccepted(result.Outcome)

	move := result.Move
	that.publish(ctx, entity.GameEvent{Type: entity.EventGameMove, GameID: id, Game: result.Snapshot, Move: &move})

	if result.Snapshot.Status == entity.StatusComplete {
		log.Info("game complete", "game_id", id, "winner_id", result.Snapshot.Winner(), "moves", len(result.Snapshot.Moves))

		that.publish(ctx, entity.GameEvent{Type: entity.EventGameComplete, GameID: id, Game: result.Snapshot})

		for _, player := range result.Players {
			that.mirrorPlayer(ctx, player)
		}
	}

	that.mirrorGame(ctx, result.Snapshot)

	return MoveResult{
		Board:    result.Snapshot.Board,
		Move:     result.Move,
		Status:   result.Snapshot.Status,
		WinnerID: result.Snapshot.Winner(),
	}, nil
}

func (that *GameManager) Leaderboard(_ context.Context, metric string, page, limit int) (entity.Leaderboard, error) {
	board, err := that.leaderboard.Ranked(metric, page, limit)
	if err != nil {
		that.metrics.Rejected("leaderboard", err)

		return entity.Leaderboard{}, err
	}

	return board, nil
}

func (that *GameManager) GetPlayer(_ context.Context, playerID string) (entity.Player, error) {
	return that.players.Get(playerID)
}

func (that *GameManager) publish(_ context.Context, event entity.GameEvent) {
	that.notifier.Publish(event)
}

func (that *GameManager) mirrorGame(ctx context.Context, snapshot entity.GameSnapshot) {
	if that.gameMirror == nil {
		return
	}

	if err := that.gameMirror.CreateOrUpdate(ctx, snapshot); err != nil {
		that.logger.Warn("failed to mirror game", "game_id", snapshot.ID, "error", err)
	}
}

func (that *GameManager) mirrorPlayer(ctx context.Context, player entity.Player) {
	if that.playerMirror == nil {
		return
	}

	if err := that.playerMirror.CreateOrUpdate(ctx, player); err != nil {
		that.logger.Warn("failed to mirror player", "player_id", player.ID, "error", err)
	}
}

type noopNotifier struct{}

func (noopNotifier) Publish(entity.GameEvent) {}

type noopRecorder struct{}

func (noopRecorder) GameCreated() {}

func (noopRecorder) GameDeleted() {}

func (noopRecorder) MoveAccepted(entity.Outcome) {}

func (noopRecorder) Rejected(string, error) {}
