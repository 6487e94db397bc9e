package tictactoe

import (
	"fmt"
	"sync"
	"sync/atomic"

	"github.com/rocketscienceinc/tictactoe-sessions/internal/apperror"
	"github.com/rocketscienceinc/tictactoe-sessions/internal/entity"
)

type playerStore interface {
	UpsertIdentity(playerID, name, email string) (entity.Player, error)
	RecordResult(playerID string, result entity.GameResult, moves int) (entity.Player, error)
}

// MoveResult - everything a caller needs to report an accepted move.
type MoveResult struct {
	Move     entity.Move
	Outcome  entity.Outcome
	Snapshot entity.GameSnapshot
	// Players holds the updated statistics of both players when the move ended the game.
	Players []entity.Player
}

// Session - a game guarded by its own lock.
// Join, Move and Status hold the lock for their whole duration, statistics updates included.
type Session struct {
	mu      sync.Mutex
	game    *entity.Game
	players playerStore

	id     int64
	name   string
	status atomic.Value
}

func NewSession(game *entity.Game, players playerStore) *Session {
	session := &Session{
		game:    game,
		players: players,
		id:      game.ID,
		name:    game.Name,
	}
	session.status.Store(game.Status)

	return session
}

func (that *Session) ID() int64 {
	return that.id
}

// Summary - id, name and last published status, read without the game lock.
func (that *Session) Summary() entity.GameSummary {
	return entity.GameSummary{
		ID:     that.id,
		Name:   that.name,
		Status: that.status.Load().(entity.Status),
	}
}

// Join - admits a player and registers the identity in the player store.
// Nothing changes when the identity conflicts with a stored one.
func (that *Session) Join(playerID, name, email string) (entity.GameSnapshot, error) {
	that.mu.Lock()
	defer that.mu.Unlock()

	if err := entity.ValidatePlayer(playerID, email); err != nil {
		return entity.GameSnapshot{}, err
	}

	if err := that.game.CanJoin(playerID); err != nil {
		return entity.GameSnapshot{}, err
	}

	if _, err := that.players.UpsertIdentity(playerID, name, email); err != nil {
		return entity.GameSnapshot{}, fmt.Errorf("failed to register player: %w", err)
	}

	if _, err := that.game.Join(playerID, name, email); err != nil {
		return entity.GameSnapshot{}, err
	}

	that.publishStatus()

	return that.game.Snapshot(), nil
}

// Move - applies a move and, when it ends the game, records both players' results
// before the lock is released.
func (that *Session) Move(playerID string, row, col int) (MoveResult, error) {
	that.mu.Lock()
	defer that.mu.Unlock()

	move, outcome, err := that.game.MakeMove(playerID, row, col)
	if err != nil {
		return MoveResult{}, err
	}

	result := MoveResult{Move: move, Outcome: outcome}

	if that.game.Status == entity.StatusComplete {
		result.Players, err = that.recordResults()
		if err != nil {
			that.publishStatus()

			return MoveResult{}, err
		}
	}

	that.publishStatus()
	result.Snapshot = that.game.Snapshot()

	return result, nil
}

func (that *Session) Status() entity.GameSnapshot {
	that.mu.Lock()
	defer that.mu.Unlock()

	return that.game.Snapshot()
}

func (that *Session) recordResults() ([]entity.Player, error) {
	results, err := that.game.Results()
	if err != nil {
		return nil, err
	}

	updated := make([]entity.Player, 0, len(results))
	for _, res := range results {
		player, err := that.players.RecordResult(res.PlayerID, res.Result, res.Moves)
		if err != nil {
			return nil, apperror.Internalf("failed to record result for player %s: %v", res.PlayerID, err)
		}

		updated = append(updated, player)
	}

	return updated, nil
}

// publishStatus - the lock-free status is written last so listings never run ahead of statistics.
func (that *Session) publishStatus() {
	that.status.Store(that.game.Status)
}
