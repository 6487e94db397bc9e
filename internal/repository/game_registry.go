package repository

import (
	"fmt"
	"sort"
	"strings"
	"sync"

	"github.com/rocketscienceinc/tictactoe-sessions/internal/apperror"
	"github.com/rocketscienceinc/tictactoe-sessions/internal/entity"
	"github.com/rocketscienceinc/tictactoe-sessions/internal/tictactoe"
)

type sessionPlayers interface {
	UpsertIdentity(playerID, name, email string) (entity.Player, error)
	RecordResult(playerID string, result entity.GameResult, moves int) (entity.Player, error)
}

// GameRegistry - owns every live game. Its lock guards only the collection and is
// always released before a caller takes a game's own lock.
type GameRegistry struct {
	mu     sync.RWMutex
	games  map[int64]*tictactoe.Session
	lastID int64

	players sessionPlayers
}

func NewGameRegistry(players sessionPlayers) *GameRegistry {
	return &GameRegistry{
		games:   make(map[int64]*tictactoe.Session),
		players: players,
	}
}

// Create - allocates the next id; ids start at 1 and are never reused.
func (that *GameRegistry) Create(name string) (entity.GameSummary, error) {
	if strings.TrimSpace(name) == "" {
		return entity.GameSummary{}, apperror.WithField("name", apperror.ErrInvalidGameName)
	}

	that.mu.Lock()
	defer that.mu.Unlock()

	that.lastID++
	game := entity.NewGame(that.lastID, name)
	that.games[game.ID] = tictactoe.NewSession(game, that.players)

	return game.Summary(), nil
}

func (that *GameRegistry) Get(id int64) (*tictactoe.Session, error) {
	that.mu.RLock()
	defer that.mu.RUnlock()

	session, ok := that.games[id]
	if !ok {
		return nil, fmt.Errorf("%w: game id %d", apperror.ErrGameNotFound, id)
	}

	return session, nil
}

// List - summaries ordered by id. Statuses are read without game locks and may trail
// a transition that is still in flight.
func (that *GameRegistry) List(filter *entity.Status) []entity.GameSummary {
	that.mu.RLock()
	sessions := make([]*tictactoe.Session, 0, len(that.games))
	for _, session := range that.games {
		sessions = append(sessions, session)
	}
	that.mu.RUnlock()

	summaries := make([]entity.GameSummary, 0, len(sessions))
	for _, session := range sessions {
		summary := session.Summary()
		if filter != nil && summary.Status != *filter {
			continue
		}

		summaries = append(summaries, summary)
	}

	sort.Slice(summaries, func(i, j int) bool {
		return summaries[i].ID < summaries[j].ID
	})

	return summaries
}

// Delete - removes a game in any status. A move already holding the game's lock
// finishes on the detached session.
func (that *GameRegistry) Delete(id int64) error {
	that.mu.Lock()
	defer that.mu.Unlock()

	if _, ok := that.games[id]; !ok {
		return fmt.Errorf("%w: game id %d", apperror.ErrGameNotFound, id)
	}

	delete(that.games, id)

	return nil
}

func (that *GameRegistry) Count() int {
	that.mu.RLock()
	defer that.mu.RUnlock()

	return len(that.games)
}
