package repository

import (
	"fmt"
	"sort"
	"sync"

	"github.com/rocketscienceinc/tictactoe-sessions/internal/apperror"
	"github.com/rocketscienceinc/tictactoe-sessions/internal/entity"
)

// playerRecord - identity fields are immutable after creation; stats change under mu.
type playerRecord struct {
	id    string
	name  string
	email string

	mu    sync.Mutex
	stats entity.PlayerStats
}

func (that *playerRecord) snapshot() entity.Player {
	that.mu.Lock()
	defer that.mu.Unlock()

	return entity.Player{ID: that.id, Name: that.name, Email: that.email, Stats: that.stats}
}

// PlayerStore - every known player keyed by the caller-supplied id.
type PlayerStore struct {
	mu      sync.RWMutex
	players map[string]*playerRecord
	emails  map[string]string
}

func NewPlayerStore() *PlayerStore {
	return &PlayerStore{
		players: make(map[string]*playerRecord),
		emails:  make(map[string]string),
	}
}

// UpsertIdentity - creates the player on first sight; afterwards the identity must match.
func (that *PlayerStore) UpsertIdentity(playerID, name, email string) (entity.Player, error) {
	that.mu.Lock()
	defer that.mu.Unlock()

	if record, ok := that.players[playerID]; ok {
		if record.name != name {
			return entity.Player{}, apperror.WithField("name",
				fmt.Errorf("%w: player %s", apperror.ErrIdentityConflict, playerID))
		}

		if record.email != email {
			return entity.Player{}, apperror.WithField("email",
				fmt.Errorf("%w: player %s", apperror.ErrIdentityConflict, playerID))
		}

		return record.snapshot(), nil
	}

	if owner, ok := that.emails[email]; ok {
		return entity.Player{}, apperror.WithField("email",
			fmt.Errorf("%w: email already used by player %s", apperror.ErrIdentityConflict, owner))
	}

	record := &playerRecord{id: playerID, name: name, email: email}
	that.players[playerID] = record
	that.emails[email] = playerID

	return record.snapshot(), nil
}

// RecordResult - applies one completed game to a single player under that player's lock.
func (that *PlayerStore) RecordResult(playerID string, result entity.GameResult, moves int) (entity.Player, error) {
	record, err := that.record(playerID)
	if err != nil {
		return entity.Player{}, err
	}

	record.mu.Lock()
	defer record.mu.Unlock()

	record.stats.Apply(result, moves)

	return entity.Player{ID: record.id, Name: record.name, Email: record.email, Stats: record.stats}, nil
}

func (that *PlayerStore) Get(playerID string) (entity.Player, error) {
	record, err := that.record(playerID)
	if err != nil {
		return entity.Player{}, err
	}

	return record.snapshot(), nil
}

// List - per-player snapshots ordered by id.
func (that *PlayerStore) List() []entity.Player {
	that.mu.RLock()
	records := make([]*playerRecord, 0, len(that.players))
	for _, record := range that.players {
		records = append(records, record)
	}
	that.mu.RUnlock()

	players := make([]entity.Player, 0, len(records))
	for _, record := range records {
		players = append(players, record.snapshot())
	}

	sort.Slice(players, func(i, j int) bool {
		return players[i].ID < players[j].ID
	})

	return players
}

func (that *PlayerStore) record(playerID string) (*playerRecord, error) {
	that.mu.RLock()
	defer that.mu.RUnlock()

	record, ok := that.players[playerID]
	if !ok {
		return nil, fmt.Errorf("%w: %s", apperror.ErrPlayerNotFound, playerID)
	}

	return record, nil
}
