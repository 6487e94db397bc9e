package entity

import (
	"fmt"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/rocketscienceinc/tictactoe-sessions/internal/apperror"
)

type Status string

const (
	StatusPending    Status = "pending"
	StatusInProgress Status = "in_progress"
	StatusComplete   Status = "complete"
)

const MaxPlayers = 2

var validate = validator.New()

func ParseStatus(value string) (Status, error) {
	switch status := Status(value); status {
	case StatusPending, StatusInProgress, StatusComplete:
		return status, nil
	default:
		return "", fmt.Errorf("%w: %q", apperror.ErrInvalidStatusFilter, value)
	}
}

type GamePlayer struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
	Mark  Mark   `json:"mark"`
}

type Move struct {
	ID        string    `json:"id"`
	GameID    int64     `json:"gameId"`
	PlayerID  string    `json:"playerId"`
	Row       int       `json:"row"`
	Col       int       `json:"col"`
	Mark      Mark      `json:"mark"`
	Timestamp time.Time `json:"timestamp"`
}

type GameSummary struct {
	ID     int64  `json:"id"`
	Name   string `json:"name"`
	Status Status `json:"status"`
}

type GameSnapshot struct {
	ID              int64        `json:"id"`
	Name            string       `json:"name"`
	Status          Status       `json:"status"`
	Board           [][]string   `json:"board"`
	CurrentPlayerID *string      `json:"currentPlayerId"`
	WinnerID        *string      `json:"winnerId"`
	Players         []GamePlayer `json:"players"`
	Moves           []Move       `json:"moves"`
	CreatedAt       time.Time    `json:"createdAt"`
	UpdatedAt       time.Time    `json:"updatedAt"`
}

// CurrentPlayer - the turn holder's id, or "" when nobody is to move.
func (that GameSnapshot) CurrentPlayer() string {
	if that.CurrentPlayerID == nil {
		return ""
	}

	return *that.CurrentPlayerID
}

// Winner - the winner's id, or "" when there is none.
func (that GameSnapshot) Winner() string {
	if that.WinnerID == nil {
		return ""
	}

	return *that.WinnerID
}

// optionalID - absent ids serialize as null.
func optionalID(id string) *string {
	if id == "" {
		return nil
	}

	return &id
}

// PlayerResult - what a completed game contributes to one player's statistics.
type PlayerResult struct {
	PlayerID string
	Result   GameResult
	Moves    int
}

// Game - state of a single match. It carries no lock of its own; callers serialize access.
type Game struct {
	ID        int64
	Name      string
	Status    Status
	Board     Board
	Players   []GamePlayer
	Turn      Mark
	Moves     []Move
	WinnerID  string
	CreatedAt time.Time
	UpdatedAt time.Time

	now func() time.Time
}

func NewGame(id int64, name string) *Game {
	return newGame(id, name, time.Now)
}

func newGame(id int64, name string, now func() time.Time) *Game {
	createdAt := now()

	return &Game{
		ID:        id,
		Name:      name,
		Status:    StatusPending,
		Turn:      MarkEmpty,
		CreatedAt: createdAt,
		UpdatedAt: createdAt,
		now:       now,
	}
}

// ValidatePlayer - checks caller-supplied identity fields before anything is mutated.
func ValidatePlayer(playerID, email string) error {
	if strings.TrimSpace(playerID) == "" {
		return apperror.WithField("playerId", apperror.ErrInvalidPlayerData)
	}

	if strings.TrimSpace(email) == "" {
		return apperror.WithField("email", apperror.ErrInvalidPlayerData)
	}

	if err := validate.Var(email, "email"); err != nil {
		return apperror.WithField("email", apperror.ErrInvalidPlayerData)
	}

	return nil
}

// CanJoin - reports whether playerID could be admitted without changing the game.
func (that *Game) CanJoin(playerID string) error {
	if that.HasPlayer(playerID) {
		return fmt.Errorf("%w: %s", apperror.ErrDuplicatePlayer, playerID)
	}

	if len(that.Players) >= MaxPlayers {
		return fmt.Errorf("%w: game id %d", apperror.ErrGameFull, that.ID)
	}

	return nil
}

// Join - admits a player. The second join starts the game with X to move.
func (that *Game) Join(playerID, name, email string) (GamePlayer, error) {
	if err := ValidatePlayer(playerID, email); err != nil {
		return GamePlayer{}, err
	}

	if err := that.CanJoin(playerID); err != nil {
		return GamePlayer{}, err
	}

	mark := MarkX
	if len(that.Players) == 1 {
		mark = MarkO
	}

	player := GamePlayer{ID: playerID, Name: name, Email: email, Mark: mark}
	that.Players = append(that.Players, player)

	if len(that.Players) == MaxPlayers {
		that.Status = StatusInProgress
		that.Turn = MarkX
	}

	that.touch()

	return player, nil
}

// MakeMove - applies one move for playerID and returns the evaluated outcome.
// On error the game is left untouched.
func (that *Game) MakeMove(playerID string, row, col int) (Move, Outcome, error) {
	if err := that.ConfirmInProgress(); err != nil {
		return Move{}, Outcome{}, err
	}

	if that.CurrentPlayerID() != playerID {
		return Move{}, Outcome{}, fmt.Errorf("%w: player %s", apperror.ErrNotYourTurn, playerID)
	}

	if err := that.Board.ApplyMove(row, col, that.Turn); err != nil {
		return Move{}, Outcome{}, err
	}

	move := Move{
		ID:        fmt.Sprintf("m-%d", len(that.Moves)+1),
		GameID:    that.ID,
		PlayerID:  playerID,
		Row:       row,
		Col:       col,
		Mark:      that.Turn,
		Timestamp: that.clock(),
	}
	that.Moves = append(that.Moves, move)
	that.UpdatedAt = move.Timestamp

	outcome := that.Board.EvaluateOutcome()
	switch outcome.Kind {
	case OutcomeWin:
		that.Status = StatusComplete
		that.WinnerID = playerID
		that.Turn = MarkEmpty
	case OutcomeDraw:
		that.Status = StatusComplete
		that.Turn = MarkEmpty
	default:
		that.Turn = that.Turn.Opponent()
	}

	return move, outcome, nil
}

func (that *Game) ConfirmInProgress() error {
	switch that.Status {
	case StatusPending:
		return apperror.ErrGameIsNotStarted
	case StatusComplete:
		return apperror.ErrGameFinished
	case StatusInProgress:
		return nil
	default:
		return apperror.Internalf("unknown game status %q", that.Status)
	}
}

// Results - per-player statistics deltas of a completed game.
func (that *Game) Results() ([]PlayerResult, error) {
	if that.Status != StatusComplete {
		return nil, apperror.Internalf("game %d is not complete", that.ID)
	}

	if len(that.Players) != MaxPlayers {
		return nil, apperror.Internalf("complete game %d has %d players", that.ID, len(that.Players))
	}

	results := make([]PlayerResult, 0, MaxPlayers)
	for _, player := range that.Players {
		result := ResultDraw
		if that.WinnerID != "" {
			result = ResultLoss
			if that.WinnerID == player.ID {
				result = ResultWin
			}
		}

		results = append(results, PlayerResult{
			PlayerID: player.ID,
			Result:   result,
			Moves:    that.MoveCount(player.ID),
		})
	}

	return results, nil
}

func (that *Game) MoveCount(playerID string) int {
	count := 0
	for _, move := range that.Moves {
		if move.PlayerID == playerID {
			count++
		}
	}

	return count
}

func (that *Game) HasPlayer(playerID string) bool {
	for _, player := range that.Players {
		if player.ID == playerID {
			return true
		}
	}

	return false
}

// CurrentPlayerID - the turn holder, or "" when the game is not in progress.
func (that *Game) CurrentPlayerID() string {
	if that.Status != StatusInProgress {
		return ""
	}

	for _, player := range that.Players {
		if player.Mark == that.Turn {
			return player.ID
		}
	}

	return ""
}

func (that *Game) Summary() GameSummary {
	return GameSummary{ID: that.ID, Name: that.Name, Status: that.Status}
}

// Snapshot - deep copy safe to hand out after the caller releases its lock.
func (that *Game) Snapshot() GameSnapshot {
	players := make([]GamePlayer, len(that.Players))
	copy(players, that.Players)

	moves := make([]Move, len(that.Moves))
	copy(moves, that.Moves)

	return GameSnapshot{
		ID:              that.ID,
		Name:            that.Name,
		Status:          that.Status,
		Board:           that.Board.Snapshot(),
		CurrentPlayerID: optionalID(that.CurrentPlayerID()),
		WinnerID:        optionalID(that.WinnerID),
		Players:         players,
		Moves:           moves,
		CreatedAt:       that.CreatedAt,
		UpdatedAt:       that.UpdatedAt,
	}
}

func (that *Game) touch() {
	that.UpdatedAt = that.clock()
}

func (that *Game) clock() time.Time {
	if that.now == nil {
		return time.Now()
	}

	return that.now()
}
