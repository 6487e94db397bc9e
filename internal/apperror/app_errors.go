package apperror

import (
	"errors"
	"fmt"
)

var (
	ErrGameNotFound   = errors.New("game not found")
	ErrPlayerNotFound = errors.New("player not found")

	ErrGameFull         = errors.New("game is full")
	ErrDuplicatePlayer  = errors.New("player already joined this game")
	ErrIdentityConflict = errors.New("player identity conflicts with existing record")

	ErrInvalidPlayerData   = errors.New("invalid player data")
	ErrInvalidGameName     = errors.New("game name must not be empty")
	ErrInvalidMove         = errors.New("invalid move")
	ErrOutOfBounds         = fmt.Errorf("%w: coordinates out of bounds", ErrInvalidMove)
	ErrCellOccupied        = fmt.Errorf("%w: cell is already occupied", ErrInvalidMove)
	ErrInvalidPagination   = errors.New("invalid pagination")
	ErrInvalidMetric       = errors.New("unknown leaderboard metric")
	ErrInvalidStatusFilter = errors.New("unknown game status filter")
	ErrMalformedRequest    = errors.New("malformed request")

	ErrGameIsNotStarted = errors.New("game is not started")
	ErrGameFinished     = errors.New("game is already finished")
	ErrNotYourTurn      = errors.New("it's not your turn")

	ErrInternal = errors.New("internal error")
)

// Kind groups errors the way callers are expected to react to them.
type Kind string

const (
	KindNotFound     Kind = "not_found"
	KindConflict     Kind = "conflict"
	KindInvalidInput Kind = "invalid_input"
	KindInvalidState Kind = "invalid_state"
	KindInternal     Kind = "internal"
)

var kinds = []struct {
	kind Kind
	errs []error
}{
	{KindNotFound, []error{ErrGameNotFound, ErrPlayerNotFound}},
	{KindConflict, []error{ErrGameFull, ErrDuplicatePlayer, ErrIdentityConflict}},
	{KindInvalidInput, []error{
		ErrInvalidPlayerData, ErrInvalidGameName, ErrInvalidMove,
		ErrInvalidPagination, ErrInvalidMetric, ErrInvalidStatusFilter, ErrMalformedRequest,
	}},
	{KindInvalidState, []error{ErrGameIsNotStarted, ErrGameFinished, ErrNotYourTurn}},
}

// KindOf - classifies err. Anything outside the known taxonomy is reported as internal.
func KindOf(err error) Kind {
	for _, group := range kinds {
		for _, target := range group.errs {
			if errors.Is(err, target) {
				return group.kind
			}
		}
	}

	return KindInternal
}

// FieldError - attaches the name of the offending input field to an error.
type FieldError struct {
	Field string
	Err   error
}

func (that *FieldError) Error() string {
	return fmt.Sprintf("%s: %s", that.Field, that.Err)
}

func (that *FieldError) Unwrap() error {
	return that.Err
}

func WithField(field string, err error) error {
	return &FieldError{Field: field, Err: err}
}

// FieldOf - returns the offending field carried by err, if any.
func FieldOf(err error) string {
	var fieldErr *FieldError
	if errors.As(err, &fieldErr) {
		return fieldErr.Field
	}

	return ""
}

// Internalf - reports a broken internal invariant.
func Internalf(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrInternal, fmt.Sprintf(format, args...))
}
