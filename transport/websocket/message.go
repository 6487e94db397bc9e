package websocket

import (
	"encoding/json"
	"fmt"

	"github.com/rocketscienceinc/tictactoe-sessions/internal/apperror"
	"github.com/rocketscienceinc/tictactoe-sessions/internal/entity"
)

// Message - a request from or a reply to a client, routed by Action.
type Message struct {
	Action  string          `json:"action"`
	Payload json.RawMessage `json:"payload,omitempty"`
}

type Payload struct {
	GameID   int64  `json:"gameId"`
	PlayerID string `json:"playerId,omitempty"`
	Name     string `json:"name,omitempty"`
	Email    string `json:"email,omitempty"`
	Row      *int   `json:"row,omitempty"`
	Col      *int   `json:"col,omitempty"`
}

type ResponsePayload struct {
	Game     *entity.GameSnapshot `json:"game,omitempty"`
	Move     *entity.Move         `json:"move,omitempty"`
	WinnerID string               `json:"winnerId,omitempty"`
	Error    *ErrorPayload        `json:"error,omitempty"`
}

type ErrorPayload struct {
	Code    apperror.Kind `json:"code"`
	Message string        `json:"message"`
	Field   string        `json:"field,omitempty"`
}

// missingCoordinate - the first of row and col absent from a move payload.
func missingCoordinate(payload Payload) error {
	if payload.Row == nil {
		return apperror.WithField("row", fmt.Errorf("%w: row is required", apperror.ErrInvalidMove))
	}

	if payload.Col == nil {
		return apperror.WithField("col", fmt.Errorf("%w: col is required", apperror.ErrInvalidMove))
	}

	return nil
}

func newErrorPayload(err error) *ErrorPayload {
	kind := apperror.KindOf(err)

	message := err.Error()
	if kind == apperror.KindInternal {
		message = apperror.ErrInternal.Error()
	}

	return &ErrorPayload{
		Code:    kind,
		Message: message,
		Field:   apperror.FieldOf(err),
	}
}
