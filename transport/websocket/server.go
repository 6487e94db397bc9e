package websocket

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/gorilla/websocket"

	"github.com/rocketscienceinc/tictactoe-sessions/internal/apperror"
	"github.com/rocketscienceinc/tictactoe-sessions/internal/entity"
	"github.com/rocketscienceinc/tictactoe-sessions/internal/usecase"
)

type gameUseCase interface {
	GetStatus(ctx context.Context, id int64) (entity.GameSnapshot, error)
	JoinGame(ctx context.Context, id int64, playerID, name, email string) (usecase.JoinResult, error)
	MakeMove(ctx context.Context, id int64, playerID string, row, col int) (usecase.MoveResult, error)
}

type handlerFunc func(ctx context.Context, payload Payload) (ResponsePayload, error)

// Server - upgrades HTTP requests to websocket subscriptions and answers game actions
// sent by subscribed clients.
type Server struct {
	logger   *slog.Logger
	hub      *Hub
	games    gameUseCase
	upgrader websocket.Upgrader

	handlers map[string]handlerFunc
}

func New(logger *slog.Logger, hub *Hub, games gameUseCase) *Server {
	server := &Server{
		logger: logger.With("component", "websocket"),
		hub:    hub,
		games:  games,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin: func(*http.Request) bool {
				return true
			},
		},

		handlers: make(map[string]handlerFunc),
	}

	server.handlers["game:status"] = server.handleStatus
	server.handlers["game:join"] = server.handleJoin
	server.handlers["game:move"] = server.handleMove

	return server
}

// ServeWS - subscribes the connection to gameID, or to every game when gameID is AllGames.
func (that *Server) ServeWS(w http.ResponseWriter, r *http.Request, gameID int64) {
	log := that.logger.With("method", "ServeWS")

	if gameID != AllGames {
		if _, err := that.games.GetStatus(r.Context(), gameID); err != nil {
			http.Error(w, err.Error(), http.StatusNotFound)
			return
		}
	}

	conn, err := that.upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Warn("websocket upgrade failed", "error", err)
		return
	}

	c := that.hub.attach(conn, gameID)

	log.Info("websocket connection established", "client_id", c.id, "game_id", gameID)

	go c.writePump()
	go c.readPump(that.handleMessage)
}

func (that *Server) handleMessage(c *client, data []byte) {
	log := that.logger.With("method", "handleMessage", "client_id", c.id)

	var message Message
	if err := json.Unmarshal(data, &message); err != nil {
		log.Debug("failed to unmarshal message", "error", err)
		that.respond(c, "error", ResponsePayload{Error: &ErrorPayload{
			Code:    apperror.KindInvalidInput,
			Message: "malformed message",
		}})

		return
	}

	handler, ok := that.handlers[message.Action]
	if !ok {
		that.respond(c, message.Action, ResponsePayload{Error: &ErrorPayload{
			Code:    apperror.KindInvalidInput,
			Message: fmt.Sprintf("unknown action %q", message.Action),
		}})

		return
	}

	var payload Payload
	if len(message.Payload) > 0 {
		if err := json.Unmarshal(message.Payload, &payload); err != nil {
			that.respond(c, message.Action, ResponsePayload{Error: &ErrorPayload{
				Code:    apperror.KindInvalidInput,
				Message: "malformed payload",
			}})

			return
		}
	}

	if payload.GameID == AllGames {
		payload.GameID = c.gameID
	}

	response, err := handler(context.Background(), payload)
	if err != nil {
		log.Debug("action failed", "action", message.Action, "error", err)
		response = ResponsePayload{Error: newErrorPayload(err)}
	}

	that.respond(c, message.Action, response)
}

func (that *Server) handleStatus(ctx context.Context, payload Payload) (ResponsePayload, error) {
	snapshot, err := that.games.GetStatus(ctx, payload.GameID)
	if err != nil {
		return ResponsePayload{}, err
	}

	return ResponsePayload{Game: &snapshot}, nil
}

func (that *Server) handleJoin(ctx context.Context, payload Payload) (ResponsePayload, error) {
	result, err := that.games.JoinGame(ctx, payload.GameID, payload.PlayerID, payload.Name, payload.Email)
	if err != nil {
		return ResponsePayload{}, err
	}

	return ResponsePayload{Game: &result.Game}, nil
}

func (that *Server) handleMove(ctx context.Context, payload Payload) (ResponsePayload, error) {
	if err := missingCoordinate(payload); err != nil {
		return ResponsePayload{}, err
	}

	result, err := that.games.MakeMove(ctx, payload.GameID, payload.PlayerID, *payload.Row, *payload.Col)
	if err != nil {
		return ResponsePayload{}, err
	}

	return ResponsePayload{Move: &result.Move, WinnerID: result.WinnerID}, nil
}

func (that *Server) respond(c *client, action string, payload ResponsePayload) {
	body, err := json.Marshal(payload)
	if err != nil {
		that.logger.Error("failed to marshal response", "action", action, "error", err)
		return
	}

	data, err := json.Marshal(Message{Action: action, Payload: body})
	if err != nil {
		that.logger.Error("failed to marshal message", "action", action, "error", err)
		return
	}

	that.hub.reply(c, data)
}
