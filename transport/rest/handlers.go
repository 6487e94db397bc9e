package rest

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	"github.com/gorilla/mux"

	"github.com/rocketscienceinc/tictactoe-sessions/internal/apperror"
	"github.com/rocketscienceinc/tictactoe-sessions/internal/service"
)

type handlers struct {
	logger       *slog.Logger
	games        gameUseCase
	defaultLimit int
}

func (that *handlers) createGame(w http.ResponseWriter, r *http.Request) {
	var req createGameRequest
	if err := decode(r, &req); err != nil {
		writeError(w, r, that.logger, err)
		return
	}

	name := strings.TrimSpace(req.Name)
	if name == "" {
		name = fmt.Sprintf("Game %d", that.games.CountGames()+1)
	}

	summary, err := that.games.CreateGame(r.Context(), name)
	if err != nil {
		writeError(w, r, that.logger, err)
		return
	}

	writeJSON(w, http.StatusCreated, createGameResponse{
		Game:    gameRef{ID: summary.ID, Name: summary.Name},
		Message: fmt.Sprintf("Game %d created successfully", summary.ID),
	})
}

func (that *handlers) listGames(w http.ResponseWriter, r *http.Request) {
	games, err := that.games.ListGames(r.Context(), r.URL.Query().Get("status"))
	if err != nil {
		writeError(w, r, that.logger, apperror.WithField("status", err))
		return
	}

	writeJSON(w, http.StatusOK, listGamesResponse{Games: games, Count: len(games)})
}

// getGame - existence check only; the body is empty.
func (that *handlers) getGame(w http.ResponseWriter, r *http.Request) {
	id, err := gameID(r)
	if err != nil {
		writeError(w, r, that.logger, err)
		return
	}

	if _, err = that.games.GetStatus(r.Context(), id); err != nil {
		writeError(w, r, that.logger, err)
		return
	}

	w.WriteHeader(http.StatusOK)
}

func (that *handlers) getStatus(w http.ResponseWriter, r *http.Request) {
	id, err := gameID(r)
	if err != nil {
		writeError(w, r, that.logger, err)
		return
	}

	snapshot, err := that.games.GetStatus(r.Context(), id)
	if err != nil {
		writeError(w, r, that.logger, err)
		return
	}

	writeJSON(w, http.StatusOK, statusResponse{Status: snapshot})
}

func (that *handlers) deleteGame(w http.ResponseWriter, r *http.Request) {
	id, err := gameID(r)
	if err != nil {
		writeError(w, r, that.logger, err)
		return
	}

	if err = that.games.DeleteGame(r.Context(), id); err != nil {
		writeError(w, r, that.logger, err)
		return
	}

	writeJSON(w, http.StatusOK, messageResponse{Message: fmt.Sprintf("Game %d deleted successfully", id)})
}

func (that *handlers) joinGame(w http.ResponseWriter, r *http.Request) {
	id, err := gameID(r)
	if err != nil {
		writeError(w, r, that.logger, err)
		return
	}

	var req joinGameRequest
	if err = decode(r, &req); err != nil {
		writeError(w, r, that.logger, err)
		return
	}

	if err = validateRequest(req); err != nil {
		writeError(w, r, that.logger, err)
		return
	}

	result, err := that.games.JoinGame(r.Context(), id, req.PlayerID, req.Name, req.Email)
	if err != nil {
		writeError(w, r, that.logger, err)
		return
	}

	writeJSON(w, http.StatusOK, messageResponse{Message: result.Message})
}

func (that *handlers) makeMove(w http.ResponseWriter, r *http.Request) {
	id, err := gameID(r)
	if err != nil {
		writeError(w, r, that.logger, err)
		return
	}

	var req makeMoveRequest
	if err = decode(r, &req); err != nil {
		writeError(w, r, that.logger, err)
		return
	}

	if err = validateRequest(req); err != nil {
		writeError(w, r, that.logger, err)
		return
	}

	result, err := that.games.MakeMove(r.Context(), id, req.PlayerID, *req.Row, *req.Col)
	if err != nil {
		writeError(w, r, that.logger, err)
		return
	}

	var winnerID *string
	if result.WinnerID != "" {
		winnerID = &result.WinnerID
	}

	writeJSON(w, http.StatusOK, moveResponse{
		Game:     result.Board,
		Move:     [2]int{result.Move.Row, result.Move.Col},
		Status:   result.Status,
		WinnerID: winnerID,
		Message:  "Move made successfully",
	})
}

func (that *handlers) leaderboard(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()

	page, err := intParam(query.Get("page"), "page", 1)
	if err != nil {
		writeError(w, r, that.logger, err)
		return
	}

	defaultLimit := that.defaultLimit
	if defaultLimit < 1 {
		defaultLimit = service.DefaultPageLimit
	}

	limit, err := intParam(query.Get("limit"), "limit", defaultLimit)
	if err != nil {
		writeError(w, r, that.logger, err)
		return
	}

	board, err := that.games.Leaderboard(r.Context(), mux.Vars(r)["metric"], page, limit)
	if err != nil {
		writeError(w, r, that.logger, err)
		return
	}

	writeJSON(w, http.StatusOK, board)
}

func (that *handlers) getPlayer(w http.ResponseWriter, r *http.Request) {
	player, err := that.games.GetPlayer(r.Context(), mux.Vars(r)["id"])
	if err != nil {
		writeError(w, r, that.logger, err)
		return
	}

	writeJSON(w, http.StatusOK, newPlayerResponse(player))
}

func gameID(r *http.Request) (int64, error) {
	raw := mux.Vars(r)["id"]

	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return 0, apperror.WithField("id", fmt.Errorf("%w: game id %s", apperror.ErrGameNotFound, raw))
	}

	return id, nil
}

func intParam(raw, field string, fallback int) (int, error) {
	if raw == "" {
		return fallback, nil
	}

	value, err := strconv.Atoi(raw)
	if err != nil {
		return 0, apperror.WithField(field, fmt.Errorf("%w: %s must be an integer", apperror.ErrInvalidPagination, field))
	}

	return value, nil
}

func decode(r *http.Request, dst any) error {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		return fmt.Errorf("%w: %v", apperror.ErrMalformedRequest, err)
	}

	return nil
}
