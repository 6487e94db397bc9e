package rest

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/rocketscienceinc/tictactoe-sessions/internal/apperror"
)

var statusByKind = map[apperror.Kind]int{
	apperror.KindNotFound:     http.StatusNotFound,
	apperror.KindConflict:     http.StatusConflict,
	apperror.KindInvalidInput: http.StatusBadRequest,
	apperror.KindInvalidState: http.StatusConflict,
	apperror.KindInternal:     http.StatusInternalServerError,
}

func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if data != nil {
		_ = json.NewEncoder(w).Encode(data)
	}
}

// writeError - internal errors are logged and reported without details.
func writeError(w http.ResponseWriter, r *http.Request, logger *slog.Logger, err error) {
	kind := apperror.KindOf(err)

	body := errorBody{
		Code:    string(kind),
		Message: err.Error(),
		Field:   apperror.FieldOf(err),
	}

	if kind == apperror.KindInternal {
		logger.Error("request failed", "path", r.URL.Path, "request_id", requestIDFrom(r.Context()), "error", err)
		body.Message = apperror.ErrInternal.Error()
	}

	writeJSON(w, statusByKind[kind], errorResponse{Error: body})
}
