package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/kirvasilev/notesync/internal/entity"
	"github.com/kirvasilev/notesync/pkg/logger/slogx"
)

func writeJSON(ctx context.Context, w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slogx.Error(ctx, "json encode failed", slogx.Err(err))
	}
}

type errResponse struct {
	Error   string            `json:"error"`
	Details map[string]string `json:"details,omitempty"`
}

func errorBody(msg string) errResponse {
	return errResponse{Error: msg}
}

// writeError maps the engine's error taxonomy onto HTTP statuses.
func writeError(ctx context.Context, w http.ResponseWriter, err error) {
	var (
		invalidErr    *entity.InvalidRequestError
		validationErr *entity.ValidationError
	)

	switch {
	case errors.As(err, &invalidErr):
		writeJSON(ctx, w, http.StatusBadRequest, errorBody(invalidErr.Error()))

	case errors.As(err, &validationErr):
		writeJSON(ctx, w, http.StatusBadRequest, errResponse{
			Error:   "validation error",
			Details: validationErr.Fields,
		})

	case errors.Is(err, entity.ErrNoteNotFound):
		writeJSON(ctx, w, http.StatusNotFound, errorBody("note not found"))

	case errors.Is(err, entity.ErrStoreUnavailable):
		writeJSON(ctx, w, http.StatusServiceUnavailable, errorBody("store unavailable, retry later"))

	default:
		slogx.Error(ctx, "unclassified handler error", slogx.Err(err))
		writeJSON(ctx, w, http.StatusInternalServerError, errorBody("internal error"))
	}
}
