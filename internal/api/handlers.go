package api

import (
	"context"
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/kirvasilev/notesync/internal/entity"
)

const maxBodyBytes = 1 << 20

// Accepted range for a "since" checkpoint given as epoch milliseconds.
const (
	minSinceMillis = 946684800000  // 2000-01-01T00:00:00Z
	maxSinceMillis = 4102444800000 // 2100-01-01T00:00:00Z
)

// SyncEngine is the operation surface this adapter decodes requests into.
type SyncEngine interface {
	Pull(ctx context.Context, userEmail string, since *time.Time) ([]entity.Note, error)
	Push(ctx context.Context, note entity.Note) (entity.Note, error)
	UpdatePartial(ctx context.Context, id string, title, body *string) (entity.Note, error)
	Remove(ctx context.Context, id string) (entity.Note, error)
	GetOne(ctx context.Context, id string) (entity.Note, error)
	SubscribeToEvents(ctx context.Context, userEmail string) (<-chan entity.NoteEvent, error)
}

type Handler struct {
	engine SyncEngine
}

func NewHandler(engine SyncEngine) *Handler {
	return &Handler{engine: engine}
}

// parseSince accepts an RFC 3339 timestamp or epoch milliseconds. Returns
// nil when the parameter is absent.
func parseSince(raw string) (*time.Time, error) {
	if raw == "" {
		return nil, nil
	}

	if ts, err := time.Parse(time.RFC3339Nano, raw); err == nil {
		return &ts, nil
	}

	if ms, err := strconv.ParseInt(raw, 10, 64); err == nil {
		// Bare numbers like a stray year would otherwise decode as a
		// timestamp near 1970 and silently return the full dataset.
		if ms < minSinceMillis || ms > maxSinceMillis {
			return nil, entity.NewInvalidRequest("since", "epoch milliseconds out of range")
		}

		ts := time.UnixMilli(ms).UTC()
		return &ts, nil
	}

	return nil, entity.NewInvalidRequest("since", "must be RFC 3339 or epoch milliseconds")
}

// ListNotes handles GET /api/notes?userEmail=...&since=...
func (h *Handler) ListNotes(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	q := r.URL.Query()

	since, err := parseSince(q.Get("since"))
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	notes, err := h.engine.Pull(ctx, q.Get("userEmail"), since)
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	writeJSON(ctx, w, http.StatusOK, notesToDTO(notes))
}

// CreateOrUpdateNote handles POST /api/notes.
func (h *Handler) CreateOrUpdateNote(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)

	var req NoteDTO
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(ctx, w, http.StatusBadRequest, errorBody("invalid JSON body"))
		return
	}

	stored, err := h.engine.Push(ctx, dtoToNote(req))
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	writeJSON(ctx, w, http.StatusOK, noteToDTO(stored))
}

// GetNote handles GET /api/notes/{id}.
func (h *Handler) GetNote(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	note, err := h.engine.GetOne(ctx, chi.URLParam(r, "id"))
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	writeJSON(ctx, w, http.StatusOK, noteToDTO(note))
}

// UpdateNote handles PUT /api/notes/{id}.
func (h *Handler) UpdateNote(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)

	var req PatchNoteRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(ctx, w, http.StatusBadRequest, errorBody("invalid JSON body"))
		return
	}

	note, err := h.engine.UpdatePartial(ctx, chi.URLParam(r, "id"), req.Title, req.Body)
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	writeJSON(ctx, w, http.StatusOK, noteToDTO(note))
}

// DeleteNote handles DELETE /api/notes/{id}. The note is tombstoned, not
// purged, so the deletion reaches other clients through delta pulls.
func (h *Handler) DeleteNote(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	note, err := h.engine.Remove(ctx, chi.URLParam(r, "id"))
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	writeJSON(ctx, w, http.StatusOK, deleteResponse{
		Message: "note deleted",
		Note:    noteToDTO(note),
	})
}
