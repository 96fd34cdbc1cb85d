package api

import (
	"encoding/json"
	"fmt"
	"net/http"
	"time"
)

const heartbeatInterval = 15 * time.Second

// StreamEvents handles GET /api/notes/events?userEmail=... as a
// Server-Sent Events stream of the user's note changes. Comment lines are
// written periodically so intermediaries keep the connection open.
func (h *Handler) StreamEvents(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	flusher, ok := w.(http.Flusher)
	if !ok {
		writeJSON(ctx, w, http.StatusInternalServerError, errorBody("streaming unsupported"))
		return
	}

	events, err := h.engine.SubscribeToEvents(ctx, r.URL.Query().Get("userEmail"))
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.WriteHeader(http.StatusOK)
	flusher.Flush()

	heartbeat := time.NewTicker(heartbeatInterval)
	defer heartbeat.Stop()

	for {
		select {
		case <-ctx.Done():
			return

		case <-heartbeat.C:
			fmt.Fprint(w, ": ping\n\n")
			flusher.Flush()

		case event, ok := <-events:
			if !ok {
				return
			}

			payload, err := json.Marshal(noteToDTO(event.Note))
			if err != nil {
				continue
			}

			fmt.Fprintf(w, "event: note.%s\ndata: %s\n\n", event.Kind, payload)
			flusher.Flush()
		}
	}
}
