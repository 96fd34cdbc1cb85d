package api

import (
	"github.com/go-chi/chi/v5"
)

// NewRouter mounts the sync API under /api/notes.
func NewRouter(engine SyncEngine) chi.Router {
	h := NewHandler(engine)

	r := chi.NewRouter()

	r.Route("/api/notes", func(r chi.Router) {
		r.Get("/", h.ListNotes)
		r.Post("/", h.CreateOrUpdateNote)
		r.Get("/events", h.StreamEvents)
		r.Get("/{id}", h.GetNote)
		r.Put("/{id}", h.UpdateNote)
		r.Delete("/{id}", h.DeleteNote)
	})

	return r
}
