// Package testutil provides an in-memory note store mirroring the
// repository contract, for wiring the sync engine in tests without
// Postgres.
package testutil

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/kirvasilev/notesync/internal/entity"
)

// MemStore implements the note store and user directory contracts over a
// map. Upsert preserves created_at of existing records and the change feed
// orders by updated_at descending with id as tie-breaker, exactly like the
// SQL store.
type MemStore struct {
	mu    sync.Mutex
	notes map[string]entity.Note

	// FailNotes, when set, makes every note operation fail with it.
	FailNotes error
	// FailTouch, when set, makes TouchUser fail with it.
	FailTouch error

	touched []string
}

func NewMemStore() *MemStore {
	return &MemStore{notes: make(map[string]entity.Note)}
}

func (s *MemStore) UpsertNote(_ context.Context, note entity.Note) (entity.Note, error) {
	if s.FailNotes != nil {
		return entity.Note{}, s.FailNotes
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if existing, ok := s.notes[note.ID]; ok {
		note.CreatedAt = existing.CreatedAt
	}
	s.notes[note.ID] = note

	return note, nil
}

func (s *MemStore) GetNote(_ context.Context, id string) (entity.Note, error) {
	if s.FailNotes != nil {
		return entity.Note{}, s.FailNotes
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	note, ok := s.notes[id]
	if !ok {
		return entity.Note{}, entity.ErrNoteNotFound
	}

	return note, nil
}

func (s *MemStore) NotesChangedSince(_ context.Context, userEmail string, since *time.Time) ([]entity.Note, error) {
	if s.FailNotes != nil {
		return nil, s.FailNotes
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	var notes []entity.Note
	for _, n := range s.notes {
		if n.UserEmail != userEmail {
			continue
		}
		if since != nil && n.UpdatedAt.Before(*since) {
			continue
		}
		notes = append(notes, n)
	}

	sort.Slice(notes, func(i, j int) bool {
		if !notes[i].UpdatedAt.Equal(notes[j].UpdatedAt) {
			return notes[i].UpdatedAt.After(notes[j].UpdatedAt)
		}
		return notes[i].ID < notes[j].ID
	})

	return notes, nil
}

func (s *MemStore) SoftDeleteNote(_ context.Context, id string, now time.Time) (entity.Note, error) {
	if s.FailNotes != nil {
		return entity.Note{}, s.FailNotes
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	note, ok := s.notes[id]
	if !ok {
		return entity.Note{}, entity.ErrNoteNotFound
	}

	note.IsDeleted = true
	note.DeletedAt = &now
	note.UpdatedAt = now
	s.notes[id] = note

	return note, nil
}

func (s *MemStore) PatchNote(_ context.Context, id string, title, body *string, now time.Time) (entity.Note, error) {
	if s.FailNotes != nil {
		return entity.Note{}, s.FailNotes
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	note, ok := s.notes[id]
	if !ok {
		return entity.Note{}, entity.ErrNoteNotFound
	}

	if title != nil {
		note.Title = *title
	}
	if body != nil {
		note.Body = *body
	}
	note.UpdatedAt = now
	s.notes[id] = note

	return note, nil
}

func (s *MemStore) TouchUser(_ context.Context, email string, _ time.Time) error {
	if s.FailTouch != nil {
		return s.FailTouch
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.touched = append(s.touched, email)

	return nil
}

// Touched returns the emails TouchUser recorded, in call order.
func (s *MemStore) Touched() []string {
	s.mu.Lock()
	defer s.mu.Unlock()

	return append([]string(nil), s.touched...)
}
