package api

import (
	"time"

	"github.com/kirvasilev/notesync/internal/entity"
)

// NoteDTO is the wire shape of a note. The body travels under "note" and
// timestamps are RFC 3339; the core never sees the encoding.
type NoteDTO struct {
	ID        string     `json:"id"`
	Title     string     `json:"title"`
	Body      string     `json:"note"`
	UserEmail string     `json:"userEmail"`
	CreatedAt time.Time  `json:"createdAt"`
	UpdatedAt time.Time  `json:"updatedAt"`
	IsDeleted bool       `json:"isDeleted"`
	DeletedAt *time.Time `json:"deletedAt,omitempty"`
}

// PatchNoteRequest is the request body for partial updates. Absent fields
// keep their stored values.
type PatchNoteRequest struct {
	Title *string `json:"title"`
	Body  *string `json:"note"`
}

type deleteResponse struct {
	Message string  `json:"message"`
	Note    NoteDTO `json:"note"`
}

func noteToDTO(n entity.Note) NoteDTO {
	return NoteDTO{
		ID:        n.ID,
		Title:     n.Title,
		Body:      n.Body,
		UserEmail: n.UserEmail,
		CreatedAt: n.CreatedAt,
		UpdatedAt: n.UpdatedAt,
		IsDeleted: n.IsDeleted,
		DeletedAt: n.DeletedAt,
	}
}

func notesToDTO(notes []entity.Note) []NoteDTO {
	out := make([]NoteDTO, 0, len(notes))
	for _, n := range notes {
		out = append(out, noteToDTO(n))
	}
	return out
}

func dtoToNote(d NoteDTO) entity.Note {
	return entity.Note{
		ID:        d.ID,
		Title:     d.Title,
		Body:      d.Body,
		UserEmail: d.UserEmail,
		CreatedAt: d.CreatedAt,
		UpdatedAt: d.UpdatedAt,
		IsDeleted: d.IsDeleted,
		DeletedAt: d.DeletedAt,
	}
}
