package entity

import "time"

// Note is a user note as clients sync it. The ID is assigned by the client
// that created the note and never changes; it is the upsert key.
type Note struct {
	ID        string
	Title     string
	Body      string
	UserEmail string
	CreatedAt time.Time
	UpdatedAt time.Time
	IsDeleted bool
	DeletedAt *time.Time
}
