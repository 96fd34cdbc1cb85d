package repository

import (
	"github.com/kirvasilev/notesync/pkg/database"
)

// Repo is the pgx-backed note store and user directory. Conflicting writes
// to the same note id are serialized by Postgres row locking, so every
// method is a single atomic statement.
type Repo struct {
	db database.Tx
}

func New(db database.Tx) *Repo {
	return &Repo{db: db}
}
