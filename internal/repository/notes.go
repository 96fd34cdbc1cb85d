package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"

	"github.com/kirvasilev/notesync/internal/entity"
	"github.com/kirvasilev/notesync/pkg/logger/slogx"
)

const noteColumns = `id, title, body, user_email, created_at, updated_at, is_deleted, deleted_at`

func scanNote(row pgx.Row) (entity.Note, error) {
	var (
		n         entity.Note
		deletedAt pgtype.Timestamptz
	)
	if err := row.Scan(
		&n.ID,
		&n.Title,
		&n.Body,
		&n.UserEmail,
		&n.CreatedAt,
		&n.UpdatedAt,
		&n.IsDeleted,
		&deletedAt,
	); err != nil {
		return entity.Note{}, err
	}

	n.DeletedAt = timestamptzToTimePtr(deletedAt)

	return n, nil
}

// UpsertNote inserts the note or replaces an existing record with the same
// id. created_at of an existing record is preserved, everything else is
// taken from the incoming note. Applying the same input twice leaves the
// stored record unchanged.
func (r *Repo) UpsertNote(ctx context.Context, note entity.Note) (entity.Note, error) {
	row := r.db.QueryRow(ctx, `
		INSERT INTO notes (`+noteColumns+`)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		ON CONFLICT (id) DO UPDATE SET
			title      = EXCLUDED.title,
			body       = EXCLUDED.body,
			user_email = EXCLUDED.user_email,
			updated_at = EXCLUDED.updated_at,
			is_deleted = EXCLUDED.is_deleted,
			deleted_at = EXCLUDED.deleted_at
		RETURNING `+noteColumns,
		note.ID,
		note.Title,
		note.Body,
		note.UserEmail,
		note.CreatedAt,
		note.UpdatedAt,
		note.IsDeleted,
		timePtrToTimestamptz(note.DeletedAt),
	)

	stored, err := scanNote(row)
	if err != nil {
		return entity.Note{}, fmt.Errorf("upsert note: %v", err)
	}

	slogx.Debug(ctx, "upserted note", slogx.NoteID(stored.ID), slogx.UserEmail(stored.UserEmail))

	return stored, nil
}

func (r *Repo) GetNote(ctx context.Context, id string) (entity.Note, error) {
	row := r.db.QueryRow(ctx, `SELECT `+noteColumns+` FROM notes WHERE id = $1`, id)

	note, err := scanNote(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return entity.Note{}, entity.ErrNoteNotFound
		}
		return entity.Note{}, fmt.Errorf("get note: %v", err)
	}

	return note, nil
}

// NotesChangedSince returns the user's records with updated_at >= since,
// tombstones included, newest first with id as the tie-breaker. A nil since
// returns everything the user has.
func (r *Repo) NotesChangedSince(ctx context.Context, userEmail string, since *time.Time) ([]entity.Note, error) {
	rows, err := r.db.Query(ctx, `
		SELECT `+noteColumns+`
		FROM notes
		WHERE user_email = $1
		  AND ($2::timestamptz IS NULL OR updated_at >= $2)
		ORDER BY updated_at DESC, id ASC`,
		userEmail, timePtrToTimestamptz(since),
	)
	if err != nil {
		return nil, fmt.Errorf("notes changed since: %v", err)
	}
	defer rows.Close()

	var notes []entity.Note
	for rows.Next() {
		note, err := scanNote(rows)
		if err != nil {
			return nil, fmt.Errorf("notes changed since: scan: %v", err)
		}
		notes = append(notes, note)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("notes changed since: rows: %v", err)
	}

	return notes, nil
}

// SoftDeleteNote tombstones the record at now, bumping updated_at so the
// deletion propagates through delta pulls.
func (r *Repo) SoftDeleteNote(ctx context.Context, id string, now time.Time) (entity.Note, error) {
	row := r.db.QueryRow(ctx, `
		UPDATE notes
		SET is_deleted = TRUE, deleted_at = $2, updated_at = $2
		WHERE id = $1
		RETURNING `+noteColumns,
		id, now,
	)

	note, err := scanNote(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return entity.Note{}, entity.ErrNoteNotFound
		}
		return entity.Note{}, fmt.Errorf("soft delete note: %v", err)
	}

	return note, nil
}

// PatchNote partially updates title and body. Nil fields keep the stored
// value. The single UPDATE keeps a cancelled call all-or-nothing.
func (r *Repo) PatchNote(ctx context.Context, id string, title, body *string, now time.Time) (entity.Note, error) {
	row := r.db.QueryRow(ctx, `
		UPDATE notes
		SET title      = COALESCE($2, title),
		    body       = COALESCE($3, body),
		    updated_at = $4
		WHERE id = $1
		RETURNING `+noteColumns,
		id, title, body, now,
	)

	note, err := scanNote(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return entity.Note{}, entity.ErrNoteNotFound
		}
		return entity.Note{}, fmt.Errorf("patch note: %v", err)
	}

	return note, nil
}
