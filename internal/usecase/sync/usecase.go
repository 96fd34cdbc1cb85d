// Package sync implements the delta-sync protocol over the note store:
// clients pull records changed since a checkpoint and push writes that are
// merged with last-writer-wins upsert semantics.
package sync

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/imkira/go-observer"

	"github.com/kirvasilev/notesync/internal/entity"
	"github.com/kirvasilev/notesync/pkg/logger/slogx"
)

type notesRepository interface {
	UpsertNote(ctx context.Context, note entity.Note) (entity.Note, error)
	GetNote(ctx context.Context, id string) (entity.Note, error)
	NotesChangedSince(ctx context.Context, userEmail string, since *time.Time) ([]entity.Note, error)
	SoftDeleteNote(ctx context.Context, id string, now time.Time) (entity.Note, error)
	PatchNote(ctx context.Context, id string, title, body *string, now time.Time) (entity.Note, error)
}

type userDirectory interface {
	TouchUser(ctx context.Context, email string, now time.Time) error
}

//go:generate go run github.com/kazhuravlev/options-gen/cmd/options-gen@v0.55.2 -out-filename=usecase_options.gen.go -from-struct=Options
type Options struct {
	repo  notesRepository `option:"mandatory" validate:"required"`
	users userDirectory   `option:"mandatory" validate:"required"`

	clock func() time.Time
}

type Usecase struct {
	Options
	observer observer.Property
}

func New(opts Options) (*Usecase, error) {
	if err := opts.Validate(); err != nil {
		return nil, fmt.Errorf("validate sync usecase options: %v", err)
	}

	if opts.clock == nil {
		opts.clock = time.Now
	}

	prop := observer.NewProperty(entity.NoteEvent{})

	return &Usecase{Options: opts, observer: prop}, nil
}

// Pull returns every record of the user changed at or after since,
// tombstones included, newest first. A nil since returns the full set. The
// client stores the maximum UpdatedAt it has seen and passes it back on the
// next call.
func (u *Usecase) Pull(ctx context.Context, userEmail string, since *time.Time) ([]entity.Note, error) {
	if userEmail == "" {
		return nil, entity.NewInvalidRequest("userEmail", "is required")
	}

	notes, err := u.repo.NotesChangedSince(ctx, userEmail, since)
	if err != nil {
		return nil, u.classify(ctx, "pull", err)
	}

	u.touch(ctx, userEmail)

	slogx.Debug(ctx, "pulled notes",
		slogx.UserEmail(userEmail),
		slog.Int("count", len(notes)),
	)

	return notes, nil
}

// Push applies a client write through upsert. Merge is last-writer-wins by
// arrival order: the store does not compare the incoming UpdatedAt with the
// stored one, so a client pushing stale data out of order can clobber a
// newer write. A push carrying the id of a tombstoned note resurrects it.
func (u *Usecase) Push(ctx context.Context, note entity.Note) (entity.Note, error) {
	if err := validatePush(note); err != nil {
		return entity.Note{}, err
	}

	now := u.clock()
	if note.CreatedAt.IsZero() {
		note.CreatedAt = now
	}
	if note.UpdatedAt.IsZero() {
		note.UpdatedAt = now
	}
	if note.IsDeleted {
		// A tombstone always carries its deletion time.
		if note.DeletedAt == nil {
			note.DeletedAt = &now
		}
	} else {
		note.DeletedAt = nil
	}

	stored, err := u.repo.UpsertNote(ctx, note)
	if err != nil {
		return entity.Note{}, u.classify(ctx, "push", err)
	}

	u.touch(ctx, stored.UserEmail)
	u.publish(entity.NoteEventPushed, stored)

	slogx.Info(ctx, "pushed note", slogx.NoteID(stored.ID), slogx.UserEmail(stored.UserEmail))

	return stored, nil
}

// UpdatePartial patches title and/or body of an existing note.
func (u *Usecase) UpdatePartial(ctx context.Context, id string, title, body *string) (entity.Note, error) {
	if id == "" {
		return entity.Note{}, entity.NewInvalidRequest("id", "is required")
	}
	if title == nil && body == nil {
		return entity.Note{}, entity.NewInvalidRequest("title", "or body must be provided")
	}

	note, err := u.repo.PatchNote(ctx, id, title, body, u.clock())
	if err != nil {
		return entity.Note{}, u.classify(ctx, "update partial", err)
	}

	u.publish(entity.NoteEventPatched, note)

	return note, nil
}

// Remove tombstones the note so the deletion reaches other clients on their
// next pull. The record stays retrievable by id.
func (u *Usecase) Remove(ctx context.Context, id string) (entity.Note, error) {
	if id == "" {
		return entity.Note{}, entity.NewInvalidRequest("id", "is required")
	}

	note, err := u.repo.SoftDeleteNote(ctx, id, u.clock())
	if err != nil {
		return entity.Note{}, u.classify(ctx, "remove", err)
	}

	u.publish(entity.NoteEventRemoved, note)

	slogx.Info(ctx, "removed note", slogx.NoteID(note.ID), slogx.UserEmail(note.UserEmail))

	return note, nil
}

func (u *Usecase) GetOne(ctx context.Context, id string) (entity.Note, error) {
	if id == "" {
		return entity.Note{}, entity.NewInvalidRequest("id", "is required")
	}

	note, err := u.repo.GetNote(ctx, id)
	if err != nil {
		return entity.Note{}, u.classify(ctx, "get one", err)
	}

	return note, nil
}

// touch updates the user's last-sync timestamp. Best-effort telemetry: a
// directory failure must never fail the sync operation.
func (u *Usecase) touch(ctx context.Context, email string) {
	if err := u.users.TouchUser(ctx, email, u.clock()); err != nil {
		slogx.Warn(ctx, "touch user", slogx.UserEmail(email), slogx.Err(err))
	}
}

// classify converts store-layer failures into the caller-facing taxonomy.
// Anything that is not a known sentinel is reported as a transient store
// failure; the raw cause is logged here and never travels upward.
func (u *Usecase) classify(ctx context.Context, op string, err error) error {
	if errors.Is(err, entity.ErrNoteNotFound) || errors.Is(err, entity.ErrUserNotFound) {
		return fmt.Errorf("%s: %w", op, err)
	}

	// A cancelled or timed-out request is the caller's doing, not a store
	// outage.
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return fmt.Errorf("%s: %w", op, err)
	}

	slogx.Error(ctx, "store failure", slog.String("op", op), slogx.Err(err))

	return fmt.Errorf("%s: %w", op, entity.ErrStoreUnavailable)
}
