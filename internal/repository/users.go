package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/kirvasilev/notesync/internal/entity"
)

// TouchUser records that the user synced at now, creating the directory
// record on first contact.
func (r *Repo) TouchUser(ctx context.Context, email string, now time.Time) error {
	_, err := r.db.Exec(ctx, `
		INSERT INTO users (email, created_at, last_sync_at)
		VALUES ($1, $2, $2)
		ON CONFLICT (email) DO UPDATE SET last_sync_at = EXCLUDED.last_sync_at`,
		email, now,
	)
	if err != nil {
		return fmt.Errorf("touch user: %v", err)
	}

	return nil
}

func (r *Repo) GetUser(ctx context.Context, email string) (entity.User, error) {
	var u entity.User
	err := r.db.QueryRow(ctx, `
		SELECT email, name, created_at, last_sync_at FROM users WHERE email = $1`,
		email,
	).Scan(&u.Email, &u.Name, &u.CreatedAt, &u.LastSyncAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return entity.User{}, entity.ErrUserNotFound
		}
		return entity.User{}, fmt.Errorf("get user: %v", err)
	}

	return u, nil
}
