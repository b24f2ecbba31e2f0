package notifications

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Repository provides PostgreSQL backed persistence for preferences.
type Repository struct {
	pool *pgxpool.Pool
}

// NewRepository constructs a repository.
func NewRepository(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

// Get loads a user's preference, falling back to defaults when none was
// ever saved.
func (r *Repository) Get(ctx context.Context, userID int64) (Preference, error) {
	row := r.pool.QueryRow(ctx, `
		SELECT user_id, email_enabled, push_enabled, locale, quiet_start, quiet_end
		FROM notification_preferences WHERE user_id = $1`, userID)
	var p Preference
	err := row.Scan(&p.UserID, &p.EmailEnabled, &p.PushEnabled, &p.Locale, &p.QuietStart, &p.QuietEnd)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return DefaultPreference(userID), nil
		}
		return Preference{}, err
	}
	return p, nil
}

// Upsert saves a user's preference.
func (r *Repository) Upsert(ctx context.Context, p Preference) error {
	_, err := r.pool.Exec(ctx, `
		INSERT INTO notification_preferences (user_id, email_enabled, push_enabled, locale, quiet_start, quiet_end)
		VALUES ($1, $2, $3, $4, $5, $6)
		ON CONFLICT (user_id)
		DO UPDATE SET email_enabled = $2, push_enabled = $3, locale = $4, quiet_start = $5, quiet_end = $6`,
		p.UserID, p.EmailEnabled, p.PushEnabled, p.Locale, p.QuietStart, p.QuietEnd)
	return err
}
