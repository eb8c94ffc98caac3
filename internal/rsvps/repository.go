package rsvps

import (
	"context"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/herdup/herdup/internal/models"
)

// Repository handles RSVP persistence.
type Repository struct {
	pool *pgxpool.Pool
}

// NewRepository creates an RSVP repository.
func NewRepository(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

// Upsert records or updates the user's RSVP. created is true for a new RSVP.
func (r *Repository) Upsert(ctx context.Context, eventID, userID uuid.UUID, notify bool) (rsvp *models.RSVP, created bool, err error) {
	const q = `INSERT INTO rsvps (event_id, user_id, notify) VALUES ($1, $2, $3)
		ON CONFLICT (event_id, user_id) DO UPDATE SET notify = EXCLUDED.notify, updated_at = NOW()
		RETURNING event_id, user_id, notify, created_at, updated_at, (xmax = 0)`
	var v models.RSVP
	err = r.pool.QueryRow(ctx, q, eventID, userID, notify).
		Scan(&v.EventID, &v.UserID, &v.Notify, &v.CreatedAt, &v.UpdatedAt, &created)
	if err != nil {
		return nil, false, err
	}
	return &v, created, nil
}

// Delete cancels the user's RSVP. Cancelling a missing RSVP is not an error.
func (r *Repository) Delete(ctx context.Context, eventID, userID uuid.UUID) error {
	_, err := r.pool.Exec(ctx, `DELETE FROM rsvps WHERE event_id = $1 AND user_id = $2`, eventID, userID)
	return err
}

// ListForUser returns the user's RSVPs, most recent first.
func (r *Repository) ListForUser(ctx context.Context, userID uuid.UUID) ([]*models.RSVP, error) {
	const q = `SELECT event_id, user_id, notify, created_at, updated_at FROM rsvps
		WHERE user_id = $1 ORDER BY created_at DESC`
	rows, err := r.pool.Query(ctx, q, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var list []*models.RSVP
	for rows.Next() {
		var v models.RSVP
		if err := rows.Scan(&v.EventID, &v.UserID, &v.Notify, &v.CreatedAt, &v.UpdatedAt); err != nil {
			return nil, err
		}
		list = append(list, &v)
	}
	return list, rows.Err()
}
