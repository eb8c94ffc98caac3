package emaillogs

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/herdup/herdup/internal/models"
)

// Repository handles email_logs persistence.
type Repository struct {
	pool *pgxpool.Pool
}

// NewRepository creates an email logs repository.
func NewRepository(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

// Create records a delivery attempt.
func (r *Repository) Create(ctx context.Context, l *models.EmailLog) error {
	const q = `INSERT INTO email_logs (user_id, event_id, email_type, recipient_email, subject, status, sent_at, error_message)
		VALUES ($1, $2, $3, $4, NULLIF($5,''), $6, $7, NULLIF($8,''))
		RETURNING id, created_at`
	return r.pool.QueryRow(ctx, q, l.UserID, l.EventID, l.EmailType, l.RecipientEmail, l.Subject, l.Status, l.SentAt, l.ErrorMessage).
		Scan(&l.ID, &l.CreatedAt)
}

// ListFilter narrows List. Empty fields match everything.
type ListFilter struct {
	EmailType string
	Status    string
	Limit     int
}

// List returns email logs, newest first.
func (r *Repository) List(ctx context.Context, f ListFilter) ([]*models.EmailLog, error) {
	const q = `SELECT id, user_id, event_id, email_type, recipient_email, subject, status, sent_at, error_message, created_at
		FROM email_logs
		WHERE ($1 = '' OR email_type = $1) AND ($2 = '' OR status = $2)
		ORDER BY created_at DESC
		LIMIT $3`
	rows, err := r.pool.Query(ctx, q, f.EmailType, f.Status, f.Limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var list []*models.EmailLog
	for rows.Next() {
		var el models.EmailLog
		var subject, errMsg *string
		if err := rows.Scan(&el.ID, &el.UserID, &el.EventID, &el.EmailType, &el.RecipientEmail, &subject, &el.Status, &el.SentAt, &errMsg, &el.CreatedAt); err != nil {
			return nil, err
		}
		if subject != nil {
			el.Subject = *subject
		}
		if errMsg != nil {
			el.ErrorMessage = *errMsg
		}
		list = append(list, &el)
	}
	return list, rows.Err()
}
