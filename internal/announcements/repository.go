package announcements

import (
	"context"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/herdup/herdup/internal/models"
)

// Repository handles announcement persistence.
type Repository struct {
	pool *pgxpool.Pool
}

// NewRepository creates an announcements repository.
func NewRepository(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

// ListByOrganizations returns announcements of the given organizations, newest first.
func (r *Repository) ListByOrganizations(ctx context.Context, orgIDs []uuid.UUID) ([]*models.Announcement, error) {
	if len(orgIDs) == 0 {
		return nil, nil
	}
	const q = `SELECT id, announcement_description, to_char(announcement_date, 'YYYY-MM-DD'),
		to_char(announcement_time, 'HH24:MI'), organization_id, organization_name, created_at
		FROM announcements
		WHERE organization_id = ANY($1)
		ORDER BY announcement_date DESC, announcement_time DESC`
	rows, err := r.pool.Query(ctx, q, orgIDs)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var list []*models.Announcement
	for rows.Next() {
		var a models.Announcement
		if err := rows.Scan(&a.ID, &a.Description, &a.Date, &a.Time, &a.OrganizationID, &a.OrganizationName, &a.CreatedAt); err != nil {
			return nil, err
		}
		list = append(list, &a)
	}
	return list, rows.Err()
}
