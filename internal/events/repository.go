package events

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/herdup/herdup/internal/models"
)

var ErrNotFound = errors.New("event not found")

// Repository handles event persistence.
type Repository struct {
	pool *pgxpool.Pool
}

// NewRepository creates an events repository.
func NewRepository(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

const eventColumns = `id, event_name, to_char(event_date, 'YYYY-MM-DD'), to_char(event_time, 'HH24:MI'),
	organization_id, organization_name, location, description, created_at`

func scanEvent(row pgx.Row) (*models.Event, error) {
	var e models.Event
	err := row.Scan(&e.ID, &e.Name, &e.Date, &e.Time, &e.OrganizationID, &e.OrganizationName,
		&e.Location, &e.Description, &e.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &e, nil
}

// ListByOrganizations returns events of the given organizations, soonest first.
func (r *Repository) ListByOrganizations(ctx context.Context, orgIDs []uuid.UUID) ([]*models.Event, error) {
	if len(orgIDs) == 0 {
		return nil, nil
	}
	const q = `SELECT ` + eventColumns + ` FROM events
		WHERE organization_id = ANY($1)
		ORDER BY event_date ASC, event_time ASC`
	rows, err := r.pool.Query(ctx, q, orgIDs)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var list []*models.Event
	for rows.Next() {
		e, err := scanEvent(rows)
		if err != nil {
			return nil, err
		}
		list = append(list, e)
	}
	return list, rows.Err()
}

// GetByID returns an event by ID.
func (r *Repository) GetByID(ctx context.Context, id uuid.UUID) (*models.Event, error) {
	return scanEvent(r.pool.QueryRow(ctx, `SELECT `+eventColumns+` FROM events WHERE id = $1`, id))
}
