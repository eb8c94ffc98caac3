package organizations

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/herdup/herdup/internal/models"
)

var ErrNotFound = errors.New("organization not found")

// Repository handles organization and membership persistence.
type Repository struct {
	pool *pgxpool.Pool
}

// NewRepository creates an organizations repository.
func NewRepository(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

const orgColumns = `o.id, o.name, o.org_logo, o.org_description, o.email, o.instagram, o.facebook,
	o.linkedin, o.website, o.dues, o.meeting_times, o.time_commitment, o.major_restrictions,
	COALESCE((SELECT array_agg(t.tag_name ORDER BY t.tag_name) FROM organization_tags ot
		JOIN tags t ON t.id = ot.tags_id WHERE ot.organization_id = o.id), '{}'),
	o.created_at, o.updated_at`

func scanOrganization(row pgx.Row) (*models.Organization, error) {
	var o models.Organization
	err := row.Scan(&o.ID, &o.Name, &o.Logo, &o.Description, &o.Email, &o.Instagram, &o.Facebook,
		&o.LinkedIn, &o.Website, &o.Dues, &o.MeetingTimes, &o.TimeCommitment, &o.MajorRestrictions,
		&o.Tags, &o.CreatedAt, &o.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &o, nil
}

func (r *Repository) queryOrganizations(ctx context.Context, q string, args ...any) ([]*models.Organization, error) {
	rows, err := r.pool.Query(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var list []*models.Organization
	for rows.Next() {
		o, err := scanOrganization(rows)
		if err != nil {
			return nil, err
		}
		list = append(list, o)
	}
	return list, rows.Err()
}

// List returns every organization ordered by name.
func (r *Repository) List(ctx context.Context) ([]*models.Organization, error) {
	return r.queryOrganizations(ctx, `SELECT `+orgColumns+` FROM organizations o ORDER BY o.name`)
}

// ListByIDs returns the organizations with the given ids ordered by name. No ids, no rows.
func (r *Repository) ListByIDs(ctx context.Context, ids []uuid.UUID) ([]*models.Organization, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	return r.queryOrganizations(ctx, `SELECT `+orgColumns+` FROM organizations o WHERE o.id = ANY($1) ORDER BY o.name`, ids)
}

// GetByID returns an organization by ID.
func (r *Repository) GetByID(ctx context.Context, id uuid.UUID) (*models.Organization, error) {
	o, err := scanOrganization(r.pool.QueryRow(ctx, `SELECT `+orgColumns+` FROM organizations o WHERE o.id = $1`, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	return o, err
}

// Logos returns the id/logo projection for the given ids.
func (r *Repository) Logos(ctx context.Context, ids []uuid.UUID) ([]models.OrganizationLogo, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	rows, err := r.pool.Query(ctx, `SELECT id, org_logo FROM organizations WHERE id = ANY($1)`, ids)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var list []models.OrganizationLogo
	for rows.Next() {
		var l models.OrganizationLogo
		if err := rows.Scan(&l.ID, &l.Logo); err != nil {
			return nil, err
		}
		list = append(list, l)
	}
	return list, rows.Err()
}

// SetLogo stores a new logo URL and returns the previous one.
func (r *Repository) SetLogo(ctx context.Context, id uuid.UUID, logoURL string) (*string, error) {
	const q = `UPDATE organizations o SET org_logo = $2, updated_at = NOW()
		FROM (SELECT org_logo FROM organizations WHERE id = $1 FOR UPDATE) prev
		WHERE o.id = $1
		RETURNING prev.org_logo`
	var prev *string
	err := r.pool.QueryRow(ctx, q, id, logoURL).Scan(&prev)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	return prev, err
}

// MemberOrganizationIDs returns the ids of organizations the user belongs to.
func (r *Repository) MemberOrganizationIDs(ctx context.Context, userID uuid.UUID) ([]uuid.UUID, error) {
	rows, err := r.pool.Query(ctx, `SELECT org_id FROM org_members WHERE user_id = $1 ORDER BY created_at`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var ids []uuid.UUID
	for rows.Next() {
		var id uuid.UUID
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}

// AddMember adds the user to the organization. Joining twice keeps the original row.
func (r *Repository) AddMember(ctx context.Context, orgID, userID uuid.UUID) error {
	if _, err := r.GetByID(ctx, orgID); err != nil {
		return err
	}
	const q = `INSERT INTO org_members (user_id, org_id, role) VALUES ($1, $2, $3)
		ON CONFLICT (user_id, org_id) DO NOTHING`
	_, err := r.pool.Exec(ctx, q, userID, orgID, models.MemberRoleMember)
	return err
}

// RemoveMember removes the user from the organization. Leaving when not a member is not an error.
func (r *Repository) RemoveMember(ctx context.Context, orgID, userID uuid.UUID) error {
	_, err := r.pool.Exec(ctx, `DELETE FROM org_members WHERE user_id = $1 AND org_id = $2`, userID, orgID)
	return err
}
