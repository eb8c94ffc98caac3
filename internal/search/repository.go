package search

import (
	"context"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/herdup/herdup/internal/models"
)

// Document is the searchable projection of an organization.
type Document struct {
	ID          uuid.UUID
	Name        string
	Description *string
	Logo        *string
}

// Store is the data the search service reads.
type Store interface {
	Documents(ctx context.Context) ([]Document, error)
	OrganizationsWithAllTags(ctx context.Context, tagIDs []int64) (map[uuid.UUID]struct{}, error)
	Tags(ctx context.Context) ([]models.Tag, error)
	OrganizationsWithTags(ctx context.Context) ([]*models.Organization, error)
}

// Repository reads organizations and tags for search.
type Repository struct {
	pool *pgxpool.Pool
}

// NewRepository creates a search repository.
func NewRepository(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

// Documents returns every organization ordered by name.
func (r *Repository) Documents(ctx context.Context) ([]Document, error) {
	rows, err := r.pool.Query(ctx, `SELECT id, name, org_description, org_logo FROM organizations ORDER BY name`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var docs []Document
	for rows.Next() {
		var d Document
		if err := rows.Scan(&d.ID, &d.Name, &d.Description, &d.Logo); err != nil {
			return nil, err
		}
		docs = append(docs, d)
	}
	return docs, rows.Err()
}

// OrganizationsWithAllTags returns the ids of organizations carrying every one of tagIDs.
func (r *Repository) OrganizationsWithAllTags(ctx context.Context, tagIDs []int64) (map[uuid.UUID]struct{}, error) {
	const q = `SELECT organization_id FROM organization_tags
		WHERE tags_id = ANY($1)
		GROUP BY organization_id
		HAVING count(DISTINCT tags_id) = $2`
	rows, err := r.pool.Query(ctx, q, tagIDs, len(tagIDs))
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	set := make(map[uuid.UUID]struct{})
	for rows.Next() {
		var id uuid.UUID
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		set[id] = struct{}{}
	}
	return set, rows.Err()
}

// Tags returns the tag catalogue ordered by id.
func (r *Repository) Tags(ctx context.Context) ([]models.Tag, error) {
	rows, err := r.pool.Query(ctx, `SELECT id, tag_name, created_at FROM tags ORDER BY id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var list []models.Tag
	for rows.Next() {
		var t models.Tag
		if err := rows.Scan(&t.ID, &t.Name, &t.CreatedAt); err != nil {
			return nil, err
		}
		list = append(list, t)
	}
	return list, rows.Err()
}

// OrganizationsWithTags returns every organization with its tag names attached.
func (r *Repository) OrganizationsWithTags(ctx context.Context) ([]*models.Organization, error) {
	const q = `SELECT o.id, o.name, o.org_logo, o.org_description, o.website, o.created_at, o.updated_at,
		COALESCE(array_agg(t.tag_name ORDER BY t.tag_name) FILTER (WHERE t.tag_name IS NOT NULL), '{}')
		FROM organizations o
		LEFT JOIN organization_tags ot ON ot.organization_id = o.id
		LEFT JOIN tags t ON t.id = ot.tags_id
		GROUP BY o.id
		ORDER BY o.name`
	rows, err := r.pool.Query(ctx, q)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var list []*models.Organization
	for rows.Next() {
		var o models.Organization
		if err := rows.Scan(&o.ID, &o.Name, &o.Logo, &o.Description, &o.Website, &o.CreatedAt, &o.UpdatedAt, &o.Tags); err != nil {
			return nil, err
		}
		if o.Tags == nil {
			o.Tags = []string{}
		}
		list = append(list, &o)
	}
	return list, rows.Err()
}
