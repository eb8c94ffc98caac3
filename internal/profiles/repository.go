package profiles

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/herdup/herdup/internal/models"
)

var ErrNotFound = errors.New("profile not found")

// Repository handles user profile persistence.
type Repository struct {
	pool *pgxpool.Pool
}

// NewRepository creates a profiles repository.
func NewRepository(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

// Get returns the profile of a user, including the account email.
func (r *Repository) Get(ctx context.Context, userID uuid.UUID) (*models.Profile, error) {
	const q = `SELECT p.user_id, p.first_name, p.last_name, u.email, p.major, p.minor,
		p.graduation, p.commitment, p.clubs, p.updated_at
		FROM user_profiles p JOIN users u ON u.id = p.user_id
		WHERE p.user_id = $1`
	var p models.Profile
	err := r.pool.QueryRow(ctx, q, userID).Scan(&p.UserID, &p.FirstName, &p.LastName, &p.Email,
		&p.Major, &p.Minor, &p.Graduation, &p.Commitment, &p.Clubs, &p.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &p, nil
}

// Update applies a partial update and returns the resulting profile. A missing row is created.
func (r *Repository) Update(ctx context.Context, userID uuid.UUID, patch models.ProfilePatch) (*models.Profile, error) {
	const q = `INSERT INTO user_profiles AS p (user_id, first_name, last_name, major, minor, graduation, commitment, clubs)
		VALUES ($1, COALESCE($2, ''), COALESCE($3, ''), COALESCE($4, ''), COALESCE($5, ''), COALESCE($6, ''), COALESCE($7, ''), COALESCE($8, '{}'::text[]))
		ON CONFLICT (user_id) DO UPDATE SET
			first_name = COALESCE($2, p.first_name),
			last_name  = COALESCE($3, p.last_name),
			major      = COALESCE($4, p.major),
			minor      = COALESCE($5, p.minor),
			graduation = COALESCE($6, p.graduation),
			commitment = COALESCE($7, p.commitment),
			clubs      = COALESCE($8, p.clubs),
			updated_at = NOW()`
	var clubs any
	if patch.Clubs != nil {
		clubs = patch.Clubs
	}
	if _, err := r.pool.Exec(ctx, q, userID, patch.FirstName, patch.LastName, patch.Major, patch.Minor,
		patch.Graduation, patch.Commitment, clubs); err != nil {
		return nil, err
	}
	return r.Get(ctx, userID)
}
