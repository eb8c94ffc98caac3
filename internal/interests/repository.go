package interests

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

// ErrUnknownTag is returned when an interest names a tag that does not exist.
var ErrUnknownTag = errors.New("unknown tag")

// txConn is the part of pgx.Tx that Replace uses.
type txConn interface {
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Commit(ctx context.Context) error
	Rollback(ctx context.Context) error
}

// Repository handles user interest persistence.
type Repository struct {
	pool  *pgxpool.Pool
	begin func(ctx context.Context) (txConn, error)
}

// NewRepository creates an interests repository.
func NewRepository(pool *pgxpool.Pool) *Repository {
	return &Repository{
		pool: pool,
		begin: func(ctx context.Context) (txConn, error) {
			return pool.Begin(ctx)
		},
	}
}

// List returns the user's interest tag names, sorted.
func (r *Repository) List(ctx context.Context, userID uuid.UUID) ([]string, error) {
	rows, err := r.pool.Query(ctx, `SELECT tag_name FROM user_interests WHERE user_id = $1 ORDER BY tag_name`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	names := []string{}
	for rows.Next() {
		var n string
		if err := rows.Scan(&n); err != nil {
			return nil, err
		}
		names = append(names, n)
	}
	return names, rows.Err()
}

// Replace swaps the user's whole interest set in one transaction: either every old row is
// replaced by the new set or nothing changes.
func (r *Repository) Replace(ctx context.Context, userID uuid.UUID, names []string) ([]string, error) {
	names = Normalize(names)

	tx, err := r.begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("begin: %w", err)
	}
	defer tx.Rollback(ctx)

	if len(names) > 0 {
		var known int
		if err := tx.QueryRow(ctx, `SELECT count(*) FROM tags WHERE tag_name = ANY($1)`, names).Scan(&known); err != nil {
			return nil, fmt.Errorf("check tags: %w", err)
		}
		if known != len(names) {
			return nil, ErrUnknownTag
		}
	}
	if _, err := tx.Exec(ctx, `DELETE FROM user_interests WHERE user_id = $1`, userID); err != nil {
		return nil, fmt.Errorf("delete interests: %w", err)
	}
	if len(names) > 0 {
		const q = `INSERT INTO user_interests (user_id, tag_name) SELECT $1, unnest($2::text[])`
		if _, err := tx.Exec(ctx, q, userID, names); err != nil {
			return nil, fmt.Errorf("insert interests: %w", err)
		}
	}
	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("commit: %w", err)
	}
	return names, nil
}

// Normalize trims names, drops blanks and duplicates, and sorts the result.
func Normalize(names []string) []string {
	seen := make(map[string]struct{}, len(names))
	out := make([]string, 0, len(names))
	for _, n := range names {
		n = strings.TrimSpace(n)
		if n == "" {
			continue
		}
		if _, ok := seen[n]; ok {
			continue
		}
		seen[n] = struct{}{}
		out = append(out, n)
	}
	sort.Strings(out)
	return out
}
