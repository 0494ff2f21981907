package brand

import (
	"context"
	"errors"
	"fmt"

	"github.com/georgysavva/scany/v2/pgxscan"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// PostgresRepository implements Repository using pgxpool.
type PostgresRepository struct {
	pool *pgxpool.Pool
}

// NewRepository creates a new Repository backed by the given connection pool.
func NewRepository(pool *pgxpool.Pool) Repository {
	return &PostgresRepository{pool: pool}
}

// Create inserts a new brand record.
func (r *PostgresRepository) Create(ctx context.Context, b *Brand) error {
	query := `
		INSERT INTO brands (user_id, name, website_url, voice)
		VALUES ($1, $2, $3, $4)
		RETURNING id, created_at, updated_at`

	err := r.pool.QueryRow(ctx, query, b.UserID, b.Name, b.WebsiteURL, b.Voice).
		Scan(&b.ID, &b.CreatedAt, &b.UpdatedAt)
	if err != nil {
		return fmt.Errorf("inserting brand: %w", err)
	}

	return nil
}

// GetByID retrieves a single brand by its UUID.
func (r *PostgresRepository) GetByID(ctx context.Context, id uuid.UUID) (*Brand, error) {
	query := `
		SELECT id, user_id, name, website_url, voice, created_at, updated_at
		FROM brands
		WHERE id = $1`

	var b Brand
	if err := pgxscan.Get(ctx, r.pool, &b, query, id); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("querying brand: %w", err)
	}

	return &b, nil
}

// ListByUser retrieves the brands owned by userID, oldest first.
func (r *PostgresRepository) ListByUser(ctx context.Context, userID uuid.UUID) ([]Brand, error) {
	query := `
		SELECT id, user_id, name, website_url, voice, created_at, updated_at
		FROM brands
		WHERE user_id = $1
		ORDER BY created_at ASC`

	brands := []Brand{}
	if err := pgxscan.Select(ctx, r.pool, &brands, query, userID); err != nil {
		return nil, fmt.Errorf("listing brands: %w", err)
	}

	return brands, nil
}

// OwnerOf returns the user id that owns the brand.
func (r *PostgresRepository) OwnerOf(ctx context.Context, id uuid.UUID) (uuid.UUID, error) {
	var owner uuid.UUID
	err := r.pool.QueryRow(ctx, "SELECT user_id FROM brands WHERE id = $1", id).Scan(&owner)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return uuid.Nil, ErrNotFound
		}
		return uuid.Nil, fmt.Errorf("querying brand owner: %w", err)
	}
	return owner, nil
}
