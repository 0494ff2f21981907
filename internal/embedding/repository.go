package embedding

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
)

// Repository stores brand embeddings.
type Repository interface {
	Store(ctx context.Context, e *Embedding) error
}

// PostgresRepository implements Repository using pgxpool.
type PostgresRepository struct {
	pool *pgxpool.Pool
}

// NewRepository creates a new Repository backed by the given connection pool.
func NewRepository(pool *pgxpool.Pool) Repository {
	return &PostgresRepository{pool: pool}
}

// Store inserts an embedding. A nil Metadata is stored as an empty object.
func (r *PostgresRepository) Store(ctx context.Context, e *Embedding) error {
	if e.Metadata == nil {
		e.Metadata = map[string]any{}
	}

	query := `
		INSERT INTO brand_embeddings (brand_id, content, embedding, metadata)
		VALUES ($1, $2, $3, $4)
		RETURNING id, created_at`

	err := r.pool.QueryRow(ctx, query, e.BrandID, e.Content, e.Vector, e.Metadata).
		Scan(&e.ID, &e.CreatedAt)
	if err != nil {
		return fmt.Errorf("inserting embedding: %w", err)
	}
	return nil
}
