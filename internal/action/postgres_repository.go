package action

import (
	"context"
	"errors"
	"fmt"

	"github.com/georgysavva/scany/v2/pgxscan"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

const actionColumns = `id, brand_id, action_type, title, description, context, tone,
		       status, created_at, updated_at, completed_at`

// PostgresRepository implements Repository using pgxpool.
type PostgresRepository struct {
	pool *pgxpool.Pool
}

// NewRepository creates a new Repository backed by the given connection pool.
func NewRepository(pool *pgxpool.Pool) Repository {
	return &PostgresRepository{pool: pool}
}

// Create inserts a new action. Status defaults to "pending".
func (r *PostgresRepository) Create(ctx context.Context, a *Action) error {
	if a.Status == "" {
		a.Status = StatusPending
	}

	query := `
		INSERT INTO content_actions (brand_id, action_type, title, description, context, tone, status)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id, created_at, updated_at`

	err := r.pool.QueryRow(ctx, query,
		a.BrandID,
		a.ActionType,
		a.Title,
		a.Description,
		a.Context,
		a.Tone,
		a.Status,
	).Scan(&a.ID, &a.CreatedAt, &a.UpdatedAt)
	if err != nil {
		return fmt.Errorf("inserting action: %w", err)
	}

	return nil
}

// GetByID retrieves a single action by its UUID.
func (r *PostgresRepository) GetByID(ctx context.Context, id uuid.UUID) (*Action, error) {
	query := `SELECT ` + actionColumns + ` FROM content_actions WHERE id = $1`

	var a Action
	if err := pgxscan.Get(ctx, r.pool, &a, query, id); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("querying action: %w", err)
	}
	return &a, nil
}

// ListByBrand retrieves every action for a brand, newest first.
func (r *PostgresRepository) ListByBrand(ctx context.Context, brandID uuid.UUID) ([]Action, error) {
	query := `SELECT ` + actionColumns + `
		FROM content_actions
		WHERE brand_id = $1
		ORDER BY created_at DESC`

	actions := []Action{}
	if err := pgxscan.Select(ctx, r.pool, &actions, query, brandID); err != nil {
		return nil, fmt.Errorf("listing actions: %w", err)
	}
	return actions, nil
}

// UpdateStatus moves an action from one status to another. The update only
// applies while the row still has status from; otherwise ErrStatusConflict.
func (r *PostgresRepository) UpdateStatus(ctx context.Context, id uuid.UUID, from, to string) (*Action, error) {
	query := `
		UPDATE content_actions
		SET status = $3,
		    updated_at = NOW(),
		    completed_at = CASE WHEN $3 = 'completed' THEN NOW() ELSE completed_at END
		WHERE id = $1 AND status = $2
		RETURNING ` + actionColumns

	var a Action
	if err := pgxscan.Get(ctx, r.pool, &a, query, id, from, to); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrStatusConflict
		}
		return nil, fmt.Errorf("updating action status: %w", err)
	}
	return &a, nil
}
