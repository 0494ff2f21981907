package action

import (
	"context"
	"errors"

	"github.com/google/uuid"
)

// ErrNotFound is returned when an action record is not found.
var ErrNotFound = errors.New("action not found")

// ErrStatusConflict is returned when the action's status changed concurrently.
var ErrStatusConflict = errors.New("action status changed concurrently")

// Repository provides operations on the content_actions table.
type Repository interface {
	Create(ctx context.Context, a *Action) error
	GetByID(ctx context.Context, id uuid.UUID) (*Action, error)
	ListByBrand(ctx context.Context, brandID uuid.UUID) ([]Action, error)
	UpdateStatus(ctx context.Context, id uuid.UUID, from, to string) (*Action, error)
}
