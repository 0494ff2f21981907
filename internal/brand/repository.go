package brand

import (
	"context"
	"errors"

	"github.com/google/uuid"
)

// ErrNotFound is returned when a brand record is not found.
var ErrNotFound = errors.New("brand not found")

// Repository provides operations on the brands table.
type Repository interface {
	Create(ctx context.Context, b *Brand) error
	GetByID(ctx context.Context, id uuid.UUID) (*Brand, error)
	ListByUser(ctx context.Context, userID uuid.UUID) ([]Brand, error)
	OwnerOf(ctx context.Context, id uuid.UUID) (uuid.UUID, error)
}
