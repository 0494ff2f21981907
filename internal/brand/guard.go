package brand

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
)

// ErrAccessDenied is returned when the caller does not own the brand. A
// missing brand produces the same error so callers cannot probe for ids.
var ErrAccessDenied = errors.New("access denied")

// OwnerLookup resolves the owner of a brand.
type OwnerLookup interface {
	OwnerOf(ctx context.Context, id uuid.UUID) (uuid.UUID, error)
}

// Guard verifies that a principal owns a brand before any brand-scoped read
// or write. Results are never cached.
type Guard struct {
	owners OwnerLookup
}

// NewGuard creates a Guard backed by the given owner lookup.
func NewGuard(owners OwnerLookup) *Guard {
	return &Guard{owners: owners}
}

// Verify returns nil when principalID owns brandID, ErrAccessDenied on
// mismatch or unknown brand, and a wrapped error when the lookup fails.
func (g *Guard) Verify(ctx context.Context, brandID uuid.UUID, principalID string) error {
	caller, err := uuid.Parse(principalID)
	if err != nil {
		return ErrAccessDenied
	}

	owner, err := g.owners.OwnerOf(ctx, brandID)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return ErrAccessDenied
		}
		return fmt.Errorf("verifying brand ownership: %w", err)
	}

	if owner != caller {
		return ErrAccessDenied
	}
	return nil
}
