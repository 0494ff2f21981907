package auth

import (
	"context"
	"errors"
)

// ErrInvalidToken is returned when the identity provider rejects a token.
var ErrInvalidToken = errors.New("invalid or expired token")

// Verifier resolves a bearer token to the Principal it was issued for.
type Verifier interface {
	Verify(ctx context.Context, token string) (*Principal, error)
}
