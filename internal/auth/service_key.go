package auth

import (
	"crypto/rand"
	"encoding/base64"
	"errors"
	"fmt"

	"golang.org/x/crypto/bcrypt"
)

// ErrInvalidServiceKey is returned when an internal caller presents a missing or wrong key.
var ErrInvalidServiceKey = errors.New("invalid service key")

// ServiceKeyChecker authenticates internal callers (the automation service)
// against a bcrypt hash of the shared key.
type ServiceKeyChecker struct {
	hash []byte
}

// NewServiceKeyChecker creates a checker for the given bcrypt hash. An empty
// hash rejects every key.
func NewServiceKeyChecker(hash string) *ServiceKeyChecker {
	return &ServiceKeyChecker{hash: []byte(hash)}
}

// Check compares rawKey with the configured hash.
func (c *ServiceKeyChecker) Check(rawKey string) error {
	if len(c.hash) == 0 || rawKey == "" {
		return ErrInvalidServiceKey
	}
	if err := bcrypt.CompareHashAndPassword(c.hash, []byte(rawKey)); err != nil {
		return ErrInvalidServiceKey
	}
	return nil
}

// GenerateServiceKey creates a new service key and its bcrypt hash.
// The raw key is: 32 random bytes -> base64url -> prepend "rfsk_".
func GenerateServiceKey(cost int) (rawKey, hash string, err error) {
	b := make([]byte, 32)
	if _, err := rand.Read(b); err != nil {
		return "", "", fmt.Errorf("generating random bytes: %w", err)
	}

	rawKey = "rfsk_" + base64.RawURLEncoding.EncodeToString(b)

	hashBytes, err := bcrypt.GenerateFromPassword([]byte(rawKey), cost)
	if err != nil {
		return "", "", fmt.Errorf("hashing key: %w", err)
	}

	return rawKey, string(hashBytes), nil
}
