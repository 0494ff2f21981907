package auth_test

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/replyforge/replyforge/internal/auth"
)

func TestGenerateServiceKey(t *testing.T) {
	raw, hash, err := auth.GenerateServiceKey(bcrypt.MinCost)
	require.NoError(t, err)

	assert.True(t, strings.HasPrefix(raw, "rfsk_"))
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(hash), []byte(raw)))
}

func TestServiceKeyChecker(t *testing.T) {
	raw, hash, err := auth.GenerateServiceKey(bcrypt.MinCost)
	require.NoError(t, err)

	checker := auth.NewServiceKeyChecker(hash)

	assert.NoError(t, checker.Check(raw))
	assert.ErrorIs(t, checker.Check(""), auth.ErrInvalidServiceKey)
	assert.ErrorIs(t, checker.Check(raw+"x"), auth.ErrInvalidServiceKey)
}

func TestServiceKeyChecker_NoHashConfigured(t *testing.T) {
	checker := auth.NewServiceKeyChecker("")
	assert.ErrorIs(t, checker.Check("rfsk_anything"), auth.ErrInvalidServiceKey)
}
