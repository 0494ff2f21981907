package auth_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/replyforge/replyforge/internal/auth"
)

func newProvider(t *testing.T, validToken string) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/auth/v1/user" {
			w.WriteHeader(http.StatusNotFound)
			return
		}
		if r.Header.Get("apikey") != "anon-key" {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		if r.Header.Get("Authorization") != "Bearer "+validToken {
			w.WriteHeader(http.StatusUnauthorized)
			_, _ = w.Write([]byte(`{"msg":"invalid JWT"}`))
			return
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"id":"user-1","email":"user@example.com","aud":"authenticated"}`))
	}))
	t.Cleanup(srv.Close)
	return srv
}

func TestRemoteVerifier_Valid(t *testing.T) {
	srv := newProvider(t, "good-token")
	v := auth.NewRemoteVerifier(srv.URL+"/", "anon-key", srv.Client())

	p, err := v.Verify(context.Background(), "good-token")

	require.NoError(t, err)
	assert.Equal(t, "user-1", p.ID)
	assert.Equal(t, "user@example.com", p.Email)
}

func TestRemoteVerifier_Rejected(t *testing.T) {
	srv := newProvider(t, "good-token")
	v := auth.NewRemoteVerifier(srv.URL, "anon-key", srv.Client())

	p, err := v.Verify(context.Background(), "bad-token")

	assert.ErrorIs(t, err, auth.ErrInvalidToken)
	assert.Nil(t, p)
}

func TestRemoteVerifier_EmptyToken(t *testing.T) {
	v := auth.NewRemoteVerifier("http://127.0.0.1:1", "anon-key", nil)

	_, err := v.Verify(context.Background(), "")

	assert.ErrorIs(t, err, auth.ErrInvalidToken)
}

func TestRemoteVerifier_MissingUserID(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"email":"ghost@example.com"}`))
	}))
	defer srv.Close()

	v := auth.NewRemoteVerifier(srv.URL, "", srv.Client())
	_, err := v.Verify(context.Background(), "token")

	assert.ErrorIs(t, err, auth.ErrInvalidToken)
}

func TestRemoteVerifier_Unreachable(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {}))
	url := srv.URL
	srv.Close()

	v := auth.NewRemoteVerifier(url, "anon-key", nil)
	_, err := v.Verify(context.Background(), "token")

	assert.Error(t, err)
}
