package auth

import (
	"net/http"
	"time"
)

// Cookie names shared with the dashboard front end.
const (
	AccessTokenCookie  = "sb-access-token"
	RefreshTokenCookie = "sb-refresh-token"
	InstanceIDCookie   = "server-instance-id"
	StartTimeCookie    = "server-start-time"
)

const (
	// DefaultAccessTTL applies when the caller does not supply an expiry.
	DefaultAccessTTL = time.Hour
	// RefreshTTL is fixed regardless of the access token expiry.
	RefreshTTL = 7 * 24 * time.Hour
)

// Principal is the authenticated identity resolved from a verified token.
// It lives for the duration of a single request.
type Principal struct {
	ID    string
	Email string
}

// TokenKind distinguishes access tokens from refresh tokens.
type TokenKind string

const (
	KindAccess  TokenKind = "access"
	KindRefresh TokenKind = "refresh"
)

// SessionToken is a bearer credential persisted in a secure cookie.
type SessionToken struct {
	Value     string
	IssuedAt  time.Time
	ExpiresAt time.Time
	Kind      TokenKind
}

// NewAccessToken builds an access token expiring after expiresIn.
// A non-positive expiresIn falls back to DefaultAccessTTL.
func NewAccessToken(value string, expiresIn time.Duration, now time.Time) SessionToken {
	if expiresIn <= 0 {
		expiresIn = DefaultAccessTTL
	}
	return SessionToken{
		Value:     value,
		IssuedAt:  now,
		ExpiresAt: now.Add(expiresIn),
		Kind:      KindAccess,
	}
}

// NewRefreshToken builds a refresh token with the fixed RefreshTTL lifetime.
func NewRefreshToken(value string, now time.Time) SessionToken {
	return SessionToken{
		Value:     value,
		IssuedAt:  now,
		ExpiresAt: now.Add(RefreshTTL),
		Kind:      KindRefresh,
	}
}

// CookieName returns the cookie that stores tokens of this kind.
func (t SessionToken) CookieName() string {
	if t.Kind == KindRefresh {
		return RefreshTokenCookie
	}
	return AccessTokenCookie
}

// MaxAge is the cookie lifetime in whole seconds.
func (t SessionToken) MaxAge() int {
	return int(t.ExpiresAt.Sub(t.IssuedAt) / time.Second)
}

// Cookie renders the token as an HttpOnly, SameSite=Lax cookie scoped to "/".
func (t SessionToken) Cookie(secure bool) *http.Cookie {
	return &http.Cookie{
		Name:     t.CookieName(),
		Value:    t.Value,
		Path:     "/",
		MaxAge:   t.MaxAge(),
		HttpOnly: true,
		Secure:   secure,
		SameSite: http.SameSiteLaxMode,
	}
}
