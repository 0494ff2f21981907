package middleware

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"net/url"
	"strings"

	"github.com/replyforge/replyforge/internal/auth"
	"github.com/replyforge/replyforge/internal/metrics"
)

// Headers carrying the verified principal to downstream handlers.
const (
	HeaderUserID    = "x-user-id"
	HeaderUserEmail = "x-user-email"
)

// LoginPath is where unauthenticated requests are redirected.
const LoginPath = "/login"

const principalKey contextKey = "principal"

// PublicPrefixes lists path prefixes that bypass authentication. A prefix
// matches the path itself or any sub-path under it.
var PublicPrefixes = []string{
	"/login",
	"/signup",
	"/forgot-password",
	"/reset-password",
	"/api/auth/logout",
	"/api/composio/post-tweet",
	"/health",
	"/metrics",
	"/openapi.json",
}

// IsPublic reports whether path is served without a session. The root is
// matched exactly.
func IsPublic(path string) bool {
	if path == "/" {
		return true
	}
	for _, prefix := range PublicPrefixes {
		if path == prefix || strings.HasPrefix(path, prefix+"/") {
			return true
		}
	}
	return false
}

// Gate authenticates every non-public request. Requests without a token, or
// whose token the verifier rejects, are redirected to the login page. On
// success the principal is stored in the context and forwarded in the
// x-user-id and x-user-email headers.
func Gate(verifier auth.Verifier) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if IsPublic(r.URL.Path) {
				metrics.RecordGateDecision(metrics.DecisionPublic)
				next.ServeHTTP(w, r)
				return
			}

			token := auth.ExtractToken(r)
			if token == "" {
				metrics.RecordGateDecision(metrics.DecisionNoToken)
				redirectToLogin(w, r)
				return
			}

			principal, err := verify(r.Context(), verifier, token)
			if err != nil || principal == nil {
				if err != nil && !errors.Is(err, auth.ErrInvalidToken) {
					slog.Warn("token verification failed", "error", err, "path", r.URL.Path, "requestId", GetRequestID(r.Context()))
				}
				metrics.RecordGateDecision(metrics.DecisionInvalid)
				auth.ClearSessionCookies(w)
				redirectToLogin(w, r)
				return
			}

			metrics.RecordGateDecision(metrics.DecisionAllowed)
			r.Header.Set(HeaderUserID, principal.ID)
			r.Header.Set(HeaderUserEmail, principal.Email)
			ctx := WithPrincipal(r.Context(), principal)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// verify calls the verifier, converting a panic into an error so the gate
// always fails closed.
func verify(ctx context.Context, verifier auth.Verifier, token string) (p *auth.Principal, err error) {
	defer func() {
		if rec := recover(); rec != nil {
			p = nil
			err = errors.New("verifier panicked")
			slog.Error("panic during token verification", "error", rec)
		}
	}()
	return verifier.Verify(ctx, token)
}

func redirectToLogin(w http.ResponseWriter, r *http.Request) {
	target := LoginPath + "?redirect=" + url.QueryEscape(r.URL.Path)
	http.Redirect(w, r, target, http.StatusTemporaryRedirect)
}

// WithPrincipal returns a context carrying p.
func WithPrincipal(ctx context.Context, p *auth.Principal) context.Context {
	return context.WithValue(ctx, principalKey, p)
}

// GetPrincipal retrieves the authenticated principal from the context.
func GetPrincipal(ctx context.Context) *auth.Principal {
	if p, ok := ctx.Value(principalKey).(*auth.Principal); ok {
		return p
	}
	return nil
}
