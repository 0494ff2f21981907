package middleware

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/replyforge/replyforge/internal/api/response"
	"github.com/replyforge/replyforge/internal/auth"
)

// ServiceKeyHeader carries the shared key for internal service calls.
const ServiceKeyHeader = "X-Service-Key"

// KeyChecker validates a raw service key.
type KeyChecker interface {
	Check(rawKey string) error
}

// RequireServiceKey rejects requests without a valid X-Service-Key with 401.
func RequireServiceKey(checker KeyChecker) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			requestID := GetRequestID(r.Context())

			rawKey := r.Header.Get(ServiceKeyHeader)
			if rawKey == "" {
				response.Err(w, http.StatusUnauthorized, "Service key is required", requestID)
				return
			}

			if err := checker.Check(rawKey); err != nil {
				if !errors.Is(err, auth.ErrInvalidServiceKey) {
					slog.Error("service key check failed", "error", err, "requestId", requestID)
				}
				response.Err(w, http.StatusUnauthorized, "Invalid service key", requestID)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}
