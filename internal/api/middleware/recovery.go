package middleware

import (
	"log/slog"
	"net/http"
	"runtime/debug"

	"github.com/replyforge/replyforge/internal/api/response"
	"github.com/replyforge/replyforge/internal/metrics"
)

// Recovery turns handler panics into a 500 JSON failure. http.ErrAbortHandler
// is re-raised so net/http can drop the connection as intended.
func Recovery(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			rec := recover()
			if rec == nil {
				return
			}
			if rec == http.ErrAbortHandler {
				panic(rec)
			}

			requestID := GetRequestID(r.Context())
			metrics.RecordPanic()
			slog.Error("panic recovered",
				"error", rec,
				"method", r.Method,
				"path", r.URL.Path,
				"requestId", requestID,
				"stack", string(debug.Stack()),
			)
			response.Err(w, http.StatusInternalServerError, "An unexpected error occurred", requestID)
		}()
		next.ServeHTTP(w, r)
	})
}
