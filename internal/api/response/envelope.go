package response

import (
	"encoding/json"
	"log/slog"
	"net/http"
)

// Body is a successful response payload. Success adds "success": true.
type Body map[string]any

// Failure is the body of every error response.
type Failure struct {
	Success   bool   `json:"success"`
	Error     string `json:"error"`
	Details   any    `json:"details,omitempty"`
	RequestID string `json:"requestId,omitempty"`
}

// JSON writes v as JSON with the given status code.
func JSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("failed to encode response", "error", err)
	}
}

// Success writes body with "success": true.
func Success(w http.ResponseWriter, status int, body Body) {
	out := make(Body, len(body)+1)
	for k, v := range body {
		out[k] = v
	}
	out["success"] = true
	JSON(w, status, out)
}

// Err writes a failure response.
func Err(w http.ResponseWriter, status int, message string, requestID string) {
	JSON(w, status, Failure{Error: message, RequestID: requestID})
}

// ErrWithDetails writes a failure response with additional details.
func ErrWithDetails(w http.ResponseWriter, status int, message string, details any, requestID string) {
	JSON(w, status, Failure{Error: message, Details: details, RequestID: requestID})
}
