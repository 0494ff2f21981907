package handler

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"

	"github.com/google/uuid"

	"github.com/replyforge/replyforge/internal/api/middleware"
	"github.com/replyforge/replyforge/internal/api/response"
	"github.com/replyforge/replyforge/internal/api/validation"
	"github.com/replyforge/replyforge/internal/brand"
	"github.com/replyforge/replyforge/internal/events"
)

const maxBodyBytes = 1 << 20

// OwnershipGuard verifies that a principal owns a brand.
type OwnershipGuard interface {
	Verify(ctx context.Context, brandID uuid.UUID, principalID string) error
}

// principalID returns the id of the principal the gate verified, or "" when
// there is none. The forwarded x-user-id header is never trusted here since
// public paths pass it through from the client untouched.
func principalID(r *http.Request) string {
	if p := middleware.GetPrincipal(r.Context()); p != nil {
		return p.ID
	}
	return ""
}

// decodeJSON reads a JSON body into v, writing a 400 on failure. An empty body
// is accepted when allowEmpty is set.
func decodeJSON(w http.ResponseWriter, r *http.Request, v any, allowEmpty bool) bool {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		if allowEmpty && errors.Is(err, io.EOF) {
			return true
		}
		response.Err(w, http.StatusBadRequest, "Request body must be valid JSON", middleware.GetRequestID(r.Context()))
		return false
	}
	return true
}

func writeValidation(w http.ResponseWriter, errs []validation.FieldError, requestID string) {
	response.ErrWithDetails(w, http.StatusBadRequest, validation.Message(errs), errs, requestID)
}

// authorizeBrand runs the ownership guard and writes 403 or 500 when it fails.
func authorizeBrand(w http.ResponseWriter, r *http.Request, guard OwnershipGuard, brandID uuid.UUID) bool {
	requestID := middleware.GetRequestID(r.Context())

	err := guard.Verify(r.Context(), brandID, principalID(r))
	if err == nil {
		return true
	}
	if errors.Is(err, brand.ErrAccessDenied) {
		response.Err(w, http.StatusForbidden, "Access denied", requestID)
		return false
	}
	slog.Error("ownership check failed", "error", err, "brandId", brandID, "requestId", requestID)
	response.Err(w, http.StatusInternalServerError, "Failed to verify brand ownership", requestID)
	return false
}

func publish(ctx context.Context, pub events.Publisher, evt events.Event) {
	if pub == nil {
		return
	}
	if err := pub.Publish(ctx, evt); err != nil {
		slog.Warn("failed to publish event", "type", evt.Type, "brandId", evt.BrandID, "error", err)
	}
}

const timeFormat = "2006-01-02T15:04:05Z"
