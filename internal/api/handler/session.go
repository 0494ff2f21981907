package handler

import (
	"math"
	"net/http"
	"time"

	"github.com/replyforge/replyforge/internal/api/middleware"
	"github.com/replyforge/replyforge/internal/api/response"
	"github.com/replyforge/replyforge/internal/auth"
)

type registerSessionRequest struct {
	RefreshToken string   `json:"refreshToken"`
	ExpiresIn    *float64 `json:"expiresIn"`
}

// SessionHandler registers and clears browser sessions.
type SessionHandler struct {
	secure bool
	now    func() time.Time
}

// NewSessionHandler creates a SessionHandler. Cookies carry the Secure
// attribute when secure is set.
func NewSessionHandler(secure bool) *SessionHandler {
	return &SessionHandler{secure: secure, now: time.Now}
}

// Register handles POST /api/auth/session. The stored access token is always
// the Authorization bearer token, never the cookie. The gate prefers the
// cookie, so when a request carries both, the principal in the response is
// the cookie's user while the new cookie holds the bearer token.
func (h *SessionHandler) Register(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())

	principal := middleware.GetPrincipal(r.Context())
	if principal == nil {
		response.Err(w, http.StatusUnauthorized, "Unauthorized", requestID)
		return
	}

	token := auth.BearerToken(r)
	if token == "" {
		response.Err(w, http.StatusBadRequest, "Authorization bearer token is required", requestID)
		return
	}

	var req registerSessionRequest
	if !decodeJSON(w, r, &req, true) {
		return
	}

	var expiresIn time.Duration
	if req.ExpiresIn != nil && *req.ExpiresIn > 0 && *req.ExpiresIn < math.MaxInt32 {
		expiresIn = time.Duration(*req.ExpiresIn) * time.Second
	}

	now := h.now()
	access := auth.NewAccessToken(token, expiresIn, now)
	auth.SetSessionCookie(w, access, h.secure)

	if req.RefreshToken != "" {
		auth.SetSessionCookie(w, auth.NewRefreshToken(req.RefreshToken, now), h.secure)
	}

	response.Success(w, http.StatusOK, response.Body{
		"user": map[string]string{
			"id":    principal.ID,
			"email": principal.Email,
		},
		"expiresAt": access.ExpiresAt.UTC().Format(timeFormat),
	})
}

// Logout handles POST /api/auth/logout. It always succeeds.
func (h *SessionHandler) Logout(w http.ResponseWriter, r *http.Request) {
	auth.ClearAllCookies(w)
	response.Success(w, http.StatusOK, nil)
}
