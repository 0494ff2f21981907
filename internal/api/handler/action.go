package handler

import (
	"errors"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/replyforge/replyforge/internal/action"
	"github.com/replyforge/replyforge/internal/api/middleware"
	"github.com/replyforge/replyforge/internal/api/response"
	"github.com/replyforge/replyforge/internal/api/validation"
	"github.com/replyforge/replyforge/internal/events"
)

type createActionRequest struct {
	BrandID     string `json:"brandId"`
	ActionType  string `json:"actionType"`
	Title       string `json:"title"`
	Description string `json:"description"`
	Context     string `json:"context"`
	Tone        string `json:"tone"`
}

type updateActionStatusRequest struct {
	Status string `json:"status"`
}

type actionResponse struct {
	ID          string  `json:"id"`
	BrandID     string  `json:"brandId"`
	ActionType  string  `json:"actionType"`
	Title       string  `json:"title"`
	Description string  `json:"description"`
	Context     string  `json:"context"`
	Tone        string  `json:"tone"`
	Status      string  `json:"status"`
	CreatedAt   string  `json:"createdAt"`
	UpdatedAt   string  `json:"updatedAt"`
	CompletedAt *string `json:"completedAt"`
}

func toActionResponse(a *action.Action) actionResponse {
	resp := actionResponse{
		ID:          a.ID.String(),
		BrandID:     a.BrandID.String(),
		ActionType:  a.ActionType,
		Title:       a.Title,
		Description: a.Description,
		Context:     a.Context,
		Tone:        a.Tone,
		Status:      a.Status,
		CreatedAt:   a.CreatedAt.UTC().Format(timeFormat),
		UpdatedAt:   a.UpdatedAt.UTC().Format(timeFormat),
	}
	if a.CompletedAt != nil {
		s := a.CompletedAt.UTC().Format(timeFormat)
		resp.CompletedAt = &s
	}
	return resp
}

func toActionResponses(actions []action.Action) []actionResponse {
	out := make([]actionResponse, 0, len(actions))
	for i := range actions {
		out = append(out, toActionResponse(&actions[i]))
	}
	return out
}

// ActionHandler handles content action endpoints.
type ActionHandler struct {
	repo      action.Repository
	guard     OwnershipGuard
	publisher events.Publisher
}

// NewActionHandler creates a new ActionHandler.
func NewActionHandler(repo action.Repository, guard OwnershipGuard, publisher events.Publisher) *ActionHandler {
	return &ActionHandler{repo: repo, guard: guard, publisher: publisher}
}

// Create handles POST /api/actions/create.
func (h *ActionHandler) Create(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())

	var req createActionRequest
	if !decodeJSON(w, r, &req, false) {
		return
	}

	if errs := validation.ValidateCreateActionRequest(validation.CreateActionRequest{
		BrandID:    req.BrandID,
		ActionType: req.ActionType,
		Title:      req.Title,
	}); len(errs) > 0 {
		writeValidation(w, errs, requestID)
		return
	}

	brandID := uuid.MustParse(req.BrandID)
	if !authorizeBrand(w, r, h.guard, brandID) {
		return
	}

	a := &action.Action{
		BrandID:     brandID,
		ActionType:  req.ActionType,
		Title:       strings.TrimSpace(req.Title),
		Description: req.Description,
		Context:     req.Context,
		Tone:        req.Tone,
		Status:      action.StatusPending,
	}
	if err := h.repo.Create(r.Context(), a); err != nil {
		slog.Error("failed to create action", "error", err, "brandId", brandID, "requestId", requestID)
		response.Err(w, http.StatusInternalServerError, "Failed to create action", requestID)
		return
	}

	publish(r.Context(), h.publisher, events.Event{
		Type:       events.ActionCreated,
		BrandID:    brandID.String(),
		OccurredAt: time.Now().UTC(),
		Data:       map[string]string{"actionId": a.ID.String(), "actionType": a.ActionType},
	})

	response.Success(w, http.StatusOK, response.Body{"action": toActionResponse(a)})
}

// List handles GET /api/actions/list?brandId=.
func (h *ActionHandler) List(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())

	brandIDStr := r.URL.Query().Get("brandId")
	if brandIDStr == "" {
		response.Err(w, http.StatusBadRequest, "brandId is required", requestID)
		return
	}
	brandID, err := uuid.Parse(brandIDStr)
	if err != nil {
		response.Err(w, http.StatusBadRequest, "brandId must be a valid UUID", requestID)
		return
	}

	if !authorizeBrand(w, r, h.guard, brandID) {
		return
	}

	actions, err := h.repo.ListByBrand(r.Context(), brandID)
	if err != nil {
		slog.Error("failed to list actions", "error", err, "brandId", brandID, "requestId", requestID)
		response.Err(w, http.StatusInternalServerError, "Failed to list actions", requestID)
		return
	}

	grouped, stats := action.Summarize(actions)
	response.Success(w, http.StatusOK, response.Body{
		"actions": toActionResponses(actions),
		"grouped": map[string][]actionResponse{
			action.StatusPending:   toActionResponses(grouped.Pending),
			action.StatusCompleted: toActionResponses(grouped.Completed),
			action.StatusPaused:    toActionResponses(grouped.Paused),
		},
		"stats": stats,
	})
}

// UpdateStatus handles PATCH /api/actions/{actionId}/status.
func (h *ActionHandler) UpdateStatus(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())

	id, err := uuid.Parse(chi.URLParam(r, "actionId"))
	if err != nil {
		response.Err(w, http.StatusBadRequest, "actionId must be a valid UUID", requestID)
		return
	}

	var req updateActionStatusRequest
	if !decodeJSON(w, r, &req, false) {
		return
	}
	if errs := validation.ValidateActionStatus(req.Status); len(errs) > 0 {
		writeValidation(w, errs, requestID)
		return
	}

	current, err := h.repo.GetByID(r.Context(), id)
	if err != nil {
		if errors.Is(err, action.ErrNotFound) {
			// Same answer as a foreign action so ids cannot be probed.
			response.Err(w, http.StatusForbidden, "Access denied", requestID)
			return
		}
		slog.Error("failed to load action", "error", err, "actionId", id, "requestId", requestID)
		response.Err(w, http.StatusInternalServerError, "Failed to load action", requestID)
		return
	}

	if !authorizeBrand(w, r, h.guard, current.BrandID) {
		return
	}

	if !action.CanTransition(current.Status, req.Status) {
		response.Err(w, http.StatusConflict, "Cannot change action status from "+current.Status+" to "+req.Status, requestID)
		return
	}

	updated, err := h.repo.UpdateStatus(r.Context(), id, current.Status, req.Status)
	if err != nil {
		if errors.Is(err, action.ErrStatusConflict) {
			response.Err(w, http.StatusConflict, "Action status changed concurrently", requestID)
			return
		}
		slog.Error("failed to update action status", "error", err, "actionId", id, "requestId", requestID)
		response.Err(w, http.StatusInternalServerError, "Failed to update action status", requestID)
		return
	}

	response.Success(w, http.StatusOK, response.Body{"action": toActionResponse(updated)})
}
