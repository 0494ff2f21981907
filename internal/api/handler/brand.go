package handler

import (
	"context"
	"log/slog"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/replyforge/replyforge/internal/api/middleware"
	"github.com/replyforge/replyforge/internal/api/response"
	"github.com/replyforge/replyforge/internal/api/validation"
	"github.com/replyforge/replyforge/internal/brand"
	"github.com/replyforge/replyforge/internal/website"
)

// WebsiteAnalyzer extracts content from a brand's website.
type WebsiteAnalyzer interface {
	Analyze(ctx context.Context, rawURL string) (*website.Analysis, error)
}

type createBrandRequest struct {
	Name       string `json:"name"`
	WebsiteURL string `json:"websiteUrl"`
	Voice      string `json:"voice"`
}

type brandResponse struct {
	ID         string `json:"id"`
	Name       string `json:"name"`
	WebsiteURL string `json:"websiteUrl"`
	Voice      string `json:"voice"`
	CreatedAt  string `json:"createdAt"`
	UpdatedAt  string `json:"updatedAt"`
}

func toBrandResponse(b *brand.Brand) brandResponse {
	return brandResponse{
		ID:         b.ID.String(),
		Name:       b.Name,
		WebsiteURL: b.WebsiteURL,
		Voice:      b.Voice,
		CreatedAt:  b.CreatedAt.UTC().Format(timeFormat),
		UpdatedAt:  b.UpdatedAt.UTC().Format(timeFormat),
	}
}

// BrandHandler handles brand endpoints.
type BrandHandler struct {
	repo     brand.Repository
	guard    OwnershipGuard
	analyzer WebsiteAnalyzer
}

// NewBrandHandler creates a new BrandHandler.
func NewBrandHandler(repo brand.Repository, guard OwnershipGuard, analyzer WebsiteAnalyzer) *BrandHandler {
	return &BrandHandler{repo: repo, guard: guard, analyzer: analyzer}
}

// List handles GET /api/brands.
func (h *BrandHandler) List(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())

	userID, err := uuid.Parse(principalID(r))
	if err != nil {
		response.Success(w, http.StatusOK, response.Body{"brands": []brandResponse{}})
		return
	}

	brands, err := h.repo.ListByUser(r.Context(), userID)
	if err != nil {
		slog.Error("failed to list brands", "error", err, "requestId", requestID)
		response.Err(w, http.StatusInternalServerError, "Failed to list brands", requestID)
		return
	}

	items := make([]brandResponse, 0, len(brands))
	for i := range brands {
		items = append(items, toBrandResponse(&brands[i]))
	}
	response.Success(w, http.StatusOK, response.Body{"brands": items})
}

// Create handles POST /api/brands.
func (h *BrandHandler) Create(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())

	userID, err := uuid.Parse(principalID(r))
	if err != nil {
		response.Err(w, http.StatusForbidden, "Access denied", requestID)
		return
	}

	var req createBrandRequest
	if !decodeJSON(w, r, &req, false) {
		return
	}

	if errs := validation.ValidateCreateBrandRequest(validation.CreateBrandRequest{
		Name:       req.Name,
		WebsiteURL: req.WebsiteURL,
	}); len(errs) > 0 {
		writeValidation(w, errs, requestID)
		return
	}

	b := &brand.Brand{
		UserID:     userID,
		Name:       strings.TrimSpace(req.Name),
		WebsiteURL: req.WebsiteURL,
		Voice:      req.Voice,
	}
	if err := h.repo.Create(r.Context(), b); err != nil {
		slog.Error("failed to create brand", "error", err, "requestId", requestID)
		response.Err(w, http.StatusInternalServerError, "Failed to create brand", requestID)
		return
	}

	response.Success(w, http.StatusCreated, response.Body{"brand": toBrandResponse(b)})
}

// Get handles GET /api/brands/{brandId}.
func (h *BrandHandler) Get(w http.ResponseWriter, r *http.Request) {
	b, ok := h.loadOwned(w, r)
	if !ok {
		return
	}
	response.Success(w, http.StatusOK, response.Body{"brand": toBrandResponse(b)})
}

// AnalyzeWebsite handles POST /api/brands/{brandId}/analyze-website.
func (h *BrandHandler) AnalyzeWebsite(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())

	b, ok := h.loadOwned(w, r)
	if !ok {
		return
	}
	if b.WebsiteURL == "" {
		response.Err(w, http.StatusBadRequest, "Brand has no website URL", requestID)
		return
	}

	analysis, err := h.analyzer.Analyze(r.Context(), b.WebsiteURL)
	if err != nil {
		slog.Error("website analysis failed", "error", err, "brandId", b.ID, "requestId", requestID)
		response.Err(w, http.StatusInternalServerError, "Failed to analyze website: "+err.Error(), requestID)
		return
	}

	response.Success(w, http.StatusOK, response.Body{"analysis": analysis})
}

func (h *BrandHandler) loadOwned(w http.ResponseWriter, r *http.Request) (*brand.Brand, bool) {
	requestID := middleware.GetRequestID(r.Context())

	id, err := uuid.Parse(chi.URLParam(r, "brandId"))
	if err != nil {
		response.Err(w, http.StatusBadRequest, "brandId must be a valid UUID", requestID)
		return nil, false
	}

	if !authorizeBrand(w, r, h.guard, id) {
		return nil, false
	}

	b, err := h.repo.GetByID(r.Context(), id)
	if err != nil {
		slog.Error("failed to load brand", "error", err, "brandId", id, "requestId", requestID)
		response.Err(w, http.StatusInternalServerError, "Failed to load brand", requestID)
		return nil, false
	}
	return b, true
}
