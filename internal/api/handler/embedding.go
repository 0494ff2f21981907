package handler

import (
	"log/slog"
	"net/http"

	"github.com/google/uuid"

	"github.com/replyforge/replyforge/internal/api/middleware"
	"github.com/replyforge/replyforge/internal/api/response"
	"github.com/replyforge/replyforge/internal/api/validation"
	"github.com/replyforge/replyforge/internal/embedding"
)

type storeEmbeddingRequest struct {
	BrandID   string         `json:"brandId"`
	Content   string         `json:"content"`
	Embedding []float64      `json:"embedding"`
	Metadata  map[string]any `json:"metadata"`
}

// EmbeddingHandler handles brand embedding endpoints.
type EmbeddingHandler struct {
	repo  embedding.Repository
	guard OwnershipGuard
}

// NewEmbeddingHandler creates a new EmbeddingHandler.
func NewEmbeddingHandler(repo embedding.Repository, guard OwnershipGuard) *EmbeddingHandler {
	return &EmbeddingHandler{repo: repo, guard: guard}
}

// Store handles POST /api/embeddings/store.
func (h *EmbeddingHandler) Store(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())

	var req storeEmbeddingRequest
	if !decodeJSON(w, r, &req, false) {
		return
	}
	if errs := validation.ValidateStoreEmbeddingRequest(validation.StoreEmbeddingRequest{
		BrandID:   req.BrandID,
		Content:   req.Content,
		Dimension: len(req.Embedding),
	}); len(errs) > 0 {
		writeValidation(w, errs, requestID)
		return
	}

	brandID := uuid.MustParse(req.BrandID)
	if !authorizeBrand(w, r, h.guard, brandID) {
		return
	}

	e := &embedding.Embedding{
		BrandID:  brandID,
		Content:  req.Content,
		Vector:   req.Embedding,
		Metadata: req.Metadata,
	}
	if err := h.repo.Store(r.Context(), e); err != nil {
		slog.Error("failed to store embedding", "error", err, "brandId", brandID, "requestId", requestID)
		response.Err(w, http.StatusInternalServerError, "Failed to store embedding: "+err.Error(), requestID)
		return
	}

	response.Success(w, http.StatusOK, response.Body{"id": e.ID.String()})
}
