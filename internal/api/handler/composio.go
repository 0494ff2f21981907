package handler

import (
	"log/slog"
	"net/http"

	"github.com/replyforge/replyforge/internal/api/middleware"
	"github.com/replyforge/replyforge/internal/api/response"
	"github.com/replyforge/replyforge/internal/api/validation"
	"github.com/replyforge/replyforge/internal/composio"
)

type postTweetRequest struct {
	BrandID          string `json:"brandId"`
	Text             string `json:"text"`
	InReplyToTweetID string `json:"inReplyToTweetId"`
}

// ComposioHandler exposes tweet posting to internal services authenticated
// by service key.
type ComposioHandler struct {
	poster TweetPoster
}

// NewComposioHandler creates a new ComposioHandler.
func NewComposioHandler(poster TweetPoster) *ComposioHandler {
	return &ComposioHandler{poster: poster}
}

// PostTweet handles POST /api/composio/post-tweet.
func (h *ComposioHandler) PostTweet(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())

	var req postTweetRequest
	if !decodeJSON(w, r, &req, false) {
		return
	}
	if errs := validation.ValidatePostTweetRequest(validation.PostTweetRequest{
		BrandID: req.BrandID,
		Text:    req.Text,
	}); len(errs) > 0 {
		writeValidation(w, errs, requestID)
		return
	}

	result, err := h.poster.PostTweet(r.Context(), composio.PostRequest{
		EntityID:         req.BrandID,
		Text:             req.Text,
		InReplyToTweetID: req.InReplyToTweetID,
	})
	if err != nil {
		slog.Error("internal tweet post failed", "error", err, "brandId", req.BrandID, "requestId", requestID)
		response.Err(w, http.StatusInternalServerError, "Failed to post tweet: "+err.Error(), requestID)
		return
	}

	response.Success(w, http.StatusOK, response.Body{"tweetId": result.TweetID})
}
