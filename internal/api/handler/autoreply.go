package handler

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/google/uuid"

	"github.com/replyforge/replyforge/internal/api/middleware"
	"github.com/replyforge/replyforge/internal/api/response"
	"github.com/replyforge/replyforge/internal/api/validation"
	"github.com/replyforge/replyforge/internal/automation"
	"github.com/replyforge/replyforge/internal/composio"
	"github.com/replyforge/replyforge/internal/events"
	"github.com/replyforge/replyforge/internal/metrics"
	"github.com/replyforge/replyforge/internal/reply"
)

// NoCandidateMessage is returned when no monitored tweet qualifies for a reply.
const NoCandidateMessage = "No suitable tweets found to reply to. Try again once more mentions have been monitored."

const (
	defaultPostedLimit = 20
	maxPostedLimit     = 100
)

// AutomationClient is the subset of the automation service used by the handler.
type AutomationClient interface {
	Monitor(ctx context.Context, brandID uuid.UUID) error
	Score(ctx context.Context, brandID uuid.UUID) error
	GenerateReply(ctx context.Context, req automation.GenerateRequest) (*automation.GenerateResponse, error)
}

// TweetPoster publishes tweets.
type TweetPoster interface {
	PostTweet(ctx context.Context, req composio.PostRequest) (*composio.PostResult, error)
}

type findAndReplyRequest struct {
	BrandID string `json:"brandId"`
}

type postReplyRequest struct {
	BrandID   string `json:"brandId"`
	TweetID   string `json:"tweetId"`
	ReplyText string `json:"replyText"`
	ReplyTone string `json:"replyTone"`
	ReplyType string `json:"replyType"`
}

type postedReplyResponse struct {
	ID           string  `json:"id"`
	BrandID      string  `json:"brandId"`
	QueueID      *string `json:"queueId"`
	TweetID      string  `json:"tweetId"`
	ReplyTweetID string  `json:"replyTweetId"`
	ReplyText    string  `json:"replyText"`
	PostedAt     string  `json:"postedAt"`
}

func toPostedReplyResponse(p *reply.PostedReply) postedReplyResponse {
	resp := postedReplyResponse{
		ID:           p.ID.String(),
		BrandID:      p.BrandID.String(),
		TweetID:      p.TweetID,
		ReplyTweetID: p.ReplyTweetID,
		ReplyText:    p.ReplyText,
		PostedAt:     p.PostedAt.UTC().Format(timeFormat),
	}
	if p.QueueID != nil {
		s := p.QueueID.String()
		resp.QueueID = &s
	}
	return resp
}

// AutoReplyHandler orchestrates reply discovery, generation and posting.
type AutoReplyHandler struct {
	repo       reply.Repository
	guard      OwnershipGuard
	automation AutomationClient
	poster     TweetPoster
	publisher  events.Publisher
}

// NewAutoReplyHandler creates a new AutoReplyHandler.
func NewAutoReplyHandler(repo reply.Repository, guard OwnershipGuard, automation AutomationClient, poster TweetPoster, publisher events.Publisher) *AutoReplyHandler {
	return &AutoReplyHandler{
		repo:       repo,
		guard:      guard,
		automation: automation,
		poster:     poster,
		publisher:  publisher,
	}
}

// FindAndReply handles POST /api/auto-replies/find-and-reply. It refreshes
// monitoring and scoring, picks the most relevant tweet and generates a
// reply. Nothing is posted.
func (h *AutoReplyHandler) FindAndReply(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())

	var req findAndReplyRequest
	if !decodeJSON(w, r, &req, false) {
		return
	}
	if errs := validation.ValidateFindAndReplyRequest(validation.FindAndReplyRequest{BrandID: req.BrandID}); len(errs) > 0 {
		writeValidation(w, errs, requestID)
		return
	}

	brandID := uuid.MustParse(req.BrandID)
	if !authorizeBrand(w, r, h.guard, brandID) {
		return
	}

	fail := func(step string, err error, message string) {
		metrics.RecordFindAndReply("error")
		slog.Error("find-and-reply failed", "step", step, "error", err, "brandId", brandID, "requestId", requestID)
		response.Err(w, http.StatusInternalServerError, message, requestID)
	}

	if err := h.automation.Monitor(r.Context(), brandID); err != nil {
		fail("monitor", err, monitorErrorMessage(err))
		return
	}

	if err := h.automation.Score(r.Context(), brandID); err != nil {
		fail("score", err, "Failed to score tweets: "+err.Error())
		return
	}

	tweet, err := h.repo.TopCandidate(r.Context(), brandID)
	if err != nil {
		if errors.Is(err, reply.ErrNotFound) {
			metrics.RecordFindAndReply("no_candidate")
			response.Err(w, http.StatusOK, NoCandidateMessage, requestID)
			return
		}
		fail("select", err, "Failed to load monitored tweets")
		return
	}

	generated, err := h.automation.GenerateReply(r.Context(), automation.GenerateRequest{
		BrandID:        brandID.String(),
		TweetID:        tweet.TweetID,
		TweetText:      tweet.TweetText,
		AuthorUsername: tweet.AuthorUsername,
	})
	if err != nil {
		fail("generate", err, "Failed to generate reply: "+err.Error())
		return
	}

	metrics.RecordFindAndReply("generated")
	publish(r.Context(), h.publisher, events.Event{
		Type:       events.ReplyGenerated,
		BrandID:    brandID.String(),
		OccurredAt: time.Now().UTC(),
		Data:       map[string]string{"tweetId": tweet.TweetID},
	})

	response.Success(w, http.StatusOK, response.Body{
		"posted": false,
		"tweet":  tweet,
		"reply":  generated.Raw,
	})
}

func monitorErrorMessage(err error) string {
	var statusErr *automation.StatusError
	if errors.As(err, &statusErr) {
		switch statusErr.StatusCode {
		case http.StatusServiceUnavailable:
			return "Automation service is not configured correctly"
		case http.StatusNotFound:
			return "Brand not found in automation service"
		}
	}
	return "Failed to monitor tweets: " + err.Error()
}

// Post handles POST /api/auto-replies/post, publishing a reply the user has
// confirmed. The queue item moves queued -> posting -> posted or failed.
func (h *AutoReplyHandler) Post(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())

	var req postReplyRequest
	if !decodeJSON(w, r, &req, false) {
		return
	}
	if errs := validation.ValidatePostReplyRequest(validation.PostReplyRequest{
		BrandID:   req.BrandID,
		TweetID:   req.TweetID,
		ReplyText: req.ReplyText,
	}); len(errs) > 0 {
		writeValidation(w, errs, requestID)
		return
	}

	brandID := uuid.MustParse(req.BrandID)
	if !authorizeBrand(w, r, h.guard, brandID) {
		return
	}

	item := &reply.QueueItem{
		BrandID:   brandID,
		TweetID:   req.TweetID,
		ReplyText: req.ReplyText,
		ReplyTone: req.ReplyTone,
		ReplyType: req.ReplyType,
		Status:    reply.StatusQueued,
	}
	if err := h.repo.Enqueue(r.Context(), item); err != nil {
		slog.Error("failed to enqueue reply", "error", err, "brandId", brandID, "requestId", requestID)
		response.Err(w, http.StatusInternalServerError, "Failed to queue reply", requestID)
		return
	}

	if _, err := h.repo.Transition(r.Context(), item.ID, reply.StatusQueued, reply.StatusPosting, ""); err != nil {
		slog.Error("failed to start posting", "error", err, "queueId", item.ID, "requestId", requestID)
		response.Err(w, http.StatusInternalServerError, "Failed to start posting reply", requestID)
		return
	}

	// Once posting starts, a client disconnect must not abort the post or
	// the recording of its outcome.
	ctx := context.WithoutCancel(r.Context())

	result, err := h.poster.PostTweet(ctx, composio.PostRequest{
		EntityID:         brandID.String(),
		Text:             req.ReplyText,
		InReplyToTweetID: req.TweetID,
	})
	if err != nil {
		metrics.RecordReplyPosted("failed")
		if _, terr := h.repo.Transition(ctx, item.ID, reply.StatusPosting, reply.StatusFailed, err.Error()); terr != nil {
			slog.Error("failed to mark reply failed", "error", terr, "queueId", item.ID, "requestId", requestID)
		}
		publish(ctx, h.publisher, events.Event{
			Type:       events.ReplyFailed,
			BrandID:    brandID.String(),
			OccurredAt: time.Now().UTC(),
			Data:       map[string]string{"queueId": item.ID.String(), "error": err.Error()},
		})
		slog.Error("failed to post reply", "error", err, "queueId", item.ID, "requestId", requestID)
		response.Err(w, http.StatusInternalServerError, "Failed to post reply: "+err.Error(), requestID)
		return
	}

	posted, err := h.repo.CompletePosting(ctx, item.ID, result.TweetID)
	if err != nil {
		slog.Error("reply posted but not recorded", "error", err, "queueId", item.ID, "replyTweetId", result.TweetID, "requestId", requestID)
		response.Err(w, http.StatusInternalServerError, "Reply was posted but could not be recorded", requestID)
		return
	}

	metrics.RecordReplyPosted("posted")
	publish(ctx, h.publisher, events.Event{
		Type:       events.ReplyPosted,
		BrandID:    brandID.String(),
		OccurredAt: time.Now().UTC(),
		Data:       map[string]string{"queueId": item.ID.String(), "replyTweetId": result.TweetID},
	})

	response.Success(w, http.StatusOK, response.Body{
		"posted": true,
		"reply":  toPostedReplyResponse(posted),
	})
}

// ListPosted handles GET /api/auto-replies/posted?brandId=&limit=.
func (h *AutoReplyHandler) ListPosted(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())

	q := r.URL.Query()
	brandID, err := uuid.Parse(q.Get("brandId"))
	if err != nil {
		response.Err(w, http.StatusBadRequest, "brandId must be a valid UUID", requestID)
		return
	}

	limit, err := parseLimit(q.Get("limit"))
	if err != nil {
		response.Err(w, http.StatusBadRequest, err.Error(), requestID)
		return
	}

	if !authorizeBrand(w, r, h.guard, brandID) {
		return
	}

	replies, err := h.repo.ListPosted(r.Context(), brandID, limit)
	if err != nil {
		slog.Error("failed to list posted replies", "error", err, "brandId", brandID, "requestId", requestID)
		response.Err(w, http.StatusInternalServerError, "Failed to list posted replies", requestID)
		return
	}

	items := make([]postedReplyResponse, 0, len(replies))
	for i := range replies {
		items = append(items, toPostedReplyResponse(&replies[i]))
	}
	response.Success(w, http.StatusOK, response.Body{
		"replies": items,
		"count":   len(items),
	})
}

func parseLimit(raw string) (int, error) {
	if raw == "" {
		return defaultPostedLimit, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n < 1 {
		return 0, fmt.Errorf("limit must be a positive integer")
	}
	if n > maxPostedLimit {
		n = maxPostedLimit
	}
	return n, nil
}
