// Package automation is the client for the external tweet monitoring,
// scoring and reply generation service.
package automation

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/replyforge/replyforge/internal/metrics"
)

const serviceName = "automation"

// StatusError is returned when the service answers with a non-2xx status.
type StatusError struct {
	Operation  string
	StatusCode int
	Body       string
}

func (e *StatusError) Error() string {
	if e.Body == "" {
		return fmt.Sprintf("automation %s failed with status %d", e.Operation, e.StatusCode)
	}
	return fmt.Sprintf("automation %s failed with status %d: %s", e.Operation, e.StatusCode, e.Body)
}

// Client calls the automation service. Calls carry no timeout of their own;
// they are bounded only by the caller's context.
type Client struct {
	baseURL string
	http    *http.Client
}

// NewClient creates a client for the service rooted at baseURL.
// A nil httpClient falls back to http.DefaultClient.
func NewClient(baseURL string, httpClient *http.Client) *Client {
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    httpClient,
	}
}

// GenerateRequest is the body of POST /generate-reply.
type GenerateRequest struct {
	BrandID        string `json:"brand_id"`
	TweetID        string `json:"tweet_id"`
	TweetText      string `json:"tweet_text"`
	AuthorUsername string `json:"author_username,omitempty"`
}

// GeneratedReply is the typed view of the generation payload.
type GeneratedReply struct {
	ReplyText string `json:"reply_text"`
	ReplyTone string `json:"reply_tone"`
	ReplyType string `json:"reply_type"`
}

// GenerateResponse keeps the raw payload so it can be returned verbatim.
type GenerateResponse struct {
	Raw   json.RawMessage
	Reply GeneratedReply
}

// Monitor triggers mention monitoring for a brand.
func (c *Client) Monitor(ctx context.Context, brandID uuid.UUID) error {
	return c.post(ctx, "monitor", "/monitor/"+brandID.String(), nil, nil)
}

// Score triggers relevance scoring for a brand's monitored tweets.
func (c *Client) Score(ctx context.Context, brandID uuid.UUID) error {
	return c.post(ctx, "score", "/score/"+brandID.String(), nil, nil)
}

// GenerateReply asks the service to draft a reply for a tweet.
func (c *Client) GenerateReply(ctx context.Context, req GenerateRequest) (*GenerateResponse, error) {
	var body struct {
		GeneratedReply json.RawMessage `json:"generated_reply"`
	}
	if err := c.post(ctx, "generate-reply", "/generate-reply", req, &body); err != nil {
		return nil, err
	}

	raw := bytes.TrimSpace(body.GeneratedReply)
	if len(raw) == 0 || bytes.Equal(raw, []byte("null")) {
		return nil, fmt.Errorf("automation generate-reply returned no reply")
	}

	var typed GeneratedReply
	if err := json.Unmarshal(raw, &typed); err != nil {
		return nil, fmt.Errorf("decoding generated reply: %w", err)
	}

	return &GenerateResponse{Raw: body.GeneratedReply, Reply: typed}, nil
}

func (c *Client) post(ctx context.Context, op, path string, in, out any) (err error) {
	start := time.Now()
	defer func() { metrics.ObserveUpstream(serviceName, op, start, err) }()

	var reader io.Reader
	if in != nil {
		payload, err := json.Marshal(in)
		if err != nil {
			return fmt.Errorf("encoding %s request: %w", op, err)
		}
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, reader)
	if err != nil {
		return fmt.Errorf("building %s request: %w", op, err)
	}
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("calling automation %s: %w", op, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		b, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return &StatusError{Operation: op, StatusCode: resp.StatusCode, Body: strings.TrimSpace(string(b))}
	}

	if out == nil {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decoding %s response: %w", op, err)
	}
	return nil
}
