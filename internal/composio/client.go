// Package composio posts tweets through the Composio action API.
package composio

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/replyforge/replyforge/internal/metrics"
)

const postTweetAction = "TWITTER_CREATION_OF_A_POST"

// ErrNotConfigured is returned when no API key was provided.
var ErrNotConfigured = errors.New("composio is not configured")

// PostRequest describes a tweet to publish on behalf of a brand.
type PostRequest struct {
	EntityID         string
	Text             string
	InReplyToTweetID string
}

// PostResult carries the id of the created tweet.
type PostResult struct {
	TweetID string
}

// Client calls the Composio API.
type Client struct {
	baseURL string
	apiKey  string
	http    *http.Client
}

// NewClient creates a client. A nil httpClient falls back to http.DefaultClient.
func NewClient(baseURL, apiKey string, httpClient *http.Client) *Client {
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		apiKey:  apiKey,
		http:    httpClient,
	}
}

type executeRequest struct {
	EntityID string         `json:"entityId,omitempty"`
	Input    map[string]any `json:"input"`
}

type executeResponse struct {
	Successful bool   `json:"successfull"`
	Success    bool   `json:"success"`
	Error      string `json:"error"`
	Data       struct {
		Data struct {
			ID string `json:"id"`
		} `json:"data"`
		ID string `json:"id"`
	} `json:"data"`
}

// PostTweet publishes a tweet, optionally as a reply.
func (c *Client) PostTweet(ctx context.Context, req PostRequest) (result *PostResult, err error) {
	if c.apiKey == "" {
		return nil, ErrNotConfigured
	}

	start := time.Now()
	defer func() { metrics.ObserveUpstream("composio", "post-tweet", start, err) }()

	input := map[string]any{"text": req.Text}
	if req.InReplyToTweetID != "" {
		input["reply_in_reply_to_tweet_id"] = req.InReplyToTweetID
	}
	payload, err := json.Marshal(executeRequest{EntityID: req.EntityID, Input: input})
	if err != nil {
		return nil, fmt.Errorf("encoding post request: %w", err)
	}

	url := c.baseURL + "/actions/" + postTweetAction + "/execute"
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("building post request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("x-api-key", c.apiKey)

	resp, err := c.http.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("calling composio: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		b, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return nil, fmt.Errorf("composio returned status %d: %s", resp.StatusCode, strings.TrimSpace(string(b)))
	}

	var out executeResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return nil, fmt.Errorf("decoding composio response: %w", err)
	}
	if !out.Successful && !out.Success {
		if out.Error == "" {
			out.Error = "action was not successful"
		}
		return nil, fmt.Errorf("composio: %s", out.Error)
	}

	id := out.Data.Data.ID
	if id == "" {
		id = out.Data.ID
	}
	if id == "" {
		return nil, fmt.Errorf("composio response did not include a tweet id")
	}
	return &PostResult{TweetID: id}, nil
}
