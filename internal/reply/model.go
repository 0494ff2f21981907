package reply

import (
	"time"

	"github.com/google/uuid"
)

// TweetStatusReplied marks monitored tweets that are eligible as
// find-and-reply candidates.
const TweetStatusReplied = "replied"

// Reply queue statuses.
const (
	StatusQueued  = "queued"
	StatusPosting = "posting"
	StatusPosted  = "posted"
	StatusFailed  = "failed"
)

// MonitoredTweet represents a row in the monitored_tweets table. Rows are
// written by the automation service; this server only reads them.
type MonitoredTweet struct {
	ID             uuid.UUID `db:"id"               json:"id"`
	BrandID        uuid.UUID `db:"brand_id"         json:"brand_id"`
	TweetID        string    `db:"tweet_id"         json:"tweet_id"`
	AuthorUsername string    `db:"author_username"  json:"author_username"`
	TweetText      string    `db:"tweet_text"       json:"tweet_text"`
	TweetURL       string    `db:"tweet_url"        json:"tweet_url"`
	RelevanceScore *float64  `db:"relevance_score"  json:"relevance_score"`
	Status         string    `db:"status"           json:"status"`
	CreatedAt      time.Time `db:"created_at"       json:"created_at"`
}

// QueueItem represents a row in the reply_queue table.
type QueueItem struct {
	ID        uuid.UUID `db:"id"`
	BrandID   uuid.UUID `db:"brand_id"`
	TweetID   string    `db:"tweet_id"`
	ReplyText string    `db:"reply_text"`
	ReplyTone string    `db:"reply_tone"`
	ReplyType string    `db:"reply_type"`
	Status    string    `db:"status"`
	Error     string    `db:"error"`
	CreatedAt time.Time `db:"created_at"`
	UpdatedAt time.Time `db:"updated_at"`
}

// PostedReply represents a row in the posted_replies table.
type PostedReply struct {
	ID           uuid.UUID  `db:"id"`
	BrandID      uuid.UUID  `db:"brand_id"`
	QueueID      *uuid.UUID `db:"queue_id"`
	TweetID      string     `db:"tweet_id"`
	ReplyTweetID string     `db:"reply_tweet_id"`
	ReplyText    string     `db:"reply_text"`
	PostedAt     time.Time  `db:"posted_at"`
}

var transitions = map[string][]string{
	StatusQueued:  {StatusPosting},
	StatusPosting: {StatusPosted, StatusFailed},
	StatusFailed:  {StatusQueued},
}

// CanTransition reports whether a queue item may move between statuses.
// Posted is terminal.
func CanTransition(from, to string) bool {
	for _, next := range transitions[from] {
		if next == to {
			return true
		}
	}
	return false
}
