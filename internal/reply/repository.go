package reply

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
)

// ErrNotFound is returned when no matching row exists.
var ErrNotFound = errors.New("reply not found")

// ErrInvalidTransition is returned for a queue status change that is not allowed
// or that lost a race with a concurrent update.
var ErrInvalidTransition = errors.New("invalid reply status transition")

// Repository provides operations on monitored tweets, the reply queue and
// posted replies.
type Repository interface {
	TopCandidate(ctx context.Context, brandID uuid.UUID) (*MonitoredTweet, error)
	Enqueue(ctx context.Context, item *QueueItem) error
	Transition(ctx context.Context, id uuid.UUID, from, to, errMsg string) (*QueueItem, error)
	CompletePosting(ctx context.Context, id uuid.UUID, replyTweetID string) (*PostedReply, error)
	ListPosted(ctx context.Context, brandID uuid.UUID, limit int) ([]PostedReply, error)
	FailStale(ctx context.Context, olderThan time.Time, reason string) ([]QueueItem, error)
}
