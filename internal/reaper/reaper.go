// Package reaper fails reply queue items that were left in the posting state,
// for example after a crash between claiming an item and recording the result.
package reaper

import (
	"context"
	"log/slog"
	"time"

	"github.com/replyforge/replyforge/internal/events"
	"github.com/replyforge/replyforge/internal/metrics"
	"github.com/replyforge/replyforge/internal/reply"
)

// StaleReason is recorded on items failed by the reaper.
const StaleReason = "posting timed out"

// StaleFailer fails queue items stuck in posting since before olderThan.
type StaleFailer interface {
	FailStale(ctx context.Context, olderThan time.Time, reason string) ([]reply.QueueItem, error)
}

// Reaper periodically sweeps the reply queue.
type Reaper struct {
	repo       StaleFailer
	publisher  events.Publisher
	interval   time.Duration
	staleAfter time.Duration
	now        func() time.Time
}

// New creates a new Reaper.
func New(repo StaleFailer, publisher events.Publisher, interval, staleAfter time.Duration) *Reaper {
	if publisher == nil {
		publisher = events.Noop{}
	}
	return &Reaper{
		repo:       repo,
		publisher:  publisher,
		interval:   interval,
		staleAfter: staleAfter,
		now:        time.Now,
	}
}

// Start runs the sweep loop. It blocks until ctx is cancelled. A non-positive
// interval disables the reaper and Start returns immediately.
func (r *Reaper) Start(ctx context.Context) {
	if r.interval <= 0 {
		slog.Info("reaper disabled", "interval", r.interval.String())
		return
	}
	slog.Info("reaper started", "interval", r.interval.String(), "staleAfter", r.staleAfter.String())
	ticker := time.NewTicker(r.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			slog.Info("reaper stopped")
			return
		case <-ticker.C:
			r.Sweep(ctx)
		}
	}
}

// Sweep fails every stale posting item once and returns how many were failed.
func (r *Reaper) Sweep(ctx context.Context) int {
	cutoff := r.now().Add(-r.staleAfter)

	items, err := r.repo.FailStale(ctx, cutoff, StaleReason)
	if err != nil {
		slog.Error("reaper: failed to fail stale replies", "error", err)
		return 0
	}
	if len(items) == 0 {
		return 0
	}

	metrics.AddStaleReplies(len(items))
	for _, item := range items {
		slog.Warn("reaper: reply marked as failed",
			"queueId", item.ID,
			"brandId", item.BrandID,
			"tweetId", item.TweetID,
		)
		evt := events.Event{
			Type:       events.ReplyFailed,
			BrandID:    item.BrandID.String(),
			OccurredAt: r.now().UTC(),
			Data:       map[string]string{"queueId": item.ID.String(), "error": StaleReason},
		}
		if err := r.publisher.Publish(ctx, evt); err != nil {
			slog.Warn("reaper: failed to publish event", "queueId", item.ID, "error", err)
		}
	}
	return len(items)
}
