package reply

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/georgysavva/scany/v2/pgxscan"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

const queueColumns = `id, brand_id, tweet_id, reply_text, reply_tone, reply_type,
		          status, error, created_at, updated_at`

// PostgresRepository implements Repository using pgxpool.
type PostgresRepository struct {
	pool *pgxpool.Pool
}

// NewRepository creates a new Repository backed by the given connection pool.
func NewRepository(pool *pgxpool.Pool) Repository {
	return &PostgresRepository{pool: pool}
}

// TopCandidate returns the highest-relevance monitored tweet with status
// "replied" for the brand, or ErrNotFound.
func (r *PostgresRepository) TopCandidate(ctx context.Context, brandID uuid.UUID) (*MonitoredTweet, error) {
	query := `
		SELECT id, brand_id, tweet_id, author_username, tweet_text, tweet_url,
		       relevance_score, status, created_at
		FROM monitored_tweets
		WHERE brand_id = $1 AND status = $2
		ORDER BY relevance_score DESC NULLS LAST, created_at DESC
		LIMIT 1`

	var t MonitoredTweet
	if err := pgxscan.Get(ctx, r.pool, &t, query, brandID, TweetStatusReplied); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("querying reply candidate: %w", err)
	}
	return &t, nil
}

// Enqueue inserts a reply queue item with status "queued".
func (r *PostgresRepository) Enqueue(ctx context.Context, item *QueueItem) error {
	item.Status = StatusQueued

	query := `
		INSERT INTO reply_queue (brand_id, tweet_id, reply_text, reply_tone, reply_type, status)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id, created_at, updated_at`

	err := r.pool.QueryRow(ctx, query,
		item.BrandID,
		item.TweetID,
		item.ReplyText,
		item.ReplyTone,
		item.ReplyType,
		item.Status,
	).Scan(&item.ID, &item.CreatedAt, &item.UpdatedAt)
	if err != nil {
		return fmt.Errorf("enqueueing reply: %w", err)
	}
	return nil
}

// Transition moves a queue item from one status to another, recording errMsg.
// The update is conditional on the current status so concurrent callers
// cannot both win.
func (r *PostgresRepository) Transition(ctx context.Context, id uuid.UUID, from, to, errMsg string) (*QueueItem, error) {
	if !CanTransition(from, to) {
		return nil, ErrInvalidTransition
	}

	query := `
		UPDATE reply_queue
		SET status = $3, error = $4, updated_at = NOW()
		WHERE id = $1 AND status = $2
		RETURNING ` + queueColumns

	var item QueueItem
	if err := pgxscan.Get(ctx, r.pool, &item, query, id, from, to, errMsg); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrInvalidTransition
		}
		return nil, fmt.Errorf("transitioning reply: %w", err)
	}
	return &item, nil
}

// CompletePosting marks a posting item as posted and records the posted reply
// in the same transaction.
func (r *PostgresRepository) CompletePosting(ctx context.Context, id uuid.UUID, replyTweetID string) (*PostedReply, error) {
	var posted PostedReply

	err := pgx.BeginFunc(ctx, r.pool, func(tx pgx.Tx) error {
		var item QueueItem
		err := pgxscan.Get(ctx, tx, &item, `
			UPDATE reply_queue
			SET status = $3, error = '', updated_at = NOW()
			WHERE id = $1 AND status = $2
			RETURNING `+queueColumns, id, StatusPosting, StatusPosted)
		if err != nil {
			if errors.Is(err, pgx.ErrNoRows) {
				return ErrInvalidTransition
			}
			return fmt.Errorf("marking reply posted: %w", err)
		}

		queueID := item.ID
		posted = PostedReply{
			BrandID:      item.BrandID,
			QueueID:      &queueID,
			TweetID:      item.TweetID,
			ReplyTweetID: replyTweetID,
			ReplyText:    item.ReplyText,
		}
		err = tx.QueryRow(ctx, `
			INSERT INTO posted_replies (brand_id, queue_id, tweet_id, reply_tweet_id, reply_text)
			VALUES ($1, $2, $3, $4, $5)
			RETURNING id, posted_at`,
			posted.BrandID, posted.QueueID, posted.TweetID, posted.ReplyTweetID, posted.ReplyText,
		).Scan(&posted.ID, &posted.PostedAt)
		if err != nil {
			return fmt.Errorf("inserting posted reply: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &posted, nil
}

// ListPosted returns the most recent posted replies for a brand.
func (r *PostgresRepository) ListPosted(ctx context.Context, brandID uuid.UUID, limit int) ([]PostedReply, error) {
	query := `
		SELECT id, brand_id, queue_id, tweet_id, reply_tweet_id, reply_text, posted_at
		FROM posted_replies
		WHERE brand_id = $1
		ORDER BY posted_at DESC
		LIMIT $2`

	replies := []PostedReply{}
	if err := pgxscan.Select(ctx, r.pool, &replies, query, brandID, limit); err != nil {
		return nil, fmt.Errorf("listing posted replies: %w", err)
	}
	return replies, nil
}

// FailStale marks items stuck in "posting" since before olderThan as failed.
func (r *PostgresRepository) FailStale(ctx context.Context, olderThan time.Time, reason string) ([]QueueItem, error) {
	query := `
		UPDATE reply_queue
		SET status = $1, error = $2, updated_at = NOW()
		WHERE status = $3 AND updated_at < $4
		RETURNING ` + queueColumns

	items := []QueueItem{}
	if err := pgxscan.Select(ctx, r.pool, &items, query, StatusFailed, reason, StatusPosting, olderThan); err != nil {
		return nil, fmt.Errorf("failing stale replies: %w", err)
	}
	return items, nil
}
