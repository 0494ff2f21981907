package reaper

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/replyforge/replyforge/internal/events"
	"github.com/replyforge/replyforge/internal/reply"
)

type mockFailer struct {
	mu      sync.Mutex
	failFn  func(ctx context.Context, olderThan time.Time, reason string) ([]reply.QueueItem, error)
	cutoffs []time.Time
	reasons []string
}

func (m *mockFailer) FailStale(ctx context.Context, olderThan time.Time, reason string) ([]reply.QueueItem, error) {
	m.mu.Lock()
	m.cutoffs = append(m.cutoffs, olderThan)
	m.reasons = append(m.reasons, reason)
	m.mu.Unlock()
	if m.failFn != nil {
		return m.failFn(ctx, olderThan, reason)
	}
	return nil, nil
}

func (m *mockFailer) sweeps() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.cutoffs)
}

type recordingPublisher struct {
	mu     sync.Mutex
	events []events.Event
}

func (p *recordingPublisher) Publish(_ context.Context, evt events.Event) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, evt)
	return nil
}

func TestSweep_FailsStaleItems(t *testing.T) {
	// Arrange
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	stale := []reply.QueueItem{
		{ID: uuid.New(), BrandID: uuid.New(), TweetID: "1", Status: reply.StatusFailed},
		{ID: uuid.New(), BrandID: uuid.New(), TweetID: "2", Status: reply.StatusFailed},
	}
	repo := &mockFailer{failFn: func(context.Context, time.Time, string) ([]reply.QueueItem, error) {
		return stale, nil
	}}
	pub := &recordingPublisher{}
	r := New(repo, pub, time.Minute, 5*time.Minute)
	r.now = func() time.Time { return now }

	// Act
	n := r.Sweep(context.Background())

	// Assert
	assert.Equal(t, 2, n)
	require.Len(t, repo.cutoffs, 1)
	assert.Equal(t, now.Add(-5*time.Minute), repo.cutoffs[0])
	assert.Equal(t, StaleReason, repo.reasons[0])
	require.Len(t, pub.events, 2)
	assert.Equal(t, events.ReplyFailed, pub.events[0].Type)
	assert.Equal(t, stale[1].BrandID.String(), pub.events[1].BrandID)
}

func TestSweep_NothingStale(t *testing.T) {
	pub := &recordingPublisher{}
	r := New(&mockFailer{}, pub, time.Minute, time.Minute)

	assert.Equal(t, 0, r.Sweep(context.Background()))
	assert.Empty(t, pub.events)
}

func TestSweep_RepositoryError(t *testing.T) {
	repo := &mockFailer{failFn: func(context.Context, time.Time, string) ([]reply.QueueItem, error) {
		return nil, errors.New("connection refused")
	}}
	r := New(repo, nil, time.Minute, time.Minute)

	assert.Equal(t, 0, r.Sweep(context.Background()))
}

func TestStart_StopsOnCancel(t *testing.T) {
	repo := &mockFailer{}
	r := New(repo, nil, 10*time.Millisecond, time.Minute)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		r.Start(ctx)
		close(done)
	}()

	require.Eventually(t, func() bool { return repo.sweeps() >= 2 }, time.Second, 5*time.Millisecond)
	cancel()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("reaper did not stop after cancel")
	}
}

func TestStart_NonPositiveIntervalDisables(t *testing.T) {
	for _, interval := range []time.Duration{0, -time.Second} {
		repo := &mockFailer{}
		r := New(repo, nil, interval, time.Minute)

		// A live context: Start must return on its own rather than tick.
		ctx, cancel := context.WithCancel(context.Background())
		assert.NotPanics(t, func() { r.Start(ctx) }, "interval %s", interval)
		cancel()

		assert.Equal(t, 0, repo.sweeps())
	}
}
