// Package events publishes domain events to NATS.
package events

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/nats-io/nats.go"
)

// SubjectPrefix is prepended to every event type.
const SubjectPrefix = "replyforge."

// Event types.
const (
	ActionCreated  = "action.created"
	ReplyGenerated = "reply.generated"
	ReplyPosted    = "reply.posted"
	ReplyFailed    = "reply.failed"
)

// Event is the JSON envelope published for every event.
type Event struct {
	Type       string    `json:"type"`
	BrandID    string    `json:"brandId"`
	OccurredAt time.Time `json:"occurredAt"`
	Data       any       `json:"data,omitempty"`
}

// Publisher emits events. Publishing is best effort; callers log failures.
type Publisher interface {
	Publish(ctx context.Context, evt Event) error
}

// Subject returns the NATS subject for an event type.
func Subject(eventType string) string {
	return SubjectPrefix + eventType
}

// NATSPublisher publishes core NATS messages.
type NATSPublisher struct {
	conn *nats.Conn
}

// Connect dials url and returns a publisher.
func Connect(url string) (*NATSPublisher, error) {
	nc, err := nats.Connect(url, nats.Name("replyforge"), nats.MaxReconnects(-1))
	if err != nil {
		return nil, fmt.Errorf("connecting to nats: %w", err)
	}
	return &NATSPublisher{conn: nc}, nil
}

// Publish encodes evt and sends it on its subject.
func (p *NATSPublisher) Publish(ctx context.Context, evt Event) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if evt.OccurredAt.IsZero() {
		evt.OccurredAt = time.Now().UTC()
	}
	data, err := json.Marshal(evt)
	if err != nil {
		return fmt.Errorf("encoding event: %w", err)
	}
	return p.conn.Publish(Subject(evt.Type), data)
}

// Close drains the connection.
func (p *NATSPublisher) Close() {
	if err := p.conn.Drain(); err != nil {
		p.conn.Close()
	}
}

// Noop discards events. Used when NATS is not configured.
type Noop struct{}

func (Noop) Publish(context.Context, Event) error { return nil }
