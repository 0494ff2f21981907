package action

import (
	"time"

	"github.com/google/uuid"
)

// Action types accepted by the create endpoint.
const (
	TypeAnnouncement = "announcement"
	TypeEngagement   = "engagement"
	TypeExcitement   = "excitement"
	TypePromotion    = "promotion"
	TypeEducation    = "education"
	TypeCommunity    = "community"
	TypeMetrics      = "metrics"
)

// ValidTypes lists every accepted action type in display order.
var ValidTypes = []string{
	TypeAnnouncement,
	TypeEngagement,
	TypeExcitement,
	TypePromotion,
	TypeEducation,
	TypeCommunity,
	TypeMetrics,
}

// Action statuses.
const (
	StatusPending   = "pending"
	StatusCompleted = "completed"
	StatusPaused    = "paused"
)

// Action represents a row in the content_actions table.
type Action struct {
	ID          uuid.UUID  `db:"id"`
	BrandID     uuid.UUID  `db:"brand_id"`
	ActionType  string     `db:"action_type"`
	Title       string     `db:"title"`
	Description string     `db:"description"`
	Context     string     `db:"context"`
	Tone        string     `db:"tone"`
	Status      string     `db:"status"`
	CreatedAt   time.Time  `db:"created_at"`
	UpdatedAt   time.Time  `db:"updated_at"`
	CompletedAt *time.Time `db:"completed_at"`
}

// IsValidType reports whether t is one of ValidTypes.
func IsValidType(t string) bool {
	for _, v := range ValidTypes {
		if v == t {
			return true
		}
	}
	return false
}

var transitions = map[string][]string{
	StatusPending: {StatusCompleted, StatusPaused},
	StatusPaused:  {StatusPending, StatusCompleted},
}

// CanTransition reports whether an action may move from one status to another.
// Completed actions are terminal.
func CanTransition(from, to string) bool {
	for _, next := range transitions[from] {
		if next == to {
			return true
		}
	}
	return false
}

// Stats counts actions per status.
type Stats struct {
	Total     int `json:"total"`
	Pending   int `json:"pending"`
	Completed int `json:"completed"`
	Paused    int `json:"paused"`
}

// Grouped partitions actions by status, preserving input order.
type Grouped struct {
	Pending   []Action
	Completed []Action
	Paused    []Action
}

// Summarize groups actions by status and counts them.
func Summarize(actions []Action) (Grouped, Stats) {
	g := Grouped{
		Pending:   []Action{},
		Completed: []Action{},
		Paused:    []Action{},
	}
	for _, a := range actions {
		switch a.Status {
		case StatusPending:
			g.Pending = append(g.Pending, a)
		case StatusCompleted:
			g.Completed = append(g.Completed, a)
		case StatusPaused:
			g.Paused = append(g.Paused, a)
		}
	}
	return g, Stats{
		Total:     len(actions),
		Pending:   len(g.Pending),
		Completed: len(g.Completed),
		Paused:    len(g.Paused),
	}
}
