package brand

import (
	"time"

	"github.com/google/uuid"
)

// Brand represents a row in the brands table. It is the ownership unit for
// every automation resource.
type Brand struct {
	ID         uuid.UUID `db:"id"`
	UserID     uuid.UUID `db:"user_id"`
	Name       string    `db:"name"`
	WebsiteURL string    `db:"website_url"`
	Voice      string    `db:"voice"`
	CreatedAt  time.Time `db:"created_at"`
	UpdatedAt  time.Time `db:"updated_at"`
}
