package embedding

import (
	"time"

	"github.com/google/uuid"
)

// Embedding represents a row in the brand_embeddings table: a piece of brand
// content and its vector, used by the automation service for retrieval.
type Embedding struct {
	ID        uuid.UUID
	BrandID   uuid.UUID
	Content   string
	Vector    []float64
	Metadata  map[string]any
	CreatedAt time.Time
}
