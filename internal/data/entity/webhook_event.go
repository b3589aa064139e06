package entity

import (
	"time"

	"github.com/google/uuid"
)

// WebhookEvent records a processed provider event for deduplication. The
// provider delivers at-least-once; EventID is unique so a redelivery is a
// no-op instead of a second state transition.
type WebhookEvent struct {
	ID          uuid.UUID `db:"id"`
	EventID     string    `db:"event_id"`
	EventType   string    `db:"event_type"`
	ProcessedAt time.Time `db:"processed_at"`
}
