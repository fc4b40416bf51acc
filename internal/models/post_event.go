package models

import "time"

// Post lifecycle event types.
const (
	EventPostCreated = "CREATED"
	EventPostUpdated = "UPDATED"
	EventPostDeleted = "DELETED"
)

// PostEvent is a single activity log entry.
type PostEvent struct {
	EventID     string    `json:"event_id"`
	OccurredAt  time.Time `json:"occurred_at"`
	Type        string    `json:"type"` // CREATED | UPDATED | DELETED
	PostID      int       `json:"post_id"`
	ActorID     int       `json:"actor_id"`
	Description string    `json:"description"`
	Metadata    any       `json:"metadata,omitempty"`
}
