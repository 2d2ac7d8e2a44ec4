package events

import "time"

// Event types broadcast over the feed.
const (
	TypeGameCreated     = "catalog.game_created"
	TypeBossCreated     = "catalog.boss_created"
	TypeStrategyCreated = "catalog.strategy_created"
	TypeQueueSubmitted  = "moderation.submitted"
	TypeQueueApproved   = "moderation.approved"
	TypeQueueRejected   = "moderation.rejected"
)

// Event is the JSON payload pushed to feed clients whenever ingestion
// creates a catalog record or a queue item changes state.
type Event struct {
	Type   string    `json:"type"`
	ID     string    `json:"id"`
	Title  string    `json:"title,omitempty"`  // game title / boss name / strategy title
	Source string    `json:"source,omitempty"` // queue item source tag
	At     time.Time `json:"at"`
}

func New(eventType, id, title string) Event {
	return Event{Type: eventType, ID: id, Title: title, At: time.Now().UTC()}
}
