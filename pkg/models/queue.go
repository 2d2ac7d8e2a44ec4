package models

import "time"

// Queue item statuses. An item starts pending and moves exactly once to
// approved (which runs ingestion) or rejected (no side effects).
const (
	StatusPending  = "pending"
	StatusApproved = "approved"
	StatusRejected = "rejected"
)

// QueueItem is a staged candidate (game, boss, strategy) triple submitted by
// an external source, waiting for a moderation decision. The submit dedup key
// is (source, game_title, boss_name) plus video_url when present.
type QueueItem struct {
	ID               string    `json:"id"`
	Source           string    `json:"source"`
	GameTitle        string    `json:"game_title"`
	BossName         string    `json:"boss_name"`
	StrategyTitle    string    `json:"strategy_title,omitempty"`
	Steps            []string  `json:"steps"`
	RecommendedLevel string    `json:"recommended_level,omitempty"`
	VideoURL         string    `json:"video_url,omitempty"`
	Image            string    `json:"image,omitempty"`
	Summary          string    `json:"summary,omitempty"`
	Difficulty       string    `json:"difficulty,omitempty"`
	Status           string    `json:"status"`
	CreatedAt        time.Time `json:"created_at"`
}
