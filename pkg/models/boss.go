package models

import "time"

// Boss belongs to exactly one Game via GameID. The (game_id, name) pair is
// the logical uniqueness key, enforced only by the ingestion engine's
// resolve-or-create path, never by the store itself.
type Boss struct {
	ID         string    `json:"id"`
	GameID     string    `json:"game_id"`
	Name       string    `json:"name"`
	Image      string    `json:"image,omitempty"`
	Summary    string    `json:"summary,omitempty"`
	Difficulty string    `json:"difficulty,omitempty"`
	CreatedAt  time.Time `json:"created_at"`
}

// BossDetail is the boss-by-id response shape: the boss plus its strategies.
type BossDetail struct {
	Boss
	Strategies []Strategy `json:"strategies"`
}
