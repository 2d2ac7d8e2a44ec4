package models

import "time"

// Game is a catalog entry for a single video game. Games are created once
// (directly, by the demo seed, or by the first ingestion referencing a new
// title) and never updated or deleted afterwards.
type Game struct {
	ID          string    `json:"id"`
	Title       string    `json:"title"`
	Platform    string    `json:"platform,omitempty"`
	CoverImage  string    `json:"cover_image,omitempty"`
	Description string    `json:"description,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
}
