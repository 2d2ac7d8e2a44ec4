package models

import "time"

// Strategy is a guide for beating one Boss. Steps is an ordered list stored
// as a JSON array in the DB. (boss_id, video_url) is the dedup key when
// VideoURL is non-empty; strategies without a video are never deduplicated.
type Strategy struct {
	ID               string    `json:"id"`
	BossID           string    `json:"boss_id"`
	Title            string    `json:"title"`
	Steps            []string  `json:"steps"`
	RecommendedLevel string    `json:"recommended_level,omitempty"`
	VideoURL         string    `json:"video_url,omitempty"`
	CreatedAt        time.Time `json:"created_at"`
}
