package ingest

import (
	"context"
	"fmt"

	"bosshub/pkg/models"
)

// Fixed demo catalog: one game, three bosses, one video strategy each.
var demoGame = GameInput{
	Title:       "Elden Ring",
	Platform:    "PC/PS5/Xbox",
	CoverImage:  "https://images.igdb.com/igdb/image/upload/t_cover_big/co4jni.jpg",
	Description: "Open-world action RPG by FromSoftware featuring challenging boss fights.",
}

type demoBoss struct {
	boss     BossInput
	steps    []string
	videoURL string
}

var demoBosses = []demoBoss{
	{
		boss: BossInput{
			Name:       "Margit, the Fell Omen",
			Image:      "https://static.wikia.nocookie.net/eldenring/images/4/4b/Margit_the_Fell_Omen.jpg",
			Summary:    "Gatekeeper of Stormveil Castle with punishing combos and holy daggers.",
			Difficulty: "Hard",
		},
		steps: []string{
			"Summon Spirit Ashes to draw aggro.",
			"Bait the dagger throw then roll forward.",
			"Punish slow hammer slam with 1-2 hits.",
		},
		videoURL: "https://www.youtube.com/embed/IfZk96F6eAQ",
	},
	{
		boss: BossInput{
			Name:       "Godrick the Grafted",
			Image:      "https://static.wikia.nocookie.net/eldenring/images/4/41/Godrick_the_Grafted.jpg",
			Summary:    "Demigod who commands storm and grafted limbs.",
			Difficulty: "Hard",
		},
		steps: []string{
			"Stay mid-range to bait whirlwind.",
			"In phase 2, avoid dragon flame then circle to his left.",
			"Use bleed or frost for faster stagger.",
		},
		videoURL: "https://www.youtube.com/embed/Goe7bD8Jo1Q",
	},
	{
		boss: BossInput{
			Name:       "Malenia, Blade of Miquella",
			Image:      "https://static.wikia.nocookie.net/eldenring/images/a/aa/Malenia_Blade_of_Miquella.jpg",
			Summary:    "Infamous duel with lifesteal and Waterfowl Dance.",
			Difficulty: "Legendary",
		},
		steps: []string{
			"Use lightweight roll setup for iframes.",
			"When she hops, sprint away to dodge Waterfowl Dance.",
			"Inflict Scarlet Rot or Bleed to wear her down.",
		},
		videoURL: "https://www.youtube.com/embed/Hgfbm9lY0AU",
	},
}

// SeedDemo populates the demo catalog and returns the (possibly
// pre-existing) game. Idempotent: a second run finds the game by title and
// does no work; the per-boss strategy dedup covers partial earlier runs.
func (e *Engine) SeedDemo(ctx context.Context) (*models.Game, error) {
	existing, err := e.Games.GetByTitle(ctx, demoGame.Title)
	if err != nil {
		return nil, fmt.Errorf("demo seed lookup: %w", err)
	}
	if existing != nil {
		return existing, nil
	}

	game, _, err := e.ResolveOrCreateGame(ctx, demoGame)
	if err != nil {
		return nil, err
	}

	for _, d := range demoBosses {
		boss, _, err := e.ResolveOrCreateBoss(ctx, game.ID, d.boss)
		if err != nil {
			return nil, err
		}
		_, _, err = e.CreateStrategyIfAbsent(ctx, boss.ID, StrategyInput{
			Title:            fmt.Sprintf("How to beat %s", boss.Name),
			Steps:            d.steps,
			RecommendedLevel: "80+",
			VideoURL:         d.videoURL,
		})
		if err != nil {
			return nil, err
		}
	}

	return game, nil
}
