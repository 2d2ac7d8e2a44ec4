package main

import (
	"context"
	"log"
	"time"

	"github.com/joho/godotenv"

	"bosshub/internal/bosses"
	"bosshub/internal/games"
	"bosshub/internal/ingest"
	"bosshub/internal/strategies"
	"bosshub/pkg/database"
)

// Seeds the demo catalog straight into the database, without going through
// the HTTP API. Safe to run repeatedly.
func main() {
	_ = godotenv.Load()

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	cfg := database.DefaultConfig()
	db := database.MustOpen(cfg)
	defer db.Close()

	if err := database.Migrate(db); err != nil {
		log.Fatalf("db migrate failed: %v", err)
	}

	engine := ingest.NewEngine(
		games.NewRepo(db),
		bosses.NewRepo(db),
		strategies.NewRepo(db),
		nil, // no feed clients for a one-shot tool
	)

	game, err := engine.SeedDemo(ctx)
	if err != nil {
		log.Fatalf("demo seed failed: %v", err)
	}

	log.Printf("demo catalog ready: %s (%s)", game.Title, game.ID)
	log.Printf("database populated at %s", cfg.Path)
}
