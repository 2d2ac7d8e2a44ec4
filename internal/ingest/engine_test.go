package ingest

import (
	"context"
	"database/sql"
	"testing"

	_ "github.com/mattn/go-sqlite3"

	"bosshub/internal/bosses"
	"bosshub/internal/games"
	"bosshub/internal/strategies"
	"bosshub/pkg/database"
)

func newTestEngine(t *testing.T) (*Engine, *sql.DB) {
	t.Helper()
	db, err := sql.Open("sqlite3", ":memory:")
	if err != nil {
		t.Fatalf("open test db: %v", err)
	}
	// Each in-memory connection is its own database; pin the pool to one.
	db.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = db.Close() })
	if err := database.Migrate(db); err != nil {
		t.Fatalf("migrate test db: %v", err)
	}
	return NewEngine(games.NewRepo(db), bosses.NewRepo(db), strategies.NewRepo(db), nil), db
}

func countRows(t *testing.T, db *sql.DB, table string) int {
	t.Helper()
	var n int
	if err := db.QueryRow(`SELECT COUNT(*) FROM ` + table).Scan(&n); err != nil {
		t.Fatalf("count %s: %v", table, err)
	}
	return n
}

func TestSeedDemoIdempotent(t *testing.T) {
	e, db := newTestEngine(t)
	ctx := context.Background()

	first, err := e.SeedDemo(ctx)
	if err != nil {
		t.Fatalf("first seed: %v", err)
	}
	second, err := e.SeedDemo(ctx)
	if err != nil {
		t.Fatalf("second seed: %v", err)
	}

	if first.Title != "Elden Ring" {
		t.Errorf("game title = %q, want Elden Ring", first.Title)
	}
	if second.ID != first.ID {
		t.Errorf("second seed returned game %s, want %s", second.ID, first.ID)
	}

	if n := countRows(t, db, "games"); n != 1 {
		t.Errorf("games = %d, want 1", n)
	}
	if n := countRows(t, db, "bosses"); n != 3 {
		t.Errorf("bosses = %d, want 3", n)
	}
	if n := countRows(t, db, "strategies"); n != 3 {
		t.Errorf("strategies = %d, want 3", n)
	}
}

func TestResolveOrCreateGameFirstWriteWins(t *testing.T) {
	e, db := newTestEngine(t)
	ctx := context.Background()

	g1, created, err := e.ResolveOrCreateGame(ctx, GameInput{Title: "Sekiro", Platform: "PC"})
	if err != nil {
		t.Fatalf("first resolve: %v", err)
	}
	if !created {
		t.Fatal("first resolve should create")
	}

	// Conflicting metadata on the second call is discarded.
	g2, created, err := e.ResolveOrCreateGame(ctx, GameInput{Title: "Sekiro", Platform: "PS4", Description: "different"})
	if err != nil {
		t.Fatalf("second resolve: %v", err)
	}
	if created {
		t.Fatal("second resolve must not create")
	}
	if g2.ID != g1.ID {
		t.Errorf("resolved id = %s, want %s", g2.ID, g1.ID)
	}
	if g2.Platform != "PC" || g2.Description != "" {
		t.Errorf("stored fields changed: platform=%q description=%q", g2.Platform, g2.Description)
	}
	if n := countRows(t, db, "games"); n != 1 {
		t.Errorf("games = %d, want 1", n)
	}
}

func TestResolveOrCreateBossScopedToGame(t *testing.T) {
	e, db := newTestEngine(t)
	ctx := context.Background()

	g1, _, err := e.ResolveOrCreateGame(ctx, GameInput{Title: "Dark Souls"})
	if err != nil {
		t.Fatal(err)
	}
	g2, _, err := e.ResolveOrCreateGame(ctx, GameInput{Title: "Dark Souls III"})
	if err != nil {
		t.Fatal(err)
	}

	b1, created, err := e.ResolveOrCreateBoss(ctx, g1.ID, BossInput{Name: "Gwyn"})
	if err != nil || !created {
		t.Fatalf("create boss: created=%v err=%v", created, err)
	}

	// Same name under another game is a different boss.
	b2, created, err := e.ResolveOrCreateBoss(ctx, g2.ID, BossInput{Name: "Gwyn"})
	if err != nil || !created {
		t.Fatalf("create boss in second game: created=%v err=%v", created, err)
	}
	if b1.ID == b2.ID {
		t.Error("bosses in different games must be distinct")
	}

	// Same (game, name) resolves to the existing boss.
	b3, created, err := e.ResolveOrCreateBoss(ctx, g1.ID, BossInput{Name: "Gwyn", Difficulty: "Legendary"})
	if err != nil {
		t.Fatal(err)
	}
	if created {
		t.Error("duplicate (game, name) must not create")
	}
	if b3.ID != b1.ID {
		t.Errorf("resolved boss = %s, want %s", b3.ID, b1.ID)
	}
	if b3.Difficulty != "" {
		t.Errorf("stored difficulty changed to %q", b3.Difficulty)
	}

	if n := countRows(t, db, "bosses"); n != 2 {
		t.Errorf("bosses = %d, want 2", n)
	}
}

func TestStrategyDedupByVideo(t *testing.T) {
	e, db := newTestEngine(t)
	ctx := context.Background()

	in := StrategyInput{
		Steps:    []string{"step one"},
		VideoURL: "https://www.youtube.com/embed/abc123",
	}

	first, err := e.Ingest(ctx, GameInput{Title: "Sekiro"}, BossInput{Name: "Genichiro Ashina"}, &in)
	if err != nil {
		t.Fatalf("first ingest: %v", err)
	}
	second, err := e.Ingest(ctx, GameInput{Title: "Sekiro"}, BossInput{Name: "Genichiro Ashina"}, &in)
	if err != nil {
		t.Fatalf("second ingest: %v", err)
	}

	if second.Strategy.ID != first.Strategy.ID {
		t.Errorf("second ingest strategy = %s, want %s", second.Strategy.ID, first.Strategy.ID)
	}
	if n := countRows(t, db, "strategies"); n != 1 {
		t.Errorf("strategies = %d, want 1", n)
	}
}

func TestStrategyNoDedupWithoutVideo(t *testing.T) {
	e, db := newTestEngine(t)
	ctx := context.Background()

	in := StrategyInput{Title: "Melee route", Steps: []string{"hit it"}}

	first, err := e.Ingest(ctx, GameInput{Title: "Sekiro"}, BossInput{Name: "Guardian Ape"}, &in)
	if err != nil {
		t.Fatalf("first ingest: %v", err)
	}
	second, err := e.Ingest(ctx, GameInput{Title: "Sekiro"}, BossInput{Name: "Guardian Ape"}, &in)
	if err != nil {
		t.Fatalf("second ingest: %v", err)
	}

	if second.Strategy.ID == first.Strategy.ID {
		t.Error("strategies without a video must not dedupe")
	}
	if n := countRows(t, db, "strategies"); n != 2 {
		t.Errorf("strategies = %d, want 2", n)
	}
}

func TestIngestDefaultsStrategyTitle(t *testing.T) {
	e, _ := newTestEngine(t)
	ctx := context.Background()

	res, err := e.Ingest(ctx,
		GameInput{Title: "Bloodborne"},
		BossInput{Name: "Father Gascoigne"},
		&StrategyInput{VideoURL: "https://www.youtube.com/embed/xyz"},
	)
	if err != nil {
		t.Fatal(err)
	}
	if res.Strategy.Title != "How to beat Father Gascoigne" {
		t.Errorf("title = %q", res.Strategy.Title)
	}
}

func TestIngestWithoutStrategy(t *testing.T) {
	e, db := newTestEngine(t)

	res, err := e.Ingest(context.Background(), GameInput{Title: "Nioh"}, BossInput{Name: "Hino-enma"}, nil)
	if err != nil {
		t.Fatal(err)
	}
	if res.Strategy != nil {
		t.Error("strategy should be nil when no input was given")
	}
	if n := countRows(t, db, "strategies"); n != 0 {
		t.Errorf("strategies = %d, want 0", n)
	}
}
