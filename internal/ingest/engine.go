package ingest

import (
	"context"
	"fmt"

	"bosshub/internal/bosses"
	"bosshub/internal/events"
	"bosshub/internal/games"
	"bosshub/internal/metrics"
	"bosshub/internal/strategies"
	"bosshub/pkg/models"
)

// Engine idempotently materializes a (Game, Boss, Strategy) triple from
// loosely structured input that references entities by title/name instead of
// id. All entry points (direct video ingest, bulk ingest, demo seed, queue
// approval) funnel through it.
//
// Resolve-or-create is first-write-wins: when the natural key already
// matches a stored record, the supplied fields are ignored, even if they
// differ. The lookups are plain check-then-act reads; concurrent ingestion
// of the same new key can race and produce duplicates (accepted, see
// DESIGN.md).
type Engine struct {
	Games      *games.Repo
	Bosses     *bosses.Repo
	Strategies *strategies.Repo
	Hub        *events.Hub // optional; nil disables the feed
}

func NewEngine(gameRepo *games.Repo, bossRepo *bosses.Repo, strategyRepo *strategies.Repo, hub *events.Hub) *Engine {
	return &Engine{Games: gameRepo, Bosses: bossRepo, Strategies: strategyRepo, Hub: hub}
}

type GameInput struct {
	Title       string
	Platform    string
	CoverImage  string
	Description string
}

type BossInput struct {
	Name       string
	Image      string
	Summary    string
	Difficulty string
}

type StrategyInput struct {
	Title            string
	Steps            []string
	RecommendedLevel string
	VideoURL         string
}

// Result of a composite ingestion. Strategy is nil when no strategy input
// was supplied.
type Result struct {
	Game     *models.Game     `json:"game"`
	Boss     *models.Boss     `json:"boss"`
	Strategy *models.Strategy `json:"strategy,omitempty"`
}

// ResolveOrCreateGame looks a game up by exact title and creates it if
// absent. The bool reports whether a new record was created.
func (e *Engine) ResolveOrCreateGame(ctx context.Context, in GameInput) (*models.Game, bool, error) {
	g, err := e.Games.GetByTitle(ctx, in.Title)
	if err != nil {
		return nil, false, fmt.Errorf("resolve game: %w", err)
	}
	if g != nil {
		metrics.DedupHits.WithLabelValues("game").Inc()
		return g, false, nil
	}

	g, err = e.Games.Create(ctx, models.Game{
		Title:       in.Title,
		Platform:    in.Platform,
		CoverImage:  in.CoverImage,
		Description: in.Description,
	})
	if err != nil {
		return nil, false, fmt.Errorf("create game: %w", err)
	}

	metrics.GamesCreated.Inc()
	e.emit(events.New(events.TypeGameCreated, g.ID, g.Title))
	return g, true, nil
}

// ResolveOrCreateBoss looks a boss up by its (game_id, name) key and creates
// it if absent.
func (e *Engine) ResolveOrCreateBoss(ctx context.Context, gameID string, in BossInput) (*models.Boss, bool, error) {
	b, err := e.Bosses.GetByGameAndName(ctx, gameID, in.Name)
	if err != nil {
		return nil, false, fmt.Errorf("resolve boss: %w", err)
	}
	if b != nil {
		metrics.DedupHits.WithLabelValues("boss").Inc()
		return b, false, nil
	}

	b, err = e.Bosses.Create(ctx, models.Boss{
		GameID:     gameID,
		Name:       in.Name,
		Image:      in.Image,
		Summary:    in.Summary,
		Difficulty: in.Difficulty,
	})
	if err != nil {
		return nil, false, fmt.Errorf("create boss: %w", err)
	}

	metrics.BossesCreated.Inc()
	e.emit(events.New(events.TypeBossCreated, b.ID, b.Name))
	return b, true, nil
}

// CreateStrategyIfAbsent dedupes on (boss_id, video_url) when a video URL is
// present; strategies without a video are always inserted.
func (e *Engine) CreateStrategyIfAbsent(ctx context.Context, bossID string, in StrategyInput) (*models.Strategy, bool, error) {
	if in.VideoURL != "" {
		s, err := e.Strategies.GetByBossAndVideo(ctx, bossID, in.VideoURL)
		if err != nil {
			return nil, false, fmt.Errorf("resolve strategy: %w", err)
		}
		if s != nil {
			metrics.DedupHits.WithLabelValues("strategy").Inc()
			return s, false, nil
		}
	}

	s, err := e.Strategies.Create(ctx, models.Strategy{
		BossID:           bossID,
		Title:            in.Title,
		Steps:            in.Steps,
		RecommendedLevel: in.RecommendedLevel,
		VideoURL:         in.VideoURL,
	})
	if err != nil {
		return nil, false, fmt.Errorf("create strategy: %w", err)
	}

	metrics.StrategiesCreated.Inc()
	e.emit(events.New(events.TypeStrategyCreated, s.ID, s.Title))
	return s, true, nil
}

// Ingest runs the three resolve/create steps in sequence. It is not atomic
// across the three rows: a crash after the game step leaves a game without a
// boss, which the store tolerates. A nil strategy input skips the strategy
// step.
func (e *Engine) Ingest(ctx context.Context, g GameInput, b BossInput, s *StrategyInput) (Result, error) {
	game, _, err := e.ResolveOrCreateGame(ctx, g)
	if err != nil {
		return Result{}, err
	}

	boss, _, err := e.ResolveOrCreateBoss(ctx, game.ID, b)
	if err != nil {
		return Result{Game: game}, err
	}

	res := Result{Game: game, Boss: boss}
	if s == nil {
		return res, nil
	}

	in := *s
	if in.Title == "" {
		in.Title = fmt.Sprintf("How to beat %s", boss.Name)
	}

	strategy, _, err := e.CreateStrategyIfAbsent(ctx, boss.ID, in)
	if err != nil {
		return res, err
	}
	res.Strategy = strategy
	return res, nil
}

func (e *Engine) emit(ev events.Event) {
	if e.Hub != nil {
		e.Hub.Broadcast(ev)
	}
}
