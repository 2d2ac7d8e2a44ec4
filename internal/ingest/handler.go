package ingest

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"bosshub/internal/refs"
	"bosshub/pkg/models"
)

type Handler struct {
	Engine *Engine
	Refs   *refs.Validator
}

func NewHandler(engine *Engine, validator *refs.Validator) *Handler {
	return &Handler{Engine: engine, Refs: validator}
}

func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.POST("/demo", h.demo)       // POST /api/ingest/demo
	rg.POST("/youtube", h.youtube) // POST /api/ingest/youtube
	rg.POST("/bulk", h.bulk)       // POST /api/ingest/bulk
}

func (h *Handler) demo(c *gin.Context) {
	game, err := h.Engine.SeedDemo(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "demo ingest failed"})
		return
	}
	c.JSON(http.StatusOK, game)
}

type youtubeReq struct {
	GameTitle       string `json:"game_title"`
	Platform        string `json:"platform"`
	CoverImage      string `json:"cover_image"`
	GameDescription string `json:"game_description"`

	BossName   string `json:"boss_name"`
	Image      string `json:"image"`
	Summary    string `json:"summary"`
	Difficulty string `json:"difficulty"`

	StrategyTitle    string   `json:"strategy_title"`
	Steps            []string `json:"steps"`
	RecommendedLevel string   `json:"recommended_level"`
	VideoURL         string   `json:"video_url"`
}

// youtube ingests one video into the catalog: resolve-or-create the game and
// boss, then dedupe the strategy on (boss_id, video_url). Returns the
// resulting or pre-existing strategy.
func (h *Handler) youtube(c *gin.Context) {
	var req youtubeReq
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid json"})
		return
	}

	req.GameTitle = strings.TrimSpace(req.GameTitle)
	req.BossName = strings.TrimSpace(req.BossName)
	if req.GameTitle == "" || req.BossName == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "game_title and boss_name required"})
		return
	}
	if req.VideoURL == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "video_url required"})
		return
	}

	res, err := h.Engine.Ingest(c.Request.Context(),
		GameInput{
			Title:       req.GameTitle,
			Platform:    req.Platform,
			CoverImage:  req.CoverImage,
			Description: req.GameDescription,
		},
		BossInput{
			Name:       req.BossName,
			Image:      req.Image,
			Summary:    req.Summary,
			Difficulty: req.Difficulty,
		},
		&StrategyInput{
			Title:            req.StrategyTitle,
			Steps:            req.Steps,
			RecommendedLevel: req.RecommendedLevel,
			VideoURL:         req.VideoURL,
		},
	)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "ingest failed"})
		return
	}

	c.JSON(http.StatusOK, res.Strategy)
}

type bulkStrategyReq struct {
	BossID           string   `json:"boss_id"`
	Title            string   `json:"title"`
	Steps            []string `json:"steps"`
	RecommendedLevel string   `json:"recommended_level"`
	VideoURL         string   `json:"video_url"`
}

type bulkBossReq struct {
	Name       string            `json:"name"`
	Image      string            `json:"image"`
	Summary    string            `json:"summary"`
	Difficulty string            `json:"difficulty"`
	Strategies []bulkStrategyReq `json:"strategies"`
}

type bulkReq struct {
	Game   gameReq       `json:"game"`
	Bosses []bulkBossReq `json:"bosses"`
}

type gameReq struct {
	Title       string `json:"title"`
	Platform    string `json:"platform"`
	CoverImage  string `json:"cover_image"`
	Description string `json:"description"`
}

// bulk ingests one game with N bosses, each carrying M strategies.
// Per-strategy dedup applies independently. A strategy that declares its own
// boss_id is honored when the id validates; a malformed or unknown boss_id
// is silently relinked to the boss resolved in this request instead of
// failing the batch.
func (h *Handler) bulk(c *gin.Context) {
	var req bulkReq
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid json"})
		return
	}

	req.Game.Title = strings.TrimSpace(req.Game.Title)
	if req.Game.Title == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "game.title required"})
		return
	}

	ctx := c.Request.Context()

	game, _, err := h.Engine.ResolveOrCreateGame(ctx, GameInput{
		Title:       req.Game.Title,
		Platform:    req.Game.Platform,
		CoverImage:  req.Game.CoverImage,
		Description: req.Game.Description,
	})
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "ingest failed"})
		return
	}

	resolved := make([]models.Boss, 0, len(req.Bosses))
	for _, bReq := range req.Bosses {
		name := strings.TrimSpace(bReq.Name)
		if name == "" {
			c.JSON(http.StatusBadRequest, gin.H{"error": "boss name required"})
			return
		}

		boss, _, err := h.Engine.ResolveOrCreateBoss(ctx, game.ID, BossInput{
			Name:       name,
			Image:      bReq.Image,
			Summary:    bReq.Summary,
			Difficulty: bReq.Difficulty,
		})
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "ingest failed"})
			return
		}

		for _, sReq := range bReq.Strategies {
			bossID := boss.ID
			if sReq.BossID != "" {
				validated, err := h.Refs.Validate(ctx, "bosses", sReq.BossID)
				switch {
				case err == nil:
					bossID = validated
				case errors.Is(err, refs.ErrMalformedID), errors.Is(err, refs.ErrNotFound):
					// fall back to the boss resolved in this request
				default:
					c.JSON(http.StatusInternalServerError, gin.H{"error": "ingest failed"})
					return
				}
			}

			title := strings.TrimSpace(sReq.Title)
			if title == "" {
				title = "How to beat " + boss.Name
			}

			if _, _, err := h.Engine.CreateStrategyIfAbsent(ctx, bossID, StrategyInput{
				Title:            title,
				Steps:            sReq.Steps,
				RecommendedLevel: sReq.RecommendedLevel,
				VideoURL:         sReq.VideoURL,
			}); err != nil {
				c.JSON(http.StatusInternalServerError, gin.H{"error": "ingest failed"})
				return
			}
		}

		resolved = append(resolved, *boss)
	}

	c.JSON(http.StatusOK, gin.H{
		"game":   game,
		"bosses": resolved,
	})
}
