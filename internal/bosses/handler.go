package bosses

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"bosshub/internal/refs"
	"bosshub/internal/strategies"
	"bosshub/pkg/models"
)

type Handler struct {
	Repo       *Repo
	Strategies *strategies.Repo
	Refs       *refs.Validator
}

func NewHandler(repo *Repo, strategyRepo *strategies.Repo, validator *refs.Validator) *Handler {
	return &Handler{Repo: repo, Strategies: strategyRepo, Refs: validator}
}

func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.POST("", h.create)     // POST /api/bosses
	rg.GET("", h.list)        // GET  /api/bosses
	rg.GET("/:id", h.getByID) // GET  /api/bosses/:id
}

type createReq struct {
	GameID     string `json:"game_id"`
	Name       string `json:"name"`
	Image      string `json:"image"`
	Summary    string `json:"summary"`
	Difficulty string `json:"difficulty"`
}

func (h *Handler) create(c *gin.Context) {
	var req createReq
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid json"})
		return
	}

	req.Name = strings.TrimSpace(req.Name)
	if len(req.Name) < 1 || len(req.Name) > 160 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "name must be 1-160 chars"})
		return
	}
	if len(req.Summary) > 2000 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "summary must be at most 2000 chars"})
		return
	}
	if len(req.Difficulty) > 50 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "difficulty must be at most 50 chars"})
		return
	}

	gameID, err := h.Refs.Validate(c.Request.Context(), "games", req.GameID)
	if err != nil {
		switch {
		case errors.Is(err, refs.ErrMalformedID):
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid game_id"})
		case errors.Is(err, refs.ErrNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": "game not found"})
		case errors.Is(err, refs.ErrStoreUnavailable):
			c.JSON(http.StatusInternalServerError, gin.H{"error": "database not configured"})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"error": "validation failed"})
		}
		return
	}

	b, err := h.Repo.Create(c.Request.Context(), models.Boss{
		GameID:     gameID,
		Name:       req.Name,
		Image:      req.Image,
		Summary:    req.Summary,
		Difficulty: req.Difficulty,
	})
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "create failed"})
		return
	}

	c.JSON(http.StatusCreated, b)
}

func (h *Handler) list(c *gin.Context) {
	q := ListQuery{
		Q:     c.Query("q"),
		Skip:  parseInt(c.Query("skip"), 0),
		Limit: parseInt(c.Query("limit"), 20),
	}

	if raw := c.Query("game_id"); raw != "" {
		gameID, err := h.Refs.Validate(c.Request.Context(), "games", raw)
		if err != nil {
			switch {
			case errors.Is(err, refs.ErrMalformedID):
				c.JSON(http.StatusBadRequest, gin.H{"error": "invalid game_id"})
			case errors.Is(err, refs.ErrNotFound):
				c.JSON(http.StatusNotFound, gin.H{"error": "game not found"})
			default:
				c.JSON(http.StatusInternalServerError, gin.H{"error": "validation failed"})
			}
			return
		}
		q.GameID = gameID
	}

	total, err := h.Repo.Count(c.Request.Context(), q)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "count failed"})
		return
	}

	items, err := h.Repo.List(c.Request.Context(), q)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "list failed"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"total": total,
		"skip":  q.Skip,
		"limit": q.Limit,
		"items": items,
	})
}

func (h *Handler) getByID(c *gin.Context) {
	id, err := h.Refs.Validate(c.Request.Context(), "bosses", c.Param("id"))
	if err != nil {
		switch {
		case errors.Is(err, refs.ErrMalformedID):
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid boss id"})
		case errors.Is(err, refs.ErrNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": "boss not found"})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"error": "get failed"})
		}
		return
	}

	b, err := h.Repo.GetByID(c.Request.Context(), id)
	if err != nil || b == nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "get failed"})
		return
	}

	strats, err := h.Strategies.ListByBoss(c.Request.Context(), id)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "list strategies failed"})
		return
	}

	c.JSON(http.StatusOK, models.BossDetail{Boss: *b, Strategies: strats})
}

func parseInt(s string, def int) int {
	s = strings.TrimSpace(s)
	if s == "" {
		return def
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		return def
	}
	return n
}
