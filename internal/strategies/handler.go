package strategies

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"bosshub/internal/refs"
	"bosshub/pkg/models"
)

type Handler struct {
	Repo *Repo
	Refs *refs.Validator
}

func NewHandler(repo *Repo, validator *refs.Validator) *Handler {
	return &Handler{Repo: repo, Refs: validator}
}

func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.POST("", h.create) // POST /api/strategies
	rg.GET("", h.list)    // GET  /api/strategies?boss_id=
}

type createReq struct {
	BossID           string   `json:"boss_id"`
	Title            string   `json:"title"`
	Steps            []string `json:"steps"`
	RecommendedLevel string   `json:"recommended_level"`
	VideoURL         string   `json:"video_url"`
}

func (h *Handler) create(c *gin.Context) {
	var req createReq
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid json"})
		return
	}

	req.Title = strings.TrimSpace(req.Title)
	if req.Title == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "title required"})
		return
	}

	bossID, err := h.Refs.Validate(c.Request.Context(), "bosses", req.BossID)
	if err != nil {
		switch {
		case errors.Is(err, refs.ErrMalformedID):
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid boss_id"})
		case errors.Is(err, refs.ErrNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": "boss not found"})
		case errors.Is(err, refs.ErrStoreUnavailable):
			c.JSON(http.StatusInternalServerError, gin.H{"error": "database not configured"})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"error": "validation failed"})
		}
		return
	}

	s, err := h.Repo.Create(c.Request.Context(), models.Strategy{
		BossID:           bossID,
		Title:            req.Title,
		Steps:            req.Steps,
		RecommendedLevel: req.RecommendedLevel,
		VideoURL:         req.VideoURL,
	})
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "create failed"})
		return
	}

	c.JSON(http.StatusCreated, s)
}

func (h *Handler) list(c *gin.Context) {
	// Listing only requires a well-formed id; an unknown boss yields an
	// empty list, not a 404.
	bossID, err := uuid.Parse(c.Query("boss_id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid boss_id"})
		return
	}

	items, err := h.Repo.ListByBoss(c.Request.Context(), bossID.String())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "list failed"})
		return
	}
	c.JSON(http.StatusOK, items)
}
