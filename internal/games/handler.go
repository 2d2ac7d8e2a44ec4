package games

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"bosshub/pkg/models"
)

type Handler struct {
	Repo *Repo
}

func NewHandler(repo *Repo) *Handler {
	return &Handler{Repo: repo}
}

func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.POST("", h.create) // POST /api/games
	rg.GET("", h.list)    // GET  /api/games
}

type createReq struct {
	Title       string `json:"title"`
	Platform    string `json:"platform"`
	CoverImage  string `json:"cover_image"`
	Description string `json:"description"`
}

func (h *Handler) create(c *gin.Context) {
	var req createReq
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid json"})
		return
	}

	req.Title = strings.TrimSpace(req.Title)
	if len(req.Title) < 1 || len(req.Title) > 120 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "title must be 1-120 chars"})
		return
	}
	if len(req.Platform) > 120 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "platform must be at most 120 chars"})
		return
	}
	if len(req.Description) > 2000 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "description must be at most 2000 chars"})
		return
	}

	g, err := h.Repo.Create(c.Request.Context(), models.Game{
		Title:       req.Title,
		Platform:    req.Platform,
		CoverImage:  req.CoverImage,
		Description: req.Description,
	})
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "create failed"})
		return
	}

	c.JSON(http.StatusCreated, g)
}

func (h *Handler) list(c *gin.Context) {
	items, err := h.Repo.List(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "list failed"})
		return
	}
	c.JSON(http.StatusOK, items)
}
