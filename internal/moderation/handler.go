package moderation

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"bosshub/internal/events"
	"bosshub/internal/ingest"
	"bosshub/internal/metrics"
	"bosshub/internal/refs"
	"bosshub/pkg/models"
)

type Handler struct {
	Repo   *Repo
	Engine *ingest.Engine
	Refs   *refs.Validator
	Hub    *events.Hub // optional
}

func NewHandler(repo *Repo, engine *ingest.Engine, validator *refs.Validator, hub *events.Hub) *Handler {
	return &Handler{Repo: repo, Engine: engine, Refs: validator, Hub: hub}
}

func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.POST("/submit", h.submit)       // POST /api/mod/submit
	rg.GET("/queue", h.queue)          // GET  /api/mod/queue?status=
	rg.POST("/approve/:id", h.approve) // POST /api/mod/approve/:id
	rg.POST("/reject/:id", h.reject)   // POST /api/mod/reject/:id
}

// RegisterIngestRoutes hangs the scheduled batch endpoint off the ingest
// group; it stages queue items rather than writing to the catalog, so it
// lives here with the rest of the queue logic.
func (h *Handler) RegisterIngestRoutes(rg *gin.RouterGroup) {
	rg.POST("/scheduled-run", h.scheduledRun) // POST /api/ingest/scheduled-run
}

type submitReq struct {
	Source           string   `json:"source"`
	GameTitle        string   `json:"game_title"`
	BossName         string   `json:"boss_name"`
	StrategyTitle    string   `json:"strategy_title"`
	Steps            []string `json:"steps"`
	RecommendedLevel string   `json:"recommended_level"`
	VideoURL         string   `json:"video_url"`
	Image            string   `json:"image"`
	Summary          string   `json:"summary"`
	Difficulty       string   `json:"difficulty"`
}

func (h *Handler) submit(c *gin.Context) {
	var req submitReq
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid json"})
		return
	}

	req.Source = strings.TrimSpace(req.Source)
	req.GameTitle = strings.TrimSpace(req.GameTitle)
	req.BossName = strings.TrimSpace(req.BossName)
	if req.Source == "" || req.GameTitle == "" || req.BossName == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "source, game_title and boss_name required"})
		return
	}

	item, created, err := h.Repo.Submit(c.Request.Context(), models.QueueItem{
		Source:           req.Source,
		GameTitle:        req.GameTitle,
		BossName:         req.BossName,
		StrategyTitle:    req.StrategyTitle,
		Steps:            req.Steps,
		RecommendedLevel: req.RecommendedLevel,
		VideoURL:         req.VideoURL,
		Image:            req.Image,
		Summary:          req.Summary,
		Difficulty:       req.Difficulty,
	})
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "submit failed"})
		return
	}

	if created {
		metrics.QueueSubmitted.Inc()
		h.emit(events.Event{Type: events.TypeQueueSubmitted, ID: item.ID, Title: item.BossName, Source: item.Source, At: item.CreatedAt})
		c.JSON(http.StatusCreated, item)
		return
	}

	metrics.QueueDedupHits.Inc()
	c.JSON(http.StatusOK, item)
}

func (h *Handler) queue(c *gin.Context) {
	status := c.DefaultQuery("status", models.StatusPending)
	switch status {
	case models.StatusPending, models.StatusApproved, models.StatusRejected:
	default:
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid status"})
		return
	}

	items, err := h.Repo.ListByStatus(c.Request.Context(), status)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "list failed"})
		return
	}
	c.JSON(http.StatusOK, items)
}

// approve runs the ingestion engine over the item's fields and then marks
// the item approved unconditionally. Re-approving re-runs ingestion, which
// is idempotent, so the observable end state is stable.
func (h *Handler) approve(c *gin.Context) {
	item, ok := h.lookup(c)
	if !ok {
		return
	}

	ctx := c.Request.Context()

	var strategy *ingest.StrategyInput
	if item.VideoURL != "" {
		strategy = &ingest.StrategyInput{
			Title:            item.StrategyTitle,
			Steps:            item.Steps,
			RecommendedLevel: item.RecommendedLevel,
			VideoURL:         item.VideoURL,
		}
	}

	_, err := h.Engine.Ingest(ctx,
		ingest.GameInput{Title: item.GameTitle},
		ingest.BossInput{
			Name:       item.BossName,
			Image:      item.Image,
			Summary:    item.Summary,
			Difficulty: item.Difficulty,
		},
		strategy,
	)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "ingest failed"})
		return
	}

	if err := h.Repo.SetStatus(ctx, item.ID, models.StatusApproved); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "approve failed"})
		return
	}

	updated, err := h.Repo.GetByID(ctx, item.ID)
	if err != nil || updated == nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "approve failed"})
		return
	}

	metrics.QueueApproved.Inc()
	h.emit(events.New(events.TypeQueueApproved, updated.ID, updated.BossName))
	c.JSON(http.StatusOK, updated)
}

// reject sets the terminal rejected status unconditionally, even on an item
// that was already approved or rejected. Already-ingested documents are not
// undone.
func (h *Handler) reject(c *gin.Context) {
	item, ok := h.lookup(c)
	if !ok {
		return
	}

	ctx := c.Request.Context()
	if err := h.Repo.SetStatus(ctx, item.ID, models.StatusRejected); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "reject failed"})
		return
	}

	updated, err := h.Repo.GetByID(ctx, item.ID)
	if err != nil || updated == nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "reject failed"})
		return
	}

	metrics.QueueRejected.Inc()
	h.emit(events.New(events.TypeQueueRejected, updated.ID, updated.BossName))
	c.JSON(http.StatusOK, updated)
}

// Fixed batch staged by the scheduled-run endpoint. Submission dedup makes
// repeated runs a no-op.
var scheduledBatch = []models.QueueItem{
	{
		Source:           "youtube",
		GameTitle:        "Sekiro: Shadows Die Twice",
		BossName:         "Genichiro Ashina",
		StrategyTitle:    "Parry-heavy counter guide",
		Steps:            []string{"Stay aggressive to build posture damage.", "Deflect the combo ender instead of dodging.", "Jump and kick the sweep in phase 2."},
		RecommendedLevel: "Attack Power 3+",
		VideoURL:         "https://www.youtube.com/embed/XjDJ97Zl0Y4",
		Difficulty:       "Hard",
	},
	{
		Source:           "youtube",
		GameTitle:        "Sekiro: Shadows Die Twice",
		BossName:         "Guardian Ape",
		StrategyTitle:    "Headless phase survival",
		Steps:            []string{"Bait the slam then punish the recovery.", "Use firecrackers to interrupt grabs.", "In phase 2, run from the scream and flank."},
		RecommendedLevel: "Attack Power 4+",
		VideoURL:         "https://www.youtube.com/embed/4N1iwQxiHrs",
		Difficulty:       "Hard",
	},
	{
		Source:     "wiki",
		GameTitle:  "Dark Souls III",
		BossName:   "Pontiff Sulyvahn",
		Steps:      []string{"Stay close to his left hip.", "Roll into the delayed swings.", "Kill the clone fast in phase 2."},
		Summary:    "Dual-blade duel with a mid-fight clone.",
		Difficulty: "Hard",
	},
}

func (h *Handler) scheduledRun(c *gin.Context) {
	ctx := c.Request.Context()

	out := make([]models.QueueItem, 0, len(scheduledBatch))
	for _, candidate := range scheduledBatch {
		item, created, err := h.Repo.Submit(ctx, candidate)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "scheduled run failed"})
			return
		}
		if created {
			metrics.QueueSubmitted.Inc()
			h.emit(events.Event{Type: events.TypeQueueSubmitted, ID: item.ID, Title: item.BossName, Source: item.Source, At: item.CreatedAt})
		} else {
			metrics.QueueDedupHits.Inc()
		}
		out = append(out, *item)
	}

	c.JSON(http.StatusOK, out)
}

// lookup validates the path id and loads the queue item, writing the error
// response itself when validation fails.
func (h *Handler) lookup(c *gin.Context) (*models.QueueItem, bool) {
	id, err := h.Refs.Validate(c.Request.Context(), "ingest_queue", c.Param("id"))
	if err != nil {
		switch {
		case errors.Is(err, refs.ErrMalformedID):
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid item id"})
		case errors.Is(err, refs.ErrNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": "queue item not found"})
		case errors.Is(err, refs.ErrStoreUnavailable):
			c.JSON(http.StatusInternalServerError, gin.H{"error": "database not configured"})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"error": "lookup failed"})
		}
		return nil, false
	}

	item, err := h.Repo.GetByID(c.Request.Context(), id)
	if err != nil || item == nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "lookup failed"})
		return nil, false
	}
	return item, true
}

func (h *Handler) emit(ev events.Event) {
	if h.Hub != nil {
		h.Hub.Broadcast(ev)
	}
}
