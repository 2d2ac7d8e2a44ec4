package ingest

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"

	"bosshub/internal/bosses"
	"bosshub/internal/refs"
	"bosshub/pkg/models"
)

func newTestRouter(t *testing.T) (*gin.Engine, *Engine) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	e, db := newTestEngine(t)
	handler := NewHandler(e, refs.NewValidator(db))

	router := gin.New()
	handler.RegisterRoutes(router.Group("/api/ingest"))
	return router, e
}

func postJSON(t *testing.T, router *gin.Engine, path string, payload any) *httptest.ResponseRecorder {
	t.Helper()
	var body *bytes.Buffer
	if payload != nil {
		b, err := json.Marshal(payload)
		if err != nil {
			t.Fatalf("marshal payload: %v", err)
		}
		body = bytes.NewBuffer(b)
	} else {
		body = bytes.NewBuffer(nil)
	}
	req := httptest.NewRequest(http.MethodPost, path, body)
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func TestYoutubeIngestDedupes(t *testing.T) {
	router, _ := newTestRouter(t)

	payload := map[string]any{
		"game_title": "Sekiro",
		"boss_name":  "Genichiro Ashina",
		"video_url":  "https://www.youtube.com/embed/v1",
		"steps":      []string{"deflect"},
	}

	w1 := postJSON(t, router, "/api/ingest/youtube", payload)
	if w1.Code != http.StatusOK {
		t.Fatalf("first ingest status = %d (body %s)", w1.Code, w1.Body.String())
	}
	var first models.Strategy
	if err := json.Unmarshal(w1.Body.Bytes(), &first); err != nil {
		t.Fatalf("decode: %v", err)
	}

	w2 := postJSON(t, router, "/api/ingest/youtube", payload)
	var second models.Strategy
	if err := json.Unmarshal(w2.Body.Bytes(), &second); err != nil {
		t.Fatalf("decode: %v", err)
	}

	if second.ID != first.ID {
		t.Errorf("second ingest returned %s, want %s", second.ID, first.ID)
	}
}

func TestYoutubeIngestRequiresVideo(t *testing.T) {
	router, _ := newTestRouter(t)

	w := postJSON(t, router, "/api/ingest/youtube", map[string]any{
		"game_title": "Sekiro",
		"boss_name":  "Genichiro Ashina",
	})
	if w.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", w.Code)
	}
}

func TestBulkIngestRelinksBadBossID(t *testing.T) {
	router, e := newTestRouter(t)

	w := postJSON(t, router, "/api/ingest/bulk", map[string]any{
		"game": map[string]any{"title": "Elden Ring"},
		"bosses": []map[string]any{
			{
				"name": "Radahn",
				"strategies": []map[string]any{
					{
						// Malformed boss_id: must fall back to Radahn.
						"boss_id":   "garbage",
						"title":     "Summon everyone",
						"video_url": "https://www.youtube.com/embed/radahn1",
					},
					{
						// Well-formed but unknown: same fallback.
						"boss_id":   "c1f0de8e-26a5-4cf5-9eb7-3ec4f17b8f3a",
						"title":     "Horse strats",
						"video_url": "https://www.youtube.com/embed/radahn2",
					},
				},
			},
		},
	})
	if w.Code != http.StatusOK {
		t.Fatalf("bulk status = %d (body %s)", w.Code, w.Body.String())
	}

	var resp struct {
		Game   models.Game   `json:"game"`
		Bosses []models.Boss `json:"bosses"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(resp.Bosses) != 1 {
		t.Fatalf("bosses = %d, want 1", len(resp.Bosses))
	}

	strats, err := e.Strategies.ListByBoss(context.Background(), resp.Bosses[0].ID)
	if err != nil {
		t.Fatal(err)
	}
	if len(strats) != 2 {
		t.Errorf("strategies linked to resolved boss = %d, want 2", len(strats))
	}
}

func TestBulkIngestExistingGame(t *testing.T) {
	router, e := newTestRouter(t)
	ctx := context.Background()

	g, _, err := e.ResolveOrCreateGame(ctx, GameInput{Title: "Elden Ring", Platform: "PC"})
	if err != nil {
		t.Fatal(err)
	}

	w := postJSON(t, router, "/api/ingest/bulk", map[string]any{
		"game":   map[string]any{"title": "Elden Ring", "platform": "PS5"},
		"bosses": []map[string]any{{"name": "Morgott"}},
	})
	if w.Code != http.StatusOK {
		t.Fatalf("bulk status = %d", w.Code)
	}

	var resp struct {
		Game models.Game `json:"game"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if resp.Game.ID != g.ID {
		t.Errorf("bulk resolved game %s, want existing %s", resp.Game.ID, g.ID)
	}
	if resp.Game.Platform != "PC" {
		t.Errorf("platform = %q, want first-write PC", resp.Game.Platform)
	}
}

func TestDemoEndpointIdempotent(t *testing.T) {
	router, e := newTestRouter(t)

	w1 := postJSON(t, router, "/api/ingest/demo", nil)
	if w1.Code != http.StatusOK {
		t.Fatalf("demo status = %d", w1.Code)
	}
	w2 := postJSON(t, router, "/api/ingest/demo", nil)
	if w2.Code != http.StatusOK {
		t.Fatalf("second demo status = %d", w2.Code)
	}

	var g1, g2 models.Game
	if err := json.Unmarshal(w1.Body.Bytes(), &g1); err != nil {
		t.Fatal(err)
	}
	if err := json.Unmarshal(w2.Body.Bytes(), &g2); err != nil {
		t.Fatal(err)
	}
	if g1.ID != g2.ID {
		t.Errorf("demo returned different games: %s vs %s", g1.ID, g2.ID)
	}

	all, err := e.Bosses.List(context.Background(), bosses.ListQuery{Limit: 100})
	if err != nil {
		t.Fatal(err)
	}
	if len(all) != 3 {
		t.Errorf("bosses = %d, want 3", len(all))
	}
}
