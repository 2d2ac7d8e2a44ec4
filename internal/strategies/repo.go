package strategies

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"

	"bosshub/pkg/models"
)

type Repo struct {
	DB *sql.DB
}

func NewRepo(db *sql.DB) *Repo {
	return &Repo{DB: db}
}

const strategyColumns = `id, boss_id, title, steps, recommended_level, video_url, created_at`

func (r *Repo) Create(ctx context.Context, s models.Strategy) (*models.Strategy, error) {
	s.ID = uuid.NewString()

	if s.Steps == nil {
		s.Steps = []string{}
	}
	stepsJSON, err := json.Marshal(s.Steps)
	if err != nil {
		return nil, fmt.Errorf("marshal steps: %w", err)
	}

	_, err = r.DB.ExecContext(ctx, `
		INSERT INTO strategies (id, boss_id, title, steps, recommended_level, video_url)
		VALUES (?, ?, ?, ?, ?, ?)
	`, s.ID, s.BossID, s.Title, string(stepsJSON), nullable(s.RecommendedLevel), nullable(s.VideoURL))
	if err != nil {
		return nil, fmt.Errorf("insert strategy: %w", err)
	}
	return r.GetByID(ctx, s.ID)
}

func (r *Repo) GetByID(ctx context.Context, id string) (*models.Strategy, error) {
	row := r.DB.QueryRowContext(ctx, `
		SELECT `+strategyColumns+`
		FROM strategies
		WHERE id = ?
	`, id)

	s, err := scanStrategy(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get strategy by id: %w", err)
	}
	return s, nil
}

// GetByBossAndVideo resolves a strategy by the (boss_id, video_url) dedup
// key. Only meaningful for a non-empty videoURL; callers must not dedup
// strategies that have no video.
func (r *Repo) GetByBossAndVideo(ctx context.Context, bossID, videoURL string) (*models.Strategy, error) {
	row := r.DB.QueryRowContext(ctx, `
		SELECT `+strategyColumns+`
		FROM strategies
		WHERE boss_id = ? AND video_url = ?
	`, bossID, videoURL)

	s, err := scanStrategy(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get strategy by boss and video: %w", err)
	}
	return s, nil
}

func (r *Repo) ListByBoss(ctx context.Context, bossID string) ([]models.Strategy, error) {
	rows, err := r.DB.QueryContext(ctx, `
		SELECT `+strategyColumns+`
		FROM strategies
		WHERE boss_id = ?
		ORDER BY created_at ASC
	`, bossID)
	if err != nil {
		return nil, fmt.Errorf("list strategies: %w", err)
	}
	defer rows.Close()

	out := make([]models.Strategy, 0)
	for rows.Next() {
		s, err := scanStrategy(rows)
		if err != nil {
			return nil, fmt.Errorf("list scan: %w", err)
		}
		out = append(out, *s)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows err: %w", err)
	}
	return out, nil
}

func scanStrategy(sc interface{ Scan(dest ...any) error }) (*models.Strategy, error) {
	var (
		s         models.Strategy
		stepsJSON string
		level     sql.NullString
		videoURL  sql.NullString
		created   time.Time
	)
	if err := sc.Scan(&s.ID, &s.BossID, &s.Title, &stepsJSON, &level, &videoURL, &created); err != nil {
		return nil, err
	}
	s.RecommendedLevel = level.String
	s.VideoURL = videoURL.String
	s.CreatedAt = created

	s.Steps = []string{}
	_ = json.Unmarshal([]byte(stepsJSON), &s.Steps)
	return &s, nil
}

func nullable(s string) any {
	if s == "" {
		return nil
	}
	return s
}
