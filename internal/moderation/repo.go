package moderation

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

const queueColumns = `id, source, game_title, boss_name, strategy_title, steps,
	recommended_level, video_url, image, summary, difficulty, status, created_at`

// Submit stages a candidate item in pending state. The dedup key is
// (source, game_title, boss_name) plus video_url when the submission carries
// one; a match in ANY status (rejected included) returns the existing item
// unchanged and inserts nothing.
func (r *Repo) Submit(ctx context.Context, item models.QueueItem) (*models.QueueItem, bool, error) {
	existing, err := r.FindByKey(ctx, item.Source, item.GameTitle, item.BossName, item.VideoURL)
	if err != nil {
		return nil, false, err
	}
	if existing != nil {
		return existing, false, nil
	}

	item.ID = uuid.NewString()
	item.Status = models.StatusPending

	if item.Steps == nil {
		item.Steps = []string{}
	}
	stepsJSON, err := json.Marshal(item.Steps)
	if err != nil {
		return nil, false, fmt.Errorf("marshal steps: %w", err)
	}

	_, err = r.DB.ExecContext(ctx, `
		INSERT INTO ingest_queue (id, source, game_title, boss_name, strategy_title,
			steps, recommended_level, video_url, image, summary, difficulty, status)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`, item.ID, item.Source, item.GameTitle, item.BossName, nullable(item.StrategyTitle),
		string(stepsJSON), nullable(item.RecommendedLevel), nullable(item.VideoURL),
		nullable(item.Image), nullable(item.Summary), nullable(item.Difficulty), item.Status)
	if err != nil {
		return nil, false, fmt.Errorf("insert queue item: %w", err)
	}

	created, err := r.GetByID(ctx, item.ID)
	if err != nil {
		return nil, false, err
	}
	return created, true, nil
}

// FindByKey matches on the submission dedup key. An empty videoURL narrows
// the filter to the three base fields only, mirroring a filter built from
// the fields present on the submission.
func (r *Repo) FindByKey(ctx context.Context, source, gameTitle, bossName, videoURL string) (*models.QueueItem, error) {
	query := `
		SELECT ` + queueColumns + `
		FROM ingest_queue
		WHERE source = ? AND game_title = ? AND boss_name = ?
	`
	args := []any{source, gameTitle, bossName}
	if videoURL != "" {
		query += ` AND video_url = ?`
		args = append(args, videoURL)
	}
	query += ` LIMIT 1`

	row := r.DB.QueryRowContext(ctx, query, args...)
	item, err := scanQueueItem(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find queue item by key: %w", err)
	}
	return item, nil
}

func (r *Repo) GetByID(ctx context.Context, id string) (*models.QueueItem, error) {
	row := r.DB.QueryRowContext(ctx, `
		SELECT `+queueColumns+`
		FROM ingest_queue
		WHERE id = ?
	`, id)

	item, err := scanQueueItem(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get queue item: %w", err)
	}
	return item, nil
}

func (r *Repo) ListByStatus(ctx context.Context, status string) ([]models.QueueItem, error) {
	rows, err := r.DB.QueryContext(ctx, `
		SELECT `+queueColumns+`
		FROM ingest_queue
		WHERE status = ?
		ORDER BY created_at ASC
	`, status)
	if err != nil {
		return nil, fmt.Errorf("list queue: %w", err)
	}
	defer rows.Close()

	out := make([]models.QueueItem, 0)
	for rows.Next() {
		item, err := scanQueueItem(rows)
		if err != nil {
			return nil, fmt.Errorf("list scan: %w", err)
		}
		out = append(out, *item)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows err: %w", err)
	}
	return out, nil
}

// SetStatus overwrites the item's status unconditionally; state-machine
// rules (and their accepted loopholes) live in the handler.
func (r *Repo) SetStatus(ctx context.Context, id, status string) error {
	res, err := r.DB.ExecContext(ctx, `
		UPDATE ingest_queue
		SET status = ?
		WHERE id = ?
	`, status, id)
	if err != nil {
		return fmt.Errorf("set queue status: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("set queue status rows: %w", err)
	}
	if affected == 0 {
		return fmt.Errorf("set queue status: item not found")
	}
	return nil
}

func scanQueueItem(s interface{ Scan(dest ...any) error }) (*models.QueueItem, error) {
	var (
		item          models.QueueItem
		strategyTitle sql.NullString
		stepsJSON     string
		level         sql.NullString
		videoURL      sql.NullString
		image         sql.NullString
		summary       sql.NullString
		difficulty    sql.NullString
		created       time.Time
	)
	if err := s.Scan(&item.ID, &item.Source, &item.GameTitle, &item.BossName,
		&strategyTitle, &stepsJSON, &level, &videoURL, &image, &summary,
		&difficulty, &item.Status, &created); err != nil {
		return nil, err
	}
	item.StrategyTitle = strategyTitle.String
	item.RecommendedLevel = level.String
	item.VideoURL = videoURL.String
	item.Image = image.String
	item.Summary = summary.String
	item.Difficulty = difficulty.String
	item.CreatedAt = created

	item.Steps = []string{}
	_ = json.Unmarshal([]byte(stepsJSON), &item.Steps)
	return &item, nil
}

func nullable(s string) any {
	if s == "" {
		return nil
	}
	return s
}
