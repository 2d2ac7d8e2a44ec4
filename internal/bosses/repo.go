package bosses

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"bosshub/pkg/models"
)

type Repo struct {
	DB *sql.DB
}

// ListQuery filters the boss listing. Q is a case-insensitive substring
// match on the boss name; Skip/Limit paginate.
type ListQuery struct {
	GameID string
	Q      string
	Skip   int
	Limit  int
}

func NewRepo(db *sql.DB) *Repo {
	return &Repo{DB: db}
}

const bossColumns = `id, game_id, name, image, summary, difficulty, created_at`

func (r *Repo) Create(ctx context.Context, b models.Boss) (*models.Boss, error) {
	b.ID = uuid.NewString()
	_, err := r.DB.ExecContext(ctx, `
		INSERT INTO bosses (id, game_id, name, image, summary, difficulty)
		VALUES (?, ?, ?, ?, ?, ?)
	`, b.ID, b.GameID, b.Name, nullable(b.Image), nullable(b.Summary), nullable(b.Difficulty))
	if err != nil {
		return nil, fmt.Errorf("insert boss: %w", err)
	}
	return r.GetByID(ctx, b.ID)
}

func (r *Repo) GetByID(ctx context.Context, id string) (*models.Boss, error) {
	row := r.DB.QueryRowContext(ctx, `
		SELECT `+bossColumns+`
		FROM bosses
		WHERE id = ?
	`, id)

	b, err := scanBoss(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get boss by id: %w", err)
	}
	return b, nil
}

// GetByGameAndName resolves a boss by its (game_id, name) natural key.
func (r *Repo) GetByGameAndName(ctx context.Context, gameID, name string) (*models.Boss, error) {
	row := r.DB.QueryRowContext(ctx, `
		SELECT `+bossColumns+`
		FROM bosses
		WHERE game_id = ? AND name = ?
	`, gameID, name)

	b, err := scanBoss(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get boss by game and name: %w", err)
	}
	return b, nil
}

func (r *Repo) Count(ctx context.Context, q ListQuery) (int, error) {
	sqlStr, args := buildListSQL(q, true)
	row := r.DB.QueryRowContext(ctx, sqlStr, args...)
	var total int
	if err := row.Scan(&total); err != nil {
		return 0, fmt.Errorf("count scan: %w", err)
	}
	return total, nil
}

func (r *Repo) List(ctx context.Context, q ListQuery) ([]models.Boss, error) {
	sqlStr, args := buildListSQL(q, false)

	rows, err := r.DB.QueryContext(ctx, sqlStr, args...)
	if err != nil {
		return nil, fmt.Errorf("list query: %w", err)
	}
	defer rows.Close()

	out := make([]models.Boss, 0, q.Limit)
	for rows.Next() {
		b, err := scanBoss(rows)
		if err != nil {
			return nil, fmt.Errorf("list scan: %w", err)
		}
		out = append(out, *b)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows err: %w", err)
	}
	return out, nil
}

// buildListSQL builds either COUNT(*) or the SELECT list.
func buildListSQL(q ListQuery, countOnly bool) (string, []any) {
	baseSelect := `
		SELECT ` + bossColumns + `
		FROM bosses
	`
	if countOnly {
		baseSelect = `SELECT COUNT(*) FROM bosses`
	}

	var where []string
	var args []any

	if strings.TrimSpace(q.GameID) != "" {
		where = append(where, "game_id = ?")
		args = append(args, strings.TrimSpace(q.GameID))
	}

	if strings.TrimSpace(q.Q) != "" {
		where = append(where, "LOWER(name) LIKE ?")
		args = append(args, "%"+strings.ToLower(strings.TrimSpace(q.Q))+"%")
	}

	sqlStr := baseSelect
	if len(where) > 0 {
		sqlStr += " WHERE " + strings.Join(where, " AND ")
	}

	if !countOnly {
		sqlStr += " ORDER BY name ASC"
		sqlStr += " LIMIT ? OFFSET ?"
		limit := q.Limit
		if limit <= 0 || limit > 100 {
			limit = 20
		}
		skip := q.Skip
		if skip < 0 {
			skip = 0
		}
		args = append(args, limit, skip)
	}

	return sqlStr, args
}

func scanBoss(s interface{ Scan(dest ...any) error }) (*models.Boss, error) {
	var (
		b          models.Boss
		image      sql.NullString
		summary    sql.NullString
		difficulty sql.NullString
		created    time.Time
	)
	if err := s.Scan(&b.ID, &b.GameID, &b.Name, &image, &summary, &difficulty, &created); err != nil {
		return nil, err
	}
	b.Image = image.String
	b.Summary = summary.String
	b.Difficulty = difficulty.String
	b.CreatedAt = created
	return &b, nil
}

func nullable(s string) any {
	if s == "" {
		return nil
	}
	return s
}
