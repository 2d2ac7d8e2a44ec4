package games

import (
	"context"
	"database/sql"
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

const gameColumns = `id, title, platform, cover_image, description, created_at`

func (r *Repo) Create(ctx context.Context, g models.Game) (*models.Game, error) {
	g.ID = uuid.NewString()
	_, err := r.DB.ExecContext(ctx, `
		INSERT INTO games (id, title, platform, cover_image, description)
		VALUES (?, ?, ?, ?, ?)
	`, g.ID, g.Title, nullable(g.Platform), nullable(g.CoverImage), nullable(g.Description))
	if err != nil {
		return nil, fmt.Errorf("insert game: %w", err)
	}
	return r.GetByID(ctx, g.ID)
}

func (r *Repo) GetByID(ctx context.Context, id string) (*models.Game, error) {
	row := r.DB.QueryRowContext(ctx, `
		SELECT `+gameColumns+`
		FROM games
		WHERE id = ?
	`, id)

	g, err := scanGame(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get game by id: %w", err)
	}
	return g, nil
}

// GetByTitle resolves a game by exact title match. This is the natural key
// the ingestion engine dedupes on; the store itself does not enforce it.
func (r *Repo) GetByTitle(ctx context.Context, title string) (*models.Game, error) {
	row := r.DB.QueryRowContext(ctx, `
		SELECT `+gameColumns+`
		FROM games
		WHERE title = ?
	`, title)

	g, err := scanGame(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get game by title: %w", err)
	}
	return g, nil
}

func (r *Repo) List(ctx context.Context) ([]models.Game, error) {
	rows, err := r.DB.QueryContext(ctx, `
		SELECT `+gameColumns+`
		FROM games
		ORDER BY created_at ASC, title ASC
	`)
	if err != nil {
		return nil, fmt.Errorf("list games: %w", err)
	}
	defer rows.Close()

	out := make([]models.Game, 0)
	for rows.Next() {
		g, err := scanGame(rows)
		if err != nil {
			return nil, fmt.Errorf("list scan: %w", err)
		}
		out = append(out, *g)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows err: %w", err)
	}
	return out, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanGame(s rowScanner) (*models.Game, error) {
	var (
		g           models.Game
		platform    sql.NullString
		coverImage  sql.NullString
		description sql.NullString
		created     time.Time
	)
	if err := s.Scan(&g.ID, &g.Title, &platform, &coverImage, &description, &created); err != nil {
		return nil, err
	}
	g.Platform = platform.String
	g.CoverImage = coverImage.String
	g.Description = description.String
	g.CreatedAt = created
	return &g, nil
}

func nullable(s string) any {
	if s == "" {
		return nil
	}
	return s
}
