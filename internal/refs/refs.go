package refs

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"
)

// Error taxonomy for reference validation. Handlers map these to HTTP
// statuses: ErrMalformedID -> 400, ErrNotFound -> 404, ErrStoreUnavailable
// -> 500 ("database not configured").
var (
	ErrMalformedID      = errors.New("malformed id")
	ErrNotFound         = errors.New("not found")
	ErrStoreUnavailable = errors.New("database not configured")
)

// Validator checks that externally supplied reference ids are well-formed
// and point at an existing row before dependent writes are allowed.
type Validator struct {
	DB *sql.DB
}

func NewValidator(db *sql.DB) *Validator {
	return &Validator{DB: db}
}

// Validate parses rawID as a UUID and probes table for existence. It returns
// the canonical (lowercased) id string on success. No side effects.
//
// table must be one of the fixed table names below; anything else is a
// programming error, not caller input.
func (v *Validator) Validate(ctx context.Context, table, rawID string) (string, error) {
	if v.DB == nil {
		return "", ErrStoreUnavailable
	}

	id, err := uuid.Parse(rawID)
	if err != nil {
		return "", fmt.Errorf("%w: %q", ErrMalformedID, rawID)
	}

	switch table {
	case "games", "bosses", "strategies", "ingest_queue":
	default:
		return "", fmt.Errorf("refs: unknown table %q", table)
	}

	// Existence probe with LIMIT 1; cheaper than fetching the row.
	var n int
	row := v.DB.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM (SELECT 1 FROM `+table+` WHERE id = ? LIMIT 1)`,
		id.String())
	if err := row.Scan(&n); err != nil {
		return "", fmt.Errorf("existence probe %s: %w", table, err)
	}
	if n == 0 {
		return "", fmt.Errorf("%w: %s %s", ErrNotFound, table, id.String())
	}

	return id.String(), nil
}
