package database

import (
	"database/sql"
	_ "embed"
	"fmt"
)

// Schema is embedded so migration works no matter which directory a binary
// (or test) runs from.
//
//go:embed schema.sql
var schema string

func Migrate(db *sql.DB) error {
	if _, err := db.Exec(schema); err != nil {
		return fmt.Errorf("apply schema: %w", err)
	}
	return nil
}
