package database

import (
	"context"
	"database/sql"
	"testing"

	"github.com/jmoiron/sqlx"

	"github.com/example/mhsurvey/internal/config"
)

// openStore opens a seeded store through the production path
func openStore(t *testing.T, path string) *sqlx.DB {
	t.Helper()

	db, err := Open(context.Background(), config.SourceConfig{Driver: "sqlite", DSN: path})
	if err != nil {
		t.Fatalf("Failed to open store: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return db
}

// seed creates a SQLite file from raw statements
func seed(t *testing.T, path string, statements ...string) {
	t.Helper()

	db, err := sql.Open("sqlite", path)
	if err != nil {
		t.Fatalf("Failed to open database: %v", err)
	}
	defer db.Close()

	for _, stmt := range statements {
		if _, err := db.Exec(stmt); err != nil {
			t.Fatalf("Failed to run %q: %v", stmt, err)
		}
	}
}
