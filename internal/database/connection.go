package database

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
	_ "github.com/mattn/go-sqlite3"
	_ "modernc.org/sqlite"

	"github.com/example/mhsurvey/internal/config"
)

// ErrDataAccess marks failures to reach or read the survey store: a missing
// file, a missing table or column, or a driver error.
var ErrDataAccess = errors.New("survey store unavailable")

// dataAccess wraps err so that errors.Is(err, ErrDataAccess) holds
func dataAccess(op string, err error) error {
	return fmt.Errorf("%w: %s: %w", ErrDataAccess, op, err)
}

// Open connects to the survey store in read-only mode
func Open(ctx context.Context, cfg config.SourceConfig) (*sqlx.DB, error) {
	dsn, err := readOnlyDSN(cfg)
	if err != nil {
		return nil, err
	}

	db, err := sqlx.Open(cfg.Driver, dsn)
	if err != nil {
		return nil, dataAccess("failed to open database", err)
	}

	// A single reader is all the pipeline needs
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)

	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, dataAccess("failed to connect to database", err)
	}

	return db, nil
}

// readOnlyDSN turns the configured source into a DSN that cannot write.
// SQLite files are checked up front because the driver would otherwise
// create an empty database in their place.
func readOnlyDSN(cfg config.SourceConfig) (string, error) {
	switch cfg.Driver {
	case "sqlite3", "sqlite":
		path := strings.TrimPrefix(cfg.DSN, "file:")
		if i := strings.IndexByte(path, '?'); i >= 0 {
			path = path[:i]
		}
		info, err := os.Stat(path)
		if err != nil {
			return "", dataAccess("failed to open database file", err)
		}
		if info.IsDir() {
			return "", dataAccess("failed to open database file", fmt.Errorf("%s is a directory", path))
		}
		return fmt.Sprintf("file:%s?mode=ro", path), nil
	case "postgres":
		if strings.Contains(cfg.DSN, "default_transaction_read_only") {
			return cfg.DSN, nil
		}
		if strings.HasPrefix(cfg.DSN, "postgres://") || strings.HasPrefix(cfg.DSN, "postgresql://") {
			sep := "?"
			if strings.Contains(cfg.DSN, "?") {
				sep = "&"
			}
			return cfg.DSN + sep + "default_transaction_read_only=on", nil
		}
		return cfg.DSN + " default_transaction_read_only=on", nil
	default:
		return "", fmt.Errorf("unsupported driver %q", cfg.Driver)
	}
}
