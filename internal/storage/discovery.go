package storage

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/discokit/disco/internal/storage/sqlite"
)

// DefaultDBPath is the session database location relative to the
// project root.
const DefaultDBPath = ".disco/disco.db"

// NewRepository opens the SQLite-backed session repository.
func NewRepository(ctx context.Context, cfg *Config) (SessionRepository, error) {
	if cfg == nil {
		cfg = DefaultConfig()
	}
	if cfg.Path == "" {
		cfg.Path = DefaultDBPath
	}
	return sqlite.New(cfg.Path)
}

// DiscoverDatabase resolves the session database path.
//
// DISCO_DB_PATH is checked first so tests and sandboxes can isolate
// themselves; otherwise the current directory's .disco/ is used. Only the
// current directory is checked, never parents — running disco inside a
// nested project must not pick up the outer project's sessions.
func DiscoverDatabase() (string, error) {
	if dbPath := os.Getenv("DISCO_DB_PATH"); dbPath != "" {
		// Allow special values like ":memory:" or explicit paths.
		return dbPath, nil
	}

	dir, err := os.Getwd()
	if err != nil {
		return "", fmt.Errorf("failed to get current directory: %w", err)
	}

	dbPath := filepath.Join(dir, DefaultDBPath)
	if _, err := os.Stat(dbPath); err != nil {
		return "", fmt.Errorf("no discovery database at %s (run 'disco init' first)", dbPath)
	}
	absPath, err := filepath.Abs(dbPath)
	if err != nil {
		return "", fmt.Errorf("failed to resolve database path: %w", err)
	}
	return absPath, nil
}
