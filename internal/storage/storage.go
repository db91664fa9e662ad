package storage

import (
	"context"

	"github.com/discokit/disco/internal/types"
)

// SessionRepository defines the persistence contract for discovery
// sessions. Implementations must serialize writes to a given session id;
// the session manager relies on that to avoid lost updates during
// read-modify-write cycles.
type SessionRepository interface {
	// Get returns the session with the given id, or nil when absent.
	Get(ctx context.Context, sessionID string) (*types.DiscoverySession, error)

	// Put stores or replaces the session document keyed by its id.
	Put(ctx context.Context, session *types.DiscoverySession) error

	// List returns all stored sessions, newest first.
	List(ctx context.Context) ([]*types.DiscoverySession, error)

	// Delete removes a session. Deleting an unknown id is a no-op.
	Delete(ctx context.Context, sessionID string) error

	// Lifecycle
	Close() error
}

// Config holds repository configuration.
type Config struct {
	// Path is the SQLite database file path.
	// Default: ".disco/disco.db"
	// Special value ":memory:" creates an in-memory database (useful for tests).
	Path string
}

// DefaultConfig returns a config with sensible defaults.
func DefaultConfig() *Config {
	return &Config{Path: DefaultDBPath}
}
