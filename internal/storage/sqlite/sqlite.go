// Package sqlite implements the session repository on a local SQLite
// database. Sessions are stored as JSON documents keyed by id; the few
// columns pulled out of the document exist only for listing and ordering.
package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	_ "github.com/ncruces/go-sqlite3/driver"
	_ "github.com/ncruces/go-sqlite3/embed"

	"github.com/discokit/disco/internal/types"
)

// Store implements storage.SessionRepository using SQLite.
type Store struct {
	db *sql.DB
}

// New opens (creating if needed) the session database at path.
func New(path string) (*Store, error) {
	if path != ":memory:" {
		if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
			return nil, fmt.Errorf("failed to create database directory: %w", err)
		}
	}

	// WAL mode so a REPL and a second CLI invocation can share the file.
	dsn := "file:" + path + "?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)&_pragma=foreign_keys(1)"
	db, err := sql.Open("sqlite3", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to initialize schema: %w", err)
	}

	return &Store{db: db}, nil
}

// Get returns the session with the given id, or nil if it doesn't exist.
func (s *Store) Get(ctx context.Context, sessionID string) (*types.DiscoverySession, error) {
	var doc []byte
	err := s.db.QueryRowContext(ctx,
		"SELECT document FROM sessions WHERE id = ?", sessionID).Scan(&doc)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query session %s: %w", sessionID, err)
	}

	var session types.DiscoverySession
	if err := json.Unmarshal(doc, &session); err != nil {
		return nil, fmt.Errorf("corrupt session document %s: %w", sessionID, err)
	}
	return &session, nil
}

// Put stores or replaces a session document.
func (s *Store) Put(ctx context.Context, session *types.DiscoverySession) error {
	if session == nil || session.ID == "" {
		return fmt.Errorf("session with non-empty id is required")
	}
	doc, err := json.Marshal(session)
	if err != nil {
		return fmt.Errorf("failed to marshal session %s: %w", session.ID, err)
	}

	_, err = s.db.ExecContext(ctx, `
		INSERT INTO sessions (id, project_name, status, created, last_updated, document)
		VALUES (?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			project_name = excluded.project_name,
			status       = excluded.status,
			last_updated = excluded.last_updated,
			document     = excluded.document`,
		session.ID, session.ProjectName, string(session.Status),
		session.Created.UTC(), session.LastUpdated.UTC(), doc)
	if err != nil {
		return fmt.Errorf("failed to store session %s: %w", session.ID, err)
	}
	return nil
}

// List returns all sessions ordered by creation time, newest first.
func (s *Store) List(ctx context.Context) ([]*types.DiscoverySession, error) {
	rows, err := s.db.QueryContext(ctx,
		"SELECT document FROM sessions ORDER BY created DESC")
	if err != nil {
		return nil, fmt.Errorf("failed to list sessions: %w", err)
	}
	defer rows.Close()

	var sessions []*types.DiscoverySession
	for rows.Next() {
		var doc []byte
		if err := rows.Scan(&doc); err != nil {
			return nil, fmt.Errorf("failed to scan session row: %w", err)
		}
		var session types.DiscoverySession
		if err := json.Unmarshal(doc, &session); err != nil {
			return nil, fmt.Errorf("corrupt session document: %w", err)
		}
		sessions = append(sessions, &session)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed iterating sessions: %w", err)
	}
	return sessions, nil
}

// Delete removes a session. Unknown ids are a no-op.
func (s *Store) Delete(ctx context.Context, sessionID string) error {
	if _, err := s.db.ExecContext(ctx, "DELETE FROM sessions WHERE id = ?", sessionID); err != nil {
		return fmt.Errorf("failed to delete session %s: %w", sessionID, err)
	}
	return nil
}

// Close closes the underlying database.
func (s *Store) Close() error {
	return s.db.Close()
}
