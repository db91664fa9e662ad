package storage

import (
	"context"
	"encoding/json"
	"sort"
	"sync"

	"github.com/discokit/disco/internal/types"
)

// MemoryRepository is an in-memory SessionRepository for tests and
// ephemeral runs. Documents are deep-copied through JSON on the way in
// and out so callers can't mutate stored state behind the manager's back.
type MemoryRepository struct {
	mu       sync.RWMutex
	sessions map[string]*types.DiscoverySession
}

// NewMemoryRepository creates an empty in-memory repository.
func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{sessions: make(map[string]*types.DiscoverySession)}
}

func copySession(s *types.DiscoverySession) (*types.DiscoverySession, error) {
	data, err := json.Marshal(s)
	if err != nil {
		return nil, err
	}
	var out types.DiscoverySession
	if err := json.Unmarshal(data, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Get returns a copy of the stored session, or nil when absent.
func (m *MemoryRepository) Get(ctx context.Context, sessionID string) (*types.DiscoverySession, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	s, ok := m.sessions[sessionID]
	if !ok {
		return nil, nil
	}
	return copySession(s)
}

// Put stores a copy of the session.
func (m *MemoryRepository) Put(ctx context.Context, session *types.DiscoverySession) error {
	cp, err := copySession(session)
	if err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sessions[session.ID] = cp
	return nil
}

// List returns copies of all sessions, newest first.
func (m *MemoryRepository) List(ctx context.Context) ([]*types.DiscoverySession, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]*types.DiscoverySession, 0, len(m.sessions))
	for _, s := range m.sessions {
		cp, err := copySession(s)
		if err != nil {
			return nil, err
		}
		out = append(out, cp)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Created.After(out[j].Created) })
	return out, nil
}

// Delete removes a session; unknown ids are a no-op.
func (m *MemoryRepository) Delete(ctx context.Context, sessionID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.sessions, sessionID)
	return nil
}

// Close is a no-op for the in-memory repository.
func (m *MemoryRepository) Close() error { return nil }
