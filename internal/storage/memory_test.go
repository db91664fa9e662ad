package storage

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/discokit/disco/internal/types"
)

func newTestSession(id, name string, created time.Time) *types.DiscoverySession {
	return &types.DiscoverySession{
		ID:          id,
		ProjectName: name,
		Status:      types.SessionActive,
		Stage:       types.StageProblemDiscovery,
		Progress: map[types.Stage]*types.StageProgress{
			types.StageProblemDiscovery: {Status: types.StageNotStarted},
		},
		Created:     created,
		LastUpdated: created,
	}
}

func TestMemoryRepositoryCRUD(t *testing.T) {
	ctx := context.Background()
	repo := NewMemoryRepository()

	got, err := repo.Get(ctx, "missing")
	require.NoError(t, err)
	assert.Nil(t, got, "unknown id should return nil, not an error")

	s := newTestSession("sess-1", "Acme Shop", time.Now().UTC().Truncate(time.Second))
	require.NoError(t, repo.Put(ctx, s))

	got, err = repo.Get(ctx, "sess-1")
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, "Acme Shop", got.ProjectName)

	// Mutating the returned copy must not affect stored state.
	got.ProjectName = "Mutated"
	again, err := repo.Get(ctx, "sess-1")
	require.NoError(t, err)
	assert.Equal(t, "Acme Shop", again.ProjectName)

	require.NoError(t, repo.Delete(ctx, "sess-1"))
	got, err = repo.Get(ctx, "sess-1")
	require.NoError(t, err)
	assert.Nil(t, got)

	// Deleting again is a no-op.
	require.NoError(t, repo.Delete(ctx, "sess-1"))
}

func TestMemoryRepositoryListOrder(t *testing.T) {
	ctx := context.Background()
	repo := NewMemoryRepository()

	base := time.Now().UTC().Truncate(time.Second)
	require.NoError(t, repo.Put(ctx, newTestSession("old", "Old Project", base.Add(-2*time.Hour))))
	require.NoError(t, repo.Put(ctx, newTestSession("new", "New Project", base)))
	require.NoError(t, repo.Put(ctx, newTestSession("mid", "Mid Project", base.Add(-time.Hour))))

	sessions, err := repo.List(ctx)
	require.NoError(t, err)
	require.Len(t, sessions, 3)
	assert.Equal(t, "new", sessions[0].ID)
	assert.Equal(t, "mid", sessions[1].ID)
	assert.Equal(t, "old", sessions[2].ID)
}
