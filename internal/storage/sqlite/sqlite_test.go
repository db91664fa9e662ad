package sqlite

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/discokit/disco/internal/types"
)

func testStore(t *testing.T) *Store {
	t.Helper()
	path := filepath.Join(t.TempDir(), "disco.db")
	store, err := New(path)
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })
	return store
}

func sampleSession(id string) *types.DiscoverySession {
	now := time.Now().UTC().Truncate(time.Second)
	return &types.DiscoverySession{
		ID:          id,
		ProjectName: "Acme Shop",
		Status:      types.SessionActive,
		Stage:       types.StageProblemDiscovery,
		Progress: map[types.Stage]*types.StageProgress{
			types.StageProblemDiscovery: {
				Status:          types.StageInProgress,
				CompletionScore: 33,
				Data:            map[string]any{"problem_statement": "checkout is slow"},
				LastActivity:    now,
			},
		},
		ResearchData: map[string][]types.ResearchRecord{
			"market analysis": {{Query: "q", Provider: "websearch", Results: "r", Timestamp: now}},
		},
		Metadata:    types.Metadata{TechStack: []string{"React"}},
		Created:     now,
		LastUpdated: now,
	}
}

func TestPutGetRoundTrip(t *testing.T) {
	store := testStore(t)
	ctx := context.Background()

	s := sampleSession("sess-1")
	require.NoError(t, store.Put(ctx, s))

	got, err := store.Get(ctx, "sess-1")
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, s, got, "stored document should round-trip unchanged")
}

func TestGetUnknownReturnsNil(t *testing.T) {
	store := testStore(t)
	got, err := store.Get(context.Background(), "nope")
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestPutUpsert(t *testing.T) {
	store := testStore(t)
	ctx := context.Background()

	s := sampleSession("sess-1")
	require.NoError(t, store.Put(ctx, s))

	s.Stage = types.StageMarketResearch
	s.Progress[types.StageProblemDiscovery].Status = types.StageCompleted
	s.Progress[types.StageProblemDiscovery].CompletionScore = 100
	require.NoError(t, store.Put(ctx, s))

	got, err := store.Get(ctx, "sess-1")
	require.NoError(t, err)
	assert.Equal(t, types.StageMarketResearch, got.Stage)
	assert.Equal(t, 100, got.Progress[types.StageProblemDiscovery].CompletionScore)

	sessions, err := store.List(ctx)
	require.NoError(t, err)
	assert.Len(t, sessions, 1, "upsert must not duplicate rows")
}

func TestListAndDelete(t *testing.T) {
	store := testStore(t)
	ctx := context.Background()

	a := sampleSession("sess-a")
	a.Created = a.Created.Add(-time.Hour)
	b := sampleSession("sess-b")
	require.NoError(t, store.Put(ctx, a))
	require.NoError(t, store.Put(ctx, b))

	sessions, err := store.List(ctx)
	require.NoError(t, err)
	require.Len(t, sessions, 2)
	assert.Equal(t, "sess-b", sessions[0].ID, "newest session should list first")

	require.NoError(t, store.Delete(ctx, "sess-a"))
	sessions, err = store.List(ctx)
	require.NoError(t, err)
	require.Len(t, sessions, 1)
	assert.Equal(t, "sess-b", sessions[0].ID)

	// Unknown delete is a no-op.
	require.NoError(t, store.Delete(ctx, "sess-a"))
}

func TestPutRejectsEmptyID(t *testing.T) {
	store := testStore(t)
	err := store.Put(context.Background(), &types.DiscoverySession{})
	assert.Error(t, err)
}
