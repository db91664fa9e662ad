package repl

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/discokit/disco/internal/generator"
	"github.com/discokit/disco/internal/research"
	"github.com/discokit/disco/internal/session"
	"github.com/discokit/disco/internal/storage"
	"github.com/discokit/disco/internal/types"
)

type stubAdapter struct {
	name    string
	summary string
}

func (a *stubAdapter) Name() string                     { return a.name }
func (a *stubAdapter) IsAvailable(context.Context) bool { return true }
func (a *stubAdapter) Execute(_ context.Context, _ research.QueryType, _ string, _ research.QueryContext) (*research.Result, error) {
	return &research.Result{Summary: a.summary}, nil
}

func testREPL(t *testing.T) *REPL {
	t.Helper()
	m, err := session.NewManager(&session.Config{Repo: storage.NewMemoryRepository()})
	require.NoError(t, err)

	reg := research.NewRegistry()
	for _, name := range []string{research.ProviderDocs, research.ProviderWebSearch, research.ProviderLLM} {
		require.NoError(t, reg.Register(&stubAdapter{name: name, summary: "answer from " + name}))
	}
	router, err := research.NewRouter(&research.RouterConfig{Registry: reg})
	require.NoError(t, err)

	gen, err := generator.New(m)
	require.NoError(t, err)

	r, err := New(&Config{Manager: m, Router: router, Generator: gen, OutputDir: t.TempDir()})
	require.NoError(t, err)
	r.ctx = context.Background()
	return r
}

func TestNewRequiresDependencies(t *testing.T) {
	_, err := New(&Config{})
	assert.Error(t, err)
}

func TestCurrentStage(t *testing.T) {
	r := testREPL(t)
	require.NoError(t, r.cmdNew([]string{"Acme", "Shop"}))
	assert.Equal(t, types.StageProblemDiscovery, currentStage(r.current))

	ctx := context.Background()
	s, err := r.manager.UpdateStageProgress(ctx, r.current.ID, types.StageProblemDiscovery, map[string]any{
		"problem_statement": "carts abandoned",
		"target_users":      []string{"shoppers"},
		"pain_points":       []string{"slow checkout"},
	})
	require.NoError(t, err)
	s, err = r.manager.Advance(ctx, s.ID)
	require.NoError(t, err)
	assert.Equal(t, types.StageMarketResearch, currentStage(s))
}

func TestFindSessionByPrefix(t *testing.T) {
	r := testREPL(t)
	require.NoError(t, r.cmdNew([]string{"First"}))
	first := r.current
	require.NoError(t, r.cmdNew([]string{"Second"}))

	got, err := r.findSession(first.ID[:8])
	require.NoError(t, err)
	assert.Equal(t, first.ID, got.ID)

	_, err = r.findSession("no-such-session")
	require.Error(t, err)
	assert.Equal(t, types.CodeSessionNotFound, types.CodeOf(err))
}

func TestCmdSetParsesListFields(t *testing.T) {
	r := testREPL(t)
	require.NoError(t, r.cmdNew([]string{"Acme"}))

	require.NoError(t, r.cmdSet([]string{"pain_points", "slow checkout,", "no saved carts"}))
	sp := r.current.StageData(types.StageProblemDiscovery)
	require.NotNil(t, sp)
	assert.Equal(t, []string{"slow checkout", "no saved carts"}, sp.Data["pain_points"])

	require.NoError(t, r.cmdSet([]string{"problem_statement", "checkout", "loses", "customers"}))
	assert.Equal(t, "checkout loses customers", r.current.StageData(types.StageProblemDiscovery).Data["problem_statement"])
}

func TestCmdResearchStoresRecord(t *testing.T) {
	r := testREPL(t)
	require.NoError(t, r.cmdNew([]string{"Acme"}))

	require.NoError(t, r.cmdResearch([]string{"competitor", "pricing", "landscape"}))
	assert.Equal(t, 1, r.current.ResearchCount())

	recs := r.current.ResearchData["market analysis"]
	require.Len(t, recs, 1)
	assert.Equal(t, "competitor pricing landscape", recs[0].Query)
	assert.NotEmpty(t, recs[0].Provider)
}

func TestResearchCategory(t *testing.T) {
	tests := []struct {
		qt   research.QueryType
		want string
	}{
		{research.QueryTechnical, "technical documentation"},
		{research.QueryMarket, "market analysis"},
		{research.QueryCompetitive, "competitive analysis"},
		{research.QueryHybrid, "hybrid research"},
		{research.QueryGeneral, "general research"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, researchCategory(tt.qt))
	}
}

func TestRequireSessionWithoutSelection(t *testing.T) {
	r := testREPL(t)
	_, err := r.requireSession()
	assert.Error(t, err)
}
