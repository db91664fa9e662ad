package research

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/discokit/disco/internal/types"
)

// fakeAdapter is a scriptable provider for router tests.
type fakeAdapter struct {
	name      string
	available bool
	err       error

	mu       sync.Mutex
	executed []string
}

func (f *fakeAdapter) Name() string                         { return f.name }
func (f *fakeAdapter) IsAvailable(ctx context.Context) bool { return f.available }

func (f *fakeAdapter) Execute(ctx context.Context, qt QueryType, query string, qctx QueryContext) (*Result, error) {
	f.mu.Lock()
	f.executed = append(f.executed, query)
	f.mu.Unlock()
	if f.err != nil {
		return nil, f.err
	}
	return &Result{Summary: f.name + ": " + query, Raw: f.name}, nil
}

func (f *fakeAdapter) calls() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.executed...)
}

func testRouter(t *testing.T, adapters ...*fakeAdapter) *Router {
	t.Helper()
	registry := NewRegistry()
	for _, a := range adapters {
		require.NoError(t, registry.Register(a))
	}
	router, err := NewRouter(&RouterConfig{Registry: registry})
	require.NoError(t, err)
	return router
}

func defaultFakes() (docs, web, llm *fakeAdapter) {
	docs = &fakeAdapter{name: ProviderDocs, available: true}
	web = &fakeAdapter{name: ProviderWebSearch, available: true}
	llm = &fakeAdapter{name: ProviderLLM, available: true}
	return
}

func TestRouteTechnicalQueryToDocs(t *testing.T) {
	docs, web, llm := defaultFakes()
	router := testRouter(t, docs, web, llm)

	rr, err := router.Execute(context.Background(), "best React state management library", QueryContext{})
	require.NoError(t, err)
	assert.Equal(t, QueryTechnical, rr.Decision.QueryType)
	assert.Equal(t, ProviderDocs, rr.Provider)
	assert.Len(t, docs.calls(), 1)
	assert.Empty(t, web.calls())
	assert.Empty(t, llm.calls())
	assert.NotEmpty(t, rr.Decision.Explanation)
}

func TestRouteIsDeterministic(t *testing.T) {
	docs, web, llm := defaultFakes()
	router := testRouter(t, docs, web, llm)

	qctx := QueryContext{Stage: types.StageMarketResearch}
	first := router.Route("sizing the market", qctx)
	for i := 0; i < 5; i++ {
		assert.Equal(t, first, router.Route("sizing the market", qctx))
	}
	assert.Equal(t, ProviderWebSearch, first.Provider)
}

func TestHybridPrefersMarketUnlessTechnicalFocus(t *testing.T) {
	docs, web, llm := defaultFakes()
	router := testRouter(t, docs, web, llm)

	// "api pricing" ties one keyword on each side.
	d := router.Route("api pricing", QueryContext{})
	assert.Equal(t, QueryHybrid, d.QueryType)
	assert.Equal(t, ProviderWebSearch, d.Provider)

	d = router.Route("api pricing", QueryContext{Focus: "technical"})
	assert.Equal(t, ProviderDocs, d.Provider)
}

func TestFallbackSkipsUnavailablePrimary(t *testing.T) {
	docs, web, llm := defaultFakes()
	docs.available = false
	router := testRouter(t, docs, web, llm)

	rr, err := router.Execute(context.Background(), "database architecture options", QueryContext{})
	require.NoError(t, err)

	// The unavailable primary must never see an Execute call.
	assert.Empty(t, docs.calls())
	assert.Equal(t, ProviderWebSearch, rr.Provider)
	assert.Equal(t, ProviderDocs, rr.Decision.Provider, "decision still records the primary")
}

func TestFallbackOnExecuteError(t *testing.T) {
	docs, web, llm := defaultFakes()
	docs.err = errors.New("upstream 500")
	router := testRouter(t, docs, web, llm)

	rr, err := router.Execute(context.Background(), "api framework comparison", QueryContext{})
	require.NoError(t, err)
	assert.Equal(t, ProviderWebSearch, rr.Provider)
	assert.Len(t, docs.calls(), 1, "an available-but-failing provider is tried once")
}

func TestAllProvidersExhausted(t *testing.T) {
	docs, web, llm := defaultFakes()
	docs.available = false
	web.available = false
	llm.available = false
	router := testRouter(t, docs, web, llm)

	_, err := router.Execute(context.Background(), "anything at all", QueryContext{})
	require.Error(t, err)
	assert.Equal(t, types.CodeResearchFailed, types.CodeOf(err))
	assert.Empty(t, docs.calls())
	assert.Empty(t, web.calls())
	assert.Empty(t, llm.calls())
}

func TestExhaustedPreservesTriggeringError(t *testing.T) {
	docs, web, llm := defaultFakes()
	cause := errors.New("quota exceeded")
	docs.err = cause
	web.available = false
	llm.available = false
	router := testRouter(t, docs, web, llm)

	_, err := router.Execute(context.Background(), "react sdk docs", QueryContext{})
	require.Error(t, err)
	assert.ErrorIs(t, err, cause)
}

func TestExecuteBatchPartialFailure(t *testing.T) {
	docs, web, llm := defaultFakes()
	web.err = errors.New("search backend down")
	llm.available = false
	router := testRouter(t, docs, web, llm)

	queries := []BatchQuery{
		{Query: "best React state management library"},
		{Query: "customer demand and pricing in this industry"},
		{Query: "react performance tuning"},
	}
	results := router.ExecuteBatch(context.Background(), queries)
	require.Len(t, results, 3)

	// Results stay aligned with inputs.
	for i, r := range results {
		assert.Equal(t, queries[i].Query, r.Query)
	}

	assert.NoError(t, results[0].Err)
	assert.Equal(t, ProviderDocs, results[0].Provider)

	// Market query: websearch fails, llm is down, docs answers via the
	// global fallback order.
	assert.NoError(t, results[1].Err)
	assert.Equal(t, ProviderDocs, results[1].Provider)

	assert.NoError(t, results[2].Err)
}

func TestExecuteBatchAllFailReportsPerQuery(t *testing.T) {
	docs, web, llm := defaultFakes()
	docs.available = false
	web.available = false
	llm.available = false
	router := testRouter(t, docs, web, llm)

	results := router.ExecuteBatch(context.Background(), []BatchQuery{
		{Query: "a react library"},
		{Query: "b market pricing"},
	})
	require.Len(t, results, 2)
	for _, r := range results {
		assert.Error(t, r.Err)
		assert.Equal(t, types.CodeResearchFailed, types.CodeOf(r.Err))
	}
}

func TestConfigHotSwap(t *testing.T) {
	docs, web, llm := defaultFakes()
	router := testRouter(t, docs, web, llm)

	before := router.Route("best React state management library", QueryContext{})
	assert.Equal(t, ProviderDocs, before.Provider)

	custom := DefaultRoutingConfig()
	custom.RoutingRules[QueryTechnical] = []Rule{
		{Provider: ProviderLLM, Condition: CondAlways},
	}
	router.setConfig(custom)

	after := router.Route("best React state management library", QueryContext{})
	assert.Equal(t, ProviderLLM, after.Provider)
}

func TestNewRouterRejectsInvalidConfig(t *testing.T) {
	registry := NewRegistry()
	_, err := NewRouter(&RouterConfig{
		Registry: registry,
		Source:   StaticSource{Config: &RoutingConfig{}},
	})
	require.Error(t, err)
}

func TestRegistryRejectsDuplicates(t *testing.T) {
	registry := NewRegistry()
	a := &fakeAdapter{name: "docs"}
	require.NoError(t, registry.Register(a))
	err := registry.Register(a)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "already registered")
}

func TestUnregisteredProviderFallsThrough(t *testing.T) {
	// Only llm registered; technical routes to docs first, which is
	// unknown, then walks the fallback order.
	llm := &fakeAdapter{name: ProviderLLM, available: true}
	registry := NewRegistry()
	require.NoError(t, registry.Register(llm))
	router, err := NewRouter(&RouterConfig{Registry: registry})
	require.NoError(t, err)

	rr, err := router.Execute(context.Background(), "react library docs", QueryContext{})
	require.NoError(t, err)
	assert.Equal(t, ProviderLLM, rr.Provider)
}

func ExampleRouter_Route() {
	registry := NewRegistry()
	_ = registry.Register(&fakeAdapter{name: ProviderDocs, available: true})
	router, _ := NewRouter(&RouterConfig{Registry: registry})

	d := router.Route("best React state management library", QueryContext{})
	fmt.Println(d.QueryType, d.Provider)
	// Output: technical docs
}
