package research

import (
	"context"
	"fmt"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/discokit/disco/internal/types"
)

// DefaultExecuteTimeout bounds a single provider call. A slow provider
// is treated as unavailable so it can't stall a batch.
const DefaultExecuteTimeout = 30 * time.Second

// Decision records where a query was routed and why. The explanation is
// for auditability only; nothing branches on it.
type Decision struct {
	QueryType   QueryType
	Provider    string
	Explanation string
}

// Router classifies queries and dispatches them to provider adapters
// with fallback and batch support.
type Router struct {
	registry *Registry
	source   ConfigSource
	timeout  time.Duration

	// cfg is swapped whole on reload; requests see either the old or
	// the new table, never a mix.
	mu  sync.RWMutex
	cfg *RoutingConfig
}

// RouterConfig holds router construction options.
type RouterConfig struct {
	Registry *Registry
	Source   ConfigSource  // nil = built-in defaults, no watching
	Timeout  time.Duration // 0 = DefaultExecuteTimeout
}

// NewRouter creates a router, loading the initial routing config from
// the source.
func NewRouter(cfg *RouterConfig) (*Router, error) {
	if cfg == nil || cfg.Registry == nil {
		return nil, fmt.Errorf("provider registry is required")
	}
	source := cfg.Source
	if source == nil {
		source = StaticSource{}
	}
	routing, err := source.Load()
	if err != nil {
		return nil, fmt.Errorf("loading routing config: %w", err)
	}
	if err := routing.Validate(); err != nil {
		return nil, fmt.Errorf("invalid routing config: %w", err)
	}
	timeout := cfg.Timeout
	if timeout == 0 {
		timeout = DefaultExecuteTimeout
	}
	return &Router{
		registry: cfg.Registry,
		source:   source,
		timeout:  timeout,
		cfg:      routing,
	}, nil
}

// WatchConfig subscribes to config changes from the source, atomically
// swapping the rule table on each reload until ctx is cancelled.
func (r *Router) WatchConfig(ctx context.Context) error {
	return r.source.Watch(ctx, r.setConfig)
}

func (r *Router) setConfig(cfg *RoutingConfig) {
	r.mu.Lock()
	r.cfg = cfg
	r.mu.Unlock()
}

func (r *Router) config() *RoutingConfig {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.cfg
}

// Route classifies the query and resolves the provider the rule table
// selects for it. Pure with respect to (query, qctx, current config).
func (r *Router) Route(query string, qctx QueryContext) Decision {
	cfg := r.config()
	qt := Classify(query, qctx, cfg.Keywords)

	for i, rule := range cfg.RoutingRules[qt] {
		if rule.Condition == CondFallback {
			continue
		}
		if rule.Condition.holds(qctx) {
			return Decision{
				QueryType: qt,
				Provider:  rule.Provider,
				Explanation: fmt.Sprintf("classified as %s%s; rule %d (%s) selected provider %s",
					qt, classifyReason(qctx), i+1, rule.Condition, rule.Provider),
			}
		}
	}

	// No rule matched; fall back to the head of the global retry order.
	provider := cfg.FallbackOrder[0]
	return Decision{
		QueryType: qt,
		Provider:  provider,
		Explanation: fmt.Sprintf("classified as %s%s; no routing rule matched, defaulting to %s from fallback order",
			qt, classifyReason(qctx), provider),
	}
}

func classifyReason(qctx QueryContext) string {
	switch {
	case qctx.Stage == types.StageTechnicalFeasibility, qctx.Stage == types.StageMarketResearch:
		return fmt.Sprintf(" (stage=%s)", qctx.Stage)
	case qctx.Focus != "":
		return fmt.Sprintf(" (focus=%s)", qctx.Focus)
	}
	return " (keyword match)"
}

// RouteResult is a completed single-query execution with its audit trail.
type RouteResult struct {
	Decision Decision
	Provider string // provider that actually answered (may differ after fallback)
	Result   *Result
}

// Execute routes and runs one query. If the selected provider is
// unavailable or fails, the global fallback order is tried in sequence,
// skipping providers already attempted. When the chain is exhausted the
// call fails with RESEARCH_FAILED carrying the first triggering error.
func (r *Router) Execute(ctx context.Context, query string, qctx QueryContext) (*RouteResult, error) {
	return r.executeDecision(ctx, r.Route(query, qctx), query, qctx)
}

func (r *Router) executeDecision(ctx context.Context, decision Decision, query string, qctx QueryContext) (*RouteResult, error) {
	cfg := r.config()

	tried := make(map[string]bool)
	candidates := append([]string{decision.Provider}, cfg.FallbackOrder...)

	var firstErr error
	for _, name := range candidates {
		if tried[name] {
			continue
		}
		tried[name] = true

		adapter, ok := r.registry.Get(name)
		if !ok {
			if firstErr == nil {
				firstErr = fmt.Errorf("provider %q is not registered", name)
			}
			continue
		}
		if !adapter.IsAvailable(ctx) {
			if firstErr == nil {
				firstErr = fmt.Errorf("provider %q reported unavailable", name)
			}
			continue
		}

		result, err := r.executeOne(ctx, adapter, decision.QueryType, query, qctx)
		if err != nil {
			// An available provider that fails mid-call gets the same
			// treatment as an unavailable one, but we keep its error.
			if firstErr == nil {
				firstErr = fmt.Errorf("provider %q failed: %w", name, err)
			}
			continue
		}
		return &RouteResult{Decision: decision, Provider: name, Result: result}, nil
	}

	return nil, types.WrapError(types.CodeResearchFailed, firstErr,
		"all providers exhausted for query %q (tried %d)", truncate(query, 80), len(tried))
}

func (r *Router) executeOne(ctx context.Context, adapter Adapter, qt QueryType, query string, qctx QueryContext) (*Result, error) {
	callCtx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()
	return adapter.Execute(callCtx, qt, query, qctx)
}

// ExecuteBatch routes each query independently, groups them by resolved
// provider, and dispatches every group concurrently. Each entry reports
// its own outcome; one failure never aborts siblings.
func (r *Router) ExecuteBatch(ctx context.Context, queries []BatchQuery) []BatchResult {
	results := make([]BatchResult, len(queries))

	// Resolve providers up front so grouping is stable even if the
	// config is hot-swapped mid-batch.
	groups := make(map[string][]int)
	for i, q := range queries {
		d := r.Route(q.Query, q.Context)
		results[i] = BatchResult{Query: q.Query, QueryType: d.QueryType, Provider: d.Provider}
		groups[d.Provider] = append(groups[d.Provider], i)
	}

	var g errgroup.Group
	for _, indices := range groups {
		for _, i := range indices {
			decision := Decision{QueryType: results[i].QueryType, Provider: results[i].Provider}
			g.Go(func() error {
				rr, err := r.executeDecision(ctx, decision, queries[i].Query, queries[i].Context)
				if err != nil {
					results[i].Err = err
					return nil
				}
				results[i].Provider = rr.Provider
				results[i].Result = rr.Result
				return nil
			})
		}
	}
	g.Wait() // no goroutine returns an error; outcomes live in results

	return results
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}
