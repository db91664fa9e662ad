// Package research classifies free-text research queries and routes them
// to the best-suited provider adapter, with transparent fallback when a
// provider is down and provider-grouped concurrent batch dispatch.
package research

import (
	"context"
	"strings"

	"github.com/discokit/disco/internal/types"
)

// QueryType is the routing classification of a research query.
type QueryType string

const (
	QueryTechnical   QueryType = "technical"
	QueryMarket      QueryType = "market"
	QueryCompetitive QueryType = "competitive"
	QueryHybrid      QueryType = "hybrid"
	QueryGeneral     QueryType = "general"
)

// QueryContext is the context bag accompanying a research query. The
// classifier and routing conditions read it; providers receive it for
// prompt shaping.
type QueryContext struct {
	Stage        types.Stage `json:"stage,omitempty"`
	Focus        string      `json:"focus,omitempty"`
	ProjectType  string      `json:"project_type,omitempty"`
	Technologies []string    `json:"technologies,omitempty"`
	TargetMarket string      `json:"target_market,omitempty"`
	Competitors  []string    `json:"competitors,omitempty"`
}

// serialized flattens the context for keyword matching, mirroring how
// the query text itself is scanned.
func (c QueryContext) serialized() string {
	parts := []string{c.Focus, c.ProjectType, c.TargetMarket}
	parts = append(parts, c.Technologies...)
	parts = append(parts, c.Competitors...)
	return strings.ToLower(strings.Join(parts, " "))
}

// Source is one citation attached to a provider result.
type Source struct {
	Title string `json:"title,omitempty"`
	URL   string `json:"url,omitempty"`
}

// Result is the uniform shape every provider adapter returns.
type Result struct {
	Summary string   `json:"summary"`
	Raw     string   `json:"raw,omitempty"`
	Sources []Source `json:"sources,omitempty"`
}

// Adapter is the uniform wrapper over one concrete research,
// documentation, or search service. The router is agnostic to the
// transport behind it.
type Adapter interface {
	// Name returns the provider's registry key (e.g. "docs", "websearch").
	Name() string

	// IsAvailable reports whether the provider can take a call right now
	// (credentials present, not disabled, endpoint reachable enough).
	IsAvailable(ctx context.Context) bool

	// Execute runs one research query. Errors are treated like
	// unavailability by the router's fallback chain.
	Execute(ctx context.Context, queryType QueryType, query string, qctx QueryContext) (*Result, error)
}

// BatchQuery pairs one query with its context for batch routing.
type BatchQuery struct {
	Query   string
	Context QueryContext
}

// BatchResult is the individually-reported outcome of one batch entry.
// A failed query never aborts its siblings.
type BatchResult struct {
	Query     string
	QueryType QueryType
	Provider  string
	Result    *Result
	Err       error
}
