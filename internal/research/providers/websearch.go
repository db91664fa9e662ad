package providers

import (
	"context"

	"github.com/discokit/disco/internal/research"
)

const webSearchSystemPrompt = `You are a market research assistant. Research
markets, customer segments, competitors, and pricing. Start with a
one-paragraph summary, then findings as short sections. Flag estimates as
estimates; never present a guess as a measurement.`

// WebSearch is the market/web search provider.
type WebSearch struct {
	client *client
}

// NewWebSearch creates the websearch provider adapter.
func NewWebSearch(cfg Config) *WebSearch {
	return &WebSearch{client: newClient(cfg)}
}

// Name implements research.Adapter.
func (w *WebSearch) Name() string { return research.ProviderWebSearch }

// IsAvailable implements research.Adapter.
func (w *WebSearch) IsAvailable(ctx context.Context) bool {
	return w.client.available(research.ProviderWebSearch)
}

// Execute implements research.Adapter.
func (w *WebSearch) Execute(ctx context.Context, queryType research.QueryType, query string, qctx research.QueryContext) (*research.Result, error) {
	return w.client.complete(ctx, webSearchSystemPrompt, buildPrompt(queryType, query, qctx))
}
