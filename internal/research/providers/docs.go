package providers

import (
	"context"

	"github.com/discokit/disco/internal/research"
)

const docsSystemPrompt = `You are a technical documentation research assistant.
Answer with concrete, current information about libraries, frameworks, APIs,
and architecture patterns. Prefer official documentation terminology. Start
with a one-paragraph summary, then details. Note version caveats explicitly.`

// Docs is the technical-documentation lookup provider.
type Docs struct {
	client *client
}

// NewDocs creates the docs provider adapter.
func NewDocs(cfg Config) *Docs {
	return &Docs{client: newClient(cfg)}
}

// Name implements research.Adapter.
func (d *Docs) Name() string { return research.ProviderDocs }

// IsAvailable implements research.Adapter.
func (d *Docs) IsAvailable(ctx context.Context) bool {
	return d.client.available(research.ProviderDocs)
}

// Execute implements research.Adapter.
func (d *Docs) Execute(ctx context.Context, queryType research.QueryType, query string, qctx research.QueryContext) (*research.Result, error) {
	return d.client.complete(ctx, docsSystemPrompt, buildPrompt(queryType, query, qctx))
}
