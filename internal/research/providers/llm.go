package providers

import (
	"context"

	"github.com/discokit/disco/internal/research"
)

const llmSystemPrompt = `You are a general product research assistant helping
turn an unstructured product idea into requirements. Answer the query
directly and concisely, starting with a one-paragraph summary.`

// LLM is the general-purpose language-model provider; it backstops the
// fallback chain for everything the specialized providers can't take.
type LLM struct {
	client *client
}

// NewLLM creates the general language-model provider adapter.
func NewLLM(cfg Config) *LLM {
	return &LLM{client: newClient(cfg)}
}

// Name implements research.Adapter.
func (l *LLM) Name() string { return research.ProviderLLM }

// IsAvailable implements research.Adapter.
func (l *LLM) IsAvailable(ctx context.Context) bool {
	return l.client.available(research.ProviderLLM)
}

// Execute implements research.Adapter.
func (l *LLM) Execute(ctx context.Context, queryType research.QueryType, query string, qctx research.QueryContext) (*research.Result, error) {
	return l.client.complete(ctx, llmSystemPrompt, buildPrompt(queryType, query, qctx))
}
