// Package providers contains the concrete research provider adapters.
// All three built-ins ride the Anthropic API with different research
// charters; the router neither knows nor cares about the transport.
package providers

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"
	"golang.org/x/time/rate"

	"github.com/discokit/disco/internal/research"
)

// Model constants. Research queries don't need deep reasoning, so the
// default is the cost-efficient tier; DISCO_MODEL overrides.
const (
	DefaultModel = "claude-3-5-haiku-20241022"
)

// ResearchModel returns the model for research calls, honoring the
// DISCO_MODEL environment override.
func ResearchModel() string {
	if model := os.Getenv("DISCO_MODEL"); model != "" {
		return model
	}
	return DefaultModel
}

// Config holds shared construction options for the built-in adapters.
type Config struct {
	APIKey    string  // falls back to ANTHROPIC_API_KEY
	Model     string  // falls back to ResearchModel()
	MaxTokens int64   // default 2048
	RPS       float64 // rate limit for provider calls, default 1/s
}

// client is the shared Anthropic transport behind the built-in adapters.
type client struct {
	api       anthropic.Client
	model     string
	maxTokens int64
	limiter   *rate.Limiter
	hasKey    bool
}

func newClient(cfg Config) *client {
	apiKey := cfg.APIKey
	if apiKey == "" {
		apiKey = os.Getenv("ANTHROPIC_API_KEY")
	}
	model := cfg.Model
	if model == "" {
		model = ResearchModel()
	}
	maxTokens := cfg.MaxTokens
	if maxTokens == 0 {
		maxTokens = 2048
	}
	rps := cfg.RPS
	if rps == 0 {
		rps = 1
	}
	return &client{
		api:       anthropic.NewClient(option.WithAPIKey(apiKey)),
		model:     model,
		maxTokens: maxTokens,
		limiter:   rate.NewLimiter(rate.Limit(rps), 2),
		hasKey:    apiKey != "",
	}
}

// available reports whether the named adapter can take calls: API key
// present and not disabled via DISCO_PROVIDER_<NAME>_DISABLED.
func (c *client) available(name string) bool {
	if !c.hasKey {
		return false
	}
	return os.Getenv("DISCO_PROVIDER_"+strings.ToUpper(name)+"_DISABLED") == ""
}

// complete runs one rate-limited completion and flattens the response
// text into a research result.
func (c *client) complete(ctx context.Context, system, prompt string) (*research.Result, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("rate limiter: %w", err)
	}

	response, err := c.api.Messages.New(ctx, anthropic.MessageNewParams{
		Model:     anthropic.Model(c.model),
		MaxTokens: c.maxTokens,
		System:    []anthropic.TextBlockParam{{Text: system}},
		Messages: []anthropic.MessageParam{
			anthropic.NewUserMessage(anthropic.NewTextBlock(prompt)),
		},
	})
	if err != nil {
		return nil, fmt.Errorf("anthropic API call failed: %w", err)
	}

	var text strings.Builder
	for _, block := range response.Content {
		if block.Type == "text" {
			text.WriteString(block.Text)
		}
	}
	if text.Len() == 0 {
		return nil, fmt.Errorf("empty response from model %s", c.model)
	}

	return &research.Result{
		Summary: summarize(text.String()),
		Raw:     text.String(),
	}, nil
}

// summarize keeps the first paragraph as the short-form summary.
func summarize(s string) string {
	s = strings.TrimSpace(s)
	if idx := strings.Index(s, "\n\n"); idx > 0 {
		return s[:idx]
	}
	return s
}

// buildPrompt renders the query plus whatever context is worth carrying
// into the model call.
func buildPrompt(queryType research.QueryType, query string, qctx research.QueryContext) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Research query (%s): %s\n", queryType, query)
	if qctx.ProjectType != "" {
		fmt.Fprintf(&b, "Project type: %s\n", qctx.ProjectType)
	}
	if len(qctx.Technologies) > 0 {
		fmt.Fprintf(&b, "Technologies in play: %s\n", strings.Join(qctx.Technologies, ", "))
	}
	if qctx.TargetMarket != "" {
		fmt.Fprintf(&b, "Target market: %s\n", qctx.TargetMarket)
	}
	if len(qctx.Competitors) > 0 {
		fmt.Fprintf(&b, "Known competitors: %s\n", strings.Join(qctx.Competitors, ", "))
	}
	if qctx.Stage != "" {
		fmt.Fprintf(&b, "Discovery stage: %s\n", qctx.Stage)
	}
	return b.String()
}
