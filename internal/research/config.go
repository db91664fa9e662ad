package research

import (
	"fmt"

	"github.com/discokit/disco/internal/types"
)

// Provider names of the built-in adapters.
const (
	ProviderDocs      = "docs"      // technical documentation lookup
	ProviderWebSearch = "websearch" // market/web search
	ProviderLLM       = "llm"       // general-purpose language-model search
)

// Condition gates a routing rule against the query context.
type Condition string

const (
	CondAlways         Condition = "always"
	CondMarketFocus    Condition = "market_focus"
	CondTechnicalFocus Condition = "technical_focus"

	// CondFallback rules are never selected directly; they only seed
	// the retry chain when the primary provider is down.
	CondFallback Condition = "fallback"
)

// Rule maps a query classification to a candidate provider.
type Rule struct {
	Provider  string    `yaml:"provider"`
	Condition Condition `yaml:"condition"`
}

// RoutingConfig holds the routing rule table, the global fallback order,
// and the classification keyword lists. It is externally overridable and
// hot-reloadable; the zero-config case uses DefaultRoutingConfig.
type RoutingConfig struct {
	FallbackOrder []string             `yaml:"fallback_order"`
	RoutingRules  map[QueryType][]Rule `yaml:"routing_rules"`
	Keywords      KeywordConfig        `yaml:"classification_keywords"`
}

// KeywordConfig holds the substring lists used by the classifier.
type KeywordConfig struct {
	Technical []string `yaml:"technical"`
	Market    []string `yaml:"market"`
}

// DefaultRoutingConfig returns the built-in routing policy.
//
// Hybrid queries fall through to the market-side provider unless the
// context's focus says technical; the market bias on exact keyword ties
// is a deliberate policy choice.
func DefaultRoutingConfig() *RoutingConfig {
	return &RoutingConfig{
		FallbackOrder: []string{ProviderDocs, ProviderWebSearch, ProviderLLM},
		RoutingRules: map[QueryType][]Rule{
			QueryTechnical: {
				{Provider: ProviderDocs, Condition: CondAlways},
				{Provider: ProviderLLM, Condition: CondFallback},
			},
			QueryMarket: {
				{Provider: ProviderWebSearch, Condition: CondAlways},
				{Provider: ProviderLLM, Condition: CondFallback},
			},
			QueryCompetitive: {
				{Provider: ProviderWebSearch, Condition: CondAlways},
				{Provider: ProviderLLM, Condition: CondFallback},
			},
			QueryHybrid: {
				{Provider: ProviderDocs, Condition: CondTechnicalFocus},
				{Provider: ProviderWebSearch, Condition: CondAlways},
				{Provider: ProviderLLM, Condition: CondFallback},
			},
			QueryGeneral: {
				{Provider: ProviderLLM, Condition: CondAlways},
				{Provider: ProviderWebSearch, Condition: CondFallback},
			},
		},
		Keywords: KeywordConfig{
			Technical: []string{
				"api", "architecture", "framework", "library", "database",
				"code", "sdk", "implementation", "performance", "integration",
				"deployment", "infrastructure", "backend", "frontend",
				"security", "scalability", "latency", "react", "typescript",
				"kubernetes",
			},
			Market: []string{
				"market", "customer", "competitor", "competition", "pricing",
				"revenue", "demand", "industry", "audience", "segment",
				"trend", "growth", "monetization", "adoption", "business model",
			},
		},
	}
}

// Validate rejects configs that would strand the router: empty fallback
// order, rules naming no provider, or unknown conditions.
func (c *RoutingConfig) Validate() error {
	if len(c.FallbackOrder) == 0 {
		return fmt.Errorf("fallback_order must list at least one provider")
	}
	for qt, rules := range c.RoutingRules {
		for i, rule := range rules {
			if rule.Provider == "" {
				return fmt.Errorf("routing rule %d for %s has no provider", i, qt)
			}
			switch rule.Condition {
			case CondAlways, CondMarketFocus, CondTechnicalFocus, CondFallback:
			default:
				return fmt.Errorf("routing rule %d for %s has unknown condition %q", i, qt, rule.Condition)
			}
		}
	}
	return nil
}

// holds evaluates a rule condition against the query context.
func (cond Condition) holds(qctx QueryContext) bool {
	switch cond {
	case CondAlways:
		return true
	case CondTechnicalFocus:
		switch qctx.Focus {
		case "technical", "architecture", "implementation":
			return true
		}
		return len(qctx.Technologies) > 0
	case CondMarketFocus:
		switch qctx.Focus {
		case "market", "competitive", "competitors":
			return true
		}
		return qctx.TargetMarket != ""
	default:
		// fallback rules never match directly
		return false
	}
}

// stageQueryType maps workflow stages with an unambiguous research
// flavor to a classification.
func stageQueryType(stage types.Stage) (QueryType, bool) {
	switch stage {
	case types.StageTechnicalFeasibility:
		return QueryTechnical, true
	case types.StageMarketResearch:
		return QueryMarket, true
	}
	return "", false
}
