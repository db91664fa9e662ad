package quality

import (
	"regexp"
	"strings"

	"github.com/discokit/disco/internal/types"
)

// Each criterion scorer is a pure function of the rendered document
// text, the structured document/session data, and the scoring config.
// Scores are clamped to 0-100.

func clamp(score int) int {
	if score > 100 {
		return 100
	}
	if score < 0 {
		return 0
	}
	return score
}

// keywordFraction returns how many keywords appear in the text as a
// 0..1 fraction.
func keywordFraction(text string, keywords []string) float64 {
	if len(keywords) == 0 {
		return 0
	}
	found := 0
	for _, kw := range keywords {
		if strings.Contains(text, strings.ToLower(kw)) {
			found++
		}
	}
	return float64(found) / float64(len(keywords))
}

func countOccurrences(text string, terms []string) int {
	n := 0
	for _, term := range terms {
		n += strings.Count(text, strings.ToLower(term))
	}
	return n
}

// scoreCompleteness: word-count banding (30) + expected-topic coverage
// (40) + requirement-count banding (30).
func scoreCompleteness(text string, doc *types.PRDDocument, cfg AssessConfig) int {
	lower := strings.ToLower(text)
	words := len(strings.Fields(text))
	reqCount := len(doc.Requirements.Functional) + len(doc.Requirements.NonFunctional)

	score := bandScore(words, cfg.WordCountBands)
	score += int(keywordFraction(lower, cfg.ExpectedTopics)*40 + 0.5)
	score += bandScore(reqCount, cfg.ReqCountBands)
	return clamp(score)
}

// headingPattern matches markdown headings at any level.
var headingPattern = regexp.MustCompile(`(?m)^#{1,6}\s`)

// scoreClarity: section-count banding (40) + heading-count banding (30)
// + normative-term banding (30).
func scoreClarity(text string, doc *types.PRDDocument, cfg AssessConfig) int {
	lower := strings.ToLower(text)
	headings := len(headingPattern.FindAllString(text, -1))

	score := bandScore(len(doc.Sections), cfg.SectionCountBands)
	score += bandScore(headings, cfg.HeadingCountBands)
	score += bandScore(countOccurrences(lower, cfg.NormativeTerms), cfg.NormativeBands)
	return clamp(score)
}

// scoreTechnical: technical-keyword coverage (40) + structured
// technical-validation session data (35, in fixed sub-increments) +
// performance/scalability keyword coverage (25).
func scoreTechnical(text string, session *types.DiscoverySession, cfg AssessConfig) int {
	lower := strings.ToLower(text)
	score := int(keywordFraction(lower, cfg.TechnicalKeywords)*40 + 0.5)

	if data := sessionStageData(session, types.StageTechnicalFeasibility); data != nil {
		if present(data["technologies"]) {
			score += 12
		}
		if present(data["architecture"]) {
			score += 12
		}
		if present(data["feasibility"]) {
			score += 11
		}
	}

	score += int(keywordFraction(lower, cfg.PerformanceKeywords)*25 + 0.5)
	return clamp(score)
}

// scoreMarket: market-keyword coverage (40) + market-research session
// data (35, all or nothing) + business-value keyword coverage (25).
func scoreMarket(text string, session *types.DiscoverySession, cfg AssessConfig) int {
	lower := strings.ToLower(text)
	score := int(keywordFraction(lower, cfg.MarketKeywords)*40 + 0.5)

	if hasMarketResearch(session) {
		score += 35
	}

	score += int(keywordFraction(lower, cfg.BusinessValueKeywords)*25 + 0.5)
	return clamp(score)
}

var (
	userStoryPattern  = regexp.MustCompile(`(?i)as an? [a-z ]+,? i (want|need|can)`)
	acceptancePattern = regexp.MustCompile(`(?i)acceptance criteria`)
)

// scoreRequirements: functional-count banding (40) + non-functional
// banding (30) + capped user-story/acceptance-criteria matches (30).
func scoreRequirements(text string, doc *types.PRDDocument, cfg AssessConfig) int {
	score := bandScore(len(doc.Requirements.Functional), cfg.FunctionalBands)
	score += bandScore(len(doc.Requirements.NonFunctional), cfg.NonFunctionalBands)

	patterns := len(userStoryPattern.FindAllString(text, -1)) +
		len(acceptancePattern.FindAllString(text, -1))
	pts := patterns * cfg.StoryPatternPoints
	if pts > cfg.StoryPatternCap {
		pts = cfg.StoryPatternCap
	}
	score += pts
	return clamp(score)
}

func sessionStageData(session *types.DiscoverySession, stage types.Stage) map[string]any {
	if session == nil {
		return nil
	}
	if sp := session.StageData(stage); sp != nil {
		return sp.Data
	}
	return nil
}

func present(v any) bool {
	switch val := v.(type) {
	case nil:
		return false
	case string:
		return strings.TrimSpace(val) != ""
	case []string:
		return len(val) > 0
	case []any:
		return len(val) > 0
	case map[string]any:
		return len(val) > 0
	default:
		return true
	}
}

func hasMarketResearch(session *types.DiscoverySession) bool {
	if session == nil {
		return false
	}
	if data := sessionStageData(session, types.StageMarketResearch); present(data["market_overview"]) || present(data["competitors"]) {
		return true
	}
	if len(session.ResearchData["market analysis"]) > 0 {
		return true
	}
	return false
}
