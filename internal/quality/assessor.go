package quality

import (
	"fmt"
	"math"
	"sort"
	"strings"

	"github.com/discokit/disco/internal/types"
)

// ReadinessMetrics are the derived go/no-go signals for a document.
type ReadinessMetrics struct {
	DevelopmentReady       bool     `json:"development_ready"`
	StakeholderReviewReady bool     `json:"stakeholder_review_ready"`
	TaskGenerationReady    bool     `json:"task_generation_ready"`
	ConfidenceLevel        string   `json:"confidence_level"` // high/medium/low
	EstimatedEffort        string   `json:"estimated_effort"` // low/medium/high
	PriorityAreas          []string `json:"priority_areas"`
}

// Assessment is the read-only result of scoring one document.
type Assessment struct {
	Criteria        map[string]int   `json:"criteria"` // per-criterion 0-100
	OverallScore    float64          `json:"overall_score"`
	QualityLevel    QualityLevel     `json:"quality_level"`
	Gaps            []string         `json:"gaps"`
	Recommendations []string         `json:"recommendations"`
	Readiness       ReadinessMetrics `json:"readiness"`
}

// Input bundles what the assessor scores: the rendered text plus the
// structured document and (optionally) the session it came from.
type Input struct {
	Document *types.PRDDocument
	Text     string
	Session  *types.DiscoverySession
}

// Assess scores a document against the five weighted criteria.
func Assess(in Input, cfg AssessConfig) (*Assessment, error) {
	if in.Document == nil {
		return nil, types.NewError(types.CodeQualityFailed, "document is required")
	}
	if strings.TrimSpace(in.Text) == "" {
		return nil, types.NewError(types.CodeQualityFailed, "document text is empty")
	}

	criteria := map[string]int{
		CriterionCompleteness: scoreCompleteness(in.Text, in.Document, cfg),
		CriterionClarity:      scoreClarity(in.Text, in.Document, cfg),
		CriterionTechnical:    scoreTechnical(in.Text, in.Session, cfg),
		CriterionMarket:       scoreMarket(in.Text, in.Session, cfg),
		CriterionRequirements: scoreRequirements(in.Text, in.Document, cfg),
	}

	w := cfg.Weights
	overall := float64(criteria[CriterionCompleteness])*w.Completeness +
		float64(criteria[CriterionClarity])*w.Clarity +
		float64(criteria[CriterionTechnical])*w.Technical +
		float64(criteria[CriterionMarket])*w.Market +
		float64(criteria[CriterionRequirements])*w.Requirements
	overall = math.Round(overall*10) / 10

	return &Assessment{
		Criteria:        criteria,
		OverallScore:    overall,
		QualityLevel:    cfg.levelFor(overall),
		Gaps:            identifyGaps(criteria, cfg),
		Recommendations: recommend(criteria, cfg),
		Readiness:       readiness(criteria, overall, cfg),
	}, nil
}

// gapStatements is the per-criterion gap text used when a criterion
// lands below the acceptability threshold.
var gapStatements = map[string]string{
	CriterionCompleteness: "the document is missing expected topics or is too thin to stand alone",
	CriterionClarity:      "the document structure is hard to follow; sections and normative language are sparse",
	CriterionTechnical:    "technical feasibility is under-evidenced; architecture and validation detail is missing",
	CriterionMarket:       "market validation is weak; no research data or market context backs the plan",
	CriterionRequirements: "requirements coverage is incomplete; functional and non-functional lists need work",
}

func identifyGaps(criteria map[string]int, cfg AssessConfig) []string {
	var gaps []string
	for _, name := range Criteria {
		if criteria[name] < cfg.GapThreshold {
			gaps = append(gaps, fmt.Sprintf("%s (%d/100): %s", name, criteria[name], gapStatements[name]))
		}
	}
	return gaps
}

var recommendations = map[string]string{
	CriterionCompleteness: "expand the document: cover problem, users, market, architecture, and metrics explicitly",
	CriterionClarity:      "restructure into clearly headed sections and state requirements with must/should language",
	CriterionTechnical:    "complete the technical feasibility stage: technologies, architecture, and a feasibility call",
	CriterionMarket:       "run market research queries and fold the findings into a market analysis section",
	CriterionRequirements: "add functional and non-functional requirements, ideally with user stories and acceptance criteria",
}

func recommend(criteria map[string]int, cfg AssessConfig) []string {
	var recs []string
	for _, name := range Criteria {
		if criteria[name] < cfg.GapThreshold {
			recs = append(recs, recommendations[name])
		}
	}
	return recs
}

func readiness(criteria map[string]int, overall float64, cfg AssessConfig) ReadinessMetrics {
	scores := make([]float64, 0, len(Criteria))
	for _, name := range Criteria {
		scores = append(scores, float64(criteria[name]))
	}
	mean, stddev := meanStddev(scores)

	confidence := "medium"
	switch {
	case mean >= 75 && stddev <= 12:
		confidence = "high"
	case mean < 55 || stddev > 25:
		confidence = "low"
	}

	weak := 0
	for _, s := range scores {
		if s < float64(cfg.EffortThreshold) {
			weak++
		}
	}
	effort := "low"
	switch {
	case weak >= 3:
		effort = "high"
	case weak >= 1:
		effort = "medium"
	}

	var priority []string
	for _, name := range Criteria {
		if criteria[name] < cfg.GapThreshold {
			priority = append(priority, name)
		}
	}
	sort.SliceStable(priority, func(i, j int) bool {
		return criteria[priority[i]] < criteria[priority[j]]
	})

	return ReadinessMetrics{
		DevelopmentReady:       overall >= float64(cfg.GoodMin),
		StakeholderReviewReady: overall >= float64(cfg.AcceptableMin),
		TaskGenerationReady:    overall >= float64(cfg.TaskReadyMin),
		ConfidenceLevel:        confidence,
		EstimatedEffort:        effort,
		PriorityAreas:          priority,
	}
}

func meanStddev(values []float64) (float64, float64) {
	if len(values) == 0 {
		return 0, 0
	}
	sum := 0.0
	for _, v := range values {
		sum += v
	}
	mean := sum / float64(len(values))
	variance := 0.0
	for _, v := range values {
		variance += (v - mean) * (v - mean)
	}
	return mean, math.Sqrt(variance / float64(len(values)))
}
