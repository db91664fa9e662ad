// Package quality scores a generated PRD against five weighted criteria
// and derives gaps, recommendations, and readiness metrics. Scoring
// rules are data (AssessConfig), not code, so thresholds can be tuned
// without touching the scorers.
package quality

// Criterion names, also used as map keys in assessments.
const (
	CriterionCompleteness = "completeness"
	CriterionClarity      = "clarity"
	CriterionTechnical    = "technical-feasibility"
	CriterionMarket       = "market-validation"
	CriterionRequirements = "requirements-coverage"
)

// Criteria is the fixed scoring order (stable output for reports).
var Criteria = []string{
	CriterionCompleteness,
	CriterionClarity,
	CriterionTechnical,
	CriterionMarket,
	CriterionRequirements,
}

// Band awards Points once a counted signal reaches Min. Bands must be
// sorted ascending by Min; lookup takes the highest band reached, so
// banding is monotonic non-decreasing by construction.
type Band struct {
	Min    int
	Points int
}

// bandScore returns the points for the highest band value reaches.
func bandScore(value int, bands []Band) int {
	points := 0
	for _, b := range bands {
		if value >= b.Min {
			points = b.Points
		}
	}
	return points
}

// Weights is the criterion weight vector; entries sum to 1.0.
type Weights struct {
	Completeness float64
	Clarity      float64
	Technical    float64
	Market       float64
	Requirements float64
}

// AssessConfig carries every threshold, band, and keyword list the
// scorers consult.
type AssessConfig struct {
	Weights Weights

	// Quality level boundaries (inclusive minimums).
	ExcellentMin        int
	GoodMin             int
	AcceptableMin       int
	NeedsImprovementMin int

	// GapThreshold: criteria scoring below it contribute a gap and a
	// priority area.
	GapThreshold int

	// TaskReadyMin is the separate, slightly lower bar for task
	// generation readiness.
	TaskReadyMin int

	// EffortThreshold: criteria below it count toward estimated effort.
	EffortThreshold int

	// Completeness inputs.
	WordCountBands []Band
	ExpectedTopics []string
	ReqCountBands  []Band

	// Clarity inputs.
	SectionCountBands []Band
	HeadingCountBands []Band
	NormativeTerms    []string
	NormativeBands    []Band

	// Technical feasibility inputs.
	TechnicalKeywords   []string
	PerformanceKeywords []string

	// Market validation inputs.
	MarketKeywords        []string
	BusinessValueKeywords []string

	// Requirements coverage inputs.
	FunctionalBands    []Band
	NonFunctionalBands []Band
	StoryPatternPoints int // per matched user-story/acceptance pattern
	StoryPatternCap    int
}

// DefaultAssessConfig returns the built-in scoring policy.
func DefaultAssessConfig() AssessConfig {
	return AssessConfig{
		Weights: Weights{
			Completeness: 0.25,
			Clarity:      0.20,
			Technical:    0.20,
			Market:       0.15,
			Requirements: 0.20,
		},
		ExcellentMin:        90,
		GoodMin:             75,
		AcceptableMin:       60,
		NeedsImprovementMin: 40,
		GapThreshold:        70,
		TaskReadyMin:        55,
		EffortThreshold:     60,

		WordCountBands: []Band{
			{Min: 100, Points: 5}, {Min: 300, Points: 12}, {Min: 600, Points: 18},
			{Min: 1200, Points: 24}, {Min: 2000, Points: 30},
		},
		ExpectedTopics: []string{"problem", "user", "market", "requirement", "architecture", "metric"},
		ReqCountBands: []Band{
			{Min: 1, Points: 6}, {Min: 3, Points: 12}, {Min: 5, Points: 18},
			{Min: 8, Points: 24}, {Min: 12, Points: 30},
		},

		SectionCountBands: []Band{
			{Min: 1, Points: 8}, {Min: 3, Points: 16}, {Min: 4, Points: 24},
			{Min: 6, Points: 32}, {Min: 8, Points: 40},
		},
		HeadingCountBands: []Band{
			{Min: 1, Points: 6}, {Min: 4, Points: 14}, {Min: 6, Points: 20},
			{Min: 8, Points: 26}, {Min: 10, Points: 30},
		},
		NormativeTerms: []string{"must", "should", "shall", "will", "required"},
		NormativeBands: []Band{
			{Min: 1, Points: 5}, {Min: 3, Points: 10}, {Min: 6, Points: 16},
			{Min: 12, Points: 24}, {Min: 20, Points: 30},
		},

		TechnicalKeywords: []string{
			"architecture", "api", "database", "performance", "security", "integration",
		},
		PerformanceKeywords: []string{"performance", "latency", "scalab", "throughput"},

		MarketKeywords:        []string{"market", "customer", "competitor", "segment", "pricing"},
		BusinessValueKeywords: []string{"revenue", "cost", "value", "growth", "retention"},

		FunctionalBands: []Band{
			{Min: 1, Points: 10}, {Min: 3, Points: 20}, {Min: 5, Points: 28},
			{Min: 8, Points: 34}, {Min: 12, Points: 40},
		},
		NonFunctionalBands: []Band{
			{Min: 1, Points: 12}, {Min: 3, Points: 24}, {Min: 5, Points: 30},
		},
		StoryPatternPoints: 10,
		StoryPatternCap:    30,
	}
}

// QualityLevel buckets an overall score.
type QualityLevel string

const (
	LevelExcellent        QualityLevel = "excellent"
	LevelGood             QualityLevel = "good"
	LevelAcceptable       QualityLevel = "acceptable"
	LevelNeedsImprovement QualityLevel = "needs-improvement"
	LevelPoor             QualityLevel = "poor"
)

// levelFor maps an overall score to its quality level.
func (c AssessConfig) levelFor(score float64) QualityLevel {
	switch {
	case score >= float64(c.ExcellentMin):
		return LevelExcellent
	case score >= float64(c.GoodMin):
		return LevelGood
	case score >= float64(c.AcceptableMin):
		return LevelAcceptable
	case score >= float64(c.NeedsImprovementMin):
		return LevelNeedsImprovement
	default:
		return LevelPoor
	}
}
