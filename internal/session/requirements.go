package session

import "github.com/discokit/disco/internal/types"

// StageRequirement describes what a stage needs before it counts as
// complete: the required field checklist and the minimum completion
// score. The table is static config; it gates both stage transitions
// and PRD generation.
type StageRequirement struct {
	RequiredFields []string
	MinScore       int
}

// DefaultStageRequirements returns the built-in per-stage requirement
// table.
func DefaultStageRequirements() map[types.Stage]StageRequirement {
	return map[types.Stage]StageRequirement{
		types.StageProblemDiscovery: {
			RequiredFields: []string{"problem_statement", "target_users", "pain_points"},
			MinScore:       70,
		},
		types.StageMarketResearch: {
			RequiredFields: []string{"market_overview", "competitors"},
			MinScore:       60,
		},
		types.StageTechnicalFeasibility: {
			RequiredFields: []string{"technologies", "architecture", "feasibility"},
			MinScore:       70,
		},
		types.StageRequirementsSynthesis: {
			RequiredFields: []string{"functional_requirements", "non_functional_requirements", "success_metrics"},
			MinScore:       80,
		},
		types.StagePRDGeneration: {
			RequiredFields: []string{"generated_document"},
			MinScore:       50,
		},
	}
}

// fieldPresent reports whether a stage data value counts toward the
// completion score. Empty strings, slices, and maps do not.
func fieldPresent(v any) bool {
	switch val := v.(type) {
	case nil:
		return false
	case string:
		return val != ""
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

// completionScore computes the 0-100 score for a stage's data: each
// present, non-empty required field contributes an equal share.
func completionScore(data map[string]any, req StageRequirement) int {
	if len(req.RequiredFields) == 0 {
		return 100
	}
	present := 0
	for _, field := range req.RequiredFields {
		if fieldPresent(data[field]) {
			present++
		}
	}
	return (present*100 + len(req.RequiredFields)/2) / len(req.RequiredFields)
}

// missingFields lists required fields absent or empty in data, in
// requirement order.
func missingFields(data map[string]any, req StageRequirement) []string {
	var missing []string
	for _, field := range req.RequiredFields {
		if !fieldPresent(data[field]) {
			missing = append(missing, field)
		}
	}
	return missing
}
