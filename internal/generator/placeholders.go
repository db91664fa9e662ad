package generator

import (
	"fmt"
	"strings"

	"github.com/discokit/disco/internal/types"
)

// MissingPlaceholder is substituted for any placeholder the session has
// no data for. Generation never fails on missing optional data.
const MissingPlaceholder = "_To be defined._"

// Placeholders flattens a session's stage data into the key -> text map
// consumed by template substitution.
func Placeholders(session *types.DiscoverySession) map[string]string {
	p := make(map[string]string)

	problem := stageData(session, types.StageProblemDiscovery)
	p["problem_statement"] = textField(problem, "problem_statement")
	p["target_users"] = listOrText(problem, "target_users")
	p["pain_points"] = bulletField(problem, "pain_points")

	market := stageData(session, types.StageMarketResearch)
	p["market_overview"] = textField(market, "market_overview")
	p["competitors"] = bulletField(market, "competitors")

	tech := stageData(session, types.StageTechnicalFeasibility)
	p["technologies"] = inlineListField(tech, "technologies")
	p["architecture"] = textField(tech, "architecture")
	p["feasibility"] = textField(tech, "feasibility")

	reqs := stageData(session, types.StageRequirementsSynthesis)
	p["functional_requirements"] = numberedField(reqs, "functional_requirements")
	p["non_functional_requirements"] = numberedField(reqs, "non_functional_requirements")
	p["success_metrics"] = bulletField(reqs, "success_metrics")
	p["timeline"] = textField(reqs, "timeline")

	p["constraints"] = inlineList(session.Metadata.Constraints)
	p["business_goals"] = inlineList(session.Metadata.BusinessGoals)
	p["executive_summary"] = executiveSummary(session, p["problem_statement"])

	return p
}

func stageData(session *types.DiscoverySession, stage types.Stage) map[string]any {
	if sp := session.StageData(stage); sp != nil {
		return sp.Data
	}
	return nil
}

// executiveSummary composes a short summary from what the session knows;
// it degrades to the placeholder when nothing useful is present.
func executiveSummary(session *types.DiscoverySession, problem string) string {
	if problem == MissingPlaceholder {
		return MissingPlaceholder
	}
	summary := fmt.Sprintf("%s addresses the following problem: %s", session.ProjectName, problem)
	if goals := session.Metadata.BusinessGoals; len(goals) > 0 {
		summary += fmt.Sprintf("\n\nBusiness goals: %s.", strings.Join(goals, "; "))
	}
	return summary
}

// StringList coerces loosely-typed stage data into a string slice.
// Stage data arrives as map[string]any after JSON round-trips, so list
// fields may be []string, []any, or a newline-joined string.
func StringList(v any) []string {
	switch val := v.(type) {
	case nil:
		return nil
	case []string:
		return val
	case []any:
		out := make([]string, 0, len(val))
		for _, item := range val {
			s := strings.TrimSpace(fmt.Sprintf("%v", item))
			if s != "" {
				out = append(out, s)
			}
		}
		return out
	case string:
		var out []string
		for _, line := range strings.Split(val, "\n") {
			if line = strings.TrimSpace(line); line != "" {
				out = append(out, line)
			}
		}
		return out
	default:
		return []string{fmt.Sprintf("%v", val)}
	}
}

func textField(data map[string]any, key string) string {
	if data == nil {
		return MissingPlaceholder
	}
	if s, ok := data[key].(string); ok && strings.TrimSpace(s) != "" {
		return strings.TrimSpace(s)
	}
	if items := StringList(data[key]); len(items) > 0 {
		return strings.Join(items, " ")
	}
	return MissingPlaceholder
}

func listOrText(data map[string]any, key string) string {
	if data == nil {
		return MissingPlaceholder
	}
	if items := StringList(data[key]); len(items) > 0 {
		return strings.Join(items, ", ")
	}
	return MissingPlaceholder
}

func bulletField(data map[string]any, key string) string {
	if data == nil {
		return MissingPlaceholder
	}
	items := StringList(data[key])
	if len(items) == 0 {
		return MissingPlaceholder
	}
	var b strings.Builder
	for _, item := range items {
		fmt.Fprintf(&b, "- %s\n", item)
	}
	return strings.TrimRight(b.String(), "\n")
}

func numberedField(data map[string]any, key string) string {
	if data == nil {
		return MissingPlaceholder
	}
	items := StringList(data[key])
	if len(items) == 0 {
		return MissingPlaceholder
	}
	var b strings.Builder
	for i, item := range items {
		fmt.Fprintf(&b, "%d. %s\n", i+1, item)
	}
	return strings.TrimRight(b.String(), "\n")
}

func inlineListField(data map[string]any, key string) string {
	if data == nil {
		return MissingPlaceholder
	}
	return inlineList(StringList(data[key]))
}

func inlineList(items []string) string {
	if len(items) == 0 {
		return MissingPlaceholder
	}
	return strings.Join(items, ", ")
}
