package repl

import (
	"fmt"
	"strings"

	"github.com/fatih/color"

	"github.com/discokit/disco/internal/quality"
	"github.com/discokit/disco/internal/session"
	"github.com/discokit/disco/internal/types"
)

// cmdStatus shows the selected session's progress across all stages.
func (r *REPL) cmdStatus(args []string) error {
	s, err := r.requireSession()
	if err != nil {
		return err
	}

	cyan := color.New(color.FgCyan, color.Bold).SprintFunc()
	progress := session.Progress(s)

	fmt.Printf("\n%s\n\n", cyan(s.ProjectName))
	fmt.Printf("  Session:  %s\n", s.ID)
	fmt.Printf("  Status:   %s\n", s.Status)
	fmt.Printf("  Overall:  %d%%\n", progress.Overall)
	fmt.Printf("  Research: %d records\n", s.ResearchCount())
	fmt.Println()

	active := currentStage(s)
	for _, stage := range types.StageOrder {
		sp := s.StageData(stage)
		status := types.StageNotStarted
		score := 0
		if sp != nil {
			status = sp.Status
			score = sp.CompletionScore
		}

		marker := " "
		if stage == active {
			marker = "→"
		}
		fmt.Printf("  %s %s %-24s %3d%%  %s\n", marker, stageGlyph(status), stage, score, status)
	}
	fmt.Println()
	return nil
}

func stageGlyph(status types.StageStatus) string {
	switch status {
	case types.StageCompleted:
		return color.New(color.FgGreen).Sprint("✓")
	case types.StageInProgress:
		return color.New(color.FgYellow).Sprint("⚡")
	case types.StageSkipped:
		return color.New(color.FgHiBlack).Sprint("~")
	default:
		return color.New(color.FgHiBlack).Sprint("·")
	}
}

// cmdStage shows what the current stage still needs before advancing.
func (r *REPL) cmdStage(args []string) error {
	s, err := r.requireSession()
	if err != nil {
		return err
	}

	stage := currentStage(s)
	req := r.manager.RequirementFor(stage)

	cyan := color.New(color.FgCyan, color.Bold).SprintFunc()
	green := color.New(color.FgGreen).SprintFunc()
	red := color.New(color.FgRed).SprintFunc()

	fmt.Printf("\n%s\n\n", cyan(fmt.Sprintf("Stage: %s", stage)))
	fmt.Printf("  Completion bar: %d%%\n\n", req.MinScore)

	sp := s.StageData(stage)
	for _, field := range req.RequiredFields {
		have := sp != nil && fieldRecorded(sp.Data, field)
		if have {
			fmt.Printf("  %s %s\n", green("✓"), field)
		} else {
			fmt.Printf("  %s %s\n", red("✗"), field)
		}
	}
	fmt.Println()

	if err := r.manager.CheckStageReady(s, stage); err != nil {
		fmt.Printf("Not ready to advance: %v\n\n", err)
	} else {
		fmt.Printf("%s Ready to advance.\n\n", green("✓"))
	}
	return nil
}

func fieldRecorded(data map[string]any, field string) bool {
	if data == nil {
		return false
	}
	switch v := data[field].(type) {
	case nil:
		return false
	case string:
		return strings.TrimSpace(v) != ""
	case []string:
		return len(v) > 0
	case []any:
		return len(v) > 0
	default:
		return true
	}
}

// printAssessment renders a quality assessment.
func printAssessment(a *quality.Assessment) {
	cyan := color.New(color.FgCyan, color.Bold).SprintFunc()

	fmt.Printf("\n%s\n\n", cyan("PRD Quality Assessment"))
	fmt.Printf("  Overall: %.1f/100 (%s)\n\n", a.OverallScore, levelColor(a.QualityLevel))

	for _, name := range quality.Criteria {
		fmt.Printf("  %-24s %3d\n", name, a.Criteria[name])
	}
	fmt.Println()

	if len(a.Gaps) > 0 {
		yellow := color.New(color.FgYellow).SprintFunc()
		fmt.Printf("%s\n", yellow("Gaps:"))
		for _, gap := range a.Gaps {
			fmt.Printf("  - %s\n", gap)
		}
		fmt.Println()
	}
	if len(a.Recommendations) > 0 {
		fmt.Println("Recommendations:")
		for _, rec := range a.Recommendations {
			fmt.Printf("  - %s\n", rec)
		}
		fmt.Println()
	}

	fmt.Println("Readiness:")
	fmt.Printf("  Development:        %s\n", readyMark(a.Readiness.DevelopmentReady))
	fmt.Printf("  Stakeholder review: %s\n", readyMark(a.Readiness.StakeholderReviewReady))
	fmt.Printf("  Task generation:    %s\n", readyMark(a.Readiness.TaskGenerationReady))
	fmt.Printf("  Confidence: %s, estimated effort to improve: %s\n",
		a.Readiness.ConfidenceLevel, a.Readiness.EstimatedEffort)
	if len(a.Readiness.PriorityAreas) > 0 {
		fmt.Printf("  Priority areas: %s\n", strings.Join(a.Readiness.PriorityAreas, ", "))
	}
	fmt.Println()
}

func levelColor(level quality.QualityLevel) string {
	switch level {
	case quality.LevelExcellent, quality.LevelGood:
		return color.New(color.FgGreen).Sprint(string(level))
	case quality.LevelAcceptable:
		return color.New(color.FgYellow).Sprint(string(level))
	default:
		return color.New(color.FgRed).Sprint(string(level))
	}
}

func readyMark(ok bool) string {
	if ok {
		return color.New(color.FgGreen).Sprint("yes")
	}
	return color.New(color.FgRed).Sprint("no")
}
