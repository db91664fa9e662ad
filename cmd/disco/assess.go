package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/discokit/disco/internal/generator"
	"github.com/discokit/disco/internal/quality"
)

var assessCmd = &cobra.Command{
	Use:   "assess <session-id>",
	Short: "Score a session's PRD against the quality criteria",
	Long: `Generate the PRD in memory and score it against five weighted
criteria: completeness, clarity, technical feasibility, market
validation, and requirements coverage.

The report includes gaps, recommendations, and readiness signals for
development, stakeholder review, and task generation.`,
	Args: cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		s, err := resolveSession(cmd.Context(), args[0])
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}

		out, err := gen.Generate(generator.Input{Session: s, IncludeResearch: true})
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}

		a, err := quality.Assess(quality.Input{
			Document: out.Document,
			Text:     out.Text,
			Session:  s,
		}, quality.DefaultAssessConfig())
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}

		printAssessment(a)
	},
}

func printAssessment(a *quality.Assessment) {
	cyan := color.New(color.FgCyan, color.Bold).SprintFunc()
	yellow := color.New(color.FgYellow).SprintFunc()

	fmt.Printf("\n%s\n\n", cyan("PRD Quality Assessment"))
	fmt.Printf("  Overall: %.1f/100 (%s)\n\n", a.OverallScore, levelColored(a.QualityLevel))
	for _, name := range quality.Criteria {
		fmt.Printf("  %-24s %3d\n", name, a.Criteria[name])
	}
	fmt.Println()

	if len(a.Gaps) > 0 {
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
	fmt.Printf("  Development:        %s\n", yesNo(a.Readiness.DevelopmentReady))
	fmt.Printf("  Stakeholder review: %s\n", yesNo(a.Readiness.StakeholderReviewReady))
	fmt.Printf("  Task generation:    %s\n", yesNo(a.Readiness.TaskGenerationReady))
	fmt.Printf("  Confidence: %s, estimated effort to improve: %s\n",
		a.Readiness.ConfidenceLevel, a.Readiness.EstimatedEffort)
	if len(a.Readiness.PriorityAreas) > 0 {
		fmt.Printf("  Priority areas: %s\n", strings.Join(a.Readiness.PriorityAreas, ", "))
	}
	fmt.Println()
}

func levelColored(level quality.QualityLevel) string {
	switch level {
	case quality.LevelExcellent, quality.LevelGood:
		return color.New(color.FgGreen).Sprint(string(level))
	case quality.LevelAcceptable:
		return color.New(color.FgYellow).Sprint(string(level))
	default:
		return color.New(color.FgRed).Sprint(string(level))
	}
}

func yesNo(ok bool) string {
	if ok {
		return color.New(color.FgGreen).Sprint("yes")
	}
	return color.New(color.FgRed).Sprint("no")
}

func init() {
	rootCmd.AddCommand(assessCmd)
}
