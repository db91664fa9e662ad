package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/discokit/disco/internal/types"
)

var stageCmd = &cobra.Command{
	Use:   "stage",
	Short: "Inspect and update workflow stages",
}

var stageSetStage string

var stageSetCmd = &cobra.Command{
	Use:   "set <session-id> <field> <value>",
	Short: "Record a field on a session's current stage",
	Long: `Record a data field on a stage. Without --stage the session's
current stage (first not yet completed or skipped) receives the value.

List fields take comma-separated values:
  disco stage set a1b2c3 pain_points "slow checkout, no saved carts"`,
	Args: cobra.MinimumNArgs(3),
	Run: func(cmd *cobra.Command, args []string) {
		s, err := resolveSession(cmd.Context(), args[0])
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}

		stage := activeStage(s)
		if stageSetStage != "" {
			stage = types.Stage(stageSetStage)
		}

		field := args[1]
		value := parseFieldValue(field, strings.Join(args[2:], " "))

		s, err = manager.UpdateStageProgress(cmd.Context(), s.ID, stage, map[string]any{field: value})
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}

		sp := s.StageData(stage)
		green := color.New(color.FgGreen).SprintFunc()
		fmt.Printf("%s Recorded %s on %s (stage now %d%%, %s)\n",
			green("✓"), field, stage, sp.CompletionScore, sp.Status)
	},
}

var stageShowCmd = &cobra.Command{
	Use:   "show <session-id>",
	Short: "Show what the current stage still needs",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		s, err := resolveSession(cmd.Context(), args[0])
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}

		stage := activeStage(s)
		req := manager.RequirementFor(stage)

		cyan := color.New(color.FgCyan, color.Bold).SprintFunc()
		green := color.New(color.FgGreen).SprintFunc()
		red := color.New(color.FgRed).SprintFunc()

		fmt.Printf("\n%s\n\n", cyan(fmt.Sprintf("Stage: %s", stage)))
		fmt.Printf("  Completion bar: %d%%\n\n", req.MinScore)

		sp := s.StageData(stage)
		for _, field := range req.RequiredFields {
			if sp != nil && sp.Data[field] != nil {
				fmt.Printf("  %s %s\n", green("✓"), field)
			} else {
				fmt.Printf("  %s %s\n", red("✗"), field)
			}
		}
		fmt.Println()

		if err := manager.CheckStageReady(s, stage); err != nil {
			fmt.Printf("Not ready to advance: %v\n\n", err)
		} else {
			fmt.Printf("%s Ready to advance.\n\n", green("✓"))
		}
	},
}

var stageAdvanceCmd = &cobra.Command{
	Use:   "advance <session-id>",
	Short: "Advance a session to the next stage",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		s, err := resolveSession(cmd.Context(), args[0])
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		before := activeStage(s)

		s, err = manager.Advance(cmd.Context(), s.ID)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}

		green := color.New(color.FgGreen).SprintFunc()
		fmt.Printf("%s %s complete. Now on %s.\n", green("✓"), before, activeStage(s))
	},
}

var stageSkipCmd = &cobra.Command{
	Use:   "skip <session-id>",
	Short: "Skip the session's current stage",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		s, err := resolveSession(cmd.Context(), args[0])
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		stage := activeStage(s)

		s, err = manager.SkipStage(cmd.Context(), s.ID, stage)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		// Skipping satisfies the readiness gate; move the session pointer too.
		s, err = manager.Advance(cmd.Context(), s.ID)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}

		yellow := color.New(color.FgYellow).SprintFunc()
		fmt.Printf("%s Skipped %s. Now on %s.\n", yellow("!"), stage, activeStage(s))
	},
}

// activeStage is the first stage neither completed nor skipped.
func activeStage(s *types.DiscoverySession) types.Stage {
	for _, stage := range types.StageOrder {
		sp := s.StageData(stage)
		if sp == nil || (sp.Status != types.StageCompleted && sp.Status != types.StageSkipped) {
			return stage
		}
	}
	return types.StageOrder[len(types.StageOrder)-1]
}

// listStageFields are recorded as string lists; everything else is a
// plain string.
var listStageFields = map[string]bool{
	"target_users":                true,
	"pain_points":                 true,
	"competitors":                 true,
	"technologies":                true,
	"functional_requirements":     true,
	"non_functional_requirements": true,
	"success_metrics":             true,
}

func parseFieldValue(field, raw string) any {
	if !listStageFields[field] {
		return raw
	}
	parts := strings.Split(raw, ",")
	items := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			items = append(items, p)
		}
	}
	return items
}

func init() {
	rootCmd.AddCommand(stageCmd)
	stageCmd.AddCommand(stageSetCmd)
	stageCmd.AddCommand(stageShowCmd)
	stageCmd.AddCommand(stageAdvanceCmd)
	stageCmd.AddCommand(stageSkipCmd)
	stageSetCmd.Flags().StringVar(&stageSetStage, "stage", "", "Target stage (default: the session's current stage)")
}
