package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/discokit/disco/internal/types"
)

var (
	startProjectType string
	startComplexity  string
	startMarket      string
	startTechStack   []string
	startGoals       []string
)

var startCmd = &cobra.Command{
	Use:   "start <project name>",
	Short: "Start a new discovery session",
	Long: `Start a new discovery session for a project idea.

The session begins at the problem-discovery stage. Metadata captured
here steers research routing and template selection later.

Example:
  disco start "Acme Shop"
  disco start "Acme Shop" --type web --complexity high --tech go,postgres`,
	Args: cobra.MinimumNArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		name := strings.Join(args, " ")

		s, err := manager.Create(cmd.Context(), name, types.Metadata{
			ProjectType:   startProjectType,
			Complexity:    startComplexity,
			TargetMarket:  startMarket,
			TechStack:     startTechStack,
			BusinessGoals: startGoals,
		})
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}

		green := color.New(color.FgGreen).SprintFunc()
		cyan := color.New(color.FgCyan).SprintFunc()
		gray := color.New(color.FgHiBlack).SprintFunc()

		fmt.Printf("\n%s Started discovery session\n\n", green("✓"))
		fmt.Printf("  Session: %s\n", cyan(s.ID))
		fmt.Printf("  Project: %s\n", s.ProjectName)
		fmt.Printf("  Stage:   %s\n", types.StageProblemDiscovery)
		fmt.Println()
		fmt.Printf("%s Record findings with:\n", gray("→"))
		fmt.Printf("  %s\n", gray(fmt.Sprintf("disco stage set %s problem_statement \"...\"", s.ID[:8])))
		fmt.Println()
	},
}

func init() {
	rootCmd.AddCommand(startCmd)
	startCmd.Flags().StringVar(&startProjectType, "type", "", "Project type (web, api, mobile, platform, ...)")
	startCmd.Flags().StringVar(&startComplexity, "complexity", "", "Expected complexity: low, medium, or high")
	startCmd.Flags().StringVar(&startMarket, "market", "", "Target market description")
	startCmd.Flags().StringSliceVar(&startTechStack, "tech", nil, "Known technology constraints")
	startCmd.Flags().StringSliceVar(&startGoals, "goals", nil, "Business goals")
}
