package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/discokit/disco/internal/research"
	"github.com/discokit/disco/internal/types"
)

var (
	researchFocus   string
	researchDryRun  bool
	researchWatch   bool
	researchQueries []string
)

var researchCmd = &cobra.Command{
	Use:   "research <session-id> <query>",
	Short: "Run a research query through the provider router",
	Long: `Classify a query, route it to the best provider, and store the
result on the session.

Routing follows .disco/routing.yaml when present (hot-reloaded on edit)
and built-in defaults otherwise. With --dry-run the routing decision is
printed without calling any provider. Repeatable --query flags run a
concurrent batch instead of the positional query.

Example:
  disco research a1b2c3 "best React state management library"
  disco research a1b2c3 --query "market size" --query "competitor pricing"
  disco research a1b2c3 "GDPR requirements" --dry-run`,
	Args: cobra.MinimumNArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		s, err := resolveSession(cmd.Context(), args[0])
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}

		qctx := research.QueryContext{
			Stage:        activeStage(s),
			Focus:        researchFocus,
			ProjectType:  s.Metadata.ProjectType,
			Technologies: s.Metadata.TechStack,
			TargetMarket: s.Metadata.TargetMarket,
		}

		if researchWatch {
			if err := router.WatchConfig(cmd.Context()); err != nil {
				fmt.Fprintf(os.Stderr, "Warning: config watching unavailable: %v\n", err)
			}
		}

		if len(researchQueries) > 0 {
			runBatch(cmd, s, qctx)
			return
		}

		if len(args) < 2 {
			fmt.Fprintln(os.Stderr, "Error: a query is required (or use --query)")
			os.Exit(1)
		}
		query := strings.Join(args[1:], " ")

		if researchDryRun {
			d := router.Route(query, qctx)
			fmt.Printf("query type: %s\nprovider:   %s\nreason:     %s\n", d.QueryType, d.Provider, d.Explanation)
			return
		}

		rr, err := router.Execute(cmd.Context(), query, qctx)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}

		if _, err := manager.AddResearchData(cmd.Context(), s.ID, categoryFor(rr.Decision.QueryType), types.ResearchRecord{
			Query:    query,
			Provider: rr.Provider,
			Results:  rr.Result.Summary,
		}); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}

		cyan := color.New(color.FgCyan).SprintFunc()
		fmt.Printf("%s %s (%s)\n\n%s\n", cyan("via"), rr.Provider, rr.Decision.QueryType, rr.Result.Summary)
	},
}

func runBatch(cmd *cobra.Command, s *types.DiscoverySession, qctx research.QueryContext) {
	queries := make([]research.BatchQuery, len(researchQueries))
	for i, q := range researchQueries {
		queries[i] = research.BatchQuery{Query: q, Context: qctx}
	}

	results := router.ExecuteBatch(cmd.Context(), queries)

	green := color.New(color.FgGreen).SprintFunc()
	red := color.New(color.FgRed).SprintFunc()
	failed := 0
	for _, br := range results {
		if br.Err != nil {
			failed++
			fmt.Printf("%s %q: %v\n", red("✗"), br.Query, br.Err)
			continue
		}
		if _, err := manager.AddResearchData(cmd.Context(), s.ID, categoryFor(br.QueryType), types.ResearchRecord{
			Query:    br.Query,
			Provider: br.Provider,
			Results:  br.Result.Summary,
		}); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		fmt.Printf("%s %q via %s\n", green("✓"), br.Query, br.Provider)
	}

	fmt.Printf("\n%d succeeded, %d failed\n", len(results)-failed, failed)
	if failed == len(results) {
		os.Exit(1)
	}
}

func categoryFor(qt research.QueryType) string {
	switch qt {
	case research.QueryTechnical:
		return "technical documentation"
	case research.QueryMarket:
		return "market analysis"
	case research.QueryCompetitive:
		return "competitive analysis"
	case research.QueryHybrid:
		return "hybrid research"
	default:
		return "general research"
	}
}

func init() {
	rootCmd.AddCommand(researchCmd)
	researchCmd.Flags().StringVar(&researchFocus, "focus", "", "Override focus: competitive, market, or technical")
	researchCmd.Flags().BoolVar(&researchDryRun, "dry-run", false, "Print the routing decision without executing")
	researchCmd.Flags().BoolVar(&researchWatch, "watch-config", false, "Hot-reload routing config while running")
	researchCmd.Flags().StringArrayVar(&researchQueries, "query", nil, "Batch query (repeatable)")
}
