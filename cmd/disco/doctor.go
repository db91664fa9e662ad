package main

import (
	"context"
	"fmt"
	"os"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/discokit/disco/internal/research"
	"github.com/discokit/disco/internal/research/providers"
	"github.com/discokit/disco/internal/storage"
)

var doctorVerbose bool

var doctorCmd = &cobra.Command{
	Use:   "doctor",
	Short: "Check disco installation and environment health",
	Long: `Run health checks to diagnose common disco configuration issues.

This command checks for:
- Session database existence and accessibility
- Routing configuration validity
- Research provider availability (API key, per-provider disable flags)

Exit codes:
  0 - All checks passed
  1 - One or more checks failed (but not critical)
  2 - Critical failures that prevent disco from running`,
	Run: func(cmd *cobra.Command, args []string) {
		green := color.New(color.FgGreen).SprintFunc()
		red := color.New(color.FgRed).SprintFunc()
		yellow := color.New(color.FgYellow).SprintFunc()
		cyan := color.New(color.FgCyan).SprintFunc()

		fmt.Printf("Running disco health checks...\n\n")

		var failures []string
		var criticalFailures []string

		// Check 1: Database discovery
		fmt.Printf("%s Database discovery\n", cyan("→"))
		path := dbPath
		if path == "" {
			discovered, err := storage.DiscoverDatabase()
			if err != nil {
				criticalFailures = append(criticalFailures, fmt.Sprintf("No database found: %v", err))
				fmt.Printf("  %s No database found\n", red("✗"))
				if doctorVerbose {
					fmt.Printf("    Error: %v\n", err)
				}
			} else {
				path = discovered
				fmt.Printf("  %s Found database: %s\n", green("✓"), path)
			}
		} else {
			fmt.Printf("  %s Using explicit database: %s\n", green("✓"), path)
		}

		// Check 2: Database accessibility
		if path != "" {
			fmt.Printf("%s Database access\n", cyan("→"))
			db, err := storage.NewRepository(context.Background(), &storage.Config{Path: path})
			if err != nil {
				criticalFailures = append(criticalFailures, fmt.Sprintf("Cannot open database: %v", err))
				fmt.Printf("  %s Cannot open database\n", red("✗"))
				if doctorVerbose {
					fmt.Printf("    Error: %v\n", err)
				}
			} else {
				sessions, err := db.List(context.Background())
				if err != nil {
					failures = append(failures, fmt.Sprintf("Database query failed: %v", err))
					fmt.Printf("  %s Database query failed\n", red("✗"))
				} else {
					fmt.Printf("  %s Database readable (%d sessions)\n", green("✓"), len(sessions))
				}
				_ = db.Close()
			}
		}

		// Check 3: Routing configuration
		fmt.Printf("%s Routing configuration\n", cyan("→"))
		source := research.FileSource{Path: research.DefaultRoutingConfigPath}
		if cfg, err := source.Load(); err != nil {
			failures = append(failures, fmt.Sprintf("Routing config invalid: %v", err))
			fmt.Printf("  %s %s is invalid\n", red("✗"), research.DefaultRoutingConfigPath)
			if doctorVerbose {
				fmt.Printf("    Error: %v\n", err)
			}
		} else if _, statErr := os.Stat(research.DefaultRoutingConfigPath); statErr != nil {
			fmt.Printf("  %s Using built-in routing defaults (no %s)\n", green("✓"), research.DefaultRoutingConfigPath)
		} else {
			fmt.Printf("  %s Loaded %s (%d query types)\n", green("✓"), research.DefaultRoutingConfigPath, len(cfg.RoutingRules))
		}

		// Check 4: Provider availability
		fmt.Printf("%s Research providers\n", cyan("→"))
		if os.Getenv("ANTHROPIC_API_KEY") == "" {
			failures = append(failures, "ANTHROPIC_API_KEY not set; research commands will fail")
			fmt.Printf("  %s ANTHROPIC_API_KEY not set\n", yellow("⚠"))
		} else {
			fmt.Printf("  %s ANTHROPIC_API_KEY set\n", green("✓"))
		}
		registry := research.NewRegistry()
		if err := providers.RegisterDefaults(registry, providers.Config{}); err != nil {
			failures = append(failures, fmt.Sprintf("Provider registration failed: %v", err))
			fmt.Printf("  %s Provider registration failed\n", red("✗"))
		} else {
			for _, name := range []string{research.ProviderDocs, research.ProviderWebSearch, research.ProviderLLM} {
				adapter, _ := registry.Get(name)
				if adapter != nil && adapter.IsAvailable(context.Background()) {
					fmt.Printf("  %s %s available\n", green("✓"), name)
				} else {
					fmt.Printf("  %s %s unavailable\n", yellow("⚠"), name)
				}
			}
		}

		// Summary
		fmt.Println()
		switch {
		case len(criticalFailures) > 0:
			fmt.Printf("%s Critical failures prevent disco from running\n", red("✗"))
			for _, f := range criticalFailures {
				fmt.Printf("  - %s\n", f)
			}
			os.Exit(2)
		case len(failures) > 0:
			fmt.Printf("%s Some checks failed\n", yellow("⚠"))
			for _, f := range failures {
				fmt.Printf("  - %s\n", f)
			}
			os.Exit(1)
		default:
			fmt.Printf("%s All checks passed\n", green("✓"))
		}
	},
}

func init() {
	rootCmd.AddCommand(doctorCmd)
	doctorCmd.Flags().BoolVar(&doctorVerbose, "verbose", false, "Show error details for failed checks")
}
