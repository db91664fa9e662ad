package main

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/discokit/disco/internal/session"
	"github.com/discokit/disco/internal/types"
)

var statusCmd = &cobra.Command{
	Use:   "status <session-id>",
	Short: "Show a session's progress through the workflow",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		s, err := resolveSession(cmd.Context(), args[0])
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}

		cyan := color.New(color.FgCyan, color.Bold).SprintFunc()
		green := color.New(color.FgGreen).SprintFunc()
		yellow := color.New(color.FgYellow).SprintFunc()
		gray := color.New(color.FgHiBlack).SprintFunc()

		progress := session.Progress(s)
		fmt.Printf("\n%s\n\n", cyan(s.ProjectName))
		fmt.Printf("  Session:  %s\n", s.ID)
		fmt.Printf("  Status:   %s\n", statusColored(s.Status))
		fmt.Printf("  Overall:  %d%%\n", progress.Overall)
		fmt.Printf("  Research: %d records\n", s.ResearchCount())
		fmt.Printf("  Updated:  %s\n", s.LastUpdated.Format("2006-01-02 15:04"))
		fmt.Println()

		for _, stage := range types.StageOrder {
			sp := s.StageData(stage)
			status := types.StageNotStarted
			score := 0
			if sp != nil {
				status = sp.Status
				score = sp.CompletionScore
			}

			var mark string
			switch status {
			case types.StageCompleted:
				mark = green("✓")
			case types.StageInProgress:
				mark = yellow("⚡")
			case types.StageSkipped:
				mark = gray("~")
			default:
				mark = gray("·")
			}
			fmt.Printf("  %s %-24s %3d%%  %s\n", mark, stage, score, status)
		}
		fmt.Println()

		if manager.IsExpired(s) {
			fmt.Printf("%s This session has expired; reads still work but updates are refused.\n\n", yellow("!"))
		}
	},
}

// resolveSession accepts a full session id or a unique prefix.
func resolveSession(ctx context.Context, idOrPrefix string) (*types.DiscoverySession, error) {
	if s, err := manager.Get(ctx, idOrPrefix); err == nil {
		return s, nil
	}

	sessions, err := manager.List(ctx)
	if err != nil {
		return nil, err
	}
	var match *types.DiscoverySession
	for _, s := range sessions {
		if strings.HasPrefix(s.ID, idOrPrefix) {
			if match != nil {
				return nil, fmt.Errorf("prefix %q matches more than one session", idOrPrefix)
			}
			match = s
		}
	}
	if match == nil {
		return nil, types.NotFound(idOrPrefix)
	}
	return match, nil
}

func init() {
	rootCmd.AddCommand(statusCmd)
}
