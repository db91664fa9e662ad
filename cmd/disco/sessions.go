package main

import (
	"fmt"
	"os"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/discokit/disco/internal/session"
	"github.com/discokit/disco/internal/types"
)

var sessionsStatus string

var sessionsCmd = &cobra.Command{
	Use:   "sessions",
	Short: "List discovery sessions",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		sessions, err := manager.List(cmd.Context())
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}

		if sessionsStatus != "" {
			want := types.SessionStatus(sessionsStatus)
			if !want.IsValid() {
				fmt.Fprintf(os.Stderr, "Error: unknown status %q\n", sessionsStatus)
				os.Exit(1)
			}
			filtered := sessions[:0]
			for _, s := range sessions {
				if s.Status == want {
					filtered = append(filtered, s)
				}
			}
			sessions = filtered
		}

		if len(sessions) == 0 {
			fmt.Println("No sessions. Start one with 'disco start \"My Project\"'.")
			return
		}

		cyan := color.New(color.FgCyan, color.Bold).SprintFunc()
		yellow := color.New(color.FgYellow).SprintFunc()
		fmt.Printf("\n%s\n\n", cyan("Discovery Sessions"))
		fmt.Printf("  %-10s %-24s %-10s %-8s %s\n", "ID", "PROJECT", "STATUS", "OVERALL", "UPDATED")
		for _, s := range sessions {
			progress := session.Progress(s)
			expired := ""
			if manager.IsExpired(s) {
				expired = "  " + yellow("(expired)")
			}
			fmt.Printf("  %-10s %-24s %-10s %6d%%  %s%s\n",
				s.ID[:8], truncateName(s.ProjectName, 24), statusColored(s.Status),
				progress.Overall, s.LastUpdated.Format("2006-01-02 15:04"), expired)
		}
		fmt.Println()
	},
}

var deleteCmd = &cobra.Command{
	Use:   "delete <session-id>",
	Short: "Delete a discovery session",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		s, err := resolveSession(cmd.Context(), args[0])
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		if err := repo.Delete(cmd.Context(), s.ID); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		green := color.New(color.FgGreen).SprintFunc()
		fmt.Printf("%s Deleted session %s (%s)\n", green("✓"), s.ID[:8], s.ProjectName)
	},
}

func statusColored(status types.SessionStatus) string {
	switch status {
	case types.SessionActive:
		return color.New(color.FgGreen).Sprint(string(status))
	case types.SessionCompleted:
		return color.New(color.FgCyan).Sprint(string(status))
	case types.SessionCancelled:
		return color.New(color.FgRed).Sprint(string(status))
	default:
		return color.New(color.FgYellow).Sprint(string(status))
	}
}

func truncateName(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n-3] + "..."
}

func init() {
	rootCmd.AddCommand(sessionsCmd)
	rootCmd.AddCommand(deleteCmd)
	sessionsCmd.Flags().StringVar(&sessionsStatus, "status", "", "Only show sessions with this status (active, paused, completed, cancelled)")
}
