package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/discokit/disco/internal/repl"
)

var replOutDir string

var replCmd = &cobra.Command{
	Use:   "repl",
	Short: "Start the interactive discovery shell",
	Long: `Start an interactive shell for working a session through the
discovery stages without retyping session ids.

Inside the shell:
- 'new <project name>' starts a session
- 'set <field> <value>' records stage data
- 'research <query>' routes a query and stores the answer
- 'generate' and 'assess' produce and score the PRD

Type 'help' in the shell for all commands.`,
	Run: func(cmd *cobra.Command, args []string) {
		r, err := repl.New(&repl.Config{
			Manager:   manager,
			Router:    router,
			Generator: gen,
			OutputDir: replOutDir,
		})
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: failed to create shell: %v\n", err)
			os.Exit(1)
		}

		// Routing edits apply live for the whole shell session.
		if err := router.WatchConfig(cmd.Context()); err != nil {
			fmt.Fprintf(os.Stderr, "Warning: config watching unavailable: %v\n", err)
		}

		if err := r.Run(cmd.Context()); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
	},
}

func init() {
	rootCmd.AddCommand(replCmd)
	replCmd.Flags().StringVar(&replOutDir, "out", ".", "Directory generated PRDs are written to")
}
