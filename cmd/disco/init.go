package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/discokit/disco/internal/research"
	"github.com/discokit/disco/internal/storage"
	"gopkg.in/yaml.v3"
)

var initWriteRouting bool

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Initialize discovery storage in the current directory",
	Long: `Initialize disco by creating a .disco/ directory with a session database.

This creates:
  - .disco/ directory
  - .disco/disco.db (SQLite database)

With --routing, also writes .disco/routing.yaml holding the default
research routing policy so it can be edited. The file is hot-reloaded;
edits take effect without restarting.

Example:
  cd ~/myproject
  disco init
  disco init --routing`,
	Args: cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		cwd, err := os.Getwd()
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: failed to get current directory: %v\n", err)
			os.Exit(1)
		}

		path := filepath.Join(cwd, storage.DefaultDBPath)
		if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}

		// Open and close once so the schema exists.
		ctx := context.Background()
		db, err := storage.NewRepository(ctx, &storage.Config{Path: path})
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: failed to initialize database: %v\n", err)
			os.Exit(1)
		}
		_ = db.Close()

		green := color.New(color.FgGreen).SprintFunc()
		cyan := color.New(color.FgCyan).SprintFunc()
		gray := color.New(color.FgHiBlack).SprintFunc()

		fmt.Printf("\n%s Initialized disco\n\n", green("✓"))
		fmt.Printf("  Database: %s\n", cyan(path))

		if initWriteRouting {
			routingPath := filepath.Join(cwd, research.DefaultRoutingConfigPath)
			if err := writeRoutingConfig(routingPath); err != nil {
				fmt.Fprintf(os.Stderr, "Warning: could not write routing config: %v\n", err)
			} else {
				fmt.Printf("  Routing:  %s\n", cyan(routingPath))
			}
		}

		fmt.Println()
		fmt.Printf("%s Next steps:\n", gray("→"))
		fmt.Printf("  %s\n", gray("disco start \"My Project\""))
		fmt.Printf("  %s\n", gray("disco repl"))
		fmt.Println()
	},
}

// writeRoutingConfig serializes the default routing policy. Refuses to
// clobber an existing file.
func writeRoutingConfig(path string) error {
	if _, err := os.Stat(path); err == nil {
		return fmt.Errorf("%s already exists", path)
	}
	data, err := yaml.Marshal(research.DefaultRoutingConfig())
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

func init() {
	rootCmd.AddCommand(initCmd)
	initCmd.Flags().BoolVar(&initWriteRouting, "routing", false, "Also write an editable .disco/routing.yaml")
}
