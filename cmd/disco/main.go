package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/discokit/disco/internal/generator"
	"github.com/discokit/disco/internal/research"
	"github.com/discokit/disco/internal/research/providers"
	"github.com/discokit/disco/internal/session"
	"github.com/discokit/disco/internal/storage"
)

// Shared state wired up by the root command before any subcommand runs.
var (
	dbPath  string
	repo    storage.SessionRepository
	manager *session.Manager
	router  *research.Router
	gen     *generator.Generator
)

var rootCmd = &cobra.Command{
	Use:   "disco",
	Short: "Guided product discovery: problem to PRD in five stages",
	Long: `disco walks a product idea through a five-stage discovery workflow:
problem discovery, market research, technical feasibility, requirements
synthesis, and PRD generation.

Each stage collects structured data; research queries are routed to the
best provider automatically; the final PRD is scored for quality before
you hand it to stakeholders.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		switch cmd.Name() {
		case "init", "doctor", "help", "version", "completion":
			// These run before (or without) a database.
			return nil
		}
		return setup(cmd.Context())
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if repo != nil {
			_ = repo.Close()
		}
	},
}

// setup opens the database and builds the engine stack every command
// shares.
func setup(ctx context.Context) error {
	path := dbPath
	if path == "" {
		discovered, err := storage.DiscoverDatabase()
		if err != nil {
			return err
		}
		path = discovered
	}

	var err error
	repo, err = storage.NewRepository(ctx, &storage.Config{Path: path})
	if err != nil {
		return fmt.Errorf("opening session database: %w", err)
	}

	manager, err = session.NewManager(&session.Config{Repo: repo})
	if err != nil {
		return err
	}

	registry := research.NewRegistry()
	if err := providers.RegisterDefaults(registry, providers.Config{}); err != nil {
		return err
	}
	router, err = research.NewRouter(&research.RouterConfig{
		Registry: registry,
		Source:   research.FileSource{Path: research.DefaultRoutingConfigPath},
	})
	if err != nil {
		return err
	}

	gen, err = generator.New(manager)
	if err != nil {
		return err
	}
	return nil
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&dbPath, "db", "", "Path to session database (default: .disco/disco.db, or $DISCO_DB_PATH)")
}
