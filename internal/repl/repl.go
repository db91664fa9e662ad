// Package repl implements the interactive discovery shell. It drives a
// session through the workflow stages with short commands instead of
// one-shot CLI invocations.
package repl

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/chzyer/readline"
	"github.com/fatih/color"

	"github.com/discokit/disco/internal/generator"
	"github.com/discokit/disco/internal/research"
	"github.com/discokit/disco/internal/session"
	"github.com/discokit/disco/internal/types"
)

// REPL represents the interactive shell
type REPL struct {
	manager  *session.Manager
	router   *research.Router
	gen      *generator.Generator
	rl       *readline.Instance
	ctx      context.Context
	current  *types.DiscoverySession
	outDir   string
	commands map[string]CommandHandler
}

// CommandHandler handles a specific command
type CommandHandler func(args []string) error

// Config holds REPL configuration
type Config struct {
	Manager   *session.Manager
	Router    *research.Router
	Generator *generator.Generator
	OutputDir string // where generate writes PRDs, "" = current dir
}

// New creates a new REPL instance
func New(cfg *Config) (*REPL, error) {
	if cfg.Manager == nil {
		return nil, fmt.Errorf("session manager is required")
	}
	if cfg.Router == nil {
		return nil, fmt.Errorf("research router is required")
	}
	if cfg.Generator == nil {
		return nil, fmt.Errorf("generator is required")
	}

	outDir := cfg.OutputDir
	if outDir == "" {
		outDir = "."
	}

	r := &REPL{
		manager:  cfg.Manager,
		router:   cfg.Router,
		gen:      cfg.Generator,
		outDir:   outDir,
		commands: make(map[string]CommandHandler),
	}
	r.registerCommands()

	return r, nil
}

// Run starts the REPL loop
func (r *REPL) Run(ctx context.Context) error {
	r.ctx = ctx

	rl, err := readline.NewEx(&readline.Config{
		Prompt:            r.prompt(),
		HistoryFile:       "",
		InterruptPrompt:   "^C",
		EOFPrompt:         "exit",
		HistorySearchFold: true,
	})
	if err != nil {
		return fmt.Errorf("failed to create readline: %w", err)
	}
	defer rl.Close()

	r.rl = rl
	r.printWelcome()

	for {
		line, err := rl.Readline()
		if err != nil {
			if err == readline.ErrInterrupt {
				continue
			} else if err == io.EOF {
				fmt.Println("\nGoodbye!")
				return nil
			}
			return err
		}

		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}

		if err := r.processInput(line); err != nil {
			if err == io.EOF {
				return nil
			}
			red := color.New(color.FgRed).SprintFunc()
			fmt.Printf("%s %v\n", red("Error:"), err)
		}
		rl.SetPrompt(r.prompt())
	}
}

// prompt reflects the selected session so it's always clear which
// project a command will touch.
func (r *REPL) prompt() string {
	cyan := color.New(color.FgCyan).SprintFunc()
	if r.current == nil {
		return cyan("disco> ")
	}
	return cyan(fmt.Sprintf("disco(%s)> ", generator.Slug(r.current.ProjectName)))
}

// processInput processes a single line of input
func (r *REPL) processInput(line string) error {
	parts := strings.Fields(line)
	if len(parts) == 0 {
		return nil
	}

	command := parts[0]
	args := parts[1:]

	if handler, ok := r.commands[command]; ok {
		return handler(args)
	}

	yellow := color.New(color.FgYellow).SprintFunc()
	fmt.Printf("%s Unknown command %q. Use 'help' for available commands.\n", yellow("Note:"), command)
	return nil
}

// registerCommands registers all built-in commands
func (r *REPL) registerCommands() {
	r.commands["help"] = r.cmdHelp
	r.commands["?"] = r.cmdHelp
	r.commands["exit"] = r.cmdExit
	r.commands["quit"] = r.cmdExit
	r.commands["new"] = r.cmdNew
	r.commands["sessions"] = r.cmdSessions
	r.commands["use"] = r.cmdUse
	r.commands["status"] = r.cmdStatus
	r.commands["stage"] = r.cmdStage
	r.commands["set"] = r.cmdSet
	r.commands["advance"] = r.cmdAdvance
	r.commands["skip"] = r.cmdSkip
	r.commands["research"] = r.cmdResearch
	r.commands["generate"] = r.cmdGenerate
	r.commands["assess"] = r.cmdAssess
}

// printWelcome prints the welcome message
func (r *REPL) printWelcome() {
	cyan := color.New(color.FgCyan, color.Bold).SprintFunc()
	fmt.Printf("\n%s\n", cyan("Welcome to disco"))
	fmt.Println("Guided product discovery: problem to PRD in five stages")
	fmt.Println()
	fmt.Println("Type 'help' for available commands, 'exit' to quit")
	fmt.Println()
}

// cmdHelp shows help information
func (r *REPL) cmdHelp(args []string) error {
	cyan := color.New(color.FgCyan, color.Bold).SprintFunc()
	green := color.New(color.FgGreen).SprintFunc()
	fmt.Printf("\n%s\n\n", cyan("Available Commands:"))

	commands := []struct {
		name string
		desc string
	}{
		{"new <project name>", "Start a new discovery session"},
		{"sessions", "List sessions"},
		{"use <id>", "Select a session (id prefix is enough)"},
		{"status", "Show the selected session's progress"},
		{"stage", "Show the current stage and what it still needs"},
		{"set <field> <value>", "Record a field on the current stage"},
		{"advance", "Move to the next stage"},
		{"skip", "Skip the current stage"},
		{"research <query>", "Run a research query through the router"},
		{"generate [template]", "Generate the PRD document"},
		{"assess", "Score the generated PRD"},
		{"help, ?", "Show this help message"},
		{"exit, quit", "Exit the shell"},
	}
	for _, cmd := range commands {
		fmt.Printf("  %-22s %s\n", green(cmd.name), cmd.desc)
	}

	fmt.Println()
	fmt.Println("List fields accept comma-separated values:")
	fmt.Println("  set pain_points slow checkout, no saved carts")
	fmt.Println()
	return nil
}

// cmdExit exits the REPL
func (r *REPL) cmdExit(args []string) error {
	green := color.New(color.FgGreen).SprintFunc()
	fmt.Printf("\n%s Goodbye!\n", green("✓"))
	r.rl.Close()
	return io.EOF
}
