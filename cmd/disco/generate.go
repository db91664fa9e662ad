package main

import (
	"fmt"
	"os"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/discokit/disco/internal/generator"
	"github.com/discokit/disco/internal/template"
)

var (
	generateTemplate string
	generateOutDir   string
	generateResearch bool
)

var generateCmd = &cobra.Command{
	Use:   "generate <session-id>",
	Short: "Generate the PRD for a session",
	Long: `Generate a Product Requirements Document from a session.

The requirements-synthesis stage must be complete. The template is
selected from session metadata and requirement count unless --template
forces one of: ` + fmt.Sprint(template.Names()) + `.

Example:
  disco generate a1b2c3
  disco generate a1b2c3 --template technical-focused --out ./docs`,
	Args: cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		s, err := resolveSession(cmd.Context(), args[0])
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}

		out, err := gen.Generate(generator.Input{
			Session:         s,
			TemplateName:    generateTemplate,
			IncludeResearch: generateResearch,
			OutputDir:       generateOutDir,
		})
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}

		green := color.New(color.FgGreen).SprintFunc()
		cyan := color.New(color.FgCyan).SprintFunc()
		fmt.Printf("\n%s Generated PRD\n\n", green("✓"))
		fmt.Printf("  File:     %s\n", cyan(out.FilePath))
		fmt.Printf("  Template: %s\n", out.Document.Template)
		fmt.Printf("  Words:    %d\n", out.WordCount)
		fmt.Printf("  Sections: %d\n", out.SectionCount)
		fmt.Println()
	},
}

func init() {
	rootCmd.AddCommand(generateCmd)
	generateCmd.Flags().StringVar(&generateTemplate, "template", "", "Force a template instead of auto-selecting")
	generateCmd.Flags().StringVar(&generateOutDir, "out", ".", "Directory the PRD is written to")
	generateCmd.Flags().BoolVar(&generateResearch, "research", true, "Append the research appendix")
}
