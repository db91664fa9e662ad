package repl

import (
	"fmt"
	"strings"

	"github.com/fatih/color"

	"github.com/discokit/disco/internal/generator"
	"github.com/discokit/disco/internal/quality"
	"github.com/discokit/disco/internal/research"
	"github.com/discokit/disco/internal/types"
)

func (r *REPL) cmdNew(args []string) error {
	if len(args) == 0 {
		return fmt.Errorf("usage: new <project name>")
	}
	name := strings.Join(args, " ")

	s, err := r.manager.Create(r.ctx, name, types.Metadata{})
	if err != nil {
		return err
	}
	r.current = s

	green := color.New(color.FgGreen).SprintFunc()
	fmt.Printf("%s Created session %s for %q\n", green("✓"), s.ID, s.ProjectName)
	fmt.Printf("  Starting stage: %s\n", types.StageProblemDiscovery)
	return nil
}

func (r *REPL) cmdSessions(args []string) error {
	sessions, err := r.manager.List(r.ctx)
	if err != nil {
		return err
	}
	if len(sessions) == 0 {
		fmt.Println("No sessions yet. Start one with 'new <project name>'.")
		return nil
	}
	for _, s := range sessions {
		marker := " "
		if r.current != nil && s.ID == r.current.ID {
			marker = "*"
		}
		fmt.Printf("%s %s  %-24s %-10s %s\n",
			marker, s.ID[:8], s.ProjectName, s.Status, s.LastUpdated.Format("2006-01-02 15:04"))
	}
	return nil
}

func (r *REPL) cmdUse(args []string) error {
	if len(args) != 1 {
		return fmt.Errorf("usage: use <session id>")
	}
	s, err := r.findSession(args[0])
	if err != nil {
		return err
	}
	r.current = s
	fmt.Printf("Using session %s (%s)\n", s.ID[:8], s.ProjectName)
	return nil
}

// findSession resolves a full id or unique prefix.
func (r *REPL) findSession(idOrPrefix string) (*types.DiscoverySession, error) {
	if s, err := r.manager.Get(r.ctx, idOrPrefix); err == nil {
		return s, nil
	}
	sessions, err := r.manager.List(r.ctx)
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

func (r *REPL) requireSession() (*types.DiscoverySession, error) {
	if r.current == nil {
		return nil, fmt.Errorf("no session selected; use 'new' or 'use <id>' first")
	}
	// Refresh; another process may have advanced the session.
	s, err := r.manager.Get(r.ctx, r.current.ID)
	if err != nil {
		return nil, err
	}
	r.current = s
	return s, nil
}

// currentStage is the first stage that is neither completed nor
// skipped. A fully worked session lands on the last stage.
func currentStage(s *types.DiscoverySession) types.Stage {
	for _, stage := range types.StageOrder {
		sp := s.StageData(stage)
		if sp == nil {
			return stage
		}
		if sp.Status != types.StageCompleted && sp.Status != types.StageSkipped {
			return stage
		}
	}
	return types.StageOrder[len(types.StageOrder)-1]
}

// listFields are stage data fields recorded as string lists.
var listFields = map[string]bool{
	"target_users":                true,
	"pain_points":                 true,
	"competitors":                 true,
	"technologies":                true,
	"functional_requirements":     true,
	"non_functional_requirements": true,
	"success_metrics":             true,
}

func (r *REPL) cmdSet(args []string) error {
	if len(args) < 2 {
		return fmt.Errorf("usage: set <field> <value>")
	}
	s, err := r.requireSession()
	if err != nil {
		return err
	}

	field := args[0]
	raw := strings.Join(args[1:], " ")
	var value any = raw
	if listFields[field] {
		parts := strings.Split(raw, ",")
		items := make([]string, 0, len(parts))
		for _, p := range parts {
			if p = strings.TrimSpace(p); p != "" {
				items = append(items, p)
			}
		}
		value = items
	}

	stage := currentStage(s)
	s, err = r.manager.UpdateStageProgress(r.ctx, s.ID, stage, map[string]any{field: value})
	if err != nil {
		return err
	}
	r.current = s

	sp := s.StageData(stage)
	fmt.Printf("Recorded %s on %s (stage now %d%%, %s)\n", field, stage, sp.CompletionScore, sp.Status)
	return nil
}

func (r *REPL) cmdAdvance(args []string) error {
	s, err := r.requireSession()
	if err != nil {
		return err
	}
	before := currentStage(s)
	s, err = r.manager.Advance(r.ctx, s.ID)
	if err != nil {
		return err
	}
	r.current = s

	green := color.New(color.FgGreen).SprintFunc()
	fmt.Printf("%s %s complete. Now on %s.\n", green("✓"), before, currentStage(s))
	return nil
}

func (r *REPL) cmdSkip(args []string) error {
	s, err := r.requireSession()
	if err != nil {
		return err
	}
	stage := currentStage(s)
	s, err = r.manager.SkipStage(r.ctx, s.ID, stage)
	if err != nil {
		return err
	}
	// Skipping satisfies the readiness gate; move the session pointer too.
	s, err = r.manager.Advance(r.ctx, s.ID)
	if err != nil {
		return err
	}
	r.current = s

	yellow := color.New(color.FgYellow).SprintFunc()
	fmt.Printf("%s Skipped %s. Now on %s.\n", yellow("!"), stage, currentStage(s))
	return nil
}

// researchCategory buckets results by how the query was classified.
func researchCategory(qt research.QueryType) string {
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

func (r *REPL) cmdResearch(args []string) error {
	if len(args) == 0 {
		return fmt.Errorf("usage: research <query>")
	}
	s, err := r.requireSession()
	if err != nil {
		return err
	}
	query := strings.Join(args, " ")

	qctx := research.QueryContext{
		Stage:        currentStage(s),
		ProjectType:  s.Metadata.ProjectType,
		Technologies: s.Metadata.TechStack,
		TargetMarket: s.Metadata.TargetMarket,
	}

	rr, err := r.router.Execute(r.ctx, query, qctx)
	if err != nil {
		return err
	}

	s, err = r.manager.AddResearchData(r.ctx, s.ID, researchCategory(rr.Decision.QueryType), types.ResearchRecord{
		Query:    query,
		Provider: rr.Provider,
		Results:  rr.Result.Summary,
	})
	if err != nil {
		return err
	}
	r.current = s

	cyan := color.New(color.FgCyan).SprintFunc()
	fmt.Printf("%s %s\n\n%s\n", cyan("via"), rr.Provider, rr.Result.Summary)
	if rr.Provider != rr.Decision.Provider {
		fmt.Printf("\n(%s)\n", rr.Decision.Explanation)
	}
	return nil
}

func (r *REPL) cmdGenerate(args []string) error {
	s, err := r.requireSession()
	if err != nil {
		return err
	}

	tmplName := ""
	if len(args) > 0 {
		tmplName = args[0]
	}

	out, err := r.gen.Generate(generator.Input{
		Session:         s,
		TemplateName:    tmplName,
		IncludeResearch: true,
		OutputDir:       r.outDir,
	})
	if err != nil {
		return err
	}

	green := color.New(color.FgGreen).SprintFunc()
	fmt.Printf("%s Generated %s (%d words, %d sections, template %s)\n",
		green("✓"), out.FilePath, out.WordCount, out.SectionCount, out.Document.Template)
	return nil
}

func (r *REPL) cmdAssess(args []string) error {
	s, err := r.requireSession()
	if err != nil {
		return err
	}

	out, err := r.gen.Generate(generator.Input{Session: s, IncludeResearch: true})
	if err != nil {
		return err
	}

	a, err := quality.Assess(quality.Input{
		Document: out.Document,
		Text:     out.Text,
		Session:  s,
	}, quality.DefaultAssessConfig())
	if err != nil {
		return err
	}

	printAssessment(a)
	return nil
}
