// Package generator assembles a PRD document from a discovery session
// using the selected template, and optionally writes it to disk.
package generator

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strings"
	"time"

	"github.com/discokit/disco/internal/session"
	"github.com/discokit/disco/internal/template"
	"github.com/discokit/disco/internal/types"
)

// MinFunctionalRequirements gates PRD generation: below this count
// there isn't enough substance to assemble a document worth scoring.
const MinFunctionalRequirements = 3

// placeholderToken matches {placeholder} tokens in template content.
var placeholderToken = regexp.MustCompile(`\{[a-z_]+\}`)

// Input describes one generation request.
type Input struct {
	Session         *types.DiscoverySession
	TemplateName    string // explicit user preference, "" = auto-select
	IncludeResearch bool
	CustomSections  []types.Section // appended after template sections
	OutputDir       string          // "" = don't write a file
	Now             func() time.Time
}

// Output is the generation result.
type Output struct {
	Document     *types.PRDDocument
	Text         string
	WordCount    int
	SectionCount int
	FilePath     string // set when OutputDir was supplied
}

// Generator builds PRD documents. It needs the session manager only to
// check stage readiness.
type Generator struct {
	manager *session.Manager
}

// New creates a generator.
func New(manager *session.Manager) (*Generator, error) {
	if manager == nil {
		return nil, fmt.Errorf("session manager is required")
	}
	return &Generator{manager: manager}, nil
}

// Generate validates preconditions, selects a template, and assembles
// the document. All precondition failures surface before any filesystem
// side effect.
func (g *Generator) Generate(in Input) (*Output, error) {
	s := in.Session
	if s == nil {
		return nil, types.NewError(types.CodePRDGeneration, "session is required")
	}
	now := in.Now
	if now == nil {
		now = time.Now
	}

	if err := g.manager.CheckStageReady(s, types.StageRequirementsSynthesis); err != nil {
		return nil, types.WrapError(types.CodePRDGeneration, err,
			"requirements synthesis is not complete for session %s", s.ID)
	}

	reqs := extractRequirements(s)
	if len(reqs.Functional) < MinFunctionalRequirements {
		return nil, types.NewError(types.CodePRDGeneration,
			"need at least %d functional requirements to generate a PRD, have %d",
			MinFunctionalRequirements, len(reqs.Functional))
	}

	tmpl := template.Select(template.SelectionInput{
		Complexity:        s.Metadata.Complexity,
		ProjectType:       s.Metadata.ProjectType,
		RequirementsCount: len(reqs.Functional) + len(reqs.NonFunctional),
		UserPreference:    in.TemplateName,
	})

	placeholders := Placeholders(s)
	doc := assemble(s, tmpl, placeholders, reqs, in, now().UTC())
	text := render(doc)

	doc.Metadata.WordCount = len(strings.Fields(text))
	doc.Metadata.SectionCount = len(doc.Sections)

	out := &Output{
		Document:     doc,
		Text:         text,
		WordCount:    doc.Metadata.WordCount,
		SectionCount: doc.Metadata.SectionCount,
	}

	if in.OutputDir != "" {
		path, err := writeDocument(in.OutputDir, s.ProjectName, text, now().UTC())
		if err != nil {
			return nil, types.WrapError(types.CodePRDGeneration, err,
				"failed to write PRD for session %s", s.ID)
		}
		out.FilePath = path
	}
	return out, nil
}

// extractRequirements pulls the requirement lists out of the
// requirements-synthesis stage data.
func extractRequirements(s *types.DiscoverySession) types.Requirements {
	data := stageData(s, types.StageRequirementsSynthesis)
	return types.Requirements{
		Functional:    StringList(data["functional_requirements"]),
		NonFunctional: StringList(data["non_functional_requirements"]),
	}
}

func assemble(s *types.DiscoverySession, tmpl *template.Template, placeholders map[string]string, reqs types.Requirements, in Input, now time.Time) *types.PRDDocument {
	sections := make([]types.Section, 0, len(tmpl.Sections)+len(in.CustomSections)+1)
	maxOrder := 0
	for _, spec := range tmpl.Sections {
		sections = append(sections, types.Section{
			Title:    spec.Title,
			Content:  substitute(spec.Content, placeholders),
			Required: spec.Required,
			Order:    spec.Order,
		})
		if spec.Order > maxOrder {
			maxOrder = spec.Order
		}
	}
	for i, custom := range in.CustomSections {
		sec := custom
		sec.Content = substitute(sec.Content, placeholders)
		if sec.Order == 0 {
			sec.Order = maxOrder + 1 + i
		}
		sections = append(sections, sec)
		if sec.Order > maxOrder {
			maxOrder = sec.Order
		}
	}
	if in.IncludeResearch && s.ResearchCount() > 0 {
		sections = append(sections, types.Section{
			Title:   "Research Appendix",
			Content: researchAppendix(s),
			Order:   maxOrder + 1,
		})
	}

	sort.SliceStable(sections, func(i, j int) bool { return sections[i].Order < sections[j].Order })

	tech := stageData(s, types.StageTechnicalFeasibility)
	market := stageData(s, types.StageMarketResearch)

	return &types.PRDDocument{
		Title:          s.ProjectName,
		SessionID:      s.ID,
		Template:       tmpl.Name,
		Sections:       sections,
		Requirements:   reqs,
		TechnicalSpecs: tech,
		MarketContext:  market,
		Metadata: types.PRDMetadata{
			ProjectName: s.ProjectName,
			GeneratedAt: now,
		},
	}
}

// substitute replaces every {placeholder} token; unknown tokens get the
// missing-data placeholder so a template typo can't leak braces into
// the output.
func substitute(content string, placeholders map[string]string) string {
	return placeholderToken.ReplaceAllStringFunc(content, func(token string) string {
		key := token[1 : len(token)-1]
		if v, ok := placeholders[key]; ok && v != "" {
			return v
		}
		return MissingPlaceholder
	})
}

func researchAppendix(s *types.DiscoverySession) string {
	var b strings.Builder
	categories := make([]string, 0, len(s.ResearchData))
	for cat := range s.ResearchData {
		categories = append(categories, cat)
	}
	sort.Strings(categories)

	for _, cat := range categories {
		fmt.Fprintf(&b, "### %s\n\n", titleCase(cat))
		for _, rec := range s.ResearchData[cat] {
			fmt.Fprintf(&b, "**Q:** %s _(via %s)_\n\n%s\n\n", rec.Query, rec.Provider, rec.Results)
		}
	}
	return strings.TrimRight(b.String(), "\n")
}

// titleCase capitalizes the first letter of each word.
func titleCase(s string) string {
	words := strings.Fields(s)
	for i, w := range words {
		words[i] = strings.ToUpper(w[:1]) + w[1:]
	}
	return strings.Join(words, " ")
}

// render concatenates the document with its fixed header and footer.
func render(doc *types.PRDDocument) string {
	var b strings.Builder
	fmt.Fprintf(&b, "# %s — Product Requirements Document\n\n", doc.Title)
	fmt.Fprintf(&b, "_Generated %s · session %s · template %s_\n\n",
		doc.Metadata.GeneratedAt.Format("2006-01-02"), doc.SessionID, doc.Template)

	for _, sec := range doc.Sections {
		fmt.Fprintf(&b, "## %s\n\n%s\n\n", sec.Title, sec.Content)
	}

	fmt.Fprintf(&b, "---\n\n_Produced by disco from discovery session %s. Review before distribution._\n", doc.SessionID)
	return b.String()
}

// writeDocument writes the rendered text as
// <project-slug>-prd-<date>.md under dir.
func writeDocument(dir, projectName, text string, now time.Time) (string, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", fmt.Errorf("creating output directory: %w", err)
	}
	filename := fmt.Sprintf("%s-prd-%s.md", Slug(projectName), now.Format("2006-01-02"))
	path := filepath.Join(dir, filename)
	if err := os.WriteFile(path, []byte(text), 0644); err != nil {
		return "", fmt.Errorf("writing %s: %w", path, err)
	}
	return path, nil
}

// Slug lowercases a project name and collapses everything outside
// [a-z0-9] into single hyphens.
func Slug(name string) string {
	var b strings.Builder
	lastHyphen := true // suppress leading hyphen
	for _, r := range strings.ToLower(name) {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			b.WriteRune(r)
			lastHyphen = false
		default:
			if !lastHyphen {
				b.WriteByte('-')
				lastHyphen = true
			}
		}
	}
	return strings.TrimRight(b.String(), "-")
}
