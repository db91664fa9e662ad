package generator

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/discokit/disco/internal/session"
	"github.com/discokit/disco/internal/storage"
	"github.com/discokit/disco/internal/template"
	"github.com/discokit/disco/internal/types"
)

func testSetup(t *testing.T) (*session.Manager, *Generator) {
	t.Helper()
	m, err := session.NewManager(&session.Config{Repo: storage.NewMemoryRepository()})
	require.NoError(t, err)
	g, err := New(m)
	require.NoError(t, err)
	return m, g
}

// readySession creates a session with requirements synthesis completed
// carrying the given requirement counts.
func readySession(t *testing.T, m *session.Manager, functional, nonFunctional int) *types.DiscoverySession {
	t.Helper()
	ctx := context.Background()
	s, err := m.Create(ctx, "Acme Shop", types.Metadata{ProjectType: "web"})
	require.NoError(t, err)

	fns := make([]string, functional)
	for i := range fns {
		fns[i] = "The system must support feature " + string(rune('A'+i))
	}
	nfs := make([]string, nonFunctional)
	for i := range nfs {
		nfs[i] = "The system should stay under 200ms at p95"
	}

	s, err = m.UpdateStageProgress(ctx, s.ID, types.StageRequirementsSynthesis, map[string]any{
		"functional_requirements":     fns,
		"non_functional_requirements": nfs,
		"success_metrics":             []string{"conversion rate +5%"},
	})
	require.NoError(t, err)
	return s
}

func TestGenerateFailsBelowRequirementMinimum(t *testing.T) {
	m, g := testSetup(t)
	s := readySession(t, m, 2, 2)

	_, err := g.Generate(Input{Session: s})
	require.Error(t, err)
	assert.Equal(t, types.CodePRDGeneration, types.CodeOf(err))
	assert.Contains(t, err.Error(), "functional requirements")
}

func TestGenerateFailsWhenStageNotReady(t *testing.T) {
	m, g := testSetup(t)
	ctx := context.Background()
	s, err := m.Create(ctx, "Acme Shop", types.Metadata{})
	require.NoError(t, err)

	dir := t.TempDir()
	_, err = g.Generate(Input{Session: s, OutputDir: dir})
	require.Error(t, err)
	assert.Equal(t, types.CodePRDGeneration, types.CodeOf(err))

	// Precondition failures must not leave partial files behind.
	entries, readErr := os.ReadDir(dir)
	require.NoError(t, readErr)
	assert.Empty(t, entries)
}

func TestGenerateSelectsComprehensiveForSixRequirements(t *testing.T) {
	m, g := testSetup(t)
	s := readySession(t, m, 4, 2)

	out, err := g.Generate(Input{Session: s})
	require.NoError(t, err)
	assert.Equal(t, template.Comprehensive, out.Document.Template)
	assert.Len(t, out.Document.Requirements.Functional, 4)
	assert.Len(t, out.Document.Requirements.NonFunctional, 2)
}

func TestGenerateMinimalBand(t *testing.T) {
	m, g := testSetup(t)
	s := readySession(t, m, 3, 1) // 4 total, inside the minimal band

	out, err := g.Generate(Input{Session: s})
	require.NoError(t, err)
	assert.Equal(t, template.Minimal, out.Document.Template)
	assert.Equal(t, 3, out.SectionCount)
}

func TestGenerateUserPreferenceWins(t *testing.T) {
	m, g := testSetup(t)
	s := readySession(t, m, 3, 0)

	out, err := g.Generate(Input{Session: s, TemplateName: template.TechnicalFocused})
	require.NoError(t, err)
	assert.Equal(t, template.TechnicalFocused, out.Document.Template)
}

func TestGenerateDocumentShape(t *testing.T) {
	m, g := testSetup(t)
	s := readySession(t, m, 4, 2)
	ctx := context.Background()

	var err error
	s, err = m.UpdateStageProgress(ctx, s.ID, types.StageProblemDiscovery, map[string]any{
		"problem_statement": "Checkout flow loses customers at payment.",
		"target_users":      []string{"online shoppers", "store operators"},
		"pain_points":       []string{"slow payment", "no saved carts"},
	})
	require.NoError(t, err)

	out, err := g.Generate(Input{Session: s})
	require.NoError(t, err)

	assert.True(t, strings.HasPrefix(out.Text, "# Acme Shop — Product Requirements Document"),
		"document must open with the level-1 project heading")
	assert.Contains(t, out.Text, "Checkout flow loses customers at payment.")
	assert.Contains(t, out.Text, "1. The system must support feature A")
	assert.Contains(t, out.Text, MissingPlaceholder, "missing optional data renders the placeholder")
	assert.NotContains(t, out.Text, "{", "no unsubstituted tokens may survive")
	assert.Equal(t, len(strings.Fields(out.Text)), out.WordCount)

	// Sections arrive sorted by declared order.
	orders := make([]int, len(out.Document.Sections))
	for i, sec := range out.Document.Sections {
		orders[i] = sec.Order
	}
	for i := 1; i < len(orders); i++ {
		assert.LessOrEqual(t, orders[i-1], orders[i])
	}
}

func TestGenerateResearchAppendix(t *testing.T) {
	m, g := testSetup(t)
	s := readySession(t, m, 4, 2)
	ctx := context.Background()

	var err error
	s, err = m.AddResearchData(ctx, s.ID, "market analysis", types.ResearchRecord{
		Query: "checkout abandonment benchmarks", Provider: "websearch", Results: "Roughly 70% industry-wide.",
	})
	require.NoError(t, err)

	out, err := g.Generate(Input{Session: s, IncludeResearch: true})
	require.NoError(t, err)
	assert.Contains(t, out.Text, "Research Appendix")
	assert.Contains(t, out.Text, "checkout abandonment benchmarks")
	last := out.Document.Sections[len(out.Document.Sections)-1]
	assert.Equal(t, "Research Appendix", last.Title)

	// Without the flag the appendix stays out.
	out, err = g.Generate(Input{Session: s})
	require.NoError(t, err)
	assert.NotContains(t, out.Text, "Research Appendix")
}

func TestGenerateCustomSections(t *testing.T) {
	m, g := testSetup(t)
	s := readySession(t, m, 4, 2)

	out, err := g.Generate(Input{Session: s, CustomSections: []types.Section{
		{Title: "Rollout Plan", Content: "Phased by region."},
	}})
	require.NoError(t, err)
	assert.Contains(t, out.Text, "## Rollout Plan")
	assert.Contains(t, out.Text, "Phased by region.")
}

func TestGenerateWritesFile(t *testing.T) {
	m, g := testSetup(t)
	s := readySession(t, m, 4, 2)
	dir := t.TempDir()
	fixed := time.Date(2026, 8, 31, 12, 0, 0, 0, time.UTC)

	out, err := g.Generate(Input{
		Session:   s,
		OutputDir: dir,
		Now:       func() time.Time { return fixed },
	})
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "acme-shop-prd-2026-08-31.md"), out.FilePath)

	data, err := os.ReadFile(out.FilePath)
	require.NoError(t, err)
	assert.Equal(t, out.Text, string(data))
}

func TestSlug(t *testing.T) {
	tests := []struct{ in, want string }{
		{"Acme Shop", "acme-shop"},
		{"  My  App!! ", "my-app"},
		{"v2.0 Beta", "v2-0-beta"},
		{"already-slugged", "already-slugged"},
	}
	for _, tt := range tests {
		if got := Slug(tt.in); got != tt.want {
			t.Errorf("Slug(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestStringListCoercions(t *testing.T) {
	assert.Equal(t, []string{"a", "b"}, StringList([]string{"a", "b"}))
	assert.Equal(t, []string{"a", "b"}, StringList([]any{"a", "b"}))
	assert.Equal(t, []string{"a", "b"}, StringList("a\nb\n"))
	assert.Nil(t, StringList(nil))
	assert.Equal(t, []string{"42"}, StringList(42))
}
