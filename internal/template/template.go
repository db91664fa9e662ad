// Package template defines the PRD document templates and the pure
// selection function that picks one from project characteristics.
package template

// Template names.
const (
	Comprehensive    = "comprehensive"
	Minimal          = "minimal"
	TechnicalFocused = "technical-focused"
)

// SectionSpec is one templated document section. Content may contain
// {placeholder} tokens substituted at generation time.
type SectionSpec struct {
	Title    string
	Content  string
	Required bool
	Order    int
}

// Template is an ordered set of section specs.
type Template struct {
	Name     string
	Sections []SectionSpec
}

// ByName returns a built-in template, or nil for unknown names.
func ByName(name string) *Template {
	switch name {
	case Comprehensive:
		return comprehensiveTemplate()
	case Minimal:
		return minimalTemplate()
	case TechnicalFocused:
		return technicalFocusedTemplate()
	}
	return nil
}

// Names lists the built-in template names.
func Names() []string {
	return []string{Comprehensive, Minimal, TechnicalFocused}
}
