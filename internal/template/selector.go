package template

// minimalRequirementsBand is the requirements count below which the
// minimal template takes over regardless of project type.
const minimalRequirementsBand = 5

// SelectionInput captures the project characteristics template
// selection depends on. Selection is a pure function of this value.
type SelectionInput struct {
	Complexity        string // low/medium/high/enterprise
	ProjectType       string
	RequirementsCount int
	UserPreference    string // explicit template name, always wins
}

// projectTypeTemplates maps project types to their starting template.
// Anything not listed starts from comprehensive.
var projectTypeTemplates = map[string]string{
	"api":            TechnicalFocused,
	"backend":        TechnicalFocused,
	"infrastructure": TechnicalFocused,
	"platform":       TechnicalFocused,
	"technical":      TechnicalFocused,
}

// Select picks the document template. Precedence: explicit user
// preference, then the project-type lookup, overridden to minimal for
// low complexity, overridden again to minimal for tiny requirement sets.
func Select(in SelectionInput) *Template {
	if in.UserPreference != "" {
		if tmpl := ByName(in.UserPreference); tmpl != nil {
			return tmpl
		}
	}

	name := Comprehensive
	if mapped, ok := projectTypeTemplates[in.ProjectType]; ok {
		name = mapped
	}
	if in.Complexity == "low" {
		name = Minimal
	}
	if in.RequirementsCount < minimalRequirementsBand {
		name = Minimal
	}
	return ByName(name)
}
