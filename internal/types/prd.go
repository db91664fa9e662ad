package types

import "time"

// Section is one rendered block of a PRD document. Sections are sorted
// by Order before the document is concatenated.
type Section struct {
	Title    string `json:"title"`
	Content  string `json:"content"`
	Required bool   `json:"required"`
	Order    int    `json:"order"`
}

// Requirements splits captured requirements into functional and
// non-functional lists.
type Requirements struct {
	Functional    []string `json:"functional"`
	NonFunctional []string `json:"non_functional"`
}

// PRDDocument is the structured form of a generated requirements
// document. It is produced from a session but owns its own lifecycle:
// generated, optionally written to disk, then scored.
type PRDDocument struct {
	Title          string         `json:"title"`
	SessionID      string         `json:"session_id"`
	Template       string         `json:"template"`
	Sections       []Section      `json:"sections"`
	Requirements   Requirements   `json:"requirements"`
	TechnicalSpecs map[string]any `json:"technical_specs,omitempty"`
	MarketContext  map[string]any `json:"market_context,omitempty"`
	Metadata       PRDMetadata    `json:"metadata"`
}

// PRDMetadata records provenance for a generated document.
type PRDMetadata struct {
	ProjectName  string    `json:"project_name"`
	GeneratedAt  time.Time `json:"generated_at"`
	WordCount    int       `json:"word_count"`
	SectionCount int       `json:"section_count"`
}
