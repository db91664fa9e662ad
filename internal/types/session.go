package types

import (
	"fmt"
	"strings"
	"time"
)

// Stage identifies one of the five fixed discovery workflow stages.
type Stage string

const (
	StageProblemDiscovery      Stage = "problem-discovery"
	StageMarketResearch        Stage = "market-research"
	StageTechnicalFeasibility  Stage = "technical-feasibility"
	StageRequirementsSynthesis Stage = "requirements-synthesis"
	StagePRDGeneration         Stage = "prd-generation"
)

// StageOrder is the canonical stage sequence. It is never reordered;
// progress math and next/previous lookups all index into this slice.
var StageOrder = []Stage{
	StageProblemDiscovery,
	StageMarketResearch,
	StageTechnicalFeasibility,
	StageRequirementsSynthesis,
	StagePRDGeneration,
}

// IsValid reports whether s is one of the five canonical stages.
func (s Stage) IsValid() bool {
	for _, st := range StageOrder {
		if s == st {
			return true
		}
	}
	return false
}

// Next returns the stage after s, or "" when s is the last stage.
// Advancing past the end is a no-op, not an error.
func (s Stage) Next() Stage {
	for i, st := range StageOrder {
		if s == st && i+1 < len(StageOrder) {
			return StageOrder[i+1]
		}
	}
	return ""
}

// Previous returns the stage before s, or "" when s is the first stage.
func (s Stage) Previous() Stage {
	for i, st := range StageOrder {
		if s == st && i > 0 {
			return StageOrder[i-1]
		}
	}
	return ""
}

// SessionStatus represents the lifecycle state of a discovery session.
type SessionStatus string

const (
	SessionActive    SessionStatus = "active"
	SessionPaused    SessionStatus = "paused"
	SessionCompleted SessionStatus = "completed"
	SessionCancelled SessionStatus = "cancelled"
)

// IsValid checks if the session status is a known value.
func (s SessionStatus) IsValid() bool {
	switch s {
	case SessionActive, SessionPaused, SessionCompleted, SessionCancelled:
		return true
	}
	return false
}

// StageStatus represents progress state for a single stage.
type StageStatus string

const (
	StageNotStarted StageStatus = "not-started"
	StageInProgress StageStatus = "in-progress"
	StageCompleted  StageStatus = "completed"
	StageSkipped    StageStatus = "skipped"
)

// StageProgress tracks completion of one stage within a session.
type StageProgress struct {
	Status          StageStatus    `json:"status"`
	CompletionScore int            `json:"completion_score"` // 0-100
	Data            map[string]any `json:"data,omitempty"`
	LastActivity    time.Time      `json:"last_activity"`
}

// ResearchRecord is one routed research query and its outcome, kept in
// session history per category (market analysis, technical validation, ...).
type ResearchRecord struct {
	Query     string    `json:"query"`
	Provider  string    `json:"provider"`
	Results   string    `json:"results"`
	Timestamp time.Time `json:"timestamp"`
}

// Metadata holds free-form user preferences captured at session start.
type Metadata struct {
	TechStack     []string `json:"tech_stack,omitempty"`
	BusinessGoals []string `json:"business_goals,omitempty"`
	Constraints   []string `json:"constraints,omitempty"`
	ProjectType   string   `json:"project_type,omitempty"`
	Complexity    string   `json:"complexity,omitempty"` // low/medium/high/enterprise
	TargetMarket  string   `json:"target_market,omitempty"`
}

// DiscoverySession is the root aggregate for one project's trip through
// the discovery workflow. It is owned by the session manager; nothing else
// mutates it.
type DiscoverySession struct {
	ID           string                      `json:"id"`
	ProjectName  string                      `json:"project_name"`
	Status       SessionStatus               `json:"status"`
	Stage        Stage                       `json:"stage"`
	Progress     map[Stage]*StageProgress    `json:"progress"`
	ResearchData map[string][]ResearchRecord `json:"research_data,omitempty"`
	Metadata     Metadata                    `json:"metadata"`
	Created      time.Time                   `json:"created"`
	LastUpdated  time.Time                   `json:"last_updated"`
}

// projectNameMax bounds project names; longer names break generated
// PRD filenames and make terrible session listings.
const projectNameMax = 120

// ValidateProjectName enforces the restricted character set for project
// names: letters, digits, spaces, dots, underscores, and hyphens.
func ValidateProjectName(name string) error {
	trimmed := strings.TrimSpace(name)
	if trimmed == "" {
		return Validation("project name is required")
	}
	if len(trimmed) > projectNameMax {
		return Validation(fmt.Sprintf("project name must be %d characters or less (got %d)", projectNameMax, len(trimmed)))
	}
	for _, r := range trimmed {
		ok := r == ' ' || r == '.' || r == '_' || r == '-' ||
			(r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z') || (r >= '0' && r <= '9')
		if !ok {
			return Validation(fmt.Sprintf("project name contains invalid character %q", r))
		}
	}
	return nil
}

// Validate checks session invariants before persistence.
func (s *DiscoverySession) Validate() error {
	if s.ID == "" {
		return Validation("session id is required")
	}
	if err := ValidateProjectName(s.ProjectName); err != nil {
		return err
	}
	if !s.Status.IsValid() {
		return Validation(fmt.Sprintf("invalid session status: %s", s.Status))
	}
	if !s.Stage.IsValid() {
		return Validation(fmt.Sprintf("invalid stage: %s", s.Stage))
	}
	return nil
}

// StageData returns the progress entry for a stage, or nil if absent.
func (s *DiscoverySession) StageData(stage Stage) *StageProgress {
	if s.Progress == nil {
		return nil
	}
	return s.Progress[stage]
}

// ExpiredAt reports whether the session has passed its lifetime as of now.
// Expiry is a read-time predicate; expired sessions are never swept.
func (s *DiscoverySession) ExpiredAt(now time.Time, timeout time.Duration) bool {
	return now.Sub(s.Created) > timeout
}

// AddResearch appends a record under the given category, preserving order.
func (s *DiscoverySession) AddResearch(category string, rec ResearchRecord) {
	if s.ResearchData == nil {
		s.ResearchData = make(map[string][]ResearchRecord)
	}
	s.ResearchData[category] = append(s.ResearchData[category], rec)
}

// ResearchCount returns the total number of research records across
// all categories.
func (s *DiscoverySession) ResearchCount() int {
	n := 0
	for _, recs := range s.ResearchData {
		n += len(recs)
	}
	return n
}
