package types

import (
	"encoding/json"
	"reflect"
	"testing"
	"time"
)

func TestStageOrderIsFixed(t *testing.T) {
	want := []Stage{
		StageProblemDiscovery,
		StageMarketResearch,
		StageTechnicalFeasibility,
		StageRequirementsSynthesis,
		StagePRDGeneration,
	}
	if !reflect.DeepEqual(StageOrder, want) {
		t.Fatalf("stage order changed: %v", StageOrder)
	}
}

func TestStageNextPrevious(t *testing.T) {
	if got := StageProblemDiscovery.Next(); got != StageMarketResearch {
		t.Errorf("Next(problem-discovery) = %q, want market-research", got)
	}
	if got := StagePRDGeneration.Next(); got != "" {
		t.Errorf("advancing past the last stage should be a no-op, got %q", got)
	}
	if got := StageProblemDiscovery.Previous(); got != "" {
		t.Errorf("regressing before the first stage should be a no-op, got %q", got)
	}
	if got := StagePRDGeneration.Previous(); got != StageRequirementsSynthesis {
		t.Errorf("Previous(prd-generation) = %q, want requirements-synthesis", got)
	}
}

func TestValidateProjectName(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantErr bool
	}{
		{"simple", "Acme Shop", false},
		{"with punctuation", "acme_shop-v2.1", false},
		{"empty", "", true},
		{"whitespace only", "   ", true},
		{"illegal character", "acme/shop", true},
		{"too long", string(make([]byte, 200)), true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateProjectName(tt.input)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateProjectName(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			}
			if err != nil && CodeOf(err) != CodeValidationFailed {
				t.Errorf("expected VALIDATION_FAILED, got %s", CodeOf(err))
			}
		})
	}
}

func TestSessionRoundTrip(t *testing.T) {
	now := time.Date(2026, 3, 14, 9, 26, 53, 0, time.UTC)
	session := &DiscoverySession{
		ID:          "sess-1",
		ProjectName: "Acme Shop",
		Status:      SessionActive,
		Stage:       StageMarketResearch,
		Progress: map[Stage]*StageProgress{
			StageProblemDiscovery: {
				Status:          StageCompleted,
				CompletionScore: 100,
				Data:            map[string]any{"problem_statement": "checkout is slow"},
				LastActivity:    now,
			},
			StageMarketResearch: {Status: StageInProgress, CompletionScore: 50, LastActivity: now},
		},
		ResearchData: map[string][]ResearchRecord{
			"market analysis": {
				{Query: "ecommerce checkout trends", Provider: "websearch", Results: "summary", Timestamp: now},
			},
		},
		Metadata:    Metadata{TechStack: []string{"React"}, ProjectType: "web"},
		Created:     now,
		LastUpdated: now,
	}

	data, err := json.Marshal(session)
	if err != nil {
		t.Fatalf("marshal failed: %v", err)
	}
	var decoded DiscoverySession
	if err := json.Unmarshal(data, &decoded); err != nil {
		t.Fatalf("unmarshal failed: %v", err)
	}
	if !reflect.DeepEqual(session, &decoded) {
		t.Errorf("round-trip mismatch:\n got %+v\nwant %+v", &decoded, session)
	}
}

func TestSessionExpiry(t *testing.T) {
	created := time.Now().Add(-25 * time.Hour)
	s := &DiscoverySession{Created: created}
	if !s.ExpiredAt(time.Now(), 24*time.Hour) {
		t.Error("session older than timeout should be expired")
	}
	if s.ExpiredAt(created.Add(time.Hour), 24*time.Hour) {
		t.Error("session within timeout should not be expired")
	}
}

func TestAddResearch(t *testing.T) {
	s := &DiscoverySession{}
	s.AddResearch("technical validation", ResearchRecord{Query: "q1", Provider: "docs"})
	s.AddResearch("technical validation", ResearchRecord{Query: "q2", Provider: "llm"})
	recs := s.ResearchData["technical validation"]
	if len(recs) != 2 || recs[0].Query != "q1" || recs[1].Query != "q2" {
		t.Errorf("research records not appended in order: %+v", recs)
	}
	if s.ResearchCount() != 2 {
		t.Errorf("ResearchCount = %d, want 2", s.ResearchCount())
	}
}
