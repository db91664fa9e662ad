package research

import (
	"testing"

	"github.com/discokit/disco/internal/types"
)

func TestClassifyPrecedence(t *testing.T) {
	keywords := DefaultRoutingConfig().Keywords

	tests := []struct {
		name  string
		query string
		qctx  QueryContext
		want  QueryType
	}{
		{
			name:  "technical stage wins over market keywords",
			query: "market pricing trends",
			qctx:  QueryContext{Stage: types.StageTechnicalFeasibility},
			want:  QueryTechnical,
		},
		{
			name:  "market stage wins over technical keywords",
			query: "which database scales best",
			qctx:  QueryContext{Stage: types.StageMarketResearch},
			want:  QueryMarket,
		},
		{
			name:  "competitive focus",
			query: "who else does this",
			qctx:  QueryContext{Focus: "competitive"},
			want:  QueryCompetitive,
		},
		{
			name:  "technical keywords outweigh zero market matches",
			query: "best React state management library",
			qctx:  QueryContext{},
			want:  QueryTechnical,
		},
		{
			name:  "market keywords outweigh",
			query: "customer demand and pricing in this industry",
			qctx:  QueryContext{},
			want:  QueryMarket,
		},
		{
			name:  "equal positive counts are hybrid",
			query: "api pricing",
			qctx:  QueryContext{},
			want:  QueryHybrid,
		},
		{
			name:  "no matches at all is general",
			query: "tell me something nice",
			qctx:  QueryContext{},
			want:  QueryGeneral,
		},
		{
			name:  "context technologies count toward matching",
			query: "what should we evaluate first",
			qctx:  QueryContext{Technologies: []string{"React", "Kubernetes"}},
			want:  QueryTechnical,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Classify(tt.query, tt.qctx, keywords)
			if got != tt.want {
				t.Errorf("Classify(%q) = %s, want %s", tt.query, got, tt.want)
			}
		})
	}
}

func TestClassifyIsDeterministic(t *testing.T) {
	keywords := DefaultRoutingConfig().Keywords
	qctx := QueryContext{Technologies: []string{"React"}, TargetMarket: "smb retail"}
	first := Classify("framework versus pricing tradeoffs", qctx, keywords)
	for i := 0; i < 10; i++ {
		if got := Classify("framework versus pricing tradeoffs", qctx, keywords); got != first {
			t.Fatalf("classification changed between identical calls: %s then %s", first, got)
		}
	}
}

func TestCountMatchesCaseInsensitive(t *testing.T) {
	if n := countMatches("react and API design", []string{"react", "api", "database"}); n != 2 {
		t.Errorf("countMatches = %d, want 2", n)
	}
}
