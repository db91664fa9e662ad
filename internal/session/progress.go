package session

import "github.com/discokit/disco/internal/types"

// SessionProgress summarizes how far a session has moved through the
// workflow.
type SessionProgress struct {
	// Overall is the plain arithmetic mean of the five stage scores,
	// rounded. Deliberately unweighted: an untouched early stage
	// contributes 0, so later stages can't inflate the aggregate.
	Overall int

	// Stages maps each canonical stage to its completion score.
	Stages map[types.Stage]int
}

// Progress computes overall and per-stage completion for a session.
// Stages without a progress entry contribute 0.
func Progress(session *types.DiscoverySession) SessionProgress {
	stages := make(map[types.Stage]int, len(types.StageOrder))
	sum := 0
	for _, stage := range types.StageOrder {
		score := 0
		if sp := session.StageData(stage); sp != nil {
			score = sp.CompletionScore
		}
		stages[stage] = score
		sum += score
	}
	n := len(types.StageOrder)
	return SessionProgress{
		Overall: (sum + n/2) / n,
		Stages:  stages,
	}
}
