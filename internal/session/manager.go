// Package session owns the discovery session lifecycle and the
// five-stage state machine. All session mutations flow through the
// Manager; the repository only sees whole documents.
package session

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/discokit/disco/internal/storage"
	"github.com/discokit/disco/internal/types"
)

// DefaultTimeout is how long a session stays usable after creation.
// Expiry is evaluated on read; nothing ever sweeps expired sessions.
const DefaultTimeout = 24 * time.Hour

// Manager coordinates session lifecycle, stage progress, and research
// history on top of an injected SessionRepository.
type Manager struct {
	repo         storage.SessionRepository
	requirements map[types.Stage]StageRequirement
	timeout      time.Duration
	now          func() time.Time

	// Per-session locks so concurrent read-modify-write cycles on the
	// same id can't lose updates. Lock granularity is the session id.
	locks sync.Map // sessionID -> *sync.Mutex
}

// Config holds manager configuration.
type Config struct {
	Repo         storage.SessionRepository
	Requirements map[types.Stage]StageRequirement // nil = built-in table
	Timeout      time.Duration                    // 0 = DefaultTimeout
	Now          func() time.Time                 // nil = time.Now (injectable for tests)
}

// NewManager creates a session manager.
func NewManager(cfg *Config) (*Manager, error) {
	if cfg == nil || cfg.Repo == nil {
		return nil, fmt.Errorf("session repository is required")
	}
	m := &Manager{
		repo:         cfg.Repo,
		requirements: cfg.Requirements,
		timeout:      cfg.Timeout,
		now:          cfg.Now,
	}
	if m.requirements == nil {
		m.requirements = DefaultStageRequirements()
	}
	if m.timeout == 0 {
		m.timeout = DefaultTimeout
	}
	if m.now == nil {
		m.now = time.Now
	}
	return m, nil
}

func (m *Manager) lock(sessionID string) func() {
	mu, _ := m.locks.LoadOrStore(sessionID, &sync.Mutex{})
	mu.(*sync.Mutex).Lock()
	return mu.(*sync.Mutex).Unlock
}

// Create validates the project name, initializes all stage progress
// entries to not-started, and persists the new session.
func (m *Manager) Create(ctx context.Context, projectName string, meta types.Metadata) (*types.DiscoverySession, error) {
	if err := types.ValidateProjectName(projectName); err != nil {
		return nil, err
	}

	now := m.now().UTC()
	progress := make(map[types.Stage]*types.StageProgress, len(types.StageOrder))
	for _, stage := range types.StageOrder {
		progress[stage] = &types.StageProgress{Status: types.StageNotStarted}
	}

	session := &types.DiscoverySession{
		ID:          uuid.NewString(),
		ProjectName: strings.TrimSpace(projectName),
		Status:      types.SessionActive,
		Stage:       types.StageOrder[0],
		Progress:    progress,
		Metadata:    meta,
		Created:     now,
		LastUpdated: now,
	}
	if err := m.repo.Put(ctx, session); err != nil {
		return nil, fmt.Errorf("failed to persist new session: %w", err)
	}
	return session, nil
}

// Get loads a session, returning SESSION_NOT_FOUND for unknown ids.
// Expired sessions are still returned; use IsExpired to gate operations.
func (m *Manager) Get(ctx context.Context, sessionID string) (*types.DiscoverySession, error) {
	session, err := m.repo.Get(ctx, sessionID)
	if err != nil {
		return nil, fmt.Errorf("failed to load session: %w", err)
	}
	if session == nil {
		return nil, types.NotFound(sessionID)
	}
	return session, nil
}

// List returns all stored sessions, newest first.
func (m *Manager) List(ctx context.Context) ([]*types.DiscoverySession, error) {
	return m.repo.List(ctx)
}

// IsExpired reports whether the session is past its lifetime.
func (m *Manager) IsExpired(session *types.DiscoverySession) bool {
	return session.ExpiredAt(m.now(), m.timeout)
}

// getMutable loads a session for mutation, rejecting unknown and
// expired ids. Callers must hold the session lock.
func (m *Manager) getMutable(ctx context.Context, sessionID string) (*types.DiscoverySession, error) {
	session, err := m.Get(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	if m.IsExpired(session) {
		return nil, types.NewError(types.CodeSessionExpired,
			"session %s expired %s after creation", sessionID, m.timeout)
	}
	return session, nil
}

// UpdateStageProgress merges patch into the stage's data, recomputes the
// completion score from the stage's required-field checklist, and flips
// the stage status to completed when the checklist is satisfied.
func (m *Manager) UpdateStageProgress(ctx context.Context, sessionID string, stage types.Stage, patch map[string]any) (*types.DiscoverySession, error) {
	if !stage.IsValid() {
		return nil, types.NewError(types.CodeInvalidStage, "unknown stage %q", stage)
	}

	unlock := m.lock(sessionID)
	defer unlock()

	session, err := m.getMutable(ctx, sessionID)
	if err != nil {
		return nil, err
	}

	sp := session.Progress[stage]
	if sp == nil {
		sp = &types.StageProgress{Status: types.StageNotStarted}
		if session.Progress == nil {
			session.Progress = make(map[types.Stage]*types.StageProgress)
		}
		session.Progress[stage] = sp
	}
	if sp.Data == nil {
		sp.Data = make(map[string]any)
	}
	for k, v := range patch {
		sp.Data[k] = v
	}

	req := m.requirements[stage]
	sp.CompletionScore = completionScore(sp.Data, req)
	if sp.CompletionScore >= req.MinScore && len(missingFields(sp.Data, req)) == 0 {
		sp.Status = types.StageCompleted
	} else {
		sp.Status = types.StageInProgress
	}
	now := m.now().UTC()
	sp.LastActivity = now
	session.LastUpdated = now

	if err := m.repo.Put(ctx, session); err != nil {
		return nil, fmt.Errorf("failed to persist stage progress: %w", err)
	}
	return session, nil
}

// AddResearchData appends a research record under the given category.
// Stage state is left untouched.
func (m *Manager) AddResearchData(ctx context.Context, sessionID, category string, rec types.ResearchRecord) (*types.DiscoverySession, error) {
	if strings.TrimSpace(category) == "" {
		return nil, types.Validation("research category is required")
	}

	unlock := m.lock(sessionID)
	defer unlock()

	session, err := m.getMutable(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	if rec.Timestamp.IsZero() {
		rec.Timestamp = m.now().UTC()
	}
	session.AddResearch(category, rec)
	session.LastUpdated = m.now().UTC()

	if err := m.repo.Put(ctx, session); err != nil {
		return nil, fmt.Errorf("failed to persist research data: %w", err)
	}
	return session, nil
}

// Advance moves the session to the next canonical stage. The current
// stage must be completed or explicitly skipped; advancing past the last
// stage is a no-op.
func (m *Manager) Advance(ctx context.Context, sessionID string) (*types.DiscoverySession, error) {
	unlock := m.lock(sessionID)
	defer unlock()

	session, err := m.getMutable(ctx, sessionID)
	if err != nil {
		return nil, err
	}

	if err := m.CheckStageReady(session, session.Stage); err != nil {
		return nil, err
	}
	next := session.Stage.Next()
	if next == "" {
		return session, nil
	}
	session.Stage = next
	if sp := session.Progress[next]; sp != nil && sp.Status == types.StageNotStarted {
		sp.Status = types.StageInProgress
	}
	session.LastUpdated = m.now().UTC()

	if err := m.repo.Put(ctx, session); err != nil {
		return nil, fmt.Errorf("failed to persist stage advance: %w", err)
	}
	return session, nil
}

// CheckStageReady verifies a stage has met its minimum required-field
// set, returning STAGE_NOT_READY naming the missing fields otherwise.
func (m *Manager) CheckStageReady(session *types.DiscoverySession, stage types.Stage) error {
	if !stage.IsValid() {
		return types.NewError(types.CodeInvalidStage, "unknown stage %q", stage)
	}
	req := m.requirements[stage]
	sp := session.StageData(stage)
	if sp != nil && sp.Status == types.StageSkipped {
		return nil
	}
	var data map[string]any
	if sp != nil {
		data = sp.Data
	}
	if missing := missingFields(data, req); len(missing) > 0 {
		return types.NewError(types.CodeStageNotReady,
			"stage %s is missing required fields: %s", stage, strings.Join(missing, ", "))
	}
	if sp == nil || sp.CompletionScore < req.MinScore {
		score := 0
		if sp != nil {
			score = sp.CompletionScore
		}
		return types.NewError(types.CodeStageNotReady,
			"stage %s completion score %d is below minimum %d", stage, score, req.MinScore)
	}
	return nil
}

// SkipStage marks a stage as skipped so Advance can move past it. The
// skipped stage keeps a zero completion score and drags the overall
// progress average down; skipping is not a shortcut to a finished look.
func (m *Manager) SkipStage(ctx context.Context, sessionID string, stage types.Stage) (*types.DiscoverySession, error) {
	if !stage.IsValid() {
		return nil, types.NewError(types.CodeInvalidStage, "unknown stage %q", stage)
	}

	unlock := m.lock(sessionID)
	defer unlock()

	session, err := m.getMutable(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	sp := session.Progress[stage]
	if sp == nil {
		sp = &types.StageProgress{}
		session.Progress[stage] = sp
	}
	sp.Status = types.StageSkipped
	sp.LastActivity = m.now().UTC()
	session.LastUpdated = sp.LastActivity

	if err := m.repo.Put(ctx, session); err != nil {
		return nil, fmt.Errorf("failed to persist stage skip: %w", err)
	}
	return session, nil
}

// SetStatus transitions the session lifecycle status (pause, resume,
// cancel, complete).
func (m *Manager) SetStatus(ctx context.Context, sessionID string, status types.SessionStatus) (*types.DiscoverySession, error) {
	if !status.IsValid() {
		return nil, types.Validation(fmt.Sprintf("invalid session status %q", status))
	}

	unlock := m.lock(sessionID)
	defer unlock()

	session, err := m.Get(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	session.Status = status
	session.LastUpdated = m.now().UTC()

	if err := m.repo.Put(ctx, session); err != nil {
		return nil, fmt.Errorf("failed to persist status change: %w", err)
	}
	return session, nil
}

// RequirementFor exposes the static requirement table entry for a stage.
func (m *Manager) RequirementFor(stage types.Stage) StageRequirement {
	return m.requirements[stage]
}
