package core

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/CourtEvo/CourtEvoVeroHub-sub005/internal/export"
	"github.com/CourtEvo/CourtEvoVeroHub-sub005/internal/metrics"
	"github.com/CourtEvo/CourtEvoVeroHub-sub005/pkg/domain"
)

// SessionConfig parameterises a new session.
type SessionConfig struct {
	Schema  domain.Schema
	Metrics metrics.Config
	Rules   []domain.Rule
	Clock   Clock
}

// Session is the handle for one what-if workspace: an entity store, the
// scenario stack committed against it, and the undo/redo history. Sessions
// share nothing with each other and are not safe for concurrent use.
type Session struct {
	id      string
	store   *MemoryStore
	stack   []domain.AppliedScenario
	history *History
	engine  *Engine
	rules   *RulesEngine
	metrics metrics.Config
	clock   Clock
}

// NewSession seeds a session. The seed is copied; later changes to it are not observed.
func NewSession(seed []domain.Entity, cfg SessionConfig) (*Session, error) {
	store, err := NewMemoryStore(seed...)
	if err != nil {
		return nil, fmt.Errorf("seed store: %w", err)
	}
	if cfg.Clock == nil {
		cfg.Clock = ClockFunc(utcNow)
	}
	rules := NewRulesEngine()
	for _, rule := range cfg.Rules {
		rules.Register(rule)
	}
	s := &Session{
		id:      uuid.NewString(),
		store:   store,
		engine:  NewEngine(cfg.Schema),
		rules:   rules,
		metrics: cfg.Metrics.Clone(),
		clock:   cfg.Clock,
	}
	s.history = NewHistory(s.capture())
	return s, nil
}

// ID returns the session identifier.
func (s *Session) ID() string { return s.id }

// Store exposes the live entity store. Callers must not mutate it behind the session.
func (s *Session) Store() *MemoryStore { return s.store }

// capture returns the live state without copying; the caller must not keep
// mutating s afterwards unless it replaces the state.
func (s *Session) capture() Snapshot {
	return Snapshot{state: s.store.state, stack: s.stack}
}

func (s *Session) restore(snap Snapshot) {
	s.store.restore(snap.state)
	s.stack = snap.stack
}

func (s *Session) targets(sc domain.Scenario) ([]string, error) {
	if sc.IsZero() {
		return nil, fmt.Errorf("scenario not constructed")
	}
	ids := s.engine.Resolve(s.store, sc.Selector())
	if len(ids) == 0 {
		return nil, &domain.NoTargetError{ScenarioID: sc.ID(), Selector: sc.Selector()}
	}
	return ids, nil
}

// Preview computes the metrics the session would show after applying sc,
// working on a deep copy. The store, stack and history are never touched.
func (s *Session) Preview(ctx context.Context, sc domain.Scenario) (domain.DerivedMetrics, error) {
	ids, err := s.targets(sc)
	if err != nil {
		return domain.DerivedMetrics{}, err
	}
	scratch := s.store.fork()
	s.engine.Execute(scratch, sc, ids)
	return s.compute(ctx, scratch)
}

// Apply commits sc. When the selector matches nothing a *domain.NoTargetError
// is returned and no snapshot is taken.
func (s *Session) Apply(_ context.Context, sc domain.Scenario) (domain.AppliedScenario, error) {
	ids, err := s.targets(sc)
	if err != nil {
		return domain.AppliedScenario{}, err
	}
	s.history.Commit(s.capture().clone())
	applied := domain.AppliedScenario{
		ID:        uuid.NewString(),
		Scenario:  sc,
		AppliedAt: s.clock.Now(),
		Changes:   s.engine.Execute(s.store, sc, ids),
	}
	s.stack = append(s.stack, applied)
	return applied.Clone(), nil
}

// Undo reverts the most recent apply. It returns false when there is nothing to undo.
func (s *Session) Undo() bool {
	snap, ok := s.history.Undo(s.capture())
	if !ok {
		return false
	}
	s.restore(snap)
	return true
}

// Redo re-applies the most recently undone scenario.
func (s *Session) Redo() bool {
	snap, ok := s.history.Redo(s.capture())
	if !ok {
		return false
	}
	s.restore(snap)
	return true
}

// Reset restores the seeded state and clears history.
func (s *Session) Reset() {
	s.restore(s.history.Reset())
}

// Metrics computes the derived metrics of the current state.
func (s *Session) Metrics(ctx context.Context) (domain.DerivedMetrics, error) {
	return s.compute(ctx, s.store)
}

func (s *Session) compute(ctx context.Context, store *MemoryStore) (domain.DerivedMetrics, error) {
	m := metrics.Compute(store.List(), s.metrics)
	res, err := s.rules.Evaluate(ctx, store.View())
	if err != nil {
		return domain.DerivedMetrics{}, fmt.Errorf("evaluate rules: %w", err)
	}
	m.Violations = res.Violations
	return m, nil
}

// Stack returns a copy of the committed scenario stack, oldest first.
func (s *Session) Stack() []domain.AppliedScenario {
	out := make([]domain.AppliedScenario, len(s.stack))
	for i, a := range s.stack {
		out[i] = a.Clone()
	}
	return out
}

// Entities returns sorted copies of the current entities.
func (s *Session) Entities() []domain.Entity { return s.store.List() }

// HistoryState reports clean or dirty.
func (s *Session) HistoryState() HistoryState { return s.history.State() }

// HistoryDepth returns the undo and redo depths.
func (s *Session) HistoryDepth() (past, future int) { return s.history.Depth() }

// Export renders the current state as flat table sections.
func (s *Session) Export(ctx context.Context) ([][]string, error) {
	m, err := s.Metrics(ctx)
	if err != nil {
		return nil, err
	}
	return export.Table(s.store.List(), s.stack, m), nil
}
