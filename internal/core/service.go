package core

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/CourtEvo/CourtEvoVeroHub-sub005/internal/catalog"
	"github.com/CourtEvo/CourtEvoVeroHub-sub005/internal/metrics"
	"github.com/CourtEvo/CourtEvoVeroHub-sub005/pkg/domain"
)

// ErrNilSession is returned when an operation receives a nil session handle.
var ErrNilSession = errors.New("session handle is nil")

// Service exposes the what-if operations over explicit session handles and
// owns the scenario catalog, the field schema and installed plugins.
type Service struct {
	catalog *catalog.Catalog
	rules   []domain.Rule
	plugins map[string]PluginMetadata
	opts    serviceOptions
}

// NewService constructs a service with an empty catalog.
func NewService(opts ...Option) *Service {
	o := defaultServiceOptions()
	for _, opt := range opts {
		if opt != nil {
			opt(&o)
		}
	}
	return &Service{
		catalog: catalog.New(),
		plugins: make(map[string]PluginMetadata),
		opts:    o,
	}
}

// Schema returns a copy of the active field schema.
func (s *Service) Schema() domain.Schema { return s.opts.schema.Clone() }

// MetricsConfig returns a copy of the configuration given to new sessions.
func (s *Service) MetricsConfig() metrics.Config { return s.opts.config.Clone() }

func (s *Service) run(ctx context.Context, op, sessionID string, fn func(context.Context) (string, error)) error {
	ctx, span := s.opts.tracer.Start(ctx, op)
	started := time.Now()
	entityID, err := fn(ctx)
	duration := time.Since(started)
	span.End(err)
	s.opts.metrics.Observe(ctx, op, err == nil, duration)

	entry := AuditEntry{
		Operation: op,
		SessionID: sessionID,
		EntityID:  entityID,
		Status:    AuditStatusSuccess,
		Duration:  duration,
		Timestamp: s.opts.clock.Now(),
	}
	if err != nil {
		entry.Status = AuditStatusError
		entry.Error = err.Error()
		s.opts.logger.Error("whatif operation failed", "operation", op, "session", sessionID, "error", err)
	} else {
		s.opts.logger.Debug("whatif operation completed", "operation", op, "session", sessionID, "entity", entityID, "duration", duration)
	}
	s.opts.audit.Record(ctx, entry)
	return err
}

func sessionID(h *Session) string {
	if h == nil {
		return ""
	}
	return h.ID()
}

// CreateStore seeds a new session handle.
func (s *Service) CreateStore(ctx context.Context, seed []domain.Entity) (*Session, error) {
	var session *Session
	err := s.run(ctx, "create_store", "", func(context.Context) (string, error) {
		var err error
		session, err = NewSession(seed, SessionConfig{
			Schema:  s.opts.schema,
			Metrics: s.opts.config,
			Rules:   append(DefaultRules(s.opts.config.StartingBalance), s.rules...),
			Clock:   s.opts.clock,
		})
		if err != nil {
			return "", err
		}
		return session.ID(), nil
	})
	if err != nil {
		return nil, err
	}
	s.opts.logger.Info("session created", "session", session.ID(), "entities", session.Store().Len())
	return session, nil
}

// ListScenarios returns the catalog sorted by scenario ID.
func (s *Service) ListScenarios() []domain.Scenario {
	return s.catalog.List()
}

// FindScenario looks up a catalog scenario.
func (s *Service) FindScenario(id string) (domain.Scenario, bool) {
	return s.catalog.Find(id)
}

// AddScenario validates a user-authored definition and adds it to the catalog.
func (s *Service) AddScenario(ctx context.Context, def domain.ScenarioDefinition) (domain.Scenario, error) {
	var sc domain.Scenario
	err := s.run(ctx, "add_scenario", "", func(context.Context) (string, error) {
		var err error
		sc, err = s.catalog.Add(def, s.opts.schema)
		return sc.ID(), err
	})
	return sc, err
}

// PreviewScenario returns the metrics h would show after applying sc, without changing h.
func (s *Service) PreviewScenario(ctx context.Context, h *Session, sc domain.Scenario) (domain.DerivedMetrics, error) {
	var out domain.DerivedMetrics
	err := s.run(ctx, "preview_scenario", sessionID(h), func(ctx context.Context) (string, error) {
		if h == nil {
			return "", ErrNilSession
		}
		var err error
		out, err = h.Preview(ctx, sc)
		return sc.ID(), err
	})
	return out, err
}

// ApplyScenario commits sc to h.
func (s *Service) ApplyScenario(ctx context.Context, h *Session, sc domain.Scenario) (domain.AppliedScenario, error) {
	var applied domain.AppliedScenario
	err := s.run(ctx, "apply_scenario", sessionID(h), func(ctx context.Context) (string, error) {
		if h == nil {
			return "", ErrNilSession
		}
		var err error
		applied, err = h.Apply(ctx, sc)
		return sc.ID(), err
	})
	if err == nil {
		s.opts.logger.Info("scenario applied", "session", h.ID(), "scenario", sc.ID(), "changes", len(applied.Changes))
	}
	return applied, err
}

// Undo reverts the last applied scenario on h.
func (s *Service) Undo(ctx context.Context, h *Session) bool {
	var ok bool
	_ = s.run(ctx, "undo", sessionID(h), func(context.Context) (string, error) {
		ok = h != nil && h.Undo()
		return "", nil
	})
	return ok
}

// Redo re-applies the last undone scenario on h.
func (s *Service) Redo(ctx context.Context, h *Session) bool {
	var ok bool
	_ = s.run(ctx, "redo", sessionID(h), func(context.Context) (string, error) {
		ok = h != nil && h.Redo()
		return "", nil
	})
	return ok
}

// Reset restores h to its seed.
func (s *Service) Reset(ctx context.Context, h *Session) {
	_ = s.run(ctx, "reset", sessionID(h), func(context.Context) (string, error) {
		if h != nil {
			h.Reset()
		}
		return "", nil
	})
}

// GetDerivedMetrics returns the metrics of the committed state of h.
func (s *Service) GetDerivedMetrics(ctx context.Context, h *Session) (domain.DerivedMetrics, error) {
	var out domain.DerivedMetrics
	err := s.run(ctx, "get_derived_metrics", sessionID(h), func(ctx context.Context) (string, error) {
		if h == nil {
			return "", ErrNilSession
		}
		var err error
		out, err = h.Metrics(ctx)
		return "", err
	})
	return out, err
}

// ExportTable renders h as flat table sections for external encoders.
func (s *Service) ExportTable(ctx context.Context, h *Session) ([][]string, error) {
	var rows [][]string
	err := s.run(ctx, "export_table", sessionID(h), func(ctx context.Context) (string, error) {
		if h == nil {
			return "", ErrNilSession
		}
		var err error
		rows, err = h.Export(ctx)
		return "", err
	})
	return rows, err
}

// InstallPlugin registers a plugin. Schema extensions are applied first so
// plugin scenarios may reference the fields they add; if any scenario fails
// validation nothing from the plugin is installed.
func (s *Service) InstallPlugin(plugin Plugin) (PluginMetadata, error) {
	if plugin == nil {
		return PluginMetadata{}, fmt.Errorf("plugin cannot be nil")
	}
	if _, ok := s.plugins[plugin.Name()]; ok {
		return PluginMetadata{}, fmt.Errorf("plugin %s already registered", plugin.Name())
	}

	registry := NewPluginRegistry()
	if err := plugin.Register(registry); err != nil {
		return PluginMetadata{}, fmt.Errorf("register plugin %s: %w", plugin.Name(), err)
	}

	schema := s.opts.schema.Clone()
	fieldNames := make(map[domain.EntityKind][]string)
	for kind, specs := range registry.Fields() {
		schema.Define(kind, specs...)
		for _, spec := range specs {
			fieldNames[kind] = append(fieldNames[kind], spec.Name)
		}
		sort.Strings(fieldNames[kind])
	}

	added, err := s.catalog.AddAll(registry.Scenarios(), schema)
	if err != nil {
		return PluginMetadata{}, fmt.Errorf("plugin %s: %w", plugin.Name(), err)
	}

	s.opts.schema = schema
	s.opts.config.Thresholds = append(s.opts.config.Thresholds, registry.Thresholds()...)
	meta := PluginMetadata{
		Name:       plugin.Name(),
		Version:    plugin.Version(),
		Fields:     fieldNames,
		Thresholds: len(registry.Thresholds()),
	}
	for _, rule := range registry.Rules() {
		s.rules = append(s.rules, rule)
		meta.Rules = append(meta.Rules, rule.Name())
	}
	for _, sc := range added {
		meta.Scenarios = append(meta.Scenarios, sc.ID())
	}
	s.plugins[plugin.Name()] = meta
	s.opts.logger.Info("plugin installed", "plugin", meta.Name, "version", meta.Version, "scenarios", len(meta.Scenarios), "rules", len(meta.Rules))
	return meta, nil
}

// RegisteredPlugins returns metadata describing installed plugins, sorted by name.
func (s *Service) RegisteredPlugins() []PluginMetadata {
	out := make([]PluginMetadata, 0, len(s.plugins))
	for _, meta := range s.plugins {
		out = append(out, meta)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}
