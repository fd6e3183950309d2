package core

import (
	"fmt"
	"sort"

	"github.com/CourtEvo/CourtEvoVeroHub-sub005/internal/metrics"
	"github.com/CourtEvo/CourtEvoVeroHub-sub005/pkg/domain"
)

// Plugin describes a scenario pack that contributes scenarios, rules, fields and thresholds.
type Plugin interface {
	Name() string
	Version() string
	Register(registry *PluginRegistry) error
}

// PluginRegistry accumulates plugin contributions during registration.
type PluginRegistry struct {
	rules      []domain.Rule
	fields     map[domain.EntityKind][]domain.FieldSpec
	scenarios  []domain.ScenarioDefinition
	thresholds []metrics.Threshold
	seen       map[string]struct{}
}

// NewPluginRegistry constructs a plugin registry.
func NewPluginRegistry() *PluginRegistry {
	return &PluginRegistry{
		fields: make(map[domain.EntityKind][]domain.FieldSpec),
		seen:   make(map[string]struct{}),
	}
}

// RegisterRule adds a rule evaluated whenever metrics are computed.
func (r *PluginRegistry) RegisterRule(rule domain.Rule) {
	if rule == nil {
		return
	}
	r.rules = append(r.rules, rule)
}

// RegisterFields extends the field schema for an entity kind.
func (r *PluginRegistry) RegisterFields(kind domain.EntityKind, fields ...domain.FieldSpec) {
	if kind == "" || len(fields) == 0 {
		return
	}
	r.fields[kind] = append(r.fields[kind], fields...)
}

// RegisterScenario stores a scenario definition; it is validated when the plugin is installed.
func (r *PluginRegistry) RegisterScenario(def domain.ScenarioDefinition) error {
	if def.ID == "" {
		return fmt.Errorf("scenario id required")
	}
	if _, exists := r.seen[def.ID]; exists {
		return fmt.Errorf("scenario %s already registered", def.ID)
	}
	r.seen[def.ID] = struct{}{}
	r.scenarios = append(r.scenarios, def)
	return nil
}

// RegisterThreshold adds a role coverage threshold.
func (r *PluginRegistry) RegisterThreshold(th metrics.Threshold) {
	if th.Role == "" {
		return
	}
	r.thresholds = append(r.thresholds, th)
}

// Rules returns a copy of registered rules.
func (r *PluginRegistry) Rules() []domain.Rule {
	out := make([]domain.Rule, len(r.rules))
	copy(out, r.rules)
	return out
}

// Fields returns a copy of registered field extensions keyed by kind.
func (r *PluginRegistry) Fields() map[domain.EntityKind][]domain.FieldSpec {
	out := make(map[domain.EntityKind][]domain.FieldSpec, len(r.fields))
	for kind, specs := range r.fields {
		out[kind] = append([]domain.FieldSpec(nil), specs...)
	}
	return out
}

// Scenarios returns registered scenario definitions sorted by ID.
func (r *PluginRegistry) Scenarios() []domain.ScenarioDefinition {
	out := append([]domain.ScenarioDefinition(nil), r.scenarios...)
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

// Thresholds returns registered thresholds in registration order.
func (r *PluginRegistry) Thresholds() []metrics.Threshold {
	return append([]metrics.Threshold(nil), r.thresholds...)
}

// PluginMetadata stores metadata describing an installed plugin.
type PluginMetadata struct {
	Name       string
	Version    string
	Scenarios  []string
	Rules      []string
	Fields     map[domain.EntityKind][]string
	Thresholds int
}
