package core

import (
	"strings"

	"github.com/CourtEvo/CourtEvoVeroHub-sub005/pkg/domain"
)

// Engine resolves scenario selectors and combines deltas into entities.
// It holds no session state; the same engine serves apply and preview.
type Engine struct {
	schema domain.Schema
}

// NewEngine constructs an engine over the schema used to validate scenarios.
func NewEngine(schema domain.Schema) *Engine {
	if schema == nil {
		schema = domain.DefaultSchema()
	}
	return &Engine{schema: schema}
}

// Resolve returns the ids matched by the selector in deterministic order.
func (e *Engine) Resolve(store *MemoryStore, sel domain.Selector) []string {
	matches := store.Query(sel.Matches)
	ids := make([]string, len(matches))
	for i, m := range matches {
		ids[i] = m.ID
	}
	return ids
}

// Execute combines the scenario deltas into every target and returns one change per target.
// Targets are expected to come from Resolve on the same store.
func (e *Engine) Execute(store *MemoryStore, sc domain.Scenario, targets []string) []domain.Change {
	deltas := sc.Deltas()
	specs := sc.FieldSpecs()
	changes := make([]domain.Change, 0, len(targets))
	for _, id := range targets {
		var before domain.Entity
		var clamped []string
		after, err := store.Update(id, func(ent *domain.Entity) error {
			before = ent.Clone()
			for i, d := range deltas {
				if combine(ent, d, e.spec(ent.Kind, d.Field, specs, i)) {
					clamped = append(clamped, d.Field)
				}
			}
			return nil
		})
		if err != nil {
			continue
		}
		changes = append(changes, domain.Change{
			Kind:     after.Kind,
			EntityID: id,
			Action:   domain.ActionUpdate,
			Before:   before,
			After:    after,
			Clamped:  clamped,
		})
	}
	return changes
}

// spec prefers the field spec resolved when the scenario was built, so a
// session created before a schema extension still honours NonNegative.
func (e *Engine) spec(kind domain.EntityKind, field string, resolved []domain.FieldSpec, i int) domain.FieldSpec {
	if i < len(resolved) && resolved[i].Name == field {
		return resolved[i]
	}
	if spec, ok := e.schema.Lookup(kind, field); ok {
		return spec
	}
	return domain.FieldSpec{Name: field}
}

// combine applies one delta and reports whether a non-negative field was floored at zero.
func combine(ent *domain.Entity, d domain.Delta, spec domain.FieldSpec) bool {
	switch d.Op {
	case domain.OpAdd:
		next := ent.Metric(d.Field) + d.Amount
		clamped := false
		if spec.NonNegative && next < 0 {
			next = 0
			clamped = true
		}
		setMetric(ent, d.Field, next)
		return clamped
	case domain.OpReplace:
		setScalar(ent, d.Field, d.Value)
	case domain.OpAppend:
		setList(ent, d.Field, appendUnique(listValue(*ent, d.Field), d.Items))
	}
	return false
}

func setMetric(ent *domain.Entity, field string, v float64) {
	if field == domain.FieldValue {
		ent.Value = v
		return
	}
	if ent.Metrics == nil {
		ent.Metrics = make(map[string]float64)
	}
	ent.Metrics[field] = v
}

func setScalar(ent *domain.Entity, field, v string) {
	switch field {
	case domain.FieldCategory:
		ent.Category = v
	case domain.FieldStatus:
		ent.Status = v
	default:
		if ent.Labels == nil {
			ent.Labels = make(map[string]string)
		}
		ent.Labels[field] = v
	}
}

// listValue reads a list field; lists other than roles are stored comma-joined in Labels.
func listValue(ent domain.Entity, field string) []string {
	if field == domain.FieldRoles {
		return ent.Roles
	}
	raw := ent.Labels[field]
	if raw == "" {
		return nil
	}
	return strings.Split(raw, ",")
}

func setList(ent *domain.Entity, field string, items []string) {
	if field == domain.FieldRoles {
		ent.Roles = items
		return
	}
	if ent.Labels == nil {
		ent.Labels = make(map[string]string)
	}
	ent.Labels[field] = strings.Join(items, ",")
}

func appendUnique(existing, items []string) []string {
	out := append([]string(nil), existing...)
	seen := make(map[string]struct{}, len(out)+len(items))
	for _, v := range out {
		seen[v] = struct{}{}
	}
	for _, v := range items {
		if _, ok := seen[v]; ok {
			continue
		}
		seen[v] = struct{}{}
		out = append(out, v)
	}
	return out
}
