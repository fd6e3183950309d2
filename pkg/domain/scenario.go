package domain

import (
	"errors"
	"fmt"
	"math"
	"strings"
	"time"
)

// RiskTier is the descriptive risk rating attached to a scenario.
type RiskTier string

// Supported risk tiers.
const (
	RiskLow    RiskTier = "low"
	RiskMedium RiskTier = "medium"
	RiskHigh   RiskTier = "high"
)

// ParseRiskTier normalises a textual risk tier; empty input maps to RiskLow.
func ParseRiskTier(raw string) (RiskTier, error) {
	switch RiskTier(strings.ToLower(strings.TrimSpace(raw))) {
	case "", RiskLow:
		return RiskLow, nil
	case RiskMedium:
		return RiskMedium, nil
	case RiskHigh:
		return RiskHigh, nil
	default:
		return "", fmt.Errorf("unknown risk tier %q", raw)
	}
}

// DeltaOp tags the variant carried by a Delta.
type DeltaOp string

// Delta variants. Each must match the FieldKind of its target field.
const (
	OpAdd     DeltaOp = "add"
	OpReplace DeltaOp = "replace"
	OpAppend  DeltaOp = "append"
)

// Delta is a tagged union over the field changes a scenario can make.
// Only the member matching Op is meaningful.
type Delta struct {
	Field  string   `json:"field" yaml:"field"`
	Op     DeltaOp  `json:"op" yaml:"op"`
	Amount float64  `json:"amount,omitempty" yaml:"amount,omitempty"`
	Value  string   `json:"value,omitempty" yaml:"value,omitempty"`
	Items  []string `json:"items,omitempty" yaml:"items,omitempty"`
}

// Add builds an additive numeric delta.
func Add(field string, amount float64) Delta {
	return Delta{Field: field, Op: OpAdd, Amount: amount}
}

// Replace builds a scalar replacement delta.
func Replace(field, value string) Delta {
	return Delta{Field: field, Op: OpReplace, Value: value}
}

// Append builds a list-append delta.
func Append(field string, items ...string) Delta {
	return Delta{Field: field, Op: OpAppend, Items: append([]string(nil), items...)}
}

func (d Delta) clone() Delta {
	cp := d
	cp.Items = append([]string(nil), d.Items...)
	return cp
}

// String renders the delta for logs and export rows.
func (d Delta) String() string {
	switch d.Op {
	case OpAdd:
		return fmt.Sprintf("%s%+g", d.Field, d.Amount)
	case OpReplace:
		return fmt.Sprintf("%s=%s", d.Field, d.Value)
	case OpAppend:
		return fmt.Sprintf("%s+[%s]", d.Field, strings.Join(d.Items, ","))
	default:
		return d.Field
	}
}

// SelectorMode identifies how a selector resolves targets.
type SelectorMode string

// Selector modes.
const (
	// SelectByID targets a single entity by identifier.
	SelectByID SelectorMode = "id"
	// SelectFromPeriod targets every period whose Order is >= FromOrder.
	SelectFromPeriod SelectorMode = "from_period"
	// SelectCategory targets every entity of Kind in Category, optionally holding Role.
	SelectCategory SelectorMode = "category"
)

// Selector identifies which entities a scenario applies to.
type Selector struct {
	Mode      SelectorMode `json:"mode" yaml:"mode"`
	Kind      EntityKind   `json:"kind" yaml:"kind"`
	ID        string       `json:"id,omitempty" yaml:"id,omitempty"`
	FromOrder int          `json:"from_order,omitempty" yaml:"from_order,omitempty"`
	Category  string       `json:"category,omitempty" yaml:"category,omitempty"`
	Role      string       `json:"role,omitempty" yaml:"role,omitempty"`
}

// ByID selects a single entity.
func ByID(kind EntityKind, id string) Selector {
	return Selector{Mode: SelectByID, Kind: kind, ID: id}
}

// FromPeriod selects all periods from the given order onwards.
func FromPeriod(order int) Selector {
	return Selector{Mode: SelectFromPeriod, Kind: KindPeriod, FromOrder: order}
}

// InCategory selects every entity of kind in category; role narrows the match when set.
func InCategory(kind EntityKind, category, role string) Selector {
	return Selector{Mode: SelectCategory, Kind: kind, Category: category, Role: role}
}

// Matches reports whether the entity satisfies the selector.
func (s Selector) Matches(e Entity) bool {
	if e.Kind != s.Kind {
		return false
	}
	switch s.Mode {
	case SelectByID:
		return e.ID == s.ID
	case SelectFromPeriod:
		return e.Order >= s.FromOrder
	case SelectCategory:
		if e.Category != s.Category {
			return false
		}
		return s.Role == "" || e.HasRole(s.Role)
	default:
		return false
	}
}

func (s Selector) String() string {
	switch s.Mode {
	case SelectByID:
		return fmt.Sprintf("%s:%s", s.Kind, s.ID)
	case SelectFromPeriod:
		return fmt.Sprintf("%s>=%d", s.Kind, s.FromOrder)
	case SelectCategory:
		if s.Role != "" {
			return fmt.Sprintf("%s@%s/%s", s.Kind, s.Category, s.Role)
		}
		return fmt.Sprintf("%s@%s", s.Kind, s.Category)
	default:
		return string(s.Mode)
	}
}

func (s Selector) validate(schema Schema) error {
	if _, ok := schema[s.Kind]; !ok {
		return fmt.Errorf("selector kind %q not defined", s.Kind)
	}
	switch s.Mode {
	case SelectByID:
		if strings.TrimSpace(s.ID) == "" {
			return errors.New("id selector requires an entity id")
		}
	case SelectFromPeriod:
		if s.Kind != KindPeriod {
			return fmt.Errorf("from_period selector requires kind %q", KindPeriod)
		}
	case SelectCategory:
		if strings.TrimSpace(s.Category) == "" {
			return errors.New("category selector requires a category")
		}
	default:
		return fmt.Errorf("unknown selector mode %q", s.Mode)
	}
	return nil
}

// ScenarioDefinition is the mutable authoring form of a scenario.
type ScenarioDefinition struct {
	ID        string   `json:"id" yaml:"id" validate:"required"`
	Name      string   `json:"name" yaml:"name" validate:"required"`
	Narrative string   `json:"narrative,omitempty" yaml:"narrative,omitempty"`
	Risk      string   `json:"risk,omitempty" yaml:"risk,omitempty" validate:"omitempty,oneof=low medium high"`
	Target    Selector `json:"target" yaml:"target"`
	Deltas    []Delta  `json:"deltas" yaml:"deltas" validate:"required,min=1,dive"`
}

// Scenario is an immutable, validated hypothetical change.
type Scenario struct {
	id        string
	name      string
	narrative string
	risk      RiskTier
	selector  Selector
	deltas    []Delta
	specs     []FieldSpec
}

// NewScenario validates def against schema and returns an immutable scenario.
// Unknown fields and deltas whose op does not match the field kind fail with
// *InvalidDeltaError; this is the only place delta validity is checked.
func NewScenario(def ScenarioDefinition, schema Schema) (Scenario, error) {
	if strings.TrimSpace(def.ID) == "" {
		return Scenario{}, errors.New("scenario id required")
	}
	if strings.TrimSpace(def.Name) == "" {
		return Scenario{}, fmt.Errorf("scenario %s: name required", def.ID)
	}
	risk, err := ParseRiskTier(def.Risk)
	if err != nil {
		return Scenario{}, fmt.Errorf("scenario %s: %w", def.ID, err)
	}
	if err := def.Target.validate(schema); err != nil {
		return Scenario{}, fmt.Errorf("scenario %s: %w", def.ID, err)
	}
	if len(def.Deltas) == 0 {
		return Scenario{}, fmt.Errorf("scenario %s: at least one delta required", def.ID)
	}
	deltas := make([]Delta, 0, len(def.Deltas))
	specs := make([]FieldSpec, 0, len(def.Deltas))
	for _, d := range def.Deltas {
		spec, err := validateDelta(def.Target.Kind, d, schema)
		if err != nil {
			return Scenario{}, fmt.Errorf("scenario %s: %w", def.ID, err)
		}
		deltas = append(deltas, d.clone())
		specs = append(specs, spec)
	}
	return Scenario{
		id:        def.ID,
		name:      def.Name,
		narrative: def.Narrative,
		risk:      risk,
		selector:  def.Target,
		deltas:    deltas,
		specs:     specs,
	}, nil
}

// MustScenario is NewScenario for static fixtures; it panics on invalid input.
func MustScenario(def ScenarioDefinition, schema Schema) Scenario {
	sc, err := NewScenario(def, schema)
	if err != nil {
		panic(err)
	}
	return sc
}

func validateDelta(kind EntityKind, d Delta, schema Schema) (FieldSpec, error) {
	spec, ok := schema.Lookup(kind, d.Field)
	if !ok {
		return FieldSpec{}, &InvalidDeltaError{Kind: kind, Field: d.Field, Reason: "unknown field"}
	}
	switch d.Op {
	case OpAdd:
		if spec.Kind != FieldAdditive {
			return FieldSpec{}, &InvalidDeltaError{Kind: kind, Field: d.Field, Reason: fmt.Sprintf("add on %s field", spec.Kind)}
		}
		if math.IsNaN(d.Amount) || math.IsInf(d.Amount, 0) {
			return FieldSpec{}, &InvalidDeltaError{Kind: kind, Field: d.Field, Reason: "amount must be finite"}
		}
	case OpReplace:
		if spec.Kind != FieldReplacement {
			return FieldSpec{}, &InvalidDeltaError{Kind: kind, Field: d.Field, Reason: fmt.Sprintf("replace on %s field", spec.Kind)}
		}
	case OpAppend:
		if spec.Kind != FieldList {
			return FieldSpec{}, &InvalidDeltaError{Kind: kind, Field: d.Field, Reason: fmt.Sprintf("append on %s field", spec.Kind)}
		}
		if len(d.Items) == 0 {
			return FieldSpec{}, &InvalidDeltaError{Kind: kind, Field: d.Field, Reason: "append requires items"}
		}
	default:
		return FieldSpec{}, &InvalidDeltaError{Kind: kind, Field: d.Field, Reason: fmt.Sprintf("unknown op %q", d.Op)}
	}
	return spec, nil
}

// ID returns the scenario identifier.
func (s Scenario) ID() string { return s.id }

// Name returns the display name.
func (s Scenario) Name() string { return s.name }

// Narrative returns the descriptive text.
func (s Scenario) Narrative() string { return s.narrative }

// Risk returns the risk tier.
func (s Scenario) Risk() RiskTier { return s.risk }

// Selector returns the target selector.
func (s Scenario) Selector() Selector { return s.selector }

// Deltas returns a copy of the scenario deltas.
func (s Scenario) Deltas() []Delta {
	out := make([]Delta, len(s.deltas))
	for i, d := range s.deltas {
		out[i] = d.clone()
	}
	return out
}

// FieldSpecs returns the schema entries the deltas were validated against,
// aligned with Deltas. Apply combines with these rather than the session schema.
func (s Scenario) FieldSpecs() []FieldSpec {
	return append([]FieldSpec(nil), s.specs...)
}

// Definition returns the authoring form of the scenario.
func (s Scenario) Definition() ScenarioDefinition {
	return ScenarioDefinition{
		ID:        s.id,
		Name:      s.name,
		Narrative: s.narrative,
		Risk:      string(s.risk),
		Target:    s.selector,
		Deltas:    s.Deltas(),
	}
}

// IsZero reports whether the scenario was never constructed.
func (s Scenario) IsZero() bool { return s.id == "" }

// AppliedScenario records a committed scenario and its resulting entity delta.
type AppliedScenario struct {
	ID        string
	Scenario  Scenario
	AppliedAt time.Time
	Changes   []Change
}

// Clone returns a deep copy of the applied record.
func (a AppliedScenario) Clone() AppliedScenario {
	cp := a
	cp.Changes = make([]Change, len(a.Changes))
	for i, c := range a.Changes {
		cp.Changes[i] = c.clone()
	}
	return cp
}
