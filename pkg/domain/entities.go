// Package domain defines the entities, scenario definitions, derived metric
// shapes, and rule evaluation primitives shared by the what-if engine.
package domain

import (
	"sort"
	"time"
)

// EntityKind identifies the type of record held by an entity store.
type EntityKind string

// Supported entity kinds.
const (
	// KindPeriod identifies a time-ordered financial row (income, expense, adjustment).
	KindPeriod EntityKind = "period"
	// KindMember identifies a roster member.
	KindMember EntityKind = "member"
	// KindTeam identifies a roster group carrying slot capacity.
	KindTeam EntityKind = "team"
)

// Status values recognised by the default metric configuration.
const (
	StatusActive   = "active"
	StatusInjured  = "injured"
	StatusDeparted = "departed"
)

// TimelineEventType marks the opening or closing edge of a span.
type TimelineEventType string

// Timeline event edges.
const (
	EventOpen  TimelineEventType = "open"
	EventClose TimelineEventType = "close"
)

// TimelineEvent is a single dated edge on an entity timeline (loan start, injury end, ...).
type TimelineEvent struct {
	Type  TimelineEventType `json:"type" yaml:"type"`
	Label string            `json:"label" yaml:"label"`
	At    time.Time         `json:"at" yaml:"at"`
}

// Entity is a generic record owned by an entity store.
type Entity struct {
	ID       string             `json:"id" yaml:"id"`
	Kind     EntityKind         `json:"kind" yaml:"kind"`
	Category string             `json:"category" yaml:"category"`
	Order    int                `json:"order,omitempty" yaml:"order,omitempty"`
	Value    float64            `json:"value,omitempty" yaml:"value,omitempty"`
	Metrics  map[string]float64 `json:"metrics,omitempty" yaml:"metrics,omitempty"`
	Labels   map[string]string  `json:"labels,omitempty" yaml:"labels,omitempty"`
	Roles    []string           `json:"roles,omitempty" yaml:"roles,omitempty"`
	Status   string             `json:"status,omitempty" yaml:"status,omitempty"`
	Timeline []TimelineEvent    `json:"timeline,omitempty" yaml:"timeline,omitempty"`
}

// Clone returns a deep copy of the entity.
func (e Entity) Clone() Entity {
	cp := e
	if e.Metrics != nil {
		cp.Metrics = make(map[string]float64, len(e.Metrics))
		for k, v := range e.Metrics {
			cp.Metrics[k] = v
		}
	}
	if e.Labels != nil {
		cp.Labels = make(map[string]string, len(e.Labels))
		for k, v := range e.Labels {
			cp.Labels[k] = v
		}
	}
	cp.Roles = append([]string(nil), e.Roles...)
	cp.Timeline = append([]TimelineEvent(nil), e.Timeline...)
	return cp
}

// Metric returns the named additive field, treating absent metrics as zero.
func (e Entity) Metric(name string) float64 {
	if name == FieldValue {
		return e.Value
	}
	return e.Metrics[name]
}

// HasRole reports whether the entity carries the given role.
func (e Entity) HasRole(role string) bool {
	for _, r := range e.Roles {
		if r == role {
			return true
		}
	}
	return false
}

// SortEntities orders entities by kind, order, category, then ID.
func SortEntities(entities []Entity) {
	sort.Slice(entities, func(i, j int) bool {
		a, b := entities[i], entities[j]
		if a.Kind != b.Kind {
			return a.Kind < b.Kind
		}
		if a.Order != b.Order {
			return a.Order < b.Order
		}
		if a.Category != b.Category {
			return a.Category < b.Category
		}
		return a.ID < b.ID
	})
}

// Action indicates the type of modification performed.
type Action string

// Change actions captured on applied scenarios.
const (
	ActionCreate Action = "create"
	ActionUpdate Action = "update"
	ActionDelete Action = "delete"
)

// Change describes the effect of a scenario on a single entity.
type Change struct {
	Kind     EntityKind `json:"kind"`
	EntityID string     `json:"entity_id"`
	Action   Action     `json:"action"`
	Before   Entity     `json:"before"`
	After    Entity     `json:"after"`
	// Clamped lists non-negative fields that were floored at zero.
	Clamped []string `json:"clamped,omitempty"`
}

func (c Change) clone() Change {
	cp := c
	cp.Before = c.Before.Clone()
	cp.After = c.After.Clone()
	cp.Clamped = append([]string(nil), c.Clamped...)
	return cp
}
