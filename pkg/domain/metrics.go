package domain

import "time"

// NoBreakEven marks a trajectory whose balance never reaches zero.
const NoBreakEven = -1

// Trajectory is a running balance over ordered periods.
type Trajectory struct {
	StartingBalance float64   `json:"starting_balance"`
	Periods         []string  `json:"periods"`
	Net             []float64 `json:"net"`
	Balances        []float64 `json:"balances"`
	// BreakEvenIndex is the first index whose balance is <= 0, or NoBreakEven.
	BreakEvenIndex int `json:"break_even_index"`
}

// BreakEven returns the break-even index and whether one exists.
func (t Trajectory) BreakEven() (int, bool) {
	if t.BreakEvenIndex < 0 {
		return NoBreakEven, false
	}
	return t.BreakEvenIndex, true
}

// Span is a paired open/close interval on an entity timeline.
type Span struct {
	EntityID string    `json:"entity_id"`
	Label    string    `json:"label"`
	Start    time.Time `json:"start"`
	End      time.Time `json:"end"`
	// Unmatched is set when no closing event existed and the open event was paired with itself.
	Unmatched bool `json:"unmatched,omitempty"`
}

// Duration returns the span length.
func (s Span) Duration() time.Duration { return s.End.Sub(s.Start) }

// HealthComponent is one weighted sub-score of the composite health index.
type HealthComponent struct {
	Name   string  `json:"name"`
	Weight float64 `json:"weight"`
	Score  float64 `json:"score"`
}

// DerivedMetrics is the boardroom aggregate computed from an entity set.
type DerivedMetrics struct {
	Trajectory    Trajectory        `json:"trajectory"`
	Concentration int               `json:"concentration"`
	Warnings      []string          `json:"warnings"`
	Health        float64           `json:"health"`
	Components    []HealthComponent `json:"components"`
	Spans         []Span            `json:"spans,omitempty"`
	Violations    []Violation       `json:"violations,omitempty"`
}
