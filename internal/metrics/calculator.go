package metrics

import (
	"github.com/CourtEvo/CourtEvoVeroHub-sub005/pkg/domain"
)

// Health component names.
const (
	ComponentRunway          = "runway"
	ComponentDiversification = "diversification"
	ComponentCoverage        = "coverage"
)

// Weights sets the relative weight of each health component.
type Weights struct {
	Runway          float64 `yaml:"runway"`
	Diversification float64 `yaml:"diversification"`
	Coverage        float64 `yaml:"coverage"`
}

// Config parameterises Compute.
type Config struct {
	StartingBalance  float64
	ContributorKind  domain.EntityKind
	ContributorField string
	Thresholds       []Threshold
	ActiveStatuses   []string
	Bounds           Bounds
	Weights          Weights
}

// DefaultConfig returns the boardroom configuration: members contribute by
// value, only active members count, and the index is clamped to BoardroomBounds.
func DefaultConfig() Config {
	return Config{
		ContributorKind:  domain.KindMember,
		ContributorField: domain.FieldValue,
		ActiveStatuses:   []string{domain.StatusActive},
		Bounds:           BoardroomBounds,
		Weights:          Weights{Runway: 0.5, Diversification: 0.25, Coverage: 0.25},
	}
}

// Clone returns a copy that shares no slices with c.
func (c Config) Clone() Config {
	cp := c
	cp.Thresholds = append([]Threshold(nil), c.Thresholds...)
	cp.ActiveStatuses = append([]string(nil), c.ActiveStatuses...)
	return cp
}

// Compute derives the boardroom aggregates from entities. It never mutates its input.
func Compute(entities []domain.Entity, cfg Config) domain.DerivedMetrics {
	if cfg.ContributorKind == "" {
		cfg.ContributorKind = domain.KindMember
	}
	if cfg.ContributorField == "" {
		cfg.ContributorField = domain.FieldValue
	}
	if cfg.Bounds == (Bounds{}) {
		cfg.Bounds = FullRange
	}
	active := ActiveStatuses(cfg.ActiveStatuses...)

	trajectory := PeriodTrajectory(cfg.StartingBalance, entities)

	var contributions []float64
	for _, e := range entities {
		if e.Kind != cfg.ContributorKind || !active(e) {
			continue
		}
		contributions = append(contributions, e.Metric(cfg.ContributorField))
	}
	concentration := ConcentrationRatio(contributions)

	coverage := DetectGaps(entities, cfg.Thresholds, active)

	components := []domain.HealthComponent{
		{Name: ComponentRunway, Weight: cfg.Weights.Runway, Score: runwayScore(trajectory)},
		{Name: ComponentDiversification, Weight: cfg.Weights.Diversification, Score: 1 - float64(concentration)/100},
		{Name: ComponentCoverage, Weight: cfg.Weights.Coverage, Score: coverage.Score()},
	}

	return domain.DerivedMetrics{
		Trajectory:    trajectory,
		Concentration: concentration,
		Warnings:      coverage.Messages(),
		Health:        CompositeIndex(components, cfg.Bounds),
		Components:    components,
		Spans:         EntitySpans(entities),
	}
}

func runwayScore(t domain.Trajectory) float64 {
	if len(t.Balances) == 0 {
		return 1
	}
	positive := 0
	for _, b := range t.Balances {
		if b > 0 {
			positive++
		}
	}
	return float64(positive) / float64(len(t.Balances))
}
