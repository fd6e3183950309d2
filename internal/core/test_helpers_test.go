package core

import (
	"testing"

	"github.com/CourtEvo/CourtEvoVeroHub-sub005/internal/metrics"
	"github.com/CourtEvo/CourtEvoVeroHub-sub005/pkg/domain"
)

// seedEntities is a small club: three seasons netting -50, +30, -10, three
// members across two squads and one team with a single open slot.
func seedEntities() []domain.Entity {
	return []domain.Entity{
		{ID: "y1", Kind: domain.KindPeriod, Order: 1, Category: "2024", Metrics: map[string]float64{"income": 50, "expense": 100}},
		{ID: "y2", Kind: domain.KindPeriod, Order: 2, Category: "2025", Metrics: map[string]float64{"income": 30}},
		{ID: "y3", Kind: domain.KindPeriod, Order: 3, Category: "2026", Metrics: map[string]float64{"expense": 10}},
		{ID: "m1", Kind: domain.KindMember, Category: "U18", Value: 10, Roles: []string{"keeper"}, Status: domain.StatusActive},
		{ID: "m2", Kind: domain.KindMember, Category: "U18", Value: 5, Roles: []string{"captain"}, Status: domain.StatusActive},
		{ID: "m3", Kind: domain.KindMember, Category: "U16", Value: 5, Roles: []string{"captain"}, Status: domain.StatusActive},
		{ID: "t1", Kind: domain.KindTeam, Category: "U18", Metrics: map[string]float64{"slots": 1}},
	}
}

func testConfig() metrics.Config {
	cfg := metrics.DefaultConfig()
	cfg.StartingBalance = 100
	return cfg
}

func newTestSession(t *testing.T) *Session {
	t.Helper()
	s, err := NewSession(seedEntities(), SessionConfig{
		Schema:  domain.DefaultSchema(),
		Metrics: testConfig(),
		Rules:   DefaultRules(100),
	})
	if err != nil {
		t.Fatalf("new session: %v", err)
	}
	return s
}

func scenario(t *testing.T, id string, target domain.Selector, deltas ...domain.Delta) domain.Scenario {
	t.Helper()
	sc, err := domain.NewScenario(domain.ScenarioDefinition{ID: id, Name: id, Target: target, Deltas: deltas}, domain.DefaultSchema())
	if err != nil {
		t.Fatalf("scenario %s: %v", id, err)
	}
	return sc
}
