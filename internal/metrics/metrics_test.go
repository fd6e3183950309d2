package metrics

import (
	"math"
	"reflect"
	"testing"
	"time"

	"github.com/CourtEvo/CourtEvoVeroHub-sub005/pkg/domain"
)

func TestTrajectoryExamples(t *testing.T) {
	cases := []struct {
		net       []float64
		balances  []float64
		breakEven int
	}{
		{net: []float64{-50, 30, -10}, balances: []float64{50, 80, 70}, breakEven: domain.NoBreakEven},
		{net: []float64{-120, 10}, balances: []float64{-20, -10}, breakEven: 0},
		{net: nil, balances: []float64{}, breakEven: domain.NoBreakEven},
		{net: []float64{-100}, balances: []float64{0}, breakEven: 0},
	}
	for _, tc := range cases {
		got := Trajectory(100, tc.net)
		if !reflect.DeepEqual(got.Balances, tc.balances) {
			t.Fatalf("net %v: expected balances %v, got %v", tc.net, tc.balances, got.Balances)
		}
		if got.BreakEvenIndex != tc.breakEven {
			t.Fatalf("net %v: expected break-even %d, got %d", tc.net, tc.breakEven, got.BreakEvenIndex)
		}
		if _, ok := got.BreakEven(); ok != (tc.breakEven >= 0) {
			t.Fatalf("net %v: BreakEven flag mismatch", tc.net)
		}
	}
}

func TestPeriodTrajectoryOrdersByOrder(t *testing.T) {
	entities := []domain.Entity{
		{ID: "y2", Kind: domain.KindPeriod, Order: 2, Category: "2026", Metrics: map[string]float64{FieldIncome: 10, FieldExpense: 40}},
		{ID: "m1", Kind: domain.KindMember, Value: 99},
		{ID: "y1", Kind: domain.KindPeriod, Order: 1, Metrics: map[string]float64{FieldIncome: 20, FieldExpense: 70, FieldAdjustment: 0}},
		{ID: "y3", Kind: domain.KindPeriod, Order: 3, Category: "2027", Metrics: map[string]float64{FieldAdjustment: -10}},
	}
	got := PeriodTrajectory(100, entities)
	if !reflect.DeepEqual(got.Balances, []float64{50, 20, 10}) {
		t.Fatalf("unexpected balances %v", got.Balances)
	}
	if !reflect.DeepEqual(got.Periods, []string{"y1", "2026", "2027"}) {
		t.Fatalf("unexpected labels %v", got.Periods)
	}
}

func TestConcentrationRatioBounds(t *testing.T) {
	cases := []struct {
		values []float64
		want   int
	}{
		{nil, 0},
		{[]float64{0, 0}, 0},
		{[]float64{50}, 100},
		{[]float64{1, 1, 1}, 33},
		{[]float64{60, 30, 10}, 60},
		{[]float64{-40, 10, 10}, 50},
		{[]float64{math.NaN(), 5}, 100},
	}
	for _, tc := range cases {
		got := ConcentrationRatio(tc.values)
		if got != tc.want {
			t.Fatalf("%v: expected %d, got %d", tc.values, tc.want, got)
		}
		if got < 0 || got > 100 {
			t.Fatalf("%v: ratio %d out of bounds", tc.values, got)
		}
	}
}

func TestDetectGapsVocabulary(t *testing.T) {
	entities := []domain.Entity{
		{ID: "t1", Kind: domain.KindTeam, Category: "U16"},
		{ID: "t2", Kind: domain.KindTeam, Category: "U18"},
		{ID: "m1", Kind: domain.KindMember, Category: "U18", Roles: []string{"keeper"}, Status: domain.StatusActive},
		{ID: "m2", Kind: domain.KindMember, Category: "U18", Roles: []string{"keeper", "captain"}},
		{ID: "m3", Kind: domain.KindMember, Category: "U18", Roles: []string{"keeper"}, Status: domain.StatusActive},
		{ID: "m4", Kind: domain.KindMember, Category: "U18", Roles: []string{"captain"}, Status: domain.StatusInjured},
		{ID: "m5", Kind: domain.KindMember, Category: "U16", Roles: []string{"captain"}},
	}
	thresholds := []Threshold{{Role: "keeper", Min: 1, Max: 2}, {Role: "captain", Min: 2}}
	report := DetectGaps(entities, thresholds, ActiveStatuses(domain.StatusActive))
	want := []string{
		"No keeper in U16",
		"Gap: U16 captain",
		"Overflow: U18 keeper",
		"Gap: U18 captain",
	}
	if !reflect.DeepEqual(report.Messages(), want) {
		t.Fatalf("unexpected warnings:\n got %q\nwant %q", report.Messages(), want)
	}
	if report.Checks != 4 {
		t.Fatalf("expected 4 checks, got %d", report.Checks)
	}
	if report.Score() != 0 {
		t.Fatalf("expected score 0, got %v", report.Score())
	}
	if empty := DetectGaps(nil, thresholds, nil); empty.Score() != 1 || len(empty.Gaps) != 0 {
		t.Fatalf("empty coverage should be perfect: %+v", empty)
	}
}

func TestCompositeIndexStaysWithinBounds(t *testing.T) {
	scores := []float64{-5, 0, 0.1, 0.5, 0.97, 1, 3, math.NaN()}
	for _, a := range scores {
		for _, b := range scores {
			components := []domain.HealthComponent{{Name: "a", Weight: 2, Score: a}, {Name: "b", Weight: 1, Score: b}}
			got := CompositeIndex(components, BoardroomBounds)
			if got < 20 || got > 98 {
				t.Fatalf("scores (%v, %v): index %v outside [20, 98]", a, b, got)
			}
		}
	}
	if got := CompositeIndex(nil, BoardroomBounds); got != BoardroomBounds.Floor {
		t.Fatalf("expected floor for no components, got %v", got)
	}
	if got := CompositeIndex([]domain.HealthComponent{{Weight: 1, Score: 0.5}}, FullRange); got != 50 {
		t.Fatalf("expected 50, got %v", got)
	}
	huge := []domain.HealthComponent{{Name: "a", Weight: 1e308, Score: 1}, {Name: "b", Weight: 1e308, Score: 1}}
	if got := CompositeIndex(huge, BoardroomBounds); got != BoardroomBounds.Ceiling {
		t.Fatalf("expected ceiling for overflowing weights, got %v", got)
	}
	mixed := []domain.HealthComponent{{Name: "a", Weight: math.MaxFloat64, Score: 0}, {Name: "b", Weight: math.MaxFloat64, Score: 1}}
	if got := CompositeIndex(mixed, FullRange); got != 50 {
		t.Fatalf("expected 50 for equal huge weights, got %v", got)
	}
	if got := BoardroomBounds.Clamp(math.NaN()); got != BoardroomBounds.Floor {
		t.Fatalf("expected NaN to clamp to floor, got %v", got)
	}
}

func TestPairSpansFallsBackToSelf(t *testing.T) {
	base := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	events := []domain.TimelineEvent{
		{Type: domain.EventClose, Label: "loan", At: base.Add(48 * time.Hour)},
		{Type: domain.EventOpen, Label: "loan", At: base},
		{Type: domain.EventOpen, Label: "injury", At: base.Add(72 * time.Hour)},
		{Type: domain.EventClose, Label: "stray", At: base},
	}
	spans := PairSpans("m1", events)
	if len(spans) != 2 {
		t.Fatalf("expected 2 spans, got %+v", spans)
	}
	if spans[0].Label != "loan" || spans[0].Duration() != 48*time.Hour || spans[0].Unmatched {
		t.Fatalf("unexpected matched span %+v", spans[0])
	}
	if spans[1].Label != "injury" || !spans[1].Unmatched || spans[1].Duration() != 0 {
		t.Fatalf("expected unmatched zero-length span, got %+v", spans[1])
	}
}

func TestComputeAggregates(t *testing.T) {
	entities := []domain.Entity{
		{ID: "y1", Kind: domain.KindPeriod, Order: 1, Metrics: map[string]float64{FieldIncome: 10, FieldExpense: 60}},
		{ID: "y2", Kind: domain.KindPeriod, Order: 2, Metrics: map[string]float64{FieldIncome: 10, FieldExpense: 100}},
		{ID: "m1", Kind: domain.KindMember, Category: "A", Value: 75, Roles: []string{"lead"}},
		{ID: "m2", Kind: domain.KindMember, Category: "A", Value: 25, Roles: []string{"lead"}},
		{ID: "m3", Kind: domain.KindMember, Category: "A", Value: 900, Status: domain.StatusDeparted},
	}
	cfg := DefaultConfig()
	cfg.StartingBalance = 100
	cfg.Thresholds = []Threshold{{Role: "lead", Min: 1}}
	got := Compute(entities, cfg)
	if got.Trajectory.BreakEvenIndex != 1 {
		t.Fatalf("expected break-even at 1, got %d", got.Trajectory.BreakEvenIndex)
	}
	if got.Concentration != 75 {
		t.Fatalf("expected concentration 75, got %d", got.Concentration)
	}
	if len(got.Warnings) != 0 {
		t.Fatalf("unexpected warnings %v", got.Warnings)
	}
	// runway 0.5*0.5 + diversification 0.25*0.25 + coverage 0.25*1 = 0.5625
	if got.Health != 56 {
		t.Fatalf("expected health 56, got %v", got.Health)
	}
	if len(got.Components) != 3 {
		t.Fatalf("expected three components, got %+v", got.Components)
	}
}
