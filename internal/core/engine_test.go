package core

import (
	"reflect"
	"testing"

	"github.com/CourtEvo/CourtEvoVeroHub-sub005/pkg/domain"
)

func TestEngineCombinesDeltaKinds(t *testing.T) {
	schema := domain.DefaultSchema()
	schema.Define(domain.KindMember, domain.FieldSpec{Name: "tags", Kind: domain.FieldList})
	engine := NewEngine(schema)
	store, _ := NewMemoryStore(seedEntities()...)

	sc := domain.MustScenario(domain.ScenarioDefinition{
		ID:     "promote",
		Name:   "Promote keeper",
		Target: domain.ByID(domain.KindMember, "m1"),
		Deltas: []domain.Delta{
			domain.Add(domain.FieldValue, 2.5),
			domain.Replace(domain.FieldCategory, "Senior"),
			domain.Replace("contract_expiry", "2027-06-30"),
			domain.Append(domain.FieldRoles, "keeper", "captain"),
			domain.Append("tags", "homegrown"),
			domain.Append("tags", "homegrown", "loanee"),
		},
	}, schema)

	targets := engine.Resolve(store, sc.Selector())
	changes := engine.Execute(store, sc, targets)
	if len(changes) != 1 {
		t.Fatalf("expected one change, got %d", len(changes))
	}
	got := changes[0].After
	if got.Value != 12.5 || got.Category != "Senior" || got.Status != domain.StatusActive {
		t.Fatalf("unexpected scalars %+v", got)
	}
	if !reflect.DeepEqual(got.Roles, []string{"keeper", "captain"}) {
		t.Fatalf("expected deduped roles, got %v", got.Roles)
	}
	if got.Labels["contract_expiry"] != "2027-06-30" || got.Labels["tags"] != "homegrown,loanee" {
		t.Fatalf("unexpected labels %v", got.Labels)
	}
	if changes[0].Before.Value != 10 || changes[0].Action != domain.ActionUpdate {
		t.Fatalf("unexpected change record %+v", changes[0])
	}
}

func TestEngineClampsNonNegativeFields(t *testing.T) {
	engine := NewEngine(nil)
	store, _ := NewMemoryStore(seedEntities()...)
	sc := scenario(t, "sponsor-exit", domain.FromPeriod(2), domain.Add("income", -100), domain.Add("adjustment", -5))

	targets := engine.Resolve(store, sc.Selector())
	if !reflect.DeepEqual(targets, []string{"y2", "y3"}) {
		t.Fatalf("unexpected targets %v", targets)
	}
	changes := engine.Execute(store, sc, targets)
	for _, ch := range changes {
		if ch.After.Metric("income") != 0 {
			t.Fatalf("income must clamp at zero, got %+v", ch.After)
		}
		if ch.After.Metric("adjustment") != -5 {
			t.Fatalf("adjustment is not clamped, got %+v", ch.After)
		}
		if !reflect.DeepEqual(ch.Clamped, []string{"income"}) {
			t.Fatalf("expected income recorded as clamped, got %v", ch.Clamped)
		}
	}
}

func TestEngineCategorySelectorWithRole(t *testing.T) {
	engine := NewEngine(nil)
	store, _ := NewMemoryStore(seedEntities()...)
	ids := engine.Resolve(store, domain.InCategory(domain.KindMember, "U18", "captain"))
	if !reflect.DeepEqual(ids, []string{"m2"}) {
		t.Fatalf("expected m2, got %v", ids)
	}
	if ids := engine.Resolve(store, domain.InCategory(domain.KindMember, "U21", "")); len(ids) != 0 {
		t.Fatalf("expected no targets, got %v", ids)
	}
}
