package core

import (
	"errors"
	"testing"

	"github.com/CourtEvo/CourtEvoVeroHub-sub005/pkg/domain"
)

func TestMemoryStoreCRUD(t *testing.T) {
	store, err := NewMemoryStore(seedEntities()...)
	if err != nil {
		t.Fatalf("new store: %v", err)
	}
	if store.Len() != 7 {
		t.Fatalf("expected 7 entities, got %d", store.Len())
	}
	rev := store.Revision()

	added, err := store.Add(domain.Entity{Kind: domain.KindMember, Category: "U16"})
	if err != nil {
		t.Fatalf("add: %v", err)
	}
	if added.ID == "" {
		t.Fatalf("expected generated id")
	}
	if _, err := store.Add(domain.Entity{ID: added.ID, Kind: domain.KindMember}); err == nil {
		t.Fatalf("expected duplicate error")
	}
	if _, err := store.Add(domain.Entity{ID: "nokind"}); err == nil {
		t.Fatalf("expected kind required error")
	}

	updated, err := store.Update("m1", func(e *domain.Entity) error {
		e.Value = 42
		e.ID = "renamed"
		return nil
	})
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if updated.ID != "m1" || updated.Value != 42 {
		t.Fatalf("unexpected update result %+v", updated)
	}

	if _, err := store.Update("ghost", nil); !domain.IsNotFound(err) {
		t.Fatalf("expected not found, got %v", err)
	}
	if err := store.Remove("ghost"); !domain.IsNotFound(err) {
		t.Fatalf("expected not found, got %v", err)
	}
	mutErr := errors.New("refused")
	if _, err := store.Update("m2", func(*domain.Entity) error { return mutErr }); !errors.Is(err, mutErr) {
		t.Fatalf("expected mutator error, got %v", err)
	}
	if got, _ := store.Get("m2"); got.Value != 5 {
		t.Fatalf("failed mutator must not persist, got %+v", got)
	}

	if err := store.Remove(added.ID); err != nil {
		t.Fatalf("remove: %v", err)
	}
	if _, ok := store.Get(added.ID); ok {
		t.Fatalf("expected entity removed")
	}
	if store.Revision() != rev+3 {
		t.Fatalf("expected revision %d, got %d", rev+3, store.Revision())
	}
}

func TestMemoryStoreReturnsCopies(t *testing.T) {
	store, _ := NewMemoryStore(seedEntities()...)
	got, _ := store.Get("m1")
	got.Roles[0] = "striker"
	got.Metrics = map[string]float64{"x": 1}
	again, _ := store.Get("m1")
	if again.Roles[0] != "keeper" || again.Metrics != nil {
		t.Fatalf("store leaked internal state: %+v", again)
	}

	members := store.Query(func(e domain.Entity) bool { return e.Kind == domain.KindMember })
	if len(members) != 3 || members[0].Category != "U16" {
		t.Fatalf("expected members sorted by category, got %+v", members)
	}
}

func TestMemoryStoreForkIsIndependent(t *testing.T) {
	store, _ := NewMemoryStore(seedEntities()...)
	scratch := store.fork()
	if _, err := scratch.Update("t1", func(e *domain.Entity) error {
		e.Metrics["slots"] = 0
		return nil
	}); err != nil {
		t.Fatalf("update fork: %v", err)
	}
	if got, _ := store.Get("t1"); got.Metrics["slots"] != 1 {
		t.Fatalf("fork mutated the original store")
	}
	view := store.View()
	if _, ok := view.FindEntity("t1"); !ok {
		t.Fatalf("expected view lookup")
	}
	if teams := view.ListEntities(domain.KindTeam); len(teams) != 1 {
		t.Fatalf("expected one team, got %d", len(teams))
	}
}
