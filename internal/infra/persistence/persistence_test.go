package persistence

import (
	"testing"

	"github.com/CourtEvo/CourtEvoVeroHub-sub005/pkg/domain"
)

func TestEncodeRequiresID(t *testing.T) {
	if _, _, err := Encode(domain.Entity{Kind: domain.KindTeam}); err == nil {
		t.Fatalf("expected missing id error")
	}
	id, payload, err := Encode(domain.Entity{ID: "t1", Kind: domain.KindTeam, Category: "U18"})
	if err != nil {
		t.Fatalf("encode: %v", err)
	}
	if id != "t1" || len(payload) == 0 {
		t.Fatalf("unexpected encode result %q %s", id, payload)
	}
}
