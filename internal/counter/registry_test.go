package counter

import "testing"

var (
	clubMate = Beverage{ID: "club_mate", Name: "Club Mate"}
	tschunk  = Beverage{ID: "tschunk", Name: "Tschunk"}
)

func TestNewRegistry_SeedsFromSnapshotElseZero(t *testing.T) {
	r := NewRegistry([]Beverage{clubMate, tschunk}, Snapshot{"club_mate": 5})

	if got := r.Get("club_mate"); got != 5 {
		t.Fatalf("club_mate: got=%d want=5", got)
	}
	if got := r.Get("tschunk"); got != 0 {
		t.Fatalf("tschunk: got=%d want=0", got)
	}
	if !r.Has("tschunk") {
		t.Fatalf("tschunk must have an entry even when absent from snapshot")
	}
}

func TestNewRegistry_NilSnapshot(t *testing.T) {
	r := NewRegistry([]Beverage{clubMate, tschunk}, nil)

	for _, e := range r.Entries() {
		if e.Count != 0 {
			t.Fatalf("%s: got=%d want=0", e.Beverage.ID, e.Count)
		}
	}
}

func TestNewRegistry_IgnoresUnconfiguredSnapshotIDs(t *testing.T) {
	snap := Snapshot{"club_mate": 1, "beer": 9}
	r := NewRegistry([]Beverage{clubMate}, snap)

	if r.Has("beer") {
		t.Fatalf("unconfigured id must not enter the registry")
	}
	if got := r.Total(); got != 1 {
		t.Fatalf("total: got=%d want=1", got)
	}

	unknown := Unknown(snap, []Beverage{clubMate})
	if len(unknown) != 1 || unknown[0] != "beer" {
		t.Fatalf("unknown: got=%v want=[beer]", unknown)
	}
}

func TestEntries_ConfigurationOrder(t *testing.T) {
	r := NewRegistry([]Beverage{tschunk, clubMate}, nil)

	entries := r.Entries()
	if len(entries) != 2 {
		t.Fatalf("expected 2 entries, got %d", len(entries))
	}
	if entries[0].Beverage.ID != "tschunk" || entries[1].Beverage.ID != "club_mate" {
		t.Fatalf("unexpected order: %+v", entries)
	}
}

func TestSet_UnconfiguredPanics(t *testing.T) {
	r := NewRegistry([]Beverage{clubMate}, nil)

	defer func() {
		if recover() == nil {
			t.Fatalf("expected panic on unconfigured id")
		}
	}()
	r.Set("beer", 1)
}
