package memory

import "testing"

func TestULIDGeneratorProducesValidUniqueIDs(t *testing.T) {
	g := NewULIDGenerator()

	a, b := g.Generate(), g.Generate()
	if a == b {
		t.Fatalf("expected unique ids, got %s twice", a)
	}
	if !ValidID(a) || !ValidID(b) {
		t.Fatalf("expected valid ULIDs, got %s and %s", a, b)
	}
}

func TestValidIDRejectsGarbage(t *testing.T) {
	for _, id := range []string{"", "not-a-ulid", "01ARZ3NDEKTSV4RRFFQ69G5FA"} {
		if ValidID(id) {
			t.Fatalf("expected %q to be rejected", id)
		}
	}
}
