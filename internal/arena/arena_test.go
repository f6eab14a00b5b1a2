package arena

import "testing"

func TestArena_AllocateBumpsAndZeroes(t *testing.T) {
	backing := make([]float32, 16)
	for i := range backing {
		backing[i] = 9
	}
	a := New(backing)

	first, err := a.Allocate(4)
	if err != nil {
		t.Fatalf("first allocate: %v", err)
	}
	for i, v := range first {
		if v != 0 {
			t.Fatalf("first[%d] = %v, want zeroed", i, v)
		}
	}

	second, err := a.Allocate(4)
	if err != nil {
		t.Fatalf("second allocate: %v", err)
	}
	second[0] = 42
	if first[0] == 42 {
		t.Fatalf("second allocation aliases the first")
	}

	if got, want := a.Remaining(), 8; got != want {
		t.Fatalf("remaining = %d, want %d", got, want)
	}
}

func TestArena_AllocateExhaustionErrors(t *testing.T) {
	a := NewOfSize(4)
	if _, err := a.Allocate(4); err != nil {
		t.Fatalf("allocate within size: %v", err)
	}
	if _, err := a.Allocate(1); err == nil {
		t.Fatalf("expected an error allocating past the arena's size")
	}
}
