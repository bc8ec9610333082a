package rng

import "testing"

func TestDeterministicSequence(t *testing.T) {
	a := New(0xC0FFEE)
	b := New(0xC0FFEE)
	for i := 0; i < 100; i++ {
		av, bv := a.NextU64(), b.NextU64()
		if av != bv {
			t.Fatalf("streams diverged at step %d: %d != %d", i, av, bv)
		}
	}
}

func TestDifferentSeedsDiverge(t *testing.T) {
	a := New(1)
	b := New(2)
	if a.NextU64() == b.NextU64() {
		t.Fatalf("expected different seeds to diverge on first draw")
	}
}

func TestIntnBounds(t *testing.T) {
	s := New(42)
	for i := 0; i < 1000; i++ {
		v := s.Intn(7)
		if v < 0 || v >= 7 {
			t.Fatalf("Intn(7) out of range: %d", v)
		}
	}
}

func TestGenIndexSmallLengths(t *testing.T) {
	s := New(42)
	if idx := s.GenIndex(0); idx != 0 {
		t.Fatalf("expected 0 for length 0, got %d", idx)
	}
	if idx := s.GenIndex(1); idx != 0 {
		t.Fatalf("expected 0 for length 1, got %d", idx)
	}
}

func TestRangeDegenerate(t *testing.T) {
	s := New(7)
	if v := s.Range(5, 5); v != 5 {
		t.Fatalf("expected degenerate range to return min, got %d", v)
	}
	if v := s.Range(9, 3); v != 9 {
		t.Fatalf("expected min>=max range to return min, got %d", v)
	}
}

func TestShuffleIsPermutation(t *testing.T) {
	s := New(99)
	data := []int{0, 1, 2, 3, 4, 5, 6, 7}
	orig := append([]int(nil), data...)
	Shuffle(s, data)
	seen := make(map[int]bool)
	for _, v := range data {
		seen[v] = true
	}
	if len(seen) != len(orig) {
		t.Fatalf("shuffle did not preserve set of elements: %v", data)
	}
}

func TestPickWeightedAllZero(t *testing.T) {
	s := New(3)
	items := []int{1, 2, 3}
	_, ok := PickWeighted(s, items, func(int) int { return 0 })
	if ok {
		t.Fatalf("expected PickWeighted to fail when all weights are zero")
	}
}
