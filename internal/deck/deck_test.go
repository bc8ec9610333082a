package deck

import (
	"testing"

	"github.com/signalnine/balatromcts/gosim/internal/rng"
)

func TestStandard52HasUniqueSequentialIDs(t *testing.T) {
	d := Standard52()
	if len(d.Draw) != 52 {
		t.Fatalf("expected 52 cards, got %d", len(d.Draw))
	}
	seen := make(map[uint32]bool)
	for _, c := range d.Draw {
		if seen[c.ID] {
			t.Fatalf("duplicate card id %d", c.ID)
		}
		seen[c.ID] = true
	}
}

func TestShuffleIsDeterministic(t *testing.T) {
	a := Standard52()
	b := Standard52()
	a.Shuffle(rng.New(7))
	b.Shuffle(rng.New(7))
	for i := range a.Draw {
		if a.Draw[i].ID != b.Draw[i].ID {
			t.Fatalf("same-seed shuffles diverged at index %d", i)
		}
	}
}

func TestDealRefillsFromDiscard(t *testing.T) {
	d := Standard52()
	s := rng.New(1)
	d.Shuffle(s)
	first := d.Deal(s, 52)
	if len(first) != 52 {
		t.Fatalf("expected to deal all 52, got %d", len(first))
	}
	if d.Len() != 0 {
		t.Fatalf("expected draw pile empty after dealing all cards")
	}
	d.Send(first)
	second := d.Deal(s, 5)
	if len(second) != 5 {
		t.Fatalf("expected refill-and-deal to produce 5 cards, got %d", len(second))
	}
}

func TestDealExhaustsBothPiles(t *testing.T) {
	d := Standard52()
	s := rng.New(1)
	d.Shuffle(s)
	out := d.Deal(s, 100)
	if len(out) != 52 {
		t.Fatalf("expected exactly 52 cards from an empty-discard deck, got %d", len(out))
	}
	if _, ok := d.DealOne(s); ok {
		t.Fatalf("expected DealOne to fail once both piles are empty")
	}
}

func TestRemainingCountsBothPiles(t *testing.T) {
	d := Standard52()
	s := rng.New(1)
	d.Shuffle(s)
	dealt := d.Deal(s, 10)
	d.Send(dealt)
	if d.Remaining() != 52 {
		t.Fatalf("expected remaining to count both piles, got %d", d.Remaining())
	}
}
