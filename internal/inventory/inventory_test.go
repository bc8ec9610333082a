package inventory

import (
	"errors"
	"testing"

	"github.com/signalnine/balatromcts/gosim/internal/effect"
)

func TestAddJokerRespectsSlotLimit(t *testing.T) {
	inv := WithSlots(1, 1)
	if err := inv.AddJoker("joker_a", effect.Common, 4); err != nil {
		t.Fatalf("unexpected error on first add: %v", err)
	}
	if err := inv.AddJoker("joker_b", effect.Common, 4); !errors.Is(err, ErrNoJokerSlots) {
		t.Fatalf("expected ErrNoJokerSlots, got %v", err)
	}
}

func TestAddConsumableRespectsSlotLimit(t *testing.T) {
	inv := WithSlots(1, 1)
	if err := inv.AddConsumable("fool", effect.Tarot); err != nil {
		t.Fatalf("unexpected error on first add: %v", err)
	}
	if err := inv.AddConsumable("moon", effect.Planet); !errors.Is(err, ErrNoConsumableSlots) {
		t.Fatalf("expected ErrNoConsumableSlots, got %v", err)
	}
}

func TestRemoveJokerAtShiftsRemaining(t *testing.T) {
	inv := WithSlots(3, 0)
	_ = inv.AddJoker("a", effect.Common, 1)
	_ = inv.AddJoker("b", effect.Common, 1)
	_ = inv.AddJoker("c", effect.Common, 1)
	inv.RemoveJokerAt(1)
	if len(inv.Jokers) != 2 || inv.Jokers[0].ID != "a" || inv.Jokers[1].ID != "c" {
		t.Fatalf("unexpected jokers after removal: %+v", inv.Jokers)
	}
}
