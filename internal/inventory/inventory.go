// Package inventory holds a run's owned jokers and consumables behind
// slot-limited collections.
package inventory

import (
	"errors"

	"github.com/signalnine/balatromcts/gosim/internal/cards"
	"github.com/signalnine/balatromcts/gosim/internal/effect"
)

// ErrNoJokerSlots is returned when AddJoker is called with no free joker
// slot.
var ErrNoJokerSlots = errors.New("inventory: no joker slots")

// ErrNoConsumableSlots is returned when AddConsumable is called with no
// free consumable slot.
var ErrNoConsumableSlots = errors.New("inventory: no consumable slots")

// Stickers are the sticky joker modifiers that persist independent of
// edition: Eternal (can't be sold or destroyed), Perishable (expires
// after N rounds), Rental (costs money per round but gives a bonus).
type Stickers struct {
	Eternal    bool
	Perishable bool
	Rental     bool
}

// JokerInstance is one owned joker: which definition it is, its edition
// (if any), its stickers, what it was bought for (for sell-value
// calculations), and its persistent per-joker numeric variables (e.g. a
// stacking counter that grows each round).
type JokerInstance struct {
	ID        string
	Rarity    effect.JokerRarity
	Edition   *cards.Edition
	Stickers  Stickers
	BuyPrice  int64
	Vars      map[string]float64
}

// ConsumableInstance is one owned tarot/planet/spectral card.
type ConsumableInstance struct {
	ID   string
	Kind effect.ConsumableKind
}

// Inventory is the slot-limited collection of jokers and consumables a
// run carries between blinds.
type Inventory struct {
	JokerSlots      int
	ConsumableSlots int
	Jokers          []JokerInstance
	Consumables     []ConsumableInstance
}

// WithSlots builds an empty inventory with the given slot counts.
func WithSlots(jokerSlots, consumableSlots int) *Inventory {
	return &Inventory{JokerSlots: jokerSlots, ConsumableSlots: consumableSlots}
}

// UsedJokerSlots counts the jokers that occupy a slot. Negative-edition
// jokers are slot-free.
func (inv *Inventory) UsedJokerSlots() int {
	used := 0
	for _, j := range inv.Jokers {
		if j.Edition != nil && *j.Edition == cards.Negative {
			continue
		}
		used++
	}
	return used
}

// AddJoker appends a new joker instance if a slot is free.
func (inv *Inventory) AddJoker(id string, rarity effect.JokerRarity, buyPrice int64) error {
	return inv.AddJokerInstance(JokerInstance{ID: id, Rarity: rarity, BuyPrice: buyPrice})
}

// AddJokerInstance appends a fully-specified joker instance if a slot is
// free (or unconditionally for a negative-edition joker, which never
// consumes one).
func (inv *Inventory) AddJokerInstance(inst JokerInstance) error {
	negative := inst.Edition != nil && *inst.Edition == cards.Negative
	if !negative && inv.UsedJokerSlots() >= inv.JokerSlots {
		return ErrNoJokerSlots
	}
	if inst.Vars == nil {
		inst.Vars = make(map[string]float64)
	}
	inv.Jokers = append(inv.Jokers, inst)
	return nil
}

// AddConsumable appends a new consumable instance if a slot is free.
func (inv *Inventory) AddConsumable(id string, kind effect.ConsumableKind) error {
	if len(inv.Consumables) >= inv.ConsumableSlots {
		return ErrNoConsumableSlots
	}
	inv.Consumables = append(inv.Consumables, ConsumableInstance{ID: id, Kind: kind})
	return nil
}

// RemoveJokerAt removes the joker at index, shifting later jokers left.
// It is a no-op if index is out of range.
func (inv *Inventory) RemoveJokerAt(index int) {
	if index < 0 || index >= len(inv.Jokers) {
		return
	}
	inv.Jokers = append(inv.Jokers[:index], inv.Jokers[index+1:]...)
}

// RemoveConsumableAt removes the consumable at index, shifting later
// consumables left. It is a no-op if index is out of range.
func (inv *Inventory) RemoveConsumableAt(index int) {
	if index < 0 || index >= len(inv.Consumables) {
		return
	}
	inv.Consumables = append(inv.Consumables[:index], inv.Consumables[index+1:]...)
}
