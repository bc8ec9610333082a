// Package events defines the append-only event stream a run emits as it
// is played: one closed union of event kinds, pushed by internal/run and
// drained by the caller after each action.
package events

import (
	"github.com/signalnine/balatromcts/gosim/internal/content"
	"github.com/signalnine/balatromcts/gosim/internal/hand"
	"github.com/signalnine/balatromcts/gosim/internal/shop"
)

// Kind discriminates Event's variants.
type Kind uint8

const (
	BlindStarted Kind = iota
	HandDealt
	HandScored
	ShopEntered
	ShopRerolled
	ShopBought
	PackOpened
	PackChosen
	JokerSold
	BlindCleared
	BlindFailed
	BlindSkipped
)

// Event is one observable occurrence during a run. Only the fields
// relevant to Kind are populated; the rest hold their zero value.
type Event struct {
	Kind Kind

	Ante     uint8
	Blind    content.BlindKind
	Target   int64
	Hands    uint8
	Discards uint8

	Count int

	Hand  hand.Kind
	Chips int64
	Mult  float64
	Total int64

	Offers     int
	RerollCost int64
	Reentered  bool
	Cost       int64
	Money      int64

	OfferKind shop.ShopOfferKind
	Options   int
	Picks     int

	JokerID   string
	SellValue int64

	Score  int64
	Reward int64

	TagID string
}

// Bus is the append-only queue a run pushes events onto within a single
// action. The caller drains it after the action returns; nothing resets
// it automatically, so an undrained bus keeps accumulating.
type Bus struct {
	queue []Event
}

// Push appends an event to the bus.
func (b *Bus) Push(e Event) {
	b.queue = append(b.queue, e)
}

// Drain returns every queued event and empties the queue.
func (b *Bus) Drain() []Event {
	out := b.queue
	b.queue = nil
	return out
}

// Len reports the number of events currently queued.
func (b *Bus) Len() int {
	return len(b.queue)
}
