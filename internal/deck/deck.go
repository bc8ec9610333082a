// Package deck implements the draw/discard pile pair dealt from at the
// start of a blind and replenished as the blind is played out.
package deck

import (
	"github.com/signalnine/balatromcts/gosim/internal/cards"
	"github.com/signalnine/balatromcts/gosim/internal/rng"
)

// Deck holds the two piles a run draws from. Cards removed from Draw by
// Deal move conceptually into the player's hand; Discard accumulates
// played and discarded cards until Draw runs dry, at which point Discard
// is shuffled back in.
type Deck struct {
	Draw    []cards.Card
	Discard []cards.Card
}

// Standard52 builds the 52-card deck (4 suits by 13 ranks, no enhancements
// or Jokers) with sequential stable ids starting at 1, in unshuffled
// suit-major order. The caller is expected to Shuffle it before play.
func Standard52() *Deck {
	d := &Deck{Draw: make([]cards.Card, 0, 52)}
	var nextID uint32 = 1
	for _, s := range cards.StandardSuits {
		for _, r := range cards.StandardRanks {
			c := cards.Standard(s, r)
			c.ID = nextID
			nextID++
			d.Draw = append(d.Draw, c)
		}
	}
	return d
}

// Shuffle permutes the draw pile in place.
func (d *Deck) Shuffle(s *rng.Stream) {
	rng.Shuffle(s, d.Draw)
}

// Len reports the number of cards left in the draw pile, not counting any
// refill that a Dealt call might trigger.
func (d *Deck) Len() int {
	return len(d.Draw)
}

// Refill shuffles Discard back into Draw and clears Discard. It is a
// no-op if Discard is empty.
func (d *Deck) Refill(s *rng.Stream) {
	if len(d.Discard) == 0 {
		return
	}
	d.Draw = append(d.Draw, d.Discard...)
	d.Discard = nil
	d.Shuffle(s)
}

// DealOne draws a single card, refilling from Discard first if Draw is
// empty. Reports false if both piles are empty.
func (d *Deck) DealOne(s *rng.Stream) (cards.Card, bool) {
	if len(d.Draw) == 0 {
		d.Refill(s)
	}
	if len(d.Draw) == 0 {
		return cards.Card{}, false
	}
	n := len(d.Draw) - 1
	c := d.Draw[n]
	d.Draw = d.Draw[:n]
	return c, true
}

// Deal draws up to n cards, refilling from Discard as needed partway
// through the draw. Returns as many cards as could be produced, which may
// be fewer than n if both piles are exhausted.
func (d *Deck) Deal(s *rng.Stream, n int) []cards.Card {
	out := make([]cards.Card, 0, n)
	for i := 0; i < n; i++ {
		c, ok := d.DealOne(s)
		if !ok {
			break
		}
		out = append(out, c)
	}
	return out
}

// Send moves cards into the discard pile (played cards and discarded
// cards both end up here).
func (d *Deck) Send(cs []cards.Card) {
	d.Discard = append(d.Discard, cs...)
}

// Remaining is the total card count across both piles, regardless of
// which pile currently holds them.
func (d *Deck) Remaining() int {
	return len(d.Draw) + len(d.Discard)
}
