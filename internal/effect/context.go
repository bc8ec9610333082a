package effect

import (
	"github.com/signalnine/balatromcts/gosim/internal/cards"
	"github.com/signalnine/balatromcts/gosim/internal/hand"
)

// Context carries everything a trigger firing needs to evaluate its
// conditions and action-value expressions: which hand/blind is active,
// which card (if any) is the subject, and the card groupings visible at
// this moment. Blind is the BlindKind ordinal (Small=0, Big=1, Boss=2);
// effect stays independent of internal/run to avoid an import cycle.
type Context struct {
	HandKind       hand.Kind
	Blind          uint8
	Card           *cards.Card
	ConsumableKind *ConsumableKind
	ConsumableID   string
	SoldValue      *int64
	IsScoring      bool
	IsHeld         bool
	IsPlayed       bool
	PlayedCount    int
	ScoringCount   int
	HandsLeft      int
	DiscardsLeft   int
	JokerCount     int
	PlayedCards    []cards.Card
	ScoringCards   []cards.Card
	HeldCards      []cards.Card
	DiscardedCards []cards.Card
	JokerVars      map[string]float64
	JokerIndex     *int
}

// Played builds the context an OnPlayed/independent scoring pass fires
// with.
func Played(handKind hand.Kind, blind uint8, played, scoring, held []cards.Card, handsLeft, discardsLeft, jokerCount int) Context {
	return Context{
		HandKind: handKind, Blind: blind, IsPlayed: true,
		PlayedCount: len(played), ScoringCount: len(scoring),
		HandsLeft: handsLeft, DiscardsLeft: discardsLeft, JokerCount: jokerCount,
		PlayedCards: played, ScoringCards: scoring, HeldCards: held,
	}
}

// IndependentContext builds the context an Independent-trigger joker
// fires with (not tied to any one card).
func IndependentContext(handKind hand.Kind, blind uint8, played, scoring, held []cards.Card, handsLeft, discardsLeft, jokerCount int) Context {
	c := Played(handKind, blind, played, scoring, held, handsLeft, discardsLeft, jokerCount)
	c.IsPlayed = false
	return c
}

// Scoring builds the per-card context an OnScored/OnScoredPre effect
// fires with.
func Scoring(handKind hand.Kind, blind uint8, card cards.Card, played, scoring, held []cards.Card, handsLeft, discardsLeft, jokerCount int) Context {
	c := Played(handKind, blind, played, scoring, held, handsLeft, discardsLeft, jokerCount)
	c.Card = &card
	c.IsScoring = true
	return c
}

// Held builds the per-card context an OnHeld effect fires with.
func Held(handKind hand.Kind, blind uint8, card cards.Card, played, scoring, held []cards.Card, handsLeft, discardsLeft, jokerCount int) Context {
	c := Context{
		HandKind: handKind, Blind: blind, Card: &card, IsHeld: true,
		PlayedCount: len(played), ScoringCount: len(scoring),
		HandsLeft: handsLeft, DiscardsLeft: discardsLeft, JokerCount: jokerCount,
		PlayedCards: played, ScoringCards: scoring, HeldCards: held,
	}
	return c
}

// Discard builds the per-card context an OnDiscard effect fires with.
func Discard(handKind hand.Kind, blind uint8, card cards.Card, held, discarded []cards.Card, handsLeft, discardsLeft, jokerCount int) Context {
	return Context{
		HandKind: handKind, Blind: blind, Card: &card,
		HandsLeft: handsLeft, DiscardsLeft: discardsLeft, JokerCount: jokerCount,
		HeldCards: held, DiscardedCards: discarded,
	}
}

// DiscardBatch builds the batch-level context an OnDiscardBatch effect
// fires with.
func DiscardBatch(handKind hand.Kind, blind uint8, held, discarded []cards.Card, handsLeft, discardsLeft, jokerCount int) Context {
	return Context{
		HandKind: handKind, Blind: blind,
		HandsLeft: handsLeft, DiscardsLeft: discardsLeft, JokerCount: jokerCount,
		HeldCards: held, DiscardedCards: discarded,
	}
}

// Sell builds the context an OnSell/OnAnySell effect fires with.
func Sell(handKind hand.Kind, blind uint8, soldValue int64, handsLeft, discardsLeft, jokerCount int) Context {
	return Context{
		HandKind: handKind, Blind: blind, SoldValue: &soldValue,
		HandsLeft: handsLeft, DiscardsLeft: discardsLeft, JokerCount: jokerCount,
	}
}

// Consumable builds the context an OnUse effect fires with for a tarot,
// planet, or spectral card.
func Consumable(handKind hand.Kind, blind uint8, kind ConsumableKind, id string, handsLeft, discardsLeft, jokerCount int) Context {
	return Context{
		HandKind: handKind, Blind: blind, ConsumableKind: &kind, ConsumableID: id,
		HandsLeft: handsLeft, DiscardsLeft: discardsLeft, JokerCount: jokerCount,
	}
}

// WithJokerVars returns a copy of c with the firing joker's persistent
// numeric variables attached, for $var-style identifiers in expressions.
func (c Context) WithJokerVars(vars map[string]float64) Context {
	c.JokerVars = vars
	return c
}

// WithJokerIndex returns a copy of c with the firing joker's inventory
// slot index attached, used by self-referential actions like DestroySelf.
func (c Context) WithJokerIndex(index int) Context {
	c.JokerIndex = &index
	return c
}
