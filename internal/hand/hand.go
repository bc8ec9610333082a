// Package hand classifies a set of played cards into a poker hand kind and
// determines which of those cards score.
package hand

import (
	"sort"

	"github.com/signalnine/balatromcts/gosim/internal/cards"
)

// Kind is the closed set of poker hand categories a played hand can be
// classified as.
type Kind uint8

const (
	HighCard Kind = iota
	Pair
	TwoPair
	Trips
	Straight
	Flush
	FullHouse
	Quads
	StraightFlush
	RoyalFlush
	FiveOfAKind
	FlushHouse
	FlushFive
)

// All lists every hand kind in a fixed, stable order. Code that needs a
// canonical iteration order (hand-level upgrades, default base-score
// tables) ranges over All rather than trusting enum declaration order.
var All = [13]Kind{
	HighCard, Pair, TwoPair, Trips, Straight, Flush, FullHouse, Quads,
	StraightFlush, RoyalFlush, FiveOfAKind, FlushHouse, FlushFive,
}

// ID returns the hand kind's stable lowercase identifier, used as a config
// and effect-matching key.
func (k Kind) ID() string {
	switch k {
	case HighCard:
		return "high_card"
	case Pair:
		return "pair"
	case TwoPair:
		return "two_pair"
	case Trips:
		return "trips"
	case Straight:
		return "straight"
	case Flush:
		return "flush"
	case FullHouse:
		return "full_house"
	case Quads:
		return "quads"
	case StraightFlush:
		return "straight_flush"
	case RoyalFlush:
		return "royal_flush"
	case FiveOfAKind:
		return "five_kind"
	case FlushHouse:
		return "flush_house"
	case FlushFive:
		return "flush_five"
	default:
		return "unknown"
	}
}

// LevelKind maps a hand kind to the kind whose level table it upgrades
// under. A Royal Flush is scored and leveled as a Straight Flush; every
// other kind levels under itself.
func LevelKind(k Kind) Kind {
	if k == RoyalFlush {
		return StraightFlush
	}
	return k
}

// EvalRules toggles the three joker-driven rule variables that change how
// a hand is classified: smeared suits merge red/black into two buckets,
// four fingers allows 4-card flushes/straights, and shortcut widens the
// straight gap tolerance to 2.
type EvalRules struct {
	SmearedSuits bool
	FourFingers  bool
	Shortcut     bool
}

// Evaluate classifies cards under the default rule set (no joker
// modifiers active).
func Evaluate(cs []cards.Card) Kind {
	return EvaluateWithRules(cs, EvalRules{})
}

// EvaluateWithRules classifies cards under the given rule set. Stone
// cards are excluded from rank/suit counting entirely; an all-stone hand
// classifies as HighCard.
func EvaluateWithRules(cs []cards.Card, rules EvalRules) Kind {
	if len(cs) == 0 {
		return HighCard
	}

	evalCards := make([]cards.Card, 0, len(cs))
	for _, c := range cs {
		if !c.IsStone() {
			evalCards = append(evalCards, c)
		}
	}
	if len(evalCards) == 0 {
		return HighCard
	}

	length := len(evalCards)
	rankCounts := make(map[cards.Rank]int)
	suitCounts := make(map[uint8]int)
	for _, c := range evalCards {
		rankCounts[c.Rank]++
		suitCounts[suitBucket(c.Suit, rules.SmearedSuits)]++
	}

	counts := make([]int, 0, len(rankCounts))
	for _, c := range rankCounts {
		counts = append(counts, c)
	}
	sort.Sort(sort.Reverse(sort.IntSlice(counts)))

	isFlush := (length == 5 && len(suitCounts) == 1) ||
		(rules.FourFingers && length == 4 && len(suitCounts) == 1)
	maxGap := 1
	if rules.Shortcut {
		maxGap = 2
	}
	isStraight := (length == 5 && isStraightLen(evalCards, 5, maxGap)) ||
		(rules.FourFingers && length == 4 && isStraightLen(evalCards, 4, maxGap))

	if length == 5 {
		switch {
		case equalCounts(counts, 5):
			if isFlush {
				return FlushFive
			}
			return FiveOfAKind
		case equalCounts(counts, 4, 1):
			return Quads
		case equalCounts(counts, 3, 2):
			if isFlush {
				return FlushHouse
			}
			return FullHouse
		}
		if isFlush && isStraight {
			if isRoyal(evalCards) {
				return RoyalFlush
			}
			return StraightFlush
		}
		if isFlush {
			return Flush
		}
		if isStraight {
			return Straight
		}
		switch {
		case equalCounts(counts, 3, 1, 1):
			return Trips
		case equalCounts(counts, 2, 2, 1):
			return TwoPair
		case equalCounts(counts, 2, 1, 1, 1):
			return Pair
		}
		return HighCard
	}

	if rules.FourFingers && length == 4 {
		if isFlush && isStraight {
			return StraightFlush
		}
		if isFlush {
			return Flush
		}
		if isStraight {
			return Straight
		}
	}

	switch {
	case equalCounts(counts, 4):
		return Quads
	case equalCounts(counts, 3), equalCounts(counts, 3, 1):
		return Trips
	case equalCounts(counts, 2, 2):
		return TwoPair
	case equalCounts(counts, 2), equalCounts(counts, 2, 1), equalCounts(counts, 2, 1, 1):
		return Pair
	}
	return HighCard
}

func equalCounts(counts []int, want ...int) bool {
	if len(counts) != len(want) {
		return false
	}
	for i, w := range want {
		if counts[i] != w {
			return false
		}
	}
	return true
}

func suitBucket(s cards.Suit, smeared bool) uint8 {
	if smeared {
		return s.SmearedGroup()
	}
	switch s {
	case cards.Spades:
		return 0
	case cards.Hearts:
		return 1
	case cards.Clubs:
		return 2
	case cards.Diamonds:
		return 3
	default:
		return 4
	}
}

func isStraightLen(cs []cards.Card, required, maxGap int) bool {
	values := make([]int, 0, len(cs))
	for _, c := range cs {
		values = append(values, c.Rank.RankValue())
	}
	values = dedupSorted(values)
	if len(values) != required {
		return false
	}
	if required == 5 && equalInts(values, []int{2, 3, 4, 5, 14}) {
		return true
	}
	if required == 4 && equalInts(values, []int{2, 3, 4, 14}) {
		return true
	}
	for i := 1; i < len(values); i++ {
		gap := values[i] - values[i-1]
		if gap < 0 {
			gap = 0
		}
		if gap > maxGap {
			return false
		}
	}
	return true
}

func isRoyal(cs []cards.Card) bool {
	values := make([]int, 0, len(cs))
	for _, c := range cs {
		values = append(values, c.Rank.RankValue())
	}
	sort.Ints(values)
	return equalInts(values, []int{10, 11, 12, 13, 14})
}

func dedupSorted(vs []int) []int {
	sort.Ints(vs)
	out := vs[:0]
	for i, v := range vs {
		if i == 0 || v != out[len(out)-1] {
			out = append(out, v)
		}
	}
	return out
}

func equalInts(a, b []int) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

// ScoringIndices returns, in ascending order, the indices into cs that
// score for the given hand kind: the best-count rank group(s) for
// count-based hands, the highest card for HighCard, and every non-stone
// card for the five-card categories. Stone cards always score via the
// "every non-stone card" rule's complement and are appended regardless of
// kind, matching the base implementation's unconditional stone inclusion.
func ScoringIndices(cs []cards.Card, kind Kind) []int {
	if len(cs) == 0 {
		return nil
	}

	rankCounts := make(map[cards.Rank]int)
	var stoneIndices []int
	for idx, c := range cs {
		if c.IsStone() {
			stoneIndices = append(stoneIndices, idx)
			continue
		}
		rankCounts[c.Rank]++
	}

	var scoring []int
	switch kind {
	case HighCard:
		if idx, ok := highestCardIndex(cs); ok {
			scoring = append(scoring, idx)
		}
	case Pair:
		scoring = append(scoring, pickIndicesByCount(cs, rankCounts, 2, 1)...)
	case TwoPair:
		scoring = append(scoring, pickIndicesByCount(cs, rankCounts, 2, 2)...)
	case Trips:
		scoring = append(scoring, pickIndicesByCount(cs, rankCounts, 3, 1)...)
	case Quads:
		scoring = append(scoring, pickIndicesByCount(cs, rankCounts, 4, 1)...)
	case FullHouse, Straight, Flush, StraightFlush, RoyalFlush, FiveOfAKind, FlushHouse, FlushFive:
		for idx, c := range cs {
			if !c.IsStone() {
				scoring = append(scoring, idx)
			}
		}
	}

	scoring = append(scoring, stoneIndices...)
	sort.Ints(scoring)
	return dedupSortedInts(scoring)
}

func dedupSortedInts(vs []int) []int {
	out := vs[:0]
	for i, v := range vs {
		if i == 0 || v != out[len(out)-1] {
			out = append(out, v)
		}
	}
	return out
}

func highestCardIndex(cs []cards.Card) (int, bool) {
	best := -1
	bestValue := -1
	for idx, c := range cs {
		if c.IsStone() {
			continue
		}
		v := c.Rank.RankValue()
		if v > bestValue {
			best = idx
			bestValue = v
		}
	}
	return best, best >= 0
}

func pickIndicesByCount(cs []cards.Card, rankCounts map[cards.Rank]int, count, maxGroups int) []int {
	type rankValue struct {
		rank  cards.Rank
		value int
	}
	var ranks []rankValue
	for r, c := range rankCounts {
		if c == count {
			ranks = append(ranks, rankValue{r, r.RankValue()})
		}
	}
	sort.Slice(ranks, func(i, j int) bool { return ranks[i].value > ranks[j].value })
	if len(ranks) > maxGroups {
		ranks = ranks[:maxGroups]
	}
	wanted := make(map[cards.Rank]bool, len(ranks))
	for _, rv := range ranks {
		wanted[rv.rank] = true
	}

	var picked []int
	for idx, c := range cs {
		if c.IsStone() {
			continue
		}
		if wanted[c.Rank] {
			picked = append(picked, idx)
		}
	}
	return picked
}
