// Package score computes chip/mult totals for a played hand and carries
// the running score a joker effect graph mutates step by step.
package score

import (
	"math"

	"github.com/signalnine/balatromcts/gosim/internal/cards"
	"github.com/signalnine/balatromcts/gosim/internal/hand"
)

// Score is the running chips/mult pair a scored hand accumulates.
type Score struct {
	Chips int64
	Mult  float64
}

// Total floors chips*mult to the final integer score, matching the
// reference rounding rule (always floor, never round-to-nearest).
func (s Score) Total() int64 {
	return int64(math.Floor(float64(s.Chips) * s.Mult))
}

// EffectOp names the four ways a RuleEffect can mutate a Score.
type EffectOp uint8

const (
	AddChips EffectOp = iota
	AddMult
	MultiplyMult
	MultiplyChips
)

// RuleEffect is one atomic mutation applied to a running Score.
type RuleEffect struct {
	Op    EffectOp
	Value float64
}

// Apply mutates s in place according to effect. MultiplyChips floors the
// scaled chip value immediately, matching how the reference keeps chips
// an integer at every step rather than only at the final Total.
func (s *Score) Apply(effect RuleEffect) {
	switch effect.Op {
	case AddChips:
		s.Chips += int64(effect.Value)
	case AddMult:
		s.Mult += effect.Value
	case MultiplyMult:
		s.Mult *= effect.Value
	case MultiplyChips:
		s.Chips = int64(math.Floor(float64(s.Chips) * effect.Value))
	}
}

// HandBase is a hand kind's unleveled (base_chips, base_mult) pair.
type HandBase struct {
	Chips int64
	Mult  float64
}

// Tables holds the per-hand-kind base/level scoring rules and the
// per-rank chip table, both populated from game configuration with a
// fallback to the built-in defaults for any hand kind the configuration
// omits.
type Tables struct {
	handRules      map[string]HandBase
	handLevelRules map[string]HandBase
	rankChips      map[cards.Rank]int64
}

// HandRuleConfig is one row of a hand's base and per-level scoring rule,
// keyed by hand.Kind.ID().
type HandRuleConfig struct {
	ID         string
	BaseChips  int64
	BaseMult   float64
	LevelChips int64
	LevelMult  float64
}

// RankChipConfig is one row of a rank's chip value.
type RankChipConfig struct {
	Rank  cards.Rank
	Chips int64
}

// NewTables builds a Tables from configuration rows. Any hand kind not
// present in hands falls back to DefaultHandBase.
func NewTables(hands []HandRuleConfig, ranks []RankChipConfig) *Tables {
	t := &Tables{
		handRules:      make(map[string]HandBase, len(hands)),
		handLevelRules: make(map[string]HandBase, len(hands)),
		rankChips:      make(map[cards.Rank]int64, len(ranks)),
	}
	for _, h := range hands {
		t.handRules[h.ID] = HandBase{Chips: h.BaseChips, Mult: h.BaseMult}
		t.handLevelRules[h.ID] = HandBase{Chips: h.LevelChips, Mult: h.LevelMult}
	}
	for _, r := range ranks {
		t.rankChips[r.Rank] = r.Chips
	}
	return t
}

// HandBaseFor returns the unleveled base chips/mult for kind, falling
// back to DefaultHandBase if not configured.
func (t *Tables) HandBaseFor(kind hand.Kind) HandBase {
	if b, ok := t.handRules[kind.ID()]; ok {
		return b
	}
	return DefaultHandBase(kind)
}

// HandBaseForLevel returns the level-scaled chips/mult for kind at the
// given level. Level <= 1 returns the unleveled base; each level above 1
// adds one increment of the hand's configured level_chips/level_mult
// (defaulting to 0 if unconfigured).
func (t *Tables) HandBaseForLevel(kind hand.Kind, level uint32) HandBase {
	base := t.HandBaseFor(kind)
	if level <= 1 {
		return base
	}
	levelStep := t.handLevelRules[kind.ID()]
	extra := int64(level - 1)
	return HandBase{
		Chips: base.Chips + levelStep.Chips*extra,
		Mult:  base.Mult + levelStep.Mult*float64(extra),
	}
}

// RankChips returns the configured chip value for rank, or 0 if
// unconfigured.
func (t *Tables) RankChips(rank cards.Rank) int64 {
	return t.rankChips[rank]
}

// DefaultHandBase gives the built-in (base_chips, base_mult) pair for
// every hand kind, used whenever configuration omits a kind.
func DefaultHandBase(kind hand.Kind) HandBase {
	switch kind {
	case hand.HighCard:
		return HandBase{5, 1.0}
	case hand.Pair:
		return HandBase{10, 2.0}
	case hand.TwoPair:
		return HandBase{20, 2.0}
	case hand.Trips:
		return HandBase{30, 3.0}
	case hand.Straight:
		return HandBase{30, 4.0}
	case hand.Flush:
		return HandBase{35, 4.0}
	case hand.FullHouse:
		return HandBase{40, 4.0}
	case hand.Quads:
		return HandBase{60, 7.0}
	case hand.StraightFlush, hand.RoyalFlush:
		return HandBase{100, 8.0}
	case hand.FiveOfAKind:
		return HandBase{120, 12.0}
	case hand.FlushHouse:
		return HandBase{140, 14.0}
	case hand.FlushFive:
		return HandBase{160, 16.0}
	default:
		return HandBase{5, 1.0}
	}
}

// Breakdown is the result of scoring one played hand: which cards
// counted, the base score before chip additions, and the running total.
// ScoreHandWithRules fills Total with base plus rank chips, before any
// joker/effect-graph mutation; run.PlayHand fills it with the final score
// after every effect has been applied.
type Breakdown struct {
	Hand           hand.Kind
	Base           Score
	RankChips      int64
	ScoringIndices []int
	Total          Score
}

// ScoreHand evaluates cards under default rules at hand level 1 and sums
// rank chips for the scoring cards. Used for quick previews where joker
// level state isn't available.
func ScoreHand(cs []cards.Card, tables *Tables) Breakdown {
	return ScoreHandWithRules(cs, tables, hand.EvalRules{}, nil)
}

// ScoreHandWithRules evaluates cards under the given rule set, looks up
// the hand's current level (keyed by its LevelKind, so Royal Flush reads
// the Straight Flush level), and sums rank chips for the scoring cards.
// Stone cards contribute zero rank chips even though they are included in
// the scoring indices.
func ScoreHandWithRules(cs []cards.Card, tables *Tables, rules hand.EvalRules, handLevels map[hand.Kind]uint32) Breakdown {
	kind := hand.EvaluateWithRules(cs, rules)
	levelKey := hand.LevelKind(kind)
	level := uint32(1)
	if handLevels != nil {
		if lv, ok := handLevels[levelKey]; ok {
			level = lv
		}
	}
	base := tables.HandBaseForLevel(kind, level)
	baseScore := Score{Chips: base.Chips, Mult: base.Mult}

	scoring := hand.ScoringIndices(cs, kind)
	var rankChips int64
	for _, idx := range scoring {
		if cs[idx].IsStone() {
			continue
		}
		rankChips += tables.RankChips(cs[idx].Rank)
	}

	total := Score{Chips: baseScore.Chips + rankChips, Mult: baseScore.Mult}

	return Breakdown{
		Hand:           kind,
		Base:           baseScore,
		RankChips:      rankChips,
		ScoringIndices: scoring,
		Total:          total,
	}
}

// TraceStep records one effect application for diagnostics/replay: the
// effect's source (a joker id, a card enhancement, etc.), the effect
// itself, and the score immediately before and after it was applied.
type TraceStep struct {
	Source string
	Effect RuleEffect
	Before Score
	After  Score
}
