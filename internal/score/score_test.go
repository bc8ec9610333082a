package score

import (
	"testing"

	"github.com/signalnine/balatromcts/gosim/internal/cards"
	"github.com/signalnine/balatromcts/gosim/internal/hand"
)

func TestTotalFloors(t *testing.T) {
	s := Score{Chips: 10, Mult: 2.3}
	if got := s.Total(); got != 23 {
		t.Fatalf("expected floor(10*2.3)=23, got %d", got)
	}
}

func TestApplyMultiplyChipsFloorsImmediately(t *testing.T) {
	s := Score{Chips: 10, Mult: 1}
	s.Apply(RuleEffect{Op: MultiplyChips, Value: 1.25})
	if s.Chips != 12 {
		t.Fatalf("expected floor(10*1.25)=12, got %d", s.Chips)
	}
}

func TestApplyAddAndMultiply(t *testing.T) {
	s := Score{Chips: 5, Mult: 1}
	s.Apply(RuleEffect{Op: AddChips, Value: 10})
	s.Apply(RuleEffect{Op: AddMult, Value: 2})
	s.Apply(RuleEffect{Op: MultiplyMult, Value: 3})
	if s.Chips != 15 || s.Mult != 9 {
		t.Fatalf("expected chips=15 mult=9, got chips=%d mult=%v", s.Chips, s.Mult)
	}
}

func TestDefaultHandBaseTable(t *testing.T) {
	b := DefaultHandBase(hand.FlushFive)
	if b.Chips != 160 || b.Mult != 16.0 {
		t.Fatalf("unexpected FlushFive base: %+v", b)
	}
	// Royal flush shares straight flush's base.
	if DefaultHandBase(hand.RoyalFlush) != DefaultHandBase(hand.StraightFlush) {
		t.Fatalf("expected RoyalFlush and StraightFlush to share a default base")
	}
}

func TestHandBaseForLevelScalesFromLevelOne(t *testing.T) {
	tables := NewTables(
		[]HandRuleConfig{{ID: "pair", BaseChips: 10, BaseMult: 2, LevelChips: 15, LevelMult: 1}},
		nil,
	)
	lvl1 := tables.HandBaseForLevel(hand.Pair, 1)
	if lvl1.Chips != 10 || lvl1.Mult != 2 {
		t.Fatalf("expected unscaled base at level 1, got %+v", lvl1)
	}
	lvl3 := tables.HandBaseForLevel(hand.Pair, 3)
	if lvl3.Chips != 40 || lvl3.Mult != 4 {
		t.Fatalf("expected level-3 pair base chips=40 mult=4, got %+v", lvl3)
	}
}

func TestHandBaseFallsBackToDefaultWhenUnconfigured(t *testing.T) {
	tables := NewTables(nil, nil)
	b := tables.HandBaseFor(hand.Straight)
	if b != DefaultHandBase(hand.Straight) {
		t.Fatalf("expected unconfigured hand kind to fall back to default base")
	}
}

func TestScoreHandWithRulesUsesLevelKindForRoyalFlush(t *testing.T) {
	tables := NewTables(nil, []RankChipConfig{
		{Rank: cards.Ace, Chips: 11}, {Rank: cards.King, Chips: 10},
		{Rank: cards.Queen, Chips: 10}, {Rank: cards.Jack, Chips: 10}, {Rank: cards.Ten, Chips: 10},
	})
	levels := map[hand.Kind]uint32{hand.StraightFlush: 2}
	cs := []cards.Card{
		cards.Standard(cards.Hearts, cards.Ten), cards.Standard(cards.Hearts, cards.Jack),
		cards.Standard(cards.Hearts, cards.Queen), cards.Standard(cards.Hearts, cards.King),
		cards.Standard(cards.Hearts, cards.Ace),
	}
	bd := ScoreHandWithRules(cs, tables, hand.EvalRules{}, levels)
	if bd.Hand != hand.RoyalFlush {
		t.Fatalf("expected RoyalFlush classification, got %v", bd.Hand)
	}
	straightFlushLvl2 := tables.HandBaseForLevel(hand.StraightFlush, 2)
	if bd.Base.Chips != straightFlushLvl2.Chips || bd.Base.Mult != straightFlushLvl2.Mult {
		t.Fatalf("expected RoyalFlush to read StraightFlush's level-2 base, got %+v", bd.Base)
	}
}

func TestScoreHandStoneContributesZeroRankChips(t *testing.T) {
	tables := NewTables(nil, []RankChipConfig{{Rank: cards.King, Chips: 10}})
	stone := cards.Stone
	cs := []cards.Card{
		{Suit: cards.Spades, Rank: cards.King, Enhancement: &stone},
	}
	bd := ScoreHand(cs, tables)
	if bd.RankChips != 0 {
		t.Fatalf("expected stone card to contribute zero rank chips, got %d", bd.RankChips)
	}
}
