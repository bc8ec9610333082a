package effect

import (
	"testing"

	"github.com/signalnine/balatromcts/gosim/internal/cards"
	"github.com/signalnine/balatromcts/gosim/internal/hand"
)

func TestEvaluateIdentAndBinary(t *testing.T) {
	ctx := Played(hand.Flush, 1, nil, nil, nil, 3, 2, 1)
	e := BinaryExpr(IdentExpr("hands_left"), Gt, NumberExpr(1))
	if !Evaluate(e, ctx).Truthy() {
		t.Fatalf("expected hands_left > 1 to be true")
	}
}

func TestEvaluateUnknownIdentIsNone(t *testing.T) {
	ctx := Played(hand.Flush, 0, nil, nil, nil, 0, 0, 0)
	v := Evaluate(IdentExpr("nonexistent"), ctx)
	if v.Kind != ValNone {
		t.Fatalf("expected unknown ident to resolve to None, got %+v", v)
	}
}

func TestEvaluateJokerVarLookup(t *testing.T) {
	ctx := Played(hand.Flush, 0, nil, nil, nil, 0, 0, 0).WithJokerVars(map[string]float64{"stacks": 4})
	v := Evaluate(IdentExpr("stacks"), ctx)
	if n, ok := v.AsNumber(); !ok || n != 4 {
		t.Fatalf("expected joker var lookup to resolve to 4, got %+v", v)
	}
}

func TestCountMatchingSuitWithWildcards(t *testing.T) {
	cs := []cards.Card{
		cards.Standard(cards.Hearts, cards.Two),
		cards.Standard(cards.Wild, cards.Three),
		cards.Standard(cards.Clubs, cards.Four),
	}
	if n := CountMatching(cs, "hearts", false); n != 2 {
		t.Fatalf("expected wild to count toward hearts, got %d", n)
	}
}

func TestCountMatchingSmearedSuits(t *testing.T) {
	cs := []cards.Card{
		cards.Standard(cards.Spades, cards.Two),
		cards.Standard(cards.Clubs, cards.Three),
	}
	if n := CountMatching(cs, "spades", false); n != 1 {
		t.Fatalf("expected non-smeared spades count of 1, got %d", n)
	}
	if n := CountMatching(cs, "spades", true); n != 2 {
		t.Fatalf("expected smeared spades to also count clubs, got %d", n)
	}
}

func TestValuesEqualWildSuitAlwaysMatches(t *testing.T) {
	if !ValuesEqual(StrValue("wild"), StrValue("hearts"), false) {
		t.Fatalf("expected wild suit string to equal any suit string")
	}
}

func TestActionOpFromKeywordAliases(t *testing.T) {
	if op, ok := FromKeyword("mul_mult"); !ok || op != OpMultiplyMult {
		t.Fatalf("expected mul_mult alias to resolve to OpMultiplyMult, got %v ok=%v", op, ok)
	}
	if op, ok := FromKeyword("MULTIPLY_MULT"); !ok || op != OpMultiplyMult {
		t.Fatalf("expected case-insensitive alias resolution, got %v ok=%v", op, ok)
	}
	if _, ok := FromKeyword("not_a_real_op"); ok {
		t.Fatalf("expected unknown keyword to fail")
	}
}

func TestActionOpRequiresTarget(t *testing.T) {
	if !OpSetVar.RequiresTarget() {
		t.Fatalf("expected SetVar to require a target")
	}
	if OpAddChips.RequiresTarget() {
		t.Fatalf("expected AddChips to not require a target")
	}
}

func TestHandContainsKindPairThreshold(t *testing.T) {
	if !HandContainsKind(hand.Trips, hand.Pair) {
		t.Fatalf("expected trips to satisfy a pair-or-better condition")
	}
	if HandContainsKind(hand.Pair, hand.Trips) {
		t.Fatalf("expected pair to not satisfy a trips-or-better condition")
	}
}

func TestCheckConditionCardSuitWild(t *testing.T) {
	card := cards.Standard(cards.Wild, cards.Five)
	ctx := Context{Card: &card}
	cond := Condition{Kind: CondCardSuit, Suit: cards.Hearts}
	if !CheckCondition(cond, ctx) {
		t.Fatalf("expected wild card to satisfy any suit condition")
	}
}
