package effect

import (
	"strings"

	"github.com/signalnine/balatromcts/gosim/internal/cards"
	"github.com/signalnine/balatromcts/gosim/internal/hand"
)

// Evaluate walks an Expr against a firing Context and returns its value.
// Unknown identifiers and calls resolve to None rather than erroring, so
// a content author's typo degrades a condition to false instead of
// crashing a run.
func Evaluate(e Expr, ctx Context) Value {
	switch e.Kind {
	case ExprBool:
		return BoolValue(e.Bool)
	case ExprNumber:
		return NumValue(e.Number)
	case ExprString:
		return StrValue(e.String)
	case ExprIdent:
		return resolveIdent(e.Ident, ctx)
	case ExprCall:
		args := make([]Value, len(e.Args))
		for i, a := range e.Args {
			args[i] = Evaluate(a, ctx)
		}
		return resolveCall(e.CallName, args, ctx)
	case ExprUnary:
		v := Evaluate(*e.Operand, ctx)
		switch e.UnaryOp {
		case Not:
			return BoolValue(!v.Truthy())
		case Neg:
			if n, ok := v.AsNumber(); ok {
				return NumValue(-n)
			}
			return None
		}
		return None
	case ExprBinary:
		return evaluateBinary(e, ctx)
	default:
		return None
	}
}

func evaluateBinary(e Expr, ctx Context) Value {
	left := Evaluate(*e.Left, ctx)
	switch e.BinOp {
	case Or:
		if left.Truthy() {
			return BoolValue(true)
		}
		return BoolValue(Evaluate(*e.Right, ctx).Truthy())
	case And:
		if !left.Truthy() {
			return BoolValue(false)
		}
		return BoolValue(Evaluate(*e.Right, ctx).Truthy())
	}

	right := Evaluate(*e.Right, ctx)
	switch e.BinOp {
	case Eq:
		return BoolValue(ValuesEqual(left, right, false))
	case Ne:
		return BoolValue(!ValuesEqual(left, right, false))
	case Lt:
		return BoolValue(CompareNumbers(left, right, func(a, b float64) bool { return a < b }))
	case Le:
		return BoolValue(CompareNumbers(left, right, func(a, b float64) bool { return a <= b }))
	case Gt:
		return BoolValue(CompareNumbers(left, right, func(a, b float64) bool { return a > b }))
	case Ge:
		return BoolValue(CompareNumbers(left, right, func(a, b float64) bool { return a >= b }))
	case Add:
		return CombineNumbers(left, right, func(a, b float64) float64 { return a + b })
	case Sub:
		return CombineNumbers(left, right, func(a, b float64) float64 { return a - b })
	case Mul:
		return CombineNumbers(left, right, func(a, b float64) float64 { return a * b })
	case Div:
		ln, lok := left.AsNumber()
		rn, rok := right.AsNumber()
		if !lok || !rok || rn == 0 {
			return None
		}
		return NumValue(ln / rn)
	default:
		return None
	}
}

func resolveIdent(name string, ctx Context) Value {
	switch strings.ToLower(name) {
	case "hand_kind", "hand":
		return StrValue(handName(ctx.HandKind))
	case "blind":
		return NumValue(float64(ctx.Blind))
	case "is_scoring":
		return BoolValue(ctx.IsScoring)
	case "is_held":
		return BoolValue(ctx.IsHeld)
	case "is_played":
		return BoolValue(ctx.IsPlayed)
	case "played_count":
		return NumValue(float64(ctx.PlayedCount))
	case "scoring_count":
		return NumValue(float64(ctx.ScoringCount))
	case "hands_left":
		return NumValue(float64(ctx.HandsLeft))
	case "discards_left":
		return NumValue(float64(ctx.DiscardsLeft))
	case "joker_count":
		return NumValue(float64(ctx.JokerCount))
	case "sold_value":
		if ctx.SoldValue != nil {
			return NumValue(float64(*ctx.SoldValue))
		}
		return None
	case "card_suit":
		if ctx.Card != nil {
			return StrValue(suitName(ctx.Card.Suit))
		}
		return None
	case "card_rank":
		if ctx.Card != nil {
			return StrValue(rankName(ctx.Card.Rank))
		}
		return None
	case "card_is_face":
		if ctx.Card != nil {
			return BoolValue(ctx.Card.Rank.IsFace())
		}
		return None
	case "card_is_wild":
		if ctx.Card != nil {
			return BoolValue(ctx.Card.IsWild())
		}
		return None
	case "card_is_stone":
		if ctx.Card != nil {
			return BoolValue(ctx.Card.IsStone())
		}
		return None
	default:
		if ctx.JokerVars != nil {
			if v, ok := ctx.JokerVars[name]; ok {
				return NumValue(v)
			}
		}
		return None
	}
}

func resolveCall(name string, args []Value, ctx Context) Value {
	switch strings.ToLower(name) {
	case "count":
		if len(args) != 2 {
			return None
		}
		scope, ok := args[0].AsString()
		if !ok {
			return None
		}
		target, ok := args[1].AsString()
		if !ok {
			return None
		}
		return NumValue(float64(CountMatching(scopeCards(ctx, scope), target, false)))
	case "contains":
		if len(args) != 2 {
			return None
		}
		scope, ok := args[0].AsString()
		if !ok {
			return None
		}
		target, ok := args[1].AsString()
		if !ok {
			return None
		}
		return BoolValue(CountMatching(scopeCards(ctx, scope), target, false) > 0)
	case "hand_contains":
		if len(args) != 1 {
			return None
		}
		target, ok := args[0].AsString()
		if !ok {
			return None
		}
		want, ok := HandKindFromString(target)
		if !ok {
			return None
		}
		return BoolValue(HandContainsKind(ctx.HandKind, want))
	default:
		return None
	}
}

func scopeCards(ctx Context, scope string) []cards.Card {
	switch strings.ToLower(strings.TrimSpace(scope)) {
	case "played":
		return ctx.PlayedCards
	case "scoring":
		return ctx.ScoringCards
	case "held":
		return ctx.HeldCards
	case "discarded":
		return ctx.DiscardedCards
	default:
		return nil
	}
}

// ValuesEqual compares two evaluated values. String comparisons between
// two recognizable suit names are smeared-aware when smeared is true, and
// a Wild suit string always compares equal to any other suit string.
func ValuesEqual(left, right Value, smeared bool) bool {
	if left.Kind == ValBool && right.Kind == ValBool {
		return left.Bool == right.Bool
	}
	if left.Kind == ValNum && right.Kind == ValNum {
		return left.Num == right.Num
	}
	if left.Kind == ValStr && right.Kind == ValStr {
		if ls, ok := SuitFromString(left.Str); ok {
			if rs, ok := SuitFromString(right.Str); ok {
				if ls == cards.Wild || rs == cards.Wild {
					return true
				}
				if smeared {
					return ls.SmearedGroup() == rs.SmearedGroup()
				}
				return ls == rs
			}
		}
		return left.Str == right.Str
	}
	ln, lok := left.AsNumber()
	rn, rok := right.AsNumber()
	return lok && rok && ln == rn
}

// CompareNumbers applies cmp to the numeric coercion of both values,
// returning false if either side doesn't coerce.
func CompareNumbers(left, right Value, cmp func(a, b float64) bool) bool {
	ln, lok := left.AsNumber()
	rn, rok := right.AsNumber()
	if !lok || !rok {
		return false
	}
	return cmp(ln, rn)
}

// CombineNumbers applies op to the numeric coercion of both values,
// returning None if either side doesn't coerce.
func CombineNumbers(left, right Value, op func(a, b float64) float64) Value {
	ln, lok := left.AsNumber()
	rn, rok := right.AsNumber()
	if !lok || !rok {
		return None
	}
	return NumValue(op(ln, rn))
}

// CountMatching counts how many cs match the given target keyword: a
// card-color/parity/wild/stone/enhanced bucket, a suit name, a rank name,
// or an enhancement/edition/seal name. Stone cards are excluded from the
// face/odd/even/black/red, suit and rank buckets; they still count toward
// "any"/"all", "stone", "enhanced", "wild" (when wild) and the
// enhancement/edition/seal name buckets.
func CountMatching(cs []cards.Card, target string, smeared bool) int {
	t := strings.ToLower(strings.TrimSpace(target))
	switch t {
	case "any", "all":
		return len(cs)
	case "face":
		return countIf(cs, func(c cards.Card) bool { return !c.IsStone() && c.Rank.IsFace() })
	case "odd":
		return countIf(cs, func(c cards.Card) bool { return !c.IsStone() && c.Rank.IsOdd() })
	case "even":
		return countIf(cs, func(c cards.Card) bool { return !c.IsStone() && c.Rank.IsEven() })
	case "wild":
		return countIf(cs, func(c cards.Card) bool { return c.IsWild() })
	case "stone":
		return countIf(cs, func(c cards.Card) bool { return c.IsStone() })
	case "enhanced":
		return countIf(cs, func(c cards.Card) bool { return c.Enhancement != nil })
	case "black":
		return countIf(cs, func(c cards.Card) bool { return !c.IsStone() && c.IsBlack() })
	case "red":
		return countIf(cs, func(c cards.Card) bool { return !c.IsStone() && c.IsRed() })
	}
	if suit, ok := SuitFromString(t); ok {
		if smeared {
			group := suit.SmearedGroup()
			return countIf(cs, func(c cards.Card) bool {
				return !c.IsStone() && (c.IsWild() || c.Suit.SmearedGroup() == group)
			})
		}
		return countIf(cs, func(c cards.Card) bool { return !c.IsStone() && (c.IsWild() || c.Suit == suit) })
	}
	if rank, ok := RankFromString(t); ok {
		return countIf(cs, func(c cards.Card) bool { return !c.IsStone() && c.Rank == rank })
	}
	if enh, ok := EnhancementFromString(t); ok {
		return countIf(cs, func(c cards.Card) bool { return c.Enhancement != nil && *c.Enhancement == enh })
	}
	if ed, ok := EditionFromString(t); ok {
		return countIf(cs, func(c cards.Card) bool { return c.Edition != nil && *c.Edition == ed })
	}
	if seal, ok := SealFromString(t); ok {
		return countIf(cs, func(c cards.Card) bool { return c.Seal != nil && *c.Seal == seal })
	}
	return 0
}

func countIf(cs []cards.Card, pred func(cards.Card) bool) int {
	n := 0
	for _, c := range cs {
		if pred(c) {
			n++
		}
	}
	return n
}

func handName(k hand.Kind) string {
	switch k {
	case hand.HighCard:
		return "HighCard"
	case hand.Pair:
		return "Pair"
	case hand.TwoPair:
		return "TwoPair"
	case hand.Trips:
		return "Trips"
	case hand.Straight:
		return "Straight"
	case hand.Flush:
		return "Flush"
	case hand.FullHouse:
		return "FullHouse"
	case hand.Quads:
		return "Quads"
	case hand.StraightFlush:
		return "StraightFlush"
	case hand.RoyalFlush:
		return "RoyalFlush"
	case hand.FiveOfAKind:
		return "FiveOfAKind"
	case hand.FlushHouse:
		return "FlushHouse"
	case hand.FlushFive:
		return "FlushFive"
	default:
		return "Unknown"
	}
}

func suitName(s cards.Suit) string { return s.String() }
func rankName(r cards.Rank) string { return r.String() }

// HandKindFromString parses a loosely-formatted hand kind name (any
// case, with or without underscores) into a hand.Kind.
func HandKindFromString(value string) (hand.Kind, bool) {
	switch normalize(value) {
	case "highcard", "high_card":
		return hand.HighCard, true
	case "pair":
		return hand.Pair, true
	case "twopair", "two_pair":
		return hand.TwoPair, true
	case "trips", "threeofakind", "three_kind":
		return hand.Trips, true
	case "straight":
		return hand.Straight, true
	case "flush":
		return hand.Flush, true
	case "fullhouse", "full_house":
		return hand.FullHouse, true
	case "quads", "four_kind", "fourkind":
		return hand.Quads, true
	case "straightflush", "straight_flush":
		return hand.StraightFlush, true
	case "royalflush", "royal_flush":
		return hand.RoyalFlush, true
	case "fiveofakind", "five_kind", "fivekind":
		return hand.FiveOfAKind, true
	case "flushhouse", "flush_house":
		return hand.FlushHouse, true
	case "flushfive", "flush_five":
		return hand.FlushFive, true
	default:
		return hand.HighCard, false
	}
}

func normalize(v string) string {
	return strings.ToLower(strings.TrimSpace(v))
}

// SuitFromString parses a suit name, singular or plural.
func SuitFromString(value string) (cards.Suit, bool) {
	switch normalize(value) {
	case "spades", "spade":
		return cards.Spades, true
	case "hearts", "heart":
		return cards.Hearts, true
	case "clubs", "club":
		return cards.Clubs, true
	case "diamonds", "diamond":
		return cards.Diamonds, true
	case "wild":
		return cards.Wild, true
	default:
		return 0, false
	}
}

// RankFromString parses a rank name, word form or digit form.
func RankFromString(value string) (cards.Rank, bool) {
	switch normalize(value) {
	case "ace", "a":
		return cards.Ace, true
	case "two", "2":
		return cards.Two, true
	case "three", "3":
		return cards.Three, true
	case "four", "4":
		return cards.Four, true
	case "five", "5":
		return cards.Five, true
	case "six", "6":
		return cards.Six, true
	case "seven", "7":
		return cards.Seven, true
	case "eight", "8":
		return cards.Eight, true
	case "nine", "9":
		return cards.Nine, true
	case "ten", "10":
		return cards.Ten, true
	case "jack", "j":
		return cards.Jack, true
	case "queen", "q":
		return cards.Queen, true
	case "king", "k":
		return cards.King, true
	case "joker":
		return cards.Joker, true
	default:
		return 0, false
	}
}

// EnhancementFromString parses an enhancement keyword.
func EnhancementFromString(value string) (cards.Enhancement, bool) {
	switch normalize(value) {
	case "bonus":
		return cards.Bonus, true
	case "mult":
		return cards.Mult, true
	case "wild":
		return cards.EnhWild, true
	case "glass":
		return cards.Glass, true
	case "steel":
		return cards.Steel, true
	case "stone":
		return cards.Stone, true
	case "lucky":
		return cards.Lucky, true
	case "gold":
		return cards.Gold, true
	default:
		return 0, false
	}
}

// EditionFromString parses an edition keyword.
func EditionFromString(value string) (cards.Edition, bool) {
	switch normalize(value) {
	case "foil":
		return cards.Foil, true
	case "holographic":
		return cards.Holographic, true
	case "polychrome":
		return cards.Polychrome, true
	case "negative":
		return cards.Negative, true
	default:
		return 0, false
	}
}

// SealFromString parses a seal keyword.
func SealFromString(value string) (cards.Seal, bool) {
	switch normalize(value) {
	case "red":
		return cards.Red, true
	case "blue":
		return cards.Blue, true
	case "gold":
		return cards.Gold2, true
	case "purple":
		return cards.Purple, true
	default:
		return 0, false
	}
}

// HandContainsKind reports whether a made hand satisfies a target hand
// category for "at least this good" condition checks (e.g. a boss that
// disallows discarding while holding at least a pair still blocks on
// trips, quads, and so on).
func HandContainsKind(made, target hand.Kind) bool {
	if made == target {
		return true
	}
	switch target {
	case hand.HighCard:
		return true
	case hand.Pair:
		switch made {
		case hand.Pair, hand.TwoPair, hand.Trips, hand.FullHouse, hand.Quads, hand.FiveOfAKind, hand.FlushHouse, hand.FlushFive:
			return true
		}
	case hand.TwoPair:
		return made == hand.TwoPair
	case hand.Trips:
		switch made {
		case hand.Trips, hand.FullHouse, hand.Quads, hand.FiveOfAKind, hand.FlushHouse, hand.FlushFive:
			return true
		}
	case hand.Straight:
		switch made {
		case hand.Straight, hand.StraightFlush, hand.RoyalFlush:
			return true
		}
	case hand.Flush:
		switch made {
		case hand.Flush, hand.StraightFlush, hand.RoyalFlush, hand.FlushHouse, hand.FlushFive:
			return true
		}
	case hand.FullHouse:
		return made == hand.FullHouse || made == hand.FlushHouse
	case hand.Quads:
		return made == hand.Quads || made == hand.FiveOfAKind || made == hand.FlushFive
	case hand.StraightFlush:
		return made == hand.StraightFlush || made == hand.RoyalFlush
	case hand.RoyalFlush:
		return made == hand.RoyalFlush
	case hand.FiveOfAKind:
		return made == hand.FiveOfAKind || made == hand.FlushFive
	case hand.FlushHouse:
		return made == hand.FlushHouse
	case hand.FlushFive:
		return made == hand.FlushFive
	}
	return false
}

// CheckCondition evaluates one Condition against ctx.
func CheckCondition(cond Condition, ctx Context) bool {
	switch cond.Kind {
	case CondAlways:
		return true
	case CondHandKind:
		return ctx.HandKind == cond.Hand
	case CondBlindKind:
		return ctx.Blind == cond.Blind
	case CondCardSuit:
		return ctx.Card != nil && (ctx.Card.IsWild() || ctx.Card.Suit == cond.Suit)
	case CondCardRank:
		return ctx.Card != nil && ctx.Card.Rank == cond.Rank
	case CondCardIsFace:
		return ctx.Card != nil && ctx.Card.Rank.IsFace()
	case CondCardIsOdd:
		return ctx.Card != nil && ctx.Card.Rank.IsOdd()
	case CondCardIsEven:
		return ctx.Card != nil && ctx.Card.Rank.IsEven()
	case CondCardHasEnhancement:
		return ctx.Card != nil && ctx.Card.HasEnhancement(cond.Enhancement)
	case CondCardHasEdition:
		return ctx.Card != nil && ctx.Card.HasEdition(cond.Edition)
	case CondCardHasSeal:
		return ctx.Card != nil && ctx.Card.HasSeal(cond.Seal)
	case CondCardIsStone:
		return ctx.Card != nil && ctx.Card.IsStone()
	case CondCardIsWild:
		return ctx.Card != nil && ctx.Card.IsWild()
	case CondIsBossBlind:
		return ctx.Blind == 2
	case CondIsScoringCard:
		return ctx.IsScoring
	case CondIsHeldCard:
		return ctx.IsHeld
	case CondIsPlayedCard:
		return ctx.IsPlayed
	default:
		return false
	}
}

// WhenHolds evaluates a block's guard expression. The zero-value Expr
// (ExprBool false, used by content that never sets a when clause) is
// treated as "no guard" rather than "always false", matching how
// LoadJokerCatalog leaves When unset for ordinary trigger-only blocks.
func WhenHolds(e Expr, ctx Context) bool {
	if e.Kind == ExprBool && !e.Bool {
		return true
	}
	return Evaluate(e, ctx).Truthy()
}

// ConditionsHold reports whether every condition in conds holds against
// ctx. An empty condition list always holds.
func ConditionsHold(conds []Condition, ctx Context) bool {
	for _, c := range conds {
		if !CheckCondition(c, ctx) {
			return false
		}
	}
	return true
}

// NumberFromValue is a small helper for action handlers that need a
// plain float64 out of an evaluated Expr, defaulting to 0 when the
// expression doesn't resolve numerically.
func NumberFromValue(v Value) float64 {
	n, ok := v.AsNumber()
	if !ok {
		return 0
	}
	return n
}
