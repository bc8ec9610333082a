package run

import (
	"sort"
	"strings"

	"github.com/signalnine/balatromcts/gosim/internal/cards"
	"github.com/signalnine/balatromcts/gosim/internal/effect"
	"github.com/signalnine/balatromcts/gosim/internal/events"
	"github.com/signalnine/balatromcts/gosim/internal/hand"
	"github.com/signalnine/balatromcts/gosim/internal/score"
)

// PrepareHand deals cards from the deck until the hand reaches hand_size
// or both deck piles are exhausted, and moves the phase to Play.
func (r *RunState) PrepareHand() error {
	if r.State.Phase != PhaseDeal {
		return ErrInvalidPhase
	}
	need := r.State.HandSize - len(r.Hand)
	if need > 0 {
		r.Hand = append(r.Hand, r.Deck.Deal(r.Rng, need)...)
	}
	r.State.Phase = PhasePlay
	r.Events.Push(events.Event{Kind: events.HandDealt, Count: len(r.Hand)})
	return nil
}

// validateSelection checks indices are unique and within the hand, and
// returns them sorted ascending.
func (r *RunState) validateSelection(indices []int) ([]int, error) {
	if len(indices) == 0 || len(indices) > 5 {
		return nil, ErrInvalidCardCount
	}
	seen := make(map[int]bool, len(indices))
	for _, idx := range indices {
		if idx < 0 || idx >= len(r.Hand) {
			return nil, ErrInvalidSelection
		}
		if seen[idx] {
			return nil, ErrInvalidSelection
		}
		seen[idx] = true
	}
	sorted := append([]int(nil), indices...)
	sort.Ints(sorted)
	return sorted, nil
}

// removeIndices returns cs with the cards at sortedIdx (ascending, no
// duplicates) removed, preserving the order of what remains.
func removeIndices(cs []cards.Card, sortedIdx []int) []cards.Card {
	remove := make(map[int]bool, len(sortedIdx))
	for _, idx := range sortedIdx {
		remove[idx] = true
	}
	out := make([]cards.Card, 0, len(cs)-len(sortedIdx))
	for i, c := range cs {
		if !remove[i] {
			out = append(out, c)
		}
	}
	return out
}

// PlayHand removes the selected cards from the hand and runs the full
// scoring pipeline: hand classification, base score lookup, per-card
// pre-score/scored/held effect phases, the independent and other-jokers
// joker phases, and the final floor(chips*mult) tally against blind_score.
func (r *RunState) PlayHand(indices []int) (score.Breakdown, error) {
	if r.State.Phase != PhasePlay {
		return score.Breakdown{}, ErrInvalidPhase
	}
	if r.State.HandsLeft == 0 {
		return score.Breakdown{}, ErrNoHandsLeft
	}
	sorted, err := r.validateSelection(indices)
	if err != nil {
		return score.Breakdown{}, err
	}

	played := make([]cards.Card, len(sorted))
	for i, idx := range sorted {
		played[i] = r.Hand[idx]
	}
	r.Hand = removeIndices(r.Hand, sorted)
	held := append([]cards.Card(nil), r.Hand...)

	rules := r.HandEvalRules()
	kind := hand.EvaluateWithRules(played, rules)
	scoringIdx := hand.ScoringIndices(played, kind)
	scoring := make([]cards.Card, len(scoringIdx))
	for i, idx := range scoringIdx {
		scoring[i] = played[idx]
	}

	level := r.HandLevel(kind)
	base := r.Tables.HandBaseForLevel(kind, level)
	sc := &score.Score{Chips: base.Chips, Mult: base.Mult}
	r.LastScoreTrace = nil
	var rankChips int64
	for _, c := range scoring {
		if c.IsStone() {
			continue
		}
		add := r.Tables.RankChips(c.Rank)
		rankChips += add
		r.applyRuleEffect(sc, "rank_chips", score.RuleEffect{Op: score.AddChips, Value: float64(add)})
	}

	for _, c := range scoring {
		r.applyScoringEffects(effect.OnScoredPre, kind, c, played, scoring, held, sc)
	}
	playedCtx := effect.Played(kind, r.runBlindOrdinal(), played, scoring, held,
		int(r.State.HandsLeft), int(r.State.DiscardsLeft), len(r.Inventory.Jokers))
	r.applyOwnedEffectsAt(effect.OnPlayed, playedCtx, sc)

	const maxRetriggersPerCard = 10
	for _, c := range scoring {
		r.applyCardScoredEffects(c, sc)
		r.pendingRetriggers = 0
		r.applyScoringEffects(effect.OnScored, kind, c, played, scoring, held, sc)
		for extra := 0; r.pendingRetriggers > 0 && extra < maxRetriggersPerCard && !r.cardMarkedDestroyed(c.ID); extra++ {
			r.pendingRetriggers--
			r.applyCardScoredEffects(c, sc)
			r.applyScoringEffects(effect.OnScored, kind, c, played, scoring, held, sc)
		}
		r.pendingRetriggers = 0
	}

	for _, c := range held {
		r.applyCardHeldEffects(c, sc)
		r.pendingRetriggers = 0
		r.applyScoringEffects(effect.OnHeld, kind, c, played, scoring, held, sc)
		for extra := 0; r.pendingRetriggers > 0 && extra < maxRetriggersPerCard && !r.cardMarkedDestroyed(c.ID); extra++ {
			r.pendingRetriggers--
			r.applyCardHeldEffects(c, sc)
			r.applyScoringEffects(effect.OnHeld, kind, c, played, scoring, held, sc)
		}
		r.pendingRetriggers = 0
	}

	indCtx := effect.IndependentContext(kind, r.runBlindOrdinal(), played, scoring, held,
		int(r.State.HandsLeft), int(r.State.DiscardsLeft), len(r.Inventory.Jokers))
	r.applyOwnedEffectsAt(effect.Independent, indCtx, sc)
	r.applyOtherJokersEffects(kind, played, scoring, held, sc)

	total := sc.Total()
	r.State.BlindScore += total
	r.State.HandsLeft--
	r.State.LastHand = &kind
	r.State.HandPlayCounts[kind]++
	r.markRulesDirty()

	played = r.flushPendingCardEffects(played)
	r.Deck.Send(played)
	r.Events.Push(events.Event{Kind: events.HandScored, Hand: kind, Chips: sc.Chips, Mult: sc.Mult, Total: total})
	r.applyIndependentEffectsWithCards(effect.OnHandEnd, played, scoring, held)

	r.State.Phase = PhaseScore
	if _, resolved := r.CheckOutcome(); !resolved {
		r.State.Phase = PhaseDeal
	}

	return score.Breakdown{
		Hand:           kind,
		Base:           score.Score{Chips: base.Chips, Mult: base.Mult},
		RankChips:      rankChips,
		ScoringIndices: scoringIdx,
		Total:          *sc,
	}, nil
}

// Discard sends the selected cards to the discard pile, fires OnDiscard
// per card then OnDiscardBatch, decrements discards_left, and re-deals
// up to hand_size.
func (r *RunState) Discard(indices []int) error {
	if r.State.Phase != PhasePlay {
		return ErrInvalidPhase
	}
	if r.State.DiscardsLeft == 0 {
		return ErrNoDiscardsLeft
	}
	sorted, err := r.validateSelection(indices)
	if err != nil {
		return err
	}

	discarded := make([]cards.Card, len(sorted))
	for i, idx := range sorted {
		discarded[i] = r.Hand[idx]
	}
	r.Hand = removeIndices(r.Hand, sorted)
	held := append([]cards.Card(nil), r.Hand...)

	lastHand := hand.HighCard
	if r.State.LastHand != nil {
		lastHand = *r.State.LastHand
	}
	for _, c := range discarded {
		ctx := effect.Discard(lastHand, r.runBlindOrdinal(), c, held, discarded,
			int(r.State.HandsLeft), int(r.State.DiscardsLeft), len(r.Inventory.Jokers))
		r.applyOwnedEffectsAt(effect.OnDiscard, ctx, nil)
	}
	batchCtx := effect.DiscardBatch(lastHand, r.runBlindOrdinal(), held, discarded,
		int(r.State.HandsLeft), int(r.State.DiscardsLeft), len(r.Inventory.Jokers))
	r.applyOwnedEffectsAt(effect.OnDiscardBatch, batchCtx, nil)

	r.Deck.Send(discarded)
	r.State.DiscardsLeft--

	need := r.State.HandSize - len(r.Hand)
	if need > 0 {
		r.Hand = append(r.Hand, r.Deck.Deal(r.Rng, need)...)
	}
	return nil
}

// applyOtherJokersEffects fires every owned joker's OnOtherJokers block
// once for each other joker present in the inventory, in inventory
// order.
func (r *RunState) applyOtherJokersEffects(kind hand.Kind, played, scoring, held []cards.Card, sc *score.Score) {
	sources := r.ownedJokerDefs()
	if len(sources) < 2 {
		return
	}
	ctx := effect.IndependentContext(kind, r.runBlindOrdinal(), played, scoring, held,
		int(r.State.HandsLeft), int(r.State.DiscardsLeft), len(r.Inventory.Jokers))
	for _, src := range sources {
		inst := r.Inventory.Jokers[src.instanceIndex]
		for _, block := range src.def.Effects {
			if block.Trigger != effect.OnOtherJokers {
				continue
			}
			jctx := ctx.WithJokerVars(inst.Vars).WithJokerIndex(src.instanceIndex)
			if !effect.WhenHolds(block.When, jctx) {
				continue
			}
			for i := 0; i < len(sources)-1; i++ {
				r.applyActions(block.Actions, jctx, sc, effect.OnOtherJokers)
			}
		}
	}
}

// applyCardScoredEffects applies a scoring card's own enhancement/
// edition/seal contributions (the base-game per-card modifiers, as
// opposed to joker OnScored blocks) directly to sc.
func (r *RunState) applyCardScoredEffects(c cards.Card, sc *score.Score) {
	if c.Enhancement != nil {
		name := strings.ToLower(c.Enhancement.String())
		def := r.Config.CardAttrs.Enhancement(name)
		if def.Chips != 0 {
			r.applyRuleEffect(sc, name, score.RuleEffect{Op: score.AddChips, Value: float64(def.Chips)})
		}
		if def.MultAdd != 0 {
			r.applyRuleEffect(sc, name, score.RuleEffect{Op: score.AddMult, Value: def.MultAdd})
		}
		if def.MultMul != 0 {
			r.applyRuleEffect(sc, name, score.RuleEffect{Op: score.MultiplyMult, Value: def.MultMul})
		}
		if def.ProbMultOdds > 0 && r.Rng.Intn(int(def.ProbMultOdds)) == 0 {
			r.applyRuleEffect(sc, name, score.RuleEffect{Op: score.AddMult, Value: def.ProbMultAdd})
		}
		if def.ProbMoneyOdds > 0 && r.Rng.Intn(int(def.ProbMoneyOdds)) == 0 {
			r.State.Money += def.ProbMoneyAdd
		}
		if def.DestroyOdds > 0 && r.Rng.Intn(int(def.DestroyOdds)) == 0 {
			r.queueCardDestroy(c.ID)
		}
	}
	if c.BonusChips != 0 {
		r.applyRuleEffect(sc, "bonus_chips", score.RuleEffect{Op: score.AddChips, Value: float64(c.BonusChips)})
	}
	if c.Edition != nil {
		name := strings.ToLower(c.Edition.String())
		def := r.Config.CardAttrs.Edition(name)
		if def.Chips != 0 {
			r.applyRuleEffect(sc, name, score.RuleEffect{Op: score.AddChips, Value: float64(def.Chips)})
		}
		if def.MultAdd != 0 {
			r.applyRuleEffect(sc, name, score.RuleEffect{Op: score.AddMult, Value: def.MultAdd})
		}
		if def.MultMul != 0 {
			r.applyRuleEffect(sc, name, score.RuleEffect{Op: score.MultiplyMult, Value: def.MultMul})
		}
	}
	if c.Seal != nil {
		def := r.Config.CardAttrs.Seal(strings.ToLower(c.Seal.String()))
		if def.MoneyScored != 0 {
			r.State.Money += def.MoneyScored
		}
	}
}

// applyCardHeldEffects applies a held card's Steel-style mult_mul_held
// enhancement bonus and seal held-money bonus.
func (r *RunState) applyCardHeldEffects(c cards.Card, sc *score.Score) {
	if c.Enhancement != nil {
		name := strings.ToLower(c.Enhancement.String())
		def := r.Config.CardAttrs.Enhancement(name)
		if def.MultMulHeld != 0 {
			r.applyRuleEffect(sc, name, score.RuleEffect{Op: score.MultiplyMult, Value: def.MultMulHeld})
		}
	}
	if c.Seal != nil {
		def := r.Config.CardAttrs.Seal(strings.ToLower(c.Seal.String()))
		if def.MoneyHeld != 0 {
			r.State.Money += def.MoneyHeld
		}
	}
}
