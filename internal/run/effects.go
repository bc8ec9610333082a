package run

import (
	"sort"
	"strings"

	"github.com/signalnine/balatromcts/gosim/internal/cards"
	"github.com/signalnine/balatromcts/gosim/internal/content"
	"github.com/signalnine/balatromcts/gosim/internal/effect"
	"github.com/signalnine/balatromcts/gosim/internal/hand"
	"github.com/signalnine/balatromcts/gosim/internal/score"
	"github.com/signalnine/balatromcts/gosim/internal/shop"
)

// jokerEffectSource pairs an owned joker's effect definitions with its
// per-instance variables, so action application can read/write a joker's
// own stacking counters.
type jokerEffectSource struct {
	instanceIndex int
	def           content.JokerDef
}

// cardMutation is a per-card attribute change queued mid-scoring and
// flushed once the current hand's scored/held phases finish. Contexts
// built for OnScoredPre/OnScored/OnHeld carry a copy of the subject card
// (see effect.Scoring/effect.Held), so a joker action can't write back
// through ctx.Card; it queues a mutation here instead, keyed by the
// card's stable ID.
type cardMutation struct {
	id          uint32
	enhancement *cards.Enhancement
	clearEnh    bool
	edition     *cards.Edition
	seal        *cards.Seal
	bonusDelta  int64
}

func (r *RunState) ownedJokerDefs() []jokerEffectSource {
	sources := make([]jokerEffectSource, 0, len(r.Inventory.Jokers))
	for i, inst := range r.Inventory.Jokers {
		def, ok := r.jokerDefByID(inst.ID)
		if !ok {
			continue
		}
		sources = append(sources, jokerEffectSource{instanceIndex: i, def: def})
	}
	return sources
}

func (r *RunState) jokerDefByID(id string) (content.JokerDef, bool) {
	for _, j := range r.Content.Jokers {
		if j.ID == id {
			return j, true
		}
	}
	return content.JokerDef{}, false
}

// runBlindOrdinal converts the run's BlindKind into the plain ordinal
// effect.Condition/effect.Context expect (see effect.Condition.Blind's
// doc comment: it avoids importing internal/run to prevent a cycle, so
// the convention is a bare 0=Small/1=Big/2=Boss ordinal).
func (r *RunState) runBlindOrdinal() uint8 {
	return uint8(r.State.Blind)
}

// applyIndependentEffects runs every owned joker's effect blocks matching
// trigger (Independent-style moments: blind start/failed, round end,
// passive rule recomputation) against an Independent context built from
// the run's current hand in hold, applying their actions to money and
// rule variables. See applyIndependentEffectsWithCards for the variant
// used mid-scoring, where played/scoring/held differ from r.Hand.
func (r *RunState) applyIndependentEffects(trigger effect.ActivationType) {
	heldCopy := append([]cards.Card(nil), r.Hand...)
	r.applyIndependentEffectsWithCards(trigger, nil, nil, heldCopy)
}

// applyIndependentEffectsWithCards runs every owned joker's Independent-
// style effect blocks matching trigger against an explicit played/
// scoring/held grouping, used by OnHandEnd where the freshly played
// cards differ from r.Hand. The in-scoring Independent/OnPlayed phases
// build their contexts inline in PlayHand so they can thread the running
// score and the just-evaluated hand kind through.
func (r *RunState) applyIndependentEffectsWithCards(trigger effect.ActivationType, played, scoring, held []cards.Card) {
	lastHand := hand.HighCard
	if r.State.LastHand != nil {
		lastHand = *r.State.LastHand
	}
	ctx := effect.IndependentContext(lastHand, r.runBlindOrdinal(), played, scoring, held,
		int(r.State.HandsLeft), int(r.State.DiscardsLeft), len(r.Inventory.Jokers))
	r.applyOwnedEffectsAt(trigger, ctx, nil)
}

// applyScoringEffects runs every owned joker's effect blocks matching
// trigger (OnScoredPre/OnScored/OnHeld) once per subject card, mutating
// sc in place. card is the scoring or held card the block's Condition/
// When clauses evaluate against.
func (r *RunState) applyScoringEffects(trigger effect.ActivationType, kind hand.Kind, card cards.Card, played, scoring, held []cards.Card, sc *score.Score) {
	var ctx effect.Context
	if trigger == effect.OnHeld {
		ctx = effect.Held(kind, r.runBlindOrdinal(), card, played, scoring, held,
			int(r.State.HandsLeft), int(r.State.DiscardsLeft), len(r.Inventory.Jokers))
	} else {
		ctx = effect.Scoring(kind, r.runBlindOrdinal(), card, played, scoring, held,
			int(r.State.HandsLeft), int(r.State.DiscardsLeft), len(r.Inventory.Jokers))
	}
	r.applyOwnedEffectsAt(trigger, ctx, sc)
}

// fireCardAdded runs every owned joker's OnCardAdded blocks for a card
// that just entered the hand (a stone card, a copy, a random card).
func (r *RunState) fireCardAdded(c cards.Card) {
	ctx := effect.Context{Card: &c, JokerCount: len(r.Inventory.Jokers)}
	r.applyOwnedEffectsAt(effect.OnCardAdded, ctx, nil)
}

// fireCardDestroyed runs every owned joker's OnCardDestroyed blocks for a
// card that is leaving play.
func (r *RunState) fireCardDestroyed(c cards.Card) {
	ctx := effect.Context{Card: &c, JokerCount: len(r.Inventory.Jokers)}
	r.applyOwnedEffectsAt(effect.OnCardDestroyed, ctx, nil)
}

// applyOwnedEffectsAt runs every owned joker's effect blocks matching
// trigger against a pre-built context, attaching each joker's own
// persistent variables and inventory index before evaluating its when
// guard, then does the same for the active boss blind's own effect
// blocks (if any, and not currently disabled). sc may be nil for
// triggers with no running score to mutate. Any joker destruction queued
// while iterating (destroy_self, destroy_random_joker, ...) is flushed
// once the whole pass completes, so removing a joker never shifts the
// index of one still waiting to fire in this same pass.
func (r *RunState) applyOwnedEffectsAt(trigger effect.ActivationType, ctx effect.Context, sc *score.Score) {
	r.effectPassDepth++
	defer func() { r.effectPassDepth-- }()

	for _, src := range r.ownedJokerDefs() {
		if src.instanceIndex >= len(r.Inventory.Jokers) {
			continue
		}
		inst := r.Inventory.Jokers[src.instanceIndex]
		for _, block := range src.def.Effects {
			if block.Trigger != trigger {
				continue
			}
			jctx := ctx.WithJokerVars(inst.Vars).WithJokerIndex(src.instanceIndex)
			if !effect.WhenHolds(block.When, jctx) {
				continue
			}
			r.applyActions(block.Actions, jctx, sc, trigger)
		}
	}

	if !r.BossEffectsDisabled() {
		if boss, ok := r.CurrentBoss(); ok {
			for _, block := range boss.Effects {
				if block.Trigger != trigger {
					continue
				}
				if !effect.WhenHolds(block.When, ctx) {
					continue
				}
				r.applyActions(block.Actions, ctx, sc, trigger)
			}
		}
	}

	r.fireTagEffects(trigger, ctx, sc)
	if r.effectPassDepth == 1 {
		r.flushPendingJokerRemovals()
	}
}

// fireTagEffects runs any held skip-blind tag whose effect blocks match
// trigger, consuming the tag once it fires. Tags granted while firing
// (add_tag actions) land after the surviving tags and wait for their own
// trigger moment.
func (r *RunState) fireTagEffects(trigger effect.ActivationType, ctx effect.Context, sc *score.Score) {
	if len(r.State.Tags) == 0 {
		return
	}
	snapshot := r.State.Tags
	r.State.Tags = nil
	for _, id := range snapshot {
		fired := false
		if def, ok := r.Content.TagByID(id); ok {
			for _, block := range def.Effects {
				if block.Trigger != trigger {
					continue
				}
				if !effect.WhenHolds(block.When, ctx) {
					continue
				}
				r.applyActions(block.Actions, ctx, sc, trigger)
				fired = true
			}
		}
		if !fired {
			r.State.Tags = append(r.State.Tags, id)
		}
	}
}

// applyActions executes a joker effect block's actions against the
// current money/rule-var/card/inventory state and, when sc is non-nil,
// the in-progress score. Actions that mutate a card's own attributes or
// destroy it are deferred through cardMutation/pendingCardDestroys and
// committed once the current scored/held pass finishes (see
// flushPendingCardEffects), since the Card a mid-scoring context
// points to is a snapshot, not the live slice entry. Joker roster
// changes (destroy/duplicate/copy/add) are likewise deferred through
// pendingJokerRemovals where they'd otherwise disturb an in-progress
// iteration over owned jokers; additions take effect immediately since
// they only append.
func (r *RunState) applyActions(actions []effect.Action, ctx effect.Context, sc *score.Score, trigger effect.ActivationType) {
	source := r.effectSource(ctx)
	for _, action := range actions {
		value := effect.Evaluate(action.Value, ctx)
		num, _ := value.AsNumber()
		str, _ := value.AsString()
		switch action.Op {
		case effect.OpAddChips:
			if sc != nil {
				r.applyRuleEffect(sc, source, score.RuleEffect{Op: score.AddChips, Value: num})
			}
		case effect.OpAddMult:
			if sc != nil {
				r.applyRuleEffect(sc, source, score.RuleEffect{Op: score.AddMult, Value: num})
			}
		case effect.OpMultiplyMult:
			if sc != nil {
				r.applyRuleEffect(sc, source, score.RuleEffect{Op: score.MultiplyMult, Value: num})
			}
		case effect.OpMultiplyChips:
			if sc != nil {
				r.applyRuleEffect(sc, source, score.RuleEffect{Op: score.MultiplyChips, Value: num})
			}
		case effect.OpAddMoney:
			r.State.Money += int64(num)
		case effect.OpSetMoney:
			r.State.Money = int64(num)
		case effect.OpDoubleMoney:
			gain := r.State.Money
			if gain < 0 {
				gain = 0
			}
			if cap := int64(num); cap > 0 && gain > cap {
				gain = cap
			}
			r.State.Money += gain
		case effect.OpCollectJokerMoney:
			r.collectJokerMoney(int64(num))
		case effect.OpAddHandSize:
			r.State.HandSizeBase += int(num)
		case effect.OpAddHands:
			r.State.HandsLeft += uint8(num)
		case effect.OpAddDiscards:
			r.State.DiscardsLeft += uint8(num)
		case effect.OpSetDiscards:
			r.State.DiscardsLeft = uint8(num)
		case effect.OpSetHands:
			r.State.HandsLeft = uint8(num)
		case effect.OpUpgradeHand:
			kind := ctx.HandKind
			if action.Target != "" {
				if named, ok := effect.HandKindFromString(action.Target); ok {
					kind = named
				}
			}
			r.UpgradeHandLevel(kind, uint32(num))
		case effect.OpUpgradeRandomHand:
			idx := r.Rng.Intn(len(hand.All))
			r.UpgradeHandLevel(hand.All[idx], uint32(num))
		case effect.OpUpgradeAllHands:
			amount := uint32(num)
			if amount == 0 {
				amount = 1
			}
			r.UpgradeAllHands(amount)
		case effect.OpPreventDeath:
			r.preventDeath = true
		case effect.OpDisableBoss:
			r.bossDisablePending = true
		case effect.OpSetRule:
			r.setRuleVar(action.Target, num)
		case effect.OpAddRule:
			r.addRuleVar(action.Target, num)
		case effect.OpClearRule:
			delete(r.ruleVars, normalizeRuleKey(action.Target))
		case effect.OpSetVar:
			r.setJokerVar(ctx, action.Target, num)
		case effect.OpAddVar:
			r.addJokerVar(ctx, action.Target, num)
		case effect.OpAddSellBonus:
			r.sellBonus += int64(num)
		case effect.OpAddFreeReroll:
			r.State.ShopFreeRerolls += uint8(num)
		case effect.OpSetRerollCost:
			if r.Shop != nil {
				r.Shop.RerollCost = int64(num)
			}
		case effect.OpMultiplyTarget:
			r.State.Target = int64(float64(r.State.Target) * num)

		case effect.OpRetriggerScored, effect.OpRetriggerHeld:
			n := int(num)
			if n <= 0 {
				n = 1
			}
			r.pendingRetriggers += n

		case effect.OpAddCardBonus:
			if ctx.Card != nil {
				r.queueCardMutation(cardMutation{id: ctx.Card.ID, bonusDelta: int64(num)})
			}
		case effect.OpSetCardEnhancement:
			if ctx.Card != nil {
				if enh, ok := effect.EnhancementFromString(action.Target); ok {
					e := enh
					r.queueCardMutation(cardMutation{id: ctx.Card.ID, enhancement: &e})
				}
			}
		case effect.OpClearCardEnhancement:
			if ctx.Card != nil {
				r.queueCardMutation(cardMutation{id: ctx.Card.ID, clearEnh: true})
			}
		case effect.OpAddCardEdition:
			if ctx.Card != nil {
				if ed, ok := effect.EditionFromString(action.Target); ok {
					e := ed
					r.queueCardMutation(cardMutation{id: ctx.Card.ID, edition: &e})
				}
			}
		case effect.OpAddCardSeal:
			if ctx.Card != nil {
				if seal, ok := effect.SealFromString(action.Target); ok {
					s := seal
					r.queueCardMutation(cardMutation{id: ctx.Card.ID, seal: &s})
				}
			}
		case effect.OpDestroyCard:
			if ctx.Card != nil {
				r.queueCardDestroy(ctx.Card.ID)
			}
		case effect.OpCopyPlayedCard:
			if ctx.Card != nil {
				r.addCardCopy(*ctx.Card)
			}
		case effect.OpAddStoneCard:
			r.addStoneCardToHand()
		case effect.OpAddRandomHandCard:
			r.addRandomCardToHand()
		case effect.OpAddRandomEnhancedCard:
			n := int(num)
			if n <= 0 {
				n = 1
			}
			for i := 0; i < n; i++ {
				r.addRandomEnhancedCardToHand()
			}
		case effect.OpSetJokerEdition:
			r.setJokerEdition(ctx, action.Target)

		case effect.OpAddJoker:
			r.grantJoker(action.Target)
		case effect.OpDestroyRandomJoker:
			if n := len(r.Inventory.Jokers); n > 0 {
				r.queueJokerRemoval(r.Rng.Intn(n))
			}
		case effect.OpDestroyJokerRight:
			if ctx.JokerIndex != nil && *ctx.JokerIndex+1 < len(r.Inventory.Jokers) {
				r.queueJokerRemoval(*ctx.JokerIndex + 1)
			}
		case effect.OpDestroyJokerLeft:
			if ctx.JokerIndex != nil && *ctx.JokerIndex > 0 {
				r.queueJokerRemoval(*ctx.JokerIndex - 1)
			}
		case effect.OpDestroySelf:
			if ctx.JokerIndex != nil {
				r.queueJokerRemoval(*ctx.JokerIndex)
			}
		case effect.OpDuplicateRandomJoker:
			r.duplicateRandomJoker()
		case effect.OpDuplicateRandomConsumable:
			r.duplicateRandomConsumable()
		case effect.OpCopyJokerRight:
			if ctx.JokerIndex != nil {
				r.replayJokerActions(*ctx.JokerIndex+1, trigger, ctx, sc)
			}
		case effect.OpCopyJokerLeftmost:
			r.replayJokerActions(0, trigger, ctx, sc)

		case effect.OpAddTarot:
			r.grantConsumable(effect.Tarot, action.Target)
		case effect.OpAddPlanet:
			r.grantConsumable(effect.Planet, action.Target)
		case effect.OpAddSpectral:
			r.grantConsumable(effect.Spectral, action.Target)

		case effect.OpAddTag:
			r.grantTag(action.Target)
		case effect.OpDuplicateNextTag:
			r.duplicateNextTag = true
		case effect.OpRerollBoss:
			r.rerollBoss()

		case effect.OpAddPack:
			r.grantPack(action.Target)
		case effect.OpAddShopJoker:
			r.grantShopJoker(action.Target)
		case effect.OpAddVoucher:
			r.grantShopVoucher(action.Target)
		case effect.OpSetShopPrice:
			r.setShopPrice(action.Target, num)
		case effect.OpSetShopJokerEdition:
			r.setShopJokerEdition(action.Target, str)

		default:
		}
	}
}

// effectSource names the origin of an effect for the score trace: the
// firing joker's catalog id when one is attached to the context, the
// active boss on a boss blind, or a generic label otherwise.
func (r *RunState) effectSource(ctx effect.Context) string {
	if ctx.JokerIndex != nil {
		idx := *ctx.JokerIndex
		if idx >= 0 && idx < len(r.Inventory.Jokers) {
			return r.Inventory.Jokers[idx].ID
		}
	}
	if ctx.ConsumableID != "" {
		return ctx.ConsumableID
	}
	if boss, ok := r.CurrentBoss(); ok && !r.BossEffectsDisabled() {
		return boss.ID
	}
	return "effect"
}

// applyRuleEffect mutates the running score and appends a trace step
// recording the score immediately before and after.
func (r *RunState) applyRuleEffect(sc *score.Score, source string, eff score.RuleEffect) {
	before := *sc
	sc.Apply(eff)
	r.LastScoreTrace = append(r.LastScoreTrace, score.TraceStep{
		Source: source, Effect: eff, Before: before, After: *sc,
	})
}

// collectJokerMoney pays out the combined sell value of every owned
// joker, capped at cap when cap is positive. The jokers are not sold.
func (r *RunState) collectJokerMoney(cap int64) {
	var total int64
	for _, inst := range r.Inventory.Jokers {
		v := inst.BuyPrice / 2
		if v < 1 {
			v = 1
		}
		total += v
	}
	if cap > 0 && total > cap {
		total = cap
	}
	r.State.Money += total
}

// addRandomEnhancedCardToHand draws a uniformly random standard card,
// gives it a uniformly random non-stone enhancement, and adds it to the
// hand.
func (r *RunState) addRandomEnhancedCardToHand() {
	enhancements := [...]cards.Enhancement{
		cards.Bonus, cards.Mult, cards.EnhWild, cards.Glass, cards.Steel, cards.Lucky, cards.Gold,
	}
	c := r.Content.RandomStandardCard(r.Rng)
	enh := enhancements[r.Rng.Intn(len(enhancements))]
	c.Enhancement = &enh
	c.ID = r.allocCardID()
	r.Hand = append(r.Hand, c)
	r.fireCardAdded(c)
}

// setJokerEdition sets the firing joker's edition to the named keyword.
func (r *RunState) setJokerEdition(ctx effect.Context, keyword string) {
	if ctx.JokerIndex == nil {
		return
	}
	idx := *ctx.JokerIndex
	if idx < 0 || idx >= len(r.Inventory.Jokers) {
		return
	}
	ed, ok := effect.EditionFromString(keyword)
	if !ok {
		return
	}
	e := ed
	r.Inventory.Jokers[idx].Edition = &e
}

// queueCardMutation records a deferred per-card attribute change, keyed
// by the card's stable ID, to be applied once the current scored/held
// pass finishes.
func (r *RunState) queueCardMutation(m cardMutation) {
	r.pendingCardMutations = append(r.pendingCardMutations, m)
}

// queueCardDestroy marks a card for removal once the current scored/held
// pass finishes.
func (r *RunState) queueCardDestroy(id uint32) {
	if r.pendingCardDestroys == nil {
		r.pendingCardDestroys = make(map[uint32]bool)
	}
	r.pendingCardDestroys[id] = true
}

// cardMarkedDestroyed reports whether a card has already been queued for
// destruction this hand, used to stop retriggering it further.
func (r *RunState) cardMarkedDestroyed(id uint32) bool {
	return r.pendingCardDestroys[id]
}

func applyCardMutation(c *cards.Card, m cardMutation) {
	if m.enhancement != nil {
		c.Enhancement = m.enhancement
	}
	if m.clearEnh {
		c.Enhancement = nil
	}
	if m.edition != nil {
		c.Edition = m.edition
	}
	if m.seal != nil {
		c.Seal = m.seal
	}
	if m.bonusDelta != 0 {
		c.BonusChips += m.bonusDelta
	}
}

// flushPendingCardEffects applies every queued attribute mutation and
// destruction to both played and r.Hand by card ID, fires
// OnCardDestroyed for each removed card, then clears the buffers. It
// must run after a hand's scored/held phases finish and before played
// cards are sent to the discard pile.
func (r *RunState) flushPendingCardEffects(played []cards.Card) []cards.Card {
	if len(r.pendingCardMutations) == 0 && len(r.pendingCardDestroys) == 0 {
		return played
	}
	for _, m := range r.pendingCardMutations {
		for i := range played {
			if played[i].ID == m.id {
				applyCardMutation(&played[i], m)
			}
		}
		for i := range r.Hand {
			if r.Hand[i].ID == m.id {
				applyCardMutation(&r.Hand[i], m)
			}
		}
	}
	r.pendingCardMutations = nil

	if len(r.pendingCardDestroys) > 0 {
		kept := played[:0]
		for _, c := range played {
			if r.pendingCardDestroys[c.ID] {
				r.fireCardDestroyed(c)
				continue
			}
			kept = append(kept, c)
		}
		played = kept

		var keptHand []cards.Card
		for _, c := range r.Hand {
			if r.pendingCardDestroys[c.ID] {
				r.fireCardDestroyed(c)
				continue
			}
			keptHand = append(keptHand, c)
		}
		r.Hand = keptHand
		r.pendingCardDestroys = nil
	}
	return played
}

// addCardCopy appends a fresh-ID duplicate of src to the hand and fires
// OnCardAdded for it.
func (r *RunState) addCardCopy(src cards.Card) {
	c := src
	c.ID = r.allocCardID()
	r.Hand = append(r.Hand, c)
	r.fireCardAdded(c)
}

// addStoneCardToHand draws a uniformly random standard playing card,
// gives it the Stone enhancement, and adds it to the hand.
func (r *RunState) addStoneCardToHand() {
	c := r.Content.RandomStandardCard(r.Rng)
	stone := cards.Stone
	c.Enhancement = &stone
	c.ID = r.allocCardID()
	r.Hand = append(r.Hand, c)
	r.fireCardAdded(c)
}

// addRandomCardToHand draws a uniformly random standard playing card and
// adds it to the hand with no enhancement.
func (r *RunState) addRandomCardToHand() {
	c := r.Content.RandomStandardCard(r.Rng)
	c.ID = r.allocCardID()
	r.Hand = append(r.Hand, c)
	r.fireCardAdded(c)
}

// queueJokerRemoval marks an inventory slot for removal once the current
// effect pass finishes.
func (r *RunState) queueJokerRemoval(idx int) {
	if idx < 0 || idx >= len(r.Inventory.Jokers) {
		return
	}
	r.pendingJokerRemovals = append(r.pendingJokerRemovals, idx)
}

// flushPendingJokerRemovals removes every queued joker slot, highest
// index first so earlier indices stay valid, deduplicated against a
// joker queued for removal more than once in the same pass.
func (r *RunState) flushPendingJokerRemovals() {
	if len(r.pendingJokerRemovals) == 0 {
		return
	}
	idxs := append([]int(nil), r.pendingJokerRemovals...)
	r.pendingJokerRemovals = nil
	sort.Sort(sort.Reverse(sort.IntSlice(idxs)))
	last := -1
	for _, idx := range idxs {
		if idx == last {
			continue
		}
		last = idx
		r.Inventory.RemoveJokerAt(idx)
	}
}

// fireJokerAcquired runs a newly added joker's OnAcquire blocks.
func (r *RunState) fireJokerAcquired(index int) {
	if index < 0 || index >= len(r.Inventory.Jokers) {
		return
	}
	inst := r.Inventory.Jokers[index]
	def, ok := r.jokerDefByID(inst.ID)
	if !ok {
		return
	}
	lastHand := hand.HighCard
	if r.State.LastHand != nil {
		lastHand = *r.State.LastHand
	}
	ctx := effect.IndependentContext(lastHand, r.runBlindOrdinal(), nil, nil, nil,
		int(r.State.HandsLeft), int(r.State.DiscardsLeft), len(r.Inventory.Jokers))
	jctx := ctx.WithJokerVars(inst.Vars).WithJokerIndex(index)
	for _, block := range def.Effects {
		if block.Trigger != effect.OnAcquire {
			continue
		}
		if !effect.WhenHolds(block.When, jctx) {
			continue
		}
		r.applyActions(block.Actions, jctx, nil, effect.OnAcquire)
	}
}

// grantJoker adds a joker to the inventory: the named target if it
// resolves to a known joker, otherwise a random Common one.
func (r *RunState) grantJoker(target string) {
	def, ok := content.JokerDef{}, false
	if target != "" {
		def, ok = r.jokerDefByID(target)
	}
	if !ok {
		def, ok = r.Content.PickJoker(effect.Common, r.Rng)
	}
	if !ok {
		return
	}
	if err := r.Inventory.AddJoker(def.ID, def.Rarity, 0); err == nil {
		r.fireJokerAcquired(len(r.Inventory.Jokers) - 1)
	}
}

// duplicateRandomJoker copies a uniformly random owned joker, including
// its stacking variables, into a fresh inventory slot.
func (r *RunState) duplicateRandomJoker() {
	if len(r.Inventory.Jokers) == 0 {
		return
	}
	src := r.Inventory.Jokers[r.Rng.Intn(len(r.Inventory.Jokers))]
	if err := r.Inventory.AddJoker(src.ID, src.Rarity, src.BuyPrice); err != nil {
		return
	}
	dup := &r.Inventory.Jokers[len(r.Inventory.Jokers)-1]
	for k, v := range src.Vars {
		dup.Vars[k] = v
	}
}

// duplicateRandomConsumable copies a uniformly random owned consumable
// into a fresh inventory slot.
func (r *RunState) duplicateRandomConsumable() {
	if len(r.Inventory.Consumables) == 0 {
		return
	}
	src := r.Inventory.Consumables[r.Rng.Intn(len(r.Inventory.Consumables))]
	r.Inventory.AddConsumable(src.ID, src.Kind)
}

// replayJokerActions re-runs the joker at targetIdx's own effect blocks
// matching trigger, as if it had fired itself, bounded against cyclic
// copy chains (one copy joker copying another that copies it back).
func (r *RunState) replayJokerActions(targetIdx int, trigger effect.ActivationType, ctx effect.Context, sc *score.Score) {
	if r.copyDepth >= 2 {
		return
	}
	if targetIdx < 0 || targetIdx >= len(r.Inventory.Jokers) {
		return
	}
	inst := r.Inventory.Jokers[targetIdx]
	def, ok := r.jokerDefByID(inst.ID)
	if !ok {
		return
	}
	r.copyDepth++
	defer func() { r.copyDepth-- }()
	for _, block := range def.Effects {
		if block.Trigger != trigger {
			continue
		}
		jctx := ctx.WithJokerVars(inst.Vars).WithJokerIndex(targetIdx)
		if !effect.WhenHolds(block.When, jctx) {
			continue
		}
		r.applyActions(block.Actions, jctx, sc, trigger)
	}
}

// grantConsumable adds a tarot/planet/spectral to the inventory: the
// named target if it resolves, otherwise a random one of kind.
func (r *RunState) grantConsumable(kind effect.ConsumableKind, target string) {
	def, ok := content.ConsumableDef{}, false
	if target != "" {
		def, ok = r.consumableDefByID(kind, target)
	}
	if !ok {
		def, ok = r.Content.PickConsumable(kind, r.Rng)
	}
	if !ok {
		return
	}
	r.Inventory.AddConsumable(def.ID, kind)
}

// grantTag appends a skip-blind tag to the run: the named target if it
// resolves to a known tag, otherwise a random one. Doubles the grant if
// duplicate_next_tag was armed by an earlier action.
func (r *RunState) grantTag(target string) {
	id := target
	if id == "" {
		tag, ok := r.pickSkipTag()
		if !ok {
			return
		}
		id = tag
	} else if _, ok := r.Content.TagByID(id); !ok {
		return
	}
	r.State.Tags = append(r.State.Tags, id)
	if r.duplicateNextTag {
		r.State.Tags = append(r.State.Tags, id)
		r.duplicateNextTag = false
	}
	r.markRulesDirty()
}

// rerollBoss re-picks the active boss, used when a boss blind is
// currently running.
func (r *RunState) rerollBoss() {
	if r.State.Blind != Boss {
		return
	}
	if boss, ok := r.Content.PickBoss(r.Rng); ok {
		r.State.BossID = boss.ID
	}
}

func packKindFromString(value string) (content.PackKind, bool) {
	switch strings.ToLower(strings.TrimSpace(value)) {
	case "arcana":
		return content.Arcana, true
	case "buffoon":
		return content.Buffoon, true
	case "celestial":
		return content.Celestial, true
	case "spectral":
		return content.PackSpectral, true
	case "standard":
		return content.Standard, true
	default:
		return 0, false
	}
}

func jokerRarityFromString(value string) (effect.JokerRarity, bool) {
	switch strings.ToLower(strings.TrimSpace(value)) {
	case "common":
		return effect.Common, true
	case "uncommon":
		return effect.Uncommon, true
	case "rare":
		return effect.Rare, true
	case "legendary":
		return effect.Legendary, true
	default:
		return 0, false
	}
}

// priceForRarity rolls a shop price for a joker rarity tier, mirroring
// how internal/shop prices a freshly generated joker offer.
func (r *RunState) priceForRarity(rarity effect.JokerRarity) int64 {
	prices := r.Config.Shop.Prices
	switch rarity {
	case effect.Common:
		return r.Rng.Range(prices.JokerCommon.Min, prices.JokerCommon.Max)
	case effect.Uncommon:
		return r.Rng.Range(prices.JokerUncommon.Min, prices.JokerUncommon.Max)
	case effect.Rare:
		return r.Rng.Range(prices.JokerRare.Min, prices.JokerRare.Max)
	case effect.Legendary:
		return prices.JokerLegendary
	default:
		return 0
	}
}

// grantPack appends a new booster pack offer to the current shop, sized
// and priced per the run's configured pack weights for that kind.
func (r *RunState) grantPack(target string) {
	if r.Shop == nil {
		return
	}
	kind, ok := packKindFromString(target)
	if !ok {
		return
	}
	size := content.Normal
	var options, picks uint8 = 3, 1
	for _, w := range r.Config.Shop.PackWeights {
		if w.Kind == kind && w.Size == size {
			options, picks = w.Options, w.Picks
			break
		}
	}
	var price int64
	for _, p := range r.Config.Shop.Prices.PackPrices {
		if p.Size == size {
			price = p.Price
			break
		}
	}
	r.Shop.Packs = append(r.Shop.Packs, shop.PackOffer{Kind: kind, Size: size, Options: options, Picks: picks, Price: price})
}

// grantShopJoker appends a new joker card offer to the current shop, at
// the named rarity if it resolves, otherwise Common.
func (r *RunState) grantShopJoker(target string) {
	if r.Shop == nil {
		return
	}
	rarity, ok := jokerRarityFromString(target)
	if !ok {
		rarity = effect.Common
	}
	def, ok := r.Content.PickJoker(rarity, r.Rng)
	if !ok {
		return
	}
	price := r.priceForRarity(rarity)
	rr := rarity
	r.Shop.Cards = append(r.Shop.Cards, shop.CardOffer{Kind: content.ShopJoker, ItemID: def.ID, Rarity: &rr, Price: price})
}

// grantShopVoucher adds a new voucher offer to the current shop: the
// named target if it resolves to a known voucher, otherwise a random
// one not already active.
func (r *RunState) grantShopVoucher(target string) {
	if r.Shop == nil {
		return
	}
	id := target
	if id == "" {
		v, ok := r.randomVoucher()
		if !ok {
			return
		}
		id = v.ID
	} else if _, ok := content.VoucherByID(id); !ok {
		return
	}
	r.Shop.AddVoucherOffer(shop.VoucherOffer{ID: id})
}

// randomVoucher picks a uniformly random voucher not already active on
// the run, falling back to the full table if every voucher is owned.
func (r *RunState) randomVoucher() (content.VoucherDef, bool) {
	if len(content.AllVouchers) == 0 {
		return content.VoucherDef{}, false
	}
	owned := make(map[string]struct{}, len(r.State.ActiveVouchers))
	for _, id := range r.State.ActiveVouchers {
		owned[id] = struct{}{}
	}
	pool := make([]content.VoucherDef, 0, len(content.AllVouchers))
	for _, v := range content.AllVouchers {
		if _, skip := owned[v.ID]; !skip {
			pool = append(pool, v)
		}
	}
	if len(pool) == 0 {
		pool = content.AllVouchers
	}
	return pool[r.Rng.Intn(len(pool))], true
}

// setShopPrice overrides the price of a shop card offer identified by
// item ID.
func (r *RunState) setShopPrice(target string, value float64) {
	if r.Shop == nil || target == "" {
		return
	}
	for i := range r.Shop.Cards {
		if r.Shop.Cards[i].ItemID == target {
			r.Shop.Cards[i].Price = int64(value)
		}
	}
}

// setShopJokerEdition sets the edition of a joker shop offer identified
// by item ID.
func (r *RunState) setShopJokerEdition(target, editionKeyword string) {
	if r.Shop == nil || target == "" {
		return
	}
	ed, ok := effect.EditionFromString(editionKeyword)
	if !ok {
		return
	}
	for i := range r.Shop.Cards {
		if r.Shop.Cards[i].ItemID == target && r.Shop.Cards[i].Kind == content.ShopJoker {
			e := ed
			r.Shop.Cards[i].Edition = &e
		}
	}
}

func (r *RunState) setJokerVar(ctx effect.Context, key string, value float64) {
	if ctx.JokerIndex == nil {
		return
	}
	idx := *ctx.JokerIndex
	if idx < 0 || idx >= len(r.Inventory.Jokers) {
		return
	}
	if r.Inventory.Jokers[idx].Vars == nil {
		r.Inventory.Jokers[idx].Vars = make(map[string]float64)
	}
	r.Inventory.Jokers[idx].Vars[key] = value
}

func (r *RunState) addJokerVar(ctx effect.Context, key string, delta float64) {
	if ctx.JokerIndex == nil {
		return
	}
	idx := *ctx.JokerIndex
	if idx < 0 || idx >= len(r.Inventory.Jokers) {
		return
	}
	if r.Inventory.Jokers[idx].Vars == nil {
		r.Inventory.Jokers[idx].Vars = make(map[string]float64)
	}
	r.Inventory.Jokers[idx].Vars[key] += delta
}

func normalizeRuleKey(key string) string {
	return key
}

func (r *RunState) setRuleVar(key string, value float64) {
	r.ruleVars[normalizeRuleKey(key)] = value
}

func (r *RunState) addRuleVar(key string, delta float64) {
	r.ruleVars[normalizeRuleKey(key)] += delta
}

// RuleValue returns a cached rule variable, recomputing the cache from
// owned jokers' Passive effect blocks first if it has gone stale.
func (r *RunState) RuleValue(key string) float64 {
	r.ensureRuleVars()
	return r.ruleVars[normalizeRuleKey(key)]
}

// RuleFlag reports whether a rule variable is non-zero.
func (r *RunState) RuleFlag(key string) bool {
	return r.RuleValue(key) != 0
}

// HandEvalRules reads the rule-variable-backed hand evaluation toggles
// (smeared suits, four fingers, shortcut) that jokers and boss blinds can
// turn on.
func (r *RunState) HandEvalRules() hand.EvalRules {
	return hand.EvalRules{
		SmearedSuits: r.RuleFlag("smeared_suits"),
		FourFingers:  r.RuleFlag("four_fingers"),
		Shortcut:     r.RuleFlag("shortcut"),
	}
}

func (r *RunState) ensureRuleVars() {
	if !r.ruleDirty || r.refreshingRules {
		return
	}
	r.ruleDirty = false
	r.refreshingRules = true
	r.ruleVars = make(map[string]float64)
	r.applyIndependentEffects(effect.Passive)
	r.refreshingRules = false
}
