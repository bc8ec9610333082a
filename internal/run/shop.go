package run

import (
	"github.com/signalnine/balatromcts/gosim/internal/cards"
	"github.com/signalnine/balatromcts/gosim/internal/content"
	"github.com/signalnine/balatromcts/gosim/internal/effect"
	"github.com/signalnine/balatromcts/gosim/internal/events"
	"github.com/signalnine/balatromcts/gosim/internal/hand"
	"github.com/signalnine/balatromcts/gosim/internal/inventory"
	"github.com/signalnine/balatromcts/gosim/internal/shop"
)

// EnterShop opens a new shop after a cleared blind, generating offers
// against the run's current ownership and firing OnShopEnter.
func (r *RunState) EnterShop() error {
	if r.State.Phase != PhaseCleanup {
		return ErrInvalidPhase
	}
	rule := r.effectiveShopRule()
	r.Shop = shop.Generate(&rule, &r.Content, r.Rng, r.shopRestrictions())
	r.State.Phase = PhaseShop
	r.applyIndependentEffects(effect.OnShopEnter)
	r.Events.Push(events.Event{
		Kind: events.ShopEntered, Offers: len(r.Shop.Cards) + len(r.Shop.Packs),
		Reentered: r.shopReentered,
	})
	r.shopReentered = true
	return nil
}

func (r *RunState) shopRestrictions() *shop.ShopRestrictions {
	owned := &shop.ShopRestrictions{
		OwnedJokers:   make(map[string]struct{}),
		OwnedVouchers: make(map[string]struct{}),
	}
	for _, j := range r.Inventory.Jokers {
		owned.OwnedJokers[j.ID] = struct{}{}
	}
	for _, id := range r.State.ActiveVouchers {
		owned.OwnedVouchers[id] = struct{}{}
	}
	return owned
}

// RerollShop regenerates the shop's card slots, spending a free reroll
// if one is banked or the reroll cost otherwise.
func (r *RunState) RerollShop() error {
	if r.State.Phase != PhaseShop || r.Shop == nil {
		return ErrShopNotAvailable
	}
	cost := r.Shop.RerollCost
	usedFree := false
	if r.State.ShopFreeRerolls > 0 {
		cost = 0
		usedFree = true
	}
	if r.State.Money < cost {
		return ErrNotEnoughMoney
	}
	if usedFree {
		r.State.ShopFreeRerolls--
	}
	r.State.Money -= cost
	rule := r.effectiveShopRule()
	r.Shop.RerollCards(&rule, &r.Content, r.Rng, r.shopRestrictions())
	r.applyIndependentEffects(effect.OnShopReroll)
	r.Events.Push(events.Event{Kind: events.ShopRerolled, RerollCost: r.Shop.RerollCost, Money: r.State.Money})
	return nil
}

// BuyShopOffer pays for and takes a shop slot. Cards (jokers/tarots/
// planets) are added to the inventory immediately; packs are opened and
// left pending until PickPack or SkipPack resolves them; vouchers are
// activated immediately.
func (r *RunState) BuyShopOffer(ref shop.ShopOfferRef) error {
	if r.State.Phase != PhaseShop || r.Shop == nil {
		return ErrShopNotAvailable
	}
	kind, ok := r.Shop.OfferKind(ref)
	if !ok {
		return ErrInvalidOffer
	}
	price, ok := r.OfferPrice(ref)
	if !ok {
		return ErrInvalidOffer
	}
	if r.State.Money < price {
		return ErrNotEnoughMoney
	}
	if kind.Kind == shop.RefCard && kind.Card == content.ShopJoker {
		negative := false
		if ref.Index >= 0 && ref.Index < len(r.Shop.Cards) {
			offer := r.Shop.Cards[ref.Index]
			negative = offer.Edition != nil && *offer.Edition == cards.Negative
		}
		if !negative && r.Inventory.UsedJokerSlots() >= r.Inventory.JokerSlots {
			return inventory.ErrNoJokerSlots
		}
	}
	if kind.Kind == shop.RefCard && kind.Card != content.ShopJoker && len(r.Inventory.Consumables) >= r.Inventory.ConsumableSlots {
		return inventory.ErrNoConsumableSlots
	}

	purchase, ok := r.Shop.TakeOffer(ref)
	if !ok {
		return ErrInvalidOffer
	}
	r.State.Money -= price

	switch purchase.RefKind {
	case shop.RefCard:
		switch purchase.Card.Kind {
		case content.ShopJoker:
			if err := r.Inventory.AddJokerInstance(inventory.JokerInstance{
				ID:       purchase.Card.ItemID,
				Rarity:   jokerRarity(purchase.Card.Rarity),
				Edition:  purchase.Card.Edition,
				BuyPrice: price,
			}); err == nil {
				r.fireJokerAcquired(len(r.Inventory.Jokers) - 1)
			}
		case content.ShopTarot:
			r.Inventory.AddConsumable(purchase.Card.ItemID, effect.Tarot)
		case content.ShopPlanet:
			r.Inventory.AddConsumable(purchase.Card.ItemID, effect.Planet)
		}
	case shop.RefVoucher:
		r.State.ActiveVouchers = append(r.State.ActiveVouchers, purchase.Voucher.ID)
		r.applyVoucherPurchase(purchase.Voucher.ID)
		r.markRulesDirty()
	case shop.RefPack:
		open := shop.OpenPack(purchase.Pack, &r.Content, r.Config.Shop.JokerRarityWeights, r.Rng, r.shopRestrictions())
		r.packPending = &open
		r.packPendingKind = kind
		r.Events.Push(events.Event{Kind: events.PackOpened, OfferKind: kind, Options: len(open.Options)})
	}

	r.Events.Push(events.Event{Kind: events.ShopBought, OfferKind: kind, Cost: price, Money: r.State.Money})
	return nil
}

func jokerRarity(r *effect.JokerRarity) effect.JokerRarity {
	if r == nil {
		return effect.Common
	}
	return *r
}

// PickPack resolves a pending pack purchase, adding the chosen options
// (jokers, consumables, or playing cards) and firing OnPackOpened.
func (r *RunState) PickPack(indices []int) error {
	if r.packPending == nil {
		return ErrPackNotAvailable
	}
	picked, err := shop.PickPackOptions(*r.packPending, indices)
	if err != nil {
		return err
	}
	for _, opt := range picked {
		switch opt.Kind {
		case shop.OptionJoker:
			if def, ok := r.jokerDefByID(opt.JokerID); ok {
				if err := r.Inventory.AddJoker(opt.JokerID, def.Rarity, 0); err == nil {
					r.fireJokerAcquired(len(r.Inventory.Jokers) - 1)
				}
			}
		case shop.OptionConsumable:
			r.Inventory.AddConsumable(opt.ConsumableID, opt.ConsumableKind)
		case shop.OptionPlayingCard:
			c := opt.Card
			r.assignCardID(&c)
			r.Deck.Draw = append(r.Deck.Draw, c)
		}
	}
	r.applyIndependentEffects(effect.OnPackOpened)
	r.Events.Push(events.Event{Kind: events.PackChosen, OfferKind: r.packPendingKind, Picks: len(picked)})
	r.packPending = nil
	return nil
}

// SkipPack declines every option in a pending pack purchase.
func (r *RunState) SkipPack() error {
	if r.packPending == nil {
		return ErrPackNotAvailable
	}
	r.applyIndependentEffects(effect.OnPackSkipped)
	r.packPending = nil
	return nil
}

// SellJoker removes an owned joker for money, firing its OnSell block
// then every remaining joker's OnAnySell block.
func (r *RunState) SellJoker(index int) error {
	if index < 0 || index >= len(r.Inventory.Jokers) {
		return ErrInvalidJoker
	}
	inst := r.Inventory.Jokers[index]
	if inst.Stickers.Eternal {
		return ErrInvalidJoker
	}

	value := inst.BuyPrice / 2
	if value < 1 {
		value = 1
	}
	value += r.sellBonus

	lastHand := hand.HighCard
	if r.State.LastHand != nil {
		lastHand = *r.State.LastHand
	}
	ctx := effect.Sell(lastHand, r.runBlindOrdinal(), value,
		int(r.State.HandsLeft), int(r.State.DiscardsLeft), len(r.Inventory.Jokers))
	if def, ok := r.jokerDefByID(inst.ID); ok {
		jctx := ctx.WithJokerVars(inst.Vars).WithJokerIndex(index)
		for _, block := range def.Effects {
			if block.Trigger != effect.OnSell {
				continue
			}
			if !effect.WhenHolds(block.When, jctx) {
				continue
			}
			r.applyActions(block.Actions, jctx, nil, effect.OnSell)
		}
	}

	r.Inventory.RemoveJokerAt(index)
	r.applyIndependentEffects(effect.OnAnySell)
	r.State.Money += value
	r.Events.Push(events.Event{Kind: events.JokerSold, JokerID: inst.ID, SellValue: value, Money: r.State.Money})
	return nil
}

// UseConsumable consumes an owned tarot/planet/spectral, applying its
// effect blocks whose conditions hold against the run's current hand.
// selected names target held-card indices for card-targeted consumables;
// per-card targeting of tarot/spectral actions is outside this engine's
// scope (see DESIGN.md), so selected is accepted but not yet consulted.
func (r *RunState) UseConsumable(index int, selected []int) error {
	if index < 0 || index >= len(r.Inventory.Consumables) {
		return ErrInvalidJoker
	}
	inst := r.Inventory.Consumables[index]
	def, ok := r.consumableDefByID(inst.Kind, inst.ID)
	if !ok {
		return ErrInvalidJoker
	}

	lastHand := hand.HighCard
	if r.State.LastHand != nil {
		lastHand = *r.State.LastHand
	}
	ctx := effect.Consumable(lastHand, r.runBlindOrdinal(), inst.Kind, inst.ID,
		int(r.State.HandsLeft), int(r.State.DiscardsLeft), len(r.Inventory.Jokers))
	ctx.HeldCards = append([]cards.Card(nil), r.Hand...)
	if def.Hand != nil {
		ctx.HandKind = *def.Hand
	}

	for _, block := range def.Effects {
		if block.Trigger != effect.OnUse {
			continue
		}
		if !effect.WhenHolds(block.When, ctx) || !effect.ConditionsHold(block.Conditions, ctx) {
			continue
		}
		r.applyActions(block.Actions, ctx, nil, effect.OnUse)
	}

	r.Inventory.RemoveConsumableAt(index)
	return nil
}

func (r *RunState) consumableDefByID(kind effect.ConsumableKind, id string) (content.ConsumableDef, bool) {
	var pool []content.ConsumableDef
	switch kind {
	case effect.Tarot:
		pool = r.Content.Tarots
	case effect.Planet:
		pool = r.Content.Planets
	case effect.Spectral:
		pool = r.Content.Spectrals
	}
	for _, def := range pool {
		if def.ID == id {
			return def, true
		}
	}
	return content.ConsumableDef{}, false
}

// PendingPack returns the currently opened, not-yet-resolved pack
// purchase, or nil if none is open.
func (r *RunState) PendingPack() *shop.PackOpen {
	return r.packPending
}

// LeaveShop closes the shop and starts the next blind. Leaving with a
// pack still open skips the pack and returns to the shop's offer list
// instead of advancing, so an open pack is never carried into a blind.
func (r *RunState) LeaveShop() error {
	if r.State.Phase != PhaseShop {
		return ErrInvalidPhase
	}
	if r.packPending != nil {
		return r.SkipPack()
	}
	r.shopReentered = false
	return r.StartNextBlind()
}

// OfferPrice reports what buying ref would cost right now, with any
// active shop-discount vouchers applied.
func (r *RunState) OfferPrice(ref shop.ShopOfferRef) (int64, bool) {
	if r.Shop == nil {
		return 0, false
	}
	price, ok := r.Shop.PriceForOffer(ref, r.Config.Shop.Prices)
	if !ok {
		return 0, false
	}
	if discount := r.voucherEffectMax(content.VoucherSetShopDiscountPercent); discount > 0 {
		price = price * (100 - discount) / 100
		if price < 1 {
			price = 1
		}
	}
	return price, true
}

// CanTakeOffer reports whether BuyShopOffer(ref) would succeed in the
// run's current state: the offer exists, the money covers its price, and
// the receiving inventory has a free slot.
func (r *RunState) CanTakeOffer(ref shop.ShopOfferRef) bool {
	if r.State.Phase != PhaseShop || r.Shop == nil {
		return false
	}
	kind, ok := r.Shop.OfferKind(ref)
	if !ok {
		return false
	}
	price, ok := r.OfferPrice(ref)
	if !ok || r.State.Money < price {
		return false
	}
	if kind.Kind == shop.RefCard {
		if kind.Card == content.ShopJoker {
			if ref.Index >= 0 && ref.Index < len(r.Shop.Cards) {
				offer := r.Shop.Cards[ref.Index]
				if offer.Edition != nil && *offer.Edition == cards.Negative {
					return true
				}
			}
			return r.Inventory.UsedJokerSlots() < r.Inventory.JokerSlots
		}
		return len(r.Inventory.Consumables) < r.Inventory.ConsumableSlots
	}
	return true
}

// effectiveShopRule copies the configured shop rule with the owned
// vouchers' shop modifiers folded in: extra card slots, tarot/planet
// weight boosts, and a reduced reroll base.
func (r *RunState) effectiveShopRule() content.ShopRule {
	rule := r.Config.Shop
	if extra := r.voucherEffectTotal(content.VoucherAddShopCardSlots); extra > 0 {
		rule.CardSlots += uint8(extra)
	}
	tarotBoost := r.voucherEffectTotal(content.VoucherAddTarotWeight)
	planetBoost := r.voucherEffectTotal(content.VoucherAddPlanetWeight)
	if tarotBoost > 0 || planetBoost > 0 {
		weights := append([]content.CardWeight(nil), rule.CardWeights...)
		for i := range weights {
			switch weights[i].Kind {
			case content.ShopTarot:
				weights[i].Weight += uint32(tarotBoost)
			case content.ShopPlanet:
				weights[i].Weight += uint32(planetBoost)
			}
		}
		rule.CardWeights = weights
	}
	if cut := r.voucherEffectTotal(content.VoucherReduceRerollBase); cut > 0 {
		rule.Prices.RerollBase -= cut
		if rule.Prices.RerollBase < 0 {
			rule.Prices.RerollBase = 0
		}
	}
	return rule
}

// applyVoucherPurchase applies a voucher's instant, non-shop effects the
// moment it is bought. Shop-generation effects (card slots, weights,
// reroll base, discounts) are read lazily through effectiveShopRule and
// OfferPrice instead; hands/discards-per-round bonuses are read at blind
// start. Vouchers whose declared effect is None change nothing.
func (r *RunState) applyVoucherPurchase(id string) {
	def, ok := content.VoucherByID(id)
	if !ok {
		return
	}
	switch def.Effect.Kind {
	case content.VoucherAddJokerSlots:
		r.Inventory.JokerSlots += int(def.Effect.Value)
	case content.VoucherAddConsumableSlots:
		r.Inventory.ConsumableSlots += int(def.Effect.Value)
	case content.VoucherAddHandSizeBase:
		r.State.HandSizeBase += int(def.Effect.Value)
	}
}
