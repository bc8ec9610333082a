// Package shop generates and resolves a run's shop offers: playing-card-
// slot jokers/tarots/planets, booster packs, and vouchers, all drawn
// through the run's single deterministic rng stream.
package shop

import (
	"errors"
	"sort"

	"github.com/signalnine/balatromcts/gosim/internal/cards"
	"github.com/signalnine/balatromcts/gosim/internal/content"
	"github.com/signalnine/balatromcts/gosim/internal/effect"
	"github.com/signalnine/balatromcts/gosim/internal/rng"
)

// CardOffer is one joker/tarot/planet shop slot.
type CardOffer struct {
	Kind    content.ShopCardKind
	ItemID  string
	Rarity  *effect.JokerRarity
	Price   int64
	Edition *cards.Edition
}

// PackOffer is one booster pack shop slot.
type PackOffer struct {
	Kind    content.PackKind
	Size    content.PackSize
	Options uint8
	Picks   uint8
	Price   int64
}

// VoucherOffer is one voucher shop slot.
type VoucherOffer struct {
	ID string
}

// ShopOfferRefKind discriminates which offer list a ShopOfferRef points
// into.
type ShopOfferRefKind uint8

const (
	RefCard ShopOfferRefKind = iota
	RefPack
	RefVoucher
)

// ShopOfferRef names one offer slot by kind and index.
type ShopOfferRef struct {
	Kind  ShopOfferRefKind
	Index int
}

// ShopOfferKind describes the category of a resolved offer.
type ShopOfferKind struct {
	Kind     ShopOfferRefKind
	Card     content.ShopCardKind
	PackKind content.PackKind
	PackSize content.PackSize
}

// ShopState is a shop's full set of generated offers.
type ShopState struct {
	Cards         []CardOffer
	Packs         []PackOffer
	Vouchers      int
	VoucherOffers []VoucherOffer
	RerollCost    int64
}

// ShopRestrictions constrains offer generation against what the run
// already owns, and whether duplicate offers are allowed at all.
type ShopRestrictions struct {
	AllowDuplicates bool
	OwnedJokers     map[string]struct{}
	OwnedTarots     map[string]struct{}
	OwnedPlanets    map[string]struct{}
	OwnedSpectrals  map[string]struct{}
	OwnedVouchers   map[string]struct{}
}

// PackOptionKind discriminates a PackOption's variant.
type PackOptionKind uint8

const (
	OptionJoker PackOptionKind = iota
	OptionConsumable
	OptionPlayingCard
)

// PackOption is one choice presented when a pack is opened.
type PackOption struct {
	Kind           PackOptionKind
	JokerID        string
	ConsumableKind effect.ConsumableKind
	ConsumableID   string
	Card           cards.Card
}

// PackOpen is an opened pack's offer and the options it presents.
type PackOpen struct {
	Offer   PackOffer
	Options []PackOption
}

// ErrInvalidSelection is returned when a pack pick selects no options or
// an out-of-range option index.
var ErrInvalidSelection = errors.New("shop: invalid pack selection")

// ErrTooManyPicks is returned when a pack pick selects more options than
// the pack offer allows.
var ErrTooManyPicks = errors.New("shop: too many pack picks")

// ShopPurchase is a taken offer, still holding its full offer data.
type ShopPurchase struct {
	RefKind ShopOfferRefKind
	Card    CardOffer
	Pack    PackOffer
	Voucher VoucherOffer
}

// Kind reports the category of a purchase.
func (p ShopPurchase) Kind() ShopOfferKind {
	switch p.RefKind {
	case RefCard:
		return ShopOfferKind{Kind: RefCard, Card: p.Card.Kind}
	case RefPack:
		return ShopOfferKind{Kind: RefPack, PackKind: p.Pack.Kind, PackSize: p.Pack.Size}
	default:
		return ShopOfferKind{Kind: RefVoucher}
	}
}

// Generate builds a full new shop: card slots, booster packs, and voucher
// offers, all drawn from content via rule's configured weights.
func Generate(rule *content.ShopRule, c *content.Content, s *rng.Stream, restrictions *ShopRestrictions) *ShopState {
	cardsOut := generateCards(rule, c, s, restrictions)
	packs := generatePacks(rule, s)
	voucherOffers := generateVouchers(int(rule.VoucherSlots), s, restrictions)
	return &ShopState{
		Cards:         cardsOut,
		Packs:         packs,
		Vouchers:      len(voucherOffers),
		VoucherOffers: voucherOffers,
		RerollCost:    rule.Prices.RerollBase,
	}
}

// RerollCards regenerates the card slots and bumps the reroll cost by the
// rule's configured step. Packs and vouchers are untouched.
func (st *ShopState) RerollCards(rule *content.ShopRule, c *content.Content, s *rng.Stream, restrictions *ShopRestrictions) {
	st.Cards = generateCards(rule, c, s, restrictions)
	st.RerollCost += rule.Prices.RerollStep
}

// OfferKind reports the category of the offer ref points to, or false if
// it is out of range.
func (st *ShopState) OfferKind(ref ShopOfferRef) (ShopOfferKind, bool) {
	switch ref.Kind {
	case RefCard:
		if ref.Index < 0 || ref.Index >= len(st.Cards) {
			return ShopOfferKind{}, false
		}
		return ShopOfferKind{Kind: RefCard, Card: st.Cards[ref.Index].Kind}, true
	case RefPack:
		if ref.Index < 0 || ref.Index >= len(st.Packs) {
			return ShopOfferKind{}, false
		}
		p := st.Packs[ref.Index]
		return ShopOfferKind{Kind: RefPack, PackKind: p.Kind, PackSize: p.Size}, true
	case RefVoucher:
		if ref.Index < 0 || ref.Index >= st.Vouchers {
			return ShopOfferKind{}, false
		}
		return ShopOfferKind{Kind: RefVoucher}, true
	default:
		return ShopOfferKind{}, false
	}
}

// PriceForOffer reports the price of the offer ref points to.
func (st *ShopState) PriceForOffer(ref ShopOfferRef, prices content.ShopPrices) (int64, bool) {
	switch ref.Kind {
	case RefCard:
		if ref.Index < 0 || ref.Index >= len(st.Cards) {
			return 0, false
		}
		return st.Cards[ref.Index].Price, true
	case RefPack:
		if ref.Index < 0 || ref.Index >= len(st.Packs) {
			return 0, false
		}
		return st.Packs[ref.Index].Price, true
	case RefVoucher:
		if ref.Index < 0 || ref.Index >= st.Vouchers {
			return 0, false
		}
		return prices.Voucher, true
	default:
		return 0, false
	}
}

// TakeOffer removes and returns the offer ref points to.
func (st *ShopState) TakeOffer(ref ShopOfferRef) (ShopPurchase, bool) {
	switch ref.Kind {
	case RefCard:
		if ref.Index < 0 || ref.Index >= len(st.Cards) {
			return ShopPurchase{}, false
		}
		taken := st.Cards[ref.Index]
		st.Cards = append(st.Cards[:ref.Index], st.Cards[ref.Index+1:]...)
		return ShopPurchase{RefKind: RefCard, Card: taken}, true
	case RefPack:
		if ref.Index < 0 || ref.Index >= len(st.Packs) {
			return ShopPurchase{}, false
		}
		taken := st.Packs[ref.Index]
		st.Packs = append(st.Packs[:ref.Index], st.Packs[ref.Index+1:]...)
		return ShopPurchase{RefKind: RefPack, Pack: taken}, true
	case RefVoucher:
		if ref.Index < 0 || ref.Index >= st.Vouchers {
			return ShopPurchase{}, false
		}
		var taken VoucherOffer
		if ref.Index < len(st.VoucherOffers) {
			taken = st.VoucherOffers[ref.Index]
			st.VoucherOffers = append(st.VoucherOffers[:ref.Index], st.VoucherOffers[ref.Index+1:]...)
		} else {
			taken = VoucherOffer{ID: "blank"}
		}
		st.Vouchers = len(st.VoucherOffers)
		return ShopPurchase{RefKind: RefVoucher, Voucher: taken}, true
	default:
		return ShopPurchase{}, false
	}
}

// AddVoucherOffer appends an extra voucher offer slot.
func (st *ShopState) AddVoucherOffer(offer VoucherOffer) {
	st.VoucherOffers = append(st.VoucherOffers, offer)
	st.Vouchers = len(st.VoucherOffers)
}

// RemoveVoucherSlots drops count voucher offers from the end of the list.
func (st *ShopState) RemoveVoucherSlots(count int) {
	if count <= 0 {
		return
	}
	keep := len(st.VoucherOffers) - count
	if keep < 0 {
		keep = 0
	}
	st.VoucherOffers = st.VoucherOffers[:keep]
	st.Vouchers = len(st.VoucherOffers)
}

// OpenPack draws the pack offer's options without committing to any of
// them.
func OpenPack(offer PackOffer, c *content.Content, rarityWeights []content.JokerRarityWeight, s *rng.Stream, restrictions *ShopRestrictions) PackOpen {
	options := make([]PackOption, 0, offer.Options)
	for i := uint8(0); i < offer.Options; i++ {
		switch offer.Kind {
		case content.Arcana:
			if def, ok := pickConsumableRestricted(c, effect.Tarot, s, restrictions); ok {
				options = append(options, PackOption{Kind: OptionConsumable, ConsumableKind: effect.Tarot, ConsumableID: def.ID})
			}
		case content.Buffoon:
			if rarity, ok := pickWeightedRarity(rarityWeights, s); ok {
				if def, ok := pickJokerRestricted(c, rarity, s, restrictions); ok {
					options = append(options, PackOption{Kind: OptionJoker, JokerID: def.ID})
				}
			}
		case content.Celestial:
			if def, ok := pickConsumableRestricted(c, effect.Planet, s, restrictions); ok {
				options = append(options, PackOption{Kind: OptionConsumable, ConsumableKind: effect.Planet, ConsumableID: def.ID})
			}
		case content.PackSpectral:
			if def, ok := pickConsumableRestricted(c, effect.Spectral, s, restrictions); ok {
				options = append(options, PackOption{Kind: OptionConsumable, ConsumableKind: effect.Spectral, ConsumableID: def.ID})
			}
		case content.Standard:
			options = append(options, PackOption{Kind: OptionPlayingCard, Card: c.RandomStandardCard(s)})
		}
	}
	return PackOpen{Offer: offer, Options: options}
}

// PickPackOptions resolves a set of chosen option indices into the
// options they name, rejecting empty, over-large, or out-of-range
// selections.
func PickPackOptions(open PackOpen, indices []int) ([]PackOption, error) {
	if len(indices) == 0 {
		return nil, ErrInvalidSelection
	}
	if len(indices) > int(open.Offer.Picks) {
		return nil, ErrTooManyPicks
	}
	unique := append([]int(nil), indices...)
	sort.Ints(unique)
	unique = dedupSortedInts(unique)
	for _, idx := range unique {
		if idx < 0 || idx >= len(open.Options) {
			return nil, ErrInvalidSelection
		}
	}
	picked := make([]PackOption, 0, len(unique))
	for _, idx := range unique {
		picked = append(picked, open.Options[idx])
	}
	return picked, nil
}

func dedupSortedInts(s []int) []int {
	if len(s) == 0 {
		return s
	}
	out := s[:1]
	for _, v := range s[1:] {
		if v != out[len(out)-1] {
			out = append(out, v)
		}
	}
	return out
}

func generateCards(rule *content.ShopRule, c *content.Content, s *rng.Stream, restrictions *ShopRestrictions) []CardOffer {
	var out []CardOffer
	for i := uint8(0); i < rule.CardSlots; i++ {
		kind, ok := pickWeightedCard(rule.CardWeights, s)
		if !ok {
			continue
		}
		switch kind {
		case content.ShopJoker:
			rarity, ok := pickWeightedRarity(rule.JokerRarityWeights, s)
			if !ok {
				continue
			}
			def, ok := pickJokerRestricted(c, rarity, s, restrictions)
			if !ok {
				continue
			}
			price := priceForJokerRarity(rarity, rule.Prices, s)
			r := rarity
			out = append(out, CardOffer{Kind: kind, ItemID: def.ID, Rarity: &r, Price: price})
		case content.ShopTarot:
			def, ok := pickConsumableRestricted(c, effect.Tarot, s, restrictions)
			if !ok {
				continue
			}
			out = append(out, CardOffer{Kind: kind, ItemID: def.ID, Price: rule.Prices.Tarot})
		case content.ShopPlanet:
			def, ok := pickConsumableRestricted(c, effect.Planet, s, restrictions)
			if !ok {
				continue
			}
			out = append(out, CardOffer{Kind: kind, ItemID: def.ID, Price: rule.Prices.Planet})
		}
	}
	return out
}

func generateVouchers(slots int, s *rng.Stream, restrictions *ShopRestrictions) []VoucherOffer {
	if slots <= 0 {
		return nil
	}
	allIDs := func() []string {
		ids := make([]string, len(content.AllVouchers))
		for i, v := range content.AllVouchers {
			ids[i] = v.ID
		}
		return ids
	}
	pool := allIDs()
	if !restrictions.AllowDuplicates {
		filtered := pool[:0:0]
		for _, id := range pool {
			if _, owned := restrictions.OwnedVouchers[id]; !owned {
				filtered = append(filtered, id)
			}
		}
		pool = filtered
	}
	if len(pool) == 0 {
		pool = allIDs()
	}
	var picked []VoucherOffer
	for i := 0; i < slots; i++ {
		if len(pool) == 0 {
			break
		}
		idx := s.Intn(len(pool))
		id := pool[idx]
		pool = append(pool[:idx], pool[idx+1:]...)
		picked = append(picked, VoucherOffer{ID: id})
		if restrictions.AllowDuplicates {
			pool = allIDs()
		}
	}
	return picked
}

func generatePacks(rule *content.ShopRule, s *rng.Stream) []PackOffer {
	var packs []PackOffer
	for i := uint8(0); i < rule.BoosterSlots; i++ {
		if pack, ok := pickWeightedPack(rule.PackWeights, rule.Prices.PackPrices, s); ok {
			packs = append(packs, pack)
		}
	}
	return packs
}

func pickJokerRestricted(c *content.Content, rarity effect.JokerRarity, s *rng.Stream, restrictions *ShopRestrictions) (content.JokerDef, bool) {
	if restrictions.AllowDuplicates {
		return c.PickJoker(rarity, s)
	}
	var indices []int
	for i, j := range c.Jokers {
		if j.Rarity != rarity {
			continue
		}
		if _, owned := restrictions.OwnedJokers[j.ID]; owned {
			continue
		}
		indices = append(indices, i)
	}
	idx, ok := rng.PickIndex(s, indices)
	if !ok {
		return content.JokerDef{}, false
	}
	return c.Jokers[idx], true
}

func pickConsumableRestricted(c *content.Content, kind effect.ConsumableKind, s *rng.Stream, restrictions *ShopRestrictions) (content.ConsumableDef, bool) {
	if restrictions.AllowDuplicates {
		return c.PickConsumable(kind, s)
	}
	var pool []content.ConsumableDef
	var owned map[string]struct{}
	switch kind {
	case effect.Tarot:
		pool, owned = c.Tarots, restrictions.OwnedTarots
	case effect.Planet:
		pool, owned = c.Planets, restrictions.OwnedPlanets
	case effect.Spectral:
		pool, owned = c.Spectrals, restrictions.OwnedSpectrals
	}
	var indices []int
	for i, def := range pool {
		if _, isOwned := owned[def.ID]; isOwned {
			continue
		}
		indices = append(indices, i)
	}
	idx, ok := rng.PickIndex(s, indices)
	if !ok {
		return content.ConsumableDef{}, false
	}
	return pool[idx], true
}

func priceForJokerRarity(rarity effect.JokerRarity, prices content.ShopPrices, s *rng.Stream) int64 {
	switch rarity {
	case effect.Common:
		return pickRange(prices.JokerCommon, s)
	case effect.Uncommon:
		return pickRange(prices.JokerUncommon, s)
	case effect.Rare:
		return pickRange(prices.JokerRare, s)
	case effect.Legendary:
		return prices.JokerLegendary
	default:
		return 0
	}
}

func pickRange(r content.PriceRange, s *rng.Stream) int64 {
	return s.Range(r.Min, r.Max)
}

func pickWeightedCard(weights []content.CardWeight, s *rng.Stream) (content.ShopCardKind, bool) {
	w, ok := rng.PickWeighted(s, weights, func(w content.CardWeight) int { return int(w.Weight) })
	if !ok {
		return 0, false
	}
	return w.Kind, true
}

func pickWeightedRarity(weights []content.JokerRarityWeight, s *rng.Stream) (effect.JokerRarity, bool) {
	w, ok := rng.PickWeighted(s, weights, func(w content.JokerRarityWeight) int { return int(w.Weight) })
	if !ok {
		return 0, false
	}
	return w.Rarity, true
}

func pickWeightedPack(weights []content.PackWeight, prices []content.PackPrice, s *rng.Stream) (PackOffer, bool) {
	picked, ok := rng.PickWeighted(s, weights, func(w content.PackWeight) int { return int(w.Weight) })
	if !ok {
		return PackOffer{}, false
	}
	for _, price := range prices {
		if price.Size == picked.Size {
			return PackOffer{Kind: picked.Kind, Size: picked.Size, Options: picked.Options, Picks: picked.Picks, Price: price.Price}, true
		}
	}
	return PackOffer{}, false
}
