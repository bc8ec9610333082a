package shop

import (
	"testing"

	"github.com/signalnine/balatromcts/gosim/internal/content"
	"github.com/signalnine/balatromcts/gosim/internal/effect"
	"github.com/signalnine/balatromcts/gosim/internal/rng"
)

func testRule() *content.ShopRule {
	return &content.ShopRule{
		CardSlots:    2,
		BoosterSlots: 1,
		VoucherSlots: 1,
		CardWeights: []content.CardWeight{
			{Kind: content.ShopJoker, Weight: 1},
		},
		JokerRarityWeights: []content.JokerRarityWeight{
			{Rarity: effect.Common, Weight: 1},
		},
		PackWeights: []content.PackWeight{
			{Kind: content.Standard, Size: content.Normal, Weight: 1, Options: 3, Picks: 1},
		},
		Prices: content.ShopPrices{
			JokerCommon:    content.PriceRange{Min: 4, Max: 4},
			JokerUncommon:  content.PriceRange{Min: 6, Max: 6},
			JokerRare:      content.PriceRange{Min: 8, Max: 8},
			JokerLegendary: 20,
			Tarot:          3,
			Planet:         3,
			RerollBase:     5,
			RerollStep:     1,
			PackPrices:     []content.PackPrice{{Size: content.Normal, Price: 4}},
		},
	}
}

func testContent() *content.Content {
	return &content.Content{
		Jokers: []content.JokerDef{
			{ID: "joker_a", Rarity: effect.Common},
			{ID: "joker_b", Rarity: effect.Common},
		},
	}
}

func noRestrictions() *ShopRestrictions {
	return &ShopRestrictions{
		OwnedJokers:    map[string]struct{}{},
		OwnedTarots:    map[string]struct{}{},
		OwnedPlanets:   map[string]struct{}{},
		OwnedSpectrals: map[string]struct{}{},
		OwnedVouchers:  map[string]struct{}{},
	}
}

func TestGenerateFillsCardAndPackSlots(t *testing.T) {
	st := Generate(testRule(), testContent(), rng.New(1), noRestrictions())
	if len(st.Cards) != 2 {
		t.Fatalf("expected 2 card offers, got %d", len(st.Cards))
	}
	if len(st.Packs) != 1 {
		t.Fatalf("expected 1 pack offer, got %d", len(st.Packs))
	}
	if st.Vouchers != 1 || len(st.VoucherOffers) != 1 {
		t.Fatalf("expected 1 voucher offer, got %d", st.Vouchers)
	}
	if st.RerollCost != 5 {
		t.Fatalf("expected initial reroll cost 5, got %d", st.RerollCost)
	}
}

func TestRerollCardsBumpsRerollCost(t *testing.T) {
	rule := testRule()
	c := testContent()
	restrictions := noRestrictions()
	s := rng.New(2)
	st := Generate(rule, c, s, restrictions)
	before := st.RerollCost
	st.RerollCards(rule, c, s, restrictions)
	if st.RerollCost != before+rule.Prices.RerollStep {
		t.Fatalf("expected reroll cost to increase by step, got %d -> %d", before, st.RerollCost)
	}
}

func TestTakeOfferRemovesCardAndShiftsRemaining(t *testing.T) {
	st := Generate(testRule(), testContent(), rng.New(3), noRestrictions())
	firstID := st.Cards[0].ItemID
	secondID := st.Cards[1].ItemID
	purchase, ok := st.TakeOffer(ShopOfferRef{Kind: RefCard, Index: 0})
	if !ok || purchase.Card.ItemID != firstID {
		t.Fatalf("expected to take first card offer %q, got %+v ok=%v", firstID, purchase, ok)
	}
	if len(st.Cards) != 1 || st.Cards[0].ItemID != secondID {
		t.Fatalf("expected remaining card to shift left, got %+v", st.Cards)
	}
}

func TestTakeOfferVoucherFallsBackToBlank(t *testing.T) {
	st := &ShopState{Vouchers: 1}
	purchase, ok := st.TakeOffer(ShopOfferRef{Kind: RefVoucher, Index: 0})
	if !ok || purchase.Voucher.ID != "blank" {
		t.Fatalf("expected blank voucher fallback, got %+v ok=%v", purchase, ok)
	}
	if st.Vouchers != 0 {
		t.Fatalf("expected voucher count to drop to 0, got %d", st.Vouchers)
	}
}

func TestOfferKindOutOfRangeReturnsFalse(t *testing.T) {
	st := Generate(testRule(), testContent(), rng.New(4), noRestrictions())
	if _, ok := st.OfferKind(ShopOfferRef{Kind: RefCard, Index: 99}); ok {
		t.Fatalf("expected out-of-range card offer to report false")
	}
}

func TestPickPackOptionsRejectsEmptyAndOverLarge(t *testing.T) {
	open := PackOpen{
		Offer:   PackOffer{Picks: 1},
		Options: []PackOption{{Kind: OptionPlayingCard}, {Kind: OptionPlayingCard}},
	}
	if _, err := PickPackOptions(open, nil); err != ErrInvalidSelection {
		t.Fatalf("expected ErrInvalidSelection for empty pick, got %v", err)
	}
	if _, err := PickPackOptions(open, []int{0, 1}); err != ErrTooManyPicks {
		t.Fatalf("expected ErrTooManyPicks, got %v", err)
	}
}

func TestPickPackOptionsDedupsAndValidatesRange(t *testing.T) {
	open := PackOpen{
		Offer:   PackOffer{Picks: 2},
		Options: []PackOption{{Kind: OptionPlayingCard}, {Kind: OptionPlayingCard}},
	}
	picked, err := PickPackOptions(open, []int{1, 1})
	if err != nil || len(picked) != 1 {
		t.Fatalf("expected dedup to collapse to 1 pick, got %+v err=%v", picked, err)
	}
	if _, err := PickPackOptions(open, []int{5}); err != ErrInvalidSelection {
		t.Fatalf("expected ErrInvalidSelection for out-of-range index, got %v", err)
	}
}

func TestOpenPackStandardDrawsPlayingCards(t *testing.T) {
	offer := PackOffer{Kind: content.Standard, Size: content.Normal, Options: 3, Picks: 1}
	open := OpenPack(offer, testContent(), nil, rng.New(5), noRestrictions())
	if len(open.Options) != 3 {
		t.Fatalf("expected 3 standard card options, got %d", len(open.Options))
	}
	for _, opt := range open.Options {
		if opt.Kind != OptionPlayingCard {
			t.Fatalf("expected all options to be playing cards, got %+v", opt)
		}
	}
}
