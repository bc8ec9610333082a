package content

import (
	"github.com/signalnine/balatromcts/gosim/internal/cards"
	"github.com/signalnine/balatromcts/gosim/internal/effect"
	"github.com/signalnine/balatromcts/gosim/internal/hand"
	"github.com/signalnine/balatromcts/gosim/internal/score"
)

// DefaultGameConfig is the built-in balance table a run falls back to when
// no override configuration is supplied: hand/rank scoring (leveling
// increments on top of score.DefaultHandBase's unleveled values), the
// three-blind/eight-ante schedule, economy rewards, shop pricing/weights,
// and card attribute balance numbers.
func DefaultGameConfig() GameConfig {
	return GameConfig{
		Hands:     defaultHandRules(),
		Ranks:     defaultRankRules(),
		Blinds:    defaultBlindRules(),
		Antes:     defaultAnteRules(),
		Economy:   defaultEconomyRule(),
		Shop:      defaultShopRule(),
		CardAttrs: defaultCardAttrRules(),
	}
}

func defaultHandRules() []HandRule {
	type level struct {
		chips int64
		mult  float64
	}
	levels := map[hand.Kind]level{
		hand.HighCard:      {10, 1},
		hand.Pair:          {15, 1},
		hand.TwoPair:       {20, 1},
		hand.Trips:         {20, 2},
		hand.Straight:      {30, 3},
		hand.Flush:         {15, 2},
		hand.FullHouse:     {25, 2},
		hand.Quads:         {30, 3},
		hand.StraightFlush: {40, 4},
		hand.FiveOfAKind:   {35, 3},
		hand.FlushHouse:    {40, 4},
		hand.FlushFive:     {50, 3},
	}
	rules := make([]HandRule, 0, len(hand.All))
	for _, kind := range hand.All {
		base := score.DefaultHandBase(kind)
		lv := levels[hand.LevelKind(kind)]
		rules = append(rules, HandRule{
			ID:         kind.ID(),
			BaseChips:  base.Chips,
			BaseMult:   base.Mult,
			LevelChips: lv.chips,
			LevelMult:  lv.mult,
		})
	}
	return rules
}

func defaultRankRules() []RankRule {
	return []RankRule{
		{cards.Ace, 11},
		{cards.King, 10},
		{cards.Queen, 10},
		{cards.Jack, 10},
		{cards.Ten, 10},
		{cards.Nine, 9},
		{cards.Eight, 8},
		{cards.Seven, 7},
		{cards.Six, 6},
		{cards.Five, 5},
		{cards.Four, 4},
		{cards.Three, 3},
		{cards.Two, 2},
	}
}

func defaultBlindRules() []BlindRule {
	return []BlindRule{
		{Kind: Small, TargetMult: 1.0, Hands: 4, Discards: 3, CanSkip: true},
		{Kind: Big, TargetMult: 1.5, Hands: 4, Discards: 3, CanSkip: true},
		{Kind: Boss, TargetMult: 2.0, Hands: 4, Discards: 3, CanSkip: false},
	}
}

func defaultAnteRules() []AnteRule {
	return []AnteRule{
		{1, 300},
		{2, 800},
		{3, 2000},
		{4, 5000},
		{5, 11000},
		{6, 20000},
		{7, 35000},
		{8, 50000},
	}
}

func defaultEconomyRule() EconomyRule {
	return EconomyRule{
		RewardSmall:     3,
		RewardBig:       4,
		RewardBoss:      5,
		PerHandReward:   1,
		InterestStep:    5,
		InterestPer:     1,
		InterestCap:     5,
		InitialHandSize: DefaultInitialHandSize,
	}
}

func defaultShopRule() ShopRule {
	return ShopRule{
		CardSlots:    2,
		BoosterSlots: 2,
		VoucherSlots: 1,
		CardWeights: []CardWeight{
			{ShopJoker, 70},
			{ShopTarot, 20},
			{ShopPlanet, 10},
		},
		JokerRarityWeights: []JokerRarityWeight{
			{effect.Common, 70},
			{effect.Uncommon, 25},
			{effect.Rare, 5},
		},
		PackWeights: []PackWeight{
			{Arcana, Normal, 10, 3, 1},
			{Arcana, Jumbo, 4, 5, 1},
			{Celestial, Normal, 10, 3, 1},
			{Celestial, Jumbo, 4, 5, 1},
			{Buffoon, Normal, 6, 2, 1},
			{Buffoon, Jumbo, 2, 4, 1},
			{PackSpectral, Normal, 2, 2, 1},
			{Standard, Normal, 8, 3, 1},
			{Standard, Mega, 2, 5, 2},
		},
		Prices: ShopPrices{
			JokerCommon:    PriceRange{Min: 4, Max: 6},
			JokerUncommon:  PriceRange{Min: 5, Max: 7},
			JokerRare:      PriceRange{Min: 6, Max: 8},
			JokerLegendary: 20,
			Tarot:          3,
			Planet:         3,
			Spectral:       4,
			PlayingCard:    1,
			Voucher:        10,
			RerollBase:     5,
			RerollStep:     1,
			PackPrices: []PackPrice{
				{Normal, 4},
				{Jumbo, 6},
				{Mega, 8},
			},
		},
	}
}

// defaultCardAttrRules gives the built-in enhancement/edition/seal balance
// numbers, keyed by the lowercase strings internal/run looks them up with
// (cards.Enhancement.String() etc. lowercased). Enhancements has no "wild"
// or "stone" entry: both change how a card is evaluated rather than adding
// a scoring rule. Gold is a Seal here (held-money payout), not an
// Enhancement.
func defaultCardAttrRules() CardAttrRules {
	return CardAttrRules{
		Enhancements: map[string]EnhancementDef{
			"bonus": {Chips: 30},
			"mult":  {MultAdd: 4},
			"glass": {MultMul: 2.0, DestroyOdds: 4},
			"steel": {MultMulHeld: 1.5},
			"lucky": {ProbMultOdds: 5, ProbMultAdd: 20, ProbMoneyOdds: 15, ProbMoneyAdd: 20},
		},
		Editions: map[string]EditionDef{
			"foil":         {Chips: 50},
			"holographic":  {MultAdd: 10},
			"polychrome":   {MultMul: 1.5},
			"negative":     {},
		},
		Seals: map[string]SealDef{
			"gold": {MoneyHeld: 3},
			"red":  {},
		},
	}
}
