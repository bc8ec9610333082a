// Package content is the static data registry for a run: hand scoring
// rules, blind/ante schedules, shop pricing and weights, card attribute
// balance numbers, and the joker/boss/tag/consumable/voucher catalogs
// that populate them.
package content

import (
	"math"

	"github.com/signalnine/balatromcts/gosim/internal/cards"
	"github.com/signalnine/balatromcts/gosim/internal/effect"
)

// BlindKind is the closed set of blind categories within an ante.
type BlindKind uint8

const (
	Small BlindKind = iota
	Big
	Boss
)

// String reports a BlindKind's display name.
func (k BlindKind) String() string {
	switch k {
	case Small:
		return "Small"
	case Big:
		return "Big"
	case Boss:
		return "Boss"
	default:
		return "BlindKind(unknown)"
	}
}

// HandRule is one hand kind's scoring configuration row.
type HandRule struct {
	ID          string
	DisplayName string
	BaseChips   int64
	BaseMult    float64
	LevelChips  int64
	LevelMult   float64
	Priority    uint8
	MinCards    uint8
	Hidden      bool
}

// RankRule is one rank's chip-value configuration row.
type RankRule struct {
	Rank  cards.Rank
	Chips int64
}

// BlindRule configures one blind kind's target multiplier and hand/discard
// allowance.
type BlindRule struct {
	Kind       BlindKind
	TargetMult float32
	Hands      uint8
	Discards   uint8
	CanSkip    bool
}

// AnteRule configures one ante's base scoring target.
type AnteRule struct {
	Ante       uint8
	BaseTarget int64
}

// ShopCardKind is the closed set of non-pack shop offer categories.
type ShopCardKind uint8

const (
	ShopJoker ShopCardKind = iota
	ShopTarot
	ShopPlanet
)

// CardWeight is a shop-card-kind's relative draw weight.
type CardWeight struct {
	Kind   ShopCardKind
	Weight uint32
}

// JokerRarityWeight is a joker rarity tier's relative draw weight.
type JokerRarityWeight struct {
	Rarity effect.JokerRarity
	Weight uint32
}

// PackKind is the closed set of booster pack categories.
type PackKind uint8

const (
	Arcana PackKind = iota
	Buffoon
	Celestial
	PackSpectral
	Standard
)

// PackSize is the closed set of booster pack sizes.
type PackSize uint8

const (
	Normal PackSize = iota
	Jumbo
	Mega
)

// PackWeight configures one pack kind/size combination's draw weight and
// its option/pick counts when opened.
type PackWeight struct {
	Kind    PackKind
	Size    PackSize
	Weight  uint32
	Options uint8
	Picks   uint8
}

// PriceRange is an inclusive [Min, Max] price band a shop offer is rolled
// within.
type PriceRange struct {
	Min int64
	Max int64
}

// PackPrice is one pack size's fixed price.
type PackPrice struct {
	Size  PackSize
	Price int64
}

// ShopPrices holds every shop price constant and band.
type ShopPrices struct {
	JokerCommon     PriceRange
	JokerUncommon   PriceRange
	JokerRare       PriceRange
	JokerLegendary  int64
	Tarot           int64
	Planet          int64
	Spectral        int64
	PlayingCard     int64
	Voucher         int64
	RerollBase      int64
	RerollStep      int64
	PackPrices      []PackPrice
}

// ShopRule configures a shop's slot counts, offer-draw weights, and
// prices.
type ShopRule struct {
	CardSlots         uint8
	BoosterSlots      uint8
	VoucherSlots      uint8
	CardWeights       []CardWeight
	JokerRarityWeights []JokerRarityWeight
	PackWeights       []PackWeight
	Prices            ShopPrices
}

// EconomyRule configures blind-clear rewards, interest, and starting hand
// size.
type EconomyRule struct {
	RewardSmall      int64
	RewardBig        int64
	RewardBoss       int64
	PerHandReward    int64
	InterestStep     int64
	InterestPer      int64
	InterestCap      int64
	InitialHandSize  int
}

// DefaultInitialHandSize is used when EconomyRule.InitialHandSize is left
// at its zero value, matching the reference default of 8.
const DefaultInitialHandSize = 8

// EnhancementDef is the balance stat block for one card enhancement.
type EnhancementDef struct {
	Chips         int64
	MultAdd       float64
	MultMul       float64
	MultMulHeld   float64
	DestroyOdds   uint32
	ProbMultOdds  uint32
	ProbMultAdd   float64
	ProbMoneyOdds uint32
	ProbMoneyAdd  int64
}

// EditionDef is the balance stat block for one card edition.
type EditionDef struct {
	Chips   int64
	MultAdd float64
	MultMul float64
}

// SealDef is the balance stat block for one card seal.
type SealDef struct {
	MoneyScored       int64
	MoneyHeld         int64
	GrantPlanet       *bool
	GrantTarotDiscard *bool
}

var defaultEnhancement = EnhancementDef{}
var defaultEdition = EditionDef{}
var defaultSeal = SealDef{}

// CardAttrRules holds the balance numbers for every enhancement/edition/
// seal keyword, keyed by lowercase name.
type CardAttrRules struct {
	Enhancements map[string]EnhancementDef
	Editions     map[string]EditionDef
	Seals        map[string]SealDef
}

// Enhancement looks up an enhancement's stat block, falling back to an
// all-zero no-op block if the key is unconfigured.
func (r CardAttrRules) Enhancement(key string) EnhancementDef {
	if d, ok := r.Enhancements[key]; ok {
		return d
	}
	return defaultEnhancement
}

// Edition looks up an edition's stat block, falling back to an all-zero
// no-op block if the key is unconfigured.
func (r CardAttrRules) Edition(key string) EditionDef {
	if d, ok := r.Editions[key]; ok {
		return d
	}
	return defaultEdition
}

// Seal looks up a seal's stat block, falling back to an all-zero no-op
// block if the key is unconfigured.
func (r CardAttrRules) Seal(key string) SealDef {
	if d, ok := r.Seals[key]; ok {
		return d
	}
	return defaultSeal
}

// GameConfig is the full static configuration for a run: hand/rank
// scoring, blind/ante schedule, economy, shop, and card attribute
// balance.
type GameConfig struct {
	Hands      []HandRule
	Ranks      []RankRule
	Blinds     []BlindRule
	Antes      []AnteRule
	Economy    EconomyRule
	Shop       ShopRule
	CardAttrs  CardAttrRules
}

// BlindRuleFor returns the configured BlindRule for kind, or false if
// unconfigured.
func (c *GameConfig) BlindRuleFor(kind BlindKind) (BlindRule, bool) {
	for _, b := range c.Blinds {
		if b.Kind == kind {
			return b, true
		}
	}
	return BlindRule{}, false
}

// AnteRuleFor returns the configured AnteRule for ante, or false if
// unconfigured.
func (c *GameConfig) AnteRuleFor(ante uint8) (AnteRule, bool) {
	for _, a := range c.Antes {
		if a.Ante == ante {
			return a, true
		}
	}
	return AnteRule{}, false
}

// TargetFor computes a blind's scoring target as the ante's base target
// scaled by the blind kind's multiplier, rounded to the nearest integer.
func (c *GameConfig) TargetFor(ante uint8, kind BlindKind) (int64, bool) {
	anteRule, ok := c.AnteRuleFor(ante)
	if !ok {
		return 0, false
	}
	blindRule, ok := c.BlindRuleFor(kind)
	if !ok {
		return 0, false
	}
	return int64(math.Round(float64(anteRule.BaseTarget) * float64(blindRule.TargetMult))), true
}

// MaxAnte returns the highest configured ante number, or false if no
// antes are configured.
func (c *GameConfig) MaxAnte() (uint8, bool) {
	if len(c.Antes) == 0 {
		return 0, false
	}
	max := c.Antes[0].Ante
	for _, a := range c.Antes[1:] {
		if a.Ante > max {
			max = a.Ante
		}
	}
	return max, true
}
