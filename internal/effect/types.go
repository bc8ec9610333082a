package effect

import (
	"strings"

	"github.com/signalnine/balatromcts/gosim/internal/cards"
	"github.com/signalnine/balatromcts/gosim/internal/hand"
)

// ActivationType is the closed set of moments an effect block can fire
// on.
type ActivationType uint8

const (
	OnPlayed ActivationType = iota
	OnScoredPre
	OnScored
	OnHeld
	Independent
	OnOtherJokers
	OnDiscard
	OnDiscardBatch
	OnCardDestroyed
	OnCardAdded
	OnRoundEnd
	OnHandEnd
	OnBlindStart
	OnBlindFailed
	OnShopEnter
	OnShopReroll
	OnShopExit
	OnPackOpened
	OnPackSkipped
	OnUse
	OnSell
	OnAnySell
	OnAcquire
	Passive
)

// JokerRarity is the closed rarity tier set jokers are drawn from.
type JokerRarity uint8

const (
	Common JokerRarity = iota
	Uncommon
	Rare
	Legendary
)

// ConsumableKind is the closed set of consumable categories.
type ConsumableKind uint8

const (
	Tarot ConsumableKind = iota
	Planet
	Spectral
)

// Condition is the closed set of guard predicates an effect block can be
// gated on, evaluated against the EvalContext a trigger fires with.
type Condition struct {
	Kind ConditionKind

	Hand        hand.Kind
	Blind       uint8 // BlindKind ordinal, avoids importing internal/run (would cycle)
	Suit        cards.Suit
	Rank        cards.Rank
	Enhancement cards.Enhancement
	Edition     cards.Edition
	Seal        cards.Seal
}

// ConditionKind discriminates Condition's variants.
type ConditionKind uint8

const (
	CondAlways ConditionKind = iota
	CondHandKind
	CondBlindKind
	CondCardSuit
	CondCardRank
	CondCardIsFace
	CondCardIsOdd
	CondCardIsEven
	CondCardHasEnhancement
	CondCardHasEdition
	CondCardHasSeal
	CondCardIsStone
	CondCardIsWild
	CondIsBossBlind
	CondIsScoringCard
	CondIsHeldCard
	CondIsPlayedCard
)

// ActionOp is the closed set of effect-graph action operations. Keyword
// aliases used by content authors map onto this set via FromKeyword.
type ActionOp uint8

const (
	OpAddChips ActionOp = iota
	OpAddMult
	OpMultiplyMult
	OpMultiplyChips
	OpAddMoney
	OpSetMoney
	OpDoubleMoney
	OpCollectJokerMoney
	OpAddHandSize
	OpRetriggerScored
	OpRetriggerHeld
	OpAddStoneCard
	OpAddCardBonus
	OpSetCardEnhancement
	OpClearCardEnhancement
	OpAddCardEdition
	OpAddCardSeal
	OpDestroyCard
	OpCopyPlayedCard
	OpAddHands
	OpAddDiscards
	OpSetDiscards
	OpAddTarot
	OpAddPlanet
	OpAddSpectral
	OpAddFreeReroll
	OpSetShopPrice
	OpAddJoker
	OpDestroyRandomJoker
	OpDestroyJokerRight
	OpDestroyJokerLeft
	OpDestroySelf
	OpUpgradeHand
	OpDuplicateRandomJoker
	OpDuplicateRandomConsumable
	OpAddSellBonus
	OpDisableBoss
	OpAddRandomHandCard
	OpAddRandomEnhancedCard
	OpSetJokerEdition
	OpCopyJokerRight
	OpCopyJokerLeftmost
	OpPreventDeath
	OpAddTag
	OpDuplicateNextTag
	OpAddPack
	OpAddShopJoker
	OpAddVoucher
	OpSetRerollCost
	OpSetShopJokerEdition
	OpRerollBoss
	OpUpgradeRandomHand
	OpUpgradeAllHands
	OpSetHands
	OpMultiplyTarget
	OpSetRule
	OpAddRule
	OpClearRule
	OpSetVar
	OpAddVar
)

var keywordAliases = map[string]ActionOp{
	"add_chips":                     OpAddChips,
	"add_mult":                      OpAddMult,
	"mul_mult":                      OpMultiplyMult,
	"multiply_mult":                 OpMultiplyMult,
	"mul_chips":                     OpMultiplyChips,
	"multiply_chips":                OpMultiplyChips,
	"add_money":                     OpAddMoney,
	"set_money":                     OpSetMoney,
	"money_set":                     OpSetMoney,
	"double_money":                  OpDoubleMoney,
	"money_double":                  OpDoubleMoney,
	"collect_joker_money":           OpCollectJokerMoney,
	"joker_money":                   OpCollectJokerMoney,
	"add_hand_size":                 OpAddHandSize,
	"retrigger_scored":              OpRetriggerScored,
	"retrigger_held":                OpRetriggerHeld,
	"add_stone_card":                OpAddStoneCard,
	"add_card_bonus":                OpAddCardBonus,
	"add_card_chips":                OpAddCardBonus,
	"card_bonus":                    OpAddCardBonus,
	"set_card_enhancement":          OpSetCardEnhancement,
	"set_enhancement":               OpSetCardEnhancement,
	"card_enhancement":              OpSetCardEnhancement,
	"clear_card_enhancement":        OpClearCardEnhancement,
	"remove_card_enhancement":       OpClearCardEnhancement,
	"clear_enhancement":             OpClearCardEnhancement,
	"add_card_edition":              OpAddCardEdition,
	"card_edition":                  OpAddCardEdition,
	"add_card_seal":                 OpAddCardSeal,
	"card_seal":                     OpAddCardSeal,
	"destroy_card":                  OpDestroyCard,
	"destroy_current_card":          OpDestroyCard,
	"copy_played_card":              OpCopyPlayedCard,
	"copy_card":                     OpCopyPlayedCard,
	"copy_scoring_card":             OpCopyPlayedCard,
	"add_hands":                     OpAddHands,
	"add_discards":                  OpAddDiscards,
	"set_discards":                  OpSetDiscards,
	"add_tarot":                     OpAddTarot,
	"add_planet":                    OpAddPlanet,
	"add_spectral":                  OpAddSpectral,
	"add_free_reroll":               OpAddFreeReroll,
	"set_shop_price":                OpSetShopPrice,
	"shop_price":                    OpSetShopPrice,
	"add_joker":                     OpAddJoker,
	"add_random_joker":              OpAddJoker,
	"destroy_random_joker":          OpDestroyRandomJoker,
	"destroy_joker_random":          OpDestroyRandomJoker,
	"destroy_joker_right":           OpDestroyJokerRight,
	"destroy_right_joker":           OpDestroyJokerRight,
	"destroy_joker_left":            OpDestroyJokerLeft,
	"destroy_left_joker":            OpDestroyJokerLeft,
	"destroy_self":                  OpDestroySelf,
	"upgrade_hand":                  OpUpgradeHand,
	"duplicate_random_joker":        OpDuplicateRandomJoker,
	"dup_random_joker":              OpDuplicateRandomJoker,
	"duplicate_random_consumable":   OpDuplicateRandomConsumable,
	"dup_random_consumable":         OpDuplicateRandomConsumable,
	"add_sell_bonus":                OpAddSellBonus,
	"sell_bonus":                    OpAddSellBonus,
	"disable_boss":                  OpDisableBoss,
	"boss_disable":                  OpDisableBoss,
	"add_random_hand_card":          OpAddRandomHandCard,
	"add_hand_card":                 OpAddRandomHandCard,
	"add_random_enhanced_card":      OpAddRandomEnhancedCard,
	"add_enhanced_card":             OpAddRandomEnhancedCard,
	"set_joker_edition":             OpSetJokerEdition,
	"joker_edition":                 OpSetJokerEdition,
	"copy_joker_right":              OpCopyJokerRight,
	"copy_right_joker":              OpCopyJokerRight,
	"copy_joker_leftmost":           OpCopyJokerLeftmost,
	"copy_leftmost_joker":           OpCopyJokerLeftmost,
	"prevent_death":                 OpPreventDeath,
	"survive":                       OpPreventDeath,
	"add_tag":                       OpAddTag,
	"tag":                           OpAddTag,
	"duplicate_next_tag":            OpDuplicateNextTag,
	"dup_next_tag":                  OpDuplicateNextTag,
	"add_pack":                      OpAddPack,
	"add_booster_pack":              OpAddPack,
	"add_shop_joker":                OpAddShopJoker,
	"shop_joker":                    OpAddShopJoker,
	"add_voucher":                   OpAddVoucher,
	"voucher_add":                   OpAddVoucher,
	"set_reroll_cost":               OpSetRerollCost,
	"reroll_cost":                   OpSetRerollCost,
	"set_shop_joker_edition":        OpSetShopJokerEdition,
	"shop_joker_edition":            OpSetShopJokerEdition,
	"reroll_boss":                   OpRerollBoss,
	"boss_reroll":                   OpRerollBoss,
	"upgrade_random_hand":           OpUpgradeRandomHand,
	"upgrade_hand_random":           OpUpgradeRandomHand,
	"upgrade_all_hands":             OpUpgradeAllHands,
	"upgrade_hands_all":             OpUpgradeAllHands,
	"set_hands":                     OpSetHands,
	"hands_set":                     OpSetHands,
	"set_hands_left":                OpSetHands,
	"mul_target":                    OpMultiplyTarget,
	"multiply_target":               OpMultiplyTarget,
	"target_mult":                   OpMultiplyTarget,
	"set_rule":                      OpSetRule,
	"rule_set":                      OpSetRule,
	"add_rule":                      OpAddRule,
	"rule_add":                      OpAddRule,
	"clear_rule":                    OpClearRule,
	"rule_clear":                    OpClearRule,
	"set_var":                       OpSetVar,
	"add_var":                       OpAddVar,
}

// FromKeyword resolves a content-authored keyword (case-insensitive) to
// its ActionOp, or false if the keyword is unrecognized.
func FromKeyword(value string) (ActionOp, bool) {
	op, ok := keywordAliases[strings.ToLower(value)]
	return op, ok
}

var requiresTargetOps = map[ActionOp]bool{
	OpSetVar:              true,
	OpAddVar:              true,
	OpSetShopPrice:        true,
	OpAddPack:             true,
	OpSetShopJokerEdition: true,
	OpSetRule:             true,
	OpAddRule:             true,
	OpClearRule:           true,
	OpSetCardEnhancement:  true,
	OpAddCardEdition:      true,
	OpAddCardSeal:         true,
	OpSetJokerEdition:     true,
}

// RequiresTarget reports whether the action op's Target field must be
// populated for the action to be well-formed.
func (op ActionOp) RequiresTarget() bool {
	return requiresTargetOps[op]
}

// Action is one operation an effect block performs when its trigger
// fires and its conditions hold: an opcode, an optional string target
// (a rule name, a hand id, an enhancement keyword), and a value
// expression evaluated against the firing context.
type Action struct {
	Op     ActionOp
	Target string
	Value  Expr
}

// EffectBlock ties a trigger moment to the guard expression and
// precomputed conditions that gate it, and the actions it performs when
// all of them hold.
type EffectBlock struct {
	Trigger    ActivationType
	When       Expr
	Conditions []Condition
	Actions    []Action
}
