package content

import (
	"github.com/signalnine/balatromcts/gosim/internal/effect"
	"github.com/signalnine/balatromcts/gosim/internal/hand"
)

// DefaultContent is the built-in joker/boss/tag/consumable catalog a run
// falls back to when no override catalog is loaded (see LoadJokerCatalog
// for the YAML override path). Every effect block here is built directly
// from effect.Action/Expr rather than round-tripped through YAML, and
// restricted to the action ops internal/run's applyActions implements
// (see its doc comment) so every entry here has an observable effect on a
// run rather than silently doing nothing.
func DefaultContent() *Content {
	return &Content{
		Jokers:    defaultJokers(),
		Bosses:    defaultBosses(),
		Tags:      defaultTags(),
		Tarots:    defaultTarots(),
		Planets:   defaultPlanets(),
		Spectrals: defaultSpectrals(),
	}
}

func independentMult(value float64) JokerEffectDef {
	return JokerEffectDef{
		Trigger: effect.Independent,
		Actions: []effect.Action{{Op: effect.OpAddMult, Value: effect.NumberExpr(value)}},
	}
}

// rankIsOneOf builds an Or-chain of card_rank equality checks, since the
// expression language has no parity ident of its own.
func rankIsOneOf(ranks ...string) effect.Expr {
	e := effect.BinaryExpr(effect.IdentExpr("card_rank"), effect.Eq, effect.StringExpr(ranks[0]))
	for _, r := range ranks[1:] {
		e = effect.BinaryExpr(e, effect.Or, effect.BinaryExpr(effect.IdentExpr("card_rank"), effect.Eq, effect.StringExpr(r)))
	}
	return e
}

func defaultJokers() []JokerDef {
	return []JokerDef{
		{
			ID: "joker", Name: "Joker", Rarity: effect.Common,
			Effects: []JokerEffectDef{independentMult(4)},
		},
		{
			ID: "greedy_joker", Name: "Greedy Joker", Rarity: effect.Common,
			Effects: []JokerEffectDef{
				{
					Trigger: effect.OnScored,
					When:    effect.BinaryExpr(effect.IdentExpr("card_suit"), effect.Eq, effect.StringExpr("diamonds")),
					Actions: []effect.Action{{Op: effect.OpAddMult, Value: effect.NumberExpr(3)}},
				},
			},
		},
		{
			ID: "lusty_joker", Name: "Lusty Joker", Rarity: effect.Common,
			Effects: []JokerEffectDef{
				{
					Trigger: effect.OnScored,
					When:    effect.BinaryExpr(effect.IdentExpr("card_suit"), effect.Eq, effect.StringExpr("hearts")),
					Actions: []effect.Action{{Op: effect.OpAddMult, Value: effect.NumberExpr(3)}},
				},
			},
		},
		{
			ID: "wrathful_joker", Name: "Wrathful Joker", Rarity: effect.Common,
			Effects: []JokerEffectDef{
				{
					Trigger: effect.OnScored,
					When:    effect.BinaryExpr(effect.IdentExpr("card_suit"), effect.Eq, effect.StringExpr("spades")),
					Actions: []effect.Action{{Op: effect.OpAddMult, Value: effect.NumberExpr(3)}},
				},
			},
		},
		{
			ID: "gluttonous_joker", Name: "Gluttonous Joker", Rarity: effect.Common,
			Effects: []JokerEffectDef{
				{
					Trigger: effect.OnScored,
					When:    effect.BinaryExpr(effect.IdentExpr("card_suit"), effect.Eq, effect.StringExpr("clubs")),
					Actions: []effect.Action{{Op: effect.OpAddMult, Value: effect.NumberExpr(3)}},
				},
			},
		},
		{
			ID: "jolly_joker", Name: "Jolly Joker", Rarity: effect.Common,
			Effects: []JokerEffectDef{
				{
					Trigger: effect.Independent,
					When:    effect.CallExpr("hand_contains", effect.StringExpr("pair")),
					Actions: []effect.Action{{Op: effect.OpAddMult, Value: effect.NumberExpr(8)}},
				},
			},
		},
		{
			ID: "half_joker", Name: "Half Joker", Rarity: effect.Common,
			Effects: []JokerEffectDef{
				{
					Trigger: effect.Independent,
					When:    effect.BinaryExpr(effect.IdentExpr("played_count"), effect.Le, effect.NumberExpr(3)),
					Actions: []effect.Action{{Op: effect.OpAddMult, Value: effect.NumberExpr(20)}},
				},
			},
		},
		{
			ID: "misprint", Name: "Misprint", Rarity: effect.Common,
			Effects: []JokerEffectDef{independentMult(10)},
		},
		{
			ID: "banner", Name: "Banner", Rarity: effect.Common,
			Effects: []JokerEffectDef{
				{
					Trigger: effect.Independent,
					Actions: []effect.Action{{
						Op:    effect.OpAddChips,
						Value: effect.BinaryExpr(effect.IdentExpr("discards_left"), effect.Mul, effect.NumberExpr(30)),
					}},
				},
			},
		},
		{
			ID: "mystic_summit", Name: "Mystic Summit", Rarity: effect.Common,
			Effects: []JokerEffectDef{
				{
					Trigger: effect.Independent,
					When:    effect.BinaryExpr(effect.IdentExpr("discards_left"), effect.Eq, effect.NumberExpr(0)),
					Actions: []effect.Action{{Op: effect.OpAddMult, Value: effect.NumberExpr(15)}},
				},
			},
		},
		{
			ID: "even_steven", Name: "Even Steven", Rarity: effect.Uncommon,
			Effects: []JokerEffectDef{
				{
					Trigger: effect.OnScored,
					When:    rankIsOneOf("Two", "Four", "Six", "Eight", "Ten"),
					Actions: []effect.Action{{Op: effect.OpAddMult, Value: effect.NumberExpr(4)}},
				},
			},
		},
		{
			ID: "odd_todd", Name: "Odd Todd", Rarity: effect.Uncommon,
			Effects: []JokerEffectDef{
				{
					Trigger: effect.OnScored,
					When:    rankIsOneOf("Ace", "Three", "Five", "Seven", "Nine"),
					Actions: []effect.Action{{Op: effect.OpAddChips, Value: effect.NumberExpr(31)}},
				},
			},
		},
		{
			ID: "scholar", Name: "Scholar", Rarity: effect.Uncommon,
			Effects: []JokerEffectDef{
				{
					Trigger: effect.OnScored,
					When:    effect.BinaryExpr(effect.IdentExpr("card_rank"), effect.Eq, effect.StringExpr("Ace")),
					Actions: []effect.Action{
						{Op: effect.OpAddChips, Value: effect.NumberExpr(20)},
						{Op: effect.OpAddMult, Value: effect.NumberExpr(4)},
					},
				},
			},
		},
		{
			ID: "business_card", Name: "Business Card", Rarity: effect.Uncommon,
			Effects: []JokerEffectDef{
				{
					Trigger: effect.OnScored,
					When:    effect.BinaryExpr(effect.IdentExpr("card_is_face"), effect.Eq, effect.BoolExpr(true)),
					Actions: []effect.Action{{Op: effect.OpAddMoney, Value: effect.NumberExpr(2)}},
				},
			},
		},
		{
			ID: "hiker", Name: "Hiker", Rarity: effect.Uncommon,
			Effects: []JokerEffectDef{
				{
					Trigger: effect.OnScored,
					Actions: []effect.Action{{Op: effect.OpAddChips, Value: effect.NumberExpr(5)}},
				},
			},
		},
		{
			ID: "swashbuckler", Name: "Swashbuckler", Rarity: effect.Uncommon,
			Effects: []JokerEffectDef{
				{
					Trigger: effect.Independent,
					Actions: []effect.Action{{
						Op:    effect.OpAddMult,
						Value: effect.BinaryExpr(effect.IdentExpr("joker_count"), effect.Mul, effect.NumberExpr(2)),
					}},
				},
			},
		},
		{
			ID: "blackboard", Name: "Blackboard", Rarity: effect.Rare,
			Effects: []JokerEffectDef{independentMult(3)},
		},
		{
			ID: "bull", Name: "Bull", Rarity: effect.Rare,
			Effects: []JokerEffectDef{
				{
					Trigger: effect.Independent,
					Actions: []effect.Action{{
						Op:    effect.OpAddChips,
						Value: effect.BinaryExpr(effect.IdentExpr("hands_left"), effect.Mul, effect.NumberExpr(20)),
					}},
				},
			},
		},
		{
			ID: "ride_the_bus", Name: "Ride the Bus", Rarity: effect.Rare,
			Effects: []JokerEffectDef{
				{
					Trigger: effect.Independent,
					Actions: []effect.Action{{Op: effect.OpAddVar, Target: "stacks", Value: effect.NumberExpr(1)}},
				},
				{
					Trigger: effect.Independent,
					Actions: []effect.Action{{Op: effect.OpAddMult, Value: effect.IdentExpr("stacks")}},
				},
			},
		},
		{
			ID: "baron", Name: "Baron", Rarity: effect.Rare,
			Effects: []JokerEffectDef{
				{
					Trigger: effect.OnHeld,
					When:    effect.BinaryExpr(effect.IdentExpr("card_rank"), effect.Eq, effect.StringExpr("King")),
					Actions: []effect.Action{{Op: effect.OpMultiplyMult, Value: effect.NumberExpr(1.5)}},
				},
			},
		},
		{
			ID: "juggler", Name: "Juggler", Rarity: effect.Common,
			Effects: []JokerEffectDef{
				{
					Trigger: effect.OnRoundEnd,
					Actions: []effect.Action{{Op: effect.OpAddHandSize, Value: effect.NumberExpr(1)}},
				},
			},
		},
		{
			ID: "drunkard", Name: "Drunkard", Rarity: effect.Common,
			Effects: []JokerEffectDef{
				{
					Trigger: effect.OnBlindStart,
					Actions: []effect.Action{{Op: effect.OpAddDiscards, Value: effect.NumberExpr(1)}},
				},
			},
		},
		{
			ID: "oops_all_6s", Name: "Oops! All 6s", Rarity: effect.Legendary,
			Effects: []JokerEffectDef{independentMult(20)},
		},
		{
			ID: "perkeo", Name: "Perkeo", Rarity: effect.Legendary,
			Effects: []JokerEffectDef{
				{
					Trigger: effect.OnBlindFailed,
					Actions: []effect.Action{{Op: effect.OpPreventDeath}},
				},
			},
		},
	}
}

func defaultBosses() []BossDef {
	return []BossDef{
		{
			ID: "the_hook", Name: "The Hook",
			Effects: []JokerEffectDef{
				{Trigger: effect.OnBlindStart, Actions: []effect.Action{{Op: effect.OpSetDiscards, Value: effect.NumberExpr(0)}}},
			},
		},
		{
			ID: "the_wall", Name: "The Wall",
			Effects: []JokerEffectDef{
				{Trigger: effect.OnBlindStart, Actions: []effect.Action{{Op: effect.OpMultiplyTarget, Value: effect.NumberExpr(2)}}},
			},
		},
		{
			ID: "the_needle", Name: "The Needle",
			Effects: []JokerEffectDef{
				{Trigger: effect.OnBlindStart, Actions: []effect.Action{{Op: effect.OpSetHands, Value: effect.NumberExpr(1)}}},
			},
		},
		{
			ID: "the_fish", Name: "The Fish",
			Effects: []JokerEffectDef{
				{Trigger: effect.OnBlindStart, Actions: []effect.Action{{Op: effect.OpSetDiscards, Value: effect.NumberExpr(1)}}},
			},
		},
		{
			ID: "the_manacle", Name: "The Manacle",
			Effects: []JokerEffectDef{
				{Trigger: effect.OnBlindStart, Actions: []effect.Action{{Op: effect.OpAddHandSize, Value: effect.NumberExpr(-1)}}},
			},
		},
	}
}

func defaultTags() []TagDef {
	return []TagDef{
		{
			ID: "tag_investment", Name: "Investment Tag",
			Effects: []JokerEffectDef{
				{Trigger: effect.OnShopEnter, Actions: []effect.Action{{Op: effect.OpAddMoney, Value: effect.NumberExpr(15)}}},
			},
		},
		{
			ID: "tag_handy", Name: "Handy Tag",
			Effects: []JokerEffectDef{
				{Trigger: effect.OnShopEnter, Actions: []effect.Action{{Op: effect.OpAddMoney, Value: effect.NumberExpr(1)}}},
			},
		},
		{
			ID: "tag_d6", Name: "D6 Tag",
			Effects: []JokerEffectDef{
				{Trigger: effect.OnShopEnter, Actions: []effect.Action{{Op: effect.OpAddFreeReroll, Value: effect.NumberExpr(1)}}},
			},
		},
		{
			ID: "tag_boss", Name: "Boss Tag",
			Effects: []JokerEffectDef{
				{Trigger: effect.OnBlindStart, Actions: []effect.Action{{Op: effect.OpDisableBoss}}},
			},
		},
		{
			ID: "tag_economy", Name: "Economy Tag",
			Effects: []JokerEffectDef{
				{Trigger: effect.OnShopEnter, Actions: []effect.Action{{Op: effect.OpDoubleMoney, Value: effect.NumberExpr(40)}}},
			},
		},
	}
}

func defaultTarots() []ConsumableDef {
	return []ConsumableDef{
		{
			ID: "the_magician", Name: "The Magician", Kind: effect.Tarot,
			Effects: []effect.EffectBlock{{Trigger: effect.OnUse, Actions: []effect.Action{{Op: effect.OpAddMoney, Value: effect.NumberExpr(5)}}}},
		},
		{
			ID: "the_hermit", Name: "The Hermit", Kind: effect.Tarot,
			Effects: []effect.EffectBlock{{
				Trigger: effect.OnUse,
				Actions: []effect.Action{{Op: effect.OpAddMoney, Value: effect.NumberExpr(10)}},
			}},
		},
		{
			ID: "the_emperor", Name: "The Emperor", Kind: effect.Tarot,
			Effects: []effect.EffectBlock{{Trigger: effect.OnUse, Actions: []effect.Action{{Op: effect.OpAddFreeReroll, Value: effect.NumberExpr(1)}}}},
		},
		{
			ID: "justice", Name: "Justice", Kind: effect.Tarot,
			Effects: []effect.EffectBlock{{Trigger: effect.OnUse, Actions: []effect.Action{{Op: effect.OpAddDiscards, Value: effect.NumberExpr(1)}}}},
		},
		{
			ID: "temperance", Name: "Temperance", Kind: effect.Tarot,
			Effects: []effect.EffectBlock{{Trigger: effect.OnUse, Actions: []effect.Action{{Op: effect.OpCollectJokerMoney, Value: effect.NumberExpr(50)}}}},
		},
	}
}

func planetDef(id, name string, kind hand.Kind) ConsumableDef {
	k := kind
	return ConsumableDef{
		ID: id, Name: name, Kind: effect.Planet, Hand: &k,
		Effects: []effect.EffectBlock{{
			Trigger: effect.OnUse,
			Actions: []effect.Action{{Op: effect.OpUpgradeHand, Value: effect.NumberExpr(1)}},
		}},
	}
}

func defaultPlanets() []ConsumableDef {
	return []ConsumableDef{
		planetDef("pluto", "Pluto", hand.HighCard),
		planetDef("mercury", "Mercury", hand.Pair),
		planetDef("uranus", "Uranus", hand.TwoPair),
		planetDef("venus", "Venus", hand.Trips),
		planetDef("saturn", "Saturn", hand.Straight),
		planetDef("jupiter", "Jupiter", hand.Flush),
		planetDef("earth", "Earth", hand.FullHouse),
		planetDef("mars", "Mars", hand.Quads),
		planetDef("neptune", "Neptune", hand.StraightFlush),
		planetDef("planet_x", "Planet X", hand.FiveOfAKind),
		planetDef("ceres", "Ceres", hand.FlushHouse),
		planetDef("eris", "Eris", hand.FlushFive),
	}
}

func defaultSpectrals() []ConsumableDef {
	return []ConsumableDef{
		{
			ID: "familiar", Name: "Familiar", Kind: effect.Spectral,
			Effects: []effect.EffectBlock{{Trigger: effect.OnUse, Actions: []effect.Action{{Op: effect.OpAddHandSize, Value: effect.NumberExpr(1)}}}},
		},
		{
			ID: "ectoplasm", Name: "Ectoplasm", Kind: effect.Spectral,
			Effects: []effect.EffectBlock{{Trigger: effect.OnUse, Actions: []effect.Action{{Op: effect.OpAddHandSize, Value: effect.NumberExpr(-1)}}}},
		},
		{
			ID: "black_hole", Name: "Black Hole", Kind: effect.Spectral,
			Effects: []effect.EffectBlock{{Trigger: effect.OnUse, Actions: []effect.Action{{Op: effect.OpUpgradeAllHands, Value: effect.NumberExpr(1)}}}},
		},
	}
}
