package content

import (
	"github.com/signalnine/balatromcts/gosim/internal/cards"
	"github.com/signalnine/balatromcts/gosim/internal/effect"
	"github.com/signalnine/balatromcts/gosim/internal/hand"
	"github.com/signalnine/balatromcts/gosim/internal/rng"
)

// JokerEffectDef is one joker/boss/tag's full trigger definition: the
// moment it fires, the guard expression, and the actions it performs.
type JokerEffectDef struct {
	Trigger effect.ActivationType
	When    effect.Expr
	Actions []effect.Action
}

// JokerDef is one catalog joker.
type JokerDef struct {
	ID      string
	Name    string
	Rarity  effect.JokerRarity
	Effects []JokerEffectDef
}

// BossDef is one catalog boss blind.
type BossDef struct {
	ID      string
	Name    string
	Effects []JokerEffectDef
}

// TagDef is one catalog skip-blind tag.
type TagDef struct {
	ID      string
	Name    string
	Effects []JokerEffectDef
}

// ConsumableDef is one catalog tarot/planet/spectral card. Hand is only
// meaningful for planets, which upgrade a specific hand kind.
type ConsumableDef struct {
	ID      string
	Name    string
	Kind    effect.ConsumableKind
	Hand    *hand.Kind
	Effects []effect.EffectBlock
}

// Content is the full static catalog a run draws jokers, bosses, tags,
// and consumables from.
type Content struct {
	Jokers    []JokerDef
	Bosses    []BossDef
	Tags      []TagDef
	Tarots    []ConsumableDef
	Planets   []ConsumableDef
	Spectrals []ConsumableDef
}

// PickJoker picks a random joker of the given rarity, or false if none
// exist in that rarity tier.
func (c *Content) PickJoker(rarity effect.JokerRarity, s *rng.Stream) (JokerDef, bool) {
	var indices []int
	for i, j := range c.Jokers {
		if j.Rarity == rarity {
			indices = append(indices, i)
		}
	}
	idx, ok := rng.PickIndex(s, indices)
	if !ok {
		return JokerDef{}, false
	}
	return c.Jokers[idx], true
}

// PickConsumable picks a uniformly random consumable of the given kind.
func (c *Content) PickConsumable(kind effect.ConsumableKind, s *rng.Stream) (ConsumableDef, bool) {
	pool := c.poolFor(kind)
	if len(pool) == 0 {
		return ConsumableDef{}, false
	}
	return pool[s.GenIndex(len(pool))], true
}

func (c *Content) poolFor(kind effect.ConsumableKind) []ConsumableDef {
	switch kind {
	case effect.Tarot:
		return c.Tarots
	case effect.Planet:
		return c.Planets
	case effect.Spectral:
		return c.Spectrals
	default:
		return nil
	}
}

// PlanetForHand picks a planet that upgrades the given hand kind, falling
// back to any random planet if none specifically target it.
func (c *Content) PlanetForHand(kind hand.Kind, s *rng.Stream) (ConsumableDef, bool) {
	var indices []int
	for i, p := range c.Planets {
		if p.Hand != nil && *p.Hand == kind {
			indices = append(indices, i)
		}
	}
	if idx, ok := rng.PickIndex(s, indices); ok {
		return c.Planets[idx], true
	}
	return c.PickConsumable(effect.Planet, s)
}

// PickBoss picks a uniformly random boss.
func (c *Content) PickBoss(s *rng.Stream) (BossDef, bool) {
	if len(c.Bosses) == 0 {
		return BossDef{}, false
	}
	return c.Bosses[s.Intn(len(c.Bosses))], true
}

// BossByID looks up a boss by id.
func (c *Content) BossByID(id string) (BossDef, bool) {
	for _, b := range c.Bosses {
		if b.ID == id {
			return b, true
		}
	}
	return BossDef{}, false
}

// TagByID looks up a tag by id.
func (c *Content) TagByID(id string) (TagDef, bool) {
	for _, t := range c.Tags {
		if t.ID == id {
			return t, true
		}
	}
	return TagDef{}, false
}

// RandomStandardCard draws a uniformly random standard (no enhancement/
// edition/seal) playing card.
func (c *Content) RandomStandardCard(s *rng.Stream) cards.Card {
	suit := cards.StandardSuits[s.Intn(len(cards.StandardSuits))]
	r := cards.StandardRanks[s.Intn(len(cards.StandardRanks))]
	return cards.Standard(suit, r)
}
