package content

import (
	"testing"

	"github.com/signalnine/balatromcts/gosim/internal/effect"
	"github.com/signalnine/balatromcts/gosim/internal/hand"
)

func TestDefaultGameConfigHasARuleForEveryHandKind(t *testing.T) {
	cfg := DefaultGameConfig()
	seen := make(map[string]HandRule)
	for _, rule := range cfg.Hands {
		seen[rule.ID] = rule
	}
	for _, kind := range hand.All {
		rule, ok := seen[kind.ID()]
		if !ok {
			t.Fatalf("missing hand rule for %s", kind.ID())
		}
		if rule.LevelChips <= 0 || rule.LevelMult <= 0 {
			t.Fatalf("%s: expected positive leveling increments, got %+v", kind.ID(), rule)
		}
	}
}

func TestDefaultGameConfigAntesAreIncreasing(t *testing.T) {
	cfg := DefaultGameConfig()
	var prev int64
	for _, a := range cfg.Antes {
		if a.BaseTarget <= prev {
			t.Fatalf("ante %d target %d is not greater than previous %d", a.Ante, a.BaseTarget, prev)
		}
		prev = a.BaseTarget
	}
	if max, ok := cfg.MaxAnte(); !ok || max != 8 {
		t.Fatalf("expected MaxAnte 8, got %d ok=%v", max, ok)
	}
}

func TestDefaultGameConfigCardAttrLookupsFallBackCleanly(t *testing.T) {
	cfg := DefaultGameConfig()
	if got := cfg.CardAttrs.Enhancement("bonus").Chips; got != 30 {
		t.Fatalf("expected bonus enhancement +30 chips, got %d", got)
	}
	if got := cfg.CardAttrs.Seal("gold").MoneyHeld; got != 3 {
		t.Fatalf("expected gold seal +3 money held, got %d", got)
	}
	if got := cfg.CardAttrs.Enhancement("wild"); got != (EnhancementDef{}) {
		t.Fatalf("expected zero-value fallback for unconfigured wild enhancement, got %+v", got)
	}
}

func TestDefaultContentCatalogIDsAreUnique(t *testing.T) {
	c := DefaultContent()
	seen := make(map[string]bool)
	checkUnique := func(kind string, ids []string) {
		for _, id := range ids {
			key := kind + ":" + id
			if seen[key] {
				t.Fatalf("duplicate %s id %q", kind, id)
			}
			seen[key] = true
		}
	}

	jokerIDs := make([]string, len(c.Jokers))
	for i, j := range c.Jokers {
		jokerIDs[i] = j.ID
	}
	checkUnique("joker", jokerIDs)

	bossIDs := make([]string, len(c.Bosses))
	for i, b := range c.Bosses {
		bossIDs[i] = b.ID
	}
	checkUnique("boss", bossIDs)

	planetIDs := make([]string, len(c.Planets))
	for i, p := range c.Planets {
		planetIDs[i] = p.ID
	}
	checkUnique("planet", planetIDs)
}

func TestDefaultContentHasAPlanetPerHandKind(t *testing.T) {
	c := DefaultContent()
	byKind := make(map[hand.Kind]bool)
	for _, p := range c.Planets {
		if p.Hand != nil {
			byKind[*p.Hand] = true
		}
	}
	for _, kind := range hand.All {
		if kind == hand.RoyalFlush {
			continue // shares StraightFlush's planet via hand.LevelKind
		}
		if !byKind[kind] {
			t.Fatalf("no planet card levels %s", kind.ID())
		}
	}
}

func TestDefaultJokersCoverAllRarities(t *testing.T) {
	c := DefaultContent()
	rarities := make(map[effect.JokerRarity]bool)
	for _, j := range c.Jokers {
		if len(j.Effects) == 0 {
			t.Fatalf("joker %s has no effect blocks", j.ID)
		}
		rarities[j.Rarity] = true
	}
	for _, want := range []effect.JokerRarity{effect.Common, effect.Uncommon, effect.Rare, effect.Legendary} {
		if !rarities[want] {
			t.Fatalf("expected at least one joker of rarity %v in the default catalog", want)
		}
	}
}
