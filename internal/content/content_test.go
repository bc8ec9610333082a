package content

import (
	"testing"

	"github.com/signalnine/balatromcts/gosim/internal/effect"
	"github.com/signalnine/balatromcts/gosim/internal/hand"
	"github.com/signalnine/balatromcts/gosim/internal/rng"
)

func testContent() *Content {
	pair := hand.Pair
	flush := hand.Flush
	return &Content{
		Jokers: []JokerDef{
			{ID: "joker_common_a", Rarity: effect.Common},
			{ID: "joker_common_b", Rarity: effect.Common},
			{ID: "joker_rare_a", Rarity: effect.Rare},
		},
		Bosses: []BossDef{
			{ID: "boss_a"},
			{ID: "boss_b"},
		},
		Tags: []TagDef{
			{ID: "tag_a"},
		},
		Planets: []ConsumableDef{
			{ID: "planet_pair", Kind: effect.Planet, Hand: &pair},
			{ID: "planet_flush", Kind: effect.Planet, Hand: &flush},
			{ID: "planet_any", Kind: effect.Planet},
		},
		Tarots: []ConsumableDef{
			{ID: "tarot_a", Kind: effect.Tarot},
		},
	}
}

func TestPickJokerRestrictsToRarity(t *testing.T) {
	c := testContent()
	s := rng.New(1)
	for i := 0; i < 20; i++ {
		j, ok := c.PickJoker(effect.Rare, s)
		if !ok || j.ID != "joker_rare_a" {
			t.Fatalf("expected only joker_rare_a for Rare pool, got %+v ok=%v", j, ok)
		}
	}
}

func TestPickJokerEmptyRarityReturnsFalse(t *testing.T) {
	c := testContent()
	s := rng.New(1)
	if _, ok := c.PickJoker(effect.Legendary, s); ok {
		t.Fatalf("expected no legendary jokers in test catalog")
	}
}

func TestPlanetForHandPrefersMatchingHand(t *testing.T) {
	c := testContent()
	s := rng.New(2)
	for i := 0; i < 20; i++ {
		p, ok := c.PlanetForHand(hand.Pair, s)
		if !ok || p.ID != "planet_pair" {
			t.Fatalf("expected planet_pair, got %+v ok=%v", p, ok)
		}
	}
}

func TestPlanetForHandFallsBackWhenNoMatch(t *testing.T) {
	c := testContent()
	s := rng.New(3)
	p, ok := c.PlanetForHand(hand.Quads, s)
	if !ok {
		t.Fatalf("expected fallback planet pick to succeed")
	}
	found := false
	for _, want := range c.Planets {
		if want.ID == p.ID {
			found = true
		}
	}
	if !found {
		t.Fatalf("fallback planet %q not in catalog", p.ID)
	}
}

func TestPickBossUniformOverFullList(t *testing.T) {
	c := testContent()
	s := rng.New(7)
	seen := map[string]bool{}
	for i := 0; i < 50; i++ {
		b, ok := c.PickBoss(s)
		if !ok {
			t.Fatalf("expected a boss pick")
		}
		seen[b.ID] = true
	}
	if !seen["boss_a"] || !seen["boss_b"] {
		t.Fatalf("expected both bosses to appear over 50 draws, saw %v", seen)
	}
}

func TestBossByIDAndTagByID(t *testing.T) {
	c := testContent()
	if _, ok := c.BossByID("boss_a"); !ok {
		t.Fatalf("expected boss_a to be found")
	}
	if _, ok := c.BossByID("missing"); ok {
		t.Fatalf("expected missing boss to not be found")
	}
	if _, ok := c.TagByID("tag_a"); !ok {
		t.Fatalf("expected tag_a to be found")
	}
}

func TestRandomStandardCardHasNoAttributes(t *testing.T) {
	c := testContent()
	s := rng.New(9)
	card := c.RandomStandardCard(s)
	if card.Enhancement != nil || card.Edition != nil || card.Seal != nil {
		t.Fatalf("expected a standard card with no attributes, got %+v", card)
	}
}
