package content

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v2"

	"github.com/signalnine/balatromcts/gosim/internal/effect"
)

// jokerYAML is one joker's on-disk representation. Actions are kept as
// plain keyword/target/value triples rather than a nested Expr grammar:
// simple numeric/string literal values cover the vast majority of catalog
// jokers, and anything needing a richer guard expression is built in Go
// directly as a JokerDef rather than round-tripped through YAML.
type jokerYAML struct {
	ID     string `yaml:"id"`
	Name   string `yaml:"name"`
	Rarity string `yaml:"rarity"`
	Effects []struct {
		Trigger string `yaml:"trigger"`
		Actions []struct {
			Op     string  `yaml:"op"`
			Target string  `yaml:"target"`
			Value  float64 `yaml:"value"`
		} `yaml:"actions"`
	} `yaml:"effects"`
}

// catalogYAML is the root document shape for a joker catalog file.
type catalogYAML struct {
	Jokers []jokerYAML `yaml:"jokers"`
}

// LoadJokerCatalog loads joker definitions from a YAML file. The fallback
// path mirrors loadJokersFromYAML/setDefaultJokerConfigs: callers that get
// an error should fall back to a small hardcoded catalog rather than start
// a run with zero jokers.
func LoadJokerCatalog(path string) ([]JokerDef, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var doc catalogYAML
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, err
	}
	if len(doc.Jokers) == 0 {
		return nil, fmt.Errorf("%s: no jokers defined", path)
	}

	defs := make([]JokerDef, 0, len(doc.Jokers))
	for _, j := range doc.Jokers {
		def := JokerDef{ID: j.ID, Name: j.Name, Rarity: rarityFromString(j.Rarity)}
		for _, e := range j.Effects {
			block := JokerEffectDef{Trigger: activationFromString(e.Trigger)}
			for _, a := range e.Actions {
				op, ok := effect.FromKeyword(a.Op)
				if !ok {
					continue
				}
				block.Actions = append(block.Actions, effect.Action{
					Op:     op,
					Target: a.Target,
					Value:  effect.NumberExpr(a.Value),
				})
			}
			def.Effects = append(def.Effects, block)
		}
		defs = append(defs, def)
	}
	return defs, nil
}

// DefaultJokerCatalogPath is the conventional on-disk location a run looks
// for a joker catalog override.
func DefaultJokerCatalogPath(baseDir string) string {
	return filepath.Join(baseDir, "jokers.yaml")
}

func rarityFromString(s string) effect.JokerRarity {
	switch s {
	case "uncommon":
		return effect.Uncommon
	case "rare":
		return effect.Rare
	case "legendary":
		return effect.Legendary
	default:
		return effect.Common
	}
}

func activationFromString(s string) effect.ActivationType {
	switch s {
	case "on_played":
		return effect.OnPlayed
	case "on_scored":
		return effect.OnScored
	case "on_scored_pre":
		return effect.OnScoredPre
	case "on_held":
		return effect.OnHeld
	case "independent":
		return effect.Independent
	case "on_discard":
		return effect.OnDiscard
	case "on_round_end":
		return effect.OnRoundEnd
	default:
		return effect.Independent
	}
}
