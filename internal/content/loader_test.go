package content

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/signalnine/balatromcts/gosim/internal/effect"
)

const sampleCatalog = `
jokers:
  - id: joker_gluttonous
    name: Gluttonous Joker
    rarity: common
    effects:
      - trigger: on_scored
        actions:
          - op: add_mult
            value: 3
  - id: joker_loyalty_card
    name: Loyalty Card
    rarity: uncommon
    effects:
      - trigger: on_scored
        actions:
          - op: multiply_mult
            value: 4
`

func writeSampleCatalog(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	path := filepath.Join(dir, "jokers.yaml")
	if err := os.WriteFile(path, []byte(sampleCatalog), 0o644); err != nil {
		t.Fatalf("failed to write sample catalog: %v", err)
	}
	return path
}

func TestLoadJokerCatalogParsesRarityAndActions(t *testing.T) {
	path := writeSampleCatalog(t)
	defs, err := LoadJokerCatalog(path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(defs) != 2 {
		t.Fatalf("expected 2 jokers, got %d", len(defs))
	}
	if defs[1].Rarity != effect.Uncommon {
		t.Fatalf("expected Loyalty Card to be uncommon, got %v", defs[1].Rarity)
	}
	if len(defs[0].Effects) != 1 || len(defs[0].Effects[0].Actions) != 1 {
		t.Fatalf("expected one effect block with one action, got %+v", defs[0].Effects)
	}
	if defs[0].Effects[0].Trigger != effect.OnScored {
		t.Fatalf("expected on_scored trigger, got %v", defs[0].Effects[0].Trigger)
	}
}

func TestLoadJokerCatalogMissingFileErrors(t *testing.T) {
	if _, err := LoadJokerCatalog(filepath.Join(t.TempDir(), "missing.yaml")); err == nil {
		t.Fatalf("expected an error for a missing catalog file")
	}
}

func TestLoadJokerCatalogEmptyDocumentErrors(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "empty.yaml")
	if err := os.WriteFile(path, []byte("jokers: []\n"), 0o644); err != nil {
		t.Fatalf("failed to write empty catalog: %v", err)
	}
	if _, err := LoadJokerCatalog(path); err == nil {
		t.Fatalf("expected an error for an empty joker list")
	}
}
