package mcts

import (
	"testing"

	"github.com/signalnine/balatromcts/gosim/internal/autoplay"
	"github.com/signalnine/balatromcts/gosim/internal/content"
	"github.com/signalnine/balatromcts/gosim/internal/run"
)

func testFactory(seed uint64) Factory {
	return func() (*autoplay.Simulator, error) {
		r := run.New(content.DefaultGameConfig(), *content.DefaultContent(), seed)
		if err := r.StartBlind(1, run.Small); err != nil {
			return nil, err
		}
		if err := r.PrepareHand(); err != nil {
			return nil, err
		}
		return autoplay.NewSimulator(r), nil
	}
}

func cheapConfig() autoplay.AutoplayConfig {
	cfg := autoplay.DefaultAutoplayConfig()
	cfg.PerStepMaxSimulations = 16
	cfg.MinSimulationsPerStep = 4
	cfg.PerStepTimeMs = 0
	cfg.RolloutDepth = 4
	return cfg
}

func TestSelectActionReturnsALegalAction(t *testing.T) {
	factory := testFactory(1)
	sim, err := factory()
	if err != nil {
		t.Fatalf("factory: %v", err)
	}
	cfg := cheapConfig()
	legal := sim.LegalActions(&cfg)
	if len(legal) == 0 {
		t.Fatalf("expected at least one legal action at the root")
	}

	action, stats, err := SelectAction(factory, nil, 0, cfg, autoplay.DefaultTargetConfig(), autoplay.DefaultObjectiveWeights())
	if err != nil {
		t.Fatalf("SelectAction: %v", err)
	}
	if stats.Simulations == 0 {
		t.Fatalf("expected at least one simulation to have run")
	}

	found := false
	for _, want := range legal {
		if want.StableKey() == action.StableKey() {
			found = true
		}
	}
	if !found {
		t.Fatalf("selected action %q is not among the root's legal actions", action.StableKey())
	}
}

func TestChooseRootBreaksVisitTiesByStableKey(t *testing.T) {
	nodes := []node{newRootNode(nil, false)}
	for _, key := range []autoplay.AutoAction{
		{Kind: autoplay.ActDiscard, Indices: []int{0}}, // "discard:[0]"
		{Kind: autoplay.ActDeal},                       // "deal" — smaller key
	} {
		child := newChildNode(0, key, nil, false, 1)
		child.visits = 10
		child.valueSum = 5
		nodes = append(nodes, child)
		nodes[0].children = append(nodes[0].children, len(nodes)-1)
	}
	selected, _ := chooseRoot(nodes)
	if selected.StableKey() != "deal" {
		t.Fatalf("expected equal-visit equal-mean tie to break to the smaller key, got %q", selected.StableKey())
	}
}

func TestSelectActionIsDeterministicForSameSeedAndHistory(t *testing.T) {
	cfg := cheapConfig()
	cfg.Seed = 7

	a1, _, err := SelectAction(testFactory(1), nil, 0, cfg, autoplay.DefaultTargetConfig(), autoplay.DefaultObjectiveWeights())
	if err != nil {
		t.Fatalf("SelectAction 1: %v", err)
	}
	a2, _, err := SelectAction(testFactory(1), nil, 0, cfg, autoplay.DefaultTargetConfig(), autoplay.DefaultObjectiveWeights())
	if err != nil {
		t.Fatalf("SelectAction 2: %v", err)
	}
	if a1.StableKey() != a2.StableKey() {
		t.Fatalf("same seed/history produced different actions: %q vs %q", a1.StableKey(), a2.StableKey())
	}
}
