package orchestrator

import (
	"testing"

	"github.com/signalnine/balatromcts/gosim/internal/autoplay"
	"github.com/signalnine/balatromcts/gosim/internal/content"
	"github.com/signalnine/balatromcts/gosim/internal/mcts"
	"github.com/signalnine/balatromcts/gosim/internal/run"
)

func cheapFactory(seed uint64) mcts.Factory {
	return func() (*autoplay.Simulator, error) {
		r := run.New(content.DefaultGameConfig(), *content.DefaultContent(), seed)
		if err := r.StartBlind(1, run.Small); err != nil {
			return nil, err
		}
		return autoplay.NewSimulator(r), nil
	}
}

func cheapRequest() Request {
	req := DefaultRequest()
	req.Config.MaxSteps = 20
	req.Config.PerStepMaxSimulations = 16
	req.Config.MinSimulationsPerStep = 4
	req.Config.PerStepTimeMs = 0
	req.Config.RolloutDepth = 4
	ante := uint8(2)
	req.Targets = autoplay.TargetConfig{TargetAnte: &ante, StopOnBlindFailed: false}
	return req
}

func TestRunStopsAndProducesSteps(t *testing.T) {
	result, err := Run(cheapFactory(3), cheapRequest())
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if len(result.Steps) == 0 {
		t.Fatalf("expected at least one recorded step")
	}
	if result.Summary.Steps != uint32(len(result.Steps)) {
		t.Fatalf("summary step count %d does not match recorded steps %d", result.Summary.Steps, len(result.Steps))
	}
	if result.Summary.TotalSimulations == 0 {
		t.Fatalf("expected some MCTS simulations to have run")
	}
}

func TestRunIsReplayable(t *testing.T) {
	req := cheapRequest()
	req.Config.MaxSteps = 8

	first, err := Run(cheapFactory(9), req)
	if err != nil {
		t.Fatalf("Run 1: %v", err)
	}
	second, err := Run(cheapFactory(9), req)
	if err != nil {
		t.Fatalf("Run 2: %v", err)
	}

	if first.Status != second.Status {
		t.Fatalf("statuses diverged: %v vs %v", first.Status, second.Status)
	}
	if first.FinalMetrics != second.FinalMetrics {
		t.Fatalf("final metrics diverged: %+v vs %+v", first.FinalMetrics, second.FinalMetrics)
	}
	if len(first.Steps) != len(second.Steps) {
		t.Fatalf("step counts diverged: %d vs %d", len(first.Steps), len(second.Steps))
	}
	for i := range first.Steps {
		a, b := first.Steps[i].Action.StableKey(), second.Steps[i].Action.StableKey()
		if a != b {
			t.Fatalf("step %d actions diverged: %q vs %q", i, a, b)
		}
	}
}

func TestRunRespectsMaxSteps(t *testing.T) {
	req := cheapRequest()
	req.Config.MaxSteps = 2
	req.Targets = autoplay.TargetConfig{}
	result, err := Run(cheapFactory(3), req)
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if len(result.Steps) > int(req.Config.MaxSteps) {
		t.Fatalf("expected at most %d steps, got %d", req.Config.MaxSteps, len(result.Steps))
	}
}
