// Package orchestrator drives a simulator with internal/mcts's search
// until the configured target is reached, a blind failure stops the run,
// or the step budget is exhausted, recording a trace.AutoplayResult as
// it goes.
package orchestrator

import (
	"time"

	"github.com/charmbracelet/log"

	"github.com/signalnine/balatromcts/gosim/internal/autoplay"
	"github.com/signalnine/balatromcts/gosim/internal/mcts"
	"github.com/signalnine/balatromcts/gosim/internal/trace"
)

// Request bundles the three pieces an autoplay run needs: the search/step
// budget, the stop condition(s), and the rollout reward weights.
type Request struct {
	Config  autoplay.AutoplayConfig
	Targets autoplay.TargetConfig
	Weights autoplay.ObjectiveWeights
}

// DefaultRequest matches the reference tuning throughout internal/autoplay.
func DefaultRequest() Request {
	return Request{
		Config:  autoplay.DefaultAutoplayConfig(),
		Targets: autoplay.DefaultTargetConfig(),
		Weights: autoplay.DefaultObjectiveWeights(),
	}
}

// Run drives factory's simulator step by step: at each step it asks
// mcts.SelectAction to choose among the current legal actions (replaying
// the committed history against a fresh simulator, never mutating the
// live one in place), applies the chosen action to the live simulator,
// and records a trace.StepRecord. It stops on a reached target, a
// blind failure (if targets.StopOnBlindFailed), hitting cfg.MaxSteps, or
// an empty legal-action set.
func Run(factory mcts.Factory, request Request) (trace.AutoplayResult, error) {
	started := time.Now()

	sim, err := factory()
	if err != nil {
		return trace.AutoplayResult{}, autoplay.FactoryError(err)
	}

	var history []autoplay.AutoAction
	var records []trace.StepRecord
	var totalSimulations uint64
	status := trace.MaxSteps

	for step := uint32(0); step < request.Config.MaxSteps; step++ {
		before := sim.Metrics()
		if autoplay.TargetReached(before, request.Targets) {
			status = trace.TargetReached
			break
		}
		if request.Targets.StopOnBlindFailed && before.BlindFailed {
			status = trace.Failed
			break
		}

		legal := sim.LegalActions(&request.Config)
		if len(legal) == 0 {
			status = trace.NoLegalAction
			break
		}

		action, stats, err := mcts.SelectAction(factory, history, step, request.Config, request.Targets, request.Weights)
		if err != nil {
			return trace.AutoplayResult{}, err
		}
		totalSimulations += uint64(stats.Simulations)

		phaseBefore, blindBefore := sim.PhaseName(), sim.BlindName()
		eventCount, err := sim.ApplyAction(action)
		if err != nil {
			action, eventCount, err = retryAlternatives(sim, legal, action, request.Config.ActionRetryLimit)
			if err != nil {
				return trace.AutoplayResult{}, err
			}
		}
		after := sim.Metrics()

		records = append(records, trace.StepRecord{
			Step:         step,
			PhaseBefore:  phaseBefore,
			BlindBefore:  blindBefore,
			AnteBefore:   before.Ante,
			MoneyBefore:  before.Money,
			ScoreBefore:  before.BlindScore,
			Action:       action,
			MCTS:         stats,
			PhaseAfter:   sim.PhaseName(),
			BlindAfter:   sim.BlindName(),
			AnteAfter:    after.Ante,
			MoneyAfter:   after.Money,
			ScoreAfter:   after.BlindScore,
			OutcomeAfter: outcomeLabel(after),
			EventCount:   eventCount,
		})
		history = append(history, action)

		log.Debug("autoplay step", "step", step, "action", action.ShortLabel(),
			"phase", records[len(records)-1].PhaseAfter, "money", after.Money, "score", after.BlindScore)

		if autoplay.TargetReached(after, request.Targets) {
			status = trace.TargetReached
			break
		}
		if request.Targets.StopOnBlindFailed && after.BlindFailed {
			status = trace.Failed
			break
		}
	}

	final := sim.Metrics()
	return trace.AutoplayResult{
		Status: status,
		FinalMetrics: trace.FinalMetrics{
			Ante:        final.Ante,
			Money:       final.Money,
			BlindScore:  final.BlindScore,
			BlindTarget: final.BlindTarget,
		},
		Steps: records,
		Summary: trace.SummaryStats{
			Steps:            uint32(len(history)),
			TotalSimulations: totalSimulations,
			WallTimeMs:       uint64(time.Since(started).Milliseconds()),
		},
	}, nil
}

// retryAlternatives applies the remaining legal actions in canonical
// order after the searched one was rejected (a rare legality/search
// drift), giving up after limit attempts.
func retryAlternatives(sim *autoplay.Simulator, legal []autoplay.AutoAction, failed autoplay.AutoAction, limit uint32) (autoplay.AutoAction, int, error) {
	failedKey := failed.StableKey()
	var attempts uint32
	var lastErr error
	for _, alt := range legal {
		if alt.StableKey() == failedKey {
			continue
		}
		if attempts >= limit {
			break
		}
		attempts++
		eventCount, err := sim.ApplyAction(alt)
		if err == nil {
			log.Warn("searched action rejected, applied alternative",
				"rejected", failedKey, "applied", alt.StableKey())
			return alt, eventCount, nil
		}
		lastErr = err
	}
	if lastErr == nil {
		lastErr = autoplay.InvalidActionError("no applicable action after retries: " + failedKey)
	}
	return autoplay.AutoAction{}, 0, lastErr
}

func outcomeLabel(metrics autoplay.EvalMetrics) string {
	switch {
	case metrics.BlindCleared:
		return "Cleared"
	case metrics.BlindFailed:
		return "Failed"
	default:
		return ""
	}
}
