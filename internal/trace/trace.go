// Package trace is the autoplay orchestrator's structured output: one
// StepRecord per applied action, a run-level summary, and both a JSON
// and a fixed-format textual report suitable for diff-testing.
package trace

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/signalnine/balatromcts/gosim/internal/autoplay"
	"github.com/signalnine/balatromcts/gosim/internal/mcts"
)

// RunStatus is the closed set of reasons an autoplay run stopped.
type RunStatus uint8

const (
	TargetReached RunStatus = iota
	Failed
	MaxSteps
	NoLegalAction
)

// String reports a RunStatus's display name.
func (s RunStatus) String() string {
	switch s {
	case TargetReached:
		return "TargetReached"
	case Failed:
		return "Failed"
	case MaxSteps:
		return "MaxSteps"
	case NoLegalAction:
		return "NoLegalAction"
	default:
		return "Unknown"
	}
}

// MarshalJSON renders RunStatus as its display name rather than a bare
// integer, so the structured report stays readable across schema drift.
func (s RunStatus) MarshalJSON() ([]byte, error) {
	return json.Marshal(s.String())
}

// StepRecord carries one applied action's before/after snapshot and the
// search effort that chose it.
type StepRecord struct {
	Step         uint32               `json:"step"`
	PhaseBefore  string               `json:"phase_before"`
	BlindBefore  string               `json:"blind_before"`
	AnteBefore   uint8                `json:"ante_before"`
	MoneyBefore  int64                `json:"money_before"`
	ScoreBefore  int64                `json:"score_before"`
	Action       autoplay.AutoAction  `json:"action"`
	MCTS         mcts.StepSearchStats `json:"mcts"`
	PhaseAfter   string               `json:"phase_after"`
	BlindAfter   string               `json:"blind_after"`
	AnteAfter    uint8                `json:"ante_after"`
	MoneyAfter   int64                `json:"money_after"`
	ScoreAfter   int64                `json:"score_after"`
	OutcomeAfter string               `json:"outcome_after,omitempty"`
	EventCount   int                  `json:"event_count"`
}

// FinalMetrics is the run's progress snapshot at stop time.
type FinalMetrics struct {
	Ante        uint8 `json:"ante"`
	Money       int64 `json:"money"`
	BlindScore  int64 `json:"blind_score"`
	BlindTarget int64 `json:"blind_target"`
}

// SummaryStats is the run-level rollup of step count, total MCTS
// simulations spent, and wall-clock time.
type SummaryStats struct {
	Steps            uint32 `json:"steps"`
	TotalSimulations uint64 `json:"total_simulations"`
	WallTimeMs       uint64 `json:"wall_time_ms"`
}

// AutoplayResult is the orchestrator's full structured output.
type AutoplayResult struct {
	Status       RunStatus    `json:"status"`
	FinalMetrics FinalMetrics `json:"final_metrics"`
	Steps        []StepRecord `json:"steps"`
	Summary      SummaryStats `json:"summary"`
}

// ToTextReport renders a fixed multi-line format suitable for
// diff-testing: a status/final/summary header followed by one line per
// step.
func (r AutoplayResult) ToTextReport() string {
	var b strings.Builder
	fmt.Fprintf(&b, "status: %s\n", r.Status)
	fmt.Fprintf(&b, "final: ante=%d money=%d blind_score=%d/%d\n",
		r.FinalMetrics.Ante, r.FinalMetrics.Money, r.FinalMetrics.BlindScore, r.FinalMetrics.BlindTarget)
	fmt.Fprintf(&b, "summary: steps=%d simulations=%d wall_ms=%d\n",
		r.Summary.Steps, r.Summary.TotalSimulations, r.Summary.WallTimeMs)
	b.WriteString("\nsteps:\n")
	for _, step := range r.Steps {
		fmt.Fprintf(&b, "  %4d | %-24s | %s -> %s | $%d -> $%d | score %d -> %d | sims %d\n",
			step.Step, step.Action.ShortLabel(), step.PhaseBefore, step.PhaseAfter,
			step.MoneyBefore, step.MoneyAfter, step.ScoreBefore, step.ScoreAfter,
			step.MCTS.Simulations)
	}
	return strings.TrimRight(b.String(), "\n")
}

// WriteJSON serializes result as indented JSON to path, creating any
// missing parent directories.
func WriteJSON(path string, result AutoplayResult) error {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return autoplay.IOError(err)
		}
	}
	body, err := json.MarshalIndent(result, "", "  ")
	if err != nil {
		return autoplay.SerializeError(err)
	}
	if err := os.WriteFile(path, body, 0o644); err != nil {
		return autoplay.IOError(err)
	}
	return nil
}

// WriteText writes result's text report to path, creating any missing
// parent directories.
func WriteText(path string, result AutoplayResult) error {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return autoplay.IOError(err)
		}
	}
	if err := os.WriteFile(path, []byte(result.ToTextReport()+"\n"), 0o644); err != nil {
		return autoplay.IOError(err)
	}
	return nil
}
