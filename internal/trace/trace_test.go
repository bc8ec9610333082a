package trace

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/signalnine/balatromcts/gosim/internal/autoplay"
	"github.com/signalnine/balatromcts/gosim/internal/mcts"
)

func sampleResult() AutoplayResult {
	return AutoplayResult{
		Status: TargetReached,
		FinalMetrics: FinalMetrics{
			Ante: 4, Money: 37, BlindScore: 500, BlindTarget: 450,
		},
		Steps: []StepRecord{
			{
				Step: 0, PhaseBefore: "Play", BlindBefore: "Small",
				AnteBefore: 1, MoneyBefore: 4, ScoreBefore: 0,
				Action: autoplay.AutoAction{Kind: autoplay.ActPlay, Indices: []int{0, 1}},
				MCTS:   mcts.StepSearchStats{Simulations: 16},
				PhaseAfter: "Score", BlindAfter: "Small",
				AnteAfter: 1, MoneyAfter: 4, ScoreAfter: 120,
				OutcomeAfter: "", EventCount: 2,
			},
		},
		Summary: SummaryStats{Steps: 1, TotalSimulations: 16, WallTimeMs: 5},
	}
}

func TestToTextReportIsStable(t *testing.T) {
	result := sampleResult()
	report := result.ToTextReport()
	if !strings.HasPrefix(report, "status: TargetReached\n") {
		t.Fatalf("expected report to start with the status line, got %q", report)
	}
	if !strings.Contains(report, "final: ante=4 money=37 blind_score=500/450") {
		t.Fatalf("missing final metrics line in report:\n%s", report)
	}
	if !strings.Contains(report, "play [0,1]") {
		t.Fatalf("expected a step line naming the played indices, got:\n%s", report)
	}
	if report != result.ToTextReport() {
		t.Fatalf("ToTextReport is not stable across calls")
	}
}

func TestWriteJSONRoundTrips(t *testing.T) {
	result := sampleResult()
	path := filepath.Join(t.TempDir(), "nested", "trace.json")
	if err := WriteJSON(path, result); err != nil {
		t.Fatalf("WriteJSON: %v", err)
	}

	var decoded map[string]any
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("reading back trace file: %v", err)
	}
	if err := json.Unmarshal(data, &decoded); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if decoded["status"] != "TargetReached" {
		t.Fatalf("expected status \"TargetReached\", got %v", decoded["status"])
	}
}

func TestWriteTextCreatesParentDirs(t *testing.T) {
	result := sampleResult()
	path := filepath.Join(t.TempDir(), "a", "b", "trace.txt")
	if err := WriteText(path, result); err != nil {
		t.Fatalf("WriteText: %v", err)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("reading back trace file: %v", err)
	}
	if !strings.Contains(string(data), "status: TargetReached") {
		t.Fatalf("expected text report content, got %q", string(data))
	}
}
