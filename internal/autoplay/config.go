package autoplay

// AutoplayConfig tunes the autoplayer and its MCTS search: the step
// budget, per-step search limits, candidate-generation caps, and rollout
// shape. All fields have documented defaults (see DefaultAutoplayConfig).
type AutoplayConfig struct {
	Seed                  uint64
	MaxSteps              uint32
	PerStepTimeMs         uint64
	PerStepMaxSimulations uint32
	MinSimulationsPerStep uint32
	ExplorationC          float64
	ActionRetryLimit      uint32
	MaxPlayCandidates     int
	MaxDiscardCandidates  int
	MaxShopCandidates     int
	RolloutDepth          uint32
	RolloutTopK           int
	TacticalFinishMargin  int64
}

// DefaultAutoplayConfig matches the reference tuning: 800 simulations or
// 120ms per step (whichever comes first), UCT exploration constant √2,
// and bounded candidate/rollout caps.
func DefaultAutoplayConfig() AutoplayConfig {
	return AutoplayConfig{
		Seed:                  0xC0FFEE,
		MaxSteps:              500,
		PerStepTimeMs:         120,
		PerStepMaxSimulations: 800,
		MinSimulationsPerStep: 12,
		ExplorationC:          1.414,
		ActionRetryLimit:      6,
		MaxPlayCandidates:     24,
		MaxDiscardCandidates:  16,
		MaxShopCandidates:     16,
		RolloutDepth:          24,
		RolloutTopK:           4,
		TacticalFinishMargin:  180,
	}
}

// TargetConfig names the objective(s) an autoplay run stops on.
type TargetConfig struct {
	TargetScore       *int64
	TargetAnte        *uint8
	TargetMoney       *int64
	StopOnBlindFailed bool
}

// DefaultTargetConfig targets ante 4 and stops on any blind failure,
// matching the reference default.
func DefaultTargetConfig() TargetConfig {
	ante := uint8(4)
	return TargetConfig{TargetAnte: &ante, StopOnBlindFailed: true}
}

// ObjectiveWeights weights EvalMetrics into a single rollout reward.
type ObjectiveWeights struct {
	Score        float64
	Ante         float64
	Money        float64
	Survival     float64
	StepsPenalty float64
}

// DefaultObjectiveWeights matches the reference tuning.
func DefaultObjectiveWeights() ObjectiveWeights {
	return ObjectiveWeights{Score: 1.0, Ante: 2.0, Money: 0.8, Survival: 5.0, StepsPenalty: 0.01}
}

// EvalMetrics is the snapshot of run progress the objective functions and
// trace reporting read from.
type EvalMetrics struct {
	Ante         uint8
	Money        int64
	BlindScore   int64
	BlindTarget  int64
	BlindFailed  bool
	BlindCleared bool
}
