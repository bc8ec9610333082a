package autoplay

import "testing"

func TestTargetReachedRequiresAtLeastOneTarget(t *testing.T) {
	if TargetReached(EvalMetrics{}, TargetConfig{}) {
		t.Fatalf("expected false when no target is configured")
	}
}

func TestTargetReachedScore(t *testing.T) {
	target := int64(100)
	cfg := TargetConfig{TargetScore: &target}
	if TargetReached(EvalMetrics{BlindScore: 99}, cfg) {
		t.Fatalf("expected false below target")
	}
	if !TargetReached(EvalMetrics{BlindScore: 100}, cfg) {
		t.Fatalf("expected true at target")
	}
}

func TestTargetReachedAllConfiguredMustHold(t *testing.T) {
	score := int64(100)
	ante := uint8(3)
	cfg := TargetConfig{TargetScore: &score, TargetAnte: &ante}
	if TargetReached(EvalMetrics{BlindScore: 200, Ante: 2}, cfg) {
		t.Fatalf("expected false when only one of two targets is met")
	}
	if !TargetReached(EvalMetrics{BlindScore: 200, Ante: 3}, cfg) {
		t.Fatalf("expected true when all configured targets are met")
	}
}

func TestWeightedScoreSurvivalTerm(t *testing.T) {
	weights := DefaultObjectiveWeights()
	cleared := WeightedScore(EvalMetrics{BlindCleared: true}, weights, 0)
	failed := WeightedScore(EvalMetrics{BlindFailed: true}, weights, 0)
	neither := WeightedScore(EvalMetrics{}, weights, 0)
	if !(cleared > neither && neither > failed) {
		t.Fatalf("expected cleared > neither > failed, got %v %v %v", cleared, neither, failed)
	}
}

func TestWeightedScoreStepsPenalty(t *testing.T) {
	weights := DefaultObjectiveWeights()
	early := WeightedScore(EvalMetrics{}, weights, 0)
	late := WeightedScore(EvalMetrics{}, weights, 1000)
	if late >= early {
		t.Fatalf("expected step penalty to reduce score over time, early=%v late=%v", early, late)
	}
}

func TestWeightedScoreNegativeMoneyClampedToZero(t *testing.T) {
	weights := DefaultObjectiveWeights()
	neg := WeightedScore(EvalMetrics{Money: -50}, weights, 0)
	zero := WeightedScore(EvalMetrics{Money: 0}, weights, 0)
	if neg != zero {
		t.Fatalf("expected negative money to be clamped like zero: %v vs %v", neg, zero)
	}
}
