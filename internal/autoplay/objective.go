package autoplay

// TargetReached reports whether every configured target in targets is met,
// provided at least one target is configured at all.
func TargetReached(metrics EvalMetrics, targets TargetConfig) bool {
	if targets.TargetScore != nil && metrics.BlindScore < *targets.TargetScore {
		return false
	}
	if targets.TargetAnte != nil && metrics.Ante < *targets.TargetAnte {
		return false
	}
	if targets.TargetMoney != nil && metrics.Money < *targets.TargetMoney {
		return false
	}
	return targets.TargetScore != nil || targets.TargetAnte != nil || targets.TargetMoney != nil
}

// WeightedScore folds metrics into a single rollout reward: normalized
// score/ante/money terms, a ±1 survival term, and a linear penalty on
// total steps taken so far.
func WeightedScore(metrics EvalMetrics, weights ObjectiveWeights, totalSteps uint32) float64 {
	scoreNorm := 0.0
	if metrics.BlindTarget > 0 {
		scoreNorm = float64(metrics.BlindScore) / float64(metrics.BlindTarget)
	}
	anteNorm := float64(metrics.Ante)
	money := metrics.Money
	if money < 0 {
		money = 0
	}
	moneyNorm := float64(money) / 100.0

	survival := 0.0
	switch {
	case metrics.BlindFailed:
		survival = -1.0
	case metrics.BlindCleared:
		survival = 1.0
	}

	return weights.Score*scoreNorm +
		weights.Ante*anteNorm +
		weights.Money*moneyNorm +
		weights.Survival*survival -
		weights.StepsPenalty*float64(totalSteps)
}
