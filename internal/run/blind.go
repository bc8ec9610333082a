package run

import (
	"github.com/signalnine/balatromcts/gosim/internal/content"
	"github.com/signalnine/balatromcts/gosim/internal/effect"
	"github.com/signalnine/balatromcts/gosim/internal/events"
)

// StartBlind begins play at the given ante/blind, resetting hand/discard
// counts, target, and score, and rolling a boss if applicable.
func (r *RunState) StartBlind(ante uint8, blind BlindKind) error {
	if r.Shop != nil {
		r.applyIndependentEffects(effect.OnShopExit)
		r.shopReentered = false
	}

	blindRule, ok := r.Config.BlindRuleFor(blind)
	if !ok {
		return ErrMissingBlindRule
	}
	target, ok := r.Config.TargetFor(ante, blind)
	if !ok {
		return ErrMissingAnteRule
	}

	handsBonus, discardsBonus := r.voucherHandsBonus(), r.voucherDiscardsBonus()
	hands := blindRule.Hands + handsBonus
	discards := blindRule.Discards + discardsBonus

	r.State.Ante = ante
	r.State.Blind = blind
	r.State.Phase = PhaseDeal
	r.State.Target = target
	r.State.BlindScore = 0
	r.State.HandsLeft = hands
	r.State.DiscardsLeft = discards
	r.State.HandSize = r.State.HandSizeBase
	r.State.LastHand = nil
	r.Deck.Send(r.Hand)
	r.Hand = nil
	r.Deck.Refill(r.Rng)
	r.Shop = nil
	r.bossDisabled = false
	r.State.BossID = ""
	if blind == Boss && r.bossDisablePending {
		r.bossDisabled = true
		r.bossDisablePending = false
	}
	if blind == Boss && !r.bossDisabled {
		if boss, ok := r.Content.PickBoss(r.Rng); ok {
			r.State.BossID = boss.ID
		}
	}
	r.markRulesDirty()

	r.State.HandsMax = r.State.HandsLeft
	r.State.DiscardsMax = r.State.DiscardsLeft

	r.applyIndependentEffects(effect.OnBlindStart)
	r.Events.Push(events.Event{
		Kind: events.BlindStarted, Ante: ante, Blind: blind,
		Target: target, Hands: hands, Discards: discards,
	})
	return nil
}

// StartCurrentBlind restarts the active ante/blind (used after config
// changes or when resuming a saved run).
func (r *RunState) StartCurrentBlind() error {
	return r.StartBlind(r.State.Ante, r.State.Blind)
}

// AdvanceBlind moves to the next blind within the ante, or the next
// ante's small blind after a boss.
func (r *RunState) AdvanceBlind() error {
	nextAnte, nextBlind := r.State.Ante, Small
	switch r.State.Blind {
	case Small:
		nextBlind = Big
	case Big:
		nextBlind = Boss
	case Boss:
		nextAnte = r.State.Ante + 1
		nextBlind = Small
	}
	if _, ok := r.Config.AnteRuleFor(nextAnte); !ok {
		return ErrMissingAnteRule
	}
	r.State.Ante = nextAnte
	r.State.Blind = nextBlind
	return nil
}

// StartNextBlind advances past the current blind and starts the next one.
func (r *RunState) StartNextBlind() error {
	if err := r.AdvanceBlind(); err != nil {
		return err
	}
	return r.StartCurrentBlind()
}

// SkipBlind skips the current non-boss blind, picking a tag reward.
func (r *RunState) SkipBlind() error {
	if r.State.Phase != PhaseDeal {
		return ErrInvalidPhase
	}
	if r.State.Blind == Boss {
		return ErrCannotSkipBoss
	}
	var tagID string
	if id, ok := r.pickSkipTag(); ok {
		tagID = id
		r.State.Tags = append(r.State.Tags, id)
		r.markRulesDirty()
	}
	r.State.BlindsSkipped++
	r.Events.Push(events.Event{Kind: events.BlindSkipped, Blind: r.State.Blind, TagID: tagID})
	if err := r.AdvanceBlind(); err != nil {
		return err
	}
	return r.StartCurrentBlind()
}

func (r *RunState) pickSkipTag() (string, bool) {
	if len(r.Content.Tags) == 0 {
		return "", false
	}
	idx := r.Rng.Intn(len(r.Content.Tags))
	return r.Content.Tags[idx].ID, true
}

// BlindCleared reports whether the running score has met the target.
func (r *RunState) BlindCleared() bool {
	return r.State.Target > 0 && r.State.BlindScore >= r.State.Target
}

// BlindOutcomeNow reports Cleared/Failed if the blind has resolved, or
// false if play continues.
func (r *RunState) BlindOutcomeNow() (BlindOutcome, bool) {
	if r.BlindCleared() {
		return Cleared, true
	}
	if r.State.HandsLeft == 0 {
		return Failed, true
	}
	return 0, false
}

// CheckOutcome resolves a cleared or failed blind: applies round-end
// effects, a failure-recovery ("prevent death") check, and the clear
// reward, mutating State.Money and State.Phase as appropriate.
func (r *RunState) CheckOutcome() (BlindOutcome, bool) {
	outcome, ok := r.BlindOutcomeNow()
	if !ok {
		return 0, false
	}
	switch outcome {
	case Cleared:
		r.applyIndependentEffects(effect.OnRoundEnd)
		reward := r.RewardForClear()
		r.State.Money += reward
		r.State.Phase = PhaseCleanup
		r.Events.Push(events.Event{Kind: events.BlindCleared, Score: r.State.BlindScore, Reward: reward, Money: r.State.Money})
		return Cleared, true
	case Failed:
		r.preventDeath = false
		r.applyIndependentEffects(effect.OnBlindFailed)
		if r.preventDeath {
			r.preventDeath = false
			r.State.BlindScore = r.State.Target
			r.applyIndependentEffects(effect.OnRoundEnd)
			r.State.Phase = PhaseCleanup
			r.Events.Push(events.Event{Kind: events.BlindCleared, Score: r.State.BlindScore, Reward: 0, Money: r.State.Money})
			return Cleared, true
		}
		r.applyIndependentEffects(effect.OnRoundEnd)
		r.State.Phase = PhaseCleanup
		r.Events.Push(events.Event{Kind: events.BlindFailed, Score: r.State.BlindScore})
		return Failed, true
	}
	return outcome, true
}

// RewardForClear computes the money earned for clearing the active
// blind: the base reward for its kind, a per-hand-remaining bonus, and
// accrued interest.
func (r *RunState) RewardForClear() int64 {
	economy := r.Config.Economy
	var base int64
	switch r.State.Blind {
	case Small:
		base = economy.RewardSmall
	case Big:
		base = economy.RewardBig
	case Boss:
		base = economy.RewardBoss
	}
	reward := base + economy.PerHandReward*int64(r.State.HandsLeft)
	return reward + r.InterestEarned()
}

// InterestEarned computes interest on the run's current money: one
// InterestPer increment for every InterestStep of money held, capped at
// InterestCap total.
func (r *RunState) InterestEarned() int64 {
	economy := r.Config.Economy
	if economy.InterestStep <= 0 || economy.InterestPer <= 0 {
		return 0
	}
	steps := r.State.Money / economy.InterestStep
	if steps < 0 {
		steps = 0
	}
	capSteps := economy.InterestCap / economy.InterestPer
	if steps > capSteps {
		steps = capSteps
	}
	return steps * economy.InterestPer
}

func (r *RunState) voucherHandsBonus() uint8 {
	return uint8(r.voucherEffectTotal(content.VoucherAddHandsPerRound))
}

func (r *RunState) voucherDiscardsBonus() uint8 {
	return uint8(r.voucherEffectTotal(content.VoucherAddDiscardsPerRound))
}

// voucherEffectTotal sums the Value of every active voucher whose effect
// matches kind.
func (r *RunState) voucherEffectTotal(kind content.VoucherEffectKind) int64 {
	var total int64
	for _, id := range r.State.ActiveVouchers {
		def, ok := content.VoucherByID(id)
		if !ok || def.Effect.Kind != kind {
			continue
		}
		total += def.Effect.Value
	}
	return total
}

// voucherEffectMax returns the largest Value among active vouchers whose
// effect matches kind. Tiered vouchers (25% vs 50% shop discount) don't
// stack; the better tier wins.
func (r *RunState) voucherEffectMax(kind content.VoucherEffectKind) int64 {
	var max int64
	for _, id := range r.State.ActiveVouchers {
		def, ok := content.VoucherByID(id)
		if !ok || def.Effect.Kind != kind {
			continue
		}
		if def.Effect.Value > max {
			max = def.Effect.Value
		}
	}
	return max
}
