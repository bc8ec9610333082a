package run

import (
	"fmt"
	"testing"

	"github.com/signalnine/balatromcts/gosim/internal/content"
	"github.com/signalnine/balatromcts/gosim/internal/effect"
	"github.com/signalnine/balatromcts/gosim/internal/shop"
)

func testBossContent() content.Content {
	c := *content.DefaultContent()
	c.Bosses = []content.BossDef{
		{
			ID: "test_boss",
			Effects: []content.JokerEffectDef{
				{Trigger: effect.OnBlindStart, Actions: []effect.Action{
					{Op: effect.OpSetDiscards, Value: effect.NumberExpr(0)},
				}},
			},
		},
	}
	return c
}

func TestStartBlindAppliesBossEffects(t *testing.T) {
	r := New(content.DefaultGameConfig(), testBossContent(), 1)
	if err := r.StartBlind(1, Boss); err != nil {
		t.Fatalf("StartBlind: %v", err)
	}
	if r.State.DiscardsLeft != 0 {
		t.Fatalf("expected the test boss's OnBlindStart effect to zero discards, got %d", r.State.DiscardsLeft)
	}
}

func TestDisableBossSuppressesBossEffects(t *testing.T) {
	r := New(content.DefaultGameConfig(), testBossContent(), 1)
	r.bossDisablePending = true
	if err := r.StartBlind(1, Boss); err != nil {
		t.Fatalf("StartBlind: %v", err)
	}
	if !r.BossEffectsDisabled() {
		t.Fatalf("expected boss effects to be disabled")
	}
	if r.State.DiscardsLeft == 0 {
		t.Fatalf("expected boss effect to be suppressed, discards were zeroed anyway")
	}
}

func TestStartBlindSmallPicksNoBoss(t *testing.T) {
	r := New(content.DefaultGameConfig(), testBossContent(), 1)
	if err := r.StartBlind(1, Small); err != nil {
		t.Fatalf("StartBlind: %v", err)
	}
	if _, ok := r.CurrentBoss(); ok {
		t.Fatalf("expected no active boss on a small blind")
	}
}

func TestDealPlayDiscardCycle(t *testing.T) {
	r := New(content.DefaultGameConfig(), *content.DefaultContent(), 42)
	if err := r.StartBlind(1, Small); err != nil {
		t.Fatalf("StartBlind: %v", err)
	}
	if err := r.PrepareHand(); err != nil {
		t.Fatalf("PrepareHand: %v", err)
	}
	if len(r.Hand) != r.State.HandSize {
		t.Fatalf("expected %d cards dealt, got %d", r.State.HandSize, len(r.Hand))
	}
	handsBefore := r.State.HandsLeft
	if _, err := r.PlayHand([]int{0, 1}); err != nil {
		t.Fatalf("PlayHand: %v", err)
	}
	if r.State.HandsLeft != handsBefore-1 {
		t.Fatalf("expected HandsLeft to decrement, before=%d after=%d", handsBefore, r.State.HandsLeft)
	}
	if len(r.Hand) != r.State.HandSize-2 {
		t.Fatalf("expected 2 cards removed from hand, got %d remaining of %d", len(r.Hand), r.State.HandSize)
	}
}

// forceCleared marks the active blind as cleared so shop-flow tests can
// enter the shop without replaying a full blind.
func forceCleared(r *RunState) {
	r.State.BlindScore = r.State.Target
	r.State.Phase = PhaseCleanup
}

func freshShopRun(t *testing.T, seed uint64) *RunState {
	t.Helper()
	r := New(content.DefaultGameConfig(), *content.DefaultContent(), seed)
	if err := r.StartBlind(1, Small); err != nil {
		t.Fatalf("StartBlind: %v", err)
	}
	forceCleared(r)
	r.State.Money = 100
	if err := r.EnterShop(); err != nil {
		t.Fatalf("EnterShop: %v", err)
	}
	return r
}

func TestRewardForClearMatchesEconomyRule(t *testing.T) {
	r := New(content.DefaultGameConfig(), *content.DefaultContent(), 5)
	if err := r.StartBlind(1, Small); err != nil {
		t.Fatalf("StartBlind: %v", err)
	}
	r.State.Money = 23
	r.State.HandsLeft = 2
	// base 3 + per-hand 1*2 + interest min(floor(23/5), 5/1)*1 = 3 + 2 + 4 = 9
	if got := r.RewardForClear(); got != 9 {
		t.Fatalf("expected clear reward 9, got %d", got)
	}
}

func TestInterestEarnedIsCapped(t *testing.T) {
	r := New(content.DefaultGameConfig(), *content.DefaultContent(), 5)
	r.State.Money = 1000
	if got := r.InterestEarned(); got != 5 {
		t.Fatalf("expected interest capped at 5, got %d", got)
	}
}

func TestRerollShopWithoutMoneyLeavesShopUnchanged(t *testing.T) {
	r := freshShopRun(t, 11)
	r.State.Money = 0
	var before []string
	for _, c := range r.Shop.Cards {
		before = append(before, c.ItemID)
	}
	costBefore := r.Shop.RerollCost
	if err := r.RerollShop(); err != ErrNotEnoughMoney {
		t.Fatalf("expected ErrNotEnoughMoney, got %v", err)
	}
	if r.Shop.RerollCost != costBefore {
		t.Fatalf("reroll cost changed on failed reroll: %d -> %d", costBefore, r.Shop.RerollCost)
	}
	for i, c := range r.Shop.Cards {
		if before[i] != c.ItemID {
			t.Fatalf("card offers changed on failed reroll")
		}
	}
}

func TestLeaveShopWithOpenPackClearsPackAndStays(t *testing.T) {
	r := freshShopRun(t, 13)
	if len(r.Shop.Packs) == 0 {
		t.Skipf("no pack offers generated for this seed")
	}
	if err := r.BuyShopOffer(shop.ShopOfferRef{Kind: shop.RefPack, Index: 0}); err != nil {
		t.Fatalf("BuyShopOffer: %v", err)
	}
	if r.PendingPack() == nil {
		t.Fatalf("expected an open pack after buying one")
	}
	if err := r.LeaveShop(); err != nil {
		t.Fatalf("LeaveShop with open pack: %v", err)
	}
	if r.PendingPack() != nil {
		t.Fatalf("expected LeaveShop to clear the open pack")
	}
	if r.State.Phase != PhaseShop {
		t.Fatalf("expected to remain in shop after clearing the pack, got %v", r.State.Phase)
	}
	if err := r.LeaveShop(); err != nil {
		t.Fatalf("second LeaveShop should advance to the next blind: %v", err)
	}
	if r.State.Phase != PhaseDeal {
		t.Fatalf("expected Deal phase after leaving the shop, got %v", r.State.Phase)
	}
}

func TestRefillLawAfterDiscard(t *testing.T) {
	r := New(content.DefaultGameConfig(), *content.DefaultContent(), 17)
	if err := r.StartBlind(1, Small); err != nil {
		t.Fatalf("StartBlind: %v", err)
	}
	if err := r.PrepareHand(); err != nil {
		t.Fatalf("PrepareHand: %v", err)
	}
	if err := r.Discard([]int{0, 1, 2}); err != nil {
		t.Fatalf("Discard: %v", err)
	}
	if len(r.Hand) != r.State.HandSize {
		t.Fatalf("expected hand refilled to %d after discard, got %d", r.State.HandSize, len(r.Hand))
	}
}

func TestEventStreamIsDeterministicForSameSeedAndActions(t *testing.T) {
	play := func(seed uint64) string {
		r := New(content.DefaultGameConfig(), *content.DefaultContent(), seed)
		if err := r.StartBlind(1, Small); err != nil {
			t.Fatalf("StartBlind: %v", err)
		}
		if err := r.PrepareHand(); err != nil {
			t.Fatalf("PrepareHand: %v", err)
		}
		if _, err := r.PlayHand([]int{0, 1}); err != nil {
			t.Fatalf("PlayHand: %v", err)
		}
		return fmt.Sprintf("%+v", r.Events.Drain())
	}
	if a, b := play(0xC0FFEE), play(0xC0FFEE); a != b {
		t.Fatalf("same seed and actions produced different event streams:\n%s\nvs\n%s", a, b)
	}
}

func TestAddChipsJokerIsMonotone(t *testing.T) {
	const bonus = 50.0
	chipJoker := content.JokerDef{
		ID: "test_chips", Rarity: effect.Common,
		Effects: []content.JokerEffectDef{{
			Trigger: effect.Independent,
			Actions: []effect.Action{{Op: effect.OpAddChips, Value: effect.NumberExpr(bonus)}},
		}},
	}
	c := *content.DefaultContent()
	c.Jokers = append(c.Jokers, chipJoker)

	score := func(withJoker bool) int64 {
		r := New(content.DefaultGameConfig(), c, 21)
		if err := r.StartBlind(1, Small); err != nil {
			t.Fatalf("StartBlind: %v", err)
		}
		if withJoker {
			if err := r.Inventory.AddJoker("test_chips", effect.Common, 0); err != nil {
				t.Fatalf("AddJoker: %v", err)
			}
		}
		if err := r.PrepareHand(); err != nil {
			t.Fatalf("PrepareHand: %v", err)
		}
		if _, err := r.PlayHand([]int{0}); err != nil {
			t.Fatalf("PlayHand: %v", err)
		}
		return r.State.BlindScore
	}

	without := score(false)
	with := score(true)
	if with < without+int64(bonus) {
		t.Fatalf("expected add-chips joker to raise the total by at least %v: %d vs %d", bonus, without, with)
	}
}

func TestPlayHandRecordsScoreTrace(t *testing.T) {
	r := New(content.DefaultGameConfig(), *content.DefaultContent(), 23)
	if err := r.StartBlind(1, Small); err != nil {
		t.Fatalf("StartBlind: %v", err)
	}
	if err := r.PrepareHand(); err != nil {
		t.Fatalf("PrepareHand: %v", err)
	}
	if _, err := r.PlayHand([]int{0, 1, 2}); err != nil {
		t.Fatalf("PlayHand: %v", err)
	}
	if len(r.LastScoreTrace) == 0 {
		t.Fatalf("expected a non-empty score trace after playing a hand")
	}
	for i, step := range r.LastScoreTrace {
		if step.Source == "" {
			t.Fatalf("trace step %d has no source", i)
		}
	}
}

func TestTagFiresOnShopEnterAndIsConsumed(t *testing.T) {
	r := New(content.DefaultGameConfig(), *content.DefaultContent(), 29)
	if err := r.StartBlind(1, Small); err != nil {
		t.Fatalf("StartBlind: %v", err)
	}
	r.State.Tags = append(r.State.Tags, "tag_investment")
	forceCleared(r)
	moneyBefore := r.State.Money
	if err := r.EnterShop(); err != nil {
		t.Fatalf("EnterShop: %v", err)
	}
	if r.State.Money != moneyBefore+15 {
		t.Fatalf("expected investment tag to pay 15, money %d -> %d", moneyBefore, r.State.Money)
	}
	for _, id := range r.State.Tags {
		if id == "tag_investment" {
			t.Fatalf("expected fired tag to be consumed")
		}
	}
}

func TestGrabberVoucherAddsAHand(t *testing.T) {
	r := New(content.DefaultGameConfig(), *content.DefaultContent(), 31)
	r.State.ActiveVouchers = append(r.State.ActiveVouchers, "grabber")
	if err := r.StartBlind(1, Small); err != nil {
		t.Fatalf("StartBlind: %v", err)
	}
	if r.State.HandsLeft != 5 {
		t.Fatalf("expected 4+1 hands with grabber active, got %d", r.State.HandsLeft)
	}
}

func TestStartBlindIsDeterministicForSameSeed(t *testing.T) {
	r1 := New(content.DefaultGameConfig(), *content.DefaultContent(), 99)
	r2 := New(content.DefaultGameConfig(), *content.DefaultContent(), 99)
	if err := r1.StartBlind(8, Boss); err != nil {
		t.Fatalf("StartBlind r1: %v", err)
	}
	if err := r2.StartBlind(8, Boss); err != nil {
		t.Fatalf("StartBlind r2: %v", err)
	}
	if r1.State.BossID != r2.State.BossID {
		t.Fatalf("same seed produced different bosses: %q vs %q", r1.State.BossID, r2.State.BossID)
	}
}
