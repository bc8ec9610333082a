package autoplay

import (
	"testing"

	"github.com/signalnine/balatromcts/gosim/internal/content"
	"github.com/signalnine/balatromcts/gosim/internal/run"
)

func freshSimulator(t *testing.T, seed uint64) *Simulator {
	t.Helper()
	r := run.New(content.DefaultGameConfig(), *content.DefaultContent(), seed)
	if err := r.StartBlind(1, run.Small); err != nil {
		t.Fatalf("StartBlind: %v", err)
	}
	return NewSimulator(r)
}

func TestStableKeyFormats(t *testing.T) {
	cases := []struct {
		action AutoAction
		want   string
	}{
		{AutoAction{Kind: ActDeal}, "deal"},
		{AutoAction{Kind: ActPlay, Indices: []int{0, 2}}, "play:[0,2]"},
		{AutoAction{Kind: ActDiscard, Indices: []int{1}}, "discard:[1]"},
		{AutoAction{Kind: ActSkipBlind}, "skip_blind"},
		{AutoAction{Kind: ActEnterShop}, "enter_shop"},
		{AutoAction{Kind: ActLeaveShop}, "leave_shop"},
		{AutoAction{Kind: ActRerollShop}, "reroll_shop"},
		{AutoAction{Kind: ActBuyCard, Index: 3}, "buy_card:3"},
		{AutoAction{Kind: ActBuyPack, Index: 1}, "buy_pack:1"},
		{AutoAction{Kind: ActBuyVoucher, Index: 0}, "buy_voucher:0"},
		{AutoAction{Kind: ActPickPack, Indices: []int{0}}, "pick_pack:[0]"},
		{AutoAction{Kind: ActSkipPack}, "skip_pack"},
		{AutoAction{Kind: ActUseConsumable, Index: 2, Selected: []int{0, 1}}, "use_consumable:2:[0,1]"},
		{AutoAction{Kind: ActSellJoker, Index: 0}, "sell_joker:0"},
		{AutoAction{Kind: ActNextBlind}, "next_blind"},
	}
	for _, c := range cases {
		if got := c.action.StableKey(); got != c.want {
			t.Errorf("StableKey() = %q, want %q", got, c.want)
		}
	}
}

func TestLegalActionsDealPhase(t *testing.T) {
	sim := freshSimulator(t, 7)
	cfg := DefaultAutoplayConfig()
	actions := sim.LegalActions(&cfg)
	if len(actions) == 0 {
		t.Fatalf("expected at least one legal action in Deal phase")
	}
	found := false
	for _, a := range actions {
		if a.Kind == ActDeal {
			found = true
		}
	}
	if !found {
		t.Fatalf("expected Deal action among %v", actions)
	}
}

func TestLegalActionsCanonicalOrder(t *testing.T) {
	sim := freshSimulator(t, 7)
	cfg := DefaultAutoplayConfig()
	actions := sim.LegalActions(&cfg)
	for i := 1; i < len(actions); i++ {
		if actions[i-1].StableKey() >= actions[i].StableKey() {
			t.Fatalf("legal actions not strictly increasing at %d: %q >= %q", i, actions[i-1].StableKey(), actions[i].StableKey())
		}
	}
}

func TestLegalActionsIdempotent(t *testing.T) {
	sim := freshSimulator(t, 7)
	cfg := DefaultAutoplayConfig()
	a := sim.LegalActions(&cfg)
	b := sim.LegalActions(&cfg)
	if len(a) != len(b) {
		t.Fatalf("call counts differ: %d vs %d", len(a), len(b))
	}
	for i := range a {
		if a[i].StableKey() != b[i].StableKey() {
			t.Fatalf("order differs at %d: %q vs %q", i, a[i].StableKey(), b[i].StableKey())
		}
	}
}

func TestApplyActionDealThenPlay(t *testing.T) {
	sim := freshSimulator(t, 42)
	if _, err := sim.ApplyAction(AutoAction{Kind: ActDeal}); err != nil {
		t.Fatalf("Deal: %v", err)
	}
	if len(sim.Run.Hand) != 8 {
		t.Fatalf("expected hand size 8 after deal, got %d", len(sim.Run.Hand))
	}
	if _, err := sim.ApplyAction(AutoAction{Kind: ActPlay, Indices: []int{0}}); err != nil {
		t.Fatalf("Play: %v", err)
	}
	if sim.Run.State.HandsLeft != 3 {
		t.Fatalf("expected hands_left decremented to 3, got %d", sim.Run.State.HandsLeft)
	}
}
