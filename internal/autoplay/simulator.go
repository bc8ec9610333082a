package autoplay

import (
	"sort"

	"gonum.org/v1/gonum/stat/combin"

	"github.com/signalnine/balatromcts/gosim/internal/cards"
	"github.com/signalnine/balatromcts/gosim/internal/run"
	"github.com/signalnine/balatromcts/gosim/internal/score"
	"github.com/signalnine/balatromcts/gosim/internal/shop"
)

// Simulator wraps a run.RunState behind the closed AutoAction surface:
// ApplyAction mutates the run and reports how many events it emitted,
// LegalActions enumerates and caps the actions available from the
// current state.
type Simulator struct {
	Run *run.RunState
}

// NewSimulator wraps an existing run.
func NewSimulator(r *run.RunState) *Simulator {
	return &Simulator{Run: r}
}

// Metrics snapshots the run's current progress for objective evaluation.
func (s *Simulator) Metrics() EvalMetrics {
	outcome, ok := s.Run.BlindOutcomeNow()
	return EvalMetrics{
		Ante:         s.Run.State.Ante,
		Money:        s.Run.State.Money,
		BlindScore:   s.Run.State.BlindScore,
		BlindTarget:  s.Run.State.Target,
		BlindFailed:  ok && outcome == run.Failed,
		BlindCleared: ok && outcome == run.Cleared,
	}
}

// PhaseName reports the run's current phase, for trace display.
func (s *Simulator) PhaseName() string {
	return s.Run.State.Phase.String()
}

// BlindName reports the run's current blind kind, for trace display.
func (s *Simulator) BlindName() string {
	return s.Run.State.Blind.String()
}

// ApplyAction dispatches action to the matching run operation and
// reports how many events it emitted.
func (s *Simulator) ApplyAction(action AutoAction) (int, error) {
	var err error
	switch action.Kind {
	case ActDeal:
		err = s.Run.PrepareHand()
	case ActPlay:
		_, err = s.Run.PlayHand(action.Indices)
	case ActDiscard:
		err = s.Run.Discard(action.Indices)
	case ActSkipBlind:
		err = s.Run.SkipBlind()
	case ActEnterShop:
		err = s.Run.EnterShop()
	case ActLeaveShop:
		err = s.Run.LeaveShop()
	case ActRerollShop:
		err = s.Run.RerollShop()
	case ActBuyCard:
		err = s.Run.BuyShopOffer(shop.ShopOfferRef{Kind: shop.RefCard, Index: action.Index})
	case ActBuyPack:
		err = s.Run.BuyShopOffer(shop.ShopOfferRef{Kind: shop.RefPack, Index: action.Index})
	case ActBuyVoucher:
		err = s.Run.BuyShopOffer(shop.ShopOfferRef{Kind: shop.RefVoucher, Index: action.Index})
	case ActPickPack:
		err = s.Run.PickPack(action.Indices)
	case ActSkipPack:
		err = s.Run.SkipPack()
	case ActUseConsumable:
		err = s.Run.UseConsumable(action.Index, action.Selected)
	case ActSellJoker:
		err = s.Run.SellJoker(action.Index)
	case ActNextBlind:
		err = s.Run.StartNextBlind()
	}
	if err != nil {
		return 0, runError(err)
	}
	return len(s.Run.Events.Drain()), nil
}

// LegalActions enumerates and caps the actions available from the run's
// current state, in canonical stable_key order with duplicates removed.
func (s *Simulator) LegalActions(cfg *AutoplayConfig) []AutoAction {
	if open := s.Run.PendingPack(); open != nil {
		return legalPackActions(open, cfg.MaxShopCandidates)
	}

	var actions []AutoAction
	switch s.Run.State.Phase {
	case run.PhaseDeal:
		actions = append(actions, AutoAction{Kind: ActDeal})
		if s.Run.State.Blind != run.Boss {
			actions = append(actions, AutoAction{Kind: ActSkipBlind})
		}
	case run.PhasePlay:
		actions = append(actions, legalPlayActions(s.Run, cfg.MaxPlayCandidates)...)
		if s.Run.State.DiscardsLeft > 0 {
			actions = append(actions, legalDiscardActions(s.Run, cfg.MaxDiscardCandidates)...)
		}
		actions = append(actions, legalConsumableActions(s.Run)...)
	case run.PhaseShop:
		actions = append(actions, AutoAction{Kind: ActLeaveShop})
		if s.Run.Shop != nil {
			if s.Run.State.ShopFreeRerolls > 0 || s.Run.State.Money >= s.Run.Shop.RerollCost {
				actions = append(actions, AutoAction{Kind: ActRerollShop})
			}
			actions = append(actions, buyableActions(s.Run, ActBuyCard, shop.RefCard, len(s.Run.Shop.Cards), cfg.MaxShopCandidates)...)
			actions = append(actions, buyableActions(s.Run, ActBuyPack, shop.RefPack, len(s.Run.Shop.Packs), cfg.MaxShopCandidates)...)
			actions = append(actions, buyableActions(s.Run, ActBuyVoucher, shop.RefVoucher, s.Run.Shop.Vouchers, cfg.MaxShopCandidates)...)
		}
		actions = append(actions, sellableJokerActions(s.Run, cfg.MaxShopCandidates)...)
	}

	if outcome, ok := s.Run.BlindOutcomeNow(); ok && outcome == run.Cleared {
		if s.Run.State.Phase != run.PhaseShop {
			actions = append(actions, AutoAction{Kind: ActEnterShop})
		}
		actions = append(actions, AutoAction{Kind: ActNextBlind})
	}

	sort.Slice(actions, func(i, j int) bool { return actions[i].StableKey() < actions[j].StableKey() })
	return dedupActions(actions)
}

// buyableActions emits one buy action per affordable, takeable offer in
// the referenced shop list, capped at cap. Unaffordable or slot-blocked
// offers are filtered out here so search never expands an action the run
// would reject.
func buyableActions(r *run.RunState, kind ActionKind, refKind shop.ShopOfferRefKind, count, cap int) []AutoAction {
	if count > cap {
		count = cap
	}
	var out []AutoAction
	for i := 0; i < count; i++ {
		if !r.CanTakeOffer(shop.ShopOfferRef{Kind: refKind, Index: i}) {
			continue
		}
		out = append(out, AutoAction{Kind: kind, Index: i})
	}
	return out
}

// sellableJokerActions emits one sell action per owned non-eternal
// joker, capped at cap.
func sellableJokerActions(r *run.RunState, cap int) []AutoAction {
	var out []AutoAction
	for i, inst := range r.Inventory.Jokers {
		if inst.Stickers.Eternal {
			continue
		}
		out = append(out, AutoAction{Kind: ActSellJoker, Index: i})
		if len(out) >= cap {
			break
		}
	}
	return out
}

func dedupActions(actions []AutoAction) []AutoAction {
	out := actions[:0]
	var lastKey string
	for i, a := range actions {
		key := a.StableKey()
		if i > 0 && key == lastKey {
			continue
		}
		out = append(out, a)
		lastKey = key
	}
	return out
}

func legalPlayActions(r *run.RunState, cap int) []AutoAction {
	return legalHandActions(r, cap, false)
}

func legalDiscardActions(r *run.RunState, cap int) []AutoAction {
	return legalHandActions(r, cap, true)
}

// legalHandActions enumerates every 1..min(5,|hand|)-subset of hand
// indices, scores each by cardEvalValue, and retains the top cap (for
// Play) or worst cap (for Discard).
func legalHandActions(r *run.RunState, cap int, discard bool) []AutoAction {
	maxCards := len(r.Hand)
	if maxCards > 5 {
		maxCards = 5
	}
	if maxCards == 0 {
		return nil
	}

	type scoredCombo struct {
		value   int64
		indices []int
	}
	var all []scoredCombo
	for count := 1; count <= maxCards; count++ {
		for _, combo := range combin.Combinations(len(r.Hand), count) {
			var value int64
			for _, idx := range combo {
				value += cardEvalValue(r.Hand[idx], r.Tables)
			}
			all = append(all, scoredCombo{value: value, indices: combo})
		}
	}

	sort.Slice(all, func(i, j int) bool {
		if all[i].value != all[j].value {
			if discard {
				return all[i].value < all[j].value
			}
			return all[i].value > all[j].value
		}
		return lessIntSlice(all[i].indices, all[j].indices)
	})

	if cap < 1 {
		cap = 1
	}
	if len(all) > cap {
		all = all[:cap]
	}

	kind := ActPlay
	if discard {
		kind = ActDiscard
	}
	out := make([]AutoAction, len(all))
	for i, c := range all {
		out[i] = AutoAction{Kind: kind, Indices: c.indices}
	}
	return out
}

// legalConsumableActions emits one UseConsumable action per owned
// consumable. This engine's effect actions never target individual held
// cards (see DESIGN.md's Open Question decisions), so selected is always
// empty rather than enumerating held-card subsets.
func legalConsumableActions(r *run.RunState) []AutoAction {
	out := make([]AutoAction, len(r.Inventory.Consumables))
	for i := range r.Inventory.Consumables {
		out[i] = AutoAction{Kind: ActUseConsumable, Index: i}
	}
	return out
}

func legalPackActions(open *shop.PackOpen, cap int) []AutoAction {
	actions := []AutoAction{{Kind: ActSkipPack}}

	maxPick := int(open.Offer.Picks)
	if maxPick < 1 {
		maxPick = 1
	}
	if maxPick > len(open.Options) {
		maxPick = len(open.Options)
	}

	var combos [][]int
	for pick := 1; pick <= maxPick; pick++ {
		combos = append(combos, combin.Combinations(len(open.Options), pick)...)
	}
	sort.Slice(combos, func(i, j int) bool { return lessIntSlice(combos[i], combos[j]) })

	if cap < 1 {
		cap = 1
	}
	if len(combos) > cap {
		combos = combos[:cap]
	}
	for _, c := range combos {
		actions = append(actions, AutoAction{Kind: ActPickPack, Indices: c})
	}
	return actions
}

func lessIntSlice(a, b []int) bool {
	for i := 0; i < len(a) && i < len(b); i++ {
		if a[i] != b[i] {
			return a[i] < b[i]
		}
	}
	return len(a) < len(b)
}

func cardEvalValue(c cards.Card, tables *score.Tables) int64 {
	if c.IsStone() {
		return 0
	}
	return tables.RankChips(c.Rank) + c.BonusChips + rankHeuristic(c.Rank)
}

func rankHeuristic(r cards.Rank) int64 {
	switch r {
	case cards.Ace:
		return 14
	case cards.King:
		return 13
	case cards.Queen:
		return 12
	case cards.Jack:
		return 11
	case cards.Ten:
		return 10
	case cards.Nine:
		return 9
	case cards.Eight:
		return 8
	case cards.Seven:
		return 7
	case cards.Six:
		return 6
	case cards.Five:
		return 5
	case cards.Four:
		return 4
	case cards.Three:
		return 3
	case cards.Two:
		return 2
	case cards.Joker:
		return 15
	default:
		return 0
	}
}
