// Package autoplay drives a run programmatically: a closed action surface,
// a Simulator that applies actions and enumerates legal ones, and the
// objective functions MCTS search optimizes against.
package autoplay

import (
	"encoding/json"
	"fmt"
	"strings"
)

// ActionKind discriminates AutoAction's variants. Exactly one of
// AutoAction's payload fields is meaningful per kind; the rest hold their
// zero value.
type ActionKind uint8

const (
	ActDeal ActionKind = iota
	ActPlay
	ActDiscard
	ActSkipBlind
	ActEnterShop
	ActLeaveShop
	ActRerollShop
	ActBuyCard
	ActBuyPack
	ActBuyVoucher
	ActPickPack
	ActSkipPack
	ActUseConsumable
	ActSellJoker
	ActNextBlind
)

// AutoAction is one move a Simulator can apply: the full closed action
// surface shared by the autoplayer, MCTS search, and (were one built) an
// interactive UI.
type AutoAction struct {
	Kind     ActionKind
	Indices  []int
	Index    int
	Selected []int
}

// StableKey is a deterministic textual key used to order and deduplicate
// actions, and to break MCTS ties.
func (a AutoAction) StableKey() string {
	switch a.Kind {
	case ActDeal:
		return "deal"
	case ActPlay:
		return "play:" + formatIndices(a.Indices)
	case ActDiscard:
		return "discard:" + formatIndices(a.Indices)
	case ActSkipBlind:
		return "skip_blind"
	case ActEnterShop:
		return "enter_shop"
	case ActLeaveShop:
		return "leave_shop"
	case ActRerollShop:
		return "reroll_shop"
	case ActBuyCard:
		return fmt.Sprintf("buy_card:%d", a.Index)
	case ActBuyPack:
		return fmt.Sprintf("buy_pack:%d", a.Index)
	case ActBuyVoucher:
		return fmt.Sprintf("buy_voucher:%d", a.Index)
	case ActPickPack:
		return "pick_pack:" + formatIndices(a.Indices)
	case ActSkipPack:
		return "skip_pack"
	case ActUseConsumable:
		return fmt.Sprintf("use_consumable:%d:%s", a.Index, formatIndices(a.Selected))
	case ActSellJoker:
		return fmt.Sprintf("sell_joker:%d", a.Index)
	case ActNextBlind:
		return "next_blind"
	default:
		return "unknown"
	}
}

// ShortLabel is a StableKey variant with spaces instead of colons, used
// for human-facing trace output.
func (a AutoAction) ShortLabel() string {
	switch a.Kind {
	case ActPlay:
		return "play " + formatIndices(a.Indices)
	case ActDiscard:
		return "discard " + formatIndices(a.Indices)
	case ActBuyCard:
		return fmt.Sprintf("buy_card %d", a.Index)
	case ActBuyPack:
		return fmt.Sprintf("buy_pack %d", a.Index)
	case ActBuyVoucher:
		return fmt.Sprintf("buy_voucher %d", a.Index)
	case ActPickPack:
		return "pick_pack " + formatIndices(a.Indices)
	case ActUseConsumable:
		return fmt.Sprintf("use_consumable %d %s", a.Index, formatIndices(a.Selected))
	case ActSellJoker:
		return fmt.Sprintf("sell_joker %d", a.Index)
	default:
		return a.StableKey()
	}
}

// MarshalJSON renders an AutoAction as its StableKey, so a trace report
// reads as a plain action log rather than a tagged-union dump.
func (a AutoAction) MarshalJSON() ([]byte, error) {
	return json.Marshal(a.StableKey())
}

func formatIndices(indices []int) string {
	parts := make([]string, len(indices))
	for i, idx := range indices {
		parts[i] = fmt.Sprintf("%d", idx)
	}
	return "[" + strings.Join(parts, ",") + "]"
}
