// Package run drives a single playthrough: blind progression, hand play
// and discard, shop purchases, and the joker/boss effect triggers that
// react to them. It composes internal/content, internal/deck,
// internal/hand, internal/score, internal/effect, internal/inventory, and
// internal/shop behind one state machine.
package run

import (
	"errors"
	"fmt"

	"github.com/signalnine/balatromcts/gosim/internal/cards"
	"github.com/signalnine/balatromcts/gosim/internal/content"
	"github.com/signalnine/balatromcts/gosim/internal/deck"
	"github.com/signalnine/balatromcts/gosim/internal/events"
	"github.com/signalnine/balatromcts/gosim/internal/hand"
	"github.com/signalnine/balatromcts/gosim/internal/inventory"
	"github.com/signalnine/balatromcts/gosim/internal/rng"
	"github.com/signalnine/balatromcts/gosim/internal/score"
	"github.com/signalnine/balatromcts/gosim/internal/shop"
)

// Phase is the closed set of states a blind round moves through.
type Phase uint8

const (
	PhaseSetup Phase = iota
	PhaseDeal
	PhasePlay
	PhaseScore
	PhaseCleanup
	PhaseShop
)

// BlindKind is reused from internal/content rather than redeclared here,
// since content's shop/blind-rule lookups and run's GameState both need
// the same three-way enum and a run always holds a *content.GameConfig.
type BlindKind = content.BlindKind

const (
	Small = content.Small
	Big   = content.Big
	Boss  = content.Boss
)

// BlindOutcome reports whether the active blind was cleared or failed.
type BlindOutcome uint8

const (
	Cleared BlindOutcome = iota
	Failed
)

// GameState is the run's mutable scoreboard: current ante/blind/phase,
// target and progress, hands/discards remaining, hand size, money, and
// per-hand-kind play/level bookkeeping.
type GameState struct {
	Ante            uint8
	Blind           BlindKind
	Phase           Phase
	Target          int64
	BlindScore      int64
	HandsLeft       uint8
	DiscardsLeft    uint8
	HandsMax        uint8
	DiscardsMax     uint8
	HandSizeBase    int
	HandSize        int
	Money           int64
	LastHand        *hand.Kind
	HandPlayCounts  map[hand.Kind]uint32
	HandLevels      map[hand.Kind]uint32
	ShopFreeRerolls uint8
	BossID          string
	ActiveVouchers  []string
	Tags            []string
	BlindsSkipped   uint32
}

func newGameState() GameState {
	return GameState{
		Phase:          PhaseSetup,
		HandPlayCounts: make(map[hand.Kind]uint32),
		HandLevels:     make(map[hand.Kind]uint32),
	}
}

// RunError is the closed set of operation failures a run can report.
var (
	ErrMissingBlindRule = errors.New("run: missing blind rule")
	ErrMissingAnteRule  = errors.New("run: missing ante rule")
	ErrInvalidPhase     = errors.New("run: invalid phase for operation")
	ErrNoHandsLeft      = errors.New("run: no hands left")
	ErrNoDiscardsLeft   = errors.New("run: no discards left")
	ErrInvalidSelection = errors.New("run: invalid card selection")
	ErrInvalidCardCount = errors.New("run: invalid card count")
	ErrNotEnoughMoney   = errors.New("run: not enough money")
	ErrShopNotAvailable = errors.New("run: shop not available")
	ErrInvalidOffer     = errors.New("run: invalid shop offer index")
	ErrInvalidJoker     = errors.New("run: invalid joker index")
	ErrBlindNotCleared  = errors.New("run: blind not cleared")
	ErrPackNotAvailable = errors.New("run: pack not available")
	ErrCannotSkipBoss   = errors.New("run: cannot skip a boss blind")
)

// RunState is a full playthrough: static config/content alongside the
// mutable deck, hand, inventory, shop, and scoreboard.
type RunState struct {
	Config    content.GameConfig
	Tables    *score.Tables
	Content   content.Content
	Inventory *inventory.Inventory
	Rng       *rng.Stream
	Deck      *deck.Deck
	Hand      []cards.Card
	State     GameState
	Shop      *shop.ShopState
	Events    events.Bus

	LastScoreTrace []score.TraceStep

	bossDisablePending bool
	bossDisabled       bool
	preventDeath       bool
	sellBonus          int64
	shopReentered      bool
	packPending        *shop.PackOpen
	packPendingKind    shop.ShopOfferKind

	ruleVars        map[string]float64
	ruleDirty       bool
	refreshingRules bool

	nextCardID uint32

	pendingRetriggers    int
	pendingCardDestroys  map[uint32]bool
	pendingCardMutations []cardMutation
	pendingJokerRemovals []int
	duplicateNextTag     bool
	copyDepth            int
	effectPassDepth      int
}

// New builds a fresh run from a static config, content catalog, and seed.
func New(config content.GameConfig, c content.Content, seed uint64) *RunState {
	r := rng.New(seed)
	d := deck.Standard52()
	nextID := uint32(len(d.Draw)) + 1
	d.Shuffle(r)

	tables := score.NewTables(toHandRuleConfigs(config.Hands), toRankChipConfigs(config.Ranks))

	handSize := config.Economy.InitialHandSize
	if handSize <= 0 {
		handSize = content.DefaultInitialHandSize
	}

	state := newGameState()
	state.HandSizeBase = handSize
	state.HandSize = handSize

	return &RunState{
		Config:     config,
		Tables:     tables,
		Content:    c,
		Inventory:  inventory.WithSlots(5, 2),
		Rng:        r,
		Deck:       d,
		Hand:       nil,
		State:      state,
		ruleVars:   make(map[string]float64),
		ruleDirty:  true,
		nextCardID: nextID,
	}
}

func toHandRuleConfigs(hands []content.HandRule) []score.HandRuleConfig {
	out := make([]score.HandRuleConfig, 0, len(hands))
	for _, h := range hands {
		out = append(out, score.HandRuleConfig{
			ID:         h.ID,
			BaseChips:  h.BaseChips,
			BaseMult:   h.BaseMult,
			LevelChips: h.LevelChips,
			LevelMult:  h.LevelMult,
		})
	}
	return out
}

func toRankChipConfigs(ranks []content.RankRule) []score.RankChipConfig {
	out := make([]score.RankChipConfig, 0, len(ranks))
	for _, r := range ranks {
		out = append(out, score.RankChipConfig{Rank: r.Rank, Chips: r.Chips})
	}
	return out
}

// CurrentBoss returns the active boss definition, if any.
func (r *RunState) CurrentBoss() (content.BossDef, bool) {
	if r.State.BossID == "" {
		return content.BossDef{}, false
	}
	return r.Content.BossByID(r.State.BossID)
}

// BossEffectsDisabled reports whether the active boss's effects are
// currently suppressed (e.g. by a disable-boss joker action).
func (r *RunState) BossEffectsDisabled() bool {
	return r.bossDisabled
}

// HandLevel returns a hand kind's current level (1 if never upgraded),
// keyed on hand.LevelKind so Royal Flush always shares Straight Flush's
// level.
func (r *RunState) HandLevel(kind hand.Kind) uint32 {
	key := hand.LevelKind(kind)
	if lvl, ok := r.State.HandLevels[key]; ok {
		return lvl
	}
	return 1
}

// UpgradeHandLevel raises one hand kind's level by amount.
func (r *RunState) UpgradeHandLevel(kind hand.Kind, amount uint32) {
	if amount == 0 {
		return
	}
	key := hand.LevelKind(kind)
	r.State.HandLevels[key] = r.HandLevel(kind) + amount
}

// UpgradeAllHands raises every hand kind's level by amount.
func (r *RunState) UpgradeAllHands(amount uint32) {
	if amount == 0 {
		return
	}
	for _, kind := range hand.All {
		r.UpgradeHandLevel(kind, amount)
	}
}

func (r *RunState) markRulesDirty() {
	r.ruleDirty = true
}

func (r *RunState) allocCardID() uint32 {
	id := r.nextCardID
	r.nextCardID++
	return id
}

func (r *RunState) assignCardID(c *cards.Card) {
	if c.ID == 0 {
		c.ID = r.allocCardID()
	}
}

// String reports a Phase's display name, used by trace/report formatting.
func (p Phase) String() string {
	switch p {
	case PhaseSetup:
		return "Setup"
	case PhaseDeal:
		return "Deal"
	case PhasePlay:
		return "Play"
	case PhaseScore:
		return "Score"
	case PhaseCleanup:
		return "Cleanup"
	case PhaseShop:
		return "Shop"
	default:
		return fmt.Sprintf("Phase(%d)", uint8(p))
	}
}
