package mcts

import (
	"math"
	"sort"
	"time"

	"github.com/signalnine/balatromcts/gosim/internal/autoplay"
	"github.com/signalnine/balatromcts/gosim/internal/rng"
)

// Factory builds a fresh, independently-owned Simulator reproducing a
// run's initial state. Materialize calls it once per replay rather than
// cloning a simulator in place: replays must share no mutable state, and
// the simulator is not assumed clonable.
type Factory func() (*autoplay.Simulator, error)

// StepSearchStats reports one step's search effort and outcome: how many
// simulations ran, how long it took, and the chosen child's standing at
// the root. Folded into the trace's StepRecord.
type StepSearchStats struct {
	Simulations    uint32
	ElapsedMs      uint64
	RootChildren   int
	SelectedVisits uint32
	SelectedValue  float64
}

// SelectAction runs one full MCTS search from the state reached by
// replaying history against factory, and returns the chosen action at
// the root alongside search statistics. step is the orchestrator's
// current step counter, used both to seed the per-step RNG and to bound
// replay depth against cfg.MaxSteps.
func SelectAction(
	factory Factory,
	history []autoplay.AutoAction,
	step uint32,
	cfg autoplay.AutoplayConfig,
	targets autoplay.TargetConfig,
	weights autoplay.ObjectiveWeights,
) (autoplay.AutoAction, StepSearchStats, error) {
	started := time.Now()

	_, rootTerminal, rootLegal, err := materialize(factory, history, nil, cfg, targets, step)
	if err != nil {
		return autoplay.AutoAction{}, StepSearchStats{}, err
	}
	if len(rootLegal) == 0 {
		return autoplay.AutoAction{}, StepSearchStats{}, autoplay.InvalidActionError("no legal action at root")
	}

	nodes := []node{newRootNode(rootLegal, rootTerminal)}
	stream := rng.New(cfg.Seed ^ uint64(step)*0x9E3779B9)
	var simulations uint32

	for simulations < cfg.PerStepMaxSimulations {
		if cfg.PerStepTimeMs > 0 && simulations >= cfg.MinSimulationsPerStep &&
			uint64(time.Since(started).Milliseconds()) >= cfg.PerStepTimeMs {
			break
		}

		leafSim, leafIdx, err := selectAndExpand(factory, history, step, cfg, targets, &nodes, stream)
		if err != nil {
			return autoplay.AutoAction{}, StepSearchStats{}, err
		}

		reward, err := rollout(leafSim, step+nodes[leafIdx].depth, cfg, targets, weights, stream)
		if err != nil {
			return autoplay.AutoAction{}, StepSearchStats{}, err
		}

		backpropagate(nodes, leafIdx, reward)
		simulations++
	}

	selected, stats := chooseRoot(nodes)
	stats.Simulations = simulations
	stats.ElapsedMs = uint64(time.Since(started).Milliseconds())
	return selected, stats, nil
}

// selectAndExpand descends from the root via UCT, expanding the first
// unexpanded node it reaches, and returns the leaf's freshly materialized
// simulator and node index.
func selectAndExpand(
	factory Factory,
	history []autoplay.AutoAction,
	step uint32,
	cfg autoplay.AutoplayConfig,
	targets autoplay.TargetConfig,
	nodes *[]node,
	stream *rng.Stream,
) (*autoplay.Simulator, int, error) {
	var path []autoplay.AutoAction
	nodeIdx := 0

	for {
		n := (*nodes)[nodeIdx]
		if n.terminal {
			sim, _, _, err := materialize(factory, history, path, cfg, targets, step)
			return sim, nodeIdx, err
		}

		if len(n.unexpanded) > 0 {
			pick := stream.GenIndex(len(n.unexpanded))
			action := n.unexpanded[pick]
			(*nodes)[nodeIdx].unexpanded = removeAt(n.unexpanded, pick)
			path = append(path, action)

			sim, terminal, legal, err := materialize(factory, history, path, cfg, targets, step)
			if err != nil {
				return nil, 0, err
			}
			childIdx := len(*nodes)
			*nodes = append(*nodes, newChildNode(nodeIdx, action, legal, terminal, (*nodes)[nodeIdx].depth+1))
			(*nodes)[nodeIdx].children = append((*nodes)[nodeIdx].children, childIdx)
			return sim, childIdx, nil
		}

		if len(n.children) == 0 {
			sim, terminal, legal, err := materialize(factory, history, path, cfg, targets, step)
			if err != nil {
				return nil, 0, err
			}
			(*nodes)[nodeIdx].terminal = terminal
			if len((*nodes)[nodeIdx].unexpanded) == 0 {
				(*nodes)[nodeIdx].unexpanded = legal
			}
			return sim, nodeIdx, nil
		}

		best := selectChild(*nodes, nodeIdx, cfg.ExplorationC)
		nodeIdx = best
		if (*nodes)[nodeIdx].actionSet {
			path = append(path, (*nodes)[nodeIdx].action)
		}
	}
}

// selectChild picks the child of nodes[parentIdx] maximising the UCT
// score, breaking ties by the smaller stable key.
func selectChild(nodes []node, parentIdx int, explorationC float64) int {
	parentVisits := math.Max(float64(nodes[parentIdx].visits), 1)
	children := nodes[parentIdx].children
	best := children[0]
	bestScore := math.Inf(-1)
	bestKey := ""
	for _, childIdx := range children {
		child := nodes[childIdx]
		mean := child.mean()
		explore := explorationC * math.Sqrt(math.Log(parentVisits)/math.Max(float64(child.visits), 1))
		score := mean + explore
		key := child.stableKey()
		if score > bestScore || (score == bestScore && key < bestKey) {
			bestScore = score
			bestKey = key
			best = childIdx
		}
	}
	return best
}

func backpropagate(nodes []node, leafIdx int, reward float64) {
	idx := leafIdx
	for {
		nodes[idx].visits++
		nodes[idx].valueSum += reward
		if !nodes[idx].parentSet {
			return
		}
		idx = nodes[idx].parent
	}
}

// chooseRoot picks the root's child with the most visits, breaking ties
// by higher mean value then smaller stable key. If no child was ever
// expanded, it falls back to the lexicographically smallest unexpanded
// action, and failing that, Deal.
func chooseRoot(nodes []node) (autoplay.AutoAction, StepSearchStats) {
	root := nodes[0]
	var selected autoplay.AutoAction
	var hasSelected bool
	var bestVisits uint32
	bestValue := math.Inf(-1)
	bestKey := ""

	for _, childIdx := range root.children {
		child := nodes[childIdx]
		value := math.Inf(-1)
		if child.visits > 0 {
			value = child.mean()
		}
		key := child.stableKey()
		if child.visits > bestVisits ||
			(child.visits == bestVisits && value > bestValue) ||
			(child.visits == bestVisits && value == bestValue && key < bestKey) {
			bestVisits = child.visits
			bestValue = value
			bestKey = key
			selected = child.action
			hasSelected = true
		}
	}

	if !hasSelected && len(root.children) > 0 {
		best := root.children[0]
		for _, childIdx := range root.children[1:] {
			if nodes[childIdx].stableKey() < nodes[best].stableKey() {
				best = childIdx
			}
		}
		selected = nodes[best].action
		hasSelected = true
	}
	if !hasSelected {
		fallback := append([]autoplay.AutoAction(nil), root.unexpanded...)
		sort.Slice(fallback, func(i, j int) bool { return fallback[i].StableKey() < fallback[j].StableKey() })
		if len(fallback) > 0 {
			selected = fallback[0]
		} else {
			selected = autoplay.AutoAction{Kind: autoplay.ActDeal}
		}
	}

	selectedValue := bestValue
	if math.IsInf(selectedValue, -1) {
		selectedValue = 0
	}
	return selected, StepSearchStats{
		RootChildren:   len(root.children),
		SelectedVisits: bestVisits,
		SelectedValue:  selectedValue,
	}
}

func removeAt(actions []autoplay.AutoAction, idx int) []autoplay.AutoAction {
	out := make([]autoplay.AutoAction, 0, len(actions)-1)
	out = append(out, actions[:idx]...)
	return append(out, actions[idx+1:]...)
}

// materialize rebuilds a simulator from scratch by constructing it via
// factory and replaying history then path against it — never by cloning
// an existing simulator — then reports whether the resulting state is
// terminal (target reached, a failed blind the caller stops on, or the
// step budget exhausted) and, if not, its legal actions.
func materialize(
	factory Factory,
	history []autoplay.AutoAction,
	path []autoplay.AutoAction,
	cfg autoplay.AutoplayConfig,
	targets autoplay.TargetConfig,
	step uint32,
) (*autoplay.Simulator, bool, []autoplay.AutoAction, error) {
	sim, err := factory()
	if err != nil {
		return nil, false, nil, autoplay.FactoryError(err)
	}
	for _, action := range history {
		if _, err := sim.ApplyAction(action); err != nil {
			return nil, false, nil, err
		}
	}
	for _, action := range path {
		if _, err := sim.ApplyAction(action); err != nil {
			return nil, false, nil, err
		}
	}

	metrics := sim.Metrics()
	done := autoplay.TargetReached(metrics, targets) ||
		(targets.StopOnBlindFailed && metrics.BlindFailed) ||
		uint64(step)+uint64(len(path)) >= uint64(cfg.MaxSteps)
	if done {
		return sim, true, nil, nil
	}

	legal := sim.LegalActions(&cfg)
	return sim, len(legal) == 0, legal, nil
}

// rollout runs a depth-bounded, priority-ordered playout from sim's
// current state and returns the weighted objective score at its end.
func rollout(
	sim *autoplay.Simulator,
	step uint32,
	cfg autoplay.AutoplayConfig,
	targets autoplay.TargetConfig,
	weights autoplay.ObjectiveWeights,
	stream *rng.Stream,
) (float64, error) {
	var depth uint32
	for {
		metrics := sim.Metrics()
		if autoplay.TargetReached(metrics, targets) ||
			(targets.StopOnBlindFailed && metrics.BlindFailed) ||
			step+depth >= cfg.MaxSteps {
			return autoplay.WeightedScore(metrics, weights, step+depth), nil
		}

		legal := sim.LegalActions(&cfg)
		if len(legal) == 0 {
			return autoplay.WeightedScore(metrics, weights, step+depth), nil
		}

		tactical := metrics.BlindTarget > 0 && metrics.BlindScore < metrics.BlindTarget &&
			metrics.BlindTarget-metrics.BlindScore <= cfg.TacticalFinishMargin
		action := selectRolloutAction(legal, cfg.RolloutTopK, tactical, stream)
		if _, err := sim.ApplyAction(action); err != nil {
			return 0, err
		}
		depth++
		if depth >= cfg.RolloutDepth {
			return autoplay.WeightedScore(sim.Metrics(), weights, step+depth), nil
		}
	}
}

// selectRolloutAction sorts legal by rolloutPriority (ties broken by
// stable key) and uniformly picks among the top min(topK, len)
// candidates — cheap heuristic guidance rather than uniform-random play.
// When the blind is within tactical-finish range, Play actions jump to
// the front so the rollout tries to close the blind out rather than
// spend moves on shop or discard bookkeeping.
func selectRolloutAction(legal []autoplay.AutoAction, topK int, tactical bool, stream *rng.Stream) autoplay.AutoAction {
	priority := func(a autoplay.AutoAction) int {
		p := rolloutPriority(a)
		if tactical && a.Kind == autoplay.ActPlay {
			p += 200
		}
		return p
	}
	ordered := append([]autoplay.AutoAction(nil), legal...)
	sort.Slice(ordered, func(i, j int) bool {
		pi, pj := priority(ordered[i]), priority(ordered[j])
		if pi != pj {
			return pi > pj
		}
		return ordered[i].StableKey() < ordered[j].StableKey()
	})
	limit := len(ordered)
	if topK < 1 {
		topK = 1
	}
	if limit > topK {
		limit = topK
	}
	return ordered[stream.GenIndex(limit)]
}

// rolloutPriority orders a rollout's action choices: advancing the run
// (NextBlind, EnterShop) and capitalising on the shop outrank playing it
// safe, which in turn outranks bookkeeping moves like leaving the shop
// or skipping a blind outright.
func rolloutPriority(a autoplay.AutoAction) int {
	switch a.Kind {
	case autoplay.ActNextBlind:
		return 120
	case autoplay.ActEnterShop:
		return 110
	case autoplay.ActBuyPack:
		return 100
	case autoplay.ActBuyCard:
		return 90
	case autoplay.ActBuyVoucher:
		return 85
	case autoplay.ActPlay:
		return 80
	case autoplay.ActUseConsumable:
		return 75
	case autoplay.ActDeal:
		return 70
	case autoplay.ActRerollShop:
		return 60
	case autoplay.ActDiscard:
		return 50
	case autoplay.ActPickPack:
		return 40
	case autoplay.ActSkipPack:
		return 30
	case autoplay.ActSellJoker:
		return 20
	case autoplay.ActLeaveShop:
		return 10
	case autoplay.ActSkipBlind:
		return 5
	default:
		return 0
	}
}
