// Package mcts implements the autoplayer's Monte-Carlo tree search: UCT
// selection over a replay-reconstructed simulator, expansion, a
// priority-ordered rollout, and visit-count backpropagation. Nodes are
// stored in a slice addressed by index (never by pointer) and no node
// ever mutates its parent; the tree is rebuilt by replaying the
// committed action history plus a tentative path through a fresh
// simulator rather than by cloning one in place.
package mcts

import "github.com/signalnine/balatromcts/gosim/internal/autoplay"

// node is one entry in a search tree, addressed by its index in the
// owning slice. parentSet/actionSet distinguish "zero value" from
// "absent" for the root, which has neither.
type node struct {
	parent     int
	parentSet  bool
	action     autoplay.AutoAction
	actionSet  bool
	visits     uint32
	valueSum   float64
	children   []int
	unexpanded []autoplay.AutoAction
	terminal   bool
	depth      uint32
}

func newRootNode(unexpanded []autoplay.AutoAction, terminal bool) node {
	return node{unexpanded: unexpanded, terminal: terminal}
}

func newChildNode(parent int, action autoplay.AutoAction, unexpanded []autoplay.AutoAction, terminal bool, depth uint32) node {
	return node{
		parent:     parent,
		parentSet:  true,
		action:     action,
		actionSet:  true,
		unexpanded: unexpanded,
		terminal:   terminal,
		depth:      depth,
	}
}

// mean is the node's backpropagated average reward, or 0 for an
// unvisited node (never selected via UCT without first checking visits).
func (n *node) mean() float64 {
	if n.visits == 0 {
		return 0
	}
	return n.valueSum / float64(n.visits)
}

// stableKey reports the incoming action's stable key, or "" at the root.
func (n *node) stableKey() string {
	if !n.actionSet {
		return ""
	}
	return n.action.StableKey()
}
