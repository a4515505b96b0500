// Package mcts implements plain Monte Carlo Tree Search with a UCT
// tree policy and a pluggable rollout evaluator, following the
// four-phase select/expand/simulate/backpropagate structure used
// throughout the example pack's tree-search agents.
package mcts

import (
	"math/rand"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/patchwork-engine/patchwork/action"
	"github.com/patchwork-engine/patchwork/eval"
	"github.com/patchwork-engine/patchwork/game"
	"github.com/patchwork-engine/patchwork/search"
	"github.com/patchwork-engine/patchwork/treepolicy"
)

// node is one arena-allocated tree node. Children are held by index
// into the arena's slice, and Parent is likewise an index, per the
// design note on modeling cyclic tree references without owning
// pointers.
type node struct {
	parent   int // -1 for the root
	action   action.ID
	mover    game.Holder // the player who is on turn in this node's state
	children []int
	untried  []action.ID
	stats    treepolicy.Stats
	terminal bool
}

// arena is a per-search node pool, dropped when ChooseAction returns.
// No subtree is carried into the next search.
type arena struct {
	nodes []node
}

func (a *arena) alloc(n node) int {
	a.nodes = append(a.nodes, n)
	return len(a.nodes) - 1
}

// Config tunes one MCTS search.
type Config struct {
	ExplorationC   float64
	MaxIterations  int // 0 = unbounded, deadline-only
	Threads        int // root parallelization degree; 1 disables it
	ReuseTree      bool // not read: every ChooseAction builds a fresh tree
}

// DefaultConfig returns UCT's textbook exploration constant and a
// single-threaded search.
func DefaultConfig() Config {
	return Config{ExplorationC: 1.41421356, Threads: 1}
}

// Player implements plain MCTS.
type Player struct {
	Eval eval.Evaluator
	Cfg  Config
	Rand *rand.Rand

	root    *arena
	rootIdx int
}

// New builds an MCTS player using ev for leaf simulation.
func New(ev eval.Evaluator, cfg Config, seed int64) *Player {
	return &Player{Eval: ev, Cfg: cfg, Rand: rand.New(rand.NewSource(seed))}
}

func (p *Player) ChooseAction(state *game.State, deadline time.Time) action.ID {
	legal := state.LegalActions()
	if len(legal) == 0 {
		return action.Null()
	}
	if len(legal) == 1 {
		return legal[0]
	}

	if p.Cfg.Threads <= 1 {
		a, root := p.buildTree(state, deadline)
		return p.readRoot(a, root, state)
	}
	return p.rootParallel(state, deadline)
}

func (p *Player) buildTree(state *game.State, deadline time.Time) (*arena, int) {
	a := &arena{}
	root := a.alloc(node{parent: -1, mover: state.Status.CurrentPlayer, untried: append([]action.ID(nil), state.LegalActions()...)})

	iterations := 0
	for !search.Expired(deadline) {
		if p.Cfg.MaxIterations > 0 && iterations >= p.Cfg.MaxIterations {
			break
		}
		p.simulate(a, root, state.Clone())
		iterations++
	}
	return a, root
}

func (p *Player) readRoot(a *arena, root int, state *game.State) action.ID {
	n := &a.nodes[root]
	if len(n.children) == 0 {
		return search.RandomFallback(state, p.Rand)
	}
	stats := make([]treepolicy.Stats, len(n.children))
	for i, c := range n.children {
		stats[i] = a.nodes[c].stats
	}
	best := treepolicy.MostVisited(stats)
	return a.nodes[n.children[best]].action
}

// rootParallel runs Cfg.Threads independent trees and merges them by
// summing visit counts at the root, per §4.7's optional root
// parallelization feature.
func (p *Player) rootParallel(state *game.State, deadline time.Time) action.ID {
	type result struct {
		a    *arena
		root int
	}
	results := make([]result, p.Cfg.Threads)
	var g errgroup.Group
	for w := 0; w < p.Cfg.Threads; w++ {
		w := w
		g.Go(func() error {
			worker := &Player{Eval: p.Eval, Cfg: p.Cfg, Rand: rand.New(rand.NewSource(int64(w) + 1))}
			a, root := worker.buildTree(state.Clone(), deadline)
			results[w] = result{a: a, root: root}
			return nil
		})
	}
	_ = g.Wait()

	merged := map[action.ID]int{}
	for _, r := range results {
		n := &r.a.nodes[r.root]
		for _, c := range n.children {
			child := r.a.nodes[c]
			merged[child.action] += child.stats.Visits
		}
	}
	best := action.Null()
	bestVisits := -1
	for id, visits := range merged {
		if visits > bestVisits {
			bestVisits = visits
			best = id
		}
	}
	if best == action.Null() {
		return search.RandomFallback(state, p.Rand)
	}
	return best
}

// simulate runs one selection/expansion/rollout/backpropagation pass
// starting at idx within a, mutating state in place and restoring it
// (via Apply/Undo) before returning.
func (p *Player) simulate(a *arena, idx int, state *game.State) {
	path := []int{idx}

	for {
		n := &a.nodes[idx]
		if state.IsTerminal() {
			n.terminal = true
			break
		}
		if len(n.untried) > 0 {
			// expansion: pop one untried action, uniformly chosen
			i := p.Rand.Intn(len(n.untried))
			act := n.untried[i]
			n.untried[i] = n.untried[len(n.untried)-1]
			n.untried = n.untried[:len(n.untried)-1]

			if err := state.Apply(act); err != nil {
				continue
			}
			childIdx := a.alloc(node{
				parent:  idx,
				action:  act,
				mover:   state.Status.CurrentPlayer,
				untried: append([]action.ID(nil), state.LegalActions()...),
			})
			a.nodes[idx].children = append(a.nodes[idx].children, childIdx)
			path = append(path, childIdx)
			idx = childIdx
			break
		}
		if len(n.children) == 0 {
			n.terminal = true
			break
		}
		stats := make([]treepolicy.Stats, len(n.children))
		for i, c := range n.children {
			stats[i] = a.nodes[c].stats
		}
		policy := treepolicy.UCT{C: p.Cfg.ExplorationC}
		sel := policy.SelectChild(n.stats.Visits, stats)
		childIdx := n.children[sel]
		if err := state.Apply(a.nodes[childIdx].action); err != nil {
			n.terminal = true
			break
		}
		path = append(path, childIdx)
		idx = childIdx
	}

	leafMover := a.nodes[idx].mover
	value := p.Eval.Evaluate(state, leafMover)

	// unwind the applied actions to restore the caller's state
	for i := len(path) - 1; i > 0; i-- {
		state.Undo()
	}

	// backpropagation: flip sign whenever a node's mover differs from
	// the leaf's mover, per §4.7.
	for _, nodeIdx := range path {
		n := &a.nodes[nodeIdx]
		v := value
		if n.mover != leafMover {
			v = -v
		}
		n.stats.Update(v)
	}
}
