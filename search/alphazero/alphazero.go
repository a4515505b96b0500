// Package alphazero implements AlphaZero-style search: the same
// arena-tree skeleton as plain MCTS, but with a PUCT tree policy fed
// by a neural policy head and leaf values from the network's value
// head instead of a rollout.
package alphazero

import (
	"math"
	"math/rand"
	"time"

	"github.com/patchwork-engine/patchwork/action"
	"github.com/patchwork-engine/patchwork/eval"
	"github.com/patchwork-engine/patchwork/game"
	"github.com/patchwork-engine/patchwork/search"
	"github.com/patchwork-engine/patchwork/treepolicy"
)

type node struct {
	parent   int
	action   action.ID
	mover    game.Holder
	children []int
	priors   []float64 // aligned with children
	untried  []action.ID
	unpriors []float64 // priors for untried, aligned by index
	stats    treepolicy.Stats
	terminal bool
}

type arena struct {
	nodes []node
}

func (a *arena) alloc(n node) int {
	a.nodes = append(a.nodes, n)
	return len(a.nodes) - 1
}

// Config tunes one AlphaZero-style search.
type Config struct {
	ExplorationC  float64
	MaxIterations int
	DirichletEps  float64 // 0 disables root exploration noise
	DirichletAlpha float64
}

// DefaultConfig follows the AlphaZero paper's commonly-cited PUCT
// constant.
func DefaultConfig() Config {
	return Config{ExplorationC: 2.5}
}

// Player implements AlphaZero-style PUCT search over a neural policy
// evaluator.
type Player struct {
	Eval eval.PolicyEvaluator
	Cfg  Config
	Rand *rand.Rand
}

// New builds an AlphaZero-style player. ev must also implement
// eval.PolicyEvaluator (only eval.Neural does); a value-only evaluator
// cannot supply the priors PUCT needs.
func New(ev eval.PolicyEvaluator, cfg Config, seed int64) *Player {
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

	a := &arena{}
	root := a.alloc(p.newNode(-1, action.Null(), state))
	p.applyRootNoise(a, root)

	iterations := 0
	for !search.Expired(deadline) {
		if p.Cfg.MaxIterations > 0 && iterations >= p.Cfg.MaxIterations {
			break
		}
		p.simulate(a, root, state.Clone())
		iterations++
	}

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

// newNode builds a fresh node for state, capturing the network's
// priors for each legal action via its NaturalActionId mapping.
func (p *Player) newNode(parent int, act action.ID, state *game.State) node {
	legal := state.LegalActions()
	policy, _ := p.Eval.EvaluatePolicy(state, state.Status.CurrentPlayer)
	priors := make([]float64, len(legal))
	for i, id := range legal {
		if a, err := action.Decode(id); err == nil {
			if nid, err := action.EncodeNatural(a); err == nil {
				priors[i] = policy[action.PolicyIndex(nid)]
			}
		}
	}
	return node{
		parent:   parent,
		action:   act,
		mover:    state.Status.CurrentPlayer,
		untried:  append([]action.ID(nil), legal...),
		unpriors: priors,
	}
}

// applyRootNoise mixes Dirichlet-like exploration noise into the
// root's priors at DirichletEps strength, per §4.7's "optional
// Dirichlet noise at training time" note. Modeled here with a simple
// symmetric-Dirichlet-flavored perturbation (one Exp(1) sample per
// prior from p.Rand, normalized to sum to 1; DirichletAlpha is not
// used) rather than pulling in a stats library solely for this
// training-time knob.
func (p *Player) applyRootNoise(a *arena, root int) {
	if p.Cfg.DirichletEps <= 0 {
		return
	}
	n := &a.nodes[root]
	noise := make([]float64, len(n.unpriors))
	sum := 0.0
	for i := range noise {
		x := p.Rand.Float64()
		if x <= 0 {
			x = 1e-12
		}
		noise[i] = -math.Log(x) // Exp(1) sample
		sum += noise[i]
	}
	if sum == 0 {
		return
	}
	for i := range n.unpriors {
		n.unpriors[i] = (1-p.Cfg.DirichletEps)*n.unpriors[i] + p.Cfg.DirichletEps*(noise[i]/sum)
	}
}

func (p *Player) simulate(a *arena, idx int, state *game.State) {
	path := []int{idx}

	for {
		n := &a.nodes[idx]
		if state.IsTerminal() {
			n.terminal = true
			break
		}
		if len(n.untried) > 0 {
			i := p.Rand.Intn(len(n.untried))
			act := n.untried[i]
			prior := n.unpriors[i]
			n.untried[i] = n.untried[len(n.untried)-1]
			n.unpriors[i] = n.unpriors[len(n.unpriors)-1]
			n.untried = n.untried[:len(n.untried)-1]
			n.unpriors = n.unpriors[:len(n.unpriors)-1]

			if err := state.Apply(act); err != nil {
				continue
			}
			child := p.newNode(idx, act, state)
			childIdx := a.alloc(child)
			a.nodes[idx].children = append(a.nodes[idx].children, childIdx)
			a.nodes[idx].priors = append(a.nodes[idx].priors, prior)
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
		policy := treepolicy.PUCT{C: p.Cfg.ExplorationC}
		sel := policy.SelectChild(n.stats.Visits, stats, n.priors)
		childIdx := n.children[sel]
		if err := state.Apply(a.nodes[childIdx].action); err != nil {
			n.terminal = true
			break
		}
		path = append(path, childIdx)
		idx = childIdx
	}

	leafMover := a.nodes[idx].mover
	var value float64
	if a.nodes[idx].terminal {
		outcome := state.Outcome()
		value = signForOutcome(outcome, leafMover)
	} else {
		_, v := p.Eval.EvaluatePolicy(state, leafMover)
		value = v
	}

	for i := len(path) - 1; i > 0; i-- {
		state.Undo()
	}

	for _, nodeIdx := range path {
		n := &a.nodes[nodeIdx]
		v := value
		if n.mover != leafMover {
			v = -v
		}
		n.stats.Update(v)
	}
}

func signForOutcome(outcome game.Result, perspective game.Holder) float64 {
	if outcome.Draw {
		return 0
	}
	if outcome.Winner == perspective {
		return 1
	}
	return -1
}
