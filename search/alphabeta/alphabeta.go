// Package alphabeta implements fixed-depth minimax with alpha-beta
// pruning and a branching-factor cap on patch-placement moves.
package alphabeta

import (
	"math/rand"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/patchwork-engine/patchwork/action"
	"github.com/patchwork-engine/patchwork/eval"
	"github.com/patchwork-engine/patchwork/game"
	"github.com/patchwork-engine/patchwork/search"
	"github.com/patchwork-engine/patchwork/treepolicy"
)

// Infinity bounds the search value range; scores never legitimately
// approach it since evaluators are expected to return small numbers.
const Infinity = 1e9

// Player implements fixed-depth minimax with alpha-beta pruning.
type Player struct {
	Eval        eval.Evaluator
	Depth       int
	BranchCap   int // 0 disables the cap
	Rand        *rand.Rand
	perspective game.Holder
}

// New builds an alpha-beta player searching to depth plies, considering
// at most branchCap patch-placement children per node (0 = unlimited).
func New(ev eval.Evaluator, depth, branchCap int, seed int64) *Player {
	return &Player{Eval: ev, Depth: depth, BranchCap: branchCap, Rand: rand.New(rand.NewSource(seed))}
}

func (p *Player) ChooseAction(state *game.State, deadline time.Time) action.ID {
	p.perspective = state.Status.CurrentPlayer
	legal := state.LegalActions()
	if len(legal) == 0 {
		return action.Null()
	}
	ordered := p.order(state, legal, action.Null())

	best := ordered[0]
	bestValue := -Infinity
	alpha, beta := -Infinity, Infinity
	for _, id := range ordered {
		if search.Expired(deadline) {
			log.Info().Msg("alphabeta: deadline exceeded before completing root, falling back")
			return search.RandomFallback(state, p.Rand)
		}
		if err := state.Apply(id); err != nil {
			continue
		}
		v := -p.negamax(state, p.Depth-1, -beta, -alpha, deadline)
		state.Undo()
		if v > bestValue {
			bestValue = v
			best = id
		}
		if v > alpha {
			alpha = v
		}
	}
	return best
}

func (p *Player) order(state *game.State, legal []action.ID, hint action.ID) []action.ID {
	ordered := treepolicy.OrderMoves(legal, hint)
	if p.BranchCap > 0 {
		ordered = treepolicy.BranchingCap(ordered, p.BranchCap)
	}
	return ordered
}

// negamax evaluates state from the perspective of the player currently
// on turn, so the caller negates and swaps bounds at each level; this
// is the negamax formulation of the equivalent maximizing/minimizing
// alpha-beta recursion.
func (p *Player) negamax(state *game.State, depth int, alpha, beta float64, deadline time.Time) float64 {
	if depth == 0 || state.IsTerminal() || search.Expired(deadline) {
		return p.relativeValue(state)
	}

	legal := state.LegalActions()
	if len(legal) == 0 {
		return p.relativeValue(state)
	}
	if treepolicy.ForcedExtension(state, legal) {
		depth++
	}
	ordered := p.order(state, legal, action.Null())

	value := -Infinity
	for _, id := range ordered {
		if err := state.Apply(id); err != nil {
			continue
		}
		v := -p.negamax(state, depth-1, -beta, -alpha, deadline)
		state.Undo()
		if v > value {
			value = v
		}
		if v > alpha {
			alpha = v
		}
		if alpha >= beta {
			break // beta cut-off
		}
	}
	return value
}

// relativeValue returns eval.Evaluate from the point of view of
// whichever player is on turn in state, negated if that isn't
// p.perspective, so the negamax recursion's sign-flip convention holds
// regardless of how many plies deep we are.
func (p *Player) relativeValue(state *game.State) float64 {
	v := p.Eval.Evaluate(state, p.perspective)
	if state.Status.CurrentPlayer != p.perspective {
		return -v
	}
	return v
}
