// Package greedy implements the one-ply argmax search player: for
// every legal action, apply it, evaluate the resulting position, undo
// it, and keep the best.
package greedy

import (
	"math/rand"
	"time"

	"github.com/patchwork-engine/patchwork/action"
	"github.com/patchwork-engine/patchwork/eval"
	"github.com/patchwork-engine/patchwork/game"
	"github.com/patchwork-engine/patchwork/search"
)

// Player evaluates every legal action one ply deep and picks the best.
type Player struct {
	Eval eval.Evaluator
	Rand *rand.Rand
}

// New builds a greedy player using ev to score resulting positions.
func New(ev eval.Evaluator, seed int64) *Player {
	return &Player{Eval: ev, Rand: rand.New(rand.NewSource(seed))}
}

func (p *Player) ChooseAction(state *game.State, deadline time.Time) action.ID {
	perspective := state.Status.CurrentPlayer
	legal := state.LegalActions()
	if len(legal) == 0 {
		return action.Null()
	}

	best := legal[0]
	bestValue := -1e18
	for _, id := range legal {
		if search.Expired(deadline) {
			return search.RandomFallback(state, p.Rand)
		}
		if err := state.Apply(id); err != nil {
			continue
		}
		v := p.Eval.Evaluate(state, perspective)
		state.Undo()
		if v > bestValue {
			bestValue = v
			best = id
		}
	}
	return best
}
