// Package random implements the uniform-random search player: the
// simplest baseline opponent, and the fallback every other player
// reaches for when its deadline fires before any real work completes.
package random

import (
	"math/rand"
	"time"

	"github.com/patchwork-engine/patchwork/action"
	"github.com/patchwork-engine/patchwork/game"
	"github.com/patchwork-engine/patchwork/search"
)

// Player picks a uniformly random legal action.
type Player struct {
	Rand *rand.Rand
}

// New builds a random player seeded by seed for determinism.
func New(seed int64) *Player {
	return &Player{Rand: rand.New(rand.NewSource(seed))}
}

func (p *Player) ChooseAction(state *game.State, _ time.Time) action.ID {
	return search.RandomFallback(state, p.Rand)
}
