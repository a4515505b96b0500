// Package search declares the common contract every Patchwork search
// player implements, and small shared helpers (deadline checking,
// random fallback) used across the concrete player packages.
package search

import (
	"math/rand"
	"time"

	"github.com/patchwork-engine/patchwork/action"
	"github.com/patchwork-engine/patchwork/game"
)

// Player chooses an action for the state's current player, honoring
// deadline on a best-effort basis: if deadline fires before any
// iteration completes, implementations fall back to a random legal
// action rather than returning an error, per the deadline-exceeded
// error-handling contract.
type Player interface {
	ChooseAction(state *game.State, deadline time.Time) action.ID
}

// RandomFallback picks a uniformly random legal action, used by every
// player as the last resort when the deadline fires before any real
// search iteration finishes. Returns action.Null() if state has no
// legal actions (a terminal state).
func RandomFallback(state *game.State, rng *rand.Rand) action.ID {
	legal := state.LegalActions()
	if len(legal) == 0 {
		return action.Null()
	}
	return legal[rng.Intn(len(legal))]
}

// Expired reports whether the monotonic deadline has passed.
func Expired(deadline time.Time) bool {
	return !deadline.IsZero() && time.Now().After(deadline)
}
