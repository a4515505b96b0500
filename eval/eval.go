// Package eval implements the pluggable position evaluator used by
// every search player: a pure function from (state, perspective) to a
// bounded scalar, with an optional (policy, value) neural variant.
package eval

import (
	"math/rand"

	"github.com/patchwork-engine/patchwork/action"
	"github.com/patchwork-engine/patchwork/catalog"
	"github.com/patchwork-engine/patchwork/game"
	"github.com/patchwork-engine/patchwork/timeboard"
)

// Evaluator is a capability interface: concrete evaluators are chosen
// at construction time and stored behind this interface, not behind a
// subclass hierarchy.
type Evaluator interface {
	// Evaluate returns a bounded score for state from perspective's
	// point of view: positive favors perspective, negative favors the
	// opponent.
	Evaluate(state *game.State, perspective game.Holder) float64
}

// BatchEvaluator is implemented by evaluators that can amortize a
// forward pass across many positions at once, notably the neural
// evaluator. Search code that has a batch of leaves ready should
// prefer this path.
type BatchEvaluator interface {
	Evaluator
	EvaluateBatch(states []*game.State, perspective []game.Holder) []float64
}

// PolicyEvaluator is implemented by evaluators that also produce a
// move-probability distribution, keyed by NaturalActionId, alongside
// the scalar value. Only the neural evaluator implements this.
type PolicyEvaluator interface {
	Evaluator
	EvaluatePolicy(state *game.State, perspective game.Holder) (policy [action.TotalPolicySize]float64, value float64)
}

// signFor returns +1 if winner is perspective, 0 if there is no winner,
// else -1. It is used by rollout-style evaluators to turn a finished
// game's winner into a value from perspective's point of view.
func signFor(winner, perspective game.Holder) float64 {
	switch {
	case winner == perspective:
		return 1
	case winner == game.None:
		return 0
	default:
		return -1
	}
}

// Static is a hand-tuned linear evaluator: button-balance difference,
// projected income to game end, board fill, and proximity to the 7x7
// bonus.
type Static struct {
	BalanceWeight float64
	IncomeWeight  float64
	FillWeight    float64
	BonusWeight   float64
	QueueWeight   float64
}

// NewStatic returns a Static evaluator with hand-tuned default
// weights: balance dominates, with income, fill and queue quality as
// smaller tie-breaking terms.
func NewStatic() *Static {
	return &Static{BalanceWeight: 1.0, IncomeWeight: 0.5, FillWeight: 0.3, BonusWeight: 0.4, QueueWeight: 0.05}
}

// playableCatalogPatches resolves the queue's currently offered slots
// to their catalog.Patch descriptions.
func playableCatalogPatches(q *game.Queue) []catalog.Patch {
	n := q.PlayableSlots()
	out := make([]catalog.Patch, 0, n)
	for i := 0; i < n; i++ {
		out = append(out, catalog.Get(q.Slot(i)))
	}
	return out
}

func (e *Static) Evaluate(state *game.State, perspective game.Holder) float64 {
	me := state.PlayerByHolder(perspective)
	them := state.PlayerByHolder(other(perspective))

	remaining := float64(timeboard.MaxPosition-me.Position) / 6 // rough income-marker crossings left
	score := e.BalanceWeight * float64(me.ButtonBalance-them.ButtonBalance)
	score += e.IncomeWeight * remaining * float64(me.Quilt.ButtonIncome-them.Quilt.ButtonIncome)
	score += e.FillWeight * float64(them.Quilt.EmptyCells()-me.Quilt.EmptyCells())

	switch state.Status.SpecialTile {
	case perspective:
		score += e.BonusWeight * 7
	case other(perspective):
		score -= e.BonusWeight * 7
	default:
		// nobody holds it yet; weight proximity by remaining empty cells,
		// fewer empty cells on a 7x7-eligible board is closer to the bonus
		score += e.BonusWeight * float64(7-min3(me.Quilt.EmptyCells(), them.Quilt.EmptyCells(), 7))
	}

	offeredIncome := catalog.TotalButtonIncome(playableCatalogPatches(state.Queue))
	if state.Status.CurrentPlayer == perspective {
		score += e.QueueWeight * float64(offeredIncome)
	} else {
		score -= e.QueueWeight * float64(offeredIncome)
	}
	return score
}

func min3(a, b, c int) int {
	if b < a {
		a = b
	}
	if c < a {
		a = c
	}
	return a
}

func other(h game.Holder) game.Holder {
	if h == game.Player1 {
		return game.Player2
	}
	return game.Player1
}

// WinRollout plays the game to completion with a uniform-random legal
// policy and returns +1/0/-1 depending on the winner.
type WinRollout struct {
	Rand *rand.Rand
}

// NewWinRollout builds a rollout evaluator seeded by seed, so that
// determinism-sensitive callers (tests, the `compare` CLI mode) get
// reproducible rollouts.
func NewWinRollout(seed int64) *WinRollout {
	return &WinRollout{Rand: rand.New(rand.NewSource(seed))}
}

func (e *WinRollout) Evaluate(state *game.State, perspective game.Holder) float64 {
	s := state.Clone()
	applied := 0
	for !s.IsTerminal() {
		legal := s.LegalActions()
		if len(legal) == 0 {
			break
		}
		pick := legal[e.Rand.Intn(len(legal))]
		if err := s.Apply(pick); err != nil {
			break
		}
		applied++
	}
	outcome := s.Outcome()
	if outcome.Draw {
		return 0
	}
	return signFor(outcome.Winner, perspective)
}

// ScoreRollout is the same rollout as WinRollout but returns the
// scaled final score differential instead of a ternary win signal.
type ScoreRollout struct {
	Rand  *rand.Rand
	Scale float64
}

// NewScoreRollout builds a score-differential rollout evaluator.
func NewScoreRollout(seed int64, scale float64) *ScoreRollout {
	return &ScoreRollout{Rand: rand.New(rand.NewSource(seed)), Scale: scale}
}

func (e *ScoreRollout) Evaluate(state *game.State, perspective game.Holder) float64 {
	s := state.Clone()
	for !s.IsTerminal() {
		legal := s.LegalActions()
		if len(legal) == 0 {
			break
		}
		pick := legal[e.Rand.Intn(len(legal))]
		if err := s.Apply(pick); err != nil {
			break
		}
	}
	outcome := s.Outcome()
	me, them := outcome.Player1Score, outcome.Player2Score
	if perspective == game.Player2 {
		me, them = them, me
	}
	return e.Scale * float64(me-them)
}
