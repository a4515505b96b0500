package alphazero

import (
	"testing"
	"time"

	"github.com/matryer/is"

	"github.com/patchwork-engine/patchwork/action"
	"github.com/patchwork-engine/patchwork/game"
)

// uniformPolicy is a stub PolicyEvaluator standing in for a loaded ONNX
// model: every action gets an equal prior and the value head always
// reports a draw, just enough to exercise the PUCT tree mechanics
// without a real network.
type uniformPolicy struct{}

func (uniformPolicy) Evaluate(state *game.State, perspective game.Holder) float64 {
	return 0
}

func (uniformPolicy) EvaluatePolicy(state *game.State, perspective game.Holder) ([action.TotalPolicySize]float64, float64) {
	var policy [action.TotalPolicySize]float64
	for i := range policy {
		policy[i] = 1.0 / float64(len(policy))
	}
	return policy, 0
}

func newTestPlayer() *Player {
	cfg := DefaultConfig()
	cfg.MaxIterations = 30
	return New(uniformPolicy{}, cfg, 1)
}

func TestChooseActionReturnsLegalActionAndRestoresState(t *testing.T) {
	is := is.New(t)
	p := newTestPlayer()
	s := game.New(1)
	beforeBalance := s.P1.ButtonBalance

	id := p.ChooseAction(s, time.Now().Add(2*time.Second))

	legal := s.LegalActions()
	found := false
	for _, l := range legal {
		if l == id {
			found = true
		}
	}
	is.True(found)
	is.Equal(s.P1.ButtonBalance, beforeBalance)
}

func TestChooseActionOnTerminalStateReturnsNull(t *testing.T) {
	is := is.New(t)
	p := newTestPlayer()
	s := game.New(1)
	s.P1.Position = 53
	s.P2.Position = 53
	is.Equal(p.ChooseAction(s, time.Time{}), action.Null())
}

func TestRootDirichletNoisePerturbsPriorsWithoutPanicking(t *testing.T) {
	is := is.New(t)
	cfg := DefaultConfig()
	cfg.MaxIterations = 10
	cfg.DirichletEps = 0.25
	cfg.DirichletAlpha = 0.3
	p := New(uniformPolicy{}, cfg, 1)
	s := game.New(1)

	id := p.ChooseAction(s, time.Now().Add(2*time.Second))
	legal := s.LegalActions()
	found := false
	for _, l := range legal {
		if l == id {
			found = true
		}
	}
	is.True(found)
}
