package mcts

import (
	"testing"
	"time"

	"github.com/matryer/is"

	"github.com/patchwork-engine/patchwork/action"
	"github.com/patchwork-engine/patchwork/eval"
	"github.com/patchwork-engine/patchwork/game"
	"github.com/patchwork-engine/patchwork/quilt"
)

func newTestPlayer(threads int) *Player {
	cfg := DefaultConfig()
	cfg.Threads = threads
	cfg.MaxIterations = 40
	return New(eval.NewStatic(), cfg, 1)
}

func TestChooseActionReturnsLegalActionAndRestoresState(t *testing.T) {
	is := is.New(t)
	p := newTestPlayer(1)
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
	p := newTestPlayer(1)
	s := game.New(1)
	s.P1.Position = 53
	s.P2.Position = 53
	is.Equal(p.ChooseAction(s, time.Time{}), action.Null())
}

func TestChooseActionSingleLegalMoveShortCircuits(t *testing.T) {
	is := is.New(t)
	p := newTestPlayer(1)
	s := game.New(1)
	s.TurnType = game.SpecialPatchPlacement
	for i := 0; i < 80; i++ {
		s.P1.Quilt.Place(quilt.CellMask(i/quilt.Dim, i%quilt.Dim), 0)
	}
	legal := s.LegalActions()
	is.Equal(len(legal), 1) // exactly one free cell to drop the special patch on
	is.Equal(p.ChooseAction(s, time.Time{}), legal[0])
}

func TestRootParallelReturnsLegalAction(t *testing.T) {
	is := is.New(t)
	p := newTestPlayer(3)
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
