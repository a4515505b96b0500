package alphabeta

import (
	"testing"
	"time"

	"github.com/matryer/is"

	"github.com/patchwork-engine/patchwork/action"
	"github.com/patchwork-engine/patchwork/eval"
	"github.com/patchwork-engine/patchwork/game"
)

func TestChooseActionReturnsLegalActionAndRestoresState(t *testing.T) {
	is := is.New(t)
	p := New(eval.NewStatic(), 2, 0, 1)
	s := game.New(1)
	beforeBalance := s.P1.ButtonBalance

	id := p.ChooseAction(s, time.Time{})

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

func TestChooseActionOnExpiredDeadlineFallsBack(t *testing.T) {
	is := is.New(t)
	p := New(eval.NewStatic(), 4, 0, 1)
	s := game.New(1)
	id := p.ChooseAction(s, time.Now().Add(-time.Hour))

	legal := s.LegalActions()
	found := false
	for _, l := range legal {
		if l == id {
			found = true
		}
	}
	is.True(found)
}

func TestChooseActionOnTerminalStateReturnsNull(t *testing.T) {
	is := is.New(t)
	p := New(eval.NewStatic(), 2, 0, 1)
	s := game.New(1)
	s.P1.Position = 53
	s.P2.Position = 53
	is.Equal(p.ChooseAction(s, time.Time{}), action.Null())
}

func TestBranchCapLimitsRootFanout(t *testing.T) {
	is := is.New(t)
	p := New(eval.NewStatic(), 1, 1, 1)
	s := game.New(1)
	// depth 1 with a branch cap of 1 should still return a legal action.
	id := p.ChooseAction(s, time.Time{})
	legal := s.LegalActions()
	found := false
	for _, l := range legal {
		if l == id {
			found = true
		}
	}
	is.True(found)
}
