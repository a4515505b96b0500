package boundary

import (
	"testing"

	"github.com/google/uuid"
	"github.com/matryer/is"

	"github.com/patchwork-engine/patchwork/action"
	"github.com/patchwork-engine/patchwork/game"
	"github.com/patchwork-engine/patchwork/notation"
)

func TestMarshalUnmarshalRoundTrip(t *testing.T) {
	is := is.New(t)

	s := game.New(0)
	walk := s.LegalActions()[0]
	is.NoErr(s.Apply(walk))

	hist, err := notation.Record(0, []action.ID{walk})
	is.NoErr(err)

	gameID := uuid.New()
	wire := MarshalState(s, hist, gameID)
	is.Equal(wire.TurnType, "Normal")
	is.Equal(wire.StatusFlags.CurrentPlayer, 2)
	is.Equal(len(wire.Patches), 33)
	is.Equal(len(wire.TimeBoard.Board), 54)

	replayed, gotID, err := UnmarshalState(wire)
	is.NoErr(err)
	is.Equal(gotID, gameID)
	is.Equal(replayed.P1.Position, s.P1.Position)
	is.Equal(replayed.Status.CurrentPlayer, s.Status.CurrentPlayer)
}

func TestUnmarshalRejectsTamperedChecksum(t *testing.T) {
	is := is.New(t)
	hist := notation.History{Seed: 0}
	wire := MarshalState(game.New(0), hist, uuid.New())
	wire.Notation = "#seed 1\n"
	_, _, err := UnmarshalState(wire)
	is.True(err != nil)
}

func TestUnmarshalRejectsBadTurnType(t *testing.T) {
	is := is.New(t)
	hist := notation.History{Seed: 0}
	wire := MarshalState(game.New(0), hist, uuid.New())
	wire.TurnType = "Bogus"
	_, _, err := UnmarshalState(wire)
	is.True(err != nil)
}
