package game

import (
	"testing"

	"github.com/matryer/is"

	"github.com/patchwork-engine/patchwork/action"
)

func TestLegalActionsIncludesWalkingFromFreshState(t *testing.T) {
	is := is.New(t)
	s := New(1)
	legal := s.LegalActions()
	is.True(len(legal) > 0)

	found := false
	for _, id := range legal {
		a, err := action.Decode(id)
		is.NoErr(err)
		if a.Kind == action.KindWalking && a.StartingIndex == 0 {
			found = true
		}
	}
	is.True(found)
}

func TestApplyWalkingPaysButtonsAndSwitchesPlayer(t *testing.T) {
	is := is.New(t)
	s := New(1)
	id, err := action.Encode(action.Action{Kind: action.KindWalking, StartingIndex: 0})
	is.NoErr(err)

	before := s.P1.ButtonBalance
	is.NoErr(s.Apply(id))
	is.Equal(s.P1.Position, 1)
	is.Equal(s.P1.ButtonBalance, before+1)
	is.Equal(s.Status.CurrentPlayer, Player2)
}

func TestApplyRejectsIllegalWalking(t *testing.T) {
	is := is.New(t)
	s := New(1)
	id, err := action.Encode(action.Action{Kind: action.KindWalking, StartingIndex: 5})
	is.NoErr(err)
	is.Equal(s.Apply(id), ErrIllegalAction)
}

func TestUndoAfterWalkingRestoresButtonsAndPosition(t *testing.T) {
	is := is.New(t)
	s := New(1)
	id, err := action.Encode(action.Action{Kind: action.KindWalking, StartingIndex: 0})
	is.NoErr(err)

	beforeBalance := s.P1.ButtonBalance
	beforeStatus := s.Status
	is.NoErr(s.Apply(id))
	is.NoErr(s.Undo())

	is.Equal(s.P1.Position, 0)
	is.Equal(s.P1.ButtonBalance, beforeBalance)
	is.Equal(s.Status, beforeStatus)
}

func TestUndoWithNoHistoryErrors(t *testing.T) {
	is := is.New(t)
	s := New(1)
	is.Equal(s.Undo(), ErrNoUndoHistory)
}

func TestApplyPatchPlacementThenUndoRestoresQuiltAndButtons(t *testing.T) {
	is := is.New(t)
	s := New(1)

	var placementID action.ID
	found := false
	for _, id := range s.LegalActions() {
		a, err := action.Decode(id)
		is.NoErr(err)
		if a.Kind == action.KindPatchPlacement {
			placementID = id
			found = true
			break
		}
	}
	is.True(found)

	beforeBalance := s.P1.ButtonBalance
	beforeEmpty := s.P1.Quilt.EmptyCells()
	beforeQueue := append([]int(nil), s.Queue.Patches...)

	is.NoErr(s.Apply(placementID))
	is.True(s.P1.Quilt.EmptyCells() < beforeEmpty)

	is.NoErr(s.Undo())
	is.Equal(s.P1.ButtonBalance, beforeBalance)
	is.Equal(s.P1.Quilt.EmptyCells(), beforeEmpty)
	is.Equal(s.Queue.Patches, beforeQueue)
}

func TestApplyWalkingAcrossTwoSpecialPatchMarkersQueuesBothPlacements(t *testing.T) {
	is := is.New(t)
	s := New(1)
	s.P1.Position = 25
	s.P2.Position = 31
	s.Status.CurrentPlayer = Player1

	id, err := action.Encode(action.Action{Kind: action.KindWalking, StartingIndex: 25})
	is.NoErr(err)
	is.NoErr(s.Apply(id))

	is.Equal(s.P1.Position, 32)
	is.Equal(s.TurnType, SpecialPatchPlacement)
	is.Equal(s.PendingSpecialPatches, 2)
	is.Equal(s.Status.CurrentPlayer, Player1) // turn does not pass until both are placed
	is.True(!s.TimeBoard.HasSpecialPatch(26))
	is.True(!s.TimeBoard.HasSpecialPatch(32))

	legal := s.LegalActions()
	is.True(len(legal) > 0)
	a, err := action.Decode(legal[0])
	is.NoErr(err)
	is.Equal(a.Kind, action.KindSpecialPatchPlacement)
	is.NoErr(s.Apply(legal[0]))

	is.Equal(s.PendingSpecialPatches, 1)
	is.Equal(s.TurnType, SpecialPatchPlacement)
	is.Equal(s.Status.CurrentPlayer, Player1)

	legal2 := s.LegalActions()
	is.True(len(legal2) > 0)
	is.NoErr(s.Apply(legal2[0]))

	is.Equal(s.PendingSpecialPatches, 0)
	is.Equal(s.TurnType, Normal)
	is.Equal(s.Status.CurrentPlayer, Player2)

	is.NoErr(s.Undo())
	is.Equal(s.PendingSpecialPatches, 1)
	is.Equal(s.TurnType, SpecialPatchPlacement)

	is.NoErr(s.Undo())
	is.Equal(s.PendingSpecialPatches, 2)
	is.Equal(s.TurnType, SpecialPatchPlacement)

	is.NoErr(s.Undo())
	is.Equal(s.PendingSpecialPatches, 0)
	is.Equal(s.TurnType, Normal)
	is.Equal(s.P1.Position, 25)
	is.True(s.TimeBoard.HasSpecialPatch(26))
	is.True(s.TimeBoard.HasSpecialPatch(32))
}

func TestApplyOutOfRangeIDErrors(t *testing.T) {
	is := is.New(t)
	s := New(1)
	_, err := action.Decode(action.Max() + 1)
	is.Equal(err, action.ErrOutOfRange)
	is.Equal(s.Apply(action.Max()+1), action.ErrOutOfRange)
}
