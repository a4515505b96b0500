package treepolicy

import (
	"testing"

	"github.com/matryer/is"

	"github.com/patchwork-engine/patchwork/action"
	"github.com/patchwork-engine/patchwork/game"
)

func TestOrderMovesPutsHintFirst(t *testing.T) {
	is := is.New(t)
	s := game.New(1)
	legal := s.LegalActions()
	is.True(len(legal) > 1)

	hint := legal[len(legal)-1]
	ordered := OrderMoves(legal, hint)
	is.Equal(ordered[0], hint)
	is.Equal(len(ordered), len(legal))
}

func TestOrderMovesNoHintIsStableSortedByScore(t *testing.T) {
	is := is.New(t)
	s := game.New(1)
	legal := s.LegalActions()
	ordered := OrderMoves(legal, action.Null())
	is.Equal(len(ordered), len(legal))

	prev := moveScore(ordered[0])
	for _, id := range ordered[1:] {
		score := moveScore(id)
		is.True(score <= prev)
		prev = score
	}
}

func TestBranchingCapKeepsWalking(t *testing.T) {
	is := is.New(t)
	s := game.New(1)
	legal := s.LegalActions()
	ordered := OrderMoves(legal, action.Null())

	capped := BranchingCap(ordered, 1)
	is.Equal(len(capped), 1)

	hasWalk := false
	for _, id := range capped {
		if act, err := action.Decode(id); err == nil && act.Kind == action.KindWalking {
			hasWalk = true
		}
	}
	is.True(hasWalk)
}

func TestBranchingCapNoopWhenUnderLimit(t *testing.T) {
	is := is.New(t)
	s := game.New(1)
	legal := s.LegalActions()
	capped := BranchingCap(legal, len(legal)+5)
	is.Equal(capped, legal)
}

func TestForcedExtensionWhenOnlyWalkingLegal(t *testing.T) {
	is := is.New(t)
	s := game.New(1)
	walkOnly := []action.ID{}
	id, err := action.Encode(action.Action{Kind: action.KindWalking, StartingIndex: s.Current().Position})
	is.NoErr(err)
	walkOnly = append(walkOnly, id)
	is.True(ForcedExtension(s, walkOnly))
}
