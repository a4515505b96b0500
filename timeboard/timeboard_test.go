package timeboard

import (
	"testing"

	"github.com/matryer/is"
)

func TestNewLaysOutStandardMarkers(t *testing.T) {
	is := is.New(t)
	b := New()
	for _, p := range buttonIncomePositions {
		is.True(b.HasButtonIncome(p))
	}
	for _, p := range specialPatchPositions {
		is.True(b.HasSpecialPatch(p))
	}
	is.True(!b.HasButtonIncome(0))
	is.True(!b.HasSpecialPatch(0))
}

func TestCloneIsIndependent(t *testing.T) {
	is := is.New(t)
	b := New()
	c := b.Clone()
	c.ClearSpecialPatch(specialPatchPositions[0])
	is.True(b.HasSpecialPatch(specialPatchPositions[0]))
	is.True(!c.HasSpecialPatch(specialPatchPositions[0]))
}

func TestClearAndSetSpecialPatch(t *testing.T) {
	is := is.New(t)
	b := New()
	p := specialPatchPositions[0]
	b.ClearSpecialPatch(p)
	is.True(!b.HasSpecialPatch(p))
	b.SetSpecialPatch(p)
	is.True(b.HasSpecialPatch(p))
}

func TestAdvanceCollectsAllCrossedMarkers(t *testing.T) {
	is := is.New(t)
	b := New()
	// crossing from just before the first income marker to just after the
	// first special-patch marker should pick up both kinds.
	c := b.Advance(4, 27)
	is.Equal(c.ButtonIncomeCells, []int{5, 11, 17, 23})
	is.Equal(c.SpecialPatchCells, []int{26})
}

func TestAdvanceExcludesFromInclusiveTo(t *testing.T) {
	is := is.New(t)
	b := New()
	c := b.Advance(5, 5)
	is.Equal(len(c.ButtonIncomeCells), 0)
	is.Equal(len(c.SpecialPatchCells), 0)
}

func TestPresenceBits(t *testing.T) {
	is := is.New(t)
	b := New()
	is.True(!b.HasPresence(0, Player1))
	b.SetPresence(0, Player1)
	is.True(b.HasPresence(0, Player1))
	b.ClearPresence(0, Player1)
	is.True(!b.HasPresence(0, Player1))
}

func TestPositionAccessorsReturnCopies(t *testing.T) {
	is := is.New(t)
	sp := SpecialPatchPositions()
	sp[0] = -1
	is.Equal(specialPatchPositions[0], 26)

	bi := ButtonIncomePositions()
	bi[0] = -1
	is.Equal(buttonIncomePositions[0], 5)
}
