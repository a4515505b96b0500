package quilt

import (
	"testing"

	"github.com/matryer/is"
)

func TestCellMaskAtRoundTrips(t *testing.T) {
	is := is.New(t)
	for _, cell := range []struct{ row, col int }{{0, 0}, {8, 8}, {6, 3}, {0, 8}, {8, 0}} {
		m := CellMask(cell.row, cell.col)
		is.True(m.At(cell.row, cell.col))
		is.Equal(m.PopCount(), 1)
	}
}

func TestPlaceUnplaceIsInverse(t *testing.T) {
	is := is.New(t)
	var b Board
	mask := CellMask(1, 1).Or(CellMask(1, 2)).Or(CellMask(2, 1))
	is.True(b.CanPlace(mask))

	b.Place(mask, 2)
	is.Equal(b.ButtonIncome, 2)
	is.Equal(b.EmptyCells(), Cells-3)
	is.True(!b.CanPlace(mask))

	b.Unplace(mask, 2)
	is.Equal(b.ButtonIncome, 0)
	is.Equal(b.EmptyCells(), Cells)
	is.True(b.CanPlace(mask))
}

func TestIsFullRequiresAllCells(t *testing.T) {
	is := is.New(t)
	var b Board
	is.True(!b.IsFull())
	b.Place(FullMask, 0)
	is.True(b.IsFull())
	is.Equal(b.EmptyCells(), 0)
}

func TestIsSpecialTileConditionReached(t *testing.T) {
	is := is.New(t)
	var b Board
	is.True(!b.IsSpecialTileConditionReached())

	var topLeft Mask
	for r := 0; r < 7; r++ {
		for c := 0; c < 7; c++ {
			topLeft = topLeft.Or(CellMask(r, c))
		}
	}
	b.Place(topLeft, 0)
	is.True(b.IsSpecialTileConditionReached())
}

func TestFreeCellIndicesExcludesOccupied(t *testing.T) {
	is := is.New(t)
	var b Board
	b.Place(CellMask(0, 0), 0)
	free := b.FreeCellIndices()
	is.Equal(len(free), Cells-1)
	for _, idx := range free {
		is.True(idx != 0)
	}
}

func TestAndOrAndNot(t *testing.T) {
	is := is.New(t)
	a := CellMask(0, 0).Or(CellMask(0, 1))
	b := CellMask(0, 1).Or(CellMask(0, 2))

	is.Equal(a.And(b), CellMask(0, 1))
	is.Equal(a.Or(b), CellMask(0, 0).Or(CellMask(0, 1)).Or(CellMask(0, 2)))
	is.Equal(a.AndNot(b), CellMask(0, 0))
	is.True(Mask{}.IsZero())
	is.True(!a.IsZero())
}
