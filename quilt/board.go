// Package quilt implements a player's 9x9 quilt board as a 81-bit
// occupancy set packed into two uint64 words, plus the running
// button-income counter that placed patches contribute to.
package quilt

import "math/bits"

// Dim is the side length of a quilt board.
const Dim = 9

// Cells is the number of squares on a quilt board.
const Cells = Dim * Dim

// Mask is an 81-bit occupancy set over a 9x9 board, row-major,
// least-significant bit of Lo = row 0 column 0. Only the low 17 bits of
// Hi are ever set; callers must never touch bits 81..127.
type Mask struct {
	Lo uint64
	Hi uint64
}

const hiValidBits = Cells - 64 // 17

// hiMask masks off any bits above bit 80 (i.e. above bit 16 of Hi).
const hiMask = uint64(1)<<hiValidBits - 1

// FullMask is every one of the 81 cells set.
var FullMask = Mask{Lo: ^uint64(0), Hi: hiMask}

// CellMask returns the mask with only (row, col) set.
func CellMask(row, col int) Mask {
	idx := row*Dim + col
	if idx < 64 {
		return Mask{Lo: uint64(1) << uint(idx)}
	}
	return Mask{Hi: uint64(1) << uint(idx-64)}
}

// bit returns true if bit i (0..80) is set.
func (m Mask) bit(i int) bool {
	if i < 64 {
		return m.Lo&(uint64(1)<<uint(i)) != 0
	}
	return m.Hi&(uint64(1)<<uint(i-64)) != 0
}

// At reports whether (row, col) is occupied in the mask.
func (m Mask) At(row, col int) bool {
	return m.bit(row*Dim + col)
}

// And returns the bitwise AND of two masks.
func (m Mask) And(o Mask) Mask { return Mask{m.Lo & o.Lo, m.Hi & o.Hi} }

// Or returns the bitwise OR of two masks.
func (m Mask) Or(o Mask) Mask { return Mask{m.Lo | o.Lo, m.Hi | o.Hi} }

// AndNot returns m &^ o.
func (m Mask) AndNot(o Mask) Mask { return Mask{m.Lo &^ o.Lo, m.Hi &^ o.Hi} }

// IsZero reports whether no bit is set.
func (m Mask) IsZero() bool { return m.Lo == 0 && m.Hi == 0 }

// PopCount returns the number of set bits.
func (m Mask) PopCount() int { return bits.OnesCount64(m.Lo) + bits.OnesCount64(m.Hi) }

// Board is a single player's 9x9 quilt board plus accumulated button
// income. The zero value is an empty board with zero income.
type Board struct {
	Tiles        Mask
	ButtonIncome int
}

// CanPlace reports whether mask can be placed without overlapping any
// occupied cell.
func (b *Board) CanPlace(mask Mask) bool {
	return b.Tiles.And(mask).IsZero()
}

// Place occupies mask and adds incomeDelta to the running button income.
// Precondition: CanPlace(mask).
func (b *Board) Place(mask Mask, incomeDelta int) {
	b.Tiles = b.Tiles.Or(mask)
	b.ButtonIncome += incomeDelta
}

// Unplace is the exact inverse of Place, given the same mask and delta
// that were passed to it. The caller must guarantee mask was the last
// mask placed (or at least that it is still fully occupied and its
// removal does not leave any other placed patch orphaned bits, which
// Undo call sites in package game guarantee by construction).
func (b *Board) Unplace(mask Mask, incomeDelta int) {
	b.Tiles = b.Tiles.AndNot(mask)
	b.ButtonIncome -= incomeDelta
}

// IsFull reports whether every one of the 81 cells is occupied.
func (b *Board) IsFull() bool {
	return b.Tiles.Lo == FullMask.Lo && b.Tiles.Hi == FullMask.Hi
}

// EmptyCells returns the number of unoccupied cells.
func (b *Board) EmptyCells() int {
	return Cells - b.Tiles.PopCount()
}

// sevenBySevenTemplates holds the nine masks corresponding to every
// axis-aligned position of a 7x7 window inside the 9x9 board (three
// row offsets times three column offsets).
var sevenBySevenTemplates = buildSevenBySevenTemplates()

func buildSevenBySevenTemplates() [9]Mask {
	var out [9]Mask
	n := 0
	for dr := 0; dr <= Dim-7; dr++ {
		for dc := 0; dc <= Dim-7; dc++ {
			var m Mask
			for r := dr; r < dr+7; r++ {
				for c := dc; c < dc+7; c++ {
					m = m.Or(CellMask(r, c))
				}
			}
			out[n] = m
			n++
		}
	}
	return out
}

// IsSpecialTileConditionReached reports whether any 7x7 subgrid of the
// board is fully occupied, the trigger for Patchwork's 7x7 bonus.
func (b *Board) IsSpecialTileConditionReached() bool {
	for _, tpl := range sevenBySevenTemplates {
		if b.Tiles.And(tpl) == tpl {
			return true
		}
	}
	return false
}

// FreeCellIndices returns the 0..80 indices of every unoccupied cell, in
// row-major order. Used to enumerate SpecialPatchPlacement actions.
func (b *Board) FreeCellIndices() []int {
	free := make([]int, 0, b.EmptyCells())
	for i := 0; i < Cells; i++ {
		if !b.Tiles.bit(i) {
			free = append(free, i)
		}
	}
	return free
}
