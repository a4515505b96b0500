// Package timeboard implements the 54-entry linear time track that
// orders turn precedence and carries the button-income and
// special-patch markers.
package timeboard

// Length is the number of cells on the time track, indices 0..53.
const Length = 54

// MaxPosition is the last, terminal cell.
const MaxPosition = Length - 1

// Marker bits for a single cell of the track.
type Marker uint8

const (
	Player1        Marker = 1 << iota // player 1 currently occupies this cell
	Player2                           // player 2 currently occupies this cell
	ButtonIncome                      // reaching or passing this cell earns button income
	SpecialPatch                      // reaching or passing this cell earns a special patch
)

// buttonIncomePositions and specialPatchPositions are the official
// Patchwork board layout: income markers every 6 steps starting at 5,
// special-patch markers every 6 steps starting at 26 (offset by 3 from
// the income markers).
var buttonIncomePositions = [...]int{5, 11, 17, 23, 29, 35, 41, 47, 53}
var specialPatchPositions = [...]int{26, 32, 38, 44, 50}

// Board is the shared time track. It stores marker bits per cell and,
// redundantly with PlayerState.Position for O(1) access, is queried by
// position rather than owning player positions itself.
type Board struct {
	cells [Length]Marker
}

// New builds a time board with the standard marker layout.
func New() *Board {
	b := &Board{}
	for _, p := range buttonIncomePositions {
		b.cells[p] |= ButtonIncome
	}
	for _, p := range specialPatchPositions {
		b.cells[p] |= SpecialPatch
	}
	return b
}

// Clone returns a deep copy.
func (b *Board) Clone() *Board {
	c := &Board{}
	c.cells = b.cells
	return c
}

// HasButtonIncome reports whether crossing cell i triggers button
// income.
func (b *Board) HasButtonIncome(i int) bool {
	return b.cells[i]&ButtonIncome != 0
}

// HasSpecialPatch reports whether cell i still holds an uncollected
// special-patch marker.
func (b *Board) HasSpecialPatch(i int) bool {
	return b.cells[i]&SpecialPatch != 0
}

// ClearSpecialPatch removes the special-patch marker at i (it has been
// collected).
func (b *Board) ClearSpecialPatch(i int) {
	b.cells[i] &^= SpecialPatch
}

// SetSpecialPatch restores the special-patch marker at i, used by undo.
func (b *Board) SetSpecialPatch(i int) {
	b.cells[i] |= SpecialPatch
}

// SpecialPatchPositions returns the fixed cell indices that hold
// special-patch markers at the start of a game.
func SpecialPatchPositions() []int {
	return append([]int(nil), specialPatchPositions[:]...)
}

// ButtonIncomePositions returns the fixed cell indices that trigger
// button income.
func ButtonIncomePositions() []int {
	return append([]int(nil), buttonIncomePositions[:]...)
}

// Presence bits mark which player is on a cell. game.State does not set
// them; the authoritative position is PlayerState.Position.
func (b *Board) SetPresence(i int, m Marker) { b.cells[i] |= m }
func (b *Board) ClearPresence(i int, m Marker) { b.cells[i] &^= m }
func (b *Board) HasPresence(i int, m Marker) bool { return b.cells[i]&m != 0 }

// Crossing describes what a player earns by moving from a cell they
// left to a cell they now occupy (exclusive of the starting cell,
// inclusive of the destination).
type Crossing struct {
	ButtonIncomeCells []int
	SpecialPatchCells []int
}

// Advance computes every marker crossed strictly after `from` up to and
// including `to` (from < to). It does not mutate the board; callers
// clear special-patch markers themselves once the placement is
// resolved, so that undo can restore them.
func (b *Board) Advance(from, to int) Crossing {
	var c Crossing
	for i := from + 1; i <= to; i++ {
		if b.HasButtonIncome(i) {
			c.ButtonIncomeCells = append(c.ButtonIncomeCells, i)
		}
		if b.HasSpecialPatch(i) {
			c.SpecialPatchCells = append(c.SpecialPatchCells, i)
		}
	}
	return c
}
