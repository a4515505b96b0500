// Package zobrist generates a 64-bit hash of a game.State
// for use as a transposition-table key.
package zobrist

import (
	"lukechampine.com/frand"

	"github.com/patchwork-engine/patchwork/catalog"
	"github.com/patchwork-engine/patchwork/game"
	"github.com/patchwork-engine/patchwork/quilt"
	"github.com/patchwork-engine/patchwork/timeboard"
)

const bignum = 1<<63 - 2

// Table holds every random constant needed to hash a Patchwork state:
// tile occupancy, button balance, time-board position, queue rotation,
// turn type and status flags. It is built once per engine and shared
// read-only across that engine's search workers.
type Table struct {
	tilesP1 [quilt.Cells]uint64
	tilesP2 [quilt.Cells]uint64

	balanceP1 []uint64 // indexed by clamped button balance
	balanceP2 []uint64

	positionP1 [timeboard.Length]uint64
	positionP2 [timeboard.Length]uint64

	queuePointer []uint64 // indexed by Pointer

	turnSpecialPlacement uint64
	currentPlayer2       uint64
	specialTileP1        uint64
	specialTileP2        uint64
	firstToGoalP1        uint64
	firstToGoalP2        uint64
}

// maxHashedBalance caps the button-balance table; balances above it
// fold into the last slot, which only degrades TT discrimination for
// the vanishingly rare state with a very large bank.
const maxHashedBalance = 128

// New builds a fresh table with independently random constants. Two
// calls to New never produce compatible hashes; a single Table must be
// shared by every worker of one search.
func New() *Table {
	t := &Table{
		balanceP1:    make([]uint64, maxHashedBalance+1),
		balanceP2:    make([]uint64, maxHashedBalance+1),
		queuePointer: make([]uint64, catalog.NumRegularPatches),
	}
	for i := range t.tilesP1 {
		t.tilesP1[i] = rnd()
		t.tilesP2[i] = rnd()
	}
	for i := range t.balanceP1 {
		t.balanceP1[i] = rnd()
		t.balanceP2[i] = rnd()
	}
	for i := range t.positionP1 {
		t.positionP1[i] = rnd()
		t.positionP2[i] = rnd()
	}
	for i := range t.queuePointer {
		t.queuePointer[i] = rnd()
	}
	t.turnSpecialPlacement = rnd()
	t.currentPlayer2 = rnd()
	t.specialTileP1 = rnd()
	t.specialTileP2 = rnd()
	t.firstToGoalP1 = rnd()
	t.firstToGoalP2 = rnd()
	return t
}

func rnd() uint64 {
	return frand.Uint64n(bignum) + 1
}

func clampBalance(b int) int {
	if b < 0 {
		return 0
	}
	if b > maxHashedBalance {
		return maxHashedBalance
	}
	return b
}

// Hash computes the full hash of s from scratch. There is no
// incremental update; Rehash calls Hash after every Apply.
func (t *Table) Hash(s *game.State) uint64 {
	var key uint64
	for i := 0; i < quilt.Cells; i++ {
		row, col := i/quilt.Dim, i%quilt.Dim
		if s.P1.Quilt.Tiles.At(row, col) {
			key ^= t.tilesP1[i]
		}
		if s.P2.Quilt.Tiles.At(row, col) {
			key ^= t.tilesP2[i]
		}
	}
	key ^= t.balanceP1[clampBalance(s.P1.ButtonBalance)]
	key ^= t.balanceP2[clampBalance(s.P2.ButtonBalance)]
	key ^= t.positionP1[s.P1.Position]
	key ^= t.positionP2[s.P2.Position]
	if len(s.Queue.Patches) > 0 {
		key ^= t.queuePointer[s.Queue.Pointer%len(t.queuePointer)]
	}
	if s.TurnType == game.SpecialPatchPlacement {
		key ^= t.turnSpecialPlacement
	}
	if s.Status.CurrentPlayer == game.Player2 {
		key ^= t.currentPlayer2
	}
	switch s.Status.SpecialTile {
	case game.Player1:
		key ^= t.specialTileP1
	case game.Player2:
		key ^= t.specialTileP2
	}
	switch s.Status.FirstToGoal {
	case game.Player1:
		key ^= t.firstToGoalP1
	case game.Player2:
		key ^= t.firstToGoalP2
	}
	return key
}

// Rehash is a convenience wrapper for search code walking apply/undo:
// it just recomputes the hash of the post-Apply state. Patchwork's
// state is small enough (81 occupancy bits, two balances, two
// positions, a queue pointer and a handful of flags) that a full
// rehash is cheap; there is no cheaper incremental path worth the
// bookkeeping.
func (t *Table) Rehash(s *game.State) uint64 {
	return t.Hash(s)
}
