// Package catalog is the process-wide, immutable registry of the 33
// regular patches, the 5 special patches, and — for every regular
// patch — every legal placement on a 9x9 board precomputed as an
// occupancy mask plus row/column/orientation metadata.
//
// The catalog is built once at package init and never reinitialized;
// publication happens before any search goroutine is spawned, so reads
// after that point are unsynchronized global singletons.
package catalog

import (
	"sort"

	"github.com/samber/lo"

	"github.com/patchwork-engine/patchwork/quilt"
)

// SpecialPatchID is the id of the 1x1 patch a player receives when
// crossing a special-patch marker on the time board.
const SpecialPatchID = 0

// NumRegularPatches is the number of purchasable patches in a game.
const NumRegularPatches = 33

// NumSpecialPatches is the number of special-patch tokens dropped on
// the time board.
const NumSpecialPatches = 5

// Patch describes one purchasable (or special) patch.
type Patch struct {
	ID           int
	ButtonCost   int
	TimeCost     int
	ButtonIncome int
	Shape        [][]bool // rows of columns; Shape[0] is the top row
	Area         int
}

// Transformation is one legal placement of a regular patch: a rotation
// and optional flip, translated to every (row, col) that keeps the
// shape inside the 9x9 grid, deduplicated by shape symmetry.
type Transformation struct {
	PatchID  int
	Index    int // stable index within Transformations(PatchID)
	Row      int
	Col      int
	Rotation int // one of 0, 90, 180, 270
	Flipped  bool
	Mask     quilt.Mask
}

var (
	patches               [NumRegularPatches + 1]Patch // index 0 is the special-patch shape
	transformationsByID   [NumRegularPatches + 1][]Transformation
	globalTransformations []Transformation // flattened, stable order across all regular patches
)

func init() {
	patches = rawPatchData()
	for id := 1; id <= NumRegularPatches; id++ {
		transformationsByID[id] = enumerateTransformations(patches[id])
		for i := range transformationsByID[id] {
			transformationsByID[id][i].Index = i
			globalTransformations = append(globalTransformations, transformationsByID[id][i])
		}
	}
}

// Get returns the immutable patch description for id (1..33 for
// regular patches, or SpecialPatchID for the 1x1 special-patch shape).
func Get(id int) Patch { return patches[id] }

// RegularPatches returns every regular patch, in catalog id order.
func RegularPatches() []Patch {
	ids := make([]int, NumRegularPatches)
	for i := range ids {
		ids[i] = i + 1
	}
	return lo.Map(ids, func(id int, _ int) Patch { return patches[id] })
}

// TotalButtonIncome sums the passive button income across a set of
// patches, used by the static evaluator's queue-quality term to weigh
// the offered patches' long-run value rather than just their sticker
// price.
func TotalButtonIncome(ps []Patch) int {
	return lo.SumBy(ps, func(p Patch) int { return p.ButtonIncome })
}

// Transformations returns the stable-indexed placements for a regular
// patch id.
func Transformations(patchID int) []Transformation {
	return transformationsByID[patchID]
}

// GetTransformation returns the placement at index for patchID.
func GetTransformation(patchID, index int) Transformation {
	return transformationsByID[patchID][index]
}

// GlobalTransformations returns every (patch, transformation) pair
// across the whole catalog in a fixed, stable order. Used by the action
// encoding to build a dense ActionId range for patch placements without
// hardcoding its size.
func GlobalTransformations() []Transformation {
	return globalTransformations
}

// GlobalTransformationCount is len(GlobalTransformations()).
func GlobalTransformationCount() int {
	return len(globalTransformations)
}

// rotate90 rotates a shape clockwise by 90 degrees.
func rotate90(shape [][]bool) [][]bool {
	rows := len(shape)
	if rows == 0 {
		return nil
	}
	cols := len(shape[0])
	out := make([][]bool, cols)
	for c := 0; c < cols; c++ {
		out[c] = make([]bool, rows)
		for r := 0; r < rows; r++ {
			out[c][r] = shape[rows-1-r][c]
		}
	}
	return out
}

// flipHorizontal mirrors a shape left-right.
func flipHorizontal(shape [][]bool) [][]bool {
	rows := len(shape)
	if rows == 0 {
		return nil
	}
	cols := len(shape[0])
	out := make([][]bool, rows)
	for r := 0; r < rows; r++ {
		out[r] = make([]bool, cols)
		for c := 0; c < cols; c++ {
			out[r][c] = shape[r][cols-1-c]
		}
	}
	return out
}

func shapeKey(shape [][]bool) string {
	width := 0
	if len(shape) > 0 {
		width = len(shape[0])
	}
	b := make([]byte, 0, len(shape)*(width+1))
	for _, row := range shape {
		for _, v := range row {
			if v {
				b = append(b, '1')
			} else {
				b = append(b, '0')
			}
		}
		b = append(b, '/')
	}
	return string(b)
}

// enumerateTransformations produces every (rotation, flip, row, col)
// placement of patch that keeps its shape strictly inside the 9x9
// board, deduplicated by resulting shape (rotational/reflective
// symmetry collapses to a single orientation), tie-broken row-major by
// bounding-box top-left, then rotation 0->270, then non-flipped before
// flipped.
func enumerateTransformations(p Patch) []Transformation {
	type orientation struct {
		rotation int
		flipped  bool
		shape    [][]bool
	}

	if len(p.Shape) == 0 {
		return nil
	}

	seen := map[string]bool{}
	var orientations []orientation
	shape := p.Shape
	for _, flipped := range []bool{false, true} {
		s := shape
		if flipped {
			s = flipHorizontal(shape)
		}
		rot := s
		for _, rotation := range []int{0, 90, 180, 270} {
			key := shapeKey(rot)
			if !seen[key] {
				seen[key] = true
				orientations = append(orientations, orientation{rotation, flipped, rot})
			}
			rot = rotate90(rot)
		}
	}

	var out []Transformation
	for _, o := range orientations {
		h := len(o.shape)
		w := len(o.shape[0])
		for row := 0; row <= quilt.Dim-h; row++ {
			for col := 0; col <= quilt.Dim-w; col++ {
				var mask quilt.Mask
				for r := 0; r < h; r++ {
					for c := 0; c < w; c++ {
						if o.shape[r][c] {
							mask = mask.Or(quilt.CellMask(row+r, col+c))
						}
					}
				}
				out = append(out, Transformation{
					PatchID:  p.ID,
					Row:      row,
					Col:      col,
					Rotation: o.rotation,
					Flipped:  o.flipped,
					Mask:     mask,
				})
			}
		}
	}

	sort.Slice(out, func(i, j int) bool {
		a, b := out[i], out[j]
		if a.Row != b.Row {
			return a.Row < b.Row
		}
		if a.Col != b.Col {
			return a.Col < b.Col
		}
		if a.Rotation != b.Rotation {
			return a.Rotation < b.Rotation
		}
		return !a.Flipped && b.Flipped
	})
	return out
}

func shapeArea(shape [][]bool) int {
	n := 0
	for _, row := range shape {
		for _, v := range row {
			if v {
				n++
			}
		}
	}
	return n
}
