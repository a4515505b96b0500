// Package action implements the two bijective integer encodings used
// throughout the engine: a surrogate ActionId (compact, used
// internally everywhere) and a NaturalActionId (compact in a way
// suitable as the target space of a policy network). Both round-trip
// exactly against the Action tagged union.
package action

import (
	"errors"
	"fmt"

	"github.com/patchwork-engine/patchwork/catalog"
)

// Kind discriminates the five Action variants.
type Kind uint8

const (
	KindWalking Kind = iota
	KindPatchPlacement
	KindSpecialPatchPlacement
	KindPhantom
	KindNull
)

// Action is a tagged union over the five kinds of Patchwork move. Only
// the fields relevant to Kind are meaningful; the rest are zero.
type Action struct {
	Kind Kind

	// Walking
	StartingIndex int

	// PatchPlacement
	PatchID             int
	PatchIndex          int // 0, 1 or 2: which of the three playable patches
	TransformationIndex int
	PreviousPlayerWas1  bool

	// SpecialPatchPlacement
	QuiltBoardIndex int
}

func (a Action) String() string {
	switch a.Kind {
	case KindWalking:
		return fmt.Sprintf("Walking{from=%d}", a.StartingIndex)
	case KindPatchPlacement:
		return fmt.Sprintf("PatchPlacement{patch=%d slot=%d trans=%d}", a.PatchID, a.PatchIndex, a.TransformationIndex)
	case KindSpecialPatchPlacement:
		return fmt.Sprintf("SpecialPatchPlacement{cell=%d}", a.QuiltBoardIndex)
	case KindPhantom:
		return "Phantom"
	case KindNull:
		return "Null"
	default:
		return "Unknown"
	}
}

// ID is the surrogate integer identifying an Action, in disjoint
// ranges: walking [0, 52], special placement [53, 133], patch
// placement [134, 134+6*T-1] where T is the total number of (patch,
// transformation) pairs in the catalog (times 3 queue slots, each
// doubled to carry the PreviousPlayerWas1 bit losslessly), Phantom
// immediately after, Null
// the value after that.
//
// The literal numeric width of the patch-placement range is derived
// from the catalog at init time rather than hardcoded, since it
// depends on exactly how many legal placements the 33 patch shapes
// produce; the disjoint-range *structure* is what §4.5 specifies.
type ID uint32

var (
	ErrOutOfRange   = errors.New("action: id out of the defined ranges")
	ErrInvalidState = errors.New("action: cannot decode this Action variant")
)

const (
	walkingBase = ID(0)
	walkingLen  = ID(timeboardMaxStart)
	// timeboardMaxStart is 53: starting indices 0..52.
	timeboardMaxStart = 53
)

const specialBase = walkingBase + ID(timeboardMaxStart)

const specialLen = ID(81)

var (
	patchBase    ID
	patchLen     ID
	phantomID    ID
	nullID       ID
	globalTrans  []catalog.Transformation
	transToIndex map[[2]int]int // (patchID, transformationIndex) -> global index
)

func init() {
	globalTrans = catalog.GlobalTransformations()
	patchBase = specialBase + specialLen
	patchLen = ID(len(globalTrans)) * 3 * 2 // 3 queue slots x 2 (PreviousPlayerWas1)
	phantomID = patchBase + patchLen
	nullID = phantomID + 1

	transToIndex = make(map[[2]int]int, len(globalTrans))
	for i, t := range globalTrans {
		transToIndex[[2]int{t.PatchID, t.Index}] = i
	}
}

// Phantom and Null are the two fixed, stateless action ids.
func Phantom() ID { return phantomID }
func Null() ID    { return nullID }

// Max returns the largest valid ActionId (Null).
func Max() ID { return nullID }

// Encode converts an Action to its surrogate ActionId.
func Encode(a Action) (ID, error) {
	switch a.Kind {
	case KindWalking:
		if a.StartingIndex < 0 || a.StartingIndex >= timeboardMaxStart {
			return 0, ErrOutOfRange
		}
		return walkingBase + ID(a.StartingIndex), nil
	case KindSpecialPatchPlacement:
		if a.QuiltBoardIndex < 0 || a.QuiltBoardIndex >= 81 {
			return 0, ErrOutOfRange
		}
		return specialBase + ID(a.QuiltBoardIndex), nil
	case KindPatchPlacement:
		gi, ok := transToIndex[[2]int{a.PatchID, a.TransformationIndex}]
		if !ok {
			return 0, ErrOutOfRange
		}
		if a.PatchIndex < 0 || a.PatchIndex > 2 {
			return 0, ErrOutOfRange
		}
		prev := 0
		if a.PreviousPlayerWas1 {
			prev = 1
		}
		offset := (ID(a.PatchIndex)*ID(len(globalTrans))+ID(gi))*2 + ID(prev)
		return patchBase + offset, nil
	case KindPhantom:
		return phantomID, nil
	case KindNull:
		return nullID, nil
	default:
		return 0, ErrInvalidState
	}
}

// Decode converts a surrogate ActionId back to an Action. It is total
// on [0, Null()] and returns ErrOutOfRange outside that range.
func Decode(id ID) (Action, error) {
	switch {
	case id == nullID:
		return Action{Kind: KindNull}, nil
	case id == phantomID:
		return Action{Kind: KindPhantom}, nil
	case id >= patchBase:
		offset := id - patchBase
		if offset >= patchLen {
			return Action{}, ErrOutOfRange
		}
		prev := offset % 2
		rest := offset / 2
		gi := int(rest % ID(len(globalTrans)))
		slot := int(rest / ID(len(globalTrans)))
		t := globalTrans[gi]
		return Action{
			Kind:                KindPatchPlacement,
			PatchID:             t.PatchID,
			PatchIndex:          slot,
			TransformationIndex: t.Index,
			PreviousPlayerWas1:  prev == 1,
		}, nil
	case id >= specialBase:
		offset := id - specialBase
		if offset >= specialLen {
			return Action{}, ErrOutOfRange
		}
		return Action{Kind: KindSpecialPatchPlacement, QuiltBoardIndex: int(offset)}, nil
	case id >= walkingBase && id < walkingBase+walkingLen:
		return Action{Kind: KindWalking, StartingIndex: int(id - walkingBase)}, nil
	default:
		return Action{}, ErrOutOfRange
	}
}
