package action

import "github.com/patchwork-engine/patchwork/catalog"

// NaturalID is the alternative 64-bit encoding whose low bits are
// suitable as an index into a fixed-length policy-network output
// vector: for patch placements it collapses (patch id, transformation
// index) down to pure placement geometry — slot, row, column,
// rotation, flip — which is the same for any patch of the same shape,
// so a network never has to know how many transformations any specific
// patch happens to have. The high bits carry exactly the information
// the collapse drops (patch id and the PreviousPlayerWas1 flag), so
// converting back to an ActionId is always lossless.
type NaturalID uint64

// PolicySize is the length of the patch-placement slice of the policy
// vector: 3 queue slots x 9 rows x 9 columns x 4 rotations x 2 flips.
const PolicySize = 3 * 9 * 9 * 4 * 2 // 1944

const (
	natKindShift = 62
	natKindMask  = NaturalID(0x3) << natKindShift

	natKindWalking = NaturalID(0) << natKindShift
	natKindSpecial = NaturalID(1) << natKindShift
	natKindPatch   = NaturalID(2) << natKindShift
	natKindOther   = NaturalID(3) << natKindShift // Phantom (payload 0) or Null (payload 1)

	patchGeometryBits = 11 // holds 0..1943
	patchIDShift      = patchGeometryBits
	patchIDBits       = 7 // 0..33
	prevBit           = patchIDShift + patchIDBits
)

func rotationIndex(rotation int) int { return rotation / 90 }

func geometryIndex(slot, row, col, rotation int, flipped bool) int {
	f := 0
	if flipped {
		f = 1
	}
	return ((((slot*9)+row)*9+col)*4+rotationIndex(rotation))*2 + f
}

func geometryFromIndex(idx int) (slot, row, col, rotation int, flipped bool) {
	f := idx % 2
	idx /= 2
	rot := idx % 4
	idx /= 4
	col = idx % 9
	idx /= 9
	row = idx % 9
	idx /= 9
	slot = idx
	return slot, row, col, rot * 90, f == 1
}

// EncodeNatural converts an Action to its NaturalID.
func EncodeNatural(a Action) (NaturalID, error) {
	switch a.Kind {
	case KindWalking:
		if a.StartingIndex < 0 || a.StartingIndex >= timeboardMaxStart {
			return 0, ErrOutOfRange
		}
		return natKindWalking | NaturalID(a.StartingIndex), nil
	case KindSpecialPatchPlacement:
		if a.QuiltBoardIndex < 0 || a.QuiltBoardIndex >= 81 {
			return 0, ErrOutOfRange
		}
		return natKindSpecial | NaturalID(a.QuiltBoardIndex), nil
	case KindPatchPlacement:
		t, ok := findTransformation(a.PatchID, a.TransformationIndex)
		if !ok {
			return 0, ErrOutOfRange
		}
		geom := geometryIndex(a.PatchIndex, t.Row, t.Col, t.Rotation, t.Flipped)
		prev := NaturalID(0)
		if a.PreviousPlayerWas1 {
			prev = 1
		}
		id := natKindPatch
		id |= NaturalID(geom)
		id |= NaturalID(a.PatchID) << patchIDShift
		id |= prev << prevBit
		return id, nil
	case KindPhantom:
		return natKindOther | 0, nil
	case KindNull:
		return natKindOther | 1, nil
	default:
		return 0, ErrInvalidState
	}
}

// DecodeNatural converts a NaturalID back to an Action.
func DecodeNatural(id NaturalID) (Action, error) {
	switch id & natKindMask {
	case natKindWalking:
		v := int(id &^ natKindMask)
		if v < 0 || v >= timeboardMaxStart {
			return Action{}, ErrOutOfRange
		}
		return Action{Kind: KindWalking, StartingIndex: v}, nil
	case natKindSpecial:
		v := int(id &^ natKindMask)
		if v < 0 || v >= 81 {
			return Action{}, ErrOutOfRange
		}
		return Action{Kind: KindSpecialPatchPlacement, QuiltBoardIndex: v}, nil
	case natKindPatch:
		geom := int(id & ((1 << patchGeometryBits) - 1))
		patchID := int((id >> patchIDShift) & ((1 << patchIDBits) - 1))
		prev := (id>>prevBit)&1 == 1
		slot, row, col, rotation, flipped := geometryFromIndex(geom)
		ti, ok := findTransformationByGeometry(patchID, row, col, rotation, flipped)
		if !ok {
			return Action{}, ErrOutOfRange
		}
		return Action{
			Kind:                KindPatchPlacement,
			PatchID:             patchID,
			PatchIndex:          slot,
			TransformationIndex: ti,
			PreviousPlayerWas1:  prev,
		}, nil
	default: // natKindOther
		payload := id &^ natKindMask
		if payload == 0 {
			return Action{Kind: KindPhantom}, nil
		}
		if payload == 1 {
			return Action{Kind: KindNull}, nil
		}
		return Action{}, ErrOutOfRange
	}
}

// TotalPolicySize is the width of a full policy-network output vector
// spanning every action kind: walking, special-patch placement, patch
// placement geometry, and the two stateless actions.
const TotalPolicySize = timeboardMaxStart + 81 + PolicySize + 2

// PolicyIndex maps a NaturalID onto a dense index in
// [0, TotalPolicySize), suitable as a policy-network output slot. It
// is a coarser, always-dense sibling of the NaturalID bit layout
// itself, which leaves gaps between kinds to keep decoding cheap.
func PolicyIndex(id NaturalID) int {
	switch id & natKindMask {
	case natKindWalking:
		return int(id &^ natKindMask)
	case natKindSpecial:
		return timeboardMaxStart + int(id&^natKindMask)
	case natKindPatch:
		geom := int(id & ((1 << patchGeometryBits) - 1))
		return timeboardMaxStart + 81 + geom
	default:
		payload := int(id &^ natKindMask)
		return timeboardMaxStart + 81 + PolicySize + payload
	}
}

func findTransformation(patchID, transformationIndex int) (catalog.Transformation, bool) {
	list := catalog.Transformations(patchID)
	if transformationIndex < 0 || transformationIndex >= len(list) {
		return catalog.Transformation{}, false
	}
	return list[transformationIndex], true
}

func findTransformationByGeometry(patchID, row, col, rotation int, flipped bool) (int, bool) {
	for _, t := range catalog.Transformations(patchID) {
		if t.Row == row && t.Col == col && t.Rotation == rotation && t.Flipped == flipped {
			return t.Index, true
		}
	}
	return 0, false
}
