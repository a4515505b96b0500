package action

import (
	"testing"

	"github.com/matryer/is"

	"github.com/patchwork-engine/patchwork/catalog"
)

func TestEncodeDecodeWalkingRoundTrip(t *testing.T) {
	is := is.New(t)
	for i := 0; i < timeboardMaxStart; i++ {
		id, err := Encode(Action{Kind: KindWalking, StartingIndex: i})
		is.NoErr(err)
		a, err := Decode(id)
		is.NoErr(err)
		is.Equal(a, Action{Kind: KindWalking, StartingIndex: i})
	}
}

func TestEncodeDecodeSpecialPlacementRoundTrip(t *testing.T) {
	is := is.New(t)
	for i := 0; i < 81; i++ {
		id, err := Encode(Action{Kind: KindSpecialPatchPlacement, QuiltBoardIndex: i})
		is.NoErr(err)
		a, err := Decode(id)
		is.NoErr(err)
		is.Equal(a, Action{Kind: KindSpecialPatchPlacement, QuiltBoardIndex: i})
	}
}

func TestEncodeDecodePatchPlacementRoundTrip(t *testing.T) {
	is := is.New(t)
	trans := catalog.Transformations(1)
	for _, prev := range []bool{false, true} {
		for slot := 0; slot <= 2; slot++ {
			want := Action{
				Kind:                KindPatchPlacement,
				PatchID:             1,
				PatchIndex:          slot,
				TransformationIndex: trans[0].Index,
				PreviousPlayerWas1:  prev,
			}
			id, err := Encode(want)
			is.NoErr(err)
			got, err := Decode(id)
			is.NoErr(err)
			is.Equal(got, want)
		}
	}
}

func TestPhantomAndNullAreDistinctAndMax(t *testing.T) {
	is := is.New(t)
	p, err := Encode(Action{Kind: KindPhantom})
	is.NoErr(err)
	n, err := Encode(Action{Kind: KindNull})
	is.NoErr(err)
	is.Equal(p, Phantom())
	is.Equal(n, Null())
	is.True(p != n)
	is.Equal(n, Max())
}

func TestEncodeRejectsOutOfRange(t *testing.T) {
	is := is.New(t)
	_, err := Encode(Action{Kind: KindWalking, StartingIndex: timeboardMaxStart})
	is.Equal(err, ErrOutOfRange)

	_, err = Encode(Action{Kind: KindSpecialPatchPlacement, QuiltBoardIndex: 81})
	is.Equal(err, ErrOutOfRange)
}

func TestDecodeRejectsOutOfRange(t *testing.T) {
	is := is.New(t)
	_, err := Decode(Max() + 1)
	is.Equal(err, ErrOutOfRange)
}

func TestActionRangesAreDisjoint(t *testing.T) {
	is := is.New(t)
	is.True(specialBase >= walkingBase+walkingLen)
	is.True(patchBase >= specialBase+specialLen)
	is.True(phantomID >= patchBase+patchLen)
	is.True(nullID > phantomID)
}
