package action

import (
	"testing"

	"github.com/matryer/is"
)

func TestNaturalRoundTripWalking(t *testing.T) {
	is := is.New(t)
	for i := 0; i < timeboardMaxStart; i++ {
		want := Action{Kind: KindWalking, StartingIndex: i}
		id, err := EncodeNatural(want)
		is.NoErr(err)
		got, err := DecodeNatural(id)
		is.NoErr(err)
		is.Equal(got, want)
		is.True(PolicyIndex(id) >= 0 && PolicyIndex(id) < TotalPolicySize)
	}
}

func TestNaturalRoundTripSpecial(t *testing.T) {
	is := is.New(t)
	for i := 0; i < 81; i++ {
		want := Action{Kind: KindSpecialPatchPlacement, QuiltBoardIndex: i}
		id, err := EncodeNatural(want)
		is.NoErr(err)
		got, err := DecodeNatural(id)
		is.NoErr(err)
		is.Equal(got, want)
		is.True(PolicyIndex(id) >= 0 && PolicyIndex(id) < TotalPolicySize)
	}
}

func TestNaturalRoundTripPatchPlacement(t *testing.T) {
	is := is.New(t)
	for patchID := 1; patchID <= 3; patchID++ {
		for _, prev := range []bool{false, true} {
			want := Action{
				Kind:                KindPatchPlacement,
				PatchID:             patchID,
				PatchIndex:          1,
				TransformationIndex: 0,
				PreviousPlayerWas1:  prev,
			}
			id, err := EncodeNatural(want)
			is.NoErr(err)
			got, err := DecodeNatural(id)
			is.NoErr(err)
			is.Equal(got, want)
			is.True(PolicyIndex(id) >= 0 && PolicyIndex(id) < TotalPolicySize)
		}
	}
}

func TestNaturalPhantomAndNull(t *testing.T) {
	is := is.New(t)
	p, err := EncodeNatural(Action{Kind: KindPhantom})
	is.NoErr(err)
	got, err := DecodeNatural(p)
	is.NoErr(err)
	is.Equal(got, Action{Kind: KindPhantom})

	n, err := EncodeNatural(Action{Kind: KindNull})
	is.NoErr(err)
	got, err = DecodeNatural(n)
	is.NoErr(err)
	is.Equal(got, Action{Kind: KindNull})

	is.True(PolicyIndex(p) != PolicyIndex(n))
	is.Equal(PolicyIndex(n), TotalPolicySize-1)
}

func TestPolicyIndexIsDenseAcrossKinds(t *testing.T) {
	is := is.New(t)
	walkID, _ := EncodeNatural(Action{Kind: KindWalking, StartingIndex: timeboardMaxStart - 1})
	specID, _ := EncodeNatural(Action{Kind: KindSpecialPatchPlacement, QuiltBoardIndex: 0})
	is.Equal(PolicyIndex(specID), PolicyIndex(walkID)+1)
}
