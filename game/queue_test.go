package game

import (
	"testing"

	"github.com/matryer/is"
)

func TestNewQueueHasAllPatchesAndPointerAtPatchOne(t *testing.T) {
	is := is.New(t)
	q := NewQueue(42)
	is.Equal(len(q.Patches), 33)
	is.Equal(q.Patches[q.Pointer], 1)

	seen := map[int]bool{}
	for _, id := range q.Patches {
		seen[id] = true
	}
	is.Equal(len(seen), 33)
}

func TestNewQueueIsDeterministicPerSeed(t *testing.T) {
	is := is.New(t)
	a := NewQueue(7)
	b := NewQueue(7)
	is.Equal(a.Patches, b.Patches)
	is.Equal(a.Pointer, b.Pointer)
}

func TestSlotWrapsAroundPointer(t *testing.T) {
	is := is.New(t)
	q := NewQueue(1)
	is.Equal(q.Slot(0), q.Patches[q.Pointer])
	is.Equal(q.Slot(1), q.Patches[(q.Pointer+1)%len(q.Patches)])
	is.Equal(q.PlayableSlots(), 3)
}

func TestTakeUntakeRoundTrips(t *testing.T) {
	is := is.New(t)
	q := NewQueue(3)
	before := append([]int(nil), q.Patches...)
	beforePointer := q.Pointer

	take := q.Take(1)
	is.Equal(len(q.Patches), len(before)-1)

	q.Untake(take)
	is.Equal(q.Patches, before)
	is.Equal(q.Pointer, beforePointer)
}

func TestPlayableSlotsShrinksNearExhaustion(t *testing.T) {
	is := is.New(t)
	q := NewQueue(1)
	for len(q.Patches) > 2 {
		q.Take(0)
	}
	is.Equal(q.PlayableSlots(), len(q.Patches))
}
