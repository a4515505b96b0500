package game

import "lukechampine.com/frand"

// Queue is the ordered circular list of remaining regular patches. The
// three playable patches at any time are the first three found by
// walking forward from Pointer (mod len(Patches)).
type Queue struct {
	Patches []int // remaining regular patch ids, in play order
	Pointer int   // index of the first playable patch
}

// NewQueue builds the starting queue: all 33 regular patch ids in a
// seeded random shuffle, with Pointer set to the position of the
// smallest id (patch 1), matching the physical game's starting token
// placement just before the lowest-numbered patch.
func NewQueue(seed uint64) *Queue {
	ids := make([]int, 0, 33)
	for id := 1; id <= 33; id++ {
		ids = append(ids, id)
	}
	rng := frand.NewCustom(seedBytes(seed), 32, 20)
	rng.Shuffle(len(ids), func(i, j int) { ids[i], ids[j] = ids[j], ids[i] })

	pointer := 0
	for i, id := range ids {
		if id == 1 {
			pointer = i
			break
		}
	}
	return &Queue{Patches: ids, Pointer: pointer}
}

func seedBytes(seed uint64) []byte {
	b := make([]byte, 32)
	for i := 0; i < 8; i++ {
		b[i] = byte(seed >> (8 * i))
	}
	return b
}

// Clone returns a deep copy.
func (q *Queue) Clone() *Queue {
	c := &Queue{Pointer: q.Pointer, Patches: make([]int, len(q.Patches))}
	copy(c.Patches, q.Patches)
	return c
}

// Slot returns the patch id at queue slot 0, 1 or 2 (the three
// playable patches), or -1 if fewer than slot+1 patches remain.
func (q *Queue) Slot(slot int) int {
	n := len(q.Patches)
	if n == 0 || slot >= n {
		return -1
	}
	return q.Patches[(q.Pointer+slot)%n]
}

// PlayableSlots returns how many of the 3 slots currently hold a patch
// (fewer than 3 only once the queue is nearly exhausted).
func (q *Queue) PlayableSlots() int {
	if len(q.Patches) < 3 {
		return len(q.Patches)
	}
	return 3
}

// Take removes the patch at slot, rotating the pointer to just past it,
// and returns the patch id together with an undo token.
type QueueTake struct {
	Index       int // absolute index removed, pre-removal
	PatchID     int
	OldPointer  int
}

func (q *Queue) Take(slot int) QueueTake {
	n := len(q.Patches)
	p := (q.Pointer + slot) % n
	id := q.Patches[p]
	old := q.Pointer

	q.Patches = append(q.Patches[:p], q.Patches[p+1:]...)
	if len(q.Patches) == 0 {
		q.Pointer = 0
	} else {
		q.Pointer = p % len(q.Patches)
	}
	return QueueTake{Index: p, PatchID: id, OldPointer: old}
}

// Untake reverses a Take, reinserting the patch id at its original
// absolute index and restoring the old pointer.
func (q *Queue) Untake(t QueueTake) {
	q.Patches = append(q.Patches, 0)
	copy(q.Patches[t.Index+1:], q.Patches[t.Index:])
	q.Patches[t.Index] = t.PatchID
	q.Pointer = t.OldPointer
}
