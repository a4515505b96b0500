package pvs

import (
	"sync"

	"github.com/patchwork-engine/patchwork/action"
)

// Bound distinguishes what a transposition-table entry's score means
// relative to the window it was searched in.
type Bound uint8

const (
	BoundExact Bound = iota
	BoundLower
	BoundUpper
)

// Entry is one transposition-table record.
type Entry struct {
	Key       uint64
	Score     float64
	Depth     int
	Bound     Bound
	BestMove  action.ID
	valid     bool
}

// stripes is the number of lock-striped buckets; a real deployment
// would size this by table capacity, but a fixed small stripe count
// keeps contention low without complicating the constructor.
const stripes = 64

// Table is a fixed-capacity, lock-striped transposition table shared
// by every Lazy-SMP worker of one search. Per-entry replacement
// prefers a deeper search result, then a newer one at equal depth,
// mirroring §4.7's replacement policy without needing a single global
// lock across probes.
type Table struct {
	mu      [stripes]sync.Mutex
	entries []Entry
}

// NewTable builds a table with capacity slots, rounded to a power of
// two internally for cheap masking.
func NewTable(capacity int) *Table {
	size := 1
	for size < capacity {
		size <<= 1
	}
	return &Table{entries: make([]Entry, size)}
}

func (t *Table) slot(key uint64) int {
	return int(key & uint64(len(t.entries)-1))
}

// Probe looks up key, returning the stored entry and whether it was
// present and matched (guards against the low-probability hash
// collision by comparing the full key, not just the slot).
func (t *Table) Probe(key uint64) (Entry, bool) {
	i := t.slot(key)
	m := &t.mu[i%stripes]
	m.Lock()
	defer m.Unlock()
	e := t.entries[i]
	if e.valid && e.Key == key {
		return e, true
	}
	return Entry{}, false
}

// Store writes an entry, replacing the current occupant of its slot
// only if the new result is deeper, or equally deep (treated as
// newer, since Lazy-SMP workers race to store at the same depth and
// the last one in is as good a tie-break as any).
func (t *Table) Store(e Entry) {
	e.valid = true
	i := t.slot(e.Key)
	m := &t.mu[i%stripes]
	m.Lock()
	defer m.Unlock()
	cur := t.entries[i]
	if !cur.valid || e.Depth >= cur.Depth {
		t.entries[i] = e
	}
}

// Clear resets every slot, used by `newgame` in the UPI layer so a TT
// never leaks stale best actions across games.
func (t *Table) Clear() {
	for i := range t.entries {
		t.mu[i%stripes].Lock()
		t.entries[i] = Entry{}
		t.mu[i%stripes].Unlock()
	}
}
