// Package pvs implements Principal Variation Search with iterative
// deepening, aspiration windows, null-window re-search, late-move
// reduction and pruning, search extensions, a shared transposition
// table, and optional Lazy-SMP parallelism across worker goroutines.
package pvs

import (
	"context"
	"math/rand"
	"time"

	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"

	"github.com/patchwork-engine/patchwork/action"
	"github.com/patchwork-engine/patchwork/eval"
	"github.com/patchwork-engine/patchwork/game"
	"github.com/patchwork-engine/patchwork/search"
	"github.com/patchwork-engine/patchwork/treepolicy"
	"github.com/patchwork-engine/patchwork/zobrist"
)

// Infinity bounds the search value range.
const Infinity = 1e9

// FailStrategy selects whether returned scores may lie outside the
// requested (alpha, beta) window ("soft") or are clipped to it
// ("hard"). Kept as a config enum per §9's design note, not a
// subclass hierarchy.
type FailStrategy int

const (
	FailSoft FailStrategy = iota
	FailHard
)

// Config tunes one PVS search.
type Config struct {
	MaxDepth      int
	AspirationBy  float64 // half-width of the aspiration window
	LMRThreshold  int     // child index past which reduction kicks in
	LMRReduction  int
	LMPThreshold  int // child index past which shallow nodes skip the remaining moves
	LMPMaxDepth   int
	FailStrategy  FailStrategy
	Threads       int // 1 disables Lazy-SMP
	TableCapacity int
}

// DefaultConfig mirrors reasonable defaults seen across the pack's
// search implementations: modest LMR/LMP thresholds, a single-thread
// search unless the caller opts into Lazy-SMP.
func DefaultConfig() Config {
	return Config{
		MaxDepth:      8,
		AspirationBy:  0.5,
		LMRThreshold:  3,
		LMRReduction:  1,
		LMPThreshold:  8,
		LMPMaxDepth:   2,
		FailStrategy:  FailSoft,
		Threads:       1,
		TableCapacity: 1 << 16,
	}
}

// Player implements Principal Variation Search.
type Player struct {
	Eval  eval.Evaluator
	Cfg   Config
	Table *Table
	Hash  *zobrist.Table
	Rand  *rand.Rand

	perspective game.Holder
}

// New builds a PVS player. table and hashTable may be shared across
// consecutive searches (and across Lazy-SMP workers of the same
// search) to preserve cross-move caching; pass fresh ones for an
// isolated search.
func New(ev eval.Evaluator, cfg Config, table *Table, hashTable *zobrist.Table, seed int64) *Player {
	return &Player{Eval: ev, Cfg: cfg, Table: table, Hash: hashTable, Rand: rand.New(rand.NewSource(seed))}
}

// ChooseAction runs iterative deepening from depth 1 until deadline
// elapses or Cfg.MaxDepth is reached. With Cfg.Threads > 1 it runs
// Lazy-SMP: N goroutines search the same root at slightly staggered
// depths, sharing p.Table; the root result comes from whichever
// worker last stored the deepest TT entry for the root position.
func (p *Player) ChooseAction(state *game.State, deadline time.Time) action.ID {
	p.perspective = state.Status.CurrentPlayer
	legal := state.LegalActions()
	if len(legal) == 0 {
		return action.Null()
	}
	if len(legal) == 1 {
		return legal[0]
	}

	rootKey := p.Hash.Hash(state)

	if p.Cfg.Threads <= 1 {
		return p.searchSingle(state, rootKey, deadline)
	}
	return p.searchLazySMP(state, rootKey, deadline)
}

func (p *Player) searchSingle(state *game.State, rootKey uint64, deadline time.Time) action.ID {
	best := action.Null()
	prevScore := 0.0
	for depth := 1; depth <= p.Cfg.MaxDepth; depth++ {
		if search.Expired(deadline) {
			break
		}
		alpha, beta := -Infinity, Infinity
		if depth > 1 {
			alpha = prevScore - p.Cfg.AspirationBy
			beta = prevScore + p.Cfg.AspirationBy
		}

		score, move := p.searchRoot(state, depth, alpha, beta, deadline)
		if score <= alpha || score >= beta {
			// fail-low/high: re-search unbounded on the failing side
			score, move = p.searchRoot(state, depth, -Infinity, Infinity, deadline)
		}
		if move != action.Null() {
			best = move
			prevScore = score
			p.Table.Store(Entry{Key: rootKey, Score: score, Depth: depth, Bound: BoundExact, BestMove: move})
		}
	}
	if best == action.Null() {
		log.Info().Msg("pvs: deadline exceeded before completing depth 1, falling back")
		return search.RandomFallback(state, p.Rand)
	}
	return best
}

func (p *Player) searchLazySMP(state *game.State, rootKey uint64, deadline time.Time) action.ID {
	ctx, cancel := context.WithDeadline(context.Background(), safeDeadline(deadline))
	defer cancel()

	g, _ := errgroup.WithContext(ctx)
	for w := 0; w < p.Cfg.Threads; w++ {
		w := w
		g.Go(func() error {
			worker := state.Clone()
			depthBias := w % 3 // stagger depths slightly so workers diverge
			cfg := p.Cfg
			cfg.MaxDepth += depthBias
			wp := &Player{Eval: p.Eval, Cfg: cfg, Table: p.Table, Hash: p.Hash, Rand: rand.New(rand.NewSource(int64(w) + 1)), perspective: p.perspective}
			wp.searchSingle(worker, rootKey, deadline)
			return nil
		})
	}
	_ = g.Wait()

	if e, ok := p.Table.Probe(rootKey); ok && e.BestMove != action.Null() {
		return e.BestMove
	}
	return search.RandomFallback(state, p.Rand)
}

func safeDeadline(deadline time.Time) time.Time {
	if deadline.IsZero() {
		return time.Now().Add(time.Minute)
	}
	return deadline
}

// searchRoot runs one full iterative-deepening iteration at depth, PVS
// style: the first child gets a full window, later children a null
// window with a full re-search only on fail-high.
func (p *Player) searchRoot(state *game.State, depth int, alpha, beta float64, deadline time.Time) (float64, action.ID) {
	legal := state.LegalActions()
	hint := action.Null()
	if e, ok := p.Table.Probe(p.Hash.Hash(state)); ok {
		hint = e.BestMove
	}
	ordered := treepolicy.OrderMoves(legal, hint)

	best := action.Null()
	bestScore := -Infinity
	first := true
	for i, id := range ordered {
		if search.Expired(deadline) {
			break
		}
		if err := state.Apply(id); err != nil {
			continue
		}
		var score float64
		if first {
			score = -p.pvs(state, depth-1, -beta, -alpha, deadline, i)
			first = false
		} else {
			score = -p.pvs(state, depth-1, -alpha-1, -alpha, deadline, i)
			if score > alpha && score < beta {
				score = -p.pvs(state, depth-1, -beta, -alpha, deadline, i)
			}
		}
		state.Undo()

		if score > bestScore {
			bestScore = score
			best = id
		}
		if score > alpha {
			alpha = score
		}
		if alpha >= beta {
			break
		}
	}
	if p.Cfg.FailStrategy == FailHard {
		if bestScore < alpha {
			bestScore = alpha
		}
		if bestScore > beta {
			bestScore = beta
		}
	}
	return bestScore, best
}

// pvs is the recursive negamax-with-null-window body. childIndex is
// this node's position among its siblings in the parent's ordering,
// used for late-move reduction/pruning.
func (p *Player) pvs(state *game.State, depth int, alpha, beta float64, deadline time.Time, childIndex int) float64 {
	if depth <= 0 || state.IsTerminal() || search.Expired(deadline) {
		return p.relativeValue(state)
	}

	key := p.Hash.Hash(state)
	if e, ok := p.Table.Probe(key); ok && e.Depth >= depth {
		switch e.Bound {
		case BoundExact:
			return e.Score
		case BoundLower:
			if e.Score > alpha {
				alpha = e.Score
			}
		case BoundUpper:
			if e.Score < beta {
				beta = e.Score
			}
		}
		if alpha >= beta {
			return e.Score
		}
	}

	legal := state.LegalActions()
	if len(legal) == 0 {
		return p.relativeValue(state)
	}
	if treepolicy.ForcedExtension(state, legal) {
		depth++
	}

	hint := action.Null()
	if e, ok := p.Table.Probe(key); ok {
		hint = e.BestMove
	}
	ordered := treepolicy.OrderMoves(legal, hint)

	origAlpha := alpha
	best := ordered[0]
	bestScore := -Infinity
	first := true
	for i, id := range ordered {
		if depth <= p.Cfg.LMPMaxDepth && i >= p.Cfg.LMPThreshold && !first {
			break // late-move pruning: stop considering the remaining moves at shallow depth
		}
		if err := state.Apply(id); err != nil {
			continue
		}

		searchDepth := depth - 1
		reduced := false
		if !first && i >= p.Cfg.LMRThreshold && depth > p.Cfg.LMRReduction {
			searchDepth -= p.Cfg.LMRReduction
			reduced = true
		}

		var score float64
		if first {
			score = -p.pvs(state, searchDepth, -beta, -alpha, deadline, i)
		} else {
			score = -p.pvs(state, searchDepth, -alpha-1, -alpha, deadline, i)
			if score > alpha && (reduced || score < beta) {
				score = -p.pvs(state, depth-1, -beta, -alpha, deadline, i)
			}
		}
		state.Undo()
		first = false

		if score > bestScore {
			bestScore = score
			best = id
		}
		if score > alpha {
			alpha = score
		}
		if alpha >= beta {
			break
		}
	}

	bound := BoundExact
	if bestScore <= origAlpha {
		bound = BoundUpper
	} else if bestScore >= beta {
		bound = BoundLower
	}
	p.Table.Store(Entry{Key: key, Score: bestScore, Depth: depth, Bound: bound, BestMove: best})

	if p.Cfg.FailStrategy == FailHard {
		if bestScore < alpha {
			bestScore = alpha
		}
		if bestScore > beta {
			bestScore = beta
		}
	}
	return bestScore
}

func (p *Player) relativeValue(state *game.State) float64 {
	v := p.Eval.Evaluate(state, p.perspective)
	if state.Status.CurrentPlayer != p.perspective {
		return -v
	}
	return v
}
