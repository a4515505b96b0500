// Package engine wires a config.Config into a concrete eval.Evaluator
// and search.Player pair, the construction step every entry point
// (UPI server, interactive shell, compare CLI) shares.
package engine

import (
	"fmt"

	"github.com/patchwork-engine/patchwork/config"
	"github.com/patchwork-engine/patchwork/eval"
	"github.com/patchwork-engine/patchwork/search"
	"github.com/patchwork-engine/patchwork/search/alphabeta"
	"github.com/patchwork-engine/patchwork/search/alphazero"
	"github.com/patchwork-engine/patchwork/search/greedy"
	"github.com/patchwork-engine/patchwork/search/mcts"
	"github.com/patchwork-engine/patchwork/search/pvs"
	"github.com/patchwork-engine/patchwork/search/random"
	"github.com/patchwork-engine/patchwork/zobrist"
)

// Engine bundles the evaluator, player and any shared search resources
// (transposition table, zobrist table) that must outlive a single
// ChooseAction call — notably so `newgame` can clear them without
// rebuilding the whole engine.
type Engine struct {
	Cfg    config.Config
	Eval   eval.Evaluator
	Player search.Player

	table *pvs.Table // nil unless Cfg.Player == PlayerPVS
	hash  *zobrist.Table
	// neural is retained only to expose Close; nil for non-neural evaluators.
	neural *eval.Neural
}

// Build constructs an Engine from cfg, loading an ONNX model if the
// configured evaluator requires one.
func Build(cfg config.Config) (*Engine, error) {
	e := &Engine{Cfg: cfg, hash: zobrist.New()}

	ev, neural, err := buildEvaluator(cfg)
	if err != nil {
		return nil, err
	}
	e.Eval = ev
	e.neural = neural

	player, err := e.buildPlayer(cfg)
	if err != nil {
		return nil, err
	}
	e.Player = player
	return e, nil
}

func buildEvaluator(cfg config.Config) (eval.Evaluator, *eval.Neural, error) {
	switch cfg.Evaluator {
	case config.EvaluatorStatic:
		return eval.NewStatic(), nil, nil
	case config.EvaluatorWinRollout:
		return eval.NewWinRollout(cfg.Seed), nil, nil
	case config.EvaluatorScoreRollout:
		return eval.NewScoreRollout(cfg.Seed, 1.0), nil, nil
	case config.EvaluatorNeural:
		n, err := eval.NewNeural(cfg.ModelPath)
		if err != nil {
			return nil, nil, fmt.Errorf("engine: loading neural evaluator: %w", err)
		}
		return n, n, nil
	default:
		return nil, nil, fmt.Errorf("engine: unknown evaluator %q", cfg.Evaluator)
	}
}

func (e *Engine) buildPlayer(cfg config.Config) (search.Player, error) {
	switch cfg.Player {
	case config.PlayerRandom:
		return random.New(cfg.Seed), nil
	case config.PlayerGreedy:
		return greedy.New(e.Eval, cfg.Seed), nil
	case config.PlayerAlphaBeta:
		return alphabeta.New(e.Eval, cfg.MaxDepth, 0, cfg.Seed), nil
	case config.PlayerPVS:
		e.table = pvs.NewTable(cfg.TranspositionSize)
		pcfg := pvs.DefaultConfig()
		pcfg.MaxDepth = cfg.MaxDepth
		pcfg.Threads = cfg.Threads
		pcfg.TableCapacity = cfg.TranspositionSize
		return pvs.New(e.Eval, pcfg, e.table, e.hash, cfg.Seed), nil
	case config.PlayerMCTS:
		mcfg := mcts.DefaultConfig()
		mcfg.Threads = cfg.Threads
		return mcts.New(e.Eval, mcfg, cfg.Seed), nil
	case config.PlayerAlphaZero:
		pe, ok := e.Eval.(eval.PolicyEvaluator)
		if !ok {
			return nil, fmt.Errorf("engine: player alphazero requires a policy-capable evaluator")
		}
		return alphazero.New(pe, alphazero.DefaultConfig(), cfg.Seed), nil
	default:
		return nil, fmt.Errorf("engine: unknown player %q", cfg.Player)
	}
}

// NewGame discards any persistent search state (transposition table
// entries, in particular), matching UPI's `newgame` semantics.
func (e *Engine) NewGame() {
	if e.table != nil {
		e.table.Clear()
	}
}

// Close releases any resources the engine owns, notably an ONNX
// Runtime session.
func (e *Engine) Close() error {
	if e.neural != nil {
		return e.neural.Close()
	}
	return nil
}

// Rebuild replaces the engine's player/evaluator in place after a
// `setoption` changes something that requires a fresh construction
// (evaluator kind, model path, search algorithm). Existing shared
// state (transposition table, zobrist table) is dropped along with the
// old player.
func (e *Engine) Rebuild(cfg config.Config) error {
	if err := e.Close(); err != nil {
		return err
	}
	rebuilt, err := Build(cfg)
	if err != nil {
		return err
	}
	*e = *rebuilt
	return nil
}
