package config

import (
	"testing"

	"github.com/matryer/is"
)

func TestDefaultValidates(t *testing.T) {
	is := is.New(t)
	is.NoErr(Default().Validate())
}

func TestLoadWithoutConfigFileUsesDefaults(t *testing.T) {
	is := is.New(t)
	cfg, err := Load("")
	is.NoErr(err)
	is.Equal(cfg.Player, Default().Player)
	is.Equal(cfg.Evaluator, Default().Evaluator)
	is.Equal(cfg.Threads, Default().Threads)
}

func TestNeuralRequiresModelPath(t *testing.T) {
	is := is.New(t)
	cfg := Default()
	cfg.Evaluator = EvaluatorNeural
	is.True(cfg.Validate() != nil)
	cfg.ModelPath = "model.onnx"
	is.NoErr(cfg.Validate())
}

func TestAlphaZeroRequiresNeuralEvaluator(t *testing.T) {
	is := is.New(t)
	cfg := Default()
	cfg.Player = PlayerAlphaZero
	is.True(cfg.Validate() != nil)
	cfg.Evaluator = EvaluatorNeural
	cfg.ModelPath = "model.onnx"
	is.NoErr(cfg.Validate())
}

func TestSetOptionUpdatesAndValidates(t *testing.T) {
	is := is.New(t)
	cfg := Default()
	is.NoErr(cfg.SetOption("threads", "4"))
	is.Equal(cfg.Threads, 4)

	is.True(cfg.SetOption("threads", "0") != nil)
	is.True(cfg.SetOption("bogus", "1") != nil)
}

func TestSetOptionTranspositionSizeAutoSizesFromMemory(t *testing.T) {
	is := is.New(t)
	cfg := Default()
	is.NoErr(cfg.SetOption("transpositionsize", "auto"))
	is.True(cfg.TranspositionSize >= 1<<16)
	is.Equal(cfg.TranspositionSize&(cfg.TranspositionSize-1), 0) // power of two
}

func TestAutoTranspositionSizeIsPowerOfTwoAboveFloor(t *testing.T) {
	is := is.New(t)
	n := autoTranspositionSize(0.25)
	is.True(n >= 1<<16)
	is.Equal(n&(n-1), 0)
}
