// Package config loads the engine's tunable parameters — time limits,
// transposition table size, thread count, evaluator kind — from a
// config file and environment variables via spf13/viper, and applies
// UPI `setoption` overrides through SetOption.
package config

import (
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/pbnjay/memory"
	"github.com/spf13/viper"
)

// Evaluator names the pluggable position evaluator to construct.
type Evaluator string

const (
	EvaluatorStatic       Evaluator = "static"
	EvaluatorWinRollout   Evaluator = "win_rollout"
	EvaluatorScoreRollout Evaluator = "score_rollout"
	EvaluatorNeural       Evaluator = "neural"
)

// Player names the pluggable search algorithm to construct.
type Player string

const (
	PlayerRandom    Player = "random"
	PlayerGreedy    Player = "greedy"
	PlayerAlphaBeta Player = "alphabeta"
	PlayerPVS       Player = "pvs"
	PlayerMCTS      Player = "mcts"
	PlayerAlphaZero Player = "alphazero"
)

// Config is the full set of runtime-tunable engine parameters.
type Config struct {
	MoveTime          time.Duration
	MaxDepth          int
	MaxNodes          int
	TranspositionSize int
	Threads           int
	Seed              int64

	Evaluator Evaluator
	Player    Player
	ModelPath string // ONNX model, required when Evaluator == neural

	LogLevel string
}

// transpositionEntryBytes approximates the footprint of one pvs.Entry
// slot, used to translate a fraction of system memory into an entry
// count via pbnjay/memory.TotalMemory.
const transpositionEntryBytes = 64

// autoTranspositionSize picks a transposition table capacity equal to
// the largest power of two using no more than memoryFraction of total
// system memory, clamped to a sane floor and ceiling so a starved or
// enormous host still gets a usable table.
func autoTranspositionSize(memoryFraction float64) int {
	total := memory.TotalMemory()
	desired := memoryFraction * float64(total) / float64(transpositionEntryBytes)
	if desired < (1 << 16) {
		return 1 << 16
	}
	shift := int(math.Log2(desired))
	if shift > 26 {
		shift = 26
	}
	return 1 << shift
}

// Default returns the engine's out-of-the-box configuration.
func Default() Config {
	return Config{
		MoveTime:          5 * time.Second,
		MaxDepth:          6,
		MaxNodes:          0,
		TranspositionSize: 1 << 20,
		Threads:           1,
		Seed:              1,
		Evaluator:         EvaluatorStatic,
		Player:            PlayerPVS,
		LogLevel:          "info",
	}
}

// newViper builds a viper instance pre-seeded with Default()'s values,
// bound to PATCHWORK_-prefixed environment variables so a deployment
// can override any field without a config file.
func newViper() *viper.Viper {
	v := viper.New()
	v.SetEnvPrefix("PATCHWORK")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	d := Default()
	v.SetDefault("move_time_ms", d.MoveTime.Milliseconds())
	v.SetDefault("max_depth", d.MaxDepth)
	v.SetDefault("max_nodes", d.MaxNodes)
	v.SetDefault("transposition_size", d.TranspositionSize)
	v.SetDefault("threads", d.Threads)
	v.SetDefault("seed", d.Seed)
	v.SetDefault("evaluator", string(d.Evaluator))
	v.SetDefault("player", string(d.Player))
	v.SetDefault("model_path", "")
	v.SetDefault("log_level", d.LogLevel)
	return v
}

// Load reads configPath (if non-empty) as a viper config file layered
// over Default(), with PATCHWORK_* environment variables taking
// precedence over both, and returns the resolved Config.
func Load(configPath string) (Config, error) {
	v := newViper()
	if configPath != "" {
		v.SetConfigFile(configPath)
		if err := v.ReadInConfig(); err != nil {
			return Config{}, fmt.Errorf("config: reading %s: %w", configPath, err)
		}
	}

	cfg := Config{
		MoveTime:          time.Duration(v.GetInt64("move_time_ms")) * time.Millisecond,
		MaxDepth:          v.GetInt("max_depth"),
		MaxNodes:          v.GetInt("max_nodes"),
		TranspositionSize: v.GetInt("transposition_size"),
		Threads:           v.GetInt("threads"),
		Seed:              v.GetInt64("seed"),
		Evaluator:         Evaluator(v.GetString("evaluator")),
		Player:            Player(v.GetString("player")),
		ModelPath:         v.GetString("model_path"),
		LogLevel:          v.GetString("log_level"),
	}
	if cfg.TranspositionSize <= 0 {
		cfg.TranspositionSize = autoTranspositionSize(0.25)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate rejects combinations that would fail later in a less
// diagnosable way, notably a neural evaluator with no model path.
func (c Config) Validate() error {
	switch c.Evaluator {
	case EvaluatorStatic, EvaluatorWinRollout, EvaluatorScoreRollout:
	case EvaluatorNeural:
		if c.ModelPath == "" {
			return fmt.Errorf("config: evaluator %q requires model_path", c.Evaluator)
		}
	default:
		return fmt.Errorf("config: unknown evaluator %q", c.Evaluator)
	}
	switch c.Player {
	case PlayerRandom, PlayerGreedy, PlayerAlphaBeta, PlayerPVS, PlayerMCTS, PlayerAlphaZero:
	default:
		return fmt.Errorf("config: unknown player %q", c.Player)
	}
	if c.Threads < 1 {
		return fmt.Errorf("config: threads must be >= 1, got %d", c.Threads)
	}
	if c.Player == PlayerAlphaZero && c.Evaluator != EvaluatorNeural {
		return fmt.Errorf("config: player alphazero requires evaluator neural")
	}
	return nil
}

// SetOption applies a single `setoption name <n> value <v>` UPI
// directive to a running Config in place and returns the result of
// Validate on the updated value. Unknown names are rejected rather
// than silently ignored.
func (c *Config) SetOption(name, value string) error {
	switch strings.ToLower(name) {
	case "movetime":
		ms, err := parseInt(value)
		if err != nil {
			return err
		}
		c.MoveTime = time.Duration(ms) * time.Millisecond
	case "maxdepth":
		v, err := parseInt(value)
		if err != nil {
			return err
		}
		c.MaxDepth = v
	case "maxnodes":
		v, err := parseInt(value)
		if err != nil {
			return err
		}
		c.MaxNodes = v
	case "transpositionsize":
		if strings.EqualFold(value, "auto") {
			c.TranspositionSize = autoTranspositionSize(0.25)
			break
		}
		v, err := parseInt(value)
		if err != nil {
			return err
		}
		c.TranspositionSize = v
	case "threads":
		v, err := parseInt(value)
		if err != nil {
			return err
		}
		c.Threads = v
	case "evaluator":
		c.Evaluator = Evaluator(value)
	case "player":
		c.Player = Player(value)
	case "modelpath":
		c.ModelPath = value
	default:
		return fmt.Errorf("config: unknown option %q", name)
	}
	return c.Validate()
}

func parseInt(s string) (int, error) {
	var v int
	_, err := fmt.Sscanf(s, "%d", &v)
	if err != nil {
		return 0, fmt.Errorf("config: invalid integer %q: %w", s, err)
	}
	return v, nil
}
