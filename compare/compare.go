// Package compare implements the `compare` CLI mode: running many
// games between two named search players at a given parallelism,
// persisting results to SQLite, and summarizing the outcome.
package compare

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"time"

	"github.com/aybabtme/uniplot/histogram"
	"golang.org/x/sync/errgroup"
	"gopkg.in/yaml.v3"

	"github.com/patchwork-engine/patchwork/action"
	"github.com/patchwork-engine/patchwork/config"
	"github.com/patchwork-engine/patchwork/engine"
	"github.com/patchwork-engine/patchwork/game"
	"github.com/patchwork-engine/patchwork/notation"
	"github.com/patchwork-engine/patchwork/stats"
)

// Batch is one parsed `compare` directive: two player names (matching
// config.Player values), a game count, and a parallelism degree.
type Batch struct {
	Player1     string
	Player2     string
	Games       int
	Parallelism int
	ReportPath  string // if non-empty, a YAML summary is written here
}

// EnsureSchema creates the results table if it does not already exist.
func EnsureSchema(db *sql.DB) error {
	_, err := db.Exec(`
CREATE TABLE IF NOT EXISTS games (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	player_1 TEXT NOT NULL,
	player_2 TEXT NOT NULL,
	seed INTEGER NOT NULL,
	swapped INTEGER NOT NULL,
	player_1_score INTEGER NOT NULL,
	player_2_score INTEGER NOT NULL,
	winner INTEGER NOT NULL,
	draw INTEGER NOT NULL,
	notation TEXT NOT NULL
)`)
	if err != nil {
		return fmt.Errorf("compare: creating schema: %w", err)
	}
	return nil
}

type gameResult struct {
	seed     uint64
	swapped  bool
	outcome  game.Result
	notation string
}

// RunBatch plays batch.Games games between the two named players at
// batch.Parallelism concurrency, alternating who moves first, and
// persists each game to db. It then prints a score-differential
// histogram and a win/draw/loss summary to stdout.
func RunBatch(ctx context.Context, db *sql.DB, cfg config.Config, batch Batch) error {
	p1cfg, p2cfg := cfg, cfg
	p1cfg.Player = config.Player(batch.Player1)
	p2cfg.Player = config.Player(batch.Player2)
	if err := p1cfg.Validate(); err != nil {
		return fmt.Errorf("compare: player1 %q: %w", batch.Player1, err)
	}
	if err := p2cfg.Validate(); err != nil {
		return fmt.Errorf("compare: player2 %q: %w", batch.Player2, err)
	}

	results := make([]gameResult, batch.Games)

	g, ctx := errgroup.WithContext(ctx)
	sem := make(chan struct{}, max(1, batch.Parallelism))
	for i := 0; i < batch.Games; i++ {
		i := i
		g.Go(func() error {
			select {
			case sem <- struct{}{}:
			case <-ctx.Done():
				return ctx.Err()
			}
			defer func() { <-sem }()

			seed := uint64(cfg.Seed) + uint64(i)
			swapped := i%2 == 1
			res, err := playOneGame(p1cfg, p2cfg, seed, swapped)
			if err != nil {
				return fmt.Errorf("compare: game %d: %w", i, err)
			}
			results[i] = res
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return err
	}

	if err := persist(db, batch, results); err != nil {
		return err
	}
	report := summarize(batch, results)
	if batch.ReportPath != "" {
		if err := writeReport(batch.ReportPath, report); err != nil {
			return err
		}
	}
	return nil
}

// Report is a batch's aggregate result, YAML-serializable for a
// downstream tournament tracker.
type Report struct {
	Player1  string  `yaml:"player_1"`
	Player2  string  `yaml:"player_2"`
	Games    int     `yaml:"games"`
	Wins     int     `yaml:"wins"`
	Draws    int     `yaml:"draws"`
	Losses   int     `yaml:"losses"`
	MeanDiff float64 `yaml:"mean_score_diff"`
	Stdev    float64 `yaml:"stdev"`
	StdErr   float64 `yaml:"stderr"`
	Margin99 float64 `yaml:"mean_score_diff_margin_99"` // half-width of the 99% CI on MeanDiff
}

func writeReport(path string, r Report) error {
	out, err := yaml.Marshal(r)
	if err != nil {
		return fmt.Errorf("compare: marshaling report: %w", err)
	}
	if err := os.WriteFile(path, out, 0o644); err != nil {
		return fmt.Errorf("compare: writing report %s: %w", path, err)
	}
	return nil
}

// playOneGame runs a single game to completion between two engines,
// swapping which underlying player controls Player1/Player2 when
// swapped is true so each named player gets an even mix of first- and
// second-move games across a batch.
func playOneGame(p1cfg, p2cfg config.Config, seed uint64, swapped bool) (gameResult, error) {
	first, second := p1cfg, p2cfg
	if swapped {
		first, second = p2cfg, p1cfg
	}

	e1, err := engine.Build(first)
	if err != nil {
		return gameResult{}, err
	}
	defer e1.Close()
	e2, err := engine.Build(second)
	if err != nil {
		return gameResult{}, err
	}
	defer e2.Close()

	s := game.New(seed)
	var ids []action.ID
	for !s.IsTerminal() {
		var id action.ID
		if s.Status.CurrentPlayer == game.Player1 {
			id = e1.Player.ChooseAction(s, time.Now().Add(first.MoveTime))
		} else {
			id = e2.Player.ChooseAction(s, time.Now().Add(second.MoveTime))
		}
		if err := s.Apply(id); err != nil {
			return gameResult{}, fmt.Errorf("engine produced illegal action %d: %w", id, err)
		}
		ids = append(ids, id)
	}

	hist, err := notation.Record(seed, ids)
	if err != nil {
		return gameResult{}, err
	}

	return gameResult{
		seed:     seed,
		swapped:  swapped,
		outcome:  s.Outcome(),
		notation: notation.Write(hist),
	}, nil
}

func persist(db *sql.DB, batch Batch, results []gameResult) error {
	tx, err := db.Begin()
	if err != nil {
		return fmt.Errorf("compare: beginning transaction: %w", err)
	}
	stmt, err := tx.Prepare(`
INSERT INTO games (player_1, player_2, seed, swapped, player_1_score, player_2_score, winner, draw, notation)
VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		tx.Rollback()
		return fmt.Errorf("compare: preparing insert: %w", err)
	}
	defer stmt.Close()

	for _, r := range results {
		if _, err := stmt.Exec(batch.Player1, batch.Player2, r.seed, r.swapped,
			r.outcome.Player1Score, r.outcome.Player2Score, int(r.outcome.Winner), r.outcome.Draw, r.notation); err != nil {
			tx.Rollback()
			return fmt.Errorf("compare: inserting result: %w", err)
		}
	}
	return tx.Commit()
}

// summarize prints a uniplot histogram of (player1 - player2) score
// differentials and a win/draw/loss count with mean-differential
// standard error, using the Welford accumulator for the mean, stdev
// and standard error; every differential is also kept in a slice for
// the histogram.
func summarize(batch Batch, results []gameResult) Report {
	var diffs []float64
	var diffStat stats.Statistic
	wins, draws, losses := 0, 0, 0

	for _, r := range results {
		p1score, p2score := r.outcome.Player1Score, r.outcome.Player2Score
		winner := r.outcome.Winner
		if r.swapped {
			// results were recorded with the roles swapped; flip back
			// to batch.Player1's perspective before aggregating.
			p1score, p2score = p2score, p1score
			winner = flip(winner)
		}
		diff := float64(p1score - p2score)
		diffs = append(diffs, diff)
		diffStat.Push(diff)

		switch {
		case r.outcome.Draw:
			draws++
		case winner == game.Player1:
			wins++
		default:
			losses++
		}
	}

	margin99 := stats.ZVal(99) * diffStat.StandardError()

	fmt.Printf("%s vs %s over %d games:\n", batch.Player1, batch.Player2, len(results))
	fmt.Printf("  wins=%d draws=%d losses=%d\n", wins, draws, losses)
	fmt.Printf("  mean score diff=%.2f±%.2f (99%% CI) stdev=%.2f stderr=%.2f\n",
		diffStat.Mean(), margin99, diffStat.Stdev(), diffStat.StandardError())

	if len(diffs) > 1 {
		h := histogram.Hist(15, diffs)
		if err := histogram.Fprint(os.Stdout, h, histogram.Linear(60)); err != nil {
			fmt.Printf("  (histogram unavailable: %v)\n", err)
		}
	}

	return Report{
		Player1:  batch.Player1,
		Player2:  batch.Player2,
		Games:    len(results),
		Wins:     wins,
		Draws:    draws,
		Losses:   losses,
		MeanDiff: diffStat.Mean(),
		Stdev:    diffStat.Stdev(),
		StdErr:   diffStat.StandardError(),
		Margin99: margin99,
	}
}

func flip(h game.Holder) game.Holder {
	switch h {
	case game.Player1:
		return game.Player2
	case game.Player2:
		return game.Player1
	default:
		return game.None
	}
}

func max(a, b int) int {
	if a > b {
		return a
	}
	return b
}
