// Command patchwork is the single binary exposing the engine: `upi`
// for the line-oriented engine protocol, `shell` for interactive play,
// and `compare` for batch engine-vs-engine tournaments.
package main

import (
	"bufio"
	"context"
	"database/sql"
	"fmt"
	"os"
	"strconv"

	_ "modernc.org/sqlite"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/patchwork-engine/patchwork/compare"
	"github.com/patchwork-engine/patchwork/config"
	"github.com/patchwork-engine/patchwork/shell"
	"github.com/patchwork-engine/patchwork/upi"
)

func main() {
	os.Exit(run(os.Args[1:]))
}

func run(args []string) int {
	if len(args) == 0 {
		fmt.Fprintln(os.Stderr, "usage: patchwork <upi|shell|compare> [flags]")
		return 2
	}

	zerolog.SetGlobalLevel(zerolog.InfoLevel)
	log.Logger = log.Output(os.Stderr)

	cfg, err := config.Load(os.Getenv("PATCHWORK_CONFIG"))
	if err != nil {
		log.Error().Err(err).Msg("loading config")
		return 1
	}

	switch args[0] {
	case "upi":
		return runUPI(cfg)
	case "shell":
		return runShell(cfg)
	case "compare":
		return runCompare(cfg)
	default:
		fmt.Fprintf(os.Stderr, "unknown subcommand %q\n", args[0])
		return 2
	}
}

func runUPI(cfg config.Config) int {
	s, err := upi.NewServer(os.Stdin, os.Stdout, cfg)
	if err != nil {
		log.Error().Err(err).Msg("starting upi server")
		return 1
	}
	if err := s.Run(); err != nil {
		log.Error().Err(err).Msg("upi session ended with error")
		return 1
	}
	return 0
}

func runShell(cfg config.Config) int {
	c, err := shell.New(os.Stdout, cfg)
	if err != nil {
		log.Error().Err(err).Msg("starting shell")
		return 1
	}
	c.Loop()
	return 0
}

// runCompare reads the batch-comparison syntax from stdin:
//
//	compare
//	<player1>
//	<player2>
//	<games>
//	<parallelism>
//
// repeated for as many batches as stdin contains, persisting every
// game's result to a local SQLite database and printing a score-diff
// histogram plus win/draw/loss summary per batch.
func runCompare(cfg config.Config) int {
	db, err := sql.Open("sqlite", "patchwork_compare.db")
	if err != nil {
		log.Error().Err(err).Msg("opening results database")
		return 1
	}
	defer db.Close()

	if err := compare.EnsureSchema(db); err != nil {
		log.Error().Err(err).Msg("preparing results database")
		return 1
	}

	sc := bufio.NewScanner(os.Stdin)
	for sc.Scan() {
		if sc.Text() != "compare" {
			continue
		}
		batch, err := readBatch(sc)
		if err != nil {
			log.Error().Err(err).Msg("reading compare batch")
			return 1
		}
		if err := compare.RunBatch(context.Background(), db, cfg, batch); err != nil {
			log.Error().Err(err).Msg("running compare batch")
			return 1
		}
	}
	if err := sc.Err(); err != nil {
		log.Error().Err(err).Msg("reading stdin")
		return 1
	}
	return 0
}

func readBatch(sc *bufio.Scanner) (compare.Batch, error) {
	fields := []string{}
	for i := 0; i < 4; i++ {
		if !sc.Scan() {
			return compare.Batch{}, fmt.Errorf("cmd: unexpected end of input reading compare batch")
		}
		fields = append(fields, sc.Text())
	}
	games, err := strconv.Atoi(fields[2])
	if err != nil {
		return compare.Batch{}, fmt.Errorf("cmd: bad games count %q: %w", fields[2], err)
	}
	parallelism, err := strconv.Atoi(fields[3])
	if err != nil {
		return compare.Batch{}, fmt.Errorf("cmd: bad parallelism %q: %w", fields[3], err)
	}
	return compare.Batch{
		Player1:     fields[0],
		Player2:     fields[1],
		Games:       games,
		Parallelism: parallelism,
	}, nil
}
