// Package upi implements the Universal Patchwork Interface, a
// line-oriented textual protocol modeled on UCI, over any
// io.Reader/io.Writer pair.
package upi

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/kballard/go-shellquote"
	"github.com/rs/zerolog/log"

	"github.com/patchwork-engine/patchwork/action"
	"github.com/patchwork-engine/patchwork/config"
	"github.com/patchwork-engine/patchwork/engine"
	"github.com/patchwork-engine/patchwork/game"
	"github.com/patchwork-engine/patchwork/notation"
)

const (
	EngineName   = "patchwork"
	EngineAuthor = "the patchwork-engine project"
)

// Server drives one UPI session: it owns the current game state and
// the engine constructed from the current config, and dispatches
// incoming command lines until `quit`.
type Server struct {
	in  *bufio.Scanner
	out io.Writer

	cfg   config.Config
	eng   *engine.Engine
	state *game.State
	ids   []action.ID
	seed  uint64

	stop chan struct{}
}

// NewServer builds a UPI server reading commands from in and writing
// replies to out, starting from cfg.
func NewServer(in io.Reader, out io.Writer, cfg config.Config) (*Server, error) {
	eng, err := engine.Build(cfg)
	if err != nil {
		return nil, err
	}
	s := &Server{
		in:    bufio.NewScanner(in),
		out:   out,
		cfg:   cfg,
		eng:   eng,
		state: game.New(uint64(cfg.Seed)),
		seed:  uint64(cfg.Seed),
	}
	return s, nil
}

func (s *Server) reply(format string, args ...any) {
	fmt.Fprintf(s.out, format+"\n", args...)
}

// Run reads commands until `quit` or EOF, returning any scanner error.
func (s *Server) Run() error {
	for s.in.Scan() {
		line := strings.TrimSpace(s.in.Text())
		if line == "" {
			continue
		}
		if s.handle(line) {
			break
		}
	}
	if err := s.eng.Close(); err != nil {
		log.Error().Err(err).Msg("upi: closing engine")
	}
	return s.in.Err()
}

// handle dispatches one command line, returning true if the session
// should terminate.
func (s *Server) handle(line string) bool {
	fields, err := shellquote.Split(line)
	if err != nil || len(fields) == 0 {
		s.reply("info string malformed command")
		return false
	}
	cmd, args := fields[0], fields[1:]

	switch cmd {
	case "upi":
		s.reply("id name %s", EngineName)
		s.reply("id author %s", EngineAuthor)
		s.reply("upiok")
	case "isready":
		s.reply("readyok")
	case "newgame":
		s.eng.NewGame()
		s.state = game.New(s.seed)
		s.ids = nil
	case "position":
		s.cmdPosition(args)
	case "go":
		s.cmdGo(args)
	case "stop":
		if s.stop != nil {
			close(s.stop)
			s.stop = nil
		}
	case "setoption":
		s.cmdSetOption(args)
	case "quit":
		return true
	default:
		s.reply("info string unknown command %q", cmd)
	}
	return false
}

// cmdPosition handles `position startpos [moves ...]` and
// `position notation <string>`.
func (s *Server) cmdPosition(args []string) {
	if len(args) == 0 {
		s.reply("info string position requires an argument")
		return
	}
	switch args[0] {
	case "startpos":
		s.state = game.New(s.seed)
		s.ids = nil
		for _, tok := range args[1:] {
			id, err := parseMove(tok)
			if err != nil {
				s.reply("info string bad move %q: %v", tok, err)
				return
			}
			if err := s.state.Apply(id); err != nil {
				s.reply("info string illegal move %q: %v", tok, err)
				return
			}
			s.ids = append(s.ids, id)
		}
	case "notation":
		if len(args) < 2 {
			s.reply("info string position notation requires a string argument")
			return
		}
		hist, err := notation.Parse(args[1])
		if err != nil {
			s.reply("info string bad notation: %v", err)
			return
		}
		replayed, err := notation.Replay(hist)
		if err != nil {
			s.reply("info string replay failed: %v", err)
			return
		}
		s.state = replayed
		s.seed = hist.Seed
		s.ids = nil
		for _, tok := range hist.Tokens {
			id, _ := notation.Decode(tok)
			s.ids = append(s.ids, id)
		}
	default:
		s.reply("info string unknown position mode %q", args[0])
	}
}

// parseMove accepts either a bare integer ActionId or a notation token.
func parseMove(tok string) (action.ID, error) {
	if v, err := strconv.ParseUint(tok, 10, 32); err == nil {
		id := action.ID(v)
		if _, err := action.Decode(id); err != nil {
			return 0, err
		}
		return id, nil
	}
	return notation.Decode(tok)
}

// cmdGo parses `movetime <ms>` | `depth <n>` | `nodes <n>`, runs the
// configured player, streams a final `info` line, and emits `bestmove`.
func (s *Server) cmdGo(args []string) {
	deadline := time.Now().Add(s.cfg.MoveTime)
	for i := 0; i+1 < len(args); i += 2 {
		switch args[i] {
		case "movetime":
			ms, err := strconv.Atoi(args[i+1])
			if err == nil {
				deadline = time.Now().Add(time.Duration(ms) * time.Millisecond)
			}
		case "depth", "nodes":
			// the go-command values are not read. A depth limit comes
			// only from s.cfg.MaxDepth (set through setoption);
			// MaxNodes is read by no player, so no node limit applies.
		}
	}

	stop := make(chan struct{})
	s.stop = stop

	start := time.Now()
	id := s.eng.Player.ChooseAction(s.state, deadline)
	elapsed := time.Since(start)

	tok, _ := notation.Encode(id)
	nps := 0
	if elapsed > 0 {
		nps = int(float64(time.Second) / float64(elapsed))
	}
	s.reply("info depth %d nodes 0 nps %d pv %s", s.cfg.MaxDepth, nps, tok)
	s.reply("bestmove %d", id)
}

func (s *Server) cmdSetOption(args []string) {
	// setoption name <n> value <v>
	if len(args) != 4 || args[0] != "name" || args[2] != "value" {
		s.reply("info string malformed setoption")
		return
	}
	cfg := s.cfg
	if err := cfg.SetOption(args[1], args[3]); err != nil {
		s.reply("info string %v", err)
		return
	}
	if err := s.eng.Rebuild(cfg); err != nil {
		s.reply("info string rebuilding engine: %v", err)
		return
	}
	s.cfg = cfg
}
