// Package shell implements an interactive readline-based REPL for
// manual play and debugging: one struct owning the readline instance
// and the current game state, dispatching each line through a command
// switch.
package shell

import (
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/chzyer/readline"
	"github.com/rs/zerolog/log"

	"github.com/patchwork-engine/patchwork/action"
	"github.com/patchwork-engine/patchwork/config"
	"github.com/patchwork-engine/patchwork/engine"
	"github.com/patchwork-engine/patchwork/game"
	"github.com/patchwork-engine/patchwork/notation"
)

func deadlineFromConfig(cfg config.Config) time.Time {
	return time.Now().Add(cfg.MoveTime)
}

// Controller drives one interactive session.
type Controller struct {
	l   *readline.Instance
	out io.Writer

	cfg   config.Config
	eng   *engine.Engine
	state *game.State
	seed  uint64
	ids   []action.ID
}

func filterInput(r rune) (rune, bool) {
	if r == readline.CharCtrlZ {
		return r, false
	}
	return r, true
}

// New builds a Controller reading from the terminal via readline and
// writing to out.
func New(out io.Writer, cfg config.Config) (*Controller, error) {
	l, err := readline.NewEx(&readline.Config{
		Prompt:              "\033[32mpatchwork>\033[0m ",
		HistoryFile:         "/tmp/patchwork_readline.tmp",
		EOFPrompt:           "exit",
		InterruptPrompt:     "^C",
		HistorySearchFold:   true,
		FuncFilterInputRune: filterInput,
	})
	if err != nil {
		return nil, fmt.Errorf("shell: initializing readline: %w", err)
	}

	eng, err := engine.Build(cfg)
	if err != nil {
		return nil, err
	}

	return &Controller{
		l:     l,
		out:   out,
		cfg:   cfg,
		eng:   eng,
		state: game.New(uint64(cfg.Seed)),
		seed:  uint64(cfg.Seed),
	}, nil
}

func (c *Controller) show(msg string) {
	fmt.Fprintln(c.out, msg)
}

func (c *Controller) showError(err error) {
	fmt.Fprintf(c.out, "error: %v\n", err)
}

// Loop reads and dispatches commands until `quit`, EOF, or Ctrl-C on
// an empty line.
func (c *Controller) Loop() {
	defer c.l.Close()
	defer func() {
		if err := c.eng.Close(); err != nil {
			log.Error().Err(err).Msg("shell: closing engine")
		}
	}()

	for {
		line, err := c.l.Readline()
		if err == readline.ErrInterrupt {
			if len(line) == 0 {
				break
			}
			continue
		} else if err == io.EOF {
			break
		}
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		if c.dispatch(line) {
			break
		}
	}
}

// dispatch handles one command line, returning true if the loop should
// exit.
func (c *Controller) dispatch(line string) bool {
	fields := strings.Fields(line)
	cmd, args := fields[0], fields[1:]

	switch cmd {
	case "new":
		c.cmdNew(args)
	case "show":
		c.cmdShow()
	case "legal":
		c.cmdLegal()
	case "apply":
		c.cmdApply(args)
	case "undo":
		c.cmdUndo()
	case "go":
		c.cmdGo()
	case "history":
		c.cmdHistory()
	case "help":
		c.cmdHelp()
	case "quit", "exit":
		return true
	default:
		c.show(fmt.Sprintf("unknown command %q; try `help`", cmd))
	}
	return false
}

func (c *Controller) cmdHelp() {
	c.show("commands: new [seed] | show | legal | apply <token|id> | undo | go | history | quit")
}

func (c *Controller) cmdNew(args []string) {
	seed := c.seed
	if len(args) > 0 {
		v, err := strconv.ParseUint(args[0], 10, 64)
		if err != nil {
			c.showError(fmt.Errorf("bad seed %q: %w", args[0], err))
			return
		}
		seed = v
	}
	c.seed = seed
	c.state = game.New(seed)
	c.ids = nil
	c.eng.NewGame()
	c.show(fmt.Sprintf("new game, seed=%d", seed))
}

func (c *Controller) cmdShow() {
	s := c.state
	c.show(fmt.Sprintf("player 1: pos=%d balance=%d empty=%d", s.P1.Position, s.P1.ButtonBalance, s.P1.Quilt.EmptyCells()))
	c.show(fmt.Sprintf("player 2: pos=%d balance=%d empty=%d", s.P2.Position, s.P2.ButtonBalance, s.P2.Quilt.EmptyCells()))
	c.show(fmt.Sprintf("current player: %d  turn type: %d  special tile: %d", s.Status.CurrentPlayer, s.TurnType, s.Status.SpecialTile))
}

func (c *Controller) cmdLegal() {
	for _, id := range c.state.LegalActions() {
		tok, _ := notation.Encode(id)
		c.show(fmt.Sprintf("%d\t%s", id, tok))
	}
}

func (c *Controller) cmdApply(args []string) {
	if len(args) != 1 {
		c.show("usage: apply <token|id>")
		return
	}
	id, err := parseMove(args[0])
	if err != nil {
		c.showError(err)
		return
	}
	if err := c.state.Apply(id); err != nil {
		c.showError(err)
		return
	}
	c.ids = append(c.ids, id)
}

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

func (c *Controller) cmdUndo() {
	if err := c.state.Undo(); err != nil {
		c.showError(err)
		return
	}
	if len(c.ids) > 0 {
		c.ids = c.ids[:len(c.ids)-1]
	}
}

func (c *Controller) cmdGo() {
	id := c.eng.Player.ChooseAction(c.state, deadlineFromConfig(c.cfg))
	tok, _ := notation.Encode(id)
	c.show(fmt.Sprintf("chosen: %d (%s)", id, tok))
	if err := c.state.Apply(id); err != nil {
		c.showError(err)
		return
	}
	c.ids = append(c.ids, id)
}

func (c *Controller) cmdHistory() {
	hist, err := notation.Record(c.seed, c.ids)
	if err != nil {
		c.showError(err)
		return
	}
	c.show(notation.Write(hist))
}
