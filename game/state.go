// Package game implements the Patchwork game state: the tuple of patch
// queue, turn type, status flags, two player states and time board,
// together with legal-move enumeration, apply, undo, termination and
// scoring.
package game

import (
	"github.com/patchwork-engine/patchwork/quilt"
	"github.com/patchwork-engine/patchwork/timeboard"
)

// TurnType distinguishes the two modes of play.
type TurnType uint8

const (
	Normal TurnType = iota
	SpecialPatchPlacement
)

// Holder identifies which player (if any) owns a status flag.
type Holder uint8

const (
	None Holder = iota
	Player1
	Player2
)

// StatusFlags packs the bits describing whose turn it is and who, if
// anyone, holds the 7x7 bonus or was first to reach the final cell.
type StatusFlags struct {
	CurrentPlayer Holder // always Player1 or Player2, never None
	SpecialTile   Holder
	FirstToGoal   Holder
}

// PlayerState is one player's mutable position on the board.
type PlayerState struct {
	Position      int // duplicated from the time board for O(1) access
	ButtonBalance int
	Quilt         quilt.Board
}

// Clone returns a deep copy of a player state.
func (p PlayerState) Clone() PlayerState {
	return p // quilt.Board and the scalar fields are all value types
}

// State is the full Patchwork game position.
type State struct {
	Queue     *Queue
	TurnType  TurnType
	Status    StatusFlags
	TimeBoard *timeboard.Board
	P1        PlayerState
	P2        PlayerState

	// PendingSpecialPatches counts special-patch markers the current
	// mover has crossed but not yet placed. A single move can cross
	// more than one marker; TurnType stays SpecialPatchPlacement and
	// the turn does not pass until this reaches zero.
	PendingSpecialPatches int

	undo []undoRecord
}

// StartingButtons is the initial button balance for each player.
const StartingButtons = 5

// New builds the initial game state: a freshly shuffled patch queue
// seeded by seed, both players at position 0 with 5 buttons and an
// empty board, player 1 to move.
func New(seed uint64) *State {
	return &State{
		Queue:     NewQueue(seed),
		TurnType:  Normal,
		Status:    StatusFlags{CurrentPlayer: Player1},
		TimeBoard: timeboard.New(),
		P1:        PlayerState{ButtonBalance: StartingButtons},
		P2:        PlayerState{ButtonBalance: StartingButtons},
	}
}

// Clone returns a deep, independent copy suitable for search workers.
func (s *State) Clone() *State {
	return &State{
		Queue:                 s.Queue.Clone(),
		TurnType:              s.TurnType,
		Status:                s.Status,
		TimeBoard:             s.TimeBoard.Clone(),
		P1:                    s.P1.Clone(),
		P2:                    s.P2.Clone(),
		PendingSpecialPatches: s.PendingSpecialPatches,
	}
}

// Current returns a pointer to the player state on turn.
func (s *State) Current() *PlayerState {
	if s.Status.CurrentPlayer == Player1 {
		return &s.P1
	}
	return &s.P2
}

// Other returns a pointer to the player state not on turn.
func (s *State) Other() *PlayerState {
	if s.Status.CurrentPlayer == Player1 {
		return &s.P2
	}
	return &s.P1
}

// PlayerByHolder returns a pointer to the player state for a given
// non-None holder.
func (s *State) PlayerByHolder(h Holder) *PlayerState {
	if h == Player1 {
		return &s.P1
	}
	return &s.P2
}

// IsTerminal reports whether both players have reached the final cell.
func (s *State) IsTerminal() bool {
	return s.P1.Position >= timeboard.MaxPosition && s.P2.Position >= timeboard.MaxPosition
}

// Score computes a player's final score: button balance, plus 7 if
// they hold the 7x7 bonus, minus 2 per empty quilt cell.
func Score(p *PlayerState, holdsBonus bool) int {
	score := p.ButtonBalance
	if holdsBonus {
		score += 7
	}
	score -= 2 * p.Quilt.EmptyCells()
	return score
}

// Result is the outcome of a terminated game.
type Result struct {
	Player1Score int
	Player2Score int
	Winner       Holder // None on a draw
	Draw         bool
}

// Outcome computes the final result of a terminal state. Ties are broken by
// first-to-goal; if that is also unset (both players reached the final
// cell on the very same move, which the movement rule makes impossible
// in practice but is not excluded structurally) the game is a draw: an
// explicit Draw is reported rather than silently crowning a winner.
func (s *State) Outcome() Result {
	p1holds := s.Status.SpecialTile == Player1
	p2holds := s.Status.SpecialTile == Player2
	r := Result{
		Player1Score: Score(&s.P1, p1holds),
		Player2Score: Score(&s.P2, p2holds),
	}
	switch {
	case r.Player1Score > r.Player2Score:
		r.Winner = Player1
	case r.Player2Score > r.Player1Score:
		r.Winner = Player2
	default:
		switch s.Status.FirstToGoal {
		case Player1:
			r.Winner = Player1
		case Player2:
			r.Winner = Player2
		default:
			r.Draw = true
		}
	}
	return r
}
