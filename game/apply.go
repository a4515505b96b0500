package game

import (
	"errors"

	"github.com/patchwork-engine/patchwork/action"
	"github.com/patchwork-engine/patchwork/catalog"
	"github.com/patchwork-engine/patchwork/quilt"
	"github.com/patchwork-engine/patchwork/timeboard"
)

var (
	// ErrIllegalAction is returned when the caller supplies an ActionId
	// that is not in the legal set for the current state. This is a
	// boundary error: internal search must never generate one.
	ErrIllegalAction = errors.New("game: action is not legal in this state")
	// ErrNoUndoHistory is returned by Undo when there is nothing to
	// reverse.
	ErrNoUndoHistory = errors.New("game: no move to undo")
)

// undoRecord captures everything Apply derived beyond the action's own
// chosen fields, so Undo can restore the exact prior state without the
// caller re-supplying anything. This is a backup-stack approach rather
// than cramming every derived fact into the Action union itself.
type undoRecord struct {
	act action.Action

	prevTurnType TurnType
	prevStatus   StatusFlags
	prevPending  int

	mover          Holder
	moverPosBefore int
	moverPosAfter  int

	buttonIncomeGained int
	specialPatchCells  []int // markers cleared this move, restored on undo

	walkGain int

	hadQueueTake bool
	queueTake    QueueTake

	hadPatchMask bool
	patchMask    quilt.Mask
	patchIncome  int
	patchCost    int

	specialCell int
}

// LegalActions enumerates every legal ActionId for the current state.
// Non-terminal states always return at least one action; a
// SpecialPatchPlacement state returns exactly the special-placement
// actions for the current player's free cells. Phantom is never
// listed: Apply accepts it only when a caller supplies it directly.
func (s *State) LegalActions() []action.ID {
	if s.IsTerminal() {
		return nil
	}
	if s.TurnType == SpecialPatchPlacement {
		cur := s.Current()
		free := cur.Quilt.FreeCellIndices()
		out := make([]action.ID, 0, len(free))
		for _, cell := range free {
			id, _ := action.Encode(action.Action{Kind: action.KindSpecialPatchPlacement, QuiltBoardIndex: cell})
			out = append(out, id)
		}
		return out
	}

	cur := s.Current()
	var out []action.ID

	// Walking is always legal for the current player, unless they are
	// already past the final cell (which IsTerminal would have caught
	// only if both players were past it; a single player past the end
	// simply never gets picked as current player again by the movement
	// rule, but we guard anyway).
	if cur.Position < timeboard.MaxPosition {
		id, _ := action.Encode(action.Action{Kind: action.KindWalking, StartingIndex: cur.Position})
		out = append(out, id)
	}

	for slot := 0; slot < s.Queue.PlayableSlots(); slot++ {
		patchID := s.Queue.Slot(slot)
		p := catalog.Get(patchID)
		if p.ButtonCost > cur.ButtonBalance {
			continue
		}
		if cur.Quilt.EmptyCells() < p.Area {
			continue
		}
		for _, t := range catalog.Transformations(patchID) {
			if cur.Quilt.CanPlace(t.Mask) {
				id, _ := action.Encode(action.Action{
					Kind:                action.KindPatchPlacement,
					PatchID:             patchID,
					PatchIndex:          slot,
					TransformationIndex: t.Index,
				})
				out = append(out, id)
			}
		}
	}
	return out
}

// Apply executes id against the state, returning an error if id is not
// legal in the current state (ErrIllegalAction) or not a validly
// encoded ActionId (action.ErrOutOfRange).
func (s *State) Apply(id action.ID) error {
	act, err := action.Decode(id)
	if err != nil {
		return err
	}

	rec := undoRecord{act: act, prevTurnType: s.TurnType, prevStatus: s.Status, prevPending: s.PendingSpecialPatches}

	switch act.Kind {
	case action.KindWalking:
		if s.TurnType != Normal || act.StartingIndex != s.Current().Position {
			return ErrIllegalAction
		}
		s.applyWalking(&rec)
	case action.KindPatchPlacement:
		if err := s.applyPatchPlacement(&rec, act); err != nil {
			return err
		}
	case action.KindSpecialPatchPlacement:
		if s.TurnType != SpecialPatchPlacement {
			return ErrIllegalAction
		}
		if s.Current().Quilt.Tiles.At(act.QuiltBoardIndex/quilt.Dim, act.QuiltBoardIndex%quilt.Dim) {
			return ErrIllegalAction
		}
		rec.mover = s.Status.CurrentPlayer
		rec.specialCell = act.QuiltBoardIndex
		s.Current().Quilt.Place(quilt.CellMask(act.QuiltBoardIndex/quilt.Dim, act.QuiltBoardIndex%quilt.Dim), 0)
		s.PendingSpecialPatches--
		if s.PendingSpecialPatches <= 0 {
			s.TurnType = Normal
			s.switchPlayer()
		}
	case action.KindPhantom:
		s.switchPlayer()
	case action.KindNull:
		return ErrIllegalAction
	}

	s.undo = append(s.undo, rec)
	return nil
}

// applyWalking advances the current player to min(other.Position+1, 53),
// crediting the mover 1 button per step, and resolves markers.
func (s *State) applyWalking(rec *undoRecord) {
	cur := s.Current()
	rec.mover = s.Status.CurrentPlayer
	rec.moverPosBefore = cur.Position

	dest := s.Other().Position + 1
	if dest > timeboard.MaxPosition {
		dest = timeboard.MaxPosition
	}
	steps := dest - cur.Position
	cur.ButtonBalance += steps
	rec.walkGain = steps
	rec.moverPosAfter = dest

	s.resolveMovement(rec, cur, cur.Position, dest)
	cur.Position = dest

	if s.TurnType == Normal {
		s.switchPlayer()
	}
}

func (s *State) applyPatchPlacement(rec *undoRecord, act action.Action) error {
	if s.TurnType != Normal {
		return ErrIllegalAction
	}
	cur := s.Current()
	if s.Queue.Slot(act.PatchIndex) != act.PatchID {
		return ErrIllegalAction
	}
	p := catalog.Get(act.PatchID)
	if p.ButtonCost > cur.ButtonBalance {
		return ErrIllegalAction
	}
	t := catalog.GetTransformation(act.PatchID, act.TransformationIndex)
	if !cur.Quilt.CanPlace(t.Mask) {
		return ErrIllegalAction
	}

	rec.mover = s.Status.CurrentPlayer
	rec.moverPosBefore = cur.Position
	rec.hadPatchMask = true
	rec.patchMask = t.Mask
	rec.patchIncome = p.ButtonIncome
	rec.patchCost = p.ButtonCost

	cur.ButtonBalance -= p.ButtonCost
	cur.Quilt.Place(t.Mask, p.ButtonIncome)

	dest := cur.Position + p.TimeCost
	if dest > timeboard.MaxPosition {
		dest = timeboard.MaxPosition
	}
	rec.moverPosAfter = dest
	s.resolveMovement(rec, cur, cur.Position, dest)
	cur.Position = dest

	take := s.Queue.Take(act.PatchIndex)
	rec.hadQueueTake = true
	rec.queueTake = take

	// PreviousPlayerWas1 records who this move was made by, for undo
	// fidelity when the ActionId is round-tripped through decode.
	act.PreviousPlayerWas1 = s.Status.CurrentPlayer == Player1
	rec.act = act

	if s.TurnType == Normal {
		s.switchPlayer()
	}
	return nil
}

// resolveMovement awards button income for every income marker crossed
// and, for every special-patch marker crossed, clears it and queues a
// placement: TurnType switches to SpecialPatchPlacement and stays there,
// one placement at a time, until every queued marker has been resolved.
func (s *State) resolveMovement(rec *undoRecord, mover *PlayerState, from, to int) {
	crossing := s.TimeBoard.Advance(from, to)
	for range crossing.ButtonIncomeCells {
		mover.ButtonBalance += mover.Quilt.ButtonIncome
		rec.buttonIncomeGained += mover.Quilt.ButtonIncome
	}
	for _, cell := range crossing.SpecialPatchCells {
		s.TimeBoard.ClearSpecialPatch(cell)
		rec.specialPatchCells = append(rec.specialPatchCells, cell)
		s.PendingSpecialPatches++
		s.TurnType = SpecialPatchPlacement
	}
	if mover.Quilt.IsSpecialTileConditionReached() && s.Status.SpecialTile == None {
		s.Status.SpecialTile = s.Status.CurrentPlayer
	}
	if to >= timeboard.MaxPosition && s.Status.FirstToGoal == None {
		s.Status.FirstToGoal = s.Status.CurrentPlayer
	}
}

// switchPlayer implements the Patchwork movement rule: the player
// furthest behind on the time track moves next; ties go to the player
// who did not just move.
func (s *State) switchPlayer() {
	if s.P1.Position < s.P2.Position {
		s.Status.CurrentPlayer = Player1
		return
	}
	if s.P2.Position < s.P1.Position {
		s.Status.CurrentPlayer = Player2
		return
	}
	// tied: the player who did not just move goes next
	if s.Status.CurrentPlayer == Player1 {
		s.Status.CurrentPlayer = Player2
	} else {
		s.Status.CurrentPlayer = Player1
	}
}

// Undo reverses the most recently applied action, restoring the state
// to bit-for-bit what it was before that Apply call.
func (s *State) Undo() error {
	n := len(s.undo)
	if n == 0 {
		return ErrNoUndoHistory
	}
	rec := s.undo[n-1]
	s.undo = s.undo[:n-1]

	s.Status = rec.prevStatus
	s.TurnType = rec.prevTurnType
	s.PendingSpecialPatches = rec.prevPending

	switch rec.act.Kind {
	case action.KindPhantom:
		return nil
	case action.KindSpecialPatchPlacement:
		p := s.PlayerByHolder(rec.mover)
		p.Quilt.Unplace(quilt.CellMask(rec.specialCell/quilt.Dim, rec.specialCell%quilt.Dim), 0)
		return nil
	}

	mover := s.PlayerByHolder(rec.mover)
	for _, cell := range rec.specialPatchCells {
		s.TimeBoard.SetSpecialPatch(cell)
	}
	mover.ButtonBalance -= rec.buttonIncomeGained
	mover.ButtonBalance -= rec.walkGain
	mover.Position = rec.moverPosBefore

	if rec.hadPatchMask {
		mover.Quilt.Unplace(rec.patchMask, rec.patchIncome)
		mover.ButtonBalance += rec.patchCost
	}
	if rec.hadQueueTake {
		s.Queue.Untake(rec.queueTake)
	}
	return nil
}
