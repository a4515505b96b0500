package treepolicy

import (
	"sort"

	"github.com/patchwork-engine/patchwork/action"
	"github.com/patchwork-engine/patchwork/catalog"
	"github.com/patchwork-engine/patchwork/game"
)

// OrderMoves sorts legal actions for alpha-beta / PVS move ordering:
// walking is always kept as a candidate but sorted after patch moves
// that look immediately profitable, and patch placements are ranked
// by a cheap static heuristic (income per button spent; moves with equal
// scores keep their input order) so that promising lines are searched first and cut
// off more of the tree. hint, if non-Null, is moved to the front
// (typically the previous iteration's best move or a transposition
// table hit).
func OrderMoves(moves []action.ID, hint action.ID) []action.ID {
	out := make([]action.ID, len(moves))
	copy(out, moves)

	type scored struct {
		id    action.ID
		score float64
	}
	ranked := make([]scored, len(out))
	for i, id := range out {
		ranked[i] = scored{id: id, score: moveScore(id)}
	}
	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].score > ranked[j].score
	})
	for i, r := range ranked {
		out[i] = r.id
	}

	if hint != action.Null() {
		for i, id := range out {
			if id == hint {
				out[0], out[i] = out[i], out[0]
				break
			}
		}
	}
	return out
}

func moveScore(id action.ID) float64 {
	act, err := action.Decode(id)
	if err != nil {
		return -1
	}
	switch act.Kind {
	case action.KindPatchPlacement:
		p := catalog.Get(act.PatchID)
		if p.ButtonCost == 0 {
			return float64(p.ButtonIncome) + 1
		}
		return float64(p.ButtonIncome) / float64(p.ButtonCost)
	case action.KindSpecialPatchPlacement:
		return 0.5 // always available, roughly free value
	default:
		return 0 // walking: neutral, considered whenever nothing better exists
	}
}

// BranchingCap truncates an already-ordered move list to at most k
// entries, always keeping a Walking action if the original list had
// one, per §4.7's "always including walking" rule for the alpha-beta
// branching-factor cap.
func BranchingCap(ordered []action.ID, k int) []action.ID {
	if len(ordered) <= k {
		return ordered
	}
	var walk action.ID
	hasWalk := false
	for _, id := range ordered {
		if act, err := action.Decode(id); err == nil && act.Kind == action.KindWalking {
			walk, hasWalk = id, true
			break
		}
	}
	out := make([]action.ID, 0, k)
	out = append(out, ordered[:k]...)
	if hasWalk {
		for _, id := range out {
			if id == walk {
				return out
			}
		}
		out[len(out)-1] = walk
	}
	return out
}

// ForcedExtension reports whether depth should be extended by one ply:
// either the only legal action is Walking, or a 7x7 bonus is still
// unclaimed and within reach for the side to move (approximated here
// as "fewer than 15 empty cells remain", cheap enough to call at every
// node).
func ForcedExtension(s *game.State, legal []action.ID) bool {
	if len(legal) == 1 {
		if act, err := action.Decode(legal[0]); err == nil && act.Kind == action.KindWalking {
			return true
		}
	}
	if s.Status.SpecialTile == game.None {
		cur := s.Current()
		if cur.Quilt.EmptyCells() < 15 {
			return true
		}
	}
	return false
}
