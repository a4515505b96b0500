// Package boundary defines the JSON shapes an external server/UI
// process would exchange with this engine's library surface, plus the
// conversion functions between them and the internal game.State. No
// HTTP or WebSocket transport lives here: only the wire types and the
// Marshal/Unmarshal free functions a server process imports.
package boundary

import (
	"fmt"

	"github.com/google/uuid"

	"github.com/patchwork-engine/patchwork/catalog"
	"github.com/patchwork-engine/patchwork/game"
	"github.com/patchwork-engine/patchwork/notation"
	"github.com/patchwork-engine/patchwork/quilt"
	"github.com/patchwork-engine/patchwork/timeboard"
)

// Patch is the wire shape of one catalog entry.
type Patch struct {
	ID           int      `json:"id"`
	ButtonCost   int      `json:"button_cost"`
	TimeCost     int      `json:"time_cost"`
	ButtonIncome int      `json:"button_income"`
	Tiles        [][]bool `json:"tiles"`
}

// TimeBoardCell is one cell of the wire time-board representation.
type TimeBoardCell struct {
	Player1             bool `json:"player_1"`
	Player2             bool `json:"player_2"`
	SpecialPatch        bool `json:"special_patch"`
	ButtonIncomeTrigger bool `json:"button_income_trigger"`
}

// TimeBoard is the wire shape of the shared time track plus both
// players' positions.
type TimeBoard struct {
	Player1               int             `json:"player_1"`
	Player2               int             `json:"player_2"`
	SpecialPatches        []int           `json:"special_patches"`
	ButtonIncomeTriggers  []int           `json:"button_income_triggers"`
	Board                 []TimeBoardCell `json:"board"`
}

// Player is the wire shape of one player's board and balance.
type Player struct {
	Position      int      `json:"position"`
	ButtonBalance int      `json:"button_balance"`
	Tiles         [][]bool `json:"tiles"`
	ButtonIncome  int      `json:"button_income"`
}

// StatusFlags is the wire shape of game.StatusFlags, using 0/1/2 for
// None/Player1/Player2 per the boundary contract's `current_player`,
// `special_tile`, `first_goal` integer fields.
type StatusFlags struct {
	CurrentPlayer int `json:"current_player"`
	SpecialTile   int `json:"special_tile"`
	FirstGoal     int `json:"first_goal"`
}

// State is the full wire representation of a game.State.
type State struct {
	Patches     []Patch     `json:"patches"`
	TimeBoard   TimeBoard   `json:"time_board"`
	Player1     Player      `json:"player_1"`
	Player2     Player      `json:"player_2"`
	TurnType    string      `json:"turn_type"`
	StatusFlags StatusFlags `json:"status_flags"`
	Notation    string      `json:"notation"`
	Checksum    uint64      `json:"checksum"`
	GameID      uuid.UUID   `json:"game_id"`
}

func holderToInt(h game.Holder) int {
	switch h {
	case game.Player1:
		return 1
	case game.Player2:
		return 2
	default:
		return 0
	}
}

func intToHolder(v int) (game.Holder, error) {
	switch v {
	case 0:
		return game.None, nil
	case 1:
		return game.Player1, nil
	case 2:
		return game.Player2, nil
	default:
		return game.None, fmt.Errorf("boundary: invalid holder value %d", v)
	}
}

func turnTypeToString(t game.TurnType) string {
	if t == game.SpecialPatchPlacement {
		return "SpecialPatchPlacement"
	}
	return "Normal"
}

func turnTypeFromString(s string) (game.TurnType, error) {
	switch s {
	case "Normal":
		return game.Normal, nil
	case "SpecialPatchPlacement":
		return game.SpecialPatchPlacement, nil
	default:
		return game.Normal, fmt.Errorf("boundary: invalid turn_type %q", s)
	}
}

func maskToTiles(m quilt.Mask) [][]bool {
	tiles := make([][]bool, quilt.Dim)
	for r := 0; r < quilt.Dim; r++ {
		tiles[r] = make([]bool, quilt.Dim)
		for c := 0; c < quilt.Dim; c++ {
			tiles[r][c] = m.At(r, c)
		}
	}
	return tiles
}

func tilesToMask(tiles [][]bool) (quilt.Mask, error) {
	if len(tiles) != quilt.Dim {
		return quilt.Mask{}, fmt.Errorf("boundary: tiles must have %d rows, got %d", quilt.Dim, len(tiles))
	}
	var m quilt.Mask
	for r, row := range tiles {
		if len(row) != quilt.Dim {
			return quilt.Mask{}, fmt.Errorf("boundary: tiles row %d must have %d columns, got %d", r, quilt.Dim, len(row))
		}
		for c, v := range row {
			if v {
				m = m.Or(quilt.CellMask(r, c))
			}
		}
	}
	return m, nil
}

func patchesWire() []Patch {
	out := make([]Patch, 0, catalog.NumRegularPatches)
	for _, p := range catalog.RegularPatches() {
		out = append(out, Patch{
			ID:           p.ID,
			ButtonCost:   p.ButtonCost,
			TimeCost:     p.TimeCost,
			ButtonIncome: p.ButtonIncome,
			Tiles:        p.Shape,
		})
	}
	return out
}

func timeBoardWire(s *game.State) TimeBoard {
	board := make([]TimeBoardCell, timeboard.Length)
	specials := timeboard.SpecialPatchPositions()
	incomes := timeboard.ButtonIncomePositions()
	specialSet := map[int]bool{}
	for _, i := range specials {
		specialSet[i] = true
	}
	incomeSet := map[int]bool{}
	for _, i := range incomes {
		incomeSet[i] = true
	}
	for i := range board {
		board[i] = TimeBoardCell{
			Player1:             s.P1.Position == i,
			Player2:             s.P2.Position == i,
			SpecialPatch:        specialSet[i] && s.TimeBoard.HasSpecialPatch(i),
			ButtonIncomeTrigger: incomeSet[i],
		}
	}
	return TimeBoard{
		Player1:              s.P1.Position,
		Player2:              s.P2.Position,
		SpecialPatches:       specials,
		ButtonIncomeTriggers: incomes,
		Board:                board,
	}
}

func playerWire(p *game.PlayerState) Player {
	return Player{
		Position:      p.Position,
		ButtonBalance: p.ButtonBalance,
		Tiles:         maskToTiles(p.Quilt.Tiles),
		ButtonIncome:  p.Quilt.ButtonIncome,
	}
}

// MarshalState converts a game.State plus its recorded notation and
// game identifier into the wire State shape.
func MarshalState(s *game.State, hist notation.History, gameID uuid.UUID) State {
	return State{
		Patches:   patchesWire(),
		TimeBoard: timeBoardWire(s),
		Player1:   playerWire(&s.P1),
		Player2:   playerWire(&s.P2),
		TurnType:  turnTypeToString(s.TurnType),
		StatusFlags: StatusFlags{
			CurrentPlayer: holderToInt(s.Status.CurrentPlayer),
			SpecialTile:   holderToInt(s.Status.SpecialTile),
			FirstGoal:     holderToInt(s.Status.FirstToGoal),
		},
		Notation: notation.Write(hist),
		Checksum: notation.Checksum(hist),
		GameID:   gameID,
	}
}

// UnmarshalState rebuilds a game.State by replaying the wire state's
// notation field; the patches/time_board/player fields are informative
// mirrors of that replayed state and are not themselves a second source
// of truth (a client cannot construct an arbitrary board position
// through this boundary, only replay a recorded history).
func UnmarshalState(w State) (*game.State, uuid.UUID, error) {
	hist, err := notation.Parse(w.Notation)
	if err != nil {
		return nil, uuid.Nil, fmt.Errorf("boundary: parsing notation: %w", err)
	}
	if w.Checksum != 0 && notation.Checksum(hist) != w.Checksum {
		return nil, uuid.Nil, fmt.Errorf("boundary: checksum mismatch, notation may be corrupted")
	}
	s, err := notation.Replay(hist)
	if err != nil {
		return nil, uuid.Nil, fmt.Errorf("boundary: replaying notation: %w", err)
	}
	if _, err := turnTypeFromString(w.TurnType); err != nil {
		return nil, uuid.Nil, err
	}
	if _, err := intToHolder(w.StatusFlags.CurrentPlayer); err != nil {
		return nil, uuid.Nil, err
	}
	return s, w.GameID, nil
}
