// Package notation implements a human-readable, line-oriented
// serialization of a Patchwork action history: one token per move,
// parsed with a small set of anchored regexes rather than a
// general-purpose grammar.
package notation

import (
	"errors"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/cespare/xxhash/v2"

	"github.com/patchwork-engine/patchwork/action"
	"github.com/patchwork-engine/patchwork/game"
)

var (
	ErrMalformed = errors.New("notation: malformed token")
	ErrReplay    = errors.New("notation: token does not apply to the replayed state")
)

var (
	walkingRegex = regexp.MustCompile(`^W(?P<from>\d+)$`)
	specialRegex = regexp.MustCompile(`^S(?P<cell>\d+)$`)
	patchRegex   = regexp.MustCompile(`^P(?P<patch>\d+):(?P<slot>[0-2])@(?P<trans>\d+)(?P<prev>\*)?$`)
	phantomRegex = regexp.MustCompile(`^X$`)
)

// Encode renders a single action.ID as one notation token.
func Encode(id action.ID) (string, error) {
	a, err := action.Decode(id)
	if err != nil {
		return "", err
	}
	switch a.Kind {
	case action.KindWalking:
		return fmt.Sprintf("W%d", a.StartingIndex), nil
	case action.KindSpecialPatchPlacement:
		return fmt.Sprintf("S%d", a.QuiltBoardIndex), nil
	case action.KindPatchPlacement:
		tok := fmt.Sprintf("P%d:%d@%d", a.PatchID, a.PatchIndex, a.TransformationIndex)
		if a.PreviousPlayerWas1 {
			tok += "*"
		}
		return tok, nil
	case action.KindPhantom:
		return "X", nil
	default:
		return "", ErrMalformed
	}
}

// Decode parses a single notation token back to an action.ID.
func Decode(tok string) (action.ID, error) {
	tok = strings.TrimSpace(tok)
	switch {
	case walkingRegex.MatchString(tok):
		m := walkingRegex.FindStringSubmatch(tok)
		v, err := strconv.Atoi(m[1])
		if err != nil {
			return 0, ErrMalformed
		}
		return action.Encode(action.Action{Kind: action.KindWalking, StartingIndex: v})
	case specialRegex.MatchString(tok):
		m := specialRegex.FindStringSubmatch(tok)
		v, err := strconv.Atoi(m[1])
		if err != nil {
			return 0, ErrMalformed
		}
		return action.Encode(action.Action{Kind: action.KindSpecialPatchPlacement, QuiltBoardIndex: v})
	case patchRegex.MatchString(tok):
		m := patchRegex.FindStringSubmatch(tok)
		patchID, err1 := strconv.Atoi(m[1])
		slot, err2 := strconv.Atoi(m[2])
		trans, err3 := strconv.Atoi(m[3])
		if err1 != nil || err2 != nil || err3 != nil {
			return 0, ErrMalformed
		}
		return action.Encode(action.Action{
			Kind:                action.KindPatchPlacement,
			PatchID:             patchID,
			PatchIndex:          slot,
			TransformationIndex: trans,
			PreviousPlayerWas1:  m[4] == "*",
		})
	case phantomRegex.MatchString(tok):
		return action.Phantom(), nil
	default:
		return 0, ErrMalformed
	}
}

// History is a full recorded game: the seed used to shuffle the initial
// patch queue, plus the ordered list of action tokens applied from the
// resulting starting state. It round-trips to an identical game.State
// because patch shuffling is the only other source of randomness in a
// Patchwork game.
type History struct {
	Seed    uint64
	Tokens  []string
}

// Write renders a History as newline-separated text: a `#seed` header
// line followed by one token per line.
func Write(h History) string {
	var b strings.Builder
	fmt.Fprintf(&b, "#seed %d\n", h.Seed)
	for _, t := range h.Tokens {
		b.WriteString(t)
		b.WriteByte('\n')
	}
	return b.String()
}

var seedRegex = regexp.MustCompile(`^#seed\s+(?P<seed>\d+)$`)

// Parse reads the text format Write produces back into a History.
func Parse(text string) (History, error) {
	lines := strings.Split(strings.TrimRight(text, "\n"), "\n")
	if len(lines) == 0 {
		return History{}, ErrMalformed
	}
	m := seedRegex.FindStringSubmatch(strings.TrimSpace(lines[0]))
	if m == nil {
		return History{}, fmt.Errorf("%w: missing #seed header", ErrMalformed)
	}
	seed, err := strconv.ParseUint(m[1], 10, 64)
	if err != nil {
		return History{}, fmt.Errorf("%w: %v", ErrMalformed, err)
	}
	h := History{Seed: seed}
	for _, line := range lines[1:] {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		h.Tokens = append(h.Tokens, line)
	}
	return h, nil
}

// Replay rebuilds the game.State that results from applying every
// token in h in order, starting from a fresh game.New(h.Seed), and
// returns the final state. Intermediate states are not kept.
func Replay(h History) (*game.State, error) {
	s := game.New(h.Seed)
	for i, tok := range h.Tokens {
		id, err := Decode(tok)
		if err != nil {
			return nil, fmt.Errorf("notation: token %d (%q): %w", i, tok, err)
		}
		if err := s.Apply(id); err != nil {
			return nil, fmt.Errorf("%w: token %d (%q): %v", ErrReplay, i, tok, err)
		}
	}
	return s, nil
}

// Checksum returns a content hash of h's rendered text, cheap enough
// to attach to every wire message so a receiver can detect a truncated
// or hand-edited notation string before paying for a full replay.
func Checksum(h History) uint64 {
	return xxhash.Sum64String(Write(h))
}

// Record builds a History by encoding an already-applied action
// sequence, given the seed the originating game.New was constructed
// with. Callers accumulate ids as they call state.Apply and pass them
// here once the game ends (or at any checkpoint).
func Record(seed uint64, ids []action.ID) (History, error) {
	h := History{Seed: seed, Tokens: make([]string, 0, len(ids))}
	for i, id := range ids {
		tok, err := Encode(id)
		if err != nil {
			return History{}, fmt.Errorf("notation: action %d: %w", i, err)
		}
		h.Tokens = append(h.Tokens, tok)
	}
	return h, nil
}
