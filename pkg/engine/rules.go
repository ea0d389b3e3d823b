package engine

import (
	"errors"

	"github.com/yourusername/ludoengine/internal/board"
)

// ErrNoSuchMove is returned when the requested token has no pending
// candidate in AvailableMoves. The state is left untouched.
var ErrNoSuchMove = errors.New("token has no pending move")

// RollToStart is the dice value required to leave the yard. It also grants
// an extra turn.
const RollToStart = 6

// Advance walks a token of the given color from pos by steps, one cell at a
// time. Lane entry is a topology event, not a fixed offset: while inside the
// finish lane the walk increments within the lane; exactly at the cell
// preceding the lane it jumps to the lane's first cell; otherwise it moves
// around the 52-cell ring. Returns false when the walk would overshoot the
// lane's terminal cell.
func Advance(pos int, color Color, steps int) (int, bool) {
	base := board.LaneBase(int(color))
	end := board.LaneEnd(int(color))
	entry := board.LaneEntryIndex(int(color))

	for ; steps > 0; steps-- {
		switch {
		case pos == end:
			return pos, false // overshoot
		case pos > base && pos < end:
			pos++
		case pos == entry:
			pos = base + 1
		default:
			pos = (pos + 1) % board.RingSize
		}
	}
	return pos, true
}

// LegalMoves generates every candidate move for the player at the given
// dice value. A yard token contributes a move to its start cell only on a
// six; an active token contributes its lane-aware projection unless it
// overshoots; a finished token contributes nothing. Yard tokens are
// interchangeable, so at most one exit candidate is generated per roll.
func LegalMoves(p *Player, dice int) []Move {
	var moves []Move
	exitSeen := false
	for _, t := range p.Tokens {
		switch t.State {
		case TokenHome:
			if dice == RollToStart && !exitSeen {
				moves = append(moves, Move{TokenID: t.ID, NewPosition: board.StartIndex(int(p.Color))})
				exitSeen = true
			}
		case TokenActive:
			if pos, ok := Advance(t.Position, t.Color, dice); ok {
				moves = append(moves, Move{TokenID: t.ID, NewPosition: pos})
			}
		}
	}
	return moves
}

// MoveResult reports what applying a move did.
type MoveResult struct {
	Move           Move     `json:"move"`
	Captured       []*Token `json:"captured,omitempty"`
	ReachedFinish  bool     `json:"reachedFinish"`
	MovedOutOfHome bool     `json:"movedOutOfHome"`
}

// ApplyMove applies the pending move for tokenID: position update, capture
// check and win check. Validation happens before any mutation; an unknown
// token id leaves the state byte-identical. On success the consumed roll is
// cleared (HasRolled false, AvailableMoves nil); advancing the turn is the
// caller's job.
func (g *GameState) ApplyMove(tokenID int) (*MoveResult, error) {
	mv, ok := g.pendingMove(tokenID)
	if !ok {
		return nil, ErrNoSuchMove
	}

	mover := g.CurrentPlayer()
	t := mover.Token(tokenID)
	res := &MoveResult{
		Move:           mv,
		MovedOutOfHome: t.State == TokenHome,
	}

	t.Position = mv.NewPosition
	t.State = TokenActive
	if mv.NewPosition == board.LaneEnd(int(t.Color)) {
		t.Position = board.FinishedPos
		t.State = TokenFinished
		res.ReachedFinish = true
	}

	// Captures happen only on open ring cells: never in a finish lane,
	// never on a safe zone. All opposing active tokens on the cell go
	// back to their yards; own-color tokens may stack freely.
	if t.State == TokenActive && board.OnRing(t.Position) && !board.IsSafe(t.Position) {
		for _, opp := range g.Players {
			if opp.Color == mover.Color {
				continue
			}
			for _, ot := range opp.Tokens {
				if ot.State == TokenActive && ot.Position == t.Position {
					ot.Position = board.YardPos
					ot.State = TokenHome
					res.Captured = append(res.Captured, ot)
				}
			}
		}
	}

	g.HasRolled = false
	g.AvailableMoves = nil

	if mover.Finished() {
		g.Winner = mover.Color
		g.Status = StatusGameOver
	}
	return res, nil
}

// ExtraTurn reports whether the acting player keeps the turn: a six, a
// capture, or a token reaching the center.
func ExtraTurn(dice int, res *MoveResult) bool {
	return dice == RollToStart || len(res.Captured) > 0 || res.ReachedFinish
}
