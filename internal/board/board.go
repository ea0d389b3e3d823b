// Package board holds the static topology of the Ludo board: the shared
// 52-cell ring, the per-color start and lane-entry indices, the safe-zone
// cells and the color-private finish lanes. It is pure lookup data with no
// game state.
//
// Position encoding (shared with the engine):
//
//	-1          token in its home yard, not on the board
//	0..51       shared circular main path, 13 cells per color quadrant
//	base+1..+6  a color's private finish lane (base is color-specific)
//	999         finished, removed from play
package board

const (
	// RingSize is the number of cells on the shared circular path.
	RingSize = 52

	// LaneLen is the number of cells in each color's finish lane.
	LaneLen = 6

	// YardPos is the position of a token still in its home yard.
	YardPos = -1

	// FinishedPos is the position of a token that reached the center.
	FinishedPos = 999
)

// Color indices, in palette order. The engine defines the user-facing Color
// type; this package only needs the index.
const (
	Red = iota
	Green
	Yellow
	Blue
	NumColors
)

var (
	// startIndex is the ring cell a token lands on when leaving the yard.
	startIndex = [NumColors]int{0, 13, 26, 39}

	// laneEntry is the ring cell that precedes entry into the color's
	// finish lane. One step past it leaves the ring.
	laneEntry = [NumColors]int{50, 11, 24, 37}

	// laneBase is the offset for the color's finish-lane cells. Bases are
	// spaced so lanes never collide in the shared integer space.
	laneBase = [NumColors]int{100, 200, 300, 400}

	// safeCells are the ring indices where capture cannot occur. The four
	// start cells are all safe.
	safeCells = map[int]struct{}{
		0: {}, 8: {}, 13: {}, 21: {}, 26: {}, 34: {}, 39: {}, 47: {},
	}
)

// StartIndex returns the ring cell where the color enters the board.
func StartIndex(color int) int { return startIndex[color] }

// LaneEntryIndex returns the ring cell immediately preceding the color's
// finish lane.
func LaneEntryIndex(color int) int { return laneEntry[color] }

// LaneBase returns the finish-lane base offset for the color. Lane cells
// are LaneBase+1 through LaneBase+LaneLen.
func LaneBase(color int) int { return laneBase[color] }

// LaneEnd returns the terminal finish-lane cell for the color. A token
// whose walk ends exactly here has finished.
func LaneEnd(color int) int { return laneBase[color] + LaneLen }

// IsSafe reports whether the given ring cell is a safe zone.
func IsSafe(pos int) bool {
	_, ok := safeCells[pos]
	return ok
}

// OnRing reports whether pos is a cell of the shared circular path.
func OnRing(pos int) bool { return pos >= 0 && pos < RingSize }

// InLane reports whether pos is inside any color's finish lane.
func InLane(pos int) bool {
	for _, base := range laneBase {
		if pos > base && pos <= base+LaneLen {
			return true
		}
	}
	return false
}

// journeyLen is the total number of steps from a color's start cell to the
// terminal lane cell: 50 ring steps to the lane entry plus 6 lane steps.
const journeyLen = RingSize - 2 + LaneLen

// JourneyLen returns the length of a token's full path from its start cell
// to the end of its finish lane.
func JourneyLen() int { return journeyLen }

// StepsToFinish returns how many steps remain for a token of the given
// color at pos. A yard token is one exit step behind its start cell; a
// finished token has zero steps left.
func StepsToFinish(pos, color int) int {
	switch {
	case pos == FinishedPos:
		return 0
	case pos == YardPos:
		return journeyLen + 1
	case InLane(pos):
		return LaneEnd(color) - pos
	default:
		toEntry := (laneEntry[color] - pos + RingSize) % RingSize
		return toEntry + LaneLen
	}
}
