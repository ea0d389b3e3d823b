package board

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestStartAndEntryIndices(t *testing.T) {
	// Each lane entry sits two cells behind the color's start, so a full
	// lap is 50 ring steps plus the 6-cell lane.
	for c := Red; c < NumColors; c++ {
		entry := LaneEntryIndex(c)
		start := StartIndex(c)
		assert.Equal(t, start, (entry+2)%RingSize, "color %d", c)
	}
}

func TestStartCellsAreSafe(t *testing.T) {
	for c := Red; c < NumColors; c++ {
		assert.True(t, IsSafe(StartIndex(c)), "start cell of color %d", c)
	}
}

func TestInLane(t *testing.T) {
	assert.False(t, InLane(51))
	assert.False(t, InLane(100)) // base itself is not a lane cell
	assert.True(t, InLane(101))
	assert.True(t, InLane(106))
	assert.False(t, InLane(107))
	assert.True(t, InLane(405))
	assert.False(t, InLane(FinishedPos))
}

func TestStepsToFinish(t *testing.T) {
	// A red token on its start cell has the full journey ahead.
	assert.Equal(t, JourneyLen(), StepsToFinish(StartIndex(Red), Red))
	// One cell before the lane entry.
	assert.Equal(t, 7, StepsToFinish(49, Red))
	// On the lane entry: the whole lane remains.
	assert.Equal(t, 6, StepsToFinish(50, Red))
	// Last lane cell.
	assert.Equal(t, 1, StepsToFinish(105, Red))
	assert.Equal(t, 0, StepsToFinish(LaneEnd(Red), Red))
	assert.Equal(t, 0, StepsToFinish(FinishedPos, Red))
	// Yard tokens are one exit step behind the start cell.
	assert.Equal(t, JourneyLen()+1, StepsToFinish(YardPos, Green))
}
