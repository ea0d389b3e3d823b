package game

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yourusername/ludoengine/pkg/ai"
	"github.com/yourusername/ludoengine/pkg/engine"
)

func TestNewLocalSeats(t *testing.T) {
	l := NewLocal("alice", []BotSeat{
		{Name: "bot-1", Level: ai.Medium},
		{Name: "bot-2", Level: ai.Hard},
	}, rand.New(rand.NewSource(1)))

	players := l.State().Players
	require.Len(t, players, 3)
	assert.Equal(t, engine.Red, players[0].Color)
	assert.False(t, players[0].IsAI)
	assert.True(t, players[1].IsAI)
	assert.Equal(t, "medium", players[1].AILevel)
	assert.Equal(t, "hard", players[2].AILevel)
}

func TestHumanActionsRejectedOnBotTurn(t *testing.T) {
	l := NewLocal("alice", []BotSeat{{Name: "bot", Level: ai.Easy}}, rand.New(rand.NewSource(1)))
	l.Start()

	// Hand the turn to the bot directly.
	l.State().Current = 1
	assert.False(t, l.HumanTurn())

	_, err := l.Roll()
	assert.ErrorIs(t, err, ErrNotHumanTurn)
	_, err = l.Move(0)
	assert.ErrorIs(t, err, ErrNotHumanTurn)
}

func TestStepIsNoOpOnHumanTurn(t *testing.T) {
	l := NewLocal("alice", []BotSeat{{Name: "bot", Level: ai.Easy}}, rand.New(rand.NewSource(1)))
	l.Start()

	done, err := l.Step()
	require.NoError(t, err)
	assert.True(t, done)
	assert.Equal(t, PhaseAwaitingRoll, l.Controller().Phase())
}

func TestSelfPlayRunsToCompletion(t *testing.T) {
	for seed := int64(1); seed <= 5; seed++ {
		l := NewSelfPlay([]BotSeat{
			{Name: "hard", Level: ai.Hard},
			{Name: "easy", Level: ai.Easy},
		}, rand.New(rand.NewSource(seed)))
		l.Start()

		actions, err := l.RunToCompletion(20000)
		require.NoError(t, err, "seed %d", seed)
		assert.Positive(t, actions)

		g := l.State()
		assert.Equal(t, engine.StatusGameOver, g.Status, "seed %d", seed)
		require.NotEqual(t, engine.NoColor, g.Winner, "seed %d", seed)

		winner := g.PlayerByColor(g.Winner)
		require.NotNil(t, winner)
		assert.True(t, winner.Finished(), "seed %d", seed)
	}
}

func TestRunToCompletionBudget(t *testing.T) {
	l := NewSelfPlay([]BotSeat{
		{Name: "a", Level: ai.Easy},
		{Name: "b", Level: ai.Easy},
	}, rand.New(rand.NewSource(1)))
	l.Start()

	actions, err := l.RunToCompletion(3)
	assert.ErrorIs(t, err, ErrStalled)
	assert.Equal(t, 3, actions)
}

func TestAIDelayOrdering(t *testing.T) {
	assert.Less(t, AIDelay(ai.Hard), AIDelay(ai.Medium))
	assert.Less(t, AIDelay(ai.Medium), AIDelay(ai.Easy))
}
