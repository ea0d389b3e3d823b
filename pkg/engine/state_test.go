package engine

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yourusername/ludoengine/internal/board"
)

func TestNewPlayerTokens(t *testing.T) {
	p := NewPlayer(Green, "g")
	require.Len(t, p.Tokens, TokensPerPlayer)
	for i, tok := range p.Tokens {
		assert.Equal(t, int(Green)*TokensPerPlayer+i, tok.ID)
		assert.Equal(t, Green, tok.Color)
		assert.Equal(t, board.YardPos, tok.Position)
		assert.Equal(t, TokenHome, tok.State)
	}
}

func TestNewGameStateDefaults(t *testing.T) {
	g := NewGameState([]*Player{NewPlayer(Red, "r"), NewPlayer(Green, "g")})
	assert.Equal(t, StatusSetup, g.Status)
	assert.Equal(t, NoColor, g.Winner)
	assert.Equal(t, 0, g.Current)
	assert.False(t, g.HasRolled)
	assert.Empty(t, g.AvailableMoves)
}

func TestTokenByIDCrossesPlayers(t *testing.T) {
	g := NewGameState([]*Player{NewPlayer(Red, "r"), NewPlayer(Green, "g")})
	tok := g.TokenByID(int(Green)*TokensPerPlayer + 2)
	require.NotNil(t, tok)
	assert.Equal(t, Green, tok.Color)
	assert.Nil(t, g.TokenByID(99))
}

func TestColorWireFormat(t *testing.T) {
	b, err := json.Marshal(Yellow)
	require.NoError(t, err)
	assert.Equal(t, `"yellow"`, string(b))

	var c Color
	require.NoError(t, json.Unmarshal([]byte(`"blue"`), &c))
	assert.Equal(t, Blue, c)

	assert.Error(t, json.Unmarshal([]byte(`"pink"`), &c))
}

func TestStatusWireFormat(t *testing.T) {
	b, err := json.Marshal(StatusGameOver)
	require.NoError(t, err)
	assert.Equal(t, `"gameover"`, string(b))

	var s Status
	require.NoError(t, json.Unmarshal([]byte(`"playing"`), &s))
	assert.Equal(t, StatusPlaying, s)
}
