// Package engine implements the Ludo rules: the data model, legal-move
// generation, move application with captures, and win detection. It is the
// single source of truth for game rules; both the local match harness and
// the multiplayer session coordinator drive it through the same entry
// points.
package engine

import (
	"fmt"

	"github.com/yourusername/ludoengine/internal/board"
)

// TokensPerPlayer is the number of tokens each color owns.
const TokensPerPlayer = 4

// Color identifies a player and their token set.
type Color int

const (
	Red Color = iota
	Green
	Yellow
	Blue

	// NoColor marks the absence of a winner.
	NoColor Color = -1
)

// Palette is the fixed color assignment order for joining players.
var Palette = []Color{Red, Green, Yellow, Blue}

var colorNames = map[Color]string{
	Red: "red", Green: "green", Yellow: "yellow", Blue: "blue", NoColor: "none",
}

func (c Color) String() string {
	if s, ok := colorNames[c]; ok {
		return s
	}
	return fmt.Sprintf("color(%d)", int(c))
}

// MarshalText implements encoding.TextMarshaler so colors appear as names
// on the wire.
func (c Color) MarshalText() ([]byte, error) { return []byte(c.String()), nil }

// UnmarshalText implements encoding.TextUnmarshaler.
func (c *Color) UnmarshalText(b []byte) error {
	for v, name := range colorNames {
		if name == string(b) {
			*c = v
			return nil
		}
	}
	return fmt.Errorf("unknown color %q", b)
}

// TokenState tracks where a token is in its lifecycle.
type TokenState int

const (
	TokenHome TokenState = iota // in the yard, position -1
	TokenActive
	TokenFinished // reached the center, position 999
)

var tokenStateNames = map[TokenState]string{
	TokenHome: "home", TokenActive: "active", TokenFinished: "finished",
}

func (s TokenState) String() string { return tokenStateNames[s] }

func (s TokenState) MarshalText() ([]byte, error) { return []byte(s.String()), nil }

func (s *TokenState) UnmarshalText(b []byte) error {
	for v, name := range tokenStateNames {
		if name == string(b) {
			*s = v
			return nil
		}
	}
	return fmt.Errorf("unknown token state %q", b)
}

// Status is the lifecycle of a match.
type Status int

const (
	StatusSetup Status = iota
	StatusPlaying
	StatusGameOver
)

var statusNames = map[Status]string{
	StatusSetup: "setup", StatusPlaying: "playing", StatusGameOver: "gameover",
}

func (s Status) String() string { return statusNames[s] }

func (s Status) MarshalText() ([]byte, error) { return []byte(s.String()), nil }

func (s *Status) UnmarshalText(b []byte) error {
	for v, name := range statusNames {
		if name == string(b) {
			*s = v
			return nil
		}
	}
	return fmt.Errorf("unknown status %q", b)
}

// Token is one of the four pieces a player owns. Tokens are created at
// match start and only the rules engine mutates them.
type Token struct {
	ID       int        `json:"id"` // global: int(color)*TokensPerPlayer + ordinal
	Color    Color      `json:"color"`
	Position int        `json:"position"`
	State    TokenState `json:"state"`
}

// Player is one seat in a match, identified by its color.
type Player struct {
	Color   Color    `json:"id"`
	Name    string   `json:"name"`
	Tokens  []*Token `json:"tokens"`
	IsAI    bool     `json:"isAI"`
	AILevel string   `json:"aiDifficulty,omitempty"`
}

// NewPlayer creates a player with all four tokens in the yard.
func NewPlayer(color Color, name string) *Player {
	p := &Player{Color: color, Name: name}
	for i := 0; i < TokensPerPlayer; i++ {
		p.Tokens = append(p.Tokens, &Token{
			ID:       int(color)*TokensPerPlayer + i,
			Color:    color,
			Position: board.YardPos,
			State:    TokenHome,
		})
	}
	return p
}

// Token returns the player's token with the given global id, or nil.
func (p *Player) Token(id int) *Token {
	for _, t := range p.Tokens {
		if t.ID == id {
			return t
		}
	}
	return nil
}

// Finished reports whether all of the player's tokens reached the center.
func (p *Player) Finished() bool {
	for _, t := range p.Tokens {
		if t.State != TokenFinished {
			return false
		}
	}
	return true
}

// Move is a candidate move for one token, generated fresh on every roll and
// stale once consumed.
type Move struct {
	TokenID     int `json:"tokenId"`
	NewPosition int `json:"newPosition"`
}

// GameState is the full authoritative state of one match.
type GameState struct {
	Players        []*Player `json:"players"`
	Current        int       `json:"currentPlayerIndex"`
	Dice           int       `json:"diceValue"`
	HasRolled      bool      `json:"hasRolled"`
	Winner         Color     `json:"winner"`
	Status         Status    `json:"status"`
	AvailableMoves []Move    `json:"availableMoves"`
}

// NewGameState creates a match in setup for the given players.
func NewGameState(players []*Player) *GameState {
	return &GameState{
		Players: players,
		Winner:  NoColor,
		Status:  StatusSetup,
	}
}

// CurrentPlayer returns the player whose turn it is.
func (g *GameState) CurrentPlayer() *Player {
	return g.Players[g.Current]
}

// PlayerByColor returns the seat with the given color, or nil.
func (g *GameState) PlayerByColor(c Color) *Player {
	for _, p := range g.Players {
		if p.Color == c {
			return p
		}
	}
	return nil
}

// TokenByID resolves a global token id across all players, or nil.
func (g *GameState) TokenByID(id int) *Token {
	for _, p := range g.Players {
		if t := p.Token(id); t != nil {
			return t
		}
	}
	return nil
}

// pendingMove looks up the candidate move for a token in AvailableMoves.
func (g *GameState) pendingMove(tokenID int) (Move, bool) {
	for _, m := range g.AvailableMoves {
		if m.TokenID == tokenID {
			return m, true
		}
	}
	return Move{}, false
}
