// Package game hosts the turn controller, the per-match state machine that
// orchestrates roll, move, capture, extra turn and turn advancement. The
// local harness and the multiplayer session coordinator drive the same
// controller; neither reimplements any rule.
package game

import (
	"errors"
	"math/rand"

	"github.com/yourusername/ludoengine/pkg/engine"
)

// Phase is the controller's explicit sub-state while a match is live.
// Illegal transitions are unrepresentable: Roll is accepted only in
// AwaitingRoll, Move only in AwaitingMove.
type Phase int

const (
	PhaseSetup Phase = iota
	PhaseAwaitingRoll
	PhaseAwaitingMove
	PhaseFinished
)

var phaseNames = map[Phase]string{
	PhaseSetup:        "setup",
	PhaseAwaitingRoll: "awaiting_roll",
	PhaseAwaitingMove: "awaiting_move",
	PhaseFinished:     "finished",
}

func (p Phase) String() string { return phaseNames[p] }

var (
	// ErrNotStarted is returned for actions before Start.
	ErrNotStarted = errors.New("match not started")
	// ErrAwaitingMove is returned for a roll while a move is pending.
	ErrAwaitingMove = errors.New("move pending, cannot roll")
	// ErrAwaitingRoll is returned for a move before the roll.
	ErrAwaitingRoll = errors.New("roll the dice first")
	// ErrGameOver is returned for any action after the match ended.
	ErrGameOver = errors.New("match is over")
)

// DiceRoller draws one uniform dice value in [1,6].
type DiceRoller func() int

// NewDiceRoller returns a roller backed by the given source.
func NewDiceRoller(rng *rand.Rand) DiceRoller {
	return func() int { return rng.Intn(6) + 1 }
}

// RollOutcome describes what a roll led to.
type RollOutcome int

const (
	// RollAwaitMove: legal moves exist, the roller must pick one.
	RollAwaitMove RollOutcome = iota
	// RollPass: no legal moves and no six, the turn passed.
	RollPass
	// RollReroll: a six with no legal moves, the same player rolls again.
	RollReroll
)

// RollResult is the outcome of one dice roll.
type RollResult struct {
	Dice    int
	Moves   []engine.Move
	Outcome RollOutcome
}

// MoveOutcome is the outcome of applying one move.
type MoveOutcome struct {
	Result    *engine.MoveResult
	ExtraTurn bool
	GameOver  bool
}

// Controller runs one match instance.
type Controller struct {
	state *engine.GameState
	phase Phase
	roll  DiceRoller
}

// NewController creates a controller in setup for the given players.
func NewController(players []*engine.Player, roll DiceRoller) *Controller {
	return &Controller{
		state: engine.NewGameState(players),
		phase: PhaseSetup,
		roll:  roll,
	}
}

// Start flips the match to playing with the first seat to act.
func (c *Controller) Start() {
	c.state.Status = engine.StatusPlaying
	c.phase = PhaseAwaitingRoll
}

// State exposes the authoritative game state. Callers must not mutate it.
func (c *Controller) State() *engine.GameState { return c.state }

// Phase returns the current controller phase.
func (c *Controller) Phase() Phase { return c.phase }

// CurrentPlayer returns the seat whose turn it is.
func (c *Controller) CurrentPlayer() *engine.Player { return c.state.CurrentPlayer() }

// Roll draws a dice value for the current player and computes their legal
// moves. With no legal moves the turn passes immediately unless the roll
// was a six, which grants a reroll; any pacing delay before the next action
// is presentation, not rules.
func (c *Controller) Roll() (*RollResult, error) {
	switch c.phase {
	case PhaseSetup:
		return nil, ErrNotStarted
	case PhaseAwaitingMove:
		return nil, ErrAwaitingMove
	case PhaseFinished:
		return nil, ErrGameOver
	}

	dice := c.roll()
	moves := engine.LegalMoves(c.CurrentPlayer(), dice)

	c.state.Dice = dice
	res := &RollResult{Dice: dice, Moves: moves}
	switch {
	case len(moves) > 0:
		c.state.HasRolled = true
		c.state.AvailableMoves = moves
		c.phase = PhaseAwaitingMove
		res.Outcome = RollAwaitMove
	case dice == engine.RollToStart:
		res.Outcome = RollReroll
	default:
		c.advanceTurn()
		res.Outcome = RollPass
	}
	return res, nil
}

// Move applies the pending move for tokenID, decides the extra-turn rule
// and advances or retains the turn. A win freezes the match.
func (c *Controller) Move(tokenID int) (*MoveOutcome, error) {
	switch c.phase {
	case PhaseSetup:
		return nil, ErrNotStarted
	case PhaseAwaitingRoll:
		return nil, ErrAwaitingRoll
	case PhaseFinished:
		return nil, ErrGameOver
	}

	dice := c.state.Dice
	res, err := c.state.ApplyMove(tokenID)
	if err != nil {
		return nil, err
	}

	out := &MoveOutcome{Result: res}
	if c.state.Status == engine.StatusGameOver {
		c.phase = PhaseFinished
		out.GameOver = true
		return out, nil
	}

	out.ExtraTurn = engine.ExtraTurn(dice, res)
	if !out.ExtraTurn {
		c.advanceTurn()
	}
	c.phase = PhaseAwaitingRoll
	return out, nil
}

func (c *Controller) advanceTurn() {
	c.state.Current = (c.state.Current + 1) % len(c.state.Players)
}
