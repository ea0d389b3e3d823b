package game

import (
	"errors"
	"math/rand"
	"time"

	"github.com/yourusername/ludoengine/pkg/ai"
	"github.com/yourusername/ludoengine/pkg/engine"
)

// Local is the single-player authority: one match of a human seat plus
// heuristic opponents, or all-bot self-play. It drives bot turns through the
// exact Roll/Move entry points a remote player would use.
type Local struct {
	ctrl   *Controller
	rng    *rand.Rand
	levels map[engine.Color]ai.Difficulty
}

// BotSeat configures one heuristic opponent.
type BotSeat struct {
	Name  string
	Level ai.Difficulty
}

var (
	// ErrNotHumanTurn is returned when the human acts on a bot's turn.
	ErrNotHumanTurn = errors.New("not the human player's turn")
	// ErrStalled is returned when a self-play run exceeds its action budget.
	ErrStalled = errors.New("match exceeded action budget")
)

// NewLocal creates a solo match: the human takes the first palette color,
// bots fill the following seats in order.
func NewLocal(humanName string, bots []BotSeat, rng *rand.Rand) *Local {
	players := []*engine.Player{engine.NewPlayer(engine.Palette[0], humanName)}
	levels := make(map[engine.Color]ai.Difficulty)
	for i, b := range bots {
		color := engine.Palette[i+1]
		p := engine.NewPlayer(color, b.Name)
		p.IsAI = true
		p.AILevel = b.Level.String()
		players = append(players, p)
		levels[color] = b.Level
	}
	return &Local{
		ctrl:   NewController(players, NewDiceRoller(rng)),
		rng:    rng,
		levels: levels,
	}
}

// NewSelfPlay creates an all-bot match for simulation and balance runs.
func NewSelfPlay(bots []BotSeat, rng *rand.Rand) *Local {
	players := make([]*engine.Player, 0, len(bots))
	levels := make(map[engine.Color]ai.Difficulty)
	for i, b := range bots {
		color := engine.Palette[i]
		p := engine.NewPlayer(color, b.Name)
		p.IsAI = true
		p.AILevel = b.Level.String()
		players = append(players, p)
		levels[color] = b.Level
	}
	return &Local{
		ctrl:   NewController(players, NewDiceRoller(rng)),
		rng:    rng,
		levels: levels,
	}
}

// Start begins the match.
func (l *Local) Start() { l.ctrl.Start() }

// Controller exposes the underlying match controller.
func (l *Local) Controller() *Controller { return l.ctrl }

// State exposes the authoritative game state.
func (l *Local) State() *engine.GameState { return l.ctrl.State() }

// HumanTurn reports whether the current seat is human-controlled.
func (l *Local) HumanTurn() bool {
	return !l.ctrl.CurrentPlayer().IsAI && l.ctrl.Phase() != PhaseFinished
}

// Roll rolls for the human seat.
func (l *Local) Roll() (*RollResult, error) {
	if l.ctrl.CurrentPlayer().IsAI {
		return nil, ErrNotHumanTurn
	}
	return l.ctrl.Roll()
}

// Move moves a token for the human seat.
func (l *Local) Move(tokenID int) (*MoveOutcome, error) {
	if l.ctrl.CurrentPlayer().IsAI {
		return nil, ErrNotHumanTurn
	}
	return l.ctrl.Move(tokenID)
}

// Step performs exactly one bot action: a roll, or the move selection for a
// pending roll. It is a no-op once the match is over or when it is the
// human's turn, so deferred continuations can call it blindly after
// checking the returned flag. done is true when no further bot action is
// possible right now.
func (l *Local) Step() (done bool, err error) {
	if l.ctrl.Phase() == PhaseFinished {
		return true, nil
	}
	cur := l.ctrl.CurrentPlayer()
	if !cur.IsAI {
		return true, nil
	}

	switch l.ctrl.Phase() {
	case PhaseAwaitingRoll:
		_, err = l.ctrl.Roll()
	case PhaseAwaitingMove:
		mv := ai.SelectMove(l.State(), l.State().AvailableMoves, l.levels[cur.Color], l.rng)
		_, err = l.ctrl.Move(mv.TokenID)
	}
	if err != nil {
		return true, err
	}
	return l.ctrl.Phase() == PhaseFinished || !l.ctrl.CurrentPlayer().IsAI, nil
}

// RunToCompletion drives an all-bot match to its end, bounded by maxActions
// to guard against a stalled loop. Returns the number of actions taken.
func (l *Local) RunToCompletion(maxActions int) (int, error) {
	actions := 0
	for l.ctrl.Phase() != PhaseFinished {
		if actions >= maxActions {
			return actions, ErrStalled
		}
		if _, err := l.Step(); err != nil {
			return actions, err
		}
		actions++
	}
	return actions, nil
}

// AIDelay is the artificial pause before a bot action; harder tiers think
// visibly faster. Simulation callers skip it entirely.
func AIDelay(d ai.Difficulty) time.Duration {
	switch d {
	case ai.Hard:
		return 300 * time.Millisecond
	case ai.Medium:
		return 600 * time.Millisecond
	default:
		return 900 * time.Millisecond
	}
}
