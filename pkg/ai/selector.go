// Package ai scores legal moves and picks one for a heuristic opponent.
// Harder tiers apply less noise and look one opposing roll ahead; every
// tier picks uniformly among its top three candidates so play is never
// deterministic enough to exploit.
package ai

import (
	"fmt"
	"math/rand"
	"sort"

	"github.com/yourusername/ludoengine/internal/board"
	"github.com/yourusername/ludoengine/pkg/engine"
)

// Difficulty selects a heuristic tier.
type Difficulty int

const (
	Easy Difficulty = iota
	Medium
	Hard
)

var difficultyNames = map[Difficulty]string{
	Easy: "easy", Medium: "medium", Hard: "hard",
}

func (d Difficulty) String() string { return difficultyNames[d] }

// ParseDifficulty maps a tier name to its Difficulty. Unknown names are an
// error so misconfigured bots fail loudly.
func ParseDifficulty(s string) (Difficulty, error) {
	for d, name := range difficultyNames {
		if name == s {
			return d, nil
		}
	}
	return Easy, fmt.Errorf("unknown difficulty %q", s)
}

// Scoring weights and bonuses. Progress dominates; tactical bonuses are
// flat additions on top of the weighted terms.
const (
	progressWeight = 0.4
	safetyWeight   = 0.2

	safetySafeZone = 10
	safetyLane     = 8
	safetyOpenRing = 3

	captureBonus  = 25
	exitHomeBonus = 15
	finishBonus   = 50
	blockingBonus = 5

	easyNoise   = 10
	mediumNoise = 5

	topPicks = 3
)

// SelectMove scores every candidate and returns a uniformly random pick
// among the top three. The rng drives both the difficulty noise and the
// final pick; callers inject a seeded source for reproducible play.
func SelectMove(g *engine.GameState, moves []engine.Move, d Difficulty, rng *rand.Rand) engine.Move {
	if len(moves) == 1 {
		return moves[0]
	}

	type scored struct {
		move  engine.Move
		score float64
	}
	ranked := make([]scored, 0, len(moves))
	for _, m := range moves {
		ranked = append(ranked, scored{move: m, score: scoreMove(g, m, d, rng)})
	}
	sort.SliceStable(ranked, func(i, j int) bool { return ranked[i].score > ranked[j].score })

	n := topPicks
	if len(ranked) < n {
		n = len(ranked)
	}
	return ranked[rng.Intn(n)].move
}

// scoreMove computes the weighted heuristic value of one candidate.
func scoreMove(g *engine.GameState, m engine.Move, d Difficulty, rng *rand.Rand) float64 {
	me := g.CurrentPlayer()
	t := me.Token(m.TokenID)
	dest := m.NewPosition
	fromHome := t.State == engine.TokenHome

	score := progressWeight * progressScore(dest, t.Color)
	score += safetyWeight * safetyScore(dest, fromHome)

	score += captureBonus * float64(countCaptures(g, me.Color, dest))

	if fromHome {
		score += exitHomeBonus
	}
	if dest == board.LaneEnd(int(t.Color)) {
		score += finishBonus
	}

	switch d {
	case Easy:
		score += (rng.Float64()*2 - 1) * easyNoise
	case Medium:
		score += (rng.Float64()*2 - 1) * mediumNoise
	case Hard:
		score += blockingBonus * float64(countBlocked(g, me.Color, dest))
	}
	return score
}

// progressScore converts distance-to-goal into a 0..100 scale. Finish-lane
// cells score far above ring cells.
func progressScore(dest int, c engine.Color) float64 {
	remaining := board.StepsToFinish(dest, int(c))
	total := float64(board.JourneyLen())
	return (total - float64(remaining)) / total * 100
}

// safetyScore rates the destination cell. A home exit scores zero even
// though start cells are safe; leaving the yard is rewarded separately.
func safetyScore(dest int, fromHome bool) float64 {
	switch {
	case fromHome:
		return 0
	case board.InLane(dest):
		return safetyLane
	case board.IsSafe(dest):
		return safetySafeZone
	default:
		return safetyOpenRing
	}
}

// countCaptures counts opposing active tokens that would be sent home by
// landing on dest.
func countCaptures(g *engine.GameState, mine engine.Color, dest int) int {
	if !board.OnRing(dest) || board.IsSafe(dest) {
		return 0
	}
	n := 0
	for _, p := range g.Players {
		if p.Color == mine {
			continue
		}
		for _, t := range p.Tokens {
			if t.State == engine.TokenActive && t.Position == dest {
				n++
			}
		}
	}
	return n
}

// countBlocked counts opposing tokens that could land on dest within their
// next single roll, i.e. tokens sitting 1..6 ring steps behind it. Safe
// destinations cannot be contested so they count nothing.
func countBlocked(g *engine.GameState, mine engine.Color, dest int) int {
	if !board.OnRing(dest) || board.IsSafe(dest) {
		return 0
	}
	n := 0
	for _, p := range g.Players {
		if p.Color == mine {
			continue
		}
		for _, t := range p.Tokens {
			if t.State != engine.TokenActive || !board.OnRing(t.Position) {
				continue
			}
			gap := (dest - t.Position + board.RingSize) % board.RingSize
			if gap >= 1 && gap <= 6 {
				n++
			}
		}
	}
	return n
}
