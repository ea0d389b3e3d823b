// Command ludosim runs all-bot self-play matches through the same rules
// engine and turn controller the server uses, and reports per-seat win
// rates and game-length statistics. Useful for balancing the heuristic
// tiers and for smoke-testing the engine at volume.
package main

import (
	"flag"
	"fmt"
	"log"
	"math"
	"math/rand"
	"strings"

	"gonum.org/v1/gonum/stat"

	"github.com/yourusername/ludoengine/pkg/ai"
	"github.com/yourusername/ludoengine/pkg/game"
)

// maxActions bounds one match; a Ludo game ending this late is a bug.
const maxActions = 20000

func main() {
	games := flag.Int("games", 1000, "Number of games to simulate")
	levels := flag.String("levels", "hard,medium", "Comma-separated difficulty per seat (2-4 seats)")
	seed := flag.Int64("seed", 1, "Random seed")

	flag.Parse()

	var bots []game.BotSeat
	for i, name := range strings.Split(*levels, ",") {
		level, err := ai.ParseDifficulty(strings.TrimSpace(name))
		if err != nil {
			log.Fatalf("bad -levels: %v", err)
		}
		bots = append(bots, game.BotSeat{Name: fmt.Sprintf("bot-%d", i+1), Level: level})
	}
	if len(bots) < 2 || len(bots) > 4 {
		log.Fatalf("need 2-4 seats, got %d", len(bots))
	}

	rng := rand.New(rand.NewSource(*seed))
	wins := make([]int, len(bots))
	lengths := make([]float64, 0, *games)

	for i := 0; i < *games; i++ {
		match := game.NewSelfPlay(bots, rng)
		match.Start()
		actions, err := match.RunToCompletion(maxActions)
		if err != nil {
			log.Fatalf("game %d: %v", i+1, err)
		}
		wins[int(match.State().Winner)]++
		lengths = append(lengths, float64(actions))
	}

	mean := stat.Mean(lengths, nil)
	sd := stat.StdDev(lengths, nil)
	ci95 := 1.96 * sd / math.Sqrt(float64(len(lengths)))

	fmt.Printf("Simulated %d games (seed %d)\n\n", *games, *seed)
	for i, b := range bots {
		rate := float64(wins[i]) / float64(*games) * 100
		fmt.Printf("  seat %d  %-8s %-6s  wins %5d  (%.1f%%)\n", i+1, b.Name, b.Level, wins[i], rate)
	}
	fmt.Printf("\n  actions per game: %.1f ± %.1f (95%% CI), stddev %.1f\n", mean, ci95, sd)
}
