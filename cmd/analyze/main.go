// Command analyze prints quick, human-readable statistics about the winning
// patterns. For each pattern it simulates many games, drawing numbers in
// random order against freshly generated cards, and reports how many calls
// a card needs on average before the pattern completes. Useful when picking
// a pattern and prize for a session of a given length.
package main

import (
	"flag"
	"fmt"
	"math/rand"
	"sort"

	"github.com/bingohall/server/game/engine"
)

var (
	rounds = flag.Int("rounds", 2000, "Simulated games per pattern")
	seed   = flag.Int64("seed", 0, "Random seed (0 uses a random one)")
)

// patternStats accumulates per-pattern call counts across simulations.
type patternStats struct {
	pattern engine.Pattern
	calls   []int
}

func main() {
	flag.Parse()

	rng := rand.New(rand.NewSource(*seed))
	if *seed == 0 {
		rng = rand.New(rand.NewSource(rand.Int63()))
	}

	patterns := []engine.Pattern{
		engine.PatternAnyLine,
		engine.PatternFourCorners,
		engine.PatternCross,
		engine.PatternLetterX,
		engine.PatternSmallSquare,
		engine.PatternTopRow,
		engine.PatternMiddleRow,
		engine.PatternBottomRow,
		engine.PatternLeftL,
		engine.PatternRightL,
		engine.PatternFullHouse,
	}

	fmt.Printf("Simulating %d games per pattern\n\n", *rounds)
	fmt.Printf("%-14s %8s %8s %8s %8s\n", "pattern", "mean", "median", "p10", "p90")

	for _, pattern := range patterns {
		stats := simulate(rng, pattern, *rounds)
		sort.Ints(stats.calls)

		fmt.Printf("%-14s %8.1f %8d %8d %8d\n",
			stats.pattern,
			mean(stats.calls),
			percentile(stats.calls, 50),
			percentile(stats.calls, 10),
			percentile(stats.calls, 90),
		)
	}
}

// simulate runs rounds games of one pattern and records, for each, how many
// calls a single card needed to complete it.
func simulate(rng *rand.Rand, pattern engine.Pattern, rounds int) patternStats {
	stats := patternStats{pattern: pattern, calls: make([]int, 0, rounds)}

	for i := 0; i < rounds; i++ {
		card := engine.NewCard()
		order := rng.Perm(engine.MaxNumber)

		called := make([]int, 0, engine.MaxNumber)
		for _, n := range order {
			called = append(called, n+1)
			if engine.IsWinner(card, called, pattern) {
				stats.calls = append(stats.calls, len(called))
				break
			}
		}
	}

	return stats
}

func mean(values []int) float64 {
	if len(values) == 0 {
		return 0
	}
	sum := 0
	for _, v := range values {
		sum += v
	}
	return float64(sum) / float64(len(values))
}

// percentile returns the p-th percentile of sorted values.
func percentile(sorted []int, p int) int {
	if len(sorted) == 0 {
		return 0
	}
	idx := len(sorted) * p / 100
	if idx >= len(sorted) {
		idx = len(sorted) - 1
	}
	return sorted[idx]
}
