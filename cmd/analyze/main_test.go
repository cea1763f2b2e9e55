package main

import (
	"math/rand"
	"testing"

	"github.com/bingohall/server/game/engine"
)

func TestSimulate_EveryGameCompletes(t *testing.T) {
	rng := rand.New(rand.NewSource(1))

	stats := simulate(rng, engine.PatternFullHouse, 50)
	if len(stats.calls) != 50 {
		t.Fatalf("Expected 50 completed games, got %d", len(stats.calls))
	}

	for _, calls := range stats.calls {
		// 24 drawn numbers on a card, so full house needs at least that
		if calls < 24 || calls > engine.MaxNumber {
			t.Errorf("Implausible call count %d for full house", calls)
		}
	}
}

func TestSimulate_AnyLineBeatsFullHouse(t *testing.T) {
	rng := rand.New(rand.NewSource(2))

	anyLine := simulate(rng, engine.PatternAnyLine, 200)
	fullHouse := simulate(rng, engine.PatternFullHouse, 200)

	if mean(anyLine.calls) >= mean(fullHouse.calls) {
		t.Errorf("any_line should complete in fewer calls than full_house on average: %.1f vs %.1f",
			mean(anyLine.calls), mean(fullHouse.calls))
	}
}

func TestMean(t *testing.T) {
	if got := mean(nil); got != 0 {
		t.Errorf("mean(nil) = %f, want 0", got)
	}
	if got := mean([]int{2, 4, 6}); got != 4 {
		t.Errorf("mean = %f, want 4", got)
	}
}

func TestPercentile(t *testing.T) {
	sorted := []int{1, 2, 3, 4, 5, 6, 7, 8, 9, 10}

	if got := percentile(sorted, 50); got != 6 {
		t.Errorf("p50 = %d, want 6", got)
	}
	if got := percentile(sorted, 90); got != 10 {
		t.Errorf("p90 = %d, want 10", got)
	}
	if got := percentile(nil, 50); got != 0 {
		t.Errorf("percentile(nil) = %d, want 0", got)
	}
}
