// Package engine provides the core game logic for the bingo hall server.
//
// The engine package implements the game mechanics including:
//   - Bingo card generation with B-I-N-G-O column ranges
//   - Winning-pattern evaluation against the called-number history
//   - The per-game lifecycle state machine (waiting, in progress, finished)
//   - Roster, pot, and called-number bookkeeping
//
// Core Types:
//
// GameEngine holds the full mutable state of a single game and exposes the
// state-transition operations (Join, Start, CallNumber, MarkNumber,
// ClaimBingo, Delete). GameState is the serializable view of that state,
// GameConfig the immutable parameters the organizer created the game with.
//
// Usage:
//
//	eng := engine.NewEngine("", "organizer-1", &engine.GameConfig{
//		Prize:     100,
//		CardPrice: 10,
//		Pattern:   engine.PatternTopRow,
//	})
//
//	if err := eng.Join("player-1", 50); err != nil {
//		// err is an *engine.Error with a machine-readable code
//	}
//	state := eng.Snapshot()
//
// Concurrency:
//
// GameEngine itself is not goroutine-safe. The session layer serializes all
// operations against one game through that game's session lock; different
// games never contend. Every operation validates all preconditions before
// mutating, so a failed operation leaves the state untouched.
package engine
