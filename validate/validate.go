// Package validate audits game states against the rules the engine is
// supposed to preserve. It checks:
//   - Card shape: every card cell holds a number in its column's range,
//     with the single FREE cell at the center
//   - Called numbers: in range 1-75 with no duplicates
//   - Pot consistency: pot equals card price times cards sold
//   - Winners: every winner is a joined player, and a finished game has one
//   - Status: waiting games have no called numbers
//
// The engine never produces an invalid state on its own; the audit exists
// for operators inspecting imported or long-lived games.
package validate

import (
	"fmt"

	"github.com/bingohall/server/game/engine"
)

// Result captures the outcome of auditing a single game state.
// If Valid is false, Errors accumulates every violation that was found.
type Result struct {
	GameID string   `json:"game_id"`
	Valid  bool     `json:"valid"`
	Errors []string `json:"errors"`
}

// Audit checks one game state and reports every violated rule.
func Audit(state *engine.GameState) Result {
	result := Result{
		GameID: state.ID,
		Valid:  true,
		Errors: []string{},
	}

	fail := func(format string, args ...interface{}) {
		result.Valid = false
		result.Errors = append(result.Errors, fmt.Sprintf(format, args...))
	}

	if state.ID == "" {
		fail("Game has no ID")
	}
	if state.OrganizerID == "" {
		fail("Game has no organizer")
	}

	switch state.Status {
	case engine.StatusWaiting, engine.StatusInProgress, engine.StatusFinished:
	default:
		fail("Unknown status %q", state.Status)
	}

	// Called numbers
	seen := make(map[int]bool, len(state.CalledNumbers))
	for _, n := range state.CalledNumbers {
		if n < engine.MinNumber || n > engine.MaxNumber {
			fail("Called number %d out of range %d-%d", n, engine.MinNumber, engine.MaxNumber)
		}
		if seen[n] {
			fail("Number %d called more than once", n)
		}
		seen[n] = true
	}
	if state.Status == engine.StatusWaiting && len(state.CalledNumbers) > 0 {
		fail("Waiting game has %d called numbers", len(state.CalledNumbers))
	}

	// Players and cards
	cardsSold := 0
	players := make(map[string]bool, len(state.Players))
	for _, player := range state.Players {
		if players[player.UserID] {
			fail("Player %s joined more than once", player.UserID)
		}
		players[player.UserID] = true

		for i := range player.Cards {
			auditCard(&result, fail, player.UserID, i, &player.Cards[i])
		}
		cardsSold += len(player.Cards)
	}

	// Pot is the card revenue; prizes come out of the organizer's pocket
	if want := state.CardPrice * cardsSold; state.Pot != want {
		fail("Pot is %d, expected %d (%d cards at %d)", state.Pot, want, cardsSold, state.CardPrice)
	}

	// Winners
	for _, winner := range state.Winners {
		if !players[winner] {
			fail("Winner %s is not a player", winner)
		}
	}
	if state.Status == engine.StatusFinished && len(state.Winners) == 0 {
		fail("Finished game has no winner")
	}
	if state.Status != engine.StatusFinished && len(state.Winners) > 0 {
		fail("Unfinished game has winners %v", state.Winners)
	}

	return result
}

// auditCard checks one card's shape and numbering.
func auditCard(result *Result, fail func(string, ...interface{}), userID string, cardIndex int, card *engine.BingoCard) {
	numbers := make(map[int]bool, engine.CardSize*engine.CardSize)

	for row := 0; row < engine.CardSize; row++ {
		for col := 0; col < engine.CardSize; col++ {
			cell := card[row][col]
			center := row == engine.FreeRow && col == engine.FreeCol

			if center {
				if !cell.Free {
					fail("Player %s card %d: center cell is not FREE", userID, cardIndex)
				}
				continue
			}
			if cell.Free {
				fail("Player %s card %d: FREE cell outside center at [%d,%d]", userID, cardIndex, row, col)
				continue
			}

			r := engine.ColumnRanges[col]
			if cell.Number < r.Min || cell.Number > r.Max {
				fail("Player %s card %d: number %d at [%d,%d] outside column range %d-%d",
					userID, cardIndex, cell.Number, row, col, r.Min, r.Max)
			}
			if numbers[cell.Number] {
				fail("Player %s card %d: number %d appears twice", userID, cardIndex, cell.Number)
			}
			numbers[cell.Number] = true
		}
	}
}
