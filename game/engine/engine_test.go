package engine

import (
	"errors"
	"testing"
)

func testConfig() *GameConfig {
	return &GameConfig{
		Prize:     100,
		CardPrice: 10,
		Mode:      ModeManual,
		Pattern:   PatternAnyLine,
	}
}

func TestNewEngine(t *testing.T) {
	eng := NewEngine("", "org-1", testConfig())

	if eng.ID() == "" {
		t.Error("expected a generated game id")
	}
	if eng.Status() != StatusWaiting {
		t.Errorf("expected status %s, got %s", StatusWaiting, eng.Status())
	}

	state := eng.Snapshot()
	if len(state.Players) != 0 {
		t.Errorf("expected empty roster, got %d players", len(state.Players))
	}
	if state.Pot != 0 {
		t.Errorf("expected empty pot, got %d", state.Pot)
	}
	if state.OrganizerID != "org-1" {
		t.Errorf("expected organizer org-1, got %s", state.OrganizerID)
	}
}

func TestNewEngine_Defaults(t *testing.T) {
	eng := NewEngine("g1", "org-1", nil)

	state := eng.Snapshot()
	if state.Mode != ModeManual {
		t.Errorf("expected default mode %s, got %s", ModeManual, state.Mode)
	}
	if state.Pattern != PatternAnyLine {
		t.Errorf("expected default pattern %s, got %s", PatternAnyLine, state.Pattern)
	}
	if state.ID != "g1" {
		t.Errorf("expected provided id to be kept, got %s", state.ID)
	}
}

func assertCode(t *testing.T, err error, want Code) {
	t.Helper()
	if err == nil {
		t.Fatalf("expected error with code %s, got nil", want)
	}
	var e *Error
	if !errors.As(err, &e) {
		t.Fatalf("expected *engine.Error, got %T: %v", err, err)
	}
	if e.Code != want {
		t.Fatalf("expected code %s, got %s (%s)", want, e.Code, e.Message)
	}
}

func TestJoin(t *testing.T) {
	eng := NewEngine("", "org-1", testConfig())

	if err := eng.Join("p1", 50); err != nil {
		t.Fatalf("join failed: %v", err)
	}

	state := eng.Snapshot()
	if len(state.Players) != 1 {
		t.Fatalf("expected 1 player, got %d", len(state.Players))
	}
	if len(state.Players[0].Cards) != 1 {
		t.Errorf("expected 1 issued card, got %d", len(state.Players[0].Cards))
	}
	if state.Pot != 10 {
		t.Errorf("expected pot 10, got %d", state.Pot)
	}
}

func TestJoin_Duplicate(t *testing.T) {
	eng := NewEngine("", "org-1", testConfig())

	if err := eng.Join("p1", 50); err != nil {
		t.Fatalf("join failed: %v", err)
	}
	assertCode(t, eng.Join("p1", 50), CodeDuplicate)

	if got := len(eng.Snapshot().Players); got != 1 {
		t.Errorf("duplicate join must not grow the roster, got %d players", got)
	}
}

func TestJoin_InsufficientFunds(t *testing.T) {
	eng := NewEngine("", "org-1", testConfig())

	assertCode(t, eng.Join("p1", 9), CodeInsufficientFunds)

	state := eng.Snapshot()
	if len(state.Players) != 0 || state.Pot != 0 {
		t.Error("failed join must leave roster and pot unchanged")
	}
}

func TestJoin_AfterStart(t *testing.T) {
	eng := NewEngine("", "org-1", testConfig())

	if err := eng.Join("p1", 50); err != nil {
		t.Fatalf("join failed: %v", err)
	}
	if err := eng.Start("org-1"); err != nil {
		t.Fatalf("start failed: %v", err)
	}

	assertCode(t, eng.Join("p2", 50), CodeInvalidState)

	state := eng.Snapshot()
	if len(state.Players) != 1 || state.Pot != 10 {
		t.Error("join on a started game must leave roster and pot unchanged")
	}
}

func TestStart(t *testing.T) {
	eng := NewEngine("", "org-1", testConfig())

	// Empty roster cannot start.
	assertCode(t, eng.Start("org-1"), CodeInvalidState)

	if err := eng.Join("p1", 50); err != nil {
		t.Fatalf("join failed: %v", err)
	}

	// Only the organizer can start.
	assertCode(t, eng.Start("p1"), CodeUnauthorized)

	if err := eng.Start("org-1"); err != nil {
		t.Fatalf("start failed: %v", err)
	}
	if eng.Status() != StatusInProgress {
		t.Errorf("expected status %s, got %s", StatusInProgress, eng.Status())
	}

	// Starting twice fails.
	assertCode(t, eng.Start("org-1"), CodeInvalidState)
}

func startedGame(t *testing.T, players ...string) *GameEngine {
	t.Helper()
	eng := NewEngine("", "org-1", testConfig())
	for _, p := range players {
		if err := eng.Join(p, 1000); err != nil {
			t.Fatalf("join %s failed: %v", p, err)
		}
	}
	if err := eng.Start("org-1"); err != nil {
		t.Fatalf("start failed: %v", err)
	}
	return eng
}

func TestCallNumber(t *testing.T) {
	eng := startedGame(t, "p1")

	if err := eng.CallNumber("org-1", 7); err != nil {
		t.Fatalf("call failed: %v", err)
	}
	if err := eng.CallNumber("org-1", 42); err != nil {
		t.Fatalf("call failed: %v", err)
	}

	called := eng.Snapshot().CalledNumbers
	if len(called) != 2 || called[0] != 7 || called[1] != 42 {
		t.Errorf("expected call order [7 42], got %v", called)
	}
}

func TestCallNumber_Validation(t *testing.T) {
	eng := startedGame(t, "p1")
	if err := eng.CallNumber("org-1", 7); err != nil {
		t.Fatalf("call failed: %v", err)
	}

	tests := []struct {
		name   string
		caller string
		number int
		want   Code
	}{
		{"not organizer", "p1", 8, CodeUnauthorized},
		{"above range", "org-1", 76, CodeOutOfRange},
		{"below range", "org-1", 0, CodeOutOfRange},
		{"duplicate", "org-1", 7, CodeDuplicate},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assertCode(t, eng.CallNumber(tt.caller, tt.number), tt.want)

			if got := len(eng.Snapshot().CalledNumbers); got != 1 {
				t.Errorf("failed call must leave history unchanged, got %d entries", got)
			}
		})
	}
}

func TestCallNumber_BeforeStart(t *testing.T) {
	eng := NewEngine("", "org-1", testConfig())
	assertCode(t, eng.CallNumber("org-1", 7), CodeInvalidState)
}

func TestMarkNumber(t *testing.T) {
	eng := startedGame(t, "p1")

	card := eng.Snapshot().Players[0].Cards[0]
	number := card[0][0].Number

	// Not called yet.
	assertCode(t, eng.MarkNumber("p1", 0, 0, 0), CodeInvalidState)

	if err := eng.CallNumber("org-1", number); err != nil {
		t.Fatalf("call failed: %v", err)
	}
	if err := eng.MarkNumber("p1", 0, 0, 0); err != nil {
		t.Fatalf("mark failed: %v", err)
	}

	if !eng.Snapshot().Players[0].Cards[0][0][0].Marked {
		t.Error("cell should be marked after MarkNumber")
	}

	// Re-marking the same cell fails.
	assertCode(t, eng.MarkNumber("p1", 0, 0, 0), CodeAlreadyMarked)
}

func TestMarkNumber_Validation(t *testing.T) {
	eng := startedGame(t, "p1")

	tests := []struct {
		name          string
		user          string
		card, row, col int
		want          Code
	}{
		{"unknown player", "ghost", 0, 0, 0, CodeNotFound},
		{"bad card index", "p1", 3, 0, 0, CodeOutOfRange},
		{"negative card index", "p1", -1, 0, 0, CodeOutOfRange},
		{"row out of bounds", "p1", 0, 5, 0, CodeOutOfRange},
		{"col out of bounds", "p1", 0, 0, 9, CodeOutOfRange},
		{"free cell", "p1", 0, FreeRow, FreeCol, CodeAlreadyMarked},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assertCode(t, eng.MarkNumber(tt.user, tt.card, tt.row, tt.col), tt.want)
		})
	}
}

// callRow calls every number on row of the player's first card.
func callRow(t *testing.T, eng *GameEngine, userIndex, row int) {
	t.Helper()
	card := eng.Snapshot().Players[userIndex].Cards[0]
	for col := 0; col < CardSize; col++ {
		cell := card[row][col]
		if cell.Free {
			continue
		}
		if err := eng.CallNumber("org-1", cell.Number); err != nil {
			var e *Error
			if errors.As(err, &e) && e.Code == CodeDuplicate {
				continue
			}
			t.Fatalf("call %d failed: %v", cell.Number, err)
		}
	}
}

func TestClaimBingo_TopRow(t *testing.T) {
	eng := NewEngine("", "org-1", &GameConfig{Prize: 100, CardPrice: 10, Pattern: PatternTopRow})
	if err := eng.Join("p1", 1000); err != nil {
		t.Fatalf("join failed: %v", err)
	}
	if err := eng.Start("org-1"); err != nil {
		t.Fatalf("start failed: %v", err)
	}

	// No win before the row is complete.
	_, err := eng.ClaimBingo("p1", 0)
	assertCode(t, err, CodeNoWin)

	callRow(t, eng, 0, 0)

	won, err := eng.ClaimBingo("p1", 0)
	if err != nil {
		t.Fatalf("claim failed: %v", err)
	}
	if !won {
		t.Error("expected a winning claim")
	}

	state := eng.Snapshot()
	if state.Status != StatusFinished {
		t.Errorf("expected status %s, got %s", StatusFinished, state.Status)
	}
	if len(state.Winners) != 1 || state.Winners[0] != "p1" {
		t.Errorf("expected winners [p1], got %v", state.Winners)
	}
}

func TestClaimBingo_FirstWinnerTakesAll(t *testing.T) {
	eng := NewEngine("", "org-1", &GameConfig{Prize: 100, CardPrice: 10, Pattern: PatternTopRow})
	for _, p := range []string{"p1", "p2"} {
		if err := eng.Join(p, 1000); err != nil {
			t.Fatalf("join failed: %v", err)
		}
	}
	if err := eng.Start("org-1"); err != nil {
		t.Fatalf("start failed: %v", err)
	}

	// Complete the top row for both players' cards.
	callRow(t, eng, 0, 0)
	callRow(t, eng, 1, 0)

	won, err := eng.ClaimBingo("p1", 0)
	if err != nil || !won {
		t.Fatalf("first claim should win, got won=%v err=%v", won, err)
	}

	// The second card also wins on its own, but the game already has a
	// winner: first admitted claim takes all.
	_, err = eng.ClaimBingo("p2", 0)
	assertCode(t, err, CodeAlreadyWon)

	if got := len(eng.Snapshot().Winners); got != 1 {
		t.Errorf("expected exactly 1 winner, got %d", got)
	}
}

func TestClaimBingo_Validation(t *testing.T) {
	eng := startedGame(t, "p1")

	_, err := eng.ClaimBingo("ghost", 0)
	assertCode(t, err, CodeNotFound)

	_, err = eng.ClaimBingo("p1", 2)
	assertCode(t, err, CodeOutOfRange)

	waiting := NewEngine("", "org-1", testConfig())
	if err := waiting.Join("p1", 1000); err != nil {
		t.Fatalf("join failed: %v", err)
	}
	_, err = waiting.ClaimBingo("p1", 0)
	assertCode(t, err, CodeInvalidState)
}

func TestDeletable(t *testing.T) {
	eng := NewEngine("", "org-1", testConfig())

	assertCode(t, eng.Deletable("p1"), CodeUnauthorized)
	if err := eng.Deletable("org-1"); err != nil {
		t.Fatalf("waiting game should be deletable by the organizer: %v", err)
	}

	if err := eng.Join("p1", 1000); err != nil {
		t.Fatalf("join failed: %v", err)
	}
	if err := eng.Start("org-1"); err != nil {
		t.Fatalf("start failed: %v", err)
	}
	assertCode(t, eng.Deletable("org-1"), CodeInvalidState)
}

func TestSnapshot_Isolation(t *testing.T) {
	eng := startedGame(t, "p1")
	if err := eng.CallNumber("org-1", 7); err != nil {
		t.Fatalf("call failed: %v", err)
	}

	snap := eng.Snapshot()
	snap.CalledNumbers[0] = 99
	snap.Players[0].UserID = "tampered"

	state := eng.Snapshot()
	if state.CalledNumbers[0] != 7 {
		t.Error("mutating a snapshot must not affect engine state")
	}
	if state.Players[0].UserID != "p1" {
		t.Error("mutating a snapshot roster must not affect engine state")
	}
}
