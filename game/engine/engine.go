package engine

import (
	"time"

	"github.com/google/uuid"
)

// GameEngine holds the full mutable state of one bingo game and implements
// its lifecycle state machine. Operations validate every precondition before
// touching state, so a returned error guarantees no mutation happened.
type GameEngine struct {
	state *GameState
}

// NewEngine creates a game in the waiting state with an empty roster.
// An empty id gets a generated uuid. Creation always succeeds; a nil or
// zero-valued config falls back to manual mode and the any-line pattern.
func NewEngine(id, organizerID string, config *GameConfig) *GameEngine {
	if id == "" {
		id = uuid.NewString()
	}
	cfg := GameConfig{Mode: ModeManual, Pattern: PatternAnyLine}
	if config != nil {
		cfg = *config
		if cfg.Mode == "" {
			cfg.Mode = ModeManual
		}
		if cfg.Pattern == "" {
			cfg.Pattern = PatternAnyLine
		}
	}

	return &GameEngine{
		state: &GameState{
			ID:            id,
			OrganizerID:   organizerID,
			Prize:         cfg.Prize,
			CardPrice:     cfg.CardPrice,
			Status:        StatusWaiting,
			Players:       []GamePlayer{},
			CalledNumbers: []int{},
			Winners:       []string{},
			Mode:          cfg.Mode,
			Pattern:       cfg.Pattern,
			CreatedAt:     time.Now(),
		},
	}
}

// ID returns the game's identifier.
func (e *GameEngine) ID() string {
	return e.state.ID
}

// OrganizerID returns the creating organizer's user id.
func (e *GameEngine) OrganizerID() string {
	return e.state.OrganizerID
}

// Status returns the current lifecycle state.
func (e *GameEngine) Status() GameStatus {
	return e.state.Status
}

// CardPrice returns the per-card buy-in.
func (e *GameEngine) CardPrice() int {
	return e.state.CardPrice
}

// Prize returns the configured winner payout.
func (e *GameEngine) Prize() int {
	return e.state.Prize
}

// Snapshot returns a deep copy of the game state. The copy is safe to
// marshal or hand to broadcast code while further operations mutate the
// engine.
func (e *GameEngine) Snapshot() *GameState {
	s := *e.state

	s.Players = make([]GamePlayer, len(e.state.Players))
	for i, p := range e.state.Players {
		cards := make([]BingoCard, len(p.Cards))
		copy(cards, p.Cards)
		s.Players[i] = GamePlayer{UserID: p.UserID, Cards: cards}
	}

	s.CalledNumbers = make([]int, len(e.state.CalledNumbers))
	copy(s.CalledNumbers, e.state.CalledNumbers)

	s.Winners = make([]string, len(e.state.Winners))
	copy(s.Winners, e.state.Winners)

	return &s
}

// player returns the roster entry for userID, or nil.
func (e *GameEngine) player(userID string) *GamePlayer {
	for i := range e.state.Players {
		if e.state.Players[i].UserID == userID {
			return &e.state.Players[i]
		}
	}
	return nil
}

// Join adds a player to a waiting game and issues them one generated card.
// The balance is a precondition check only; debiting the card price is the
// caller's responsibility after Join succeeds.
func (e *GameEngine) Join(userID string, balance int) error {
	if e.state.Status != StatusWaiting {
		return newError(CodeInvalidState, "game has already started")
	}
	if e.player(userID) != nil {
		return newError(CodeDuplicate, "user %s already joined this game", userID)
	}
	if balance < e.state.CardPrice {
		return newError(CodeInsufficientFunds, "balance %d is below the card price %d", balance, e.state.CardPrice)
	}

	e.state.Players = append(e.state.Players, GamePlayer{
		UserID: userID,
		Cards:  []BingoCard{NewCard()},
	})
	e.state.Pot += e.state.CardPrice
	return nil
}

// Start moves a waiting game with a non-empty roster into progress.
// Organizer only.
func (e *GameEngine) Start(organizerID string) error {
	if organizerID != e.state.OrganizerID {
		return newError(CodeUnauthorized, "only the organizer can start the game")
	}
	if e.state.Status != StatusWaiting {
		return newError(CodeInvalidState, "game has already started")
	}
	if len(e.state.Players) == 0 {
		return newError(CodeInvalidState, "no players have joined the game")
	}

	e.state.Status = StatusInProgress
	return nil
}

// CallNumber appends one number to the call history. The history order is
// the draw sequence and audit trail; duplicates and out-of-range values are
// rejected. Organizer only.
func (e *GameEngine) CallNumber(organizerID string, number int) error {
	if organizerID != e.state.OrganizerID {
		return newError(CodeUnauthorized, "only the organizer can call numbers")
	}
	if e.state.Status != StatusInProgress {
		return newError(CodeInvalidState, "game is not in progress")
	}
	if number < MinNumber || number > MaxNumber {
		return newError(CodeOutOfRange, "number %d is outside the range %d-%d", number, MinNumber, MaxNumber)
	}
	for _, n := range e.state.CalledNumbers {
		if n == number {
			return newError(CodeDuplicate, "number %d was already called", number)
		}
	}

	e.state.CalledNumbers = append(e.state.CalledNumbers, number)
	return nil
}

// MarkNumber sets the cosmetic marked flag on one cell of a player's card.
// The cell's number must already have been called; the FREE cell and
// already-marked cells are rejected. Marking has no bearing on win
// evaluation.
func (e *GameEngine) MarkNumber(userID string, cardIndex, row, col int) error {
	player := e.player(userID)
	if player == nil {
		return newError(CodeNotFound, "user %s is not in this game", userID)
	}
	if cardIndex < 0 || cardIndex >= len(player.Cards) {
		return newError(CodeOutOfRange, "card index %d is invalid", cardIndex)
	}
	if row < 0 || row >= CardSize || col < 0 || col >= CardSize {
		return newError(CodeOutOfRange, "position (%d,%d) is outside the card", row, col)
	}

	cell := player.Cards[cardIndex][row][col]
	if cell.Free {
		return newError(CodeAlreadyMarked, "the FREE cell is permanently marked")
	}
	if cell.Marked {
		return newError(CodeAlreadyMarked, "cell (%d,%d) is already marked", row, col)
	}
	called := false
	for _, n := range e.state.CalledNumbers {
		if n == cell.Number {
			called = true
			break
		}
	}
	if !called {
		return newError(CodeInvalidState, "number %d has not been called yet", cell.Number)
	}

	player.Cards[cardIndex][row][col].Marked = true
	return nil
}

// ClaimBingo checks a player's card against the call history and the game's
// configured pattern. The first winning claim records the winner and
// finishes the game; a later claim against an already-won game fails even
// if its card also wins. The session lock's admission order is the only
// tie-break.
func (e *GameEngine) ClaimBingo(userID string, cardIndex int) (bool, error) {
	if len(e.state.Winners) > 0 {
		return false, newError(CodeAlreadyWon, "game already has a winner")
	}
	if e.state.Status != StatusInProgress {
		return false, newError(CodeInvalidState, "game is not in progress")
	}
	player := e.player(userID)
	if player == nil {
		return false, newError(CodeNotFound, "user %s is not in this game", userID)
	}
	if cardIndex < 0 || cardIndex >= len(player.Cards) {
		return false, newError(CodeOutOfRange, "card index %d is invalid", cardIndex)
	}

	if !IsWinner(player.Cards[cardIndex], e.state.CalledNumbers, e.state.Pattern) {
		return false, newError(CodeNoWin, "this card does not win the %s pattern", e.state.Pattern)
	}

	e.state.Winners = append(e.state.Winners, userID)
	e.state.Status = StatusFinished
	return true, nil
}

// Deletable reports whether organizerID may delete the game right now.
// Only the organizer may delete, and only while the game is waiting: active
// games stay fair, finished games stay auditable.
func (e *GameEngine) Deletable(organizerID string) error {
	if organizerID != e.state.OrganizerID {
		return newError(CodeUnauthorized, "only the organizer can delete the game")
	}
	if e.state.Status != StatusWaiting {
		return newError(CodeInvalidState, "only games that have not started can be deleted")
	}
	return nil
}
