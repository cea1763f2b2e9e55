package service

import (
	"time"

	"github.com/bingohall/server/game/engine"
)

// Event types emitted alongside successful operations. The gateway turns
// these into broadcast messages; transports may also log them.
const (
	EventGameCreated    = "game_created"
	EventPlayerJoined   = "player_joined"
	EventGameStarted    = "game_started"
	EventNumberCalled   = "number_called"
	EventCardMarked     = "card_marked"
	EventWinnerDeclared = "winner_declared"
	EventGameDeleted    = "game_deleted"
	EventCreditsUpdated = "credits_updated"
)

// GameEvent describes one observable state change.
type GameEvent struct {
	Type      string    `json:"type"`
	Message   string    `json:"message"`
	Timestamp time.Time `json:"timestamp"`
	GameID    string    `json:"game_id,omitempty"`
	UserID    string    `json:"user_id,omitempty"`
	Number    int       `json:"number,omitempty"`
	Balance   int       `json:"balance,omitempty"`
}

// GameResult is the discriminated outcome of a game operation. On failure
// Success is false, ErrorCode and Error describe the rejection, and no
// state was mutated.
type GameResult struct {
	Success   bool              `json:"success"`
	ErrorCode engine.Code       `json:"error_code,omitempty"`
	Error     string            `json:"error,omitempty"`
	Game      *engine.GameState `json:"game,omitempty"`
	Events    []GameEvent       `json:"events,omitempty"`
}

// JoinResult extends GameResult with the joining player's authoritative
// post-debit balance.
type JoinResult struct {
	GameResult
	NewBalance int `json:"new_balance,omitempty"`
}

// ClaimResult extends GameResult with the claim verdict and the winner's
// authoritative post-credit balance.
type ClaimResult struct {
	GameResult
	IsWinner   bool `json:"is_winner"`
	NewBalance int  `json:"new_balance,omitempty"`
}

// failure builds the result for a rejected operation.
func failure(err error) GameResult {
	return GameResult{
		Success:   false,
		ErrorCode: engine.CodeOf(err),
		Error:     err.Error(),
	}
}
