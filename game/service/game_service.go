package service

import (
	"context"
	"sync"
	"time"

	"github.com/bingohall/server/game/engine"
)

// GameService defines all game-related operations. Every mutating operation
// returns a discriminated result; the error return carries internal faults
// only.
type GameService interface {
	// Lifecycle
	CreateGame(ctx context.Context, organizerID string, config *engine.GameConfig) (*GameResult, error)
	GetGame(ctx context.Context, gameID string) (*engine.GameState, error)
	ListGames(ctx context.Context) ([]*engine.GameState, error)
	DeleteGame(ctx context.Context, gameID, organizerID string) (*GameResult, error)

	// Player and organizer actions
	JoinGame(ctx context.Context, gameID, userID string) (*JoinResult, error)
	StartGame(ctx context.Context, gameID, organizerID string) (*GameResult, error)
	CallNumber(ctx context.Context, gameID, organizerID string, number int) (*GameResult, error)
	MarkNumber(ctx context.Context, gameID, userID string, cardIndex, row, col int) (*GameResult, error)
	ClaimBingo(ctx context.Context, gameID, userID string, cardIndex int) (*ClaimResult, error)
}

// SessionManager defines the session registry: the only component with
// cross-game visibility.
type SessionManager interface {
	Create(eng *engine.GameEngine) (*Session, error)
	Get(id string) (*Session, error)
	List() []*Session
	Delete(id string) error
	Count() int
}

// Ledger is the account-balance collaborator. The game core never mutates
// balances itself; the service sequences these calls after an engine
// operation succeeds.
type Ledger interface {
	Balance(userID string) (int, error)
	Debit(userID string, amount int) error
	Credit(userID string, amount int) error
}

// Session pairs one game engine with its serialization point. All mutating
// operations against one game run under its lock; different games never
// contend.
type Session struct {
	ID        string
	Engine    *engine.GameEngine
	CreatedAt time.Time

	mu sync.Mutex
}

// Lock enters the session's exclusive section.
func (s *Session) Lock() { s.mu.Lock() }

// Unlock leaves the session's exclusive section.
func (s *Session) Unlock() { s.mu.Unlock() }
