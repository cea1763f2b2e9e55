package service

import (
	"context"
	"fmt"
	"log"
	"sort"
	"time"

	"github.com/bingohall/server/game/engine"
)

// gameServiceImpl implements the GameService interface on top of the
// session registry and the account ledger collaborator.
type gameServiceImpl struct {
	sessions SessionManager
	ledger   Ledger
}

// NewGameService creates a new game service instance.
func NewGameService(sessions SessionManager, ledger Ledger) GameService {
	return &gameServiceImpl{
		sessions: sessions,
		ledger:   ledger,
	}
}

// CreateGame creates a new game in the waiting state. Creation always
// succeeds for valid input; the organizer becomes the sole authority for
// start, call and delete.
func (s *gameServiceImpl) CreateGame(ctx context.Context, organizerID string, config *engine.GameConfig) (*GameResult, error) {
	eng := engine.NewEngine("", organizerID, config)

	sess, err := s.sessions.Create(eng)
	if err != nil {
		return nil, fmt.Errorf("failed to register game: %w", err)
	}

	state := eng.Snapshot()
	return &GameResult{
		Success: true,
		Game:    state,
		Events: []GameEvent{{
			Type:      EventGameCreated,
			Message:   fmt.Sprintf("Game %s created", sess.ID),
			Timestamp: time.Now(),
			GameID:    sess.ID,
			UserID:    organizerID,
		}},
	}, nil
}

// GetGame returns a snapshot of one game.
func (s *gameServiceImpl) GetGame(ctx context.Context, gameID string) (*engine.GameState, error) {
	sess, err := s.sessions.Get(gameID)
	if err != nil {
		return nil, err
	}

	sess.Lock()
	defer sess.Unlock()
	return sess.Engine.Snapshot(), nil
}

// ListGames returns snapshots of all live games in creation order. Each
// session lock is held only long enough to copy that game's state, so a
// listing never stalls ongoing games.
func (s *gameServiceImpl) ListGames(ctx context.Context) ([]*engine.GameState, error) {
	sessions := s.sessions.List()

	states := make([]*engine.GameState, 0, len(sessions))
	for _, sess := range sessions {
		sess.Lock()
		states = append(states, sess.Engine.Snapshot())
		sess.Unlock()
	}

	sort.SliceStable(states, func(i, j int) bool {
		return states[i].CreatedAt.Before(states[j].CreatedAt)
	})
	return states, nil
}

// JoinGame adds a player to a waiting game, then debits the card price
// through the ledger and re-reads the authoritative balance for the
// credits event. The balance is never recomputed from the pre-debit value;
// concurrent transfers would make that stale.
func (s *gameServiceImpl) JoinGame(ctx context.Context, gameID, userID string) (*JoinResult, error) {
	sess, err := s.sessions.Get(gameID)
	if err != nil {
		return &JoinResult{GameResult: failure(err)}, nil
	}

	sess.Lock()
	defer sess.Unlock()

	balance, err := s.ledger.Balance(userID)
	if err != nil {
		return &JoinResult{GameResult: failure(err)}, nil
	}

	cardPrice := sess.Engine.CardPrice()
	if err := sess.Engine.Join(userID, balance); err != nil {
		return &JoinResult{GameResult: failure(err)}, nil
	}

	if err := s.ledger.Debit(userID, cardPrice); err != nil {
		// The join itself stands; reconciling a failed debit is the
		// ledger collaborator's concern.
		log.Printf("Warning: failed to debit %d from %s after join: %v", cardPrice, userID, err)
	}

	newBalance, err := s.ledger.Balance(userID)
	if err != nil {
		log.Printf("Warning: failed to re-read balance for %s: %v", userID, err)
	}

	state := sess.Engine.Snapshot()
	now := time.Now()
	return &JoinResult{
		GameResult: GameResult{
			Success: true,
			Game:    state,
			Events: []GameEvent{
				{
					Type:      EventPlayerJoined,
					Message:   fmt.Sprintf("%s joined game %s", userID, gameID),
					Timestamp: now,
					GameID:    gameID,
					UserID:    userID,
				},
				{
					Type:      EventCreditsUpdated,
					Message:   fmt.Sprintf("Balance for %s is now %d", userID, newBalance),
					Timestamp: now,
					UserID:    userID,
					Balance:   newBalance,
				},
			},
		},
		NewBalance: newBalance,
	}, nil
}

// StartGame transitions a waiting game into progress.
func (s *gameServiceImpl) StartGame(ctx context.Context, gameID, organizerID string) (*GameResult, error) {
	sess, err := s.sessions.Get(gameID)
	if err != nil {
		r := failure(err)
		return &r, nil
	}

	sess.Lock()
	defer sess.Unlock()

	if err := sess.Engine.Start(organizerID); err != nil {
		r := failure(err)
		return &r, nil
	}

	return &GameResult{
		Success: true,
		Game:    sess.Engine.Snapshot(),
		Events: []GameEvent{{
			Type:      EventGameStarted,
			Message:   fmt.Sprintf("Game %s started", gameID),
			Timestamp: time.Now(),
			GameID:    gameID,
		}},
	}, nil
}

// CallNumber appends one number to the game's draw sequence.
func (s *gameServiceImpl) CallNumber(ctx context.Context, gameID, organizerID string, number int) (*GameResult, error) {
	sess, err := s.sessions.Get(gameID)
	if err != nil {
		r := failure(err)
		return &r, nil
	}

	sess.Lock()
	defer sess.Unlock()

	if err := sess.Engine.CallNumber(organizerID, number); err != nil {
		r := failure(err)
		return &r, nil
	}

	return &GameResult{
		Success: true,
		Game:    sess.Engine.Snapshot(),
		Events: []GameEvent{{
			Type:      EventNumberCalled,
			Message:   fmt.Sprintf("Number %d called in game %s", number, gameID),
			Timestamp: time.Now(),
			GameID:    gameID,
			Number:    number,
		}},
	}, nil
}

// MarkNumber flips the cosmetic marked flag on one cell.
func (s *gameServiceImpl) MarkNumber(ctx context.Context, gameID, userID string, cardIndex, row, col int) (*GameResult, error) {
	sess, err := s.sessions.Get(gameID)
	if err != nil {
		r := failure(err)
		return &r, nil
	}

	sess.Lock()
	defer sess.Unlock()

	if err := sess.Engine.MarkNumber(userID, cardIndex, row, col); err != nil {
		r := failure(err)
		return &r, nil
	}

	return &GameResult{
		Success: true,
		Game:    sess.Engine.Snapshot(),
		Events: []GameEvent{{
			Type:      EventCardMarked,
			Message:   fmt.Sprintf("%s marked card %d at (%d,%d)", userID, cardIndex, row, col),
			Timestamp: time.Now(),
			GameID:    gameID,
			UserID:    userID,
		}},
	}, nil
}

// ClaimBingo validates a win claim. Whichever claim acquires the session
// lock first and finds no recorded winner takes the game; the prize is then
// credited through the ledger and the authoritative balance re-read.
func (s *gameServiceImpl) ClaimBingo(ctx context.Context, gameID, userID string, cardIndex int) (*ClaimResult, error) {
	sess, err := s.sessions.Get(gameID)
	if err != nil {
		return &ClaimResult{GameResult: failure(err)}, nil
	}

	sess.Lock()
	defer sess.Unlock()

	prize := sess.Engine.Prize()
	won, err := sess.Engine.ClaimBingo(userID, cardIndex)
	if err != nil {
		return &ClaimResult{GameResult: failure(err)}, nil
	}

	if err := s.ledger.Credit(userID, prize); err != nil {
		log.Printf("Warning: failed to credit prize %d to %s: %v", prize, userID, err)
	}

	newBalance, err := s.ledger.Balance(userID)
	if err != nil {
		log.Printf("Warning: failed to re-read balance for %s: %v", userID, err)
	}

	now := time.Now()
	return &ClaimResult{
		GameResult: GameResult{
			Success: true,
			Game:    sess.Engine.Snapshot(),
			Events: []GameEvent{
				{
					Type:      EventWinnerDeclared,
					Message:   fmt.Sprintf("%s won game %s", userID, gameID),
					Timestamp: now,
					GameID:    gameID,
					UserID:    userID,
				},
				{
					Type:      EventCreditsUpdated,
					Message:   fmt.Sprintf("Balance for %s is now %d", userID, newBalance),
					Timestamp: now,
					UserID:    userID,
					Balance:   newBalance,
				},
			},
		},
		IsWinner:   won,
		NewBalance: newBalance,
	}, nil
}

// DeleteGame removes a waiting game. Active games stay fair and finished
// games stay auditable, so only waiting games can go.
func (s *gameServiceImpl) DeleteGame(ctx context.Context, gameID, organizerID string) (*GameResult, error) {
	sess, err := s.sessions.Get(gameID)
	if err != nil {
		r := failure(err)
		return &r, nil
	}

	sess.Lock()
	if err := sess.Engine.Deletable(organizerID); err != nil {
		sess.Unlock()
		r := failure(err)
		return &r, nil
	}
	state := sess.Engine.Snapshot()
	sess.Unlock()

	if err := s.sessions.Delete(gameID); err != nil {
		return nil, fmt.Errorf("failed to delete game %s: %w", gameID, err)
	}

	return &GameResult{
		Success: true,
		Game:    state,
		Events: []GameEvent{{
			Type:      EventGameDeleted,
			Message:   fmt.Sprintf("Game %s deleted", gameID),
			Timestamp: time.Now(),
			GameID:    gameID,
			UserID:    organizerID,
		}},
	}, nil
}
