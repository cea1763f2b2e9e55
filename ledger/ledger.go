// Package ledger implements the account-balance collaborator: credit
// balances, debits and credits sequenced by the game service, peer-to-peer
// transfers, and the organizer-approved credit-request workflow.
//
// Balances live in memory behind a single RWMutex; every mutation is a
// short critical section with no I/O, so the ledger never blocks game
// operations. The game core never touches this package directly, it goes
// through the service.Ledger boundary.
package ledger

import (
	"sync"

	"github.com/google/uuid"

	"github.com/bingohall/server/game/engine"
)

var (
	ErrAccountNotFound   = &engine.Error{Code: engine.CodeNotFound, Message: "account not found"}
	ErrAccountExists     = &engine.Error{Code: engine.CodeDuplicate, Message: "account already exists"}
	ErrInsufficientFunds = &engine.Error{Code: engine.CodeInsufficientFunds, Message: "insufficient funds"}
	ErrInvalidAmount     = &engine.Error{Code: engine.CodeOutOfRange, Message: "amount must be positive"}
	ErrRequestNotFound   = &engine.Error{Code: engine.CodeNotFound, Message: "credit request not found"}
	ErrRequestResolved   = &engine.Error{Code: engine.CodeInvalidState, Message: "credit request already resolved"}
)

// Role classifies an account holder.
type Role string

const (
	RolePlayer    Role = "player"
	RoleOrganizer Role = "organizer"
	RoleAdmin     Role = "admin"
)

// Account is one user's ledger entry.
type Account struct {
	UserID  string `json:"user_id"`
	Name    string `json:"name"`
	Role    Role   `json:"role"`
	Balance int    `json:"balance"`
}

// RequestStatus is the lifecycle of a credit request.
type RequestStatus string

const (
	RequestPending  RequestStatus = "pending"
	RequestApproved RequestStatus = "approved"
	RequestRejected RequestStatus = "rejected"
)

// CreditRequest is a player's petition for credits, resolved by an admin
// or organizer.
type CreditRequest struct {
	ID     string        `json:"id"`
	UserID string        `json:"user_id"`
	Amount int           `json:"amount"`
	Status RequestStatus `json:"status"`
}

// Ledger holds all accounts and pending credit requests.
type Ledger struct {
	accounts map[string]*Account
	requests map[string]*CreditRequest
	mu       sync.RWMutex
}

// New creates an empty ledger.
func New() *Ledger {
	return &Ledger{
		accounts: make(map[string]*Account),
		requests: make(map[string]*CreditRequest),
	}
}

// Register opens an account with an initial balance.
func (l *Ledger) Register(userID, name string, role Role, balance int) (*Account, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if _, exists := l.accounts[userID]; exists {
		return nil, ErrAccountExists
	}

	acct := &Account{UserID: userID, Name: name, Role: role, Balance: balance}
	l.accounts[userID] = acct
	return acct, nil
}

// Get returns a copy of one account.
func (l *Ledger) Get(userID string) (*Account, error) {
	l.mu.RLock()
	defer l.mu.RUnlock()

	acct, exists := l.accounts[userID]
	if !exists {
		return nil, ErrAccountNotFound
	}
	copied := *acct
	return &copied, nil
}

// Balance returns the authoritative balance for one user.
func (l *Ledger) Balance(userID string) (int, error) {
	l.mu.RLock()
	defer l.mu.RUnlock()

	acct, exists := l.accounts[userID]
	if !exists {
		return 0, ErrAccountNotFound
	}
	return acct.Balance, nil
}

// Debit removes amount from a user's balance. A debit below zero is
// rejected whole.
func (l *Ledger) Debit(userID string, amount int) error {
	if amount < 0 {
		return ErrInvalidAmount
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	acct, exists := l.accounts[userID]
	if !exists {
		return ErrAccountNotFound
	}
	if acct.Balance < amount {
		return ErrInsufficientFunds
	}
	acct.Balance -= amount
	return nil
}

// Credit adds amount to a user's balance.
func (l *Ledger) Credit(userID string, amount int) error {
	if amount < 0 {
		return ErrInvalidAmount
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	acct, exists := l.accounts[userID]
	if !exists {
		return ErrAccountNotFound
	}
	acct.Balance += amount
	return nil
}

// Transfer moves amount between two accounts atomically.
func (l *Ledger) Transfer(fromID, toID string, amount int) error {
	if amount <= 0 {
		return ErrInvalidAmount
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	from, exists := l.accounts[fromID]
	if !exists {
		return ErrAccountNotFound
	}
	to, exists := l.accounts[toID]
	if !exists {
		return ErrAccountNotFound
	}
	if from.Balance < amount {
		return ErrInsufficientFunds
	}

	from.Balance -= amount
	to.Balance += amount
	return nil
}

// Request files a pending credit request for a user.
func (l *Ledger) Request(userID string, amount int) (*CreditRequest, error) {
	if amount <= 0 {
		return nil, ErrInvalidAmount
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	if _, exists := l.accounts[userID]; !exists {
		return nil, ErrAccountNotFound
	}

	req := &CreditRequest{
		ID:     uuid.NewString(),
		UserID: userID,
		Amount: amount,
		Status: RequestPending,
	}
	l.requests[req.ID] = req

	copied := *req
	return &copied, nil
}

// Approve grants a pending credit request and credits its amount.
func (l *Ledger) Approve(requestID string) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	req, exists := l.requests[requestID]
	if !exists {
		return ErrRequestNotFound
	}
	if req.Status != RequestPending {
		return ErrRequestResolved
	}
	acct, exists := l.accounts[req.UserID]
	if !exists {
		return ErrAccountNotFound
	}

	acct.Balance += req.Amount
	req.Status = RequestApproved
	return nil
}

// Reject declines a pending credit request.
func (l *Ledger) Reject(requestID string) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	req, exists := l.requests[requestID]
	if !exists {
		return ErrRequestNotFound
	}
	if req.Status != RequestPending {
		return ErrRequestResolved
	}
	req.Status = RequestRejected
	return nil
}

// Requests returns copies of all credit requests.
func (l *Ledger) Requests() []*CreditRequest {
	l.mu.RLock()
	defer l.mu.RUnlock()

	result := make([]*CreditRequest, 0, len(l.requests))
	for _, req := range l.requests {
		copied := *req
		result = append(result, &copied)
	}
	return result
}

// Accounts returns copies of all accounts.
func (l *Ledger) Accounts() []*Account {
	l.mu.RLock()
	defer l.mu.RUnlock()

	result := make([]*Account, 0, len(l.accounts))
	for _, acct := range l.accounts {
		copied := *acct
		result = append(result, &copied)
	}
	return result
}
