// Package raffle implements raffle ticket sales: a structurally simpler
// sibling of the bingo game. An organizer opens a raffle with a fixed
// ticket sheet, players buy individual tickets, and the organizer draws a
// random sold ticket to pick the winner.
package raffle

import (
	"math/rand"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/bingohall/server/game/engine"
)

var (
	ErrRaffleNotFound = &engine.Error{Code: engine.CodeNotFound, Message: "raffle not found"}
	ErrTicketNotFound = &engine.Error{Code: engine.CodeNotFound, Message: "ticket not found"}
)

// Status is a raffle's lifecycle state: open for sales or finished.
type Status string

const (
	StatusWaiting  Status = "waiting"
	StatusFinished Status = "finished"
)

// TicketStatus tracks one ticket through sale.
type TicketStatus string

const (
	TicketAvailable TicketStatus = "available"
	TicketSold      TicketStatus = "sold"
)

// Ticket is one numbered slot on the raffle sheet.
type Ticket struct {
	Number  int          `json:"number"`
	Status  TicketStatus `json:"status"`
	OwnerID string       `json:"owner_id,omitempty"`
}

// Raffle is one raffle's full state.
type Raffle struct {
	ID           string    `json:"id"`
	OrganizerID  string    `json:"organizer_id"`
	Name         string    `json:"name"`
	Prize        int       `json:"prize"`
	TicketPrice  int       `json:"ticket_price"`
	Status       Status    `json:"status"`
	Tickets      []Ticket  `json:"tickets"`
	WinnerTicket int       `json:"winner_ticket,omitempty"`
	WinnerID     string    `json:"winner_id,omitempty"`
	CreatedAt    time.Time `json:"created_at"`
}

// Manager is the registry of live raffles.
type Manager struct {
	raffles map[string]*Raffle
	mu      sync.RWMutex
}

// NewManager creates an empty raffle registry.
func NewManager() *Manager {
	return &Manager{
		raffles: make(map[string]*Raffle),
	}
}

// Create opens a raffle with tickets numbered 1..ticketCount, all
// available. A non-positive count falls back to 50 tickets.
func (m *Manager) Create(organizerID, name string, prize, ticketPrice, ticketCount int) *Raffle {
	if ticketCount <= 0 {
		ticketCount = 50
	}
	if name == "" {
		name = "New raffle"
	}

	tickets := make([]Ticket, ticketCount)
	for i := range tickets {
		tickets[i] = Ticket{Number: i + 1, Status: TicketAvailable}
	}

	r := &Raffle{
		ID:          uuid.NewString(),
		OrganizerID: organizerID,
		Name:        name,
		Prize:       prize,
		TicketPrice: ticketPrice,
		Status:      StatusWaiting,
		Tickets:     tickets,
		CreatedAt:   time.Now(),
	}

	m.mu.Lock()
	m.raffles[r.ID] = r
	m.mu.Unlock()

	return m.snapshot(r)
}

// Get returns a copy of one raffle.
func (m *Manager) Get(id string) (*Raffle, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	r, exists := m.raffles[id]
	if !exists {
		return nil, ErrRaffleNotFound
	}
	return m.snapshot(r), nil
}

// List returns copies of all raffles.
func (m *Manager) List() []*Raffle {
	m.mu.RLock()
	defer m.mu.RUnlock()

	result := make([]*Raffle, 0, len(m.raffles))
	for _, r := range m.raffles {
		result = append(result, m.snapshot(r))
	}
	return result
}

// BuyTicket sells one available ticket to a buyer. The balance is a
// precondition check only; debiting the ticket price is the caller's job,
// mirroring the game join contract.
func (m *Manager) BuyTicket(raffleID string, ticketNumber int, buyerID string, balance int) (*Raffle, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	r, exists := m.raffles[raffleID]
	if !exists {
		return nil, ErrRaffleNotFound
	}
	if r.Status != StatusWaiting {
		return nil, &engine.Error{Code: engine.CodeInvalidState, Message: "raffle has already finished"}
	}

	var ticket *Ticket
	for i := range r.Tickets {
		if r.Tickets[i].Number == ticketNumber {
			ticket = &r.Tickets[i]
			break
		}
	}
	if ticket == nil {
		return nil, ErrTicketNotFound
	}
	if ticket.Status != TicketAvailable {
		return nil, &engine.Error{Code: engine.CodeDuplicate, Message: "ticket is no longer available"}
	}
	if balance < r.TicketPrice {
		return nil, &engine.Error{Code: engine.CodeInsufficientFunds, Message: "insufficient funds for this ticket"}
	}

	ticket.Status = TicketSold
	ticket.OwnerID = buyerID
	return m.snapshot(r), nil
}

// Draw picks a random sold ticket as the winner and finishes the raffle.
// Organizer only; at least one ticket must have been sold.
func (m *Manager) Draw(raffleID, organizerID string) (*Raffle, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	r, exists := m.raffles[raffleID]
	if !exists {
		return nil, ErrRaffleNotFound
	}
	if r.OrganizerID != organizerID {
		return nil, &engine.Error{Code: engine.CodeUnauthorized, Message: "only the organizer can draw the raffle"}
	}
	if r.Status != StatusWaiting {
		return nil, &engine.Error{Code: engine.CodeInvalidState, Message: "raffle has already finished"}
	}

	var sold []Ticket
	for _, t := range r.Tickets {
		if t.Status == TicketSold {
			sold = append(sold, t)
		}
	}
	if len(sold) == 0 {
		return nil, &engine.Error{Code: engine.CodeInvalidState, Message: "no tickets have been sold"}
	}

	winner := sold[rand.Intn(len(sold))]
	r.WinnerTicket = winner.Number
	r.WinnerID = winner.OwnerID
	r.Status = StatusFinished
	return m.snapshot(r), nil
}

// Delete removes a raffle that has not finished. Organizer only.
func (m *Manager) Delete(raffleID, organizerID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	r, exists := m.raffles[raffleID]
	if !exists {
		return ErrRaffleNotFound
	}
	if r.OrganizerID != organizerID {
		return &engine.Error{Code: engine.CodeUnauthorized, Message: "only the organizer can delete the raffle"}
	}
	if r.Status != StatusWaiting {
		return &engine.Error{Code: engine.CodeInvalidState, Message: "finished raffles stay auditable"}
	}

	delete(m.raffles, raffleID)
	return nil
}

// snapshot deep-copies a raffle. Callers outside the lock only ever see
// copies.
func (m *Manager) snapshot(r *Raffle) *Raffle {
	copied := *r
	copied.Tickets = make([]Ticket, len(r.Tickets))
	copy(copied.Tickets, r.Tickets)
	return &copied
}
