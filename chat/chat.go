// Package chat implements direct messaging between hall users. It is
// unrelated to game state; the gateway simply relays sends and read
// receipts.
package chat

import (
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/bingohall/server/game/engine"
)

var ErrMessageNotFound = &engine.Error{Code: engine.CodeNotFound, Message: "message not found"}

// Message is one direct message between two users.
type Message struct {
	ID         string    `json:"id"`
	SenderID   string    `json:"sender_id"`
	ReceiverID string    `json:"receiver_id"`
	Text       string    `json:"text"`
	Timestamp  time.Time `json:"timestamp"`
	Read       bool      `json:"read"`
}

// Manager stores the message history.
type Manager struct {
	messages map[string]*Message
	mu       sync.RWMutex
}

// NewManager creates an empty chat store.
func NewManager() *Manager {
	return &Manager{
		messages: make(map[string]*Message),
	}
}

// Send records a message and returns it with its generated id and
// timestamp.
func (m *Manager) Send(senderID, receiverID, text string) *Message {
	msg := &Message{
		ID:         uuid.NewString(),
		SenderID:   senderID,
		ReceiverID: receiverID,
		Text:       text,
		Timestamp:  time.Now(),
	}

	m.mu.Lock()
	m.messages[msg.ID] = msg
	m.mu.Unlock()

	copied := *msg
	return &copied
}

// MarkRead flags a message as read.
func (m *Manager) MarkRead(messageID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	msg, exists := m.messages[messageID]
	if !exists {
		return ErrMessageNotFound
	}
	msg.Read = true
	return nil
}

// Between returns the conversation between two users, oldest first.
func (m *Manager) Between(userA, userB string) []*Message {
	m.mu.RLock()
	defer m.mu.RUnlock()

	var result []*Message
	for _, msg := range m.messages {
		if (msg.SenderID == userA && msg.ReceiverID == userB) ||
			(msg.SenderID == userB && msg.ReceiverID == userA) {
			copied := *msg
			result = append(result, &copied)
		}
	}

	sort.Slice(result, func(i, j int) bool {
		return result[i].Timestamp.Before(result[j].Timestamp)
	})
	return result
}

// All returns every stored message, oldest first.
func (m *Manager) All() []*Message {
	m.mu.RLock()
	defer m.mu.RUnlock()

	result := make([]*Message, 0, len(m.messages))
	for _, msg := range m.messages {
		copied := *msg
		result = append(result, &copied)
	}

	sort.Slice(result, func(i, j int) bool {
		return result[i].Timestamp.Before(result[j].Timestamp)
	})
	return result
}
