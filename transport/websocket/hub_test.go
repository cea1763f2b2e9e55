package websocket

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
)

func TestNewHub(t *testing.T) {
	hub := NewHub()

	if hub == nil {
		t.Fatal("NewHub() returned nil")
	}

	if hub.users == nil {
		t.Error("Hub users map is nil")
	}

	if hub.broadcast == nil {
		t.Error("Hub broadcast channel is nil")
	}

	if hub.direct == nil {
		t.Error("Hub direct channel is nil")
	}

	if hub.register == nil {
		t.Error("Hub register channel is nil")
	}

	if hub.unregister == nil {
		t.Error("Hub unregister channel is nil")
	}
}

func TestHubRegisterClient(t *testing.T) {
	hub := NewHub()

	client := &Client{
		hub:    hub,
		userID: "user-1",
		send:   make(chan []byte, 256),
	}

	hub.registerClient(client)

	if _, exists := hub.users["user-1"]; !exists {
		t.Error("User entry was not created")
	}

	if !hub.users["user-1"][client] {
		t.Error("Client was not registered under user")
	}

	if len(hub.users["user-1"]) != 1 {
		t.Errorf("Expected 1 connection for user, got %d", len(hub.users["user-1"]))
	}
}

func TestHubUnregisterClient(t *testing.T) {
	hub := NewHub()

	client := &Client{
		hub:    hub,
		userID: "user-1",
		send:   make(chan []byte, 256),
	}

	hub.registerClient(client)
	hub.unregisterClient(client)

	if _, exists := hub.users["user-1"]; exists {
		t.Error("User entry should have been cleaned up after last connection closed")
	}
}

func TestHubMultipleConnectionsPerUser(t *testing.T) {
	hub := NewHub()

	client1 := &Client{
		hub:    hub,
		userID: "user-1",
		send:   make(chan []byte, 256),
	}
	client2 := &Client{
		hub:    hub,
		userID: "user-1",
		send:   make(chan []byte, 256),
	}

	hub.registerClient(client1)
	hub.registerClient(client2)

	if len(hub.users["user-1"]) != 2 {
		t.Errorf("Expected 2 connections for user, got %d", len(hub.users["user-1"]))
	}

	hub.unregisterClient(client1)

	if len(hub.users["user-1"]) != 1 {
		t.Errorf("Expected 1 connection remaining, got %d", len(hub.users["user-1"]))
	}

	if !hub.users["user-1"][client2] {
		t.Error("client2 should still be registered")
	}
}

func TestHubBroadcastReachesAllUsers(t *testing.T) {
	hub := NewHub()

	alice := &Client{hub: hub, userID: "alice", send: make(chan []byte, 256)}
	bob := &Client{hub: hub, userID: "bob", send: make(chan []byte, 256)}
	hub.registerClient(alice)
	hub.registerClient(bob)

	hub.broadcastMessage(&Message{Event: "game:created", Data: "payload"})

	for _, client := range []*Client{alice, bob} {
		select {
		case data := <-client.send:
			var message Message
			if err := json.Unmarshal(data, &message); err != nil {
				t.Fatalf("Failed to unmarshal message: %v", err)
			}
			if message.Event != "game:created" {
				t.Errorf("Expected event 'game:created', got %s", message.Event)
			}
		case <-time.After(100 * time.Millisecond):
			t.Errorf("No message received for %s within timeout", client.userID)
		}
	}
}

func TestHubDirectReachesOneUser(t *testing.T) {
	hub := NewHub()

	alice := &Client{hub: hub, userID: "alice", send: make(chan []byte, 256)}
	bob := &Client{hub: hub, userID: "bob", send: make(chan []byte, 256)}
	hub.registerClient(alice)
	hub.registerClient(bob)

	hub.sendDirect(&directMessage{
		userID:  "alice",
		message: &Message{Event: "credits:updated", Data: map[string]int{"balance": 90}},
	})

	select {
	case data := <-alice.send:
		var message Message
		if err := json.Unmarshal(data, &message); err != nil {
			t.Fatalf("Failed to unmarshal message: %v", err)
		}
		if message.Event != "credits:updated" {
			t.Errorf("Expected event 'credits:updated', got %s", message.Event)
		}
	case <-time.After(100 * time.Millisecond):
		t.Error("No message received for alice within timeout")
	}

	select {
	case <-bob.send:
		t.Error("bob should not receive a direct message addressed to alice")
	default:
	}
}

func TestWebSocketUpgrade(t *testing.T) {
	hub := NewHub()

	go hub.Run()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		userID := r.URL.Query().Get("user")
		if userID == "" {
			userID = "anonymous"
		}
		hub.ServeWS(w, r, userID)
	}))
	defer server.Close()

	wsURL := "ws" + strings.TrimPrefix(server.URL, "http") + "?user=ws-test"

	conn, _, err := websocket.DefaultDialer.Dial(wsURL, nil)
	if err != nil {
		t.Fatalf("Failed to connect to WebSocket: %v", err)
	}
	defer conn.Close()

	// Give some time for registration
	time.Sleep(50 * time.Millisecond)

	if len(hub.users["ws-test"]) != 1 {
		t.Errorf("Expected 1 connection for user, got %d", len(hub.users["ws-test"]))
	}

	conn.Close()

	// Give some time for unregistration
	time.Sleep(50 * time.Millisecond)

	if _, exists := hub.users["ws-test"]; exists {
		t.Error("User entry should have been cleaned up after WebSocket close")
	}
}

func TestWebSocketMessageReceive(t *testing.T) {
	hub := NewHub()

	go hub.Run()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hub.ServeWS(w, r, r.URL.Query().Get("user"))
	}))
	defer server.Close()

	wsURL := "ws" + strings.TrimPrefix(server.URL, "http") + "?user=msg-test"

	conn, _, err := websocket.DefaultDialer.Dial(wsURL, nil)
	if err != nil {
		t.Fatalf("Failed to connect to WebSocket: %v", err)
	}
	defer conn.Close()

	// Give time for connection to establish
	time.Sleep(10 * time.Millisecond)

	hub.Broadcast("game:number-called", map[string]int{"number": 42})

	conn.SetReadDeadline(time.Now().Add(1 * time.Second))
	_, messageData, err := conn.ReadMessage()
	if err != nil {
		t.Fatalf("Failed to read WebSocket message: %v", err)
	}

	var message Message
	if err := json.Unmarshal(messageData, &message); err != nil {
		t.Fatalf("Failed to unmarshal message: %v", err)
	}

	if message.Event != "game:number-called" {
		t.Errorf("Expected event 'game:number-called', got %s", message.Event)
	}

	data, ok := message.Data.(map[string]interface{})
	if !ok {
		t.Fatalf("Expected object data, got %T", message.Data)
	}
	if data["number"] != float64(42) {
		t.Errorf("Expected number 42, got %v", data["number"])
	}
}
