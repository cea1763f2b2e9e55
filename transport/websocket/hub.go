package websocket

import (
	"encoding/json"
	"log"
	"net/http"
	"time"

	"github.com/gorilla/websocket"
)

const (
	// Time allowed to write a message to the peer.
	writeWait = 10 * time.Second

	// Time allowed to read the next pong message from the peer.
	pongWait = 60 * time.Second

	// Send pings to peer with this period. Must be less than pongWait.
	pingPeriod = (pongWait * 9) / 10

	// Maximum message size allowed from peer.
	maxMessageSize = 4096
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		// Allow all origins in development
		// TODO: Configure this for production
		return true
	},
}

// Client represents one WebSocket connection belonging to a user.
type Client struct {
	hub    *Hub
	conn   *websocket.Conn
	send   chan []byte
	userID string
}

// Hub maintains the set of active clients and fans out messages. A user
// may hold several connections (multiple tabs); private sends reach all of
// them.
type Hub struct {
	// Registered clients by user ID
	users map[string]map[*Client]bool

	// Inbound messages from clients
	broadcast chan *Message

	// Messages addressed to a single user
	direct chan *directMessage

	// Register requests from clients
	register chan *Client

	// Unregister requests from clients
	unregister chan *Client

	// Dispatcher for inbound actions; nil hubs only broadcast
	gateway *Gateway
}

type directMessage struct {
	userID  string
	message *Message
}

// NewHub creates a new WebSocket hub.
func NewHub() *Hub {
	return &Hub{
		users:      make(map[string]map[*Client]bool),
		broadcast:  make(chan *Message),
		direct:     make(chan *directMessage),
		register:   make(chan *Client),
		unregister: make(chan *Client),
	}
}

// SetGateway attaches the action dispatcher. Must be called before Run.
func (h *Hub) SetGateway(g *Gateway) {
	h.gateway = g
}

// Run starts the hub's event loop.
func (h *Hub) Run() {
	for {
		select {
		case client := <-h.register:
			h.registerClient(client)

		case client := <-h.unregister:
			h.unregisterClient(client)

		case message := <-h.broadcast:
			h.broadcastMessage(message)

		case dm := <-h.direct:
			h.sendDirect(dm)
		}
	}
}

// ServeWS handles WebSocket requests from authenticated clients.
func (h *Hub) ServeWS(w http.ResponseWriter, r *http.Request, userID string) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("WebSocket upgrade failed: %v", err)
		return
	}

	client := &Client{
		hub:    h,
		conn:   conn,
		send:   make(chan []byte, 256),
		userID: userID,
	}

	client.hub.register <- client

	go client.writePump()
	go client.readPump()
}

// Broadcast queues an event for every connected client.
func (h *Hub) Broadcast(event string, data interface{}) {
	h.broadcast <- &Message{Event: event, Data: data}
}

// SendToUser queues an event for one user's connections only.
func (h *Hub) SendToUser(userID, event string, data interface{}) {
	h.direct <- &directMessage{
		userID:  userID,
		message: &Message{Event: event, Data: data},
	}
}

// sendDirect delivers a message to every connection of one user.
func (h *Hub) sendDirect(dm *directMessage) {
	data, err := json.Marshal(dm.message)
	if err != nil {
		log.Printf("Failed to marshal message for %s: %v", dm.userID, err)
		return
	}
	for client := range h.users[dm.userID] {
		select {
		case client.send <- data:
		default:
			h.unregisterClient(client)
		}
	}
}

// registerClient adds a client under its user id.
func (h *Hub) registerClient(client *Client) {
	if h.users[client.userID] == nil {
		h.users[client.userID] = make(map[*Client]bool)
	}
	h.users[client.userID][client] = true

	log.Printf("Client connected for user %s (connections: %d)",
		client.userID, len(h.users[client.userID]))
}

// unregisterClient removes a client and cleans up empty user entries.
func (h *Hub) unregisterClient(client *Client) {
	if clients, ok := h.users[client.userID]; ok {
		if _, ok := clients[client]; ok {
			delete(clients, client)
			close(client.send)

			if len(clients) == 0 {
				delete(h.users, client.userID)
			}

			log.Printf("Client disconnected for user %s (remaining: %d)",
				client.userID, len(clients))
		}
	}
}

// broadcastMessage sends a message to every connected client.
func (h *Hub) broadcastMessage(message *Message) {
	data, err := json.Marshal(message)
	if err != nil {
		log.Printf("Failed to marshal broadcast message: %v", err)
		return
	}

	for _, clients := range h.users {
		for client := range clients {
			select {
			case client.send <- data:
			default:
				h.unregisterClient(client)
			}
		}
	}
}

// readPump pumps inbound frames from the connection into the gateway.
func (c *Client) readPump() {
	defer func() {
		c.hub.unregister <- c
		c.conn.Close()
	}()

	c.conn.SetReadLimit(maxMessageSize)
	c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		c.conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	for {
		_, raw, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				log.Printf("WebSocket error: %v", err)
			}
			break
		}

		if c.hub.gateway == nil {
			continue
		}

		var action Action
		if err := json.Unmarshal(raw, &action); err != nil {
			c.sendAck(&Ack{Success: false, Error: "malformed action frame"})
			continue
		}

		ack := c.hub.gateway.Dispatch(c.userID, action)
		c.sendAck(ack)
	}
}

// sendAck queues a private acknowledgment on this connection.
func (c *Client) sendAck(ack *Ack) {
	data, err := json.Marshal(&Message{Event: "ack", Data: ack})
	if err != nil {
		log.Printf("Failed to marshal ack: %v", err)
		return
	}
	select {
	case c.send <- data:
	default:
	}
}

// writePump pumps messages from the hub to the WebSocket connection.
func (c *Client) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.conn.Close()
	}()

	for {
		select {
		case message, ok := <-c.send:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				// The hub closed the channel
				c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}

			w, err := c.conn.NextWriter(websocket.TextMessage)
			if err != nil {
				return
			}
			w.Write(message)

			// Add queued messages to the current WebSocket message
			n := len(c.send)
			for i := 0; i < n; i++ {
				w.Write([]byte{'\n'})
				w.Write(<-c.send)
			}

			if err := w.Close(); err != nil {
				return
			}

		case <-ticker.C:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
