package websocket

import (
	"encoding/json"

	"github.com/bingohall/server/game/engine"
)

// ActionType tags an inbound action. One constant exists per operation the
// gateway accepts; anything else is answered with an error ack.
type ActionType string

const (
	ActionGameCreate     ActionType = "game:create"
	ActionGameJoin       ActionType = "game:join"
	ActionGameStart      ActionType = "game:start"
	ActionGameCallNumber ActionType = "game:call-number"
	ActionGameMarkNumber ActionType = "game:mark-number"
	ActionGameClaimBingo ActionType = "game:claim-bingo"
	ActionGameDelete     ActionType = "game:delete"

	ActionRaffleCreate    ActionType = "raffle:create"
	ActionRaffleBuyTicket ActionType = "raffle:buy-ticket"
	ActionRaffleDraw      ActionType = "raffle:draw"

	ActionChatSend     ActionType = "chat:send-message"
	ActionChatMarkRead ActionType = "chat:mark-read"

	ActionCreditsTransfer ActionType = "credits:transfer"
)

// Outbound event names broadcast by the gateway.
const (
	EventGameCreated    = "game:created"
	EventGameUpdated    = "game:updated"
	EventPlayerJoined   = "game:player-joined"
	EventGameStarted    = "game:started"
	EventNumberCalled   = "game:number-called"
	EventCardMarked     = "game:card-marked"
	EventWinnerDeclared = "game:winner-declared"
	EventGameDeleted    = "game:deleted"

	EventRaffleCreated    = "raffle:created"
	EventRaffleTicketSold = "raffle:ticket-sold"
	EventRaffleWinner     = "raffle:winner-drawn"

	EventChatNewMessage  = "chat:new-message"
	EventChatMessageRead = "chat:message-read"

	EventCreditsUpdated = "credits:updated"
)

// Action is one inbound frame: a type tag plus its raw payload, decoded
// into the matching payload struct by the dispatcher.
type Action struct {
	Type    ActionType      `json:"type"`
	Payload json.RawMessage `json:"payload"`
}

// Message is one outbound frame.
type Message struct {
	Event string      `json:"event"`
	Data  interface{} `json:"data,omitempty"`
}

// Ack is the private reply to the caller of one action.
type Ack struct {
	Action    ActionType  `json:"action"`
	Success   bool        `json:"success"`
	ErrorCode engine.Code `json:"error_code,omitempty"`
	Error     string      `json:"error,omitempty"`
	Data      interface{} `json:"data,omitempty"`
}

// Payloads, one per accepted action.

type GameCreatePayload struct {
	Prize     int             `json:"prize"`
	CardPrice int             `json:"card_price"`
	Mode      engine.GameMode `json:"mode,omitempty"`
	Pattern   engine.Pattern  `json:"pattern,omitempty"`
}

type GameJoinPayload struct {
	GameID string `json:"game_id"`
}

type GameStartPayload struct {
	GameID string `json:"game_id"`
}

type CallNumberPayload struct {
	GameID string `json:"game_id"`
	Number int    `json:"number"`
}

type MarkNumberPayload struct {
	GameID    string `json:"game_id"`
	CardIndex int    `json:"card_index"`
	Row       int    `json:"row"`
	Col       int    `json:"col"`
}

type ClaimBingoPayload struct {
	GameID    string `json:"game_id"`
	CardIndex int    `json:"card_index"`
}

type GameDeletePayload struct {
	GameID string `json:"game_id"`
}

type RaffleCreatePayload struct {
	Name        string `json:"name"`
	Prize       int    `json:"prize"`
	TicketPrice int    `json:"ticket_price"`
	TicketCount int    `json:"ticket_count"`
}

type RaffleBuyTicketPayload struct {
	RaffleID     string `json:"raffle_id"`
	TicketNumber int    `json:"ticket_number"`
}

type RaffleDrawPayload struct {
	RaffleID string `json:"raffle_id"`
}

type ChatSendPayload struct {
	ReceiverID string `json:"receiver_id"`
	Text       string `json:"text"`
}

type ChatMarkReadPayload struct {
	MessageID string `json:"message_id"`
}

type CreditsTransferPayload struct {
	ToUserID string `json:"to_user_id"`
	Amount   int    `json:"amount"`
}
