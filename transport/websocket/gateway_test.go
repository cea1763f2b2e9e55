package websocket

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/bingohall/server/chat"
	"github.com/bingohall/server/game/engine"
	"github.com/bingohall/server/game/service"
	"github.com/bingohall/server/game/session"
	"github.com/bingohall/server/ledger"
	"github.com/bingohall/server/raffle"
)

type gatewayFixture struct {
	gateway *Gateway
	hub     *Hub
	ledger  *ledger.Ledger
	clients map[string]*Client
}

func newGatewayFixture(t *testing.T) *gatewayFixture {
	t.Helper()

	l := ledger.New()
	for _, id := range []string{"org-1", "p1", "p2"} {
		role := ledger.RolePlayer
		if id == "org-1" {
			role = ledger.RoleOrganizer
		}
		if _, err := l.Register(id, id, role, 500); err != nil {
			t.Fatalf("Register(%s) failed: %v", id, err)
		}
	}

	hub := NewHub()
	clients := make(map[string]*Client)
	for _, id := range []string{"org-1", "p1", "p2"} {
		client := &Client{hub: hub, userID: id, send: make(chan []byte, 256)}
		hub.registerClient(client)
		clients[id] = client
	}

	games := service.NewGameService(session.NewManager(), l)
	gw := NewGateway(games, l, raffle.NewManager(), chat.NewManager(), hub)
	hub.SetGateway(gw)

	go hub.Run()

	return &gatewayFixture{gateway: gw, hub: hub, ledger: l, clients: clients}
}

func marshalPayload(t *testing.T, v interface{}) json.RawMessage {
	t.Helper()
	data, err := json.Marshal(v)
	if err != nil {
		t.Fatalf("Failed to marshal payload: %v", err)
	}
	return data
}

func dispatchOK(t *testing.T, f *gatewayFixture, userID string, typ ActionType, payload interface{}) *Ack {
	t.Helper()
	ack := f.gateway.Dispatch(userID, Action{Type: typ, Payload: marshalPayload(t, payload)})
	if !ack.Success {
		t.Fatalf("Dispatch(%s) by %s failed: %s (%s)", typ, userID, ack.Error, ack.ErrorCode)
	}
	return ack
}

// waitForEvent drains a client's send queue until the named event arrives.
func waitForEvent(t *testing.T, client *Client, event string) *Message {
	t.Helper()
	deadline := time.After(500 * time.Millisecond)
	for {
		select {
		case raw := <-client.send:
			var msg Message
			if err := json.Unmarshal(raw, &msg); err != nil {
				t.Fatalf("Failed to unmarshal frame: %v", err)
			}
			if msg.Event == event {
				return &msg
			}
		case <-deadline:
			t.Fatalf("No %s event received for %s within timeout", event, client.userID)
			return nil
		}
	}
}

func gameStateOf(t *testing.T, ack *Ack) *engine.GameState {
	t.Helper()
	raw, err := json.Marshal(ack.Data)
	if err != nil {
		t.Fatalf("Failed to remarshal ack data: %v", err)
	}
	var state engine.GameState
	if err := json.Unmarshal(raw, &state); err != nil {
		t.Fatalf("Failed to decode game state from ack: %v", err)
	}
	return &state
}

func TestDispatch_UnknownAction(t *testing.T) {
	f := newGatewayFixture(t)

	ack := f.gateway.Dispatch("p1", Action{Type: "game:teleport", Payload: []byte("{}")})

	if ack.Success {
		t.Error("Unknown action should not succeed")
	}
	if ack.ErrorCode != engine.CodeInvalidState {
		t.Errorf("Expected code %s, got %s", engine.CodeInvalidState, ack.ErrorCode)
	}
}

func TestDispatch_MalformedPayload(t *testing.T) {
	f := newGatewayFixture(t)

	ack := f.gateway.Dispatch("p1", Action{Type: ActionGameJoin, Payload: []byte("not-json")})

	if ack.Success {
		t.Error("Malformed payload should not succeed")
	}
	if ack.Error == "" {
		t.Error("Expected error message for malformed payload")
	}
}

func TestDispatch_GameLifecycle(t *testing.T) {
	f := newGatewayFixture(t)

	createAck := dispatchOK(t, f, "org-1", ActionGameCreate, GameCreatePayload{
		Prize:     100,
		CardPrice: 10,
		Pattern:   engine.PatternTopRow,
	})
	game := gameStateOf(t, createAck)
	waitForEvent(t, f.clients["p1"], EventGameCreated)

	dispatchOK(t, f, "p1", ActionGameJoin, GameJoinPayload{GameID: game.ID})
	waitForEvent(t, f.clients["p2"], EventPlayerJoined)

	credits := waitForEvent(t, f.clients["p1"], EventCreditsUpdated)
	data := credits.Data.(map[string]interface{})
	if data["balance"] != float64(490) {
		t.Errorf("Expected post-join balance 490, got %v", data["balance"])
	}

	dispatchOK(t, f, "org-1", ActionGameStart, GameStartPayload{GameID: game.ID})
	started := waitForEvent(t, f.clients["p2"], EventGameStarted)

	state := started.Data.(map[string]interface{})
	if state["status"] != string(engine.StatusInProgress) {
		t.Errorf("Expected broadcast status %s, got %v", engine.StatusInProgress, state["status"])
	}
}

func TestDispatch_ClaimBingoWinsPrize(t *testing.T) {
	f := newGatewayFixture(t)

	createAck := dispatchOK(t, f, "org-1", ActionGameCreate, GameCreatePayload{
		Prize:     100,
		CardPrice: 10,
		Pattern:   engine.PatternTopRow,
	})
	game := gameStateOf(t, createAck)

	joinAck := dispatchOK(t, f, "p1", ActionGameJoin, GameJoinPayload{GameID: game.ID})
	raw, _ := json.Marshal(joinAck.Data)
	var joinRes service.JoinResult
	if err := json.Unmarshal(raw, &joinRes); err != nil {
		t.Fatalf("Failed to decode join result: %v", err)
	}
	card := joinRes.Game.Players[0].Cards[0]

	dispatchOK(t, f, "org-1", ActionGameStart, GameStartPayload{GameID: game.ID})

	for col := 0; col < engine.CardSize; col++ {
		dispatchOK(t, f, "org-1", ActionGameCallNumber, CallNumberPayload{
			GameID: game.ID,
			Number: card[0][col].Number,
		})
	}

	claimAck := dispatchOK(t, f, "p1", ActionGameClaimBingo, ClaimBingoPayload{
		GameID:    game.ID,
		CardIndex: 0,
	})

	raw, _ = json.Marshal(claimAck.Data)
	var claimRes service.ClaimResult
	if err := json.Unmarshal(raw, &claimRes); err != nil {
		t.Fatalf("Failed to decode claim result: %v", err)
	}
	if !claimRes.IsWinner {
		t.Error("Expected winning claim")
	}
	if claimRes.NewBalance != 590 {
		t.Errorf("Expected post-prize balance 590, got %d", claimRes.NewBalance)
	}

	waitForEvent(t, f.clients["p2"], EventWinnerDeclared)

	balance, err := f.ledger.Balance("p1")
	if err != nil {
		t.Fatalf("Balance failed: %v", err)
	}
	if balance != 590 {
		t.Errorf("Expected ledger balance 590, got %d", balance)
	}
}

func TestDispatch_CreditsTransfer(t *testing.T) {
	f := newGatewayFixture(t)

	dispatchOK(t, f, "p1", ActionCreditsTransfer, CreditsTransferPayload{
		ToUserID: "p2",
		Amount:   100,
	})

	from := waitForEvent(t, f.clients["p1"], EventCreditsUpdated)
	if from.Data.(map[string]interface{})["balance"] != float64(400) {
		t.Errorf("Expected sender balance 400, got %v", from.Data)
	}

	to := waitForEvent(t, f.clients["p2"], EventCreditsUpdated)
	if to.Data.(map[string]interface{})["balance"] != float64(600) {
		t.Errorf("Expected receiver balance 600, got %v", to.Data)
	}
}

func TestDispatch_CreditsTransferInsufficient(t *testing.T) {
	f := newGatewayFixture(t)

	ack := f.gateway.Dispatch("p1", Action{
		Type:    ActionCreditsTransfer,
		Payload: marshalPayload(t, CreditsTransferPayload{ToUserID: "p2", Amount: 9999}),
	})

	if ack.Success {
		t.Error("Transfer beyond balance should not succeed")
	}
	if ack.ErrorCode != engine.CodeInsufficientFunds {
		t.Errorf("Expected code %s, got %s", engine.CodeInsufficientFunds, ack.ErrorCode)
	}
}

func TestDispatch_ChatSend(t *testing.T) {
	f := newGatewayFixture(t)

	dispatchOK(t, f, "p1", ActionChatSend, ChatSendPayload{
		ReceiverID: "p2",
		Text:       "good luck tonight",
	})

	msg := waitForEvent(t, f.clients["p2"], EventChatNewMessage)
	data := msg.Data.(map[string]interface{})
	if data["text"] != "good luck tonight" {
		t.Errorf("Expected message text to reach receiver, got %v", data["text"])
	}

	select {
	case <-f.clients["org-1"].send:
		t.Error("Private chat should not reach uninvolved users")
	default:
	}
}

func TestDispatch_RaffleFlow(t *testing.T) {
	f := newGatewayFixture(t)

	createAck := dispatchOK(t, f, "org-1", ActionRaffleCreate, RaffleCreatePayload{
		Name:        "friday night",
		Prize:       200,
		TicketPrice: 20,
		TicketCount: 10,
	})
	raw, _ := json.Marshal(createAck.Data)
	var r raffle.Raffle
	if err := json.Unmarshal(raw, &r); err != nil {
		t.Fatalf("Failed to decode raffle: %v", err)
	}

	dispatchOK(t, f, "p1", ActionRaffleBuyTicket, RaffleBuyTicketPayload{
		RaffleID:     r.ID,
		TicketNumber: 3,
	})

	balance, _ := f.ledger.Balance("p1")
	if balance != 480 {
		t.Errorf("Expected post-purchase balance 480, got %d", balance)
	}

	drawAck := dispatchOK(t, f, "org-1", ActionRaffleDraw, RaffleDrawPayload{RaffleID: r.ID})
	raw, _ = json.Marshal(drawAck.Data)
	var drawn raffle.Raffle
	if err := json.Unmarshal(raw, &drawn); err != nil {
		t.Fatalf("Failed to decode drawn raffle: %v", err)
	}

	if drawn.WinnerID != "p1" {
		t.Errorf("Expected sole ticket holder to win, got %q", drawn.WinnerID)
	}

	balance, _ = f.ledger.Balance("p1")
	if balance != 680 {
		t.Errorf("Expected post-prize balance 680, got %d", balance)
	}
}
