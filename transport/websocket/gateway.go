package websocket

import (
	"context"
	"encoding/json"
	"log"

	"github.com/bingohall/server/chat"
	"github.com/bingohall/server/game/engine"
	"github.com/bingohall/server/game/service"
	"github.com/bingohall/server/ledger"
	"github.com/bingohall/server/raffle"
)

// Gateway is the single dispatch point for inbound actions. Every frame,
// whichever connection it arrives on, goes through Dispatch: decode the
// tagged payload, invoke the owning service, ack the caller privately and
// broadcast the resulting event to the hall.
type Gateway struct {
	games   service.GameService
	ledger  *ledger.Ledger
	raffles *raffle.Manager
	chat    *chat.Manager
	hub     *Hub
}

// NewGateway wires the dispatcher to its services and the hub it
// broadcasts through.
func NewGateway(games service.GameService, l *ledger.Ledger, r *raffle.Manager, c *chat.Manager, hub *Hub) *Gateway {
	return &Gateway{
		games:   games,
		ledger:  l,
		raffles: r,
		chat:    c,
		hub:     hub,
	}
}

// Dispatch routes one action from userID and returns the private ack.
func (g *Gateway) Dispatch(userID string, action Action) *Ack {
	switch action.Type {
	case ActionGameCreate:
		return g.gameCreate(userID, action)
	case ActionGameJoin:
		return g.gameJoin(userID, action)
	case ActionGameStart:
		return g.gameStart(userID, action)
	case ActionGameCallNumber:
		return g.gameCallNumber(userID, action)
	case ActionGameMarkNumber:
		return g.gameMarkNumber(userID, action)
	case ActionGameClaimBingo:
		return g.gameClaimBingo(userID, action)
	case ActionGameDelete:
		return g.gameDelete(userID, action)
	case ActionRaffleCreate:
		return g.raffleCreate(userID, action)
	case ActionRaffleBuyTicket:
		return g.raffleBuyTicket(userID, action)
	case ActionRaffleDraw:
		return g.raffleDraw(userID, action)
	case ActionChatSend:
		return g.chatSend(userID, action)
	case ActionChatMarkRead:
		return g.chatMarkRead(userID, action)
	case ActionCreditsTransfer:
		return g.creditsTransfer(userID, action)
	default:
		return &Ack{
			Action:    action.Type,
			ErrorCode: engine.CodeInvalidState,
			Error:     "unknown action type: " + string(action.Type),
		}
	}
}

func decode(action Action, v interface{}) *Ack {
	if err := json.Unmarshal(action.Payload, v); err != nil {
		return &Ack{
			Action:    action.Type,
			ErrorCode: engine.CodeInvalidState,
			Error:     "malformed payload: " + err.Error(),
		}
	}
	return nil
}

func ok(action Action, data interface{}) *Ack {
	return &Ack{Action: action.Type, Success: true, Data: data}
}

func fail(action Action, err error) *Ack {
	return &Ack{
		Action:    action.Type,
		ErrorCode: engine.CodeOf(err),
		Error:     err.Error(),
	}
}

// ackResult converts a service result into an ack, broadcasting event on
// success.
func (g *Gateway) ackResult(action Action, res *service.GameResult, event string) *Ack {
	if !res.Success {
		return &Ack{
			Action:    action.Type,
			ErrorCode: res.ErrorCode,
			Error:     res.Error,
		}
	}
	g.hub.Broadcast(event, res.Game)
	return ok(action, res.Game)
}

func (g *Gateway) gameCreate(userID string, action Action) *Ack {
	var p GameCreatePayload
	if ack := decode(action, &p); ack != nil {
		return ack
	}
	res, err := g.games.CreateGame(context.Background(), userID, &engine.GameConfig{
		Prize:     p.Prize,
		CardPrice: p.CardPrice,
		Mode:      p.Mode,
		Pattern:   p.Pattern,
	})
	if err != nil {
		return fail(action, err)
	}
	return g.ackResult(action, res, EventGameCreated)
}

func (g *Gateway) gameJoin(userID string, action Action) *Ack {
	var p GameJoinPayload
	if ack := decode(action, &p); ack != nil {
		return ack
	}
	res, err := g.games.JoinGame(context.Background(), p.GameID, userID)
	if err != nil {
		return fail(action, err)
	}
	if !res.Success {
		return &Ack{Action: action.Type, ErrorCode: res.ErrorCode, Error: res.Error}
	}
	g.hub.Broadcast(EventPlayerJoined, res.Game)
	g.hub.SendToUser(userID, EventCreditsUpdated, map[string]interface{}{
		"user_id": userID,
		"balance": res.NewBalance,
	})
	return ok(action, res)
}

func (g *Gateway) gameStart(userID string, action Action) *Ack {
	var p GameStartPayload
	if ack := decode(action, &p); ack != nil {
		return ack
	}
	res, err := g.games.StartGame(context.Background(), p.GameID, userID)
	if err != nil {
		return fail(action, err)
	}
	return g.ackResult(action, res, EventGameStarted)
}

func (g *Gateway) gameCallNumber(userID string, action Action) *Ack {
	var p CallNumberPayload
	if ack := decode(action, &p); ack != nil {
		return ack
	}
	res, err := g.games.CallNumber(context.Background(), p.GameID, userID, p.Number)
	if err != nil {
		return fail(action, err)
	}
	return g.ackResult(action, res, EventNumberCalled)
}

func (g *Gateway) gameMarkNumber(userID string, action Action) *Ack {
	var p MarkNumberPayload
	if ack := decode(action, &p); ack != nil {
		return ack
	}
	res, err := g.games.MarkNumber(context.Background(), p.GameID, userID, p.CardIndex, p.Row, p.Col)
	if err != nil {
		return fail(action, err)
	}
	return g.ackResult(action, res, EventCardMarked)
}

func (g *Gateway) gameClaimBingo(userID string, action Action) *Ack {
	var p ClaimBingoPayload
	if ack := decode(action, &p); ack != nil {
		return ack
	}
	res, err := g.games.ClaimBingo(context.Background(), p.GameID, userID, p.CardIndex)
	if err != nil {
		return fail(action, err)
	}
	if !res.Success {
		return &Ack{Action: action.Type, ErrorCode: res.ErrorCode, Error: res.Error}
	}
	g.hub.Broadcast(EventWinnerDeclared, res.Game)
	g.hub.SendToUser(userID, EventCreditsUpdated, map[string]interface{}{
		"user_id": userID,
		"balance": res.NewBalance,
	})
	return ok(action, res)
}

func (g *Gateway) gameDelete(userID string, action Action) *Ack {
	var p GameDeletePayload
	if ack := decode(action, &p); ack != nil {
		return ack
	}
	res, err := g.games.DeleteGame(context.Background(), p.GameID, userID)
	if err != nil {
		return fail(action, err)
	}
	if !res.Success {
		return &Ack{Action: action.Type, ErrorCode: res.ErrorCode, Error: res.Error}
	}
	g.hub.Broadcast(EventGameDeleted, map[string]string{"game_id": p.GameID})
	return ok(action, map[string]string{"game_id": p.GameID})
}

func (g *Gateway) raffleCreate(userID string, action Action) *Ack {
	var p RaffleCreatePayload
	if ack := decode(action, &p); ack != nil {
		return ack
	}
	r := g.raffles.Create(userID, p.Name, p.Prize, p.TicketPrice, p.TicketCount)
	g.hub.Broadcast(EventRaffleCreated, r)
	return ok(action, r)
}

// raffleBuyTicket mirrors the game join flow: the authoritative balance is
// read before the purchase, the ticket price is debited afterwards, and
// the buyer's post-debit balance is re-read rather than computed.
func (g *Gateway) raffleBuyTicket(userID string, action Action) *Ack {
	var p RaffleBuyTicketPayload
	if ack := decode(action, &p); ack != nil {
		return ack
	}
	balance, err := g.ledger.Balance(userID)
	if err != nil {
		return fail(action, err)
	}
	r, err := g.raffles.BuyTicket(p.RaffleID, p.TicketNumber, userID, balance)
	if err != nil {
		return fail(action, err)
	}
	if err := g.ledger.Debit(userID, r.TicketPrice); err != nil {
		log.Printf("ticket debit failed for %s on raffle %s: %v", userID, r.ID, err)
	}
	newBalance, err := g.ledger.Balance(userID)
	if err != nil {
		newBalance = balance
	}
	g.hub.Broadcast(EventRaffleTicketSold, r)
	g.hub.SendToUser(userID, EventCreditsUpdated, map[string]interface{}{
		"user_id": userID,
		"balance": newBalance,
	})
	return ok(action, r)
}

func (g *Gateway) raffleDraw(userID string, action Action) *Ack {
	var p RaffleDrawPayload
	if ack := decode(action, &p); ack != nil {
		return ack
	}
	r, err := g.raffles.Draw(p.RaffleID, userID)
	if err != nil {
		return fail(action, err)
	}
	if err := g.ledger.Credit(r.WinnerID, r.Prize); err != nil {
		log.Printf("prize credit failed for %s on raffle %s: %v", r.WinnerID, r.ID, err)
	}
	if balance, err := g.ledger.Balance(r.WinnerID); err == nil {
		g.hub.SendToUser(r.WinnerID, EventCreditsUpdated, map[string]interface{}{
			"user_id": r.WinnerID,
			"balance": balance,
		})
	}
	g.hub.Broadcast(EventRaffleWinner, r)
	return ok(action, r)
}

func (g *Gateway) chatSend(userID string, action Action) *Ack {
	var p ChatSendPayload
	if ack := decode(action, &p); ack != nil {
		return ack
	}
	msg := g.chat.Send(userID, p.ReceiverID, p.Text)
	g.hub.SendToUser(p.ReceiverID, EventChatNewMessage, msg)
	return ok(action, msg)
}

func (g *Gateway) chatMarkRead(userID string, action Action) *Ack {
	var p ChatMarkReadPayload
	if ack := decode(action, &p); ack != nil {
		return ack
	}
	if err := g.chat.MarkRead(p.MessageID); err != nil {
		return fail(action, err)
	}
	g.hub.Broadcast(EventChatMessageRead, map[string]string{"message_id": p.MessageID})
	return ok(action, map[string]string{"message_id": p.MessageID})
}

// creditsTransfer moves credits between users, then pushes each side its
// re-read balance.
func (g *Gateway) creditsTransfer(userID string, action Action) *Ack {
	var p CreditsTransferPayload
	if ack := decode(action, &p); ack != nil {
		return ack
	}
	if err := g.ledger.Transfer(userID, p.ToUserID, p.Amount); err != nil {
		return fail(action, err)
	}
	for _, id := range []string{userID, p.ToUserID} {
		balance, err := g.ledger.Balance(id)
		if err != nil {
			continue
		}
		g.hub.SendToUser(id, EventCreditsUpdated, map[string]interface{}{
			"user_id": id,
			"balance": balance,
		})
	}
	return ok(action, map[string]interface{}{
		"to_user_id": p.ToUserID,
		"amount":     p.Amount,
	})
}
