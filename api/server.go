package api

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"github.com/bingohall/server/chat"
	"github.com/bingohall/server/game/engine"
	"github.com/bingohall/server/game/service"
	"github.com/bingohall/server/ledger"
	"github.com/bingohall/server/raffle"
	"github.com/bingohall/server/transport/websocket"
	"github.com/bingohall/server/validate"
)

// Server represents the REST API server
type Server struct {
	service service.GameService
	ledger  *ledger.Ledger
	raffles *raffle.Manager
	chat    *chat.Manager
	hub     *websocket.Hub
	router  *mux.Router
}

// NewServer creates a new API server
func NewServer(gameService service.GameService, l *ledger.Ledger, r *raffle.Manager, c *chat.Manager, hub *websocket.Hub) *Server {
	s := &Server{
		service: gameService,
		ledger:  l,
		raffles: r,
		chat:    c,
		hub:     hub,
		router:  mux.NewRouter(),
	}

	s.setupRoutes()
	return s
}

// setupRoutes configures all API routes
func (s *Server) setupRoutes() {
	api := s.router.PathPrefix("/api").Subrouter()

	// Game management
	api.HandleFunc("/games", s.handleCreateGame).Methods("POST")
	api.HandleFunc("/games", s.handleListGames).Methods("GET")
	api.HandleFunc("/games/{id}", s.handleGetGame).Methods("GET")
	api.HandleFunc("/games/{id}/audit", s.handleAuditGame).Methods("GET")
	api.HandleFunc("/games/{id}", s.handleDeleteGame).Methods("DELETE")

	// Game operations
	api.HandleFunc("/games/{id}/join", s.handleJoinGame).Methods("POST")
	api.HandleFunc("/games/{id}/start", s.handleStartGame).Methods("POST")
	api.HandleFunc("/games/{id}/call", s.handleCallNumber).Methods("POST")
	api.HandleFunc("/games/{id}/mark", s.handleMarkNumber).Methods("POST")
	api.HandleFunc("/games/{id}/claim", s.handleClaimBingo).Methods("POST")

	// Raffles
	api.HandleFunc("/raffles", s.handleCreateRaffle).Methods("POST")
	api.HandleFunc("/raffles", s.handleListRaffles).Methods("GET")
	api.HandleFunc("/raffles/{id}", s.handleGetRaffle).Methods("GET")
	api.HandleFunc("/raffles/{id}", s.handleDeleteRaffle).Methods("DELETE")
	api.HandleFunc("/raffles/{id}/buy", s.handleBuyTicket).Methods("POST")
	api.HandleFunc("/raffles/{id}/draw", s.handleDrawRaffle).Methods("POST")

	// Users and credits
	api.HandleFunc("/users", s.handleRegisterUser).Methods("POST")
	api.HandleFunc("/users", s.handleListUsers).Methods("GET")
	api.HandleFunc("/users/{id}/balance", s.handleGetBalance).Methods("GET")
	api.HandleFunc("/credits/transfer", s.handleTransferCredits).Methods("POST")
	api.HandleFunc("/credits/requests", s.handleCreateCreditRequest).Methods("POST")
	api.HandleFunc("/credits/requests", s.handleListCreditRequests).Methods("GET")
	api.HandleFunc("/credits/requests/{id}/approve", s.handleApproveCreditRequest).Methods("POST")
	api.HandleFunc("/credits/requests/{id}/reject", s.handleRejectCreditRequest).Methods("POST")

	// Chat
	api.HandleFunc("/messages", s.handleSendMessage).Methods("POST")
	api.HandleFunc("/messages", s.handleListMessages).Methods("GET")
	api.HandleFunc("/messages/{id}/read", s.handleMarkMessageRead).Methods("POST")

	// Health
	api.HandleFunc("/health", s.handleHealth).Methods("GET")

	// WebSocket
	s.router.HandleFunc("/ws", s.handleWebSocket)
}

// ServeHTTP implements http.Handler
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

// Response helpers

func respondJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

func respondError(w http.ResponseWriter, status int, code engine.Code, message string) {
	respondJSON(w, status, map[string]string{
		"error": message,
		"code":  string(code),
	})
}

// statusFor maps a rejection code to its HTTP status.
func statusFor(code engine.Code) int {
	switch code {
	case engine.CodeNotFound:
		return http.StatusNotFound
	case engine.CodeUnauthorized:
		return http.StatusForbidden
	case engine.CodeInvalidState, engine.CodeDuplicate, engine.CodeAlreadyMarked,
		engine.CodeAlreadyWon, engine.CodeNoWin:
		return http.StatusConflict
	case engine.CodeOutOfRange:
		return http.StatusBadRequest
	case engine.CodeInsufficientFunds:
		return http.StatusPaymentRequired
	default:
		return http.StatusInternalServerError
	}
}

func respondFailure(w http.ResponseWriter, res *service.GameResult) {
	respondError(w, statusFor(res.ErrorCode), res.ErrorCode, res.Error)
}

func respondServiceError(w http.ResponseWriter, err error) {
	code := engine.CodeOf(err)
	respondError(w, statusFor(code), code, err.Error())
}

func decodeBody(w http.ResponseWriter, r *http.Request, v interface{}) bool {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		respondError(w, http.StatusBadRequest, engine.CodeInvalidState, "Invalid request body")
		return false
	}
	return true
}

// broadcast pushes an event to the hall when a hub is attached.
func (s *Server) broadcast(event string, data interface{}) {
	if s.hub != nil {
		s.hub.Broadcast(event, data)
	}
}

func (s *Server) sendToUser(userID, event string, data interface{}) {
	if s.hub != nil {
		s.hub.SendToUser(userID, event, data)
	}
}

func (s *Server) pushBalance(userID string) {
	balance, err := s.ledger.Balance(userID)
	if err != nil {
		return
	}
	s.sendToUser(userID, websocket.EventCreditsUpdated, map[string]interface{}{
		"user_id": userID,
		"balance": balance,
	})
}

// Game Handlers

func (s *Server) handleCreateGame(w http.ResponseWriter, r *http.Request) {
	var req struct {
		OrganizerID string          `json:"organizer_id"`
		Prize       int             `json:"prize"`
		CardPrice   int             `json:"card_price"`
		Mode        engine.GameMode `json:"mode,omitempty"`
		Pattern     engine.Pattern  `json:"pattern,omitempty"`
	}
	if !decodeBody(w, r, &req) {
		return
	}

	res, err := s.service.CreateGame(r.Context(), req.OrganizerID, &engine.GameConfig{
		Prize:     req.Prize,
		CardPrice: req.CardPrice,
		Mode:      req.Mode,
		Pattern:   req.Pattern,
	})
	if err != nil {
		respondServiceError(w, err)
		return
	}
	if !res.Success {
		respondFailure(w, res)
		return
	}

	s.broadcast(websocket.EventGameCreated, res.Game)
	respondJSON(w, http.StatusCreated, res.Game)
}

func (s *Server) handleListGames(w http.ResponseWriter, r *http.Request) {
	games, err := s.service.ListGames(r.Context())
	if err != nil {
		respondServiceError(w, err)
		return
	}

	// Optional status filter and limit
	query := r.URL.Query()
	if status := query.Get("status"); status != "" {
		filtered := games[:0]
		for _, g := range games {
			if string(g.Status) == status {
				filtered = append(filtered, g)
			}
		}
		games = filtered
	}
	if limitStr := query.Get("limit"); limitStr != "" {
		if l, err := strconv.Atoi(limitStr); err == nil && l >= 0 && l < len(games) {
			games = games[:l]
		}
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"count": len(games),
		"games": games,
	})
}

func (s *Server) handleGetGame(w http.ResponseWriter, r *http.Request) {
	gameID := mux.Vars(r)["id"]

	state, err := s.service.GetGame(r.Context(), gameID)
	if err != nil {
		respondServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, state)
}

func (s *Server) handleAuditGame(w http.ResponseWriter, r *http.Request) {
	gameID := mux.Vars(r)["id"]

	state, err := s.service.GetGame(r.Context(), gameID)
	if err != nil {
		respondServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, validate.Audit(state))
}

func (s *Server) handleDeleteGame(w http.ResponseWriter, r *http.Request) {
	gameID := mux.Vars(r)["id"]

	var req struct {
		OrganizerID string `json:"organizer_id"`
	}
	if !decodeBody(w, r, &req) {
		return
	}

	res, err := s.service.DeleteGame(r.Context(), gameID, req.OrganizerID)
	if err != nil {
		respondServiceError(w, err)
		return
	}
	if !res.Success {
		respondFailure(w, res)
		return
	}

	s.broadcast(websocket.EventGameDeleted, map[string]string{"game_id": gameID})
	respondJSON(w, http.StatusOK, map[string]string{"message": "Game " + gameID + " deleted"})
}

func (s *Server) handleJoinGame(w http.ResponseWriter, r *http.Request) {
	gameID := mux.Vars(r)["id"]

	var req struct {
		UserID string `json:"user_id"`
	}
	if !decodeBody(w, r, &req) {
		return
	}

	res, err := s.service.JoinGame(r.Context(), gameID, req.UserID)
	if err != nil {
		respondServiceError(w, err)
		return
	}
	if !res.Success {
		respondFailure(w, &res.GameResult)
		return
	}

	s.broadcast(websocket.EventPlayerJoined, res.Game)
	s.sendToUser(req.UserID, websocket.EventCreditsUpdated, map[string]interface{}{
		"user_id": req.UserID,
		"balance": res.NewBalance,
	})
	respondJSON(w, http.StatusOK, res)
}

func (s *Server) handleStartGame(w http.ResponseWriter, r *http.Request) {
	gameID := mux.Vars(r)["id"]

	var req struct {
		OrganizerID string `json:"organizer_id"`
	}
	if !decodeBody(w, r, &req) {
		return
	}

	res, err := s.service.StartGame(r.Context(), gameID, req.OrganizerID)
	if err != nil {
		respondServiceError(w, err)
		return
	}
	if !res.Success {
		respondFailure(w, res)
		return
	}

	s.broadcast(websocket.EventGameStarted, res.Game)
	respondJSON(w, http.StatusOK, res)
}

func (s *Server) handleCallNumber(w http.ResponseWriter, r *http.Request) {
	gameID := mux.Vars(r)["id"]

	var req struct {
		OrganizerID string `json:"organizer_id"`
		Number      int    `json:"number"`
	}
	if !decodeBody(w, r, &req) {
		return
	}

	res, err := s.service.CallNumber(r.Context(), gameID, req.OrganizerID, req.Number)
	if err != nil {
		respondServiceError(w, err)
		return
	}
	if !res.Success {
		respondFailure(w, res)
		return
	}

	s.broadcast(websocket.EventNumberCalled, res.Game)
	respondJSON(w, http.StatusOK, res)
}

func (s *Server) handleMarkNumber(w http.ResponseWriter, r *http.Request) {
	gameID := mux.Vars(r)["id"]

	var req struct {
		UserID    string `json:"user_id"`
		CardIndex int    `json:"card_index"`
		Row       int    `json:"row"`
		Col       int    `json:"col"`
	}
	if !decodeBody(w, r, &req) {
		return
	}

	res, err := s.service.MarkNumber(r.Context(), gameID, req.UserID, req.CardIndex, req.Row, req.Col)
	if err != nil {
		respondServiceError(w, err)
		return
	}
	if !res.Success {
		respondFailure(w, res)
		return
	}

	s.broadcast(websocket.EventCardMarked, res.Game)
	respondJSON(w, http.StatusOK, res)
}

func (s *Server) handleClaimBingo(w http.ResponseWriter, r *http.Request) {
	gameID := mux.Vars(r)["id"]

	var req struct {
		UserID    string `json:"user_id"`
		CardIndex int    `json:"card_index"`
	}
	if !decodeBody(w, r, &req) {
		return
	}

	res, err := s.service.ClaimBingo(r.Context(), gameID, req.UserID, req.CardIndex)
	if err != nil {
		respondServiceError(w, err)
		return
	}
	if !res.Success {
		respondFailure(w, &res.GameResult)
		return
	}

	s.broadcast(websocket.EventWinnerDeclared, res.Game)
	s.sendToUser(req.UserID, websocket.EventCreditsUpdated, map[string]interface{}{
		"user_id": req.UserID,
		"balance": res.NewBalance,
	})
	respondJSON(w, http.StatusOK, res)
}

// Raffle Handlers

func (s *Server) handleCreateRaffle(w http.ResponseWriter, r *http.Request) {
	var req struct {
		OrganizerID string `json:"organizer_id"`
		Name        string `json:"name"`
		Prize       int    `json:"prize"`
		TicketPrice int    `json:"ticket_price"`
		TicketCount int    `json:"ticket_count"`
	}
	if !decodeBody(w, r, &req) {
		return
	}

	created := s.raffles.Create(req.OrganizerID, req.Name, req.Prize, req.TicketPrice, req.TicketCount)
	s.broadcast(websocket.EventRaffleCreated, created)
	respondJSON(w, http.StatusCreated, created)
}

func (s *Server) handleListRaffles(w http.ResponseWriter, r *http.Request) {
	raffles := s.raffles.List()
	respondJSON(w, http.StatusOK, map[string]interface{}{
		"count":   len(raffles),
		"raffles": raffles,
	})
}

func (s *Server) handleGetRaffle(w http.ResponseWriter, r *http.Request) {
	found, err := s.raffles.Get(mux.Vars(r)["id"])
	if err != nil {
		respondServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, found)
}

func (s *Server) handleDeleteRaffle(w http.ResponseWriter, r *http.Request) {
	raffleID := mux.Vars(r)["id"]

	var req struct {
		OrganizerID string `json:"organizer_id"`
	}
	if !decodeBody(w, r, &req) {
		return
	}

	if err := s.raffles.Delete(raffleID, req.OrganizerID); err != nil {
		respondServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, map[string]string{"message": "Raffle " + raffleID + " deleted"})
}

// handleBuyTicket reads the buyer's balance, sells the ticket, debits the
// price, then re-reads the balance so the response carries the ledger's
// value instead of an arithmetic guess.
func (s *Server) handleBuyTicket(w http.ResponseWriter, r *http.Request) {
	raffleID := mux.Vars(r)["id"]

	var req struct {
		UserID       string `json:"user_id"`
		TicketNumber int    `json:"ticket_number"`
	}
	if !decodeBody(w, r, &req) {
		return
	}

	balance, err := s.ledger.Balance(req.UserID)
	if err != nil {
		respondServiceError(w, err)
		return
	}

	bought, err := s.raffles.BuyTicket(raffleID, req.TicketNumber, req.UserID, balance)
	if err != nil {
		respondServiceError(w, err)
		return
	}

	if err := s.ledger.Debit(req.UserID, bought.TicketPrice); err == nil {
		balance, _ = s.ledger.Balance(req.UserID)
	}

	s.broadcast(websocket.EventRaffleTicketSold, bought)
	s.pushBalance(req.UserID)
	respondJSON(w, http.StatusOK, map[string]interface{}{
		"raffle":      bought,
		"new_balance": balance,
	})
}

func (s *Server) handleDrawRaffle(w http.ResponseWriter, r *http.Request) {
	raffleID := mux.Vars(r)["id"]

	var req struct {
		OrganizerID string `json:"organizer_id"`
	}
	if !decodeBody(w, r, &req) {
		return
	}

	drawn, err := s.raffles.Draw(raffleID, req.OrganizerID)
	if err != nil {
		respondServiceError(w, err)
		return
	}

	s.ledger.Credit(drawn.WinnerID, drawn.Prize)
	s.broadcast(websocket.EventRaffleWinner, drawn)
	s.pushBalance(drawn.WinnerID)
	respondJSON(w, http.StatusOK, drawn)
}

// User and Credit Handlers

func (s *Server) handleRegisterUser(w http.ResponseWriter, r *http.Request) {
	var req struct {
		UserID  string      `json:"user_id"`
		Name    string      `json:"name"`
		Role    ledger.Role `json:"role"`
		Balance int         `json:"balance"`
	}
	if !decodeBody(w, r, &req) {
		return
	}
	if req.Role == "" {
		req.Role = ledger.RolePlayer
	}

	acct, err := s.ledger.Register(req.UserID, req.Name, req.Role, req.Balance)
	if err != nil {
		respondServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusCreated, acct)
}

func (s *Server) handleListUsers(w http.ResponseWriter, r *http.Request) {
	accounts := s.ledger.Accounts()
	respondJSON(w, http.StatusOK, map[string]interface{}{
		"count":    len(accounts),
		"accounts": accounts,
	})
}

func (s *Server) handleGetBalance(w http.ResponseWriter, r *http.Request) {
	userID := mux.Vars(r)["id"]

	balance, err := s.ledger.Balance(userID)
	if err != nil {
		respondServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, map[string]interface{}{
		"user_id": userID,
		"balance": balance,
	})
}

func (s *Server) handleTransferCredits(w http.ResponseWriter, r *http.Request) {
	var req struct {
		FromUserID string `json:"from_user_id"`
		ToUserID   string `json:"to_user_id"`
		Amount     int    `json:"amount"`
	}
	if !decodeBody(w, r, &req) {
		return
	}

	if err := s.ledger.Transfer(req.FromUserID, req.ToUserID, req.Amount); err != nil {
		respondServiceError(w, err)
		return
	}

	s.pushBalance(req.FromUserID)
	s.pushBalance(req.ToUserID)
	respondJSON(w, http.StatusOK, map[string]string{"message": "Transfer complete"})
}

func (s *Server) handleCreateCreditRequest(w http.ResponseWriter, r *http.Request) {
	var req struct {
		UserID string `json:"user_id"`
		Amount int    `json:"amount"`
	}
	if !decodeBody(w, r, &req) {
		return
	}

	created, err := s.ledger.Request(req.UserID, req.Amount)
	if err != nil {
		respondServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusCreated, created)
}

func (s *Server) handleListCreditRequests(w http.ResponseWriter, r *http.Request) {
	requests := s.ledger.Requests()
	respondJSON(w, http.StatusOK, map[string]interface{}{
		"count":    len(requests),
		"requests": requests,
	})
}

func (s *Server) handleApproveCreditRequest(w http.ResponseWriter, r *http.Request) {
	requestID := mux.Vars(r)["id"]

	if err := s.ledger.Approve(requestID); err != nil {
		respondServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, map[string]string{"message": "Request " + requestID + " approved"})
}

func (s *Server) handleRejectCreditRequest(w http.ResponseWriter, r *http.Request) {
	requestID := mux.Vars(r)["id"]

	if err := s.ledger.Reject(requestID); err != nil {
		respondServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, map[string]string{"message": "Request " + requestID + " rejected"})
}

// Chat Handlers

func (s *Server) handleSendMessage(w http.ResponseWriter, r *http.Request) {
	var req struct {
		SenderID   string `json:"sender_id"`
		ReceiverID string `json:"receiver_id"`
		Text       string `json:"text"`
	}
	if !decodeBody(w, r, &req) {
		return
	}

	msg := s.chat.Send(req.SenderID, req.ReceiverID, req.Text)
	s.sendToUser(req.ReceiverID, websocket.EventChatNewMessage, msg)
	respondJSON(w, http.StatusCreated, msg)
}

func (s *Server) handleListMessages(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()
	userA := query.Get("user_a")
	userB := query.Get("user_b")

	var messages []*chat.Message
	if userA != "" && userB != "" {
		messages = s.chat.Between(userA, userB)
	} else {
		messages = s.chat.All()
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"count":    len(messages),
		"messages": messages,
	})
}

func (s *Server) handleMarkMessageRead(w http.ResponseWriter, r *http.Request) {
	messageID := mux.Vars(r)["id"]

	if err := s.chat.MarkRead(messageID); err != nil {
		respondServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, map[string]string{"message": "Message " + messageID + " marked read"})
}

// WebSocket Handler

func (s *Server) handleWebSocket(w http.ResponseWriter, r *http.Request) {
	userID := r.URL.Query().Get("user")
	if userID == "" {
		http.Error(w, "user parameter required", http.StatusBadRequest)
		return
	}

	// Only registered users get a connection
	if _, err := s.ledger.Get(userID); err != nil {
		http.Error(w, "Unknown user", http.StatusNotFound)
		return
	}

	s.hub.ServeWS(w, r, userID)
}

// Health check
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, map[string]string{
		"status": "healthy",
	})
}
