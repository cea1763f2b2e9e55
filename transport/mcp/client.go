package mcp

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/bingohall/server/game/engine"
	"github.com/bingohall/server/game/service"
)

// Client is a thin MCP client that proxies to the REST API
type Client struct {
	baseURL    string
	httpClient *http.Client
	mcpServer  *server.MCPServer
}

// NewClient creates a new MCP client that calls the REST API
func NewClient(baseURL string) *Client {
	c := &Client{
		baseURL: baseURL,
		httpClient: &http.Client{
			Timeout: 10 * time.Second,
		},
	}

	c.initMCPServer()
	return c
}

// initMCPServer initializes the MCP server with all tools
func (c *Client) initMCPServer() {
	c.mcpServer = server.NewMCPServer(
		"Bingo Hall",
		"1.0.0",
		server.WithToolCapabilities(true),
		server.WithInstructions(`Bingo Hall - MCP Interface

This is a thin client that proxies all requests to the REST API server.

GAME FLOW:
An organizer creates a game, players join while it waits (each join buys
one card), the organizer starts it and calls numbers 1-75, players mark
their cards and claim bingo. The first verified claim wins the prize.

AVAILABLE TOOLS:
- create_game: Create a new bingo game (organizer)
- list_games: List all games in the hall
- get_game: Get one game's full state, cards included
- join_game: Join a waiting game and buy a card
- start_game: Start a waiting game (organizer)
- call_number: Call a number in a running game (organizer)
- mark_number: Mark a cell on one of your cards
- claim_bingo: Claim bingo on one of your cards
- get_balance: Get a user's credit balance

Numbers follow the classic B-I-N-G-O column ranges: B 1-15, I 16-30,
N 31-45, G 46-60, O 61-75. The center cell is FREE.`),
	)

	// Register all tools
	c.registerTools()
}

// registerTools registers all MCP tools
func (c *Client) registerTools() {
	c.mcpServer.AddTool(mcp.Tool{
		Name:        "create_game",
		Description: "Create a new bingo game",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"organizer_id": map[string]interface{}{
					"type":        "string",
					"description": "User ID of the organizer",
				},
				"prize": map[string]interface{}{
					"type":        "integer",
					"description": "Prize in credits for the winner",
				},
				"card_price": map[string]interface{}{
					"type":        "integer",
					"description": "Cost in credits of one card",
				},
				"pattern": map[string]interface{}{
					"type":        "string",
					"description": "Winning pattern (any_line, four_corners, cross, letter_x, small_square, top_row, middle_row, bottom_row, left_l, right_l, full_house)",
				},
			},
			Required: []string{"organizer_id", "prize", "card_price"},
		},
	}, c.handleCreateGame)

	c.mcpServer.AddTool(mcp.Tool{
		Name:        "list_games",
		Description: "List all games in the hall",
		InputSchema: mcp.ToolInputSchema{
			Type:       "object",
			Properties: map[string]interface{}{},
		},
	}, c.handleListGames)

	c.mcpServer.AddTool(mcp.Tool{
		Name:        "get_game",
		Description: "Get the full state of one game",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"game_id": map[string]interface{}{
					"type":        "string",
					"description": "Game ID",
				},
			},
			Required: []string{"game_id"},
		},
	}, c.handleGetGame)

	c.mcpServer.AddTool(mcp.Tool{
		Name:        "join_game",
		Description: "Join a waiting game and buy one card",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"game_id": map[string]interface{}{
					"type":        "string",
					"description": "Game ID",
				},
				"user_id": map[string]interface{}{
					"type":        "string",
					"description": "Joining user's ID",
				},
			},
			Required: []string{"game_id", "user_id"},
		},
	}, c.handleJoinGame)

	c.mcpServer.AddTool(mcp.Tool{
		Name:        "start_game",
		Description: "Start a waiting game",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"game_id": map[string]interface{}{
					"type":        "string",
					"description": "Game ID",
				},
				"organizer_id": map[string]interface{}{
					"type":        "string",
					"description": "Organizer's user ID",
				},
			},
			Required: []string{"game_id", "organizer_id"},
		},
	}, c.handleStartGame)

	c.mcpServer.AddTool(mcp.Tool{
		Name:        "call_number",
		Description: "Call a number between 1 and 75 in a running game",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"game_id": map[string]interface{}{
					"type":        "string",
					"description": "Game ID",
				},
				"organizer_id": map[string]interface{}{
					"type":        "string",
					"description": "Organizer's user ID",
				},
				"number": map[string]interface{}{
					"type":        "integer",
					"description": "Number to call (1-75, not called before)",
				},
			},
			Required: []string{"game_id", "organizer_id", "number"},
		},
	}, c.handleCallNumber)

	c.mcpServer.AddTool(mcp.Tool{
		Name:        "mark_number",
		Description: "Mark a cell on one of your cards",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"game_id": map[string]interface{}{
					"type":        "string",
					"description": "Game ID",
				},
				"user_id": map[string]interface{}{
					"type":        "string",
					"description": "Your user ID",
				},
				"card_index": map[string]interface{}{
					"type":        "integer",
					"description": "Which of your cards (0-based)",
				},
				"row": map[string]interface{}{
					"type":        "integer",
					"description": "Row of the cell (0-4)",
				},
				"col": map[string]interface{}{
					"type":        "integer",
					"description": "Column of the cell (0-4)",
				},
			},
			Required: []string{"game_id", "user_id", "card_index", "row", "col"},
		},
	}, c.handleMarkNumber)

	c.mcpServer.AddTool(mcp.Tool{
		Name:        "claim_bingo",
		Description: "Claim bingo on one of your cards",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"game_id": map[string]interface{}{
					"type":        "string",
					"description": "Game ID",
				},
				"user_id": map[string]interface{}{
					"type":        "string",
					"description": "Your user ID",
				},
				"card_index": map[string]interface{}{
					"type":        "integer",
					"description": "Which of your cards (0-based)",
				},
			},
			Required: []string{"game_id", "user_id", "card_index"},
		},
	}, c.handleClaimBingo)

	c.mcpServer.AddTool(mcp.Tool{
		Name:        "get_balance",
		Description: "Get a user's credit balance",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"user_id": map[string]interface{}{
					"type":        "string",
					"description": "User ID",
				},
			},
			Required: []string{"user_id"},
		},
	}, c.handleGetBalance)
}

// GetMCPServer returns the underlying MCP server for serving
func (c *Client) GetMCPServer() *server.MCPServer {
	return c.mcpServer
}

// Helper methods for API calls

func (c *Client) apiCall(method, path string, body interface{}, result interface{}) error {
	url := c.baseURL + path

	var reqBody io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return err
		}
		reqBody = bytes.NewBuffer(data)
	}

	req, err := http.NewRequest(method, url, reqBody)
	if err != nil {
		return err
	}

	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		var errResp map[string]string
		json.NewDecoder(resp.Body).Decode(&errResp)
		if msg, ok := errResp["error"]; ok {
			return fmt.Errorf("%s", msg)
		}
		return fmt.Errorf("API error: %d", resp.StatusCode)
	}

	if result != nil {
		return json.NewDecoder(resp.Body).Decode(result)
	}

	return nil
}

// Tool handlers

func (c *Client) handleCreateGame(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := request.Params.Arguments.(map[string]interface{})
	organizerID, _ := args["organizer_id"].(string)
	prize, _ := args["prize"].(float64)
	cardPrice, _ := args["card_price"].(float64)
	pattern, _ := args["pattern"].(string)

	body := map[string]interface{}{
		"organizer_id": organizerID,
		"prize":        int(prize),
		"card_price":   int(cardPrice),
	}
	if pattern != "" {
		body["pattern"] = pattern
	}

	var state engine.GameState
	err := c.apiCall("POST", "/api/games", body, &state)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	result := fmt.Sprintf("Created game: %s\nPrize: %d credits, card price: %d, pattern: %s\n",
		state.ID, state.Prize, state.CardPrice, state.Pattern)
	return mcp.NewToolResultText(result), nil
}

func (c *Client) handleListGames(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	var response struct {
		Count int                 `json:"count"`
		Games []*engine.GameState `json:"games"`
	}

	err := c.apiCall("GET", "/api/games", nil, &response)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	result := fmt.Sprintf("Games (%d):\n\n", response.Count)
	for _, g := range response.Games {
		result += fmt.Sprintf("- %s [%s] prize=%d card=%d players=%d called=%d\n",
			g.ID, g.Status, g.Prize, g.CardPrice, len(g.Players), len(g.CalledNumbers))
	}

	return mcp.NewToolResultText(result), nil
}

func (c *Client) handleGetGame(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := request.Params.Arguments.(map[string]interface{})
	gameID, _ := args["game_id"].(string)

	var state engine.GameState
	err := c.apiCall("GET", fmt.Sprintf("/api/games/%s", gameID), nil, &state)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	return mcp.NewToolResultText(formatGameState(&state)), nil
}

func (c *Client) handleJoinGame(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := request.Params.Arguments.(map[string]interface{})
	gameID, _ := args["game_id"].(string)
	userID, _ := args["user_id"].(string)

	var res service.JoinResult
	err := c.apiCall("POST", fmt.Sprintf("/api/games/%s/join", gameID), map[string]string{"user_id": userID}, &res)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	player := res.Game.Players[len(res.Game.Players)-1]
	result := fmt.Sprintf("Joined game %s. New balance: %d credits. Pot: %d.\n\nYour card:\n%s",
		gameID, res.NewBalance, res.Game.Pot, formatCard(&player.Cards[len(player.Cards)-1], res.Game.CalledNumbers))
	return mcp.NewToolResultText(result), nil
}

func (c *Client) handleStartGame(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := request.Params.Arguments.(map[string]interface{})
	gameID, _ := args["game_id"].(string)
	organizerID, _ := args["organizer_id"].(string)

	var res service.GameResult
	err := c.apiCall("POST", fmt.Sprintf("/api/games/%s/start", gameID), map[string]string{"organizer_id": organizerID}, &res)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	result := fmt.Sprintf("Game %s started with %d players. Pot: %d credits.\n",
		gameID, len(res.Game.Players), res.Game.Pot)
	return mcp.NewToolResultText(result), nil
}

func (c *Client) handleCallNumber(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := request.Params.Arguments.(map[string]interface{})
	gameID, _ := args["game_id"].(string)
	organizerID, _ := args["organizer_id"].(string)
	number, _ := args["number"].(float64)

	body := map[string]interface{}{
		"organizer_id": organizerID,
		"number":       int(number),
	}

	var res service.GameResult
	err := c.apiCall("POST", fmt.Sprintf("/api/games/%s/call", gameID), body, &res)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	result := fmt.Sprintf("Called %s. %d numbers called so far: %v\n",
		letterFor(int(number)), len(res.Game.CalledNumbers), res.Game.CalledNumbers)
	return mcp.NewToolResultText(result), nil
}

func (c *Client) handleMarkNumber(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := request.Params.Arguments.(map[string]interface{})
	gameID, _ := args["game_id"].(string)
	userID, _ := args["user_id"].(string)
	cardIndex, _ := args["card_index"].(float64)
	row, _ := args["row"].(float64)
	col, _ := args["col"].(float64)

	body := map[string]interface{}{
		"user_id":    userID,
		"card_index": int(cardIndex),
		"row":        int(row),
		"col":        int(col),
	}

	var res service.GameResult
	err := c.apiCall("POST", fmt.Sprintf("/api/games/%s/mark", gameID), body, &res)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	result := fmt.Sprintf("Marked cell (%d,%d) on card %d.\n", int(row), int(col), int(cardIndex))
	return mcp.NewToolResultText(result), nil
}

func (c *Client) handleClaimBingo(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := request.Params.Arguments.(map[string]interface{})
	gameID, _ := args["game_id"].(string)
	userID, _ := args["user_id"].(string)
	cardIndex, _ := args["card_index"].(float64)

	body := map[string]interface{}{
		"user_id":    userID,
		"card_index": int(cardIndex),
	}

	var res service.ClaimResult
	err := c.apiCall("POST", fmt.Sprintf("/api/games/%s/claim", gameID), body, &res)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	result := fmt.Sprintf("BINGO! %s wins %d credits. New balance: %d.\n",
		userID, res.Game.Prize, res.NewBalance)
	return mcp.NewToolResultText(result), nil
}

func (c *Client) handleGetBalance(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := request.Params.Arguments.(map[string]interface{})
	userID, _ := args["user_id"].(string)

	var response struct {
		UserID  string `json:"user_id"`
		Balance int    `json:"balance"`
	}
	err := c.apiCall("GET", fmt.Sprintf("/api/users/%s/balance", userID), nil, &response)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	return mcp.NewToolResultText(fmt.Sprintf("%s has %d credits.\n", response.UserID, response.Balance)), nil
}

// Formatting helpers

// letterFor returns the B-I-N-G-O column letter for a number.
func letterFor(number int) string {
	letters := []string{"B", "I", "N", "G", "O"}
	for i, r := range engine.ColumnRanges {
		if number >= r.Min && number <= r.Max {
			return fmt.Sprintf("%s-%d", letters[i], number)
		}
	}
	return fmt.Sprintf("%d", number)
}

func formatGameState(state *engine.GameState) string {
	var sb strings.Builder

	fmt.Fprintf(&sb, "Game %s [%s]\n", state.ID, state.Status)
	fmt.Fprintf(&sb, "Organizer: %s, pattern: %s, mode: %s\n", state.OrganizerID, state.Pattern, state.Mode)
	fmt.Fprintf(&sb, "Prize: %d, card price: %d, pot: %d\n", state.Prize, state.CardPrice, state.Pot)
	fmt.Fprintf(&sb, "Called (%d): %v\n", len(state.CalledNumbers), state.CalledNumbers)
	if len(state.Winners) > 0 {
		fmt.Fprintf(&sb, "Winners: %v\n", state.Winners)
	}

	for _, player := range state.Players {
		fmt.Fprintf(&sb, "\nPlayer %s (%d cards):\n", player.UserID, len(player.Cards))
		for i := range player.Cards {
			fmt.Fprintf(&sb, "Card %d:\n%s", i, formatCard(&player.Cards[i], state.CalledNumbers))
		}
	}

	return sb.String()
}

// formatCard renders one card as a grid, bracketing satisfied cells.
func formatCard(card *engine.BingoCard, called []int) string {
	calledSet := make(map[int]bool, len(called))
	for _, n := range called {
		calledSet[n] = true
	}

	var sb strings.Builder
	sb.WriteString("   B    I    N    G    O\n")
	for row := 0; row < engine.CardSize; row++ {
		for col := 0; col < engine.CardSize; col++ {
			cell := card[row][col]
			switch {
			case cell.Free:
				sb.WriteString("[ * ]")
			case calledSet[cell.Number]:
				fmt.Fprintf(&sb, "[%3d]", cell.Number)
			default:
				fmt.Fprintf(&sb, " %3d ", cell.Number)
			}
		}
		sb.WriteString("\n")
	}
	return sb.String()
}
