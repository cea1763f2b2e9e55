// Package mcp provides a Model Context Protocol interface to the bingo
// hall server.
//
// The mcp package implements:
//   - MCP server for AI agent integration
//   - Tool definitions for game operations
//   - Thin proxying to the REST API
//
// MCP Tools:
//
// The package exposes the following tools for AI agents:
//   - create_game: Create a new bingo game
//   - list_games: List all games in the hall
//   - get_game: Get one game's full state with card rendering
//   - join_game: Join a waiting game and buy a card
//   - start_game: Start a waiting game
//   - call_number: Call a number in a running game
//   - mark_number: Mark a cell on a card
//   - claim_bingo: Claim bingo on a card
//   - get_balance: Get a user's credit balance
//
// Transport Modes:
//
// The server supports two transport modes:
//   - Stdio: Direct stdio communication for local MCP clients
//   - HTTP: Streamable HTTP endpoint for remote MCP integration
//
// All tools proxy to the REST API, so MCP agents and REST or WebSocket
// clients always observe the same hall state.
//
// Usage:
//
//	client := mcp.NewClient("http://localhost:8080")
//	server.NewStdioServer(client.GetMCPServer()).Listen(ctx, os.Stdin, os.Stdout)
package mcp
