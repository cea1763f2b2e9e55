// Package api provides the HTTP REST surface of the bingo hall server.
//
// The api package implements:
//   - RESTful endpoints for game management and play
//   - Raffle, credit and chat endpoints
//   - WebSocket upgrade handling for the event gateway
//
// Endpoints:
//
// Games:
//   - POST /api/games - Create a game
//   - GET /api/games - List games (optional ?status= and ?limit=)
//   - GET /api/games/{id} - Get one game
//   - GET /api/games/{id}/audit - Audit a game's state invariants
//   - DELETE /api/games/{id} - Delete a waiting game (organizer only)
//   - POST /api/games/{id}/join - Buy a card and join
//   - POST /api/games/{id}/start - Start the game (organizer only)
//   - POST /api/games/{id}/call - Call a number (organizer only)
//   - POST /api/games/{id}/mark - Mark a card cell
//   - POST /api/games/{id}/claim - Claim bingo
//
// Raffles:
//   - POST /api/raffles, GET /api/raffles, GET /api/raffles/{id}
//   - POST /api/raffles/{id}/buy - Buy a numbered ticket
//   - POST /api/raffles/{id}/draw - Draw the winner (organizer only)
//   - DELETE /api/raffles/{id}
//
// Users and credits:
//   - POST /api/users, GET /api/users
//   - GET /api/users/{id}/balance
//   - POST /api/credits/transfer
//   - POST /api/credits/requests, GET /api/credits/requests
//   - POST /api/credits/requests/{id}/approve | /reject
//
// Chat:
//   - POST /api/messages, GET /api/messages?user_a=&user_b=
//   - POST /api/messages/{id}/read
//
// WebSocket:
//   - GET /ws?user={userID} - Upgrade a registered user's connection
//
// Error Handling:
//
// Rejections are returned as JSON with a stable code and the HTTP status
// derived from it:
//
//	{
//	  "error": "game not found: g-123",
//	  "code": "not_found"
//	}
//
// not_found maps to 404, unauthorized to 403, out_of_range to 400,
// insufficient_funds to 402, state conflicts (invalid_state, duplicate,
// already_marked, already_won, no_win) to 409 and internal faults to 500.
//
// Mutating endpoints also broadcast the resulting event through the
// WebSocket hub so REST and socket clients observe the same hall.
package api
