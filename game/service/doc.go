// Package service defines the application-facing contract for the bingo
// hall: the GameService interface, its in-memory implementation, and the
// result types every transport (REST, WebSocket gateway, MCP) consumes.
//
// Business-rule violations never surface as Go errors: each operation
// returns a discriminated result carrying a success flag, a machine-readable
// error code, and the updated game state. The error return is reserved for
// internal faults, which are reported to the caller rather than crashing
// the process.
//
// The service also owns the boundary with the account ledger collaborator:
// it debits the card price after a successful join and credits the prize
// after a winning claim, then re-reads the authoritative balance for the
// credits event instead of recomputing it from a possibly stale value.
package service
