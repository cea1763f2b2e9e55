// Package websocket implements the event gateway: the message-based
// boundary between connected hall clients and the game engine.
//
// The Hub tracks connections keyed by user id and fans outbound events out
// to every client (hall-wide broadcast) or to one user's connections
// (private acknowledgment). Inbound frames carry a tagged action: a type
// string plus a payload decoded into one well-defined struct per
// operation, so the gateway-to-engine boundary is checked rather than
// shuttling loose maps around.
//
// The Gateway is the single canonical dispatcher. For each inbound action
// it calls the game service (or the ledger, raffle, or chat collaborator),
// sends a private ack with a machine-readable error code, and broadcasts
// the resulting state-change event. The engine itself never sees a socket.
package websocket
