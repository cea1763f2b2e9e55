// Package session implements the session registry: the keyed store of all
// live games and the only component with cross-game visibility.
//
// The registry guards its map with a single RWMutex, but every stored
// Session carries its own lock. Mutating operations against one game
// serialize on that game's lock alone, so independent games mutate
// concurrently and a congested game never slows its neighbors.
package session
