package server

import (
	"github.com/google/uuid"

	"github.com/StoreStation/blockwright/pkg/inventory"
)

// GameMode re-exports pkg/inventory's mode enum: the inventory click
// rules (Throw's Spectator gate, Clone's Creative gate) are keyed off
// the same value the play loop tracks per player.
type GameMode = inventory.GameMode

// Player is one logged-in connection's game state.
type Player struct {
	EntityID  int32
	UUID      uuid.UUID
	Username  string
	GameMode  GameMode
	Inventory *inventory.Inventory
}
