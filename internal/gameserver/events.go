package gameserver

import (
	"time"

	"github.com/udisondev/seafall/internal/model"
)

// ProjectileSpawnedEvent carries the full spawn record so observers can run
// their own closed-form simulation of the shot.
type ProjectileSpawnedEvent struct {
	ProjectileID uint32
	SourceShipID uint32
	SpawnTime    time.Time
	GroundPos0   model.Vec2
	GroundVel    model.Vec2
	HeightVel0   float64
	LifetimeSec  float64
}

// BoardedEvent is emitted when a rider lands on a deck.
type BoardedEvent struct {
	RiderID     uint32
	ShipID      uint32
	LocalOffset model.Vec2
}

// DisembarkedEvent is emitted when a rider leaves a deck.
type DisembarkedEvent struct {
	RiderID       uint32
	WorldPosition model.Vec2
}

// Broadcasts bundles the outbound callbacks the handler emits into.
// Transport, serialization and addressing live outside this core; any nil
// callback is simply skipped.
type Broadcasts struct {
	ProjectileSpawned func(ProjectileSpawnedEvent)
	Boarded           func(BoardedEvent)
	Disembarked       func(DisembarkedEvent)
}
