package constants

import "sync/atomic"

// ObjectID range constants. Ranges let any side classify an id without a
// registry lookup, which matters when a hit claim names an id the authority
// has never seen.
const (
	// ObjectIDShipStart is the start of the ship id range (0x10000000)
	ObjectIDShipStart = 0x10000000

	// ObjectIDShipEnd is the end of the ship id range (0x1FFFFFFF)
	ObjectIDShipEnd = 0x1FFFFFFF

	// ObjectIDRiderStart is the start of the rider id range (0x20000000)
	ObjectIDRiderStart = 0x20000000

	// ObjectIDRiderEnd is the end of the rider id range (0x2FFFFFFF)
	ObjectIDRiderEnd = 0x2FFFFFFF

	// ObjectIDProjectileStart is the start of the projectile id range (0x30000000)
	ObjectIDProjectileStart = 0x30000000
)

var (
	nextShipID       atomic.Uint32
	nextRiderID      atomic.Uint32
	nextProjectileID atomic.Uint32
)

// NextShipID allocates a ship object id.
func NextShipID() uint32 {
	return ObjectIDShipStart + nextShipID.Add(1) - 1
}

// NextRiderID allocates a rider object id.
func NextRiderID() uint32 {
	return ObjectIDRiderStart + nextRiderID.Add(1) - 1
}

// NextProjectileID allocates a projectile object id.
func NextProjectileID() uint32 {
	return ObjectIDProjectileStart + nextProjectileID.Add(1) - 1
}

// IsShipObjectID returns true if objectID is in the ship range.
func IsShipObjectID(objectID uint32) bool {
	return objectID >= ObjectIDShipStart && objectID <= ObjectIDShipEnd
}

// IsRiderObjectID returns true if objectID is in the rider range.
func IsRiderObjectID(objectID uint32) bool {
	return objectID >= ObjectIDRiderStart && objectID <= ObjectIDRiderEnd
}

// IsProjectileObjectID returns true if objectID is in the projectile range.
func IsProjectileObjectID(objectID uint32) bool {
	return objectID >= ObjectIDProjectileStart
}
