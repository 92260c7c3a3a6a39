package model

import (
	"sync/atomic"
	"time"
)

// Projectile — запись о выпущенном снаряде.
// Spawn parameters are immutable after creation: both the optimistic
// observer and the authoritative replay evaluate the same closed form
// from the same record.
type Projectile struct {
	id           uint32
	sourceShipID uint32
	spawnTime    time.Time

	groundPos0  Vec2    // spawn position on the gravity-free plane
	groundVel   Vec2    // muzzle vector + source ship velocity at spawn
	heightVel0  float64 // vertical launch speed, gravity-affected
	lifetimeSec float64

	consumed atomic.Bool // one-way; flips exactly once
}

// NewProjectile creates a projectile spawn record.
func NewProjectile(id, sourceShipID uint32, spawnTime time.Time, groundPos0, groundVel Vec2, heightVel0, lifetimeSec float64) *Projectile {
	return &Projectile{
		id:           id,
		sourceShipID: sourceShipID,
		spawnTime:    spawnTime,
		groundPos0:   groundPos0,
		groundVel:    groundVel,
		heightVel0:   heightVel0,
		lifetimeSec:  lifetimeSec,
	}
}

// ID возвращает уникальный ID снаряда (immutable после создания).
func (p *Projectile) ID() uint32 {
	return p.id
}

// SourceShipID returns the firing ship — the authority for this projectile.
func (p *Projectile) SourceShipID() uint32 {
	return p.sourceShipID
}

// SpawnTime returns the spawn instant.
func (p *Projectile) SpawnTime() time.Time {
	return p.spawnTime
}

// GroundPos0 returns the spawn position.
func (p *Projectile) GroundPos0() Vec2 {
	return p.groundPos0
}

// GroundVel returns the ground-plane velocity.
func (p *Projectile) GroundVel() Vec2 {
	return p.groundVel
}

// HeightVel0 returns the vertical launch speed.
func (p *Projectile) HeightVel0() float64 {
	return p.heightVel0
}

// LifetimeSec returns the lifetime in seconds.
func (p *Projectile) LifetimeSec() float64 {
	return p.lifetimeSec
}

// IsConsumed returns true once the projectile hit or expired.
func (p *Projectile) IsConsumed() bool {
	return p.consumed.Load()
}

// Consume flips the consumed flag. Returns true only for the first caller;
// a second claim against the same projectile is a no-op, not an error.
func (p *Projectile) Consume() bool {
	return p.consumed.CompareAndSwap(false, true)
}
