// Package ballistics evaluates projectile trajectories in closed form from
// elapsed time. No discrete-tick accumulation: an optimistic observer at one
// frame rate and the authoritative replay at another compute bit-for-bit
// comparable positions for the same τ.
package ballistics

import (
	"math"
	"time"

	"github.com/udisondev/seafall/internal/config"
	"github.com/udisondev/seafall/internal/constants"
	"github.com/udisondev/seafall/internal/model"
)

// Engine holds the ballistic constants of a session.
type Engine struct {
	gravity     float64
	muzzleSpeed float64
	lifetimeSec float64

	worldWidth  float64
	worldHeight float64
	margin      float64
}

// NewEngine creates an engine from the sim config.
func NewEngine(cfg config.SimConfig) Engine {
	return Engine{
		gravity:     cfg.Gravity,
		muzzleSpeed: cfg.MuzzleSpeed,
		lifetimeSec: cfg.ProjectileLifetime,
		worldWidth:  cfg.WorldWidth,
		worldHeight: cfg.WorldHeight,
		margin:      cfg.OutOfBoundsMargin,
	}
}

// SpawnVelocity splits a shot into its gravity-free ground velocity and
// vertical launch speed. The ground component inherits the firing ship's
// current velocity, so a shot from a moving ship leads or trails.
func (e Engine) SpawnVelocity(fireAngle, elevation float64, shipVelocity model.Vec2) (ground model.Vec2, height float64) {
	sinA, cosA := math.Sincos(fireAngle)
	sinE, cosE := math.Sincos(elevation)

	muzzle := model.Vec2{X: cosA, Y: sinA}.Scale(e.muzzleSpeed * cosE)
	return muzzle.Add(shipVelocity), e.muzzleSpeed * sinE
}

// Spawn creates a projectile record for a shot fired from a mount.
func (e Engine) Spawn(sourceShipID uint32, mountWorldPos model.Vec2, shipVelocity model.Vec2, fireAngle, elevation float64, now time.Time) *model.Projectile {
	ground, height := e.SpawnVelocity(fireAngle, elevation, shipVelocity)
	return model.NewProjectile(
		constants.NextProjectileID(),
		sourceShipID,
		now,
		mountWorldPos,
		ground,
		height,
		e.lifetimeSec,
	)
}

// GroundPositionAt evaluates the gravity-free plane position at elapsed τ
// seconds since spawn.
func GroundPositionAt(p *model.Projectile, tau float64) model.Vec2 {
	return p.GroundPos0().Add(p.GroundVel().Scale(tau))
}

// HeightAt evaluates the gravity-affected vertical position at elapsed τ.
func (e Engine) HeightAt(p *model.Projectile, tau float64) float64 {
	return p.HeightVel0()*tau - 0.5*e.gravity*tau*tau
}

// Elapsed returns τ for a wall-clock instant.
func Elapsed(p *model.Projectile, at time.Time) float64 {
	return at.Sub(p.SpawnTime()).Seconds()
}

// Expired reports whether the projectile is done at elapsed τ: past its
// lifetime or projected outside the playable area by the margin.
func (e Engine) Expired(p *model.Projectile, tau float64) bool {
	if tau > p.LifetimeSec() {
		return true
	}
	pos := GroundPositionAt(p, tau)
	return pos.X < -e.margin || pos.X > e.worldWidth+e.margin ||
		pos.Y < -e.margin || pos.Y > e.worldHeight+e.margin
}
