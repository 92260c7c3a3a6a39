// Package combat owns lag-compensated hit validation and what follows a
// confirmed hit: damage, sinking and respawn. The crux: a claimed hit only
// counts after the authority replays the projectile's closed-form position
// at the claimed instant and finds it inside the target's current footprint.
package combat

import (
	"log/slog"
	"time"

	"github.com/udisondev/seafall/internal/config"
	"github.com/udisondev/seafall/internal/game/ballistics"
	"github.com/udisondev/seafall/internal/game/collision"
	"github.com/udisondev/seafall/internal/model"
	"github.com/udisondev/seafall/internal/world"
)

// CannonDamage is the health cost of one confirmed ball.
// TODO: move into per-mount data when hull classes get distinct armament.
const CannonDamage = 25

// DamageEvent is broadcast after a confirmed hit.
type DamageEvent struct {
	TargetShipID uint32
	ProjectileID uint32
	NewHealth    int32
	Sinking      bool
}

// RespawnEvent is broadcast when a sunk ship returns to its anchorage.
type RespawnEvent struct {
	ShipID        uint32
	SpawnPosition model.Vec2
}

// Manager validates hit claims and applies their consequences.
type Manager struct {
	world  *world.World
	engine ballistics.Engine

	hitTolerance float64
	graceSec     float64
	sinkDuration time.Duration

	broadcastDamage  func(DamageEvent)
	broadcastRespawn func(RespawnEvent)
	recordHit        func(DamageEvent, time.Time) // battle log hook, may be nil

	now func() time.Time
}

// NewManager creates a combat manager. Broadcast funcs are injected by the
// entrypoint; the manager knows nothing about transport.
func NewManager(w *world.World, engine ballistics.Engine, cfg config.SimConfig, broadcastDamage func(DamageEvent), broadcastRespawn func(RespawnEvent)) *Manager {
	return &Manager{
		world:            w,
		engine:           engine,
		hitTolerance:     cfg.HitTolerance,
		graceSec:         cfg.ClaimGracePeriod,
		sinkDuration:     time.Duration(cfg.SinkDuration * float64(time.Second)),
		broadcastDamage:  broadcastDamage,
		broadcastRespawn: broadcastRespawn,
		now:              time.Now,
	}
}

// SetRecordFunc wires the battle log writer, invoked on confirmed hits only.
func (m *Manager) SetRecordFunc(fn func(DamageEvent, time.Time)) {
	m.recordHit = fn
}

// SetClock overrides the time source (tests).
func (m *Manager) SetClock(now func() time.Time) {
	m.now = now
}

// HandleClaim processes a hit claim end to end. Returns true only when
// damage was applied. Every rejection path is a silent drop plus a debug
// line — invalid and desynced claims are the normal cost of optimistic
// simulation, not errors, and nothing here may stall the tick loop.
func (m *Manager) HandleClaim(c Claim) bool {
	p, target, err := m.ValidateClaim(c)
	if err != nil {
		slog.Debug("hit claim rejected", "projectileID", c.ProjectileID, "reason", err)
		return false
	}

	// Authoritative replay: closed-form position at the claimed instant
	// against the target's current footprint, scaled by the hit tolerance.
	tau := ballistics.Elapsed(p, c.ClaimedTime)
	impact := ballistics.GroundPositionAt(p, tau)
	footprint := collision.FootprintOf(target).Scaled(m.hitTolerance)

	if !footprint.Contains(impact) {
		// Expected negative outcome of desync or speculation. No
		// broadcast of failure, no state change.
		slog.Debug("hit claim replay missed",
			"projectileID", c.ProjectileID,
			"targetShipID", c.TargetShipID,
			"tau", tau)
		return false
	}

	// One-way consumption gates the damage: a racing duplicate claim
	// loses the CAS and changes nothing.
	if !p.Consume() {
		return false
	}
	m.world.RemoveProjectile(p.ID())

	now := m.now()
	newHealth, startedSinking := target.ApplyDamage(CannonDamage, now)

	ev := DamageEvent{
		TargetShipID: target.ObjectID(),
		ProjectileID: p.ID(),
		NewHealth:    newHealth,
		Sinking:      startedSinking,
	}
	slog.Info("hit confirmed",
		"projectileID", p.ID(),
		"targetShipID", target.ObjectID(),
		"newHealth", newHealth,
		"sinking", startedSinking)

	if m.broadcastDamage != nil {
		m.broadcastDamage(ev)
	}
	if m.recordHit != nil {
		m.recordHit(ev, now)
	}
	return true
}

// CheckRespawns returns sunk ships to their anchorage once their sink has
// run its course. Called once per authoritative tick.
func (m *Manager) CheckRespawns(now time.Time) {
	for _, s := range m.world.Ships() {
		if !s.IsSinking() {
			continue
		}
		if s.SinkProgress(now, m.sinkDuration) < 1 {
			continue
		}

		s.Respawn()
		slog.Info("ship respawned", "shipID", s.ObjectID(), "name", s.Name())

		if m.broadcastRespawn != nil {
			m.broadcastRespawn(RespawnEvent{
				ShipID:        s.ObjectID(),
				SpawnPosition: s.SpawnPosition(),
			})
		}
	}
}
