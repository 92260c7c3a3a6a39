// Package sim runs the authoritative fixed-rate tick loop. Each ship is
// advanced independently from its own prior state; within one tick a ship's
// rotation/velocity update strictly precedes rider re-projection, so
// attached entities always read the post-update rotation.
package sim

import (
	"context"
	"log/slog"
	"sync/atomic"
	"time"

	"github.com/udisondev/seafall/internal/config"
	"github.com/udisondev/seafall/internal/game/ballistics"
	"github.com/udisondev/seafall/internal/game/collision"
	"github.com/udisondev/seafall/internal/game/combat"
	"github.com/udisondev/seafall/internal/game/motion"
	"github.com/udisondev/seafall/internal/game/transform"
	"github.com/udisondev/seafall/internal/model"
	"github.com/udisondev/seafall/internal/world"
)

// Manager drives the authoritative simulation.
type Manager struct {
	world      *world.World
	params     motion.Params
	projection transform.Projection
	combat     *combat.Manager

	interval time.Duration
	graceSec float64 // claim window extension past projectile lifetime

	stopCh    chan struct{}
	tickCount atomic.Int64

	now func() time.Time
}

// NewManager creates the tick manager.
func NewManager(w *world.World, cfg config.SimConfig, combatMgr *combat.Manager) *Manager {
	return &Manager{
		world:      w,
		params:     motion.ParamsFromConfig(cfg),
		projection: transform.NewProjection(cfg.TileAspect),
		combat:     combatMgr,
		interval:   cfg.TickInterval(),
		graceSec:   cfg.ClaimGracePeriod,
		stopCh:     make(chan struct{}),
		now:        time.Now,
	}
}

// SetClock overrides the time source (tests).
func (m *Manager) SetClock(now func() time.Time) {
	m.now = now
}

// Start runs the tick loop (blocks until context is canceled).
func (m *Manager) Start(ctx context.Context) error {
	ticker := time.NewTicker(m.interval)
	defer ticker.Stop()

	slog.Info("simulation tick manager started", "interval", m.interval)

	dt := m.interval.Seconds()
	for {
		select {
		case <-ctx.Done():
			slog.Info("simulation tick manager stopping")
			return ctx.Err()

		case <-m.stopCh:
			slog.Info("simulation tick manager stopped")
			return nil

		case <-ticker.C:
			m.Tick(dt, m.now())
		}
	}
}

// Stop stops the tick loop.
func (m *Manager) Stop() {
	close(m.stopCh)
}

// TickCount returns the number of completed ticks.
func (m *Manager) TickCount() int64 {
	return m.tickCount.Load()
}

// Tick advances the whole world by dt seconds. Exported so tests can step
// the simulation without a ticker.
func (m *Manager) Tick(dt float64, now time.Time) {
	for _, s := range m.world.Ships() {
		m.tickShip(s, dt)
	}
	m.expireProjectiles(now)
	if m.combat != nil {
		m.combat.CheckRespawns(now)
	}
	m.tickCount.Add(1)
}

// tickShip advances one ship and re-projects everything attached to it.
func (m *Manager) tickShip(s *model.Ship, dt float64) {
	if !s.IsSinking() {
		s.SetMotion(motion.Advance(s.Motion(), m.params, dt))
	}

	// Riders read the snapshot written above, never a half-updated one.
	mo := s.Motion()
	deck := collision.Rect{HalfLength: s.HalfLength(), HalfBeam: s.HalfBeam()}

	for _, riderID := range s.RiderIDs() {
		r := m.world.Rider(riderID)
		if r == nil || r.ShipID() != s.ObjectID() {
			continue
		}

		// Observers drive their own deck movement; the authority only
		// refuses offsets off the deck. An out-of-bounds report is
		// corrected, not trusted.
		offset := deck.ClampLocal(r.LocalOffset())
		r.SetLocalOffset(offset)

		// World position is always re-derived from canonical rotation
		// and the stored offset — never from composed deltas.
		r.SetWorldPosition(m.projection.WorldPosition(mo.Position, offset, mo.Rotation))
	}
}

// expireProjectiles removes projectiles no valid claim can still name.
// Flight ends at lifetime, but the spawn record stays claimable through the
// grace period that absorbs observer→authority latency: consuming at flight
// end would strand every claim delayed in transit, which is exactly the
// claim the grace window exists for. Pruning consumes, so a claim past the
// window is rejected by the consumed check even if it races the removal.
func (m *Manager) expireProjectiles(now time.Time) {
	for _, p := range m.world.Projectiles() {
		tau := ballistics.Elapsed(p, now)
		if tau <= p.LifetimeSec()+m.graceSec {
			continue
		}
		if p.Consume() {
			slog.Debug("projectile expired", "projectileID", p.ID(), "tau", tau)
		}
		m.world.RemoveProjectile(p.ID())
	}
}
