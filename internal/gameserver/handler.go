// Package gameserver is the command boundary of the authoritative
// simulation: typed commands come in from the transport layer, get
// validated, and mutate the world. Every malformed or unauthorized command
// is rejected as a no-op and logged — no input may halt the tick loop.
package gameserver

import (
	"fmt"
	"log/slog"
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

// Handler validates and applies inbound commands.
type Handler struct {
	world      *world.World
	params     motion.Params
	engine     ballistics.Engine
	projection transform.Projection
	combat     *combat.Manager
	broadcasts Broadcasts

	now func() time.Time
}

// NewHandler creates the command handler.
func NewHandler(w *world.World, cfg config.SimConfig, combatMgr *combat.Manager, broadcasts Broadcasts) *Handler {
	return &Handler{
		world:      w,
		params:     motion.ParamsFromConfig(cfg),
		engine:     ballistics.NewEngine(cfg),
		projection: transform.NewProjection(cfg.TileAspect),
		combat:     combatMgr,
		broadcasts: broadcasts,
		now:        time.Now,
	}
}

// SetClock overrides the time source (tests).
func (h *Handler) SetClock(now func() time.Time) {
	h.now = now
}

// WheelTurnStart sets the wheel turning direction if the rider holds the helm.
func (h *Handler) WheelTurnStart(shipID, riderID uint32, dir model.WheelDirection) error {
	s, helm, err := h.helmOf(shipID)
	if err != nil {
		return h.reject("wheel.turn.start", err)
	}
	if helm.ControlledBy() != riderID {
		return h.reject("wheel.turn.start",
			fmt.Errorf("rider %d does not hold the helm of ship %d", riderID, shipID))
	}
	if dir != model.WheelLeft && dir != model.WheelRight {
		return h.reject("wheel.turn.start", fmt.Errorf("invalid direction %d", dir))
	}

	s.SetWheelDirection(dir)
	return nil
}

// WheelTurnStop clears the wheel turning direction. The wheel angle itself
// holds — releasing the spokes keeps the set course.
func (h *Handler) WheelTurnStop(shipID, riderID uint32) error {
	s, helm, err := h.helmOf(shipID)
	if err != nil {
		return h.reject("wheel.turn.stop", err)
	}
	if helm.ControlledBy() != riderID {
		return h.reject("wheel.turn.stop",
			fmt.Errorf("rider %d does not hold the helm of ship %d", riderID, shipID))
	}

	s.SetWheelDirection(model.WheelNone)
	return nil
}

// FixtureGrab attempts exclusive control of a fixture (CAS semantics).
func (h *Handler) FixtureGrab(shipID, riderID, fixtureID uint32) error {
	s := h.world.Ship(shipID)
	if s == nil {
		return h.reject("fixture.grab", fmt.Errorf("unknown ship %d", shipID))
	}
	r := h.world.Rider(riderID)
	if r == nil || r.ShipID() != shipID {
		return h.reject("fixture.grab", fmt.Errorf("rider %d not aboard ship %d", riderID, shipID))
	}
	f := s.Fixture(fixtureID)
	if f == nil {
		return h.reject("fixture.grab", fmt.Errorf("ship %d has no fixture %d", shipID, fixtureID))
	}
	if !f.TryGrab(riderID) {
		return h.reject("fixture.grab",
			fmt.Errorf("fixture %d held by rider %d", fixtureID, f.ControlledBy()))
	}
	return nil
}

// FixtureRelease gives up control of a fixture. Releasing the helm forces
// the wheel direction to none.
func (h *Handler) FixtureRelease(shipID, riderID, fixtureID uint32) error {
	s := h.world.Ship(shipID)
	if s == nil {
		return h.reject("fixture.release", fmt.Errorf("unknown ship %d", shipID))
	}
	f := s.Fixture(fixtureID)
	if f == nil {
		return h.reject("fixture.release", fmt.Errorf("ship %d has no fixture %d", shipID, fixtureID))
	}
	if !f.Release(riderID) {
		return h.reject("fixture.release",
			fmt.Errorf("rider %d does not hold fixture %d", riderID, fixtureID))
	}
	if f.Kind() == model.FixtureHelm {
		s.SetWheelDirection(model.WheelNone)
	}
	return nil
}

// SetSpeedLevel changes the sail setting if the rider holds a sail fixture.
func (h *Handler) SetSpeedLevel(shipID, riderID uint32, level int) error {
	s := h.world.Ship(shipID)
	if s == nil {
		return h.reject("speed.set", fmt.Errorf("unknown ship %d", shipID))
	}
	if err := h.params.ValidateSpeedLevel(level); err != nil {
		return h.reject("speed.set", err)
	}
	if !h.holdsFixtureOfKind(s, riderID, model.FixtureSail) {
		return h.reject("speed.set",
			fmt.Errorf("rider %d does not hold a sail fixture on ship %d", riderID, shipID))
	}

	s.SetSpeedLevel(level)
	return nil
}

// WeaponFire spawns a projectile from a weapon mount. The spawn record is
// broadcast in full so observers replay the same closed form.
func (h *Handler) WeaponFire(shipID, riderID, mountID uint32, aimAngle, elevation float64) error {
	s := h.world.Ship(shipID)
	if s == nil {
		return h.reject("weapon.fire", fmt.Errorf("unknown ship %d", shipID))
	}
	if s.IsSinking() {
		return h.reject("weapon.fire", fmt.Errorf("ship %d is sinking", shipID))
	}
	mount := s.Fixture(mountID)
	if mount == nil || mount.Kind() != model.FixtureWeaponMount {
		return h.reject("weapon.fire", fmt.Errorf("ship %d has no weapon mount %d", shipID, mountID))
	}
	if mount.ControlledBy() != riderID {
		return h.reject("weapon.fire",
			fmt.Errorf("rider %d does not hold mount %d", riderID, mountID))
	}

	mo := s.Motion()
	muzzle := h.projection.WorldPosition(mo.Position, mount.LocalOffset(), mo.Rotation)
	p := h.engine.Spawn(shipID, muzzle, mo.Velocity, aimAngle, elevation, h.now())
	h.world.AddProjectile(p)

	slog.Debug("projectile spawned",
		"projectileID", p.ID(),
		"shipID", shipID,
		"mountID", mountID,
		"groundVel", p.GroundVel())

	if h.broadcasts.ProjectileSpawned != nil {
		h.broadcasts.ProjectileSpawned(ProjectileSpawnedEvent{
			ProjectileID: p.ID(),
			SourceShipID: shipID,
			SpawnTime:    p.SpawnTime(),
			GroundPos0:   p.GroundPos0(),
			GroundVel:    p.GroundVel(),
			HeightVel0:   p.HeightVel0(),
			LifetimeSec:  p.LifetimeSec(),
		})
	}
	return nil
}

// HitClaim forwards a claim to the combat manager. Returns whether damage
// was applied; a false return is not an error (see combat.Manager).
func (h *Handler) HitClaim(projectileID, targetShipID uint32, claimedTime time.Time) bool {
	return h.combat.HandleClaim(combat.Claim{
		ProjectileID: projectileID,
		TargetShipID: targetShipID,
		ClaimedTime:  claimedTime,
	})
}

// Board attaches a rider to the first ship whose exact footprint contains
// the rider's position. Boarding uses the unscaled footprint; the contact
// point in the ship's local frame becomes the rider's deck offset.
func (h *Handler) Board(riderID uint32) error {
	r := h.world.Rider(riderID)
	if r == nil {
		return h.reject("board", fmt.Errorf("unknown rider %d", riderID))
	}
	if r.IsAttached() {
		return h.reject("board", fmt.Errorf("rider %d already aboard ship %d", riderID, r.ShipID()))
	}

	pos := r.WorldPosition()
	for _, s := range h.world.Ships() {
		local, inside := collision.FootprintOf(s).ContainsLocal(pos)
		if !inside {
			continue
		}

		r.Attach(s.ObjectID(), local)
		s.AddRider(riderID)
		slog.Info("rider boarded", "riderID", riderID, "shipID", s.ObjectID(), "offset", local)

		if h.broadcasts.Boarded != nil {
			h.broadcasts.Boarded(BoardedEvent{RiderID: riderID, ShipID: s.ObjectID(), LocalOffset: local})
		}
		return nil
	}
	return h.reject("board", fmt.Errorf("rider %d is not over any deck", riderID))
}

// Disembark detaches a rider at its current derived world position and
// releases every fixture it held.
func (h *Handler) Disembark(riderID uint32) error {
	r := h.world.Rider(riderID)
	if r == nil {
		return h.reject("disembark", fmt.Errorf("unknown rider %d", riderID))
	}
	shipID := r.ShipID()
	if shipID == 0 {
		return h.reject("disembark", fmt.Errorf("rider %d is not aboard", riderID))
	}

	var worldPos model.Vec2
	if s := h.world.Ship(shipID); s != nil {
		mo := s.Motion()
		worldPos = h.projection.WorldPosition(mo.Position, r.LocalOffset(), mo.Rotation)
		s.RemoveRider(riderID)
		if helm := s.Helm(); helm != nil && helm.ControlledBy() == 0 {
			s.SetWheelDirection(model.WheelNone)
		}
	}

	r.Detach(worldPos)
	slog.Info("rider disembarked", "riderID", riderID, "shipID", shipID)

	if h.broadcasts.Disembarked != nil {
		h.broadcasts.Disembarked(DisembarkedEvent{RiderID: riderID, WorldPosition: worldPos})
	}
	return nil
}

// ReportRiderOffset accepts an observer's deck movement report. The offset
// is clamped to the footprint immediately; the tick re-clamps every cycle.
func (h *Handler) ReportRiderOffset(riderID uint32, offset model.Vec2) error {
	r := h.world.Rider(riderID)
	if r == nil {
		return h.reject("rider.offset", fmt.Errorf("unknown rider %d", riderID))
	}
	s := h.world.Ship(r.ShipID())
	if s == nil {
		return h.reject("rider.offset", fmt.Errorf("rider %d is not aboard", riderID))
	}

	deck := collision.Rect{HalfLength: s.HalfLength(), HalfBeam: s.HalfBeam()}
	r.SetLocalOffset(deck.ClampLocal(offset))
	return nil
}

// helmOf resolves a ship and its helm fixture.
func (h *Handler) helmOf(shipID uint32) (*model.Ship, *model.Fixture, error) {
	s := h.world.Ship(shipID)
	if s == nil {
		return nil, nil, fmt.Errorf("unknown ship %d", shipID)
	}
	helm := s.Helm()
	if helm == nil {
		return nil, nil, fmt.Errorf("ship %d has no helm", shipID)
	}
	return s, helm, nil
}

// holdsFixtureOfKind reports whether the rider controls any fixture of the
// given kind on the ship.
func (h *Handler) holdsFixtureOfKind(s *model.Ship, riderID uint32, kind model.FixtureKind) bool {
	for _, f := range s.Fixtures() {
		if f.Kind() == kind && f.ControlledBy() == riderID {
			return true
		}
	}
	return false
}

// reject logs a dropped command and returns its reason. Rejections never
// propagate beyond the boundary — the caller continues with the next command.
func (h *Handler) reject(command string, err error) error {
	slog.Debug("command rejected", "command", command, "reason", err)
	return err
}
