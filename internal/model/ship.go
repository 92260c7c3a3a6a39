package model

import (
	"sync"
	"time"
)

// WheelDirection — текущее направление вращения штурвала.
type WheelDirection int

const (
	WheelNone WheelDirection = iota
	WheelLeft
	WheelRight
)

// String returns a human-readable wheel direction for logging.
func (d WheelDirection) String() string {
	switch d {
	case WheelLeft:
		return "left"
	case WheelRight:
		return "right"
	default:
		return "none"
	}
}

// MotionState — снимок подвижного состояния корабля за один тик.
// Value type: motion reads one snapshot, computes, writes one snapshot,
// so riders never observe a half-updated rotation.
type MotionState struct {
	Position       Vec2
	Rotation       float64 // radians, canonical (-π, π]
	WheelAngle     float64 // radians, clamped to [-maxWheel, maxWheel]
	WheelDirection WheelDirection
	SpeedLevel     int
	Velocity       Vec2 // derived every tick, never carried across a heading change
}

// Ship — управляемая платформа (корабль) со своим state machine вращения и скорости.
// Riders are associated by id lookup in the world registry, never by pointer,
// so the ship↔rider graph has no ownership cycles.
type Ship struct {
	objectID uint32
	name     string
	class    string

	// Footprint half-extents, oriented by rotation around position.
	halfLength float64
	halfBeam   float64

	spawnPosition Vec2
	spawnHeading  float64

	fixtures []*Fixture // may be empty: not every hull carries mounts

	mu            sync.RWMutex
	motion        MotionState
	health        int32
	maxHealth     int32
	sinking       bool
	sinkStartedAt time.Time
	riderIDs      map[uint32]struct{}
}

// NewShip creates a ship at its spawn anchorage with full health.
func NewShip(objectID uint32, name, class string, spawn Vec2, heading float64, maxHealth int32, halfLength, halfBeam float64, fixtures []*Fixture) *Ship {
	return &Ship{
		objectID:      objectID,
		name:          name,
		class:         class,
		halfLength:    halfLength,
		halfBeam:      halfBeam,
		spawnPosition: spawn,
		spawnHeading:  NormalizeAngle(heading),
		fixtures:      fixtures,
		motion: MotionState{
			Position: spawn,
			Rotation: NormalizeAngle(heading),
		},
		health:    maxHealth,
		maxHealth: maxHealth,
		riderIDs:  make(map[uint32]struct{}),
	}
}

// ObjectID возвращает уникальный ID корабля (immutable после создания).
func (s *Ship) ObjectID() uint32 {
	return s.objectID
}

// Name returns the ship name.
func (s *Ship) Name() string {
	return s.name
}

// Class returns the hull class.
func (s *Ship) Class() string {
	return s.class
}

// HalfLength returns the footprint half-extent along the heading axis.
func (s *Ship) HalfLength() float64 {
	return s.halfLength
}

// HalfBeam returns the footprint half-extent across the heading axis.
func (s *Ship) HalfBeam() float64 {
	return s.halfBeam
}

// Motion returns a copy of the ship's motion snapshot.
func (s *Ship) Motion() MotionState {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.motion
}

// SetMotion replaces the motion snapshot atomically.
func (s *Ship) SetMotion(m MotionState) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.motion = m
}

// Position returns the current ship center (convenience for hot paths).
func (s *Ship) Position() Vec2 {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.motion.Position
}

// Rotation returns the current canonical rotation.
func (s *Ship) Rotation() float64 {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.motion.Rotation
}

// Velocity returns the velocity derived on the latest tick.
func (s *Ship) Velocity() Vec2 {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.motion.Velocity
}

// SetWheelDirection updates the wheel turning direction.
func (s *Ship) SetWheelDirection(d WheelDirection) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.motion.WheelDirection = d
}

// SetSpeedLevel updates the speed table index. Range checking belongs to
// the command handler; the model stores what it is given.
func (s *Ship) SetSpeedLevel(level int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.motion.SpeedLevel = level
}

// Fixtures returns the mounted fixtures (immutable slice after creation).
func (s *Ship) Fixtures() []*Fixture {
	return s.fixtures
}

// Fixture returns the mounted fixture with the given id, nil if absent.
func (s *Ship) Fixture(id uint32) *Fixture {
	for _, f := range s.fixtures {
		if f.ID() == id {
			return f
		}
	}
	return nil
}

// Helm returns the helm fixture, nil if the hull has none.
func (s *Ship) Helm() *Fixture {
	for _, f := range s.fixtures {
		if f.Kind() == FixtureHelm {
			return f
		}
	}
	return nil
}

// Health returns current health.
func (s *Ship) Health() int32 {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.health
}

// MaxHealth returns maximum health.
func (s *Ship) MaxHealth() int32 {
	return s.maxHealth
}

// IsSinking returns true while the ship is going down.
func (s *Ship) IsSinking() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.sinking
}

// ApplyDamage subtracts damage and starts sinking at zero health.
// Returns the new health and whether this hit started the sinking.
// Damage to an already sinking ship is ignored.
func (s *Ship) ApplyDamage(damage int32, now time.Time) (newHealth int32, startedSinking bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.sinking {
		return s.health, false
	}

	s.health -= damage
	if s.health <= 0 {
		s.health = 0
		s.sinking = true
		s.sinkStartedAt = now
		return 0, true
	}
	return s.health, false
}

// SinkProgress returns 0..1 sink completion derived from the start timestamp.
// Always recomputed from elapsed time, never accumulated per tick.
func (s *Ship) SinkProgress(now time.Time, sinkDuration time.Duration) float64 {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if !s.sinking || sinkDuration <= 0 {
		return 0
	}
	p := float64(now.Sub(s.sinkStartedAt)) / float64(sinkDuration)
	if p < 0 {
		return 0
	}
	if p > 1 {
		return 1
	}
	return p
}

// Respawn resets health, position and sinking in place (no reallocation:
// ships persist for the whole session).
func (s *Ship) Respawn() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.health = s.maxHealth
	s.sinking = false
	s.sinkStartedAt = time.Time{}
	s.motion = MotionState{
		Position: s.spawnPosition,
		Rotation: s.spawnHeading,
	}
}

// SpawnPosition returns the spawn anchorage.
func (s *Ship) SpawnPosition() Vec2 {
	return s.spawnPosition
}

// AddRider registers a rider id as aboard.
func (s *Ship) AddRider(riderID uint32) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.riderIDs[riderID] = struct{}{}
}

// RemoveRider removes a rider id and force-releases any fixture it held.
func (s *Ship) RemoveRider(riderID uint32) {
	s.mu.Lock()
	delete(s.riderIDs, riderID)
	s.mu.Unlock()

	for _, f := range s.fixtures {
		f.Release(riderID)
	}
}

// RiderIDs returns a snapshot of rider ids currently aboard.
func (s *Ship) RiderIDs() []uint32 {
	s.mu.RLock()
	defer s.mu.RUnlock()

	ids := make([]uint32, 0, len(s.riderIDs))
	for id := range s.riderIDs {
		ids = append(ids, id)
	}
	return ids
}
