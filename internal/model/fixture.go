package model

import "sync"

// FixtureKind — тип закреплённого на корабле поста управления.
type FixtureKind int

const (
	FixtureHelm FixtureKind = iota
	FixtureSail
	FixtureWeaponMount
)

// String returns a human-readable fixture kind for logging.
func (k FixtureKind) String() string {
	switch k {
	case FixtureHelm:
		return "helm"
	case FixtureSail:
		return "sail"
	case FixtureWeaponMount:
		return "weapon_mount"
	default:
		return "unknown"
	}
}

// Fixture — пост управления (штурвал, паруса, орудие), закреплённый на корабле.
// LocalOffset задан в неповёрнутой (локальной) системе координат корабля.
// Control is exclusive: a grab succeeds only while no one holds the fixture.
type Fixture struct {
	id          uint32
	kind        FixtureKind
	localOffset Vec2

	mu           sync.Mutex
	controlledBy uint32 // rider objectID, 0 = free
}

// NewFixture creates a fixture mounted at the given local offset.
func NewFixture(id uint32, kind FixtureKind, localOffset Vec2) *Fixture {
	return &Fixture{id: id, kind: kind, localOffset: localOffset}
}

// ID возвращает уникальный ID поста (immutable после создания).
func (f *Fixture) ID() uint32 {
	return f.id
}

// Kind returns the fixture kind.
func (f *Fixture) Kind() FixtureKind {
	return f.kind
}

// LocalOffset returns the mount point in the ship's unrotated frame.
func (f *Fixture) LocalOffset() Vec2 {
	return f.localOffset
}

// ControlledBy returns the rider currently holding the fixture, 0 if free.
func (f *Fixture) ControlledBy() uint32 {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.controlledBy
}

// TryGrab attempts to take exclusive control (compare-and-set semantics).
// Returns false if another rider already holds the fixture. Grabbing a
// fixture you already hold is a no-op success.
func (f *Fixture) TryGrab(riderID uint32) bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.controlledBy != 0 && f.controlledBy != riderID {
		return false
	}
	f.controlledBy = riderID
	return true
}

// Release clears control if held by riderID. Release by a non-holder is a no-op.
func (f *Fixture) Release(riderID uint32) bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.controlledBy != riderID {
		return false
	}
	f.controlledBy = 0
	return true
}

// ForceRelease clears control unconditionally (disconnect path).
func (f *Fixture) ForceRelease() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.controlledBy = 0
}
