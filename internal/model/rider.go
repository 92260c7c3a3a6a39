package model

import "sync"

// Rider — сущность (персонаж), стоящая на палубе корабля.
// LocalOffset — единственная авторитетная запись позиции относительно корабля;
// мировая позиция всегда производная, никогда не хранится отдельно.
type Rider struct {
	objectID uint32
	name     string

	mu          sync.RWMutex
	shipID      uint32 // 0 = not attached; association by id, not pointer
	localOffset Vec2
	worldPos    Vec2 // last derived world position while detached or after projection
}

// NewRider creates a detached rider at the given world position.
func NewRider(objectID uint32, name string, worldPos Vec2) *Rider {
	return &Rider{objectID: objectID, name: name, worldPos: worldPos}
}

// ObjectID возвращает уникальный ID (immutable после создания).
func (r *Rider) ObjectID() uint32 {
	return r.objectID
}

// Name returns the rider name.
func (r *Rider) Name() string {
	return r.name
}

// ShipID returns the attached ship id, 0 when not aboard.
func (r *Rider) ShipID() uint32 {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.shipID
}

// IsAttached returns true while the rider stands on a ship.
func (r *Rider) IsAttached() bool {
	return r.ShipID() != 0
}

// LocalOffset returns the offset in the ship's unrotated frame.
func (r *Rider) LocalOffset() Vec2 {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.localOffset
}

// SetLocalOffset overwrites the stored offset (deck movement is expressed
// in the local frame and lands here before the next projection).
func (r *Rider) SetLocalOffset(offset Vec2) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.localOffset = offset
}

// Attach boards the rider onto a ship at the given local offset.
func (r *Rider) Attach(shipID uint32, localOffset Vec2) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.shipID = shipID
	r.localOffset = localOffset
}

// Detach disembarks the rider at the given world position.
func (r *Rider) Detach(worldPos Vec2) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.shipID = 0
	r.localOffset = Vec2{}
	r.worldPos = worldPos
}

// WorldPosition returns the last derived world position.
func (r *Rider) WorldPosition() Vec2 {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.worldPos
}

// SetWorldPosition stores a freshly derived world position. Only the
// projection step writes here; it is display state, not authority.
func (r *Rider) SetWorldPosition(p Vec2) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.worldPos = p
}
