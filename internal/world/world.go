// Package world holds the id-indexed registries for everything alive in a
// session. Ship↔rider links are resolved through these tables by id, never
// by direct pointers on both sides, so the entity graph has no ownership
// cycles.
package world

import (
	"sync"
	"sync/atomic"

	"github.com/udisondev/seafall/internal/model"
)

// World is the in-memory session registry.
type World struct {
	ships       sync.Map // map[uint32]*model.Ship
	riders      sync.Map // map[uint32]*model.Rider
	projectiles sync.Map // map[uint32]*model.Projectile

	projectileCount atomic.Int32 // cached count (O(1) access for diagnostics)
}

// New creates an empty world.
func New() *World {
	return &World{}
}

// AddShip registers a ship. Ships persist for the whole session; respawn
// resets them in place rather than re-registering.
func (w *World) AddShip(s *model.Ship) {
	w.ships.Store(s.ObjectID(), s)
}

// Ship returns the ship with the given id, nil if unknown.
func (w *World) Ship(id uint32) *model.Ship {
	v, ok := w.ships.Load(id)
	if !ok {
		return nil
	}
	return v.(*model.Ship)
}

// Ships returns a snapshot of all registered ships.
func (w *World) Ships() []*model.Ship {
	var out []*model.Ship
	w.ships.Range(func(_, v any) bool {
		out = append(out, v.(*model.Ship))
		return true
	})
	return out
}

// AddRider registers a rider.
func (w *World) AddRider(r *model.Rider) {
	w.riders.Store(r.ObjectID(), r)
}

// Rider returns the rider with the given id, nil if unknown.
func (w *World) Rider(id uint32) *model.Rider {
	v, ok := w.riders.Load(id)
	if !ok {
		return nil
	}
	return v.(*model.Rider)
}

// RemoveRider drops a rider from the registry and off its ship.
func (w *World) RemoveRider(id uint32) {
	v, ok := w.riders.LoadAndDelete(id)
	if !ok {
		return
	}
	r := v.(*model.Rider)
	if shipID := r.ShipID(); shipID != 0 {
		if s := w.Ship(shipID); s != nil {
			s.RemoveRider(id)
		}
	}
}

// AddProjectile registers a live projectile.
func (w *World) AddProjectile(p *model.Projectile) {
	w.projectiles.Store(p.ID(), p)
	w.projectileCount.Add(1)
}

// Projectile returns the projectile with the given id, nil if unknown.
func (w *World) Projectile(id uint32) *model.Projectile {
	v, ok := w.projectiles.Load(id)
	if !ok {
		return nil
	}
	return v.(*model.Projectile)
}

// RemoveProjectile drops a projectile after hit or expiry.
func (w *World) RemoveProjectile(id uint32) {
	if _, ok := w.projectiles.LoadAndDelete(id); ok {
		w.projectileCount.Add(-1)
	}
}

// Projectiles returns a snapshot of live projectiles.
func (w *World) Projectiles() []*model.Projectile {
	out := make([]*model.Projectile, 0, w.projectileCount.Load())
	w.projectiles.Range(func(_, v any) bool {
		out = append(out, v.(*model.Projectile))
		return true
	})
	return out
}

// ProjectileCount returns the cached live projectile count.
func (w *World) ProjectileCount() int {
	return int(w.projectileCount.Load())
}
