// Package collision implements the point-in-rotated-rectangle test used for
// boarding detection and projectile impacts. It works in the plain Cartesian
// frame on purpose: the cosmetic isometric projection belongs to rendering
// and rider placement, not to hit math.
package collision

import (
	"math"

	"github.com/udisondev/seafall/internal/model"
)

// Rect is an oriented rectangle: half-extents around a center, oriented by
// rotation. A ship footprint is Rect{center: position, half: (halfLength,
// halfBeam), rotation: rotation}.
type Rect struct {
	Center     model.Vec2
	HalfLength float64 // along the heading axis
	HalfBeam   float64 // across the heading axis
	Rotation   float64 // radians
}

// FootprintOf builds the exact collision rectangle for a ship.
func FootprintOf(s *model.Ship) Rect {
	m := s.Motion()
	return Rect{
		Center:     m.Position,
		HalfLength: s.HalfLength(),
		HalfBeam:   s.HalfBeam(),
		Rotation:   m.Rotation,
	}
}

// Scaled returns the rectangle with both half-extents multiplied by factor.
// Hit detection uses a forgiving factor (>1); boarding uses the exact rect.
func (r Rect) Scaled(factor float64) Rect {
	r.HalfLength *= factor
	r.HalfBeam *= factor
	return r
}

// Contains reports whether p lies inside the rectangle. The boundary is
// inclusive: a point exactly on the edge counts as inside, so touching
// volumes still register.
func (r Rect) Contains(p model.Vec2) bool {
	local := r.toLocal(p)
	return math.Abs(local.X) <= r.HalfLength && math.Abs(local.Y) <= r.HalfBeam
}

// ContainsLocal is Contains plus the test point expressed in the
// rectangle's local frame. Boarding stores that local point as the rider's
// new deck offset.
func (r Rect) ContainsLocal(p model.Vec2) (model.Vec2, bool) {
	local := r.toLocal(p)
	inside := math.Abs(local.X) <= r.HalfLength && math.Abs(local.Y) <= r.HalfBeam
	return local, inside
}

// ClampLocal clamps a local-frame point into the rectangle extents. The
// authoritative tick runs rider offsets through this so an observer cannot
// report a deck position off the deck.
func (r Rect) ClampLocal(local model.Vec2) model.Vec2 {
	return model.Vec2{
		X: clamp(local.X, -r.HalfLength, r.HalfLength),
		Y: clamp(local.Y, -r.HalfBeam, r.HalfBeam),
	}
}

// toLocal translates p to the rectangle center and rotates by -rotation.
func (r Rect) toLocal(p model.Vec2) model.Vec2 {
	d := p.Sub(r.Center)
	sin, cos := math.Sincos(-r.Rotation)
	return model.Vec2{
		X: d.X*cos - d.Y*sin,
		Y: d.X*sin + d.Y*cos,
	}
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
