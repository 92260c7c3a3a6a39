// Package transform reconciles Cartesian deck offsets with the skewed
// isometric projection the world is drawn in. Rotating an attached entity
// through these helpers keeps it visually on its ship; rotating raw screen
// coordinates does not.
package transform

import (
	"math"

	"github.com/udisondev/seafall/internal/model"
)

// Projection carries the tile aspect ratio (width:height, typically 2:1)
// the world is rendered with.
type Projection struct {
	aspect float64
}

// NewProjection creates a projection for the given tile aspect ratio.
func NewProjection(aspect float64) Projection {
	return Projection{aspect: aspect}
}

// ToOrthogonal undoes the isometric squash, mapping a projected offset into
// the plain Cartesian frame where rotation behaves.
func (p Projection) ToOrthogonal(v model.Vec2) model.Vec2 {
	return model.Vec2{X: v.X, Y: v.Y * p.aspect}
}

// ToIsometric applies the isometric squash. Exact inverse of ToOrthogonal.
func (p Projection) ToIsometric(v model.Vec2) model.Vec2 {
	return model.Vec2{X: v.X, Y: v.Y / p.aspect}
}

// Rotate2D rotates v by angle radians (standard 2×2 rotation matrix).
func Rotate2D(v model.Vec2, angle float64) model.Vec2 {
	sin, cos := math.Sincos(angle)
	return model.Vec2{
		X: v.X*cos - v.Y*sin,
		Y: v.X*sin + v.Y*cos,
	}
}

// RotateAttached rotates a stored local offset by the ship's canonical
// rotation: unsquash, rotate, squash back. Callers must always pass the
// full canonical angle, never compose per-tick deltas — repeated small
// compositions accumulate float error and the rider drifts off the deck.
func (p Projection) RotateAttached(offset model.Vec2, angle float64) model.Vec2 {
	return p.ToIsometric(Rotate2D(p.ToOrthogonal(offset), angle))
}

// WorldPosition derives an attached entity's world position from the ship
// center, its canonical rotation and the stored local offset.
func (p Projection) WorldPosition(shipPos, localOffset model.Vec2, rotation float64) model.Vec2 {
	return shipPos.Add(p.RotateAttached(localOffset, rotation))
}
