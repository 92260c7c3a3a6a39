package model

import "math"

// Vec2 представляет точку или вектор на водной плоскости.
// Value type, передаётся по значению (immutable).
type Vec2 struct {
	X float64
	Y float64
}

// Add возвращает сумму векторов.
func (v Vec2) Add(other Vec2) Vec2 {
	return Vec2{X: v.X + other.X, Y: v.Y + other.Y}
}

// Sub возвращает разность векторов.
func (v Vec2) Sub(other Vec2) Vec2 {
	return Vec2{X: v.X - other.X, Y: v.Y - other.Y}
}

// Scale возвращает вектор, умноженный на скаляр.
func (v Vec2) Scale(k float64) Vec2 {
	return Vec2{X: v.X * k, Y: v.Y * k}
}

// Length возвращает длину вектора.
func (v Vec2) Length() float64 {
	return math.Hypot(v.X, v.Y)
}

// DistanceSquared возвращает квадрат расстояния до другой точки (без sqrt для производительности).
func (v Vec2) DistanceSquared(other Vec2) float64 {
	dx := v.X - other.X
	dy := v.Y - other.Y
	return dx*dx + dy*dy
}

// NormalizeAngle maps an angle into the canonical (-π, π] range.
// Every rotation write goes through this, so wrap error never accumulates.
func NormalizeAngle(a float64) float64 {
	a = math.Mod(a, 2*math.Pi)
	if a <= -math.Pi {
		a += 2 * math.Pi
	} else if a > math.Pi {
		a -= 2 * math.Pi
	}
	return a
}
