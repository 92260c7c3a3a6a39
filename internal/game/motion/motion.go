// Package motion advances a ship's wheel → turn rate → rotation → velocity
// state machine. All formulas are parameterized by dt, so the fixed-rate
// authoritative tick and variable-rate observers run identical math.
package motion

import (
	"fmt"
	"math"

	"github.com/udisondev/seafall/internal/config"
	"github.com/udisondev/seafall/internal/model"
)

// Params holds the motion tuning shared by every ship in a session.
type Params struct {
	WheelTurnRate    float64 // rad/s applied while the helm is held left/right
	MaxWheelAngle    float64 // hard clamp; the wheel never wraps
	RudderEfficiency float64 // linear gain, wheelAngle -> turnRate
	TurnRateEpsilon  float64 // sub-threshold turn rates are exactly zero
	SpeedTable       []float64
}

// ParamsFromConfig extracts motion tuning from the sim config.
func ParamsFromConfig(cfg config.SimConfig) Params {
	return Params{
		WheelTurnRate:    cfg.WheelTurnRate,
		MaxWheelAngle:    cfg.MaxWheelAngle,
		RudderEfficiency: cfg.RudderEfficiency,
		TurnRateEpsilon:  cfg.TurnRateEpsilon,
		SpeedTable:       cfg.SpeedTable,
	}
}

// ValidateSpeedLevel rejects speed table indices outside the configured
// table. Rejected commands are no-ops, never panics: the tick loop must be
// resilient by construction.
func (p Params) ValidateSpeedLevel(level int) error {
	if level < 0 || level >= len(p.SpeedTable) {
		return fmt.Errorf("speed level %d out of range 0..%d", level, len(p.SpeedTable)-1)
	}
	return nil
}

// TurnRate converts a wheel angle into an angular rate via the linear
// rudder model. Rates below the epsilon are exactly zero so a nearly
// centered wheel does not produce perpetual sub-threshold drift.
func (p Params) TurnRate(wheelAngle float64) float64 {
	rate := wheelAngle * p.RudderEfficiency
	if math.Abs(rate) < p.TurnRateEpsilon {
		return 0
	}
	return rate
}

// Speed returns the speed table entry for a level, 0 for an out-of-range
// level (the handler validates levels; this is the last line of defense).
func (p Params) Speed(level int) float64 {
	if level < 0 || level >= len(p.SpeedTable) {
		return 0
	}
	return p.SpeedTable[level]
}

// Advance computes the next motion snapshot from the previous one after dt
// seconds.
//
// Order matters: wheel, then rotation, then velocity, then position — so
// velocity always derives from the post-update rotation. Velocity is
// recomputed unconditionally every call; carrying a cached velocity across
// a heading change is a known failure mode, not an optimization target.
func Advance(m model.MotionState, p Params, dt float64) model.MotionState {
	// Wheel: turn while held, hold position while released. No
	// auto-centering — set a course and walk away.
	switch m.WheelDirection {
	case model.WheelLeft:
		m.WheelAngle -= p.WheelTurnRate * dt
	case model.WheelRight:
		m.WheelAngle += p.WheelTurnRate * dt
	}
	m.WheelAngle = clamp(m.WheelAngle, -p.MaxWheelAngle, p.MaxWheelAngle)

	m.Rotation = model.NormalizeAngle(m.Rotation + p.TurnRate(m.WheelAngle)*dt)

	sin, cos := math.Sincos(m.Rotation)
	m.Velocity = model.Vec2{X: cos, Y: sin}.Scale(p.Speed(m.SpeedLevel))

	m.Position = m.Position.Add(m.Velocity.Scale(dt))

	return m
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
