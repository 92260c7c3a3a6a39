package ballistics

import (
	"math"
	"testing"
	"time"

	"pgregory.net/rapid"

	"github.com/udisondev/seafall/internal/config"
	"github.com/udisondev/seafall/internal/model"
)

func testEngine() Engine {
	return NewEngine(config.DefaultSim()) // muzzle 300, gravity 400, lifetime 3s
}

func TestSpawnVelocityInheritsShipVelocity(t *testing.T) {
	e := testEngine()

	ground, height := e.SpawnVelocity(0, 0, model.Vec2{X: 20, Y: 0})

	if ground != (model.Vec2{X: 320, Y: 0}) {
		t.Errorf("ground velocity = %v; want {320 0}", ground)
	}
	if height != 0 {
		t.Errorf("height velocity = %v at zero elevation; want 0", height)
	}
}

func TestSpawnVelocityElevationSplitsMuzzle(t *testing.T) {
	e := testEngine()

	ground, height := e.SpawnVelocity(0, math.Pi/6, model.Vec2{})

	wantGround := 300 * math.Cos(math.Pi/6)
	wantHeight := 300 * math.Sin(math.Pi/6)
	if math.Abs(ground.X-wantGround) > 1e-9 || math.Abs(ground.Y) > 1e-9 {
		t.Errorf("ground = %v; want {%v 0}", ground, wantGround)
	}
	if math.Abs(height-wantHeight) > 1e-9 {
		t.Errorf("height = %v; want %v", height, wantHeight)
	}
}

func TestGroundPositionClosedForm(t *testing.T) {
	e := testEngine()
	spawn := model.Vec2{X: 1000, Y: 500}
	p := e.Spawn(1, spawn, model.Vec2{X: 20, Y: 0}, 0, 0, time.Now())

	got := GroundPositionAt(p, 0.5)
	want := spawn.Add(model.Vec2{X: 160, Y: 0})
	if got != want {
		t.Errorf("GroundPositionAt(0.5) = %v; want %v", got, want)
	}
}

func TestHeightAt(t *testing.T) {
	e := testEngine()
	p := model.NewProjectile(1, 2, time.Now(), model.Vec2{}, model.Vec2{}, 100, 3)

	// h(τ) = 100τ − 200τ²
	tests := []struct {
		tau  float64
		want float64
	}{
		{0, 0},
		{0.25, 12.5},
		{0.5, 0}, // apex passed, back to launch height
	}
	for _, tt := range tests {
		if got := e.HeightAt(p, tt.tau); math.Abs(got-tt.want) > 1e-9 {
			t.Errorf("HeightAt(%v) = %v; want %v", tt.tau, got, tt.want)
		}
	}
}

// The closed form must be indifferent to how the caller stepped time: the
// value at τ depends on τ alone, never on intermediate evaluations.
func TestEvaluationIsDeterministic(t *testing.T) {
	e := testEngine()

	rapid.Check(t, func(t *rapid.T) {
		p := model.NewProjectile(1, 2, time.Now(),
			model.Vec2{
				X: rapid.Float64Range(0, 8192).Draw(t, "x0"),
				Y: rapid.Float64Range(0, 8192).Draw(t, "y0"),
			},
			model.Vec2{
				X: rapid.Float64Range(-400, 400).Draw(t, "vx"),
				Y: rapid.Float64Range(-400, 400).Draw(t, "vy"),
			},
			rapid.Float64Range(0, 200).Draw(t, "h0"),
			3,
		)
		tau := rapid.Float64Range(0, 3).Draw(t, "tau")

		// Evaluate at many intermediate points first, as a 60 fps
		// observer would, then compare against a cold evaluation.
		for step := 1; step <= 60; step++ {
			GroundPositionAt(p, tau*float64(step)/60)
		}
		warm := GroundPositionAt(p, tau)
		cold := GroundPositionAt(p, tau)
		if warm != cold {
			t.Fatalf("evaluation order changed the result: %v vs %v", warm, cold)
		}
		if e.HeightAt(p, tau) != e.HeightAt(p, tau) {
			t.Fatalf("height evaluation not reproducible at tau=%v", tau)
		}
	})
}

func TestExpired(t *testing.T) {
	e := testEngine()
	now := time.Now()

	center := model.NewProjectile(1, 2, now, model.Vec2{X: 4000, Y: 4000}, model.Vec2{X: 10, Y: 0}, 0, 3)
	if e.Expired(center, 1) {
		t.Error("mid-flight projectile reported expired")
	}
	if !e.Expired(center, 3.1) {
		t.Error("projectile past lifetime not expired")
	}

	// Fast shot off the western edge: out of bounds well before lifetime.
	edge := model.NewProjectile(3, 2, now, model.Vec2{X: 10, Y: 4000}, model.Vec2{X: -1000, Y: 0}, 0, 3)
	if !e.Expired(edge, 1) {
		t.Error("projectile far past the margin not expired")
	}
}

func TestElapsed(t *testing.T) {
	spawn := time.Now()
	p := model.NewProjectile(1, 2, spawn, model.Vec2{}, model.Vec2{}, 0, 3)

	if got := Elapsed(p, spawn.Add(500*time.Millisecond)); math.Abs(got-0.5) > 1e-9 {
		t.Errorf("Elapsed = %v; want 0.5", got)
	}
}
