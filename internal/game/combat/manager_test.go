package combat

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/udisondev/seafall/internal/config"
	"github.com/udisondev/seafall/internal/game/ballistics"
	"github.com/udisondev/seafall/internal/model"
	"github.com/udisondev/seafall/internal/world"
)

type recorder struct {
	mu       sync.Mutex
	damage   []DamageEvent
	respawns []RespawnEvent
}

func (r *recorder) onDamage(ev DamageEvent) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.damage = append(r.damage, ev)
}

func (r *recorder) onRespawn(ev RespawnEvent) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.respawns = append(r.respawns, ev)
}

func (r *recorder) damageCount() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.damage)
}

// setupFight places a stationary target at (1000, 0) and a shooter at the
// origin firing straight at it. Returns the manager, the recorder, the live
// projectile and the spawn instant.
func setupFight(t *testing.T) (*Manager, *recorder, *world.World, *model.Projectile, time.Time) {
	t.Helper()

	cfg := config.DefaultSim()
	w := world.New()
	engine := ballistics.NewEngine(cfg)
	rec := &recorder{}

	shooter := model.NewShip(0x10000000, "Gull", "sloop", model.Vec2{}, 0, 100, 64, 28, nil)
	target := model.NewShip(0x10000001, "Kestrel", "sloop", model.Vec2{X: 1000, Y: 0}, 0, 100, 64, 28, nil)
	w.AddShip(shooter)
	w.AddShip(target)

	spawn := time.Now()
	// Muzzle 300 along +X from a still ship: reaches x=1000 around τ≈3.33s
	// which is past lifetime — so fire faster by inheriting velocity.
	p := engine.Spawn(shooter.ObjectID(), model.Vec2{}, model.Vec2{X: 200, Y: 0}, 0, 0, spawn)
	w.AddProjectile(p)

	m := NewManager(w, engine, cfg, rec.onDamage, rec.onRespawn)
	return m, rec, w, p, spawn
}

func TestHandleClaimConfirmedHit(t *testing.T) {
	m, rec, w, p, spawn := setupFight(t)

	// Ground velocity 500: projectile is at x=1000 at τ=2s, inside the
	// target footprint.
	claim := Claim{
		ProjectileID: p.ID(),
		TargetShipID: 0x10000001,
		ClaimedTime:  spawn.Add(2 * time.Second),
	}

	require.True(t, m.HandleClaim(claim), "valid claim should apply damage")

	require.Len(t, rec.damage, 1)
	ev := rec.damage[0]
	assert.Equal(t, uint32(0x10000001), ev.TargetShipID)
	assert.Equal(t, int32(100-CannonDamage), ev.NewHealth)
	assert.False(t, ev.Sinking)

	assert.True(t, p.IsConsumed())
	assert.Nil(t, w.Projectile(p.ID()), "consumed projectile should leave the registry")
}

func TestHandleClaimDuplicateIsNoOp(t *testing.T) {
	m, rec, _, p, spawn := setupFight(t)

	claim := Claim{
		ProjectileID: p.ID(),
		TargetShipID: 0x10000001,
		ClaimedTime:  spawn.Add(2 * time.Second),
	}

	assert.True(t, m.HandleClaim(claim))
	assert.False(t, m.HandleClaim(claim), "duplicate claim should be a no-op")
	assert.Equal(t, 1, rec.damageCount(), "exactly one damage event for duplicate claims")
}

func TestHandleClaimReplayMiss(t *testing.T) {
	m, rec, w, p, spawn := setupFight(t)

	// τ=0.5s puts the ball at x=250, nowhere near the target. The claim is
	// silently discarded: no damage, no consumption, no failure broadcast.
	claim := Claim{
		ProjectileID: p.ID(),
		TargetShipID: 0x10000001,
		ClaimedTime:  spawn.Add(500 * time.Millisecond),
	}

	assert.False(t, m.HandleClaim(claim))
	assert.Equal(t, 0, rec.damageCount())
	assert.False(t, p.IsConsumed(), "missed claim must not consume the projectile")
	assert.NotNil(t, w.Projectile(p.ID()))
}

func TestHandleClaimRejections(t *testing.T) {
	m, rec, _, p, spawn := setupFight(t)

	tests := []struct {
		name  string
		claim Claim
	}{
		{"unknown projectile", Claim{ProjectileID: 0xdead, TargetShipID: 0x10000001, ClaimedTime: spawn.Add(2 * time.Second)}},
		{"unknown target", Claim{ProjectileID: p.ID(), TargetShipID: 0xbeef, ClaimedTime: spawn.Add(2 * time.Second)}},
		{"before spawn", Claim{ProjectileID: p.ID(), TargetShipID: 0x10000001, ClaimedTime: spawn.Add(-time.Second)}},
		{"past window", Claim{ProjectileID: p.ID(), TargetShipID: 0x10000001, ClaimedTime: spawn.Add(time.Minute)}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.False(t, m.HandleClaim(tt.claim))
		})
	}
	assert.Equal(t, 0, rec.damageCount())
}

func TestHandleClaimWithinGracePeriod(t *testing.T) {
	m, _, w, p, spawn := setupFight(t)

	// Lifetime 3s + grace 0.5s: a claim at 3.2s is inside the window.
	// Replay position at τ=3.2 is x=1600, a miss — but it must reach the
	// replay stage, not be dropped by the window check.
	claim := Claim{
		ProjectileID: p.ID(),
		TargetShipID: 0x10000001,
		ClaimedTime:  spawn.Add(3200 * time.Millisecond),
	}

	_, _, err := m.ValidateClaim(claim)
	require.NoError(t, err, "claim inside grace period should pass validation")
	assert.False(t, m.HandleClaim(claim))
	assert.NotNil(t, w.Projectile(p.ID()))
}

func TestSinkingAndRespawn(t *testing.T) {
	cfg := config.DefaultSim()
	w := world.New()
	rec := &recorder{}
	m := NewManager(w, ballistics.NewEngine(cfg), cfg, rec.onDamage, rec.onRespawn)

	target := model.NewShip(0x10000001, "Kestrel", "sloop", model.Vec2{X: 1000, Y: 0}, 0, CannonDamage, 64, 28, nil)
	w.AddShip(target)

	now := time.Now()
	m.SetClock(func() time.Time { return now })

	shooter := model.NewShip(0x10000000, "Gull", "sloop", model.Vec2{}, 0, 100, 64, 28, nil)
	w.AddShip(shooter)
	p := ballistics.NewEngine(cfg).Spawn(shooter.ObjectID(), model.Vec2{}, model.Vec2{X: 200, Y: 0}, 0, 0, now.Add(-2*time.Second))
	w.AddProjectile(p)

	require.True(t, m.HandleClaim(Claim{ProjectileID: p.ID(), TargetShipID: target.ObjectID(), ClaimedTime: now}))
	require.Len(t, rec.damage, 1)
	assert.True(t, rec.damage[0].Sinking, "lethal hit should start sinking")
	assert.True(t, target.IsSinking())

	// Mid-sink: no respawn yet.
	m.CheckRespawns(now.Add(4 * time.Second))
	assert.Empty(t, rec.respawns)

	// Past sink duration (8s default): back to anchorage at full health.
	m.CheckRespawns(now.Add(9 * time.Second))
	require.Len(t, rec.respawns, 1)
	assert.Equal(t, target.ObjectID(), rec.respawns[0].ShipID)
	assert.Equal(t, model.Vec2{X: 1000, Y: 0}, rec.respawns[0].SpawnPosition)
	assert.False(t, target.IsSinking())
	assert.Equal(t, target.MaxHealth(), target.Health())
}

func TestClaimAgainstSinkingShipRejected(t *testing.T) {
	m, _, w, p, spawn := setupFight(t)

	target := w.Ship(0x10000001)
	target.ApplyDamage(1000, spawn)
	require.True(t, target.IsSinking())

	claim := Claim{ProjectileID: p.ID(), TargetShipID: target.ObjectID(), ClaimedTime: spawn.Add(2 * time.Second)}

	_, _, err := m.ValidateClaim(claim)
	assert.Error(t, err)
	assert.False(t, m.HandleClaim(claim))
}

func TestConcurrentClaimsApplyOnce(t *testing.T) {
	m, rec, _, p, spawn := setupFight(t)

	claim := Claim{
		ProjectileID: p.ID(),
		TargetShipID: 0x10000001,
		ClaimedTime:  spawn.Add(2 * time.Second),
	}

	const claimants = 16
	var wg sync.WaitGroup
	applied := make(chan bool, claimants)
	for range claimants {
		wg.Add(1)
		go func() {
			defer wg.Done()
			applied <- m.HandleClaim(claim)
		}()
	}
	wg.Wait()
	close(applied)

	wins := 0
	for ok := range applied {
		if ok {
			wins++
		}
	}
	assert.Equal(t, 1, wins, "concurrent claims must confirm exactly once")
	assert.Equal(t, 1, rec.damageCount())
}
