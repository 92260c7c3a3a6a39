package combat

import (
	"fmt"
	"time"

	"github.com/udisondev/seafall/internal/model"
)

// Claim is an unauthoritative assertion that a projectile struck a target.
// Observers send it after their optimistic local simulation saw a hit; no
// damage is applied until the authoritative replay agrees.
type Claim struct {
	ProjectileID uint32
	TargetShipID uint32
	ClaimedTime  time.Time
}

// ValidateClaim runs the window checks of a hit claim before any replay.
// Returns an error for claims that must be dropped outright.
//
// Checks:
//   - Projectile id is known to the authority
//   - Projectile not already consumed (duplicate claims are no-ops)
//   - Target ship exists and is not already sinking
//   - Claimed time inside [spawn, spawn+lifetime+grace]
func (m *Manager) ValidateClaim(c Claim) (*model.Projectile, *model.Ship, error) {
	// 1. Projectile known
	p := m.world.Projectile(c.ProjectileID)
	if p == nil {
		return nil, nil, fmt.Errorf("unknown projectile %d", c.ProjectileID)
	}

	// 2. Not already consumed
	if p.IsConsumed() {
		return nil, nil, fmt.Errorf("projectile %d already consumed", c.ProjectileID)
	}

	// 3. Target exists
	target := m.world.Ship(c.TargetShipID)
	if target == nil {
		return nil, nil, fmt.Errorf("unknown target ship %d", c.TargetShipID)
	}
	if target.IsSinking() {
		return nil, nil, fmt.Errorf("target ship %d already sinking", c.TargetShipID)
	}

	// 4. Claim window: spawn .. spawn+lifetime+grace. The grace period
	// absorbs observer→authority latency, nothing more.
	spawn := p.SpawnTime()
	if c.ClaimedTime.Before(spawn) {
		return nil, nil, fmt.Errorf("claim time %v before spawn %v", c.ClaimedTime, spawn)
	}
	deadline := spawn.Add(time.Duration((p.LifetimeSec() + m.graceSec) * float64(time.Second)))
	if c.ClaimedTime.After(deadline) {
		return nil, nil, fmt.Errorf("claim time %v past window end %v", c.ClaimedTime, deadline)
	}

	return p, target, nil
}
