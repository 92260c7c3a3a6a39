package world

import (
	"testing"
	"time"

	"github.com/udisondev/seafall/internal/model"
)

func TestShipLookup(t *testing.T) {
	w := New()
	s := model.NewShip(0x10000000, "Gull", "sloop", model.Vec2{}, 0, 100, 64, 28, nil)

	w.AddShip(s)

	if got := w.Ship(0x10000000); got != s {
		t.Errorf("Ship() = %v; want registered ship", got)
	}
	if got := w.Ship(0xdead); got != nil {
		t.Errorf("Ship(unknown) = %v; want nil", got)
	}
	if len(w.Ships()) != 1 {
		t.Errorf("Ships() len = %d; want 1", len(w.Ships()))
	}
}

func TestRemoveRiderDetachesFromShip(t *testing.T) {
	w := New()
	helm := model.NewFixture(1, model.FixtureHelm, model.Vec2{})
	s := model.NewShip(0x10000000, "Gull", "sloop", model.Vec2{}, 0, 100, 64, 28, []*model.Fixture{helm})
	r := model.NewRider(0x20000000, "Jack", model.Vec2{})

	w.AddShip(s)
	w.AddRider(r)
	r.Attach(s.ObjectID(), model.Vec2{X: 10})
	s.AddRider(r.ObjectID())
	helm.TryGrab(r.ObjectID())

	w.RemoveRider(r.ObjectID())

	if w.Rider(r.ObjectID()) != nil {
		t.Error("rider still registered after removal")
	}
	if len(s.RiderIDs()) != 0 {
		t.Errorf("ship still lists riders: %v", s.RiderIDs())
	}
	if helm.ControlledBy() != 0 {
		t.Error("helm still held by removed rider")
	}
}

func TestProjectileLifecycle(t *testing.T) {
	w := New()
	p := model.NewProjectile(0x30000000, 1, time.Now(), model.Vec2{}, model.Vec2{}, 0, 3)

	w.AddProjectile(p)
	if w.ProjectileCount() != 1 {
		t.Errorf("ProjectileCount() = %d; want 1", w.ProjectileCount())
	}
	if w.Projectile(p.ID()) != p {
		t.Error("Projectile() lookup failed")
	}

	w.RemoveProjectile(p.ID())
	if w.ProjectileCount() != 0 || w.Projectile(p.ID()) != nil {
		t.Error("projectile not removed")
	}

	// Double removal keeps the count honest.
	w.RemoveProjectile(p.ID())
	if w.ProjectileCount() != 0 {
		t.Errorf("ProjectileCount() = %d after double removal; want 0", w.ProjectileCount())
	}
}
