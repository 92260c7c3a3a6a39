// Package spawn materializes the configured fleet into the world at
// session start.
package spawn

import (
	"log/slog"

	"github.com/udisondev/seafall/internal/config"
	"github.com/udisondev/seafall/internal/constants"
	"github.com/udisondev/seafall/internal/model"
	"github.com/udisondev/seafall/internal/world"
)

// Fleet creates and registers a ship per entry. Fixture layout per hull:
// helm near the stern, sail control amidships, weapon mounts alternating
// port/starboard along the beam.
func Fleet(w *world.World, entries []config.ShipEntry) []*model.Ship {
	ships := make([]*model.Ship, 0, len(entries))
	for _, e := range entries {
		s := buildShip(e)
		w.AddShip(s)
		ships = append(ships, s)

		slog.Info("ship spawned",
			"shipID", s.ObjectID(),
			"name", e.Name,
			"class", e.Class,
			"position", s.Position(),
			"mounts", e.Mounts)
	}
	return ships
}

func buildShip(e config.ShipEntry) *model.Ship {
	var fixtures []*model.Fixture
	fixtureID := uint32(1)

	add := func(kind model.FixtureKind, offset model.Vec2) {
		fixtures = append(fixtures, model.NewFixture(fixtureID, kind, offset))
		fixtureID++
	}

	add(model.FixtureHelm, model.Vec2{X: -e.HalfLength * 0.6})
	add(model.FixtureSail, model.Vec2{})

	for i := range e.Mounts {
		side := 1.0
		if i%2 == 1 {
			side = -1.0
		}
		x := e.HalfLength * 0.3 * float64(1-i/2)
		add(model.FixtureWeaponMount, model.Vec2{X: x, Y: side * e.HalfBeam * 0.7})
	}

	return model.NewShip(
		constants.NextShipID(),
		e.Name,
		e.Class,
		model.Vec2{X: e.SpawnX, Y: e.SpawnY},
		e.Heading,
		e.MaxHealth,
		e.HalfLength,
		e.HalfBeam,
		fixtures,
	)
}
