package gameserver

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/udisondev/seafall/internal/model"
	"github.com/udisondev/seafall/internal/world"
)

func TestSessionOpenAndClose(t *testing.T) {
	w := world.New()
	sm := NewSessionManager(w)

	s, err := sm.Open("jack", model.Vec2{X: 100, Y: 100})
	require.NoError(t, err)
	assert.NotEmpty(t, s.ID)
	assert.NotNil(t, w.Rider(s.RiderID))
	assert.Equal(t, 1, sm.Count())

	// One session per login.
	_, err = sm.Open("jack", model.Vec2{})
	assert.Error(t, err)

	sm.Close(s.ID)
	assert.Equal(t, 0, sm.Count())
	assert.Nil(t, w.Rider(s.RiderID))
	assert.Nil(t, sm.Get(s.ID))
}

func TestSessionCloseReleasesControl(t *testing.T) {
	w := world.New()
	sm := NewSessionManager(w)

	helm := model.NewFixture(1, model.FixtureHelm, model.Vec2{})
	ship := model.NewShip(0x10000000, "Gull", "sloop", model.Vec2{}, 0, 100, 64, 28, []*model.Fixture{helm})
	w.AddShip(ship)

	s, err := sm.Open("jack", model.Vec2{})
	require.NoError(t, err)

	rider := w.Rider(s.RiderID)
	rider.Attach(ship.ObjectID(), model.Vec2{})
	ship.AddRider(s.RiderID)
	require.True(t, helm.TryGrab(s.RiderID))
	ship.SetWheelDirection(model.WheelLeft)

	sm.CloseByRider(s.RiderID)

	assert.Equal(t, uint32(0), helm.ControlledBy(), "disconnect must release the helm")
	assert.Equal(t, model.WheelNone, ship.Motion().WheelDirection, "disconnect must stop the turn")
	assert.Empty(t, ship.RiderIDs())
}

func TestCloseUnknownSessionIsNoOp(t *testing.T) {
	sm := NewSessionManager(world.New())
	assert.NotPanics(t, func() { sm.Close("no-such-session") })
}
