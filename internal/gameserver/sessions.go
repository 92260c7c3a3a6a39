package gameserver

import (
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/udisondev/seafall/internal/constants"
	"github.com/udisondev/seafall/internal/model"
	"github.com/udisondev/seafall/internal/world"
)

// Session binds a connected observer to its rider.
type Session struct {
	ID        string
	Login     string
	RiderID   uint32
	CreatedAt time.Time
}

// SessionManager tracks connected observers. A session losing its
// connection releases every fixture its rider held — control never
// survives the controller.
type SessionManager struct {
	world *world.World

	mu       sync.RWMutex
	sessions map[string]*Session // session id → session
	byRider  map[uint32]string   // rider id → session id
}

// NewSessionManager creates an empty session table.
func NewSessionManager(w *world.World) *SessionManager {
	return &SessionManager{
		world:    w,
		sessions: make(map[string]*Session),
		byRider:  make(map[uint32]string),
	}
}

// Open creates a session and its rider, dropped into the world at spawnPos.
// One session per login.
func (sm *SessionManager) Open(login string, spawnPos model.Vec2) (*Session, error) {
	sm.mu.Lock()
	defer sm.mu.Unlock()

	for _, s := range sm.sessions {
		if s.Login == login {
			return nil, fmt.Errorf("login %q already has session %s", login, s.ID)
		}
	}

	rider := model.NewRider(constants.NextRiderID(), login, spawnPos)
	sm.world.AddRider(rider)

	s := &Session{
		ID:        uuid.NewString(),
		Login:     login,
		RiderID:   rider.ObjectID(),
		CreatedAt: time.Now(),
	}
	sm.sessions[s.ID] = s
	sm.byRider[rider.ObjectID()] = s.ID

	slog.Info("session opened", "sessionID", s.ID, "login", login, "riderID", rider.ObjectID())
	return s, nil
}

// Get returns the session with the given id, nil if unknown.
func (sm *SessionManager) Get(sessionID string) *Session {
	sm.mu.RLock()
	defer sm.mu.RUnlock()
	return sm.sessions[sessionID]
}

// Count returns the number of open sessions.
func (sm *SessionManager) Count() int {
	sm.mu.RLock()
	defer sm.mu.RUnlock()
	return len(sm.sessions)
}

// Close tears a session down: the rider leaves the world and, through the
// registry, its ship — which force-releases any fixture it held.
func (sm *SessionManager) Close(sessionID string) {
	sm.mu.Lock()
	s, ok := sm.sessions[sessionID]
	if ok {
		delete(sm.sessions, sessionID)
		delete(sm.byRider, s.RiderID)
	}
	sm.mu.Unlock()

	if !ok {
		return
	}

	// Clear the wheel if the departing rider was steering.
	if r := sm.world.Rider(s.RiderID); r != nil {
		if ship := sm.world.Ship(r.ShipID()); ship != nil {
			if helm := ship.Helm(); helm != nil && helm.ControlledBy() == s.RiderID {
				ship.SetWheelDirection(model.WheelNone)
			}
		}
	}
	sm.world.RemoveRider(s.RiderID)

	slog.Info("session closed", "sessionID", sessionID, "login", s.Login, "riderID", s.RiderID)
}

// CloseByRider closes the session owning a rider, if any.
func (sm *SessionManager) CloseByRider(riderID uint32) {
	sm.mu.RLock()
	sessionID, ok := sm.byRider[riderID]
	sm.mu.RUnlock()
	if ok {
		sm.Close(sessionID)
	}
}
