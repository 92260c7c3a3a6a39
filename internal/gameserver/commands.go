package gameserver

import (
	"context"
	"log/slog"
	"time"

	"github.com/udisondev/seafall/internal/model"
)

// Command is an inbound event at the message boundary. The transport layer
// decodes whatever it carries into one of these and enqueues it; the server
// applies them in arrival order.
type Command interface {
	apply(h *Handler)
}

// WheelTurnStartCmd sets the wheel turning direction.
type WheelTurnStartCmd struct {
	ShipID    uint32
	RiderID   uint32
	Direction model.WheelDirection
}

func (c WheelTurnStartCmd) apply(h *Handler) {
	_ = h.WheelTurnStart(c.ShipID, c.RiderID, c.Direction)
}

// WheelTurnStopCmd clears the wheel turning direction.
type WheelTurnStopCmd struct {
	ShipID  uint32
	RiderID uint32
}

func (c WheelTurnStopCmd) apply(h *Handler) {
	_ = h.WheelTurnStop(c.ShipID, c.RiderID)
}

// FixtureGrabCmd requests exclusive control of a fixture.
type FixtureGrabCmd struct {
	ShipID    uint32
	RiderID   uint32
	FixtureID uint32
}

func (c FixtureGrabCmd) apply(h *Handler) {
	_ = h.FixtureGrab(c.ShipID, c.RiderID, c.FixtureID)
}

// FixtureReleaseCmd gives up control of a fixture.
type FixtureReleaseCmd struct {
	ShipID    uint32
	RiderID   uint32
	FixtureID uint32
}

func (c FixtureReleaseCmd) apply(h *Handler) {
	_ = h.FixtureRelease(c.ShipID, c.RiderID, c.FixtureID)
}

// SetSpeedCmd changes the sail setting.
type SetSpeedCmd struct {
	ShipID  uint32
	RiderID uint32
	Level   int
}

func (c SetSpeedCmd) apply(h *Handler) {
	_ = h.SetSpeedLevel(c.ShipID, c.RiderID, c.Level)
}

// WeaponFireCmd fires a mount.
type WeaponFireCmd struct {
	ShipID    uint32
	RiderID   uint32
	MountID   uint32
	AimAngle  float64
	Elevation float64
}

func (c WeaponFireCmd) apply(h *Handler) {
	_ = h.WeaponFire(c.ShipID, c.RiderID, c.MountID, c.AimAngle, c.Elevation)
}

// HitClaimCmd asserts a projectile struck a target.
type HitClaimCmd struct {
	ProjectileID uint32
	TargetShipID uint32
	ClaimedTime  time.Time
}

func (c HitClaimCmd) apply(h *Handler) {
	h.HitClaim(c.ProjectileID, c.TargetShipID, c.ClaimedTime)
}

// BoardCmd asks to board whatever deck the rider stands over.
type BoardCmd struct {
	RiderID uint32
}

func (c BoardCmd) apply(h *Handler) {
	_ = h.Board(c.RiderID)
}

// DisembarkCmd leaves the deck.
type DisembarkCmd struct {
	RiderID uint32
}

func (c DisembarkCmd) apply(h *Handler) {
	_ = h.Disembark(c.RiderID)
}

// RiderOffsetCmd reports observer-driven deck movement.
type RiderOffsetCmd struct {
	RiderID uint32
	Offset  model.Vec2
}

func (c RiderOffsetCmd) apply(h *Handler) {
	_ = h.ReportRiderOffset(c.RiderID, c.Offset)
}

// Server drains the command queue into the handler. One drain loop keeps
// command application single-threaded relative to itself; the tick loop
// runs beside it against the same mutex-guarded entities.
type Server struct {
	handler  *Handler
	sessions *SessionManager
	queue    chan Command
}

// NewServer creates the command server with the given queue depth.
func NewServer(handler *Handler, sessions *SessionManager, queueSize int) *Server {
	return &Server{
		handler:  handler,
		sessions: sessions,
		queue:    make(chan Command, queueSize),
	}
}

// Handler exposes the underlying handler (integration points, tests).
func (s *Server) Handler() *Handler {
	return s.handler
}

// Sessions exposes the session manager.
func (s *Server) Sessions() *SessionManager {
	return s.sessions
}

// Enqueue queues a command. A full queue drops the command — back-pressure
// on a simulation boundary means shedding input, never stalling the drain.
func (s *Server) Enqueue(cmd Command) bool {
	select {
	case s.queue <- cmd:
		return true
	default:
		slog.Warn("command queue full, dropping", "command", cmd)
		return false
	}
}

// Run drains commands until the context is canceled.
func (s *Server) Run(ctx context.Context) error {
	slog.Info("command server started", "queueDepth", cap(s.queue))
	for {
		select {
		case <-ctx.Done():
			slog.Info("command server stopping")
			return ctx.Err()
		case cmd := <-s.queue:
			cmd.apply(s.handler)
		}
	}
}
