package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/udisondev/seafall/internal/config"
	"github.com/udisondev/seafall/internal/db"
	"github.com/udisondev/seafall/internal/game/ballistics"
	"github.com/udisondev/seafall/internal/game/combat"
	"github.com/udisondev/seafall/internal/game/sim"
	"github.com/udisondev/seafall/internal/gameserver"
	"github.com/udisondev/seafall/internal/spawn"
	"github.com/udisondev/seafall/internal/world"
)

const GameConfigPath = "config/gameserver.yaml"

func main() {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		sig := <-sigCh
		slog.Info("shutting down", "signal", sig)
		cancel()
	}()

	if err := run(ctx); err != nil {
		slog.Error("fatal", "err", err)
		os.Exit(1)
	}
}

func run(ctx context.Context) error {
	// Load config FIRST to determine log level
	cfgPath := GameConfigPath
	if p := os.Getenv("SEAFALL_CONFIG"); p != "" {
		cfgPath = p
	}
	cfg, err := config.LoadGameServer(cfgPath)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
		Level: parseLogLevel(cfg.LogLevel),
	})))

	slog.Info("seafall server starting",
		"log_level", cfg.LogLevel,
		"bind", cfg.BindAddress,
		"port", cfg.Port,
		"tick", cfg.Sim.TickInterval())

	// Connect to database
	database, err := db.New(ctx, cfg.Database.DSN())
	if err != nil {
		return fmt.Errorf("connecting to database: %w", err)
	}
	defer database.Close()
	slog.Info("database connected")

	// Run migrations
	if err := db.RunMigrations(ctx, cfg.Database.DSN()); err != nil {
		return fmt.Errorf("running migrations: %w", err)
	}
	slog.Info("database migrations applied")

	fleetRepo := db.NewFleetRepository(database.Pool())
	battleRepo := db.NewBattleLogRepository(database.Pool())

	// Fleet definitions: database wins, static config seeds an empty table.
	entries, err := fleetRepo.LoadFleet(ctx)
	if err != nil {
		return fmt.Errorf("loading fleet: %w", err)
	}
	if len(entries) == 0 {
		entries = cfg.Fleet
		for _, e := range entries {
			if err := fleetRepo.SaveShipEntry(ctx, e); err != nil {
				return fmt.Errorf("seeding fleet: %w", err)
			}
		}
		slog.Info("fleet seeded from config", "ships", len(entries))
	}

	// World + fleet
	w := world.New()
	ships := spawn.Fleet(w, entries)
	slog.Info("world initialized", "ships", len(ships))

	// Outbound events. The transport layer replaces these with real
	// senders; the core only ever sees the callbacks.
	onDamage := func(ev combat.DamageEvent) {
		slog.Info("damage.applied",
			"targetShipID", ev.TargetShipID,
			"projectileID", ev.ProjectileID,
			"newHealth", ev.NewHealth,
			"sinking", ev.Sinking)
	}
	onRespawn := func(ev combat.RespawnEvent) {
		slog.Info("respawn", "shipID", ev.ShipID, "spawn", ev.SpawnPosition)
	}
	broadcasts := gameserver.Broadcasts{
		ProjectileSpawned: func(ev gameserver.ProjectileSpawnedEvent) {
			slog.Info("projectile.spawned",
				"projectileID", ev.ProjectileID,
				"sourceShipID", ev.SourceShipID,
				"groundVel", ev.GroundVel)
		},
		Boarded: func(ev gameserver.BoardedEvent) {
			slog.Info("rider.boarded", "riderID", ev.RiderID, "shipID", ev.ShipID)
		},
		Disembarked: func(ev gameserver.DisembarkedEvent) {
			slog.Info("rider.disembarked", "riderID", ev.RiderID, "position", ev.WorldPosition)
		},
	}

	// Combat manager with battle log persistence off the claim path: hits
	// go through one buffered writer loop, never per-hit goroutines.
	engine := ballistics.NewEngine(cfg.Sim)
	combatMgr := combat.NewManager(w, engine, cfg.Sim, onDamage, onRespawn)
	hitWriter := db.NewBattleLogWriter(battleRepo.Append, 256)
	combatMgr.SetRecordFunc(func(ev combat.DamageEvent, at time.Time) {
		hitWriter.Enqueue(db.HitRecord{
			OccurredAt:   at,
			TargetShipID: ev.TargetShipID,
			ProjectileID: ev.ProjectileID,
			NewHealth:    ev.NewHealth,
			Sinking:      ev.Sinking,
		})
	})
	slog.Info("combat manager initialized")

	// Command boundary
	sessions := gameserver.NewSessionManager(w)
	handler := gameserver.NewHandler(w, cfg.Sim, combatMgr, broadcasts)
	server := gameserver.NewServer(handler, sessions, 1024)

	// Run tick loop + command server in parallel
	g, gctx := errgroup.WithContext(ctx)

	simMgr := sim.NewManager(w, cfg.Sim, combatMgr)
	g.Go(func() error {
		if err := simMgr.Start(gctx); err != nil && !errors.Is(err, context.Canceled) {
			return fmt.Errorf("simulation: %w", err)
		}
		return nil
	})

	g.Go(func() error {
		if err := server.Run(gctx); err != nil && !errors.Is(err, context.Canceled) {
			return fmt.Errorf("command server: %w", err)
		}
		return nil
	})

	g.Go(func() error {
		if err := hitWriter.Run(gctx); err != nil && !errors.Is(err, context.Canceled) {
			return fmt.Errorf("battle log writer: %w", err)
		}
		return nil
	})

	if err := g.Wait(); err != nil {
		return fmt.Errorf("server error: %w", err)
	}

	// Checkpoint the fleet for the next boot. Shutdown has its own budget:
	// the root context is already canceled here.
	cpCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	for _, s := range ships {
		m := s.Motion()
		if err := fleetRepo.Checkpoint(cpCtx, s.Name(), m.Position.X, m.Position.Y, m.Rotation, s.Health()); err != nil {
			slog.Warn("fleet checkpoint failed", "ship", s.Name(), "err", err)
		}
	}
	slog.Info("fleet checkpointed", "ships", len(ships))

	return nil
}

// parseLogLevel converts string log level to slog.Level.
// Defaults to Info if invalid or empty.
func parseLogLevel(level string) slog.Level {
	switch level {
	case "debug":
		return slog.LevelDebug
	case "info":
		return slog.LevelInfo
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
