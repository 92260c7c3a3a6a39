package db

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/udisondev/seafall/internal/config"
)

// FleetRepository stores ship definitions and their end-of-session
// checkpoints. Runtime state stays in memory; only durable definitions and
// the shutdown snapshot live here.
type FleetRepository struct {
	pool *pgxpool.Pool
}

// NewFleetRepository creates a fleet repository.
func NewFleetRepository(pool *pgxpool.Pool) *FleetRepository {
	return &FleetRepository{pool: pool}
}

// LoadFleet returns all ship definitions, with any checkpoint applied over
// the spawn values. An empty table means the static config fleet is used.
func (r *FleetRepository) LoadFleet(ctx context.Context) ([]config.ShipEntry, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT name, class,
		        COALESCE(last_x, spawn_x), COALESCE(last_y, spawn_y),
		        COALESCE(last_heading, heading),
		        max_health, half_length, half_beam, mounts
		 FROM fleet ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("querying fleet: %w", err)
	}
	defer rows.Close()

	var out []config.ShipEntry
	for rows.Next() {
		var e config.ShipEntry
		if err := rows.Scan(&e.Name, &e.Class, &e.SpawnX, &e.SpawnY, &e.Heading,
			&e.MaxHealth, &e.HalfLength, &e.HalfBeam, &e.Mounts); err != nil {
			return nil, fmt.Errorf("scanning fleet row: %w", err)
		}
		out = append(out, e)
	}
	return out, rows.Err()
}

// SaveShipEntry upserts a ship definition by name.
func (r *FleetRepository) SaveShipEntry(ctx context.Context, e config.ShipEntry) error {
	_, err := r.pool.Exec(ctx,
		`INSERT INTO fleet (name, class, spawn_x, spawn_y, heading, max_health, half_length, half_beam, mounts)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		 ON CONFLICT (name) DO UPDATE SET
		   class = EXCLUDED.class,
		   spawn_x = EXCLUDED.spawn_x,
		   spawn_y = EXCLUDED.spawn_y,
		   heading = EXCLUDED.heading,
		   max_health = EXCLUDED.max_health,
		   half_length = EXCLUDED.half_length,
		   half_beam = EXCLUDED.half_beam,
		   mounts = EXCLUDED.mounts`,
		e.Name, e.Class, e.SpawnX, e.SpawnY, e.Heading, e.MaxHealth, e.HalfLength, e.HalfBeam, e.Mounts)
	if err != nil {
		return fmt.Errorf("saving ship %q: %w", e.Name, err)
	}
	return nil
}

// Checkpoint records a ship's position and health for the next boot.
func (r *FleetRepository) Checkpoint(ctx context.Context, name string, x, y, heading float64, health int32) error {
	tag, err := r.pool.Exec(ctx,
		`UPDATE fleet SET last_x = $1, last_y = $2, last_heading = $3, last_health = $4
		 WHERE name = $5`,
		x, y, heading, health, name)
	if err != nil {
		return fmt.Errorf("checkpointing ship %q: %w", name, err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("checkpointing ship %q: not in fleet", name)
	}
	return nil
}
