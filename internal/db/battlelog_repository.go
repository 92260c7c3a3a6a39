package db

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
)

// HitRecord is one confirmed hit, written off the tick path.
type HitRecord struct {
	OccurredAt   time.Time
	TargetShipID uint32
	ProjectileID uint32
	NewHealth    int32
	Sinking      bool
}

// BattleLogRepository appends confirmed hits for post-session review.
type BattleLogRepository struct {
	pool *pgxpool.Pool
}

// NewBattleLogRepository creates a battle log repository.
func NewBattleLogRepository(pool *pgxpool.Pool) *BattleLogRepository {
	return &BattleLogRepository{pool: pool}
}

// Append inserts a hit record.
func (r *BattleLogRepository) Append(ctx context.Context, rec HitRecord) error {
	_, err := r.pool.Exec(ctx,
		`INSERT INTO battle_log (occurred_at, target_ship_id, projectile_id, new_health, sinking)
		 VALUES ($1, $2, $3, $4, $5)`,
		rec.OccurredAt, int64(rec.TargetShipID), int64(rec.ProjectileID), rec.NewHealth, rec.Sinking)
	if err != nil {
		return fmt.Errorf("appending battle log: %w", err)
	}
	return nil
}

// Recent returns the latest limit hits, newest first.
func (r *BattleLogRepository) Recent(ctx context.Context, limit int) ([]HitRecord, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT occurred_at, target_ship_id, projectile_id, new_health, sinking
		 FROM battle_log ORDER BY occurred_at DESC, id DESC LIMIT $1`, limit)
	if err != nil {
		return nil, fmt.Errorf("querying battle log: %w", err)
	}
	defer rows.Close()

	var out []HitRecord
	for rows.Next() {
		var rec HitRecord
		var target, projectile int64
		if err := rows.Scan(&rec.OccurredAt, &target, &projectile, &rec.NewHealth, &rec.Sinking); err != nil {
			return nil, fmt.Errorf("scanning battle log row: %w", err)
		}
		rec.TargetShipID = uint32(target)
		rec.ProjectileID = uint32(projectile)
		out = append(out, rec)
	}
	return out, rows.Err()
}
