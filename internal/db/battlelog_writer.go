package db

import (
	"context"
	"log/slog"
	"time"
)

// battleLogWriteTimeout bounds one insert so a stalled database cannot wedge
// the writer loop.
const battleLogWriteTimeout = 5 * time.Second

// BattleLogWriter decouples hit persistence from the claim path: confirmed
// hits are queued and written by one loop, so a burst of hits costs the
// combat manager a channel send per hit and nothing more.
type BattleLogWriter struct {
	appendFn func(context.Context, HitRecord) error
	queue    chan HitRecord
}

// NewBattleLogWriter creates a writer with the given queue depth. appendFn
// is typically BattleLogRepository.Append.
func NewBattleLogWriter(appendFn func(context.Context, HitRecord) error, queueSize int) *BattleLogWriter {
	return &BattleLogWriter{
		appendFn: appendFn,
		queue:    make(chan HitRecord, queueSize),
	}
}

// Enqueue queues a record for writing. A full queue drops the record —
// persistence never applies backpressure to the claim path.
func (w *BattleLogWriter) Enqueue(rec HitRecord) bool {
	select {
	case w.queue <- rec:
		return true
	default:
		slog.Warn("battle log queue full, dropping",
			"projectileID", rec.ProjectileID,
			"targetShipID", rec.TargetShipID)
		return false
	}
}

// Run writes queued records until the context is canceled, then drains the
// backlog before returning so confirmed hits survive shutdown.
func (w *BattleLogWriter) Run(ctx context.Context) error {
	slog.Info("battle log writer started", "queueDepth", cap(w.queue))
	for {
		select {
		case <-ctx.Done():
			w.drain()
			slog.Info("battle log writer stopped")
			return ctx.Err()
		case rec := <-w.queue:
			w.write(rec)
		}
	}
}

func (w *BattleLogWriter) drain() {
	for {
		select {
		case rec := <-w.queue:
			w.write(rec)
		default:
			return
		}
	}
}

// write uses its own context: during the shutdown drain the run context is
// already canceled.
func (w *BattleLogWriter) write(rec HitRecord) {
	ctx, cancel := context.WithTimeout(context.Background(), battleLogWriteTimeout)
	defer cancel()
	if err := w.appendFn(ctx, rec); err != nil {
		slog.Warn("battle log append failed", "projectileID", rec.ProjectileID, "err", err)
	}
}
