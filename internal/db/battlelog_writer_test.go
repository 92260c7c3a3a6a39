package db

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// collectingAppend records every written hit behind a mutex.
func collectingAppend() (func(context.Context, HitRecord) error, func() []HitRecord) {
	var mu sync.Mutex
	var got []HitRecord
	appendFn := func(_ context.Context, rec HitRecord) error {
		mu.Lock()
		defer mu.Unlock()
		got = append(got, rec)
		return nil
	}
	snapshot := func() []HitRecord {
		mu.Lock()
		defer mu.Unlock()
		return append([]HitRecord(nil), got...)
	}
	return appendFn, snapshot
}

func TestBattleLogWriterWritesQueuedRecords(t *testing.T) {
	appendFn, snapshot := collectingAppend()
	w := NewBattleLogWriter(appendFn, 16)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	done := make(chan struct{})
	go func() {
		_ = w.Run(ctx)
		close(done)
	}()

	now := time.Now()
	require.True(t, w.Enqueue(HitRecord{OccurredAt: now, TargetShipID: 1, ProjectileID: 10}))
	require.True(t, w.Enqueue(HitRecord{OccurredAt: now, TargetShipID: 1, ProjectileID: 11}))

	assert.Eventually(t, func() bool {
		return len(snapshot()) == 2
	}, time.Second, 5*time.Millisecond)

	cancel()
	<-done
}

func TestBattleLogWriterDrainsBacklogOnShutdown(t *testing.T) {
	appendFn, snapshot := collectingAppend()
	w := NewBattleLogWriter(appendFn, 16)

	// Queue before the loop ever runs, then cancel immediately: the
	// backlog must still land.
	for i := range 5 {
		require.True(t, w.Enqueue(HitRecord{ProjectileID: uint32(i)}))
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	require.ErrorIs(t, w.Run(ctx), context.Canceled)

	assert.Len(t, snapshot(), 5, "queued hits must survive shutdown")
}

func TestBattleLogWriterShedsWhenFull(t *testing.T) {
	appendFn, _ := collectingAppend()
	w := NewBattleLogWriter(appendFn, 1)

	// No loop running: the second enqueue must drop, never block.
	assert.True(t, w.Enqueue(HitRecord{ProjectileID: 1}))
	assert.False(t, w.Enqueue(HitRecord{ProjectileID: 2}))
}
