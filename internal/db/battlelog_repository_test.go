package db

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBattleLog_AppendAndRecent(t *testing.T) {
	pool := setupTestDB(t)
	repo := NewBattleLogRepository(pool)
	ctx := context.Background()

	base := time.Now().UTC().Truncate(time.Microsecond)
	for i := range 3 {
		require.NoError(t, repo.Append(ctx, HitRecord{
			OccurredAt:   base.Add(time.Duration(i) * time.Second),
			TargetShipID: 0x10000001,
			ProjectileID: 0x30000000 + uint32(i),
			NewHealth:    int32(75 - i*25),
			Sinking:      i == 2,
		}))
	}

	recent, err := repo.Recent(ctx, 2)
	require.NoError(t, err)
	require.Len(t, recent, 2)

	// Newest first.
	assert.Equal(t, uint32(0x30000002), recent[0].ProjectileID)
	assert.True(t, recent[0].Sinking)
	assert.Equal(t, uint32(0x30000001), recent[1].ProjectileID)
}

func TestCaptainAccounts(t *testing.T) {
	pool := setupTestDB(t)
	d := &DB{pool: pool}
	ctx := context.Background()

	missing, err := d.GetCaptain(ctx, "nobody")
	require.NoError(t, err)
	assert.Nil(t, missing)

	hash, err := HashPassword("parrot")
	require.NoError(t, err)
	require.NoError(t, d.CreateCaptain(ctx, "Jack", hash, "127.0.0.1"))

	// Logins are case-folded.
	c, err := d.GetCaptain(ctx, "JACK")
	require.NoError(t, err)
	require.NotNil(t, c)
	assert.True(t, CheckPassword(c.PasswordHash, "parrot"))
	assert.False(t, CheckPassword(c.PasswordHash, "cracker"))

	require.NoError(t, d.UpdateLastLogin(ctx, "jack", "10.0.0.1"))
	c, err = d.GetCaptain(ctx, "jack")
	require.NoError(t, err)
	assert.Equal(t, "10.0.0.1", c.LastIP)
}
