package security

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/cradoe/remitflow/internal/cache"
	"github.com/cradoe/remitflow/internal/models"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newRedisStore(t *testing.T) *RedisStore {
	t.Helper()

	mr := miniredis.RunT(t)
	c := cache.NewFromClient(redis.NewClient(&redis.Options{Addr: mr.Addr()}))
	t.Cleanup(func() { c.Close() })

	return NewRedisStore(c)
}

func TestRedisStore_ChallengeLifecycle(t *testing.T) {
	s := newRedisStore(t)
	ctx := context.Background()

	first := &models.VerificationChallenge{ID: "c1", SnapshotHash: "h", Status: models.ChallengePending}
	require.NoError(t, s.Save(ctx, first, time.Minute))

	updated, err := s.Update(ctx, "c1", func(c *models.VerificationChallenge) { c.AttemptCount++ })
	require.NoError(t, err)
	assert.Equal(t, 1, updated.AttemptCount)

	second := &models.VerificationChallenge{ID: "c2", SnapshotHash: "h", Status: models.ChallengePending}
	require.NoError(t, s.Save(ctx, second, time.Minute))

	_, found, err := s.Get(ctx, "c1")
	require.NoError(t, err)
	assert.False(t, found)

	_, err = s.Update(ctx, "c1", func(*models.VerificationChallenge) {})
	require.ErrorIs(t, err, ErrChallengeMissing)

	require.NoError(t, s.DeleteBySnapshot(ctx, "h"))
	_, found, err = s.Get(ctx, "c2")
	require.NoError(t, err)
	assert.False(t, found)
}

func TestRedisStore_AuthorizationIsSingleUse(t *testing.T) {
	s := newRedisStore(t)
	ctx := context.Background()

	require.NoError(t, s.SaveAuthorization(ctx, &models.Authorization{Token: "t", SnapshotHash: "h"}, time.Minute))

	got, found, err := s.TakeAuthorization(ctx, "t")
	require.NoError(t, err)
	require.True(t, found)
	assert.Equal(t, "h", got.SnapshotHash)

	_, found, err = s.TakeAuthorization(ctx, "t")
	require.NoError(t, err)
	assert.False(t, found)
}
