package repository

import (
	"context"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newTestRedis(t *testing.T) *redis.Client {
	t.Helper()

	mr, err := miniredis.Run()
	require.NoError(t, err)
	t.Cleanup(mr.Close)

	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return client
}

func TestRedisEpochSourceReadsLiveValue(t *testing.T) {
	client := newTestRedis(t)
	ctx := context.Background()

	require.NoError(t, client.Set(ctx, ReloginEpochKey, "7", 0).Err())

	src := NewRedisEpochSource(client, 1, zap.NewNop())
	require.Equal(t, 7, src.Current(ctx))

	// a bump is visible on the next read, no restart needed
	require.NoError(t, client.Set(ctx, ReloginEpochKey, "8", 0).Err())
	require.Equal(t, 8, src.Current(ctx))
}

func TestRedisEpochSourceFallsBackWhenKeyMissing(t *testing.T) {
	client := newTestRedis(t)

	src := NewRedisEpochSource(client, 3, zap.NewNop())
	require.Equal(t, 3, src.Current(context.Background()))
}

func TestRedisEpochSourceFallsBackOnMalformedValue(t *testing.T) {
	client := newTestRedis(t)
	ctx := context.Background()

	require.NoError(t, client.Set(ctx, ReloginEpochKey, "not-a-number", 0).Err())

	src := NewRedisEpochSource(client, 4, zap.NewNop())
	require.Equal(t, 4, src.Current(ctx))
}

func TestRedisEpochSourceWithoutClient(t *testing.T) {
	src := NewRedisEpochSource(nil, 5, zap.NewNop())
	require.Equal(t, 5, src.Current(context.Background()))
}

func TestStaticEpochSource(t *testing.T) {
	require.Equal(t, 9, StaticEpochSource(9).Current(context.Background()))
}
