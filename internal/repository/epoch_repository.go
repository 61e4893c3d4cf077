package repository

import (
	"context"
	"strconv"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// EpochSource yields the current re-login epoch for token-chain validation.
// The epoch is read fresh per request; bumping it out-of-band invalidates
// every outstanding token chain that embeds an older non-zero value.
type EpochSource interface {
	Current(ctx context.Context) int
}

// ReloginEpochKey is the Redis key holding the live epoch value.
const ReloginEpochKey = "auth:relogin_epoch"

type redisEpochSource struct {
	client   *redis.Client
	fallback int
	logger   *zap.Logger
}

// NewRedisEpochSource reads the epoch from Redis, falling back to the
// configured value when the key is absent or Redis is unreachable.
func NewRedisEpochSource(client *redis.Client, fallback int, logger *zap.Logger) EpochSource {
	return &redisEpochSource{client: client, fallback: fallback, logger: logger}
}

func (s *redisEpochSource) Current(ctx context.Context) int {
	if s.client == nil {
		return s.fallback
	}

	val, err := s.client.Get(ctx, ReloginEpochKey).Result()
	if err == redis.Nil {
		return s.fallback
	}
	if err != nil {
		s.logger.Warn("relogin epoch lookup failed; using configured value", zap.Error(err))
		return s.fallback
	}

	epoch, err := strconv.Atoi(val)
	if err != nil {
		s.logger.Warn("malformed relogin epoch value", zap.String("value", val))
		return s.fallback
	}
	return epoch
}

// StaticEpochSource returns a fixed epoch; used in tests and redis-less
// deployments.
type StaticEpochSource int

func (s StaticEpochSource) Current(context.Context) int {
	return int(s)
}
