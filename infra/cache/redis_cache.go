package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/amirasaad/ledgersync/pkg/domain"
	"github.com/amirasaad/ledgersync/pkg/provider/exchange"
	"github.com/redis/go-redis/v9"
)

// RedisRateCache reads the rates snapshot published under a single key by
// the pricing service.
type RedisRateCache struct {
	client redis.Cmdable
	key    string
	logger *slog.Logger
}

func NewRedisRateCache(client redis.Cmdable, prefix, key string, logger *slog.Logger) *RedisRateCache {
	if key == "" {
		key = "exchange"
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &RedisRateCache{client: client, key: prefix + key, logger: logger}
}

// NewRedisRateCacheFromURL parses a redis:// URL into client options.
func NewRedisRateCacheFromURL(url, prefix, key string, logger *slog.Logger) (*RedisRateCache, error) {
	opt, err := redis.ParseURL(url)
	if err != nil {
		return nil, fmt.Errorf("parse redis url: %w", err)
	}
	return NewRedisRateCache(redis.NewClient(opt), prefix, key, logger), nil
}

func (r *RedisRateCache) Get(ctx context.Context) (*exchange.Rates, error) {
	val, err := r.client.Get(ctx, r.key).Bytes()
	if errors.Is(err, redis.Nil) {
		r.logger.Debug("Redis cache miss", "key", r.key)
		return nil, domain.ErrNotFound
	}
	if err != nil {
		r.logger.Error("Redis cache get error", "key", r.key, "error", err)
		return nil, err
	}
	var rates exchange.Rates
	if err := json.Unmarshal(val, &rates); err != nil {
		r.logger.Error("Redis cache unmarshal error", "key", r.key, "error", err)
		return nil, err
	}
	return &rates, nil
}

// Set publishes a snapshot. A ttl of zero keeps it until replaced.
func (r *RedisRateCache) Set(ctx context.Context, rates *exchange.Rates, ttl time.Duration) error {
	data, err := json.Marshal(rates)
	if err != nil {
		return err
	}
	if err := r.client.Set(ctx, r.key, data, ttl).Err(); err != nil {
		r.logger.Error("Redis cache set error", "key", r.key, "error", err)
		return err
	}
	return nil
}

var _ exchange.RateCache = (*RedisRateCache)(nil)
