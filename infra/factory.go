package infra

import (
	"fmt"
	"log/slog"

	infracache "github.com/amirasaad/ledgersync/infra/cache"
	"github.com/amirasaad/ledgersync/pkg/config"
	"github.com/amirasaad/ledgersync/pkg/provider/exchange"
	"github.com/redis/go-redis/v9"
)

// NewRateCache picks the exchange rate source named by cfg.Driver.
func NewRateCache(
	logger *slog.Logger,
	cfg *config.ExchangeRateCache,
	redisCfg *config.Redis,
) (exchange.RateCache, error) {
	switch cfg.Driver {
	case "memory":
		logger.Info("Using in-memory cache for exchange rates")
		return infracache.NewMemoryRateCache(), nil
	case "", "redis":
		if redisCfg == nil || redisCfg.URL == "" {
			return nil, fmt.Errorf("exchange rate cache: redis url is not set")
		}
		opt, err := redis.ParseURL(redisCfg.URL)
		if err != nil {
			logger.Error("Invalid Redis URL", "url", maskURL(redisCfg.URL), "error", err)
			return nil, err
		}
		opt.PoolSize = redisCfg.PoolSize
		opt.DialTimeout = redisCfg.DialTimeout
		opt.ReadTimeout = redisCfg.ReadTimeout
		opt.WriteTimeout = redisCfg.WriteTimeout
		logger.Info("Using Redis for exchange rate cache", "url", maskURL(redisCfg.URL), "key", redisCfg.KeyPrefix+cfg.Key)
		return infracache.NewRedisRateCache(redis.NewClient(opt), redisCfg.KeyPrefix, cfg.Key, logger), nil
	default:
		return nil, fmt.Errorf("exchange rate cache: unknown driver %q", cfg.Driver)
	}
}

func maskURL(u string) string {
	if len(u) <= 12 {
		return "****"
	}
	return u[:8] + "****" + u[len(u)-4:]
}
