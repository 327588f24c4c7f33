package bootstrap

import (
	"context"

	"seatlock-coordinator/internal/infra/readstore"
	"seatlock-coordinator/internal/pkg/config"
	"seatlock-coordinator/internal/usecase/queries"

	"github.com/redis/go-redis/v9"
	"go.uber.org/fx"
)

// CacheOption decorates the availability queries with a short Redis
// read-through cache when REDIS_ADDR is set. The cache only ever serves
// second-hand reads for polling seat maps; the command path never touches it.
var CacheOption = fx.Decorate(
	NewCachedAvailability,
)

func NewCachedAvailability(lc fx.Lifecycle, cfg config.Config, inner queries.AvailabilityQueries) queries.AvailabilityQueries {
	if cfg.Redis.Addr == "" {
		return inner
	}

	rdb := redis.NewClient(&redis.Options{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
	lc.Append(fx.Hook{
		OnStop: func(_ context.Context) error {
			return rdb.Close()
		},
	})

	return readstore.NewCachedAvailabilityQueries(inner, rdb, cfg.Redis.CacheTTL)
}
