package readstore

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"seatlock-coordinator/internal/domain/hold"
	"seatlock-coordinator/internal/usecase/queries"

	"github.com/redis/go-redis/v9"
)

// CachedAvailabilityQueries puts a short Redis read-through cache in front
// of ListAvailability, the query every shopping session polls. The TTL is a
// small fraction of both the 600s hold TTL and the UI's 5s poll interval
// budget, so staleness stays invisible. Cache failures fall through to the
// underlying store; only store failures propagate.
type CachedAvailabilityQueries struct {
	inner queries.AvailabilityQueries
	rdb   *redis.Client
	ttl   time.Duration
}

func NewCachedAvailabilityQueries(inner queries.AvailabilityQueries, rdb *redis.Client, ttl time.Duration) *CachedAvailabilityQueries {
	return &CachedAvailabilityQueries{inner: inner, rdb: rdb, ttl: ttl}
}

func (c *CachedAvailabilityQueries) ListAvailability(ctx context.Context, inv hold.InventoryRef) (*queries.AvailabilityView, error) {
	cacheKey := fmt.Sprintf("availability:%s:%s", inv.InventoryType, inv.InventoryID)

	if raw, err := c.rdb.Get(ctx, cacheKey).Bytes(); err == nil {
		var view queries.AvailabilityView
		if err := json.Unmarshal(raw, &view); err == nil {
			return &view, nil
		}
	} else if err != redis.Nil {
		slog.Debug("availability cache read failed", "key", cacheKey, "error", err.Error())
	}

	view, err := c.inner.ListAvailability(ctx, inv)
	if err != nil {
		return nil, err
	}

	if raw, err := json.Marshal(view); err == nil {
		if err := c.rdb.Set(ctx, cacheKey, raw, c.ttl).Err(); err != nil {
			slog.Debug("availability cache write failed", "key", cacheKey, "error", err.Error())
		}
	}
	return view, nil
}

// ListMine is never cached: a shopper's own holds must reflect their last
// action immediately.
func (c *CachedAvailabilityQueries) ListMine(ctx context.Context, owner hold.Owner) ([]*queries.OwnedLockView, error) {
	return c.inner.ListMine(ctx, owner)
}

func (c *CachedAvailabilityQueries) CheckOne(ctx context.Context, key hold.SeatKey) (bool, error) {
	return c.inner.CheckOne(ctx, key)
}
