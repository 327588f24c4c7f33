// Package worker holds the background loops: the reaper that retires
// expired holds and the dispatcher that ships conversion events to the
// external booking ledger.
package worker

import (
	"context"
	"log/slog"
	"time"

	"seatlock-coordinator/internal/pkg/clock"
	"seatlock-coordinator/internal/usecase/shared"
)

// Reaper sweeps lapsed ACTIVE holds on a fixed interval. It is an
// optimization: every read already treats lapsed holds as absent by
// wall-clock comparison, so nothing is ever wrong between sweeps; the
// sweep just keeps the active index small. Races with concurrent unlock or
// convert are no-ops under the store's CAS semantics.
type Reaper struct {
	store     shared.LockStore
	clock     clock.Clock
	interval  time.Duration
	batchSize int
}

func NewReaper(store shared.LockStore, clock clock.Clock, interval time.Duration, batchSize int) *Reaper {
	return &Reaper{
		store:     store,
		clock:     clock,
		interval:  interval,
		batchSize: batchSize,
	}
}

func (r *Reaper) Run(ctx context.Context) {
	ticker := time.NewTicker(r.interval)
	defer ticker.Stop()

	slog.Info("reaper started", "interval", r.interval.String(), "batch_size", r.batchSize)

	for {
		select {
		case <-ctx.Done():
			slog.Info("reaper stopped")
			return
		case <-ticker.C:
			r.sweep(ctx)
		}
	}
}

func (r *Reaper) sweep(ctx context.Context) {
	swept, err := r.store.RemoveExpired(ctx, r.clock.Now(), r.batchSize)
	if err != nil {
		slog.Error("failed to sweep expired holds", "error", err.Error())
		return
	}
	if swept > 0 {
		slog.Info("expired holds swept", "count", swept)
	}
}
