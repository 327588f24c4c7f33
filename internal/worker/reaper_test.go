//go:build unit

package worker_test

import (
	"context"
	"testing"
	"time"

	"seatlock-coordinator/internal/domain/hold"
	"seatlock-coordinator/internal/infra"
	"seatlock-coordinator/internal/infra/lockstore"
	"seatlock-coordinator/internal/pkg/clock"
	"seatlock-coordinator/internal/worker"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReaperSweepsExpiredHolds(t *testing.T) {
	ctx := context.Background()
	baseTime := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

	store := lockstore.NewMemoryLockStore()
	clk := clock.NewMockClock(baseTime)

	key, err := hold.NewSeatKey("BUS", "1", "L1")
	require.NoError(t, err)
	owner := hold.Owner{UserID: "user-a"}
	h, err := hold.NewSeatHold(key, owner, 1530, baseTime)
	require.NoError(t, err)
	_, err = store.TryCreate(ctx, h)
	require.NoError(t, err)

	clk.Advance(601 * time.Second)

	reaper := worker.NewReaper(store, clk, 5*time.Millisecond, 100)
	runCtx, cancel := context.WithCancel(ctx)
	done := make(chan struct{})
	go func() {
		reaper.Run(runCtx)
		close(done)
	}()

	assert.Eventually(t, func() bool {
		_, err := store.Get(ctx, key, clk.Now())
		return infra.IsKind(err, infra.KindNotFound)
	}, time.Second, 10*time.Millisecond)

	cancel()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("reaper did not stop after context cancel")
	}
}

func TestReaperLeavesLiveHoldsAlone(t *testing.T) {
	ctx := context.Background()
	baseTime := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

	store := lockstore.NewMemoryLockStore()
	clk := clock.NewMockClock(baseTime)

	key, err := hold.NewSeatKey("BUS", "1", "L1")
	require.NoError(t, err)
	h, err := hold.NewSeatHold(key, hold.Owner{UserID: "user-a"}, 1530, baseTime)
	require.NoError(t, err)
	_, err = store.TryCreate(ctx, h)
	require.NoError(t, err)

	clk.Advance(300 * time.Second)

	swept, err := store.RemoveExpired(ctx, clk.Now(), 100)
	require.NoError(t, err)
	assert.Equal(t, int64(0), swept)

	_, err = store.Get(ctx, key, clk.Now())
	assert.NoError(t, err)
}
