//go:build unit

package worker_test

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"seatlock-coordinator/internal/domain/hold"
	"seatlock-coordinator/internal/infra/lockstore"
	"seatlock-coordinator/internal/usecase/shared"
	"seatlock-coordinator/internal/worker"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakePublisher struct {
	mu        sync.Mutex
	published []string
	fail      bool
}

func (p *fakePublisher) Publish(_ context.Context, topic string, _ []byte) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.fail {
		return errors.New("broker unreachable")
	}
	p.published = append(p.published, topic)
	return nil
}

func (p *fakePublisher) count() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return len(p.published)
}

func seedConversionJob(t *testing.T, store *lockstore.MemoryLockStore) {
	t.Helper()
	ctx := context.Background()
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

	key, err := hold.NewSeatKey("BUS", "1", "L1")
	require.NoError(t, err)
	owner := hold.Owner{UserID: "user-a"}
	h, err := hold.NewSeatHold(key, owner, 1530, now)
	require.NoError(t, err)
	_, err = store.TryCreate(ctx, h)
	require.NoError(t, err)
	_, err = store.ConvertAllForOwner(ctx, owner, "ref-1", now.Add(time.Second))
	require.NoError(t, err)
}

func TestDispatcherPublishesQueuedJobs(t *testing.T) {
	ctx := context.Background()
	store := lockstore.NewMemoryLockStore()
	seedConversionJob(t, store)

	publisher := &fakePublisher{}
	dispatcher := worker.NewDispatcher(store, publisher, 5*time.Millisecond)

	runCtx, cancel := context.WithCancel(ctx)
	defer cancel()
	go dispatcher.Run(runCtx)

	assert.Eventually(t, func() bool {
		return publisher.count() == 1
	}, time.Second, 10*time.Millisecond)

	// Dispatched jobs are not re-published.
	time.Sleep(30 * time.Millisecond)
	assert.Equal(t, 1, publisher.count())

	jobs, err := store.Pending(ctx, 10)
	require.NoError(t, err)
	assert.Empty(t, jobs)
}

func TestDispatcherKeepsFailedJobsQueued(t *testing.T) {
	ctx := context.Background()
	store := lockstore.NewMemoryLockStore()
	seedConversionJob(t, store)

	publisher := &fakePublisher{fail: true}
	dispatcher := worker.NewDispatcher(store, publisher, 5*time.Millisecond)

	runCtx, cancel := context.WithCancel(ctx)
	go dispatcher.Run(runCtx)

	// Give the dispatcher a few ticks to fail, then stop it.
	assert.Eventually(t, func() bool {
		jobs, err := store.Pending(ctx, 10)
		require.NoError(t, err)
		return len(jobs) == 1 && jobs[0].Attempts > 0
	}, time.Second, 10*time.Millisecond)
	cancel()

	jobs, err := store.Pending(ctx, 10)
	require.NoError(t, err)
	require.Len(t, jobs, 1)
	assert.Equal(t, shared.LedgerJobQueued, jobs[0].Status)
	require.NotNil(t, jobs[0].LastError)
	assert.Contains(t, *jobs[0].LastError, "broker unreachable")
}
