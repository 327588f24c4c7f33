package components

import (
	"context"

	"seatlock-coordinator/internal/infra/db"
	"seatlock-coordinator/internal/infra/ledger"
	"seatlock-coordinator/internal/infra/lockstore"
	"seatlock-coordinator/internal/infra/readstore"
	"seatlock-coordinator/internal/pkg/config"
	"seatlock-coordinator/internal/usecase/queries"
	"seatlock-coordinator/internal/usecase/shared"

	"go.uber.org/fx"
)

var StoreModule = fx.Module("store",
	fx.Provide(
		NewStores,
	),
)

type StoresOut struct {
	fx.Out

	Lock   shared.LockStore
	Reader queries.AvailabilityReader
	Jobs   shared.LedgerJobs
}

// NewStores wires the persistence layer for the configured driver. The
// memory driver backs local development and tests; one instance serves the
// write side, the read side and the ledger outbox so their views never
// diverge. The postgres driver applies the schema on startup, which is
// idempotent.
func NewStores(lc fx.Lifecycle, cfg config.Config) (StoresOut, error) {
	if cfg.Store.Driver == "memory" {
		mem := lockstore.NewMemoryLockStore()
		return StoresOut{Lock: mem, Reader: mem, Jobs: mem}, nil
	}

	pool, cleanup, err := db.Connect(cfg.DB)
	if err != nil {
		return StoresOut{}, err
	}
	if err := db.ApplySchema(context.Background(), pool); err != nil {
		cleanup()
		return StoresOut{}, err
	}

	lc.Append(fx.Hook{
		OnStop: func(_ context.Context) error {
			if cleanup != nil {
				cleanup()
			}
			return nil
		},
	})

	return StoresOut{
		Lock:   lockstore.NewPostgresLockStore(pool),
		Reader: readstore.NewPostgresAvailabilityReader(pool),
		Jobs:   ledger.NewPostgresLedgerJobs(pool),
	}, nil
}
