package bootstrap

import (
	"context"
	"log/slog"

	"seatlock-coordinator/internal/infra/ledger"
	"seatlock-coordinator/internal/pkg/clock"
	"seatlock-coordinator/internal/pkg/config"
	"seatlock-coordinator/internal/usecase/shared"
	"seatlock-coordinator/internal/worker"

	"go.uber.org/fx"
)

var WorkerModule = fx.Module("worker",
	fx.Invoke(
		startReaper,
		startDispatcher,
	),
)

func startReaper(lc fx.Lifecycle, store shared.LockStore, clk clock.Clock, cfg config.Config) {
	reaper := worker.NewReaper(store, clk, cfg.Worker.ReaperInterval, cfg.Worker.ReaperBatchSize)

	ctx, cancel := context.WithCancel(context.Background())
	lc.Append(fx.Hook{
		OnStart: func(_ context.Context) error {
			go reaper.Run(ctx)
			return nil
		},
		OnStop: func(_ context.Context) error {
			cancel()
			return nil
		},
	})
}

func startDispatcher(lc fx.Lifecycle, jobs shared.LedgerJobs, cfg config.Config) error {
	if cfg.Broker.URL == "" {
		slog.Info("AMQP_URL not set, ledger dispatcher disabled")
		return nil
	}

	publisher, cleanup, err := ledger.NewAMQPPublisher(cfg.Broker)
	if err != nil {
		return err
	}
	dispatcher := worker.NewDispatcher(jobs, publisher, cfg.Worker.DispatcherInterval)

	ctx, cancel := context.WithCancel(context.Background())
	lc.Append(fx.Hook{
		OnStart: func(_ context.Context) error {
			go dispatcher.Run(ctx)
			return nil
		},
		OnStop: func(_ context.Context) error {
			cancel()
			if cleanup != nil {
				cleanup()
			}
			return nil
		},
	})
	return nil
}
