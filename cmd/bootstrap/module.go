package bootstrap

import (
	"seatlock-coordinator/cmd/bootstrap/components"

	"go.uber.org/fx"
)

var Module = fx.Options(
	ConfigModule,
	components.StoreModule,
	components.UseCaseModule,
	components.HandlerModule,
	CacheOption,
	WorkerModule,
)
