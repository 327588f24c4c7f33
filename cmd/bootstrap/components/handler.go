package components

import (
	"seatlock-coordinator/internal/handler"
	"seatlock-coordinator/internal/handler/api"

	"go.uber.org/fx"
)

var HandlerModule = fx.Module("handler",
	fx.Provide(
		api.NewLockHandler,
		api.NewBookingHandler,
		api.NewAvailabilityHandler,
	),
	fx.Invoke(handler.NewRouter),
)
