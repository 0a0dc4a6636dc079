package components

import (
	"campus-booking/internal/handler"
	"campus-booking/internal/handler/api"
	"campus-booking/internal/handler/middleware"
	"campus-booking/internal/pkg/clock"
	"campus-booking/internal/pkg/config"
	"campus-booking/internal/usecase/commands"
	"campus-booking/internal/usecase/queries"

	"github.com/redis/go-redis/v9"
	"go.uber.org/fx"
)

var HandlerModule = fx.Module("handler",
	fx.Provide(
		func(cmds commands.ReservationCommands, q queries.ReservationQueries, cfg config.Config) *api.ReservationHandler {
			return api.NewReservationHandler(cmds, q, cfg.Storage)
		},
		middleware.NewAuthMiddleware,
		func(rdb redis.Scripter, cfg config.Config, clk clock.Clock) *middleware.RateLimiter {
			return middleware.NewRateLimiter(rdb, cfg.RateLimit, clk)
		},
	),
	fx.Invoke(handler.NewRouter),
)
