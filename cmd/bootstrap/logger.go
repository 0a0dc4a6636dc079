package bootstrap

import (
	"log/slog"

	"campus-booking/internal/handler/middleware"
	"campus-booking/internal/pkg/clock"
	"campus-booking/internal/pkg/config"

	"go.uber.org/fx"
)

var LoggerModule = fx.Module("logger",
	fx.Provide(
		NewLogger,
		clock.NewRealClock,
	),
)

func NewLogger(cfg config.Config) *slog.Logger {
	return middleware.NewLogger(cfg.Log).GetSlogLogger()
}
