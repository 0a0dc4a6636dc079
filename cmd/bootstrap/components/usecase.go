package components

import (
	"campus-booking/internal/pkg/config"
	"campus-booking/internal/usecase"
	"campus-booking/internal/usecase/commands"
	"campus-booking/internal/usecase/queries"

	"go.uber.org/fx"
)

var UseCaseModule = fx.Module("usecase",
	usecaseBaseOption,
	usecaseQueriesModule,
	usecaseValidatorsModule,
	usecaseCommandsModule,
)

var usecaseBaseOption = fx.Provide(
	commands.NewConflictDetector,
	func(cfg config.Config) commands.AttachOptions {
		return commands.AttachOptions{
			Timeout:  cfg.Storage.UploadTimeout,
			MaxBytes: cfg.Storage.MaxBytes,
		}
	},
	commands.NewDocumentAttacher,
)

var usecaseCommandsModule = fx.Module("usecase/commands",
	fx.Provide(
		commands.NewReservationCommands,
	),
)

var usecaseQueriesModule = fx.Module("usecase/queries",
	fx.Provide(
		queries.NewReservationQueries,
	),
)

var usecaseValidatorsModule = fx.Module("usecase/validators",
	fx.Provide(
		usecase.NewTokenValidator,
	),
)
