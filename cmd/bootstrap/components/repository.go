package components

import (
	"campus-booking/internal/infra/memstore"
	sqlc "campus-booking/internal/infra/sqlc/generated"
	"campus-booking/internal/infra/uow"
	"campus-booking/internal/pkg/keylock"
	"campus-booking/internal/usecase/shared"

	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/fx"
)

var RepositoryModule = fx.Module("repository",
	fx.Provide(
		NewSQLQueries,
		NewUnitOfWork,
		NewReservationReader,
	),
)

func NewSQLQueries() *sqlc.Queries {
	return sqlc.New()
}

// NewUnitOfWork picks the Postgres unit of work when a pool exists and the
// in-memory one otherwise.
func NewUnitOfWork(pool *pgxpool.Pool, q *sqlc.Queries) shared.UnitOfWork {
	if pool == nil {
		return memstore.NewUoW(memstore.NewStore(), keylock.New())
	}
	return uow.NewPostgresUoW(pool, q)
}

func NewReservationReader(u shared.UnitOfWork) shared.ReservationReader {
	return u.Reads()
}
