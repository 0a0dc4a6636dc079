package uow

import (
	"context"
	"errors"
	"log/slog"

	"campus-booking/internal/domain/reservation"
	"campus-booking/internal/infra/repository"
	sqlc "campus-booking/internal/infra/sqlc/generated"
	"campus-booking/internal/pkg/errs"
	"campus-booking/internal/usecase/shared"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type PostgresUoW struct {
	pool *pgxpool.Pool
	q    *sqlc.Queries
}

func NewPostgresUoW(pool *pgxpool.Pool, q *sqlc.Queries) shared.UnitOfWork {
	return &PostgresUoW{
		pool: pool,
		q:    q,
	}
}

// ReadCommitted is enough here: every write path takes row locks, and
// approval additionally serialises on the resource advisory lock.
func (u *PostgresUoW) Within(ctx context.Context, fn func(ctx context.Context, tx shared.Tx) error) error {
	return u.runInTx(ctx, pgx.TxOptions{IsoLevel: pgx.ReadCommitted}, nil, fn)
}

func (u *PostgresUoW) WithinResourceLock(ctx context.Context, key reservation.ResourceKey, fn func(ctx context.Context, tx shared.Tx) error) error {
	lock := func(ctx context.Context, db sqlc.DBTX) error {
		if err := u.q.AcquireResourceLock(ctx, db, key.String()); err != nil {
			return errs.Mark(err, errs.ErrLockAcquire)
		}
		return nil
	}
	return u.runInTx(ctx, pgx.TxOptions{IsoLevel: pgx.ReadCommitted}, lock, fn)
}

func (u *PostgresUoW) Reads() shared.ReservationReader {
	return repository.NewReservationRepository(u.q, u.pool)
}

func (u *PostgresUoW) runInTx(
	ctx context.Context,
	options pgx.TxOptions,
	before func(ctx context.Context, db sqlc.DBTX) error,
	fn func(ctx context.Context, tx shared.Tx) error,
) error {
	pgxTx, err := u.pool.BeginTx(ctx, options)
	if err != nil {
		return errs.Mark(err, errs.ErrTransactionBegin)
	}

	defer func() {
		if rollbackErr := pgxTx.Rollback(ctx); rollbackErr != nil {
			if !errors.Is(rollbackErr, pgx.ErrTxClosed) {
				slog.Warn("rollback failed", "error", rollbackErr.Error())
			}
		}
	}()

	if before != nil {
		if err := before(ctx, pgxTx); err != nil {
			return err
		}
	}

	tx := &pgTx{
		dbtx: pgxTx,
		uow:  u,
	}
	if err := fn(ctx, tx); err != nil {
		return err
	}

	if err := pgxTx.Commit(ctx); err != nil {
		return errs.Mark(err, errs.ErrTransactionCommit)
	}
	return nil
}

type pgTx struct {
	dbtx sqlc.DBTX
	uow  *PostgresUoW

	// Lazy-initialized repositories
	reservationRepo shared.ReservationRepository
}

func (t *pgTx) Reservations() shared.ReservationRepository {
	if t.reservationRepo == nil {
		t.reservationRepo = repository.NewReservationRepository(t.uow.q, t.dbtx)
	}
	return t.reservationRepo
}
