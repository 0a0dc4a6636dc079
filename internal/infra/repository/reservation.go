package repository

import (
	"context"
	"math"

	"campus-booking/internal/domain/reservation"
	"campus-booking/internal/infra"
	"campus-booking/internal/infra/repository/converter"
	sqlc "campus-booking/internal/infra/sqlc/generated"
	"campus-booking/internal/pkg/pgconv"
	"campus-booking/internal/usecase/shared"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgtype"
)

type ReservationQueries interface {
	InsertReservation(ctx context.Context, db sqlc.DBTX, arg sqlc.InsertReservationParams) error
	UpdateReservationDecision(ctx context.Context, db sqlc.DBTX, arg sqlc.UpdateReservationDecisionParams) (int64, error)
	GetReservation(ctx context.Context, db sqlc.DBTX, id uuid.UUID) (sqlc.Reservations, error)
	GetReservationForUpdate(ctx context.Context, db sqlc.DBTX, id uuid.UUID) (sqlc.Reservations, error)
	ListApprovedByResource(ctx context.Context, db sqlc.DBTX, arg sqlc.ListApprovedByResourceParams) ([]sqlc.Reservations, error)
	ListReservations(ctx context.Context, db sqlc.DBTX, arg sqlc.ListReservationsParams) ([]sqlc.Reservations, error)
	CountReservations(ctx context.Context, db sqlc.DBTX, arg sqlc.CountReservationsParams) (int64, error)
}

// ReservationRepository is bound to one DBTX: the pool for plain reads or a
// pgx.Tx inside a unit of work.
type ReservationRepository struct {
	queries ReservationQueries
	db      sqlc.DBTX
}

func NewReservationRepository(queries ReservationQueries, db sqlc.DBTX) *ReservationRepository {
	return &ReservationRepository{
		queries: queries,
		db:      db,
	}
}

var _ shared.ReservationRepository = (*ReservationRepository)(nil)

func (r *ReservationRepository) Insert(ctx context.Context, res *reservation.Reservation) error {
	params, err := converter.ReservationToInsertParams(res)
	if err != nil {
		return infra.WrapRepoErr("failed to convert reservation", err)
	}
	if err := r.queries.InsertReservation(ctx, r.db, params); err != nil {
		return infra.WrapRepoErr("failed to insert reservation", err)
	}
	return nil
}

func (r *ReservationRepository) Update(ctx context.Context, res *reservation.Reservation) error {
	n, err := r.queries.UpdateReservationDecision(ctx, r.db, converter.ReservationToUpdateParams(res))
	if err != nil {
		return infra.WrapRepoErr("failed to update reservation", err)
	}
	if n == 0 {
		return infra.NewNotFound("reservation not found")
	}
	return nil
}

func (r *ReservationRepository) FindByID(ctx context.Context, id uuid.UUID) (*reservation.Reservation, error) {
	row, err := r.queries.GetReservation(ctx, r.db, id)
	if err != nil {
		return nil, infra.WrapRepoErr("failed to get reservation", err)
	}
	return fromRow(row)
}

func (r *ReservationRepository) LockByID(ctx context.Context, id uuid.UUID) (*reservation.Reservation, error) {
	row, err := r.queries.GetReservationForUpdate(ctx, r.db, id)
	if err != nil {
		return nil, infra.WrapRepoErr("failed to lock reservation", err)
	}
	return fromRow(row)
}

func (r *ReservationRepository) FindApprovedByResourceKey(ctx context.Context, key reservation.ResourceKey) ([]*reservation.Reservation, error) {
	rows, err := r.queries.ListApprovedByResource(ctx, r.db, sqlc.ListApprovedByResourceParams{
		ResourceKind: key.Kind().String(),
		ResourceID:   key.ID(),
	})
	if err != nil {
		return nil, infra.WrapRepoErr("failed to list approved reservations", err)
	}
	return fromRows(rows)
}

func (r *ReservationRepository) List(ctx context.Context, filter shared.ReservationFilter, limit, offset int) ([]*reservation.Reservation, int, error) {
	status := pgtype.Text{}
	if filter.Status != nil {
		status = pgconv.StringToPgtype(filter.Status.String())
	}
	requester := pgconv.UUIDPtrToPgtype(filter.UserID)
	campus := pgconv.UUIDPtrToPgtype(filter.CampusID)

	total, err := r.queries.CountReservations(ctx, r.db, sqlc.CountReservationsParams{
		Status:      status,
		RequesterID: requester,
		CampusID:    campus,
	})
	if err != nil {
		return nil, 0, infra.WrapRepoErr("failed to count reservations", err)
	}

	rows, err := r.queries.ListReservations(ctx, r.db, sqlc.ListReservationsParams{
		Status:      status,
		RequesterID: requester,
		CampusID:    campus,
		Limit:       clampInt32(limit),
		Offset:      clampInt32(offset),
	})
	if err != nil {
		return nil, 0, infra.WrapRepoErr("failed to list reservations", err)
	}

	items, err := fromRows(rows)
	if err != nil {
		return nil, 0, err
	}
	return items, int(total), nil
}

func fromRow(row sqlc.Reservations) (*reservation.Reservation, error) {
	res, err := converter.ReservationFromRow(row)
	if err != nil {
		return nil, infra.WrapRepoErr("failed to decode reservation", err)
	}
	return res, nil
}

func fromRows(rows []sqlc.Reservations) ([]*reservation.Reservation, error) {
	out := make([]*reservation.Reservation, 0, len(rows))
	for _, row := range rows {
		res, err := fromRow(row)
		if err != nil {
			return nil, err
		}
		out = append(out, res)
	}
	return out, nil
}

func clampInt32(v int) int32 {
	if v > math.MaxInt32 {
		return math.MaxInt32
	}
	if v < 0 {
		return 0
	}
	return int32(v)
}
