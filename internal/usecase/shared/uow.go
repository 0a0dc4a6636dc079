package shared

import (
	"context"

	"campus-booking/internal/domain/reservation"

	"github.com/google/uuid"
)

type UnitOfWork interface {
	// Within runs fn in a single transaction. Nothing fn writes is visible
	// to others unless fn returns nil and the commit succeeds.
	Within(ctx context.Context, fn func(ctx context.Context, tx Tx) error) error
	// WithinResourceLock is Within plus an exclusive lock on key, held from
	// before fn runs until commit or rollback. Two callers with the same key
	// never run fn concurrently.
	WithinResourceLock(ctx context.Context, key reservation.ResourceKey, fn func(ctx context.Context, tx Tx) error) error
	// Reads gives non-transactional access for lookups outside Within.
	Reads() ReservationReader
}

type Tx interface {
	Reservations() ReservationRepository
}

type ReservationFilter struct {
	Status   *reservation.Status
	UserID   *uuid.UUID
	CampusID *uuid.UUID
}

type ReservationReader interface {
	FindByID(ctx context.Context, id uuid.UUID) (*reservation.Reservation, error)
	FindApprovedByResourceKey(ctx context.Context, key reservation.ResourceKey) ([]*reservation.Reservation, error)
	// List returns one page ordered newest first plus the total match count.
	List(ctx context.Context, filter ReservationFilter, limit, offset int) ([]*reservation.Reservation, int, error)
}

type ReservationRepository interface {
	ReservationReader
	// LockByID is FindByID plus a row lock held until the transaction ends.
	LockByID(ctx context.Context, id uuid.UUID) (*reservation.Reservation, error)
	Insert(ctx context.Context, r *reservation.Reservation) error
	Update(ctx context.Context, r *reservation.Reservation) error
}
