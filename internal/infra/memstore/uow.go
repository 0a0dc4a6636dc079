package memstore

import (
	"context"

	"campus-booking/internal/domain/reservation"
	"campus-booking/internal/infra"
	"campus-booking/internal/pkg/keylock"
	"campus-booking/internal/usecase/shared"

	"github.com/google/uuid"
)

// UoW stages writes per transaction and applies them to the Store only when
// fn succeeds. Row and resource locks come from one keyed locker so the
// memory driver gives the same isolation the Postgres one does.
type UoW struct {
	store *Store
	locks *keylock.Locker
}

func NewUoW(store *Store, locks *keylock.Locker) *UoW {
	return &UoW{store: store, locks: locks}
}

func (u *UoW) Within(ctx context.Context, fn func(ctx context.Context, tx shared.Tx) error) error {
	tx := &memTx{
		uow:     u,
		pending: make(map[uuid.UUID]reservation.Snapshot),
		held:    make(map[string]func()),
	}
	defer tx.release()

	if err := fn(ctx, tx); err != nil {
		return err
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	u.store.apply(tx.pending)
	return nil
}

func (u *UoW) WithinResourceLock(ctx context.Context, key reservation.ResourceKey, fn func(ctx context.Context, tx shared.Tx) error) error {
	unlock := u.locks.Lock(resourceLockKey(key))
	defer unlock()
	return u.Within(ctx, fn)
}

func (u *UoW) Reads() shared.ReservationReader {
	return u.store
}

func resourceLockKey(key reservation.ResourceKey) string {
	return "resource:" + key.String()
}

func rowLockKey(id uuid.UUID) string {
	return "reservation:" + id.String()
}

type memTx struct {
	uow     *UoW
	pending map[uuid.UUID]reservation.Snapshot
	held    map[string]func()
}

func (t *memTx) Reservations() shared.ReservationRepository {
	return t
}

func (t *memTx) release() {
	for _, unlock := range t.held {
		unlock()
	}
}

func (t *memTx) FindByID(_ context.Context, id uuid.UUID) (*reservation.Reservation, error) {
	s := t.uow.store
	s.mu.RLock()
	defer s.mu.RUnlock()
	return findByID(s.rows, t.pending, id)
}

func (t *memTx) LockByID(ctx context.Context, id uuid.UUID) (*reservation.Reservation, error) {
	key := rowLockKey(id)
	if _, ok := t.held[key]; !ok {
		t.held[key] = t.uow.locks.Lock(key)
	}
	return t.FindByID(ctx, id)
}

func (t *memTx) FindApprovedByResourceKey(_ context.Context, key reservation.ResourceKey) ([]*reservation.Reservation, error) {
	s := t.uow.store
	s.mu.RLock()
	defer s.mu.RUnlock()
	return approvedByKey(s.rows, t.pending, key), nil
}

func (t *memTx) List(_ context.Context, filter shared.ReservationFilter, limit, offset int) ([]*reservation.Reservation, int, error) {
	s := t.uow.store
	s.mu.RLock()
	defer s.mu.RUnlock()
	items, total := list(s.rows, t.pending, filter, limit, offset)
	return items, total, nil
}

func (t *memTx) Insert(_ context.Context, r *reservation.Reservation) error {
	if _, ok := t.pending[r.ID()]; ok || t.uow.store.exists(r.ID()) {
		return infra.NewDuplicateKey("reservation already exists")
	}
	t.pending[r.ID()] = r.Snapshot()
	return nil
}

func (t *memTx) Update(_ context.Context, r *reservation.Reservation) error {
	if _, ok := t.pending[r.ID()]; !ok && !t.uow.store.exists(r.ID()) {
		return infra.NewNotFound("reservation not found")
	}
	t.pending[r.ID()] = r.Snapshot()
	return nil
}
