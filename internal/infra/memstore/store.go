package memstore

import (
	"context"
	"sort"
	"sync"

	"campus-booking/internal/domain/reservation"
	"campus-booking/internal/infra"
	"campus-booking/internal/usecase/shared"

	"github.com/google/uuid"
)

// Store keeps reservations in process memory. It backs PERSISTENCE_DRIVER=memory
// and the use case tests.
type Store struct {
	mu   sync.RWMutex
	rows map[uuid.UUID]reservation.Snapshot
}

func NewStore() *Store {
	return &Store{rows: make(map[uuid.UUID]reservation.Snapshot)}
}

func (s *Store) FindByID(_ context.Context, id uuid.UUID) (*reservation.Reservation, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return findByID(s.rows, nil, id)
}

func (s *Store) FindApprovedByResourceKey(_ context.Context, key reservation.ResourceKey) ([]*reservation.Reservation, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return approvedByKey(s.rows, nil, key), nil
}

func (s *Store) List(_ context.Context, filter shared.ReservationFilter, limit, offset int) ([]*reservation.Reservation, int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	items, total := list(s.rows, nil, filter, limit, offset)
	return items, total, nil
}

func (s *Store) apply(pending map[uuid.UUID]reservation.Snapshot) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for id, snap := range pending {
		s.rows[id] = snap
	}
}

func (s *Store) exists(id uuid.UUID) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	_, ok := s.rows[id]
	return ok
}

// The helpers below read rows with pending overlaid on top. Callers hold
// the store lock.

func lookup(rows, pending map[uuid.UUID]reservation.Snapshot, id uuid.UUID) (reservation.Snapshot, bool) {
	if snap, ok := pending[id]; ok {
		return snap, true
	}
	snap, ok := rows[id]
	return snap, ok
}

func findByID(rows, pending map[uuid.UUID]reservation.Snapshot, id uuid.UUID) (*reservation.Reservation, error) {
	snap, ok := lookup(rows, pending, id)
	if !ok {
		return nil, infra.NewNotFound("reservation not found")
	}
	return reservation.Reconstruct(snap), nil
}

func merged(rows, pending map[uuid.UUID]reservation.Snapshot) []reservation.Snapshot {
	out := make([]reservation.Snapshot, 0, len(rows)+len(pending))
	for id, snap := range rows {
		if _, ok := pending[id]; ok {
			continue
		}
		out = append(out, snap)
	}
	for _, snap := range pending {
		out = append(out, snap)
	}
	return out
}

func approvedByKey(rows, pending map[uuid.UUID]reservation.Snapshot, key reservation.ResourceKey) []*reservation.Reservation {
	var matched []reservation.Snapshot
	for _, snap := range merged(rows, pending) {
		if snap.Status == reservation.StatusApproved && snap.Resource == key {
			matched = append(matched, snap)
		}
	}
	sort.Slice(matched, func(i, j int) bool {
		a, b := matched[i], matched[j]
		if !a.Dates.Start().Equal(b.Dates.Start()) {
			return a.Dates.Start().Before(b.Dates.Start())
		}
		return a.ID.String() < b.ID.String()
	})
	out := make([]*reservation.Reservation, 0, len(matched))
	for _, snap := range matched {
		out = append(out, reservation.Reconstruct(snap))
	}
	return out
}

func list(rows, pending map[uuid.UUID]reservation.Snapshot, filter shared.ReservationFilter, limit, offset int) ([]*reservation.Reservation, int) {
	var matched []reservation.Snapshot
	for _, snap := range merged(rows, pending) {
		if filter.Status != nil && snap.Status != *filter.Status {
			continue
		}
		if filter.UserID != nil && snap.RequesterID != *filter.UserID {
			continue
		}
		if filter.CampusID != nil && (snap.CampusID == nil || *snap.CampusID != *filter.CampusID) {
			continue
		}
		matched = append(matched, snap)
	}
	sort.Slice(matched, func(i, j int) bool {
		a, b := matched[i], matched[j]
		if !a.CreatedAt.Equal(b.CreatedAt) {
			return a.CreatedAt.After(b.CreatedAt)
		}
		return a.ID.String() > b.ID.String()
	})

	total := len(matched)
	if offset >= total {
		return []*reservation.Reservation{}, total
	}
	end := total
	if limit > 0 && offset+limit < total {
		end = offset + limit
	}
	out := make([]*reservation.Reservation, 0, end-offset)
	for _, snap := range matched[offset:end] {
		out = append(out, reservation.Reconstruct(snap))
	}
	return out, total
}
