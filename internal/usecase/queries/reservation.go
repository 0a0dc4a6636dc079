package queries

import (
	"context"

	"campus-booking/internal/domain/reservation"
	"campus-booking/internal/domain/user"
	"campus-booking/internal/usecase/shared"

	"github.com/google/uuid"
)

const (
	DefaultListLimit = 20
	MaxListLimit     = 100
)

type ListParams struct {
	Status   string
	UserID   *uuid.UUID
	CampusID *uuid.UUID
	Page     int
	Limit    int
}

type ReservationQueries interface {
	GetByID(ctx context.Context, actor user.Actor, id uuid.UUID) (*ReservationView, error)
	List(ctx context.Context, actor user.Actor, params ListParams) (*ReservationPage, error)
	// BlockedRanges is the availability projection. It makes no visibility
	// decisions of its own.
	BlockedRanges(ctx context.Context, resourceID, resourceKind string) ([]BlockedRange, error)
	CheckConflicts(ctx context.Context, id uuid.UUID) (*ConflictView, error)
}

type reservationQueriesImpl struct {
	reader shared.ReservationReader
}

func NewReservationQueries(reader shared.ReservationReader) ReservationQueries {
	return &reservationQueriesImpl{reader: reader}
}

// GetByID hides other people's reservations from requesters behind a
// NotFoundError so ids cannot be probed.
func (q *reservationQueriesImpl) GetByID(ctx context.Context, actor user.Actor, id uuid.UUID) (*ReservationView, error) {
	res, err := q.reader.FindByID(ctx, id)
	if err != nil {
		return nil, shared.TranslateNotFound(err, id)
	}
	if !actor.IsReviewer() && res.RequesterID() != actor.ID {
		return nil, &shared.NotFoundError{ID: id}
	}
	return NewReservationView(res), nil
}

func (q *reservationQueriesImpl) List(ctx context.Context, actor user.Actor, params ListParams) (*ReservationPage, error) {
	page, limit, err := normalizePaging(params.Page, params.Limit)
	if err != nil {
		return nil, err
	}

	filter := shared.ReservationFilter{
		UserID:   params.UserID,
		CampusID: params.CampusID,
	}
	if params.Status != "" {
		status, err := reservation.ParseStatus(params.Status)
		if err != nil {
			return nil, err
		}
		filter.Status = &status
	}
	if !actor.IsReviewer() {
		self := actor.ID
		filter.UserID = &self
	}

	rows, total, err := q.reader.List(ctx, filter, limit, (page-1)*limit)
	if err != nil {
		return nil, err
	}

	items := make([]*ReservationView, 0, len(rows))
	for _, r := range rows {
		items = append(items, NewReservationView(r))
	}
	return &ReservationPage{Items: items, Total: total, Page: page, Limit: limit}, nil
}

func (q *reservationQueriesImpl) BlockedRanges(ctx context.Context, resourceID, resourceKind string) ([]BlockedRange, error) {
	kind, err := reservation.ParseResourceKind(resourceKind)
	if err != nil {
		return nil, err
	}
	key, err := reservation.NewResourceKey(resourceID, kind)
	if err != nil {
		return nil, err
	}

	booked, err := q.reader.FindApprovedByResourceKey(ctx, key)
	if err != nil {
		return nil, err
	}

	ranges := make([]BlockedRange, 0, len(booked))
	for _, r := range booked {
		ranges = append(ranges, BlockedRange{
			ReservationID: r.ID(),
			Start:         r.Dates().Start().Format(reservation.DateLayout),
			End:           r.Dates().End().Format(reservation.DateLayout),
			Title:         r.Title(),
		})
	}
	return ranges, nil
}

// CheckConflicts runs the same detection approve uses, without a lock. The
// answer is advisory: approve re-checks before committing.
func (q *reservationQueriesImpl) CheckConflicts(ctx context.Context, id uuid.UUID) (*ConflictView, error) {
	res, err := q.reader.FindByID(ctx, id)
	if err != nil {
		return nil, shared.TranslateNotFound(err, id)
	}
	booked, err := q.reader.FindApprovedByResourceKey(ctx, res.Resource())
	if err != nil {
		return nil, err
	}
	report := reservation.DetectConflicts(res.Resource(), res.Dates(), res.ID(), booked)
	return NewConflictView(report), nil
}

func normalizePaging(page, limit int) (int, int, error) {
	if page == 0 {
		page = 1
	}
	if page < 1 {
		return 0, 0, &reservation.ValidationError{Field: "page", Reason: "must be at least 1"}
	}
	if limit < 0 {
		return 0, 0, &reservation.ValidationError{Field: "limit", Reason: "must not be negative"}
	}
	if limit == 0 {
		limit = DefaultListLimit
	}
	if limit > MaxListLimit {
		limit = MaxListLimit
	}
	return page, limit, nil
}
