package commands

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"time"

	"campus-booking/internal/domain/reservation"
	"campus-booking/internal/pkg/clock"
	"campus-booking/internal/pkg/metrics"
	"campus-booking/internal/usecase/shared"

	"github.com/google/uuid"
)

type CreateReservationInput struct {
	RequesterID  uuid.UUID
	CampusID     *uuid.UUID
	Title        string
	ResourceID   string
	ResourceKind string
	StartDate    string
	EndDate      string
	StartTime    string
	EndTime      string
	Details      json.RawMessage
	Files        []FileUpload
}

type ApproveInput struct {
	CommitteeComments string
	ForceApprove      bool
}

type RejectInput struct {
	CommitteeComments string
	RejectionReason   string
}

// ReservationCommands is the lifecycle controller. Every method either
// commits exactly one transition or returns a typed error and leaves the
// stored reservation untouched. Nothing is retried here.
type ReservationCommands interface {
	Create(ctx context.Context, in CreateReservationInput) (*reservation.Reservation, error)
	Review(ctx context.Context, id, actorID uuid.UUID, reviewNotes string) (*reservation.Reservation, error)
	Approve(ctx context.Context, id, actorID uuid.UUID, in ApproveInput) (*reservation.Reservation, error)
	Reject(ctx context.Context, id, actorID uuid.UUID, in RejectInput) (*reservation.Reservation, error)
	Cancel(ctx context.Context, id, requesterID uuid.UUID) (*reservation.Reservation, error)
}

type reservationCommandsImpl struct {
	uow      shared.UnitOfWork
	attacher *DocumentAttacher
	detector *ConflictDetector
	notifier shared.Notifier
	metrics  *metrics.Metrics
	clock    clock.Clock
	logger   *slog.Logger
}

func NewReservationCommands(
	uow shared.UnitOfWork,
	attacher *DocumentAttacher,
	detector *ConflictDetector,
	notifier shared.Notifier,
	m *metrics.Metrics,
	clk clock.Clock,
	logger *slog.Logger,
) ReservationCommands {
	return &reservationCommandsImpl{
		uow:      uow,
		attacher: attacher,
		detector: detector,
		notifier: notifier,
		metrics:  m,
		clock:    clk,
		logger:   logger,
	}
}

func (uc *reservationCommandsImpl) Create(ctx context.Context, in CreateReservationInput) (*reservation.Reservation, error) {
	params, err := in.toParams()
	if err != nil {
		return nil, err
	}
	params.ID = uuid.New()
	if err := params.Validate(); err != nil {
		return nil, err
	}
	if err := uc.attacher.Validate(in.Files); err != nil {
		return nil, err
	}

	docs, err := uc.attacher.Attach(ctx, params.ID, in.Files)
	if err != nil {
		return nil, err
	}
	params.Documents = docs

	res, err := reservation.NewReservation(params, uc.clock.Now())
	if err != nil {
		return nil, err
	}

	err = uc.uow.Within(ctx, func(ctx context.Context, tx shared.Tx) error {
		return tx.Reservations().Insert(ctx, res)
	})
	if err != nil {
		return nil, err
	}

	uc.committed(ctx, res, "", in.RequesterID, shared.EventCreated)
	return res, nil
}

func (uc *reservationCommandsImpl) Review(ctx context.Context, id, actorID uuid.UUID, reviewNotes string) (*reservation.Reservation, error) {
	res, from, err := uc.transition(ctx, id, func(r *reservation.Reservation, now time.Time) error {
		return r.Review(actorID, reviewNotes, now)
	})
	if err != nil {
		return nil, err
	}
	uc.committed(ctx, res, from, actorID, shared.EventUnderReview)
	return res, nil
}

func (uc *reservationCommandsImpl) Approve(ctx context.Context, id, actorID uuid.UUID, in ApproveInput) (*reservation.Reservation, error) {
	current, err := uc.uow.Reads().FindByID(ctx, id)
	if err != nil {
		return nil, shared.TranslateNotFound(err, id)
	}
	if err := current.CheckApprovable(in.CommitteeComments); err != nil {
		return nil, err
	}

	var (
		approved *reservation.Reservation
		from     reservation.Status
	)
	// The resource key is immutable, so locking on the pre-read key covers
	// the row re-read inside the transaction.
	err = uc.uow.WithinResourceLock(ctx, current.Resource(), func(ctx context.Context, tx shared.Tx) error {
		res, err := tx.Reservations().LockByID(ctx, id)
		if err != nil {
			return shared.TranslateNotFound(err, id)
		}
		if err := res.CheckApprovable(in.CommitteeComments); err != nil {
			return err
		}

		if !in.ForceApprove {
			report, err := uc.detector.Check(ctx, tx.Reservations(), res.Resource(), res.Dates(), res.ID())
			if err != nil {
				return err
			}
			if report.HasConflict {
				return &reservation.ConflictError{Report: report}
			}
		}

		from = res.Status()
		if err := res.Approve(actorID, in.CommitteeComments, in.ForceApprove, uc.clock.Now()); err != nil {
			return err
		}
		if err := tx.Reservations().Update(ctx, res); err != nil {
			return err
		}
		approved = res
		return nil
	})
	if err != nil {
		var conflictErr *reservation.ConflictError
		if errors.As(err, &conflictErr) {
			uc.metrics.Conflicts.Inc()
			uc.logger.Warn("approval refused by conflicting bookings",
				"reservation_id", id,
				"resource", current.Resource().String(),
				"conflicts", len(conflictErr.Report.Conflicts),
				"actor_id", actorID,
			)
		}
		return nil, err
	}

	if in.ForceApprove {
		uc.metrics.ForcedApprove.Inc()
	}
	uc.committed(ctx, approved, from, actorID, shared.EventApproved)
	return approved, nil
}

func (uc *reservationCommandsImpl) Reject(ctx context.Context, id, actorID uuid.UUID, in RejectInput) (*reservation.Reservation, error) {
	res, from, err := uc.transition(ctx, id, func(r *reservation.Reservation, now time.Time) error {
		return r.Reject(actorID, in.CommitteeComments, in.RejectionReason, now)
	})
	if err != nil {
		return nil, err
	}
	uc.committed(ctx, res, from, actorID, shared.EventRejected)
	return res, nil
}

func (uc *reservationCommandsImpl) Cancel(ctx context.Context, id, requesterID uuid.UUID) (*reservation.Reservation, error) {
	res, from, err := uc.transition(ctx, id, func(r *reservation.Reservation, now time.Time) error {
		return r.Cancel(requesterID, now)
	})
	if err != nil {
		return nil, err
	}
	uc.committed(ctx, res, from, requesterID, shared.EventCancelled)
	return res, nil
}

// transition applies a single-record change under the row lock.
func (uc *reservationCommandsImpl) transition(
	ctx context.Context,
	id uuid.UUID,
	apply func(r *reservation.Reservation, now time.Time) error,
) (*reservation.Reservation, reservation.Status, error) {
	var (
		out  *reservation.Reservation
		from reservation.Status
	)
	err := uc.uow.Within(ctx, func(ctx context.Context, tx shared.Tx) error {
		res, err := tx.Reservations().LockByID(ctx, id)
		if err != nil {
			return shared.TranslateNotFound(err, id)
		}
		from = res.Status()
		if err := apply(res, uc.clock.Now()); err != nil {
			return err
		}
		if err := tx.Reservations().Update(ctx, res); err != nil {
			return err
		}
		out = res
		return nil
	})
	if err != nil {
		return nil, "", err
	}
	return out, from, nil
}

// committed records a transition that is already durable. Notification
// failures are logged and never surface to the caller.
func (uc *reservationCommandsImpl) committed(
	ctx context.Context,
	res *reservation.Reservation,
	from reservation.Status,
	actorID uuid.UUID,
	eventType shared.EventType,
) {
	uc.metrics.Transitions.WithLabelValues(res.Status().String()).Inc()
	uc.logger.Info("reservation transition committed",
		"reservation_id", res.ID(),
		"from", from.String(),
		"to", res.Status().String(),
		"actor_id", actorID,
		"force_approved", res.ForceApproved(),
	)

	event := shared.ReservationEvent{
		Type:          eventType,
		ReservationID: res.ID(),
		RequesterID:   res.RequesterID(),
		ActorID:       actorID,
		Status:        res.Status().String(),
		OccurredAt:    res.UpdatedAt(),
	}
	if err := uc.notifier.Publish(ctx, event); err != nil {
		uc.logger.Warn("failed to publish reservation event",
			"reservation_id", res.ID(),
			"event", string(eventType),
			"error", err,
		)
	}
}

func (in CreateReservationInput) toParams() (reservation.NewParams, error) {
	kind, err := reservation.ParseResourceKind(in.ResourceKind)
	if err != nil {
		return reservation.NewParams{}, err
	}
	key, err := reservation.NewResourceKey(in.ResourceID, kind)
	if err != nil {
		return reservation.NewParams{}, err
	}
	dates, err := reservation.ParseDateRange(in.StartDate, in.EndDate)
	if err != nil {
		return reservation.NewParams{}, err
	}
	details, err := reservation.NewDetails(in.Details)
	if err != nil {
		return reservation.NewParams{}, err
	}
	return reservation.NewParams{
		RequesterID: in.RequesterID,
		CampusID:    in.CampusID,
		Title:       in.Title,
		Resource:    key,
		Dates:       dates,
		StartTime:   in.StartTime,
		EndTime:     in.EndTime,
		Details:     details,
	}, nil
}
