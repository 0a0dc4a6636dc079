//go:build unit

package reservation_test

import (
	"testing"
	"time"

	"campus-booking/internal/domain/reservation"
	"campus-booking/tests/common/builder"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var (
	allStatuses = []reservation.Status{
		reservation.StatusPending,
		reservation.StatusUnderReview,
		reservation.StatusApproved,
		reservation.StatusRejected,
		reservation.StatusCancelled,
	}
	now = time.Date(2024, 4, 2, 12, 0, 0, 0, time.UTC)
)

type testCase struct {
	name   string
	mutate func(*builder.ReservationBuilder)
	errIs  error
	field  string
}

func TestNewReservation(t *testing.T) {
	t.Run("basic success case", func(t *testing.T) {
		b := builder.NewReservationBuilder()
		actual, err := b.BuildDomain()
		require.NoError(t, err)

		assert.Equal(t, b.ID, actual.ID())
		assert.Equal(t, b.RequesterID, actual.RequesterID())
		assert.Equal(t, reservation.StatusPending, actual.Status())
		assert.Equal(t, reservation.StatusPending, actual.ValidationStatus())
		assert.Equal(t, "location:L1", actual.Resource().String())
		assert.Equal(t, "2024-05-01..2024-05-03", actual.Dates().String())
		assert.JSONEq(t, b.Details, string(actual.Details().Raw()))
		assert.Empty(t, actual.Documents())
		assert.NotNil(t, actual.Documents())
		assert.Nil(t, actual.Reviewed())
		assert.Nil(t, actual.Approved())
		assert.Nil(t, actual.Rejected())
		assert.False(t, actual.ForceApproved())
	})

	t.Run("structural validation", func(t *testing.T) {
		runCases(t, []testCase{
			{
				name:   "missing title",
				mutate: func(b *builder.ReservationBuilder) { b.WithTitle("   ") },
				errIs:  reservation.ErrValidation,
				field:  "title",
			},
			{
				name: "title too long",
				mutate: func(b *builder.ReservationBuilder) {
					long := make([]byte, reservation.MaxTitleLength+1)
					for i := range long {
						long[i] = 'a'
					}
					b.WithTitle(string(long))
				},
				errIs: reservation.ErrValidation,
				field: "title",
			},
			{
				name:   "missing resource id",
				mutate: func(b *builder.ReservationBuilder) { b.WithResource("", "location") },
				errIs:  reservation.ErrValidation,
				field:  "resourceId",
			},
			{
				name:   "unknown resource kind",
				mutate: func(b *builder.ReservationBuilder) { b.WithResource("L1", "parking") },
				errIs:  reservation.ErrValidation,
				field:  "resourceKind",
			},
			{
				name:   "start after end",
				mutate: func(b *builder.ReservationBuilder) { b.WithDates("2024-05-04", "2024-05-01") },
				errIs:  reservation.ErrValidation,
				field:  "endDate",
			},
			{
				name:   "malformed start date",
				mutate: func(b *builder.ReservationBuilder) { b.WithDates("05/01/2024", "2024-05-03") },
				errIs:  reservation.ErrValidation,
				field:  "startDate",
			},
			{
				name:   "missing end date",
				mutate: func(b *builder.ReservationBuilder) { b.WithDates("2024-05-01", "") },
				errIs:  reservation.ErrValidation,
				field:  "endDate",
			},
			{
				name:   "details not json",
				mutate: func(b *builder.ReservationBuilder) { b.Details = "{objectives" },
				errIs:  reservation.ErrValidation,
				field:  "details",
			},
			{
				name:   "missing requester",
				mutate: func(b *builder.ReservationBuilder) { b.WithRequester(uuid.Nil) },
				errIs:  reservation.ErrValidation,
				field:  "requesterId",
			},
			{
				name:   "single day booking",
				mutate: func(b *builder.ReservationBuilder) { b.WithDates("2024-05-01", "2024-05-01") },
			},
			{
				name:   "open space resource",
				mutate: func(b *builder.ReservationBuilder) { b.WithResource("quad-north", "open-space") },
			},
			{
				name:   "empty details default to object",
				mutate: func(b *builder.ReservationBuilder) { b.Details = "" },
			},
		})
	})
}

func runCases(t *testing.T, cases []testCase) {
	t.Helper()
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			actual, err := builder.NewReservationBuilder().With(c.mutate).BuildDomain()

			if c.errIs == nil {
				require.NoError(t, err)
				require.NotNil(t, actual)
				return
			}
			require.Nil(t, actual)
			require.ErrorIs(t, err, c.errIs)
			var verr *reservation.ValidationError
			require.ErrorAs(t, err, &verr)
			assert.Equal(t, c.field, verr.Field)
		})
	}
}

func TestReservation_Review(t *testing.T) {
	actor := uuid.New()

	for _, status := range allStatuses {
		t.Run(string(status), func(t *testing.T) {
			r := builder.NewReservationBuilder().WithStatus(status).MustBuildStored()

			err := r.Review(actor, "venue suits the event", now)

			if status != reservation.StatusPending {
				var serr *reservation.StateError
				require.ErrorAs(t, err, &serr)
				assert.Equal(t, status, serr.Status)
				assert.Equal(t, status, r.Status())
				return
			}
			require.NoError(t, err)
			assert.Equal(t, reservation.StatusUnderReview, r.Status())
			assert.Equal(t, "venue suits the event", r.ReviewNotes())
			require.NotNil(t, r.Reviewed())
			assert.Equal(t, actor, r.Reviewed().ActorID)
			assert.Equal(t, now, r.Reviewed().At)
			assert.Equal(t, now, r.UpdatedAt())
		})
	}

	t.Run("empty notes on PENDING is a validation error", func(t *testing.T) {
		r := builder.NewReservationBuilder().MustBuildStored()
		err := r.Review(actor, "  ", now)
		assert.ErrorIs(t, err, reservation.ErrValidation)
		assert.Equal(t, reservation.StatusPending, r.Status())
	})
}

// A status outside the precondition set wins over missing input, so callers
// always learn the reservation can no longer be decided.
func TestReservation_StateCheckedBeforeInputs(t *testing.T) {
	actor := uuid.New()

	ops := []struct {
		name    string
		allowed map[reservation.Status]bool
		call    func(r *reservation.Reservation) error
	}{
		{
			name:    "review",
			allowed: map[reservation.Status]bool{reservation.StatusPending: true},
			call:    func(r *reservation.Reservation) error { return r.Review(actor, "", now) },
		},
		{
			name:    "approve",
			allowed: map[reservation.Status]bool{reservation.StatusPending: true, reservation.StatusUnderReview: true},
			call:    func(r *reservation.Reservation) error { return r.Approve(actor, "", false, now) },
		},
		{
			name:    "check approvable",
			allowed: map[reservation.Status]bool{reservation.StatusPending: true, reservation.StatusUnderReview: true},
			call:    func(r *reservation.Reservation) error { return r.CheckApprovable(" ") },
		},
		{
			name:    "reject",
			allowed: map[reservation.Status]bool{reservation.StatusPending: true},
			call:    func(r *reservation.Reservation) error { return r.Reject(actor, "", "", now) },
		},
	}

	for _, op := range ops {
		for _, status := range allStatuses {
			t.Run(op.name+"/"+string(status), func(t *testing.T) {
				r := builder.NewReservationBuilder().WithStatus(status).MustBuildStored()

				err := op.call(r)

				if op.allowed[status] {
					assert.ErrorIs(t, err, reservation.ErrValidation)
				} else {
					var serr *reservation.StateError
					require.ErrorAs(t, err, &serr)
					assert.Equal(t, status, serr.Status)
					assert.NotErrorIs(t, err, reservation.ErrValidation)
				}
				assert.Equal(t, status, r.Status())
			})
		}
	}
}

func TestReservation_Approve(t *testing.T) {
	actor := uuid.New()

	for _, status := range allStatuses {
		t.Run(string(status), func(t *testing.T) {
			r := builder.NewReservationBuilder().WithStatus(status).MustBuildStored()
			before := r.Approved()

			err := r.Approve(actor, "committee agrees", false, now)

			if status != reservation.StatusPending && status != reservation.StatusUnderReview {
				assert.ErrorIs(t, err, reservation.ErrState)
				assert.Equal(t, status, r.Status())
				assert.Equal(t, before, r.Approved())
				return
			}
			require.NoError(t, err)
			assert.Equal(t, reservation.StatusApproved, r.Status())
			assert.Equal(t, "committee agrees", r.CommitteeComments())
			require.NotNil(t, r.Approved())
			assert.Equal(t, actor, r.Approved().ActorID)
			assert.False(t, r.ForceApproved())
		})
	}

	t.Run("forced flag recorded", func(t *testing.T) {
		r := builder.NewReservationBuilder().MustBuildStored()
		require.NoError(t, r.Approve(actor, "ok", true, now))
		assert.True(t, r.ForceApproved())
	})

	t.Run("comments required", func(t *testing.T) {
		r := builder.NewReservationBuilder().MustBuildStored()
		err := r.Approve(actor, "", false, now)
		var verr *reservation.ValidationError
		require.ErrorAs(t, err, &verr)
		assert.Equal(t, "committeeComments", verr.Field)
		assert.Equal(t, reservation.StatusPending, r.Status())
	})
}

func TestReservation_Reject(t *testing.T) {
	actor := uuid.New()

	for _, status := range allStatuses {
		t.Run(string(status), func(t *testing.T) {
			r := builder.NewReservationBuilder().WithStatus(status).MustBuildStored()

			err := r.Reject(actor, "reviewed", "clashes with exams", now)

			if status != reservation.StatusPending {
				assert.ErrorIs(t, err, reservation.ErrState)
				assert.Equal(t, status, r.Status())
				return
			}
			require.NoError(t, err)
			assert.Equal(t, reservation.StatusRejected, r.Status())
			assert.Equal(t, "clashes with exams", r.RejectionReason())
			require.NotNil(t, r.Rejected())
			assert.Equal(t, actor, r.Rejected().ActorID)
		})
	}

	t.Run("both comment fields required", func(t *testing.T) {
		r := builder.NewReservationBuilder().MustBuildStored()

		var verr *reservation.ValidationError
		require.ErrorAs(t, r.Reject(actor, "", "reason", now), &verr)
		assert.Equal(t, "committeeComments", verr.Field)
		require.ErrorAs(t, r.Reject(actor, "comments", " ", now), &verr)
		assert.Equal(t, "rejectionReason", verr.Field)
		assert.Equal(t, reservation.StatusPending, r.Status())
	})
}

func TestReservation_Cancel(t *testing.T) {
	owner := uuid.New()
	stranger := uuid.New()

	for _, status := range allStatuses {
		for _, caller := range []uuid.UUID{owner, stranger} {
			isOwner := caller == owner
			name := string(status) + "/stranger"
			if isOwner {
				name = string(status) + "/owner"
			}
			t.Run(name, func(t *testing.T) {
				r := builder.NewReservationBuilder().WithRequester(owner).WithStatus(status).MustBuildStored()

				err := r.Cancel(caller, now)

				switch {
				case !isOwner:
					assert.ErrorIs(t, err, reservation.ErrPermission)
					assert.Equal(t, status, r.Status())
				case status != reservation.StatusPending:
					var serr *reservation.StateError
					require.ErrorAs(t, err, &serr)
					assert.Equal(t, status, serr.Status)
					assert.Equal(t, status, r.Status())
				default:
					require.NoError(t, err)
					assert.Equal(t, reservation.StatusCancelled, r.Status())
				}
			})
		}
	}
}

func TestReservation_DocumentsAreCopied(t *testing.T) {
	b := builder.NewReservationBuilder()
	b.Documents = []reservation.Document{{Name: "plan.pdf", URL: "https://files/plan.pdf", Type: "application/pdf"}}
	r, err := b.BuildDomain()
	require.NoError(t, err)

	docs := r.Documents()
	docs[0].URL = "tampered"
	b.Documents[0].Name = "tampered"

	assert.Equal(t, "https://files/plan.pdf", r.Documents()[0].URL)
	assert.Equal(t, "plan.pdf", r.Documents()[0].Name)
}

func TestReservation_SnapshotRoundTrip(t *testing.T) {
	r := builder.NewReservationBuilder().WithStatus(reservation.StatusRejected).MustBuildStored()

	again := reservation.Reconstruct(r.Snapshot())

	assert.Equal(t, r.Snapshot(), again.Snapshot())
}

func TestStatus_IsTerminal(t *testing.T) {
	assert.False(t, reservation.StatusPending.IsTerminal())
	assert.False(t, reservation.StatusUnderReview.IsTerminal())
	assert.True(t, reservation.StatusApproved.IsTerminal())
	assert.True(t, reservation.StatusRejected.IsTerminal())
	assert.True(t, reservation.StatusCancelled.IsTerminal())

	_, err := reservation.ParseStatus("DONE")
	assert.ErrorIs(t, err, reservation.ErrValidation)
}
