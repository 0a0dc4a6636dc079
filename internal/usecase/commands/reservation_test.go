//go:build unit

package commands_test

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"strings"
	"sync"
	"testing"
	"time"

	"campus-booking/internal/domain/reservation"
	"campus-booking/internal/infra/memstore"
	"campus-booking/internal/infra/storage"
	"campus-booking/internal/pkg/clock"
	"campus-booking/internal/pkg/keylock"
	"campus-booking/internal/pkg/metrics"
	"campus-booking/internal/usecase/commands"
	"campus-booking/internal/usecase/queries"
	"campus-booking/internal/usecase/shared"
	"campus-booking/tests/common/builder"

	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	promtest "github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/suite"
	"golang.org/x/sync/errgroup"
)

type recordingNotifier struct {
	mu     sync.Mutex
	events []shared.ReservationEvent
	err    error
}

func (n *recordingNotifier) Publish(_ context.Context, event shared.ReservationEvent) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.events = append(n.events, event)
	return n.err
}

func (n *recordingNotifier) types() []shared.EventType {
	n.mu.Lock()
	defer n.mu.Unlock()
	out := make([]shared.EventType, 0, len(n.events))
	for _, e := range n.events {
		out = append(out, e.Type)
	}
	return out
}

// failingUploader fails every stored filename ending in fail.
type failingUploader struct {
	inner shared.Uploader
	fail  string
	calls int
	mu    sync.Mutex
}

func (u *failingUploader) Store(ctx context.Context, data []byte, folder, filename, contentType string) (string, error) {
	u.mu.Lock()
	u.calls++
	u.mu.Unlock()
	if strings.HasSuffix(filename, u.fail) {
		return "", errors.New("bucket unavailable")
	}
	return u.inner.Store(ctx, data, folder, filename, contentType)
}

type ReservationCommandsTestSuite struct {
	suite.Suite
	store    *memstore.Store
	uow      *memstore.UoW
	uploader *storage.MemoryUploader
	notifier *recordingNotifier
	metrics  *metrics.Metrics
	clock    *clock.MockClock
	cmds     commands.ReservationCommands
	queries  queries.ReservationQueries
	reviewer uuid.UUID
}

func (s *ReservationCommandsTestSuite) SetupTest() {
	s.store = memstore.NewStore()
	s.uow = memstore.NewUoW(s.store, keylock.New())
	s.uploader = storage.NewMemoryUploader("https://files.example.edu")
	s.notifier = &recordingNotifier{}
	s.metrics = metrics.New(prometheus.NewRegistry())
	s.clock = clock.NewMockClock(time.Date(2024, 4, 20, 9, 0, 0, 0, time.UTC))
	s.reviewer = uuid.New()
	s.cmds = s.newCommands(s.uploader, s.notifier)
	s.queries = queries.NewReservationQueries(s.uow.Reads())
}

func (s *ReservationCommandsTestSuite) newCommands(uploader shared.Uploader, notifier shared.Notifier) commands.ReservationCommands {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	attacher := commands.NewDocumentAttacher(uploader, commands.AttachOptions{Timeout: time.Second, MaxBytes: 1 << 10}, s.metrics, logger)
	return commands.NewReservationCommands(s.uow, attacher, commands.NewConflictDetector(), notifier, s.metrics, s.clock, logger)
}

func (s *ReservationCommandsTestSuite) seed(r *reservation.Reservation) *reservation.Reservation {
	err := s.uow.Within(context.Background(), func(ctx context.Context, tx shared.Tx) error {
		return tx.Reservations().Insert(ctx, r)
	})
	s.Require().NoError(err)
	return r
}

func (s *ReservationCommandsTestSuite) stored(id uuid.UUID) *reservation.Reservation {
	r, err := s.uow.Reads().FindByID(context.Background(), id)
	s.Require().NoError(err)
	return r
}

func TestReservationCommandsSuite(t *testing.T) {
	suite.Run(t, new(ReservationCommandsTestSuite))
}

// ================================================================================
// End-to-end lifecycle on one resource
// ================================================================================

func (s *ReservationCommandsTestSuite) TestLifecycleScenarios() {
	ctx := context.Background()
	requester := uuid.New()

	// 1. A is created PENDING.
	a, err := s.cmds.Create(ctx, builder.NewReservationBuilder().
		WithRequester(requester).WithTitle("Orientation").
		WithResource("L1", "location").WithDates("2024-05-01", "2024-05-03").
		BuildCreateInput())
	s.Require().NoError(err)
	s.Equal(reservation.StatusPending, a.Status())

	// 2. First booking at L1 approves cleanly.
	check, err := s.queries.CheckConflicts(ctx, a.ID())
	s.Require().NoError(err)
	s.False(check.HasConflict)
	s.Empty(check.Conflicts)

	a, err = s.cmds.Approve(ctx, a.ID(), s.reviewer, commands.ApproveInput{CommitteeComments: "welcome"})
	s.Require().NoError(err)
	s.Equal(reservation.StatusApproved, a.Status())
	s.False(a.ForceApproved())

	// 3. Overlapping B is refused with A as the conflict and a two-day suggestion.
	b, err := s.cmds.Create(ctx, builder.NewReservationBuilder().
		WithTitle("Hackathon").
		WithResource("L1", "location").WithDates("2024-05-02", "2024-05-04").
		BuildCreateInput())
	s.Require().NoError(err)

	_, err = s.cmds.Approve(ctx, b.ID(), s.reviewer, commands.ApproveInput{CommitteeComments: "ok"})
	var conflictErr *reservation.ConflictError
	s.Require().ErrorAs(err, &conflictErr)
	s.ErrorIs(err, reservation.ErrConflict)
	s.Require().Len(conflictErr.Report.Conflicts, 1)
	s.Equal(a.ID(), conflictErr.Report.Conflicts[0].ID)
	s.Require().NotNil(conflictErr.Report.Suggestion)
	s.Equal("2024-05-04", conflictErr.Report.Suggestion.Start().Format(reservation.DateLayout))
	s.Equal("2024-05-06", conflictErr.Report.Suggestion.End().Format(reservation.DateLayout))
	s.Equal(reservation.StatusPending, s.stored(b.ID()).Status())
	s.Equal(1.0, promtest.ToFloat64(s.metrics.Conflicts))

	// 4. Forcing overrides the conflict.
	b, err = s.cmds.Approve(ctx, b.ID(), s.reviewer, commands.ApproveInput{CommitteeComments: "vip", ForceApprove: true})
	s.Require().NoError(err)
	s.Equal(reservation.StatusApproved, b.Status())
	s.True(b.ForceApproved())
	s.Equal(1.0, promtest.ToFloat64(s.metrics.ForcedApprove))

	// 5. An APPROVED reservation cannot be cancelled.
	_, err = s.cmds.Cancel(ctx, a.ID(), requester)
	var stateErr *reservation.StateError
	s.Require().ErrorAs(err, &stateErr)
	s.Equal(reservation.StatusApproved, stateErr.Status)

	// 6. Both bookings block the calendar.
	ranges, err := s.queries.BlockedRanges(ctx, "L1", "location")
	s.Require().NoError(err)
	s.ElementsMatch([]queries.BlockedRange{
		{ReservationID: a.ID(), Start: "2024-05-01", End: "2024-05-03", Title: "Orientation"},
		{ReservationID: b.ID(), Start: "2024-05-02", End: "2024-05-04", Title: "Hackathon"},
	}, ranges)

	s.Equal([]shared.EventType{
		shared.EventCreated, shared.EventApproved, shared.EventCreated, shared.EventApproved,
	}, s.notifier.types())
}

// ================================================================================
// Create
// ================================================================================

func (s *ReservationCommandsTestSuite) TestCreate() {
	ctx := context.Background()

	s.Run("success: documents keep submission order", func() {
		in := builder.NewReservationBuilder().
			WithFile("agenda.pdf", "application/pdf", []byte("a")).
			WithFile("budget.csv", "text/csv", []byte("b")).
			WithFile("poster.png", "", []byte("c")).
			BuildCreateInput()

		res, err := s.cmds.Create(ctx, in)
		s.Require().NoError(err)

		docs := res.Documents()
		s.Require().Len(docs, 3)
		s.Equal([]string{"agenda.pdf", "budget.csv", "poster.png"}, []string{docs[0].Name, docs[1].Name, docs[2].Name})
		s.Equal("https://files.example.edu/reservations/"+res.ID().String()+"/0-agenda.pdf", docs[0].URL)
		s.Equal("application/octet-stream", docs[2].Type)
		s.Equal(docs, s.stored(res.ID()).Documents())
	})

	s.Run("error: one failed upload aborts the whole creation", func() {
		before := s.countAll()
		uploader := &failingUploader{inner: s.uploader, fail: "broken.pdf"}
		cmds := s.newCommands(uploader, s.notifier)

		in := builder.NewReservationBuilder().
			WithFile("fine.pdf", "application/pdf", []byte("a")).
			WithFile("broken.pdf", "application/pdf", []byte("b")).
			BuildCreateInput()

		_, err := cmds.Create(ctx, in)
		var uploadErr *shared.UploadError
		s.Require().ErrorAs(err, &uploadErr)
		s.Equal("broken.pdf", uploadErr.Name)
		s.ErrorIs(err, shared.ErrUpload)
		s.Equal(before, s.countAll())
	})

	s.Run("error: validation fails before any upload", func() {
		uploader := &failingUploader{inner: s.uploader, fail: "never"}
		cmds := s.newCommands(uploader, s.notifier)

		in := builder.NewReservationBuilder().
			WithDates("2024-05-05", "2024-05-01").
			WithFile("plan.pdf", "application/pdf", []byte("a")).
			BuildCreateInput()

		_, err := cmds.Create(ctx, in)
		s.ErrorIs(err, reservation.ErrValidation)
		s.Zero(uploader.calls)
	})

	s.Run("error: oversized file is a validation error", func() {
		in := builder.NewReservationBuilder().
			WithFile("huge.bin", "application/octet-stream", make([]byte, 2<<10)).
			BuildCreateInput()

		_, err := s.cmds.Create(ctx, in)
		var vErr *reservation.ValidationError
		s.Require().ErrorAs(err, &vErr)
		s.Equal("files[0]", vErr.Field)
	})

	s.Run("error: required fields are validated", func() {
		cases := []struct {
			name  string
			mut   func(b *builder.ReservationBuilder)
			field string
		}{
			{name: "title", mut: func(b *builder.ReservationBuilder) { b.Title = "  " }, field: "title"},
			{name: "resource kind", mut: func(b *builder.ReservationBuilder) { b.ResourceKind = "room" }, field: "resourceKind"},
			{name: "resource id", mut: func(b *builder.ReservationBuilder) { b.ResourceID = "" }, field: "resourceId"},
			{name: "start date", mut: func(b *builder.ReservationBuilder) { b.StartDate = "05/01/2024" }, field: "startDate"},
		}
		for _, tc := range cases {
			s.Run(tc.name, func() {
				_, err := s.cmds.Create(ctx, builder.NewReservationBuilder().With(tc.mut).BuildCreateInput())
				var vErr *reservation.ValidationError
				s.Require().ErrorAs(err, &vErr)
				s.Equal(tc.field, vErr.Field)
			})
		}
	})

	s.Run("success: notifier failure does not change the outcome", func() {
		notifier := &recordingNotifier{err: errors.New("broker down")}
		cmds := s.newCommands(s.uploader, notifier)

		res, err := cmds.Create(ctx, builder.NewReservationBuilder().BuildCreateInput())
		s.Require().NoError(err)
		s.Equal(reservation.StatusPending, s.stored(res.ID()).Status())
		s.Equal([]shared.EventType{shared.EventCreated}, notifier.types())
	})
}

func (s *ReservationCommandsTestSuite) countAll() int {
	_, total, err := s.uow.Reads().List(context.Background(), shared.ReservationFilter{}, 1, 0)
	s.Require().NoError(err)
	return total
}

// ================================================================================
// Review / Approve / Reject state matrix
// ================================================================================

func (s *ReservationCommandsTestSuite) TestTransitionPreconditions() {
	ctx := context.Background()
	all := []reservation.Status{
		reservation.StatusPending,
		reservation.StatusUnderReview,
		reservation.StatusApproved,
		reservation.StatusRejected,
		reservation.StatusCancelled,
	}

	ops := []struct {
		name    string
		allowed map[reservation.Status]bool
		run     func(id uuid.UUID) (*reservation.Reservation, error)
		want    reservation.Status
	}{
		{
			name:    "review",
			allowed: map[reservation.Status]bool{reservation.StatusPending: true},
			run: func(id uuid.UUID) (*reservation.Reservation, error) {
				return s.cmds.Review(ctx, id, s.reviewer, "checked")
			},
			want: reservation.StatusUnderReview,
		},
		{
			name:    "approve",
			allowed: map[reservation.Status]bool{reservation.StatusPending: true, reservation.StatusUnderReview: true},
			run: func(id uuid.UUID) (*reservation.Reservation, error) {
				return s.cmds.Approve(ctx, id, s.reviewer, commands.ApproveInput{CommitteeComments: "ok"})
			},
			want: reservation.StatusApproved,
		},
		{
			name:    "reject",
			allowed: map[reservation.Status]bool{reservation.StatusPending: true},
			run: func(id uuid.UUID) (*reservation.Reservation, error) {
				return s.cmds.Reject(ctx, id, s.reviewer, commands.RejectInput{CommitteeComments: "no", RejectionReason: "budget"})
			},
			want: reservation.StatusRejected,
		},
	}

	for _, op := range ops {
		for _, from := range all {
			s.Run(op.name+" from "+from.String(), func() {
				// Each case gets its own resource so approvals never conflict.
				r := s.seed(builder.NewReservationBuilder().
					WithResource(uuid.NewString(), "building").
					WithStatus(from).MustBuildStored())

				res, err := op.run(r.ID())
				if op.allowed[from] {
					s.Require().NoError(err)
					s.Equal(op.want, res.Status())
					s.Equal(op.want, s.stored(r.ID()).Status())
					return
				}
				var stateErr *reservation.StateError
				s.Require().ErrorAs(err, &stateErr)
				s.Equal(from, stateErr.Status)
				s.Equal(from, s.stored(r.ID()).Status())
			})
		}
	}
}

func (s *ReservationCommandsTestSuite) TestDecisionInputs() {
	ctx := context.Background()

	s.Run("review requires notes", func() {
		r := s.seed(builder.NewReservationBuilder().MustBuildStored())
		_, err := s.cmds.Review(ctx, r.ID(), s.reviewer, " ")
		s.ErrorIs(err, reservation.ErrValidation)
		s.Equal(reservation.StatusPending, s.stored(r.ID()).Status())
	})

	s.Run("approve requires committee comments", func() {
		r := s.seed(builder.NewReservationBuilder().MustBuildStored())
		_, err := s.cmds.Approve(ctx, r.ID(), s.reviewer, commands.ApproveInput{})
		var vErr *reservation.ValidationError
		s.Require().ErrorAs(err, &vErr)
		s.Equal("committeeComments", vErr.Field)
	})

	s.Run("reject requires a reason", func() {
		r := s.seed(builder.NewReservationBuilder().MustBuildStored())
		_, err := s.cmds.Reject(ctx, r.ID(), s.reviewer, commands.RejectInput{CommitteeComments: "no"})
		var vErr *reservation.ValidationError
		s.Require().ErrorAs(err, &vErr)
		s.Equal("rejectionReason", vErr.Field)
	})

	s.Run("empty comments on a decided reservation report its status", func() {
		r := s.seed(builder.NewReservationBuilder().WithStatus(reservation.StatusApproved).MustBuildStored())

		_, err := s.cmds.Approve(ctx, r.ID(), s.reviewer, commands.ApproveInput{})
		var sErr *reservation.StateError
		s.Require().ErrorAs(err, &sErr)
		s.Equal(reservation.StatusApproved, sErr.Status)

		_, err = s.cmds.Review(ctx, r.ID(), s.reviewer, "")
		s.ErrorIs(err, reservation.ErrState)

		_, err = s.cmds.Reject(ctx, r.ID(), s.reviewer, commands.RejectInput{})
		s.ErrorIs(err, reservation.ErrState)
		s.Equal(reservation.StatusApproved, s.stored(r.ID()).Status())
	})

	s.Run("decisions record actor and time", func() {
		r := s.seed(builder.NewReservationBuilder().MustBuildStored())
		s.clock.Set(time.Date(2024, 4, 21, 15, 30, 0, 0, time.UTC))

		res, err := s.cmds.Reject(ctx, r.ID(), s.reviewer, commands.RejectInput{CommitteeComments: "no", RejectionReason: "budget"})
		s.Require().NoError(err)
		s.Require().NotNil(res.Rejected())
		s.Equal(s.reviewer, res.Rejected().ActorID)
		s.Equal(s.clock.Now(), res.Rejected().At)
		s.Equal(s.clock.Now(), res.UpdatedAt())
		s.Equal("budget", s.stored(r.ID()).RejectionReason())
	})

	s.Run("unknown id is NotFound for every operation", func() {
		id := uuid.New()
		_, err := s.cmds.Review(ctx, id, s.reviewer, "x")
		s.ErrorIs(err, shared.ErrNotFound)
		_, err = s.cmds.Approve(ctx, id, s.reviewer, commands.ApproveInput{CommitteeComments: "x"})
		s.ErrorIs(err, shared.ErrNotFound)
		_, err = s.cmds.Reject(ctx, id, s.reviewer, commands.RejectInput{CommitteeComments: "x", RejectionReason: "y"})
		s.ErrorIs(err, shared.ErrNotFound)
		_, err = s.cmds.Cancel(ctx, id, uuid.New())
		s.ErrorIs(err, shared.ErrNotFound)
	})
}

// ================================================================================
// Cancel
// ================================================================================

func (s *ReservationCommandsTestSuite) TestCancel() {
	ctx := context.Background()
	owner := uuid.New()

	cases := []struct {
		name    string
		status  reservation.Status
		caller  uuid.UUID
		wantErr error
	}{
		{name: "owner, PENDING", status: reservation.StatusPending, caller: owner},
		{name: "stranger, PENDING", status: reservation.StatusPending, caller: uuid.New(), wantErr: reservation.ErrPermission},
		{name: "owner, UNDER_REVIEW", status: reservation.StatusUnderReview, caller: owner, wantErr: reservation.ErrState},
		{name: "owner, APPROVED", status: reservation.StatusApproved, caller: owner, wantErr: reservation.ErrState},
		{name: "owner, REJECTED", status: reservation.StatusRejected, caller: owner, wantErr: reservation.ErrState},
		{name: "owner, CANCELLED", status: reservation.StatusCancelled, caller: owner, wantErr: reservation.ErrState},
		{name: "stranger, APPROVED", status: reservation.StatusApproved, caller: uuid.New(), wantErr: reservation.ErrPermission},
	}
	for _, tc := range cases {
		s.Run(tc.name, func() {
			r := s.seed(builder.NewReservationBuilder().WithRequester(owner).WithStatus(tc.status).MustBuildStored())

			res, err := s.cmds.Cancel(ctx, r.ID(), tc.caller)
			if tc.wantErr != nil {
				s.ErrorIs(err, tc.wantErr)
				s.Equal(tc.status, s.stored(r.ID()).Status())
				return
			}
			s.Require().NoError(err)
			s.Equal(reservation.StatusCancelled, res.Status())
			s.Equal(reservation.StatusCancelled, s.stored(r.ID()).Status())
		})
	}
}

// ================================================================================
// Concurrency
// ================================================================================

func (s *ReservationCommandsTestSuite) TestApprove_ConcurrentOverlappingRequests() {
	ctx := context.Background()
	const n = 8

	ids := make([]uuid.UUID, n)
	for i := range n {
		r := s.seed(builder.NewReservationBuilder().
			WithResource("HALL-A", "building").
			WithDates("2024-09-01", "2024-09-10").
			MustBuildStored())
		ids[i] = r.ID()
	}

	results := make([]error, n)
	var g errgroup.Group
	for i, id := range ids {
		g.Go(func() error {
			_, err := s.cmds.Approve(ctx, id, s.reviewer, commands.ApproveInput{CommitteeComments: "ok"})
			results[i] = err
			return nil
		})
	}
	s.Require().NoError(g.Wait())

	var succeeded, conflicted int
	for _, err := range results {
		switch {
		case err == nil:
			succeeded++
		case errors.Is(err, reservation.ErrConflict):
			conflicted++
		default:
			s.Failf("unexpected error", "%v", err)
		}
	}
	s.Equal(1, succeeded)
	s.Equal(n-1, conflicted)

	ranges, err := s.queries.BlockedRanges(ctx, "HALL-A", "building")
	s.Require().NoError(err)
	s.Len(ranges, 1)
}

func (s *ReservationCommandsTestSuite) TestApprove_NonOverlappingRequestsAllSucceed() {
	ctx := context.Background()
	dates := [][2]string{{"2024-10-01", "2024-10-02"}, {"2024-10-03", "2024-10-04"}, {"2024-10-05", "2024-10-05"}}

	var g errgroup.Group
	for _, d := range dates {
		r := s.seed(builder.NewReservationBuilder().WithResource("HALL-B", "building").WithDates(d[0], d[1]).MustBuildStored())
		g.Go(func() error {
			_, err := s.cmds.Approve(ctx, r.ID(), s.reviewer, commands.ApproveInput{CommitteeComments: "ok"})
			return err
		})
	}
	s.Require().NoError(g.Wait())

	ranges, err := s.queries.BlockedRanges(ctx, "HALL-B", "building")
	s.Require().NoError(err)
	s.Len(ranges, len(dates))
}
