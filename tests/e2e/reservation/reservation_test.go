//go:build e2e

package reservation_test

import (
	"net/http"
	"testing"

	"campus-booking/internal/domain/reservation"
	"campus-booking/internal/domain/user"
	"campus-booking/internal/handler/dto/response"
	"campus-booking/tests/common/authtest"
	"campus-booking/tests/common/builder"
	"campus-booking/tests/common/dbtest"
	"campus-booking/tests/common/httptest"
	"campus-booking/tests/e2e"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
	"golang.org/x/sync/errgroup"
)

const reservationsURL = "/reservations"

type ReservationSuite struct {
	e2e.SharedSuite
	jwt       *authtest.JWTHelper
	requester uuid.UUID
	reviewer  uuid.UUID
}

func (s *ReservationSuite) SetupSuite() {
	s.SharedSuite.SetupSuite()
	s.jwt = authtest.NewJWTHelper(s.Config.JWT)
	s.requester = uuid.New()
	s.reviewer = uuid.New()
}

func (s *ReservationSuite) SetupSubTest() {
	s.SharedSuite.SetupSubTest()
}

func TestReservationSuite(t *testing.T) {
	t.Parallel()
	suite.Run(t, new(ReservationSuite))
}

func (s *ReservationSuite) requesterToken() string {
	return s.jwt.GenerateToken(s.T(), s.requester, user.RoleRequester)
}

func (s *ReservationSuite) reviewerToken() string {
	return s.jwt.GenerateToken(s.T(), s.reviewer, user.RoleReviewer)
}

func (s *ReservationSuite) decide(id uuid.UUID, action string, body any) *response.ReservationResponse {
	t := s.T()
	w := httptest.PerformRequest(t, s.Router, http.MethodPost,
		reservationsURL+"/"+id.String()+"/"+action, body, s.reviewerToken())
	var res response.ReservationResponse
	httptest.AssertSuccessResponse(t, w, http.StatusOK, &res)
	return &res
}

// =============================================================================
// TestLifecycle - submit, review, approve and the resulting calendar
// =============================================================================

func (s *ReservationSuite) TestLifecycle() {
	s.Run("Normal case: submitted reservation moves through review to approval", func() {
		t := s.T()

		fields := map[string]string{
			"title":        "Robotics Fair",
			"resourceId":   "B7",
			"resourceKind": "building",
			"startDate":    "2024-06-10",
			"endDate":      "2024-06-12",
			"startTime":    "09:00",
			"endTime":      "17:00",
			"details":      `{"objectives":"student showcase"}`,
		}
		files := map[string][]httptest.FilePart{
			"files": {{Name: "floor plan.pdf", ContentType: "application/pdf", Data: []byte("%PDF-1.4")}},
		}
		w := httptest.PerformMultipartRequest(t, s.Router, http.MethodPost, reservationsURL, fields, files, s.requesterToken())

		var created response.ReservationResponse
		httptest.AssertSuccessResponse(t, w, http.StatusCreated, &created)
		require.NotEqual(t, uuid.Nil, created.ID)

		expected := &response.ReservationResponse{
			RequesterID:      s.requester,
			Title:            "Robotics Fair",
			ResourceID:       "B7",
			ResourceKind:     "building",
			StartDate:        "2024-06-10",
			EndDate:          "2024-06-12",
			StartTime:        "09:00",
			EndTime:          "17:00",
			Status:           "PENDING",
			ValidationStatus: "PENDING",
		}
		opts := []cmp.Option{
			cmpopts.IgnoreFields(response.ReservationResponse{}, "ID", "Details", "Documents", "CreatedAt", "UpdatedAt"),
		}
		if diff := cmp.Diff(expected, &created, opts...); diff != "" {
			t.Errorf("created reservation mismatch (-want +got):\n%s", diff)
		}
		require.Len(t, created.Documents, 1)
		require.Equal(t, "floor plan.pdf", created.Documents[0].Name)
		require.Contains(t, created.Documents[0].URL, "reservations/"+created.ID.String())

		reviewed := s.decide(created.ID, "review", map[string]any{"reviewNotes": "checked"})
		require.Equal(t, "UNDER_REVIEW", reviewed.Status)
		require.Equal(t, &s.reviewer, reviewed.ReviewedBy)

		approved := s.decide(created.ID, "approve", map[string]any{"committeeComments": "enjoy"})
		require.Equal(t, "APPROVED", approved.Status)
		require.False(t, approved.ForceApproved)
		require.Equal(t, "checked", approved.ReviewNotes)

		bw := httptest.PerformRequest(t, s.Router, http.MethodGet,
			reservationsURL+"/blocked-dates?resourceId=B7&resourceKind=building", nil, s.requesterToken())
		var blocked []response.BlockedRangeResponse
		httptest.AssertSuccessResponse(t, bw, http.StatusOK, &blocked)
		require.Equal(t, []response.BlockedRangeResponse{{
			ReservationID: created.ID,
			Start:         "2024-06-10",
			End:           "2024-06-12",
			Title:         "Robotics Fair",
		}}, blocked)
	})

	s.Run("Error case: a requester cannot approve", func() {
		t := s.T()
		pending := builder.NewReservationBuilder().WithRequester(s.requester).MustBuildStored()
		id := dbtest.InsertReservation(t, s.DB, pending)

		w := httptest.PerformRequest(t, s.Router, http.MethodPost,
			reservationsURL+"/"+id.String()+"/approve", map[string]any{"committeeComments": "ok"}, s.requesterToken())
		require.Equal(t, http.StatusForbidden, w.Code, w.Body.String())
	})

	s.Run("Error case: an expired token is refused", func() {
		t := s.T()
		token := s.jwt.CreateExpiredToken(t, s.requester, user.RoleRequester)
		w := httptest.PerformRequest(t, s.Router, http.MethodGet, reservationsURL, nil, token)
		require.Equal(t, http.StatusUnauthorized, w.Code)
	})
}

// =============================================================================
// TestApproveConflicts - conflict detection against APPROVED bookings
// =============================================================================

func (s *ReservationSuite) TestApproveConflicts() {
	s.Run("Error case: overlapping approval returns 409 with a suggestion", func() {
		t := s.T()
		existing := builder.NewReservationBuilder().
			WithResource("L1", "location").WithDates("2024-05-01", "2024-05-03").
			WithStatus(reservation.StatusApproved).MustBuildStored()
		dbtest.InsertReservation(t, s.DB, existing)

		candidate := builder.NewReservationBuilder().
			WithResource("L1", "location").WithDates("2024-05-02", "2024-05-04").MustBuildStored()
		id := dbtest.InsertReservation(t, s.DB, candidate)

		w := httptest.PerformRequest(t, s.Router, http.MethodPost,
			reservationsURL+"/"+id.String()+"/approve", map[string]any{"committeeComments": "ok"}, s.reviewerToken())
		detail := httptest.AssertErrorCode(t, w, http.StatusConflict, "EVENT_CONFLICT")

		conflicts := detail["conflicts"].([]any)
		require.Len(t, conflicts, 1)
		require.Equal(t, existing.ID().String(), conflicts[0].(map[string]any)["id"])
		require.Equal(t, map[string]any{"start": "2024-05-04", "end": "2024-05-06"}, detail["suggestion"])

		gw := httptest.PerformRequest(t, s.Router, http.MethodGet, reservationsURL+"/"+id.String(), nil, s.reviewerToken())
		var stored response.ReservationResponse
		httptest.AssertSuccessResponse(t, gw, http.StatusOK, &stored)
		require.Equal(t, "PENDING", stored.Status)
	})

	s.Run("Normal case: force approve overrides the conflict and is recorded", func() {
		t := s.T()
		existing := builder.NewReservationBuilder().
			WithResource("L1", "location").WithDates("2024-05-01", "2024-05-03").
			WithStatus(reservation.StatusApproved).MustBuildStored()
		dbtest.InsertReservation(t, s.DB, existing)

		candidate := builder.NewReservationBuilder().
			WithResource("L1", "location").WithDates("2024-05-03", "2024-05-03").MustBuildStored()
		id := dbtest.InsertReservation(t, s.DB, candidate)

		approved := s.decide(id, "approve", map[string]any{"committeeComments": "vip", "forceApprove": true})
		require.Equal(t, "APPROVED", approved.Status)
		require.True(t, approved.ForceApproved)
		require.Equal(t, 2, dbtest.CountByStatus(t, s.DB, candidate.Resource(), reservation.StatusApproved))
	})

	s.Run("Normal case: another resource kind with the same id does not conflict", func() {
		t := s.T()
		existing := builder.NewReservationBuilder().
			WithResource("1", "building").WithDates("2024-05-01", "2024-05-03").
			WithStatus(reservation.StatusApproved).MustBuildStored()
		dbtest.InsertReservation(t, s.DB, existing)

		candidate := builder.NewReservationBuilder().
			WithResource("1", "location").WithDates("2024-05-01", "2024-05-03").MustBuildStored()
		id := dbtest.InsertReservation(t, s.DB, candidate)

		approved := s.decide(id, "approve", map[string]any{"committeeComments": "ok"})
		require.Equal(t, "APPROVED", approved.Status)
	})

	s.Run("Concurrency: only one of two overlapping approvals wins", func() {
		t := s.T()
		var ids []uuid.UUID
		for _, dates := range [][2]string{{"2024-07-01", "2024-07-05"}, {"2024-07-03", "2024-07-08"}} {
			r := builder.NewReservationBuilder().
				WithResource("OS-9", "open-space").WithDates(dates[0], dates[1]).MustBuildStored()
			ids = append(ids, dbtest.InsertReservation(t, s.DB, r))
		}

		token := s.reviewerToken()
		codes := make([]int, len(ids))
		var g errgroup.Group
		for i, id := range ids {
			g.Go(func() error {
				w := httptest.PerformRequest(t, s.Router, http.MethodPost,
					reservationsURL+"/"+id.String()+"/approve", map[string]any{"committeeComments": "ok"}, token)
				codes[i] = w.Code
				return nil
			})
		}
		require.NoError(t, g.Wait())

		require.ElementsMatch(t, []int{http.StatusOK, http.StatusConflict}, codes)
		key, err := reservation.NewResourceKey("OS-9", reservation.KindOpenSpace)
		require.NoError(t, err)
		require.Equal(t, 1, dbtest.CountByStatus(t, s.DB, key, reservation.StatusApproved))
	})
}

// =============================================================================
// TestCancelAndList - requester-owned operations
// =============================================================================

func (s *ReservationSuite) TestCancelAndList() {
	s.Run("Normal case: owner cancels a pending reservation", func() {
		t := s.T()
		pending := builder.NewReservationBuilder().WithRequester(s.requester).MustBuildStored()
		id := dbtest.InsertReservation(t, s.DB, pending)

		w := httptest.PerformRequest(t, s.Router, http.MethodPost,
			reservationsURL+"/"+id.String()+"/cancel", nil, s.requesterToken())
		var res response.ReservationResponse
		httptest.AssertSuccessResponse(t, w, http.StatusOK, &res)
		require.Equal(t, "CANCELLED", res.Status)
	})

	s.Run("Error case: cancelling an approved reservation is an invalid state", func() {
		t := s.T()
		approved := builder.NewReservationBuilder().WithRequester(s.requester).
			WithStatus(reservation.StatusApproved).MustBuildStored()
		id := dbtest.InsertReservation(t, s.DB, approved)

		w := httptest.PerformRequest(t, s.Router, http.MethodPost,
			reservationsURL+"/"+id.String()+"/cancel", nil, s.requesterToken())
		detail := httptest.AssertErrorCode(t, w, http.StatusBadRequest, "INVALID_STATE")
		require.Equal(t, "APPROVED", detail["currentStatus"])
	})

	s.Run("Error case: someone else's reservation cannot be cancelled", func() {
		t := s.T()
		other := builder.NewReservationBuilder().MustBuildStored()
		id := dbtest.InsertReservation(t, s.DB, other)

		w := httptest.PerformRequest(t, s.Router, http.MethodPost,
			reservationsURL+"/"+id.String()+"/cancel", nil, s.requesterToken())
		httptest.AssertErrorCode(t, w, http.StatusForbidden, "FORBIDDEN")
	})

	s.Run("Normal case: requesters only list their own reservations", func() {
		t := s.T()
		mine := dbtest.InsertReservation(t, s.DB, builder.NewReservationBuilder().WithRequester(s.requester).MustBuildStored())
		dbtest.InsertReservation(t, s.DB, builder.NewReservationBuilder().MustBuildStored())

		w := httptest.PerformRequest(t, s.Router, http.MethodGet, reservationsURL+"?limit=500", nil, s.requesterToken())
		var page response.ReservationListResponse
		httptest.AssertSuccessResponse(t, w, http.StatusOK, &page)
		require.Equal(t, 1, page.Total)
		require.Equal(t, 100, page.Limit)
		require.Len(t, page.Items, 1)
		require.Equal(t, mine, page.Items[0].ID)

		rw := httptest.PerformRequest(t, s.Router, http.MethodGet, reservationsURL, nil, s.reviewerToken())
		httptest.AssertSuccessResponse(t, rw, http.StatusOK, &page)
		require.Equal(t, 2, page.Total)
	})

	s.Run("Error case: requesters cannot read other people's reservations", func() {
		t := s.T()
		id := dbtest.InsertReservation(t, s.DB, builder.NewReservationBuilder().MustBuildStored())
		w := httptest.PerformRequest(t, s.Router, http.MethodGet, reservationsURL+"/"+id.String(), nil, s.requesterToken())
		httptest.AssertErrorCode(t, w, http.StatusNotFound, "NOT_FOUND")
	})
}

// =============================================================================
// TestOperationalEndpoints - health and metrics are served without auth
// =============================================================================

func (s *ReservationSuite) TestOperationalEndpoints() {
	s.Run("Normal case: health check", func() {
		t := s.T()
		w := httptest.PerformRequest(t, s.Router, http.MethodGet, "/health", nil, "")
		var body map[string]string
		httptest.AssertSuccessResponse(t, w, http.StatusOK, &body)
		require.Equal(t, "ok", body["status"])
	})

	s.Run("Normal case: metrics exposition", func() {
		t := s.T()
		w := httptest.PerformRequest(t, s.Router, http.MethodGet, "/metrics", nil, "")
		require.Equal(t, http.StatusOK, w.Code)
		require.Contains(t, w.Body.String(), "campus_booking_reservation_conflicts_total")
		require.Contains(t, w.Body.String(), "go_goroutines")
	})
}
