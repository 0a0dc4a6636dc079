package queries

import (
	"encoding/json"
	"time"

	"campus-booking/internal/domain/reservation"

	"github.com/google/uuid"
)

// Read models (DTO for read side)
type ReservationView struct {
	ID                uuid.UUID              `json:"id"`
	RequesterID       uuid.UUID              `json:"requesterId"`
	CampusID          *uuid.UUID             `json:"campusId,omitempty"`
	Title             string                 `json:"title"`
	ResourceID        string                 `json:"resourceId"`
	ResourceKind      string                 `json:"resourceKind"`
	StartDate         string                 `json:"startDate"`
	EndDate           string                 `json:"endDate"`
	StartTime         string                 `json:"startTime,omitempty"`
	EndTime           string                 `json:"endTime,omitempty"`
	Details           json.RawMessage        `json:"details"`
	Documents         []reservation.Document `json:"documents"`
	Status            string                 `json:"status"`
	ValidationStatus  string                 `json:"validationStatus"`
	CommitteeComments string                 `json:"committeeComments,omitempty"`
	RejectionReason   string                 `json:"rejectionReason,omitempty"`
	ReviewNotes       string                 `json:"reviewNotes,omitempty"`
	ReviewedBy        *uuid.UUID             `json:"reviewedBy,omitempty"`
	ReviewedAt        *time.Time             `json:"reviewedAt,omitempty"`
	ApprovedBy        *uuid.UUID             `json:"approvedBy,omitempty"`
	ApprovedAt        *time.Time             `json:"approvedAt,omitempty"`
	RejectedBy        *uuid.UUID             `json:"rejectedBy,omitempty"`
	RejectedAt        *time.Time             `json:"rejectedAt,omitempty"`
	ForceApproved     bool                   `json:"forceApproved"`
	CreatedAt         time.Time              `json:"createdAt"`
	UpdatedAt         time.Time              `json:"updatedAt"`
}

type ReservationPage struct {
	Items []*ReservationView `json:"items"`
	Total int                `json:"total"`
	Page  int                `json:"page"`
	Limit int                `json:"limit"`
}

type BlockedRange struct {
	ReservationID uuid.UUID `json:"reservationId"`
	Start         string    `json:"start"`
	End           string    `json:"end"`
	Title         string    `json:"title"`
}

type DateRangeView struct {
	Start string `json:"start"`
	End   string `json:"end"`
}

type ConflictItem struct {
	ID          uuid.UUID `json:"id"`
	Title       string    `json:"title"`
	RequesterID uuid.UUID `json:"requesterId"`
	StartDate   string    `json:"startDate"`
	EndDate     string    `json:"endDate"`
}

type ConflictView struct {
	HasConflict bool           `json:"hasConflict"`
	Conflicts   []ConflictItem `json:"conflicts"`
	Suggestion  *DateRangeView `json:"suggestion"`
}

func NewReservationView(r *reservation.Reservation) *ReservationView {
	v := &ReservationView{
		ID:                r.ID(),
		RequesterID:       r.RequesterID(),
		CampusID:          r.CampusID(),
		Title:             r.Title(),
		ResourceID:        r.Resource().ID(),
		ResourceKind:      r.Resource().Kind().String(),
		StartDate:         r.Dates().Start().Format(reservation.DateLayout),
		EndDate:           r.Dates().End().Format(reservation.DateLayout),
		StartTime:         r.StartTime(),
		EndTime:           r.EndTime(),
		Details:           r.Details().Raw(),
		Documents:         r.Documents(),
		Status:            r.Status().String(),
		ValidationStatus:  r.ValidationStatus().String(),
		CommitteeComments: r.CommitteeComments(),
		RejectionReason:   r.RejectionReason(),
		ReviewNotes:       r.ReviewNotes(),
		ForceApproved:     r.ForceApproved(),
		CreatedAt:         r.CreatedAt(),
		UpdatedAt:         r.UpdatedAt(),
	}
	v.ReviewedBy, v.ReviewedAt = decisionFields(r.Reviewed())
	v.ApprovedBy, v.ApprovedAt = decisionFields(r.Approved())
	v.RejectedBy, v.RejectedAt = decisionFields(r.Rejected())
	return v
}

func NewConflictView(report reservation.ConflictReport) *ConflictView {
	v := &ConflictView{
		HasConflict: report.HasConflict,
		Conflicts:   make([]ConflictItem, 0, len(report.Conflicts)),
	}
	for _, c := range report.Conflicts {
		v.Conflicts = append(v.Conflicts, ConflictItem{
			ID:          c.ID,
			Title:       c.Title,
			RequesterID: c.RequesterID,
			StartDate:   c.Dates.Start().Format(reservation.DateLayout),
			EndDate:     c.Dates.End().Format(reservation.DateLayout),
		})
	}
	if report.Suggestion != nil {
		v.Suggestion = &DateRangeView{
			Start: report.Suggestion.Start().Format(reservation.DateLayout),
			End:   report.Suggestion.End().Format(reservation.DateLayout),
		}
	}
	return v
}

func decisionFields(d *reservation.Decision) (*uuid.UUID, *time.Time) {
	if d == nil {
		return nil, nil
	}
	id, at := d.ActorID, d.At
	return &id, &at
}
