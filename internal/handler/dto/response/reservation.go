package response

import (
	"encoding/json"
	"time"

	"campus-booking/internal/pkg/errs"
	"campus-booking/internal/usecase/queries"

	"github.com/google/uuid"
	"github.com/jinzhu/copier"
)

type DocumentResponse struct {
	Name string `json:"name"`
	URL  string `json:"url"`
	Type string `json:"type"`
}

type ReservationResponse struct {
	ID                uuid.UUID          `json:"id"`
	RequesterID       uuid.UUID          `json:"requesterId"`
	CampusID          *uuid.UUID         `json:"campusId,omitempty"`
	Title             string             `json:"title"`
	ResourceID        string             `json:"resourceId"`
	ResourceKind      string             `json:"resourceKind"`
	StartDate         string             `json:"startDate"`
	EndDate           string             `json:"endDate"`
	StartTime         string             `json:"startTime,omitempty"`
	EndTime           string             `json:"endTime,omitempty"`
	Details           json.RawMessage    `json:"details" swaggertype:"object"`
	Documents         []DocumentResponse `json:"documents"`
	Status            string             `json:"status"`
	ValidationStatus  string             `json:"validationStatus"`
	CommitteeComments string             `json:"committeeComments,omitempty"`
	RejectionReason   string             `json:"rejectionReason,omitempty"`
	ReviewNotes       string             `json:"reviewNotes,omitempty"`
	ReviewedBy        *uuid.UUID         `json:"reviewedBy,omitempty"`
	ReviewedAt        *time.Time         `json:"reviewedAt,omitempty"`
	ApprovedBy        *uuid.UUID         `json:"approvedBy,omitempty"`
	ApprovedAt        *time.Time         `json:"approvedAt,omitempty"`
	RejectedBy        *uuid.UUID         `json:"rejectedBy,omitempty"`
	RejectedAt        *time.Time         `json:"rejectedAt,omitempty"`
	ForceApproved     bool               `json:"forceApproved"`
	CreatedAt         time.Time          `json:"createdAt"`
	UpdatedAt         time.Time          `json:"updatedAt"`
}

type ReservationListResponse struct {
	Items []*ReservationResponse `json:"items"`
	Total int                    `json:"total"`
	Page  int                    `json:"page"`
	Limit int                    `json:"limit"`
}

type BlockedRangeResponse struct {
	ReservationID uuid.UUID `json:"reservationId"`
	Start         string    `json:"start"`
	End           string    `json:"end"`
	Title         string    `json:"title"`
}

type DateRangeResponse struct {
	Start string `json:"start"`
	End   string `json:"end"`
}

type ConflictItemResponse struct {
	ID          uuid.UUID `json:"id"`
	Title       string    `json:"title"`
	RequesterID uuid.UUID `json:"requesterId"`
	StartDate   string    `json:"startDate"`
	EndDate     string    `json:"endDate"`
}

type ConflictCheckResponse struct {
	HasConflict bool                   `json:"hasConflict"`
	Conflicts   []ConflictItemResponse `json:"conflicts"`
	Suggestion  *DateRangeResponse     `json:"suggestion"`
}

var errNilView = errs.New("nil read model")

func FromReservationView(v *queries.ReservationView) (*ReservationResponse, error) {
	if v == nil {
		return nil, errNilView
	}
	resp := &ReservationResponse{}
	if err := copier.Copy(resp, v); err != nil {
		return nil, errs.Wrap(err, "failed to map reservation view")
	}
	if resp.Documents == nil {
		resp.Documents = []DocumentResponse{}
	}
	return resp, nil
}

func FromReservationPage(p *queries.ReservationPage) (*ReservationListResponse, error) {
	if p == nil {
		return nil, errNilView
	}
	items := make([]*ReservationResponse, 0, len(p.Items))
	for _, v := range p.Items {
		item, err := FromReservationView(v)
		if err != nil {
			return nil, err
		}
		items = append(items, item)
	}
	return &ReservationListResponse{
		Items: items,
		Total: p.Total,
		Page:  p.Page,
		Limit: p.Limit,
	}, nil
}

func FromBlockedRanges(ranges []queries.BlockedRange) ([]BlockedRangeResponse, error) {
	out := make([]BlockedRangeResponse, 0, len(ranges))
	if len(ranges) == 0 {
		return out, nil
	}
	if err := copier.Copy(&out, &ranges); err != nil {
		return nil, errs.Wrap(err, "failed to map blocked ranges")
	}
	return out, nil
}

// FromConflictView is also used to build the 409 detail, so it cannot fail.
func FromConflictView(v *queries.ConflictView) *ConflictCheckResponse {
	resp := &ConflictCheckResponse{
		HasConflict: v.HasConflict,
		Conflicts:   make([]ConflictItemResponse, 0, len(v.Conflicts)),
	}
	for _, c := range v.Conflicts {
		resp.Conflicts = append(resp.Conflicts, ConflictItemResponse{
			ID:          c.ID,
			Title:       c.Title,
			RequesterID: c.RequesterID,
			StartDate:   c.StartDate,
			EndDate:     c.EndDate,
		})
	}
	if v.Suggestion != nil {
		resp.Suggestion = &DateRangeResponse{Start: v.Suggestion.Start, End: v.Suggestion.End}
	}
	return resp
}
