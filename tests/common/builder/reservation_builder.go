//go:build unit || e2e

package builder

import (
	"encoding/json"
	"time"

	"campus-booking/internal/domain/reservation"
	"campus-booking/internal/usecase/commands"

	"github.com/google/uuid"
)

type ReservationBuilder struct {
	ID           uuid.UUID
	RequesterID  uuid.UUID
	CampusID     *uuid.UUID
	Title        string
	ResourceID   string
	ResourceKind string
	StartDate    string
	EndDate      string
	StartTime    string
	EndTime      string
	Details      string
	Documents    []reservation.Document
	Files        []commands.FileUpload
	Status       reservation.Status
	CreatedAt    time.Time
}

func NewReservationBuilder() *ReservationBuilder {
	return &ReservationBuilder{
		ID:           uuid.New(),
		RequesterID:  uuid.New(),
		Title:        "Robotics Fair",
		ResourceID:   "L1",
		ResourceKind: "location",
		StartDate:    "2024-05-01",
		EndDate:      "2024-05-03",
		StartTime:    "09:00",
		EndTime:      "17:00",
		Details:      `{"objectives":"student showcase","equipment":["projector"]}`,
		Status:       reservation.StatusPending,
		CreatedAt:    time.Date(2024, 4, 1, 10, 0, 0, 0, time.UTC),
	}
}

// With applies an arbitrary mutation, for table cases that tweak one field.
func (b *ReservationBuilder) With(mutate func(*ReservationBuilder)) *ReservationBuilder {
	mutate(b)
	return b
}

func (b *ReservationBuilder) WithID(id uuid.UUID) *ReservationBuilder {
	b.ID = id
	return b
}

func (b *ReservationBuilder) WithRequester(id uuid.UUID) *ReservationBuilder {
	b.RequesterID = id
	return b
}

func (b *ReservationBuilder) WithTitle(title string) *ReservationBuilder {
	b.Title = title
	return b
}

func (b *ReservationBuilder) WithResource(id, kind string) *ReservationBuilder {
	b.ResourceID = id
	b.ResourceKind = kind
	return b
}

func (b *ReservationBuilder) WithDates(start, end string) *ReservationBuilder {
	b.StartDate = start
	b.EndDate = end
	return b
}

func (b *ReservationBuilder) WithStatus(status reservation.Status) *ReservationBuilder {
	b.Status = status
	return b
}

func (b *ReservationBuilder) WithCampus(id uuid.UUID) *ReservationBuilder {
	b.CampusID = &id
	return b
}

func (b *ReservationBuilder) WithFile(name, contentType string, data []byte) *ReservationBuilder {
	b.Files = append(b.Files, commands.FileUpload{Name: name, ContentType: contentType, Data: data})
	return b
}

func (b *ReservationBuilder) params() (reservation.NewParams, error) {
	kind, err := reservation.ParseResourceKind(b.ResourceKind)
	if err != nil {
		return reservation.NewParams{}, err
	}
	key, err := reservation.NewResourceKey(b.ResourceID, kind)
	if err != nil {
		return reservation.NewParams{}, err
	}
	dates, err := reservation.ParseDateRange(b.StartDate, b.EndDate)
	if err != nil {
		return reservation.NewParams{}, err
	}
	details, err := reservation.NewDetails([]byte(b.Details))
	if err != nil {
		return reservation.NewParams{}, err
	}
	return reservation.NewParams{
		ID:          b.ID,
		RequesterID: b.RequesterID,
		CampusID:    b.CampusID,
		Title:       b.Title,
		Resource:    key,
		Dates:       dates,
		StartTime:   b.StartTime,
		EndTime:     b.EndTime,
		Details:     details,
		Documents:   b.Documents,
	}, nil
}

// BuildDomain runs the regular submission path and ignores Status.
func (b *ReservationBuilder) BuildDomain() (*reservation.Reservation, error) {
	p, err := b.params()
	if err != nil {
		return nil, err
	}
	return reservation.NewReservation(p, b.CreatedAt)
}

// MustBuildStored reconstructs a persisted reservation in Status, filling in
// the decision trail that status implies.
func (b *ReservationBuilder) MustBuildStored() *reservation.Reservation {
	p, err := b.params()
	if err != nil {
		panic(err)
	}
	s := reservation.Snapshot{
		ID:          p.ID,
		RequesterID: p.RequesterID,
		CampusID:    p.CampusID,
		Title:       p.Title,
		Resource:    p.Resource,
		Dates:       p.Dates,
		StartTime:   p.StartTime,
		EndTime:     p.EndTime,
		Details:     p.Details,
		Documents:   p.Documents,
		Status:      b.Status,
		CreatedAt:   b.CreatedAt,
		UpdatedAt:   b.CreatedAt,
	}
	decision := &reservation.Decision{ActorID: uuid.New(), At: b.CreatedAt.Add(time.Hour)}
	switch b.Status {
	case reservation.StatusUnderReview:
		s.ReviewNotes = "looks fine"
		s.Reviewed = decision
	case reservation.StatusApproved:
		s.CommitteeComments = "approved"
		s.Approved = decision
	case reservation.StatusRejected:
		s.CommitteeComments = "no"
		s.RejectionReason = "budget"
		s.Rejected = decision
	}
	return reservation.Reconstruct(s)
}

func (b *ReservationBuilder) BuildCreateInput() commands.CreateReservationInput {
	return commands.CreateReservationInput{
		RequesterID:  b.RequesterID,
		CampusID:     b.CampusID,
		Title:        b.Title,
		ResourceID:   b.ResourceID,
		ResourceKind: b.ResourceKind,
		StartDate:    b.StartDate,
		EndDate:      b.EndDate,
		StartTime:    b.StartTime,
		EndTime:      b.EndTime,
		Details:      json.RawMessage(b.Details),
		Files:        b.Files,
	}
}
