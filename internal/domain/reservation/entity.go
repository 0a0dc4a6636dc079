package reservation

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

const MaxTitleLength = 255

type Reservation struct {
	id                uuid.UUID
	requesterID       uuid.UUID
	campusID          *uuid.UUID
	title             string
	resource          ResourceKey
	dates             DateRange
	startTime         string
	endTime           string
	details           Details
	documents         []Document
	status            Status
	committeeComments Note
	rejectionReason   Note
	reviewNotes       Note
	reviewed          *Decision
	approved          *Decision
	rejected          *Decision
	forceApproved     bool
	createdAt         time.Time
	updatedAt         time.Time
}

type NewParams struct {
	ID          uuid.UUID
	RequesterID uuid.UUID
	CampusID    *uuid.UUID
	Title       string
	Resource    ResourceKey
	Dates       DateRange
	StartTime   string
	EndTime     string
	Details     Details
	Documents   []Document
}

// Validate checks the structural requirements of a submission.
func (p NewParams) Validate() error {
	if p.RequesterID == uuid.Nil {
		return &ValidationError{Field: "requesterId", Reason: "is required"}
	}
	title := strings.TrimSpace(p.Title)
	if title == "" {
		return &ValidationError{Field: "title", Reason: "is required"}
	}
	if len(title) > MaxTitleLength {
		return &ValidationError{Field: "title", Reason: "is too long (max 255 characters)"}
	}
	if p.Resource.IsZero() {
		return &ValidationError{Field: "resourceId", Reason: "is required"}
	}
	if p.Dates.Start().IsZero() {
		return &ValidationError{Field: "startDate", Reason: "is required"}
	}
	return nil
}

// NewReservation validates a submission and returns it in PENDING.
func NewReservation(p NewParams, now time.Time) (*Reservation, error) {
	if err := p.Validate(); err != nil {
		return nil, err
	}

	id := p.ID
	if id == uuid.Nil {
		id = uuid.New()
	}
	details := p.Details
	if len(details) == 0 {
		details = Details("{}")
	}

	return &Reservation{
		id:          id,
		requesterID: p.RequesterID,
		campusID:    p.CampusID,
		title:       strings.TrimSpace(p.Title),
		resource:    p.Resource,
		dates:       p.Dates,
		startTime:   strings.TrimSpace(p.StartTime),
		endTime:     strings.TrimSpace(p.EndTime),
		details:     details,
		documents:   cloneDocuments(p.Documents),
		status:      StatusPending,
		createdAt:   now,
		updatedAt:   now,
	}, nil
}

type Snapshot struct {
	ID                uuid.UUID
	RequesterID       uuid.UUID
	CampusID          *uuid.UUID
	Title             string
	Resource          ResourceKey
	Dates             DateRange
	StartTime         string
	EndTime           string
	Details           Details
	Documents         []Document
	Status            Status
	CommitteeComments string
	RejectionReason   string
	ReviewNotes       string
	Reviewed          *Decision
	Approved          *Decision
	Rejected          *Decision
	ForceApproved     bool
	CreatedAt         time.Time
	UpdatedAt         time.Time
}

// Reconstruct rebuilds a persisted reservation without re-running
// submission validation.
func Reconstruct(s Snapshot) *Reservation {
	return &Reservation{
		id:                s.ID,
		requesterID:       s.RequesterID,
		campusID:          s.CampusID,
		title:             s.Title,
		resource:          s.Resource,
		dates:             s.Dates,
		startTime:         s.StartTime,
		endTime:           s.EndTime,
		details:           s.Details,
		documents:         cloneDocuments(s.Documents),
		status:            s.Status,
		committeeComments: NewNote(s.CommitteeComments),
		rejectionReason:   NewNote(s.RejectionReason),
		reviewNotes:       NewNote(s.ReviewNotes),
		reviewed:          s.Reviewed,
		approved:          s.Approved,
		rejected:          s.Rejected,
		forceApproved:     s.ForceApproved,
		createdAt:         s.CreatedAt,
		updatedAt:         s.UpdatedAt,
	}
}

func (r *Reservation) Snapshot() Snapshot {
	return Snapshot{
		ID:                r.id,
		RequesterID:       r.requesterID,
		CampusID:          r.campusID,
		Title:             r.title,
		Resource:          r.resource,
		Dates:             r.dates,
		StartTime:         r.startTime,
		EndTime:           r.endTime,
		Details:           r.details,
		Documents:         cloneDocuments(r.documents),
		Status:            r.status,
		CommitteeComments: r.committeeComments.String(),
		RejectionReason:   r.rejectionReason.String(),
		ReviewNotes:       r.reviewNotes.String(),
		Reviewed:          r.reviewed,
		Approved:          r.approved,
		Rejected:          r.rejected,
		ForceApproved:     r.forceApproved,
		CreatedAt:         r.createdAt,
		UpdatedAt:         r.updatedAt,
	}
}

func (r *Reservation) Review(actorID uuid.UUID, notes string, now time.Time) error {
	if r.status != StatusPending {
		return &StateError{Op: "review", Status: r.status}
	}
	n := NewNote(notes)
	if n.IsEmpty() {
		return &ValidationError{Field: "reviewNotes", Reason: "is required"}
	}
	r.reviewNotes = n
	r.reviewed = &Decision{ActorID: actorID, At: now}
	r.transition(StatusUnderReview, now)
	return nil
}

// CheckApprovable reports whether Approve would be accepted, without
// changing anything. Callers run it before the conflict query.
func (r *Reservation) CheckApprovable(comments string) error {
	if r.status != StatusPending && r.status != StatusUnderReview {
		return &StateError{Op: "approve", Status: r.status}
	}
	if NewNote(comments).IsEmpty() {
		return &ValidationError{Field: "committeeComments", Reason: "is required"}
	}
	return nil
}

func (r *Reservation) Approve(actorID uuid.UUID, comments string, forced bool, now time.Time) error {
	if err := r.CheckApprovable(comments); err != nil {
		return err
	}
	r.committeeComments = NewNote(comments)
	r.approved = &Decision{ActorID: actorID, At: now}
	r.forceApproved = forced
	r.transition(StatusApproved, now)
	return nil
}

func (r *Reservation) Reject(actorID uuid.UUID, comments, reason string, now time.Time) error {
	if r.status != StatusPending {
		return &StateError{Op: "reject", Status: r.status}
	}
	c, rr := NewNote(comments), NewNote(reason)
	if c.IsEmpty() {
		return &ValidationError{Field: "committeeComments", Reason: "is required"}
	}
	if rr.IsEmpty() {
		return &ValidationError{Field: "rejectionReason", Reason: "is required"}
	}
	r.committeeComments = c
	r.rejectionReason = rr
	r.rejected = &Decision{ActorID: actorID, At: now}
	r.transition(StatusRejected, now)
	return nil
}

// Cancel is only open to the original requester, and only while PENDING.
func (r *Reservation) Cancel(requesterID uuid.UUID, now time.Time) error {
	if requesterID != r.requesterID {
		return &PermissionError{Op: "cancel", ActorID: requesterID}
	}
	if r.status != StatusPending {
		return &StateError{Op: "cancel", Status: r.status}
	}
	r.transition(StatusCancelled, now)
	return nil
}

func (r *Reservation) transition(to Status, now time.Time) {
	r.status = to
	r.updatedAt = now
}

func (r *Reservation) IsApproved() bool { return r.status == StatusApproved }

func (r *Reservation) ID() uuid.UUID { return r.id }
func (r *Reservation) RequesterID() uuid.UUID { return r.requesterID }
func (r *Reservation) CampusID() *uuid.UUID { return r.campusID }
func (r *Reservation) Title() string { return r.title }
func (r *Reservation) Resource() ResourceKey { return r.resource }
func (r *Reservation) Dates() DateRange { return r.dates }
func (r *Reservation) StartTime() string { return r.startTime }
func (r *Reservation) EndTime() string { return r.endTime }
func (r *Reservation) Details() Details { return r.details }
func (r *Reservation) Documents() []Document { return cloneDocuments(r.documents) }
func (r *Reservation) Status() Status { return r.status }
func (r *Reservation) ValidationStatus() Status { return r.status }
func (r *Reservation) CommitteeComments() string { return r.committeeComments.String() }
func (r *Reservation) RejectionReason() string { return r.rejectionReason.String() }
func (r *Reservation) ReviewNotes() string { return r.reviewNotes.String() }
func (r *Reservation) Reviewed() *Decision { return r.reviewed }
func (r *Reservation) Approved() *Decision { return r.approved }
func (r *Reservation) Rejected() *Decision { return r.rejected }
func (r *Reservation) ForceApproved() bool { return r.forceApproved }
func (r *Reservation) CreatedAt() time.Time { return r.createdAt }
func (r *Reservation) UpdatedAt() time.Time { return r.updatedAt }

func cloneDocuments(docs []Document) []Document {
	if docs == nil {
		return []Document{}
	}
	out := make([]Document, len(docs))
	copy(out, docs)
	return out
}
