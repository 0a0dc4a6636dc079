package shared

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// Uploader stores one object and returns the URL it can be fetched from.
type Uploader interface {
	Store(ctx context.Context, data []byte, folder, filename, contentType string) (string, error)
}

type EventType string

const (
	EventCreated     EventType = "reservation.created"
	EventUnderReview EventType = "reservation.under_review"
	EventApproved    EventType = "reservation.approved"
	EventRejected    EventType = "reservation.rejected"
	EventCancelled   EventType = "reservation.cancelled"
)

type ReservationEvent struct {
	Type          EventType `json:"type"`
	ReservationID uuid.UUID `json:"reservationId"`
	RequesterID   uuid.UUID `json:"requesterId"`
	ActorID       uuid.UUID `json:"actorId"`
	Status        string    `json:"status"`
	OccurredAt    time.Time `json:"occurredAt"`
}

// Notifier hands committed lifecycle events to the external mailer.
type Notifier interface {
	Publish(ctx context.Context, event ReservationEvent) error
}
