package commands

import (
	"context"

	"campus-booking/internal/domain/reservation"
	"campus-booking/internal/usecase/shared"

	"github.com/google/uuid"
)

// ConflictDetector loads the booked set for a resource and runs the overlap
// check against it. It never caches: approve calls it inside the resource
// lock right before committing.
type ConflictDetector struct{}

func NewConflictDetector() *ConflictDetector {
	return &ConflictDetector{}
}

func (d *ConflictDetector) Check(
	ctx context.Context,
	reader shared.ReservationReader,
	key reservation.ResourceKey,
	dates reservation.DateRange,
	excludeID uuid.UUID,
) (reservation.ConflictReport, error) {
	booked, err := reader.FindApprovedByResourceKey(ctx, key)
	if err != nil {
		return reservation.ConflictReport{}, err
	}
	return reservation.DetectConflicts(key, dates, excludeID, booked), nil
}
