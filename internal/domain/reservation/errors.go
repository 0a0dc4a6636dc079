package reservation

import (
	"fmt"

	"campus-booking/internal/pkg/errs"

	"github.com/google/uuid"
)

// Category markers. Every typed error below reports itself as one of these
// through errors.Is so callers can branch without type assertions.
var (
	ErrValidation = errs.New("validation failed")
	ErrState      = errs.New("operation not allowed in current status")
	ErrPermission = errs.New("permission denied")
	ErrConflict   = errs.New("EVENT_CONFLICT")
)

type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
}

func (e *ValidationError) Is(target error) bool { return target == ErrValidation }

type StateError struct {
	Op     string
	Status Status
}

func (e *StateError) Error() string {
	return fmt.Sprintf("cannot %s reservation in status %s", e.Op, e.Status)
}

func (e *StateError) Is(target error) bool { return target == ErrState }

type PermissionError struct {
	Op      string
	ActorID uuid.UUID
}

func (e *PermissionError) Error() string {
	return fmt.Sprintf("actor %s is not allowed to %s this reservation", e.ActorID, e.Op)
}

func (e *PermissionError) Is(target error) bool { return target == ErrPermission }

// ConflictError is returned by approve when approved bookings overlap the
// request. The reservation is left unchanged.
type ConflictError struct {
	Report ConflictReport
}

func (e *ConflictError) Error() string {
	return fmt.Sprintf("EVENT_CONFLICT: %d approved reservation(s) overlap the requested dates", len(e.Report.Conflicts))
}

func (e *ConflictError) Is(target error) bool { return target == ErrConflict }
