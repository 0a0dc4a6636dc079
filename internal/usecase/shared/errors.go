package shared

import (
	"campus-booking/internal/infra"
	"campus-booking/internal/pkg/errs"

	"github.com/google/uuid"
)

var (
	ErrNotFound = errs.New("reservation not found")
	ErrUpload   = errs.New("document upload failed")
)

type NotFoundError struct {
	ID uuid.UUID
}

func (e *NotFoundError) Error() string {
	return "reservation " + e.ID.String() + " not found"
}

func (e *NotFoundError) Is(target error) bool { return target == ErrNotFound }

type UploadError struct {
	Name string
	Err  error
}

func (e *UploadError) Error() string {
	return "upload of " + e.Name + " failed: " + e.Err.Error()
}

func (e *UploadError) Unwrap() error { return e.Err }

func (e *UploadError) Is(target error) bool { return target == ErrUpload }

// TranslateNotFound turns a repository NOT_FOUND into a NotFoundError for id
// and passes every other error through.
func TranslateNotFound(err error, id uuid.UUID) error {
	if infra.IsKind(err, infra.KindNotFound) {
		return &NotFoundError{ID: id}
	}
	return err
}
