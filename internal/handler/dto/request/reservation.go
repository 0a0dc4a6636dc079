package request

import (
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"strings"

	"campus-booking/internal/domain/reservation"
	"campus-booking/internal/usecase/commands"
	"campus-booking/internal/usecase/queries"

	"github.com/google/uuid"
)

// CreateReservationRequest is bound from a multipart form. Field presence
// and format are checked by the domain so errors name the offending field.
type CreateReservationRequest struct {
	Title        string                  `form:"title"`
	ResourceID   string                  `form:"resourceId"`
	ResourceKind string                  `form:"resourceKind"`
	StartDate    string                  `form:"startDate"`
	EndDate      string                  `form:"endDate"`
	StartTime    string                  `form:"startTime"`
	EndTime      string                  `form:"endTime"`
	CampusID     string                  `form:"campusId"`
	Details      string                  `form:"details"`
	Files        []*multipart.FileHeader `form:"files" swaggerignore:"true"`
}

// ToInput reads the uploaded parts. maxFileBytes bounds each part; zero
// means unbounded.
func (r CreateReservationRequest) ToInput(requesterID uuid.UUID, maxFileBytes int64) (commands.CreateReservationInput, error) {
	campusID, err := parseOptionalUUID("campusId", r.CampusID)
	if err != nil {
		return commands.CreateReservationInput{}, err
	}
	files, err := readFiles(r.Files, maxFileBytes)
	if err != nil {
		return commands.CreateReservationInput{}, err
	}

	return commands.CreateReservationInput{
		RequesterID:  requesterID,
		CampusID:     campusID,
		Title:        strings.TrimSpace(r.Title),
		ResourceID:   strings.TrimSpace(r.ResourceID),
		ResourceKind: strings.TrimSpace(r.ResourceKind),
		StartDate:    strings.TrimSpace(r.StartDate),
		EndDate:      strings.TrimSpace(r.EndDate),
		StartTime:    strings.TrimSpace(r.StartTime),
		EndTime:      strings.TrimSpace(r.EndTime),
		Details:      json.RawMessage(r.Details),
		Files:        files,
	}, nil
}

type ReviewReservationRequest struct {
	ReviewNotes string `json:"reviewNotes" binding:"max=4000"`
}

type ApproveReservationRequest struct {
	CommitteeComments string `json:"committeeComments" binding:"max=4000"`
	ForceApprove      bool   `json:"forceApprove"`
}

func (r ApproveReservationRequest) ToInput() commands.ApproveInput {
	return commands.ApproveInput{
		CommitteeComments: r.CommitteeComments,
		ForceApprove:      r.ForceApprove,
	}
}

type RejectReservationRequest struct {
	CommitteeComments string `json:"committeeComments" binding:"max=4000"`
	RejectionReason   string `json:"rejectionReason" binding:"max=4000"`
}

func (r RejectReservationRequest) ToInput() commands.RejectInput {
	return commands.RejectInput{
		CommitteeComments: r.CommitteeComments,
		RejectionReason:   r.RejectionReason,
	}
}

type ListReservationsQuery struct {
	Page     int    `form:"page"`
	Limit    int    `form:"limit"`
	Status   string `form:"status"`
	UserID   string `form:"userId"`
	CampusID string `form:"campusId"`
}

func (q ListReservationsQuery) ToParams() (queries.ListParams, error) {
	userID, err := parseOptionalUUID("userId", q.UserID)
	if err != nil {
		return queries.ListParams{}, err
	}
	campusID, err := parseOptionalUUID("campusId", q.CampusID)
	if err != nil {
		return queries.ListParams{}, err
	}
	return queries.ListParams{
		Status:   strings.ToUpper(strings.TrimSpace(q.Status)),
		UserID:   userID,
		CampusID: campusID,
		Page:     q.Page,
		Limit:    q.Limit,
	}, nil
}

type BlockedDatesQuery struct {
	ResourceID   string `form:"resourceId" binding:"required"`
	ResourceKind string `form:"resourceKind" binding:"required"`
}

func parseOptionalUUID(field, raw string) (*uuid.UUID, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil, nil
	}
	id, err := uuid.Parse(raw)
	if err != nil {
		return nil, &reservation.ValidationError{Field: field, Reason: "must be a UUID"}
	}
	return &id, nil
}

func readFiles(headers []*multipart.FileHeader, maxBytes int64) ([]commands.FileUpload, error) {
	files := make([]commands.FileUpload, 0, len(headers))
	for i, fh := range headers {
		field := fmt.Sprintf("files[%d]", i)
		if maxBytes > 0 && fh.Size > maxBytes {
			return nil, tooLarge(field, fh.Filename, maxBytes)
		}
		data, err := readFile(fh, maxBytes)
		if err != nil {
			return nil, &reservation.ValidationError{Field: field, Reason: "could not be read"}
		}
		if maxBytes > 0 && int64(len(data)) > maxBytes {
			return nil, tooLarge(field, fh.Filename, maxBytes)
		}
		files = append(files, commands.FileUpload{
			Name:        fh.Filename,
			ContentType: fh.Header.Get("Content-Type"),
			Data:        data,
		})
	}
	return files, nil
}

// readFile stops one byte past maxBytes so an oversized part is detected
// without buffering it.
func readFile(fh *multipart.FileHeader, maxBytes int64) ([]byte, error) {
	f, err := fh.Open()
	if err != nil {
		return nil, err
	}
	defer f.Close()

	var src io.Reader = f
	if maxBytes > 0 {
		src = io.LimitReader(f, maxBytes+1)
	}
	return io.ReadAll(src)
}

func tooLarge(field, name string, maxBytes int64) error {
	return &reservation.ValidationError{
		Field:  field,
		Reason: fmt.Sprintf("%s exceeds %d bytes", name, maxBytes),
	}
}
