package converter

import (
	"encoding/json"

	"campus-booking/internal/domain/reservation"
	sqlc "campus-booking/internal/infra/sqlc/generated"
	"campus-booking/internal/pkg/errs"
	"campus-booking/internal/pkg/pgconv"

	"github.com/jackc/pgx/v5/pgtype"
)

func ReservationToInsertParams(r *reservation.Reservation) (sqlc.InsertReservationParams, error) {
	docs, err := json.Marshal(r.Documents())
	if err != nil {
		return sqlc.InsertReservationParams{}, errs.Wrap(err, "marshal documents")
	}
	return sqlc.InsertReservationParams{
		ID:            r.ID(),
		RequesterID:   r.RequesterID(),
		CampusID:      pgconv.UUIDPtrToPgtype(r.CampusID()),
		Title:         r.Title(),
		ResourceID:    r.Resource().ID(),
		ResourceKind:  r.Resource().Kind().String(),
		StartDate:     pgconv.DateToPgtype(r.Dates().Start()),
		EndDate:       pgconv.DateToPgtype(r.Dates().End()),
		StartTime:     pgconv.StringToPgtype(r.StartTime()),
		EndTime:       pgconv.StringToPgtype(r.EndTime()),
		Details:       r.Details().Raw(),
		Documents:     docs,
		Status:        r.Status().String(),
		ForceApproved: r.ForceApproved(),
		CreatedAt:     pgconv.TimeToPgtype(r.CreatedAt()),
		UpdatedAt:     pgconv.TimeToPgtype(r.UpdatedAt()),
	}, nil
}

func ReservationToUpdateParams(r *reservation.Reservation) sqlc.UpdateReservationDecisionParams {
	p := sqlc.UpdateReservationDecisionParams{
		ID:                r.ID(),
		Status:            r.Status().String(),
		CommitteeComments: pgconv.StringToPgtype(r.CommitteeComments()),
		RejectionReason:   pgconv.StringToPgtype(r.RejectionReason()),
		ReviewNotes:       pgconv.StringToPgtype(r.ReviewNotes()),
		ForceApproved:     r.ForceApproved(),
		UpdatedAt:         pgconv.TimeToPgtype(r.UpdatedAt()),
	}
	p.ReviewedBy, p.ReviewedAt = decisionToPgtype(r.Reviewed())
	p.ApprovedBy, p.ApprovedAt = decisionToPgtype(r.Approved())
	p.RejectedBy, p.RejectedAt = decisionToPgtype(r.Rejected())
	return p
}

func ReservationFromRow(row sqlc.Reservations) (*reservation.Reservation, error) {
	key, err := reservation.NewResourceKey(row.ResourceID, reservation.ResourceKind(row.ResourceKind))
	if err != nil {
		return nil, errs.Wrap(err, "stored resource key")
	}
	dates, err := reservation.NewDateRange(pgconv.DateFromPgtype(row.StartDate), pgconv.DateFromPgtype(row.EndDate))
	if err != nil {
		return nil, errs.Wrap(err, "stored date range")
	}
	status, err := reservation.ParseStatus(row.Status)
	if err != nil {
		return nil, errs.Wrap(err, "stored status")
	}
	var docs []reservation.Document
	if len(row.Documents) > 0 {
		if err := json.Unmarshal(row.Documents, &docs); err != nil {
			return nil, errs.Wrap(err, "stored documents")
		}
	}

	return reservation.Reconstruct(reservation.Snapshot{
		ID:                row.ID,
		RequesterID:       row.RequesterID,
		CampusID:          pgconv.UUIDPtrFromPgtype(row.CampusID),
		Title:             row.Title,
		Resource:          key,
		Dates:             dates,
		StartTime:         pgconv.StringFromPgtype(row.StartTime),
		EndTime:           pgconv.StringFromPgtype(row.EndTime),
		Details:           reservation.Details(row.Details),
		Documents:         docs,
		Status:            status,
		CommitteeComments: pgconv.StringFromPgtype(row.CommitteeComments),
		RejectionReason:   pgconv.StringFromPgtype(row.RejectionReason),
		ReviewNotes:       pgconv.StringFromPgtype(row.ReviewNotes),
		Reviewed:          decisionFromPgtype(row.ReviewedBy, row.ReviewedAt),
		Approved:          decisionFromPgtype(row.ApprovedBy, row.ApprovedAt),
		Rejected:          decisionFromPgtype(row.RejectedBy, row.RejectedAt),
		ForceApproved:     row.ForceApproved,
		CreatedAt:         pgconv.TimeFromPgtype(row.CreatedAt),
		UpdatedAt:         pgconv.TimeFromPgtype(row.UpdatedAt),
	}), nil
}

func decisionToPgtype(d *reservation.Decision) (pgtype.UUID, pgtype.Timestamptz) {
	if d == nil {
		return pgtype.UUID{}, pgtype.Timestamptz{}
	}
	return pgconv.UUIDToPgtype(d.ActorID), pgconv.TimeToPgtype(d.At)
}

func decisionFromPgtype(by pgtype.UUID, at pgtype.Timestamptz) *reservation.Decision {
	if !by.Valid || !at.Valid {
		return nil
	}
	return &reservation.Decision{ActorID: pgconv.UUIDFromPgtype(by), At: at.Time}
}
