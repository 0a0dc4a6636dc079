package reservation

import (
	"sort"
	"time"

	"github.com/google/uuid"
)

type Conflict struct {
	ID          uuid.UUID
	Title       string
	RequesterID uuid.UUID
	Dates       DateRange
}

type ConflictReport struct {
	HasConflict bool
	Conflicts   []Conflict
	Suggestion  *DateRange
}

// DetectConflicts tests the requested range against booked reservations and,
// when any overlap, proposes the first range of equal length starting the
// day after the latest conflicting end date. Candidates that are not
// APPROVED, are on another resource, or carry excludeID are ignored.
func DetectConflicts(key ResourceKey, requested DateRange, excludeID uuid.UUID, booked []*Reservation) ConflictReport {
	report := ConflictReport{Conflicts: []Conflict{}}

	var latestEnd time.Time
	for _, other := range booked {
		if other == nil || other.id == excludeID {
			continue
		}
		if other.status != StatusApproved || other.resource != key {
			continue
		}
		if !requested.Overlaps(other.dates) {
			continue
		}
		report.Conflicts = append(report.Conflicts, Conflict{
			ID:          other.id,
			Title:       other.title,
			RequesterID: other.requesterID,
			Dates:       other.dates,
		})
		if other.dates.end.After(latestEnd) {
			latestEnd = other.dates.end
		}
	}

	if len(report.Conflicts) == 0 {
		return report
	}

	sort.SliceStable(report.Conflicts, func(i, j int) bool {
		a, b := report.Conflicts[i], report.Conflicts[j]
		if !a.Dates.start.Equal(b.Dates.start) {
			return a.Dates.start.Before(b.Dates.start)
		}
		return a.ID.String() < b.ID.String()
	})

	start := latestEnd.AddDate(0, 0, 1)
	suggestion := DateRange{start: start, end: start.AddDate(0, 0, requested.Days())}
	report.HasConflict = true
	report.Suggestion = &suggestion
	return report
}
