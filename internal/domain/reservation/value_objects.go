package reservation

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

const DateLayout = "2006-01-02"

// ResourceKey identifies the bookable asset. Two reservations compete for
// the same dates only when their keys are equal.
type ResourceKey struct {
	id   string
	kind ResourceKind
}

func NewResourceKey(id string, kind ResourceKind) (ResourceKey, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return ResourceKey{}, &ValidationError{Field: "resourceId", Reason: "is required"}
	}
	if !kind.IsValid() {
		return ResourceKey{}, &ValidationError{Field: "resourceKind", Reason: "must be one of building, location, open-space"}
	}
	return ResourceKey{id: id, kind: kind}, nil
}

func (k ResourceKey) ID() string         { return k.id }
func (k ResourceKey) Kind() ResourceKind { return k.kind }
func (k ResourceKey) IsZero() bool       { return k.id == "" }
func (k ResourceKey) String() string     { return string(k.kind) + ":" + k.id }

// DateRange is an inclusive range of calendar dates normalized to UTC midnight.
type DateRange struct {
	start time.Time
	end   time.Time
}

func NewDateRange(start, end time.Time) (DateRange, error) {
	if start.IsZero() {
		return DateRange{}, &ValidationError{Field: "startDate", Reason: "is required"}
	}
	if end.IsZero() {
		return DateRange{}, &ValidationError{Field: "endDate", Reason: "is required"}
	}
	s, e := truncateDate(start), truncateDate(end)
	if s.After(e) {
		return DateRange{}, &ValidationError{Field: "endDate", Reason: "must not be before startDate"}
	}
	return DateRange{start: s, end: e}, nil
}

func ParseDateRange(start, end string) (DateRange, error) {
	s, err := ParseDate("startDate", start)
	if err != nil {
		return DateRange{}, err
	}
	e, err := ParseDate("endDate", end)
	if err != nil {
		return DateRange{}, err
	}
	return NewDateRange(s, e)
}

func ParseDate(field, value string) (time.Time, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return time.Time{}, &ValidationError{Field: field, Reason: "is required"}
	}
	t, err := time.Parse(DateLayout, value)
	if err != nil {
		return time.Time{}, &ValidationError{Field: field, Reason: fmt.Sprintf("must be a date in %s format", DateLayout)}
	}
	return t, nil
}

func (r DateRange) Start() time.Time { return r.start }
func (r DateRange) End() time.Time   { return r.end }

// Days is end minus start in whole days, so a single-day range spans 0.
func (r DateRange) Days() int {
	return int(r.end.Sub(r.start).Hours() / 24)
}

func (r DateRange) Overlaps(o DateRange) bool {
	return !r.start.After(o.end) && !r.end.Before(o.start)
}

func (r DateRange) String() string {
	return r.start.Format(DateLayout) + ".." + r.end.Format(DateLayout)
}

func truncateDate(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

type Document struct {
	Name string `json:"name"`
	URL  string `json:"url"`
	Type string `json:"type"`
}

type Decision struct {
	ActorID uuid.UUID
	At      time.Time
}

// Details is the descriptive event payload (objectives, equipment, budget
// lines...). It is stored and returned verbatim.
type Details json.RawMessage

func NewDetails(raw []byte) (Details, error) {
	if strings.TrimSpace(string(raw)) == "" {
		return Details("{}"), nil
	}
	if !json.Valid(raw) {
		return nil, &ValidationError{Field: "details", Reason: "must be valid JSON"}
	}
	out := make([]byte, len(raw))
	copy(out, raw)
	return Details(out), nil
}

func (d Details) Raw() json.RawMessage {
	if len(d) == 0 {
		return json.RawMessage("{}")
	}
	return json.RawMessage(d)
}

type Note struct {
	value string
}

func NewNote(value string) Note {
	return Note{value: strings.TrimSpace(value)}
}

func (n Note) String() string {
	return n.value
}

func (n Note) IsEmpty() bool {
	return n.value == ""
}
