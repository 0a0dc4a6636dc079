package reservation

type Status string

const (
	StatusPending     Status = "PENDING"
	StatusUnderReview Status = "UNDER_REVIEW"
	StatusApproved    Status = "APPROVED"
	StatusRejected    Status = "REJECTED"
	StatusCancelled   Status = "CANCELLED"
)

func (s Status) String() string {
	return string(s)
}

func (s Status) IsValid() bool {
	switch s {
	case StatusPending, StatusUnderReview, StatusApproved, StatusRejected, StatusCancelled:
		return true
	default:
		return false
	}
}

// No lifecycle transition leaves a terminal status.
func (s Status) IsTerminal() bool {
	switch s {
	case StatusApproved, StatusRejected, StatusCancelled:
		return true
	default:
		return false
	}
}

func ParseStatus(s string) (Status, error) {
	st := Status(s)
	if !st.IsValid() {
		return "", &ValidationError{Field: "status", Reason: "unknown status " + s}
	}
	return st, nil
}

type ResourceKind string

const (
	KindBuilding  ResourceKind = "building"
	KindLocation  ResourceKind = "location"
	KindOpenSpace ResourceKind = "open-space"
)

func (k ResourceKind) String() string {
	return string(k)
}

func (k ResourceKind) IsValid() bool {
	switch k {
	case KindBuilding, KindLocation, KindOpenSpace:
		return true
	default:
		return false
	}
}

func ParseResourceKind(s string) (ResourceKind, error) {
	k := ResourceKind(s)
	if !k.IsValid() {
		return "", &ValidationError{Field: "resourceKind", Reason: "must be one of building, location, open-space"}
	}
	return k, nil
}
