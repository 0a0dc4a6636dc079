package user

import "github.com/google/uuid"

// Actor is the authenticated caller of a use case.
type Actor struct {
	ID   uuid.UUID
	Role Role
}

func (a Actor) IsReviewer() bool {
	return a.Role.AtLeast(RoleReviewer)
}
