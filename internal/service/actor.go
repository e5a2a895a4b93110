package service

import "github.com/google/uuid"

// Actor is the authenticated user performing an operation.
type Actor struct {
	ID    uuid.UUID
	Name  string
	Email string
	Role  string
}

// audit is the value stored in created_by / updated_by.
func (a Actor) audit() string {
	if a.ID == uuid.Nil {
		return "system"
	}
	return a.ID.String()
}
