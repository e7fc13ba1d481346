package domain

import "time"

// Customer is an end-user who raises tickets. OrganizationID may be nil for
// customers created before their tenant link was established; organization
// resolution then falls back to the ticket's team.
type Customer struct {
	ID             string
	OrganizationID *string
	Name           string
	Email          string
	Phone          string
	IsActive       bool
	CreatedAt      time.Time
	UpdatedAt      time.Time
}
