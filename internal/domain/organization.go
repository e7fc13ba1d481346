package domain

import "time"

// Organization is a tenant, the top-level scope for billing and data isolation.
type Organization struct {
	ID        string
	Name      string
	Domain    string
	IsActive  bool
	CreatedAt time.Time
	UpdatedAt time.Time
}

// Branch is a physical or logical office under an organization.
type Branch struct {
	ID             string
	OrganizationID string
	Name           string
	Address        string
	IsActive       bool
	CreatedAt      time.Time
	UpdatedAt      time.Time
}
