package domain

import "time"

// Article is a knowledge base entry. Published articles are publicly readable
// by slug.
type Article struct {
	ID             string
	OrganizationID string
	Title          string
	Slug           string
	Body           string
	IsPublished    bool
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

// CannedResponse is a reusable reply snippet scoped to an organization.
type CannedResponse struct {
	ID             string
	OrganizationID string
	Title          string
	Body           string
	IsActive       bool
	CreatedAt      time.Time
	UpdatedAt      time.Time
}
