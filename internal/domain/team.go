package domain

import "time"

// Team is a support group under a branch.
type Team struct {
	ID          string
	BranchID    string
	Name        string
	Description string
	IsActive    bool
	CreatedAt   time.Time
	UpdatedAt   time.Time
}
