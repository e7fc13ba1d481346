package domain

import "time"

// TicketState is a workflow state. Exactly one state carries IsDefault and is
// assigned to every new ticket; states with IsFinal mark resolution/closure.
type TicketState struct {
	ID           string
	Name         string
	Color        string
	DisplayOrder int
	IsDefault    bool
	IsFinal      bool
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// TicketCategory classifies tickets for routing and reporting.
type TicketCategory struct {
	ID          string
	Name        string
	Description string
	IsActive    bool
	CreatedAt   time.Time
	UpdatedAt   time.Time
}
