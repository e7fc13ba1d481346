package domain

import "time"

// TicketPriority enumerates SLA urgency.
type TicketPriority string

const (
	TicketPriorityLow      TicketPriority = "LOW"
	TicketPriorityNormal   TicketPriority = "NORMAL"
	TicketPriorityHigh     TicketPriority = "HIGH"
	TicketPriorityCritical TicketPriority = "CRITICAL"
)

// ValidPriority reports whether p is a known priority value.
func ValidPriority(p TicketPriority) bool {
	switch p {
	case TicketPriorityLow, TicketPriorityNormal, TicketPriorityHigh, TicketPriorityCritical:
		return true
	}
	return false
}

// Ticket is the support work item. OrganizationID is resolved once at
// creation and stored for billing attribution. Tickets are soft-deleted.
type Ticket struct {
	ID               string
	ReferenceKey     string
	OrganizationID   string
	CustomerID       string
	TeamID           string
	TicketCategoryID string
	TicketStateID    string
	SupportAgentID   *string
	Title            string
	Description      string
	Priority         TicketPriority
	DueDate          *time.Time
	ResolvedDate     *time.Time
	Resolution       string
	EstimatedHours   float64
	ActualHours      float64
	CreatedAt        time.Time
	UpdatedAt        time.Time
	DeletedAt        *time.Time
}

// Resolved reports whether the ticket has been resolved.
func (t *Ticket) Resolved() bool {
	return t.ResolvedDate != nil
}
