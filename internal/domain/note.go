package domain

import "time"

// Note is a comment or audit entry on a ticket. System notes are append-only:
// every lifecycle transition writes exactly one and they are never updated.
type Note struct {
	ID             string
	TicketID       string
	SupportAgentID *string
	Description    string
	IsSystemNote   bool
	IsPrivate      bool
	CreatedAt      time.Time
}
