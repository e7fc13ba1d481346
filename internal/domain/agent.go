package domain

import "time"

// SupportAgent handles assigned tickets within a team.
// CurrentTicketCount is a workload counter, not a hard cap:
// MaxConcurrentTickets is advisory and only IsAvailable gates assignment.
type SupportAgent struct {
	ID                   string
	TeamID               string
	Name                 string
	Email                string
	PasswordHash         string
	CurrentTicketCount   int
	MaxConcurrentTickets int
	IsAvailable          bool
	CreatedAt            time.Time
	UpdatedAt            time.Time
}
