package events

import (
	"time"

	"github.com/opsdesk/helpdesk-service/internal/domain"
)

// EventType enumerates supported event identifiers.
type EventType string

const (
	EventTicketCreated         EventType = "ticket_created"
	EventTicketAssigned        EventType = "ticket_assigned"
	EventTicketResolved        EventType = "ticket_resolved"
	EventTicketStateChanged    EventType = "ticket_state_changed"
	EventTicketPriorityChanged EventType = "ticket_priority_changed"
	EventQuotaDenied           EventType = "quota_denied"
)

// ActorType identifies who triggered an event.
type ActorType string

const (
	ActorTypeAgent    ActorType = "AGENT"
	ActorTypeCustomer ActorType = "CUSTOMER"
	ActorTypeSystem   ActorType = "SYSTEM"
)

// Actor encapsulates actor metadata for an event.
type Actor struct {
	Type    ActorType `json:"type"`
	AgentID *string   `json:"agent_id,omitempty"`
}

// Event represents a domain event emitted by services.
type Event struct {
	ID             string      `json:"id"`
	Type           EventType   `json:"type"`
	TicketID       string      `json:"ticket_id,omitempty"`
	OrganizationID string      `json:"organization_id,omitempty"`
	Actor          Actor       `json:"actor"`
	Timestamp      time.Time   `json:"timestamp"`
	Payload        interface{} `json:"payload"`
}

// TicketCreatedPayload payload.
type TicketCreatedPayload struct {
	ReferenceKey string                `json:"reference_key"`
	TeamID       string                `json:"team_id"`
	Priority     domain.TicketPriority `json:"priority"`
	Title        string                `json:"title"`
}

// TicketAssignedPayload payload.
type TicketAssignedPayload struct {
	AgentID         string  `json:"agent_id"`
	PreviousAgentID *string `json:"previous_agent_id,omitempty"`
}

// TicketResolvedPayload payload.
type TicketResolvedPayload struct {
	Resolution  string  `json:"resolution"`
	ActualHours float64 `json:"actual_hours"`
}

// TicketStateChangedPayload payload.
type TicketStateChangedPayload struct {
	OldStateID string `json:"old_state_id"`
	NewStateID string `json:"new_state_id"`
	NewState   string `json:"new_state"`
}

// TicketPriorityChangedPayload payload.
type TicketPriorityChangedPayload struct {
	OldPriority domain.TicketPriority `json:"old_priority"`
	NewPriority domain.TicketPriority `json:"new_priority"`
}

// QuotaDeniedPayload payload.
type QuotaDeniedPayload struct {
	MonthlyLimit int    `json:"monthly_limit"`
	Used         int    `json:"used"`
	Message      string `json:"message"`
}
