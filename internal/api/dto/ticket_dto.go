package dto

import (
	"time"

	"github.com/opsdesk/helpdesk-service/internal/domain"
)

// CreateTicketRequest payload.
type CreateTicketRequest struct {
	CustomerID     string                `json:"customer_id"`
	TeamID         string                `json:"team_id"`
	CategoryID     string                `json:"category_id"`
	Title          string                `json:"title"`
	Description    string                `json:"description"`
	Priority       domain.TicketPriority `json:"priority"`
	DueDate        *time.Time            `json:"due_date"`
	EstimatedHours float64               `json:"estimated_hours"`
}

// AssignTicketRequest payload.
type AssignTicketRequest struct {
	AgentID string `json:"agent_id"`
}

// ResolveTicketRequest payload.
type ResolveTicketRequest struct {
	Resolution  string  `json:"resolution"`
	ActualHours float64 `json:"actual_hours"`
}

// ChangeStateRequest payload.
type ChangeStateRequest struct {
	StateID string `json:"state_id"`
}

// ChangePriorityRequest payload.
type ChangePriorityRequest struct {
	Priority domain.TicketPriority `json:"priority"`
}

// SetDueDateRequest payload.
type SetDueDateRequest struct {
	DueDate time.Time `json:"due_date"`
}

// TicketResponse is the external ticket projection.
type TicketResponse struct {
	ID               string                `json:"id"`
	ReferenceKey     string                `json:"reference_key"`
	OrganizationID   string                `json:"organization_id"`
	CustomerID       string                `json:"customer_id"`
	TeamID           string                `json:"team_id"`
	TicketCategoryID string                `json:"ticket_category_id"`
	TicketStateID    string                `json:"ticket_state_id"`
	SupportAgentID   *string               `json:"support_agent_id"`
	Title            string                `json:"title"`
	Description      string                `json:"description"`
	Priority         domain.TicketPriority `json:"priority"`
	DueDate          *time.Time            `json:"due_date"`
	ResolvedDate     *time.Time            `json:"resolved_date"`
	Resolution       string                `json:"resolution,omitempty"`
	EstimatedHours   float64               `json:"estimated_hours"`
	ActualHours      float64               `json:"actual_hours"`
	CreatedAt        time.Time             `json:"created_at"`
	UpdatedAt        time.Time             `json:"updated_at"`
}

// NoteResponse is the external note projection.
type NoteResponse struct {
	ID             string    `json:"id"`
	TicketID       string    `json:"ticket_id"`
	SupportAgentID *string   `json:"support_agent_id"`
	Description    string    `json:"description"`
	IsSystemNote   bool      `json:"is_system_note"`
	IsPrivate      bool      `json:"is_private"`
	CreatedAt      time.Time `json:"created_at"`
}

// TicketFromDomain maps a domain ticket to its response shape.
func TicketFromDomain(ticket *domain.Ticket) TicketResponse {
	return TicketResponse{
		ID:               ticket.ID,
		ReferenceKey:     ticket.ReferenceKey,
		OrganizationID:   ticket.OrganizationID,
		CustomerID:       ticket.CustomerID,
		TeamID:           ticket.TeamID,
		TicketCategoryID: ticket.TicketCategoryID,
		TicketStateID:    ticket.TicketStateID,
		SupportAgentID:   ticket.SupportAgentID,
		Title:            ticket.Title,
		Description:      ticket.Description,
		Priority:         ticket.Priority,
		DueDate:          ticket.DueDate,
		ResolvedDate:     ticket.ResolvedDate,
		Resolution:       ticket.Resolution,
		EstimatedHours:   ticket.EstimatedHours,
		ActualHours:      ticket.ActualHours,
		CreatedAt:        ticket.CreatedAt,
		UpdatedAt:        ticket.UpdatedAt,
	}
}

// NoteFromDomain maps a domain note to its response shape.
func NoteFromDomain(note *domain.Note) NoteResponse {
	return NoteResponse{
		ID:             note.ID,
		TicketID:       note.TicketID,
		SupportAgentID: note.SupportAgentID,
		Description:    note.Description,
		IsSystemNote:   note.IsSystemNote,
		IsPrivate:      note.IsPrivate,
		CreatedAt:      note.CreatedAt,
	}
}
