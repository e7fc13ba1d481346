package dto

import "time"

// AgentLoginRequest payload.
type AgentLoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// AgentLoginResponse carries the issued token.
type AgentLoginResponse struct {
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expires_at"`
	AgentID   string    `json:"agent_id"`
	AgentName string    `json:"agent_name"`
}

// RegisterAgentRequest payload.
type RegisterAgentRequest struct {
	TeamID               string `json:"team_id"`
	Name                 string `json:"name"`
	Email                string `json:"email"`
	Password             string `json:"password"`
	MaxConcurrentTickets int    `json:"max_concurrent_tickets"`
}
