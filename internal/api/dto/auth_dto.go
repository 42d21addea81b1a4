package dto

import (
	"time"

	"github.com/crmdesk/ticketd/internal/domain"
)

// RegisterAgentRequest payload.
type RegisterAgentRequest struct {
	Email    string           `json:"email"`
	Name     string           `json:"name"`
	Password string           `json:"password"`
	Role     domain.AgentRole `json:"role"`
}

// LoginRequest payload.
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// AgentResponse is the wire shape of an agent (no password hash).
type AgentResponse struct {
	ID        string           `json:"id"`
	Email     string           `json:"email"`
	Name      string           `json:"name"`
	Role      domain.AgentRole `json:"role"`
	CreatedAt time.Time        `json:"created_at"`
}

// LoginResponse carries the issued bearer token.
type LoginResponse struct {
	Token     string        `json:"token"`
	ExpiresAt time.Time     `json:"expires_at"`
	Agent     AgentResponse `json:"agent"`
}

// NewAgentResponse maps the domain entity to the wire shape.
func NewAgentResponse(agent *domain.Agent) AgentResponse {
	return AgentResponse{
		ID:        agent.ID,
		Email:     agent.Email,
		Name:      agent.Name,
		Role:      agent.Role,
		CreatedAt: agent.CreatedAt,
	}
}
