package domain

import "time"

// AgentRole is a display label only; the service enforces no
// role-based access rules.
type AgentRole string

const (
	AgentRoleAgent   AgentRole = "agent"
	AgentRoleManager AgentRole = "manager"
	AgentRoleAdmin   AgentRole = "admin"
)

// Agent is an internal user who owns and acts on tickets.
type Agent struct {
	ID           string
	Email        string
	Name         string
	PasswordHash string
	Role         AgentRole
	CreatedAt    time.Time
}
