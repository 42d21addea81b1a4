package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/crmdesk/ticketd/internal/auth"
	"github.com/crmdesk/ticketd/internal/config"
	"github.com/crmdesk/ticketd/internal/domain"
	"github.com/crmdesk/ticketd/internal/repository"
	"github.com/crmdesk/ticketd/pkg/errorutil"
)

// AuthService registers agents and issues access tokens.
type AuthService struct {
	agents repository.AgentRepository
	tokens *auth.TokenManager
	cfg    config.AuthConfig
}

// NewAuthService constructs the service.
func NewAuthService(cfg config.AuthConfig, agents repository.AgentRepository) *AuthService {
	return &AuthService{
		agents: agents,
		tokens: auth.NewTokenManager(cfg.JWTSecret, cfg.AccessTokenTTLMinutes),
		cfg:    cfg,
	}
}

// TokenManager exposes the manager for middleware wiring.
func (s *AuthService) TokenManager() *auth.TokenManager {
	return s.tokens
}

// RegisterAgentInput describes registration payload.
type RegisterAgentInput struct {
	Email    string
	Name     string
	Password string
	Role     domain.AgentRole
}

// RegisterAgent creates an agent account.
func (s *AuthService) RegisterAgent(ctx context.Context, input RegisterAgentInput) (*domain.Agent, error) {
	email := strings.ToLower(strings.TrimSpace(input.Email))
	if email == "" || !strings.Contains(email, "@") {
		return nil, errorutil.NewValidationError("valid email required", nil)
	}
	if len(input.Password) < 8 {
		return nil, errorutil.NewValidationError("password must be at least 8 characters", nil)
	}
	if _, err := s.agents.GetByEmail(ctx, email); err == nil {
		return nil, errorutil.NewConflict("email already registered", map[string]any{"email": email})
	} else if !errors.Is(err, pgx.ErrNoRows) {
		return nil, errorutil.NewStoreError(err)
	}

	hash, err := auth.HashPassword(input.Password, s.cfg.BcryptCost)
	if err != nil {
		return nil, errorutil.NewInternalError(err)
	}

	role := input.Role
	if role == "" {
		role = domain.AgentRoleAgent
	}
	agent := &domain.Agent{
		Email:        email,
		Name:         strings.TrimSpace(input.Name),
		PasswordHash: hash,
		Role:         role,
	}
	if err := s.agents.Create(ctx, agent); err != nil {
		return nil, errorutil.NewStoreError(err)
	}
	return agent, nil
}

// LoginResult carries the issued token.
type LoginResult struct {
	Agent     *domain.Agent
	Token     string
	ExpiresAt time.Time
}

// Login verifies credentials and issues a bearer token.
func (s *AuthService) Login(ctx context.Context, email, password string) (*LoginResult, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	agent, err := s.agents.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, errorutil.NewUnauthenticated("invalid credentials")
		}
		return nil, errorutil.NewStoreError(err)
	}
	if !auth.CheckPassword(agent.PasswordHash, password) {
		return nil, errorutil.NewUnauthenticated("invalid credentials")
	}

	token, expiresAt, err := s.tokens.GenerateToken(agent)
	if err != nil {
		return nil, errorutil.NewInternalError(err)
	}
	return &LoginResult{Agent: agent, Token: token, ExpiresAt: expiresAt}, nil
}
