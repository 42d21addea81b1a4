package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/crmdesk/ticketd/internal/api/dto"
	"github.com/crmdesk/ticketd/internal/service"
	"github.com/crmdesk/ticketd/pkg/errorutil"
)

// AuthHandler exposes agent registration and login.
type AuthHandler struct {
	service *service.AuthService
}

// NewAuthHandler constructs handler.
func NewAuthHandler(authService *service.AuthService) *AuthHandler {
	return &AuthHandler{service: authService}
}

// Register POST /auth/agents/register.
func (h *AuthHandler) Register(c *fiber.Ctx) error {
	var req dto.RegisterAgentRequest
	if err := c.BodyParser(&req); err != nil {
		return errorutil.NewValidationError("invalid payload", nil)
	}
	agent, err := h.service.RegisterAgent(c.UserContext(), service.RegisterAgentInput{
		Email:    req.Email,
		Name:     req.Name,
		Password: req.Password,
		Role:     req.Role,
	})
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"data": dto.NewAgentResponse(agent)})
}

// Login POST /auth/agents/login.
func (h *AuthHandler) Login(c *fiber.Ctx) error {
	var req dto.LoginRequest
	if err := c.BodyParser(&req); err != nil {
		return errorutil.NewValidationError("invalid payload", nil)
	}
	result, err := h.service.Login(c.UserContext(), req.Email, req.Password)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.LoginResponse{
		Token:     result.Token,
		ExpiresAt: result.ExpiresAt,
		Agent:     dto.NewAgentResponse(result.Agent),
	}})
}
