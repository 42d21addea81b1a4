package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/crmdesk/ticketd/internal/api/dto"
	"github.com/crmdesk/ticketd/internal/service"
	"github.com/crmdesk/ticketd/pkg/errorutil"
)

// IntegrationsHandler exposes integration management.
type IntegrationsHandler struct {
	service *service.IntegrationService
}

// NewIntegrationsHandler constructs handler.
func NewIntegrationsHandler(integrationService *service.IntegrationService) *IntegrationsHandler {
	return &IntegrationsHandler{service: integrationService}
}

// CreateIntegration POST /api/integrations.
func (h *IntegrationsHandler) CreateIntegration(c *fiber.Ctx) error {
	var req dto.IntegrationRequest
	if err := c.BodyParser(&req); err != nil {
		return errorutil.NewValidationError("invalid payload", nil)
	}
	integration, err := h.service.CreateIntegration(c.UserContext(), integrationInput(req))
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"data": dto.NewIntegrationResponse(integration)})
}

// ListIntegrations GET /api/integrations.
func (h *IntegrationsHandler) ListIntegrations(c *fiber.Ctx) error {
	integrations, err := h.service.ListIntegrations(c.UserContext())
	if err != nil {
		return err
	}
	items := make([]dto.IntegrationResponse, 0, len(integrations))
	for i := range integrations {
		items = append(items, dto.NewIntegrationResponse(&integrations[i]))
	}
	return c.JSON(fiber.Map{"data": items})
}

// GetIntegration GET /api/integrations/:id.
func (h *IntegrationsHandler) GetIntegration(c *fiber.Ctx) error {
	integration, err := h.service.GetIntegration(c.UserContext(), c.Params("id"))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.NewIntegrationResponse(integration)})
}

// UpdateIntegration PUT /api/integrations/:id.
func (h *IntegrationsHandler) UpdateIntegration(c *fiber.Ctx) error {
	var req dto.IntegrationRequest
	if err := c.BodyParser(&req); err != nil {
		return errorutil.NewValidationError("invalid payload", nil)
	}
	integration, err := h.service.UpdateIntegration(c.UserContext(), c.Params("id"), integrationInput(req))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.NewIntegrationResponse(integration)})
}

// DeleteIntegration DELETE /api/integrations/:id.
func (h *IntegrationsHandler) DeleteIntegration(c *fiber.Ctx) error {
	if err := h.service.DeleteIntegration(c.UserContext(), c.Params("id")); err != nil {
		return err
	}
	return c.SendStatus(fiber.StatusNoContent)
}

func integrationInput(req dto.IntegrationRequest) service.IntegrationInput {
	return service.IntegrationInput{
		Name:         req.Name,
		Type:         req.Type,
		RawConfig:    req.Config,
		IsActive:     req.IsActive,
		DepartmentID: req.DepartmentID,
	}
}
