package handlers

import (
	"strconv"

	"github.com/gofiber/fiber/v2"

	"github.com/crmdesk/ticketd/internal/api/dto"
	"github.com/crmdesk/ticketd/internal/auth"
	"github.com/crmdesk/ticketd/internal/domain"
	"github.com/crmdesk/ticketd/internal/service"
	"github.com/crmdesk/ticketd/pkg/errorutil"
)

// TicketsHandler exposes the ticket workflow over HTTP.
type TicketsHandler struct {
	service *service.TicketService
}

// NewTicketsHandler constructs handler.
func NewTicketsHandler(ticketService *service.TicketService) *TicketsHandler {
	return &TicketsHandler{service: ticketService}
}

// CreateTicket POST /api/tickets.
func (h *TicketsHandler) CreateTicket(c *fiber.Ctx) error {
	var req dto.CreateTicketRequest
	if err := c.BodyParser(&req); err != nil {
		return errorutil.NewValidationError("invalid payload", nil)
	}
	ticket, err := h.service.CreateTicket(c.UserContext(), service.CreateTicketInput{
		Subject:     req.Subject,
		Description: req.Description,
		Priority:    req.Priority,
		Channel:     req.Channel,
		Tags:        req.Tags,
		AssignedTo:  req.AssignedTo,
		ClientID:    req.ClientID,
		CompanyID:   req.CompanyID,
	})
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"data": dto.NewTicketResponse(ticket)})
}

// ListTickets GET /api/tickets.
func (h *TicketsHandler) ListTickets(c *fiber.Ctx) error {
	input := parseTicketListQuery(c)
	tickets, total, err := h.service.ListTickets(c.UserContext(), input)
	if err != nil {
		return err
	}
	return c.JSON(ticketListResponse(tickets, total))
}

// SearchTickets GET /api/tickets/search?query=.
func (h *TicketsHandler) SearchTickets(c *fiber.Ctx) error {
	input := parseTicketListQuery(c)
	if q := c.Query("query"); q != "" {
		input.Search = &q
	}
	tickets, total, err := h.service.ListTickets(c.UserContext(), input)
	if err != nil {
		return err
	}
	return c.JSON(ticketListResponse(tickets, total))
}

// GetTicket GET /api/tickets/:id.
func (h *TicketsHandler) GetTicket(c *fiber.Ctx) error {
	ticket, err := h.service.GetTicket(c.UserContext(), c.Params("id"))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.NewTicketResponse(ticket)})
}

// UpdateTicket PUT /api/tickets/:id.
func (h *TicketsHandler) UpdateTicket(c *fiber.Ctx) error {
	var req dto.UpdateTicketRequest
	if err := c.BodyParser(&req); err != nil {
		return errorutil.NewValidationError("invalid payload", nil)
	}
	ticket, err := h.service.UpdateTicket(c.UserContext(), c.Params("id"), service.TicketPatch{
		Subject:     req.Subject,
		Description: req.Description,
		Priority:    req.Priority,
		Channel:     req.Channel,
		Tags:        req.Tags,
		ClientID:    req.ClientID,
		CompanyID:   req.CompanyID,
	})
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.NewTicketResponse(ticket)})
}

// DeleteTicket DELETE /api/tickets/:id.
func (h *TicketsHandler) DeleteTicket(c *fiber.Ctx) error {
	if err := h.service.DeleteTicket(c.UserContext(), c.Params("id")); err != nil {
		return err
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// ChangeStatus POST /api/tickets/:id/status.
func (h *TicketsHandler) ChangeStatus(c *fiber.Ctx) error {
	var req dto.ChangeStatusRequest
	if err := c.BodyParser(&req); err != nil {
		return errorutil.NewValidationError("invalid payload", nil)
	}
	ticket, err := h.service.ChangeStatus(c.UserContext(), c.Params("id"), req.Status)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.NewTicketResponse(ticket)})
}

// AssignTicket POST /api/tickets/:id/assign.
func (h *TicketsHandler) AssignTicket(c *fiber.Ctx) error {
	var req dto.AssignTicketRequest
	if err := c.BodyParser(&req); err != nil {
		return errorutil.NewValidationError("invalid payload", nil)
	}
	ticket, err := h.service.AssignTicket(c.UserContext(), c.Params("id"), req.AgentID)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.NewTicketResponse(ticket)})
}

// ListComments GET /api/tickets/:id/comments.
func (h *TicketsHandler) ListComments(c *fiber.Ctx) error {
	comments, err := h.service.ListComments(c.UserContext(), c.Params("id"))
	if err != nil {
		return err
	}
	items := make([]dto.CommentResponse, 0, len(comments))
	for i := range comments {
		items = append(items, dto.NewCommentResponse(&comments[i]))
	}
	return c.JSON(fiber.Map{"data": items})
}

// AddComment POST /api/tickets/:id/comments. The author comes from
// the authenticated principal.
func (h *TicketsHandler) AddComment(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok {
		return errorutil.NewUnauthenticated("authentication required")
	}
	var req dto.CreateCommentRequest
	if err := c.BodyParser(&req); err != nil {
		return errorutil.NewValidationError("invalid payload", nil)
	}
	actor := service.Actor{ID: principal.AgentID, Type: domain.AuthorTypeAgent}
	comment, err := h.service.AddComment(c.UserContext(), actor, c.Params("id"), req.Content, req.IsInternal)
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"data": dto.NewCommentResponse(comment)})
}

// Stats GET /api/tickets/stats.
func (h *TicketsHandler) Stats(c *fiber.Ctx) error {
	stats, err := h.service.Stats(c.UserContext())
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": stats})
}

func parseTicketListQuery(c *fiber.Ctx) service.ListTicketsInput {
	input := service.ListTicketsInput{
		Page:  parseInt(c.Query("page"), 1),
		Limit: parseInt(c.Query("limit"), 20),
	}
	if v := c.Query("status"); v != "" {
		status := domain.TicketStatus(v)
		input.Status = &status
	}
	if v := c.Query("priority"); v != "" {
		priority := domain.TicketPriority(v)
		input.Priority = &priority
	}
	if v := c.Query("assigned_to"); v != "" {
		input.AssignedTo = &v
	}
	if v := c.Query("client_id"); v != "" {
		input.ClientID = &v
	}
	if v := c.Query("company_id"); v != "" {
		input.CompanyID = &v
	}
	if v := c.Query("search"); v != "" {
		input.Search = &v
	}
	return input
}

func parseInt(val string, def int) int {
	if val == "" {
		return def
	}
	parsed, err := strconv.Atoi(val)
	if err != nil || parsed <= 0 {
		return def
	}
	return parsed
}

func ticketListResponse(tickets []domain.Ticket, total int) dto.TicketListResponse {
	items := make([]dto.TicketResponse, 0, len(tickets))
	for i := range tickets {
		items = append(items, dto.NewTicketResponse(&tickets[i]))
	}
	return dto.TicketListResponse{Data: items, Total: total}
}
