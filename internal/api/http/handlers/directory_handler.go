package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/crmdesk/ticketd/internal/api/dto"
	"github.com/crmdesk/ticketd/internal/service"
	"github.com/crmdesk/ticketd/pkg/errorutil"
)

// DirectoryHandler exposes the CRM directory entities.
type DirectoryHandler struct {
	service *service.DirectoryService
}

// NewDirectoryHandler constructs handler.
func NewDirectoryHandler(directoryService *service.DirectoryService) *DirectoryHandler {
	return &DirectoryHandler{service: directoryService}
}

// CreateClient POST /api/clients.
func (h *DirectoryHandler) CreateClient(c *fiber.Ctx) error {
	var req dto.ClientRequest
	if err := c.BodyParser(&req); err != nil {
		return errorutil.NewValidationError("invalid payload", nil)
	}
	client, err := h.service.CreateClient(c.UserContext(), clientInput(req))
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"data": dto.NewClientResponse(client)})
}

// ListClients GET /api/clients.
func (h *DirectoryHandler) ListClients(c *fiber.Ctx) error {
	limit := parseInt(c.Query("limit"), 50)
	page := parseInt(c.Query("page"), 1)
	clients, err := h.service.ListClients(c.UserContext(), limit, (page-1)*limit)
	if err != nil {
		return err
	}
	items := make([]dto.ClientResponse, 0, len(clients))
	for i := range clients {
		items = append(items, dto.NewClientResponse(&clients[i]))
	}
	return c.JSON(fiber.Map{"data": items})
}

// GetClient GET /api/clients/:id.
func (h *DirectoryHandler) GetClient(c *fiber.Ctx) error {
	client, err := h.service.GetClient(c.UserContext(), c.Params("id"))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.NewClientResponse(client)})
}

// UpdateClient PUT /api/clients/:id.
func (h *DirectoryHandler) UpdateClient(c *fiber.Ctx) error {
	var req dto.ClientRequest
	if err := c.BodyParser(&req); err != nil {
		return errorutil.NewValidationError("invalid payload", nil)
	}
	client, err := h.service.UpdateClient(c.UserContext(), c.Params("id"), clientInput(req))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.NewClientResponse(client)})
}

// DeleteClient DELETE /api/clients/:id.
func (h *DirectoryHandler) DeleteClient(c *fiber.Ctx) error {
	if err := h.service.DeleteClient(c.UserContext(), c.Params("id")); err != nil {
		return err
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// CreateCompany POST /api/companies.
func (h *DirectoryHandler) CreateCompany(c *fiber.Ctx) error {
	var req dto.CompanyRequest
	if err := c.BodyParser(&req); err != nil {
		return errorutil.NewValidationError("invalid payload", nil)
	}
	company, err := h.service.CreateCompany(c.UserContext(), service.CompanyInput{Name: req.Name, Website: req.Website})
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"data": dto.NewCompanyResponse(company)})
}

// ListCompanies GET /api/companies.
func (h *DirectoryHandler) ListCompanies(c *fiber.Ctx) error {
	limit := parseInt(c.Query("limit"), 50)
	page := parseInt(c.Query("page"), 1)
	companies, err := h.service.ListCompanies(c.UserContext(), limit, (page-1)*limit)
	if err != nil {
		return err
	}
	items := make([]dto.CompanyResponse, 0, len(companies))
	for i := range companies {
		items = append(items, dto.NewCompanyResponse(&companies[i]))
	}
	return c.JSON(fiber.Map{"data": items})
}

// GetCompany GET /api/companies/:id.
func (h *DirectoryHandler) GetCompany(c *fiber.Ctx) error {
	company, err := h.service.GetCompany(c.UserContext(), c.Params("id"))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.NewCompanyResponse(company)})
}

// UpdateCompany PUT /api/companies/:id.
func (h *DirectoryHandler) UpdateCompany(c *fiber.Ctx) error {
	var req dto.CompanyRequest
	if err := c.BodyParser(&req); err != nil {
		return errorutil.NewValidationError("invalid payload", nil)
	}
	company, err := h.service.UpdateCompany(c.UserContext(), c.Params("id"), service.CompanyInput{Name: req.Name, Website: req.Website})
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.NewCompanyResponse(company)})
}

// DeleteCompany DELETE /api/companies/:id.
func (h *DirectoryHandler) DeleteCompany(c *fiber.Ctx) error {
	if err := h.service.DeleteCompany(c.UserContext(), c.Params("id")); err != nil {
		return err
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// CreateDepartment POST /api/departments.
func (h *DirectoryHandler) CreateDepartment(c *fiber.Ctx) error {
	var req dto.DepartmentRequest
	if err := c.BodyParser(&req); err != nil {
		return errorutil.NewValidationError("invalid payload", nil)
	}
	dept, err := h.service.CreateDepartment(c.UserContext(), service.DepartmentInput{Name: req.Name, IsActive: req.IsActive})
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"data": dto.NewDepartmentResponse(dept)})
}

// ListDepartments GET /api/departments.
func (h *DirectoryHandler) ListDepartments(c *fiber.Ctx) error {
	departments, err := h.service.ListDepartments(c.UserContext())
	if err != nil {
		return err
	}
	items := make([]dto.DepartmentResponse, 0, len(departments))
	for i := range departments {
		items = append(items, dto.NewDepartmentResponse(&departments[i]))
	}
	return c.JSON(fiber.Map{"data": items})
}

// UpdateDepartment PUT /api/departments/:id.
func (h *DirectoryHandler) UpdateDepartment(c *fiber.Ctx) error {
	var req dto.DepartmentRequest
	if err := c.BodyParser(&req); err != nil {
		return errorutil.NewValidationError("invalid payload", nil)
	}
	dept, err := h.service.UpdateDepartment(c.UserContext(), c.Params("id"), service.DepartmentInput{Name: req.Name, IsActive: req.IsActive})
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.NewDepartmentResponse(dept)})
}

// DeleteDepartment DELETE /api/departments/:id.
func (h *DirectoryHandler) DeleteDepartment(c *fiber.Ctx) error {
	if err := h.service.DeleteDepartment(c.UserContext(), c.Params("id")); err != nil {
		return err
	}
	return c.SendStatus(fiber.StatusNoContent)
}

func clientInput(req dto.ClientRequest) service.ClientInput {
	return service.ClientInput{
		Name:      req.Name,
		Email:     req.Email,
		Phone:     req.Phone,
		CompanyID: req.CompanyID,
	}
}
