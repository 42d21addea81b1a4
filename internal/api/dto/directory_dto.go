package dto

import (
	"time"

	"github.com/crmdesk/ticketd/internal/domain"
)

// ClientRequest payload for create/update.
type ClientRequest struct {
	Name      string  `json:"name"`
	Email     string  `json:"email"`
	Phone     string  `json:"phone"`
	CompanyID *string `json:"company_id"`
}

// ClientResponse wire shape.
type ClientResponse struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	Phone     string    `json:"phone"`
	CompanyID *string   `json:"company_id"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// CompanyRequest payload for create/update.
type CompanyRequest struct {
	Name    string `json:"name"`
	Website string `json:"website"`
}

// CompanyResponse wire shape.
type CompanyResponse struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Website   string    `json:"website"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// DepartmentRequest payload for create/update.
type DepartmentRequest struct {
	Name     string `json:"name"`
	IsActive *bool  `json:"is_active"`
}

// DepartmentResponse wire shape.
type DepartmentResponse struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	IsActive  bool      `json:"is_active"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// NewClientResponse maps the domain entity to the wire shape.
func NewClientResponse(client *domain.Client) ClientResponse {
	return ClientResponse{
		ID:        client.ID,
		Name:      client.Name,
		Email:     client.Email,
		Phone:     client.Phone,
		CompanyID: client.CompanyID,
		CreatedAt: client.CreatedAt,
		UpdatedAt: client.UpdatedAt,
	}
}

// NewCompanyResponse maps the domain entity to the wire shape.
func NewCompanyResponse(company *domain.Company) CompanyResponse {
	return CompanyResponse{
		ID:        company.ID,
		Name:      company.Name,
		Website:   company.Website,
		CreatedAt: company.CreatedAt,
		UpdatedAt: company.UpdatedAt,
	}
}

// NewDepartmentResponse maps the domain entity to the wire shape.
func NewDepartmentResponse(dept *domain.Department) DepartmentResponse {
	return DepartmentResponse{
		ID:        dept.ID,
		Name:      dept.Name,
		IsActive:  dept.IsActive,
		CreatedAt: dept.CreatedAt,
		UpdatedAt: dept.UpdatedAt,
	}
}
