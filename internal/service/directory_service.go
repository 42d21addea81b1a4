package service

import (
	"context"
	"errors"
	"strings"

	"github.com/jackc/pgx/v5"

	"github.com/crmdesk/ticketd/internal/domain"
	"github.com/crmdesk/ticketd/internal/repository"
	"github.com/crmdesk/ticketd/pkg/errorutil"
)

// DirectoryService manages the CRM directory entities tickets
// reference weakly: clients, companies and departments.
type DirectoryService struct {
	clients     repository.ClientRepository
	companies   repository.CompanyRepository
	departments repository.DepartmentRepository
}

// DirectoryDependencies bundles repositories.
type DirectoryDependencies struct {
	ClientRepo     repository.ClientRepository
	CompanyRepo    repository.CompanyRepository
	DepartmentRepo repository.DepartmentRepository
}

// NewDirectoryService constructs the service.
func NewDirectoryService(deps DirectoryDependencies) *DirectoryService {
	return &DirectoryService{
		clients:     deps.ClientRepo,
		companies:   deps.CompanyRepo,
		departments: deps.DepartmentRepo,
	}
}

// ClientInput describes client create/update payload.
type ClientInput struct {
	Name      string
	Email     string
	Phone     string
	CompanyID *string
}

// CreateClient persists a new client.
func (s *DirectoryService) CreateClient(ctx context.Context, input ClientInput) (*domain.Client, error) {
	name := strings.TrimSpace(input.Name)
	if name == "" {
		return nil, errorutil.NewValidationError("name required", nil)
	}
	client := &domain.Client{
		Name:      name,
		Email:     strings.TrimSpace(input.Email),
		Phone:     strings.TrimSpace(input.Phone),
		CompanyID: input.CompanyID,
	}
	if err := s.clients.Create(ctx, client); err != nil {
		return nil, errorutil.NewStoreError(err)
	}
	return client, nil
}

// UpdateClient overwrites client fields.
func (s *DirectoryService) UpdateClient(ctx context.Context, id string, input ClientInput) (*domain.Client, error) {
	client, err := s.clients.GetByID(ctx, id)
	if err != nil {
		return nil, mapDirectoryErr("client", id, err)
	}
	if name := strings.TrimSpace(input.Name); name != "" {
		client.Name = name
	}
	client.Email = strings.TrimSpace(input.Email)
	client.Phone = strings.TrimSpace(input.Phone)
	client.CompanyID = input.CompanyID
	if err := s.clients.Update(ctx, client); err != nil {
		return nil, mapDirectoryErr("client", id, err)
	}
	return client, nil
}

// GetClient fetches a client by id.
func (s *DirectoryService) GetClient(ctx context.Context, id string) (*domain.Client, error) {
	client, err := s.clients.GetByID(ctx, id)
	if err != nil {
		return nil, mapDirectoryErr("client", id, err)
	}
	return client, nil
}

// DeleteClient removes a client.
func (s *DirectoryService) DeleteClient(ctx context.Context, id string) error {
	if err := s.clients.Delete(ctx, id); err != nil {
		return mapDirectoryErr("client", id, err)
	}
	return nil
}

// ListClients pages through clients alphabetically.
func (s *DirectoryService) ListClients(ctx context.Context, limit, offset int) ([]domain.Client, error) {
	clients, err := s.clients.List(ctx, limit, offset)
	if err != nil {
		return nil, errorutil.NewStoreError(err)
	}
	return clients, nil
}

// CompanyInput describes company create/update payload.
type CompanyInput struct {
	Name    string
	Website string
}

// CreateCompany persists a new company.
func (s *DirectoryService) CreateCompany(ctx context.Context, input CompanyInput) (*domain.Company, error) {
	name := strings.TrimSpace(input.Name)
	if name == "" {
		return nil, errorutil.NewValidationError("name required", nil)
	}
	company := &domain.Company{Name: name, Website: strings.TrimSpace(input.Website)}
	if err := s.companies.Create(ctx, company); err != nil {
		return nil, errorutil.NewStoreError(err)
	}
	return company, nil
}

// UpdateCompany overwrites company fields.
func (s *DirectoryService) UpdateCompany(ctx context.Context, id string, input CompanyInput) (*domain.Company, error) {
	company, err := s.companies.GetByID(ctx, id)
	if err != nil {
		return nil, mapDirectoryErr("company", id, err)
	}
	if name := strings.TrimSpace(input.Name); name != "" {
		company.Name = name
	}
	company.Website = strings.TrimSpace(input.Website)
	if err := s.companies.Update(ctx, company); err != nil {
		return nil, mapDirectoryErr("company", id, err)
	}
	return company, nil
}

// GetCompany fetches a company by id.
func (s *DirectoryService) GetCompany(ctx context.Context, id string) (*domain.Company, error) {
	company, err := s.companies.GetByID(ctx, id)
	if err != nil {
		return nil, mapDirectoryErr("company", id, err)
	}
	return company, nil
}

// DeleteCompany removes a company.
func (s *DirectoryService) DeleteCompany(ctx context.Context, id string) error {
	if err := s.companies.Delete(ctx, id); err != nil {
		return mapDirectoryErr("company", id, err)
	}
	return nil
}

// ListCompanies pages through companies alphabetically.
func (s *DirectoryService) ListCompanies(ctx context.Context, limit, offset int) ([]domain.Company, error) {
	companies, err := s.companies.List(ctx, limit, offset)
	if err != nil {
		return nil, errorutil.NewStoreError(err)
	}
	return companies, nil
}

// DepartmentInput describes department create/update payload.
type DepartmentInput struct {
	Name     string
	IsActive *bool
}

// CreateDepartment persists a new department, active by default.
func (s *DirectoryService) CreateDepartment(ctx context.Context, input DepartmentInput) (*domain.Department, error) {
	name := strings.TrimSpace(input.Name)
	if name == "" {
		return nil, errorutil.NewValidationError("name required", nil)
	}
	dept := &domain.Department{Name: name, IsActive: true}
	if input.IsActive != nil {
		dept.IsActive = *input.IsActive
	}
	if err := s.departments.Create(ctx, dept); err != nil {
		return nil, errorutil.NewStoreError(err)
	}
	return dept, nil
}

// UpdateDepartment overwrites department fields.
func (s *DirectoryService) UpdateDepartment(ctx context.Context, id string, input DepartmentInput) (*domain.Department, error) {
	dept, err := s.departments.GetByID(ctx, id)
	if err != nil {
		return nil, mapDirectoryErr("department", id, err)
	}
	if name := strings.TrimSpace(input.Name); name != "" {
		dept.Name = name
	}
	if input.IsActive != nil {
		dept.IsActive = *input.IsActive
	}
	if err := s.departments.Update(ctx, dept); err != nil {
		return nil, mapDirectoryErr("department", id, err)
	}
	return dept, nil
}

// DeleteDepartment removes a department.
func (s *DirectoryService) DeleteDepartment(ctx context.Context, id string) error {
	if err := s.departments.Delete(ctx, id); err != nil {
		return mapDirectoryErr("department", id, err)
	}
	return nil
}

// ListDepartments returns all departments alphabetically.
func (s *DirectoryService) ListDepartments(ctx context.Context) ([]domain.Department, error) {
	departments, err := s.departments.List(ctx)
	if err != nil {
		return nil, errorutil.NewStoreError(err)
	}
	return departments, nil
}

func mapDirectoryErr(resource, id string, err error) error {
	if errors.Is(err, pgx.ErrNoRows) {
		return errorutil.NewNotFound(resource, map[string]any{"id": id})
	}
	return errorutil.ToDomainError(err)
}
