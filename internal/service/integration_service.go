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

// IntegrationService manages configured inbound/outbound channels.
type IntegrationService struct {
	integrations repository.IntegrationRepository
}

// NewIntegrationService constructs the service.
func NewIntegrationService(integrations repository.IntegrationRepository) *IntegrationService {
	return &IntegrationService{integrations: integrations}
}

// IntegrationInput describes create/update payload. RawConfig is the
// JSON settings object; it is decoded and validated against the
// variant struct for the declared type before anything is stored.
type IntegrationInput struct {
	Name         string
	Type         domain.IntegrationType
	RawConfig    []byte
	IsActive     *bool
	DepartmentID *string
}

func buildIntegrationConfig(t domain.IntegrationType, raw []byte) (domain.IntegrationConfig, error) {
	if !t.Valid() {
		return nil, errorutil.NewValidationError("unknown integration type", map[string]any{"type": t})
	}
	if len(raw) == 0 {
		raw = []byte("{}")
	}
	cfg, err := domain.DecodeIntegrationConfig(t, raw)
	if err != nil {
		return nil, errorutil.NewValidationError("malformed config", map[string]any{"type": t})
	}
	if err := cfg.Validate(); err != nil {
		return nil, errorutil.NewValidationError(err.Error(), map[string]any{"type": t})
	}
	return cfg, nil
}

// CreateIntegration validates and persists a new integration.
func (s *IntegrationService) CreateIntegration(ctx context.Context, input IntegrationInput) (*domain.Integration, error) {
	name := strings.TrimSpace(input.Name)
	if name == "" {
		return nil, errorutil.NewValidationError("name required", nil)
	}
	cfg, err := buildIntegrationConfig(input.Type, input.RawConfig)
	if err != nil {
		return nil, err
	}

	integration := &domain.Integration{
		Name:         name,
		Type:         input.Type,
		Config:       cfg,
		IsActive:     true,
		DepartmentID: input.DepartmentID,
	}
	if input.IsActive != nil {
		integration.IsActive = *input.IsActive
	}
	if err := s.integrations.Create(ctx, integration); err != nil {
		return nil, errorutil.NewStoreError(err)
	}
	return integration, nil
}

// UpdateIntegration overwrites an integration. A type change requires
// a config that validates against the new type.
func (s *IntegrationService) UpdateIntegration(ctx context.Context, id string, input IntegrationInput) (*domain.Integration, error) {
	integration, err := s.integrations.GetByID(ctx, id)
	if err != nil {
		return nil, mapIntegrationErr(id, err)
	}

	if name := strings.TrimSpace(input.Name); name != "" {
		integration.Name = name
	}
	if input.Type != "" {
		integration.Type = input.Type
	}
	if input.Type != "" || len(input.RawConfig) > 0 {
		cfg, err := buildIntegrationConfig(integration.Type, input.RawConfig)
		if err != nil {
			return nil, err
		}
		integration.Config = cfg
	}
	if input.IsActive != nil {
		integration.IsActive = *input.IsActive
	}
	if input.DepartmentID != nil {
		integration.DepartmentID = input.DepartmentID
	}

	if err := s.integrations.Update(ctx, integration); err != nil {
		return nil, mapIntegrationErr(id, err)
	}
	return integration, nil
}

// GetIntegration fetches an integration by id.
func (s *IntegrationService) GetIntegration(ctx context.Context, id string) (*domain.Integration, error) {
	integration, err := s.integrations.GetByID(ctx, id)
	if err != nil {
		return nil, mapIntegrationErr(id, err)
	}
	return integration, nil
}

// DeleteIntegration removes an integration.
func (s *IntegrationService) DeleteIntegration(ctx context.Context, id string) error {
	if err := s.integrations.Delete(ctx, id); err != nil {
		return mapIntegrationErr(id, err)
	}
	return nil
}

// ListIntegrations returns all integrations alphabetically.
func (s *IntegrationService) ListIntegrations(ctx context.Context) ([]domain.Integration, error) {
	integrations, err := s.integrations.List(ctx)
	if err != nil {
		return nil, errorutil.NewStoreError(err)
	}
	return integrations, nil
}

func mapIntegrationErr(id string, err error) error {
	if errors.Is(err, pgx.ErrNoRows) {
		return errorutil.NewNotFound("integration", map[string]any{"id": id})
	}
	return errorutil.ToDomainError(err)
}
