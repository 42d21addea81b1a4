package dto

import (
	"encoding/json"
	"time"

	"github.com/crmdesk/ticketd/internal/domain"
)

// IntegrationRequest payload for create/update. Config is decoded and
// validated against the variant struct for the declared type.
type IntegrationRequest struct {
	Name         string                 `json:"name"`
	Type         domain.IntegrationType `json:"type"`
	Config       json.RawMessage        `json:"config"`
	IsActive     *bool                  `json:"is_active"`
	DepartmentID *string                `json:"department_id"`
}

// IntegrationResponse wire shape.
type IntegrationResponse struct {
	ID           string                   `json:"id"`
	Name         string                   `json:"name"`
	Type         domain.IntegrationType   `json:"type"`
	Config       domain.IntegrationConfig `json:"config"`
	IsActive     bool                     `json:"is_active"`
	DepartmentID *string                  `json:"department_id"`
	CreatedAt    time.Time                `json:"created_at"`
	UpdatedAt    time.Time                `json:"updated_at"`
}

// NewIntegrationResponse maps the domain entity to the wire shape.
func NewIntegrationResponse(integration *domain.Integration) IntegrationResponse {
	return IntegrationResponse{
		ID:           integration.ID,
		Name:         integration.Name,
		Type:         integration.Type,
		Config:       integration.Config,
		IsActive:     integration.IsActive,
		DepartmentID: integration.DepartmentID,
		CreatedAt:    integration.CreatedAt,
		UpdatedAt:    integration.UpdatedAt,
	}
}
