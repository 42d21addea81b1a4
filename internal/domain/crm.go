package domain

import "time"

// Client is a CRM contact tickets may reference.
type Client struct {
	ID        string
	Name      string
	Email     string
	Phone     string
	CompanyID *string
	CreatedAt time.Time
	UpdatedAt time.Time
}

// Company is a CRM account tickets and clients may reference.
type Company struct {
	ID        string
	Name      string
	Website   string
	CreatedAt time.Time
	UpdatedAt time.Time
}

// Department groups agents and scopes inbound integrations.
type Department struct {
	ID        string
	Name      string
	IsActive  bool
	CreatedAt time.Time
	UpdatedAt time.Time
}
