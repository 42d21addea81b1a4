package dto

import (
	"time"

	"github.com/crmdesk/ticketd/internal/domain"
)

// CreateTicketRequest payload.
type CreateTicketRequest struct {
	Subject     string                `json:"subject"`
	Description string                `json:"description"`
	Priority    domain.TicketPriority `json:"priority"`
	Channel     domain.TicketChannel  `json:"channel"`
	Tags        []string              `json:"tags"`
	AssignedTo  *string               `json:"assigned_to"`
	ClientID    *string               `json:"client_id"`
	CompanyID   *string               `json:"company_id"`
}

// UpdateTicketRequest carries partial field updates.
type UpdateTicketRequest struct {
	Subject     *string                `json:"subject"`
	Description *string                `json:"description"`
	Priority    *domain.TicketPriority `json:"priority"`
	Channel     *domain.TicketChannel  `json:"channel"`
	Tags        []string               `json:"tags"`
	ClientID    *string                `json:"client_id"`
	CompanyID   *string                `json:"company_id"`
}

// ChangeStatusRequest payload.
type ChangeStatusRequest struct {
	Status domain.TicketStatus `json:"status"`
}

// AssignTicketRequest payload; a null agent_id clears the assignment.
type AssignTicketRequest struct {
	AgentID *string `json:"agent_id"`
}

// CreateCommentRequest payload.
type CreateCommentRequest struct {
	Content    string `json:"content"`
	IsInternal bool   `json:"is_internal"`
}

// TicketResponse is the wire shape of a ticket.
type TicketResponse struct {
	ID          string                `json:"id"`
	Subject     string                `json:"subject"`
	Description string                `json:"description"`
	Status      domain.TicketStatus   `json:"status"`
	Priority    domain.TicketPriority `json:"priority"`
	Channel     domain.TicketChannel  `json:"channel"`
	Tags        []string              `json:"tags"`
	AssignedTo  *string               `json:"assigned_to"`
	ClientID    *string               `json:"client_id"`
	CompanyID   *string               `json:"company_id"`
	CreatedAt   time.Time             `json:"created_at"`
	UpdatedAt   time.Time             `json:"updated_at"`
	ResolvedAt  *time.Time            `json:"resolved_at"`
	ClosedAt    *time.Time            `json:"closed_at"`
}

// CommentResponse is the wire shape of a ticket comment.
type CommentResponse struct {
	ID         string                   `json:"id"`
	TicketID   string                   `json:"ticket_id"`
	AuthorID   string                   `json:"author_id"`
	AuthorType domain.CommentAuthorType `json:"author_type"`
	Content    string                   `json:"content"`
	IsInternal bool                     `json:"is_internal"`
	CreatedAt  time.Time                `json:"created_at"`
}

// TicketListResponse is one page of tickets plus the unpaginated total.
type TicketListResponse struct {
	Data  []TicketResponse `json:"data"`
	Total int              `json:"total"`
}

// NewTicketResponse maps the domain entity to the wire shape.
func NewTicketResponse(ticket *domain.Ticket) TicketResponse {
	tags := ticket.Tags
	if tags == nil {
		tags = []string{}
	}
	return TicketResponse{
		ID:          ticket.ID,
		Subject:     ticket.Subject,
		Description: ticket.Description,
		Status:      ticket.Status,
		Priority:    ticket.Priority,
		Channel:     ticket.Channel,
		Tags:        tags,
		AssignedTo:  ticket.AssignedTo,
		ClientID:    ticket.ClientID,
		CompanyID:   ticket.CompanyID,
		CreatedAt:   ticket.CreatedAt,
		UpdatedAt:   ticket.UpdatedAt,
		ResolvedAt:  ticket.ResolvedAt,
		ClosedAt:    ticket.ClosedAt,
	}
}

// NewCommentResponse maps the domain entity to the wire shape.
func NewCommentResponse(comment *domain.TicketComment) CommentResponse {
	return CommentResponse{
		ID:         comment.ID,
		TicketID:   comment.TicketID,
		AuthorID:   comment.AuthorID,
		AuthorType: comment.AuthorType,
		Content:    comment.Content,
		IsInternal: comment.IsInternal,
		CreatedAt:  comment.CreatedAt,
	}
}
