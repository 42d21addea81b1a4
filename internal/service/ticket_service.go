package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/crmdesk/ticketd/internal/domain"
	"github.com/crmdesk/ticketd/internal/events"
	"github.com/crmdesk/ticketd/internal/persistence"
	"github.com/crmdesk/ticketd/internal/repository"
	"github.com/crmdesk/ticketd/pkg/errorutil"
)

// TicketService coordinates the ticket workflow: creation, status and
// assignment changes, comments, listing and stats.
type TicketService struct {
	tickets     repository.TicketRepository
	comments    repository.CommentRepository
	dispatcher  events.Dispatcher
	statsCache  *persistence.StatsCache
	transitions domain.TransitionTable
}

// TicketDependencies bundles collaborators for the ticket service.
type TicketDependencies struct {
	TicketRepo  repository.TicketRepository
	CommentRepo repository.CommentRepository
	Dispatcher  events.Dispatcher
	StatsCache  *persistence.StatsCache
	Transitions domain.TransitionTable
}

// NewTicketService constructs the service.
func NewTicketService(deps TicketDependencies) *TicketService {
	return &TicketService{
		tickets:     deps.TicketRepo,
		comments:    deps.CommentRepo,
		dispatcher:  deps.Dispatcher,
		statsCache:  deps.StatsCache,
		transitions: deps.Transitions,
	}
}

// CreateTicketInput describes ticket creation payload.
type CreateTicketInput struct {
	Subject     string
	Description string
	Priority    domain.TicketPriority
	Channel     domain.TicketChannel
	Tags        []string
	AssignedTo  *string
	ClientID    *string
	CompanyID   *string
}

// TicketPatch carries partial field updates; nil means unchanged.
type TicketPatch struct {
	Subject     *string
	Description *string
	Priority    *domain.TicketPriority
	Channel     *domain.TicketChannel
	Tags        []string
	ClientID    *string
	CompanyID   *string
}

// ListTicketsInput describes listing filters and pagination.
type ListTicketsInput struct {
	Status     *domain.TicketStatus
	Priority   *domain.TicketPriority
	AssignedTo *string
	ClientID   *string
	CompanyID  *string
	Search     *string
	Page       int
	Limit      int
}

// Actor is the resolved identity performing an operation.
type Actor struct {
	ID   string
	Type domain.CommentAuthorType
}

// CreateTicket validates input, applies defaults and persists a new
// ticket. Validation failures never reach the store.
func (s *TicketService) CreateTicket(ctx context.Context, input CreateTicketInput) (*domain.Ticket, error) {
	subject := strings.TrimSpace(input.Subject)
	description := strings.TrimSpace(input.Description)
	if subject == "" {
		return nil, errorutil.NewValidationError("subject required", nil)
	}
	if description == "" {
		return nil, errorutil.NewValidationError("description required", nil)
	}

	priority := input.Priority
	if priority == "" {
		priority = domain.TicketPriorityMedium
	}
	if !priority.Valid() {
		return nil, errorutil.NewValidationError("unknown priority", map[string]any{"priority": priority})
	}
	channel := input.Channel
	if channel == "" {
		channel = domain.ChannelWeb
	}
	if !channel.Valid() {
		return nil, errorutil.NewValidationError("unknown channel", map[string]any{"channel": channel})
	}

	now := time.Now()
	ticket := &domain.Ticket{
		ID:          uuid.NewString(),
		Subject:     subject,
		Description: description,
		Status:      domain.TicketStatusNew,
		Priority:    priority,
		Channel:     channel,
		Tags:        dedupeTags(input.Tags),
		AssignedTo:  input.AssignedTo,
		ClientID:    input.ClientID,
		CompanyID:   input.CompanyID,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	if err := s.tickets.Create(ctx, ticket); err != nil {
		return nil, errorutil.NewStoreError(err)
	}
	s.statsCache.Invalidate(ctx)
	s.publishEvent(ctx, events.Event{
		Type:     events.EventTicketCreated,
		TicketID: ticket.ID,
		Payload: events.TicketCreatedPayload{
			Subject:  ticket.Subject,
			Priority: ticket.Priority,
			Channel:  ticket.Channel,
		},
	})
	return ticket, nil
}

// GetTicket fetches a ticket by id.
func (s *TicketService) GetTicket(ctx context.Context, id string) (*domain.Ticket, error) {
	ticket, err := s.tickets.GetByID(ctx, id)
	if err != nil {
		return nil, mapTicketErr(id, err)
	}
	return ticket, nil
}

// ChangeStatus moves a ticket to a new status and stamps the
// resolution/closure timestamps on first entry into those states.
// Timestamps are monotonic: a backward transition never clears them.
func (s *TicketService) ChangeStatus(ctx context.Context, id string, newStatus domain.TicketStatus) (*domain.Ticket, error) {
	if !newStatus.Valid() {
		return nil, errorutil.NewValidationError("unknown status", map[string]any{"status": newStatus})
	}
	ticket, err := s.tickets.GetByID(ctx, id)
	if err != nil {
		return nil, mapTicketErr(id, err)
	}
	if !s.transitions.Allowed(ticket.Status, newStatus) {
		return nil, errorutil.NewValidationError("status transition not allowed", map[string]any{
			"from": ticket.Status,
			"to":   newStatus,
		})
	}

	oldStatus := ticket.Status
	now := time.Now()
	if newStatus == domain.TicketStatusResolved && ticket.ResolvedAt == nil {
		ticket.ResolvedAt = &now
	}
	if newStatus == domain.TicketStatusClosed && ticket.ClosedAt == nil {
		ticket.ClosedAt = &now
	}
	ticket.Status = newStatus
	ticket.UpdatedAt = now

	if err := s.tickets.Update(ctx, ticket); err != nil {
		return nil, mapTicketErr(id, err)
	}
	s.statsCache.Invalidate(ctx)
	s.publishEvent(ctx, events.Event{
		Type:     events.EventTicketStatusChanged,
		TicketID: ticket.ID,
		Payload: events.TicketStatusChangedPayload{
			OldStatus: oldStatus,
			NewStatus: newStatus,
		},
	})
	return ticket, nil
}

// ChangePriority updates the ticket priority.
func (s *TicketService) ChangePriority(ctx context.Context, id string, newPriority domain.TicketPriority) (*domain.Ticket, error) {
	if !newPriority.Valid() {
		return nil, errorutil.NewValidationError("unknown priority", map[string]any{"priority": newPriority})
	}
	ticket, err := s.tickets.GetByID(ctx, id)
	if err != nil {
		return nil, mapTicketErr(id, err)
	}
	oldPriority := ticket.Priority
	ticket.Priority = newPriority
	ticket.UpdatedAt = time.Now()
	if err := s.tickets.Update(ctx, ticket); err != nil {
		return nil, mapTicketErr(id, err)
	}
	s.publishEvent(ctx, events.Event{
		Type:     events.EventTicketPriorityChanged,
		TicketID: ticket.ID,
		Payload: events.TicketPriorityChangedPayload{
			OldPriority: oldPriority,
			NewPriority: newPriority,
		},
	})
	return ticket, nil
}

// AssignTicket sets (or clears, with nil) the assigned agent. The
// reference is weak: no agent lookup is performed.
func (s *TicketService) AssignTicket(ctx context.Context, id string, agentID *string) (*domain.Ticket, error) {
	ticket, err := s.tickets.GetByID(ctx, id)
	if err != nil {
		return nil, mapTicketErr(id, err)
	}
	ticket.AssignedTo = agentID
	ticket.UpdatedAt = time.Now()
	if err := s.tickets.Update(ctx, ticket); err != nil {
		return nil, mapTicketErr(id, err)
	}
	s.publishEvent(ctx, events.Event{
		Type:     events.EventTicketAssigned,
		TicketID: ticket.ID,
		AgentID:  agentID,
		Payload:  events.TicketAssignedPayload{AssignedTo: agentID},
	})
	return ticket, nil
}

// UpdateTicket applies a partial field update. Status changes go
// through ChangeStatus so the timestamp rules hold everywhere.
func (s *TicketService) UpdateTicket(ctx context.Context, id string, patch TicketPatch) (*domain.Ticket, error) {
	ticket, err := s.tickets.GetByID(ctx, id)
	if err != nil {
		return nil, mapTicketErr(id, err)
	}

	if patch.Subject != nil {
		subject := strings.TrimSpace(*patch.Subject)
		if subject == "" {
			return nil, errorutil.NewValidationError("subject required", nil)
		}
		ticket.Subject = subject
	}
	if patch.Description != nil {
		description := strings.TrimSpace(*patch.Description)
		if description == "" {
			return nil, errorutil.NewValidationError("description required", nil)
		}
		ticket.Description = description
	}
	if patch.Priority != nil {
		if !patch.Priority.Valid() {
			return nil, errorutil.NewValidationError("unknown priority", map[string]any{"priority": *patch.Priority})
		}
		ticket.Priority = *patch.Priority
	}
	if patch.Channel != nil {
		if !patch.Channel.Valid() {
			return nil, errorutil.NewValidationError("unknown channel", map[string]any{"channel": *patch.Channel})
		}
		ticket.Channel = *patch.Channel
	}
	if patch.Tags != nil {
		ticket.Tags = dedupeTags(patch.Tags)
	}
	if patch.ClientID != nil {
		ticket.ClientID = patch.ClientID
	}
	if patch.CompanyID != nil {
		ticket.CompanyID = patch.CompanyID
	}
	ticket.UpdatedAt = time.Now()

	if err := s.tickets.Update(ctx, ticket); err != nil {
		return nil, mapTicketErr(id, err)
	}
	return ticket, nil
}

// AddComment appends a comment authored by the authenticated actor.
// The parent ticket's updated_at is left untouched.
func (s *TicketService) AddComment(ctx context.Context, actor Actor, ticketID, content string, isInternal bool) (*domain.TicketComment, error) {
	if actor.ID == "" {
		return nil, errorutil.NewUnauthenticated("comment author identity required")
	}
	if actor.Type == "" {
		actor.Type = domain.AuthorTypeAgent
	}
	if !actor.Type.Valid() {
		return nil, errorutil.NewValidationError("unknown author type", map[string]any{"author_type": actor.Type})
	}
	content = strings.TrimSpace(content)
	if content == "" {
		return nil, errorutil.NewValidationError("content required", nil)
	}

	ticket, err := s.tickets.GetByID(ctx, ticketID)
	if err != nil {
		return nil, mapTicketErr(ticketID, err)
	}

	comment := &domain.TicketComment{
		ID:         uuid.NewString(),
		TicketID:   ticket.ID,
		AuthorID:   actor.ID,
		AuthorType: actor.Type,
		Content:    content,
		IsInternal: isInternal,
		CreatedAt:  time.Now(),
	}
	if err := s.comments.Create(ctx, comment); err != nil {
		return nil, errorutil.NewStoreError(err)
	}
	s.publishEvent(ctx, events.Event{
		Type:     events.EventTicketCommentAdded,
		TicketID: ticket.ID,
		AgentID:  agentRef(actor),
		Payload: events.TicketCommentAddedPayload{
			CommentID:      comment.ID,
			AuthorType:     comment.AuthorType,
			IsInternal:     comment.IsInternal,
			ContentPreview: contentPreview(comment.Content, 120),
		},
	})
	return comment, nil
}

// ListComments returns a ticket's thread in chronological order.
func (s *TicketService) ListComments(ctx context.Context, ticketID string) ([]domain.TicketComment, error) {
	if _, err := s.tickets.GetByID(ctx, ticketID); err != nil {
		return nil, mapTicketErr(ticketID, err)
	}
	comments, err := s.comments.ListByTicket(ctx, ticketID)
	if err != nil {
		return nil, errorutil.NewStoreError(err)
	}
	return comments, nil
}

// ListTickets returns one page ordered by created_at descending plus
// the total match count ignoring pagination.
func (s *TicketService) ListTickets(ctx context.Context, input ListTicketsInput) ([]domain.Ticket, int, error) {
	limit := input.Limit
	if limit <= 0 {
		limit = 20
	}
	page := input.Page
	if page <= 0 {
		page = 1
	}
	filter := repository.TicketFilter{
		Status:     input.Status,
		Priority:   input.Priority,
		AssignedTo: input.AssignedTo,
		ClientID:   input.ClientID,
		CompanyID:  input.CompanyID,
		Search:     input.Search,
		Limit:      limit,
		Offset:     (page - 1) * limit,
	}
	items, total, err := s.tickets.ListWithFilter(ctx, filter)
	if err != nil {
		return nil, 0, errorutil.NewStoreError(err)
	}
	return items, total, nil
}

// Stats aggregates ticket counts per status, serving from the Redis
// cache when warm. Rows with a status outside the vocabulary are
// ignored so the per-status counts always sum to the total.
func (s *TicketService) Stats(ctx context.Context) (*domain.TicketStats, error) {
	if cached := s.statsCache.Get(ctx); cached != nil {
		return cached, nil
	}
	counts, err := s.tickets.CountByStatus(ctx)
	if err != nil {
		return nil, errorutil.NewStoreError(err)
	}
	stats := &domain.TicketStats{}
	for status, count := range counts {
		if !status.Valid() {
			continue
		}
		stats.Add(status, count)
	}
	s.statsCache.Set(ctx, stats)
	return stats, nil
}

// DeleteTicket removes a ticket; its comments cascade with it.
func (s *TicketService) DeleteTicket(ctx context.Context, id string) error {
	ticket, err := s.tickets.GetByID(ctx, id)
	if err != nil {
		return mapTicketErr(id, err)
	}
	if err := s.tickets.Delete(ctx, id); err != nil {
		return mapTicketErr(id, err)
	}
	s.statsCache.Invalidate(ctx)
	s.publishEvent(ctx, events.Event{
		Type:     events.EventTicketDeleted,
		TicketID: id,
		Payload:  events.TicketDeletedPayload{Subject: ticket.Subject},
	})
	return nil
}

func (s *TicketService) publishEvent(ctx context.Context, event events.Event) {
	if s.dispatcher == nil {
		return
	}
	if event.ID == "" {
		event.ID = uuid.NewString()
	}
	if event.Timestamp.IsZero() {
		event.Timestamp = time.Now()
	}
	_ = s.dispatcher.Publish(ctx, event)
}

func mapTicketErr(id string, err error) error {
	if errors.Is(err, pgx.ErrNoRows) {
		return errorutil.NewNotFound("ticket", map[string]any{"ticket_id": id})
	}
	return errorutil.ToDomainError(err)
}

func agentRef(actor Actor) *string {
	if actor.Type != domain.AuthorTypeAgent || actor.ID == "" {
		return nil
	}
	id := actor.ID
	return &id
}

// dedupeTags drops blank and repeated tags while preserving order.
// Matching is exact and case-sensitive.
func dedupeTags(tags []string) []string {
	result := make([]string, 0, len(tags))
	seen := make(map[string]struct{}, len(tags))
	for _, tag := range tags {
		tag = strings.TrimSpace(tag)
		if tag == "" {
			continue
		}
		if _, dup := seen[tag]; dup {
			continue
		}
		seen[tag] = struct{}{}
		result = append(result, tag)
	}
	return result
}

func contentPreview(content string, max int) string {
	content = strings.TrimSpace(content)
	if len(content) <= max {
		return content
	}
	if max <= 3 {
		return content[:max]
	}
	return content[:max-3] + "..."
}
