package service

import (
	"context"
	"sort"
	"strings"
	"sync"

	"github.com/jackc/pgx/v5"

	"github.com/crmdesk/ticketd/internal/domain"
	"github.com/crmdesk/ticketd/internal/repository"
)

// memTicketRepo is an in-memory TicketRepository mirroring the SQL
// implementation's contracts: pgx.ErrNoRows on missing ids, newest
// first listing, total count ignoring pagination.
type memTicketRepo struct {
	mu          sync.Mutex
	tickets     []domain.Ticket
	createCalls int
	updateCalls int
}

func newMemTicketRepo() *memTicketRepo { return &memTicketRepo{} }

func (r *memTicketRepo) Create(_ context.Context, ticket *domain.Ticket) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.createCalls++
	r.tickets = append(r.tickets, *ticket)
	return nil
}

func (r *memTicketRepo) Update(_ context.Context, ticket *domain.Ticket) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.updateCalls++
	for i := range r.tickets {
		if r.tickets[i].ID == ticket.ID {
			r.tickets[i] = *ticket
			return nil
		}
	}
	return pgx.ErrNoRows
}

func (r *memTicketRepo) GetByID(_ context.Context, id string) (*domain.Ticket, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i := range r.tickets {
		if r.tickets[i].ID == id {
			copied := r.tickets[i]
			return &copied, nil
		}
	}
	return nil, pgx.ErrNoRows
}

func (r *memTicketRepo) Delete(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i := range r.tickets {
		if r.tickets[i].ID == id {
			r.tickets = append(r.tickets[:i], r.tickets[i+1:]...)
			return nil
		}
	}
	return pgx.ErrNoRows
}

func (r *memTicketRepo) ListWithFilter(_ context.Context, filter repository.TicketFilter) ([]domain.Ticket, int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	matches := make([]domain.Ticket, 0, len(r.tickets))
	for _, t := range r.tickets {
		if filter.Status != nil && t.Status != *filter.Status {
			continue
		}
		if filter.Priority != nil && t.Priority != *filter.Priority {
			continue
		}
		if filter.Channel != nil && t.Channel != *filter.Channel {
			continue
		}
		if filter.AssignedTo != nil && (t.AssignedTo == nil || *t.AssignedTo != *filter.AssignedTo) {
			continue
		}
		if filter.ClientID != nil && (t.ClientID == nil || *t.ClientID != *filter.ClientID) {
			continue
		}
		if filter.CompanyID != nil && (t.CompanyID == nil || *t.CompanyID != *filter.CompanyID) {
			continue
		}
		if filter.Search != nil {
			needle := strings.ToLower(*filter.Search)
			subject := strings.ToLower(t.Subject)
			description := strings.ToLower(t.Description)
			if !strings.Contains(subject, needle) && !strings.Contains(description, needle) {
				continue
			}
		}
		matches = append(matches, t)
	}
	sort.SliceStable(matches, func(i, j int) bool {
		return matches[i].CreatedAt.After(matches[j].CreatedAt)
	})

	total := len(matches)
	if filter.Offset >= total {
		return []domain.Ticket{}, total, nil
	}
	matches = matches[filter.Offset:]
	if filter.Limit > 0 && filter.Limit < len(matches) {
		matches = matches[:filter.Limit]
	}
	return matches, total, nil
}

func (r *memTicketRepo) CountByStatus(_ context.Context) (map[domain.TicketStatus]int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	counts := make(map[domain.TicketStatus]int)
	for _, t := range r.tickets {
		counts[t.Status]++
	}
	return counts, nil
}

// memCommentRepo is an in-memory CommentRepository.
type memCommentRepo struct {
	mu       sync.Mutex
	comments []domain.TicketComment
}

func newMemCommentRepo() *memCommentRepo { return &memCommentRepo{} }

func (r *memCommentRepo) Create(_ context.Context, comment *domain.TicketComment) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.comments = append(r.comments, *comment)
	return nil
}

func (r *memCommentRepo) ListByTicket(_ context.Context, ticketID string) ([]domain.TicketComment, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]domain.TicketComment, 0)
	for _, c := range r.comments {
		if c.TicketID == ticketID {
			out = append(out, c)
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].CreatedAt.Before(out[j].CreatedAt)
	})
	return out, nil
}

func newTestTicketService(tickets *memTicketRepo, comments *memCommentRepo) *TicketService {
	return NewTicketService(TicketDependencies{
		TicketRepo:  tickets,
		CommentRepo: comments,
	})
}
