package service

import (
	"context"
	"testing"
	"time"

	"github.com/crmdesk/ticketd/internal/domain"
	"github.com/crmdesk/ticketd/internal/events"
	"github.com/crmdesk/ticketd/pkg/errorutil"
)

func TestCreateTicketDefaults(t *testing.T) {
	t.Parallel()
	repo := newMemTicketRepo()
	svc := newTestTicketService(repo, newMemCommentRepo())

	ticket, err := svc.CreateTicket(context.Background(), CreateTicketInput{
		Subject:     "  Printer on fire  ",
		Description: "Smoke coming out of tray 2",
		Tags:        []string{"hardware", " hardware ", "", "urgent-fix", "hardware"},
	})
	if err != nil {
		t.Fatalf("CreateTicket: %v", err)
	}
	if ticket.ID == "" {
		t.Error("expected generated id")
	}
	if ticket.Subject != "Printer on fire" {
		t.Errorf("subject: got %q, want trimmed", ticket.Subject)
	}
	if ticket.Status != domain.TicketStatusNew {
		t.Errorf("status: got %q, want %q", ticket.Status, domain.TicketStatusNew)
	}
	if ticket.Priority != domain.TicketPriorityMedium {
		t.Errorf("priority: got %q, want %q", ticket.Priority, domain.TicketPriorityMedium)
	}
	if ticket.Channel != domain.ChannelWeb {
		t.Errorf("channel: got %q, want %q", ticket.Channel, domain.ChannelWeb)
	}
	if !ticket.CreatedAt.Equal(ticket.UpdatedAt) {
		t.Errorf("created_at %v != updated_at %v on create", ticket.CreatedAt, ticket.UpdatedAt)
	}
	if ticket.ResolvedAt != nil || ticket.ClosedAt != nil {
		t.Error("resolved_at/closed_at must be unset on create")
	}
	want := []string{"hardware", "urgent-fix"}
	if len(ticket.Tags) != len(want) {
		t.Fatalf("tags: got %v, want %v", ticket.Tags, want)
	}
	for i := range want {
		if ticket.Tags[i] != want[i] {
			t.Errorf("tags[%d]: got %q, want %q", i, ticket.Tags[i], want[i])
		}
	}
}

func TestCreateTicketValidationBeforePersist(t *testing.T) {
	t.Parallel()
	repo := newMemTicketRepo()
	svc := newTestTicketService(repo, newMemCommentRepo())
	ctx := context.Background()

	cases := []struct {
		name  string
		input CreateTicketInput
	}{
		{"empty subject", CreateTicketInput{Subject: "   ", Description: "d"}},
		{"empty description", CreateTicketInput{Subject: "s", Description: ""}},
		{"unknown priority", CreateTicketInput{Subject: "s", Description: "d", Priority: "critical"}},
		{"unknown channel", CreateTicketInput{Subject: "s", Description: "d", Channel: "fax"}},
	}
	for _, tc := range cases {
		if _, err := svc.CreateTicket(ctx, tc.input); !errorutil.IsCode(err, errorutil.CodeValidationFailed) {
			t.Errorf("%s: got %v, want VALIDATION_FAILED", tc.name, err)
		}
	}
	if repo.createCalls != 0 {
		t.Errorf("store received %d create calls for invalid input", repo.createCalls)
	}
}

func TestChangeStatusStampsResolvedOnce(t *testing.T) {
	t.Parallel()
	repo := newMemTicketRepo()
	svc := newTestTicketService(repo, newMemCommentRepo())
	ctx := context.Background()

	ticket, err := svc.CreateTicket(ctx, CreateTicketInput{Subject: "s", Description: "d"})
	if err != nil {
		t.Fatalf("CreateTicket: %v", err)
	}

	resolved, err := svc.ChangeStatus(ctx, ticket.ID, domain.TicketStatusResolved)
	if err != nil {
		t.Fatalf("ChangeStatus resolved: %v", err)
	}
	if resolved.ResolvedAt == nil {
		t.Fatal("resolved_at not stamped")
	}
	first := *resolved.ResolvedAt

	// Reopen and resolve again; the stamp must not move.
	if _, err := svc.ChangeStatus(ctx, ticket.ID, domain.TicketStatusOpen); err != nil {
		t.Fatalf("ChangeStatus open: %v", err)
	}
	reopened, err := svc.GetTicket(ctx, ticket.ID)
	if err != nil {
		t.Fatalf("GetTicket: %v", err)
	}
	if reopened.ResolvedAt == nil || !reopened.ResolvedAt.Equal(first) {
		t.Error("resolved_at cleared or moved by reopen")
	}
	again, err := svc.ChangeStatus(ctx, ticket.ID, domain.TicketStatusResolved)
	if err != nil {
		t.Fatalf("ChangeStatus resolved again: %v", err)
	}
	if !again.ResolvedAt.Equal(first) {
		t.Errorf("resolved_at moved on second resolve: %v -> %v", first, *again.ResolvedAt)
	}
}

func TestChangeStatusStampsClosed(t *testing.T) {
	t.Parallel()
	repo := newMemTicketRepo()
	svc := newTestTicketService(repo, newMemCommentRepo())
	ctx := context.Background()

	ticket, err := svc.CreateTicket(ctx, CreateTicketInput{Subject: "s", Description: "d"})
	if err != nil {
		t.Fatalf("CreateTicket: %v", err)
	}
	closed, err := svc.ChangeStatus(ctx, ticket.ID, domain.TicketStatusClosed)
	if err != nil {
		t.Fatalf("ChangeStatus closed: %v", err)
	}
	if closed.ClosedAt == nil {
		t.Fatal("closed_at not stamped")
	}
	if closed.ClosedAt.Before(closed.CreatedAt) {
		t.Errorf("closed_at %v before created_at %v", *closed.ClosedAt, closed.CreatedAt)
	}
}

func TestChangeStatusMissingTicket(t *testing.T) {
	t.Parallel()
	repo := newMemTicketRepo()
	svc := newTestTicketService(repo, newMemCommentRepo())

	_, err := svc.ChangeStatus(context.Background(), "no-such-id", domain.TicketStatusOpen)
	if !errorutil.IsCode(err, errorutil.CodeNotFound) {
		t.Fatalf("got %v, want NOT_FOUND", err)
	}
	if repo.updateCalls != 0 {
		t.Errorf("store received %d update calls for a missing ticket", repo.updateCalls)
	}
}

func TestChangeStatusRejectsUnknownStatus(t *testing.T) {
	t.Parallel()
	svc := newTestTicketService(newMemTicketRepo(), newMemCommentRepo())
	_, err := svc.ChangeStatus(context.Background(), "any", "solved")
	if !errorutil.IsCode(err, errorutil.CodeValidationFailed) {
		t.Fatalf("got %v, want VALIDATION_FAILED", err)
	}
}

func TestChangeStatusHonorsTransitionTable(t *testing.T) {
	t.Parallel()
	repo := newMemTicketRepo()
	svc := NewTicketService(TicketDependencies{
		TicketRepo:  repo,
		CommentRepo: newMemCommentRepo(),
		Transitions: domain.StrictTransitions(),
	})
	ctx := context.Background()

	ticket, err := svc.CreateTicket(ctx, CreateTicketInput{Subject: "s", Description: "d"})
	if err != nil {
		t.Fatalf("CreateTicket: %v", err)
	}
	if _, err := svc.ChangeStatus(ctx, ticket.ID, domain.TicketStatusResolved); !errorutil.IsCode(err, errorutil.CodeValidationFailed) {
		t.Errorf("new -> resolved under strict table: got %v, want VALIDATION_FAILED", err)
	}
	if _, err := svc.ChangeStatus(ctx, ticket.ID, domain.TicketStatusOpen); err != nil {
		t.Errorf("new -> open under strict table: %v", err)
	}
}

func TestAssignAndClearAgent(t *testing.T) {
	t.Parallel()
	repo := newMemTicketRepo()
	svc := newTestTicketService(repo, newMemCommentRepo())
	ctx := context.Background()

	ticket, err := svc.CreateTicket(ctx, CreateTicketInput{Subject: "s", Description: "d"})
	if err != nil {
		t.Fatalf("CreateTicket: %v", err)
	}
	agentID := "agent-7"
	assigned, err := svc.AssignTicket(ctx, ticket.ID, &agentID)
	if err != nil {
		t.Fatalf("AssignTicket: %v", err)
	}
	if assigned.AssignedTo == nil || *assigned.AssignedTo != agentID {
		t.Errorf("assigned_to: got %v, want %q", assigned.AssignedTo, agentID)
	}
	cleared, err := svc.AssignTicket(ctx, ticket.ID, nil)
	if err != nil {
		t.Fatalf("AssignTicket clear: %v", err)
	}
	if cleared.AssignedTo != nil {
		t.Errorf("assigned_to not cleared: %v", *cleared.AssignedTo)
	}
}

func TestUpdateTicketPatch(t *testing.T) {
	t.Parallel()
	repo := newMemTicketRepo()
	svc := newTestTicketService(repo, newMemCommentRepo())
	ctx := context.Background()

	ticket, err := svc.CreateTicket(ctx, CreateTicketInput{Subject: "s", Description: "d"})
	if err != nil {
		t.Fatalf("CreateTicket: %v", err)
	}

	subject := "New subject"
	priority := domain.TicketPriorityUrgent
	updated, err := svc.UpdateTicket(ctx, ticket.ID, TicketPatch{
		Subject:  &subject,
		Priority: &priority,
		Tags:     []string{"vip"},
	})
	if err != nil {
		t.Fatalf("UpdateTicket: %v", err)
	}
	if updated.Subject != subject {
		t.Errorf("subject: got %q, want %q", updated.Subject, subject)
	}
	if updated.Description != "d" {
		t.Errorf("description changed by unrelated patch: %q", updated.Description)
	}
	if updated.Priority != priority {
		t.Errorf("priority: got %q, want %q", updated.Priority, priority)
	}
	if len(updated.Tags) != 1 || updated.Tags[0] != "vip" {
		t.Errorf("tags: got %v, want [vip]", updated.Tags)
	}

	empty := " "
	if _, err := svc.UpdateTicket(ctx, ticket.ID, TicketPatch{Subject: &empty}); !errorutil.IsCode(err, errorutil.CodeValidationFailed) {
		t.Errorf("blank subject patch: got %v, want VALIDATION_FAILED", err)
	}
}

func TestAddCommentRequiresActor(t *testing.T) {
	t.Parallel()
	svc := newTestTicketService(newMemTicketRepo(), newMemCommentRepo())
	_, err := svc.AddComment(context.Background(), Actor{}, "t1", "hello", false)
	if !errorutil.IsCode(err, errorutil.CodeUnauthenticated) {
		t.Fatalf("got %v, want UNAUTHENTICATED", err)
	}
}

func TestAddCommentLeavesTicketUntouched(t *testing.T) {
	t.Parallel()
	repo := newMemTicketRepo()
	comments := newMemCommentRepo()
	svc := newTestTicketService(repo, comments)
	ctx := context.Background()

	ticket, err := svc.CreateTicket(ctx, CreateTicketInput{Subject: "s", Description: "d"})
	if err != nil {
		t.Fatalf("CreateTicket: %v", err)
	}
	before := ticket.UpdatedAt

	comment, err := svc.AddComment(ctx, Actor{ID: "agent-1"}, ticket.ID, "  looking into it  ", true)
	if err != nil {
		t.Fatalf("AddComment: %v", err)
	}
	if comment.AuthorType != domain.AuthorTypeAgent {
		t.Errorf("author_type: got %q, want %q", comment.AuthorType, domain.AuthorTypeAgent)
	}
	if comment.Content != "looking into it" {
		t.Errorf("content: got %q, want trimmed", comment.Content)
	}
	if !comment.IsInternal {
		t.Error("is_internal flag lost")
	}

	after, err := svc.GetTicket(ctx, ticket.ID)
	if err != nil {
		t.Fatalf("GetTicket: %v", err)
	}
	if !after.UpdatedAt.Equal(before) {
		t.Errorf("ticket updated_at changed by comment: %v -> %v", before, after.UpdatedAt)
	}

	thread, err := svc.ListComments(ctx, ticket.ID)
	if err != nil {
		t.Fatalf("ListComments: %v", err)
	}
	if len(thread) != 1 || thread[0].ID != comment.ID {
		t.Errorf("thread: got %d comments", len(thread))
	}
}

func TestListCommentsMissingTicket(t *testing.T) {
	t.Parallel()
	svc := newTestTicketService(newMemTicketRepo(), newMemCommentRepo())
	_, err := svc.ListComments(context.Background(), "no-such-id")
	if !errorutil.IsCode(err, errorutil.CodeNotFound) {
		t.Fatalf("got %v, want NOT_FOUND", err)
	}
}

func TestListTicketsFilterAndSearch(t *testing.T) {
	t.Parallel()
	repo := newMemTicketRepo()
	svc := newTestTicketService(repo, newMemCommentRepo())
	ctx := context.Background()

	seed := []struct {
		subject string
		status  domain.TicketStatus
	}{
		{"VPN drops every hour", domain.TicketStatusOpen},
		{"Password reset", domain.TicketStatusClosed},
		{"vpn certificate expired", domain.TicketStatusOpen},
		{"Broken keyboard", domain.TicketStatusNew},
	}
	for _, s := range seed {
		ticket, err := svc.CreateTicket(ctx, CreateTicketInput{Subject: s.subject, Description: "d"})
		if err != nil {
			t.Fatalf("CreateTicket: %v", err)
		}
		if s.status != domain.TicketStatusNew {
			if _, err := svc.ChangeStatus(ctx, ticket.ID, s.status); err != nil {
				t.Fatalf("ChangeStatus: %v", err)
			}
		}
	}

	open := domain.TicketStatusOpen
	items, total, err := svc.ListTickets(ctx, ListTicketsInput{Status: &open})
	if err != nil {
		t.Fatalf("ListTickets status filter: %v", err)
	}
	if total != 2 || len(items) != 2 {
		t.Fatalf("open filter: got %d items, total %d, want 2/2", len(items), total)
	}
	for _, item := range items {
		if item.Status != open {
			t.Errorf("filter leak: %q is %q", item.Subject, item.Status)
		}
	}

	query := "VPN"
	items, total, err = svc.ListTickets(ctx, ListTicketsInput{Search: &query})
	if err != nil {
		t.Fatalf("ListTickets search: %v", err)
	}
	if total != 2 {
		t.Errorf("case-insensitive search: got total %d, want 2", total)
	}
	for _, item := range items {
		lower := item.Subject
		if lower != "VPN drops every hour" && lower != "vpn certificate expired" {
			t.Errorf("unexpected search hit %q", item.Subject)
		}
	}
}

func TestListTicketsPagination(t *testing.T) {
	t.Parallel()
	repo := newMemTicketRepo()
	svc := newTestTicketService(repo, newMemCommentRepo())
	ctx := context.Background()

	for i := 0; i < 5; i++ {
		ticket, err := svc.CreateTicket(ctx, CreateTicketInput{Subject: "s", Description: "d"})
		if err != nil {
			t.Fatalf("CreateTicket: %v", err)
		}
		if _, err := svc.ChangeStatus(ctx, ticket.ID, domain.TicketStatusOpen); err != nil {
			t.Fatalf("ChangeStatus: %v", err)
		}
	}

	open := domain.TicketStatusOpen
	items, total, err := svc.ListTickets(ctx, ListTicketsInput{Status: &open, Page: 2, Limit: 2})
	if err != nil {
		t.Fatalf("ListTickets: %v", err)
	}
	if total != 5 {
		t.Errorf("total: got %d, want 5", total)
	}
	if len(items) != 2 {
		t.Errorf("page size: got %d, want 2", len(items))
	}
}

func TestStatsSumToTotal(t *testing.T) {
	t.Parallel()
	repo := newMemTicketRepo()
	svc := newTestTicketService(repo, newMemCommentRepo())
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		if _, err := svc.CreateTicket(ctx, CreateTicketInput{Subject: "s", Description: "d"}); err != nil {
			t.Fatalf("CreateTicket: %v", err)
		}
	}
	ticket, err := svc.CreateTicket(ctx, CreateTicketInput{Subject: "s", Description: "d"})
	if err != nil {
		t.Fatalf("CreateTicket: %v", err)
	}
	if _, err := svc.ChangeStatus(ctx, ticket.ID, domain.TicketStatusClosed); err != nil {
		t.Fatalf("ChangeStatus: %v", err)
	}
	// A row outside the vocabulary must not skew the sum.
	repo.tickets = append(repo.tickets, domain.Ticket{ID: "legacy", Status: "archived"})

	stats, err := svc.Stats(ctx)
	if err != nil {
		t.Fatalf("Stats: %v", err)
	}
	sum := stats.New + stats.Open + stats.Pending + stats.Resolved + stats.Closed
	if sum != stats.Total {
		t.Errorf("per-status sum %d != total %d", sum, stats.Total)
	}
	if stats.New != 3 || stats.Closed != 1 || stats.Total != 4 {
		t.Errorf("stats: got %+v", stats)
	}
}

func TestDeleteTicket(t *testing.T) {
	t.Parallel()
	repo := newMemTicketRepo()
	svc := newTestTicketService(repo, newMemCommentRepo())
	ctx := context.Background()

	ticket, err := svc.CreateTicket(ctx, CreateTicketInput{Subject: "s", Description: "d"})
	if err != nil {
		t.Fatalf("CreateTicket: %v", err)
	}
	if err := svc.DeleteTicket(ctx, ticket.ID); err != nil {
		t.Fatalf("DeleteTicket: %v", err)
	}
	if _, err := svc.GetTicket(ctx, ticket.ID); !errorutil.IsCode(err, errorutil.CodeNotFound) {
		t.Errorf("ticket still readable after delete: %v", err)
	}
	if err := svc.DeleteTicket(ctx, ticket.ID); !errorutil.IsCode(err, errorutil.CodeNotFound) {
		t.Errorf("second delete: got %v, want NOT_FOUND", err)
	}
}

func TestLifecycleEventsPublished(t *testing.T) {
	t.Parallel()
	repo := newMemTicketRepo()
	dispatcher := events.NewInMemoryDispatcher()
	var seen []events.EventType
	record := func(_ context.Context, e events.Event) error {
		seen = append(seen, e.Type)
		return nil
	}
	for _, et := range []events.EventType{
		events.EventTicketCreated,
		events.EventTicketStatusChanged,
		events.EventTicketAssigned,
		events.EventTicketCommentAdded,
		events.EventTicketDeleted,
	} {
		dispatcher.Subscribe(et, record)
	}
	svc := NewTicketService(TicketDependencies{
		TicketRepo:  repo,
		CommentRepo: newMemCommentRepo(),
		Dispatcher:  dispatcher,
	})
	ctx := context.Background()

	ticket, err := svc.CreateTicket(ctx, CreateTicketInput{Subject: "s", Description: "d"})
	if err != nil {
		t.Fatalf("CreateTicket: %v", err)
	}
	if _, err := svc.ChangeStatus(ctx, ticket.ID, domain.TicketStatusOpen); err != nil {
		t.Fatalf("ChangeStatus: %v", err)
	}
	agentID := "agent-1"
	if _, err := svc.AssignTicket(ctx, ticket.ID, &agentID); err != nil {
		t.Fatalf("AssignTicket: %v", err)
	}
	if _, err := svc.AddComment(ctx, Actor{ID: agentID}, ticket.ID, "on it", false); err != nil {
		t.Fatalf("AddComment: %v", err)
	}
	if err := svc.DeleteTicket(ctx, ticket.ID); err != nil {
		t.Fatalf("DeleteTicket: %v", err)
	}

	want := []events.EventType{
		events.EventTicketCreated,
		events.EventTicketStatusChanged,
		events.EventTicketAssigned,
		events.EventTicketCommentAdded,
		events.EventTicketDeleted,
	}
	if len(seen) != len(want) {
		t.Fatalf("events: got %v, want %v", seen, want)
	}
	for i := range want {
		if seen[i] != want[i] {
			t.Errorf("event[%d]: got %q, want %q", i, seen[i], want[i])
		}
	}
}

func TestNewestFirstOrdering(t *testing.T) {
	t.Parallel()
	repo := newMemTicketRepo()
	svc := newTestTicketService(repo, newMemCommentRepo())
	ctx := context.Background()

	first, err := svc.CreateTicket(ctx, CreateTicketInput{Subject: "first", Description: "d"})
	if err != nil {
		t.Fatalf("CreateTicket: %v", err)
	}
	time.Sleep(2 * time.Millisecond)
	second, err := svc.CreateTicket(ctx, CreateTicketInput{Subject: "second", Description: "d"})
	if err != nil {
		t.Fatalf("CreateTicket: %v", err)
	}

	items, _, err := svc.ListTickets(ctx, ListTicketsInput{})
	if err != nil {
		t.Fatalf("ListTickets: %v", err)
	}
	if len(items) != 2 || items[0].ID != second.ID || items[1].ID != first.ID {
		t.Errorf("ordering: got %v", []string{items[0].Subject, items[1].Subject})
	}
}
