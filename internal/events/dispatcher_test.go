package events

import (
	"context"
	"errors"
	"testing"
)

func TestDispatcherRoutesByType(t *testing.T) {
	t.Parallel()
	d := NewInMemoryDispatcher()

	var created, deleted int
	d.Subscribe(EventTicketCreated, func(context.Context, Event) error {
		created++
		return nil
	})
	d.Subscribe(EventTicketDeleted, func(context.Context, Event) error {
		deleted++
		return nil
	})

	ctx := context.Background()
	if err := d.Publish(ctx, Event{Type: EventTicketCreated, TicketID: "t1"}); err != nil {
		t.Fatalf("Publish: %v", err)
	}
	if err := d.Publish(ctx, Event{Type: EventTicketCreated, TicketID: "t2"}); err != nil {
		t.Fatalf("Publish: %v", err)
	}
	if created != 2 {
		t.Errorf("created handler calls: got %d, want 2", created)
	}
	if deleted != 0 {
		t.Errorf("deleted handler called %d times for unrelated events", deleted)
	}
}

func TestDispatcherContinuesPastFailingHandler(t *testing.T) {
	t.Parallel()
	d := NewInMemoryDispatcher()

	var reached bool
	d.Subscribe(EventTicketCreated, func(context.Context, Event) error {
		return errors.New("boom")
	})
	d.Subscribe(EventTicketCreated, func(context.Context, Event) error {
		reached = true
		return nil
	})

	if err := d.Publish(context.Background(), Event{Type: EventTicketCreated}); err != nil {
		t.Fatalf("Publish surfaced handler error: %v", err)
	}
	if !reached {
		t.Error("second handler skipped after first failed")
	}
}

func TestDispatcherNoSubscribers(t *testing.T) {
	t.Parallel()
	d := NewInMemoryDispatcher()
	if err := d.Publish(context.Background(), Event{Type: EventTicketAssigned}); err != nil {
		t.Fatalf("Publish with no subscribers: %v", err)
	}
}
