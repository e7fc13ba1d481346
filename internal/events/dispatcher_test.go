package events

import (
	"context"
	"errors"
	"testing"
)

func TestDispatcherDeliversToSubscribers(t *testing.T) {
	d := NewInMemoryDispatcher()

	var created, assigned int
	d.Subscribe(EventTicketCreated, func(ctx context.Context, event Event) error {
		created++
		return nil
	})
	d.Subscribe(EventTicketAssigned, func(ctx context.Context, event Event) error {
		assigned++
		return nil
	})

	_ = d.Publish(context.Background(), Event{Type: EventTicketCreated, TicketID: "t-1"})
	_ = d.Publish(context.Background(), Event{Type: EventTicketCreated, TicketID: "t-2"})

	if created != 2 {
		t.Errorf("created handler ran %d times, want 2", created)
	}
	if assigned != 0 {
		t.Errorf("assigned handler ran %d times, want 0", assigned)
	}
}

func TestDispatcherHandlerErrorDoesNotStopDelivery(t *testing.T) {
	d := NewInMemoryDispatcher()

	var reached bool
	d.Subscribe(EventQuotaDenied, func(ctx context.Context, event Event) error {
		return errors.New("handler failure")
	})
	d.Subscribe(EventQuotaDenied, func(ctx context.Context, event Event) error {
		reached = true
		return nil
	})

	if err := d.Publish(context.Background(), Event{Type: EventQuotaDenied}); err != nil {
		t.Fatalf("Publish: %v", err)
	}
	if !reached {
		t.Error("a failing handler must not block later handlers")
	}
}

func TestDispatcherNoSubscribers(t *testing.T) {
	d := NewInMemoryDispatcher()
	if err := d.Publish(context.Background(), Event{Type: EventTicketResolved}); err != nil {
		t.Fatalf("Publish without subscribers: %v", err)
	}
}
