package dedup

import (
	"context"
	"testing"
	"time"

	"github.com/it-era/intake/internal/model"
	"github.com/it-era/intake/internal/notify"
)

type fakeSink struct {
	notifications []notify.Notification
}

func (f *fakeSink) Notify(_ context.Context, n notify.Notification) error {
	f.notifications = append(f.notifications, n)
	return nil
}

func (f *fakeSink) Close() error { return nil }

type fakeClock struct{ t time.Time }

func (c *fakeClock) now() time.Time          { return c.t }
func (c *fakeClock) advance(d time.Duration) { c.t = c.t.Add(d) }

func TestSuppressWithinWindow(t *testing.T) {
	inner := &fakeSink{}
	clock := &fakeClock{t: time.Date(2025, 3, 14, 9, 0, 0, 0, time.UTC)}
	s := New(inner, WithWindow(5*time.Minute), WithClock(clock.now))

	n := notify.Notification{SessionID: "s-1", Emergency: model.ServerDown, TicketID: "CRITICAL-1"}

	ctx := context.Background()
	if err := s.Notify(ctx, n); err != nil {
		t.Fatal(err)
	}
	clock.advance(time.Minute)
	if err := s.Notify(ctx, n); err != nil {
		t.Fatal(err)
	}

	if got := len(inner.notifications); got != 1 {
		t.Fatalf("delivered = %d, want 1 (duplicate suppressed)", got)
	}
}

func TestPassAfterWindow(t *testing.T) {
	inner := &fakeSink{}
	clock := &fakeClock{t: time.Date(2025, 3, 14, 9, 0, 0, 0, time.UTC)}
	s := New(inner, WithWindow(5*time.Minute), WithClock(clock.now))

	n := notify.Notification{SessionID: "s-1", Emergency: model.ServerDown}

	ctx := context.Background()
	if err := s.Notify(ctx, n); err != nil {
		t.Fatal(err)
	}
	clock.advance(5 * time.Minute)
	if err := s.Notify(ctx, n); err != nil {
		t.Fatal(err)
	}

	if got := len(inner.notifications); got != 2 {
		t.Fatalf("delivered = %d, want 2 (window elapsed)", got)
	}
}

func TestDifferentSessionsAreIndependent(t *testing.T) {
	inner := &fakeSink{}
	s := New(inner)

	ctx := context.Background()
	s.Notify(ctx, notify.Notification{SessionID: "s-1", Emergency: model.ServerDown})
	s.Notify(ctx, notify.Notification{SessionID: "s-2", Emergency: model.ServerDown})
	s.Notify(ctx, notify.Notification{SessionID: "s-1", Emergency: model.SecurityBreach})

	if got := len(inner.notifications); got != 3 {
		t.Fatalf("delivered = %d, want 3", got)
	}
}
