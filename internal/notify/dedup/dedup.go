// Package dedup suppresses repeat notifications for the same conversation.
package dedup

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/it-era/intake/internal/notify"
)

const defaultWindow = 5 * time.Minute

// Sink drops notifications that repeat a (session, emergency type) pair
// within the window. A visitor re-sending "aiuto, server down!" three times
// should page the on-call channel once, not three times.
type Sink struct {
	inner  notify.Sink
	window time.Duration
	now    func() time.Time

	mu   sync.Mutex
	seen map[string]time.Time
}

// Option configures a dedup Sink.
type Option func(*Sink)

// WithWindow sets the suppression window. Default: 5m.
func WithWindow(d time.Duration) Option {
	return func(s *Sink) { s.window = d }
}

// WithClock overrides the time source, for tests.
func WithClock(now func() time.Time) Option {
	return func(s *Sink) { s.now = now }
}

// New wraps a sink with duplicate suppression.
func New(inner notify.Sink, opts ...Option) *Sink {
	s := &Sink{
		inner:  inner,
		window: defaultWindow,
		now:    time.Now,
		seen:   make(map[string]time.Time),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Notify forwards the notification unless an identical session+type pair
// was forwarded within the window.
func (s *Sink) Notify(ctx context.Context, n notify.Notification) error {
	key := n.SessionID + "|" + string(n.Emergency)
	now := s.now()

	s.mu.Lock()
	last, ok := s.seen[key]
	if ok && now.Sub(last) < s.window {
		s.mu.Unlock()
		slog.Debug("duplicate notification suppressed", "session", n.SessionID, "ticket", n.TicketID)
		return nil
	}
	s.seen[key] = now
	// Drop stale entries so the map does not grow with session churn.
	for k, t := range s.seen {
		if now.Sub(t) >= s.window {
			delete(s.seen, k)
		}
	}
	s.mu.Unlock()

	return s.inner.Notify(ctx, n)
}

func (s *Sink) Close() error {
	return s.inner.Close()
}
