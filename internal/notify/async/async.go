// Package async decouples notification delivery from the request path.
package async

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/it-era/intake/internal/notify"
)

const (
	defaultBufferSize   = 256
	defaultDrainTimeout = 5 * time.Second
)

// Option configures an Async wrapper.
type Option func(*Async)

// WithBufferSize sets the channel buffer capacity. Default: 256.
func WithBufferSize(n int) Option {
	return func(a *Async) { a.bufSize = n }
}

// WithOnError sets the callback invoked when the inner sink's Notify fails.
// Default: logs a warning via slog.
func WithOnError(f func(error)) Option {
	return func(a *Async) { a.errFunc = f }
}

// WithDropOnFull makes Notify return immediately (dropping the notification)
// when the buffer is full, instead of blocking the conversation turn.
func WithDropOnFull() Option {
	return func(a *Async) { a.dropOnFull = true }
}

// Async wraps a sink so escalation turns never block on channel delivery.
// Notifications queue on a buffered channel; a background goroutine drains
// it to the wrapped sink. Inner errors go to errFunc, not the caller.
type Async struct {
	inner      notify.Sink
	ch         chan notify.Notification
	done       chan struct{}
	errFunc    func(error)
	bufSize    int
	dropOnFull bool
	closeOnce  sync.Once
}

// New wraps a sink; the drain goroutine starts immediately.
func New(inner notify.Sink, opts ...Option) *Async {
	a := &Async{
		inner:   inner,
		bufSize: defaultBufferSize,
		errFunc: func(err error) { slog.Warn("async notify error", "error", err) },
	}
	for _, opt := range opts {
		opt(a)
	}
	a.ch = make(chan notify.Notification, a.bufSize)
	a.done = make(chan struct{})
	go a.drain()
	return a
}

// Notify queues the notification. By default, blocks when the buffer is
// full (backpressure). With WithDropOnFull, returns nil and the
// notification is lost.
func (a *Async) Notify(_ context.Context, n notify.Notification) error {
	if a.dropOnFull {
		select {
		case a.ch <- n:
		default:
			slog.Warn("async notify buffer full, dropping", "ticket", n.TicketID)
		}
		return nil
	}
	a.ch <- n
	return nil
}

// Close drains pending notifications (with a timeout) and closes the inner sink.
func (a *Async) Close() error {
	var err error
	a.closeOnce.Do(func() {
		close(a.ch)
		select {
		case <-a.done:
		case <-time.After(defaultDrainTimeout):
			slog.Warn("async notify drain timed out")
		}
		err = a.inner.Close()
	})
	return err
}

func (a *Async) drain() {
	defer close(a.done)
	for n := range a.ch {
		if err := a.inner.Notify(context.Background(), n); err != nil {
			a.errFunc(err)
		}
	}
}
