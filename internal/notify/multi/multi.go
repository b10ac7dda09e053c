// Package multi fans notifications out to several sinks.
package multi

import (
	"context"
	"errors"

	"github.com/it-era/intake/internal/notify"
)

// Multi delivers each notification to every wrapped sink sequentially.
// If one sink fails, the remaining sinks still receive the notification.
type Multi struct {
	sinks []notify.Sink
}

// New creates a Multi over the given sinks.
func New(sinks ...notify.Sink) *Multi {
	return &Multi{sinks: sinks}
}

// Notify delivers to every sink, collecting errors without short-circuiting.
func (m *Multi) Notify(ctx context.Context, n notify.Notification) error {
	var errs []error
	for _, s := range m.sinks {
		if err := s.Notify(ctx, n); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// Close closes every wrapped sink, collecting errors.
func (m *Multi) Close() error {
	var errs []error
	for _, s := range m.sinks {
		if err := s.Close(); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
