// Package file appends notifications to a JSON-lines audit log.
package file

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"sync"
	"time"

	"github.com/it-era/intake/internal/notify"
)

// record is one audit line: the notification plus a write timestamp.
type record struct {
	LoggedAt time.Time `json:"loggedAt"`
	notify.Notification
}

// Sink appends each notification as one JSON line. Escalation tickets are
// not persisted anywhere else by the engine, so this file is the local
// audit trail.
type Sink struct {
	mu  sync.Mutex
	f   *os.File
	enc *json.Encoder
}

// New opens (or creates) the audit file in append mode.
func New(path string) (*Sink, error) {
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return nil, fmt.Errorf("file sink: %w", err)
	}
	return &Sink{f: f, enc: json.NewEncoder(f)}, nil
}

func (s *Sink) Notify(_ context.Context, n notify.Notification) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.enc.Encode(record{LoggedAt: time.Now(), Notification: n}); err != nil {
		return fmt.Errorf("file sink: %w", err)
	}
	return nil
}

func (s *Sink) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.f.Close()
}
