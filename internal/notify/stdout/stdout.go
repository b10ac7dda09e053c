// Package stdout is a development sink that prints notifications as JSON.
package stdout

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/it-era/intake/internal/notify"
)

// Sink writes JSON-encoded notifications to a writer (stdout by default).
type Sink struct {
	enc *json.Encoder
}

// New creates a stdout sink with pretty-printed output.
func New() *Sink {
	return NewWriter(os.Stdout)
}

// NewWriter creates a sink writing to w.
func NewWriter(w io.Writer) *Sink {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return &Sink{enc: enc}
}

func (s *Sink) Notify(_ context.Context, n notify.Notification) error {
	if err := s.enc.Encode(n); err != nil {
		return fmt.Errorf("stdout sink: %w", err)
	}
	return nil
}

func (s *Sink) Close() error {
	return nil
}
