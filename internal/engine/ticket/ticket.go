// Package ticket generates escalation ticket identifiers.
package ticket

import (
	"fmt"
	"io"
	"math/rand"
	"sync"
	"time"

	"github.com/oklog/ulid/v2"
)

// EmergencyPrefix marks emergency tickets. Normal lead tickets never carry it.
const EmergencyPrefix = "CRITICAL"

const defaultLeadPrefix = "IT"

// Option configures a Generator.
type Option func(*Generator)

// WithLeadPrefix sets the domain code prepended to lead ticket ids. Default: "IT".
func WithLeadPrefix(p string) Option {
	return func(g *Generator) { g.leadPrefix = p }
}

// WithSuffix appends a short random suffix to every id. Timestamps alone are
// monotonic within one process but can collide across processes; callers
// needing strict uniqueness enable this.
func WithSuffix() Option {
	return func(g *Generator) { g.suffix = true }
}

// WithClock overrides the time source, for tests.
func WithClock(now func() time.Time) Option {
	return func(g *Generator) { g.now = now }
}

// WithEntropy overrides the suffix entropy source, for tests.
func WithEntropy(r io.Reader) Option {
	return func(g *Generator) { g.entropy = r }
}

// Generator produces sortable ticket ids of the form <PREFIX>-<unixMillis>.
// Ids are monotonically increasing within a process.
type Generator struct {
	leadPrefix string
	suffix     bool
	now        func() time.Time
	entropy    io.Reader

	mu     sync.Mutex
	lastMS int64
}

// New creates a Generator.
func New(opts ...Option) *Generator {
	g := &Generator{
		leadPrefix: defaultLeadPrefix,
		now:        time.Now,
	}
	for _, opt := range opts {
		opt(g)
	}
	if g.entropy == nil {
		g.entropy = rand.New(rand.NewSource(g.now().UnixNano()))
	}
	return g
}

// Emergency returns a CRITICAL-<unixMillis> id.
func (g *Generator) Emergency() string {
	return g.build(EmergencyPrefix)
}

// Lead returns a <prefix><yyyymmdd>-<unixMillis> id for a qualified lead.
func (g *Generator) Lead() string {
	return g.build(g.leadPrefix + g.now().Format("20060102"))
}

func (g *Generator) build(prefix string) string {
	ms := g.millis()
	id := fmt.Sprintf("%s-%d", prefix, ms)
	if g.suffix {
		g.mu.Lock()
		u := ulid.MustNew(uint64(ms), g.entropy)
		g.mu.Unlock()
		id += "-" + u.String()[21:] // last 5 chars: pure entropy
	}
	return id
}

// millis returns the current unix milliseconds, bumped past the previous
// value so ids stay strictly increasing within the process.
func (g *Generator) millis() int64 {
	g.mu.Lock()
	defer g.mu.Unlock()
	ms := g.now().UnixMilli()
	if ms <= g.lastMS {
		ms = g.lastMS + 1
	}
	g.lastMS = ms
	return ms
}
