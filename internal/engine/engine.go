// Package engine orchestrates the classify → advance → escalate → persist
// cycle for each inbound chat message.
package engine

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/it-era/intake/internal/engine/classifier"
	"github.com/it-era/intake/internal/engine/flow"
	"github.com/it-era/intake/internal/engine/ticket"
	"github.com/it-era/intake/internal/model"
	"github.com/it-era/intake/internal/notify"
	"github.com/it-era/intake/internal/store"
)

// Option configures an Engine.
type Option func(*Engine)

// WithSink sets an optional notification sink. When set, escalation turns
// hand the formatted card to the sink; delivery failures are logged, never
// surfaced to the visitor.
func WithSink(s notify.Sink) Option {
	return func(e *Engine) { e.sink = s }
}

// WithClock overrides the time source, for tests.
func WithClock(now func() time.Time) Option {
	return func(e *Engine) { e.now = now }
}

// Engine is the single entry point for the conversational intake flow.
// Stateless between calls except for the session store read/write bracket;
// safe for concurrent use across sessions. Turns within one session must be
// serialized by the caller.
type Engine struct {
	store      store.Store
	classifier *classifier.Classifier
	flow       *flow.Flow
	tickets    *ticket.Generator
	formatter  *notify.Formatter
	sink       notify.Sink
	now        func() time.Time
}

// New creates an Engine with the provided components.
func New(st store.Store, cls *classifier.Classifier, fl *flow.Flow, gen *ticket.Generator, f *notify.Formatter, opts ...Option) *Engine {
	e := &Engine{
		store:      st,
		classifier: cls,
		flow:       fl,
		tickets:    gen,
		formatter:  f,
		now:        time.Now,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// HandleMessage runs one conversation turn: read session, classify, advance
// the state machine, escalate if needed, persist, reply. A blank message is
// a caller input error. A missing or corrupt session restarts at START and
// is never an error.
func (e *Engine) HandleMessage(ctx context.Context, sessionID, raw string, msgCtx model.Context) (*model.Reply, error) {
	if strings.TrimSpace(raw) == "" {
		return nil, model.ErrEmptyMessage
	}
	if sessionID == "" {
		sessionID = uuid.NewString()
	}

	now := e.now()

	sess, err := e.store.Get(ctx, sessionID)
	if err != nil {
		if !errors.Is(err, store.ErrCorruptRecord) {
			return nil, err
		}
		slog.Warn("corrupt session record, restarting conversation", "session", sessionID)
		sess = nil
	}
	if sess == nil {
		sess = model.NewSession(sessionID, now)
	}

	cls := e.classifier.Classify(raw, msgCtx)
	step := e.flow.Advance(sess, cls, raw)

	reply := &model.Reply{
		SessionID:      sessionID,
		Text:           step.Text,
		Options:        step.Options,
		State:          sess.State,
		Intent:         step.Intent,
		Confidence:     step.Confidence,
		Escalate:       step.Escalate,
		Priority:       step.Priority,
		Emergency:      cls.IsEmergency,
		EmergencyType:  cls.EmergencyType,
		BypassAllFlows: step.Bypass,
	}

	if step.Escalate {
		if err := e.escalate(ctx, reply, step, cls, sess, raw, now); err != nil {
			return nil, err
		}
	}

	sess.LastActivityAt = now
	if err := e.store.Put(ctx, sessionID, sess); err != nil {
		return nil, err
	}

	return reply, nil
}

// escalate generates the ticket, formats the customer text and notification
// card, and hands the card to the sink if one is wired.
func (e *Engine) escalate(ctx context.Context, reply *model.Reply, step flow.Step, cls model.Classification, sess *model.Session, raw string, now time.Time) error {
	var id string
	if cls.IsEmergency {
		id = e.tickets.Emergency()
	} else {
		id = e.tickets.Lead()
	}
	t := &model.Ticket{
		ID:            id,
		CreatedAt:     now,
		EmergencyType: cls.EmergencyType,
		City:          cls.City,
	}

	text, n, err := e.formatter.Format(t, &cls, sess.Lead, sess.ID, raw)
	if err != nil {
		return err
	}

	reply.TicketID = t.ID
	if cls.IsEmergency {
		reply.Text = text
		reply.Options = e.formatter.EmergencyOptions()
	} else {
		reply.Text = step.Text + "\n" + text
	}

	if e.sink != nil {
		if err := e.sink.Notify(ctx, n); err != nil {
			slog.Warn("notification delivery failed", "ticket", t.ID, "error", err)
		}
	}

	slog.Info("escalation",
		"ticket", t.ID,
		"session", sess.ID,
		"severity", n.Severity,
		"emergencyType", cls.EmergencyType,
		"score", cls.UrgencyScore,
		"city", cls.City,
	)
	return nil
}
