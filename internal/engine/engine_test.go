package engine

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/it-era/intake/internal/engine/classifier"
	"github.com/it-era/intake/internal/engine/flow"
	"github.com/it-era/intake/internal/engine/lexicon"
	"github.com/it-era/intake/internal/engine/ticket"
	"github.com/it-era/intake/internal/model"
	"github.com/it-era/intake/internal/notify"
	"github.com/it-era/intake/internal/store"
)

type fakeSink struct {
	mu            sync.Mutex
	notifications []notify.Notification
}

func (f *fakeSink) Notify(_ context.Context, n notify.Notification) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.notifications = append(f.notifications, n)
	return nil
}

func (f *fakeSink) Close() error { return nil }

func (f *fakeSink) all() []notify.Notification {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]notify.Notification(nil), f.notifications...)
}

func newTestEngine(t *testing.T, sink notify.Sink) *Engine {
	t.Helper()
	st, err := store.New(store.DriverMemory)
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { st.Close() })

	cls := classifier.New(lexicon.Default())
	fl := flow.New()
	gen := ticket.New()
	formatter := notify.NewFormatter("IT-ERA", "039 888 2041", "45 minuti")

	var opts []Option
	if sink != nil {
		opts = append(opts, WithSink(sink))
	}
	return New(st, cls, fl, gen, formatter, opts...)
}

func TestEmergencyTurn(t *testing.T) {
	sink := &fakeSink{}
	e := newTestEngine(t, sink)
	ctx := context.Background()

	reply, err := e.HandleMessage(ctx, "s-1",
		"Il nostro server è down da 2 ore, non riusciamo a lavorare!",
		model.Context{Location: "Monza"})
	if err != nil {
		t.Fatal(err)
	}

	if !reply.Emergency {
		t.Fatal("reply not flagged as emergency")
	}
	if reply.EmergencyType != model.ServerDown {
		t.Errorf("EmergencyType = %q, want %q", reply.EmergencyType, model.ServerDown)
	}
	if !reply.BypassAllFlows {
		t.Error("BypassAllFlows not set")
	}
	if reply.Priority != model.PriorityImmediate {
		t.Errorf("Priority = %q", reply.Priority)
	}
	if !strings.HasPrefix(reply.TicketID, "CRITICAL-") {
		t.Errorf("TicketID = %q, want CRITICAL- prefix", reply.TicketID)
	}
	if !strings.Contains(reply.Text, "039 888 2041") {
		t.Errorf("emergency reply missing phone number:\n%s", reply.Text)
	}
	if !strings.Contains(reply.Text, "MONZA") {
		t.Errorf("emergency reply missing uppercased city:\n%s", reply.Text)
	}
	if len(reply.Options) == 0 || !strings.HasPrefix(reply.Options[0], "CHIAMA ORA") {
		t.Errorf("Options = %v, want call-first quick replies", reply.Options)
	}

	got := sink.all()
	if len(got) != 1 {
		t.Fatalf("sink deliveries = %d, want 1", len(got))
	}
	if got[0].Severity != notify.SeverityEmergency {
		t.Errorf("notification severity = %q", got[0].Severity)
	}
	if got[0].Card.ThemeColor != "FF0000" {
		t.Errorf("card color = %q", got[0].Card.ThemeColor)
	}
}

func TestQuoteRequestIsNotAnEmergency(t *testing.T) {
	sink := &fakeSink{}
	e := newTestEngine(t, sink)

	reply, err := e.HandleMessage(context.Background(), "s-1",
		"Vorrei un preventivo per un nuovo sistema gestionale",
		model.Context{Location: "Milano"})
	if err != nil {
		t.Fatal(err)
	}

	if reply.Emergency {
		t.Fatal("quote request classified as emergency")
	}
	if reply.Intent != model.IntentPricing {
		t.Errorf("Intent = %q, want %q", reply.Intent, model.IntentPricing)
	}
	if reply.State != model.StateServiceSelection {
		t.Errorf("State = %q, want %q", reply.State, model.StateServiceSelection)
	}
	if len(sink.all()) != 0 {
		t.Error("non-escalating turn reached the sink")
	}
}

// A ransomware message mid-conversation abandons the lead flow immediately.
func TestMidConversationBypass(t *testing.T) {
	sink := &fakeSink{}
	e := newTestEngine(t, sink)
	ctx := context.Background()
	loc := model.Context{Location: "Como"}

	if _, err := e.HandleMessage(ctx, "s-1", "Buongiorno, vorrei informazioni", loc); err != nil {
		t.Fatal(err)
	}
	if _, err := e.HandleMessage(ctx, "s-1", "Assistenza IT", loc); err != nil {
		t.Fatal(err)
	}

	reply, err := e.HandleMessage(ctx, "s-1", "Aspetta, abbiamo un ransomware! Aiuto!", loc)
	if err != nil {
		t.Fatal(err)
	}

	if !reply.BypassAllFlows {
		t.Fatal("mid-conversation emergency did not bypass")
	}
	if reply.EmergencyType != model.SecurityBreach {
		t.Errorf("EmergencyType = %q, want %q", reply.EmergencyType, model.SecurityBreach)
	}
	if reply.State != model.StateEmergencyResponse {
		t.Errorf("State = %q, want %q", reply.State, model.StateEmergencyResponse)
	}
}

func TestLeadFlowEscalatesOnConfirmation(t *testing.T) {
	sink := &fakeSink{}
	e := newTestEngine(t, sink)
	ctx := context.Background()
	loc := model.Context{Location: "Vimercate"}

	turns := []string{
		"Buongiorno, vorrei assistenza",
		"Sicurezza informatica",
		"Mario Rossi, 333 1234567, mario@azienda.it",
	}
	for _, msg := range turns {
		if _, err := e.HandleMessage(ctx, "s-1", msg, loc); err != nil {
			t.Fatal(err)
		}
	}

	reply, err := e.HandleMessage(ctx, "s-1", "Confermo", loc)
	if err != nil {
		t.Fatal(err)
	}

	if reply.Emergency {
		t.Fatal("lead confirmation flagged as emergency")
	}
	if !reply.Escalate {
		t.Fatal("confirmed lead did not escalate")
	}
	if strings.HasPrefix(reply.TicketID, ticket.EmergencyPrefix) {
		t.Errorf("lead ticket %q carries the emergency prefix", reply.TicketID)
	}
	if !strings.Contains(reply.Text, reply.TicketID) {
		t.Errorf("lead reply does not reference its ticket:\n%s", reply.Text)
	}

	got := sink.all()
	if len(got) != 1 {
		t.Fatalf("sink deliveries = %d, want 1", len(got))
	}
	if got[0].Severity != notify.SeverityLead {
		t.Errorf("notification severity = %q, want %q", got[0].Severity, notify.SeverityLead)
	}
}

func TestEmptyMessage(t *testing.T) {
	e := newTestEngine(t, nil)

	if _, err := e.HandleMessage(context.Background(), "s-1", "   ", model.Context{}); !errors.Is(err, model.ErrEmptyMessage) {
		t.Fatalf("err = %v, want ErrEmptyMessage", err)
	}
}

func TestGeneratedSessionID(t *testing.T) {
	e := newTestEngine(t, nil)

	reply, err := e.HandleMessage(context.Background(), "", "Buongiorno", model.Context{})
	if err != nil {
		t.Fatal(err)
	}
	if reply.SessionID == "" {
		t.Fatal("no session id generated")
	}

	again, err := e.HandleMessage(context.Background(), reply.SessionID, "Assistenza IT", model.Context{})
	if err != nil {
		t.Fatal(err)
	}
	if again.State != model.StateDataCollection {
		t.Errorf("State = %q, want %q (session not persisted)", again.State, model.StateDataCollection)
	}
}

type corruptThenOKStore struct {
	store.Store
	corrupted bool
}

func (s *corruptThenOKStore) Get(ctx context.Context, id string) (*model.Session, error) {
	if !s.corrupted {
		s.corrupted = true
		return nil, fmt.Errorf("%w: bad json", store.ErrCorruptRecord)
	}
	return s.Store.Get(ctx, id)
}

func TestCorruptSessionRestartsConversation(t *testing.T) {
	mem, err := store.New(store.DriverMemory)
	if err != nil {
		t.Fatal(err)
	}
	st := &corruptThenOKStore{Store: mem}

	e := New(st, classifier.New(lexicon.Default()), flow.New(), ticket.New(),
		notify.NewFormatter("IT-ERA", "039 888 2041", "45 minuti"))

	reply, err := e.HandleMessage(context.Background(), "s-1", "Buongiorno", model.Context{})
	if err != nil {
		t.Fatalf("corrupt record surfaced as error: %v", err)
	}
	if reply.State != model.StateServiceSelection {
		t.Errorf("State = %q, want fresh conversation", reply.State)
	}
}

type failingStore struct{ store.Store }

func (s *failingStore) Get(context.Context, string) (*model.Session, error) {
	return nil, errors.New("connection refused")
}

func TestStoreFailureSurfaces(t *testing.T) {
	mem, err := store.New(store.DriverMemory)
	if err != nil {
		t.Fatal(err)
	}

	e := New(&failingStore{Store: mem}, classifier.New(lexicon.Default()), flow.New(), ticket.New(),
		notify.NewFormatter("IT-ERA", "039 888 2041", "45 minuti"))

	if _, err := e.HandleMessage(context.Background(), "s-1", "Buongiorno", model.Context{}); err == nil {
		t.Fatal("store I/O failure swallowed")
	}
}

func TestClockInjection(t *testing.T) {
	mem, err := store.New(store.DriverMemory)
	if err != nil {
		t.Fatal(err)
	}

	at := time.Date(2025, 3, 14, 9, 26, 53, 0, time.UTC)
	e := New(mem, classifier.New(lexicon.Default()), flow.New(), ticket.New(),
		notify.NewFormatter("IT-ERA", "039 888 2041", "45 minuti"),
		WithClock(func() time.Time { return at }))

	if _, err := e.HandleMessage(context.Background(), "s-1", "Buongiorno", model.Context{}); err != nil {
		t.Fatal(err)
	}

	sess, err := mem.Get(context.Background(), "s-1")
	if err != nil {
		t.Fatal(err)
	}
	if !sess.CreatedAt.Equal(at) || !sess.LastActivityAt.Equal(at) {
		t.Errorf("timestamps = %v / %v, want %v", sess.CreatedAt, sess.LastActivityAt, at)
	}
}
