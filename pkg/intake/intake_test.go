package intake

import (
	"bufio"
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
)

func TestEmergencyEndToEnd(t *testing.T) {
	var mu sync.Mutex
	var posted [][]byte
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, _ := io.ReadAll(r.Body)
		mu.Lock()
		posted = append(posted, body)
		mu.Unlock()
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	audit := filepath.Join(t.TempDir(), "audit.jsonl")
	client, err := New(
		WithWebhook(srv.URL),
		WithAuditFile(audit),
		WithBrand("ACME-IT"),
		WithEmergencyPhone("02 1234 5678"),
	)
	if err != nil {
		t.Fatal(err)
	}

	reply, err := client.HandleMessage(context.Background(), "",
		"Il nostro server è down da 2 ore, non riusciamo a lavorare!", "Monza")
	if err != nil {
		t.Fatal(err)
	}

	if !reply.Emergency {
		t.Fatal("reply not flagged as emergency")
	}
	if reply.EmergencyType != "SERVER_DOWN" {
		t.Errorf("EmergencyType = %q", reply.EmergencyType)
	}
	if reply.State != "EMERGENCY_RESPONSE" {
		t.Errorf("State = %q", reply.State)
	}
	if !strings.HasPrefix(reply.TicketID, "CRITICAL-") {
		t.Errorf("TicketID = %q", reply.TicketID)
	}
	if !strings.Contains(reply.Text, "[ACME-IT]") {
		t.Errorf("reply missing brand:\n%s", reply.Text)
	}
	if !strings.Contains(reply.Text, "02 1234 5678") {
		t.Errorf("reply missing configured phone:\n%s", reply.Text)
	}

	// Close drains the async sink before we inspect deliveries.
	if err := client.Close(); err != nil {
		t.Fatal(err)
	}

	mu.Lock()
	defer mu.Unlock()
	if len(posted) != 1 {
		t.Fatalf("webhook deliveries = %d, want 1", len(posted))
	}
	var card struct {
		Type       string `json:"@type"`
		ThemeColor string `json:"themeColor"`
	}
	if err := json.Unmarshal(posted[0], &card); err != nil {
		t.Fatalf("posted body is not a card: %v", err)
	}
	if card.Type != "MessageCard" || card.ThemeColor != "FF0000" {
		t.Errorf("card = %+v", card)
	}

	f, err := os.Open(audit)
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()
	lines := 0
	for scanner := bufio.NewScanner(f); scanner.Scan(); {
		lines++
	}
	if lines != 1 {
		t.Errorf("audit lines = %d, want 1", lines)
	}
}

// The same emergency re-sent in one session pages the webhook once; the
// audit file records both escalations.
func TestRepeatEmergencyIsDeduplicated(t *testing.T) {
	var count int
	var mu sync.Mutex
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		mu.Lock()
		count++
		mu.Unlock()
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	audit := filepath.Join(t.TempDir(), "audit.jsonl")
	client, err := New(WithWebhook(srv.URL), WithAuditFile(audit))
	if err != nil {
		t.Fatal(err)
	}

	ctx := context.Background()
	reply, err := client.HandleMessage(ctx, "", "Emergenza, il server è down!", "Monza")
	if err != nil {
		t.Fatal(err)
	}
	if _, err := client.HandleMessage(ctx, reply.SessionID, "Emergenza! Il server è ancora down!!", "Monza"); err != nil {
		t.Fatal(err)
	}

	if err := client.Close(); err != nil {
		t.Fatal(err)
	}

	mu.Lock()
	defer mu.Unlock()
	if count != 1 {
		t.Errorf("webhook deliveries = %d, want 1 (duplicate suppressed)", count)
	}
}

func TestHandleMessageEmptyInput(t *testing.T) {
	client, err := New()
	if err != nil {
		t.Fatal(err)
	}
	defer client.Close()

	if _, err := client.HandleMessage(context.Background(), "s-1", "", "Milano"); !errors.Is(err, ErrEmptyMessage) {
		t.Fatalf("err = %v, want ErrEmptyMessage", err)
	}
}

func TestClassifyIsStateless(t *testing.T) {
	client, err := New()
	if err != nil {
		t.Fatal(err)
	}
	defer client.Close()

	got := client.Classify("Abbiamo un ransomware!", "Como")
	if !got.IsEmergency {
		t.Fatal("ransomware not an emergency")
	}
	if got.EmergencyType != "SECURITY_BREACH" {
		t.Errorf("EmergencyType = %q", got.EmergencyType)
	}
	if got.UrgencyScore < 90 {
		t.Errorf("UrgencyScore = %d, want >= 90", got.UrgencyScore)
	}
	if got.City != "Como" {
		t.Errorf("City = %q", got.City)
	}
}

func TestOptionsFlowThrough(t *testing.T) {
	client, err := New(
		WithDefaultCity("Bergamo"),
		WithEmergencyThreshold(150),
	)
	if err != nil {
		t.Fatal(err)
	}
	defer client.Close()

	got := client.Classify("il sito è offline", "")
	if got.IsEmergency {
		t.Errorf("score %d crossed raised threshold", got.UrgencyScore)
	}
	if got.City != "Bergamo" {
		t.Errorf("City = %q, want configured default", got.City)
	}
}

func TestWeightsOverride(t *testing.T) {
	client, err := New(WithWeights(map[string]int{
		"emergency_keywords": 0,
		"urgency_modifiers":  0,
		"down_offline":       0,
	}))
	if err != nil {
		t.Fatal(err)
	}
	defer client.Close()

	got := client.Classify("urgente, il sito è offline!", "")
	if got.IsEmergency {
		t.Errorf("zero-weighted rules still scored %d", got.UrgencyScore)
	}
}

func TestConversationalFlowViaFacade(t *testing.T) {
	client, err := New()
	if err != nil {
		t.Fatal(err)
	}
	defer client.Close()

	ctx := context.Background()
	reply, err := client.HandleMessage(ctx, "", "Buongiorno", "Milano")
	if err != nil {
		t.Fatal(err)
	}
	if reply.State != "SERVICE_SELECTION" {
		t.Fatalf("State = %q", reply.State)
	}

	sid := reply.SessionID
	for _, msg := range []string{"Assistenza IT", "Mario Rossi, 333 1234567", "Confermo"} {
		if reply, err = client.HandleMessage(ctx, sid, msg, "Milano"); err != nil {
			t.Fatal(err)
		}
	}

	if reply.State != "COMPLETED" {
		t.Errorf("final State = %q, want COMPLETED", reply.State)
	}
	if !reply.Escalate {
		t.Error("confirmed lead did not escalate")
	}
	if reply.TicketID == "" || strings.HasPrefix(reply.TicketID, "CRITICAL-") {
		t.Errorf("TicketID = %q, want a lead ticket", reply.TicketID)
	}
}
