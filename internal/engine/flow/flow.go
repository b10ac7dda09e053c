// Package flow drives the lead-qualification conversation state machine.
package flow

import (
	"fmt"
	"strings"

	"github.com/it-era/intake/internal/model"
)

// Step is the outcome of advancing the state machine by one turn.
// Session is the caller's record, mutated in place to the next state.
type Step struct {
	Session    *model.Session
	Text       string
	Options    []string
	Intent     model.Intent
	Confidence float64
	Escalate   bool   // true when the turn produces a ticket + notification
	Priority   string // set when Escalate
	Bypass     bool   // true only on the emergency path
}

// Option configures a Flow.
type Option func(*Flow)

// WithRestartCompleted controls whether a message in a COMPLETED session
// starts a new conversation (default) or is answered with a closing note.
func WithRestartCompleted(restart bool) Option {
	return func(f *Flow) { f.restartCompleted = restart }
}

// Flow decides the next conversation state from the current session and the
// classifier's verdict. Stateless; safe for concurrent use across sessions.
type Flow struct {
	restartCompleted bool
}

// New creates a Flow.
func New(opts ...Option) *Flow {
	f := &Flow{restartCompleted: true}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

var affirmations = []string{"sì", "si", "ok", "confermo", "va bene", "procedi", "certo"}

// Advance applies one conversation turn. The emergency transition runs before
// any state-specific logic and overrides whatever state the session was in;
// accumulated lead fields are kept for audit but the flow never resumes.
func (f *Flow) Advance(session *model.Session, cls model.Classification, raw string) Step {
	session.MessageCount++
	if session.Lead.Location == "" {
		session.Lead.Location = cls.City
	}

	if cls.IsEmergency {
		session.State = model.StateEmergencyResponse
		return Step{
			Session:    session,
			Intent:     model.IntentEmergency,
			Confidence: 1.0,
			Escalate:   true,
			Priority:   model.PriorityImmediate,
			Bypass:     true,
		}
	}

	msg := strings.ToLower(strings.TrimSpace(raw))

	switch session.State {
	case model.StateStart:
		return f.fromStart(session, cls)

	case model.StateServiceSelection:
		session.Lead.Service = strings.TrimSpace(raw)
		session.State = model.StateDataCollection
		return Step{
			Session: session,
			Text: "Perfetto! Per ricontattarti ci servono i tuoi dati: " +
				"nome, telefono o email (es. Mario Rossi, 333 1234567, mario@azienda.it).",
			Options:    []string{"Preferisco essere chiamato", "Preferisco una email"},
			Intent:     cls.Intent,
			Confidence: 0.9,
		}

	case model.StateDataCollection:
		collectContact(&session.Lead, raw)
		session.State = model.StateConfirmation
		return Step{
			Session:    session,
			Text:       confirmationSummary(session.Lead),
			Options:    []string{"Confermo", "Modifica i dati"},
			Intent:     cls.Intent,
			Confidence: 0.9,
		}

	case model.StateConfirmation:
		if isAffirmative(msg) {
			session.State = model.StateCompleted
			return Step{
				Session: session,
				Text: "Grazie! La tua richiesta è stata registrata. " +
					"Un nostro consulente ti contatterà entro 2 ore lavorative.",
				Options:    []string{"Nuova richiesta"},
				Intent:     cls.Intent,
				Confidence: 0.95,
				Escalate:   true,
				Priority:   model.PriorityHigh,
			}
		}
		session.State = model.StateDataCollection
		return Step{
			Session:    session,
			Text:       "Nessun problema, riscrivi pure i tuoi dati di contatto.",
			Options:    []string{"Preferisco essere chiamato", "Preferisco una email"},
			Intent:     cls.Intent,
			Confidence: 0.9,
		}

	case model.StateCompleted:
		if f.restartCompleted {
			session.Lead = model.Lead{Location: session.Lead.Location}
			session.State = model.StateStart
			return f.fromStart(session, cls)
		}
		return Step{
			Session:    session,
			Text:       "Questa conversazione è conclusa. Per una nuova richiesta apri una nuova chat.",
			Intent:     cls.Intent,
			Confidence: 0.9,
		}

	case model.StateEmergencyResponse:
		// Session is closed for conversational purposes; keep pointing at
		// the phone channel.
		return Step{
			Session:    session,
			Text:       "La tua emergenza è già in gestione: un tecnico è in arrivo. Per aggiornamenti chiamaci al numero di emergenza.",
			Intent:     model.IntentEmergency,
			Confidence: 1.0,
		}

	default:
		// Unknown state in a stored record: recover at START, never fail.
		session.State = model.StateStart
		return f.fromStart(session, cls)
	}
}

func (f *Flow) fromStart(session *model.Session, cls model.Classification) Step {
	session.State = model.StateServiceSelection
	text := "Benvenuto! Sono l'assistente di supporto IT. Di quale servizio hai bisogno?"
	if cls.Intent == model.IntentPricing {
		text = "Volentieri, prepariamo un preventivo. Per quale servizio?"
	}
	return Step{
		Session:    session,
		Text:       text,
		Options:    []string{"Assistenza IT", "Sicurezza informatica", "Cloud e server", "Preventivo"},
		Intent:     cls.Intent,
		Confidence: 0.8,
	}
}

// collectContact pulls an email and a phone number out of a free-text
// contact turn; whatever remains is treated as the name.
func collectContact(lead *model.Lead, raw string) {
	var nameParts []string
	for _, tok := range strings.FieldsFunc(raw, func(r rune) bool { return r == ',' || r == ';' || r == ' ' }) {
		switch {
		case strings.Contains(tok, "@"):
			lead.Email = tok
		case isPhone(tok):
			if lead.Phone != "" {
				lead.Phone += " " + tok
			} else {
				lead.Phone = tok
			}
		default:
			nameParts = append(nameParts, tok)
		}
	}
	if name := strings.Join(nameParts, " "); name != "" {
		lead.Name = name
	}
}

// isPhone reports whether a token is mostly digits (allowing +, -, /).
// The threshold is low so a "+39" country-code token still counts.
func isPhone(tok string) bool {
	digits := 0
	for _, r := range tok {
		switch {
		case r >= '0' && r <= '9':
			digits++
		case r == '+' || r == '-' || r == '/' || r == '.':
		default:
			return false
		}
	}
	return digits >= 2
}

// isAffirmative matches whole words, not substrings: "si" hides inside too
// many Italian words for containment to be safe here.
func isAffirmative(msg string) bool {
	fields := strings.Fields(msg)
	for _, a := range affirmations {
		if strings.Contains(a, " ") {
			if strings.Contains(msg, a) {
				return true
			}
			continue
		}
		for _, w := range fields {
			if strings.Trim(w, ".,!?") == a {
				return true
			}
		}
	}
	return false
}

func confirmationSummary(lead model.Lead) string {
	var b strings.Builder
	b.WriteString("Riepilogo della richiesta:\n")
	if lead.Name != "" {
		fmt.Fprintf(&b, "Nome: %s\n", lead.Name)
	}
	if lead.Phone != "" {
		fmt.Fprintf(&b, "Telefono: %s\n", lead.Phone)
	}
	if lead.Email != "" {
		fmt.Fprintf(&b, "Email: %s\n", lead.Email)
	}
	if lead.Service != "" {
		fmt.Fprintf(&b, "Servizio: %s\n", lead.Service)
	}
	if lead.Location != "" {
		fmt.Fprintf(&b, "Zona: %s\n", lead.Location)
	}
	b.WriteString("Confermi i dati?")
	return b.String()
}
