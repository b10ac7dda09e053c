package notify

import (
	"errors"
	"fmt"
	"strings"

	"github.com/it-era/intake/internal/model"
)

// ErrNilInput is returned when Format receives a nil ticket or
// classification. That is a programmer error, not a runtime condition.
var ErrNilInput = errors.New("notify: nil ticket or classification")

// Option configures a Formatter.
type Option func(*Formatter)

// WithStyles replaces the severity→style lookup table.
func WithStyles(t StyleTable) Option {
	return func(f *Formatter) { f.styles = t }
}

// WithSiteURL sets the site link embedded in card actions.
func WithSiteURL(u string) Option {
	return func(f *Formatter) { f.siteURL = u }
}

// Formatter builds customer-facing reply text and message-card payloads for
// escalations. Brand, phone and ETA are configuration, never literals at the
// call sites.
type Formatter struct {
	brand   string
	phone   string
	eta     string
	siteURL string
	styles  StyleTable
}

// NewFormatter creates a Formatter. brand is the bracketed reply prefix,
// phone the H24 emergency number, eta the promised response time.
func NewFormatter(brand, phone, eta string, opts ...Option) *Formatter {
	f := &Formatter{
		brand:  brand,
		phone:  phone,
		eta:    eta,
		styles: DefaultStyles(),
	}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

// Format builds the customer reply text and the channel notification for an
// escalation. Missing optional lead fields are omitted from the facts table,
// never an error.
func (f *Formatter) Format(ticket *model.Ticket, cls *model.Classification, lead model.Lead, sessionID, message string) (string, Notification, error) {
	if ticket == nil || cls == nil {
		return "", Notification{}, ErrNilInput
	}

	severity := f.severity(cls, lead)
	style := f.styles[severity]

	n := Notification{
		TicketID:  ticket.ID,
		SessionID: sessionID,
		Severity:  severity,
		Priority:  priorityFor(severity),
		Emergency: cls.EmergencyType,
		Card:      f.card(ticket, cls, lead, style, severity, message),
	}

	if cls.IsEmergency {
		return f.emergencyText(ticket), n, nil
	}
	return fmt.Sprintf("Ticket di riferimento: %s", ticket.ID), n, nil
}

// EmergencyOptions are the fixed quick replies attached to an emergency
// response: call first, everything else second.
func (f *Formatter) EmergencyOptions() []string {
	return []string{
		"CHIAMA ORA: " + f.phone,
		"Invia posizione per intervento",
		"Descrizione dettagliata emergenza",
	}
}

// emergencyText is the fixed phone-first reply template for emergencies.
func (f *Formatter) emergencyText(ticket *model.Ticket) string {
	city := strings.ToUpper(ticket.City)
	return fmt.Sprintf(`[%s] EMERGENZA RICEVUTA!
🚨 INTERVENTO IMMEDIATO %s
Numero Emergenza H24: %s

Team in partenza: ETA %s
Ticket priorità MASSIMA: #%s

CHIAMACI ORA: %s`, f.brand, city, f.phone, f.eta, ticket.ID, f.phone)
}

func (f *Formatter) card(ticket *model.Ticket, cls *model.Classification, lead model.Lead, style Style, severity Severity, message string) Card {
	var summary, subject string
	if cls.IsEmergency {
		summary = fmt.Sprintf("%s %s: %s", style.Label, cls.EmergencyType, ticket.City)
		subject = string(cls.EmergencyType)
	} else {
		who := lead.Company
		if who == "" {
			who = lead.Name
		}
		if who == "" {
			who = "lead dal chatbot"
		}
		summary = fmt.Sprintf("%s: %s", style.Label, who)
		subject = lead.Service
	}

	facts := []Fact{{Name: "Ticket", Value: ticket.ID}}
	facts = appendFact(facts, "Contatto", lead.Name)
	facts = appendFact(facts, "Telefono", lead.Phone)
	facts = appendFact(facts, "Email", lead.Email)
	facts = appendFact(facts, "Azienda", company(lead))
	facts = appendFact(facts, "Località", lead.Location)
	if cls.IsEmergency {
		facts = appendFact(facts, "Emergenza", string(cls.EmergencyType))
		facts = appendFact(facts, "Punteggio urgenza", fmt.Sprintf("%d", cls.UrgencyScore))
	} else {
		facts = appendFact(facts, "Servizio", lead.Service)
		facts = appendFact(facts, "Lead score", fmt.Sprintf("%d/100", leadScore(lead)))
	}

	var actions []Action
	if lead.Phone != "" {
		actions = append(actions, newAction("Chiama subito", "tel:"+strings.ReplaceAll(lead.Phone, " ", "")))
	} else if cls.IsEmergency {
		actions = append(actions, newAction("Linea emergenza", "tel:"+strings.ReplaceAll(f.phone, " ", "")))
	}
	if lead.Email != "" {
		actions = append(actions, newAction("Invia email", "mailto:"+lead.Email))
	}
	if f.siteURL != "" {
		actions = append(actions, newAction("Apri il chatbot", f.siteURL))
	}

	var text string
	if message != "" {
		text = "Messaggio:\n" + message
	}

	return Card{
		Type:       cardType,
		Context:    cardContext,
		Summary:    summary,
		ThemeColor: style.Color,
		Sections: []Section{{
			ActivityTitle:    fmt.Sprintf("[%s] %s", f.brand, summary),
			ActivitySubtitle: subject,
			Facts:            facts,
			Text:             text,
		}},
		PotentialAction: actions,
	}
}

// severity picks the card style tier: emergencies are always red; leads are
// split by score so low-quality requests render green instead of orange.
func (f *Formatter) severity(cls *model.Classification, lead model.Lead) Severity {
	if cls.IsEmergency {
		return SeverityEmergency
	}
	if leadScore(lead) >= 35 {
		return SeverityLead
	}
	return SeverityLow
}

func priorityFor(s Severity) string {
	switch s {
	case SeverityEmergency:
		return model.PriorityImmediate
	case SeverityLead:
		return model.PriorityHigh
	default:
		return model.PriorityMedium
	}
}

func appendFact(facts []Fact, name, value string) []Fact {
	if value == "" {
		return facts
	}
	return append(facts, Fact{Name: name, Value: value})
}

func company(lead model.Lead) string {
	if lead.Company == "" {
		return ""
	}
	if lead.CompanySize != "" {
		return fmt.Sprintf("%s (%s dipendenti)", lead.Company, lead.CompanySize)
	}
	return lead.Company
}

// leadScore grades a lead 0-100 from geography, company size and requested
// service. The tiers mirror the sales team's coverage area around Brianza.
func leadScore(lead model.Lead) int {
	score := 0

	loc := strings.ToLower(lead.Location)
	switch {
	case containsAnyOf(loc, "vimercate", "agrate", "concorezzo"):
		score += 35
	case containsAnyOf(loc, "monza", "brianza", "arcore"):
		score += 25
	case containsAnyOf(loc, "bergamo"):
		score += 15
	case containsAnyOf(loc, "milano"):
		score += 8
	}

	size := strings.ToLower(lead.CompanySize)
	switch {
	case containsAnyOf(size, "50+", "100"):
		score += 30
	case containsAnyOf(size, "20-50", "25-50"):
		score += 25
	case containsAnyOf(size, "10-25"):
		score += 20
	case containsAnyOf(size, "5-15", "5-10"):
		score += 15
	case containsAnyOf(size, "1-5"):
		score += 5
	}

	svc := strings.ToLower(lead.Service)
	switch {
	case containsAnyOf(svc, "sicurezza", "firewall", "cyber"):
		score += 20
	case containsAnyOf(svc, "server", "cloud", "backup"):
		score += 18
	case containsAnyOf(svc, "assistenza", "contratto"):
		score += 15
	}

	if score > 100 {
		score = 100
	}
	return score
}

func containsAnyOf(s string, subs ...string) bool {
	for _, sub := range subs {
		if strings.Contains(s, sub) {
			return true
		}
	}
	return false
}
