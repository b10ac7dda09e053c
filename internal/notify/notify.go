// Package notify builds channel-ready escalation notifications and defines
// the sink interface used to deliver them.
package notify

import (
	"context"

	"github.com/it-era/intake/internal/model"
)

// Severity classifies a notification for styling purposes.
type Severity string

const (
	SeverityEmergency Severity = "emergency"
	SeverityLead      Severity = "lead"
	SeverityLow       Severity = "low"
)

// Style controls how a severity renders on a message card.
type Style struct {
	Color string // themeColor hex, no leading #
	Label string // short title prefix, e.g. "EMERGENZA"
}

// StyleTable maps severities to card styles. Injected into the Formatter so
// new channels or palettes need no formatting-code changes.
type StyleTable map[Severity]Style

// DefaultStyles returns the built-in palette: red for emergencies, orange
// for standard leads, green for low priority.
func DefaultStyles() StyleTable {
	return StyleTable{
		SeverityEmergency: {Color: "FF0000", Label: "EMERGENZA"},
		SeverityLead:      {Color: "FF6600", Label: "NUOVO LEAD"},
		SeverityLow:       {Color: "2EB886", Label: "RICHIESTA"},
	}
}

// Notification is the channel-ready escalation payload handed to sinks.
type Notification struct {
	TicketID  string              `json:"ticketId"`
	SessionID string              `json:"sessionId"`
	Severity  Severity            `json:"severity"`
	Priority  string              `json:"priority"`
	Emergency model.EmergencyType `json:"emergencyType,omitempty"`
	Card      Card                `json:"card"`
}

// Sink delivers notifications to a channel (Teams webhook, file, stdout).
// Delivery guarantees belong to the sink, not the engine.
type Sink interface {
	Notify(ctx context.Context, n Notification) error
	Close() error
}
