package model

import "time"

// Ticket identifies an escalated lead or emergency. Generated fresh per
// escalation and never mutated; persistence is the caller's concern.
type Ticket struct {
	ID            string
	CreatedAt     time.Time
	EmergencyType EmergencyType // empty for normal leads
	City          string
}

// Priority levels carried on replies and notification cards.
const (
	PriorityImmediate = "immediate"
	PriorityHigh      = "high"
	PriorityMedium    = "medium"
	PriorityLow       = "low"
)

// Reply is the engine's answer to one inbound message: the customer-facing
// text plus the machine-facing escalation fields.
type Reply struct {
	SessionID      string        `json:"sessionId"`
	Text           string        `json:"response"`
	Options        []string      `json:"options,omitempty"`
	State          State         `json:"step"`
	Intent         Intent        `json:"intent"`
	Confidence     float64       `json:"confidence"`
	Escalate       bool          `json:"escalate"`
	Priority       string        `json:"priority,omitempty"`
	Emergency      bool          `json:"emergency"`
	EmergencyType  EmergencyType `json:"emergencyType,omitempty"`
	TicketID       string        `json:"ticketId,omitempty"`
	BypassAllFlows bool          `json:"bypassAllFlows"`
}
