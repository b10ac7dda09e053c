package intake

import "github.com/it-era/intake/internal/model"

// Result is the public classification verdict for a single message.
type Result struct {
	UrgencyScore  int    `json:"urgencyScore"`
	IsEmergency   bool   `json:"isEmergency"`
	EmergencyType string `json:"emergencyType,omitempty"`
	Intent        string `json:"intent"`
	City          string `json:"city"`
}

// Reply is the public per-turn engine response.
type Reply struct {
	SessionID      string   `json:"sessionId"`
	Text           string   `json:"response"`
	Options        []string `json:"options,omitempty"`
	State          string   `json:"step"`
	Intent         string   `json:"intent"`
	Confidence     float64  `json:"confidence"`
	Escalate       bool     `json:"escalate"`
	Priority       string   `json:"priority,omitempty"`
	Emergency      bool     `json:"emergency"`
	EmergencyType  string   `json:"emergencyType,omitempty"`
	TicketID       string   `json:"ticketId,omitempty"`
	BypassAllFlows bool     `json:"bypassAllFlows"`
}

func resultFromClassification(c model.Classification) Result {
	return Result{
		UrgencyScore:  c.UrgencyScore,
		IsEmergency:   c.IsEmergency,
		EmergencyType: string(c.EmergencyType),
		Intent:        string(c.Intent),
		City:          c.City,
	}
}

func replyFromModel(r *model.Reply) Reply {
	return Reply{
		SessionID:      r.SessionID,
		Text:           r.Text,
		Options:        r.Options,
		State:          string(r.State),
		Intent:         string(r.Intent),
		Confidence:     r.Confidence,
		Escalate:       r.Escalate,
		Priority:       r.Priority,
		Emergency:      r.Emergency,
		EmergencyType:  string(r.EmergencyType),
		TicketID:       r.TicketID,
		BypassAllFlows: r.BypassAllFlows,
	}
}
