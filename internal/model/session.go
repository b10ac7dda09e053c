package model

import "time"

// State is a conversation state machine position.
type State string

const (
	StateStart             State = "START"
	StateServiceSelection  State = "SERVICE_SELECTION"
	StateDataCollection    State = "DATA_COLLECTION"
	StateConfirmation      State = "CONFIRMATION"
	StateCompleted         State = "COMPLETED"
	StateEmergencyResponse State = "EMERGENCY_RESPONSE"
)

// Terminal reports whether no further conversational progress is possible
// from s. EMERGENCY_RESPONSE closes the session outright; COMPLETED may
// restart depending on engine policy.
func (s State) Terminal() bool {
	return s == StateCompleted || s == StateEmergencyResponse
}

// Lead holds the qualification fields accumulated across conversation turns.
type Lead struct {
	Name        string `json:"name,omitempty"`
	Phone       string `json:"phone,omitempty"`
	Email       string `json:"email,omitempty"`
	Company     string `json:"company,omitempty"`
	CompanySize string `json:"company_size,omitempty"`
	Service     string `json:"service,omitempty"`
	Location    string `json:"location,omitempty"`
}

// Session is the per-conversation record owned by the session store.
// The engine reads and replaces the whole record atomically each turn.
type Session struct {
	ID             string    `json:"id"`
	State          State     `json:"state"`
	Lead           Lead      `json:"lead"`
	MessageCount   int       `json:"message_count"`
	CreatedAt      time.Time `json:"created_at"`
	LastActivityAt time.Time `json:"last_activity_at"`
}

// NewSession returns a fresh session at the start state.
func NewSession(id string, now time.Time) *Session {
	return &Session{
		ID:             id,
		State:          StateStart,
		CreatedAt:      now,
		LastActivityAt: now,
	}
}
