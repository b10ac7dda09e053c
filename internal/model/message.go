package model

import "errors"

// ErrEmptyMessage is returned when a caller submits a blank message.
// This is a caller input error, never auto-recovered.
var ErrEmptyMessage = errors.New("message is empty")

// Context carries optional caller-supplied hints about the visitor.
type Context struct {
	Location string // declared city, e.g. "Milano"
}

// Intent is the coarse non-emergency intent of a message.
type Intent string

const (
	IntentGreeting       Intent = "greeting"
	IntentServiceInquiry Intent = "service_inquiry"
	IntentPricing        Intent = "pricing"
	IntentEmergency      Intent = "emergency"
	IntentUnknown        Intent = "unknown"
)

// EmergencyType identifies the kind of emergency detected in a message.
type EmergencyType string

const (
	SecurityBreach   EmergencyType = "SECURITY_BREACH"
	ServerDown       EmergencyType = "SERVER_DOWN"
	BusinessCritical EmergencyType = "BUSINESS_CRITICAL"
	DataLoss         EmergencyType = "DATA_LOSS"
	GeneralEmergency EmergencyType = "GENERAL_EMERGENCY"
)

// Classification is the classifier's verdict on a single message.
// Ephemeral: one per message, never persisted by the engine.
type Classification struct {
	UrgencyScore  int
	IsEmergency   bool
	EmergencyType EmergencyType // empty unless IsEmergency
	Intent        Intent
	City          string // resolved from context, falls back to the default city
}
