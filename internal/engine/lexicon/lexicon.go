// Package lexicon holds the static weighted keyword tables the classifier
// scores against. Tables are built once at startup and immutable thereafter.
package lexicon

import "github.com/it-era/intake/internal/model"

// Category tags a phrase set. Generic categories (urgency words with no
// domain-specific anchor) are marked so the classifier can optionally
// require at least one domain trigger.
type Category string

const (
	CategoryEmergency      Category = "EMERGENCY_KEYWORDS"
	CategoryBusinessImpact Category = "BUSINESS_IMPACT_PHRASES"
	CategoryUrgency        Category = "URGENCY_MODIFIERS"
)

// Entry is a weighted phrase set. The weight is added once when any phrase
// matches; occurrence count does not increase the score.
type Entry struct {
	Name     string
	Category Category
	Phrases  []string
	Weight   int
	Generic  bool // true if the set carries no domain-specific signal
}

// CoRule is a co-occurrence rule: every phrase in All must match, and if Any
// is non-empty at least one of its phrases must match too. Rules combine
// additively and are not mutually exclusive.
type CoRule struct {
	Name   string
	All    []string
	Any    []string
	Weight int
}

// TypeRule maps matched phrases to an emergency type. Rules are evaluated in
// slice order; the first match wins, which makes precedence explicit.
type TypeRule struct {
	Type model.EmergencyType
	All  []string
	Any  []string
}

// IntentEntry maps marker phrases to a coarse intent for the
// non-emergency path.
type IntentEntry struct {
	Intent  model.Intent
	Phrases []string
}

// Lexicon is the full table set used by the classifier.
type Lexicon struct {
	Entries   []Entry
	CoRules   []CoRule
	TypeRules []TypeRule
	Intents   []IntentEntry
}

// ApplyWeights overrides rule weights by name. Unknown names are ignored so
// a config file can carry entries for rules that no longer exist.
func (l *Lexicon) ApplyWeights(overrides map[string]int) {
	if len(overrides) == 0 {
		return
	}
	for i := range l.Entries {
		if w, ok := overrides[l.Entries[i].Name]; ok {
			l.Entries[i].Weight = w
		}
	}
	for i := range l.CoRules {
		if w, ok := overrides[l.CoRules[i].Name]; ok {
			l.CoRules[i].Weight = w
		}
	}
}
