// Package classifier scores inbound messages against the lexicon.
package classifier

import (
	"strings"

	"golang.org/x/text/unicode/norm"

	"github.com/it-era/intake/internal/engine/lexicon"
	"github.com/it-era/intake/internal/model"
)

// DefaultThreshold is the urgency score at which a message counts as an
// emergency. Tunable via config; kept here as the single source of the default.
const DefaultThreshold = 40

// DefaultCity is used when the caller provides no location context.
const DefaultCity = "Milano"

// Option configures a Classifier.
type Option func(*Classifier)

// WithThreshold sets the emergency score threshold. Default: 40.
func WithThreshold(t int) Option {
	return func(c *Classifier) { c.threshold = t }
}

// WithRequireDomainTrigger makes generic urgency words (urgente, subito, ...)
// insufficient to cross the threshold on their own: at least one
// domain-specific rule must fire too. Default: off, matching the historical
// scoring behavior.
func WithRequireDomainTrigger() Option {
	return func(c *Classifier) { c.requireDomain = true }
}

// WithDefaultCity sets the fallback city for messages without a location.
func WithDefaultCity(city string) Option {
	return func(c *Classifier) { c.defaultCity = city }
}

// Classifier is a pure, deterministic keyword scorer. Safe for concurrent
// use: it holds only immutable tables after construction.
type Classifier struct {
	lex           *lexicon.Lexicon
	generic       map[string]struct{}
	threshold     int
	requireDomain bool
	defaultCity   string
}

// New creates a Classifier over the given lexicon.
func New(lex *lexicon.Lexicon, opts ...Option) *Classifier {
	c := &Classifier{
		lex:         lex,
		generic:     make(map[string]struct{}),
		threshold:   DefaultThreshold,
		defaultCity: DefaultCity,
	}
	for _, e := range lex.Entries {
		if !e.Generic {
			continue
		}
		for _, p := range e.Phrases {
			c.generic[p] = struct{}{}
		}
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Classify scores a message and resolves either an emergency type or a
// coarse intent. No I/O; identical inputs always yield identical results.
func (c *Classifier) Classify(message string, ctx model.Context) model.Classification {
	msg := Normalize(message)

	city := ctx.Location
	if city == "" {
		city = c.defaultCity
	}

	score := 0
	domainTriggered := false

	for _, e := range c.lex.Entries {
		if !containsAny(msg, e.Phrases) {
			continue
		}
		score += e.Weight
		if e.Generic {
			continue
		}
		// Generic urgency words appear in domain entries too; they never
		// count as a domain trigger on their own.
		for _, p := range e.Phrases {
			if _, ok := c.generic[p]; ok {
				continue
			}
			if strings.Contains(msg, p) {
				domainTriggered = true
				break
			}
		}
	}
	for _, r := range c.lex.CoRules {
		if containsAll(msg, r.All) && (len(r.Any) == 0 || containsAny(msg, r.Any)) {
			score += r.Weight
			domainTriggered = true
		}
	}

	isEmergency := score >= c.threshold
	if c.requireDomain && !domainTriggered {
		isEmergency = false
	}

	if isEmergency {
		return model.Classification{
			UrgencyScore:  score,
			IsEmergency:   true,
			EmergencyType: c.emergencyType(msg),
			Intent:        model.IntentEmergency,
			City:          city,
		}
	}

	return model.Classification{
		UrgencyScore: score,
		Intent:       c.intent(msg),
		City:         city,
	}
}

// emergencyType resolves exactly one type via the lexicon's ordered
// precedence rules. A message triggering several categories still yields a
// deterministic single type.
func (c *Classifier) emergencyType(msg string) model.EmergencyType {
	for _, r := range c.lex.TypeRules {
		if containsAll(msg, r.All) && (len(r.Any) == 0 || containsAny(msg, r.Any)) {
			return r.Type
		}
	}
	return model.GeneralEmergency
}

func (c *Classifier) intent(msg string) model.Intent {
	if msg == "" {
		return model.IntentUnknown
	}
	for _, e := range c.lex.Intents {
		if containsAny(msg, e.Phrases) {
			return e.Intent
		}
	}
	return model.IntentUnknown
}

// Normalize prepares a message for matching: NFC (browser input mixes
// composed and decomposed accents), lowercase, trimmed.
func Normalize(message string) string {
	return strings.ToLower(strings.TrimSpace(norm.NFC.String(message)))
}

func containsAny(msg string, phrases []string) bool {
	for _, p := range phrases {
		if strings.Contains(msg, p) {
			return true
		}
	}
	return false
}

func containsAll(msg string, phrases []string) bool {
	for _, p := range phrases {
		if !strings.Contains(msg, p) {
			return false
		}
	}
	return true
}
