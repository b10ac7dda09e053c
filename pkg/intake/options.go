package intake

import "time"

type options struct {
	brand                string
	phone                string
	eta                  string
	siteURL              string
	defaultCity          string
	leadPrefix           string
	threshold            int
	requireDomainTrigger bool
	restartCompleted     bool
	ticketSuffix         bool
	weights              map[string]int
	redisAddr            string
	sessionTTL           time.Duration
	webhookURL           string
	auditFile            string
	stdoutNotifications  bool
}

// Option configures a Client.
type Option func(*options)

// WithBrand sets the bracketed brand prefix in customer replies. Default: "IT-ERA".
func WithBrand(b string) Option {
	return func(o *options) { o.brand = b }
}

// WithEmergencyPhone sets the H24 emergency number embedded in replies and cards.
func WithEmergencyPhone(p string) Option {
	return func(o *options) { o.phone = p }
}

// WithResponseETA sets the intervention ETA string in emergency replies.
func WithResponseETA(eta string) Option {
	return func(o *options) { o.eta = eta }
}

// WithSiteURL sets the site link embedded in notification cards.
func WithSiteURL(u string) Option {
	return func(o *options) { o.siteURL = u }
}

// WithDefaultCity sets the fallback city when the caller gives no location.
// Default: "Milano".
func WithDefaultCity(c string) Option {
	return func(o *options) { o.defaultCity = c }
}

// WithLeadTicketPrefix sets the domain code on lead ticket ids. Default: "IT".
func WithLeadTicketPrefix(p string) Option {
	return func(o *options) { o.leadPrefix = p }
}

// WithEmergencyThreshold sets the urgency score at which a message is an
// emergency. Default: 40.
func WithEmergencyThreshold(t int) Option {
	return func(o *options) { o.threshold = t }
}

// WithRequireDomainTrigger prevents generic urgency words alone from
// crossing the emergency threshold. Default: off (historical behavior).
func WithRequireDomainTrigger() Option {
	return func(o *options) { o.requireDomainTrigger = true }
}

// WithRestartCompleted controls whether messages in a completed session
// start a new conversation. Default: true.
func WithRestartCompleted(restart bool) Option {
	return func(o *options) { o.restartCompleted = restart }
}

// WithTicketSuffix appends a random suffix to ticket ids for strict
// uniqueness across processes.
func WithTicketSuffix() Option {
	return func(o *options) { o.ticketSuffix = true }
}

// WithWeights overrides lexicon rule weights by rule name.
func WithWeights(w map[string]int) Option {
	return func(o *options) { o.weights = w }
}

// WithRedis stores sessions in Redis instead of process memory.
func WithRedis(addr string, ttl time.Duration) Option {
	return func(o *options) {
		o.redisAddr = addr
		o.sessionTTL = ttl
	}
}

// WithWebhook delivers escalation cards to an incoming-webhook URL.
func WithWebhook(url string) Option {
	return func(o *options) { o.webhookURL = url }
}

// WithAuditFile appends escalation notifications to a JSON-lines file.
func WithAuditFile(path string) Option {
	return func(o *options) { o.auditFile = path }
}

// WithStdoutNotifications prints escalation notifications to stdout. Meant
// for development and the CLI, not production channels.
func WithStdoutNotifications() Option {
	return func(o *options) { o.stdoutNotifications = true }
}

func defaultOptions() options {
	return options{
		brand:            "IT-ERA",
		phone:            "039 888 2041",
		eta:              "45 minuti",
		defaultCity:      "Milano",
		leadPrefix:       "IT",
		threshold:        40,
		restartCompleted: true,
		sessionTTL:       24 * time.Hour,
	}
}
