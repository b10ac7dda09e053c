// Package config loads engine configuration from an optional YAML file
// merged with INTAKE_* environment overrides.
package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"
)

// Config holds all intake configuration.
type Config struct {
	Brand     string          `yaml:"brand"`
	LogLevel  string          `yaml:"log_level"`
	Emergency EmergencyConfig `yaml:"emergency"`
	Engine    EngineConfig    `yaml:"engine"`
	Store     StoreConfig     `yaml:"store"`
	Notify    NotifyConfig    `yaml:"notify"`
}

// EmergencyConfig holds the customer-facing escalation constants. These are
// configuration values, never literals in the formatting code.
type EmergencyConfig struct {
	Phone string `yaml:"phone"`
	ETA   string `yaml:"eta"`
}

// EngineConfig holds classifier and flow tuning.
type EngineConfig struct {
	EmergencyThreshold   int            `yaml:"emergency_threshold"`
	RequireDomainTrigger bool           `yaml:"require_domain_trigger"`
	RestartCompleted     bool           `yaml:"restart_completed"`
	DefaultCity          string         `yaml:"default_city"`
	LeadTicketPrefix     string         `yaml:"lead_ticket_prefix"`
	Weights              map[string]int `yaml:"weights"` // per-rule overrides by name
}

// StoreConfig selects and tunes the session store driver.
type StoreConfig struct {
	Driver     string        `yaml:"driver"` // "memory" or "redis"
	RedisAddr  string        `yaml:"redis_addr"`
	SessionTTL time.Duration `yaml:"session_ttl"`
}

// NotifyConfig holds notification sink settings.
type NotifyConfig struct {
	WebhookURL string `yaml:"webhook_url"`
	AuditFile  string `yaml:"audit_file"`
	SiteURL    string `yaml:"site_url"`
	Stdout     bool   `yaml:"stdout"` // print notifications, for development
}

// Load reads the YAML file at path (default "config.yaml" when present),
// applies defaults, then environment overrides. A missing default file is
// not an error; a malformed file is.
func Load(path string) (*Config, error) {
	cfg := &Config{
		Brand:    "IT-ERA",
		LogLevel: "info",
		Emergency: EmergencyConfig{
			Phone: "039 888 2041",
			ETA:   "45 minuti",
		},
		Engine: EngineConfig{
			EmergencyThreshold: 40,
			RestartCompleted:   true,
			DefaultCity:        "Milano",
			LeadTicketPrefix:   "IT",
		},
		Store: StoreConfig{
			Driver:     "memory",
			RedisAddr:  "localhost:6379",
			SessionTTL: 24 * time.Hour,
		},
		Notify: NotifyConfig{
			SiteURL: "https://it-era.it",
		},
	}

	if path == "" {
		if _, err := os.Stat("config.yaml"); err == nil {
			path = "config.yaml"
		}
	}
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("config: %w", err)
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("config: %w", err)
		}
	}

	applyEnv(cfg)
	return cfg, nil
}

func applyEnv(cfg *Config) {
	setString(&cfg.Brand, "INTAKE_BRAND")
	setString(&cfg.LogLevel, "INTAKE_LOG_LEVEL")
	setString(&cfg.Emergency.Phone, "INTAKE_EMERGENCY_PHONE")
	setString(&cfg.Emergency.ETA, "INTAKE_EMERGENCY_ETA")
	setInt(&cfg.Engine.EmergencyThreshold, "INTAKE_EMERGENCY_THRESHOLD")
	setBool(&cfg.Engine.RequireDomainTrigger, "INTAKE_REQUIRE_DOMAIN_TRIGGER")
	setBool(&cfg.Engine.RestartCompleted, "INTAKE_RESTART_COMPLETED")
	setString(&cfg.Engine.DefaultCity, "INTAKE_DEFAULT_CITY")
	setString(&cfg.Engine.LeadTicketPrefix, "INTAKE_LEAD_TICKET_PREFIX")
	setString(&cfg.Store.Driver, "INTAKE_STORE_DRIVER")
	setString(&cfg.Store.RedisAddr, "INTAKE_REDIS_ADDR")
	setDuration(&cfg.Store.SessionTTL, "INTAKE_SESSION_TTL")
	setString(&cfg.Notify.WebhookURL, "INTAKE_WEBHOOK_URL")
	setString(&cfg.Notify.AuditFile, "INTAKE_AUDIT_FILE")
	setString(&cfg.Notify.SiteURL, "INTAKE_SITE_URL")
	setBool(&cfg.Notify.Stdout, "INTAKE_NOTIFY_STDOUT")
}

func setString(dst *string, key string) {
	if v := os.Getenv(key); v != "" {
		*dst = v
	}
}

func setInt(dst *int, key string) {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			*dst = n
		}
	}
}

func setBool(dst *bool, key string) {
	if v := os.Getenv(key); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			*dst = b
		}
	}
}

func setDuration(dst *time.Duration, key string) {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			*dst = d
		}
	}
}
