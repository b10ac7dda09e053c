// Package cli implements the intake CLI commands.
package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/it-era/intake/internal/config"
	"github.com/it-era/intake/internal/logging"
	"github.com/it-era/intake/pkg/intake"
)

var cfgPath string

// RootCmd is the top-level command.
var RootCmd = &cobra.Command{
	Use:   "intake",
	Short: "Conversational lead intake and emergency escalation",
	Long: "Chat widget backend engine: classifies Italian support messages, " +
		"qualifies leads through a short conversation, and escalates emergencies " +
		"with ticketed, phone-first responses.",
}

func init() {
	RootCmd.PersistentFlags().StringVarP(&cfgPath, "config", "c", "", "Config file path (default: ./config.yaml if present)")
}

func loadConfig() *config.Config {
	cfg, err := config.Load(cfgPath)
	if err != nil {
		exitErr("loading config", err)
	}
	logging.Init(false, logging.ParseLevel(cfg.LogLevel))
	return cfg
}

// newClient assembles an engine client from the loaded configuration.
func newClient(cfg *config.Config) (*intake.Client, error) {
	opts := []intake.Option{
		intake.WithBrand(cfg.Brand),
		intake.WithEmergencyPhone(cfg.Emergency.Phone),
		intake.WithResponseETA(cfg.Emergency.ETA),
		intake.WithSiteURL(cfg.Notify.SiteURL),
		intake.WithDefaultCity(cfg.Engine.DefaultCity),
		intake.WithLeadTicketPrefix(cfg.Engine.LeadTicketPrefix),
		intake.WithEmergencyThreshold(cfg.Engine.EmergencyThreshold),
		intake.WithRestartCompleted(cfg.Engine.RestartCompleted),
		intake.WithWeights(cfg.Engine.Weights),
	}
	if cfg.Engine.RequireDomainTrigger {
		opts = append(opts, intake.WithRequireDomainTrigger())
	}
	if cfg.Store.Driver == "redis" {
		opts = append(opts, intake.WithRedis(cfg.Store.RedisAddr, cfg.Store.SessionTTL))
	}
	if cfg.Notify.WebhookURL != "" {
		opts = append(opts, intake.WithWebhook(cfg.Notify.WebhookURL))
	}
	if cfg.Notify.AuditFile != "" {
		opts = append(opts, intake.WithAuditFile(cfg.Notify.AuditFile))
	}
	if cfg.Notify.Stdout {
		opts = append(opts, intake.WithStdoutNotifications())
	}
	return intake.New(opts...)
}

func exitErr(msg string, err error) {
	fmt.Fprintf(os.Stderr, "error: %s: %v\n", msg, err)
	os.Exit(1)
}
