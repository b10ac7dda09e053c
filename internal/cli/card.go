package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/it-era/intake/internal/model"
	"github.com/it-era/intake/internal/notify"
	"github.com/it-era/intake/internal/notify/webhook"
)

func init() {
	cmd := &cobra.Command{
		Use:   "card",
		Short: "Render a sample escalation card",
		Long:  "Build a sample emergency notification card and print it, or POST it to a webhook to verify channel wiring.",
		Run:   runCard,
	}

	cmd.Flags().String("webhook", "", "POST the card to this incoming-webhook URL instead of printing it")

	RootCmd.AddCommand(cmd)
}

func runCard(cmd *cobra.Command, _ []string) {
	url, _ := cmd.Flags().GetString("webhook")

	cfg := loadConfig()
	formatter := notify.NewFormatter(cfg.Brand, cfg.Emergency.Phone, cfg.Emergency.ETA,
		notify.WithSiteURL(cfg.Notify.SiteURL))

	ticket := &model.Ticket{
		ID:            fmt.Sprintf("CRITICAL-%d", time.Now().UnixMilli()),
		CreatedAt:     time.Now(),
		EmergencyType: model.ServerDown,
		City:          cfg.Engine.DefaultCity,
	}
	cls := &model.Classification{
		UrgencyScore:  65,
		IsEmergency:   true,
		EmergencyType: model.ServerDown,
		Intent:        model.IntentEmergency,
		City:          cfg.Engine.DefaultCity,
	}
	lead := model.Lead{
		Name:     "Test Lead",
		Phone:    "333 1234567",
		Email:    "test@example.com",
		Company:  "Test Srl",
		Location: cfg.Engine.DefaultCity,
	}

	_, n, err := formatter.Format(ticket, cls, lead, "test-session",
		"Messaggio di prova del sistema di notifiche")
	if err != nil {
		exitErr("formatting card", err)
	}

	if url != "" {
		sink := webhook.New(url)
		if err := sink.Notify(context.Background(), n); err != nil {
			exitErr("sending card", err)
		}
		fmt.Println("card sent")
		return
	}

	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	if err := enc.Encode(n.Card); err != nil {
		exitErr("encoding card", err)
	}
}
