// Package intake is the public API for the conversational lead-intake and
// emergency-escalation engine.
//
// The engine classifies free-text Italian messages with a deterministic
// weighted-keyword model and drives a short lead-qualification conversation.
// When an emergency is detected it bypasses the normal flow and produces an
// immediate, ticketed, phone-first escalation with a Teams-compatible
// message card.
//
// Basic usage:
//
//	client, err := intake.New()
//	if err != nil {
//		log.Fatal(err)
//	}
//	defer client.Close()
//
//	reply, err := client.HandleMessage(ctx, "", "Il server è down!", "Monza")
package intake
