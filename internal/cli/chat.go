package cli

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/it-era/intake/pkg/intake"
)

func init() {
	cmd := &cobra.Command{
		Use:   "chat",
		Short: "Interactive conversation loop",
		Long:  "Run the intake conversation against stdin. Type a message per line; Ctrl-D ends the session.",
		Run:   runChat,
	}

	cmd.Flags().StringP("location", "l", "", "Declared city for the whole session")

	RootCmd.AddCommand(cmd)
}

func runChat(cmd *cobra.Command, _ []string) {
	location, _ := cmd.Flags().GetString("location")

	client, err := newClient(loadConfig())
	if err != nil {
		exitErr("creating engine", err)
	}
	defer client.Close()

	fmt.Println("intake chat: scrivi un messaggio (Ctrl-D per uscire)")

	var sessionID string
	scanner := bufio.NewScanner(os.Stdin)
	for {
		fmt.Print("> ")
		if !scanner.Scan() {
			break
		}

		reply, err := client.HandleMessage(context.Background(), sessionID, scanner.Text(), location)
		if errors.Is(err, intake.ErrEmptyMessage) {
			continue
		}
		if err != nil {
			exitErr("handling message", err)
		}
		sessionID = reply.SessionID

		fmt.Println(reply.Text)
		if len(reply.Options) > 0 {
			fmt.Printf("  [%s]\n", strings.Join(reply.Options, " | "))
		}
		if reply.TicketID != "" {
			fmt.Printf("  (ticket %s, priorità %s)\n", reply.TicketID, reply.Priority)
		}
	}
}
