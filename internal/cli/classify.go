package cli

import (
	"encoding/json"
	"os"
	"strings"

	"github.com/spf13/cobra"
)

func init() {
	cmd := &cobra.Command{
		Use:   "classify [message]",
		Short: "Classify a single message",
		Long:  "Score a message against the emergency lexicon and print the result as JSON.",
		Args:  cobra.MinimumNArgs(1),
		Run:   runClassify,
	}

	cmd.Flags().StringP("location", "l", "", "Declared city (defaults to the configured city)")

	RootCmd.AddCommand(cmd)
}

func runClassify(cmd *cobra.Command, args []string) {
	location, _ := cmd.Flags().GetString("location")

	client, err := newClient(loadConfig())
	if err != nil {
		exitErr("creating engine", err)
	}
	defer client.Close()

	result := client.Classify(strings.Join(args, " "), location)

	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	if err := enc.Encode(result); err != nil {
		exitErr("encoding result", err)
	}
}
