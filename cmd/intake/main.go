package main

import (
	"os"

	"github.com/it-era/intake/internal/cli"
)

func main() {
	if err := cli.RootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
