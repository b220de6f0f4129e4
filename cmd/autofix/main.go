package main

import (
	"os"

	"github.com/vibecheck/autofix/internal/cli"
)

func main() {
	if err := cli.Execute(); err != nil {
		os.Exit(1)
	}
}
