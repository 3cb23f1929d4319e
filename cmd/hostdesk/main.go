package main

import (
	"os"

	"github.com/timrodina/hostdesk/internal/cli"
)

func main() {
	if err := cli.Execute(); err != nil {
		os.Exit(1)
	}
}
