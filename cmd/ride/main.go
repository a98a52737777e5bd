package main

import (
	"os"

	"github.com/ridebird/ride-cli/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
