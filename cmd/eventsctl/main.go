package main

import (
	"os"

	"github.com/Mubashir-4041/event-compliance-monitor/cmd/eventsctl/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
