package main

import (
	"os"

	"github.com/nadlan-crm/brokerctl/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
