package main

import (
	"os"

	"github.com/yungbote/payerdesk/cmd/payerctl/commands"
)

func main() {
	if err := commands.Execute(); err != nil {
		os.Exit(1)
	}
}
