package main

import (
	"os"

	"github.com/agentwire/agentwire/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
