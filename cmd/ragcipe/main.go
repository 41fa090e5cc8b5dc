package main

import (
	"os"

	"github.com/pageza/ragcipe/backend/cmd/ragcipe/commands"
)

func main() {
	if err := commands.Execute(); err != nil {
		os.Exit(1)
	}
}
