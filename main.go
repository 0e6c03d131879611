package main

import (
	"os"

	"github.com/snapview/memsnap/commands"
)

func main() {
	if err := commands.Execute(); err != nil {
		os.Exit(1)
	}
}
