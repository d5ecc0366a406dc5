package main

import (
	"fmt"
	"os"

	"github.com/Prabigyakafle890/Pkonnect-Gemma2b/cmd/pkonnect/commands"
)

var version = "0.1.0"

func main() {
	commands.SetVersion(version)
	if err := commands.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
