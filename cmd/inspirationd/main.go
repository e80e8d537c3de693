// Package main is the entry point for the inspiration CLI.
//
// Usage:
//
//	inspirationd [flags] <command> [args]
//
// Commands:
//
//	serve      - Run the WebSocket analysis service
//	analyze    - Analyze video files from the command line
//	version    - Show version information
package main

import (
	"fmt"
	"os"

	"github.com/talkgenius/inspiration/cmd/inspirationd/commands"
)

func main() {
	if err := commands.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
