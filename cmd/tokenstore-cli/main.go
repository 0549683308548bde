// Package main provides the entry point for tokenstore-cli.
//
// tokenstore-cli is the command-line management tool for the token
// store server.
package main

import (
	"fmt"
	"os"

	"github.com/augejs/tokenstore-go/internal/cli/command"
)

func main() {
	if err := command.App().Run(os.Args); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}
