// Package command provides the CLI command definitions for
// tokenstore-cli.
//
// It uses urfave/cli/v2 for command parsing. Commands talk to a
// running tokenstore-server over its HTTP API.
package command

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/urfave/cli/v2"

	"github.com/augejs/tokenstore-go/internal/infra/buildinfo"
)

// App creates the CLI application.
func App() *cli.App {
	return &cli.App{
		Name:    "tokenstore-cli",
		Usage:   "Token store command-line management tool",
		Version: buildinfo.String(),
		Flags:   globalFlags(),
		Commands: []*cli.Command{
			AccessCommand(),
			SessionCommand(),
			StepCommand(),
			SystemCommand(),
		},
	}
}

func globalFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:    "server",
			Aliases: []string{"s"},
			Usage:   "Server address (host:port)",
			EnvVars: []string{"TOKENSTORE_SERVER"},
			Value:   "127.0.0.1:6080",
		},
		&cli.StringFlag{
			Name:    "token",
			Aliases: []string{"t"},
			Usage:   "Access token for authenticated commands",
			EnvVars: []string{"TOKENSTORE_TOKEN"},
		},
		&cli.DurationFlag{
			Name:  "timeout",
			Usage: "Request timeout",
			Value: 30 * time.Second,
		},
	}
}

// clientFromContext builds an API client from the global flags.
func clientFromContext(c *cli.Context) *apiClient {
	return newAPIClient(c.String("server"), c.String("token"), c.Duration("timeout"))
}

// requestContext returns a context bounded by the timeout flag.
func requestContext(c *cli.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.Background(), c.Duration("timeout"))
}

// printData pretty-prints the data portion of a response.
func printData(c *cli.Context, resp *apiResponse) error {
	if resp.Data == nil {
		fmt.Fprintln(c.App.Writer, "OK")
		return nil
	}
	out, err := json.MarshalIndent(json.RawMessage(resp.Data), "", "  ")
	if err != nil {
		return err
	}
	fmt.Fprintln(c.App.Writer, string(out))
	return nil
}
