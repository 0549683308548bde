package command

import (
	"github.com/urfave/cli/v2"
)

// SystemCommand returns the system subcommand group.
func SystemCommand() *cli.Command {
	return &cli.Command{
		Name:    "system",
		Aliases: []string{"sys"},
		Usage:   "Inspect the server",
		Subcommands: []*cli.Command{
			{
				Name:   "health",
				Usage:  "Check server liveness",
				Action: systemEndpoint("/health"),
			},
			{
				Name:   "ready",
				Usage:  "Check server readiness (storage backend included)",
				Action: systemEndpoint("/ready"),
			},
			{
				Name:   "version",
				Usage:  "Show server build information",
				Action: systemEndpoint("/version"),
			},
		},
	}
}

func systemEndpoint(path string) cli.ActionFunc {
	return func(c *cli.Context) error {
		ctx, cancel := requestContext(c)
		defer cancel()

		resp, err := clientFromContext(c).Get(ctx, path)
		if err != nil {
			return err
		}
		return printData(c, resp)
	}
}
