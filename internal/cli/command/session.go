package command

import (
	"fmt"
	"net/url"

	"github.com/urfave/cli/v2"
)

// SessionCommand returns the session token subcommand group.
func SessionCommand() *cli.Command {
	return &cli.Command{
		Name:    "session",
		Aliases: []string{"sess"},
		Usage:   "Manage session tokens",
		Subcommands: []*cli.Command{
			{
				Name:  "create",
				Usage: "Open a new flow session",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:     "name",
						Aliases:  []string{"n"},
						Usage:    "Flow name (e.g. login, captcha)",
						Required: true,
					},
					&cli.StringFlag{
						Name:  "max-age",
						Usage: "Session lifetime (e.g. 5m, or milliseconds)",
					},
				},
				Action: sessionCreate,
			},
			{
				Name:      "get",
				Usage:     "Show a session token's record",
				ArgsUsage: "TOKEN",
				Action:    sessionGet,
			},
			{
				Name:      "delete",
				Usage:     "End a flow session",
				ArgsUsage: "TOKEN",
				Action:    sessionDelete,
			},
		},
	}
}

func sessionCreate(c *cli.Context) error {
	ctx, cancel := requestContext(c)
	defer cancel()

	body := map[string]any{"session_name": c.String("name")}
	if maxAge := c.String("max-age"); maxAge != "" {
		body["max_age"] = maxAge
	}

	resp, err := clientFromContext(c).Post(ctx, "/v1/session-tokens", body)
	if err != nil {
		return err
	}
	return printData(c, resp)
}

// sessionPath addresses the current-session endpoints with the token
// in the query string, one of the carriers the server accepts.
func sessionPath(token string) string {
	query := url.Values{"session_token": {token}}
	return "/v1/session-tokens/current?" + query.Encode()
}

func sessionGet(c *cli.Context) error {
	if c.NArg() != 1 {
		return fmt.Errorf("expected exactly one TOKEN argument")
	}

	ctx, cancel := requestContext(c)
	defer cancel()

	resp, err := clientFromContext(c).Get(ctx, sessionPath(c.Args().First()))
	if err != nil {
		return err
	}
	return printData(c, resp)
}

func sessionDelete(c *cli.Context) error {
	if c.NArg() != 1 {
		return fmt.Errorf("expected exactly one TOKEN argument")
	}

	ctx, cancel := requestContext(c)
	defer cancel()

	resp, err := clientFromContext(c).Delete(ctx, sessionPath(c.Args().First()))
	if err != nil {
		return err
	}
	return printData(c, resp)
}
