package command

import (
	"fmt"
	"net/url"

	"github.com/urfave/cli/v2"
)

// AccessCommand returns the access token subcommand group.
func AccessCommand() *cli.Command {
	return &cli.Command{
		Name:  "access",
		Usage: "Manage access tokens",
		Subcommands: []*cli.Command{
			{
				Name:  "create",
				Usage: "Issue a new access token",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:     "user-id",
						Aliases:  []string{"u"},
						Usage:    "User the token belongs to",
						Required: true,
					},
					&cli.StringFlag{
						Name:  "max-age",
						Usage: "Token lifetime (e.g. 20m, 2h, or milliseconds)",
					},
				},
				Action: accessCreate,
			},
			{
				Name:   "current",
				Usage:  "Show the token the --token flag carries",
				Action: accessCurrent,
			},
			{
				Name:  "list",
				Usage: "List the user's other tokens",
				Flags: []cli.Flag{
					&cli.BoolFlag{
						Name:  "include-current",
						Usage: "Include the caller's own token",
					},
					&cli.IntFlag{
						Name:  "skip",
						Usage: "Skip the first N tokens",
					},
					&cli.IntFlag{
						Name:  "limit",
						Usage: "Return at most N tokens (0 = all)",
					},
				},
				Action: accessList,
			},
			{
				Name:      "revoke",
				Usage:     "Flag another token of the same user as revoked",
				ArgsUsage: "TOKEN",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:    "message",
						Aliases: []string{"m"},
						Usage:   "Message delivered to the revoked bearer",
					},
				},
				Action: accessRevoke,
			},
			{
				Name:   "logout",
				Usage:  "Delete the token the --token flag carries",
				Action: accessLogout,
			},
		},
	}
}

func accessCreate(c *cli.Context) error {
	ctx, cancel := requestContext(c)
	defer cancel()

	body := map[string]any{"user_id": c.String("user-id")}
	if maxAge := c.String("max-age"); maxAge != "" {
		body["max_age"] = maxAge
	}

	resp, err := clientFromContext(c).Post(ctx, "/v1/access-tokens", body)
	if err != nil {
		return err
	}
	return printData(c, resp)
}

func accessCurrent(c *cli.Context) error {
	ctx, cancel := requestContext(c)
	defer cancel()

	resp, err := clientFromContext(c).Get(ctx, "/v1/access-tokens/current")
	if err != nil {
		return err
	}
	return printData(c, resp)
}

func accessList(c *cli.Context) error {
	ctx, cancel := requestContext(c)
	defer cancel()

	query := url.Values{}
	if c.Bool("include-current") {
		query.Set("include_current", "true")
	}
	if skip := c.Int("skip"); skip > 0 {
		query.Set("skip", fmt.Sprint(skip))
	}
	if limit := c.Int("limit"); limit > 0 {
		query.Set("limit", fmt.Sprint(limit))
	}

	path := "/v1/access-tokens"
	if len(query) > 0 {
		path += "?" + query.Encode()
	}

	resp, err := clientFromContext(c).Get(ctx, path)
	if err != nil {
		return err
	}
	return printData(c, resp)
}

func accessRevoke(c *cli.Context) error {
	if c.NArg() != 1 {
		return fmt.Errorf("expected exactly one TOKEN argument")
	}

	ctx, cancel := requestContext(c)
	defer cancel()

	body := map[string]any{"token": c.Args().First()}
	if message := c.String("message"); message != "" {
		body["message"] = message
	}

	resp, err := clientFromContext(c).Post(ctx, "/v1/access-tokens/revoke", body)
	if err != nil {
		return err
	}
	return printData(c, resp)
}

func accessLogout(c *cli.Context) error {
	ctx, cancel := requestContext(c)
	defer cancel()

	resp, err := clientFromContext(c).Delete(ctx, "/v1/access-tokens/current")
	if err != nil {
		return err
	}
	return printData(c, resp)
}
