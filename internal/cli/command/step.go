package command

import (
	"fmt"

	"github.com/urfave/cli/v2"
)

// StepCommand returns the step token subcommand group.
func StepCommand() *cli.Command {
	return &cli.Command{
		Name:  "step",
		Usage: "Manage step tokens",
		Subcommands: []*cli.Command{
			{
				Name:  "create",
				Usage: "Open a new multi-step workflow",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:     "name",
						Aliases:  []string{"n"},
						Usage:    "Flow name (e.g. resetPassword)",
						Required: true,
					},
					&cli.StringSliceFlag{
						Name:     "step",
						Usage:    "Workflow steps in order (repeatable)",
						Required: true,
					},
					&cli.StringFlag{
						Name:  "max-age",
						Usage: "Workflow lifetime (e.g. 5m, or milliseconds)",
					},
				},
				Action: stepCreate,
			},
			{
				Name:      "get",
				Usage:     "Show a step token's record",
				ArgsUsage: "TOKEN",
				Action:    stepGet,
			},
			{
				Name:      "advance",
				Usage:     "Consume the current step",
				ArgsUsage: "TOKEN",
				Action:    stepAdvance,
			},
			{
				Name:      "delete",
				Usage:     "Abandon a workflow",
				ArgsUsage: "TOKEN",
				Action:    stepDelete,
			},
		},
	}
}

func stepCreate(c *cli.Context) error {
	ctx, cancel := requestContext(c)
	defer cancel()

	body := map[string]any{
		"session_name": c.String("name"),
		"steps":        c.StringSlice("step"),
	}
	if maxAge := c.String("max-age"); maxAge != "" {
		body["max_age"] = maxAge
	}

	resp, err := clientFromContext(c).Post(ctx, "/v1/step-tokens", body)
	if err != nil {
		return err
	}
	return printData(c, resp)
}

func requireTokenArg(c *cli.Context) (string, error) {
	if c.NArg() != 1 {
		return "", fmt.Errorf("expected exactly one TOKEN argument")
	}
	return c.Args().First(), nil
}

func stepGet(c *cli.Context) error {
	token, err := requireTokenArg(c)
	if err != nil {
		return err
	}

	ctx, cancel := requestContext(c)
	defer cancel()

	resp, err := clientFromContext(c).Get(ctx, "/v1/step-tokens/"+token)
	if err != nil {
		return err
	}
	return printData(c, resp)
}

func stepAdvance(c *cli.Context) error {
	token, err := requireTokenArg(c)
	if err != nil {
		return err
	}

	ctx, cancel := requestContext(c)
	defer cancel()

	resp, err := clientFromContext(c).Post(ctx, "/v1/step-tokens/"+token+"/advance", nil)
	if err != nil {
		return err
	}
	return printData(c, resp)
}

func stepDelete(c *cli.Context) error {
	token, err := requireTokenArg(c)
	if err != nil {
		return err
	}

	ctx, cancel := requestContext(c)
	defer cancel()

	resp, err := clientFromContext(c).Delete(ctx, "/v1/step-tokens/"+token)
	if err != nil {
		return err
	}
	return printData(c, resp)
}
