package cli

import (
	"context"
	"fmt"

	"github.com/m-mizutani/sparkpath/pkg/model"
	"github.com/m-mizutani/sparkpath/pkg/usecase/match"
	"github.com/urfave/cli/v3"
)

func reportCommand() *cli.Command {
	var (
		cfg    config
		userID string
	)

	flags := []cli.Flag{
		&cli.StringFlag{
			Name:        "user-id",
			Usage:       "User record to fetch the report for",
			Sources:     cli.EnvVars("SPARKPATH_USER_ID"),
			Destination: &userID,
			Required:    true,
		},
	}
	flags = append(flags, globalFlags(&cfg)...)

	return &cli.Command{
		Name:  "report",
		Usage: "Print the archived pathway report of a saved session",
		Flags: flags,
		Action: func(ctx context.Context, c *cli.Command) error {
			ctx = cfg.setupLogging(ctx)

			storage, err := cfg.newStorage(ctx)
			if err != nil {
				return err
			}

			report, err := match.ArchivedReport(ctx, storage, model.UserID(userID))
			if err != nil {
				return err
			}

			fmt.Fprintf(c.Root().Writer, "%s\n", report)
			return nil
		},
	}
}
