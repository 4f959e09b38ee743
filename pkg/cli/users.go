package cli

import (
	"context"
	"fmt"

	"github.com/urfave/cli/v3"
)

func usersCommand() *cli.Command {
	var (
		cfg   config
		limit int64
	)

	flags := []cli.Flag{
		&cli.IntFlag{
			Name:        "limit",
			Aliases:     []string{"n"},
			Usage:       "Maximum number of users to list",
			Value:       20,
			Destination: &limit,
		},
	}
	flags = append(flags, globalFlags(&cfg)...)

	return &cli.Command{
		Name:  "users",
		Usage: "List recent user records",
		Flags: flags,
		Action: func(ctx context.Context, c *cli.Command) error {
			ctx = cfg.setupLogging(ctx)

			repo, err := cfg.newRepository(ctx)
			if err != nil {
				return err
			}

			records, err := repo.ListUsers(ctx, int(limit))
			if err != nil {
				return err
			}

			w := c.Root().Writer
			for _, r := range records {
				persona := "-"
				if r.Persona != nil {
					persona = r.Persona.Name
				}

				top := "-"
				if len(r.Matches) > 0 {
					top = r.Matches[0].Label
				}

				fmt.Fprintf(w, "%s  %s  persona=%s  top=%s  saved=%d\n",
					r.ID, r.CreatedAt.Format("2006-01-02 15:04"), persona, top, len(r.SavedCareers))
			}
			fmt.Fprintf(w, "Total: %d users\n", len(records))
			return nil
		},
	}
}
