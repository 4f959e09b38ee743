package cli

import (
	"context"
	"fmt"

	"github.com/m-mizutani/sparkpath/pkg/catalog"
	"github.com/urfave/cli/v3"
)

func catalogCommand() *cli.Command {
	return &cli.Command{
		Name:  "catalog",
		Usage: "Manage the career embedding artifact",
		Commands: []*cli.Command{
			catalogBuildCommand(),
			catalogShowCommand(),
		},
	}
}

func catalogBuildCommand() *cli.Command {
	var (
		cfg        config
		sourcePath string
		outputPath string
	)

	flags := []cli.Flag{
		&cli.StringFlag{
			Name:        "source",
			Aliases:     []string{"s"},
			Usage:       "Path to the career source file (YAML or JSON)",
			Sources:     cli.EnvVars("SPARKPATH_CAREER_SOURCE"),
			Destination: &sourcePath,
			Required:    true,
		},
		&cli.StringFlag{
			Name:        "output",
			Aliases:     []string{"o"},
			Usage:       "Path to write the embedding artifact",
			Value:       "catalog.json",
			Sources:     cli.EnvVars("SPARKPATH_CATALOG"),
			Destination: &outputPath,
		},
	}
	flags = append(flags, globalFlags(&cfg)...)
	flags = append(flags, llmFlags(&cfg)...)

	return &cli.Command{
		Name:  "build",
		Usage: "Embed every source career and write the artifact",
		Flags: flags,
		Action: func(ctx context.Context, c *cli.Command) error {
			ctx = cfg.setupLogging(ctx)

			src, err := catalog.LoadSource(sourcePath)
			if err != nil {
				return err
			}

			gemini, err := cfg.newGemini(ctx)
			if err != nil {
				return err
			}

			cat, err := catalog.NewBuilder(gemini).Build(ctx, src)
			if err != nil {
				return err
			}

			if err := cat.Save(outputPath); err != nil {
				return err
			}

			fmt.Fprintf(c.Root().Writer, "Catalog written: %s (%d careers)\n", outputPath, cat.Len())
			return nil
		},
	}
}

func catalogShowCommand() *cli.Command {
	var catalogPath string

	return &cli.Command{
		Name:  "show",
		Usage: "List artifact entries in catalog order",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:        "catalog",
				Aliases:     []string{"c"},
				Usage:       "Path to the career embedding artifact",
				Sources:     cli.EnvVars("SPARKPATH_CATALOG"),
				Destination: &catalogPath,
				Required:    true,
			},
		},
		Action: func(ctx context.Context, c *cli.Command) error {
			cat, err := loadCatalog(catalogPath)
			if err != nil {
				return err
			}

			w := c.Root().Writer
			for i, e := range cat.Entries() {
				fmt.Fprintf(w, "%3d. %s [%s] (dim %d)\n", i+1, e.Label, e.Category, len(e.Embedding))
			}
			fmt.Fprintf(w, "Total: %d careers\n", cat.Len())
			return nil
		},
	}
}
