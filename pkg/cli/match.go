package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/m-mizutani/goerr/v2"
	"github.com/m-mizutani/sparkpath/pkg/adapter"
	"github.com/m-mizutani/sparkpath/pkg/model"
	"github.com/m-mizutani/sparkpath/pkg/repository"
	"github.com/m-mizutani/sparkpath/pkg/usecase/match"
	"github.com/urfave/cli/v3"
)

func matchCommand() *cli.Command {
	var (
		cfg         config
		catalogPath string
		inputPath   string
		userID      string
	)

	flags := []cli.Flag{
		&cli.StringFlag{
			Name:        "catalog",
			Aliases:     []string{"c"},
			Usage:       "Path to the career embedding artifact",
			Sources:     cli.EnvVars("SPARKPATH_CATALOG"),
			Destination: &catalogPath,
			Required:    true,
		},
		&cli.StringFlag{
			Name:        "input",
			Aliases:     []string{"i"},
			Usage:       "Path to a transcript JSON file",
			Sources:     cli.EnvVars("SPARKPATH_INPUT"),
			Destination: &inputPath,
			Required:    true,
		},
		&cli.StringFlag{
			Name:        "user-id",
			Usage:       "Persist results to this user record",
			Sources:     cli.EnvVars("SPARKPATH_USER_ID"),
			Destination: &userID,
		},
	}
	flags = append(flags, globalFlags(&cfg)...)
	flags = append(flags, llmFlags(&cfg)...)

	return &cli.Command{
		Name:  "match",
		Usage: "Run career matching over a finished transcript",
		Flags: flags,
		Action: func(ctx context.Context, c *cli.Command) error {
			ctx = cfg.setupLogging(ctx)

			history, err := loadTranscript(inputPath)
			if err != nil {
				return err
			}

			gemini, err := cfg.newGemini(ctx)
			if err != nil {
				return err
			}

			cat, err := loadCatalog(catalogPath)
			if err != nil {
				return err
			}

			var (
				repo    repository.Repository
				storage adapter.Storage
			)
			if userID != "" {
				if repo, err = cfg.newRepository(ctx); err != nil {
					return err
				}
				if cfg.bucket != "" {
					if storage, err = cfg.newStorage(ctx); err != nil {
						return err
					}
				}
			}

			pipeline, err := match.New(match.NewInput{
				Extractor: match.NewExtractor(gemini),
				Embedder:  gemini,
				Catalog:   cat,
				Repo:      repo,
				Storage:   storage,
			})
			if err != nil {
				return err
			}

			result, err := pipeline.Run(ctx, model.UserID(userID), history)
			if err != nil {
				return goerr.Wrap(err, "failed to run matching pipeline")
			}

			fmt.Fprintf(c.Root().Writer, "%s\n", result.Report)
			fmt.Fprintf(c.Root().Writer, "Persona: %s\n", result.Persona.Name)
			return nil
		},
	}
}

// loadTranscript reads a transcript JSON file: an array of turns with
// role and content fields.
func loadTranscript(path string) (model.ChatHistory, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to read transcript", goerr.Value("path", path))
	}

	var history model.ChatHistory
	if err := json.Unmarshal(data, &history); err != nil {
		return nil, goerr.Wrap(err, "failed to parse transcript JSON", goerr.Value("path", path))
	}
	if len(history) == 0 {
		return nil, goerr.New("transcript is empty", goerr.Value("path", path))
	}

	for _, turn := range history {
		if err := turn.Role.Validate(); err != nil {
			return nil, goerr.Wrap(err, "invalid transcript turn", goerr.Value("content", turn.Content))
		}
	}

	return history, nil
}
