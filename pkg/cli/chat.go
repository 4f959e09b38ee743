package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/briandowns/spinner"
	"github.com/chzyer/readline"
	"github.com/m-mizutani/goerr/v2"
	"github.com/m-mizutani/sparkpath/pkg/adapter"
	"github.com/m-mizutani/sparkpath/pkg/model"
	"github.com/m-mizutani/sparkpath/pkg/repository"
	"github.com/m-mizutani/sparkpath/pkg/usecase/conversation"
	"github.com/m-mizutani/sparkpath/pkg/usecase/match"
	"github.com/m-mizutani/sparkpath/pkg/utils/logging"
	"github.com/urfave/cli/v3"
)

func chatCommand() *cli.Command {
	var (
		cfg         config
		catalogPath string
		save        bool
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
		&cli.BoolFlag{
			Name:        "save",
			Usage:       "Persist the session to Firestore and Cloud Storage",
			Sources:     cli.EnvVars("SPARKPATH_SAVE"),
			Destination: &save,
		},
	}
	flags = append(flags, globalFlags(&cfg)...)
	flags = append(flags, llmFlags(&cfg)...)

	return &cli.Command{
		Name:  "chat",
		Usage: "Interactive career discovery session",
		Flags: flags,
		Action: func(ctx context.Context, c *cli.Command) error {
			ctx = cfg.setupLogging(ctx)
			ctx = logging.WithSession(ctx, model.NewSessionID())

			gemini, err := cfg.newGemini(ctx)
			if err != nil {
				return err
			}

			cat, err := loadCatalog(catalogPath)
			if err != nil {
				return err
			}

			extractor := match.NewExtractor(gemini)

			var (
				repo    repository.Repository
				storage adapter.Storage
				userID  model.UserID
			)
			if save {
				if repo, err = cfg.newRepository(ctx); err != nil {
					return err
				}
				if storage, err = cfg.newStorage(ctx); err != nil {
					return err
				}

				record, err := repo.CreateUser(ctx)
				if err != nil {
					return goerr.Wrap(err, "failed to create user record")
				}
				userID = record.ID
			}

			driver, err := conversation.New(conversation.NewInput{
				Backend:   gemini,
				Extractor: extractor,
			})
			if err != nil {
				return err
			}

			pipeline, err := match.New(match.NewInput{
				Extractor: extractor,
				Embedder:  gemini,
				Catalog:   cat,
				Repo:      repo,
				Storage:   storage,
			})
			if err != nil {
				return err
			}

			rl, err := newReadline()
			if err != nil {
				return goerr.Wrap(err, "failed to initialize readline")
			}
			defer rl.Close()

			w := c.Root().Writer
			fmt.Fprintf(w, "%s\n\n", driver.Start())

			for driver.Phase() == model.PhaseCollecting {
				message, ok := readInput(rl)
				if !ok {
					fmt.Fprintf(w, "\nSession ended. Come back anytime!\n")
					return nil
				}
				if message == "" {
					continue
				}

				result, err := driver.Turn(ctx, message)
				if err != nil {
					return goerr.Wrap(err, "conversation turn failed")
				}
				fmt.Fprintf(w, "\n%s\n\n", result.Reply)
			}

			result, err := runPipeline(ctx, pipeline, userID, driver.History())
			if err != nil {
				return goerr.Wrap(err, "failed to build report")
			}

			fmt.Fprintf(w, "\n%s\n", result.Report)
			fmt.Fprintf(w, "Your spark persona: %s. %s\n\n", result.Persona.Name, result.Persona.Blurb)

			if save {
				return saveLoop(ctx, rl, w, repo, userID, result.Matches)
			}
			return nil
		},
	}
}

func newReadline() (*readline.Instance, error) {
	homeDir, _ := os.UserHomeDir()

	return readline.NewEx(&readline.Config{
		Prompt:          "> ",
		HistoryFile:     filepath.Join(homeDir, ".sparkpath_history"),
		InterruptPrompt: "^C",
		EOFPrompt:       "exit",
		Stdin:           readline.NewCancelableStdin(os.Stdin),
		Stdout:          os.Stdout,
		Stderr:          os.Stderr,
	})
}

// readInput reads one line. The second return value is false when the
// session should end (EOF, interrupt, or an exit command).
func readInput(rl *readline.Instance) (string, bool) {
	line, err := rl.Readline()
	if err == readline.ErrInterrupt || err == io.EOF {
		return "", false
	}

	line = strings.TrimSpace(line)
	if line == "exit" || line == "quit" {
		return "", false
	}

	return line, true
}

// runPipeline runs the matching pipeline behind a terminal spinner. The
// pipeline makes several blocking model calls, so the wait is visible.
func runPipeline(ctx context.Context, pipeline *match.Pipeline, userID model.UserID, history model.ChatHistory) (*model.SessionResult, error) {
	s := spinner.New(spinner.CharSets[14], 100*time.Millisecond)
	s.Suffix = " finding your spark..."
	s.Writer = os.Stderr
	s.Start()
	defer s.Stop()

	return pipeline.Run(ctx, userID, history)
}

// saveLoop lets the student bookmark ranked careers after the report
func saveLoop(ctx context.Context, rl *readline.Instance, w io.Writer, repo repository.Repository, userID model.UserID, matches model.MatchResult) error {
	fmt.Fprintf(w, "Type 'save <rank>' to bookmark a career, or 'exit' to finish.\n")

	for {
		line, ok := readInput(rl)
		if !ok {
			return nil
		}

		rank, ok := parseSaveCommand(line, len(matches))
		if !ok {
			fmt.Fprintf(w, "Usage: save <1-%d>\n", len(matches))
			continue
		}

		m := matches[rank-1]
		if err := repo.AddSavedCareer(ctx, userID, m.Label, m.Score); err != nil {
			return goerr.Wrap(err, "failed to save career", goerr.Value("career", m.Label))
		}
		fmt.Fprintf(w, "Saved %s ✨\n", m.Label)
	}
}

func parseSaveCommand(line string, max int) (int, bool) {
	rest, ok := strings.CutPrefix(line, "save ")
	if !ok {
		return 0, false
	}

	rank, err := strconv.Atoi(strings.TrimSpace(rest))
	if err != nil || rank < 1 || rank > max {
		return 0, false
	}

	return rank, true
}
