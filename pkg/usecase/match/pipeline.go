package match

import (
	"context"
	"encoding/json"
	"io"
	"strings"

	"github.com/m-mizutani/goerr/v2"
	"github.com/m-mizutani/sparkpath/pkg/adapter"
	"github.com/m-mizutani/sparkpath/pkg/catalog"
	"github.com/m-mizutani/sparkpath/pkg/model"
	"github.com/m-mizutani/sparkpath/pkg/repository"
	"github.com/m-mizutani/sparkpath/pkg/utils/logging"
)

// TraitExtractor is the extraction stage of the pipeline. Extractor is
// the production implementation; tests inject fakes.
type TraitExtractor interface {
	Extract(ctx context.Context, history model.ChatHistory) (*model.TraitRecord, error)
}

// Pipeline runs the full trait-to-match flow once per completed session:
// extract, embed, rank, classify, report. Every external call is blocking
// and unretried; any failure aborts the run.
type Pipeline struct {
	extractor TraitExtractor
	embedder  adapter.Embedder
	catalog   *catalog.Catalog
	repo      repository.Repository
	storage   adapter.Storage
}

// NewInput contains dependencies for the matching pipeline. Repo and
// Storage are optional; without them results are only returned, not
// persisted.
type NewInput struct {
	Extractor TraitExtractor
	Embedder  adapter.Embedder
	Catalog   *catalog.Catalog
	Repo      repository.Repository
	Storage   adapter.Storage
}

func New(input NewInput) (*Pipeline, error) {
	if input.Extractor == nil {
		return nil, goerr.New("extractor is required")
	}
	if input.Embedder == nil {
		return nil, goerr.New("embedder is required")
	}
	if input.Catalog == nil {
		return nil, goerr.New("catalog is required")
	}
	if input.Catalog.Len() < 3 {
		return nil, goerr.New("catalog must hold at least 3 careers", goerr.V("entries", input.Catalog.Len()))
	}

	return &Pipeline{
		extractor: input.Extractor,
		embedder:  input.Embedder,
		catalog:   input.Catalog,
		repo:      input.Repo,
		storage:   input.Storage,
	}, nil
}

// embeddingText builds the text blob embedded for career matching:
// interest scores, skill scores, passion signals, then the raw user text.
func embeddingText(traits *model.TraitRecord, userText string) (string, error) {
	interests, err := json.Marshal(traits.Interests)
	if err != nil {
		return "", goerr.Wrap(err, "failed to marshal interests")
	}
	skills, err := json.Marshal(traits.TransferableSkills)
	if err != nil {
		return "", goerr.Wrap(err, "failed to marshal skills")
	}

	parts := []string{
		string(interests),
		string(skills),
		strings.Join(traits.PassionSignals, " "),
		userText,
	}
	return strings.Join(parts, " "), nil
}

// Run executes the pipeline over a finished session transcript
func (p *Pipeline) Run(ctx context.Context, userID model.UserID, history model.ChatHistory) (*model.SessionResult, error) {
	logger := logging.From(ctx)
	userText := history.UserText()

	logger.Info("extracting traits")
	traitChat := model.ChatHistory{
		{Role: model.RoleAssistant, Content: "You are Spark, an entertainment career coach."},
		{Role: model.RoleUser, Content: userText},
	}
	traits, err := p.extractor.Extract(ctx, traitChat)
	if err != nil {
		return nil, err
	}

	blob, err := embeddingText(traits, userText)
	if err != nil {
		return nil, err
	}

	logger.Info("generating embedding")
	emb, err := p.embedder.Embed(ctx, blob)
	if err != nil {
		return nil, err
	}

	logger.Info("matching careers")
	matches, err := Rank(ctx, emb, p.catalog)
	if err != nil {
		return nil, err
	}

	persona := Classify(traits, userText)

	report, err := BuildReport(traits, matches)
	if err != nil {
		return nil, err
	}

	result := &model.SessionResult{
		Traits:  traits,
		Matches: matches,
		Persona: persona,
		Report:  report,
	}

	if err := p.persist(ctx, userID, history, result); err != nil {
		return nil, err
	}

	return result, nil
}

func (p *Pipeline) persist(ctx context.Context, userID model.UserID, history model.ChatHistory, result *model.SessionResult) error {
	if userID == "" {
		return nil
	}

	if p.repo != nil {
		err := p.repo.UpdateUser(ctx, userID, map[string]any{
			"answers": history,
			"traits":  result.Traits,
			"persona": result.Persona,
			"matches": result.Matches,
		})
		if err != nil {
			return err
		}
	}

	if p.storage != nil {
		if err := p.archive(ctx, reportKey(userID), []byte(result.Report)); err != nil {
			return err
		}

		transcript, err := json.Marshal(history)
		if err != nil {
			return goerr.Wrap(err, "failed to marshal transcript")
		}
		if err := p.archive(ctx, transcriptKey(userID), transcript); err != nil {
			return err
		}
	}

	return nil
}

func reportKey(id model.UserID) string {
	return "sessions/" + string(id) + "/report.txt"
}

func transcriptKey(id model.UserID) string {
	return "sessions/" + string(id) + "/transcript.json"
}

// ArchivedReport loads a previously archived pathway report for a user
func ArchivedReport(ctx context.Context, st adapter.Storage, userID model.UserID) (string, error) {
	r, err := st.Get(ctx, reportKey(userID))
	if err != nil {
		return "", goerr.Wrap(err, "failed to open archived report", goerr.V("user_id", userID))
	}
	defer r.Close()

	data, err := io.ReadAll(r)
	if err != nil {
		return "", goerr.Wrap(err, "failed to read archived report", goerr.V("user_id", userID))
	}

	return string(data), nil
}

func (p *Pipeline) archive(ctx context.Context, key string, data []byte) error {
	w, err := p.storage.Put(ctx, key)
	if err != nil {
		return goerr.Wrap(err, "failed to open archive writer", goerr.V("key", key))
	}

	if _, err := w.Write(data); err != nil {
		_ = w.Close()
		return goerr.Wrap(err, "failed to write archive object", goerr.V("key", key))
	}

	if err := w.Close(); err != nil {
		return goerr.Wrap(err, "failed to close archive writer", goerr.V("key", key))
	}

	return nil
}
