package catalog

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/m-mizutani/goerr/v2"
	"github.com/m-mizutani/sparkpath/pkg/adapter"
	"github.com/m-mizutani/sparkpath/pkg/model"
	"github.com/m-mizutani/sparkpath/pkg/utils/logging"
	"gopkg.in/yaml.v3"
)

// SourceCareer is one career of the offline catalog source file
type SourceCareer struct {
	Name        string `json:"name" yaml:"name"`
	Category    string `json:"category" yaml:"category"`
	Description string `json:"description" yaml:"description"`
}

// Source is the catalog source file shape
type Source struct {
	Careers []SourceCareer `json:"careers" yaml:"careers"`
}

// LoadSource reads a career source file. YAML and JSON are accepted,
// chosen by file extension.
func LoadSource(path string) (*Source, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to read career source", goerr.V("path", path))
	}

	var src Source
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(data, &src); err != nil {
			return nil, goerr.Wrap(err, "failed to parse career source YAML", goerr.V("path", path))
		}
	default:
		if err := json.Unmarshal(data, &src); err != nil {
			return nil, goerr.Wrap(err, "failed to parse career source JSON", goerr.V("path", path))
		}
	}

	if len(src.Careers) == 0 {
		return nil, goerr.New("career source has no careers", goerr.V("path", path))
	}

	return &src, nil
}

// Builder produces the embedding artifact from a career source. This is
// the offline batch path: one embedding call per entry.
type Builder struct {
	embedder adapter.Embedder
}

// NewBuilder creates a catalog builder
func NewBuilder(embedder adapter.Embedder) *Builder {
	return &Builder{embedder: embedder}
}

// EmbeddingText is the text embedded for a catalog entry
func EmbeddingText(c SourceCareer) string {
	return fmt.Sprintf("%s. %s. Category: %s", c.Name, c.Description, c.Category)
}

// Build embeds every source career and returns the catalog in source order
func (b *Builder) Build(ctx context.Context, src *Source) (*Catalog, error) {
	logger := logging.From(ctx)

	entries := make([]*model.CareerEntry, 0, len(src.Careers))
	for _, c := range src.Careers {
		logger.Info("embedding career", "career", c.Name)

		vec, err := b.embedder.Embed(ctx, EmbeddingText(c))
		if err != nil {
			return nil, goerr.Wrap(err, "failed to embed career", goerr.V("career", c.Name))
		}

		entries = append(entries, &model.CareerEntry{
			Label:       c.Name,
			Description: c.Description,
			Category:    c.Category,
			Embedding:   vec,
		})
	}

	return New(entries), nil
}
