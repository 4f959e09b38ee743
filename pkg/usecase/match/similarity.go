package match

import (
	"context"
	"math"
	"sort"

	"github.com/m-mizutani/goerr/v2"
	"github.com/m-mizutani/sparkpath/pkg/catalog"
	"github.com/m-mizutani/sparkpath/pkg/model"
	"github.com/m-mizutani/sparkpath/pkg/utils/logging"
)

var ErrZeroQueryVector = goerr.New("query vector has zero magnitude")

// cosineSimilarity calculates cosine similarity between two vectors.
// Accumulation is done in float64 to limit rounding drift.
func cosineSimilarity(a, b []float32) float64 {
	if len(a) != len(b) {
		return 0
	}

	var dotProduct, normA, normB float64
	for i := range a {
		dotProduct += float64(a[i]) * float64(b[i])
		normA += float64(a[i]) * float64(a[i])
		normB += float64(b[i]) * float64(b[i])
	}

	if normA == 0 || normB == 0 {
		return 0
	}

	return dotProduct / (math.Sqrt(normA) * math.Sqrt(normB))
}

func isZero(v []float32) bool {
	for _, x := range v {
		if x != 0 {
			return false
		}
	}
	return true
}

// Rank scores every catalog entry against the query vector by cosine
// similarity and returns matches sorted by descending score, rounded to 4
// decimals. Equal scores keep catalog order. A zero-magnitude query vector
// is an error; a zero-magnitude catalog entry is excluded and logged.
func Rank(ctx context.Context, query []float32, cat *catalog.Catalog) (model.MatchResult, error) {
	if len(query) == 0 || isZero(query) {
		return nil, goerr.Wrap(ErrZeroQueryVector, "cannot rank catalog")
	}

	logger := logging.From(ctx)

	matches := make(model.MatchResult, 0, cat.Len())
	for _, entry := range cat.Entries() {
		if len(entry.Embedding) == 0 || isZero(entry.Embedding) {
			logger.Warn("skipping catalog entry with zero embedding", "label", entry.Label)
			continue
		}

		score := cosineSimilarity(query, entry.Embedding)
		matches = append(matches, model.Match{
			Label: entry.Label,
			Score: math.Round(score*10000) / 10000,
		})
	}

	sort.SliceStable(matches, func(i, j int) bool {
		return matches[i].Score > matches[j].Score
	})

	return matches, nil
}
