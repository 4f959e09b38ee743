package match

import (
	"bytes"
	_ "embed"
	"encoding/json"
	"sort"
	"strconv"
	"text/template"

	"github.com/m-mizutani/goerr/v2"
	"github.com/m-mizutani/sparkpath/pkg/model"
)

//go:embed prompt/report.md
var reportTmplRaw string

var reportTmpl = template.Must(template.New("report").Funcs(template.FuncMap{
	"score": func(f float64) string { return strconv.FormatFloat(f, 'f', 4, 64) },
}).Parse(reportTmplRaw))

var ErrTooFewMatches = goerr.New("report requires at least 3 matches")

// formatScores renders a score map as indented key-value text. Canonical
// keys come first in their schema order, anything else follows sorted, so
// the output is deterministic regardless of map iteration.
func formatScores(canonical []string, scores map[string]int) string {
	var buf bytes.Buffer
	buf.WriteString("{\n")

	keys := make([]string, 0, len(scores))
	seen := map[string]bool{}
	for _, k := range canonical {
		if _, ok := scores[k]; ok {
			keys = append(keys, k)
			seen[k] = true
		}
	}
	extras := make([]string, 0)
	for k := range scores {
		if !seen[k] {
			extras = append(extras, k)
		}
	}
	sort.Strings(extras)
	keys = append(keys, extras...)

	for i, k := range keys {
		buf.WriteString("  \"" + k + "\": " + strconv.Itoa(scores[k]))
		if i < len(keys)-1 {
			buf.WriteString(",")
		}
		buf.WriteString("\n")
	}

	buf.WriteString("}")
	return buf.String()
}

// BuildReport renders the pathway report for extracted traits and ranked
// matches. The ranking must hold at least 3 entries.
func BuildReport(traits *model.TraitRecord, matches model.MatchResult) (string, error) {
	if len(matches) < 3 {
		return "", goerr.Wrap(ErrTooFewMatches, "cannot build report", goerr.V("matches", len(matches)))
	}

	passions, err := json.Marshal(traits.PassionSignals)
	if err != nil {
		return "", goerr.Wrap(err, "failed to marshal passion signals")
	}

	var buf bytes.Buffer
	if err := reportTmpl.Execute(&buf, map[string]any{
		"Matches":   matches,
		"Traits":    traits,
		"Skills":    formatScores(model.SkillKeys, traits.TransferableSkills),
		"Interests": formatScores(model.InterestKeys, traits.Interests),
		"Passions":  string(passions),
	}); err != nil {
		return "", goerr.Wrap(err, "failed to execute report template")
	}

	return buf.String(), nil
}
