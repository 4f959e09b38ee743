package match

import (
	"bytes"
	"context"
	_ "embed"
	"encoding/json"
	"text/template"

	"github.com/m-mizutani/goerr/v2"
	"github.com/m-mizutani/sparkpath/pkg/adapter"
	"github.com/m-mizutani/sparkpath/pkg/model"
	"google.golang.org/genai"
)

//go:embed prompt/traits.md
var traitsPromptRaw string

var traitsPromptTmpl = template.Must(template.New("traits").Funcs(template.FuncMap{
	"last": func(i int, keys []string) bool { return i == len(keys)-1 },
}).Parse(traitsPromptRaw))

const traitsSystemPrompt = `You analyze conversations with young students and extract structured JSON describing their transferable skills, interests, passions, and experience. Return ONLY JSON. No explanations.`

// Extractor turns a session transcript into a TraitRecord via a
// structured-output model call.
type Extractor struct {
	backend adapter.StructuredBackend
}

// NewExtractor creates a trait extractor
func NewExtractor(backend adapter.StructuredBackend) *Extractor {
	return &Extractor{backend: backend}
}

func transcript(history model.ChatHistory) string {
	var buf bytes.Buffer
	for _, turn := range history {
		who := "Assistant"
		if turn.Role == model.RoleUser {
			who = "Student"
		}
		buf.WriteString(who)
		buf.WriteString(": ")
		buf.WriteString(turn.Content)
		buf.WriteString("\n")
	}
	return buf.String()
}

func scoreSchema(keys []string) *genai.Schema {
	props := make(map[string]*genai.Schema, len(keys))
	for _, k := range keys {
		props[k] = &genai.Schema{Type: genai.TypeInteger}
	}
	return &genai.Schema{
		Type:       genai.TypeObject,
		Properties: props,
		Required:   keys,
	}
}

func traitSchema() *genai.Schema {
	return &genai.Schema{
		Type: genai.TypeObject,
		Properties: map[string]*genai.Schema{
			"transferable_skills": scoreSchema(model.SkillKeys),
			"interests":           scoreSchema(model.InterestKeys),
			"passion_signals": {
				Type:  genai.TypeArray,
				Items: &genai.Schema{Type: genai.TypeString},
			},
			"work_experience_summary": {Type: genai.TypeString},
			"vibe_summary":            {Type: genai.TypeString},
		},
		Required: []string{
			"transferable_skills",
			"interests",
			"passion_signals",
			"work_experience_summary",
			"vibe_summary",
		},
	}
}

// Extract sends the transcript to the extraction service and parses the
// response. A response that does not parse as JSON is fatal for the
// request: no retry, no fallback record.
func (e *Extractor) Extract(ctx context.Context, history model.ChatHistory) (*model.TraitRecord, error) {
	var buf bytes.Buffer
	if err := traitsPromptTmpl.Execute(&buf, map[string]any{
		"Transcript":   transcript(history),
		"SkillKeys":    model.SkillKeys,
		"InterestKeys": model.InterestKeys,
	}); err != nil {
		return nil, goerr.Wrap(err, "failed to execute traits prompt template")
	}

	raw, err := e.backend.GenerateJSON(ctx, traitsSystemPrompt, buf.String(), traitSchema())
	if err != nil {
		return nil, goerr.Wrap(err, "failed to extract traits")
	}

	var traits model.TraitRecord
	if err := json.Unmarshal(raw, &traits); err != nil {
		return nil, goerr.Wrap(err, "extraction response is not valid JSON", goerr.Value("json", string(raw)))
	}

	return &traits, nil
}
