package match_test

import (
	"context"
	"testing"

	"github.com/m-mizutani/gt"
	"github.com/m-mizutani/sparkpath/pkg/model"
	"github.com/m-mizutani/sparkpath/pkg/usecase/match"
	"google.golang.org/genai"
)

type fakeStructuredBackend struct {
	response []byte
	err      error

	gotSystem string
	gotPrompt string
	gotSchema *genai.Schema
}

func (f *fakeStructuredBackend) GenerateJSON(ctx context.Context, systemPrompt, prompt string, schema *genai.Schema) ([]byte, error) {
	f.gotSystem = systemPrompt
	f.gotPrompt = prompt
	f.gotSchema = schema
	return f.response, f.err
}

const extractedJSON = `{
  "transferable_skills": {"communication": 3, "customer_service": 2},
  "interests": {"video": 1},
  "passion_signals": ["helping people"],
  "work_experience_summary": "Cashier at a grocery store.",
  "vibe_summary": "Warm and people-oriented."
}`

func TestExtract(t *testing.T) {
	backend := &fakeStructuredBackend{response: []byte(extractedJSON)}
	extractor := match.NewExtractor(backend)

	history := model.ChatHistory{
		{Role: model.RoleAssistant, Content: "Tell me something you're good at or a job you had."},
		{Role: model.RoleUser, Content: "I worked at Publix as a cashier and helped customers every day."},
	}

	traits, err := extractor.Extract(context.Background(), history)
	gt.NoError(t, err)
	gt.Equal(t, traits.TransferableSkills["communication"], 3)
	gt.Equal(t, traits.Interests["video"], 1)
	gt.A(t, traits.PassionSignals).Length(1)
	gt.Equal(t, traits.WorkExperienceSummary, "Cashier at a grocery store.")

	// Transcript lines are labeled by role
	gt.S(t, backend.gotPrompt).Contains("Assistant: Tell me something you're good at or a job you had.")
	gt.S(t, backend.gotPrompt).Contains("Student: I worked at Publix as a cashier and helped customers every day.")
	gt.S(t, backend.gotPrompt).Contains("Return JSON ONLY.")
	gt.S(t, backend.gotSystem).Contains("Return ONLY JSON")
}

func TestExtractSchemaEnumeratesKeys(t *testing.T) {
	backend := &fakeStructuredBackend{response: []byte(extractedJSON)}
	extractor := match.NewExtractor(backend)

	_, err := extractor.Extract(context.Background(), model.ChatHistory{
		{Role: model.RoleUser, Content: "hello"},
	})
	gt.NoError(t, err)

	gt.V(t, backend.gotSchema).NotNil()
	skills := backend.gotSchema.Properties["transferable_skills"]
	gt.V(t, skills).NotNil()
	gt.Equal(t, len(skills.Properties), len(model.SkillKeys))

	interests := backend.gotSchema.Properties["interests"]
	gt.V(t, interests).NotNil()
	gt.Equal(t, len(interests.Properties), len(model.InterestKeys))
}

func TestExtractInvalidJSONIsFatal(t *testing.T) {
	backend := &fakeStructuredBackend{response: []byte("sorry, here is a summary instead")}
	extractor := match.NewExtractor(backend)

	_, err := extractor.Extract(context.Background(), model.ChatHistory{
		{Role: model.RoleUser, Content: "hello"},
	})
	gt.Error(t, err)
	gt.S(t, err.Error()).Contains("not valid JSON")
}
