package conversation_test

import (
	"context"
	"errors"
	"testing"

	"github.com/m-mizutani/gt"
	"github.com/m-mizutani/sparkpath/pkg/model"
	"github.com/m-mizutani/sparkpath/pkg/usecase/conversation"
)

type fakeChatBackend struct {
	replies []string
	calls   int

	gotSystem  string
	gotHistory model.ChatHistory
	err        error
}

func (f *fakeChatBackend) Complete(ctx context.Context, systemPrompt string, history model.ChatHistory) (string, error) {
	f.gotSystem = systemPrompt
	f.gotHistory = append(model.ChatHistory{}, history...)
	if f.err != nil {
		return "", f.err
	}
	reply := f.replies[f.calls%len(f.replies)]
	f.calls++
	return reply, nil
}

type fakeTraitExtractor struct {
	traits *model.TraitRecord
	err    error
	calls  int
}

func (f *fakeTraitExtractor) Extract(ctx context.Context, history model.ChatHistory) (*model.TraitRecord, error) {
	f.calls++
	return f.traits, f.err
}

func TestDriverStart(t *testing.T) {
	backend := &fakeChatBackend{replies: []string{"cool!"}}
	driver, err := conversation.New(conversation.NewInput{Backend: backend})
	gt.NoError(t, err)

	greeting := driver.Start()
	gt.S(t, greeting).Contains("Hey, I'm Spark")

	history := driver.History()
	gt.A(t, history).Length(1)
	gt.Equal(t, history[0].Role, model.RoleAssistant)
	gt.Equal(t, history[0].Content, greeting)
	gt.Equal(t, driver.Phase(), model.PhaseCollecting)
}

func TestDriverTurn(t *testing.T) {
	backend := &fakeChatBackend{replies: []string{"That's awesome! What kind of videos?"}}
	driver, err := conversation.New(conversation.NewInput{Backend: backend})
	gt.NoError(t, err)
	driver.Start()

	result, err := driver.Turn(context.Background(), "I edit videos for fun")
	gt.NoError(t, err)
	gt.Equal(t, result.Reply, "That's awesome! What kind of videos?")
	gt.False(t, result.Ready)
	gt.Equal(t, result.Phase, model.PhaseCollecting)

	// The backend sees the greeting plus the new user message
	gt.A(t, backend.gotHistory).Length(2)
	gt.Equal(t, backend.gotHistory[1].Role, model.RoleUser)
	gt.Equal(t, backend.gotHistory[1].Content, "I edit videos for fun")
	gt.S(t, backend.gotSystem).Contains("Spark")

	// Both turns land in the transcript
	gt.A(t, driver.History()).Length(3)
}

func TestDriverTriggerPhraseEndsCollecting(t *testing.T) {
	testCases := []struct {
		name  string
		reply string
		ready bool
	}{
		{"summarize", "Let me Summarize what I've heard so far.", true},
		{"summary", "Here's a quick summary of your spark!", true},
		{"pull together", "Okay, time to pull this together.", true},
		{"ready question", "Ready? Here we go.", true},
		{"plain reply", "Tell me more about that!", false},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			backend := &fakeChatBackend{replies: []string{tc.reply}}
			driver, err := conversation.New(conversation.NewInput{Backend: backend})
			gt.NoError(t, err)

			result, err := driver.Turn(context.Background(), "I like making beats")
			gt.NoError(t, err)
			if tc.ready {
				gt.True(t, result.Ready)
				gt.Equal(t, result.Phase, model.PhaseReady)
			} else {
				gt.False(t, result.Ready)
				gt.Equal(t, result.Phase, model.PhaseCollecting)
			}
		})
	}
}

func TestDriverReadyIsTerminal(t *testing.T) {
	backend := &fakeChatBackend{replies: []string{"Ready? Let's build your report."}}
	driver, err := conversation.New(conversation.NewInput{Backend: backend})
	gt.NoError(t, err)

	result, err := driver.Turn(context.Background(), "what's next")
	gt.NoError(t, err)
	gt.True(t, result.Ready)

	_, err = driver.Turn(context.Background(), "one more thing")
	gt.Error(t, err)
	gt.True(t, errors.Is(err, model.ErrSessionComplete))
}

func TestDriverCompletenessCheck(t *testing.T) {
	backend := &fakeChatBackend{replies: []string{"Nice, tell me more!"}}
	extractor := &fakeTraitExtractor{traits: &model.TraitRecord{
		Interests:      map[string]int{"video": 2, "music": 1},
		PassionSignals: []string{"editing"},
	}}
	driver, err := conversation.New(conversation.NewInput{
		Backend:   backend,
		Extractor: extractor,
	})
	gt.NoError(t, err)

	// Two positive interests satisfy the completeness heuristic even
	// though the reply carries no trigger phrase.
	result, err := driver.Turn(context.Background(), "I edit videos and play music")
	gt.NoError(t, err)
	gt.True(t, result.Ready)
	gt.Equal(t, extractor.calls, 1)
}

func TestDriverCompletenessNotReached(t *testing.T) {
	backend := &fakeChatBackend{replies: []string{"Nice, tell me more!"}}
	extractor := &fakeTraitExtractor{traits: &model.TraitRecord{
		Interests: map[string]int{"video": 1},
	}}
	driver, err := conversation.New(conversation.NewInput{
		Backend:   backend,
		Extractor: extractor,
	})
	gt.NoError(t, err)

	result, err := driver.Turn(context.Background(), "I kinda like videos")
	gt.NoError(t, err)
	gt.False(t, result.Ready)
}

func TestDriverSkipsCompletenessOnTrigger(t *testing.T) {
	backend := &fakeChatBackend{replies: []string{"Let me summarize!"}}
	extractor := &fakeTraitExtractor{err: errors.New("should not be called")}
	driver, err := conversation.New(conversation.NewInput{
		Backend:   backend,
		Extractor: extractor,
	})
	gt.NoError(t, err)

	result, err := driver.Turn(context.Background(), "ok")
	gt.NoError(t, err)
	gt.True(t, result.Ready)
	gt.Equal(t, extractor.calls, 0)
}

func TestDriverBackendFailure(t *testing.T) {
	backend := &fakeChatBackend{err: errors.New("model unavailable")}
	driver, err := conversation.New(conversation.NewInput{Backend: backend})
	gt.NoError(t, err)

	_, err = driver.Turn(context.Background(), "hello")
	gt.Error(t, err)
	gt.Equal(t, driver.Phase(), model.PhaseCollecting)
}

func TestDriverSeedsProfile(t *testing.T) {
	backend := &fakeChatBackend{replies: []string{"Love that energy!"}}
	driver, err := conversation.New(conversation.NewInput{Backend: backend})
	gt.NoError(t, err)

	result, err := driver.Turn(context.Background(), "I dance and edit videos after school")
	gt.NoError(t, err)

	profile := result.Profile
	gt.V(t, profile).NotNil()
	gt.Equal(t, profile.PersonaSeeds["movement_expression"], 1)
	gt.Equal(t, profile.PersonaSeeds["visual_storytelling"], 1)
	gt.True(t, profile.Mediums.Has("dance"))
	gt.True(t, profile.Mediums.Has("video"))
	gt.True(t, profile.Memory.Mediums.Has("dance"))

	// A second mention of the same medium bumps the seed but not the set
	result, err = driver.Turn(context.Background(), "mostly hip hop dance")
	gt.NoError(t, err)
	gt.Equal(t, result.Profile.PersonaSeeds["movement_expression"], 2)

	count := 0
	for _, m := range result.Profile.Mediums {
		if m == "dance" {
			count++
		}
	}
	gt.Equal(t, count, 1)
}

func TestDriverNormalizesSeedProfile(t *testing.T) {
	backend := &fakeChatBackend{replies: []string{"Tell me more!"}}
	driver, err := conversation.New(conversation.NewInput{
		Backend: backend,
		Profile: map[string]any{
			"mediums":       []any{"video", "video", "music"},
			"vibe_summary":  "chill",
			"persona_seeds": map[string]any{"visual_storytelling": float64(2)},
		},
	})
	gt.NoError(t, err)

	result, err := driver.Turn(context.Background(), "hey")
	gt.NoError(t, err)

	profile := result.Profile
	gt.A(t, profile.Mediums).Length(2)
	gt.Equal(t, profile.VibeSummary, "chill")
	gt.Equal(t, profile.PersonaSeeds["visual_storytelling"], 2)
}

func TestDriverRequiresBackend(t *testing.T) {
	_, err := conversation.New(conversation.NewInput{})
	gt.Error(t, err)
}
