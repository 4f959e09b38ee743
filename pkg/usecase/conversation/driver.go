package conversation

import (
	"context"
	_ "embed"
	"strings"

	"github.com/m-mizutani/goerr/v2"
	"github.com/m-mizutani/sparkpath/pkg/adapter"
	"github.com/m-mizutani/sparkpath/pkg/model"
	"github.com/m-mizutani/sparkpath/pkg/usecase/match"
	"github.com/m-mizutani/sparkpath/pkg/utils/logging"
)

//go:embed prompt/system.md
var systemPrompt string

const greeting = "Hey, I'm Spark ✨ Tell me about something creative you naturally gravitate toward: TikToks, dance, music, fashion, film, design... whatever feels most you."

// triggerPhrases end the collecting phase when the coach reply contains
// one of them, matched case-insensitively.
var triggerPhrases = []string{
	"summarize",
	"summary",
	"pull this together",
	"ready?",
}

// Driver runs the conversational phase of a session: one model reply per
// user message, until the session becomes ready. Ready is terminal.
type Driver struct {
	backend   adapter.ChatBackend
	extractor match.TraitExtractor

	history model.ChatHistory
	profile *model.Profile
	phase   model.Phase
}

// NewInput contains parameters for creating a conversation driver
type NewInput struct {
	Backend adapter.ChatBackend

	// Extractor enables the per-turn trait completeness check. When nil,
	// only the reply trigger phrases end the collecting phase.
	Extractor match.TraitExtractor

	// Profile seeds the driver with previously accumulated profile state;
	// it is normalized on the way in.
	Profile any
}

func New(input NewInput) (*Driver, error) {
	if input.Backend == nil {
		return nil, goerr.New("chat backend is required")
	}

	return &Driver{
		backend:   input.Backend,
		extractor: input.Extractor,
		profile:   model.Normalize(input.Profile),
		phase:     model.PhaseCollecting,
	}, nil
}

// Start appends the opening coach message and returns it
func (d *Driver) Start() string {
	d.history = append(d.history, model.ConversationTurn{
		Role:    model.RoleAssistant,
		Content: greeting,
	})
	return greeting
}

// History returns the transcript so far
func (d *Driver) History() model.ChatHistory {
	return d.history
}

// Phase returns the current session phase
func (d *Driver) Phase() model.Phase {
	return d.phase
}

// TurnResult is the outcome of a single conversation turn
type TurnResult struct {
	Reply   string
	Profile *model.Profile
	Phase   model.Phase
	Ready   bool
}

// Turn runs one request/response exchange. The user message is appended
// to the history, the backend produces one reply, and the readiness
// condition is evaluated. A backend failure is fatal for the turn and is
// not retried. Once the session is ready no further input is accepted.
func (d *Driver) Turn(ctx context.Context, message string) (*TurnResult, error) {
	if d.phase == model.PhaseReady {
		return nil, goerr.Wrap(model.ErrSessionComplete, "no further input accepted")
	}

	d.profile = model.Normalize(d.profile)
	d.seedProfile(message)

	d.history = append(d.history, model.ConversationTurn{
		Role:    model.RoleUser,
		Content: message,
	})

	reply, err := d.backend.Complete(ctx, systemPrompt, d.history)
	if err != nil {
		return nil, goerr.Wrap(err, "chat completion failed")
	}

	d.history = append(d.history, model.ConversationTurn{
		Role:    model.RoleAssistant,
		Content: reply,
	})

	ready := containsTrigger(reply)
	if ready {
		logging.From(ctx).Debug("reply trigger phrase fired")
	}

	if !ready && d.extractor != nil {
		traits, err := d.extractTraits(ctx)
		if err != nil {
			return nil, err
		}
		ready = traits.HasEnoughData()
	}

	if ready {
		d.phase = model.PhaseReady
	}

	return &TurnResult{
		Reply:   reply,
		Profile: d.profile,
		Phase:   d.phase,
		Ready:   ready,
	}, nil
}

func (d *Driver) extractTraits(ctx context.Context) (*model.TraitRecord, error) {
	traitChat := model.ChatHistory{
		{Role: model.RoleAssistant, Content: "You are Spark, a creative career coach."},
		{Role: model.RoleUser, Content: d.history.UserText()},
	}
	return d.extractor.Extract(ctx, traitChat)
}

func containsTrigger(reply string) bool {
	lowered := strings.ToLower(reply)
	for _, phrase := range triggerPhrases {
		if strings.Contains(lowered, phrase) {
			return true
		}
	}
	return false
}

// seedKeywords maps user-text keywords to a persona seed and the medium
// tag remembered for the profile.
var seedKeywords = []struct {
	keywords []string
	seed     string
	medium   string
}{
	{[]string{"dance", "movement", "choreo"}, "movement_expression", "dance"},
	{[]string{"camera", "film", "edit", "video"}, "visual_storytelling", "video"},
	{[]string{"music", "sound", "producer", "beat", "audio"}, "sound_design", "music"},
	{[]string{"write", "script", "story", "dialogue"}, "narrative_thinking", "writing"},
	{[]string{"lead", "organize", "direct"}, "creative_leadership", ""},
	{[]string{"design", "fashion", "aesthetic"}, "aesthetic_sense", "design"},
	{[]string{"code", "build", "software", "tech"}, "technical_builder", "technology"},
}

// seedProfile applies keyword-driven profile updates for one user message.
// The profile stays structurally valid after every mutation.
func (d *Driver) seedProfile(message string) {
	lowered := strings.ToLower(message)

	for _, entry := range seedKeywords {
		for _, kw := range entry.keywords {
			if !strings.Contains(lowered, kw) {
				continue
			}
			d.profile.PersonaSeeds[entry.seed]++
			if entry.medium != "" {
				d.profile.Mediums = d.profile.Mediums.Add(entry.medium)
				d.profile.Memory.Mediums = d.profile.Memory.Mediums.Add(entry.medium)
			}
			break
		}
	}
}
