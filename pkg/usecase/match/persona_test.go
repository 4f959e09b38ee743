package match_test

import (
	"testing"

	"github.com/m-mizutani/gt"
	"github.com/m-mizutani/sparkpath/pkg/model"
	"github.com/m-mizutani/sparkpath/pkg/usecase/match"
)

func TestClassifyPriorityOrder(t *testing.T) {
	// "editing videos" hits the visual rule before the story rule fires
	persona := match.Classify(nil, "I love editing videos and scripting stories")
	gt.Equal(t, persona.Name, model.PersonaVisualStoryteller)
}

func TestClassifyMovementBeatsMusic(t *testing.T) {
	persona := match.Classify(nil, "I do dance routines to music all day")
	gt.Equal(t, persona.Name, model.PersonaMovementStoryteller)
}

func TestClassifyRules(t *testing.T) {
	testCases := []struct {
		name string
		text string
		want string
	}{
		{"choreo", "choreo is my life", model.PersonaMovementStoryteller},
		{"camera", "always behind the camera", model.PersonaVisualStoryteller},
		{"beat", "I make a beat every night", model.PersonaMusicArchitect},
		{"audio", "obsessed with audio gear", model.PersonaMusicArchitect},
		{"dialogue", "I sketch dialogue for my characters", model.PersonaStoryWeaver},
		{"default", "I worked at a store and helped customers", model.PersonaCreativeExplorer},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			persona := match.Classify(nil, tc.text)
			gt.Equal(t, persona.Name, tc.want)
		})
	}
}

func TestClassifyUsesVibeSummary(t *testing.T) {
	traits := &model.TraitRecord{VibeSummary: "Big sound design energy"}
	persona := match.Classify(traits, "I worked at a store")
	gt.Equal(t, persona.Name, model.PersonaMusicArchitect)
}

func TestClassifyCaseInsensitive(t *testing.T) {
	persona := match.Classify(nil, "FILM school was the best")
	gt.Equal(t, persona.Name, model.PersonaVisualStoryteller)
}

func TestClassifyBlurbPresent(t *testing.T) {
	persona := match.Classify(nil, "nothing creative here at all")
	gt.Equal(t, persona.Name, model.PersonaCreativeExplorer)
	gt.NotEqual(t, persona.Blurb, "")
}
