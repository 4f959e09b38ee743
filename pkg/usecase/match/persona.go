package match

import (
	"strings"

	"github.com/m-mizutani/sparkpath/pkg/model"
)

type personaRule struct {
	keywords []string
	persona  model.Persona
}

// Rule order is significant: the first match wins, so text mentioning both
// "dance" and "music" always classifies as the Movement Storyteller.
var personaRules = []personaRule{
	{
		keywords: []string{"dance", "movement", "choreo"},
		persona:  model.Persona{Name: model.PersonaMovementStoryteller, Blurb: "You express emotion through movement and rhythm."},
	},
	{
		keywords: []string{"camera", "film", "edit", "video"},
		persona:  model.Persona{Name: model.PersonaVisualStoryteller, Blurb: "You see stories in images and scenes."},
	},
	{
		keywords: []string{"music", "sound", "producer", "beat", "audio"},
		persona:  model.Persona{Name: model.PersonaMusicArchitect, Blurb: "You shape energy through sound."},
	},
	{
		keywords: []string{"write", "script", "story", "dialogue"},
		persona:  model.Persona{Name: model.PersonaStoryWeaver, Blurb: "You craft stories and emotion through words."},
	},
}

var defaultPersona = model.Persona{
	Name:  model.PersonaCreativeExplorer,
	Blurb: "You have wide creative interests.",
}

// Classify assigns a creative persona from the vibe summary and the raw
// combined user text, by fixed-priority keyword rules.
func Classify(traits *model.TraitRecord, fullText string) model.Persona {
	blob := fullText
	if traits != nil {
		blob = traits.VibeSummary + " " + fullText
	}
	blob = strings.ToLower(blob)

	for _, rule := range personaRules {
		for _, kw := range rule.keywords {
			if strings.Contains(blob, kw) {
				return rule.persona
			}
		}
	}

	return defaultPersona
}
