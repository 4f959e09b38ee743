package model

// Persona is one of a fixed set of creative archetypes assigned by
// keyword rule. Derived per session, never persisted on its own.
type Persona struct {
	Name  string `json:"name" firestore:"name"`
	Blurb string `json:"blurb" firestore:"blurb"`
}

const (
	PersonaMovementStoryteller = "The Movement Storyteller"
	PersonaVisualStoryteller   = "The Visual Storyteller"
	PersonaMusicArchitect      = "The Music Architect"
	PersonaStoryWeaver         = "The Story Weaver"
	PersonaCreativeExplorer    = "The Creative Explorer"
)
