package model

import (
	"time"

	"github.com/google/uuid"
)

type UserID string

// NewUserID generates a new unique UserID
func NewUserID() UserID {
	return UserID(uuid.New().String())
}

// SavedCareer is a career match the user chose to keep
type SavedCareer struct {
	Title string  `json:"title" firestore:"title"`
	Score float64 `json:"score" firestore:"score"`
}

// UserRecord is the stored state of one user session. The pipeline only
// writes it; nothing in the core reads it back.
type UserRecord struct {
	ID        UserID    `json:"user_id" firestore:"user_id"`
	CreatedAt time.Time `json:"created_at" firestore:"created_at"`
	UpdatedAt time.Time `json:"updated_at" firestore:"updated_at"`

	Answers      ChatHistory    `json:"answers" firestore:"answers"`
	Traits       *TraitRecord   `json:"traits,omitempty" firestore:"traits"`
	Persona      *Persona       `json:"persona,omitempty" firestore:"persona"`
	Matches      MatchResult    `json:"matches,omitempty" firestore:"matches"`
	SavedCareers []*SavedCareer `json:"saved_careers" firestore:"saved_careers"`
}
