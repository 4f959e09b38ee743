package model

import (
	"github.com/google/uuid"
	"github.com/m-mizutani/goerr/v2"
)

var (
	ErrInvalidRole     = goerr.New("invalid role")
	ErrSessionComplete = goerr.New("session is already complete")
)

type SessionID string

// NewSessionID generates a new unique SessionID
func NewSessionID() SessionID {
	return SessionID(uuid.New().String())
}

type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// Validate checks if the role is valid
func (r Role) Validate() error {
	switch r {
	case RoleUser, RoleAssistant:
		return nil
	default:
		return goerr.Wrap(ErrInvalidRole, "unknown role", goerr.V("role", r))
	}
}

// ConversationTurn is a single message of a session transcript
type ConversationTurn struct {
	Role    Role   `json:"role" firestore:"role"`
	Content string `json:"content" firestore:"content"`
}

// ChatHistory is the ordered transcript of a session. Append-only.
type ChatHistory []ConversationTurn

// UserText concatenates all user-side messages, space separated
func (h ChatHistory) UserText() string {
	text := ""
	for _, turn := range h {
		if turn.Role != RoleUser {
			continue
		}
		if text != "" {
			text += " "
		}
		text += turn.Content
	}
	return text
}

type Phase string

const (
	PhaseCollecting Phase = "collecting"
	PhaseReady      Phase = "ready"
)

// SessionResult holds everything produced by a completed session.
// Built exactly once, immutable afterwards.
type SessionResult struct {
	Traits  *TraitRecord `json:"traits" firestore:"traits"`
	Matches MatchResult  `json:"matches" firestore:"matches"`
	Persona Persona      `json:"persona" firestore:"persona"`
	Report  string       `json:"report" firestore:"report"`
}
