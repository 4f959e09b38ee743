package adapter

import (
	"testing"

	"github.com/m-mizutani/gt"
	"github.com/m-mizutani/sparkpath/pkg/model"
	"google.golang.org/genai"
)

func TestToContents(t *testing.T) {
	history := model.ChatHistory{
		{Role: model.RoleUser, Content: "I edit videos after school"},
		{Role: model.RoleAssistant, Content: "Tell me more!"},
	}

	contents := toContents(history)
	gt.A(t, contents).Length(2)

	gt.Equal(t, contents[0].Role, genai.RoleUser)
	gt.Equal(t, contents[0].Parts[0].Text, "I edit videos after school")

	// Assistant turns map to the model role
	gt.Equal(t, contents[1].Role, genai.RoleModel)
	gt.Equal(t, contents[1].Parts[0].Text, "Tell me more!")
}
