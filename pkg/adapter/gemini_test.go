package adapter_test

import (
	"context"
	"os"
	"testing"

	"github.com/m-mizutani/gt"
	"github.com/m-mizutani/sparkpath/pkg/adapter"
	"github.com/m-mizutani/sparkpath/pkg/model"
)

func setupGemini(t *testing.T) *adapter.GeminiClient {
	projectID := os.Getenv("TEST_GEMINI_PROJECT")
	if projectID == "" {
		t.Skip("TEST_GEMINI_PROJECT is not set")
	}

	ctx := context.Background()
	client, err := adapter.NewGemini(ctx, projectID, "us-central1")
	gt.NoError(t, err)

	return client
}

func TestComplete(t *testing.T) {
	client := setupGemini(t)
	ctx := context.Background()

	history := model.ChatHistory{
		{Role: model.RoleUser, Content: "Hello, what is the capital of France?"},
	}

	reply, err := client.Complete(ctx, "You are a concise assistant.", history)
	gt.NoError(t, err)
	gt.NotEqual(t, reply, "")

	t.Log("reply:", reply)
}

func TestEmbed(t *testing.T) {
	client := setupGemini(t)
	ctx := context.Background()

	vec, err := client.Embed(ctx, "film editing and camera work")
	gt.NoError(t, err)
	gt.Equal(t, len(vec), 1024)
}
