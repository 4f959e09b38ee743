package adapter

import (
	"context"

	"github.com/m-mizutani/goerr/v2"
	"github.com/m-mizutani/sparkpath/pkg/model"
	"google.golang.org/genai"
)

// ChatBackend is the chat-completion service behind the conversation
// driver. One implementation is selected at construction time.
type ChatBackend interface {
	Complete(ctx context.Context, systemPrompt string, history model.ChatHistory) (string, error)
}

// Embedder converts text into a fixed-dimensionality vector
type Embedder interface {
	Embed(ctx context.Context, text string) ([]float32, error)
}

// StructuredBackend generates a response constrained to a JSON schema and
// returns the raw JSON text. Callers own parsing and validation.
type StructuredBackend interface {
	GenerateJSON(ctx context.Context, systemPrompt, prompt string, schema *genai.Schema) ([]byte, error)
}

// GeminiClient implements ChatBackend, Embedder and StructuredBackend on
// top of the Gemini API.
type GeminiClient struct {
	client          *genai.Client
	generativeModel string
	embeddingModel  string
	embeddingDim    int32
}

type GeminiOption func(*GeminiClient)

func WithGenerativeModel(model string) GeminiOption {
	return func(g *GeminiClient) {
		g.generativeModel = model
	}
}

func WithEmbeddingModel(model string) GeminiOption {
	return func(g *GeminiClient) {
		g.embeddingModel = model
	}
}

func WithEmbeddingDimension(dim int32) GeminiOption {
	return func(g *GeminiClient) {
		g.embeddingDim = dim
	}
}

func NewGemini(ctx context.Context, projectID, location string, opts ...GeminiOption) (*GeminiClient, error) {
	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		Project:  projectID,
		Location: location,
		Backend:  genai.BackendVertexAI,
	})
	if err != nil {
		return nil, goerr.Wrap(err, "failed to create genai client")
	}

	g := &GeminiClient{
		client:          client,
		generativeModel: "gemini-2.5-flash",
		embeddingModel:  "gemini-embedding-001",
		embeddingDim:    1024,
	}

	for _, opt := range opts {
		opt(g)
	}

	return g, nil
}

func toContents(history model.ChatHistory) []*genai.Content {
	contents := make([]*genai.Content, 0, len(history))
	for _, turn := range history {
		role := genai.Role(genai.RoleUser)
		if turn.Role == model.RoleAssistant {
			role = genai.RoleModel
		}
		contents = append(contents, genai.NewContentFromText(turn.Content, role))
	}
	return contents
}

func firstText(resp *genai.GenerateContentResponse) (string, error) {
	if resp == nil || len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil || len(resp.Candidates[0].Content.Parts) == 0 {
		return "", goerr.New("invalid response structure from gemini")
	}

	for _, part := range resp.Candidates[0].Content.Parts {
		if part.Text != "" {
			return part.Text, nil
		}
	}

	return "", goerr.New("no text part in gemini response")
}

func (g *GeminiClient) Complete(ctx context.Context, systemPrompt string, history model.ChatHistory) (string, error) {
	config := &genai.GenerateContentConfig{
		SystemInstruction: genai.NewContentFromText(systemPrompt, ""),
	}

	resp, err := g.client.Models.GenerateContent(ctx, g.generativeModel, toContents(history), config)
	if err != nil {
		return "", goerr.Wrap(err, "failed to generate content")
	}

	return firstText(resp)
}

func (g *GeminiClient) GenerateJSON(ctx context.Context, systemPrompt, prompt string, schema *genai.Schema) ([]byte, error) {
	thinkingBudget := int32(0)
	config := &genai.GenerateContentConfig{
		SystemInstruction: genai.NewContentFromText(systemPrompt, ""),
		ResponseMIMEType:  "application/json",
		ResponseSchema:    schema,
		ThinkingConfig: &genai.ThinkingConfig{
			IncludeThoughts: false,
			ThinkingBudget:  &thinkingBudget,
		},
	}

	contents := []*genai.Content{
		genai.NewContentFromText(prompt, genai.RoleUser),
	}

	resp, err := g.client.Models.GenerateContent(ctx, g.generativeModel, contents, config)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to generate structured content")
	}

	text, err := firstText(resp)
	if err != nil {
		return nil, err
	}

	return []byte(text), nil
}

func (g *GeminiClient) Embed(ctx context.Context, text string) ([]float32, error) {
	dim := g.embeddingDim
	resp, err := g.client.Models.EmbedContent(ctx, g.embeddingModel, genai.Text(text), &genai.EmbedContentConfig{
		OutputDimensionality: &dim,
	})
	if err != nil {
		return nil, goerr.Wrap(err, "failed to embed content")
	}

	if len(resp.Embeddings) == 0 || len(resp.Embeddings[0].Values) == 0 {
		return nil, goerr.New("empty embedding response")
	}

	return resp.Embeddings[0].Values, nil
}
