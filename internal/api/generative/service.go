package generative

import (
	"context"
	"fmt"
	"os"

	"google.golang.org/genai"
)

const defaultModel = "gemini-2.0-flash"

// Client is the narrow contract the recommendation pipeline needs from the
// generative backend: prompt in, raw text out. May be nil when no credential
// is configured; callers degrade to deterministic behaviour in that case.
type Client interface {
	GenerateContent(ctx context.Context, prompt string, config *genai.GenerateContentConfig) (string, error)
}

type AIClient struct {
	client *genai.Client
	model  string
}

var _ Client = (*AIClient)(nil)

// NewAIClient builds a Gemini-backed client from the GOOGLE_GEMINI_API_KEY
// environment variable. Returns (nil, nil) when the key is absent so callers
// can treat the backend as unconfigured rather than failing startup.
func NewAIClient(ctx context.Context, model string) (*AIClient, error) {
	apiKey := os.Getenv("GOOGLE_GEMINI_API_KEY")
	if apiKey == "" {
		return nil, nil
	}
	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create genai client: %w", err)
	}
	if model == "" {
		model = defaultModel
	}
	return &AIClient{client: client, model: model}, nil
}

func (ai *AIClient) GenerateContent(ctx context.Context, prompt string, config *genai.GenerateContentConfig) (string, error) {
	result, err := ai.client.Models.GenerateContent(ctx, ai.model, genai.Text(prompt), config)
	if err != nil {
		return "", fmt.Errorf("generate content: %w", err)
	}
	txt := result.Text()
	if txt == "" {
		return "", fmt.Errorf("empty response from model %s", ai.model)
	}
	return txt, nil
}
