package llm

import (
	"context"
	"fmt"

	"github.com/tmc/langchaingo/llms/googleai"
)

// NewGeminiClient builds the langchaingo Gemini client the orchestrator runs
// against in production. The model identifier is chosen per call, so no
// default model is configured here.
func NewGeminiClient(ctx context.Context, apiKey string) (ContentGenerator, error) {
	client, err := googleai.New(ctx, googleai.WithAPIKey(apiKey))
	if err != nil {
		return nil, fmt.Errorf("could not create Gemini client: %w", err)
	}
	return client, nil
}
