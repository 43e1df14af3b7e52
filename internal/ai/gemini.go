package ai

import (
	"context"
	"fmt"
	"strings"

	"google.golang.org/genai"
)

const providerGemini = "gemini"

type generateContentFunc func(
	ctx context.Context, model string, contents []*genai.Content, cfg *genai.GenerateContentConfig,
) (*genai.GenerateContentResponse, error)

// GeminiGenerator implements Generator with the Gemini API.
type GeminiGenerator struct {
	generate generateContentFunc
	model    string
	config   *genai.GenerateContentConfig
}

// GeminiOptions configures a GeminiGenerator.
type GeminiOptions struct {
	APIKey            string
	Model             string
	Temperature       float32
	SystemInstruction string
}

// NewGeminiGenerator creates a Gemini client.
func NewGeminiGenerator(ctx context.Context, opts GeminiOptions) (*GeminiGenerator, error) {
	if opts.APIKey == "" {
		return nil, fmt.Errorf("gemini API key is required")
	}

	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  opts.APIKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create genai client: %w", err)
	}

	return newGeminiGenerator(client.Models.GenerateContent, opts), nil
}

func newGeminiGenerator(generate generateContentFunc, opts GeminiOptions) *GeminiGenerator {
	temperature := opts.Temperature
	cfg := &genai.GenerateContentConfig{
		Temperature: &temperature,
	}
	if opts.SystemInstruction != "" {
		cfg.SystemInstruction = &genai.Content{Parts: []*genai.Part{{Text: opts.SystemInstruction}}}
	}

	return &GeminiGenerator{
		generate: generate,
		model:    opts.Model,
		config:   cfg,
	}
}

// Generate implements Generator.
func (g *GeminiGenerator) Generate(ctx context.Context, prompt string) (string, error) {
	resp, err := g.generate(ctx, g.model, genai.Text(prompt), g.config)
	if err != nil {
		return "", wrap(providerGemini, err)
	}

	if resp == nil || len(resp.Candidates) == 0 {
		return "", &GenerationError{Provider: providerGemini, Reason: ReasonEmpty, Err: errEmpty}
	}

	text := strings.TrimSpace(resp.Text())
	if text == "" {
		return "", &GenerationError{Provider: providerGemini, Reason: ReasonEmpty, Err: errEmpty}
	}

	return text, nil
}
