package ai

import (
	"context"
	"fmt"
	"strings"

	"github.com/tmc/langchaingo/llms"
	"github.com/tmc/langchaingo/llms/openai"
)

const providerOpenAI = "openai"

// OpenAIGenerator implements Generator using any OpenAI-compatible API.
type OpenAIGenerator struct {
	client            llms.Model
	temperature       float64
	systemInstruction string
}

// NewOpenAIGenerator creates a new OpenAI-compatible generator.
func NewOpenAIGenerator(apiKey, baseURL, model string, temperature float64, systemInstruction string) (*OpenAIGenerator, error) {
	client, err := openai.New(
		openai.WithToken(apiKey),
		openai.WithBaseURL(baseURL),
		openai.WithModel(model),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create LLM client: %w", err)
	}

	return newOpenAIGenerator(client, temperature, systemInstruction), nil
}

func newOpenAIGenerator(client llms.Model, temperature float64, systemInstruction string) *OpenAIGenerator {
	return &OpenAIGenerator{
		client:            client,
		temperature:       temperature,
		systemInstruction: systemInstruction,
	}
}

// Generate implements Generator.
func (g *OpenAIGenerator) Generate(ctx context.Context, prompt string) (string, error) {
	msgs := make([]llms.MessageContent, 0, 2)
	if g.systemInstruction != "" {
		msgs = append(msgs, llms.TextParts(llms.ChatMessageTypeSystem, g.systemInstruction))
	}
	msgs = append(msgs, llms.TextParts(llms.ChatMessageTypeHuman, prompt))

	resp, err := g.client.GenerateContent(ctx, msgs, llms.WithTemperature(g.temperature))
	if err != nil {
		return "", wrap(providerOpenAI, fmt.Errorf("failed to generate content: %w", err))
	}

	if resp == nil || len(resp.Choices) == 0 {
		return "", &GenerationError{Provider: providerOpenAI, Reason: ReasonEmpty, Err: fmt.Errorf("no choices returned from model")}
	}

	text := strings.TrimSpace(resp.Choices[0].Content)
	if text == "" {
		return "", &GenerationError{Provider: providerOpenAI, Reason: ReasonEmpty, Err: errEmpty}
	}

	return text, nil
}
