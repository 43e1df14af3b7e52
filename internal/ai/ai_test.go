package ai

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tmc/langchaingo/llms"
	"google.golang.org/genai"
)

type fakeModel struct {
	resp    *llms.ContentResponse
	err     error
	got     []llms.MessageContent
	options llms.CallOptions
}

func (m *fakeModel) GenerateContent(
	ctx context.Context, messages []llms.MessageContent, options ...llms.CallOption,
) (*llms.ContentResponse, error) {
	m.got = messages
	for _, opt := range options {
		opt(&m.options)
	}
	return m.resp, m.err
}

func (m *fakeModel) Call(ctx context.Context, prompt string, options ...llms.CallOption) (string, error) {
	return llms.GenerateFromSinglePrompt(ctx, m, prompt, options...)
}

func TestOpenAIGenerator_Generate(t *testing.T) {
	t.Parallel()

	model := &fakeModel{
		resp: &llms.ContentResponse{
			Choices: []*llms.ContentChoice{{Content: "  Match list...\n"}},
		},
	}
	gen := newOpenAIGenerator(model, 0.4, "be brief")

	got, err := gen.Generate(context.Background(), "fixtures for pl")
	require.NoError(t, err)
	assert.Equal(t, "Match list...", got)

	require.Len(t, model.got, 2)
	assert.Equal(t, llms.ChatMessageTypeSystem, model.got[0].Role)
	assert.Equal(t, llms.ChatMessageTypeHuman, model.got[1].Role)
	assert.Equal(t, llms.TextContent{Text: "fixtures for pl"}, model.got[1].Parts[0])
	assert.InDelta(t, 0.4, model.options.Temperature, 1e-9)
}

func TestOpenAIGenerator_Failures(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name       string
		model      *fakeModel
		wantReason Reason
	}{
		{
			name:       "transport error",
			model:      &fakeModel{err: errors.New("connection refused")},
			wantReason: ReasonTransport,
		},
		{
			name:       "deadline",
			model:      &fakeModel{err: context.DeadlineExceeded},
			wantReason: ReasonTimeout,
		},
		{
			name:       "no choices",
			model:      &fakeModel{resp: &llms.ContentResponse{}},
			wantReason: ReasonEmpty,
		},
		{
			name: "blank content",
			model: &fakeModel{resp: &llms.ContentResponse{
				Choices: []*llms.ContentChoice{{Content: " \n "}},
			}},
			wantReason: ReasonEmpty,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			_, err := newOpenAIGenerator(tt.model, 0, "").Generate(context.Background(), "prompt")

			var genErr *GenerationError
			require.ErrorAs(t, err, &genErr)
			assert.Equal(t, tt.wantReason, genErr.Reason)
			assert.Equal(t, providerOpenAI, genErr.Provider)
		})
	}
}

func TestOpenAIGenerator_NoSystemInstruction(t *testing.T) {
	t.Parallel()

	model := &fakeModel{
		resp: &llms.ContentResponse{Choices: []*llms.ContentChoice{{Content: "ok"}}},
	}
	_, err := newOpenAIGenerator(model, 0, "").Generate(context.Background(), "hi")
	require.NoError(t, err)
	require.Len(t, model.got, 1)
	assert.Equal(t, llms.ChatMessageTypeHuman, model.got[0].Role)
}

func geminiResponse(text string) *genai.GenerateContentResponse {
	return &genai.GenerateContentResponse{
		Candidates: []*genai.Candidate{
			{Content: &genai.Content{Role: "model", Parts: []*genai.Part{{Text: text}}}},
		},
	}
}

func TestGeminiGenerator_Generate(t *testing.T) {
	t.Parallel()

	var (
		gotModel  string
		gotPrompt string
		gotConfig *genai.GenerateContentConfig
	)
	fake := func(
		ctx context.Context, model string, contents []*genai.Content, cfg *genai.GenerateContentConfig,
	) (*genai.GenerateContentResponse, error) {
		gotModel = model
		gotPrompt = contents[0].Parts[0].Text
		gotConfig = cfg
		return geminiResponse("Match list..."), nil
	}

	gen := newGeminiGenerator(fake, GeminiOptions{
		Model:             "gemini-1.5-pro-latest",
		Temperature:       0.7,
		SystemInstruction: "You are a football analyst.",
	})

	got, err := gen.Generate(context.Background(), "standings for tsl")
	require.NoError(t, err)
	assert.Equal(t, "Match list...", got)
	assert.Equal(t, "gemini-1.5-pro-latest", gotModel)
	assert.Equal(t, "standings for tsl", gotPrompt)
	require.NotNil(t, gotConfig.Temperature)
	assert.InDelta(t, 0.7, *gotConfig.Temperature, 1e-6)
	require.NotNil(t, gotConfig.SystemInstruction)
	assert.Equal(t, "You are a football analyst.", gotConfig.SystemInstruction.Parts[0].Text)
}

func TestGeminiGenerator_Failures(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name       string
		resp       *genai.GenerateContentResponse
		err        error
		wantReason Reason
	}{
		{"api error", nil, errors.New("quota exceeded"), ReasonTransport},
		{"nil response", nil, nil, ReasonEmpty},
		{"no candidates", &genai.GenerateContentResponse{}, nil, ReasonEmpty},
		{"empty text", geminiResponse("   "), nil, ReasonEmpty},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			fake := func(
				context.Context, string, []*genai.Content, *genai.GenerateContentConfig,
			) (*genai.GenerateContentResponse, error) {
				return tt.resp, tt.err
			}

			_, err := newGeminiGenerator(fake, GeminiOptions{Model: "m"}).Generate(context.Background(), "p")

			var genErr *GenerationError
			require.ErrorAs(t, err, &genErr)
			assert.Equal(t, tt.wantReason, genErr.Reason)
			assert.Equal(t, providerGemini, genErr.Provider)
			if tt.err != nil {
				assert.ErrorIs(t, err, tt.err)
			}
		})
	}
}

func TestNewGeminiGenerator_RequiresKey(t *testing.T) {
	t.Parallel()

	_, err := NewGeminiGenerator(context.Background(), GeminiOptions{Model: "m"})
	assert.Error(t, err)
}

type generatorFunc func(ctx context.Context, prompt string) (string, error)

func (f generatorFunc) Generate(ctx context.Context, prompt string) (string, error) {
	return f(ctx, prompt)
}

func TestWithTimeout(t *testing.T) {
	t.Parallel()

	t.Run("passes result through", func(t *testing.T) {
		t.Parallel()

		gen := WithTimeout(generatorFunc(func(ctx context.Context, prompt string) (string, error) {
			_, ok := ctx.Deadline()
			assert.True(t, ok)
			return "reply to " + prompt, nil
		}), time.Second)

		got, err := gen.Generate(context.Background(), "p")
		require.NoError(t, err)
		assert.Equal(t, "reply to p", got)
	})

	t.Run("deadline becomes timeout error", func(t *testing.T) {
		t.Parallel()

		gen := WithTimeout(generatorFunc(func(ctx context.Context, prompt string) (string, error) {
			<-ctx.Done()
			return "", wrap(providerGemini, ctx.Err())
		}), 10*time.Millisecond)

		_, err := gen.Generate(context.Background(), "p")

		var genErr *GenerationError
		require.ErrorAs(t, err, &genErr)
		assert.Equal(t, ReasonTimeout, genErr.Reason)
		assert.Equal(t, providerGemini, genErr.Provider)
		assert.ErrorIs(t, err, context.DeadlineExceeded)
	})

	t.Run("plain errors are wrapped", func(t *testing.T) {
		t.Parallel()

		cause := errors.New("boom")
		gen := WithTimeout(generatorFunc(func(context.Context, string) (string, error) {
			return "", cause
		}), time.Second)

		_, err := gen.Generate(context.Background(), "p")

		var genErr *GenerationError
		require.ErrorAs(t, err, &genErr)
		assert.Equal(t, ReasonTransport, genErr.Reason)
		assert.ErrorIs(t, err, cause)
	})

	t.Run("non-positive timeout is a no-op", func(t *testing.T) {
		t.Parallel()

		inner := generatorFunc(func(context.Context, string) (string, error) { return "x", nil })
		gen := WithTimeout(inner, 0)
		_, isTimeout := gen.(*timeoutGenerator)
		assert.False(t, isTimeout)
	})
}

func TestGenerationError_Error(t *testing.T) {
	t.Parallel()

	err := &GenerationError{Provider: "gemini", Reason: ReasonTransport, Err: errors.New("403 quota")}
	assert.Equal(t, "gemini generation failed (transport): 403 quota", err.Error())

	bare := &GenerationError{Provider: "openai", Reason: ReasonEmpty}
	assert.Equal(t, "openai generation failed (empty)", bare.Error())
}
