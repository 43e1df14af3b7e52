package ai

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"
	"go.uber.org/fx"

	"github.com/j0lvera/kickoff/internal/config"
)

// Params for creating a Generator
type Params struct {
	fx.In

	Config *config.Config
	Logger zerolog.Logger
}

// Result of creating a Generator
type Result struct {
	fx.Out

	Generator Generator
}

// New creates the Generator selected by configuration, bounded by the
// configured timeout.
func New(p Params) (Result, error) {
	cfg := p.Config

	var (
		gen Generator
		err error
	)
	switch cfg.Provider {
	case config.ProviderGemini:
		gen, err = NewGeminiGenerator(context.Background(), GeminiOptions{
			APIKey:            cfg.GeminiAPIKey,
			Model:             cfg.GeminiModel,
			Temperature:       cfg.Temperature,
			SystemInstruction: cfg.SystemInstruction,
		})
	case config.ProviderOpenAI:
		gen, err = NewOpenAIGenerator(
			cfg.APIKey, cfg.BaseURL, cfg.Model, float64(cfg.Temperature), cfg.SystemInstruction,
		)
	default:
		err = fmt.Errorf("unknown ai provider %q", cfg.Provider)
	}
	if err != nil {
		return Result{}, err
	}

	p.Logger.Info().
		Str("provider", cfg.Provider).
		Str("model", cfg.ModelName()).
		Dur("timeout", cfg.GenerationTimeout).
		Msg("ai generator ready")

	return Result{
		Generator: WithTimeout(gen, cfg.GenerationTimeout),
	}, nil
}

// Module provides the Generator
func Module() fx.Option {
	return fx.Module(
		"ai",
		fx.Provide(
			New,
		),
	)
}
