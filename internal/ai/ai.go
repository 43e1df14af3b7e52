// Package ai talks to the completion service.
package ai

import (
	"context"
	"errors"
	"fmt"
	"time"
)

// Generator turns a prompt into generated text. Implementations make exactly
// one upstream call and report every failure as a *GenerationError.
type Generator interface {
	Generate(ctx context.Context, prompt string) (string, error)
}

// Reason says why a generation failed. Callers only need to know that it
// failed; the reason is for logs.
type Reason string

const (
	ReasonTransport Reason = "transport"
	ReasonTimeout   Reason = "timeout"
	ReasonEmpty     Reason = "empty"
)

// GenerationError is the single error kind returned by a Generator.
type GenerationError struct {
	Provider string
	Reason   Reason
	Err      error
}

func (e *GenerationError) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("%s generation failed (%s)", e.Provider, e.Reason)
	}
	return fmt.Sprintf("%s generation failed (%s): %v", e.Provider, e.Reason, e.Err)
}

func (e *GenerationError) Unwrap() error {
	return e.Err
}

// wrap classifies err as a GenerationError for provider.
func wrap(provider string, err error) error {
	var genErr *GenerationError
	if errors.As(err, &genErr) {
		return err
	}

	reason := ReasonTransport
	if errors.Is(err, context.DeadlineExceeded) {
		reason = ReasonTimeout
	}
	return &GenerationError{Provider: provider, Reason: reason, Err: err}
}

var errEmpty = errors.New("model returned no text")

type timeoutGenerator struct {
	next    Generator
	timeout time.Duration
}

// WithTimeout bounds every Generate call of g by d. A non-positive d returns g
// unchanged.
func WithTimeout(g Generator, d time.Duration) Generator {
	if d <= 0 {
		return g
	}
	return &timeoutGenerator{next: g, timeout: d}
}

func (t *timeoutGenerator) Generate(ctx context.Context, prompt string) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, t.timeout)
	defer cancel()

	text, err := t.next.Generate(ctx, prompt)
	if err == nil {
		return text, nil
	}

	if errors.Is(ctx.Err(), context.DeadlineExceeded) {
		var genErr *GenerationError
		if errors.As(err, &genErr) {
			return "", &GenerationError{Provider: genErr.Provider, Reason: ReasonTimeout, Err: genErr.Err}
		}
		return "", &GenerationError{Provider: "unknown", Reason: ReasonTimeout, Err: err}
	}
	return "", wrap("unknown", err)
}
