// Package llm adapts the supported model providers to a single
// schema-constrained text generation call.
package llm

import (
	"context"
	"fmt"
	"io"

	"triply/internal/config"
	"triply/internal/shared"
)

const (
	ProviderGemini = "gemini"
	ProviderGroq   = "groq"
)

// ContentResponse is the raw model output plus the provider's accounting.
type ContentResponse struct {
	Content string
	Usage   shared.TokenUsage
}

// TextGenerator produces text for a prompt. With a non-nil schema the
// provider is put in JSON mode and asked to conform to it.
type TextGenerator interface {
	GenerateContent(ctx context.Context, prompt string, schema *Schema) (ContentResponse, error)
}

// NewFromConfig builds the TextGenerator selected by cfg.Provider. The
// returned closer releases provider resources and is never nil.
func NewFromConfig(ctx context.Context, cfg *config.Config) (TextGenerator, io.Closer, error) {
	switch cfg.Provider {
	case "", ProviderGemini:
		c, err := NewGeminiClient(ctx, cfg)
		if err != nil {
			return nil, nil, err
		}
		return c, c, nil
	case ProviderGroq:
		return NewGroqClient(cfg), nopCloser{}, nil
	}
	return nil, nil, fmt.Errorf("unknown llm provider %q", cfg.Provider)
}

// Groq is plain HTTP and holds nothing open.
type nopCloser struct{}

func (nopCloser) Close() error { return nil }
