package llm

import (
	"context"
	"fmt"
	"strings"

	"triply/internal/config"
	"triply/internal/shared"

	"github.com/google/generative-ai-go/genai"
	"google.golang.org/api/option"
)

// DefaultGeminiModel is used when no model is configured.
const DefaultGeminiModel = "gemini-2.5-flash"

// GeminiClient is a client for the Google Gemini API.
type GeminiClient struct {
	client      *genai.Client
	modelName   string
	temperature float32
}

// NewGeminiClient creates a new Gemini API client.
func NewGeminiClient(ctx context.Context, cfg *config.Config) (*GeminiClient, error) {
	client, err := genai.NewClient(ctx, option.WithAPIKey(cfg.GeminiAPIKey))
	if err != nil {
		return nil, fmt.Errorf("failed to create Gemini client: %w", err)
	}
	modelName := cfg.GeminiModel
	if modelName == "" {
		modelName = DefaultGeminiModel
	}
	return &GeminiClient{client: client, modelName: modelName, temperature: cfg.Temperature}, nil
}

// GenerateContent sends a prompt to the Gemini model and returns the generated text.
func (c *GeminiClient) GenerateContent(ctx context.Context, prompt string, schema *Schema) (ContentResponse, error) {
	model := c.client.GenerativeModel(c.modelName)
	model.SetTemperature(c.temperature)
	if schema != nil {
		model.ResponseMIMEType = "application/json"
		model.ResponseSchema = toGeminiSchema(schema)
	}

	resp, err := model.GenerateContent(ctx, genai.Text(prompt))
	if err != nil {
		return ContentResponse{}, fmt.Errorf("failed to generate content: %w", err)
	}

	if len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil || len(resp.Candidates[0].Content.Parts) == 0 {
		return ContentResponse{}, fmt.Errorf("no content generated")
	}

	var sb strings.Builder
	for _, part := range resp.Candidates[0].Content.Parts {
		if text, ok := part.(genai.Text); ok {
			sb.WriteString(string(text))
		}
	}
	if sb.Len() == 0 {
		return ContentResponse{}, fmt.Errorf("generated content is not text")
	}

	usage := shared.TokenUsage{Model: c.modelName}
	if md := resp.UsageMetadata; md != nil {
		usage.PromptTokens = int(md.PromptTokenCount)
		usage.CompletionTokens = int(md.CandidatesTokenCount)
		usage.TotalTokens = int(md.TotalTokenCount)
	}

	return ContentResponse{Content: sb.String(), Usage: usage}, nil
}

// Close closes the underlying Gemini client.
func (c *GeminiClient) Close() error {
	return c.client.Close()
}

func toGeminiSchema(s *Schema) *genai.Schema {
	if s == nil {
		return nil
	}
	out := &genai.Schema{
		Type:        geminiType(s.Type),
		Description: s.Description,
		Items:       toGeminiSchema(s.Items),
		Required:    s.Required,
	}
	if len(s.Properties) > 0 {
		out.Properties = make(map[string]*genai.Schema, len(s.Properties))
		for name, p := range s.Properties {
			out.Properties[name] = toGeminiSchema(p)
		}
	}
	return out
}

func geminiType(t SchemaType) genai.Type {
	switch t {
	case TypeString:
		return genai.TypeString
	case TypeNumber:
		return genai.TypeNumber
	case TypeInteger:
		return genai.TypeInteger
	case TypeBoolean:
		return genai.TypeBoolean
	case TypeArray:
		return genai.TypeArray
	case TypeObject:
		return genai.TypeObject
	}
	return genai.TypeUnspecified
}
