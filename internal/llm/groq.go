package llm

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"triply/internal/config"
	"triply/internal/shared"
)

const (
	groqAPIURL = "https://api.groq.com/openai/v1/chat/completions"
	// DefaultGroqModel is used when no model is configured.
	DefaultGroqModel = "llama-3.3-70b-versatile"

	jsonSystemPrompt = "You are a travel planning assistant. Reply with a single JSON document that matches this JSON schema and nothing else:\n"
)

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type responseFormat struct {
	Type string `json:"type"`
}

type chatRequest struct {
	Model          string          `json:"model"`
	Messages       []chatMessage   `json:"messages"`
	Temperature    float32         `json:"temperature"`
	ResponseFormat *responseFormat `json:"response_format,omitempty"`
}

type chatResponse struct {
	Model   string `json:"model"`
	Choices []struct {
		Message      chatMessage `json:"message"`
		FinishReason string      `json:"finish_reason"`
	} `json:"choices"`
	Usage struct {
		PromptTokens     int `json:"prompt_tokens"`
		CompletionTokens int `json:"completion_tokens"`
		TotalTokens      int `json:"total_tokens"`
	} `json:"usage"`
}

// GroqClient calls Groq's OpenAI-compatible chat completions endpoint.
type GroqClient struct {
	apiKey      string
	url         string
	model       string
	temperature float32
	httpClient  *http.Client
}

func NewGroqClient(cfg *config.Config) *GroqClient {
	c := &GroqClient{
		apiKey:      cfg.GroqAPIKey,
		url:         cfg.GroqURL,
		model:       cfg.GroqModel,
		temperature: cfg.Temperature,
		httpClient:  &http.Client{Timeout: 60 * time.Second},
	}
	if c.url == "" {
		c.url = groqAPIURL
	}
	if c.model == "" {
		c.model = DefaultGroqModel
	}
	return c
}

// GenerateContent sends prompt as a single user turn. With a schema the
// request uses json_object mode, which every Groq chat model accepts, and
// the schema itself travels in the system turn.
func (c *GroqClient) GenerateContent(ctx context.Context, prompt string, schema *Schema) (ContentResponse, error) {
	body := chatRequest{
		Model:       c.model,
		Temperature: c.temperature,
	}
	if schema != nil {
		rawSchema, err := json.Marshal(schema.JSONSchema())
		if err != nil {
			return ContentResponse{}, fmt.Errorf("failed to encode response schema: %w", err)
		}
		body.Messages = append(body.Messages, chatMessage{Role: "system", Content: jsonSystemPrompt + string(rawSchema)})
		body.ResponseFormat = &responseFormat{Type: "json_object"}
	}
	body.Messages = append(body.Messages, chatMessage{Role: "user", Content: prompt})

	payload, err := json.Marshal(body)
	if err != nil {
		return ContentResponse{}, fmt.Errorf("failed to encode groq request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.url, bytes.NewReader(payload))
	if err != nil {
		return ContentResponse{}, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.apiKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return ContentResponse{}, fmt.Errorf("failed to reach groq: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		raw, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return ContentResponse{}, fmt.Errorf("groq: status %d: %s", resp.StatusCode, strings.TrimSpace(string(raw)))
	}

	var out chatResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return ContentResponse{}, fmt.Errorf("failed to decode groq response: %w", err)
	}
	if len(out.Choices) == 0 {
		return ContentResponse{}, fmt.Errorf("groq returned no choices")
	}
	choice := out.Choices[0]
	if choice.FinishReason == "length" {
		return ContentResponse{}, fmt.Errorf("groq response was cut off at the token limit")
	}

	model := out.Model
	if model == "" {
		model = c.model
	}
	return ContentResponse{
		Content: choice.Message.Content,
		Usage: shared.TokenUsage{
			PromptTokens:     out.Usage.PromptTokens,
			CompletionTokens: out.Usage.CompletionTokens,
			TotalTokens:      out.Usage.TotalTokens,
			Model:            model,
		},
	}, nil
}
