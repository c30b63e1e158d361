package planner

import (
	"bytes"
	"context"
	_ "embed"
	"encoding/json"
	"fmt"
	"strings"
	"text/template"
	"time"

	"triply/internal/itinerary"
	"triply/internal/llm"
	"triply/internal/shared"

	"go.uber.org/zap"
)

//go:embed itinerary_prompt.md
var itineraryPrompt string

//go:embed reroll_prompt.md
var rerollPrompt string

var (
	itineraryTmpl = template.Must(template.New("itinerary").Parse(itineraryPrompt))
	rerollTmpl    = template.Must(template.New("reroll").Parse(rerollPrompt))
)

// defaultLiked stands in for the liked-activities signal when nothing is checked.
const defaultLiked = "general tourist activities"

// Gateway is the remote itinerary generator.
type Gateway interface {
	GenerateFull(ctx context.Context, req TripRequest) (itinerary.Itinerary, error)
	// GenerateReplacements returns at least count activities on success.
	GenerateReplacements(ctx context.Context, destination string, liked []string, count int) ([]itinerary.Activity, error)
}

// UsageRecorder receives the accounting of every LLM call.
type UsageRecorder interface {
	Record(ctx context.Context, call shared.CallMeta) error
}

// Generator is the LLM-backed Gateway.
type Generator struct {
	textGen  llm.TextGenerator
	recorder UsageRecorder
	logger   *zap.Logger
}

// NewGenerator creates a Generator. recorder and logger may be nil.
func NewGenerator(textGen llm.TextGenerator, recorder UsageRecorder, logger *zap.Logger) *Generator {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Generator{textGen: textGen, recorder: recorder, logger: logger}
}

var activitySchema = &llm.Schema{
	Type: llm.TypeObject,
	Properties: map[string]*llm.Schema{
		"name":        {Type: llm.TypeString, Description: "The specific name of the establishment or landmark."},
		"description": {Type: llm.TypeString, Description: "A brief description of the activity."},
		"duration":    {Type: llm.TypeString, Description: `Approximate duration (e.g., "2 hours", "30 mins").`},
		"rating":      {Type: llm.TypeString, Description: `The Google Reviews rating (e.g., "4.7 stars").`},
	},
	Required: []string{"name", "description", "duration", "rating"},
}

var diningSchema = &llm.Schema{
	Type: llm.TypeObject,
	Properties: map[string]*llm.Schema{
		"name":        {Type: llm.TypeString, Description: "The specific name of the restaurant."},
		"description": {Type: llm.TypeString, Description: "A brief, one-sentence description of the restaurant."},
		"rating":      {Type: llm.TypeString, Description: `The Google Reviews rating (e.g., "4.5 stars").`},
	},
	Required: []string{"name", "description", "rating"},
}

var itinerarySchema = &llm.Schema{
	Type: llm.TypeObject,
	Properties: map[string]*llm.Schema{
		"days": {
			Type:        llm.TypeArray,
			Description: "A list of daily itinerary plans.",
			Items: &llm.Schema{
				Type: llm.TypeObject,
				Properties: map[string]*llm.Schema{
					"day":       {Type: llm.TypeInteger},
					"date":      {Type: llm.TypeString},
					"morning":   {Type: llm.TypeArray, Description: "List of morning activities.", Items: activitySchema},
					"afternoon": {Type: llm.TypeArray, Description: "List of afternoon activities.", Items: activitySchema},
					"evening":   {Type: llm.TypeArray, Description: "List of evening activities.", Items: activitySchema},
					"dining":    {Type: llm.TypeArray, Description: "Dining suggestions for the entire day.", Items: diningSchema},
				},
				Required: []string{"day", "date", "morning", "afternoon", "evening", "dining"},
			},
		},
	},
	Required: []string{"days"},
}

var suggestionsSchema = &llm.Schema{
	Type: llm.TypeObject,
	Properties: map[string]*llm.Schema{
		"suggestions": {Type: llm.TypeArray, Items: activitySchema},
	},
	Required: []string{"suggestions"},
}

// GenerateFull asks the model for a complete itinerary.
func (g *Generator) GenerateFull(ctx context.Context, req TripRequest) (itinerary.Itinerary, error) {
	prompt, err := render(itineraryTmpl, req)
	if err != nil {
		return nil, err
	}

	content, err := g.generate(ctx, shared.OpItinerary, req.Destination, prompt, itinerarySchema)
	if err != nil {
		return nil, err
	}

	days, err := decodeList[itinerary.DayPlan](content, "days")
	if err != nil {
		return nil, fmt.Errorf("failed to parse itinerary response: %w. Response: %s", err, content)
	}
	return itinerary.Itinerary(days), nil
}

// GenerateReplacements asks the model for count new activities in the style
// of the liked ones.
func (g *Generator) GenerateReplacements(ctx context.Context, destination string, liked []string, count int) ([]itinerary.Activity, error) {
	likedText := strings.Join(liked, ", ")
	if likedText == "" {
		likedText = defaultLiked
	}

	prompt, err := render(rerollTmpl, struct {
		Destination string
		Liked       string
		Count       int
	}{destination, likedText, count})
	if err != nil {
		return nil, err
	}

	content, err := g.generate(ctx, shared.OpReroll, destination, prompt, suggestionsSchema)
	if err != nil {
		return nil, err
	}

	acts, err := decodeList[itinerary.Activity](content, "suggestions")
	if err != nil {
		return nil, fmt.Errorf("failed to parse reroll response: %w. Response: %s", err, content)
	}
	return acts, nil
}

func (g *Generator) generate(ctx context.Context, op shared.Operation, destination, prompt string, schema *llm.Schema) (string, error) {
	start := time.Now()
	resp, err := g.textGen.GenerateContent(ctx, prompt, schema)
	if err != nil {
		return "", err
	}

	call := shared.CallMeta{Operation: op, Destination: destination, Usage: resp.Usage, Latency: time.Since(start)}
	g.logger.Info("llm call finished",
		zap.String("operation", string(op)),
		zap.String("destination", destination),
		zap.String("model", resp.Usage.Model),
		zap.Int("prompt_tokens", resp.Usage.PromptTokens),
		zap.Int("completion_tokens", resp.Usage.CompletionTokens),
		zap.Duration("latency", call.Latency),
	)
	if g.recorder != nil {
		if err := g.recorder.Record(ctx, call); err != nil {
			g.logger.Warn("failed to record llm usage", zap.String("operation", string(op)), zap.Error(err))
		}
	}
	return resp.Content, nil
}

func render(tmpl *template.Template, data any) (string, error) {
	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, data); err != nil {
		return "", err
	}
	return buf.String(), nil
}

// decodeList reads a list either wrapped in an object under field or as a
// bare JSON array. Markdown code fences around the payload are ignored.
func decodeList[T any](content, field string) ([]T, error) {
	content = stripFences(content)

	var out []T
	if strings.HasPrefix(content, "[") {
		if err := json.Unmarshal([]byte(content), &out); err != nil {
			return nil, err
		}
		return out, nil
	}

	var wrapper map[string]json.RawMessage
	if err := json.Unmarshal([]byte(content), &wrapper); err != nil {
		return nil, err
	}
	raw, ok := wrapper[field]
	if !ok {
		return nil, fmt.Errorf("response has no %q field", field)
	}
	if err := json.Unmarshal(raw, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func stripFences(s string) string {
	s = strings.TrimSpace(s)
	if !strings.HasPrefix(s, "```") {
		return s
	}
	if i := strings.Index(s, "\n"); i >= 0 {
		s = s[i+1:]
	} else {
		s = strings.TrimPrefix(s, "```")
	}
	s = strings.TrimSuffix(strings.TrimSpace(s), "```")
	return strings.TrimSpace(s)
}
