package planner

import (
	"context"
	"errors"
	"strings"
	"testing"

	"triply/internal/llm"
	"triply/internal/shared"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type MockTextGenerator struct {
	content string
	err     error
	prompts []string
	schemas []*llm.Schema
}

func (m *MockTextGenerator) GenerateContent(ctx context.Context, prompt string, schema *llm.Schema) (llm.ContentResponse, error) {
	m.prompts = append(m.prompts, prompt)
	m.schemas = append(m.schemas, schema)
	if m.err != nil {
		return llm.ContentResponse{}, m.err
	}
	return llm.ContentResponse{
		Content: m.content,
		Usage:   shared.TokenUsage{PromptTokens: 100, CompletionTokens: 50, Model: "mock"},
	}, nil
}

type recorderStub struct {
	calls []shared.CallMeta
}

func (r *recorderStub) Record(ctx context.Context, call shared.CallMeta) error {
	r.calls = append(r.calls, call)
	return nil
}

func TestGenerator_GenerateFull(t *testing.T) {
	textGen := &MockTextGenerator{content: `{"days": [
		{"day": 1, "date": "2024-06-01",
		 "morning": [{"name": "Colosseum", "description": "Ancient arena", "duration": "2 hours", "rating": "4.8 stars"}],
		 "afternoon": [], "evening": [],
		 "dining": [{"name": "Roscioli", "description": "Carbonara", "rating": "4.6 stars"}]}
	]}`}
	rec := &recorderStub{}
	g := NewGenerator(textGen, rec, nil)

	it, err := g.GenerateFull(context.Background(), TripRequest{Destination: "Rome", Arrival: "2024-06-01", Departure: "2024-06-03", Days: 3})

	require.NoError(t, err)
	require.Len(t, it, 1)
	assert.Equal(t, "Colosseum", it[0].Morning[0].Name)
	assert.Equal(t, "Roscioli", it[0].Dining[0].Name)

	require.Len(t, textGen.prompts, 1)
	prompt := textGen.prompts[0]
	assert.Contains(t, prompt, "3-day trip to Rome")
	assert.Contains(t, prompt, "starting on 2024-06-01 and ending on 2024-06-03")
	assert.Same(t, itinerarySchema, textGen.schemas[0])

	require.Len(t, rec.calls, 1)
	assert.Equal(t, shared.OpItinerary, rec.calls[0].Operation)
	assert.Equal(t, "Rome", rec.calls[0].Destination)
	assert.Equal(t, 100, rec.calls[0].Usage.PromptTokens)
}

func TestGenerator_GenerateFullAcceptsBareArrayInFences(t *testing.T) {
	textGen := &MockTextGenerator{content: "```json\n[{\"day\": 1, \"date\": \"2024-06-01\", \"morning\": [{\"name\": \"A\"}]}]\n```"}
	g := NewGenerator(textGen, nil, nil)

	it, err := g.GenerateFull(context.Background(), TripRequest{Destination: "Rome", Days: 1})

	require.NoError(t, err)
	require.Len(t, it, 1)
	assert.Equal(t, "A", it[0].Morning[0].Name)
}

func TestGenerator_GenerateFullErrors(t *testing.T) {
	t.Run("TransportError", func(t *testing.T) {
		g := NewGenerator(&MockTextGenerator{err: errors.New("401")}, nil, nil)
		_, err := g.GenerateFull(context.Background(), TripRequest{Destination: "Rome"})
		assert.EqualError(t, err, "401")
	})
	t.Run("MalformedJSON", func(t *testing.T) {
		g := NewGenerator(&MockTextGenerator{content: "Sure! Here is your trip"}, nil, nil)
		_, err := g.GenerateFull(context.Background(), TripRequest{Destination: "Rome"})
		require.Error(t, err)
		assert.Contains(t, err.Error(), "failed to parse itinerary response")
	})
	t.Run("MissingField", func(t *testing.T) {
		g := NewGenerator(&MockTextGenerator{content: `{"plan": []}`}, nil, nil)
		_, err := g.GenerateFull(context.Background(), TripRequest{Destination: "Rome"})
		require.Error(t, err)
		assert.Contains(t, err.Error(), `no "days" field`)
	})
}

func TestGenerator_GenerateReplacements(t *testing.T) {
	textGen := &MockTextGenerator{content: `{"suggestions": [
		{"name": "Borghese", "description": "Gallery", "duration": "2 hours", "rating": "4.8 stars"},
		{"name": "Aventine Keyhole", "description": "View", "duration": "20 mins", "rating": "4.6 stars"}
	]}`}
	rec := &recorderStub{}
	g := NewGenerator(textGen, rec, nil)

	acts, err := g.GenerateReplacements(context.Background(), "Rome", []string{"Colosseum", "Forum"}, 2)

	require.NoError(t, err)
	require.Len(t, acts, 2)
	assert.Equal(t, "Aventine Keyhole", acts[1].Name)
	assert.Contains(t, textGen.prompts[0], "trip to Rome")
	assert.Contains(t, textGen.prompts[0], "activities I like: Colosseum, Forum.")
	assert.Contains(t, textGen.prompts[0], "generate 2 new activity suggestions")
	assert.Same(t, suggestionsSchema, textGen.schemas[0])
	require.Len(t, rec.calls, 1)
	assert.Equal(t, shared.OpReroll, rec.calls[0].Operation)
}

func TestGenerator_GenerateReplacementsDefaultSignal(t *testing.T) {
	textGen := &MockTextGenerator{content: `{"suggestions": []}`}
	g := NewGenerator(textGen, nil, nil)

	_, err := g.GenerateReplacements(context.Background(), "Rome", nil, 3)

	require.NoError(t, err)
	assert.True(t, strings.Contains(textGen.prompts[0], "activities I like: general tourist activities."))
}
