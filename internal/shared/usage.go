// Package shared holds the LLM call accounting passed from the providers,
// through the planner, to the usage store.
package shared

import "time"

// Operation names the planner step an LLM call served.
type Operation string

const (
	OpItinerary Operation = "itinerary"
	OpReroll    Operation = "reroll"
)

// TokenUsage is the accounting a provider reports for one response.
type TokenUsage struct {
	PromptTokens     int
	CompletionTokens int
	TotalTokens      int
	Model            string
}

// Empty reports a response that came back without accounting.
func (u TokenUsage) Empty() bool {
	return u.PromptTokens == 0 && u.CompletionTokens == 0
}

// CallMeta describes one finished LLM call.
type CallMeta struct {
	Operation   Operation
	Destination string
	Usage       TokenUsage
	Latency     time.Duration
}
