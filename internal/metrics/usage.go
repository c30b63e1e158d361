// Package metrics keeps the LLM usage ledger and reports process health for
// the admin views.
package metrics

import (
	"context"
	"database/sql"
	"time"

	"triply/internal/metrics/metricsdb"
	"triply/internal/shared"
)

// Store is the sqlite-backed usage ledger.
type Store struct {
	queries *metricsdb.Queries
	now     func() time.Time
}

func NewStore(db *sql.DB) *Store {
	return &Store{queries: metricsdb.New(db), now: time.Now}
}

// Record appends one LLM call to the ledger. Calls whose provider reported
// no token usage are dropped.
func (s *Store) Record(ctx context.Context, call shared.CallMeta) error {
	if call.Usage.Empty() {
		return nil
	}
	return s.insert(ctx, call, s.now())
}

func (s *Store) insert(ctx context.Context, call shared.CallMeta, at time.Time) error {
	return s.queries.InsertLLMCall(ctx, metricsdb.InsertLLMCallParams{
		Operation:        string(call.Operation),
		Destination:      call.Destination,
		Model:            call.Usage.Model,
		PromptTokens:     int64(call.Usage.PromptTokens),
		CompletionTokens: int64(call.Usage.CompletionTokens),
		LatencyMs:        call.Latency.Milliseconds(),
		CreatedAt:        at.UTC(),
	})
}

// DailyUsage sums one UTC day of the ledger.
type DailyUsage struct {
	Date             string
	PromptTokens     int
	CompletionTokens int
	Calls            int
	Rerolls          int
}

// Tokens is the prompt plus completion total.
func (d DailyUsage) Tokens() int { return d.PromptTokens + d.CompletionTokens }

// DailyUsage returns per-day totals for the last days days, newest first.
func (s *Store) DailyUsage(ctx context.Context, days int) ([]DailyUsage, error) {
	rows, err := s.queries.GetDailyUsage(ctx, s.since(days))
	if err != nil {
		return nil, err
	}

	out := make([]DailyUsage, 0, len(rows))
	for _, r := range rows {
		day, _ := r.Day.(string)
		out = append(out, DailyUsage{
			Date:             day,
			PromptTokens:     int(r.TotalPrompt.Float64),
			CompletionTokens: int(r.TotalCompletion.Float64),
			Calls:            int(r.Calls),
			Rerolls:          int(r.Rerolls.Float64),
		})
	}
	return out, nil
}

// DestinationCount is how many itineraries were generated for a destination.
type DestinationCount struct {
	Destination string
	Plans       int
}

// TopDestinations ranks destinations by generated itineraries over the last
// days days.
func (s *Store) TopDestinations(ctx context.Context, days, limit int) ([]DestinationCount, error) {
	rows, err := s.queries.GetTopDestinations(ctx, metricsdb.GetTopDestinationsParams{
		CreatedAt: s.since(days),
		Limit:     int64(limit),
	})
	if err != nil {
		return nil, err
	}
	out := make([]DestinationCount, len(rows))
	for i, r := range rows {
		out[i] = DestinationCount{Destination: r.Destination, Plans: int(r.Plans)}
	}
	return out, nil
}

// Prune deletes ledger entries older than keepDays and returns how many
// were removed.
func (s *Store) Prune(ctx context.Context, keepDays int) (int64, error) {
	return s.queries.DeleteLLMCallsBefore(ctx, s.since(keepDays))
}

func (s *Store) since(days int) time.Time {
	return s.now().UTC().AddDate(0, 0, -days)
}
