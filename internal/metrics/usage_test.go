package metrics

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"triply/internal/database"
	"triply/internal/shared"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	db, err := database.NewDB(filepath.Join(t.TempDir(), "metrics.db"))
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return NewStore(db.SQL)
}

func usage(prompt, completion int) shared.TokenUsage {
	return shared.TokenUsage{PromptTokens: prompt, CompletionTokens: completion, Model: "gemini-2.5-flash"}
}

func TestStore_RecordAndDailyUsage(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)

	require.NoError(t, s.Record(ctx, shared.CallMeta{
		Operation:   shared.OpItinerary,
		Destination: "Rome, Italy",
		Usage:       usage(120, 800),
		Latency:     2 * time.Second,
	}))
	require.NoError(t, s.Record(ctx, shared.CallMeta{
		Operation:   shared.OpReroll,
		Destination: "Rome, Italy",
		Usage:       usage(80, 200),
	}))
	// No accounting, not recorded.
	require.NoError(t, s.Record(ctx, shared.CallMeta{Operation: shared.OpReroll}))

	days, err := s.DailyUsage(ctx, 1)
	require.NoError(t, err)
	require.Len(t, days, 1)
	assert.Equal(t, time.Now().UTC().Format("2006-01-02"), days[0].Date)
	assert.Equal(t, 200, days[0].PromptTokens)
	assert.Equal(t, 1000, days[0].CompletionTokens)
	assert.Equal(t, 1200, days[0].Tokens())
	assert.Equal(t, 2, days[0].Calls)
	assert.Equal(t, 1, days[0].Rerolls)
}

func TestStore_TopDestinations(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)

	for _, dest := range []string{"Rome, Italy", "Kyoto, Japan", "Rome, Italy", "Paris, France", "Kyoto, Japan", "Rome, Italy"} {
		require.NoError(t, s.Record(ctx, shared.CallMeta{Operation: shared.OpItinerary, Destination: dest, Usage: usage(1, 1)}))
	}
	// Rerolls do not count as plans.
	require.NoError(t, s.Record(ctx, shared.CallMeta{Operation: shared.OpReroll, Destination: "Paris, France", Usage: usage(1, 1)}))

	top, err := s.TopDestinations(ctx, 7, 2)
	require.NoError(t, err)
	assert.Equal(t, []DestinationCount{
		{Destination: "Rome, Italy", Plans: 3},
		{Destination: "Kyoto, Japan", Plans: 2},
	}, top)
}

func TestStore_Prune(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)

	old := shared.CallMeta{Operation: shared.OpItinerary, Usage: usage(1, 0)}
	require.NoError(t, s.insert(ctx, old, time.Now().AddDate(0, 0, -40)))
	require.NoError(t, s.Record(ctx, old))

	n, err := s.Prune(ctx, 30)
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)

	days, err := s.DailyUsage(ctx, 60)
	require.NoError(t, err)
	require.Len(t, days, 1)
	assert.Equal(t, 1, days[0].Calls)
}

func TestReadHealth(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(dir, "sub"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "a.bin"), make([]byte, 1024), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "sub", "b.bin"), make([]byte, 1024), 0o644))

	h := ReadHealth(dir)
	assert.Equal(t, uint64(2048), h.DataBytes)
	assert.Equal(t, "2.0 KiB", h.DataSize())
	assert.Positive(t, h.Goroutines)
	assert.NotEmpty(t, h.Heap())
}
