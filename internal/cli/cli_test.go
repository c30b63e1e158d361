package cli

import (
	"bytes"
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"regexp"
	"testing"

	"triply/internal/app"
	"triply/internal/config"
	"triply/internal/database"
	"triply/internal/itinerary"
	"triply/internal/metrics"
	"triply/internal/planner"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeGateway struct{}

func (fakeGateway) GenerateFull(ctx context.Context, req planner.TripRequest) (itinerary.Itinerary, error) {
	return itinerary.Itinerary{{
		Day:     1,
		Date:    req.Arrival,
		Morning: []itinerary.Activity{{Name: "Colosseum", Description: "Ancient arena", Duration: "2 hours", Rating: "4.8 stars"}},
		Evening: []itinerary.Activity{{Name: "Trastevere", Duration: "90 mins"}},
		Dining:  []itinerary.DiningSuggestion{{Name: "Roscioli"}},
	}}, nil
}

func (fakeGateway) GenerateReplacements(ctx context.Context, destination string, liked []string, count int) ([]itinerary.Activity, error) {
	out := make([]itinerary.Activity, count)
	for i := range out {
		out[i] = itinerary.Activity{Name: fmt.Sprintf("Rerolled %d", i+1), Duration: "1 hour"}
	}
	return out, nil
}

func testOpener(t *testing.T) Opener {
	t.Helper()
	covers := httptest.NewServer(http.NotFoundHandler())
	t.Cleanup(covers.Close)
	cfg := &config.Config{
		DatabasePath:   filepath.Join(t.TempDir(), "triply.db"),
		CoverLookupURL: covers.URL,
	}
	return func(ctx context.Context) (*app.App, error) {
		db, err := database.NewDB(cfg.DatabasePath)
		if err != nil {
			return nil, err
		}
		return app.NewApp(cfg, nil, db, fakeGateway{}, nil), nil
	}
}

func run(t *testing.T, open Opener, args ...string) (string, error) {
	t.Helper()
	cmd := NewRootCmd(open)
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(args)
	err := cmd.ExecuteContext(context.Background())
	return out.String(), err
}

var tripIDPattern = regexp.MustCompile(`Trip (\w+):`)

func TestCLI_PlanCheckReroll(t *testing.T) {
	open := testOpener(t)

	out, err := run(t, open, "plan", "Rome,", "Italy", "--arrive", "2024-06-01", "--depart", "2024-06-01")
	require.NoError(t, err)
	assert.Contains(t, out, "Rome, Italy, 2024-06-01 to 2024-06-01 (1 day)")
	assert.Contains(t, out, "Day 1: Saturday, June 1, 2024")
	assert.Regexp(t, `\[ \] 0-morning-0\s+10:00 AM  Colosseum \(2 hours\) ★ 4.8 stars`, out)
	assert.Regexp(t, `\[ \] 0-evening-0\s+12:00 PM  Trastevere`, out)
	m := tripIDPattern.FindStringSubmatch(out)
	require.Len(t, m, 2)
	id := m[1]

	out, err = run(t, open, "check", id, "0-morning-0")
	require.NoError(t, err)
	assert.Equal(t, "Checked 1 item. 1 kept in total.\n", out)

	out, err = run(t, open, "reroll", id)
	require.NoError(t, err)
	assert.Contains(t, out, "Replaced 1 activity.")
	assert.Regexp(t, `\[x\] 0-morning-0\s+10:00 AM  Colosseum`, out)
	assert.Regexp(t, `\[ \] 0-evening-0\s+12:00 PM  Rerolled 1`, out)

	out, err = run(t, open, "check", "--uncheck", id, "0-morning-0")
	require.NoError(t, err)
	assert.Equal(t, "Unchecked 1 item. 0 kept in total.\n", out)

	out, err = run(t, open, "history")
	require.NoError(t, err)
	assert.Contains(t, out, id)
	assert.Contains(t, out, "Rome, Italy")

	out, err = run(t, open, "history", "--owner", "someone-else")
	require.NoError(t, err)
	assert.Equal(t, "No trips yet\n", out)
}

func TestCLI_RerollNothingUnchecked(t *testing.T) {
	open := testOpener(t)

	out, err := run(t, open, "plan", "Rome", "--arrive", "2024-06-01", "--depart", "2024-06-01")
	require.NoError(t, err)
	id := tripIDPattern.FindStringSubmatch(out)[1]

	_, err = run(t, open, "check", id, "0-morning-0", "0-evening-0")
	require.NoError(t, err)

	_, err = run(t, open, "reroll", id)
	require.Error(t, err)
	assert.Equal(t, "Please uncheck some activities to reroll!", UserMessage(err))
}

func TestCLI_PlanValidation(t *testing.T) {
	_, err := run(t, testOpener(t), "plan", "Rome", "--arrive", "2024-06-03", "--depart", "2024-06-01")
	require.Error(t, err)
	assert.Equal(t, "Departure date must be after the arrival date.", UserMessage(err))
}

func TestCLI_Export(t *testing.T) {
	open := testOpener(t)
	out, err := run(t, open, "plan", "Rome", "--arrive", "2024-06-01", "--depart", "2024-06-01")
	require.NoError(t, err)
	id := tripIDPattern.FindStringSubmatch(out)[1]

	path := filepath.Join(t.TempDir(), "rome.ics")
	out, err = run(t, open, "export", id, "--out", path)
	require.NoError(t, err)
	assert.Contains(t, out, path)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "SUMMARY:Colosseum")

	out, err = run(t, open, "export", id, "-o", "-")
	require.NoError(t, err)
	assert.Contains(t, out, "BEGIN:VCALENDAR")
}

func TestCLI_ShowMissingAndPublishDisabled(t *testing.T) {
	open := testOpener(t)

	_, err := run(t, open, "show", "nope")
	assert.ErrorIs(t, err, app.ErrTripNotFound)

	_, err = run(t, open, "publish", "nope")
	assert.ErrorIs(t, err, app.ErrPublishingDisabled)
}

func TestCLI_Metrics(t *testing.T) {
	open := testOpener(t)

	out, err := run(t, open, "metrics")
	require.NoError(t, err)
	assert.Equal(t, "No data yet\n", out)

	out, err = run(t, open, "metrics-cleanup", "--days", "1")
	require.NoError(t, err)
	assert.Equal(t, "Removed 0 usage records.\n", out)
}

func TestCLI_Delete(t *testing.T) {
	open := testOpener(t)

	out, err := run(t, open, "plan", "Lisbon", "--arrive", "2024-06-01", "--depart", "2024-06-02")
	require.NoError(t, err)
	m := tripIDPattern.FindStringSubmatch(out)
	require.Len(t, m, 2)

	out, err = run(t, open, "delete", m[1])
	require.NoError(t, err)
	assert.Equal(t, "Deleted trip "+m[1]+"\n", out)

	_, err = run(t, open, "delete", m[1])
	assert.ErrorIs(t, err, app.ErrTripNotFound)

	out, err = run(t, open, "history")
	require.NoError(t, err)
	assert.Contains(t, out, "No trips yet")
}

func TestWriteUsage(t *testing.T) {
	var out bytes.Buffer
	writeUsage(&out,
		[]metrics.DailyUsage{{Date: "2024-06-02", PromptTokens: 1200, CompletionTokens: 3400, Calls: 3, Rerolls: 1}},
		[]metrics.DestinationCount{{Destination: "Rome, Italy", Plans: 2}},
	)
	assert.Equal(t, "2024-06-02  1,200 prompt + 3,400 completion tokens (3 calls, 1 reroll)\n"+
		"\nMost planned:\n"+
		"  1. Rome, Italy (2)\n", out.String())
}
