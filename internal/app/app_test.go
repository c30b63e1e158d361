package app

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"

	"triply/internal/config"
	"triply/internal/database"
	"triply/internal/ghost"
	"triply/internal/itinerary"
	"triply/internal/planner"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeGateway struct {
	empty     bool
	rerollErr error
	liked     []string
}

func (g *fakeGateway) GenerateFull(ctx context.Context, req planner.TripRequest) (itinerary.Itinerary, error) {
	if g.empty {
		return nil, nil
	}
	var it itinerary.Itinerary
	for d := 0; d < req.Days; d++ {
		it = append(it, itinerary.DayPlan{
			Day:       d + 1,
			Date:      fmt.Sprintf("2024-06-%02d", d+1),
			Morning:   []itinerary.Activity{{Name: fmt.Sprintf("Museum %d", d+1), Duration: "2 hours"}},
			Afternoon: []itinerary.Activity{{Name: fmt.Sprintf("Park %d", d+1), Duration: "1 hour"}},
			Dining:    []itinerary.DiningSuggestion{{Name: fmt.Sprintf("Trattoria %d", d+1)}},
		})
	}
	return it, nil
}

func (g *fakeGateway) GenerateReplacements(ctx context.Context, destination string, liked []string, count int) ([]itinerary.Activity, error) {
	g.liked = liked
	if g.rerollErr != nil {
		return nil, g.rerollErr
	}
	out := make([]itinerary.Activity, count)
	for i := range out {
		out[i] = itinerary.Activity{Name: fmt.Sprintf("New %d", i+1), Duration: "45 mins"}
	}
	return out, nil
}

type fakePublisher struct {
	publish bool
	html    string
}

func (p *fakePublisher) CreatePost(ctx context.Context, d ghost.Draft) (*ghost.Post, error) {
	p.publish, p.html = d.Publish, d.HTML
	return &ghost.Post{ID: "post-1", Title: d.Title, URL: "https://blog.example/p/"}, nil
}

func newTestApp(t *testing.T, gw planner.Gateway, pub ghost.Publisher) *App {
	t.Helper()
	covers := httptest.NewServer(http.NotFoundHandler())
	t.Cleanup(covers.Close)

	cfg := &config.Config{
		DatabasePath:   filepath.Join(t.TempDir(), "triply.db"),
		CoverLookupURL: covers.URL,
	}
	db, err := database.NewDB(cfg.DatabasePath)
	require.NoError(t, err)
	a := NewApp(cfg, nil, db, gw, pub)
	t.Cleanup(func() { a.Close() })
	return a
}

func TestApp_PlanTrip(t *testing.T) {
	a := newTestApp(t, &fakeGateway{}, nil)
	ctx := context.Background()

	tr, err := a.PlanTrip(ctx, "cli", "Rome", "2024-06-01", "2024-06-03")
	require.NoError(t, err)
	assert.NotEmpty(t, tr.ID)
	assert.Equal(t, 3, tr.Days)
	assert.Len(t, tr.Itinerary, 3)

	got, err := a.GetTrip(ctx, tr.ID)
	require.NoError(t, err)
	assert.Equal(t, tr.Itinerary, got.Itinerary)

	history, err := a.History(ctx, "cli", 10)
	require.NoError(t, err)
	require.Len(t, history, 1)
	assert.Equal(t, tr.ID, history[0].ID)
}

func TestApp_PlanTripErrors(t *testing.T) {
	a := newTestApp(t, &fakeGateway{empty: true}, nil)
	ctx := context.Background()

	_, err := a.PlanTrip(ctx, "cli", "Rome", "2024-06-03", "2024-06-01")
	var verr *planner.ValidationError
	require.ErrorAs(t, err, &verr)

	_, err = a.PlanTrip(ctx, "cli", "Rome", "2024-06-01", "2024-06-02")
	assert.ErrorIs(t, err, ErrEmptyItinerary)

	history, err := a.History(ctx, "cli", 10)
	require.NoError(t, err)
	assert.Empty(t, history)
}

func TestApp_GetTripNotFound(t *testing.T) {
	a := newTestApp(t, &fakeGateway{}, nil)

	_, err := a.GetTrip(context.Background(), "missing")
	assert.ErrorIs(t, err, ErrTripNotFound)
}

func TestApp_SetCheckedAndReroll(t *testing.T) {
	gw := &fakeGateway{}
	a := newTestApp(t, gw, nil)
	ctx := context.Background()

	tr, err := a.PlanTrip(ctx, "cli", "Rome", "2024-06-01", "2024-06-02")
	require.NoError(t, err)

	tr, err = a.SetChecked(ctx, tr.ID, []string{"0-morning-0", "1-afternoon-0"}, true)
	require.NoError(t, err)
	assert.Len(t, tr.Checked, 2)

	_, err = a.SetChecked(ctx, tr.ID, []string{"5-morning-0"}, true)
	var aerr *itinerary.AddressError
	require.ErrorAs(t, err, &aerr)

	tr, res, err := a.RerollTrip(ctx, tr.ID)
	require.NoError(t, err)
	assert.Equal(t, []string{"Museum 1", "Park 2"}, gw.liked)
	assert.Len(t, res.Replaced, 2)
	assert.Equal(t, "Museum 1", tr.Itinerary[0].Morning[0].Name)
	assert.Equal(t, "New 1", tr.Itinerary[0].Afternoon[0].Name)
	assert.Equal(t, "New 2", tr.Itinerary[1].Morning[0].Name)
	assert.Equal(t, "Trattoria 1", tr.Itinerary[0].Dining[0].Name)

	stored, err := a.GetTrip(ctx, tr.ID)
	require.NoError(t, err)
	assert.Equal(t, tr.Itinerary, stored.Itinerary)
	assert.Len(t, stored.Checked, 2)
}

func TestApp_RerollFailureLeavesTripUnchanged(t *testing.T) {
	gw := &fakeGateway{}
	a := newTestApp(t, gw, nil)
	ctx := context.Background()

	tr, err := a.PlanTrip(ctx, "cli", "Rome", "2024-06-01", "2024-06-01")
	require.NoError(t, err)

	gw.rerollErr = errors.New("quota exceeded")
	_, _, err = a.RerollTrip(ctx, tr.ID)
	var gerr *planner.GatewayError
	require.ErrorAs(t, err, &gerr)

	stored, err := a.GetTrip(ctx, tr.ID)
	require.NoError(t, err)
	assert.Equal(t, tr.Itinerary, stored.Itinerary)
}

func TestApp_ExportCalendar(t *testing.T) {
	a := newTestApp(t, &fakeGateway{}, nil)
	ctx := context.Background()

	tr, err := a.PlanTrip(ctx, "cli", "Rome", "2024-06-01", "2024-06-01")
	require.NoError(t, err)

	ics, _, err := a.ExportCalendar(ctx, tr.ID)
	require.NoError(t, err)
	assert.Contains(t, ics, "SUMMARY:Museum 1")
	assert.Contains(t, ics, "DTSTART:20240601T100000Z")
	assert.Contains(t, ics, "DTSTART:20240601T120000Z")
}

func TestApp_PublishTrip(t *testing.T) {
	ctx := context.Background()

	a := newTestApp(t, &fakeGateway{}, nil)
	_, err := a.PublishTrip(ctx, "any", true)
	assert.ErrorIs(t, err, ErrPublishingDisabled)

	pub := &fakePublisher{}
	a = newTestApp(t, &fakeGateway{}, pub)
	tr, err := a.PlanTrip(ctx, "cli", "Rome", "2024-06-01", "2024-06-01")
	require.NoError(t, err)

	post, err := a.PublishTrip(ctx, tr.ID, false)
	require.NoError(t, err)
	assert.Equal(t, "Trip to Rome", post.Title)
	assert.False(t, pub.publish)
	assert.Contains(t, pub.html, "Museum 1")
	assert.NotContains(t, pub.html, "<img")
}
