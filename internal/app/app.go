package app

import (
	"context"
	"errors"
	"fmt"
	"io"

	"triply/internal/calendar"
	"triply/internal/config"
	"triply/internal/cover"
	"triply/internal/database"
	"triply/internal/ghost"
	"triply/internal/itinerary"
	"triply/internal/llm"
	"triply/internal/metrics"
	"triply/internal/planner"
	"triply/internal/trip"

	"go.uber.org/zap"
)

var (
	// ErrTripNotFound is returned for an unknown trip ID.
	ErrTripNotFound = errors.New("trip not found")
	// ErrPublishingDisabled is returned when Ghost is not configured.
	ErrPublishingDisabled = errors.New("publishing is not configured: set GHOST_API_URL and GHOST_ADMIN_API_KEY")
	// ErrEmptyItinerary is returned when the model produced no days.
	ErrEmptyItinerary = errors.New("no itinerary could be generated")
)

// App holds the application's dependencies.
type App struct {
	cfg       *config.Config
	logger    *zap.Logger
	db        *database.DB
	trips     *trip.Repository
	metrics   *metrics.Store
	gateway   planner.Gateway
	covers    *cover.Resolver
	publisher ghost.Publisher
	llmCloser io.Closer
}

// New wires every dependency from cfg: database, repositories, the LLM
// provider and the optional Ghost publisher.
func New(ctx context.Context, cfg *config.Config, logger *zap.Logger) (*App, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	db, err := database.NewDB(cfg.DatabasePath)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize database: %w", err)
	}
	logger.Info("database ready", zap.String("path", db.Path), zap.Uint("schema_version", db.Version))

	textGen, closer, err := llm.NewFromConfig(ctx, cfg)
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to initialize %s client: %w", cfg.Provider, err)
	}

	var publisher ghost.Publisher
	if cfg.GhostEnabled() {
		publisher = ghost.NewClient(cfg.GhostURL, cfg.GhostAdminKey)
	}

	a := NewApp(cfg, logger, db, nil, publisher)
	a.UseTextGenerator(textGen)
	a.llmCloser = closer
	return a, nil
}

// NewApp assembles an App around an open database and a ready gateway.
func NewApp(cfg *config.Config, logger *zap.Logger, db *database.DB, gateway planner.Gateway, publisher ghost.Publisher) *App {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &App{
		cfg:       cfg,
		logger:    logger,
		db:        db,
		trips:     trip.NewRepository(db.SQL),
		metrics:   metrics.NewStore(db.SQL),
		gateway:   gateway,
		covers:    cover.NewResolver(cfg.CoverLookupURL),
		publisher: publisher,
	}
}

// UseTextGenerator routes generation through textGen, recording token usage
// in the metrics store.
func (a *App) UseTextGenerator(textGen llm.TextGenerator) {
	a.gateway = planner.NewGenerator(textGen, a.metrics, a.logger)
}

// Close releases the LLM client and the database.
func (a *App) Close() error {
	var errs []error
	if a.llmCloser != nil {
		errs = append(errs, a.llmCloser.Close())
	}
	errs = append(errs, a.db.Close())
	return errors.Join(errs...)
}

func (a *App) Config() *config.Config { return a.cfg }
func (a *App) Logger() *zap.Logger { return a.logger }
func (a *App) Gateway() planner.Gateway { return a.gateway }
func (a *App) Trips() *trip.Repository { return a.trips }
func (a *App) Metrics() *metrics.Store { return a.metrics }
func (a *App) Covers() *cover.Resolver { return a.covers }
func (a *App) Publisher() ghost.Publisher { return a.publisher }

// PlanTrip generates a new itinerary and saves it to the owner's history.
func (a *App) PlanTrip(ctx context.Context, ownerID, destination, arrival, departure string) (*trip.Trip, error) {
	session := planner.NewSession(a.gateway, a.logger)
	view, err := session.Generate(ctx, destination, arrival, departure)
	if err != nil {
		return nil, err
	}
	if view.Empty() {
		return nil, ErrEmptyItinerary
	}

	t := trip.FromView(ownerID, view)
	if err := a.trips.Save(ctx, t); err != nil {
		return nil, err
	}
	a.logger.Info("trip planned", zap.String("trip_id", t.ID), zap.String("destination", t.Destination), zap.Int("days", t.Days))
	return t, nil
}

// GetTrip loads a trip from history.
func (a *App) GetTrip(ctx context.Context, id string) (*trip.Trip, error) {
	t, err := a.trips.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if t == nil {
		return nil, fmt.Errorf("%w: %s", ErrTripNotFound, id)
	}
	return t, nil
}

// SetChecked marks the given item addresses of a saved trip as checked or
// unchecked and saves the result. Nothing is saved if any address is invalid.
func (a *App) SetChecked(ctx context.Context, id string, addrs []string, checked bool) (*trip.Trip, error) {
	t, err := a.GetTrip(ctx, id)
	if err != nil {
		return nil, err
	}

	session := t.Session(a.gateway, a.logger)
	for _, raw := range addrs {
		addr, err := itinerary.ParseAddress(raw)
		if err != nil {
			return nil, err
		}
		if err := session.SetChecked(addr, checked); err != nil {
			return nil, err
		}
	}

	t.Update(session.View())
	if err := a.trips.Save(ctx, t); err != nil {
		return nil, err
	}
	return t, nil
}

// RerollTrip replaces every unchecked activity of a saved trip and saves
// the result. On failure the stored trip is unchanged.
func (a *App) RerollTrip(ctx context.Context, id string) (*trip.Trip, planner.RerollResult, error) {
	t, err := a.GetTrip(ctx, id)
	if err != nil {
		return nil, planner.RerollResult{}, err
	}

	session := t.Session(a.gateway, a.logger)
	res, err := session.Reroll(ctx)
	if err != nil {
		return nil, planner.RerollResult{}, err
	}

	t.Update(res.View)
	if err := a.trips.Save(ctx, t); err != nil {
		return nil, planner.RerollResult{}, err
	}
	return t, res, nil
}

// ExportCalendar renders a saved trip as iCalendar text.
func (a *App) ExportCalendar(ctx context.Context, id string) (string, *trip.Trip, error) {
	t, err := a.GetTrip(ctx, id)
	if err != nil {
		return "", nil, err
	}
	return calendar.Export(t.ID, t.Destination, t.Itinerary), t, nil
}

// PublishTrip posts a saved trip to Ghost, as a draft unless publish is set.
func (a *App) PublishTrip(ctx context.Context, id string, publish bool) (*ghost.Post, error) {
	if a.publisher == nil {
		return nil, ErrPublishingDisabled
	}
	t, err := a.GetTrip(ctx, id)
	if err != nil {
		return nil, err
	}

	img, err := a.covers.Lookup(ctx, t.Destination)
	if err != nil {
		a.logger.Debug("no cover image", zap.String("destination", t.Destination), zap.Error(err))
	}
	draft, err := ghost.TripDraft(t.Destination, img, t.Itinerary, t.Checked, publish)
	if err != nil {
		return nil, fmt.Errorf("failed to render trip %s: %w", t.ID, err)
	}

	post, err := a.publisher.CreatePost(ctx, draft)
	if err != nil {
		return nil, fmt.Errorf("failed to publish trip %s: %w", t.ID, err)
	}
	a.logger.Info("trip published", zap.String("trip_id", t.ID), zap.String("post_id", post.ID))
	return post, nil
}

// DeleteTrip removes a trip from history.
func (a *App) DeleteTrip(ctx context.Context, id string) error {
	ok, err := a.trips.Delete(ctx, id)
	if err != nil {
		return err
	}
	if !ok {
		return fmt.Errorf("%w: %s", ErrTripNotFound, id)
	}
	a.logger.Info("trip deleted", zap.String("trip_id", id))
	return nil
}

// History lists an owner's most recent trips.
func (a *App) History(ctx context.Context, ownerID string, limit int) ([]trip.Trip, error) {
	return a.trips.ListRecentByOwner(ctx, ownerID, limit)
}

// Usage returns daily token usage for the last N days.
func (a *App) Usage(ctx context.Context, days int) ([]metrics.DailyUsage, error) {
	return a.metrics.DailyUsage(ctx, days)
}

// TopDestinations ranks the most planned destinations of the last N days.
func (a *App) TopDestinations(ctx context.Context, days, limit int) ([]metrics.DestinationCount, error) {
	return a.metrics.TopDestinations(ctx, days, limit)
}

// CleanupMetrics removes usage records older than N days.
func (a *App) CleanupMetrics(ctx context.Context, days int) (int64, error) {
	n, err := a.metrics.Prune(ctx, days)
	if err != nil {
		return 0, err
	}
	a.logger.Info("usage records pruned", zap.Int("keep_days", days), zap.Int64("removed", n))
	return n, nil
}
