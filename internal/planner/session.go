package planner

import (
	"context"
	"sync"

	"triply/internal/itinerary"

	"go.uber.org/zap"
	"golang.org/x/sync/semaphore"
)

// View is a snapshot of a session for rendering.
type View struct {
	Trip      TripRequest
	Itinerary itinerary.Itinerary
	Checked   itinerary.CheckedSet
}

// Empty reports the "no itinerary could be generated" state.
func (v View) Empty() bool { return len(v.Itinerary) == 0 }

// RerollResult describes a successful reroll.
type RerollResult struct {
	Replaced []itinerary.ItemAddress
	Liked    []string
	View     View
}

// Session owns one user's trip: the request, the itinerary and the checked
// set. At most one Generate or Reroll runs at a time; a second call made
// while one is in flight fails with ErrBusy instead of queueing.
type Session struct {
	gateway Gateway
	logger  *zap.Logger
	flight  *semaphore.Weighted

	mu    sync.Mutex
	trip  TripRequest
	store *itinerary.Store
}

// NewSession creates an empty session. logger may be nil.
func NewSession(gateway Gateway, logger *zap.Logger) *Session {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Session{
		gateway: gateway,
		logger:  logger,
		flight:  semaphore.NewWeighted(1),
		store:   itinerary.NewStore(),
	}
}

// Restore loads a previously generated trip, e.g. from history. Like
// Reset it fails with ErrBusy while a request is in flight.
func (s *Session) Restore(trip TripRequest, it itinerary.Itinerary, checked itinerary.CheckedSet) error {
	if !s.flight.TryAcquire(1) {
		return ErrBusy
	}
	defer s.flight.Release(1)

	s.mu.Lock()
	defer s.mu.Unlock()
	s.trip = trip
	s.store.Restore(it, checked)
	return nil
}

// Generate validates the input, requests a full itinerary and, on success,
// replaces the current one. Prior addresses and checks are discarded.
func (s *Session) Generate(ctx context.Context, destination, arrival, departure string) (View, error) {
	req, err := NewTripRequest(destination, arrival, departure)
	if err != nil {
		return View{}, err
	}

	if !s.flight.TryAcquire(1) {
		return View{}, ErrBusy
	}
	defer s.flight.Release(1)

	s.logger.Info("generating itinerary",
		zap.String("destination", req.Destination),
		zap.String("arrival", req.Arrival),
		zap.String("departure", req.Departure),
		zap.Int("days", req.Days),
	)

	it, err := s.gateway.GenerateFull(ctx, req)
	if err != nil {
		s.logger.Error("itinerary generation failed", zap.Error(err))
		return View{}, &GatewayError{Op: OpGenerate, Err: err}
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.trip = req
	s.store.SetFull(it)
	return s.viewLocked(), nil
}

// Toggle flips the checked state of addr. Toggling is refused while a
// request is in flight.
func (s *Session) Toggle(addr itinerary.ItemAddress) (bool, error) {
	if !s.flight.TryAcquire(1) {
		return false, ErrBusy
	}
	defer s.flight.Release(1)

	s.mu.Lock()
	defer s.mu.Unlock()
	return s.store.Toggle(addr)
}

// SetChecked marks addr checked or unchecked.
func (s *Session) SetChecked(addr itinerary.ItemAddress, checked bool) error {
	if !s.flight.TryAcquire(1) {
		return ErrBusy
	}
	defer s.flight.Release(1)

	s.mu.Lock()
	defer s.mu.Unlock()
	return s.store.SetChecked(addr, checked)
}

// Reroll replaces every unchecked activity with a fresh suggestion, keeping
// checked items and all dining untouched. The update is all-or-nothing.
func (s *Session) Reroll(ctx context.Context) (RerollResult, error) {
	if !s.flight.TryAcquire(1) {
		return RerollResult{}, ErrBusy
	}
	defer s.flight.Release(1)

	s.mu.Lock()
	work := s.store.Clone()
	destination := s.trip.Destination
	s.mu.Unlock()

	plan := PlanReroll(work.All(), work.Checked())
	if len(plan.ToReplace) == 0 {
		return RerollResult{}, ErrNothingToReroll
	}

	s.logger.Info("rerolling activities",
		zap.String("destination", destination),
		zap.Int("replace", len(plan.ToReplace)),
		zap.Int("liked", len(plan.Liked)),
	)

	suggestions, err := s.gateway.GenerateReplacements(ctx, destination, plan.Liked, len(plan.ToReplace))
	if err != nil {
		s.logger.Error("reroll request failed", zap.Error(err))
		return RerollResult{}, &GatewayError{Op: OpReroll, Err: err}
	}

	if err := splice(work, plan.ToReplace, suggestions); err != nil {
		s.logger.Error("reroll not applied", zap.Error(err))
		return RerollResult{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.store = work
	return RerollResult{Replaced: plan.ToReplace, Liked: plan.Liked, View: s.viewLocked()}, nil
}

// View returns a snapshot of the current state.
func (s *Session) View() View {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.viewLocked()
}

// Reset discards the trip, e.g. when the user goes back to the input step.
func (s *Session) Reset() error {
	if !s.flight.TryAcquire(1) {
		return ErrBusy
	}
	defer s.flight.Release(1)

	s.mu.Lock()
	defer s.mu.Unlock()
	s.trip = TripRequest{}
	s.store = itinerary.NewStore()
	return nil
}

func (s *Session) viewLocked() View {
	return View{Trip: s.trip, Itinerary: s.store.All(), Checked: s.store.Checked()}
}
