package trip

import (
	"triply/internal/planner"

	"go.uber.org/zap"
)

// FromView builds an unsaved Trip from a session snapshot.
func FromView(ownerID string, v planner.View) *Trip {
	return &Trip{
		OwnerID:     ownerID,
		Destination: v.Trip.Destination,
		Arrival:     v.Trip.Arrival,
		Departure:   v.Trip.Departure,
		Days:        v.Trip.Days,
		Itinerary:   v.Itinerary,
		Checked:     v.Checked,
	}
}

// Update copies a session snapshot over t, keeping its identity.
func (t *Trip) Update(v planner.View) {
	id, owner, created := t.ID, t.OwnerID, t.CreatedAt
	*t = *FromView(owner, v)
	t.ID, t.CreatedAt = id, created
}

// Request returns the trip's validated request.
func (t *Trip) Request() planner.TripRequest {
	return planner.TripRequest{
		Destination: t.Destination,
		Arrival:     t.Arrival,
		Departure:   t.Departure,
		Days:        t.Days,
	}
}

// Session reopens the trip as a live session.
func (t *Trip) Session(gateway planner.Gateway, logger *zap.Logger) *planner.Session {
	s := planner.NewSession(gateway, logger)
	// a fresh session has nothing in flight
	_ = s.Restore(t.Request(), t.Itinerary, t.Checked)
	return s
}
