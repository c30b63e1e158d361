package trip

import (
	"context"
	"crypto/rand"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"triply/internal/itinerary"
	"triply/internal/trip/tripdb"

	"github.com/oklog/ulid/v2"
)

// Trip is a saved itinerary with its checked set.
type Trip struct {
	ID          string
	OwnerID     string
	Destination string
	Arrival     string
	Departure   string
	Days        int
	Itinerary   itinerary.Itinerary
	Checked     itinerary.CheckedSet
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// Repository is a database-backed repository for trips.
type Repository struct {
	queries *tripdb.Queries

	mu      sync.Mutex
	entropy *ulid.MonotonicEntropy
}

// NewRepository creates a new Repository.
func NewRepository(db *sql.DB) *Repository {
	return &Repository{
		queries: tripdb.New(db),
		entropy: ulid.Monotonic(rand.Reader, 0),
	}
}

// NewID returns a fresh, time-ordered trip identifier.
func (r *Repository) NewID() string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return ulid.MustNew(ulid.Timestamp(time.Now()), r.entropy).String()
}

// Save inserts or updates t. An empty ID is assigned a new one and CreatedAt
// is filled in on first save.
func (r *Repository) Save(ctx context.Context, t *Trip) error {
	if t.ID == "" {
		t.ID = r.NewID()
	}
	now := time.Now().UTC()
	if t.CreatedAt.IsZero() {
		t.CreatedAt = now
	}
	t.UpdatedAt = now

	itData, err := json.Marshal(t.Itinerary)
	if err != nil {
		return fmt.Errorf("failed to encode itinerary for trip %s: %w", t.ID, err)
	}
	checked := t.Checked
	if checked == nil {
		checked = itinerary.CheckedSet{}
	}
	checkedData, err := json.Marshal(checked)
	if err != nil {
		return fmt.Errorf("failed to encode checked set for trip %s: %w", t.ID, err)
	}

	err = r.queries.UpsertTrip(ctx, tripdb.UpsertTripParams{
		ID:          t.ID,
		OwnerID:     t.OwnerID,
		Destination: t.Destination,
		Arrival:     t.Arrival,
		Departure:   t.Departure,
		Days:        int64(t.Days),
		Itinerary:   itData,
		Checked:     checkedData,
		CreatedAt:   t.CreatedAt,
		UpdatedAt:   t.UpdatedAt,
	})
	if err != nil {
		return fmt.Errorf("failed to save trip %s: %w", t.ID, err)
	}
	return nil
}

// Get returns the trip with the given ID, or nil when it does not exist.
func (r *Repository) Get(ctx context.Context, id string) (*Trip, error) {
	row, err := r.queries.GetTrip(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get trip %s: %w", id, err)
	}
	return fromRow(row)
}

// ListRecentByOwner retrieves the N most recently updated trips of an owner.
func (r *Repository) ListRecentByOwner(ctx context.Context, ownerID string, limit int) ([]Trip, error) {
	rows, err := r.queries.ListRecentTripsByOwner(ctx, tripdb.ListRecentTripsByOwnerParams{
		OwnerID: ownerID,
		Limit:   int64(limit),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to list recent trips for owner %s: %w", ownerID, err)
	}

	trips := make([]Trip, 0, len(rows))
	for _, row := range rows {
		t, err := fromRow(row)
		if err != nil {
			return nil, err
		}
		trips = append(trips, *t)
	}
	return trips, nil
}

// Delete removes a trip and reports whether it existed.
func (r *Repository) Delete(ctx context.Context, id string) (bool, error) {
	n, err := r.queries.DeleteTrip(ctx, id)
	if err != nil {
		return false, fmt.Errorf("failed to delete trip %s: %w", id, err)
	}
	return n > 0, nil
}

func fromRow(row tripdb.Trip) (*Trip, error) {
	t := &Trip{
		ID:          row.ID,
		OwnerID:     row.OwnerID,
		Destination: row.Destination,
		Arrival:     row.Arrival,
		Departure:   row.Departure,
		Days:        int(row.Days),
		CreatedAt:   row.CreatedAt,
		UpdatedAt:   row.UpdatedAt,
	}
	if err := json.Unmarshal(row.Itinerary, &t.Itinerary); err != nil {
		return nil, fmt.Errorf("failed to decode itinerary for trip %s: %w", row.ID, err)
	}
	if err := json.Unmarshal(row.Checked, &t.Checked); err != nil {
		return nil, fmt.Errorf("failed to decode checked set for trip %s: %w", row.ID, err)
	}
	return t, nil
}
