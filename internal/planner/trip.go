package planner

import (
	"math"
	"strings"
	"time"

	"triply/internal/itinerary"
)

// TripRequest is a validated destination and date range.
type TripRequest struct {
	Destination string
	Arrival     string
	Departure   string
	Days        int
}

// NewTripRequest validates the raw form input. Dates use YYYY-MM-DD.
func NewTripRequest(destination, arrival, departure string) (TripRequest, error) {
	destination = strings.TrimSpace(destination)
	if destination == "" {
		return TripRequest{}, &ValidationError{Field: "destination", Message: "Please enter a destination."}
	}
	arr, err := time.Parse(itinerary.DateLayout, strings.TrimSpace(arrival))
	if err != nil {
		return TripRequest{}, &ValidationError{Field: "arrival", Message: "Please enter a valid arrival date (YYYY-MM-DD)."}
	}
	dep, err := time.Parse(itinerary.DateLayout, strings.TrimSpace(departure))
	if err != nil {
		return TripRequest{}, &ValidationError{Field: "departure", Message: "Please enter a valid departure date (YYYY-MM-DD)."}
	}

	days := DayCount(arr, dep)
	if days <= 0 {
		return TripRequest{}, &ValidationError{Field: "departure", Message: "Departure date must be after the arrival date."}
	}

	return TripRequest{
		Destination: destination,
		Arrival:     arr.Format(itinerary.DateLayout),
		Departure:   dep.Format(itinerary.DateLayout),
		Days:        days,
	}, nil
}

// DayCount returns ceil((departure - arrival) / 1 day) + 1.
func DayCount(arrival, departure time.Time) int {
	return int(math.Ceil(departure.Sub(arrival).Hours()/24)) + 1
}
