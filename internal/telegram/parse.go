package telegram

import (
	"errors"
	"strings"
)

var errPlanFormat = errors.New("send a destination followed by arrival and departure dates, e.g. Rome, Italy 2024-06-01 2024-06-04")

type planRequest struct {
	Destination string
	Arrival     string
	Departure   string
}

// parsePlanRequest reads "<destination...> <arrival> <departure>". The last
// two fields are the dates; everything before them is the destination.
// Date validation is left to the planner.
func parsePlanRequest(text string) (planRequest, error) {
	fields := strings.Fields(text)
	if len(fields) < 3 {
		return planRequest{}, errPlanFormat
	}
	n := len(fields)
	return planRequest{
		Destination: strings.Join(fields[:n-2], " "),
		Arrival:     fields[n-2],
		Departure:   fields[n-1],
	}, nil
}
