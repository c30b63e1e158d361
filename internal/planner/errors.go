package planner

import (
	"errors"
	"fmt"

	"triply/internal/itinerary"
)

// Operation names used in GatewayError.
const (
	OpGenerate = "generate"
	OpReroll   = "reroll"
)

var (
	// ErrBusy is returned while another generation or reroll is in flight.
	ErrBusy = errors.New("another request is already in progress")
	// ErrNothingToReroll is returned when every activity is checked.
	ErrNothingToReroll = errors.New("no unchecked activities to reroll")
)

// ValidationError reports bad trip input. No request is sent.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Message)
}

// GatewayError wraps any failure of the remote generation call.
type GatewayError struct {
	Op  string
	Err error
}

func (e *GatewayError) Error() string {
	return fmt.Sprintf("%s request failed: %v", e.Op, e.Err)
}

func (e *GatewayError) Unwrap() error { return e.Err }

// UnderfillError reports a reroll response with fewer suggestions than requested.
type UnderfillError struct {
	Requested int
	Returned  int
}

func (e *UnderfillError) Error() string {
	return fmt.Sprintf("requested %d replacement activities, got %d", e.Requested, e.Returned)
}

const (
	noticeGenerate = "An error occurred while generating the itinerary. Please try again."
	noticeReroll   = "An error occurred while rerolling. Please try again."
	noticeNothing  = "Please uncheck some activities to reroll!"
	noticeBusy     = "Please wait for the current request to finish."
	noticeGeneric  = "Something went wrong. Please try again."
)

// Notice converts any error returned by Session into the single message
// shown to the user.
func Notice(err error) string {
	var (
		validation *ValidationError
		gateway    *GatewayError
		underfill  *UnderfillError
		address    *itinerary.AddressError
	)
	switch {
	case err == nil:
		return ""
	case errors.As(err, &validation):
		return validation.Message
	case errors.Is(err, ErrBusy):
		return noticeBusy
	case errors.Is(err, ErrNothingToReroll):
		return noticeNothing
	case errors.As(err, &gateway):
		if gateway.Op == OpGenerate {
			return noticeGenerate
		}
		return noticeReroll
	case errors.As(err, &underfill), errors.As(err, &address):
		return noticeReroll
	}
	return noticeGeneric
}
