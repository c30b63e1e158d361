// Package calendar exports an itinerary as an iCalendar feed.
package calendar

import (
	"fmt"
	"strings"
	"time"
	"unicode"

	"triply/internal/itinerary"

	ics "github.com/arran4/golang-ical"
)

const productID = "-//triply//itinerary//EN"

// Export renders one VEVENT per timed activity, using the same running
// clock as the checklist. Dining suggestions produce no events, and days
// whose date does not parse are skipped.
func Export(tripID, destination string, it itinerary.Itinerary) string {
	cal := ics.NewCalendar()
	cal.SetMethod(ics.MethodPublish)
	cal.SetProductId(productID)
	cal.SetXWRCalName(fmt.Sprintf("Trip to %s", destination))

	stamp := time.Now().UTC()
	for dayIndex, day := range it {
		if _, err := time.Parse(itinerary.DateLayout, day.Date); err != nil {
			continue
		}
		for _, s := range itinerary.ScheduleDay(dayIndex, day) {
			event := cal.AddEvent(fmt.Sprintf("%s-%s@triply", tripID, s.Address.ID()))
			event.SetDtStampTime(stamp)
			event.SetStartAt(s.Start)
			event.SetEndAt(s.End())
			event.SetSummary(s.Activity.Name)
			event.SetLocation(s.Activity.Name + ", " + destination)
			event.SetDescription(description(s.Activity))
			event.SetURL(itinerary.MapsURL(s.Activity.Name, destination))
		}
	}
	return cal.Serialize()
}

// FileName returns a file name for a destination's calendar, e.g.
// "rome-italy.ics".
func FileName(destination string) string {
	var sb strings.Builder
	dash := false
	for _, r := range strings.ToLower(destination) {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			sb.WriteRune(r)
			dash = false
		} else if !dash && sb.Len() > 0 {
			sb.WriteByte('-')
			dash = true
		}
	}
	name := strings.TrimSuffix(sb.String(), "-")
	if name == "" {
		name = "trip"
	}
	return name + ".ics"
}

func description(a itinerary.Activity) string {
	parts := []string{a.Description}
	if r := itinerary.RatingLabel(a.Rating); r != "" {
		parts = append(parts, r)
	}
	if a.Duration != "" {
		parts = append(parts, "Duration: "+a.Duration)
	}
	return strings.TrimSpace(strings.Join(parts, "\n"))
}
