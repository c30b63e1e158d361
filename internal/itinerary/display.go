package itinerary

import (
	"net/url"
	"strings"
	"time"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

var titleCaser = cases.Title(language.English)

// Title returns the heading used for a category, e.g. "Morning".
func (c Category) Title() string {
	return titleCaser.String(string(c))
}

// MapsURL builds a Google Maps search link for an item at the destination.
func MapsURL(name, destination string) string {
	q := url.Values{}
	q.Set("api", "1")
	q.Set("query", name+", "+destination)
	return "https://www.google.com/maps/search/?" + q.Encode()
}

// FormatClock renders a start time as "10:00 AM". Times past midnight wrap
// to the next day's hour; the date part is not shown.
func FormatClock(t time.Time) string {
	return t.UTC().Format("3:04 PM")
}

// FormatDate renders an ISO date as "Saturday, June 1, 2024". Unparseable
// dates are returned unchanged.
func FormatDate(date string) string {
	d, err := time.Parse(DateLayout, date)
	if err != nil {
		return date
	}
	return d.Format("Monday, January 2, 2006")
}

// RatingLabel prefixes a rating with a star, or returns "" when empty.
func RatingLabel(rating string) string {
	rating = strings.TrimSpace(rating)
	if rating == "" {
		return ""
	}
	return "★ " + rating
}
