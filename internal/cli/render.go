package cli

import (
	"fmt"
	"io"
	"strings"
	"time"

	"triply/internal/itinerary"
	"triply/internal/metrics"
	"triply/internal/trip"

	"github.com/dustin/go-humanize"
	"github.com/dustin/go-humanize/english"
)

// writeTrip prints a trip as a checklist. Every line carries the item
// address accepted by the check command.
func writeTrip(w io.Writer, t *trip.Trip) {
	fmt.Fprintf(w, "Trip %s: %s, %s to %s (%d %s)\n", t.ID, t.Destination, t.Arrival, t.Departure,
		t.Days, english.PluralWord(t.Days, "day", "days"))

	for i, day := range t.Itinerary {
		starts := itinerary.StartTimes(i, day)
		fmt.Fprintf(w, "\nDay %d: %s\n", day.Day, itinerary.FormatDate(day.Date))
		for _, c := range itinerary.Categories {
			items := day.Items(i, c)
			if len(items) == 0 {
				continue
			}
			fmt.Fprintf(w, "  %s\n", c.Title())
			for _, item := range items {
				writeItem(w, item, starts, t.Checked.Has(item.Address))
			}
		}
	}
}

func writeItem(w io.Writer, item itinerary.Item, starts map[itinerary.ItemAddress]time.Time, checked bool) {
	mark := "[ ]"
	if checked {
		mark = "[x]"
	}
	clock := ""
	if start, ok := starts[item.Address]; ok {
		clock = itinerary.FormatClock(start)
	}

	line := []string{fmt.Sprintf("    %s %-16s %8s  %s", mark, item.Address.ID(), clock, item.Name)}
	if item.Duration != "" {
		line = append(line, "("+item.Duration+")")
	}
	if r := itinerary.RatingLabel(item.Rating); r != "" {
		line = append(line, r)
	}
	fmt.Fprintln(w, strings.Join(line, " "))
	if item.Description != "" {
		fmt.Fprintf(w, "%36s%s\n", "", item.Description)
	}
}

func writeHistory(w io.Writer, trips []trip.Trip) {
	if len(trips) == 0 {
		fmt.Fprintln(w, "No trips yet")
		return
	}
	for _, t := range trips {
		fmt.Fprintf(w, "%s  %-24s %s to %s  %d kept  updated %s\n",
			t.ID, t.Destination, t.Arrival, t.Departure, len(t.Checked), humanize.Time(t.UpdatedAt))
	}
}

func writeUsage(w io.Writer, days []metrics.DailyUsage, top []metrics.DestinationCount) {
	if len(days) == 0 {
		fmt.Fprintln(w, "No data yet")
		return
	}
	for _, d := range days {
		fmt.Fprintf(w, "%s  %s prompt + %s completion tokens (%d %s, %d %s)\n",
			d.Date, humanize.Comma(int64(d.PromptTokens)), humanize.Comma(int64(d.CompletionTokens)),
			d.Calls, english.PluralWord(d.Calls, "call", ""), d.Rerolls, english.PluralWord(d.Rerolls, "reroll", ""))
	}
	if len(top) == 0 {
		return
	}
	fmt.Fprintln(w, "\nMost planned:")
	for i, d := range top {
		fmt.Fprintf(w, "  %d. %s (%d)\n", i+1, d.Destination, d.Plans)
	}
}
