package itinerary

import (
	"math"
	"regexp"
	"strconv"
	"time"
)

var (
	hoursPattern   = regexp.MustCompile(`(?i)(\d+\.?\d*)\s*hour`)
	minutesPattern = regexp.MustCompile(`(?i)(\d+)\s*min`)
)

// ParseDuration converts free text such as "2 hours", "30 mins" or
// "1.5 hours 15 mins" into minutes. Text without a recognizable hour or
// minute component yields 0.
func ParseDuration(text string) int {
	total := 0
	if m := hoursPattern.FindStringSubmatch(text); m != nil {
		if h, err := strconv.ParseFloat(m[1], 64); err == nil {
			total += int(math.Round(h * 60))
		}
	}
	if m := minutesPattern.FindStringSubmatch(text); m != nil {
		if mins, err := strconv.Atoi(m[1]); err == nil {
			total += mins
		}
	}
	return total
}

// AnchorHour is the hour (UTC) at which every day's clock starts.
const AnchorHour = 10

// DateLayout is the ISO date format used for DayPlan.Date and trip dates.
const DateLayout = "2006-01-02"

// Anchor returns 10:00 UTC on the given ISO date. When the date cannot be
// parsed the anchor falls back to 10:00 on the zero date, so that start
// times can still be shown.
func Anchor(date string) time.Time {
	d, err := time.Parse(DateLayout, date)
	if err != nil {
		return time.Date(0, time.January, 1, AnchorHour, 0, 0, 0, time.UTC)
	}
	return time.Date(d.Year(), d.Month(), d.Day(), AnchorHour, 0, 0, 0, time.UTC)
}

// Accumulate returns each activity's start time by advancing a single clock
// from anchor, along with the clock value after the last activity. The clock
// is not clamped at midnight.
func Accumulate(anchor time.Time, activities []Activity) ([]time.Time, time.Time) {
	starts := make([]time.Time, len(activities))
	clock := anchor
	for i, a := range activities {
		starts[i] = clock
		clock = clock.Add(time.Duration(ParseDuration(a.Duration)) * time.Minute)
	}
	return starts, clock
}

// ScheduledActivity is an activity with its estimated start time.
type ScheduledActivity struct {
	Address  ItemAddress
	Activity Activity
	Start    time.Time
	Minutes  int
}

// End is the start plus the parsed duration.
func (s ScheduledActivity) End() time.Time {
	return s.Start.Add(time.Duration(s.Minutes) * time.Minute)
}

// ScheduleDay runs morning, afternoon and evening through one running clock
// anchored at the day's date. Dining never takes part.
func ScheduleDay(dayIndex int, day DayPlan) []ScheduledActivity {
	var (
		seq   []Activity
		addrs []ItemAddress
	)
	for _, c := range ActivityCategories {
		for i, a := range day.Activities(c) {
			seq = append(seq, a)
			addrs = append(addrs, ItemAddress{DayIndex: dayIndex, Category: c, ItemIndex: i})
		}
	}

	starts, _ := Accumulate(Anchor(day.Date), seq)
	out := make([]ScheduledActivity, len(seq))
	for i := range seq {
		out[i] = ScheduledActivity{
			Address:  addrs[i],
			Activity: seq[i],
			Start:    starts[i],
			Minutes:  ParseDuration(seq[i].Duration),
		}
	}
	return out
}

// StartTimes indexes ScheduleDay's output by address.
func StartTimes(dayIndex int, day DayPlan) map[ItemAddress]time.Time {
	sched := ScheduleDay(dayIndex, day)
	out := make(map[ItemAddress]time.Time, len(sched))
	for _, s := range sched {
		out[s.Address] = s.Start
	}
	return out
}
