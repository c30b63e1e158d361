package telegram

import (
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"triply/internal/itinerary"
	"triply/internal/planner"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

// Callback data prefixes. Item toggles carry the address after the bar.
const (
	cbToggle   = "t"
	cbReroll   = "r"
	cbCalendar = "c"
	cbPublish  = "p"
)

const (
	markChecked   = "☑"
	markUnchecked = "☐"
	maxButtonName = 40
)

// PopularDestinations are suggested in the help text.
var PopularDestinations = []string{
	"Tokyo, Japan",
	"Paris, France",
	"Rome, Italy",
	"London, UK",
	"New York City, USA",
	"Bali, Indonesia",
	"Sydney, Australia",
	"Cairo, Egypt",
	"Rio de Janeiro, Brazil",
	"Kyoto, Japan",
	"Barcelona, Spain",
	"Dubai, UAE",
	"Machu Picchu, Peru",
	"Santorini, Greece",
	"Maui, Hawaii, USA",
}

func escape(s string) string {
	return tgbotapi.EscapeText(tgbotapi.ModeHTML, s)
}

func helpText() string {
	var sb strings.Builder
	sb.WriteString("🧳 <b>Triply</b> plans your trip day by day.\n\n")
	sb.WriteString("Send a destination followed by your arrival and departure dates:\n")
	sb.WriteString("<code>Rome, Italy 2024-06-01 2024-06-04</code>\n\n")
	sb.WriteString("Tap an activity to keep it, then <b>Reroll</b> to replace the rest.\n")
	sb.WriteString("/reset starts over.\n\n")
	sb.WriteString("<b>Popular destinations</b>\n")
	for _, d := range PopularDestinations {
		sb.WriteString("• " + escape(d) + "\n")
	}
	return sb.String()
}

// tripHeader is the text the status message ends up with once the trip is ready.
func tripHeader(req planner.TripRequest) string {
	return fmt.Sprintf("🗺 <b>%s</b>\n%s → %s (%d days)",
		escape(req.Destination),
		escape(itinerary.FormatDate(req.Arrival)),
		escape(itinerary.FormatDate(req.Departure)),
		req.Days,
	)
}

// dayText renders one day plan as an HTML message.
func dayText(destination string, dayIndex int, day itinerary.DayPlan) string {
	starts := itinerary.StartTimes(dayIndex, day)

	var sb strings.Builder
	fmt.Fprintf(&sb, "📅 <b>Day %d: %s</b>\n", day.Day, escape(itinerary.FormatDate(day.Date)))
	for _, c := range itinerary.Categories {
		items := day.Items(dayIndex, c)
		if len(items) == 0 {
			continue
		}
		fmt.Fprintf(&sb, "\n<b>%s</b>\n", c.Title())
		for _, item := range items {
			sb.WriteString(itemLine(destination, item, starts))
		}
	}
	return sb.String()
}

func itemLine(destination string, item itinerary.Item, starts map[itinerary.ItemAddress]time.Time) string {
	var sb strings.Builder
	if start, ok := starts[item.Address]; ok {
		fmt.Fprintf(&sb, "<b>%s</b> ", itinerary.FormatClock(start))
	} else {
		sb.WriteString("🍽 ")
	}
	fmt.Fprintf(&sb, `<a href="%s">%s</a>`, escape(itinerary.MapsURL(item.Name, destination)), escape(item.Name))
	if item.Duration != "" {
		fmt.Fprintf(&sb, " (%s)", escape(item.Duration))
	}
	if r := itinerary.RatingLabel(item.Rating); r != "" {
		sb.WriteString(" " + escape(r))
	}
	sb.WriteString("\n")
	if item.Description != "" {
		fmt.Fprintf(&sb, "<i>%s</i>\n", escape(item.Description))
	}
	return sb.String()
}

// dayKeyboard has one toggle per item. The last day also carries the trip
// actions.
func dayKeyboard(dayIndex int, day itinerary.DayPlan, checked itinerary.CheckedSet, last, publish bool) tgbotapi.InlineKeyboardMarkup {
	starts := itinerary.StartTimes(dayIndex, day)

	var rows [][]tgbotapi.InlineKeyboardButton
	for _, c := range itinerary.Categories {
		for _, item := range day.Items(dayIndex, c) {
			rows = append(rows, tgbotapi.NewInlineKeyboardRow(
				tgbotapi.NewInlineKeyboardButtonData(buttonLabel(item, starts, checked), toggleData(item.Address)),
			))
		}
	}
	if last {
		rows = append(rows, actionRow(publish))
	}
	return tgbotapi.NewInlineKeyboardMarkup(rows...)
}

func actionRow(publish bool) []tgbotapi.InlineKeyboardButton {
	row := tgbotapi.NewInlineKeyboardRow(
		tgbotapi.NewInlineKeyboardButtonData("🎲 Reroll unchecked", cbReroll),
		tgbotapi.NewInlineKeyboardButtonData("📅 Calendar", cbCalendar),
	)
	if publish {
		row = append(row, tgbotapi.NewInlineKeyboardButtonData("📤 Publish", cbPublish))
	}
	return row
}

func buttonLabel(item itinerary.Item, starts map[itinerary.ItemAddress]time.Time, checked itinerary.CheckedSet) string {
	mark := markUnchecked
	if checked.Has(item.Address) {
		mark = markChecked
	}
	name := truncate(item.Name, maxButtonName)
	if start, ok := starts[item.Address]; ok {
		return fmt.Sprintf("%s %s %s", mark, itinerary.FormatClock(start), name)
	}
	return fmt.Sprintf("%s 🍽 %s", mark, name)
}

func truncate(s string, n int) string {
	if utf8.RuneCountInString(s) <= n {
		return s
	}
	r := []rune(s)
	return string(r[:n-1]) + "…"
}

func toggleData(addr itinerary.ItemAddress) string {
	return cbToggle + "|" + addr.ID()
}

// parseCallback splits callback data into its action and optional address.
func parseCallback(data string) (string, *itinerary.ItemAddress, error) {
	action, arg, hasArg := strings.Cut(data, "|")
	switch action {
	case cbReroll, cbCalendar, cbPublish:
		return action, nil, nil
	case cbToggle:
		if !hasArg {
			return "", nil, fmt.Errorf("toggle callback without address: %q", data)
		}
		addr, err := itinerary.ParseAddress(arg)
		if err != nil {
			return "", nil, err
		}
		return action, &addr, nil
	}
	return "", nil, fmt.Errorf("unknown callback %q", data)
}
