package itinerary

import (
	"fmt"
	"slices"
)

// Category names one of the four lists of a DayPlan.
type Category string

const (
	Morning   Category = "morning"
	Afternoon Category = "afternoon"
	Evening   Category = "evening"
	Dining    Category = "dining"
)

// Categories lists every category in render order.
var Categories = []Category{Morning, Afternoon, Evening, Dining}

// ActivityCategories lists the categories that run on the day's clock.
var ActivityCategories = []Category{Morning, Afternoon, Evening}

// ParseCategory validates a category name.
func ParseCategory(s string) (Category, error) {
	c := Category(s)
	if !slices.Contains(Categories, c) {
		return "", fmt.Errorf("unknown category %q", s)
	}
	return c, nil
}

// IsActivity reports whether items in the category are timed activities.
func (c Category) IsActivity() bool {
	return c == Morning || c == Afternoon || c == Evening
}

// Activity is a timed itinerary entry.
type Activity struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	Duration    string `json:"duration"`
	Rating      string `json:"rating"`
}

// DiningSuggestion is a restaurant recommendation for the day. It has no duration.
type DiningSuggestion struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	Rating      string `json:"rating"`
}

// DayPlan holds one day of the trip.
type DayPlan struct {
	Day       int                `json:"day"`
	Date      string             `json:"date"`
	Morning   []Activity         `json:"morning"`
	Afternoon []Activity         `json:"afternoon"`
	Evening   []Activity         `json:"evening"`
	Dining    []DiningSuggestion `json:"dining"`
}

// Activities returns the activity list for an activity category, nil otherwise.
func (d *DayPlan) Activities(c Category) []Activity {
	switch c {
	case Morning:
		return d.Morning
	case Afternoon:
		return d.Afternoon
	case Evening:
		return d.Evening
	}
	return nil
}

// Len returns the number of items in a category.
func (d *DayPlan) Len(c Category) int {
	if c == Dining {
		return len(d.Dining)
	}
	return len(d.Activities(c))
}

// Item is a category-independent view of one entry, used by renderers.
type Item struct {
	Address     ItemAddress
	Name        string
	Description string
	Duration    string
	Rating      string
}

// Items returns every entry of the category as Items, in render order.
func (d *DayPlan) Items(dayIndex int, c Category) []Item {
	var items []Item
	if c == Dining {
		for i, s := range d.Dining {
			items = append(items, Item{
				Address:     ItemAddress{DayIndex: dayIndex, Category: c, ItemIndex: i},
				Name:        s.Name,
				Description: s.Description,
				Rating:      s.Rating,
			})
		}
		return items
	}
	for i, a := range d.Activities(c) {
		items = append(items, Item{
			Address:     ItemAddress{DayIndex: dayIndex, Category: c, ItemIndex: i},
			Name:        a.Name,
			Description: a.Description,
			Duration:    a.Duration,
			Rating:      a.Rating,
		})
	}
	return items
}

func (d DayPlan) clone() DayPlan {
	d.Morning = slices.Clone(d.Morning)
	d.Afternoon = slices.Clone(d.Afternoon)
	d.Evening = slices.Clone(d.Evening)
	d.Dining = slices.Clone(d.Dining)
	return d
}

// Itinerary is the ordered list of day plans. Index i normally holds day i+1,
// but the Date field is what gets displayed.
type Itinerary []DayPlan

// Clone returns a deep copy.
func (it Itinerary) Clone() Itinerary {
	if it == nil {
		return nil
	}
	out := make(Itinerary, len(it))
	for i, d := range it {
		out[i] = d.clone()
	}
	return out
}

// Lookup returns the item stored at addr.
func (it Itinerary) Lookup(addr ItemAddress) (Item, error) {
	if err := it.check(addr); err != nil {
		return Item{}, err
	}
	return it[addr.DayIndex].Items(addr.DayIndex, addr.Category)[addr.ItemIndex], nil
}

func (it Itinerary) check(addr ItemAddress) error {
	if _, err := ParseCategory(string(addr.Category)); err != nil {
		return &AddressError{Address: addr, Reason: "invalid category"}
	}
	if addr.DayIndex < 0 || addr.DayIndex >= len(it) {
		return &AddressError{Address: addr, Reason: fmt.Sprintf("day index out of range [0,%d)", len(it))}
	}
	n := it[addr.DayIndex].Len(addr.Category)
	if addr.ItemIndex < 0 || addr.ItemIndex >= n {
		return &AddressError{Address: addr, Reason: fmt.Sprintf("item index out of range [0,%d)", n)}
	}
	return nil
}

// AddressError reports an ItemAddress that does not resolve in the current itinerary.
type AddressError struct {
	Address ItemAddress
	Reason  string
}

func (e *AddressError) Error() string {
	return fmt.Sprintf("invalid item address %s: %s", e.Address.ID(), e.Reason)
}
