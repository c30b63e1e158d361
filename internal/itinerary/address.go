package itinerary

import (
	"cmp"
	"encoding/json"
	"fmt"
	"slices"
	"strconv"
	"strings"
)

// ItemAddress locates an entry by position, independent of its content.
type ItemAddress struct {
	DayIndex  int
	Category  Category
	ItemIndex int
}

// ID renders the address as "dayIndex-category-itemIndex".
func (a ItemAddress) ID() string {
	return fmt.Sprintf("%d-%s-%d", a.DayIndex, a.Category, a.ItemIndex)
}

func (a ItemAddress) String() string { return a.ID() }

// ParseAddress is the inverse of ItemAddress.ID.
func ParseAddress(id string) (ItemAddress, error) {
	parts := strings.Split(id, "-")
	if len(parts) != 3 {
		return ItemAddress{}, fmt.Errorf("malformed item address %q", id)
	}
	day, err := strconv.Atoi(parts[0])
	if err != nil {
		return ItemAddress{}, fmt.Errorf("malformed day index in %q: %w", id, err)
	}
	cat, err := ParseCategory(parts[1])
	if err != nil {
		return ItemAddress{}, fmt.Errorf("malformed item address %q: %w", id, err)
	}
	item, err := strconv.Atoi(parts[2])
	if err != nil {
		return ItemAddress{}, fmt.Errorf("malformed item index in %q: %w", id, err)
	}
	return ItemAddress{DayIndex: day, Category: cat, ItemIndex: item}, nil
}

func compareAddress(a, b ItemAddress) int {
	if c := cmp.Compare(a.DayIndex, b.DayIndex); c != 0 {
		return c
	}
	if c := cmp.Compare(slices.Index(Categories, a.Category), slices.Index(Categories, b.Category)); c != 0 {
		return c
	}
	return cmp.Compare(a.ItemIndex, b.ItemIndex)
}

// CheckedSet holds the addresses the user approved.
type CheckedSet map[ItemAddress]struct{}

// NewCheckedSet builds a set from the given addresses.
func NewCheckedSet(addrs ...ItemAddress) CheckedSet {
	s := make(CheckedSet, len(addrs))
	for _, a := range addrs {
		s[a] = struct{}{}
	}
	return s
}

func (s CheckedSet) Has(a ItemAddress) bool {
	_, ok := s[a]
	return ok
}

func (s CheckedSet) Add(a ItemAddress)    { s[a] = struct{}{} }
func (s CheckedSet) Remove(a ItemAddress) { delete(s, a) }

// Clone returns an independent copy. A nil set clones to an empty one.
func (s CheckedSet) Clone() CheckedSet {
	out := make(CheckedSet, len(s))
	for a := range s {
		out[a] = struct{}{}
	}
	return out
}

// Addresses returns the members in day, category, index order.
func (s CheckedSet) Addresses() []ItemAddress {
	out := make([]ItemAddress, 0, len(s))
	for a := range s {
		out = append(out, a)
	}
	slices.SortFunc(out, compareAddress)
	return out
}

// MarshalJSON encodes the set as a sorted list of address identifiers.
func (s CheckedSet) MarshalJSON() ([]byte, error) {
	ids := make([]string, 0, len(s))
	for _, a := range s.Addresses() {
		ids = append(ids, a.ID())
	}
	return json.Marshal(ids)
}

func (s *CheckedSet) UnmarshalJSON(data []byte) error {
	var ids []string
	if err := json.Unmarshal(data, &ids); err != nil {
		return err
	}
	set := make(CheckedSet, len(ids))
	for _, id := range ids {
		a, err := ParseAddress(id)
		if err != nil {
			return err
		}
		set[a] = struct{}{}
	}
	*s = set
	return nil
}
