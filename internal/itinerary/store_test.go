package itinerary

import (
	"encoding/json"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleItinerary() Itinerary {
	return Itinerary{
		{
			Day:       1,
			Date:      "2024-06-01",
			Morning:   []Activity{{Name: "Colosseum", Duration: "2 hours"}, {Name: "Forum", Duration: "1 hour"}},
			Afternoon: []Activity{{Name: "Pantheon", Duration: "30 mins"}},
			Evening:   []Activity{{Name: "Trevi", Duration: "45 mins"}},
			Dining:    []DiningSuggestion{{Name: "Roscioli", Rating: "4.6 stars"}},
		},
		{
			Day:     2,
			Date:    "2024-06-02",
			Morning: []Activity{{Name: "Vatican", Duration: "3 hours"}},
		},
	}
}

func TestStore_SetFullClearsChecked(t *testing.T) {
	s := NewStore()
	s.SetFull(sampleItinerary())
	require.NoError(t, s.SetChecked(ItemAddress{0, Morning, 1}, true))
	require.Equal(t, 1, len(s.Checked()))

	s.SetFull(sampleItinerary())

	assert.Empty(t, s.Checked())
	assert.False(t, s.Empty())
}

func TestStore_EmptyStates(t *testing.T) {
	s := NewStore()
	assert.True(t, s.Empty())

	s.SetFull(nil)
	assert.True(t, s.Empty())

	s.SetFull(Itinerary{})
	assert.True(t, s.Empty())
}

func TestStore_ReplaceAt(t *testing.T) {
	s := NewStore()
	s.SetFull(sampleItinerary())

	repl := Activity{Name: "Borghese", Duration: "2 hours", Rating: "4.8 stars"}
	require.NoError(t, s.ReplaceAt(ItemAddress{0, Morning, 1}, repl))

	all := s.All()
	assert.Equal(t, repl, all[0].Morning[1])
	assert.Equal(t, "Colosseum", all[0].Morning[0].Name)
}

func TestStore_ReplaceAtRejectsBadAddresses(t *testing.T) {
	s := NewStore()
	s.SetFull(sampleItinerary())

	bad := []ItemAddress{
		{DayIndex: 0, Category: "brunch", ItemIndex: 0},
		{DayIndex: 0, Category: Morning, ItemIndex: 2},
		{DayIndex: 0, Category: Morning, ItemIndex: -1},
		{DayIndex: 2, Category: Morning, ItemIndex: 0},
		{DayIndex: 1, Category: Evening, ItemIndex: 0},
	}
	for _, addr := range bad {
		err := s.ReplaceAt(addr, Activity{Name: "x"})
		var addrErr *AddressError
		assert.True(t, errors.As(err, &addrErr), "address %v", addr)
	}
	assert.Equal(t, sampleItinerary(), s.All())
}

func TestStore_ReplaceAtDiningDropsDuration(t *testing.T) {
	s := NewStore()
	s.SetFull(sampleItinerary())

	require.NoError(t, s.ReplaceAt(ItemAddress{0, Dining, 0}, Activity{Name: "Armando", Duration: "1 hour", Rating: "4.5"}))

	assert.Equal(t, DiningSuggestion{Name: "Armando", Rating: "4.5"}, s.All()[0].Dining[0])
}

func TestStore_AllIsReadOnlyCopy(t *testing.T) {
	s := NewStore()
	s.SetFull(sampleItinerary())

	view := s.All()
	view[0].Morning[0].Name = "mutated"

	assert.Equal(t, "Colosseum", s.All()[0].Morning[0].Name)
}

func TestStore_Toggle(t *testing.T) {
	s := NewStore()
	s.SetFull(sampleItinerary())
	addr := ItemAddress{0, Evening, 0}

	on, err := s.Toggle(addr)
	require.NoError(t, err)
	assert.True(t, on)
	assert.True(t, s.Checked().Has(addr))

	on, err = s.Toggle(addr)
	require.NoError(t, err)
	assert.False(t, on)
	assert.False(t, s.Checked().Has(addr))

	_, err = s.Toggle(ItemAddress{5, Evening, 0})
	assert.Error(t, err)
}

func TestStore_RestoreDropsStaleAddresses(t *testing.T) {
	s := NewStore()
	s.Restore(sampleItinerary(), NewCheckedSet(ItemAddress{0, Morning, 0}, ItemAddress{9, Morning, 0}))

	assert.Equal(t, []ItemAddress{{0, Morning, 0}}, s.Checked().Addresses())
}

func TestAddressRoundTrip(t *testing.T) {
	addr := ItemAddress{DayIndex: 12, Category: Afternoon, ItemIndex: 3}
	assert.Equal(t, "12-afternoon-3", addr.ID())

	parsed, err := ParseAddress(addr.ID())
	require.NoError(t, err)
	assert.Equal(t, addr, parsed)

	for _, bad := range []string{"", "1-morning", "x-morning-1", "1-lunch-1", "1-morning-y"} {
		_, err := ParseAddress(bad)
		assert.Error(t, err, bad)
	}
}

func TestCheckedSetJSON(t *testing.T) {
	set := NewCheckedSet(ItemAddress{1, Morning, 0}, ItemAddress{0, Dining, 0}, ItemAddress{0, Morning, 2})

	data, err := json.Marshal(set)
	require.NoError(t, err)
	assert.JSONEq(t, `["0-morning-2","0-dining-0","1-morning-0"]`, string(data))

	var back CheckedSet
	require.NoError(t, json.Unmarshal(data, &back))
	assert.Equal(t, set, back)
}

func TestDisplayHelpers(t *testing.T) {
	assert.Equal(t, "Morning", Morning.Title())
	assert.Equal(t, "Saturday, June 1, 2024", FormatDate("2024-06-01"))
	assert.Equal(t, "not-a-date", FormatDate("not-a-date"))
	assert.Equal(t, "https://www.google.com/maps/search/?api=1&query=Colosseum%2C+Rome", MapsURL("Colosseum", "Rome"))
	assert.Equal(t, "★ 4.7 stars", RatingLabel(" 4.7 stars "))
	assert.Equal(t, "", RatingLabel(""))
}
