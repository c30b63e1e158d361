package itinerary

// Store holds the current itinerary and the set of checked items.
// It is not safe for concurrent use; planner.Session serializes access.
type Store struct {
	itinerary Itinerary
	checked   CheckedSet
}

// NewStore returns an empty store.
func NewStore() *Store {
	return &Store{checked: CheckedSet{}}
}

// SetFull replaces the whole itinerary and clears the checked set.
// A nil or empty itinerary is accepted and reported by Empty.
func (s *Store) SetFull(it Itinerary) {
	s.itinerary = it.Clone()
	s.checked = CheckedSet{}
}

// ReplaceAt overwrites the item at addr. For dining addresses the
// activity's duration is dropped.
func (s *Store) ReplaceAt(addr ItemAddress, a Activity) error {
	if err := s.itinerary.check(addr); err != nil {
		return err
	}
	day := &s.itinerary[addr.DayIndex]
	switch addr.Category {
	case Morning:
		day.Morning[addr.ItemIndex] = a
	case Afternoon:
		day.Afternoon[addr.ItemIndex] = a
	case Evening:
		day.Evening[addr.ItemIndex] = a
	case Dining:
		day.Dining[addr.ItemIndex] = DiningSuggestion{Name: a.Name, Description: a.Description, Rating: a.Rating}
	}
	return nil
}

// All returns a copy of the itinerary for rendering.
func (s *Store) All() Itinerary {
	return s.itinerary.Clone()
}

// Empty reports the "no itinerary could be generated" state.
func (s *Store) Empty() bool {
	return len(s.itinerary) == 0
}

// Checked returns a copy of the checked set.
func (s *Store) Checked() CheckedSet {
	return s.checked.Clone()
}

// SetChecked marks addr as checked or unchecked.
func (s *Store) SetChecked(addr ItemAddress, checked bool) error {
	if err := s.itinerary.check(addr); err != nil {
		return err
	}
	if checked {
		s.checked.Add(addr)
	} else {
		s.checked.Remove(addr)
	}
	return nil
}

// Toggle flips the checked state of addr and returns the new state.
func (s *Store) Toggle(addr ItemAddress) (bool, error) {
	next := !s.checked.Has(addr)
	if err := s.SetChecked(addr, next); err != nil {
		return false, err
	}
	return next, nil
}

// Restore loads a previously saved itinerary together with its checked set.
// Checked addresses that no longer resolve are dropped.
func (s *Store) Restore(it Itinerary, checked CheckedSet) {
	s.itinerary = it.Clone()
	s.checked = CheckedSet{}
	for a := range checked {
		if s.itinerary.check(a) == nil {
			s.checked.Add(a)
		}
	}
}

// Clone returns an independent copy of the store.
func (s *Store) Clone() *Store {
	return &Store{itinerary: s.itinerary.Clone(), checked: s.checked.Clone()}
}
