package planner

import "triply/internal/itinerary"

// RerollPlan partitions an itinerary for a reroll.
type RerollPlan struct {
	// Liked holds the names of checked activities in render order.
	Liked []string
	// ToReplace holds the addresses of unchecked activities in render order.
	ToReplace []itinerary.ItemAddress
}

// PlanReroll walks every day and activity category in render order and
// splits items into liked (checked) and to-replace (unchecked). Dining is
// never part of either list.
func PlanReroll(it itinerary.Itinerary, checked itinerary.CheckedSet) RerollPlan {
	var plan RerollPlan
	for dayIndex := range it {
		day := &it[dayIndex]
		for _, c := range itinerary.ActivityCategories {
			for i, a := range day.Activities(c) {
				addr := itinerary.ItemAddress{DayIndex: dayIndex, Category: c, ItemIndex: i}
				if checked.Has(addr) {
					plan.Liked = append(plan.Liked, a.Name)
				} else {
					plan.ToReplace = append(plan.ToReplace, addr)
				}
			}
		}
	}
	return plan
}

// splice writes suggestions[i] to plan.ToReplace[i]. The caller passes a
// scratch store so a failure leaves the live one untouched.
func splice(store *itinerary.Store, toReplace []itinerary.ItemAddress, suggestions []itinerary.Activity) error {
	if len(suggestions) < len(toReplace) {
		return &UnderfillError{Requested: len(toReplace), Returned: len(suggestions)}
	}
	for i, addr := range toReplace {
		if err := store.ReplaceAt(addr, suggestions[i]); err != nil {
			return err
		}
	}
	return nil
}
