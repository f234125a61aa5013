package randomize

import (
	"fmt"

	"github.com/lawnchairsociety/logicrando/internal/explore"
	"github.com/lawnchairsociety/logicrando/internal/logic"
	"github.com/lawnchairsociety/logicrando/internal/placement"
)

// AssumedFill places every item into locations, committing each placement to
// the owning world's Placement in inputs.
//
// Both slices act as stacks: the next item is taken from the end of items and
// candidate locations are scanned from the end of locations, so callers
// control the search order by shuffling. Each item is placed only where it
// stays reachable while assuming every other unplaced item is already held.
//
// The locations left over are returned in their original order.
func AssumedFill(inputs []explore.Input, items []placement.WorldItem, locations []placement.WorldLocation) ([]placement.WorldLocation, error) {
	items = append([]placement.WorldItem(nil), items...)
	locations = append([]placement.WorldLocation(nil), locations...)

	for len(items) > 0 {
		item := items[len(items)-1]
		items = items[:len(items)-1]

		e := explore.New(inputs, assume(inputs, items, nil))

		chosen := -1
		for i := len(locations) - 1; i >= 0; i-- {
			loc := locations[i]
			if e.CanReach(loc.World, logic.LocationKey(loc.Location)) {
				chosen = i
				break
			}
		}
		if chosen < 0 {
			return locations, &NoLocationError{
				Item:      item,
				ItemName:  itemName(inputs, item),
				Remaining: append([]placement.WorldLocation(nil), locations...),
			}
		}

		loc := locations[chosen]
		if err := inputs[loc.World].Placement.Place(loc.Location, item); err != nil {
			return locations, fmt.Errorf("failed to place %s: %w", itemName(inputs, item), err)
		}
		locations = removeLocation(locations, chosen)
	}
	return locations, nil
}

func itemName(inputs []explore.Input, item placement.WorldItem) string {
	if item.World < 0 || item.World >= len(inputs) {
		return fmt.Sprintf("item %d", item.Item)
	}
	w := inputs[item.World].World
	if item.Item < 0 || int(item.Item) >= len(w.Items) {
		return fmt.Sprintf("item %d", item.Item)
	}
	return w.Items[item.Item].Name
}

func locationName(inputs []explore.Input, loc placement.WorldLocation) string {
	if loc.World < 0 || loc.World >= len(inputs) {
		return fmt.Sprintf("location %d", loc.Location)
	}
	w := inputs[loc.World].World
	if loc.Location < 0 || int(loc.Location) >= len(w.Locations) {
		return fmt.Sprintf("location %d", loc.Location)
	}
	return w.Locations[loc.Location].Name
}
