package randomize

import (
	"fmt"
	"math/rand"
	"sort"

	"github.com/zyedidia/generic/mapset"

	"github.com/lawnchairsociety/logicrando/internal/explore"
	"github.com/lawnchairsociety/logicrando/internal/logger"
	"github.com/lawnchairsociety/logicrando/internal/logic"
	"github.com/lawnchairsociety/logicrando/internal/placement"
)

// WeightedItem is one item candidate of an entry. Empty means "leave the location empty".
type WeightedItem struct {
	Item   placement.WorldItem
	Empty  bool
	Weight float64
}

// WeightedLocation is one location candidate of an entry. Start means "give the
// item to the player of Location.World at the start".
type WeightedLocation struct {
	Location placement.WorldLocation
	Start    bool
	Weight   float64
}

// Entry is a designer-authored placement rule: place Count units drawn from
// the item candidates into the location candidates.
type Entry struct {
	Name         string
	Items        []WeightedItem
	Locations    []WeightedLocation
	Count        int
	MinCount     int
	UserAuthored bool
}

func (e *Entry) singleCombination() bool {
	return len(e.Items) == 1 && len(e.Locations) == 1
}

func (e *Entry) givesStartingItems() bool {
	for _, l := range e.Locations {
		if l.Start {
			return true
		}
	}
	return false
}

func (e *Entry) priority() int {
	switch {
	case e.singleCombination():
		return 0
	case e.givesStartingItems():
		return 1
	default:
		return 2
	}
}

type combination struct {
	item   WeightedItem
	loc    WeightedLocation
	weight float64
}

// entryPlacer carries the claims made so far across the entries of one attempt.
type entryPlacer struct {
	rng        *rand.Rand
	inputs     []explore.Input
	pool       *ItemPool
	available  mapset.Set[placement.WorldLocation]
	itemClaims map[placement.WorldItem]*Entry
	locClaims  map[placement.WorldLocation]*Entry
}

// PlaceEntries applies entries in priority order and returns the locations
// still open afterwards, in their original order.
//
// Entries are shuffled and then stably sorted so that single-combination
// entries go first and starting-item entries second. Every committed pair is
// taken out of pool and locations. A pair is only eligible when its location
// stays reachable with every other pooled item assumed held.
func PlaceEntries(rng *rand.Rand, inputs []explore.Input, pool *ItemPool, locations []placement.WorldLocation, entries []Entry) ([]placement.WorldLocation, error) {
	ordered := append([]Entry(nil), entries...)
	rng.Shuffle(len(ordered), func(i, j int) { ordered[i], ordered[j] = ordered[j], ordered[i] })
	sort.SliceStable(ordered, func(i, j int) bool {
		return ordered[i].priority() < ordered[j].priority()
	})

	ep := &entryPlacer{
		rng:        rng,
		inputs:     inputs,
		pool:       pool,
		available:  mapset.New[placement.WorldLocation](),
		itemClaims: make(map[placement.WorldItem]*Entry),
		locClaims:  make(map[placement.WorldLocation]*Entry),
	}
	for _, loc := range locations {
		ep.available.Put(loc)
	}

	for i := range ordered {
		if err := ep.place(&ordered[i]); err != nil {
			return nil, err
		}
	}

	var remaining []placement.WorldLocation
	for _, loc := range locations {
		if ep.available.Has(loc) {
			remaining = append(remaining, loc)
		}
	}
	return remaining, nil
}

func (ep *entryPlacer) place(entry *Entry) error {
	for placed := 0; placed < entry.Count; placed++ {
		combos, conflict := ep.combinations(entry)

		total := 0.0
		for _, c := range combos {
			total += c.weight
		}

		if len(combos) == 0 || total <= 0 {
			if !entry.UserAuthored && placed >= entry.MinCount {
				logger.Debug("entry exhausted", "entry", entry.Name, "placed", placed)
				return nil
			}
			if conflict != nil {
				return conflict
			}
			if entry.UserAuthored {
				return &PlandoConflictError{Entry: entry.Name, Placed: placed, Count: entry.Count}
			}
			return &NoCombinationError{Entry: entry.Name, Placed: placed, MinCount: entry.MinCount}
		}

		if err := ep.commit(entry, pick(ep.rng, combos, total)); err != nil {
			return err
		}
	}
	return nil
}

// combinations lists every feasible pair for entry. When a candidate was
// unavailable because another user-authored entry claimed it, the returned
// conflict describes that claim.
func (ep *entryPlacer) combinations(entry *Entry) ([]combination, *SettingsConflictError) {
	var combos []combination
	var conflict *SettingsConflictError

	for _, it := range entry.Items {
		if !it.Empty && ep.pool.Count(it.Item) == 0 {
			if by, ok := ep.itemClaims[it.Item]; ok && by != entry && conflict == nil {
				conflict = &SettingsConflictError{Entry: entry.Name, ClaimedBy: by.Name, Item: itemName(ep.inputs, it.Item)}
			}
			continue
		}

		var e *explore.Explorer
		for _, loc := range entry.Locations {
			if !loc.Start && !ep.available.Has(loc.Location) {
				if by, ok := ep.locClaims[loc.Location]; ok && by != entry && conflict == nil {
					conflict = &SettingsConflictError{Entry: entry.Name, ClaimedBy: by.Name, Location: locationName(ep.inputs, loc.Location)}
				}
				continue
			}

			weight := it.Weight * loc.Weight
			if weight <= 0 {
				continue
			}

			if !loc.Start && !it.Empty {
				if e == nil {
					skip := it.Item
					e = explore.New(ep.inputs, assume(ep.inputs, ep.pool.items, &skip))
				}
				if !e.CanReach(loc.Location.World, logic.LocationKey(loc.Location.Location)) {
					continue
				}
			}
			combos = append(combos, combination{item: it, loc: loc, weight: weight})
		}
	}
	return combos, conflict
}

func (ep *entryPlacer) commit(entry *Entry, c combination) error {
	if !c.item.Empty {
		ep.pool.Remove(c.item.Item)
	}

	if c.loc.Start {
		if !c.item.Empty {
			ep.inputs[c.loc.Location.World].Placement.AddStartingItem(c.item.Item)
		}
	} else {
		p := ep.inputs[c.loc.Location.World].Placement
		var err error
		if c.item.Empty {
			err = p.MarkEmpty(c.loc.Location.Location)
		} else {
			err = p.Place(c.loc.Location.Location, c.item.Item)
		}
		if err != nil {
			return fmt.Errorf("entry %q: %w", entry.Name, err)
		}
		ep.available.Remove(c.loc.Location)
	}

	if entry.UserAuthored {
		if !c.item.Empty {
			ep.itemClaims[c.item.Item] = entry
		}
		if !c.loc.Start {
			ep.locClaims[c.loc.Location] = entry
		}
	}
	return nil
}

// pick chooses a combination with probability proportional to its weight.
func pick(rng *rand.Rand, combos []combination, total float64) combination {
	r := rng.Float64() * total
	for _, c := range combos {
		if r < c.weight {
			return c
		}
		r -= c.weight
	}
	return combos[len(combos)-1]
}
