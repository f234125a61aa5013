package logic

import (
	"math"

	"github.com/lawnchairsociety/logicrando/internal/world"
)

// Inventory is a snapshot of progression: item counts, flagged events and the
// times each area has been reached at. Every mutator only ever grows the
// snapshot. Clone it to build a counterfactual; never share one between
// goroutines.
type Inventory struct {
	items  []uint8
	events []bool
	areas  []world.TimeOfDay
}

// NewInventory creates an empty inventory sized for w
func NewInventory(w *world.World) *Inventory {
	return &Inventory{
		items:  make([]uint8, len(w.Items)),
		events: make([]bool, len(w.Events)),
		areas:  make([]world.TimeOfDay, len(w.Areas)),
	}
}

// Clone returns an independent copy
func (inv *Inventory) Clone() *Inventory {
	c := &Inventory{
		items:  make([]uint8, len(inv.items)),
		events: make([]bool, len(inv.events)),
		areas:  make([]world.TimeOfDay, len(inv.areas)),
	}
	copy(c.items, inv.items)
	copy(c.events, inv.events)
	copy(c.areas, inv.areas)
	return c
}

// Count returns how many copies of item are held
func (inv *Inventory) Count(item world.ItemID) int {
	if item < 0 || int(item) >= len(inv.items) {
		return 0
	}
	return int(inv.items[item])
}

// Add collects one copy of item. Counts saturate instead of wrapping.
func (inv *Inventory) Add(item world.ItemID) {
	inv.AddN(item, 1)
}

// AddN collects n copies of item, saturating at the counter's maximum.
func (inv *Inventory) AddN(item world.ItemID, n int) {
	if item < 0 || int(item) >= len(inv.items) || n <= 0 {
		return
	}
	total := int(inv.items[item]) + n
	if total > math.MaxUint8 {
		total = math.MaxUint8
	}
	inv.items[item] = uint8(total)
}

// HasEvent reports whether ev has been flagged
func (inv *Inventory) HasEvent(ev world.EventID) bool {
	if ev < 0 || int(ev) >= len(inv.events) {
		return false
	}
	return inv.events[ev]
}

// SetEvent flags ev and reports whether it was newly flagged.
func (inv *Inventory) SetEvent(ev world.EventID) bool {
	if ev < 0 || int(ev) >= len(inv.events) || inv.events[ev] {
		return false
	}
	inv.events[ev] = true
	return true
}

// AreaTimeOfDay returns the times area has been reached at
func (inv *Inventory) AreaTimeOfDay(area world.AreaID) world.TimeOfDay {
	if area < 0 || int(area) >= len(inv.areas) {
		return 0
	}
	return inv.areas[area]
}

// AddAreaTimeOfDay marks area reachable at tod and reports whether anything new was added.
func (inv *Inventory) AddAreaTimeOfDay(area world.AreaID, tod world.TimeOfDay) bool {
	if area < 0 || int(area) >= len(inv.areas) {
		return false
	}
	merged := inv.areas[area].Union(tod)
	if merged == inv.areas[area] {
		return false
	}
	inv.areas[area] = merged
	return true
}

// ItemTotal returns the sum of all held item counts
func (inv *Inventory) ItemTotal() int {
	total := 0
	for _, c := range inv.items {
		total += int(c)
	}
	return total
}

// EventCount returns the number of flagged events
func (inv *Inventory) EventCount() int {
	n := 0
	for _, set := range inv.events {
		if set {
			n++
		}
	}
	return n
}

// Covers reports whether inv holds at least everything other holds.
func (inv *Inventory) Covers(other *Inventory) bool {
	for i, c := range other.items {
		if i >= len(inv.items) || inv.items[i] < c {
			return false
		}
	}
	for i, set := range other.events {
		if set && (i >= len(inv.events) || !inv.events[i]) {
			return false
		}
	}
	for i, tod := range other.areas {
		if i >= len(inv.areas) || !inv.areas[i].Has(tod) {
			return false
		}
	}
	return true
}
