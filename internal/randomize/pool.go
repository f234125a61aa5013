package randomize

import (
	"github.com/lawnchairsociety/logicrando/internal/explore"
	"github.com/lawnchairsociety/logicrando/internal/logic"
	"github.com/lawnchairsociety/logicrando/internal/placement"
)

// ItemPool is the ordered multiset of items still waiting to be placed.
type ItemPool struct {
	items []placement.WorldItem
}

// NewItemPool creates a pool holding a copy of items
func NewItemPool(items []placement.WorldItem) *ItemPool {
	return &ItemPool{items: append([]placement.WorldItem(nil), items...)}
}

// Len returns the number of items left
func (p *ItemPool) Len() int {
	return len(p.items)
}

// Count returns how many copies of item are left
func (p *ItemPool) Count(item placement.WorldItem) int {
	n := 0
	for _, it := range p.items {
		if it == item {
			n++
		}
	}
	return n
}

// Remove takes the last copy of item out of the pool and reports whether there was one.
func (p *ItemPool) Remove(item placement.WorldItem) bool {
	for i := len(p.items) - 1; i >= 0; i-- {
		if p.items[i] == item {
			p.items = append(p.items[:i], p.items[i+1:]...)
			return true
		}
	}
	return false
}

// Items returns a copy of the remaining items in pool order
func (p *ItemPool) Items() []placement.WorldItem {
	return append([]placement.WorldItem(nil), p.items...)
}

// assume builds per-world inventories holding every item in items except
// one copy of skip, if given. Items are credited to their owning world.
func assume(inputs []explore.Input, items []placement.WorldItem, skip *placement.WorldItem) []*logic.Inventory {
	invs := make([]*logic.Inventory, len(inputs))
	for i, in := range inputs {
		invs[i] = logic.NewInventory(in.World)
	}

	skipped := skip == nil
	for _, it := range items {
		if !skipped && it == *skip {
			skipped = true
			continue
		}
		if it.World >= 0 && it.World < len(invs) {
			invs[it.World].Add(it.Item)
		}
	}
	return invs
}

func removeLocation(locs []placement.WorldLocation, i int) []placement.WorldLocation {
	return append(locs[:i], locs[i+1:]...)
}
