// Package explore grows a progression snapshot to its fixed point: starting
// from the start area it repeatedly walks connections, collects placed items
// and flags events until nothing new becomes reachable.
package explore

import (
	"github.com/zyedidia/generic/mapset"

	"github.com/lawnchairsociety/logicrando/internal/logic"
	"github.com/lawnchairsociety/logicrando/internal/placement"
	"github.com/lawnchairsociety/logicrando/internal/world"
)

// Wildcards lets any listed open exit lead to any listed open entrance.
// Entrance coupling uses it to stay optimistic about connections it has not
// committed yet.
type Wildcards struct {
	Exits     []world.ExitID
	Entrances []world.EntranceID
}

// Input is everything the explorer reads for one world. None of it is mutated.
type Input struct {
	World     *world.World
	Table     *logic.Table
	Placement *placement.Placement
	Settings  logic.Settings
	Wildcards *Wildcards
}

// Collected is one item picked up during exploration.
type Collected struct {
	Location placement.WorldLocation
	Item     placement.WorldItem
}

// Sphere is a batch of locations that become reachable together.
type Sphere []Collected

type worldState struct {
	in        Input
	inv       *logic.Inventory
	collected mapset.Set[world.LocationID]
	wildIn    mapset.Set[world.EntranceID]
}

// Explorer computes reachability across one or more worlds. Items found in
// one world are credited to the world that owns them, so a multiworld seed is
// explored as a whole.
type Explorer struct {
	worlds []*worldState
}

// New creates an explorer over inputs. inventories optionally seeds each
// world with a counterfactual snapshot; nil entries start empty. The explorer
// takes ownership of the inventories it is given.
func New(inputs []Input, inventories []*logic.Inventory) *Explorer {
	e := &Explorer{worlds: make([]*worldState, len(inputs))}

	for i, in := range inputs {
		var inv *logic.Inventory
		if i < len(inventories) && inventories[i] != nil {
			inv = inventories[i]
		} else {
			inv = logic.NewInventory(in.World)
		}
		ws := &worldState{
			in:        in,
			inv:       inv,
			collected: mapset.New[world.LocationID](),
			wildIn:    mapset.New[world.EntranceID](),
		}
		if in.Wildcards != nil {
			for _, en := range in.Wildcards.Entrances {
				ws.wildIn.Put(en)
			}
		}
		e.worlds[i] = ws
	}

	for _, ws := range e.worlds {
		for _, it := range ws.in.Placement.StartingItems() {
			if it.World >= 0 && it.World < len(e.worlds) {
				e.worlds[it.World].inv.Add(it.Item)
			}
		}

		entrance, tod := ws.in.Placement.Start()
		if entrance == world.NoEntrance {
			continue
		}
		area := &ws.in.World.Areas[ws.in.World.Entrances[entrance].Area]
		ws.inv.AddAreaTimeOfDay(area.ID, arrival(area, tod))
	}
	return e
}

// arrival returns the times an area is reached at when entered at tod.
func arrival(a *world.Area, tod world.TimeOfDay) world.TimeOfDay {
	if a.CanSleep {
		return a.TimeOfDay
	}
	if a.TimeOfDay == world.Both {
		return tod
	}
	return a.TimeOfDay
}

// Step runs one round of area exploration, item collection and event
// flagging, and reports whether anything new was reached.
func (e *Explorer) Step() bool {
	areas := e.exploreAreas()
	items := e.collectItems(nil)
	events := e.collectEvents()
	return areas || items || events
}

// Explore runs rounds until the fixed point.
func (e *Explorer) Explore() {
	for e.Step() {
	}
}

// CanReach reports whether the requirement of k in world w can be met,
// exploring only as far as needed to decide.
func (e *Explorer) CanReach(w int, k logic.Key) bool {
	for {
		if e.satisfied(w, k) {
			return true
		}
		if !e.Step() {
			return false
		}
	}
}

// ReachableTimeOfDay returns every time area can be reached at in world w.
func (e *Explorer) ReachableTimeOfDay(w int, area world.AreaID) world.TimeOfDay {
	ws := e.worlds[w]
	possible := ws.in.World.Areas[area].TimeOfDay
	for {
		if tod := ws.inv.AreaTimeOfDay(area); tod == possible {
			return tod
		}
		if !e.Step() {
			return ws.inv.AreaTimeOfDay(area)
		}
	}
}

// Inventory returns world w's live snapshot. Callers must not modify it.
func (e *Explorer) Inventory(w int) *logic.Inventory {
	return e.worlds[w].inv
}

// Collected reports whether the item at loc in world w has been picked up.
func (e *Explorer) Collected(w int, loc world.LocationID) bool {
	return e.worlds[w].collected.Has(loc)
}

// ReachableLocations explores to the fixed point and returns every location
// of world w whose requirement is met, whether or not it holds an item.
func (e *Explorer) ReachableLocations(w int) []world.LocationID {
	e.Explore()
	ws := e.worlds[w]
	var out []world.LocationID
	for i := range ws.in.World.Locations {
		if e.locationReachable(ws, world.LocationID(i)) {
			out = append(out, world.LocationID(i))
		}
	}
	return out
}

// Spheres explores in batches: each sphere holds every placed item that is
// reachable before any item of that sphere is collected.
func (e *Explorer) Spheres() []Sphere {
	var spheres []Sphere
	for {
		for {
			areas := e.exploreAreas()
			events := e.collectEvents()
			if !areas && !events {
				break
			}
		}

		var batch Sphere
		if !e.collectItems(&batch) {
			return spheres
		}
		spheres = append(spheres, batch)
	}
}

func (e *Explorer) exploreAreas() bool {
	progressed := false
	for {
		changed := false
		for _, ws := range e.worlds {
			for i := range ws.in.World.Areas {
				if e.exploreArea(ws, &ws.in.World.Areas[i]) {
					changed = true
				}
			}
		}
		if !changed {
			return progressed
		}
		progressed = true
	}
}

func (e *Explorer) exploreArea(ws *worldState, area *world.Area) bool {
	w := ws.in.World
	if ws.inv.AreaTimeOfDay(area.ID) == area.TimeOfDay {
		return false
	}

	gained := false
	enter := func(from world.AreaID, k logic.Key) {
		req := ws.in.Table.Get(k)
		ws.inv.AreaTimeOfDay(from).Each(func(tod world.TimeOfDay) {
			if req.Satisfied(ws.inv, ws.in.Settings, tod) {
				if ws.inv.AddAreaTimeOfDay(area.ID, arrival(area, tod)) {
					gained = true
				}
			}
		})
	}

	for _, en := range area.Entrances {
		for _, x := range ws.in.Placement.ExitsInto(en) {
			enter(w.Exits[x].Area, logic.ExitKey(x))
		}
		if ws.wildIn.Has(en) {
			for _, x := range ws.in.Wildcards.Exits {
				if ws.in.Placement.Entrance(x) == world.NoEntrance {
					enter(w.Exits[x].Area, logic.ExitKey(x))
				}
			}
		}
	}
	for _, from := range area.LogicEntrances {
		enter(from, logic.LogicEdgeKey(from, area.ID))
	}

	if area.CanSleep && !ws.inv.AreaTimeOfDay(area.ID).IsEmpty() {
		if ws.inv.AddAreaTimeOfDay(area.ID, area.TimeOfDay) {
			gained = true
		}
	}
	return gained
}

// collectItems picks up every reachable placed item. When batch is non-nil
// reachability is decided before anything is collected, so the whole batch
// reflects one snapshot.
func (e *Explorer) collectItems(batch *Sphere) bool {
	progressed := false
	for {
		var found []Collected
		for wi, ws := range e.worlds {
			for i := range ws.in.World.Locations {
				loc := world.LocationID(i)
				if ws.collected.Has(loc) {
					continue
				}
				item, ok := ws.in.Placement.ItemAt(loc)
				if !ok || !e.locationReachable(ws, loc) {
					continue
				}
				found = append(found, Collected{
					Location: placement.WorldLocation{World: wi, Location: loc},
					Item:     item,
				})
				if batch == nil {
					e.collect(found[len(found)-1])
				}
			}
		}

		if len(found) == 0 {
			return progressed
		}
		progressed = true
		if batch != nil {
			for _, c := range found {
				e.collect(c)
			}
			*batch = found
			return true
		}
	}
}

func (e *Explorer) collect(c Collected) {
	e.worlds[c.Location.World].collected.Put(c.Location.Location)
	if c.Item.World >= 0 && c.Item.World < len(e.worlds) {
		e.worlds[c.Item.World].inv.Add(c.Item.Item)
	}
}

func (e *Explorer) collectEvents() bool {
	progressed := false
	for {
		changed := false
		for _, ws := range e.worlds {
			for i := range ws.in.World.Events {
				ev := world.EventID(i)
				if ws.inv.HasEvent(ev) || !e.eventReachable(ws, ev) {
					continue
				}
				ws.inv.SetEvent(ev)
				changed = true
			}
		}
		if !changed {
			return progressed
		}
		progressed = true
	}
}

func (e *Explorer) satisfied(w int, k logic.Key) bool {
	ws := e.worlds[w]
	switch k.Kind {
	case logic.KeyLocation:
		return e.locationReachable(ws, world.LocationID(k.A))
	case logic.KeyEvent:
		ev := world.EventID(k.A)
		return ws.inv.HasEvent(ev) || e.eventReachable(ws, ev)
	case logic.KeyExit:
		return satisfiedFrom(ws, ws.in.World.Exits[k.A].Area, k)
	case logic.KeyLogicEdge:
		return satisfiedFrom(ws, world.AreaID(k.A), k)
	}
	return false
}

// locationReachable needs the owning area reached at any time; the location's
// own rule is then evaluated regardless of time of day.
func (e *Explorer) locationReachable(ws *worldState, loc world.LocationID) bool {
	if ws.inv.AreaTimeOfDay(ws.in.World.Locations[loc].Area).IsEmpty() {
		return false
	}
	return ws.in.Table.Get(logic.LocationKey(loc)).Satisfied(ws.inv, ws.in.Settings, world.Both)
}

func (e *Explorer) eventReachable(ws *worldState, ev world.EventID) bool {
	area := ws.in.World.Events[ev].Area
	if area == world.NoArea {
		return ws.in.Table.Get(logic.EventKey(ev)).Satisfied(ws.inv, ws.in.Settings, world.Both)
	}
	return satisfiedFrom(ws, area, logic.EventKey(ev))
}

// satisfiedFrom reports whether k's requirement holds at some time area has been reached at.
func satisfiedFrom(ws *worldState, area world.AreaID, k logic.Key) bool {
	req := ws.in.Table.Get(k)
	ok := false
	ws.inv.AreaTimeOfDay(area).Each(func(tod world.TimeOfDay) {
		if !ok && req.Satisfied(ws.inv, ws.in.Settings, tod) {
			ok = true
		}
	})
	return ok
}
