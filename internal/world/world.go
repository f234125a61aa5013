// Package world holds the static, read-only catalogue of a game's logic data:
// items, locations, events, areas and the exits/entrances connecting them.
//
// Every record is addressed by a dense integer ID that indexes the matching
// slice on World directly. A World is assembled once through a Builder and
// never changes afterwards, so it can be shared freely between attempts.
package world

// ItemID identifies an item in World.Items
type ItemID int

// LocationID identifies a location in World.Locations
type LocationID int

// EventID identifies an event in World.Events
type EventID int

// AreaID identifies an area in World.Areas
type AreaID int

// ExitID identifies an exit in World.Exits
type ExitID int

// EntranceID identifies an entrance in World.Entrances
type EntranceID int

// Sentinels for "no such record".
const (
	NoItem     ItemID     = -1
	NoLocation LocationID = -1
	NoEvent    EventID    = -1
	NoArea     AreaID     = -1
	NoExit     ExitID     = -1
	NoEntrance EntranceID = -1
)

// Item is a collectible that can be placed at a location.
type Item struct {
	ID   ItemID
	Name string
}

// Location is a place holding at most one item.
type Location struct {
	ID      LocationID
	Name    string
	Area    AreaID
	Vanilla ItemID // item found here in the unrandomized game, NoItem if not a check
}

// IsCheck returns true if the location holds an item before randomization
func (l *Location) IsCheck() bool {
	return l.Vanilla != NoItem
}

// Event is a one-time progression flag.
type Event struct {
	ID   EventID
	Name string
	Area AreaID // NoArea for area-independent events
}

// Area is a traversal node of the logic graph.
type Area struct {
	ID        AreaID
	Name      string
	Stage     string
	TimeOfDay TimeOfDay // times the area can exist at
	CanSleep  bool      // reaching one time unlocks the other

	Locations      []LocationID
	Exits          []ExitID
	Entrances      []EntranceID
	LogicEntrances []AreaID // source areas of non-physical logic edges into this area
}

// Exit is the departing half of a physical connection.
type Exit struct {
	ID         ExitID
	Name       string
	Area       AreaID     // area the exit leaves from
	Vanilla    EntranceID // entrance it leads to in the unrandomized game
	Coupled    EntranceID // entrance of the same doorway, NoEntrance if one-way
	Randomized bool
}

// Entrance is the arriving half of a physical connection.
type Entrance struct {
	ID      EntranceID
	Name    string
	Area    AreaID // area the entrance leads into
	Coupled ExitID // exit of the same doorway, NoExit if one-way
}

// World is the complete logic catalogue for one game.
type World struct {
	Items     []Item
	Locations []Location
	Events    []Event
	Areas     []Area
	Exits     []Exit
	Entrances []Entrance

	Start          EntranceID
	StartTimeOfDay TimeOfDay

	itemsByName     map[string]ItemID
	locationsByName map[string]LocationID
	eventsByName    map[string]EventID
	areasByName     map[string]AreaID
	exitsByName     map[string]ExitID
	entrancesByName map[string]EntranceID
}

// ItemByName looks up an item ID
func (w *World) ItemByName(name string) (ItemID, bool) {
	id, ok := w.itemsByName[name]
	return id, ok
}

// LocationByName looks up a location ID
func (w *World) LocationByName(name string) (LocationID, bool) {
	id, ok := w.locationsByName[name]
	return id, ok
}

// EventByName looks up an event ID
func (w *World) EventByName(name string) (EventID, bool) {
	id, ok := w.eventsByName[name]
	return id, ok
}

// AreaByName looks up an area ID
func (w *World) AreaByName(name string) (AreaID, bool) {
	id, ok := w.areasByName[name]
	return id, ok
}

// ExitByName looks up an exit ID
func (w *World) ExitByName(name string) (ExitID, bool) {
	id, ok := w.exitsByName[name]
	return id, ok
}

// EntranceByName looks up an entrance ID
func (w *World) EntranceByName(name string) (EntranceID, bool) {
	id, ok := w.entrancesByName[name]
	return id, ok
}

// StartArea returns the area the start entrance leads into.
func (w *World) StartArea() AreaID {
	if w.Start == NoEntrance {
		return NoArea
	}
	return w.Entrances[w.Start].Area
}

// Checks returns every location that holds an item in the unrandomized game, in ID order.
func (w *World) Checks() []LocationID {
	checks := make([]LocationID, 0, len(w.Locations))
	for i := range w.Locations {
		if w.Locations[i].IsCheck() {
			checks = append(checks, w.Locations[i].ID)
		}
	}
	return checks
}

// VanillaItemCounts returns, per item ID, how many checks hold that item.
func (w *World) VanillaItemCounts() []int {
	counts := make([]int, len(w.Items))
	for i := range w.Locations {
		if v := w.Locations[i].Vanilla; v != NoItem {
			counts[v]++
		}
	}
	return counts
}

// RandomizedExits returns every exit flagged as randomized, in ID order.
func (w *World) RandomizedExits() []ExitID {
	var exits []ExitID
	for i := range w.Exits {
		if w.Exits[i].Randomized {
			exits = append(exits, w.Exits[i].ID)
		}
	}
	return exits
}
