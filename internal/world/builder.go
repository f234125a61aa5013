package world

import (
	"errors"
	"fmt"
)

// ErrNoStart is returned by Build when no start entrance was set.
var ErrNoStart = errors.New("world has no start entrance")

// Builder assembles a World, assigning dense IDs in insertion order.
type Builder struct {
	w *World
}

// NewBuilder creates an empty builder
func NewBuilder() *Builder {
	return &Builder{
		w: &World{
			Start:           NoEntrance,
			StartTimeOfDay:  Day,
			itemsByName:     make(map[string]ItemID),
			locationsByName: make(map[string]LocationID),
			eventsByName:    make(map[string]EventID),
			areasByName:     make(map[string]AreaID),
			exitsByName:     make(map[string]ExitID),
			entrancesByName: make(map[string]EntranceID),
		},
	}
}

// AddItem registers an item, returning the existing ID if the name is already known.
func (b *Builder) AddItem(name string) ItemID {
	if id, ok := b.w.itemsByName[name]; ok {
		return id
	}
	id := ItemID(len(b.w.Items))
	b.w.Items = append(b.w.Items, Item{ID: id, Name: name})
	b.w.itemsByName[name] = id
	return id
}

// AddArea registers an area. Names must be unique.
func (b *Builder) AddArea(name, stage string, tod TimeOfDay, canSleep bool) (AreaID, error) {
	if _, exists := b.w.areasByName[name]; exists {
		return NoArea, fmt.Errorf("duplicate area %q", name)
	}
	if tod.IsEmpty() {
		tod = Both
	}
	id := AreaID(len(b.w.Areas))
	b.w.Areas = append(b.w.Areas, Area{
		ID:        id,
		Name:      name,
		Stage:     stage,
		TimeOfDay: tod,
		CanSleep:  canSleep,
	})
	b.w.areasByName[name] = id
	return id, nil
}

// AddLocation registers a location inside an area. vanilla may be NoItem.
func (b *Builder) AddLocation(area AreaID, name string, vanilla ItemID) (LocationID, error) {
	if err := b.checkArea(area); err != nil {
		return -1, err
	}
	if _, exists := b.w.locationsByName[name]; exists {
		return -1, fmt.Errorf("duplicate location %q", name)
	}
	id := LocationID(len(b.w.Locations))
	b.w.Locations = append(b.w.Locations, Location{ID: id, Name: name, Area: area, Vanilla: vanilla})
	b.w.locationsByName[name] = id
	b.w.Areas[area].Locations = append(b.w.Areas[area].Locations, id)
	return id, nil
}

// AddEvent registers an event. area may be NoArea.
func (b *Builder) AddEvent(name string, area AreaID) (EventID, error) {
	if area != NoArea {
		if err := b.checkArea(area); err != nil {
			return -1, err
		}
	}
	if _, exists := b.w.eventsByName[name]; exists {
		return -1, fmt.Errorf("duplicate event %q", name)
	}
	id := EventID(len(b.w.Events))
	b.w.Events = append(b.w.Events, Event{ID: id, Name: name, Area: area})
	b.w.eventsByName[name] = id
	return id, nil
}

// AddEntrance registers an entrance leading into area.
func (b *Builder) AddEntrance(area AreaID, name string) (EntranceID, error) {
	if err := b.checkArea(area); err != nil {
		return NoEntrance, err
	}
	if _, exists := b.w.entrancesByName[name]; exists {
		return NoEntrance, fmt.Errorf("duplicate entrance %q", name)
	}
	id := EntranceID(len(b.w.Entrances))
	b.w.Entrances = append(b.w.Entrances, Entrance{ID: id, Name: name, Area: area, Coupled: NoExit})
	b.w.entrancesByName[name] = id
	b.w.Areas[area].Entrances = append(b.w.Areas[area].Entrances, id)
	return id, nil
}

// AddExit registers an exit leaving area. vanilla may be NoEntrance and set later with SetVanilla.
func (b *Builder) AddExit(area AreaID, name string, vanilla EntranceID, randomized bool) (ExitID, error) {
	if err := b.checkArea(area); err != nil {
		return NoExit, err
	}
	if _, exists := b.w.exitsByName[name]; exists {
		return NoExit, fmt.Errorf("duplicate exit %q", name)
	}
	id := ExitID(len(b.w.Exits))
	b.w.Exits = append(b.w.Exits, Exit{
		ID:         id,
		Name:       name,
		Area:       area,
		Vanilla:    vanilla,
		Coupled:    NoEntrance,
		Randomized: randomized,
	})
	b.w.exitsByName[name] = id
	b.w.Areas[area].Exits = append(b.w.Areas[area].Exits, id)
	return id, nil
}

// SetVanilla sets the entrance an exit leads to in the unrandomized game.
func (b *Builder) SetVanilla(exit ExitID, entrance EntranceID) error {
	if exit < 0 || int(exit) >= len(b.w.Exits) {
		return fmt.Errorf("unknown exit %d", exit)
	}
	if entrance < 0 || int(entrance) >= len(b.w.Entrances) {
		return fmt.Errorf("unknown entrance %d", entrance)
	}
	b.w.Exits[exit].Vanilla = entrance
	return nil
}

// Couple pairs an exit and an entrance that form the same doorway.
// Both must belong to the same area.
func (b *Builder) Couple(exit ExitID, entrance EntranceID) error {
	if exit < 0 || int(exit) >= len(b.w.Exits) {
		return fmt.Errorf("unknown exit %d", exit)
	}
	if entrance < 0 || int(entrance) >= len(b.w.Entrances) {
		return fmt.Errorf("unknown entrance %d", entrance)
	}
	ex := &b.w.Exits[exit]
	en := &b.w.Entrances[entrance]
	if ex.Area != en.Area {
		return fmt.Errorf("cannot couple exit %q and entrance %q: different areas", ex.Name, en.Name)
	}
	ex.Coupled = entrance
	en.Coupled = exit
	return nil
}

// AddLogicEdge registers a non-physical traversal from one area to another.
func (b *Builder) AddLogicEdge(from, to AreaID) error {
	if err := b.checkArea(from); err != nil {
		return err
	}
	if err := b.checkArea(to); err != nil {
		return err
	}
	for _, src := range b.w.Areas[to].LogicEntrances {
		if src == from {
			return fmt.Errorf("duplicate logic edge %q -> %q", b.w.Areas[from].Name, b.w.Areas[to].Name)
		}
	}
	b.w.Areas[to].LogicEntrances = append(b.w.Areas[to].LogicEntrances, from)
	return nil
}

// SetStart sets the entrance and time the game starts at.
func (b *Builder) SetStart(entrance EntranceID, tod TimeOfDay) error {
	if entrance < 0 || int(entrance) >= len(b.w.Entrances) {
		return fmt.Errorf("unknown start entrance %d", entrance)
	}
	b.w.Start = entrance
	b.w.StartTimeOfDay = tod
	return nil
}

// Build finishes the world. The builder must not be used afterwards.
func (b *Builder) Build() (*World, error) {
	w := b.w
	if w.Start == NoEntrance {
		return nil, ErrNoStart
	}
	start := w.Areas[w.Entrances[w.Start].Area]
	if start.TimeOfDay.Intersect(w.StartTimeOfDay).IsEmpty() {
		return nil, fmt.Errorf("start area %q cannot be visited at %s", start.Name, w.StartTimeOfDay)
	}
	b.w = nil
	return w, nil
}

func (b *Builder) checkArea(area AreaID) error {
	if area < 0 || int(area) >= len(b.w.Areas) {
		return fmt.Errorf("unknown area %d", area)
	}
	return nil
}
