// Package placement holds the mutable result of one randomization attempt:
// which entrance each exit leads to, which item sits at each location, and
// what the player starts with.
package placement

import (
	"bytes"
	"encoding/binary"
	"encoding/hex"
	"errors"
	"fmt"
	"sort"

	"golang.org/x/crypto/blake2b"

	"github.com/lawnchairsociety/logicrando/internal/world"
)

var (
	// ErrLocationFilled is returned when a location already holds an item or is marked empty
	ErrLocationFilled = errors.New("location already filled")
	// ErrExitConnected is returned when an exit already leads somewhere
	ErrExitConnected = errors.New("exit already connected")
)

// WorldItem is an item together with the world whose player receives it.
type WorldItem struct {
	World int
	Item  world.ItemID
}

// WorldLocation is a location within one world of a multiworld seed.
type WorldLocation struct {
	World    int
	Location world.LocationID
}

type slotState uint8

const (
	slotOpen slotState = iota
	slotItem
	slotEmpty
)

type slot struct {
	state slotState
	item  WorldItem
}

// Placement is the connection graph of one world.
type Placement struct {
	connections []world.EntranceID
	reverse     [][]world.ExitID
	slots       []slot
	starting    []WorldItem
	start       world.EntranceID
	startTime   world.TimeOfDay
}

// New creates an empty placement sized for w, starting where w starts.
func New(w *world.World) *Placement {
	p := &Placement{
		connections: make([]world.EntranceID, len(w.Exits)),
		reverse:     make([][]world.ExitID, len(w.Entrances)),
		slots:       make([]slot, len(w.Locations)),
		start:       w.Start,
		startTime:   w.StartTimeOfDay,
	}
	for i := range p.connections {
		p.connections[i] = world.NoEntrance
	}
	return p
}

// Connect makes exit lead to entrance.
func (p *Placement) Connect(exit world.ExitID, entrance world.EntranceID) error {
	if err := p.checkExit(exit); err != nil {
		return err
	}
	if entrance < 0 || int(entrance) >= len(p.reverse) {
		return fmt.Errorf("entrance %d out of range", entrance)
	}
	if p.connections[exit] != world.NoEntrance {
		return fmt.Errorf("exit %d: %w", exit, ErrExitConnected)
	}
	p.connections[exit] = entrance
	p.reverse[entrance] = append(p.reverse[entrance], exit)
	return nil
}

// Disconnect removes exit's connection, if any.
func (p *Placement) Disconnect(exit world.ExitID) {
	if p.checkExit(exit) != nil {
		return
	}
	entrance := p.connections[exit]
	if entrance == world.NoEntrance {
		return
	}
	p.connections[exit] = world.NoEntrance

	feeders := p.reverse[entrance]
	for i, e := range feeders {
		if e == exit {
			p.reverse[entrance] = append(feeders[:i:i], feeders[i+1:]...)
			break
		}
	}
}

// Entrance returns where exit leads, or world.NoEntrance.
func (p *Placement) Entrance(exit world.ExitID) world.EntranceID {
	if p.checkExit(exit) != nil {
		return world.NoEntrance
	}
	return p.connections[exit]
}

// ExitsInto returns every exit currently leading to entrance. The slice must not be modified.
func (p *Placement) ExitsInto(entrance world.EntranceID) []world.ExitID {
	if entrance < 0 || int(entrance) >= len(p.reverse) {
		return nil
	}
	return p.reverse[entrance]
}

// ConnectVanilla connects every exit accepted by keep to its vanilla entrance.
// Exits that are already connected or have no vanilla target are skipped.
func (p *Placement) ConnectVanilla(w *world.World, keep func(*world.Exit) bool) error {
	for i := range w.Exits {
		exit := &w.Exits[i]
		if exit.Vanilla == world.NoEntrance || p.connections[exit.ID] != world.NoEntrance {
			continue
		}
		if keep != nil && !keep(exit) {
			continue
		}
		if err := p.Connect(exit.ID, exit.Vanilla); err != nil {
			return fmt.Errorf("failed to connect vanilla exit %s: %w", exit.Name, err)
		}
	}
	return nil
}

// Place puts item at loc.
func (p *Placement) Place(loc world.LocationID, item WorldItem) error {
	if err := p.claim(loc); err != nil {
		return err
	}
	p.slots[loc] = slot{state: slotItem, item: item}
	return nil
}

// MarkEmpty records that loc deliberately holds nothing.
func (p *Placement) MarkEmpty(loc world.LocationID) error {
	if err := p.claim(loc); err != nil {
		return err
	}
	p.slots[loc] = slot{state: slotEmpty}
	return nil
}

func (p *Placement) claim(loc world.LocationID) error {
	if loc < 0 || int(loc) >= len(p.slots) {
		return fmt.Errorf("location %d out of range", loc)
	}
	if p.slots[loc].state != slotOpen {
		return fmt.Errorf("location %d: %w", loc, ErrLocationFilled)
	}
	return nil
}

// ItemAt returns the item placed at loc; ok is false for open or empty locations.
func (p *Placement) ItemAt(loc world.LocationID) (WorldItem, bool) {
	if loc < 0 || int(loc) >= len(p.slots) || p.slots[loc].state != slotItem {
		return WorldItem{}, false
	}
	return p.slots[loc].item, true
}

// IsAssigned reports whether loc holds an item or was marked empty.
func (p *Placement) IsAssigned(loc world.LocationID) bool {
	return loc >= 0 && int(loc) < len(p.slots) && p.slots[loc].state != slotOpen
}

// IsEmpty reports whether loc was marked empty.
func (p *Placement) IsEmpty(loc world.LocationID) bool {
	return loc >= 0 && int(loc) < len(p.slots) && p.slots[loc].state == slotEmpty
}

// AddStartingItem gives the player of this world item before play begins.
func (p *Placement) AddStartingItem(item WorldItem) {
	p.starting = append(p.starting, item)
}

// StartingItems returns the starting inventory in insertion order.
func (p *Placement) StartingItems() []WorldItem {
	return p.starting
}

// SetStart overrides the initial entrance and time of day.
func (p *Placement) SetStart(entrance world.EntranceID, tod world.TimeOfDay) {
	p.start = entrance
	p.startTime = tod
}

// Start returns the initial entrance and time of day.
func (p *Placement) Start() (world.EntranceID, world.TimeOfDay) {
	return p.start, p.startTime
}

// Clone returns an independent copy.
func (p *Placement) Clone() *Placement {
	c := &Placement{
		connections: append([]world.EntranceID(nil), p.connections...),
		reverse:     make([][]world.ExitID, len(p.reverse)),
		slots:       append([]slot(nil), p.slots...),
		starting:    append([]WorldItem(nil), p.starting...),
		start:       p.start,
		startTime:   p.startTime,
	}
	for i, exits := range p.reverse {
		c.reverse[i] = append([]world.ExitID(nil), exits...)
	}
	return c
}

// Digest returns a blake2b-256 hash of the placement's canonical encoding.
// Equal placements always hash equally; starting items are hashed as a multiset.
func (p *Placement) Digest() string {
	var buf bytes.Buffer
	put := func(v int64) {
		var b [binary.MaxVarintLen64]byte
		n := binary.PutVarint(b[:], v)
		buf.Write(b[:n])
	}

	put(int64(p.start))
	put(int64(p.startTime))

	put(int64(len(p.connections)))
	for _, e := range p.connections {
		put(int64(e))
	}

	put(int64(len(p.slots)))
	for _, s := range p.slots {
		put(int64(s.state))
		put(int64(s.item.World))
		put(int64(s.item.Item))
	}

	starting := append([]WorldItem(nil), p.starting...)
	sort.Slice(starting, func(i, j int) bool {
		if starting[i].World != starting[j].World {
			return starting[i].World < starting[j].World
		}
		return starting[i].Item < starting[j].Item
	})
	put(int64(len(starting)))
	for _, it := range starting {
		put(int64(it.World))
		put(int64(it.Item))
	}

	sum := blake2b.Sum256(buf.Bytes())
	return hex.EncodeToString(sum[:])
}

func (p *Placement) checkExit(exit world.ExitID) error {
	if exit < 0 || int(exit) >= len(p.connections) {
		return fmt.Errorf("exit %d out of range", exit)
	}
	return nil
}
