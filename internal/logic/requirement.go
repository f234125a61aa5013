// Package logic implements the requirement expressions that gate progression,
// the layered table that maps requirement keys to expressions, and the
// inventory snapshot expressions are evaluated against.
package logic

import (
	"fmt"
	"strings"

	"github.com/lawnchairsociety/logicrando/internal/world"
)

// Requirement is an immutable boolean expression over an Inventory.
//
// Satisfied must be a pure function of its arguments. allowed restricts the
// times at which Area requirements may be met; pass world.Both to ignore it.
type Requirement interface {
	Satisfied(inv *Inventory, settings Settings, allowed world.TimeOfDay) bool
	String() string
}

// And is satisfied when every child is. An empty And is always satisfied.
type And []Requirement

// Or is satisfied when any child is. An empty Or is never satisfied.
type Or []Requirement

// ItemCount is satisfied when at least Count copies of Item are held.
type ItemCount struct {
	Item  world.ItemID
	Count int
}

// Event is satisfied once the event has been flagged.
type Event struct {
	ID world.EventID
}

// Area is satisfied when the area is reachable at one of TimeOfDay, restricted
// further by the caller's allowed mask.
type Area struct {
	ID        world.AreaID
	TimeOfDay world.TimeOfDay
}

// Fixed is a constant requirement.
type Fixed bool

// Satisfied implements Requirement
func (r And) Satisfied(inv *Inventory, settings Settings, allowed world.TimeOfDay) bool {
	for _, child := range r {
		if !child.Satisfied(inv, settings, allowed) {
			return false
		}
	}
	return true
}

func (r And) String() string {
	return joinRequirements([]Requirement(r), " && ", "true")
}

// Satisfied implements Requirement
func (r Or) Satisfied(inv *Inventory, settings Settings, allowed world.TimeOfDay) bool {
	for _, child := range r {
		if child.Satisfied(inv, settings, allowed) {
			return true
		}
	}
	return false
}

func (r Or) String() string {
	return joinRequirements([]Requirement(r), " || ", "false")
}

// Satisfied implements Requirement
func (r ItemCount) Satisfied(inv *Inventory, _ Settings, _ world.TimeOfDay) bool {
	return inv.Count(r.Item) >= r.Count
}

func (r ItemCount) String() string {
	return fmt.Sprintf("count(%d, %d)", r.Item, r.Count)
}

// Satisfied implements Requirement
func (r Event) Satisfied(inv *Inventory, _ Settings, _ world.TimeOfDay) bool {
	return inv.HasEvent(r.ID)
}

func (r Event) String() string {
	return fmt.Sprintf("event(%d)", r.ID)
}

// Satisfied implements Requirement
func (r Area) Satisfied(inv *Inventory, _ Settings, allowed world.TimeOfDay) bool {
	return !inv.AreaTimeOfDay(r.ID).Intersect(allowed).Intersect(r.TimeOfDay).IsEmpty()
}

func (r Area) String() string {
	return fmt.Sprintf("area(%d, %s)", r.ID, r.TimeOfDay)
}

// Satisfied implements Requirement
func (r Fixed) Satisfied(*Inventory, Settings, world.TimeOfDay) bool {
	return bool(r)
}

func (r Fixed) String() string {
	if r {
		return "true"
	}
	return "false"
}

func joinRequirements(reqs []Requirement, sep, empty string) string {
	if len(reqs) == 0 {
		return empty
	}
	parts := make([]string, len(reqs))
	for i, r := range reqs {
		s := r.String()
		switch r.(type) {
		case And, Or:
			s = "(" + s + ")"
		}
		parts[i] = s
	}
	return strings.Join(parts, sep)
}
