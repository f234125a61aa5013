package logic

import (
	"fmt"

	"github.com/lawnchairsociety/logicrando/internal/world"
)

// KeyKind discriminates the requirement key variants
type KeyKind uint8

const (
	KeyExit      KeyKind = iota // requirement to use a physical exit
	KeyLogicEdge                // requirement of a non-physical area-to-area edge
	KeyLocation                 // requirement to collect a location
	KeyEvent                    // requirement to flag an event
)

// String returns the string representation of a KeyKind
func (k KeyKind) String() string {
	switch k {
	case KeyExit:
		return "exit"
	case KeyLogicEdge:
		return "logic_edge"
	case KeyLocation:
		return "location"
	case KeyEvent:
		return "event"
	default:
		return "unknown"
	}
}

// Key identifies the requirement of one exit, logic edge, location or event.
// It is comparable and used directly as a map key.
type Key struct {
	Kind KeyKind
	A    int // exit, source area, location or event ID
	B    int // destination area for logic edges, otherwise 0
}

// ExitKey returns the key of an exit's requirement
func ExitKey(exit world.ExitID) Key {
	return Key{Kind: KeyExit, A: int(exit)}
}

// LogicEdgeKey returns the key of the logic edge from one area to another
func LogicEdgeKey(from, to world.AreaID) Key {
	return Key{Kind: KeyLogicEdge, A: int(from), B: int(to)}
}

// LocationKey returns the key of a location's requirement
func LocationKey(loc world.LocationID) Key {
	return Key{Kind: KeyLocation, A: int(loc)}
}

// EventKey returns the key of an event's requirement
func EventKey(ev world.EventID) Key {
	return Key{Kind: KeyEvent, A: int(ev)}
}

func (k Key) String() string {
	if k.Kind == KeyLogicEdge {
		return fmt.Sprintf("%s(%d->%d)", k.Kind, k.A, k.B)
	}
	return fmt.Sprintf("%s(%d)", k.Kind, k.A)
}

// Table maps requirement keys to expressions through a chain of layers.
//
// Lookups walk from the innermost layer outward; writes only touch the
// innermost layer. A child layer lets one attempt override a handful of rules
// while sharing the base table untouched. Tables are not safe for concurrent
// writes, but any number of goroutines may read a table nobody writes to.
type Table struct {
	parent *Table
	rules  map[Key]Requirement
}

// NewTable creates an empty root table
func NewTable() *Table {
	return &Table{rules: make(map[Key]Requirement)}
}

// Child returns a new, empty layer on top of t.
func (t *Table) Child() *Table {
	return &Table{parent: t, rules: make(map[Key]Requirement)}
}

// Parent returns the layer below t, or nil for a root table.
func (t *Table) Parent() *Table {
	return t.parent
}

// Depth returns the number of layers in the chain, counting t.
func (t *Table) Depth() int {
	depth := 0
	for layer := t; layer != nil; layer = layer.parent {
		depth++
	}
	return depth
}

// Lookup returns the first requirement found for k walking outward.
func (t *Table) Lookup(k Key) (Requirement, bool) {
	for layer := t; layer != nil; layer = layer.parent {
		if r, ok := layer.rules[k]; ok {
			return r, true
		}
	}
	return nil, false
}

// Get is Lookup with undefined keys treated as unsatisfiable.
func (t *Table) Get(k Key) Requirement {
	if r, ok := t.Lookup(k); ok {
		return r
	}
	return Fixed(false)
}

// Set stores r for k in the innermost layer.
func (t *Table) Set(k Key, r Requirement) {
	t.rules[k] = r
}

// Len returns the number of keys defined directly in this layer.
func (t *Table) Len() int {
	return len(t.rules)
}

// RequireAlso makes k additionally require whatever extra requires.
// The combined rule is written to the innermost layer.
func (t *Table) RequireAlso(k, extra Key) {
	t.Set(k, And{t.Get(k), t.Get(extra)})
}
