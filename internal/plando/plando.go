// Package plando loads designer-authored placement entries from YAML.
package plando

import (
	"fmt"
	"os"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"

	"github.com/lawnchairsociety/logicrando/internal/placement"
	"github.com/lawnchairsociety/logicrando/internal/randomize"
	"github.com/lawnchairsociety/logicrando/internal/world"
)

const (
	// NothingItem leaves the chosen location empty.
	NothingItem = "nothing"
	// StartLocation gives the chosen item to the player at the start.
	StartLocation = "start"
)

var validate *validator.Validate

func init() {
	validate = validator.New()
}

// ItemDefinition for YAML parsing
type ItemDefinition struct {
	Item   string   `yaml:"item" validate:"required"`
	World  *int     `yaml:"world" validate:"omitempty,gte=0"`  // defaults to the file's own world
	Weight *float64 `yaml:"weight" validate:"omitempty,gte=0"` // defaults to 1
}

// LocationDefinition for YAML parsing
type LocationDefinition struct {
	Location string   `yaml:"location" validate:"required"`
	World    *int     `yaml:"world" validate:"omitempty,gte=0"`  // defaults to the file's own world
	Weight   *float64 `yaml:"weight" validate:"omitempty,gte=0"` // defaults to 1
}

// EntryDefinition for YAML parsing
type EntryDefinition struct {
	Name      string               `yaml:"name" validate:"required"`
	Items     []ItemDefinition     `yaml:"items" validate:"required,min=1,dive"`
	Locations []LocationDefinition `yaml:"locations" validate:"required,min=1,dive"`
	Count     int                  `yaml:"count" validate:"gte=0"`               // defaults to 1
	MinCount  *int                 `yaml:"min_count" validate:"omitempty,gte=0"` // defaults to count
	User      *bool                `yaml:"user"`                                 // defaults to true
}

// LoadEntriesFromYAML loads plando entries from a YAML file
func LoadEntriesFromYAML(filename string) ([]EntryDefinition, error) {
	data, err := os.ReadFile(filename)
	if err != nil {
		return nil, fmt.Errorf("failed to read plando file: %w", err)
	}
	return ParseEntries(data)
}

// ParseEntries parses and validates plando entries from YAML bytes
func ParseEntries(data []byte) ([]EntryDefinition, error) {
	var defs []EntryDefinition
	if err := yaml.Unmarshal(data, &defs); err != nil {
		return nil, fmt.Errorf("failed to parse plando YAML: %w", err)
	}
	for i := range defs {
		if err := defs[i].Validate(); err != nil {
			return nil, fmt.Errorf("plando entry %d: %w", i, err)
		}
	}
	return defs, nil
}

// Validate checks the structural constraints of an entry.
func (def *EntryDefinition) Validate() error {
	if err := validate.Struct(def); err != nil {
		return err
	}
	if def.MinCount != nil && *def.MinCount > def.count() {
		return fmt.Errorf("min_count %d exceeds count %d", *def.MinCount, def.count())
	}
	return nil
}

func (def *EntryDefinition) count() int {
	if def.Count == 0 {
		return 1
	}
	return def.Count
}

func weight(w *float64) float64 {
	if w == nil {
		return 1
	}
	return *w
}

// ToEntries resolves names against the worlds of a multiworld game. Items and
// locations without a world belong to world self.
func ToEntries(defs []EntryDefinition, worlds []*world.World, self int) ([]randomize.Entry, error) {
	entries := make([]randomize.Entry, 0, len(defs))
	for i := range defs {
		entry, err := createEntryFromDefinition(&defs[i], worlds, self)
		if err != nil {
			return nil, fmt.Errorf("plando entry %q: %w", defs[i].Name, err)
		}
		entries = append(entries, entry)
	}
	return entries, nil
}

func createEntryFromDefinition(def *EntryDefinition, worlds []*world.World, self int) (randomize.Entry, error) {
	entry := randomize.Entry{
		Name:         def.Name,
		Count:        def.count(),
		MinCount:     def.count(),
		UserAuthored: def.User == nil || *def.User,
	}
	if def.MinCount != nil {
		entry.MinCount = *def.MinCount
	}

	lookupWorld := func(ref *int) (int, *world.World, error) {
		i := self
		if ref != nil {
			i = *ref
		}
		if i < 0 || i >= len(worlds) {
			return i, nil, fmt.Errorf("unknown world %d", i)
		}
		return i, worlds[i], nil
	}

	for _, it := range def.Items {
		wi, w, err := lookupWorld(it.World)
		if err != nil {
			return entry, err
		}
		if it.Item == NothingItem {
			entry.Items = append(entry.Items, randomize.WeightedItem{Empty: true, Weight: weight(it.Weight)})
			continue
		}
		id, ok := w.ItemByName(it.Item)
		if !ok {
			return entry, fmt.Errorf("unknown item %q in world %d", it.Item, wi)
		}
		entry.Items = append(entry.Items, randomize.WeightedItem{
			Item:   placement.WorldItem{World: wi, Item: id},
			Weight: weight(it.Weight),
		})
	}

	for _, loc := range def.Locations {
		wi, w, err := lookupWorld(loc.World)
		if err != nil {
			return entry, err
		}
		if loc.Location == StartLocation {
			entry.Locations = append(entry.Locations, randomize.WeightedLocation{
				Location: placement.WorldLocation{World: wi, Location: world.NoLocation},
				Start:    true,
				Weight:   weight(loc.Weight),
			})
			continue
		}
		id, ok := w.LocationByName(loc.Location)
		if !ok {
			return entry, fmt.Errorf("unknown location %q in world %d", loc.Location, wi)
		}
		entry.Locations = append(entry.Locations, randomize.WeightedLocation{
			Location: placement.WorldLocation{World: wi, Location: id},
			Weight:   weight(loc.Weight),
		})
	}
	return entry, nil
}
