// Package gamedata loads a game's logic data (areas, locations, connections,
// events and the rule text gating them) from YAML.
package gamedata

import (
	"fmt"
	"os"
	"sort"

	"gopkg.in/yaml.v3"

	"github.com/lawnchairsociety/logicrando/internal/logic"
	"github.com/lawnchairsociety/logicrando/internal/world"
)

// StartDefinition for YAML parsing
type StartDefinition struct {
	Entrance string `yaml:"entrance"`
	Time     string `yaml:"time"` // day, night or both
}

// EventDefinition for YAML parsing
type EventDefinition struct {
	Area     string `yaml:"area"` // empty for area-independent events
	Requires string `yaml:"requires"`
}

// LocationDefinition for YAML parsing
type LocationDefinition struct {
	Item     string `yaml:"item"` // vanilla item, empty if not a check
	Requires string `yaml:"requires"`
}

// ExitDefinition for YAML parsing
type ExitDefinition struct {
	To         string `yaml:"to"`      // vanilla entrance
	Coupled    string `yaml:"coupled"` // entrance of the same area forming a doorway
	Requires   string `yaml:"requires"`
	Randomized bool   `yaml:"randomized"`
}

// AreaDefinition for YAML parsing
type AreaDefinition struct {
	Stage      string                        `yaml:"stage"`
	Time       string                        `yaml:"time"`
	CanSleep   bool                          `yaml:"can_sleep"`
	Locations  map[string]LocationDefinition `yaml:"locations"`
	Entrances  []string                      `yaml:"entrances"`
	Exits      map[string]ExitDefinition     `yaml:"exits"`
	LogicExits map[string]string             `yaml:"logic_exits"` // target area -> requirement
}

// GameDataConfig represents a logic data file
type GameDataConfig struct {
	Start  StartDefinition            `yaml:"start"`
	Items  []string                   `yaml:"items"`
	Events map[string]EventDefinition `yaml:"events"`
	Areas  map[string]AreaDefinition  `yaml:"areas"`
}

// Logic is a loaded world together with its base requirement table
type Logic struct {
	World *world.World
	Table *logic.Table
}

// LoadGameDataFromYAML loads logic data from a YAML file
func LoadGameDataFromYAML(filename string) (*GameDataConfig, error) {
	data, err := os.ReadFile(filename)
	if err != nil {
		return nil, fmt.Errorf("failed to read game data file: %w", err)
	}
	return ParseGameData(data)
}

// ParseGameData parses logic data from YAML bytes
func ParseGameData(data []byte) (*GameDataConfig, error) {
	var config GameDataConfig
	if err := yaml.Unmarshal(data, &config); err != nil {
		return nil, fmt.Errorf("failed to parse game data YAML: %w", err)
	}
	return &config, nil
}

// Load reads and builds a logic data file in one step
func Load(filename string) (*Logic, error) {
	config, err := LoadGameDataFromYAML(filename)
	if err != nil {
		return nil, err
	}
	return config.Build()
}

// Build assigns IDs and compiles every rule.
//
// YAML maps are unordered, so areas, events, locations and exits are numbered
// in name order; items keep the order of the items list. The same file always
// yields the same IDs, which keeps seeds reproducible.
func (config *GameDataConfig) Build() (*Logic, error) {
	b := world.NewBuilder()

	for _, name := range config.Items {
		b.AddItem(name)
	}

	areaNames := sortedKeys(config.Areas)
	areas := make(map[string]world.AreaID, len(areaNames))
	for _, name := range areaNames {
		def := config.Areas[name]
		tod, err := world.ParseTimeOfDay(def.Time)
		if err != nil {
			return nil, fmt.Errorf("area %s: %w", name, err)
		}
		id, err := b.AddArea(name, def.Stage, tod, def.CanSleep)
		if err != nil {
			return nil, err
		}
		areas[name] = id
	}

	lookupArea := func(name string) (world.AreaID, error) {
		id, ok := areas[name]
		if !ok {
			return world.NoArea, fmt.Errorf("unknown area %q", name)
		}
		return id, nil
	}

	for _, name := range sortedKeys(config.Events) {
		area := world.NoArea
		if def := config.Events[name]; def.Area != "" {
			var err error
			if area, err = lookupArea(def.Area); err != nil {
				return nil, fmt.Errorf("event %s: %w", name, err)
			}
		}
		if _, err := b.AddEvent(name, area); err != nil {
			return nil, err
		}
	}

	entrances := make(map[string]world.EntranceID)
	for _, areaName := range areaNames {
		def := config.Areas[areaName]
		for _, locName := range sortedKeys(def.Locations) {
			vanilla := world.NoItem
			if item := def.Locations[locName].Item; item != "" {
				vanilla = b.AddItem(item)
			}
			if _, err := b.AddLocation(areas[areaName], locName, vanilla); err != nil {
				return nil, fmt.Errorf("area %s: %w", areaName, err)
			}
		}
		for _, enName := range def.Entrances {
			id, err := b.AddEntrance(areas[areaName], enName)
			if err != nil {
				return nil, fmt.Errorf("area %s: %w", areaName, err)
			}
			entrances[enName] = id
		}
	}

	lookupEntrance := func(name string) (world.EntranceID, error) {
		id, ok := entrances[name]
		if !ok {
			return world.NoEntrance, fmt.Errorf("unknown entrance %q", name)
		}
		return id, nil
	}

	for _, areaName := range areaNames {
		def := config.Areas[areaName]
		for _, exitName := range sortedKeys(def.Exits) {
			exitDef := def.Exits[exitName]
			vanilla := world.NoEntrance
			if exitDef.To != "" {
				var err error
				if vanilla, err = lookupEntrance(exitDef.To); err != nil {
					return nil, fmt.Errorf("exit %s: %w", exitName, err)
				}
			}
			id, err := b.AddExit(areas[areaName], exitName, vanilla, exitDef.Randomized)
			if err != nil {
				return nil, fmt.Errorf("area %s: %w", areaName, err)
			}
			if exitDef.Coupled != "" {
				en, err := lookupEntrance(exitDef.Coupled)
				if err != nil {
					return nil, fmt.Errorf("exit %s: %w", exitName, err)
				}
				if err := b.Couple(id, en); err != nil {
					return nil, err
				}
			}
		}
		for _, target := range sortedKeys(def.LogicExits) {
			to, err := lookupArea(target)
			if err != nil {
				return nil, fmt.Errorf("area %s logic exit: %w", areaName, err)
			}
			if err := b.AddLogicEdge(areas[areaName], to); err != nil {
				return nil, err
			}
		}
	}

	start, err := lookupEntrance(config.Start.Entrance)
	if err != nil {
		return nil, fmt.Errorf("start: %w", err)
	}
	startTime, err := world.ParseTimeOfDay(config.Start.Time)
	if err != nil {
		return nil, fmt.Errorf("start: %w", err)
	}
	if err := b.SetStart(start, startTime); err != nil {
		return nil, err
	}

	w, err := b.Build()
	if err != nil {
		return nil, err
	}

	table, err := config.compileRules(w)
	if err != nil {
		return nil, err
	}
	return &Logic{World: w, Table: table}, nil
}

// compileRules parses every requirement into a fresh base table. Missing
// requirements are always satisfied.
func (config *GameDataConfig) compileRules(w *world.World) (*logic.Table, error) {
	table := logic.NewTable()

	set := func(k logic.Key, what, text string) error {
		req, err := logic.Parse(text, w)
		if err != nil {
			return fmt.Errorf("%s: %w", what, err)
		}
		table.Set(k, req)
		return nil
	}

	for name, def := range config.Events {
		id, _ := w.EventByName(name)
		if err := set(logic.EventKey(id), "event "+name, def.Requires); err != nil {
			return nil, err
		}
	}

	for areaName, def := range config.Areas {
		from, _ := w.AreaByName(areaName)
		for name, loc := range def.Locations {
			id, _ := w.LocationByName(name)
			if err := set(logic.LocationKey(id), "location "+name, loc.Requires); err != nil {
				return nil, err
			}
		}
		for name, exit := range def.Exits {
			id, _ := w.ExitByName(name)
			if err := set(logic.ExitKey(id), "exit "+name, exit.Requires); err != nil {
				return nil, err
			}
		}
		for target, text := range def.LogicExits {
			to, _ := w.AreaByName(target)
			if err := set(logic.LogicEdgeKey(from, to), areaName+" -> "+target, text); err != nil {
				return nil, err
			}
		}
	}
	return table, nil
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
