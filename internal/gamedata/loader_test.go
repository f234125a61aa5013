package gamedata

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/lawnchairsociety/logicrando/internal/explore"
	"github.com/lawnchairsociety/logicrando/internal/logic"
	"github.com/lawnchairsociety/logicrando/internal/placement"
	"github.com/lawnchairsociety/logicrando/internal/world"
)

const sampleData = `
start:
  entrance: Village - Start
  time: day
items:
  - Key
events:
  Victory:
    requires: item("Prize") && event("Opened Gate")
  Opened Gate:
    area: Courtyard
    requires: item("Key")
areas:
  Village:
    stage: Overworld
    time: both
    can_sleep: true
    entrances: [Village - Start, Village - From Courtyard]
    locations:
      Village Chest:
        item: Key
    exits:
      Village - To Courtyard:
        to: Courtyard - From Village
        coupled: Village - From Courtyard
        randomized: true
  Courtyard:
    stage: Overworld
    time: night
    entrances: [Courtyard - From Village]
    locations:
      Courtyard Chest:
        item: Prize
        requires: event("Opened Gate")
    exits:
      Courtyard - To Village:
        to: Village - From Courtyard
        coupled: Courtyard - From Village
        randomized: true
    logic_exits:
      Village: item("Key")
`

func writeData(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "logic.yaml")
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("Failed to write test file: %v", err)
	}
	return path
}

func TestLoadGameDataFromYAML(t *testing.T) {
	config, err := LoadGameDataFromYAML(writeData(t, sampleData))
	if err != nil {
		t.Fatalf("LoadGameDataFromYAML failed: %v", err)
	}

	if len(config.Areas) != 2 {
		t.Errorf("Expected 2 areas, got %d", len(config.Areas))
	}
	village := config.Areas["Village"]
	if !village.CanSleep {
		t.Error("Village should allow sleeping")
	}
	if got := village.Exits["Village - To Courtyard"].Coupled; got != "Village - From Courtyard" {
		t.Errorf("Expected coupled entrance 'Village - From Courtyard', got %q", got)
	}
	if config.Start.Entrance != "Village - Start" {
		t.Errorf("Expected start 'Village - Start', got %q", config.Start.Entrance)
	}
}

func TestLoadGameDataFromYAML_MissingFile(t *testing.T) {
	_, err := LoadGameDataFromYAML("/nonexistent/path/logic.yaml")
	if err == nil {
		t.Error("Expected error for missing file")
	}
}

func TestLoadGameDataFromYAML_InvalidYAML(t *testing.T) {
	_, err := LoadGameDataFromYAML(writeData(t, "areas: [not: a: map"))
	if err == nil {
		t.Error("Expected error for invalid YAML")
	}
}

func TestBuild(t *testing.T) {
	l, err := Load(writeData(t, sampleData))
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	w := l.World

	// Areas are numbered by name.
	if courtyard, _ := w.AreaByName("Courtyard"); courtyard != 0 {
		t.Errorf("Courtyard ID = %d, want 0", courtyard)
	}
	if key, _ := w.ItemByName("Key"); key != 0 {
		t.Errorf("Key ID = %d, want 0 (items list order)", key)
	}
	if _, ok := w.ItemByName("Prize"); !ok {
		t.Error("vanilla items should be registered automatically")
	}

	gate, _ := w.EventByName("Opened Gate")
	if w.Events[gate].Area == world.NoArea {
		t.Error("Opened Gate should belong to the Courtyard")
	}
	victory, _ := w.EventByName("Victory")
	if w.Events[victory].Area != world.NoArea {
		t.Error("Victory should not belong to any area")
	}

	exit, _ := w.ExitByName("Village - To Courtyard")
	back, _ := w.EntranceByName("Village - From Courtyard")
	if w.Exits[exit].Coupled != back {
		t.Error("Village - To Courtyard should be coupled with Village - From Courtyard")
	}
	if len(w.RandomizedExits()) != 2 {
		t.Errorf("Expected 2 randomized exits, got %d", len(w.RandomizedExits()))
	}

	// Unwritten rules default to always.
	if got := l.Table.Get(logic.ExitKey(exit)); got != logic.Fixed(true) {
		t.Errorf("exit requirement = %s, want true", got)
	}
	village, _ := w.AreaByName("Village")
	courtyard, _ := w.AreaByName("Courtyard")
	if _, ok := l.Table.Lookup(logic.LogicEdgeKey(courtyard, village)); !ok {
		t.Error("logic exit should have a rule")
	}
}

func TestBuiltWorldIsBeatable(t *testing.T) {
	l, err := Load(writeData(t, sampleData))
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	p := placement.New(l.World)
	p.ConnectVanilla(l.World, nil)
	for _, loc := range l.World.Checks() {
		if err := p.Place(loc, placement.WorldItem{Item: l.World.Locations[loc].Vanilla}); err != nil {
			t.Fatalf("Place failed: %v", err)
		}
	}

	e := explore.New([]explore.Input{{World: l.World, Table: l.Table, Placement: p}}, nil)
	victory, _ := l.World.EventByName("Victory")
	if !e.CanReach(0, logic.EventKey(victory)) {
		t.Error("the vanilla game should be beatable")
	}
}

func TestBuild_Errors(t *testing.T) {
	tests := []struct {
		name    string
		content string
		wantErr error
	}{
		{
			name: "unknown item in rule",
			content: `
start: {entrance: A - Start}
areas:
  A:
    entrances: [A - Start]
    locations:
      Chest: {requires: item("Hookshot")}
`,
			wantErr: logic.ErrUnknownName,
		},
		{
			name: "unknown exit target",
			content: `
start: {entrance: A - Start}
areas:
  A:
    entrances: [A - Start]
    exits:
      A - Out: {to: Nowhere}
`,
		},
		{
			name: "unknown start",
			content: `
start: {entrance: Missing}
areas:
  A:
    entrances: [A - Start]
`,
		},
		{
			name: "bad time of day",
			content: `
start: {entrance: A - Start}
areas:
  A:
    time: dusk
    entrances: [A - Start]
`,
		},
		{
			name: "duplicate entrance",
			content: `
start: {entrance: A - Start}
areas:
  A:
    entrances: [A - Start, A - Start]
`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			config, err := ParseGameData([]byte(tt.content))
			if err != nil {
				t.Fatalf("ParseGameData failed: %v", err)
			}
			_, err = config.Build()
			if err == nil {
				t.Fatal("Expected Build to fail")
			}
			if tt.wantErr != nil && !errors.Is(err, tt.wantErr) {
				t.Errorf("Build error = %v, want %v", err, tt.wantErr)
			}
		})
	}
}
