package logic

import (
	"errors"
	"strings"
	"testing"

	"github.com/lawnchairsociety/logicrando/internal/world"
)

func testWorld(t *testing.T) *world.World {
	t.Helper()
	b := world.NewBuilder()
	yard, _ := b.AddArea("Yard", "", world.Both, false)
	b.AddArea("Tower", "", world.Night, false)
	b.AddItem("Key")
	b.AddItem("Heart Piece")
	b.AddEvent("Boss Defeated", world.NoArea)
	en, _ := b.AddEntrance(yard, "Yard - Start")
	b.SetStart(en, world.Day)

	w, err := b.Build()
	if err != nil {
		t.Fatalf("Build failed: %v", err)
	}
	return w
}

func TestCompoundRequirements(t *testing.T) {
	w := testWorld(t)
	key, _ := w.ItemByName("Key")
	inv := NewInventory(w)

	if !(And{}).Satisfied(inv, nil, world.Both) {
		t.Error("empty And should be satisfied")
	}
	if (Or{}).Satisfied(inv, nil, world.Both) {
		t.Error("empty Or should not be satisfied")
	}

	needKey := ItemCount{Item: key, Count: 1}
	if needKey.Satisfied(inv, nil, world.Both) {
		t.Error("Key should not be satisfied before collecting it")
	}
	inv.Add(key)
	if !needKey.Satisfied(inv, nil, world.Both) {
		t.Error("Key should be satisfied after collecting it")
	}
	if !(Or{Fixed(false), needKey}).Satisfied(inv, nil, world.Both) {
		t.Error("Or with one satisfied child should be satisfied")
	}
	if (And{Fixed(true), ItemCount{Item: key, Count: 2}}).Satisfied(inv, nil, world.Both) {
		t.Error("And with an unsatisfied child should not be satisfied")
	}
}

func TestAreaRequirementHonoursAllowedTime(t *testing.T) {
	w := testWorld(t)
	yard, _ := w.AreaByName("Yard")
	inv := NewInventory(w)
	inv.AddAreaTimeOfDay(yard, world.Day)

	tests := []struct {
		name    string
		req     Area
		allowed world.TimeOfDay
		want    bool
	}{
		{"any time", Area{ID: yard, TimeOfDay: world.Both}, world.Both, true},
		{"day wanted", Area{ID: yard, TimeOfDay: world.Day}, world.Both, true},
		{"night wanted", Area{ID: yard, TimeOfDay: world.Night}, world.Both, false},
		{"only night allowed", Area{ID: yard, TimeOfDay: world.Both}, world.Night, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.req.Satisfied(inv, nil, tt.allowed); got != tt.want {
				t.Errorf("Satisfied() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestInventorySaturatesAndClones(t *testing.T) {
	w := testWorld(t)
	key, _ := w.ItemByName("Key")
	boss, _ := w.EventByName("Boss Defeated")

	inv := NewInventory(w)
	inv.AddN(key, 300)
	if inv.Count(key) != 255 {
		t.Errorf("Count() = %d, want 255", inv.Count(key))
	}
	inv.Add(key)
	if inv.Count(key) != 255 {
		t.Errorf("Count() after overflow = %d, want 255", inv.Count(key))
	}

	clone := inv.Clone()
	if !clone.SetEvent(boss) {
		t.Error("SetEvent should report a new event")
	}
	if clone.SetEvent(boss) {
		t.Error("SetEvent should not report an event twice")
	}
	if inv.HasEvent(boss) {
		t.Error("clone mutation leaked into the original")
	}
	if !clone.Covers(inv) || inv.Covers(clone) {
		t.Error("Covers() is wrong")
	}
}

func TestTableLayering(t *testing.T) {
	k := LocationKey(3)
	other := EventKey(1)

	base := NewTable()
	base.Set(k, Fixed(false))
	base.Set(other, Fixed(true))

	child := base.Child()
	child.Set(k, Fixed(true))

	if got := child.Get(k); got != Fixed(true) {
		t.Errorf("child lookup = %v, want true", got)
	}
	if got := base.Get(k); got != Fixed(false) {
		t.Errorf("base lookup = %v, want false (child writes must not leak)", got)
	}
	if got := child.Get(other); got != Fixed(true) {
		t.Errorf("child should fall through to base, got %v", got)
	}
	if _, ok := child.Lookup(ExitKey(9)); ok {
		t.Error("undefined key should not be found")
	}
	if got := child.Get(ExitKey(9)); got != Fixed(false) {
		t.Errorf("undefined key should be unsatisfiable, got %v", got)
	}
	if child.Depth() != 2 || base.Depth() != 1 {
		t.Errorf("Depth() = %d/%d, want 2/1", child.Depth(), base.Depth())
	}
	if child.Parent() != base {
		t.Error("Parent() should return the base layer")
	}
}

func TestRequireAlso(t *testing.T) {
	w := testWorld(t)
	key, _ := w.ItemByName("Key")

	base := NewTable()
	goal := EventKey(0)
	gate := LocationKey(0)
	base.Set(goal, Fixed(true))
	base.Set(gate, ItemCount{Item: key, Count: 1})

	layer := base.Child()
	layer.RequireAlso(goal, gate)

	inv := NewInventory(w)
	if layer.Get(goal).Satisfied(inv, nil, world.Both) {
		t.Error("goal should now need the Key")
	}
	if !base.Get(goal).Satisfied(inv, nil, world.Both) {
		t.Error("base goal should be unchanged")
	}
	inv.Add(key)
	if !layer.Get(goal).Satisfied(inv, nil, world.Both) {
		t.Error("goal should be satisfied with the Key")
	}
}

func TestSettingsCheck(t *testing.T) {
	settings := Settings{
		"open_gate": true,
		"hearts":    3,
		"ratio":     0.5,
		"mode":      "hard",
	}

	tests := []struct {
		name  string
		check SettingCheck
		want  bool
	}{
		{"truthy bool", SettingCheck{Name: "open_gate", Op: OpTruthy}, true},
		{"missing is falsy", SettingCheck{Name: "nope", Op: OpTruthy}, false},
		{"int ge", SettingCheck{Name: "hearts", Op: OpGe, Value: 3}, true},
		{"int lt", SettingCheck{Name: "hearts", Op: OpLt, Value: 3}, false},
		{"int vs float", SettingCheck{Name: "hearts", Op: OpEq, Value: 3.0}, true},
		{"float gt", SettingCheck{Name: "ratio", Op: OpGt, Value: 0.25}, true},
		{"string eq", SettingCheck{Name: "mode", Op: OpEq, Value: "hard"}, true},
		{"string ne", SettingCheck{Name: "mode", Op: OpNe, Value: "easy"}, true},
		{"missing number is zero", SettingCheck{Name: "nope", Op: OpEq, Value: 0}, true},
		{"bool eq", SettingCheck{Name: "open_gate", Op: OpEq, Value: false}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.check.Satisfied(nil, settings, world.Both); got != tt.want {
				t.Errorf("%s = %v, want %v", tt.check, got, tt.want)
			}
		})
	}

	if settings.Int("hearts", 0) != 3 || settings.String("mode", "") != "hard" || !settings.Bool("open_gate") {
		t.Error("typed accessors returned wrong values")
	}
}

func TestParse(t *testing.T) {
	w := testWorld(t)
	key, _ := w.ItemByName("Key")
	heart, _ := w.ItemByName("Heart Piece")
	inv := NewInventory(w)
	inv.Add(key)
	inv.AddN(heart, 2)

	settings := Settings{"hearts": 4, "open_gate": false}

	tests := []struct {
		rule string
		want bool
	}{
		{"", true},
		{"true", true},
		{"Key", true},
		{`item("Heart Piece")`, true},
		{`count("Heart Piece", 2)`, true},
		{`count("Heart Piece", 3)`, false},
		{`Key && count("Heart Piece", 3)`, false},
		{`Key and (false or count("Heart Piece", 1))`, true},
		{`event("Boss Defeated")`, false},
		{`area("Tower", "night")`, false},
		{`setting("open_gate") || setting("hearts") >= 4`, true},
		{`setting("hearts") < 4`, false},
	}

	for _, tt := range tests {
		t.Run(tt.rule, func(t *testing.T) {
			req, err := Parse(tt.rule, w)
			if err != nil {
				t.Fatalf("Parse(%q) failed: %v", tt.rule, err)
			}
			if got := req.Satisfied(inv, settings, world.Both); got != tt.want {
				t.Errorf("Parse(%q) = %s, satisfied %v, want %v", tt.rule, req, got, tt.want)
			}
		})
	}
}

func TestParseRejects(t *testing.T) {
	w := testWorld(t)

	tests := []struct {
		rule string
		want error
	}{
		{"Sword", ErrUnknownName},
		{`event("Nope")`, ErrUnknownName},
		{`area("Basement")`, ErrUnknownName},
		{"!Key", ErrUnsupported},
		{"Key + 1", ErrUnsupported},
		{`launch("Key")`, ErrUnsupported},
		{`count("Key", 256)`, ErrCountRange},
	}

	for _, tt := range tests {
		t.Run(tt.rule, func(t *testing.T) {
			_, err := Parse(tt.rule, w)
			if !errors.Is(err, tt.want) {
				t.Errorf("Parse(%q) error = %v, want %v", tt.rule, err, tt.want)
			}
		})
	}

	if _, err := Parse(`count("Key", 255)`, w); err != nil {
		t.Errorf("Parse should accept a count of 255: %v", err)
	}
	_, err := Parse(`count("Key", 300)`, w)
	if err == nil || !strings.Contains(err.Error(), `count("Key", 300)`) {
		t.Errorf("count error should name the rule, got %v", err)
	}

	if _, err := Parse("Key &&", w); err == nil {
		t.Error("Parse should reject malformed syntax")
	}
}

func TestParseFlattens(t *testing.T) {
	w := testWorld(t)

	req := MustParse(`Key && Key && (Key && true)`, w)
	and, ok := req.(And)
	if !ok {
		t.Fatalf("Parse returned %T, want And", req)
	}
	if len(and) != 3 {
		t.Errorf("len(And) = %d, want 3 after flattening", len(and))
	}

	if got := MustParse("Key || true", w); got != Fixed(true) {
		t.Errorf("Key || true = %v, want true", got)
	}
}
