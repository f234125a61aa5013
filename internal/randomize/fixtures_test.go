package randomize

import (
	"testing"

	"github.com/lawnchairsociety/logicrando/internal/explore"
	"github.com/lawnchairsociety/logicrando/internal/logic"
	"github.com/lawnchairsociety/logicrando/internal/placement"
	"github.com/lawnchairsociety/logicrando/internal/world"
)

// hubWorld is a start hub with two-way doorways to two rooms. The Key sits in
// the hub, the Prize behind the Key in room 1 and the Sword in room 2.
// Victory needs the Prize and the Sword.
type hubWorld struct {
	w                 *world.World
	table             *logic.Table
	key, prize, sword world.ItemID
	hubChest          world.LocationID
	r1Chest, r2Chest  world.LocationID
	victory           world.EventID
}

func newHubWorld(t *testing.T) *hubWorld {
	t.Helper()
	hw := &hubWorld{}
	b := world.NewBuilder()

	hub, _ := b.AddArea("Hub", "", world.Both, false)
	r1, _ := b.AddArea("Room 1", "", world.Both, false)
	r2, _ := b.AddArea("Room 2", "", world.Both, false)

	hw.key = b.AddItem("Key")
	hw.prize = b.AddItem("Prize")
	hw.sword = b.AddItem("Sword")
	hw.hubChest, _ = b.AddLocation(hub, "Hub Chest", hw.key)
	hw.r1Chest, _ = b.AddLocation(r1, "Room 1 Chest", hw.prize)
	hw.r2Chest, _ = b.AddLocation(r2, "Room 2 Chest", hw.sword)
	hw.victory, _ = b.AddEvent("Victory", world.NoArea)

	start, _ := b.AddEntrance(hub, "Hub - Start")
	hubR1In, _ := b.AddEntrance(hub, "Hub - Room 1 Door")
	hubR2In, _ := b.AddEntrance(hub, "Hub - Room 2 Door")
	r1In, _ := b.AddEntrance(r1, "Room 1 - Door")
	r2In, _ := b.AddEntrance(r2, "Room 2 - Door")

	hubR1Out, _ := b.AddExit(hub, "Hub - Room 1 Door", r1In, true)
	hubR2Out, _ := b.AddExit(hub, "Hub - Room 2 Door", r2In, true)
	r1Out, _ := b.AddExit(r1, "Room 1 - Door", hubR1In, true)
	r2Out, _ := b.AddExit(r2, "Room 2 - Door", hubR2In, true)

	doorways := []struct {
		exit     world.ExitID
		entrance world.EntranceID
	}{
		{hubR1Out, hubR1In},
		{hubR2Out, hubR2In},
		{r1Out, r1In},
		{r2Out, r2In},
	}
	for _, d := range doorways {
		if err := b.Couple(d.exit, d.entrance); err != nil {
			t.Fatalf("Couple failed: %v", err)
		}
	}
	if err := b.SetStart(start, world.Day); err != nil {
		t.Fatalf("SetStart failed: %v", err)
	}

	var err error
	hw.w, err = b.Build()
	if err != nil {
		t.Fatalf("Build failed: %v", err)
	}

	hw.table = logic.NewTable()
	for i := range hw.w.Exits {
		hw.table.Set(logic.ExitKey(world.ExitID(i)), logic.Fixed(true))
	}
	hw.table.Set(logic.LocationKey(hw.hubChest), logic.Fixed(true))
	hw.table.Set(logic.LocationKey(hw.r1Chest), logic.ItemCount{Item: hw.key, Count: 1})
	hw.table.Set(logic.LocationKey(hw.r2Chest), logic.Fixed(true))
	hw.table.Set(logic.EventKey(hw.victory), logic.And{
		logic.ItemCount{Item: hw.prize, Count: 1},
		logic.ItemCount{Item: hw.sword, Count: 1},
	})
	return hw
}

func (hw *hubWorld) worldSpec() WorldSpec {
	return WorldSpec{
		World:              hw.w,
		Table:              hw.table,
		RandomizeEntrances: true,
		CoupleEntrances:    true,
		Goal:               hw.victory,
	}
}

func (hw *hubWorld) vanillaInput(t *testing.T) explore.Input {
	t.Helper()
	p := placement.New(hw.w)
	if err := p.ConnectVanilla(hw.w, nil); err != nil {
		t.Fatalf("ConnectVanilla failed: %v", err)
	}
	return explore.Input{World: hw.w, Table: hw.table, Placement: p}
}

func (hw *hubWorld) item(id world.ItemID) placement.WorldItem {
	return placement.WorldItem{Item: id}
}

func (hw *hubWorld) loc(id world.LocationID) placement.WorldLocation {
	return placement.WorldLocation{Location: id}
}
