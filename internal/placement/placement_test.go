package placement

import (
	"errors"
	"testing"

	"github.com/lawnchairsociety/logicrando/internal/world"
)

func testWorld(t *testing.T) *world.World {
	t.Helper()
	b := world.NewBuilder()
	a, _ := b.AddArea("A", "", world.Both, false)
	c, _ := b.AddArea("B", "", world.Both, false)
	key := b.AddItem("Key")
	b.AddLocation(a, "L1", key)
	b.AddLocation(c, "L2", world.NoItem)
	start, _ := b.AddEntrance(a, "A - Start")
	aIn, _ := b.AddEntrance(a, "A - Door")
	bIn, _ := b.AddEntrance(c, "B - Door")
	b.AddExit(a, "A - Door", bIn, true)
	b.AddExit(c, "B - Door", aIn, false)
	b.SetStart(start, world.Day)

	w, err := b.Build()
	if err != nil {
		t.Fatalf("Build failed: %v", err)
	}
	return w
}

func TestConnectAndDisconnect(t *testing.T) {
	w := testWorld(t)
	p := New(w)

	exit, _ := w.ExitByName("A - Door")
	entrance, _ := w.EntranceByName("B - Door")

	if p.Entrance(exit) != world.NoEntrance {
		t.Fatal("new placement should have no connections")
	}
	if err := p.Connect(exit, entrance); err != nil {
		t.Fatalf("Connect failed: %v", err)
	}
	if err := p.Connect(exit, entrance); !errors.Is(err, ErrExitConnected) {
		t.Errorf("second Connect error = %v, want ErrExitConnected", err)
	}
	if got := p.ExitsInto(entrance); len(got) != 1 || got[0] != exit {
		t.Errorf("ExitsInto() = %v, want [%d]", got, exit)
	}

	p.Disconnect(exit)
	if p.Entrance(exit) != world.NoEntrance {
		t.Error("Disconnect should clear the exit")
	}
	if got := p.ExitsInto(entrance); len(got) != 0 {
		t.Errorf("ExitsInto() after Disconnect = %v, want empty", got)
	}
}

func TestConnectVanilla(t *testing.T) {
	w := testWorld(t)
	p := New(w)

	if err := p.ConnectVanilla(w, func(e *world.Exit) bool { return !e.Randomized }); err != nil {
		t.Fatalf("ConnectVanilla failed: %v", err)
	}

	randomized, _ := w.ExitByName("A - Door")
	fixed, _ := w.ExitByName("B - Door")
	if p.Entrance(randomized) != world.NoEntrance {
		t.Error("randomized exit should stay open")
	}
	if p.Entrance(fixed) != w.Exits[fixed].Vanilla {
		t.Error("fixed exit should use its vanilla entrance")
	}
}

func TestPlaceRejectsDoubleAssignment(t *testing.T) {
	w := testWorld(t)
	p := New(w)
	key, _ := w.ItemByName("Key")
	l1, _ := w.LocationByName("L1")
	l2, _ := w.LocationByName("L2")

	if err := p.Place(l1, WorldItem{Item: key}); err != nil {
		t.Fatalf("Place failed: %v", err)
	}
	if err := p.Place(l1, WorldItem{Item: key}); !errors.Is(err, ErrLocationFilled) {
		t.Errorf("second Place error = %v, want ErrLocationFilled", err)
	}
	if err := p.MarkEmpty(l2); err != nil {
		t.Fatalf("MarkEmpty failed: %v", err)
	}
	if err := p.Place(l2, WorldItem{Item: key}); !errors.Is(err, ErrLocationFilled) {
		t.Errorf("Place on empty-marked location error = %v, want ErrLocationFilled", err)
	}

	if it, ok := p.ItemAt(l1); !ok || it.Item != key {
		t.Errorf("ItemAt(L1) = %v, %v", it, ok)
	}
	if _, ok := p.ItemAt(l2); ok {
		t.Error("empty location should hold no item")
	}
	if !p.IsEmpty(l2) || !p.IsAssigned(l2) {
		t.Error("L2 should be assigned and empty")
	}
}

func TestCloneIsIndependent(t *testing.T) {
	w := testWorld(t)
	p := New(w)
	exit, _ := w.ExitByName("A - Door")
	entrance, _ := w.EntranceByName("B - Door")
	l1, _ := w.LocationByName("L1")

	c := p.Clone()
	c.Connect(exit, entrance)
	c.Place(l1, WorldItem{Item: 0})
	c.AddStartingItem(WorldItem{Item: 0})

	if p.Entrance(exit) != world.NoEntrance || p.IsAssigned(l1) || len(p.StartingItems()) != 0 {
		t.Error("clone mutation leaked into the original")
	}
}

func TestDigest(t *testing.T) {
	w := testWorld(t)
	key, _ := w.ItemByName("Key")
	l1, _ := w.LocationByName("L1")

	build := func(order []int) *Placement {
		p := New(w)
		p.Place(l1, WorldItem{Item: key})
		for _, owner := range order {
			p.AddStartingItem(WorldItem{World: owner, Item: key})
		}
		return p
	}

	a := build([]int{0, 1})
	b := build([]int{1, 0})
	if a.Digest() != b.Digest() {
		t.Error("starting item order should not change the digest")
	}
	if len(a.Digest()) != 64 {
		t.Errorf("len(Digest()) = %d, want 64 hex chars", len(a.Digest()))
	}

	c := build([]int{0, 1})
	c.SetStart(c.start, world.Night)
	if a.Digest() == c.Digest() {
		t.Error("different start times should change the digest")
	}
}
