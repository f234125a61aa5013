package randomize

import (
	"fmt"
	"math/rand"

	"github.com/zyedidia/generic/mapset"

	"github.com/lawnchairsociety/logicrando/internal/explore"
	"github.com/lawnchairsociety/logicrando/internal/logger"
	"github.com/lawnchairsociety/logicrando/internal/logic"
	"github.com/lawnchairsociety/logicrando/internal/world"
)

// CoupleEntrances connects every entrance to one of exits in in.Placement.
//
// Entrances are visited in shuffled order and each tries the open exits in a
// fresh shuffled order. With twoWay set, connecting exit X to entrance E also
// connects E's paired exit back to X's paired entrance. A candidate is kept
// only if every location reachable before coupling, with inv held and all
// open exits treated as leading anywhere, is still reachable afterwards.
//
// The search never revisits an entrance it already committed, so it can
// report failure on a pool that only a different earlier choice would solve.
func CoupleEntrances(rng *rand.Rand, in explore.Input, worldIndex int, exits []world.ExitID, entrances []world.EntranceID, inv *logic.Inventory, twoWay bool) error {
	w := in.World
	p := in.Placement

	exits = append([]world.ExitID(nil), exits...)
	entrances = append([]world.EntranceID(nil), entrances...)
	rng.Shuffle(len(exits), func(i, j int) { exits[i], exits[j] = exits[j], exits[i] })
	rng.Shuffle(len(entrances), func(i, j int) { entrances[i], entrances[j] = entrances[j], entrances[i] })

	openExits := mapset.New[world.ExitID]()
	for _, x := range exits {
		if p.Entrance(x) == world.NoEntrance {
			openExits.Put(x)
		}
	}
	openEntrances := mapset.New[world.EntranceID]()
	for _, en := range entrances {
		openEntrances.Put(en)
	}

	reach := func() []world.LocationID {
		wild := &explore.Wildcards{}
		for _, x := range exits {
			if openExits.Has(x) {
				wild.Exits = append(wild.Exits, x)
			}
		}
		for _, en := range entrances {
			if openEntrances.Has(en) {
				wild.Entrances = append(wild.Entrances, en)
			}
		}
		probe := in
		probe.Wildcards = wild
		return explore.New([]explore.Input{probe}, []*logic.Inventory{inv.Clone()}).ReachableLocations(0)
	}

	baseline := reach()
	logger.Debug("coupling entrances", "world", worldIndex, "exits", openExits.Size(), "entrances", openEntrances.Size(), "baseline", len(baseline))

	for _, en := range entrances {
		if !openEntrances.Has(en) {
			continue
		}

		candidates := make([]world.ExitID, 0, openExits.Size())
		for _, x := range exits {
			if openExits.Has(x) {
				candidates = append(candidates, x)
			}
		}
		rng.Shuffle(len(candidates), func(i, j int) { candidates[i], candidates[j] = candidates[j], candidates[i] })

		committed := false
		tried := 0
		for _, x := range candidates {
			revExit, revEntrance, ok := reversePair(w, x, en, twoWay, openExits, openEntrances)
			if !ok {
				continue
			}
			tried++

			if err := p.Connect(x, en); err != nil {
				return fmt.Errorf("failed to connect %s: %w", w.Exits[x].Name, err)
			}
			openExits.Remove(x)
			openEntrances.Remove(en)
			if revExit != world.NoExit {
				if err := p.Connect(revExit, revEntrance); err != nil {
					return fmt.Errorf("failed to connect %s: %w", w.Exits[revExit].Name, err)
				}
				openExits.Remove(revExit)
				openEntrances.Remove(revEntrance)
			}

			if covers(reach(), baseline) {
				committed = true
				break
			}

			p.Disconnect(x)
			openExits.Put(x)
			openEntrances.Put(en)
			if revExit != world.NoExit {
				p.Disconnect(revExit)
				openExits.Put(revExit)
				openEntrances.Put(revEntrance)
			}
		}

		if !committed {
			return &NoExitError{World: worldIndex, Entrance: en, Name: w.Entrances[en].Name, Tried: tried}
		}
	}
	return nil
}

// reversePair returns the connection that walks back through the doorway
// formed by x and en. ok is false when that connection is already taken.
func reversePair(w *world.World, x world.ExitID, en world.EntranceID, twoWay bool, openExits mapset.Set[world.ExitID], openEntrances mapset.Set[world.EntranceID]) (world.ExitID, world.EntranceID, bool) {
	if !twoWay {
		return world.NoExit, world.NoEntrance, true
	}

	revExit := w.Entrances[en].Coupled
	revEntrance := w.Exits[x].Coupled
	if revExit == world.NoExit || revEntrance == world.NoEntrance {
		// One-way on either side
		return world.NoExit, world.NoEntrance, revExit == world.NoExit && revEntrance == world.NoEntrance
	}
	if revExit == x || revEntrance == en {
		return world.NoExit, world.NoEntrance, false
	}
	if !openExits.Has(revExit) || !openEntrances.Has(revEntrance) {
		return world.NoExit, world.NoEntrance, false
	}
	return revExit, revEntrance, true
}

func covers(got, want []world.LocationID) bool {
	have := mapset.New[world.LocationID]()
	for _, l := range got {
		have.Put(l)
	}
	for _, l := range want {
		if !have.Has(l) {
			return false
		}
	}
	return true
}
