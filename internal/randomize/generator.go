package randomize

import (
	"context"
	"fmt"
	"math/rand"
	"sync"
	"sync/atomic"

	"github.com/zyedidia/generic/mapset"
	"golang.org/x/sync/errgroup"

	"github.com/lawnchairsociety/logicrando/internal/explore"
	"github.com/lawnchairsociety/logicrando/internal/logger"
	"github.com/lawnchairsociety/logicrando/internal/logic"
	"github.com/lawnchairsociety/logicrando/internal/placement"
	"github.com/lawnchairsociety/logicrando/internal/world"
)

// DefaultMaxAttempts is the attempt budget of a new Generator
const DefaultMaxAttempts = 50

// RequiredDungeons asks each attempt to pick Count of Candidates (dungeon
// completion events) and make the goal depend on them.
type RequiredDungeons struct {
	Count      int
	Candidates []world.EventID
}

// WorldSpec is the static input of one world of a seed
type WorldSpec struct {
	World              *world.World
	Table              *logic.Table // base layer, never written to
	Settings           logic.Settings
	Entries            []Entry
	RandomizeEntrances bool
	CoupleEntrances    bool
	Excluded           []world.LocationID // keep their vanilla item
	StartingItems      []world.ItemID
	Goal               world.EventID // NoEvent for no goal check
	RequiredDungeons   RequiredDungeons
}

// Result is a successful attempt
type Result struct {
	Seed             int64
	Attempt          int
	Placements       []*placement.Placement
	Tables           []*logic.Table
	RequiredDungeons [][]world.EventID
	Spheres          []explore.Sphere
}

// Inputs returns the explorer inputs describing the finished seed
func (r *Result) Inputs(worlds []WorldSpec) []explore.Input {
	inputs := make([]explore.Input, len(worlds))
	for i, ws := range worlds {
		inputs[i] = explore.Input{
			World:     ws.World,
			Table:     r.Tables[i],
			Placement: r.Placements[i],
			Settings:  ws.Settings,
		}
	}
	return inputs
}

// Generator runs whole randomization attempts until one succeeds
type Generator struct {
	Worlds      []WorldSpec
	Seed        int64
	MaxAttempts int
	Workers     int // attempts run in parallel when > 1
}

// NewGenerator creates a generator with the default attempt budget
func NewGenerator(worlds []WorldSpec, seed int64) *Generator {
	return &Generator{
		Worlds:      worlds,
		Seed:        seed,
		MaxAttempts: DefaultMaxAttempts,
		Workers:     1,
	}
}

// Generate runs attempts until one succeeds, the budget is spent or ctx is done.
// The result only depends on the seed: in parallel mode the successful attempt
// with the lowest index wins.
func (g *Generator) Generate(ctx context.Context) (*Result, error) {
	if len(g.Worlds) == 0 {
		return nil, fmt.Errorf("no worlds to generate")
	}
	if g.MaxAttempts <= 0 {
		return nil, fmt.Errorf("max attempts must be positive, got %d", g.MaxAttempts)
	}
	if g.Workers > 1 {
		return g.generateParallel(ctx)
	}

	var lastErr error
	for attempt := 0; attempt < g.MaxAttempts; attempt++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		result, err := g.Attempt(attempt)
		if err != nil {
			logger.Debug("attempt failed", "seed", g.Seed, "attempt", attempt, "error", err)
			lastErr = err
			continue
		}
		logger.Info("seed generated", "seed", g.Seed, "attempt", attempt)
		return result, nil
	}

	logger.Warning("generation failed", "seed", g.Seed, "attempts", g.MaxAttempts, "error", lastErr)
	return nil, &GenerationError{Attempts: g.MaxAttempts, Last: lastErr}
}

func (g *Generator) generateParallel(ctx context.Context) (*Result, error) {
	results := make([]*Result, g.MaxAttempts)
	errs := make([]error, g.MaxAttempts)

	var next atomic.Int64
	var mu sync.Mutex
	best := g.MaxAttempts

	eg, egCtx := errgroup.WithContext(ctx)
	for w := 0; w < g.Workers; w++ {
		eg.Go(func() error {
			for {
				attempt := int(next.Add(1) - 1)
				if attempt >= g.MaxAttempts {
					return nil
				}
				mu.Lock()
				done := attempt > best
				mu.Unlock()
				if done {
					return nil
				}
				if err := egCtx.Err(); err != nil {
					return err
				}

				result, err := g.Attempt(attempt)
				results[attempt], errs[attempt] = result, err
				if err != nil {
					logger.Debug("attempt failed", "seed", g.Seed, "attempt", attempt, "error", err)
					continue
				}
				mu.Lock()
				if attempt < best {
					best = attempt
				}
				mu.Unlock()
			}
		})
	}
	if err := eg.Wait(); err != nil {
		return nil, err
	}

	// Attempts are handed out in order, so every index below best has finished
	if best < g.MaxAttempts {
		logger.Info("seed generated", "seed", g.Seed, "attempt", best, "workers", g.Workers)
		return results[best], nil
	}
	last := errs[g.MaxAttempts-1]
	logger.Warning("generation failed", "seed", g.Seed, "attempts", g.MaxAttempts, "error", last)
	return nil, &GenerationError{Attempts: g.MaxAttempts, Last: last}
}

// Attempt runs one independent attempt. The same attempt index always
// produces the same result.
func (g *Generator) Attempt(attempt int) (*Result, error) {
	rng := rand.New(rand.NewSource(g.Seed + int64(attempt)))

	res := &Result{
		Seed:             g.Seed,
		Attempt:          attempt,
		Placements:       make([]*placement.Placement, len(g.Worlds)),
		Tables:           make([]*logic.Table, len(g.Worlds)),
		RequiredDungeons: make([][]world.EventID, len(g.Worlds)),
	}

	inputs := make([]explore.Input, len(g.Worlds))
	for i, ws := range g.Worlds {
		table := ws.Table.Child()
		chosen, err := chooseDungeons(rng, ws.RequiredDungeons)
		if err != nil {
			return nil, fmt.Errorf("world %d: %w", i, err)
		}
		if ws.Goal != world.NoEvent {
			for _, d := range chosen {
				table.RequireAlso(logic.EventKey(ws.Goal), logic.EventKey(d))
			}
		}

		p := placement.New(ws.World)
		for _, it := range ws.StartingItems {
			p.AddStartingItem(placement.WorldItem{World: i, Item: it})
		}

		res.Placements[i] = p
		res.Tables[i] = table
		res.RequiredDungeons[i] = chosen
		inputs[i] = explore.Input{World: ws.World, Table: table, Placement: p, Settings: ws.Settings}
	}

	items, locations, err := g.pools(inputs)
	if err != nil {
		return nil, err
	}

	for i, ws := range g.Worlds {
		if err := g.connect(rng, inputs, i, ws, items); err != nil {
			return nil, err
		}
	}

	rng.Shuffle(len(locations), func(i, j int) { locations[i], locations[j] = locations[j], locations[i] })

	var entries []Entry
	for _, ws := range g.Worlds {
		entries = append(entries, ws.Entries...)
	}
	pool := NewItemPool(items)
	locations, err = PlaceEntries(rng, inputs, pool, locations, entries)
	if err != nil {
		return nil, err
	}

	fill := pool.Items()
	rng.Shuffle(len(fill), func(i, j int) { fill[i], fill[j] = fill[j], fill[i] })
	leftover, err := AssumedFill(inputs, fill, locations)
	if err != nil {
		return nil, err
	}
	for _, loc := range leftover {
		if err := inputs[loc.World].Placement.MarkEmpty(loc.Location); err != nil {
			return nil, err
		}
	}

	if err := g.verify(inputs); err != nil {
		return nil, err
	}
	res.Spheres = explore.New(inputs, nil).Spheres()
	return res, nil
}

// pools collects the randomized locations of every world and the items they
// held. Excluded locations keep their vanilla item and starting items replace
// one vanilla copy each.
func (g *Generator) pools(inputs []explore.Input) ([]placement.WorldItem, []placement.WorldLocation, error) {
	var items []placement.WorldItem
	var locations []placement.WorldLocation

	for i, ws := range g.Worlds {
		excluded := mapset.New[world.LocationID]()
		for _, loc := range ws.Excluded {
			excluded.Put(loc)
		}
		startingLeft := make(map[world.ItemID]int)
		for _, it := range ws.StartingItems {
			startingLeft[it]++
		}

		for _, loc := range ws.World.Checks() {
			vanilla := ws.World.Locations[loc].Vanilla
			if excluded.Has(loc) {
				if err := inputs[i].Placement.Place(loc, placement.WorldItem{World: i, Item: vanilla}); err != nil {
					return nil, nil, err
				}
				continue
			}
			locations = append(locations, placement.WorldLocation{World: i, Location: loc})
			if startingLeft[vanilla] > 0 {
				startingLeft[vanilla]--
				continue
			}
			items = append(items, placement.WorldItem{World: i, Item: vanilla})
		}
	}
	return items, locations, nil
}

// connect wires world i's exits: vanilla for everything not randomized, then
// entrance coupling over the randomized ones with the whole pool assumed held.
func (g *Generator) connect(rng *rand.Rand, inputs []explore.Input, i int, ws WorldSpec, items []placement.WorldItem) error {
	p := inputs[i].Placement
	keep := func(x *world.Exit) bool { return !ws.RandomizeEntrances || !x.Randomized }
	if err := p.ConnectVanilla(ws.World, keep); err != nil {
		return err
	}
	if !ws.RandomizeEntrances {
		return nil
	}

	exits := ws.World.RandomizedExits()
	seen := mapset.New[world.EntranceID]()
	var entrances []world.EntranceID
	for _, x := range exits {
		en := ws.World.Exits[x].Vanilla
		if en != world.NoEntrance && !seen.Has(en) {
			seen.Put(en)
			entrances = append(entrances, en)
		}
	}

	inv := assume(inputs, items, nil)[i]
	return CoupleEntrances(rng, inputs[i], i, exits, entrances, inv, ws.CoupleEntrances)
}

// verify explores the finished seed and checks every goal and every placed item is reachable.
func (g *Generator) verify(inputs []explore.Input) error {
	e := explore.New(inputs, nil)
	e.Explore()

	for i, ws := range g.Worlds {
		if ws.Goal != world.NoEvent && !e.Inventory(i).HasEvent(ws.Goal) {
			return fmt.Errorf("world %d: goal %s: %w", i, ws.World.Events[ws.Goal].Name, ErrUnbeatable)
		}
		for l := range ws.World.Locations {
			loc := world.LocationID(l)
			if _, ok := inputs[i].Placement.ItemAt(loc); ok && !e.Collected(i, loc) {
				return fmt.Errorf("world %d: %s unreachable: %w", i, ws.World.Locations[loc].Name, ErrUnbeatable)
			}
		}
	}
	return nil
}

func chooseDungeons(rng *rand.Rand, rd RequiredDungeons) ([]world.EventID, error) {
	if rd.Count <= 0 {
		return nil, nil
	}
	if rd.Count > len(rd.Candidates) {
		return nil, fmt.Errorf("cannot require %d of %d dungeons", rd.Count, len(rd.Candidates))
	}
	chosen := make([]world.EventID, 0, rd.Count)
	for _, idx := range rng.Perm(len(rd.Candidates))[:rd.Count] {
		chosen = append(chosen, rd.Candidates[idx])
	}
	return chosen, nil
}
