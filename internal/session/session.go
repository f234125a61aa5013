// Package session turns a run configuration into a generated seed: it loads
// every world's logic data and plando file, resolves names to IDs, runs the
// generator and produces the spoiler log and archive record.
package session

import (
	"context"
	"fmt"

	"github.com/lawnchairsociety/logicrando/internal/config"
	"github.com/lawnchairsociety/logicrando/internal/database"
	"github.com/lawnchairsociety/logicrando/internal/gamedata"
	"github.com/lawnchairsociety/logicrando/internal/logger"
	"github.com/lawnchairsociety/logicrando/internal/logic"
	"github.com/lawnchairsociety/logicrando/internal/plando"
	"github.com/lawnchairsociety/logicrando/internal/randomize"
	"github.com/lawnchairsociety/logicrando/internal/spoiler"
	"github.com/lawnchairsociety/logicrando/internal/world"
)

// Session is a prepared multiworld game.
type Session struct {
	Config *config.RandoConfig
	Worlds []randomize.WorldSpec
}

// Outcome is a finished generation.
type Outcome struct {
	Result  *randomize.Result
	Spoiler *spoiler.Spoiler
}

// Prepare loads and resolves everything cfg refers to.
func Prepare(cfg *config.RandoConfig) (*Session, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	// Worlds sharing a data file share the immutable world and base table.
	loaded := make(map[string]*gamedata.Logic)
	s := &Session{Config: cfg, Worlds: make([]randomize.WorldSpec, len(cfg.Worlds))}

	for i, wc := range cfg.Worlds {
		l, ok := loaded[wc.Data]
		if !ok {
			var err error
			if l, err = gamedata.Load(wc.Data); err != nil {
				return nil, fmt.Errorf("world %d: %w", i, err)
			}
			loaded[wc.Data] = l
			logger.Debug("logic data loaded", "path", wc.Data, "areas", len(l.World.Areas), "locations", len(l.World.Locations))
		}

		spec, err := resolveWorld(wc, l)
		if err != nil {
			return nil, fmt.Errorf("world %d: %w", i, err)
		}
		s.Worlds[i] = spec
	}

	worlds := s.worlds()
	for i, wc := range cfg.Worlds {
		if wc.Plando == "" {
			continue
		}
		defs, err := plando.LoadEntriesFromYAML(wc.Plando)
		if err != nil {
			return nil, fmt.Errorf("world %d: %w", i, err)
		}
		if s.Worlds[i].Entries, err = plando.ToEntries(defs, worlds, i); err != nil {
			return nil, fmt.Errorf("world %d: %w", i, err)
		}
	}
	return s, nil
}

func resolveWorld(wc config.WorldConfig, l *gamedata.Logic) (randomize.WorldSpec, error) {
	w := l.World
	spec := randomize.WorldSpec{
		World:              w,
		Table:              l.Table,
		Settings:           logic.Settings(wc.Settings),
		RandomizeEntrances: wc.RandomizeEntrances,
		CoupleEntrances:    wc.CoupleEntrances,
		Goal:               world.NoEvent,
	}

	for _, name := range wc.ExcludedLocations {
		id, ok := w.LocationByName(name)
		if !ok {
			return spec, fmt.Errorf("unknown excluded location %q", name)
		}
		spec.Excluded = append(spec.Excluded, id)
	}
	for _, name := range wc.StartingItems {
		id, ok := w.ItemByName(name)
		if !ok {
			return spec, fmt.Errorf("unknown starting item %q", name)
		}
		spec.StartingItems = append(spec.StartingItems, id)
	}

	goal, ok := w.EventByName(wc.Goal)
	if !ok {
		return spec, fmt.Errorf("unknown goal event %q", wc.Goal)
	}
	spec.Goal = goal

	spec.RequiredDungeons.Count = wc.RequiredDungeons.Count
	for _, name := range wc.RequiredDungeons.Candidates {
		id, ok := w.EventByName(name)
		if !ok {
			return spec, fmt.Errorf("unknown dungeon event %q", name)
		}
		spec.RequiredDungeons.Candidates = append(spec.RequiredDungeons.Candidates, id)
	}
	return spec, nil
}

func (s *Session) worlds() []*world.World {
	out := make([]*world.World, len(s.Worlds))
	for i, ws := range s.Worlds {
		out[i] = ws.World
	}
	return out
}

// Generate runs the bounded retry loop and builds the spoiler of the winner.
func (s *Session) Generate(ctx context.Context) (*Outcome, error) {
	g := randomize.NewGenerator(s.Worlds, s.Config.Seed)
	g.MaxAttempts = s.Config.MaxAttempts
	g.Workers = s.Config.Workers

	res, err := g.Generate(ctx)
	if err != nil {
		return nil, err
	}
	sp := spoiler.New(res, s.worlds())
	logger.Always("seed ready", "seed", res.Seed, "attempt", res.Attempt, "hash", sp.Hash)
	return &Outcome{Result: res, Spoiler: sp}, nil
}

// WriteOutputs writes the spoiler log and archives the seed as configured.
func (s *Session) WriteOutputs(o *Outcome) error {
	out := s.Config.Output
	if out.Spoiler != "" {
		if err := o.Spoiler.Write(out.Spoiler, out.Compress); err != nil {
			return err
		}
		logger.Info("spoiler written", "path", out.Spoiler, "compressed", out.Compress)
	}

	if !s.Config.Database.Enabled {
		return nil
	}
	db, err := database.OpenWithConfig(s.Config.Database)
	if err != nil {
		return err
	}
	defer db.Close()
	return Archive(db, o.Spoiler, len(s.Worlds))
}

// Archive stores a compressed spoiler in the seed archive.
func Archive(db *database.Database, sp *spoiler.Spoiler, worlds int) error {
	data, err := sp.Marshal(true)
	if err != nil {
		return err
	}
	rec := &database.SeedRecord{
		Hash:    sp.Hash,
		Seed:    sp.Seed,
		Attempt: sp.Attempt,
		Worlds:  worlds,
		Spoiler: data,
	}
	if err := db.RecordSeed(rec); err != nil {
		return err
	}
	logger.Info("seed archived", "id", rec.ID, "hash", rec.Hash)
	return nil
}
