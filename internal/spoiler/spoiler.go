// Package spoiler renders a generated seed as a human-readable log: where
// every item went, how the entrances were shuffled and the order in which a
// player can collect everything.
package spoiler

import (
	"bytes"
	"encoding/hex"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/klauspost/compress/zstd"
	"golang.org/x/crypto/blake2b"
	"gopkg.in/yaml.v3"

	"github.com/lawnchairsociety/logicrando/internal/placement"
	"github.com/lawnchairsociety/logicrando/internal/randomize"
	"github.com/lawnchairsociety/logicrando/internal/world"
)

// Empty is written for locations deliberately left without an item.
const Empty = "Nothing"

var zstdMagic = []byte{0x28, 0xb5, 0x2f, 0xfd}

// Spoiler is the full log of a seed.
type Spoiler struct {
	Seed        int64       `yaml:"seed"`
	Attempt     int         `yaml:"attempt"`
	Hash        string      `yaml:"hash"`
	Worlds      []WorldLog  `yaml:"worlds"`
	Playthrough []SphereLog `yaml:"playthrough"`
}

// WorldLog holds one player's results.
type WorldLog struct {
	Digest           string        `yaml:"digest"`
	StartingItems    []string      `yaml:"starting_items,omitempty"`
	RequiredDungeons []string      `yaml:"required_dungeons,omitempty"`
	Locations        []LocationLog `yaml:"locations"`
	Entrances        []EntranceLog `yaml:"entrances,omitempty"`
}

// LocationLog names the item at one location. Owner is set only when the
// item belongs to another player.
type LocationLog struct {
	Location string `yaml:"location"`
	Item     string `yaml:"item"`
	Owner    *int   `yaml:"owner,omitempty"`
}

// EntranceLog names where a randomized exit leads.
type EntranceLog struct {
	Exit     string `yaml:"exit"`
	Entrance string `yaml:"entrance"`
}

// SphereLog lists the items collectable once every earlier sphere is collected.
type SphereLog struct {
	Sphere int        `yaml:"sphere"`
	Items  []CheckLog `yaml:"items"`
}

// CheckLog is one collected location in the playthrough.
type CheckLog struct {
	World    int    `yaml:"world"`
	Location string `yaml:"location"`
	Item     string `yaml:"item"`
	Owner    int    `yaml:"owner"`
}

// New builds the spoiler of a finished generation.
func New(res *randomize.Result, worlds []*world.World) *Spoiler {
	s := &Spoiler{Seed: res.Seed, Attempt: res.Attempt}

	itemName := func(it placement.WorldItem) string {
		return worlds[it.World].Items[it.Item].Name
	}

	digests := make([]string, len(worlds))
	for wi, w := range worlds {
		p := res.Placements[wi]
		wl := WorldLog{Digest: p.Digest()}
		digests[wi] = wl.Digest

		for _, it := range p.StartingItems() {
			wl.StartingItems = append(wl.StartingItems, itemName(it))
		}
		if wi < len(res.RequiredDungeons) {
			for _, ev := range res.RequiredDungeons[wi] {
				wl.RequiredDungeons = append(wl.RequiredDungeons, w.Events[ev].Name)
			}
		}

		for i := range w.Locations {
			loc := world.LocationID(i)
			entry := LocationLog{Location: w.Locations[i].Name}
			switch it, ok := p.ItemAt(loc); {
			case ok:
				entry.Item = itemName(it)
				if it.World != wi {
					owner := it.World
					entry.Owner = &owner
				}
			case p.IsEmpty(loc):
				entry.Item = Empty
			default:
				continue
			}
			wl.Locations = append(wl.Locations, entry)
		}

		for _, x := range w.RandomizedExits() {
			if en := p.Entrance(x); en != world.NoEntrance {
				wl.Entrances = append(wl.Entrances, EntranceLog{Exit: w.Exits[x].Name, Entrance: w.Entrances[en].Name})
			}
		}
		s.Worlds = append(s.Worlds, wl)
	}
	s.Hash = SeedHash(digests)

	for i, sphere := range res.Spheres {
		sl := SphereLog{Sphere: i + 1}
		for _, c := range sphere {
			sl.Items = append(sl.Items, CheckLog{
				World:    c.Location.World,
				Location: worlds[c.Location.World].Locations[c.Location.Location].Name,
				Item:     itemName(c.Item),
				Owner:    c.Item.World,
			})
		}
		s.Playthrough = append(s.Playthrough, sl)
	}
	return s
}

// SeedHash combines per-world placement digests into a short shareable hash.
func SeedHash(digests []string) string {
	sum := blake2b.Sum256([]byte(strings.Join(digests, ":")))
	return hex.EncodeToString(sum[:8])
}

// Write stores the spoiler as YAML, zstd-compressed when compress is set.
func (s *Spoiler) Write(path string, compress bool) error {
	data, err := s.Marshal(compress)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("failed to create spoiler directory: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("failed to write spoiler file: %w", err)
	}
	return nil
}

// Marshal encodes the spoiler as YAML, zstd-compressed when compress is set.
func (s *Spoiler) Marshal(compress bool) ([]byte, error) {
	var buf bytes.Buffer
	if !compress {
		if err := s.Encode(&buf); err != nil {
			return nil, err
		}
		return buf.Bytes(), nil
	}

	enc, err := zstd.NewWriter(&buf, zstd.WithEncoderLevel(zstd.SpeedDefault))
	if err != nil {
		return nil, err
	}
	if err := s.Encode(enc); err != nil {
		enc.Close()
		return nil, err
	}
	if err := enc.Close(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// Encode writes the spoiler as YAML.
func (s *Spoiler) Encode(w io.Writer) error {
	ye := yaml.NewEncoder(w)
	ye.SetIndent(2)
	if err := ye.Encode(s); err != nil {
		return fmt.Errorf("failed to encode spoiler: %w", err)
	}
	return ye.Close()
}

// Read loads a spoiler written by Write, compressed or not.
func Read(path string) (*Spoiler, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read spoiler file: %w", err)
	}
	return Unmarshal(data)
}

// Unmarshal decodes the output of Marshal, detecting compression.
func Unmarshal(data []byte) (*Spoiler, error) {
	if bytes.HasPrefix(data, zstdMagic) {
		dec, err := zstd.NewReader(nil)
		if err != nil {
			return nil, err
		}
		defer dec.Close()
		if data, err = dec.DecodeAll(data, nil); err != nil {
			return nil, fmt.Errorf("failed to decompress spoiler: %w", err)
		}
	}

	var s Spoiler
	if err := yaml.Unmarshal(data, &s); err != nil {
		return nil, fmt.Errorf("failed to parse spoiler YAML: %w", err)
	}
	return &s, nil
}
