package database

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
)

var (
	// ErrSeedNotFound is returned when no archived seed matches a lookup.
	ErrSeedNotFound = errors.New("seed not found")

	// ErrDuplicateSeed is returned when a seed with the same hash is already archived.
	ErrDuplicateSeed = errors.New("seed already archived")
)

// SeedRecord is one archived generation result.
type SeedRecord struct {
	ID        string
	Hash      string // shareable hash over every world's placement digest
	Seed      int64
	Attempt   int
	Worlds    int
	Spoiler   []byte // spoiler log as written to disk, possibly compressed
	CreatedAt time.Time
}

// RecordSeed archives rec, assigning its ID and creation time.
func (d *Database) RecordSeed(rec *SeedRecord) error {
	rec.ID = uuid.NewString()
	rec.CreatedAt = time.Now().UTC().Truncate(time.Second)

	_, err := d.db.Exec(
		d.qb.Build(`INSERT INTO seeds (id, hash, seed, attempt, worlds, spoiler, created_at) VALUES (?, ?, ?, ?, ?, ?, ?)`),
		rec.ID, rec.Hash, rec.Seed, rec.Attempt, rec.Worlds, rec.Spoiler, rec.CreatedAt,
	)
	if d.dialect.IsDuplicateKeyError(err) {
		return fmt.Errorf("%w: %s", ErrDuplicateSeed, rec.Hash)
	}
	if err != nil {
		return fmt.Errorf("failed to record seed: %w", err)
	}
	return nil
}

// GetSeedByHash retrieves an archived seed, spoiler included.
func (d *Database) GetSeedByHash(hash string) (*SeedRecord, error) {
	var rec SeedRecord
	err := d.db.QueryRow(
		d.qb.Build(`SELECT id, hash, seed, attempt, worlds, spoiler, created_at FROM seeds WHERE hash = ?`),
		hash,
	).Scan(&rec.ID, &rec.Hash, &rec.Seed, &rec.Attempt, &rec.Worlds, &rec.Spoiler, &rec.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: %s", ErrSeedNotFound, hash)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get seed: %w", err)
	}
	return &rec, nil
}

// ListSeeds returns up to limit archived seeds, newest first, without spoilers.
func (d *Database) ListSeeds(limit int) ([]SeedRecord, error) {
	rows, err := d.db.Query(
		d.qb.Build(`SELECT id, hash, seed, attempt, worlds, created_at FROM seeds ORDER BY created_at DESC, hash LIMIT ?`),
		limit,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list seeds: %w", err)
	}
	defer rows.Close()

	var seeds []SeedRecord
	for rows.Next() {
		var rec SeedRecord
		if err := rows.Scan(&rec.ID, &rec.Hash, &rec.Seed, &rec.Attempt, &rec.Worlds, &rec.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan seed: %w", err)
		}
		seeds = append(seeds, rec)
	}
	return seeds, rows.Err()
}

// CountSeeds returns the number of archived seeds.
func (d *Database) CountSeeds() (int, error) {
	var count int
	if err := d.db.QueryRow("SELECT COUNT(*) FROM seeds").Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count seeds: %w", err)
	}
	return count, nil
}
