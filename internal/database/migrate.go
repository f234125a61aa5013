package database

import (
	"errors"
	"fmt"
)

// CopyStats counts the outcome of CopySeeds.
type CopyStats struct {
	Copied  int
	Skipped int // already present in the destination
}

// CopySeeds copies every archived seed into dst, keeping IDs and creation
// times. Seeds whose hash dst already holds are skipped. With dryRun set
// nothing is written and every seed counts as copied.
func (d *Database) CopySeeds(dst *Database, dryRun bool) (CopyStats, error) {
	var stats CopyStats

	rows, err := d.db.Query(`SELECT id, hash, seed, attempt, worlds, spoiler, created_at FROM seeds ORDER BY created_at, hash`)
	if err != nil {
		return stats, fmt.Errorf("failed to query seeds: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var rec SeedRecord
		if err := rows.Scan(&rec.ID, &rec.Hash, &rec.Seed, &rec.Attempt, &rec.Worlds, &rec.Spoiler, &rec.CreatedAt); err != nil {
			return stats, fmt.Errorf("failed to scan seed: %w", err)
		}
		if dryRun {
			stats.Copied++
			continue
		}

		err := dst.importSeed(&rec)
		switch {
		case errors.Is(err, ErrDuplicateSeed):
			stats.Skipped++
		case err != nil:
			return stats, err
		default:
			stats.Copied++
		}
	}
	return stats, rows.Err()
}

// importSeed inserts rec as is.
func (d *Database) importSeed(rec *SeedRecord) error {
	_, err := d.db.Exec(
		d.qb.Build(`INSERT INTO seeds (id, hash, seed, attempt, worlds, spoiler, created_at) VALUES (?, ?, ?, ?, ?, ?, ?)`),
		rec.ID, rec.Hash, rec.Seed, rec.Attempt, rec.Worlds, rec.Spoiler, rec.CreatedAt,
	)
	if d.dialect.IsDuplicateKeyError(err) {
		return fmt.Errorf("%w: %s", ErrDuplicateSeed, rec.Hash)
	}
	if err != nil {
		return fmt.Errorf("failed to import seed %s: %w", rec.Hash, err)
	}
	return nil
}
