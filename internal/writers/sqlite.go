package writers

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	_ "modernc.org/sqlite" // pure go sqlite driver

	"pairfind/internal/engine"
)

var sqliteSchema = []string{`CREATE TABLE IF NOT EXISTS combinations (
	run_id           TEXT NOT NULL,
	round_type       TEXT NOT NULL,
	combination_name TEXT NOT NULL,
	forward_primer   TEXT NOT NULL,
	reverse_primer   TEXT NOT NULL,
	forward_sequence TEXT NOT NULL,
	reverse_sequence TEXT NOT NULL,
	reference        TEXT NOT NULL,
	genotype         TEXT NOT NULL,
	region           TEXT,
	amplicon_length  INTEGER NOT NULL,
	tm_max_diff      REAL NOT NULL,
	tm_min_diff      REAL NOT NULL,
	gc_content_diff  REAL NOT NULL,
	outer_combination_name TEXT,
	PRIMARY KEY (run_id, round_type, combination_name)
)`, `CREATE TABLE IF NOT EXISTS links (
	run_id                 TEXT NOT NULL,
	outer_combination_name TEXT NOT NULL,
	inner_combination_name TEXT NOT NULL,
	round_type             TEXT NOT NULL,
	PRIMARY KEY (run_id, outer_combination_name, inner_combination_name)
)`}

// SQLiteTables is one run's worth of rows.
type SQLiteTables struct {
	RunID        string
	Combinations []engine.Pair // every round; (round, name) must be unique
	Links        []engine.Pair
}

// WriteSQLite appends t to the database at path, creating it and its tables
// when missing. Everything is written in one transaction.
func WriteSQLite(ctx context.Context, path string, t SQLiteTables) (retErr error) {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o750); err != nil && !errors.Is(err, os.ErrExist) {
			return fmt.Errorf("create dirs: %w", err)
		}
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return fmt.Errorf("open sqlite: %w", err)
	}
	defer func() {
		if cerr := db.Close(); cerr != nil && retErr == nil {
			retErr = fmt.Errorf("close sqlite: %w", cerr)
		}
	}()
	for _, stmt := range sqliteSchema {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("create tables: %w", err)
		}
	}

	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin: %w", err)
	}
	defer func() {
		if retErr != nil {
			_ = tx.Rollback()
		}
	}()

	comb, err := tx.PrepareContext(ctx, `INSERT INTO combinations (
		run_id, round_type, combination_name, forward_primer, reverse_primer,
		forward_sequence, reverse_sequence, reference, genotype, region,
		amplicon_length, tm_max_diff, tm_min_diff, gc_content_diff, outer_combination_name
	) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("prepare combinations: %w", err)
	}
	defer func() { _ = comb.Close() }()
	for _, p := range t.Combinations {
		if _, err := comb.ExecContext(ctx,
			t.RunID, string(p.Round), p.Name, p.Forward.ID, p.Reverse.ID,
			p.Forward.Sequence, p.Reverse.Sequence, p.Reference, p.Genotype, nullable(p.Region),
			p.AmpliconLength, p.TmMaxDiff, p.TmMinDiff, p.GCDiff, nullable(p.Outer),
		); err != nil {
			return fmt.Errorf("insert combination %s: %w", p.Name, err)
		}
	}

	link, err := tx.PrepareContext(ctx, `INSERT INTO links (
		run_id, outer_combination_name, inner_combination_name, round_type
	) VALUES (?, ?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("prepare links: %w", err)
	}
	defer func() { _ = link.Close() }()
	for _, p := range t.Links {
		if _, err := link.ExecContext(ctx, t.RunID, p.Outer, p.Name, string(p.Round)); err != nil {
			return fmt.Errorf("insert link %s: %w", p.LinkKey(), err)
		}
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit: %w", err)
	}
	return nil
}

func nullable(s string) sql.NullString { return sql.NullString{String: s, Valid: s != ""} }
