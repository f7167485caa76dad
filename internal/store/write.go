package store

import (
	"context"
	"fmt"
	"strconv"

	"github.com/ianhorswill/ted/internal/table"
	"github.com/ianhorswill/ted/internal/term"
)

// Meta keys written with every snapshot.
const (
	MetaRunToken = "run_token"
	MetaLastTick = "last_tick"
)

// SaveSnapshot replaces the snapshot's contents with the given
// relations' current rows, transactionally. Rows keep their append
// positions; every row carries its content-addressed fact ID and the
// tick the snapshot was taken at.
func (s *Store) SaveSnapshot(ctx context.Context, relations []*table.Relation, tick int64, runToken string) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("save snapshot: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, "DELETE FROM facts"); err != nil {
		return fmt.Errorf("save snapshot: clear facts: %w", err)
	}

	insert, err := tx.PrepareContext(ctx, `
		INSERT INTO facts (relation, position, fact_id, tuple, tick)
		VALUES (?, ?, ?, ?, ?)
	`)
	if err != nil {
		return fmt.Errorf("save snapshot: %w", err)
	}
	defer insert.Close()

	for _, r := range relations {
		for pos, row := range r.Rows() {
			if _, err := insert.ExecContext(ctx,
				r.Name(), pos, term.FactID(r.Name(), row), row.Canonical(), tick,
			); err != nil {
				return fmt.Errorf("save snapshot: relation %s position %d: %w", r.Name(), pos, err)
			}
		}
	}

	for key, value := range map[string]string{
		MetaRunToken: runToken,
		MetaLastTick: strconv.FormatInt(tick, 10),
	} {
		if _, err := tx.ExecContext(ctx, `
			INSERT INTO meta (key, value) VALUES (?, ?)
			ON CONFLICT(key) DO UPDATE SET value = excluded.value
		`, key, value); err != nil {
			return fmt.Errorf("save snapshot: meta %s: %w", key, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("save snapshot: commit: %w", err)
	}
	return nil
}
