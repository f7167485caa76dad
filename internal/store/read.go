package store

import (
	"context"
	"database/sql"
	"fmt"
	"strconv"

	"github.com/ianhorswill/ted/internal/table"
	"github.com/ianhorswill/ted/internal/term"
)

// LoadRelation returns a relation's snapshotted rows in append order.
// An absent relation yields no rows, not an error.
func (s *Store) LoadRelation(ctx context.Context, name string) ([]term.Tuple, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT tuple FROM facts WHERE relation = ? ORDER BY position
	`, name)
	if err != nil {
		return nil, fmt.Errorf("load relation %s: %w", name, err)
	}
	defer rows.Close()

	var out []term.Tuple
	for rows.Next() {
		var text string
		if err := rows.Scan(&text); err != nil {
			return nil, fmt.Errorf("load relation %s: %w", name, err)
		}
		t, err := term.ParseTuple(text)
		if err != nil {
			return nil, fmt.Errorf("load relation %s: corrupt tuple: %w", name, err)
		}
		out = append(out, t)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("load relation %s: %w", name, err)
	}
	return out, nil
}

// RestoreExtensional seeds every extensional relation in the given
// set from the snapshot. Intensional rows in the snapshot are ignored:
// they are recomputed from restored facts on the next tick.
func (s *Store) RestoreExtensional(ctx context.Context, relations []*table.Relation) error {
	for _, r := range relations {
		if r.Kind() != table.Extensional {
			continue
		}
		tuples, err := s.LoadRelation(ctx, r.Name())
		if err != nil {
			return err
		}
		for _, t := range tuples {
			if err := r.Insert(t); err != nil {
				return fmt.Errorf("restore %s: %w", r.Name(), err)
			}
		}
	}
	return nil
}

// LastTick returns the tick the snapshot was taken at, or 0 for an
// empty snapshot.
func (s *Store) LastTick(ctx context.Context) (int64, error) {
	var value string
	err := s.db.QueryRowContext(ctx,
		"SELECT value FROM meta WHERE key = ?", MetaLastTick,
	).Scan(&value)
	if err == sql.ErrNoRows {
		return 0, nil
	}
	if err != nil {
		return 0, fmt.Errorf("read last tick: %w", err)
	}
	tick, err := strconv.ParseInt(value, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("corrupt last_tick %q: %w", value, err)
	}
	return tick, nil
}

// RunToken returns the run token recorded with the snapshot, or ""
// for an empty snapshot.
func (s *Store) RunToken(ctx context.Context) (string, error) {
	var value string
	err := s.db.QueryRowContext(ctx,
		"SELECT value FROM meta WHERE key = ?", MetaRunToken,
	).Scan(&value)
	if err == sql.ErrNoRows {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("read run token: %w", err)
	}
	return value, nil
}
