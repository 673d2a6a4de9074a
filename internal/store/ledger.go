package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"path/filepath"
	"time"
)

// Entry is one ledger row: what ev-cli last wrote to a destination.
type Entry struct {
	Path        string
	Fingerprint string
	Category    string
	ToolVersion string
	IRVersion   string
	GeneratedAt time.Time
}

// timeLayout is fixed width so generated_at sorts lexically.
const timeLayout = "2006-01-02T15:04:05.000000000Z07:00"

// Put records an entry, replacing any previous record for the same path.
func (s *Store) Put(ctx context.Context, e Entry) error {
	if e.Path == "" {
		return errors.New("put generation: empty path")
	}
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO generations
		(path, fingerprint, category, tool_version, ir_version, generated_at)
		VALUES (?, ?, ?, ?, ?, ?)
		ON CONFLICT(path) DO UPDATE SET
			fingerprint = excluded.fingerprint,
			category = excluded.category,
			tool_version = excluded.tool_version,
			ir_version = excluded.ir_version,
			generated_at = excluded.generated_at
	`,
		filepath.Clean(e.Path),
		e.Fingerprint,
		e.Category,
		e.ToolVersion,
		e.IRVersion,
		e.GeneratedAt.UTC().Format(timeLayout),
	)
	if err != nil {
		return fmt.Errorf("put generation %s: %w", e.Path, err)
	}
	return nil
}

// Lookup returns the entry recorded for path.
// The boolean is false when ev-cli has never written the path.
func (s *Store) Lookup(ctx context.Context, path string) (Entry, bool, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT path, fingerprint, category, tool_version, ir_version, generated_at
		FROM generations
		WHERE path = ?
	`, filepath.Clean(path))

	e, err := scanEntry(row)
	if errors.Is(err, sql.ErrNoRows) {
		return Entry{}, false, nil
	}
	if err != nil {
		return Entry{}, false, fmt.Errorf("lookup generation %s: %w", path, err)
	}
	return e, true, nil
}

// Forget removes the record for path. Forgetting an unknown path is not an error.
func (s *Store) Forget(ctx context.Context, path string) error {
	if _, err := s.db.ExecContext(ctx, `DELETE FROM generations WHERE path = ?`, filepath.Clean(path)); err != nil {
		return fmt.Errorf("forget generation %s: %w", path, err)
	}
	return nil
}

// Entries returns every record whose path is dir or lies under it,
// ordered by path. An empty dir returns all records.
func (s *Store) Entries(ctx context.Context, dir string) ([]Entry, error) {
	query := `
		SELECT path, fingerprint, category, tool_version, ir_version, generated_at
		FROM generations
	`
	var args []any
	if dir != "" {
		dir = filepath.Clean(dir)
		query += ` WHERE path = ? OR substr(path, 1, ?) = ?`
		prefix := dir + string(filepath.Separator)
		args = append(args, dir, len(prefix), prefix)
	}
	query += ` ORDER BY path ASC COLLATE BINARY`

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list generations: %w", err)
	}
	defer rows.Close()

	var out []Entry
	for rows.Next() {
		e, err := scanEntry(rows)
		if err != nil {
			return nil, fmt.Errorf("list generations: %w", err)
		}
		out = append(out, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list generations: %w", err)
	}
	return out, nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scanEntry(sc scanner) (Entry, error) {
	var e Entry
	var at string
	if err := sc.Scan(&e.Path, &e.Fingerprint, &e.Category, &e.ToolVersion, &e.IRVersion, &at); err != nil {
		return Entry{}, err
	}
	t, err := time.Parse(timeLayout, at)
	if err != nil {
		return Entry{}, fmt.Errorf("parse generated_at %q: %w", at, err)
	}
	e.GeneratedAt = t
	return e, nil
}
