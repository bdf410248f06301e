package persist

import (
	"context"
	"database/sql"
	"fmt"

	_ "modernc.org/sqlite"

	"github.com/dslx-project/bcvm/bytecode"
)

// Store is a sqlite-backed on-disk BytecodeCache tier, grounded on the
// manifest/chunk persistence patterns elsewhere in the example pack
// (canonical CBOR payloads written to a small embedded store) but
// swapping the backing store for modernc.org/sqlite via database/sql,
// since the domain here calls for queryable hit statistics rather
// than a flat content-addressed blob directory. Misses are not
// recorded.
type Store struct {
	db *sql.DB
}

// Open opens (creating if absent) a sqlite database at path and
// ensures the schema exists.
func Open(ctx context.Context, path string) (*Store, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("persist: open %q: %w", path, err)
	}
	s := &Store{db: db}
	if err := s.migrate(ctx); err != nil {
		db.Close()
		return nil, err
	}
	return s, nil
}

func (s *Store) migrate(ctx context.Context) error {
	_, err := s.db.ExecContext(ctx, `
		CREATE TABLE IF NOT EXISTS bytecode_entries (
			digest TEXT PRIMARY KEY,
			payload BLOB NOT NULL,
			hits INTEGER NOT NULL DEFAULT 0
		)
	`)
	if err != nil {
		return fmt.Errorf("persist: migrate schema: %w", err)
	}
	return nil
}

// Close releases the underlying database handle.
func (s *Store) Close() error { return s.db.Close() }

// Get looks up a previously Put entry by digest. ok is false on a
// cache miss.
func (s *Store) Get(ctx context.Context, digest string) (*bytecode.Function, bool, error) {
	var payload []byte
	err := s.db.QueryRowContext(ctx, `SELECT payload FROM bytecode_entries WHERE digest = ?`, digest).Scan(&payload)
	if err == sql.ErrNoRows {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("persist: query %q: %w", digest, err)
	}
	if _, err := s.db.ExecContext(ctx, `UPDATE bytecode_entries SET hits = hits + 1 WHERE digest = ?`, digest); err != nil {
		return nil, false, fmt.Errorf("persist: record hit for %q: %w", digest, err)
	}
	bf, err := Decode(payload)
	if err != nil {
		return nil, false, fmt.Errorf("persist: decode %q: %w", digest, err)
	}
	return bf, true, nil
}

// Put serializes and stores f under digest, replacing any prior entry.
func (s *Store) Put(ctx context.Context, digest string, f *bytecode.Function) error {
	payload, err := Encode(f)
	if err != nil {
		return fmt.Errorf("persist: encode %q: %w", digest, err)
	}
	_, err = s.db.ExecContext(ctx, `
		INSERT INTO bytecode_entries (digest, payload, hits) VALUES (?, ?, 0)
		ON CONFLICT(digest) DO UPDATE SET payload = excluded.payload
	`, digest, payload)
	if err != nil {
		return fmt.Errorf("persist: store %q: %w", digest, err)
	}
	return nil
}

// Stats reports the entry count and total recorded hits across all
// entries, used for cache-effectiveness diagnostics.
func (s *Store) Stats(ctx context.Context) (entries, totalHits int64, err error) {
	row := s.db.QueryRowContext(ctx, `SELECT COUNT(*), COALESCE(SUM(hits), 0) FROM bytecode_entries`)
	if err := row.Scan(&entries, &totalHits); err != nil {
		return 0, 0, fmt.Errorf("persist: stats: %w", err)
	}
	return entries, totalHits, nil
}
