// Package sqlite stores fixture snapshots in a single SQLite table, one
// JSON array per entity bucket.
package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"os"
	"path/filepath"

	"limsmock/internal/infra/persistence/memory"

	"github.com/cockroachdb/errors"
	_ "modernc.org/sqlite" // pure go sqlite driver
)

const createTable = `CREATE TABLE IF NOT EXISTS fixtures (
	bucket TEXT PRIMARY KEY,
	payload BLOB NOT NULL
)`

// Source reads and writes fixture snapshots in a SQLite database file.
type Source struct {
	db   *sql.DB
	path string
}

// Open opens (creating if needed) the fixture database at path.
func Open(path string) (*Source, error) {
	if path == "" {
		path = "fixtures.db"
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o750); err != nil {
		return nil, errors.Wrap(err, "create dirs")
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, errors.Wrap(err, "open sqlite")
	}
	if _, err := db.Exec(createTable); err != nil {
		_ = db.Close()
		return nil, errors.Wrap(err, "create fixtures table")
	}
	return &Source{db: db, path: path}, nil
}

// Load decodes every known bucket into a snapshot. Unknown buckets are
// ignored; an empty table yields an empty snapshot.
func (s *Source) Load(ctx context.Context) (memory.Snapshot, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT bucket, payload FROM fixtures`)
	if err != nil {
		return memory.Snapshot{}, errors.Wrap(err, "select fixtures")
	}
	defer func() { _ = rows.Close() }()

	var snapshot memory.Snapshot
	targets := snapshot.Targets()
	for rows.Next() {
		var bucket string
		var payload []byte
		if err := rows.Scan(&bucket, &payload); err != nil {
			return memory.Snapshot{}, errors.Wrap(err, "scan")
		}
		target, ok := targets[bucket]
		if !ok || len(payload) == 0 {
			continue
		}
		if err := json.Unmarshal(payload, target); err != nil {
			return memory.Snapshot{}, errors.Wrapf(err, "decode %s", bucket)
		}
	}
	if err := rows.Err(); err != nil {
		return memory.Snapshot{}, errors.Wrap(err, "iterate fixtures")
	}
	return snapshot, nil
}

// Save replaces the stored buckets with the contents of snapshot in one
// transaction.
func (s *Source) Save(ctx context.Context, snapshot memory.Snapshot) (retErr error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return errors.Wrap(err, "begin")
	}
	defer func() {
		if retErr != nil {
			_ = tx.Rollback()
		}
	}()
	values := snapshot.Values()
	for _, bucket := range memory.Buckets {
		data, err := json.Marshal(values[bucket])
		if err != nil {
			return errors.Wrapf(err, "encode %s", bucket)
		}
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO fixtures(bucket,payload) VALUES(?,?) ON CONFLICT(bucket) DO UPDATE SET payload=excluded.payload`,
			bucket, data); err != nil {
			return errors.Wrapf(err, "upsert %s", bucket)
		}
	}
	return tx.Commit()
}

// Describe names the source for logs.
func (s *Source) Describe() string { return "sqlite:" + s.path }

// Path returns the database file path.
func (s *Source) Path() string { return s.path }

// Close releases the database handle.
func (s *Source) Close() error { return s.db.Close() }
