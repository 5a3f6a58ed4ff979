// Package postgres reads and writes fixture snapshots kept in a shared
// Postgres database, one JSONB array per entity bucket.
package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"sync"

	"limsmock/internal/infra/persistence/memory"

	"github.com/cockroachdb/errors"
	_ "github.com/jackc/pgx/v5/stdlib" // register pgx as a database/sql driver
)

const (
	defaultDriver = "pgx"
	defaultDSN    = "postgres://localhost/limsmock?sslmode=disable"

	createTable = `CREATE TABLE IF NOT EXISTS fixtures (
		bucket TEXT PRIMARY KEY,
		payload JSONB NOT NULL
	)`
	selectFixtures = `SELECT bucket, payload FROM fixtures`
	upsertFixture  = `INSERT INTO fixtures(bucket,payload) VALUES($1,$2) ON CONFLICT(bucket) DO UPDATE SET payload=EXCLUDED.payload`
)

var (
	sqlOpen = sql.Open
	openMu  sync.Mutex
)

// Source is a Postgres-backed fixture table.
type Source struct {
	db *sql.DB
}

// Open connects using dsn (falls back to defaultDSN), pings the server and
// ensures the fixtures table exists.
func Open(ctx context.Context, dsn string) (*Source, error) {
	if dsn == "" {
		dsn = defaultDSN
	}
	openMu.Lock()
	db, err := sqlOpen(defaultDriver, dsn)
	openMu.Unlock()
	if err != nil {
		return nil, errors.Wrap(err, "open postgres")
	}
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, errors.Wrap(err, "ping postgres")
	}
	if _, err := db.ExecContext(ctx, createTable); err != nil {
		_ = db.Close()
		return nil, errors.Wrap(err, "ensure fixtures table")
	}
	return &Source{db: db}, nil
}

// Load decodes every known bucket into a snapshot.
func (s *Source) Load(ctx context.Context) (memory.Snapshot, error) {
	rows, err := s.db.QueryContext(ctx, selectFixtures)
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
			return memory.Snapshot{}, errors.Wrap(err, "scan fixtures")
		}
		if len(payload) == 0 {
			continue
		}
		if target, ok := targets[bucket]; ok {
			if err := json.Unmarshal(payload, target); err != nil {
				return memory.Snapshot{}, errors.Wrapf(err, "decode %s", bucket)
			}
		}
	}
	if err := rows.Err(); err != nil {
		return memory.Snapshot{}, errors.Wrap(err, "iterate fixtures")
	}
	return snapshot, nil
}

// Save upserts every bucket of snapshot in one transaction.
func (s *Source) Save(ctx context.Context, snapshot memory.Snapshot) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return errors.Wrap(err, "begin tx")
	}
	committed := false
	defer func() {
		if !committed {
			_ = tx.Rollback()
		}
	}()
	values := snapshot.Values()
	for _, bucket := range memory.Buckets {
		data, err := json.Marshal(values[bucket])
		if err != nil {
			return errors.Wrapf(err, "encode %s", bucket)
		}
		if _, err := tx.ExecContext(ctx, upsertFixture, bucket, data); err != nil {
			return errors.Wrapf(err, "upsert %s", bucket)
		}
	}
	if err := tx.Commit(); err != nil {
		return errors.Wrap(err, "commit")
	}
	committed = true
	return nil
}

// Describe names the source for logs.
func (s *Source) Describe() string { return "postgres:fixtures" }

// DB exposes the underlying sql.DB.
func (s *Source) DB() *sql.DB { return s.db }

// Close releases the connection pool.
func (s *Source) Close() error { return s.db.Close() }

// OverrideSQLOpen swaps the sqlOpen function for tests and returns a restore function.
func OverrideSQLOpen(fn func(driverName, dataSourceName string) (*sql.DB, error)) func() {
	openMu.Lock()
	defer openMu.Unlock()
	prev := sqlOpen
	sqlOpen = fn
	return func() {
		openMu.Lock()
		defer openMu.Unlock()
		sqlOpen = prev
	}
}
