package fixture

import (
	"bytes"
	"context"

	"limsmock/internal/blob"
	"limsmock/internal/blob/core"
	"limsmock/internal/config"
	"limsmock/internal/infra/persistence/memory"
	"limsmock/internal/infra/persistence/postgres"
	"limsmock/internal/infra/persistence/sqlite"

	"github.com/cockroachdb/errors"
	"go.uber.org/zap"
)

// Source yields one fixture snapshot.
type Source interface {
	Load(ctx context.Context) (memory.Snapshot, error)
	Save(ctx context.Context, snap memory.Snapshot) error
	Describe() string
	Close() error
}

// ErrNoSource is returned by Open when fixtures.source is "none".
var ErrNoSource = errors.New("no fixture source configured")

// BlobSource reads a single fixture document from a blob store.
type BlobSource struct {
	Store core.Store
	Key   string
}

// Load fetches and decodes the document at Key.
func (b BlobSource) Load(ctx context.Context) (memory.Snapshot, error) {
	_, rc, err := b.Store.Get(ctx, b.Key)
	if err != nil {
		return memory.Snapshot{}, errors.Wrapf(err, "fetch fixture %s", b.Key)
	}
	defer func() { _ = rc.Close() }()
	return Decode(rc, FormatFor(b.Key))
}

// Save uploads snap under Key. Blob keys are create-only.
func (b BlobSource) Save(ctx context.Context, snap memory.Snapshot) error {
	f := FormatFor(b.Key)
	var buf bytes.Buffer
	if err := Encode(&buf, snap, f); err != nil {
		return err
	}
	if _, err := b.Store.Put(ctx, b.Key, &buf, core.PutOptions{ContentType: f.ContentType()}); err != nil {
		return errors.Wrapf(err, "upload fixture %s", b.Key)
	}
	return nil
}

// Describe names the source for logs.
func (b BlobSource) Describe() string { return "blob:" + string(b.Store.Driver()) + "/" + b.Key }

// Close is a no-op; blob stores hold no connections.
func (BlobSource) Close() error { return nil }

// Open builds the source selected by cfg.Fixtures.Source.
func Open(ctx context.Context, cfg *config.Config) (Source, error) {
	switch cfg.Fixtures.Source {
	case config.SourceNone, "":
		return nil, ErrNoSource
	case config.SourceBlob:
		store, err := blob.Open(ctx, cfg.Blob)
		if err != nil {
			return nil, err
		}
		return BlobSource{Store: store, Key: cfg.Fixtures.Key}, nil
	case config.SourceSQLite:
		src, err := sqlite.Open(cfg.Fixtures.SQLitePath)
		if err != nil {
			return nil, err
		}
		return src, nil
	case config.SourcePostgres:
		src, err := postgres.Open(ctx, cfg.Fixtures.PostgresDSN)
		if err != nil {
			return nil, err
		}
		return src, nil
	default:
		return nil, errors.Newf("unknown fixture source %q", cfg.Fixtures.Source)
	}
}

// Seed loads src and appends its contents to store.
func Seed(ctx context.Context, src Source, store *memory.Store, log *zap.Logger) (memory.Snapshot, error) {
	if log == nil {
		log = zap.NewNop()
	}
	snap, err := src.Load(ctx)
	if err != nil {
		return memory.Snapshot{}, errors.Wrapf(err, "load fixtures from %s", src.Describe())
	}
	store.ImportState(snap)
	log.Info("fixtures loaded",
		zap.String("source", src.Describe()),
		zap.Int("entities", snap.Len()),
		zap.Int("samples", len(snap.Samples)),
		zap.Int("artifacts", len(snap.Artifacts)),
		zap.Int("processes", len(snap.Processes)),
	)
	return snap, nil
}
