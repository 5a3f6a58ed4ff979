// Package blob selects the blob backend fixture documents are read from.
// Only this package imports the infra implementations; everything else
// depends on core.Store.
package blob

import (
	"context"

	"limsmock/internal/blob/core"
	"limsmock/internal/config"
	infraFS "limsmock/internal/infra/blob/fs"
	infraMemory "limsmock/internal/infra/blob/memory"
	infraS3 "limsmock/internal/infra/blob/s3"

	"github.com/cockroachdb/errors"
)

// Store is the blob storage abstraction.
type Store = core.Store

// Open builds the backend named by cfg.Driver (default fs).
func Open(ctx context.Context, cfg config.Blob) (Store, error) {
	driver := core.Driver(cfg.Driver)
	if driver == "" {
		driver = core.DriverFilesystem
	}
	switch driver {
	case core.DriverFilesystem:
		return infraFS.New(cfg.FSRoot)
	case core.DriverMemory:
		return infraMemory.New(), nil
	case core.DriverS3:
		return infraS3.New(ctx, infraS3.Config{
			Region:          cfg.S3.Region,
			Bucket:          cfg.S3.Bucket,
			Endpoint:        cfg.S3.Endpoint,
			AccessKeyID:     cfg.S3.AccessKeyID,
			SecretAccessKey: cfg.S3.SecretAccessKey,
			PathStyle:       cfg.S3.PathStyle,
		})
	default:
		return nil, errors.Newf("unknown blob driver %q", cfg.Driver)
	}
}

// NewMemory returns an in-memory store.
func NewMemory() Store { return infraMemory.New() }

// NewMockS3ForTests exposes the in-process S3 mock for cross-package tests.
func NewMockS3ForTests() Store { return infraS3.NewMockForTests(0) }
