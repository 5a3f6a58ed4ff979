package blob

import (
	"context"
	"strings"
	"testing"

	"limsmock/internal/blob/core"
	"limsmock/internal/config"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOpenDrivers(t *testing.T) {
	ctx := context.Background()

	fs, err := Open(ctx, config.Blob{FSRoot: t.TempDir()})
	require.NoError(t, err)
	assert.Equal(t, core.DriverFilesystem, fs.Driver())

	mem, err := Open(ctx, config.Blob{Driver: "memory"})
	require.NoError(t, err)
	assert.Equal(t, core.DriverMemory, mem.Driver())

	s3, err := Open(ctx, config.Blob{Driver: "s3", S3: config.S3{Bucket: "lab", Region: "eu-north-1", Endpoint: "http://127.0.0.1:9000", PathStyle: true}})
	require.NoError(t, err)
	assert.Equal(t, core.DriverS3, s3.Driver())
}

func TestOpenErrors(t *testing.T) {
	ctx := context.Background()
	_, err := Open(ctx, config.Blob{Driver: "gcs"})
	require.Error(t, err)

	_, err = Open(ctx, config.Blob{Driver: "s3"})
	require.Error(t, err, "bucket is required")
}

func TestMockS3RoundTrip(t *testing.T) {
	ctx := context.Background()
	s := NewMockS3ForTests()
	_, err := s.Put(ctx, "seed.json", strings.NewReader("{}"), core.PutOptions{})
	require.NoError(t, err)
	infos, err := s.List(ctx, "")
	require.NoError(t, err)
	require.Len(t, infos, 1)
	assert.Equal(t, "seed.json", infos[0].Key)
}
