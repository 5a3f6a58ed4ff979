package fs

import (
	"context"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"limsmock/internal/blob/core"

	"github.com/cockroachdb/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSanitizeKeyErrors(t *testing.T) {
	for _, k := range []string{"", "  ", "../escape", "/abs", "a/../b"} {
		_, err := sanitizeKey(k)
		assert.Error(t, err, "key %q", k)
	}
	k, err := sanitizeKey("lab/./seed.json")
	require.NoError(t, err)
	assert.Equal(t, "lab/seed.json", k)
}

func TestPutGetList(t *testing.T) {
	ctx := context.Background()
	s, err := New(t.TempDir())
	require.NoError(t, err)
	assert.Equal(t, core.DriverFilesystem, s.Driver())

	info, err := s.Put(ctx, "lab/seed.json", strings.NewReader(`{"projects":[]}`), core.PutOptions{})
	require.NoError(t, err)
	assert.Equal(t, "lab/seed.json", info.Key)
	assert.Equal(t, int64(15), info.Size)
	assert.NotEmpty(t, info.ETag)
	assert.Contains(t, info.ContentType, "json")

	_, err = s.Put(ctx, "lab/seed.json", strings.NewReader("x"), core.PutOptions{})
	assert.True(t, errors.Is(err, core.ErrExists))

	_, rc, err := s.Get(ctx, "lab/seed.json")
	require.NoError(t, err)
	body, err := io.ReadAll(rc)
	require.NoError(t, err)
	require.NoError(t, rc.Close())
	assert.Equal(t, `{"projects":[]}`, string(body))

	_, _, err = s.Get(ctx, "lab/other.json")
	assert.True(t, errors.Is(err, core.ErrNotFound))

	infos, err := s.List(ctx, "lab/")
	require.NoError(t, err)
	require.Len(t, infos, 1)
	assert.Equal(t, "lab/seed.json", infos[0].Key)
}

func TestReadsHandWrittenFiles(t *testing.T) {
	root := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(root, "seed.yaml"), []byte("samples: []\n"), 0o600))
	require.NoError(t, os.WriteFile(filepath.Join(root, ".tmp-123"), []byte("partial"), 0o600))
	s, err := New(root)
	require.NoError(t, err)

	infos, err := s.List(context.Background(), "")
	require.NoError(t, err)
	require.Len(t, infos, 1)
	assert.Equal(t, "seed.yaml", infos[0].Key)
	assert.Equal(t, root, s.Root())
}
