package sqlite

import (
	"context"
	"path/filepath"
	"testing"

	"limsmock/internal/infra/persistence/memory"
	"limsmock/pkg/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func openTemp(t *testing.T) *Source {
	t.Helper()
	src, err := Open(filepath.Join(t.TempDir(), "nested", "lab.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = src.Close() })
	return src
}

func TestLoadEmpty(t *testing.T) {
	src := openTemp(t)
	snap, err := src.Load(context.Background())
	require.NoError(t, err)
	assert.Zero(t, snap.Len())
	assert.Contains(t, src.Describe(), "lab.db")
}

func TestSaveAndLoad(t *testing.T) {
	ctx := context.Background()
	src := openTemp(t)

	proc := domain.NewProcess("24-1", domain.Unresolved[domain.ProcessType]("pt-1"))
	proc.IOMappings = []domain.IOMapping{{
		Input:  domain.Unresolved[domain.Artifact]("in-1"),
		Output: &domain.Output{Artifact: domain.Unresolved[domain.Artifact]("out-1"), Type: domain.KindResultFile},
	}}
	want := memory.Snapshot{
		Projects:     []domain.Project{{ID: "P1", Name: "Pilot"}},
		ProcessTypes: []domain.ProcessType{{ID: "pt-1", Name: "Library prep"}},
		Processes:    []domain.Process{proc},
		Samples:      []domain.Sample{domain.NewSample("S1", "one")},
	}
	require.NoError(t, src.Save(ctx, want))

	got, err := src.Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, 4, got.Len())
	require.Len(t, got.Processes, 1)
	require.Len(t, got.Processes[0].IOMappings, 1)
	assert.Equal(t, "out-1", got.Processes[0].IOMappings[0].Output.Artifact.ID())
	assert.Equal(t, "Pilot", got.Projects[0].Name)

	// Save overwrites buckets rather than appending.
	require.NoError(t, src.Save(ctx, memory.Snapshot{Projects: []domain.Project{{ID: "P2"}}}))
	got, err = src.Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, got.Len())
	assert.Equal(t, "P2", got.Projects[0].ID)
}

func TestLoadRejectsCorruptPayload(t *testing.T) {
	src := openTemp(t)
	_, err := src.db.Exec(`INSERT INTO fixtures(bucket,payload) VALUES('samples', ?)`, []byte("{not json"))
	require.NoError(t, err)
	_, err = src.Load(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "decode samples")
}

func TestLoadIgnoresUnknownBuckets(t *testing.T) {
	src := openTemp(t)
	_, err := src.db.Exec(`INSERT INTO fixtures(bucket,payload) VALUES('organisms', ?)`, []byte("[1]"))
	require.NoError(t, err)
	snap, err := src.Load(context.Background())
	require.NoError(t, err)
	assert.Zero(t, snap.Len())
}
