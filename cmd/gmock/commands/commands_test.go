package commands

import (
	"bytes"
	"context"
	"encoding/json"
	"net"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"limsmock/internal/config"
	"limsmock/internal/core"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

const labYAML = `projects:
  - id: P1
    name: Pilot
process_types:
  - id: pt-seq
    name: Sequencing
processes:
  - id: 24-1
    type: pt-seq
    input_output_maps:
      - input: art-1
        output: {artifact: art-2, type: ResultFile}
artifacts:
  - id: art-1
    name: ACC1A1
    type: Analyte
  - id: art-2
    name: ACC1A1 fastq
    type: ResultFile
    parent_process: 24-1
samples:
  - id: ACC1A1
    name: first
    project: P1
  - id: ACC1A2
    name: second
    project: P1
`

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	root := NewRootCmd()
	var out bytes.Buffer
	root.SetOut(&out)
	root.SetErr(&out)
	root.SetArgs(args)
	err := root.Execute()
	return out.String(), err
}

func writeFixture(t *testing.T, name string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(labYAML), 0o600))
	return path
}

func TestNameDefault(t *testing.T) {
	out, err := run(t, "name")
	require.NoError(t, err)
	assert.Equal(t, "genologics_mock\n", out)
}

func TestNameFromEnv(t *testing.T) {
	t.Setenv("GMOCK_APP_NAME", "lims_from_env")
	out, err := run(t, "name")
	require.NoError(t, err)
	assert.Equal(t, "lims_from_env\n", out)
}

func TestNameFromConfigFile(t *testing.T) {
	cfgPath := filepath.Join(t.TempDir(), "gmock.toml")
	require.NoError(t, os.WriteFile(cfgPath, []byte("[app]\nname = \"lims_from_file\"\n"), 0o600))
	out, err := run(t, "--config", cfgPath, "name")
	require.NoError(t, err)
	assert.Equal(t, "lims_from_file\n", out)
}

func TestNameRejectsArgs(t *testing.T) {
	_, err := run(t, "name", "extra")
	require.Error(t, err)
}

func TestVersion(t *testing.T) {
	out, err := run(t, "version")
	require.NoError(t, err)
	assert.Contains(t, out, "gmock dev")
}

func TestFixturesPushAndCheckSQLite(t *testing.T) {
	t.Setenv("GMOCK_FIXTURES_SOURCE", "sqlite")
	t.Setenv("GMOCK_FIXTURES_SQLITE_PATH", filepath.Join(t.TempDir(), "lab.db"))

	out, err := run(t, "fixtures", "push", writeFixture(t, "lab.yaml"))
	require.NoError(t, err)
	assert.Contains(t, out, "pushed 7 entities to sqlite:")

	out, err = run(t, "fixtures", "check")
	require.NoError(t, err)
	assert.Regexp(t, `sample\s+2`, out)
	assert.Regexp(t, `artifact\s+2`, out)
	assert.Regexp(t, `container\s+0`, out)
}

func TestFixturesPushBlobIsCreateOnly(t *testing.T) {
	t.Setenv("GMOCK_FIXTURES_SOURCE", "blob")
	t.Setenv("GMOCK_BLOB_FS_ROOT", t.TempDir())
	file := writeFixture(t, "lab.yaml")

	out, err := run(t, "fixtures", "push", file, "lab/seed.yaml")
	require.NoError(t, err)
	assert.Contains(t, out, "blob:fs/lab/seed.yaml")

	_, err = run(t, "fixtures", "push", file, "lab/seed.yaml")
	require.Error(t, err)

	out, err = run(t, "fixtures", "check", "lab/seed.yaml")
	require.NoError(t, err)
	assert.Regexp(t, `process\s+1`, out)
}

func TestFixturesRequireSource(t *testing.T) {
	_, err := run(t, "fixtures", "push", writeFixture(t, "lab.yaml"))
	require.Error(t, err)
	_, err = run(t, "fixtures", "check")
	require.Error(t, err)
}

func seededApp(t *testing.T, metrics bool) *app {
	t.Helper()
	root := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(root, "seed.yaml"), []byte(labYAML), 0o600))
	cfg, err := config.Load("")
	require.NoError(t, err)
	cfg.Fixtures.Source = config.SourceBlob
	cfg.Fixtures.Key = "seed.yaml"
	cfg.Blob.FSRoot = root
	cfg.Metrics.Enabled = metrics
	return &app{cfg: cfg, log: zap.NewNop()}
}

func TestBuildServerServesSeededSamples(t *testing.T) {
	handler, lims, err := seededApp(t, true).buildServer(context.Background())
	require.NoError(t, err)
	require.NotNil(t, lims)

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/samples?format=json", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	var payload struct {
		Samples []struct {
			ID string `json:"id"`
		} `json:"samples"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &payload))
	require.Len(t, payload.Samples, 2)
	assert.Equal(t, "ACC1A1", payload.Samples[0].ID)

	rec = httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/samples/ACC1A2/", nil))
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `limsmock_queries_total{entity="sample"} 1`)
}

func TestBuildServerWithoutFixturesOrMetrics(t *testing.T) {
	a := seededApp(t, false)
	a.cfg.Fixtures.Source = config.SourceNone
	handler, lims, err := a.buildServer(context.Background())
	require.NoError(t, err)
	assert.Empty(t, lims.GetSamples(core.SampleQuery{}))

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestBuildServerMissingFixture(t *testing.T) {
	a := seededApp(t, false)
	a.cfg.Fixtures.Key = "absent.json"
	_, _, err := a.buildServer(context.Background())
	require.Error(t, err)
}

func TestServeStopsOnCancel(t *testing.T) {
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	ctx, cancel := context.WithCancel(context.Background())
	srv := &http.Server{Handler: http.NotFoundHandler(), ReadHeaderTimeout: time.Second}

	done := make(chan error, 1)
	go func() { done <- serve(ctx, srv, ln, zap.NewNop()) }()

	resp, err := http.Get("http://" + ln.Addr().String() + "/")
	require.NoError(t, err)
	_ = resp.Body.Close()
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)

	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("serve did not return after cancel")
	}
}
