package postgres

import (
	"context"
	"database/sql"
	"regexp"
	"testing"

	"limsmock/internal/infra/persistence/memory"
	"limsmock/pkg/domain"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/cockroachdb/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func openMock(t *testing.T) (*Source, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	var gotDriver, gotDSN string
	restore := OverrideSQLOpen(func(driver, dsn string) (*sql.DB, error) {
		gotDriver, gotDSN = driver, dsn
		return db, nil
	})
	t.Cleanup(restore)

	mock.ExpectExec(regexp.QuoteMeta("CREATE TABLE IF NOT EXISTS fixtures")).
		WillReturnResult(sqlmock.NewResult(0, 0))
	src, err := Open(context.Background(), "")
	require.NoError(t, err)
	assert.Equal(t, "pgx", gotDriver)
	assert.Equal(t, defaultDSN, gotDSN)
	return src, mock
}

func TestLoadDecodesBuckets(t *testing.T) {
	src, mock := openMock(t)
	rows := sqlmock.NewRows([]string{"bucket", "payload"}).
		AddRow("projects", []byte(`[{"id":"P1","name":"Pilot"}]`)).
		AddRow("samples", []byte(`[{"id":"S1","name":"one","project":"P1"}]`)).
		AddRow("organisms", []byte(`[1]`)).
		AddRow("artifacts", []byte(nil))
	mock.ExpectQuery(regexp.QuoteMeta(selectFixtures)).WillReturnRows(rows)

	snap, err := src.Load(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 2, snap.Len())
	require.Len(t, snap.Samples, 1)
	assert.Equal(t, "P1", snap.Samples[0].Project.ID())
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestLoadDecodeError(t *testing.T) {
	src, mock := openMock(t)
	mock.ExpectQuery(regexp.QuoteMeta(selectFixtures)).
		WillReturnRows(sqlmock.NewRows([]string{"bucket", "payload"}).AddRow("processes", []byte(`{`)))

	_, err := src.Load(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "decode processes")
}

func TestSaveUpsertsEveryBucket(t *testing.T) {
	src, mock := openMock(t)
	mock.ExpectBegin()
	for _, bucket := range memory.Buckets {
		mock.ExpectExec(regexp.QuoteMeta(upsertFixture)).
			WithArgs(bucket, sqlmock.AnyArg()).
			WillReturnResult(sqlmock.NewResult(0, 1))
	}
	mock.ExpectCommit()

	err := src.Save(context.Background(), memory.Snapshot{Projects: []domain.Project{{ID: "P1"}}})
	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSaveRollsBackOnError(t *testing.T) {
	src, mock := openMock(t)
	mock.ExpectBegin()
	mock.ExpectExec(regexp.QuoteMeta(upsertFixture)).
		WithArgs(memory.BucketReagentLabels, sqlmock.AnyArg()).
		WillReturnError(errors.New("disk full"))
	mock.ExpectRollback()

	err := src.Save(context.Background(), memory.Snapshot{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "upsert reagent_labels")
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestOpenFailures(t *testing.T) {
	restore := OverrideSQLOpen(func(_, _ string) (*sql.DB, error) { return nil, errors.New("no driver") })
	_, err := Open(context.Background(), "postgres://x")
	restore()
	require.Error(t, err)

	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	restore = OverrideSQLOpen(func(_, _ string) (*sql.DB, error) { return db, nil })
	defer restore()
	mock.ExpectExec(regexp.QuoteMeta("CREATE TABLE")).WillReturnError(errors.New("permission denied"))
	_, err = Open(context.Background(), "postgres://x")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "ensure fixtures table")
}
