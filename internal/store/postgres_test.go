package store

import (
	"context"
	"testing"

	"github.com/jackc/pgx/v5"
	"github.com/pashagolub/pgxmock/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/prairie-data/wellscan/internal/model"
)

// anyArgs builds n wildcard argument matchers for pgxmock expectations.
func anyArgs(n int) []any {
	args := make([]any, n)
	for i := range args {
		args[i] = pgxmock.AnyArg()
	}
	return args
}

// newMockPostgresStore creates a PostgresStore backed by pgxmock for unit testing.
func newMockPostgresStore(t *testing.T) (*PostgresStore, pgxmock.PgxPoolIface) {
	t.Helper()
	mock, err := pgxmock.NewPool(pgxmock.QueryMatcherOption(pgxmock.QueryMatcherRegexp))
	require.NoError(t, err)
	t.Cleanup(func() { mock.Close() })

	s := &PostgresStore{pool: mock}
	return s, mock
}

func TestPostgresStore_GetWell_NotFound(t *testing.T) {
	s, mock := newMockPostgresStore(t)

	mock.ExpectQuery(`SELECT id, api_number`).
		WithArgs(int64(999)).
		WillReturnError(pgx.ErrNoRows)

	got, err := s.GetWell(context.Background(), 999)
	require.NoError(t, err)
	assert.Nil(t, got)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresStore_UpsertWell_ReplacesStimRows(t *testing.T) {
	s, mock := newMockPostgresStore(t)

	mock.ExpectBegin()
	mock.ExpectQuery(`INSERT INTO wells`).
		WithArgs(anyArgs(16)...).
		WillReturnRows(pgxmock.NewRows([]string{"id"}).AddRow(int64(7)))
	mock.ExpectExec(`DELETE FROM stimulation_data`).
		WithArgs(int64(7)).
		WillReturnResult(pgxmock.NewResult("DELETE", 2))
	mock.ExpectExec(`INSERT INTO stimulation_data`).
		WithArgs(anyArgs(14)...).
		WillReturnResult(pgxmock.NewResult("INSERT", 1))
	mock.ExpectCommit()

	id, err := s.UpsertWell(context.Background(), sampleWell())
	require.NoError(t, err)
	assert.Equal(t, int64(7), id)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresStore_UpsertWell_RollsBackOnStimFailure(t *testing.T) {
	s, mock := newMockPostgresStore(t)

	mock.ExpectBegin()
	mock.ExpectQuery(`INSERT INTO wells`).
		WithArgs(anyArgs(16)...).
		WillReturnRows(pgxmock.NewRows([]string{"id"}).AddRow(int64(7)))
	mock.ExpectExec(`DELETE FROM stimulation_data`).
		WithArgs(int64(7)).
		WillReturnResult(pgxmock.NewResult("DELETE", 0))
	mock.ExpectExec(`INSERT INTO stimulation_data`).
		WithArgs(anyArgs(14)...).
		WillReturnError(assert.AnError)
	mock.ExpectRollback()

	_, err := s.UpsertWell(context.Background(), sampleWell())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "insert stim row")
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresStore_ListWellsWithCoords(t *testing.T) {
	s, mock := newMockPostgresStore(t)

	name := "Smith Federal 12-34"
	api := "33-053-06755"
	county := "McKenzie"
	lat := 47.123456
	lon := -102.5678

	mock.ExpectQuery(`SELECT id, well_name, api_number, latitude, longitude, county`).
		WillReturnRows(pgxmock.NewRows(
			[]string{"id", "well_name", "api_number", "latitude", "longitude", "county"}).
			AddRow(int64(1), &name, &api, &lat, &lon, &county))

	wells, err := s.ListWellsWithCoords(context.Background())
	require.NoError(t, err)
	require.Len(t, wells, 1)
	assert.Equal(t, "Smith Federal 12-34", wells[0].WellName)
	require.NotNil(t, wells[0].Latitude)
	assert.InDelta(t, 47.123456, *wells[0].Latitude, 1e-9)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresStore_UpdateEnrichment_NotFound(t *testing.T) {
	s, mock := newMockPostgresStore(t)

	mock.ExpectExec(`UPDATE wells SET well_status`).
		WithArgs("ACTIVE", "N/A", "N/A", "0", "0", "", int64(42)).
		WillReturnResult(pgxmock.NewResult("UPDATE", 0))

	err := s.UpdateEnrichment(context.Background(), 42, &model.Enrichment{WellStatus: "ACTIVE"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "well not found: 42")
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresStore_FinishRun_NotFound(t *testing.T) {
	s, mock := newMockPostgresStore(t)

	mock.ExpectExec(`UPDATE extraction_runs`).
		WithArgs(anyArgs(6)...).
		WillReturnResult(pgxmock.NewResult("UPDATE", 0))

	err := s.FinishRun(context.Background(), &model.ExtractionRun{ID: "no-such-run"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "run not found")
	assert.NoError(t, mock.ExpectationsWereMet())
}
